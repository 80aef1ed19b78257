package gcp

import (
	"strings"

	"google.golang.org/api/option"
)

// ClientOptions turns a credentials value into client options. A value that
// starts with "{" is inline JSON, anything else is a file path. Both empty
// means application default credentials.
func ClientOptions(credentialsFile, credentialsJSON string) []option.ClientOption {
	if js := strings.TrimSpace(credentialsJSON); js != "" {
		if strings.HasPrefix(js, "{") {
			return []option.ClientOption{option.WithCredentialsJSON([]byte(js))}
		}
		credentialsFile = js
	}
	if f := strings.TrimSpace(credentialsFile); f != "" {
		if strings.HasPrefix(f, "{") {
			return []option.ClientOption{option.WithCredentialsJSON([]byte(f))}
		}
		return []option.ClientOption{option.WithCredentialsFile(f)}
	}
	return nil
}
