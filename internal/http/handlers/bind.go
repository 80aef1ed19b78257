package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pearl-backend/internal/platform/apierr"
)

const DefaultMaxTextBytes = 20000

var errBodyTooLarge = errors.New("request body too large")

// bindJSON decodes the body into out, capping it at limit bytes.
func bindJSON(c *gin.Context, limit int64, out any) error {
	if limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}
	if err := c.ShouldBindJSON(out); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return apierr.New(http.StatusRequestEntityTooLarge, "payload_too_large", errBodyTooLarge)
		}
		return apierr.BadRequest("invalid_request", fmt.Errorf("invalid JSON body: %w", err))
	}
	return nil
}

// requireText rejects blank fields and text longer than maxBytes.
func requireText(field, value string, maxBytes int) error {
	if strings.TrimSpace(value) == "" {
		return apierr.BadRequest("invalid_request", fmt.Errorf("%s is required", field))
	}
	if maxBytes > 0 && len(value) > maxBytes {
		return apierr.New(http.StatusRequestEntityTooLarge, "payload_too_large",
			fmt.Errorf("%s exceeds %d bytes", field, maxBytes))
	}
	return nil
}

// bodyLimit leaves room for JSON framing and the optional list fields around
// a maximal text field.
func bodyLimit(maxTextBytes int) int64 {
	if maxTextBytes <= 0 {
		maxTextBytes = DefaultMaxTextBytes
	}
	return int64(maxTextBytes)*2 + 64<<10
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
