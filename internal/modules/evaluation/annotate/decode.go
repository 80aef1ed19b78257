package annotate

import (
	"errors"

	"github.com/yungbote/pearl-backend/internal/modules/evaluation/spans"
	"github.com/yungbote/pearl-backend/internal/modules/evaluation/strictjson"
)

type grammarReply struct {
	Errors *[]spans.RawFinding `json:"errors"`
}

var errMissingErrors = errors.New(`reply has no "errors" array`)

// decodeReply strictly parses the grammar_check reply.
func decodeReply(raw string) ([]spans.RawFinding, error) {
	var reply grammarReply
	if err := strictjson.Decode(raw, &reply); err != nil {
		return nil, err
	}
	if reply.Errors == nil {
		return nil, errMissingErrors
	}
	return *reply.Errors, nil
}
