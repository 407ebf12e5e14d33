package api

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/taskmaster-app/taskmaster-cli/internal/common"
)

// ValidationError carries per-field messages from a rejected write, in the
// backend's {"field": ["message", ...]} shape. It matches
// common.ErrValidation under errors.Is.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return common.ErrValidation.Error()
	}

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(e.Fields[name], "; ")))
	}
	return "validation error: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error {
	return common.ErrValidation
}

// parseValidationBody extracts field messages from an error response body.
// The backend emits either {"field": ["msg"]} maps or {"detail": "msg"}.
// An unparseable body produces an empty (but still matching) error.
func parseValidationBody(body []byte) *ValidationError {
	ve := &ValidationError{Fields: map[string][]string{}}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return ve
	}

	for field, value := range raw {
		switch v := value.(type) {
		case string:
			ve.Fields[field] = []string{v}
		case []any:
			msgs := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok {
					msgs = append(msgs, s)
				}
			}
			if len(msgs) > 0 {
				ve.Fields[field] = msgs
			}
		}
	}
	return ve
}
