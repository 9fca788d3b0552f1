package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// bindErrorMessage turns a gin binding error into a client-facing message.
// Validator failures get field-level detail; anything else (malformed JSON,
// type mismatches) falls back to the raw error.
func bindErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request format: " + err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field '%s' is required", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("field '%s' must be one of: %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("field '%s' failed validation '%s'", fe.Field(), fe.Tag()))
		}
	}
	return "Validation failed: " + strings.Join(msgs, "; ")
}
