package response

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Response is the body of every /api/contact reply.
type Response struct {
	Message string `json:"message"`
}

func Message(msg string) Response {
	return Response{Message: msg}
}

// MissingFields lists the JSON names of fields that failed validation.
func MissingFields(errs validator.ValidationErrors) string {
	fields := make([]string, 0, len(errs))

	for _, err := range errs {
		fields = append(fields, err.Field())
	}

	return strings.Join(fields, ",")
}
