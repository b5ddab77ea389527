package services

import (
	"errors"
	"fmt"

	"github.com/samber/oops"
)

// Error codes attached to service failures.
const (
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeValidation         = "VALIDATION_FAILED"
	CodeConflict           = "CONFLICT"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeTaskNotFound       = "TASK_NOT_FOUND"
	CodeMissingSecret      = "MISSING_SECRET"
	CodeStoreFailure       = "STORE_FAILURE"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTaskNotFound       = errors.New("task not found")
	ErrMissingSecret      = errors.New("signing secret is not configured")
)

// validationError rejects a single input field. The field name travels in
// the error context so the HTTP layer can pick a message for it.
func validationError(field, reason string) error {
	return oops.Code(CodeValidation).
		With("field", field).
		Wrapf(ErrValidation, "%s: %s", field, reason)
}

func storeError(operation string, err error, kv ...any) error {
	return oops.Code(CodeStoreFailure).
		With("operation", operation).
		With(kv...).
		Wrap(err)
}

// InvalidField returns the rejected field of a validation error, or "".
func InvalidField(err error) string {
	if !errors.Is(err, ErrValidation) {
		return ""
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	field, _ := oopsErr.Context()["field"].(string)
	return field
}

func missingField(field string) error {
	return validationError(field, fmt.Sprintf("%s is required", field))
}
