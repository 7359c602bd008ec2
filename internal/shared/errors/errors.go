// Package errors defines the application error taxonomy and its HTTP mapping.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation_error"
	ErrorTypeBadRequest    ErrorType = "bad_request"
	ErrorTypeUnauthorized  ErrorType = "unauthorized"
	ErrorTypeForbidden     ErrorType = "forbidden"
	ErrorTypeNotFound      ErrorType = "not_found"
	ErrorTypeQuotaExceeded ErrorType = "quota_exceeded"
	ErrorTypeConflict      ErrorType = "conflict"
	ErrorTypeDownstream    ErrorType = "downstream_error"
	ErrorTypeInternal      ErrorType = "internal_error"
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError carries a client-safe message. Cause is logged, never returned to the caller.
type AppError struct {
	Type    ErrorType
	Message string
	Code    int
	Fields  []FieldError
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func newError(t ErrorType, code int, message string) *AppError {
	return &AppError{Type: t, Message: message, Code: code}
}

func NewValidationError(message string, fields ...FieldError) *AppError {
	e := newError(ErrorTypeValidation, http.StatusBadRequest, message)
	e.Fields = fields
	return e
}

func NewBadRequestError(message string) *AppError {
	return newError(ErrorTypeBadRequest, http.StatusBadRequest, message)
}

func NewUnauthorizedError(message string) *AppError {
	return newError(ErrorTypeUnauthorized, http.StatusUnauthorized, message)
}

func NewForbiddenError(message string) *AppError {
	return newError(ErrorTypeForbidden, http.StatusForbidden, message)
}

func NewNotFoundError(message string) *AppError {
	return newError(ErrorTypeNotFound, http.StatusNotFound, message)
}

func NewQuotaExceededError(message string) *AppError {
	return newError(ErrorTypeQuotaExceeded, http.StatusForbidden, message)
}

func NewConflictError(message string) *AppError {
	return newError(ErrorTypeConflict, http.StatusConflict, message)
}

// NewDownstreamError wraps a failure of an external collaborator.
func NewDownstreamError(message string, cause error) *AppError {
	e := newError(ErrorTypeDownstream, http.StatusInternalServerError, message)
	e.Cause = cause
	return e
}

func NewInternalError(message string, cause error) *AppError {
	e := newError(ErrorTypeInternal, http.StatusInternalServerError, message)
	e.Cause = cause
	return e
}

func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func IsType(err error, t ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == t
}

func IsNotFound(err error) bool      { return IsType(err, ErrorTypeNotFound) }
func IsForbidden(err error) bool     { return IsType(err, ErrorTypeForbidden) }
func IsQuotaExceeded(err error) bool { return IsType(err, ErrorTypeQuotaExceeded) }
func IsValidation(err error) bool    { return IsType(err, ErrorTypeValidation) }
func IsDownstream(err error) bool    { return IsType(err, ErrorTypeDownstream) }

// FromBinding turns a gin binding error into a validation error listing every bad field.
func FromBinding(err error, message string) *AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{Field: fieldPath(fe), Message: describe(fe)})
		}
		return NewValidationError(message, fields...)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return NewValidationError(message, FieldError{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("expected %s", typeErr.Type.String()),
		})
	}

	return NewValidationError(message, FieldError{Field: "body", Message: "malformed JSON"})
}

// UseJSONFieldNames makes validator report json tag names instead of struct field names.
func UseJSONFieldNames(v *validator.Validate) {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return "must be a valid email address"
	case "url", "urlorempty":
		return "must be a valid URL"
	case "toneorempty":
		return "must be a valid tone"
	case "uuid":
		return "must be a valid id"
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
