package failure

import (
	"errors"
	"net/http"
)

const (
	TypeValidation       = "validation"
	TypeConflict         = "conflict"
	TypeNotFound         = "not_found"
	TypeAlreadyCancelled = "already_cancelled"
	TypeCollaborator     = "collaborator"
	TypeStorage          = "storage"
	TypeForbidden        = "forbidden"
	TypeInternal         = "internal"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
// Type classifies the failure independently of the transport.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

var InvalidPageParam = &Failure{Code: http.StatusBadRequest, Message: "invalid page parameter", Type: TypeValidation}
var InvalidLimitParam = &Failure{Code: http.StatusBadRequest, Message: "invalid limit parameter", Type: TypeValidation}
var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions", Type: TypeForbidden}

// Error returns the error message.
func (e *Failure) Error() string {
	return e.Message
}

// Is reports whether target is a Failure of the same type, so that
// errors.Is(err, &Failure{Type: TypeConflict}) matches any conflict.
func (e *Failure) Is(target error) bool {
	var fail *Failure
	if !errors.As(target, &fail) || fail.Type == "" {
		return false
	}

	return e.Type == fail.Type
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
			Type:    TypeValidation,
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Message: msg,
		Type:    TypeValidation,
	}
}

// InternalError returns a new Failure with code for internal error and message derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
			Type:    TypeInternal,
		}
	}

	return nil
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Message: entityName,
		Type:    TypeNotFound,
	}
}

// Conflict returns a new Failure with code for conflict situations.
func Conflict(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Message: message,
		Type:    TypeConflict,
	}
}

// AlreadyCancelled signals a repeated cancellation. Callers that retry may treat it as success.
func AlreadyCancelled(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Message: message,
		Type:    TypeAlreadyCancelled,
	}
}

func Forbidden(msg string) error {
	return &Failure{
		Code:    http.StatusForbidden,
		Message: msg,
		Type:    TypeForbidden,
	}
}

// Collaborator returns a generic failure for an unreachable external collaborator.
// The cause is not exposed to the caller.
func Collaborator(name string) error {
	return &Failure{
		Code:    http.StatusBadGateway,
		Message: name + " is unavailable",
		Type:    TypeCollaborator,
	}
}

// Storage returns a generic failure for a persistence fault. The cause is not exposed to the caller.
func Storage(operation string) error {
	return &Failure{
		Code:    http.StatusInternalServerError,
		Message: "failed to " + operation,
		Type:    TypeStorage,
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetType returns the failure type of an error, or TypeInternal for foreign errors.
func GetType(err error) string {
	var fail *Failure
	if errors.As(err, &fail) && fail.Type != "" {
		return fail.Type
	}

	return TypeInternal
}

// IsType reports whether err is a Failure of the given type.
func IsType(err error, failureType string) bool {
	return err != nil && GetType(err) == failureType
}
