package exceptions

import (
	"errors"
	"fmt"
	"medibook-service/internal/pkg/constvars"
	"runtime"
)

// Kind classifies a failure independently of its transport status code.
type Kind string

const (
	KindNotFound          Kind = "NotFound"
	KindConflict          Kind = "Conflict"
	KindForbidden         Kind = "Forbidden"
	KindInvalidStatus     Kind = "InvalidStatus"
	KindInvalidTransition Kind = "InvalidTransition"
	KindValidation        Kind = "Validation"
	KindUnauthorized      Kind = "Unauthorized"
	KindTooManyRequests   Kind = "TooManyRequests"
	KindInternal          Kind = "Internal"
)

var kindCodes = map[Kind]string{
	KindNotFound:          constvars.ErrCodeNotFound,
	KindConflict:          constvars.ErrCodeConflict,
	KindForbidden:         constvars.ErrCodeForbidden,
	KindInvalidStatus:     constvars.ErrCodeInvalidStatus,
	KindInvalidTransition: constvars.ErrCodeInvalidTransition,
	KindValidation:        constvars.ErrCodeValidation,
	KindUnauthorized:      constvars.ErrCodeUnauthorized,
	KindTooManyRequests:   constvars.ErrCodeTooManyRequests,
	KindInternal:          constvars.ErrCodeInternal,
}

// Code returns the stable error code sent to clients.
func (k Kind) Code() string {
	if code, ok := kindCodes[k]; ok {
		return code
	}
	return constvars.ErrCodeInternal
}

type CustomError struct {
	StatusCode    int      `json:"status_code"`
	Success       bool     `json:"success"`
	ClientMessage string   `json:"message"`
	Code          string   `json:"error"`
	Kind          Kind     `json:"-"`
	DevMessage    string   `json:"-"`
	Location      Location `json:"-"`
}

type Location struct {
	File         string
	Line         int
	FunctionName string
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%s (%s:%d %s)", e.DevMessage, e.Location.File, e.Location.Line, e.Location.FunctionName)
}

// BuildNewCustomError records the caller of the named constructor as the error location.
func BuildNewCustomError(err error, kind Kind, statusCode int, clientMessage, devMessage string) *CustomError {
	if err != nil {
		devMessage = fmt.Sprintf("%s: %s", devMessage, err.Error())
	}
	return &CustomError{
		StatusCode:    statusCode,
		ClientMessage: clientMessage,
		Code:          kind.Code(),
		Kind:          kind,
		DevMessage:    devMessage,
		Location:      getLocation(3),
	}
}

// KindOf reports the Kind of err, or KindInternal for errors not built by this package.
func KindOf(err error) Kind {
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func getLocation(skip int) Location {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return Location{
			File:         constvars.ResponseUnknown,
			Line:         0,
			FunctionName: constvars.ResponseUnknown,
		}
	}
	function := runtime.FuncForPC(pc).Name()
	return Location{
		File:         file,
		Line:         line,
		FunctionName: function,
	}
}
