package common

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

// Document-level failure kinds. Any of these aborts the whole parse call;
// a batch driver logs the filename and kind, then moves on.
var (
	ErrDocumentInvalid   = errors.New("document container is not parsable")
	ErrDocumentEncrypted = errors.New("document is encrypted")
	ErrDocumentEmpty     = errors.New("document has zero pages")
	ErrOCRUnavailable    = errors.New("ocr required but no backend configured")
	ErrNoExtractableText = errors.New("no extractable text in document")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// gRPC error helpers for a serving layer that exposes parse/search calls.
func InvalidArgumentError(message string) error {
	return status.Error(codes.InvalidArgument, message)
}

func InternalError(message string) error {
	return status.Error(codes.Internal, message)
}

func InvalidArgumentErrorf(format string, args ...interface{}) error {
	return InvalidArgumentError(fmt.Sprintf(format, args...))
}

func InternalErrorf(format string, args ...interface{}) error {
	return InternalError(fmt.Sprintf(format, args...))
}

// GRPCStatus maps a document failure kind to a gRPC status. Unknown errors
// map to Internal.
func GRPCStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrDocumentInvalid),
		errors.Is(err, ErrDocumentEncrypted),
		errors.Is(err, ErrDocumentEmpty):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, ErrOCRUnavailable):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, ErrNoExtractableText):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
