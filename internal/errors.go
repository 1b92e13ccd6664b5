package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedModel the requested model id has no registry entry
	ErrUnsupportedModel = errors.New("unsupported model")
	// ErrBackendUnavailable transport failure or non-success status from a backend
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrUploadFailure an uploaded file could not be written
	ErrUploadFailure = errors.New("upload failure")
	// ErrInvalidInput malformed request
	ErrInvalidInput = errors.New("invalid input")
	// ErrInternal anything else
	ErrInternal = errors.New("internal error")
)

// AppError carries a machine readable code, the detail shown to the client
// and the wrapped cause.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// UserMessage returns the detail string rendered in HTTP responses.
func (e *AppError) UserMessage() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewUnsupportedModelError(modelID string) error {
	return &AppError{
		Code:    "UNSUPPORTED_MODEL",
		Message: fmt.Sprintf("Error generating response: Model '%s' not supported.", modelID),
		Err:     ErrUnsupportedModel,
	}
}

// NewBackendUnavailableError wraps a transport error or a failed status.
// The cause is kept in the user-facing detail.
func NewBackendUnavailableError(cause error) error {
	return &AppError{
		Code:    "BACKEND_UNAVAILABLE",
		Message: fmt.Sprintf("Error communicating with model API: %v", cause),
		Err:     fmt.Errorf("%w: %w", ErrBackendUnavailable, cause),
	}
}

func NewUploadFailureError(cause error) error {
	return &AppError{
		Code:    "UPLOAD_FAILURE",
		Message: fmt.Sprintf("File upload failed: %v", cause),
		Err:     fmt.Errorf("%w: %w", ErrUploadFailure, cause),
	}
}

func NewInvalidInputError(message string) error {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Err:     ErrInvalidInput,
	}
}

func NewInternalError(cause error) error {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: fmt.Sprintf("Error generating response: %v", cause),
		Err:     fmt.Errorf("%w: %w", ErrInternal, cause),
	}
}

func IsUnsupportedModel(err error) bool { return errors.Is(err, ErrUnsupportedModel) }

func IsBackendUnavailable(err error) bool { return errors.Is(err, ErrBackendUnavailable) }

func IsUploadFailure(err error) bool { return errors.Is(err, ErrUploadFailure) }

func IsInvalidInput(err error) bool { return errors.Is(err, ErrInvalidInput) }

// Detail returns the client-facing text for any error. Errors that are not
// AppErrors are reported with their own message.
func Detail(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.UserMessage()
	}
	return err.Error()
}
