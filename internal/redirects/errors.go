package redirects

import (
	"errors"
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

var (
	ErrInvalidRedirect   = errors.New("redirects: invalid redirect")
	ErrSourceExists      = errors.New("redirects: source path already redirected")
	ErrDirectLoop        = errors.New("redirects: redirect would loop back directly")
	ErrTransitiveLoop    = errors.New("redirects: redirect would close a loop")
	ErrRedirectNotFound  = errors.New("redirects: redirect not found")
	ErrRedirectExists    = errors.New("redirects: redirect id already in use")
	ErrStoreUnconfigured = errors.New("redirects: store not configured")
)

const (
	CodeInvalid         = "REDIRECT_INVALID"
	CodeSourceExists    = "REDIRECT_SOURCE_EXISTS"
	CodeDirectLoop      = "REDIRECT_DIRECT_LOOP"
	CodeTransitiveLoop  = "REDIRECT_TRANSITIVE_LOOP"
	CodeRedirectMissing = "REDIRECT_NOT_FOUND"
	CodeRedirectExists  = "REDIRECT_EXISTS"
)

// NotFoundError reports a missing redirect.
type NotFoundError struct {
	ID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrRedirectNotFound.Error(), e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrRedirectNotFound }

// ExistsError reports a create that reuses a stored redirect id.
type ExistsError struct {
	ID uuid.UUID
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrRedirectExists.Error(), e.ID)
}

func (e *ExistsError) Unwrap() error { return ErrRedirectExists }

// ConflictError explains why a redirect was rejected.
type ConflictError struct {
	Err             error
	SourcePath      string
	DestinationPath string
	Message         string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) Unwrap() error { return e.Err }

func invalidRedirect(err error) error {
	wrapped := goerrors.Wrap(fmt.Errorf("%w: %w", ErrInvalidRedirect, err), goerrors.CategoryValidation, "redirect is invalid").
		WithCode(http.StatusBadRequest).
		WithTextCode(CodeInvalid)
	var fields validation.Errors
	if errors.As(err, &fields) {
		details := make(map[string]any, len(fields))
		for name, fieldErr := range fields {
			details[name] = fieldErr.Error()
		}
		wrapped = wrapped.WithMetadata(map[string]any{"fields": details})
	}
	return wrapped
}

func conflict(err *ConflictError, code string) error {
	return goerrors.Wrap(err, goerrors.CategoryConflict, err.Message).
		WithCode(http.StatusConflict).
		WithTextCode(code).
		WithMetadata(map[string]any{
			"source_path":      err.SourcePath,
			"destination_path": err.DestinationPath,
		})
}
