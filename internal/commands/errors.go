package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-pagetree/internal/hierarchy"
	"github.com/goliatone/go-pagetree/internal/redirects"
)

const (
	CodeCommandInvalid   = "COMMAND_INVALID"
	CodeCommandCanceled  = "COMMAND_CANCELED"
	CodeCommandTimeout   = "COMMAND_TIMEOUT"
	CodeCommandFailed    = "COMMAND_FAILED"
	codeDocumentNotFound = "DOCUMENT_NOT_FOUND"
)

func wrapValidationError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "pagetree command is invalid").
		WithTextCode(CodeCommandInvalid)
}

func wrapContextError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return goerrors.Wrap(err, goerrors.CategoryCommand, "pagetree command timed out").
			WithTextCode(CodeCommandTimeout)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "pagetree command canceled").
		WithTextCode(CodeCommandCanceled)
}

// wrapExecuteError keeps errors the hierarchy already categorised and maps
// bare store misses to not-found errors.
func wrapExecuteError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, hierarchy.ErrDocumentNotFound):
		return goerrors.Wrap(err, goerrors.CategoryNotFound, "document not found").
			WithTextCode(codeDocumentNotFound)
	case errors.Is(err, redirects.ErrRedirectNotFound):
		return goerrors.Wrap(err, goerrors.CategoryNotFound, "redirect not found").
			WithTextCode(redirects.CodeRedirectMissing)
	case errors.Is(err, hierarchy.ErrDocumentExists):
		return goerrors.Wrap(err, goerrors.CategoryConflict, "document id already in use").
			WithTextCode(hierarchy.CodeDocumentExists)
	case errors.Is(err, redirects.ErrRedirectExists):
		return goerrors.Wrap(err, goerrors.CategoryConflict, "redirect id already in use").
			WithTextCode(redirects.CodeRedirectExists)
	case errors.Is(err, hierarchy.ErrUnknownCollection):
		return goerrors.Wrap(err, goerrors.CategoryValidation, "unknown collection").
			WithTextCode(hierarchy.CodeUnknownCollection)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return wrapContextError(err)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "pagetree command failed").
		WithTextCode(CodeCommandFailed)
}
