package hierarchy

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

var (
	ErrCollectionConfig     = errors.New("hierarchy: invalid collection configuration")
	ErrUnknownCollection    = errors.New("hierarchy: unknown collection")
	ErrUnknownLocale        = errors.New("hierarchy: unknown locale")
	ErrSlugRequired         = errors.New("hierarchy: slug is required")
	ErrSlugExists           = errors.New("hierarchy: slug already exists")
	ErrParentRequired       = errors.New("hierarchy: parent is required")
	ErrParentInvalid        = errors.New("hierarchy: parent does not exist")
	ErrParentCycle          = errors.New("hierarchy: parent assignment creates a cycle")
	ErrParentNotFound       = errors.New("hierarchy: parent document not found")
	ErrHierarchyCycle       = errors.New("hierarchy: parent chain contains a cycle")
	ErrHierarchyTooDeep     = errors.New("hierarchy: parent chain exceeds maximum depth")
	ErrInvalidPath          = errors.New("hierarchy: invalid path")
	ErrInvalidBreadcrumbs   = errors.New("hierarchy: invalid breadcrumbs")
	ErrParentDeletionDenied = errors.New("hierarchy: document is referenced as parent")
	ErrDocumentNotFound     = errors.New("hierarchy: document not found")
	ErrDocumentExists       = errors.New("hierarchy: document id already in use")
)

// Text codes attached to errors surfaced by hooks.
const (
	CodeSlugRequired          = "SLUG_REQUIRED"
	CodeSlugExists            = "SLUG_EXISTS"
	CodeParentRequired        = "PARENT_REQUIRED"
	CodeParentInvalid         = "PARENT_INVALID"
	CodeParentCycle           = "PARENT_CYCLE"
	CodeUnknownLocale         = "UNKNOWN_LOCALE"
	CodeUnknownCollection     = "UNKNOWN_COLLECTION"
	CodeParentNotFound        = "PARENT_NOT_FOUND"
	CodeHierarchyCycle        = "HIERARCHY_CYCLE"
	CodeHierarchyTooDeep      = "HIERARCHY_TOO_DEEP"
	CodeInvalidPath           = "INVALID_PATH"
	CodeInvalidBreadcrumbs    = "INVALID_BREADCRUMBS"
	CodeParentDeletionBlocked = "PARENT_DELETION_BLOCKED"
	CodeDocumentExists        = "DOCUMENT_EXISTS"
)

// UnknownCollectionError reports a collection that is not registered.
type UnknownCollectionError struct {
	Collection string
}

func (e *UnknownCollectionError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownCollection.Error(), e.Collection)
}

func (e *UnknownCollectionError) Unwrap() error { return ErrUnknownCollection }

// ParentNotFoundError reports a dangling parent reference met while walking
// the tree.
type ParentNotFoundError struct {
	Collection string
	ParentID   uuid.UUID
	ChildID    uuid.UUID
}

func (e *ParentNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s/%s (referenced by %s)", ErrParentNotFound.Error(), e.Collection, e.ParentID, e.ChildID)
}

func (e *ParentNotFoundError) Unwrap() error { return ErrParentNotFound }

// SlugExistsError reports a slug already taken within its scope.
type SlugExistsError struct {
	Collection string
	Locale     string
	Slug       string
}

func (e *SlugExistsError) Error() string {
	if e.Locale == "" {
		return fmt.Sprintf("%s: %q in %s", ErrSlugExists.Error(), e.Slug, e.Collection)
	}
	return fmt.Sprintf("%s: %q in %s (locale %s)", ErrSlugExists.Error(), e.Slug, e.Collection, e.Locale)
}

func (e *SlugExistsError) Unwrap() error { return ErrSlugExists }

// InvariantError reports computed virtual fields that break the path rules.
type InvariantError struct {
	Err        error
	Collection string
	ID         uuid.UUID
	Locale     string
	Reason     string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s/%s locale=%q: %s", e.Err.Error(), e.Collection, e.ID, e.Locale, e.Reason)
}

func (e *InvariantError) Unwrap() error { return e.Err }

// DependentCount is the number of children one collection holds for a parent.
type DependentCount struct {
	Collection string
	Count      int
}

// ParentDeletionBlockedError lists the documents still pointing at a parent.
type ParentDeletionBlockedError struct {
	Collection string
	ID         uuid.UUID
	Dependents []DependentCount
}

func (e *ParentDeletionBlockedError) Error() string {
	parts := make([]string, 0, len(e.Dependents))
	for _, dep := range e.Dependents {
		parts = append(parts, fmt.Sprintf("%d in %q", dep.Count, dep.Collection))
	}
	return fmt.Sprintf("cannot delete %s/%s: it is the parent of %s", e.Collection, e.ID, strings.Join(parts, ", "))
}

func (e *ParentDeletionBlockedError) Unwrap() error { return ErrParentDeletionDenied }

// Total sums the dependents across collections.
func (e *ParentDeletionBlockedError) Total() int {
	total := 0
	for _, dep := range e.Dependents {
		total += dep.Count
	}
	return total
}

func validationFailure(err error, code, message string) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, message).
		WithCode(http.StatusBadRequest).
		WithTextCode(code)
}

func conflictFailure(err error, code, message string, metadata map[string]any) error {
	wrapped := goerrors.Wrap(err, goerrors.CategoryConflict, message).
		WithCode(http.StatusConflict).
		WithTextCode(code)
	if len(metadata) > 0 {
		wrapped = wrapped.WithMetadata(metadata)
	}
	return wrapped
}

func internalFailure(err error, code, message string) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, message).
		WithCode(http.StatusInternalServerError).
		WithTextCode(code)
}

// IsDataError reports whether err signals corrupted tree data or a broken
// invariant rather than a user mistake.
func IsDataError(err error) bool {
	return errors.Is(err, ErrParentNotFound) ||
		errors.Is(err, ErrHierarchyCycle) ||
		errors.Is(err, ErrHierarchyTooDeep) ||
		errors.Is(err, ErrInvalidPath) ||
		errors.Is(err, ErrInvalidBreadcrumbs)
}

// DocumentNotFoundError is returned by repositories when an update or delete
// targets a missing document.
type DocumentNotFoundError struct {
	Collection string
	ID         uuid.UUID
}

func (e *DocumentNotFoundError) Error() string {
	return fmt.Sprintf("hierarchy: document %s/%s not found", e.Collection, e.ID)
}

func (e *DocumentNotFoundError) Unwrap() error { return ErrDocumentNotFound }

// DocumentExistsError is returned by repositories when a create reuses an id
// that is already stored.
type DocumentExistsError struct {
	Collection string
	ID         uuid.UUID
}

func (e *DocumentExistsError) Error() string {
	return fmt.Sprintf("hierarchy: document id %s already in use (creating in %s)", e.ID, e.Collection)
}

func (e *DocumentExistsError) Unwrap() error { return ErrDocumentExists }
