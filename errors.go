package pagetree

import (
	"errors"

	"github.com/goliatone/go-pagetree/internal/hierarchy"
	"github.com/goliatone/go-pagetree/internal/redirects"
)

var (
	ErrUnknownCollection    = hierarchy.ErrUnknownCollection
	ErrUnknownLocale        = hierarchy.ErrUnknownLocale
	ErrSlugRequired         = hierarchy.ErrSlugRequired
	ErrSlugExists           = hierarchy.ErrSlugExists
	ErrParentRequired       = hierarchy.ErrParentRequired
	ErrParentInvalid        = hierarchy.ErrParentInvalid
	ErrParentCycle          = hierarchy.ErrParentCycle
	ErrParentNotFound       = hierarchy.ErrParentNotFound
	ErrHierarchyCycle       = hierarchy.ErrHierarchyCycle
	ErrHierarchyTooDeep     = hierarchy.ErrHierarchyTooDeep
	ErrInvalidPath          = hierarchy.ErrInvalidPath
	ErrInvalidBreadcrumbs   = hierarchy.ErrInvalidBreadcrumbs
	ErrParentDeletionDenied = hierarchy.ErrParentDeletionDenied
	ErrDocumentNotFound     = hierarchy.ErrDocumentNotFound
	ErrDocumentExists       = hierarchy.ErrDocumentExists

	ErrInvalidRedirect  = redirects.ErrInvalidRedirect
	ErrSourceExists     = redirects.ErrSourceExists
	ErrDirectLoop       = redirects.ErrDirectLoop
	ErrTransitiveLoop   = redirects.ErrTransitiveLoop
	ErrRedirectNotFound = redirects.ErrRedirectNotFound
	ErrRedirectExists   = redirects.ErrRedirectExists

	ErrRedirectsDisabled = errors.New("pagetree: redirects are disabled")
	ErrDocumentRequired  = errors.New("pagetree: document is required")
)

const (
	CodeDocumentNotFound      = "DOCUMENT_NOT_FOUND"
	CodeRedirectsDisabled     = "REDIRECTS_DISABLED"
	CodeDocumentExists        = hierarchy.CodeDocumentExists
	CodeRedirectExists        = redirects.CodeRedirectExists
	CodeSlugRequired          = hierarchy.CodeSlugRequired
	CodeSlugExists            = hierarchy.CodeSlugExists
	CodeParentRequired        = hierarchy.CodeParentRequired
	CodeParentInvalid         = hierarchy.CodeParentInvalid
	CodeParentCycle           = hierarchy.CodeParentCycle
	CodeParentNotFound        = hierarchy.CodeParentNotFound
	CodeHierarchyCycle        = hierarchy.CodeHierarchyCycle
	CodeHierarchyTooDeep      = hierarchy.CodeHierarchyTooDeep
	CodeInvalidPath           = hierarchy.CodeInvalidPath
	CodeInvalidBreadcrumbs    = hierarchy.CodeInvalidBreadcrumbs
	CodeParentDeletionBlocked = hierarchy.CodeParentDeletionBlocked
	CodeRedirectInvalid       = redirects.CodeInvalid
	CodeRedirectSourceExists  = redirects.CodeSourceExists
	CodeRedirectDirectLoop    = redirects.CodeDirectLoop
	CodeRedirectLoop          = redirects.CodeTransitiveLoop
)

// IsDataError reports whether err signals corrupted tree data rather than a
// user mistake.
func IsDataError(err error) bool {
	return hierarchy.IsDataError(err)
}
