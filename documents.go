package pagetree

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-pagetree/internal/hierarchy"
	"github.com/goliatone/go-pagetree/internal/logging"
	"github.com/goliatone/go-pagetree/internal/redirects"
	"github.com/google/uuid"
)

// SaveDocument runs the write lifecycle for doc: normalization, persistence
// and virtual field computation for the default locale. A document with an
// ID that is not stored yet is created under that ID. An ID stored outside
// the current scope is refused.
func (m *Module) SaveDocument(ctx context.Context, doc *Document) (*Document, error) {
	if doc == nil {
		return m.BeforeChange(ctx, nil, nil)
	}
	store := m.Documents()

	var previous *Document
	if doc.ID != uuid.Nil {
		found, err := store.FindByID(ctx, doc.Collection, doc.ID, m.scope(ctx, doc.Collection))
		if err != nil {
			return nil, fmt.Errorf("load %s/%s: %w", doc.Collection, doc.ID, err)
		}
		if found == nil {
			if err := m.checkUnclaimed(ctx, doc.Collection, doc.ID); err != nil {
				return nil, err
			}
		}
		previous = found
	}

	normalized, err := m.BeforeChange(ctx, doc, previous)
	if err != nil {
		return nil, err
	}

	var saved *Document
	if previous == nil {
		saved, err = store.Create(ctx, normalized)
	} else {
		saved, err = store.Update(ctx, normalized)
	}
	if err != nil {
		return nil, mapDocumentError(err)
	}

	logging.WithDocumentContext(m.logger, saved.Collection, saved.ID.String(), m.writeLocale()).
		Debug("document.saved", "created", previous == nil)
	return m.AfterChange(ctx, saved, "")
}

// GetDocument loads a document and materializes its virtual fields.
func (m *Module) GetDocument(ctx context.Context, collection string, id uuid.UUID, opts ReadOptions) (*Document, error) {
	if err := m.checkCollection(collection); err != nil {
		return nil, err
	}
	doc, err := m.Documents().FindByID(ctx, collection, id, m.scope(ctx, collection))
	if err != nil {
		return nil, fmt.Errorf("load %s/%s: %w", collection, id, err)
	}
	if doc == nil {
		return nil, documentNotFound(collection, id)
	}
	return m.AfterRead(ctx, doc, opts)
}

// ListDocuments returns the documents of collection matching filter within
// the current scope. The scope wins over conflicting filter constraints.
func (m *Module) ListDocuments(ctx context.Context, collection string, filter Filter, opts ReadOptions) ([]*Document, error) {
	if err := m.checkCollection(collection); err != nil {
		return nil, err
	}
	docs, err := m.Documents().Find(ctx, collection, filter.Merge(m.scope(ctx, collection)))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return m.AfterReadMany(ctx, docs, opts)
}

// Breadcrumbs resolves the trail of doc for locale, a code or AllLocales.
func (m *Module) Breadcrumbs(ctx context.Context, doc *Document, locale string) (map[string][]Breadcrumb, error) {
	if locale == "" {
		locale = m.writeLocale()
	}
	return m.container.Resolver().Breadcrumbs(ctx, doc, locale)
}

// Dependents counts the documents referencing id as their parent, grouped by
// collection.
func (m *Module) Dependents(ctx context.Context, collection string, id uuid.UUID) ([]DependentCount, error) {
	return m.container.Guard().Dependents(ctx, collection, id)
}

// DeleteDocument removes a document once the parent-deletion guard allows it.
func (m *Module) DeleteDocument(ctx context.Context, collection string, id uuid.UUID) error {
	if err := m.checkCollection(collection); err != nil {
		return err
	}
	found, err := m.Documents().FindByID(ctx, collection, id, m.scope(ctx, collection))
	if err != nil {
		return fmt.Errorf("load %s/%s: %w", collection, id, err)
	}
	if found == nil {
		return documentNotFound(collection, id)
	}
	if err := m.BeforeDelete(ctx, collection, id); err != nil {
		return err
	}
	if err := m.Documents().Delete(ctx, collection, id); err != nil {
		return mapDocumentError(err)
	}
	logging.WithDocumentContext(m.logger, collection, id.String(), "").Debug("document.deleted")
	return nil
}

// SaveRedirect validates and stores a redirect. A redirect with an ID that
// is already stored is updated.
func (m *Module) SaveRedirect(ctx context.Context, record *Redirect) (*Redirect, error) {
	if !m.RedirectsEnabled() {
		return nil, redirectsDisabled()
	}
	store := m.Redirects()

	var existing *Redirect
	if record != nil && record.ID != uuid.Nil {
		found, err := store.GetByID(ctx, record.ID)
		switch {
		case err == nil:
			if !m.redirectScope(ctx).Matches(found) {
				return nil, redirectExists(record.ID)
			}
			existing = found
		case !errors.Is(err, redirects.ErrRedirectNotFound):
			return nil, fmt.Errorf("load redirect %s: %w", record.ID, err)
		}
	}

	draft := record
	if draft != nil && draft.Tenant == "" && existing == nil {
		copied := *draft
		if scope := m.redirectScope(ctx); scope.Tenant != nil {
			copied.Tenant = *scope.Tenant
		}
		draft = &copied
	}

	validated, err := m.RedirectBeforeValidate(ctx, draft, existing)
	if err != nil {
		return nil, err
	}
	var saved *Redirect
	if existing == nil {
		saved, err = store.Create(ctx, validated)
	} else {
		saved, err = store.Update(ctx, validated)
	}
	if errors.Is(err, redirects.ErrRedirectExists) {
		return nil, redirectExists(validated.ID)
	}
	return saved, err
}

// DeleteRedirect removes a redirect.
func (m *Module) DeleteRedirect(ctx context.Context, id uuid.UUID) error {
	if !m.RedirectsEnabled() {
		return redirectsDisabled()
	}
	store := m.Redirects()
	found, err := store.GetByID(ctx, id)
	if err == nil && !m.redirectScope(ctx).Matches(found) {
		err = &redirects.NotFoundError{ID: id}
	}
	if err == nil {
		err = store.Delete(ctx, id)
	}
	if err != nil {
		if errors.Is(err, redirects.ErrRedirectNotFound) {
			return goerrors.Wrap(err, goerrors.CategoryNotFound, "redirect not found").
				WithCode(http.StatusNotFound).
				WithTextCode(redirects.CodeRedirectMissing)
		}
		return err
	}
	return nil
}

// ListRedirects returns the redirects matching filter within the current scope.
func (m *Module) ListRedirects(ctx context.Context, filter RedirectFilter) ([]*Redirect, error) {
	if !m.RedirectsEnabled() {
		return nil, redirectsDisabled()
	}
	if scope := m.redirectScope(ctx); scope.Tenant != nil {
		filter.Tenant = scope.Tenant
	}
	return m.Redirects().List(ctx, filter)
}

func (m *Module) scope(ctx context.Context, collection string) Filter {
	return m.container.Resolver().Scope(ctx, collection)
}

func (m *Module) redirectScope(ctx context.Context) RedirectFilter {
	if filter := m.container.RedirectFilter(); filter != nil {
		return filter(ctx)
	}
	return RedirectFilter{}
}

func (m *Module) checkCollection(collection string) error {
	if _, err := m.container.Registry().MustCollection(collection); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "unknown collection").
			WithCode(http.StatusBadRequest).
			WithTextCode(hierarchy.CodeUnknownCollection)
	}
	return nil
}

// checkUnclaimed refuses an id already stored in collection under another
// scope. Ids held by other collections are rejected by the store on create.
func (m *Module) checkUnclaimed(ctx context.Context, collection string, id uuid.UUID) error {
	other, err := m.Documents().FindByID(ctx, collection, id, Filter{})
	if err != nil {
		return fmt.Errorf("load %s/%s: %w", collection, id, err)
	}
	if other != nil {
		return mapDocumentError(&hierarchy.DocumentExistsError{Collection: collection, ID: id})
	}
	return nil
}

func redirectExists(id uuid.UUID) error {
	return goerrors.Wrap(&redirects.ExistsError{ID: id}, goerrors.CategoryConflict, "redirect id already in use").
		WithCode(http.StatusConflict).
		WithTextCode(redirects.CodeRedirectExists)
}

func documentNotFound(collection string, id uuid.UUID) error {
	return mapDocumentError(&hierarchy.DocumentNotFoundError{Collection: collection, ID: id})
}

func mapDocumentError(err error) error {
	switch {
	case errors.Is(err, hierarchy.ErrDocumentNotFound):
		return goerrors.Wrap(err, goerrors.CategoryNotFound, "document not found").
			WithCode(http.StatusNotFound).
			WithTextCode(CodeDocumentNotFound)
	case errors.Is(err, hierarchy.ErrDocumentExists):
		return goerrors.Wrap(err, goerrors.CategoryConflict, "document id already in use").
			WithCode(http.StatusConflict).
			WithTextCode(CodeDocumentExists)
	}
	return err
}
