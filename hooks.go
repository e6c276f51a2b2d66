package pagetree

import (
	"context"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// BeforeRead widens sel so the stored fields path data is computed from are
// loaded by the host. Unknown collections get sel back unchanged.
func (m *Module) BeforeRead(_ context.Context, collection string, sel *Selection) *Selection {
	col, ok := m.container.Registry().Collection(collection)
	if !ok {
		return sel
	}
	return sel.WithDependencies(col)
}

// AfterRead populates the virtual fields of doc for the requested locale and
// selection. An empty locale means the default locale.
func (m *Module) AfterRead(ctx context.Context, doc *Document, opts ReadOptions) (*Document, error) {
	opts = m.readOptions(opts)
	return m.container.Materializer().Materialize(ctx, doc, opts)
}

// AfterReadMany is AfterRead over a result page.
func (m *Module) AfterReadMany(ctx context.Context, docs []*Document, opts ReadOptions) ([]*Document, error) {
	opts = m.readOptions(opts)
	return m.container.Materializer().MaterializeMany(ctx, docs, opts)
}

// BeforeChange normalizes doc before it is persisted. previous is the stored
// version on update and nil on create.
func (m *Module) BeforeChange(ctx context.Context, doc, previous *Document) (*Document, error) {
	if doc == nil {
		return nil, goerrors.Wrap(ErrDocumentRequired, goerrors.CategoryValidation, "document is required").
			WithCode(http.StatusBadRequest)
	}
	return m.container.ChangeNormalizer().BeforeChange(ctx, doc, previous)
}

// AfterChange computes the virtual fields of a freshly persisted document
// for the locale it was written in.
func (m *Module) AfterChange(ctx context.Context, doc *Document, locale string) (*Document, error) {
	if locale == "" {
		locale = m.writeLocale()
	}
	return m.container.Materializer().Materialize(ctx, doc, ReadOptions{Locale: locale})
}

// BeforeDelete aborts the deletion of a document other documents still use
// as parent.
func (m *Module) BeforeDelete(ctx context.Context, collection string, id uuid.UUID) error {
	return m.container.Guard().BeforeDelete(ctx, collection, id)
}

// RedirectBeforeValidate checks a redirect draft for conflicts and loops.
// existing is the stored record on update and nil on create.
func (m *Module) RedirectBeforeValidate(ctx context.Context, draft, existing *Redirect) (*Redirect, error) {
	validator := m.container.RedirectValidator()
	if validator == nil {
		return nil, redirectsDisabled()
	}
	return validator.BeforeValidate(ctx, draft, existing)
}

func (m *Module) readOptions(opts ReadOptions) ReadOptions {
	if opts.Locale == "" {
		opts.Locale = m.writeLocale()
	}
	return opts
}

func (m *Module) writeLocale() string {
	cfg := m.container.Config
	if cfg.DefaultLocale != "" {
		return cfg.DefaultLocale
	}
	if len(cfg.Locales) > 0 {
		return cfg.Locales[0]
	}
	return ""
}

func redirectsDisabled() error {
	return goerrors.Wrap(ErrRedirectsDisabled, goerrors.CategoryOperation, "redirects are disabled").
		WithCode(http.StatusNotFound).
		WithTextCode(CodeRedirectsDisabled)
}
