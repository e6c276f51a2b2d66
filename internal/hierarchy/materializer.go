package hierarchy

import (
	"context"

	"github.com/goliatone/go-pagetree/internal/logging"
	"github.com/goliatone/go-pagetree/pkg/interfaces"
	"golang.org/x/sync/errgroup"
)

// ReadOptions describe a read the virtual fields are computed for.
type ReadOptions struct {
	// Locale is a configured locale code or AllLocales. It is ignored when
	// the deployment is not localized.
	Locale    string
	Selection *Selection
}

// Materializer populates Document.Virtual.
type Materializer struct {
	resolver    *Resolver
	registry    *Registry
	logger      interfaces.Logger
	concurrency int
}

// MaterializerOption configures a Materializer.
type MaterializerOption func(*Materializer)

// WithMaterializerLogger sets the logger used for tolerated anomalies.
func WithMaterializerLogger(logger interfaces.Logger) MaterializerOption {
	return func(m *Materializer) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithReadConcurrency bounds how many documents MaterializeMany resolves at
// once. Values below 1 mean sequential.
func WithReadConcurrency(n int) MaterializerOption {
	return func(m *Materializer) {
		m.concurrency = n
	}
}

// NewMaterializer builds a Materializer on top of resolver.
func NewMaterializer(resolver *Resolver, registry *Registry, opts ...MaterializerOption) *Materializer {
	m := &Materializer{
		resolver:    resolver,
		registry:    registry,
		logger:      logging.NoOp(),
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.concurrency < 1 {
		m.concurrency = 1
	}
	return m
}

// Materialize returns a copy of doc carrying its virtual fields. The input is
// returned untouched when the selection does not ask for virtual fields, when
// doc belongs to no registered collection, or when doc has no slug in the
// requested locale yet.
func (m *Materializer) Materialize(ctx context.Context, doc *Document, opts ReadOptions) (*Document, error) {
	if doc == nil || !NeedsVirtualFields(opts.Selection) {
		return doc, nil
	}
	col, ok := m.registry.Collection(doc.Collection)
	if !ok {
		return doc, nil
	}
	requested, err := m.resolver.Locales(opts.Locale)
	if err != nil {
		return nil, err
	}

	locale := opts.Locale
	if !m.resolver.Localized() {
		locale = ""
	}
	logger := logging.WithDocumentContext(m.logger, doc.Collection, doc.ID.String(), locale)

	var trails map[string][]Breadcrumb
	if isRootDocument(col, doc) {
		trails = RootBreadcrumbs(doc, col, m.resolver.ConfiguredLocales())
	} else {
		if !hasSlug(doc, requested) {
			logger.Debug("virtual_fields.skipped", "reason", "slug_missing")
			return doc, nil
		}
		trails, err = m.resolver.Breadcrumbs(ctx, doc, AllLocales)
		if err != nil {
			return nil, err
		}
	}

	if err := m.validate(doc, col, trails); err != nil {
		logger.Error("virtual_fields.invalid", "error", err)
		return nil, err
	}
	for _, loc := range requested {
		if _, ok := trails[loc]; !ok {
			logger.Warn("virtual_fields.locale_missing", "locale", loc)
		}
	}

	out := doc.Clone()
	out.Virtual = m.build(trails, requested, locale, opts.Selection)
	return out, nil
}

// MaterializeMany materializes docs keeping their order. Resolution runs with
// the configured concurrency and stops at the first error.
func (m *Materializer) MaterializeMany(ctx context.Context, docs []*Document, opts ReadOptions) ([]*Document, error) {
	out := make([]*Document, len(docs))
	if len(docs) == 0 {
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)
	for i, doc := range docs {
		g.Go(func() error {
			res, err := m.Materialize(gctx, doc, opts)
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Materializer) validate(doc *Document, col Collection, trails map[string][]Breadcrumb) error {
	root := isRootDocument(col, doc)
	for locale, crumbs := range trails {
		if len(crumbs) == 0 {
			continue
		}
		path := crumbs[len(crumbs)-1].Path
		if err := ValidatePath(path); err != nil {
			return internalFailure(&InvariantError{
				Err:        ErrInvalidPath,
				Collection: doc.Collection,
				ID:         doc.ID,
				Locale:     locale,
				Reason:     err.Error(),
			}, CodeInvalidPath, "computed path is invalid")
		}
		ownSlug := ""
		if !root {
			ownSlug, _ = doc.Slug.Get(locale)
		}
		ownLabel, _ := doc.Label(col.BreadcrumbLabelField, locale)
		if err := ValidateBreadcrumbs(locale, crumbs, ownSlug, ownLabel, path); err != nil {
			return internalFailure(&InvariantError{
				Err:        ErrInvalidBreadcrumbs,
				Collection: doc.Collection,
				ID:         doc.ID,
				Locale:     locale,
				Reason:     err.Error(),
			}, CodeInvalidBreadcrumbs, "computed breadcrumbs are invalid")
		}
	}
	return nil
}

func (m *Materializer) build(trails map[string][]Breadcrumb, requested []string, locale string, sel *Selection) *VirtualFields {
	vf := &VirtualFields{Locale: locale}
	wantPath := sel.Selects(FieldPath)
	wantCrumbs := sel.Selects(FieldBreadcrumbs)

	if locale == AllLocales {
		if wantPath {
			vf.Paths = make(map[string]string, len(trails))
		}
		if wantCrumbs {
			vf.BreadcrumbsByLocale = make(map[string][]Breadcrumb, len(trails))
		}
		for _, loc := range requested {
			crumbs, ok := trails[loc]
			if !ok {
				continue
			}
			if wantPath {
				vf.Paths[loc] = crumbs[len(crumbs)-1].Path
			}
			if wantCrumbs {
				vf.BreadcrumbsByLocale[loc] = crumbs
			}
		}
	} else if crumbs, ok := trails[requested[0]]; ok {
		if wantPath {
			vf.Path = crumbs[len(crumbs)-1].Path
		}
		if wantCrumbs {
			vf.Breadcrumbs = crumbs
		}
	}

	if sel.Selects(FieldAlternatePaths) && m.resolver.Localized() {
		for _, loc := range m.resolver.ConfiguredLocales() {
			if crumbs, ok := trails[loc]; ok {
				vf.AlternatePaths = append(vf.AlternatePaths, AlternatePath{
					Hreflang: loc,
					Path:     crumbs[len(crumbs)-1].Path,
				})
			}
		}
	}
	return vf
}

func hasSlug(doc *Document, locales []string) bool {
	for _, locale := range locales {
		if _, ok := doc.Slug.Get(locale); ok {
			return true
		}
	}
	return false
}
