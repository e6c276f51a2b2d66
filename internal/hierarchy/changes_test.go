package hierarchy_test

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-pagetree/internal/hierarchy"
	"github.com/google/uuid"
)

func TestBeforeChangeResetsRootPage(t *testing.T) {
	f := localizedFixture(t)
	other := f.save(t, page("pages", hierarchy.Localized{"de": "Andere"}, nil))

	doc := &hierarchy.Document{
		Collection: "pages",
		IsRootPage: true,
		ParentID:   idPtr(other.ID),
		Slug:       hierarchy.Localized{"de": "start", "en": "home", "": "x"},
	}
	got, err := f.changes.BeforeChange(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("before change: %v", err)
	}
	for locale, slug := range got.Slug {
		if slug != "" {
			t.Fatalf("expected empty root slug for %q, got %q", locale, slug)
		}
	}
	if got.ParentID != nil {
		t.Fatalf("expected root parent to be cleared")
	}
	if doc.Slug["de"] != "start" {
		t.Fatalf("expected input to stay untouched")
	}
}

func TestBeforeChangeResetsPageTurningIntoRoot(t *testing.T) {
	f := localizedFixture(t)
	ctx := context.Background()
	parent := f.save(t, page("pages", hierarchy.Localized{"de": "Eltern"}, nil))
	previous := f.save(t, page("pages", hierarchy.Localized{"de": "Kind"}, parent))

	next := previous.Clone()
	next.IsRootPage = true
	got, err := f.changes.BeforeChange(ctx, next, previous)
	if err != nil {
		t.Fatalf("before change: %v", err)
	}
	if got.Slug["de"] != "" || got.ParentID != nil {
		t.Fatalf("expected reset root, got slug %+v parent %v", got.Slug, got.ParentID)
	}
}

func TestBeforeChangeFormatsAndDerivesSlugs(t *testing.T) {
	f := localizedFixture(t)
	doc := &hierarchy.Document{
		Collection: "pages",
		Slug:       hierarchy.Localized{"de": "  Meine Seite!  "},
		Fields:     map[string]hierarchy.Localized{"title": {"de": "Ignored", "en": "Crème Brûlée"}},
	}

	got, err := f.changes.BeforeChange(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("before change: %v", err)
	}
	if got.Slug["de"] != "meine-seite" {
		t.Fatalf("expected formatted de slug, got %q", got.Slug["de"])
	}
	if got.Slug["en"] != "creme-brulee" {
		t.Fatalf("expected derived en slug, got %q", got.Slug["en"])
	}
}

func TestBeforeChangeUsesStaticSlug(t *testing.T) {
	registry, err := hierarchy.NewRegistry(
		hierarchy.Collection{Slug: "pages", ParentCollection: "pages", IsRootCollection: true},
		hierarchy.Collection{Slug: "imprint", ParentCollection: "pages", StaticSlug: hierarchy.Localized{"de": "impressum", "en": "imprint"}},
	)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	f := wireFixture(hierarchy.NewMemoryRepository(), registry, []hierarchy.ResolverOption{hierarchy.WithLocales("de", "en")})
	parent := f.save(t, page("pages", hierarchy.Localized{"de": "Rechtliches", "en": "Legal"}, nil))

	got := f.save(t, page("imprint", hierarchy.Localized{"de": "Impressum Seite"}, parent))
	if got.Slug["de"] != "impressum" || got.Slug["en"] != "imprint" {
		t.Fatalf("expected static slugs, got %+v", got.Slug)
	}
}

func TestBeforeChangeRequiresSlug(t *testing.T) {
	f := localizedFixture(t)

	_, err := f.changes.BeforeChange(context.Background(), &hierarchy.Document{Collection: "pages"}, nil)
	if !errors.Is(err, hierarchy.ErrSlugRequired) {
		t.Fatalf("expected ErrSlugRequired, got %v", err)
	}
	var richErr *goerrors.Error
	if !errors.As(err, &richErr) || richErr.TextCode != hierarchy.CodeSlugRequired {
		t.Fatalf("expected text code %s, got %v", hierarchy.CodeSlugRequired, err)
	}
}

func TestBeforeChangeParentRules(t *testing.T) {
	f := localizedFixture(t)
	ctx := context.Background()

	_, err := f.changes.BeforeChange(ctx, page("authors", hierarchy.Localized{"de": "Ohne Eltern"}, nil), nil)
	if !errors.Is(err, hierarchy.ErrParentRequired) {
		t.Fatalf("expected ErrParentRequired, got %v", err)
	}

	missing := page("authors", hierarchy.Localized{"de": "Verwaist"}, nil)
	missing.ParentID = idPtr(uuid.New())
	_, err = f.changes.BeforeChange(ctx, missing, nil)
	if !errors.Is(err, hierarchy.ErrParentInvalid) {
		t.Fatalf("expected ErrParentInvalid, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}

	root := f.save(t, page("pages", hierarchy.Localized{"de": "Oben"}, nil))
	asRoot := page("authors", hierarchy.Localized{"de": "Autor"}, root)
	asRoot.IsRootPage = true
	got, err := f.changes.BeforeChange(ctx, asRoot, nil)
	if err != nil {
		t.Fatalf("before change: %v", err)
	}
	if got.IsRootPage {
		t.Fatalf("expected root flag to be cleared outside root collections")
	}
}

func TestBeforeChangeRejectsCycles(t *testing.T) {
	f := localizedFixture(t)
	ctx := context.Background()

	a := f.save(t, page("pages", hierarchy.Localized{"de": "A"}, nil))
	b := f.save(t, page("pages", hierarchy.Localized{"de": "B"}, a))
	c := f.save(t, page("pages", hierarchy.Localized{"de": "C"}, b))

	update := a.Clone()
	update.ParentID = idPtr(c.ID)
	if _, err := f.changes.BeforeChange(ctx, update, a); !errors.Is(err, hierarchy.ErrParentCycle) {
		t.Fatalf("expected ErrParentCycle, got %v", err)
	}

	self := a.Clone()
	self.ParentID = idPtr(a.ID)
	if _, err := f.changes.BeforeChange(ctx, self, a); !errors.Is(err, hierarchy.ErrParentCycle) {
		t.Fatalf("expected self reference to be rejected, got %v", err)
	}
}

func TestBeforeChangeEnforcesSlugUniqueness(t *testing.T) {
	f := localizedFixture(t)
	ctx := context.Background()

	existing := f.save(t, page("pages", hierarchy.Localized{"de": "Kontakt"}, nil))

	_, err := f.changes.BeforeChange(ctx, page("pages", hierarchy.Localized{"de": "Kontakt"}, nil), nil)
	var exists *hierarchy.SlugExistsError
	if !errors.As(err, &exists) || exists.Locale != "de" || exists.Slug != "kontakt" {
		t.Fatalf("expected SlugExistsError, got %v", err)
	}

	if _, err := f.changes.BeforeChange(ctx, existing.Clone(), existing); err != nil {
		t.Fatalf("expected re-saving the same document to pass: %v", err)
	}

	otherTenant := page("pages", hierarchy.Localized{"de": "Kontakt"}, nil)
	otherTenant.Tenant = "globex"
	if _, err := f.changes.BeforeChange(ctx, otherTenant, nil); err != nil {
		t.Fatalf("expected same slug in another tenant to pass: %v", err)
	}

	if _, err := f.changes.BeforeChange(ctx, page("authors", hierarchy.Localized{"de": "Kontakt"}, existing), nil); err != nil {
		t.Fatalf("expected same slug in another collection to pass: %v", err)
	}
}

func TestBeforeChangeAssignsSharedParent(t *testing.T) {
	registry, err := hierarchy.NewRegistry(
		hierarchy.Collection{Slug: "pages", ParentCollection: "pages", IsRootCollection: true},
		hierarchy.Collection{Slug: "posts", ParentCollection: "blog", SharedParentDocument: true},
		hierarchy.Collection{Slug: "blog", ParentCollection: "pages"},
	)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	f := wireFixture(hierarchy.NewMemoryRepository(), registry, []hierarchy.ResolverOption{hierarchy.WithLocales("en")})

	if _, err := f.changes.BeforeChange(context.Background(), page("posts", hierarchy.Localized{"en": "First"}, nil), nil); !errors.Is(err, hierarchy.ErrParentRequired) {
		t.Fatalf("expected missing shared parent to fail, got %v", err)
	}

	home := f.save(t, page("pages", hierarchy.Localized{"en": "Home"}, nil))
	blog := f.save(t, page("blog", hierarchy.Localized{"en": "Blog"}, home))
	post := f.save(t, page("posts", hierarchy.Localized{"en": "First Post"}, nil))
	if post.ParentID == nil || *post.ParentID != blog.ID {
		t.Fatalf("expected shared parent %s, got %v", blog.ID, post.ParentID)
	}

	got, err := f.materializer.Materialize(context.Background(), post, hierarchy.ReadOptions{Locale: "en"})
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if got.Virtual.Path != "/en/home/blog/first-post" {
		t.Fatalf("unexpected path %q", got.Virtual.Path)
	}
}

func TestBeforeChangeResetsRootSlugEdit(t *testing.T) {
	f := localizedFixture(t)
	root := f.save(t, &hierarchy.Document{
		Collection: "pages",
		IsRootPage: true,
		Fields:     map[string]hierarchy.Localized{"title": {"de": "Start"}},
	})

	edit := root.Clone()
	edit.Slug["de"] = "start"
	edit.Slug["en"] = "home"
	got, err := f.changes.BeforeChange(context.Background(), edit, root)
	if err != nil {
		t.Fatalf("expected root slug edit to be normalized, got %v", err)
	}
	for locale, slug := range got.Slug {
		if slug != "" {
			t.Fatalf("expected empty root slug for %s, got %q", locale, slug)
		}
	}
	if !got.IsRootPage {
		t.Fatalf("expected document to stay the root page")
	}

	untouched := root.Clone()
	untouched.Fields["title"] = hierarchy.Localized{"de": "Startseite"}
	if _, err := f.changes.BeforeChange(context.Background(), untouched, root); err != nil {
		t.Fatalf("expected other root edits to pass: %v", err)
	}
}
