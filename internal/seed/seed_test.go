package seed_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-pagetree/internal/hierarchy"
	"github.com/goliatone/go-pagetree/internal/seed"
	"github.com/goliatone/go-pagetree/internal/tenancy"
	"github.com/goliatone/go-pagetree/pkg/testsupport"
	"github.com/google/uuid"
)

type recordingSaver struct {
	saved   map[uuid.UUID]*hierarchy.Document
	order   []string
	tenants []string
}

func newRecordingSaver() *recordingSaver {
	return &recordingSaver{saved: map[uuid.UUID]*hierarchy.Document{}}
}

func (s *recordingSaver) SaveDocument(ctx context.Context, doc *hierarchy.Document) (*hierarchy.Document, error) {
	if doc.HasParent() {
		if _, ok := s.saved[*doc.ParentID]; !ok {
			return nil, errors.New("parent saved after child")
		}
	}
	tenant, _ := tenancy.FromContext(ctx)
	s.tenants = append(s.tenants, tenant)
	s.saved[doc.ID] = doc.Clone()
	s.order = append(s.order, doc.Collection)
	return doc.Clone(), nil
}

func loadSite(t *testing.T) []*seed.Entry {
	t.Helper()
	entries, err := seed.NewLoader(os.DirFS("testdata"), "site", "de", "en").Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return entries
}

func TestLoaderMergesLocaleVariants(t *testing.T) {
	entries := loadSite(t)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	var home, about *seed.Entry
	for _, entry := range entries {
		switch entry.Key {
		case "pages/home":
			home = entry
		case "pages/about":
			about = entry
		}
	}
	if home == nil || !home.Root {
		t.Fatalf("expected root home entry, got %+v", home)
	}
	if home.Fields["title"]["de"] != "Startseite" || home.Fields["title"]["en"] != "Home" {
		t.Fatalf("expected merged titles, got %v", home.Fields["title"])
	}
	if about == nil || about.Parent != "pages/home" {
		t.Fatalf("expected about under home, got %+v", about)
	}
	if about.Slug["de"] != "ueber-uns" || about.Slug["en"] != "about" {
		t.Fatalf("expected localized slugs, got %v", about.Slug)
	}
	if about.Fields["summary"][""] != "Who we are" {
		t.Fatalf("expected unlocalized summary, got %v", about.Fields["summary"])
	}
	if about.Fields["body"][""] != "We build page trees." {
		t.Fatalf("expected body field, got %v", about.Fields["body"])
	}
}

func TestApplySavesParentsFirstWithStableIDs(t *testing.T) {
	entries := loadSite(t)
	saver := newRecordingSaver()
	logger := testsupport.NewRecordingLogger()

	result, err := seed.Apply(context.Background(), saver, entries, seed.WithLogger(logger))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(result.Documents) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(result.Documents))
	}
	if result.Documents[0].Collection != "pages" || !result.Documents[0].IsRootPage {
		t.Fatalf("expected root page first, got %+v", result.Documents[0])
	}
	if last := result.Documents[2]; last.Collection != "authors" {
		t.Fatalf("expected author last, got %+v", last)
	}

	again, err := seed.Apply(context.Background(), newRecordingSaver(), loadSite(t))
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	for i := range result.Documents {
		if result.Documents[i].ID != again.Documents[i].ID {
			t.Fatalf("expected stable ids across runs")
		}
	}
	if len(logger.Messages("info")) != 1 {
		t.Fatalf("expected summary entry, got %v", logger.Messages("info"))
	}
}

func TestApplyScopesTenant(t *testing.T) {
	fsys := fstest.MapFS{
		"home.md": {Data: []byte("---\ncollection: pages\nroot: true\ntenant: acme\n---\n")},
	}
	entries, err := seed.NewLoader(fsys, ".").Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	saver := newRecordingSaver()
	if _, err := seed.Apply(context.Background(), saver, entries); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if saver.tenants[0] != "acme" {
		t.Fatalf("expected tenant in context, got %q", saver.tenants[0])
	}
}

func TestApplyRejectsUnknownParent(t *testing.T) {
	entries := []*seed.Entry{{Key: "orphan", Collection: "pages", Parent: "missing"}}
	if _, err := seed.Apply(context.Background(), newRecordingSaver(), entries); !errors.Is(err, seed.ErrUnknownParent) {
		t.Fatalf("expected ErrUnknownParent, got %v", err)
	}
}

func TestApplyRejectsParentCycle(t *testing.T) {
	entries := []*seed.Entry{
		{Key: "a", Collection: "pages", Parent: "b"},
		{Key: "b", Collection: "pages", Parent: "a"},
	}
	if _, err := seed.Apply(context.Background(), newRecordingSaver(), entries); !errors.Is(err, seed.ErrParentCycle) {
		t.Fatalf("expected ErrParentCycle, got %v", err)
	}
}

func TestParseEntryRequiresCollection(t *testing.T) {
	_, err := seed.ParseEntry("x", "", []byte("---\ntitle: X\n---\n"))
	if !errors.Is(err, seed.ErrCollectionMissing) {
		t.Fatalf("expected ErrCollectionMissing, got %v", err)
	}
}
