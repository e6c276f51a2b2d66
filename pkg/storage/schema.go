package storage

import (
	"context"
	"fmt"

	"github.com/goliatone/go-pagetree/internal/hierarchy"
	"github.com/goliatone/go-pagetree/internal/redirects"
	"github.com/uptrace/bun"
)

// Models lists the bun models backing the page tree tables.
func Models() []any {
	return []any{
		(*hierarchy.DocumentRecord)(nil),
		(*hierarchy.DocumentSlugRecord)(nil),
		(*redirects.Redirect)(nil),
	}
}

type index struct {
	model   any
	name    string
	columns []string
	unique  bool
}

var indexes = []index{
	{model: (*hierarchy.DocumentRecord)(nil), name: "pagetree_documents_parent_idx", columns: []string{"collection", "tenant", "parent_id"}},
	{model: (*hierarchy.DocumentSlugRecord)(nil), name: "pagetree_document_slugs_lookup_idx", columns: []string{"locale", "slug"}},
	{model: (*hierarchy.DocumentSlugRecord)(nil), name: "pagetree_document_slugs_document_idx", columns: []string{"document_id", "locale"}, unique: true},
	{model: (*redirects.Redirect)(nil), name: "pagetree_redirects_source_idx", columns: []string{"tenant", "source_path"}},
	{model: (*redirects.Redirect)(nil), name: "pagetree_redirects_destination_idx", columns: []string{"tenant", "destination_path"}},
}

// EnsureSchema creates the page tree tables and indexes when missing.
func EnsureSchema(ctx context.Context, db bun.IDB) error {
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("storage: create table %T: %w", model, err)
		}
	}
	for _, idx := range indexes {
		q := db.NewCreateIndex().Model(idx.model).Index(idx.name).Column(idx.columns...).IfNotExists()
		if idx.unique {
			q = q.Unique()
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("storage: create index %s: %w", idx.name, err)
		}
	}
	return nil
}
