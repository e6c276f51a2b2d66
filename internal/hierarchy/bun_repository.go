package hierarchy

import (
	"context"
	"fmt"
	"sort"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRepository persists documents through bun. Virtual fields are never
// written or cached: only stored columns pass through it.
//
// With a cache, only lookups by id are served from it. Every write to the
// document table goes through the cached repository so those entries are
// invalidated. Queries and slug rows always hit the database.
type BunRepository struct {
	db    *bun.DB
	repo  repository.Repository[*DocumentRecord]
	slugs repository.Repository[*DocumentSlugRecord]
	clock func() time.Time
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache constructs a Repository backed by bun with optional caching.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunRepository {
	return &BunRepository{
		db:    db,
		repo:  wrapWithCache(NewDocumentRecordRepository(db), cacheService, keySerializer),
		slugs: NewDocumentSlugRepository(db),
		clock: func() time.Time { return time.Now().UTC() },
	}
}

// Create inserts doc and its slugs in one transaction. An id that is already
// stored, in any collection, is rejected.
func (r *BunRepository) Create(ctx context.Context, doc *Document) (*Document, error) {
	if r.db == nil {
		return nil, fmt.Errorf("document repository: database not configured")
	}
	record := toRecord(doc)
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	now := r.clock()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	var (
		created *DocumentRecord
		rows    []*DocumentSlugRecord
	)
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*DocumentRecord)(nil)).
			Where("?TableAlias.id = ?", record.ID).
			Exists(ctx)
		if err != nil {
			return fmt.Errorf("document repository error: %w", err)
		}
		if exists {
			return &DocumentExistsError{Collection: record.Collection, ID: record.ID}
		}
		created, err = r.repo.CreateTx(ctx, tx, record)
		if err != nil {
			if repository.IsDuplicatedKey(err) {
				return &DocumentExistsError{Collection: record.Collection, ID: record.ID}
			}
			return fmt.Errorf("document repository error: %w", err)
		}
		rows, err = r.replaceSlugs(ctx, tx, created.ID, doc.Slug)
		return err
	})
	if err != nil {
		return nil, err
	}
	return fromRecord(created, rows), nil
}

func (r *BunRepository) Update(ctx context.Context, doc *Document) (*Document, error) {
	if r.db == nil {
		return nil, fmt.Errorf("document repository: database not configured")
	}
	current, err := r.FindByID(ctx, doc.Collection, doc.ID, Filter{})
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, &DocumentNotFoundError{Collection: doc.Collection, ID: doc.ID}
	}

	record := toRecord(doc)
	record.CreatedAt = current.CreatedAt
	record.UpdatedAt = r.clock()

	var (
		updated *DocumentRecord
		rows    []*DocumentSlugRecord
	)
	err = r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		updated, err = r.repo.UpdateTx(ctx, tx, record,
			repository.UpdateColumns(
				"tenant",
				"is_root_page",
				"parent_id",
				"fields",
				"updated_at",
			),
		)
		if err != nil {
			return mapRepositoryError(err, doc.Collection, doc.ID)
		}
		rows, err = r.replaceSlugs(ctx, tx, updated.ID, doc.Slug)
		return err
	})
	if err != nil {
		return nil, err
	}
	return fromRecord(updated, rows), nil
}

func (r *BunRepository) Delete(ctx context.Context, collection string, id uuid.UUID) error {
	if r.db == nil {
		return fmt.Errorf("document repository: database not configured")
	}

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*DocumentRecord)(nil)).
			Where("?TableAlias.id = ?", id).
			Where("?TableAlias.collection = ?", collection).
			Exists(ctx)
		if err != nil {
			return fmt.Errorf("delete document: %w", err)
		}
		if !exists {
			return &DocumentNotFoundError{Collection: collection, ID: id}
		}
		if err := r.slugs.DeleteWhereTx(ctx, tx, repository.DeleteBy("document_id", "=", id.String())); err != nil {
			return fmt.Errorf("delete document slugs: %w", err)
		}
		if err := r.repo.DeleteTx(ctx, tx, &DocumentRecord{ID: id}); err != nil {
			return fmt.Errorf("delete document: %w", err)
		}
		return nil
	})
}

func (r *BunRepository) Count(ctx context.Context, collection string, filter Filter) (int, error) {
	count, err := r.db.NewSelect().
		Model((*DocumentRecord)(nil)).
		Apply(func(q *bun.SelectQuery) *bun.SelectQuery {
			return applyFilter(q, collection, filter)
		}).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count %s documents: %w", collection, err)
	}
	return count, nil
}

func (r *BunRepository) Find(ctx context.Context, collection string, filter Filter) ([]*Document, error) {
	records := []*DocumentRecord{}
	q := r.db.NewSelect().
		Model(&records).
		Apply(func(q *bun.SelectQuery) *bun.SelectQuery {
			return applyFilter(q, collection, filter)
		}).
		OrderExpr("?TableAlias.created_at ASC").
		OrderExpr("?TableAlias.id ASC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("document repository error: %w", err)
	}
	return r.attachSlugs(ctx, records)
}

// FindByID loads the record by id, through the cache when one is configured,
// and applies collection and filter on the loaded document.
func (r *BunRepository) FindByID(ctx context.Context, collection string, id uuid.UUID, filter Filter) (*Document, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		if mapped := mapRepositoryError(err, collection, id); isNotFound(mapped) {
			return nil, nil
		}
		return nil, fmt.Errorf("document repository error: %w", err)
	}
	if record == nil || record.Collection != collection {
		return nil, nil
	}
	docs, err := r.attachSlugs(ctx, []*DocumentRecord{record})
	if err != nil {
		return nil, err
	}
	if !filter.Matches(docs[0]) {
		return nil, nil
	}
	return docs[0], nil
}

func (r *BunRepository) attachSlugs(ctx context.Context, records []*DocumentRecord) ([]*Document, error) {
	out := make([]*Document, 0, len(records))
	if len(records) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.ID)
	}
	rows := []*DocumentSlugRecord{}
	if err := r.db.NewSelect().
		Model(&rows).
		Where("?TableAlias.document_id IN (?)", bun.In(ids)).
		OrderExpr("?TableAlias.locale ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("document slug repository error: %w", err)
	}
	byDocument := make(map[uuid.UUID][]*DocumentSlugRecord, len(records))
	for _, row := range rows {
		byDocument[row.DocumentID] = append(byDocument[row.DocumentID], row)
	}
	for _, record := range records {
		out = append(out, fromRecord(record, byDocument[record.ID]))
	}
	return out, nil
}

func (r *BunRepository) replaceSlugs(ctx context.Context, tx bun.Tx, documentID uuid.UUID, values Localized) ([]*DocumentSlugRecord, error) {
	locales := make([]string, 0, len(values))
	for locale := range values {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	rows := make([]*DocumentSlugRecord, 0, len(locales))
	for _, locale := range locales {
		rows = append(rows, &DocumentSlugRecord{
			ID:         uuid.New(),
			DocumentID: documentID,
			Locale:     locale,
			Slug:       values[locale],
		})
	}

	if err := r.slugs.DeleteWhereTx(ctx, tx, repository.DeleteBy("document_id", "=", documentID.String())); err != nil {
		return nil, fmt.Errorf("delete document slugs: %w", err)
	}
	if len(rows) == 0 {
		return rows, nil
	}
	if _, err := r.slugs.CreateManyTx(ctx, tx, rows); err != nil {
		return nil, fmt.Errorf("insert document slugs: %w", err)
	}
	return rows, nil
}

func applyFilter(q *bun.SelectQuery, collection string, filter Filter) *bun.SelectQuery {
	if q == nil {
		return q
	}
	q = q.Where("?TableAlias.collection = ?", collection)
	if filter.Tenant != nil {
		q = q.Where("?TableAlias.tenant = ?", *filter.Tenant)
	}
	if filter.ParentID != nil {
		q = q.Where("?TableAlias.parent_id = ?", *filter.ParentID)
	}
	if filter.ExcludeID != uuid.Nil {
		q = q.Where("?TableAlias.id <> ?", filter.ExcludeID)
	}
	if filter.RootOnly {
		q = q.Where("?TableAlias.is_root_page = ?", true)
	}
	if filter.Slug != nil {
		q = q.Where(
			"EXISTS (SELECT 1 FROM pagetree_document_slugs AS s WHERE s.document_id = ?TableAlias.id AND s.locale = ? AND s.slug = ?)",
			filter.SlugLocale, *filter.Slug,
		)
	}
	return q
}

func mapRepositoryError(err error, collection string, id uuid.UUID) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &DocumentNotFoundError{Collection: collection, ID: id}
	}
	return fmt.Errorf("document repository error: %w", err)
}

func isNotFound(err error) bool {
	_, ok := err.(*DocumentNotFoundError)
	return ok
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
