package redirects

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type BunRepository struct {
	db   *bun.DB
	repo repository.Repository[*Redirect]
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache constructs a redirect Repository backed by bun with optional caching.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunRepository {
	base := NewRedirectRepository(db)
	var repo repository.Repository[*Redirect] = base
	if cacheService != nil && keySerializer != nil {
		repo = repositorycache.New(base, cacheService, keySerializer)
	}
	return &BunRepository{db: db, repo: repo}
}

// Create inserts record under a fresh id unless it carries one. Ids never
// derive from the source path, which may change on update.
func (r *BunRepository) Create(ctx context.Context, record *Redirect) (*Redirect, error) {
	if r.db == nil {
		return nil, ErrStoreUnconfigured
	}
	copied := *record
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	now := time.Now().UTC()
	copied.CreatedAt = now
	copied.UpdatedAt = now

	var created *Redirect
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*Redirect)(nil)).
			Where("?TableAlias.id = ?", copied.ID).
			Exists(ctx)
		if err != nil {
			return fmt.Errorf("redirect repository error: %w", err)
		}
		if exists {
			return &ExistsError{ID: copied.ID}
		}
		created, err = r.repo.CreateTx(ctx, tx, &copied)
		if err != nil {
			if repository.IsDuplicatedKey(err) {
				return &ExistsError{ID: copied.ID}
			}
			return fmt.Errorf("redirect repository error: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunRepository) Update(ctx context.Context, record *Redirect) (*Redirect, error) {
	if _, err := r.GetByID(ctx, record.ID); err != nil {
		return nil, err
	}
	copied := *record
	copied.UpdatedAt = time.Now().UTC()
	updated, err := r.repo.Update(ctx, &copied,
		repository.UpdateByID(copied.ID.String()),
		repository.UpdateColumns(
			"source_path",
			"destination_path",
			"type",
			"reason",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, record.ID)
	}
	return updated, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Redirect, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id)
	}
	return result, nil
}

func (r *BunRepository) List(ctx context.Context, filter Filter) ([]*Redirect, error) {
	records := []*Redirect{}
	if err := r.db.NewSelect().
		Model(&records).
		Apply(func(q *bun.SelectQuery) *bun.SelectQuery {
			return applyFilter(q, filter)
		}).
		OrderExpr("?TableAlias.source_path ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("redirect repository error: %w", err)
	}
	return records, nil
}

func (r *BunRepository) Count(ctx context.Context, filter Filter) (int, error) {
	count, err := r.db.NewSelect().
		Model((*Redirect)(nil)).
		Apply(func(q *bun.SelectQuery) *bun.SelectQuery {
			return applyFilter(q, filter)
		}).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count redirects: %w", err)
	}
	return count, nil
}

// Delete removes a redirect through the repository so cached lookups of it
// are dropped.
func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if r.db == nil {
		return ErrStoreUnconfigured
	}
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*Redirect)(nil)).
			Where("?TableAlias.id = ?", id).
			Exists(ctx)
		if err != nil {
			return fmt.Errorf("delete redirect: %w", err)
		}
		if !exists {
			return &NotFoundError{ID: id}
		}
		if err := r.repo.DeleteTx(ctx, tx, &Redirect{ID: id}); err != nil {
			return fmt.Errorf("delete redirect: %w", err)
		}
		return nil
	})
}

func applyFilter(q *bun.SelectQuery, filter Filter) *bun.SelectQuery {
	if q == nil {
		return q
	}
	if filter.Tenant != nil {
		q = q.Where("?TableAlias.tenant = ?", *filter.Tenant)
	}
	if filter.ExcludeID != uuid.Nil {
		q = q.Where("?TableAlias.id <> ?", filter.ExcludeID)
	}
	if filter.MatchAny && filter.SourcePath != nil && filter.DestinationPath != nil {
		source, destination := *filter.SourcePath, *filter.DestinationPath
		return q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.source_path = ?", source).
				WhereOr("?TableAlias.destination_path = ?", destination)
		})
	}
	if filter.SourcePath != nil {
		q = q.Where("?TableAlias.source_path = ?", *filter.SourcePath)
	}
	if filter.DestinationPath != nil {
		q = q.Where("?TableAlias.destination_path = ?", *filter.DestinationPath)
	}
	return q
}

func mapRepositoryError(err error, id uuid.UUID) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{ID: id}
	}
	return fmt.Errorf("redirect repository error: %w", err)
}
