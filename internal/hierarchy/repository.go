package hierarchy

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewDocumentRecordRepository(db *bun.DB) repository.Repository[*DocumentRecord] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*DocumentRecord]{
		NewRecord: func() *DocumentRecord { return &DocumentRecord{} },
		GetID: func(r *DocumentRecord) uuid.UUID {
			return r.ID
		},
		SetID: func(r *DocumentRecord, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(r *DocumentRecord) string {
			return r.ID.String()
		},
	})
}

func NewDocumentSlugRepository(db *bun.DB) repository.Repository[*DocumentSlugRecord] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*DocumentSlugRecord]{
		NewRecord: func() *DocumentSlugRecord { return &DocumentSlugRecord{} },
		GetID: func(r *DocumentSlugRecord) uuid.UUID {
			return r.ID
		},
		SetID: func(r *DocumentSlugRecord, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(r *DocumentSlugRecord) string {
			return r.Slug
		},
	})
}
