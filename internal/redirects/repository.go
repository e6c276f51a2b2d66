package redirects

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewRedirectRepository(db *bun.DB) repository.Repository[*Redirect] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Redirect]{
		NewRecord: func() *Redirect { return &Redirect{} },
		GetID: func(r *Redirect) uuid.UUID {
			return r.ID
		},
		SetID: func(r *Redirect, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(r *Redirect) string {
			return r.ID.String()
		},
	})
}
