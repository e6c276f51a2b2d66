package redirects

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Type tells clients whether a redirect may be cached.
type Type string

const (
	TypePermanent Type = "permanent"
	TypeTemporary Type = "temporary"
)

// Redirect sends requests for SourcePath to DestinationPath.
type Redirect struct {
	bun.BaseModel `bun:"table:pagetree_redirects,alias:rd"`

	ID              uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Tenant          string    `bun:"tenant,notnull" json:"tenant,omitempty"`
	SourcePath      string    `bun:"source_path,notnull" json:"source_path"`
	DestinationPath string    `bun:"destination_path,notnull" json:"destination_path"`
	Type            Type      `bun:"type,notnull" json:"type"`
	Reason          string    `bun:"reason" json:"reason,omitempty"`
	CreatedAt       time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt       time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Filter narrows redirect queries. With MatchAny the source and destination
// constraints are OR-ed instead of AND-ed.
type Filter struct {
	Tenant          *string
	SourcePath      *string
	DestinationPath *string
	MatchAny        bool
	ExcludeID       uuid.UUID
}

// Matches evaluates f against r.
func (f Filter) Matches(r *Redirect) bool {
	if r == nil {
		return false
	}
	if f.Tenant != nil && r.Tenant != *f.Tenant {
		return false
	}
	if f.ExcludeID != uuid.Nil && r.ID == f.ExcludeID {
		return false
	}
	if f.MatchAny && f.SourcePath != nil && f.DestinationPath != nil {
		return r.SourcePath == *f.SourcePath || r.DestinationPath == *f.DestinationPath
	}
	return (f.SourcePath == nil || r.SourcePath == *f.SourcePath) &&
		(f.DestinationPath == nil || r.DestinationPath == *f.DestinationPath)
}

// ValidationFilter returns the scope redirect checks run in, typically the
// current tenant.
type ValidationFilter func(ctx context.Context) Filter

// Store is what the validator reads.
type Store interface {
	Count(ctx context.Context, filter Filter) (int, error)
}

// Repository persists redirects.
type Repository interface {
	Store
	Create(ctx context.Context, record *Redirect) (*Redirect, error)
	Update(ctx context.Context, record *Redirect) (*Redirect, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Redirect, error)
	List(ctx context.Context, filter Filter) ([]*Redirect, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
