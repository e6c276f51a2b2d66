package seed

import (
	"context"
	"fmt"

	"github.com/goliatone/go-pagetree/internal/hierarchy"
	"github.com/goliatone/go-pagetree/internal/identity"
	"github.com/goliatone/go-pagetree/internal/logging"
	"github.com/goliatone/go-pagetree/internal/tenancy"
	"github.com/goliatone/go-pagetree/pkg/interfaces"
	"github.com/google/uuid"
)

// Saver stores documents through the page tree hooks.
type Saver interface {
	SaveDocument(ctx context.Context, doc *hierarchy.Document) (*hierarchy.Document, error)
}

// Result lists the stored documents in the order they were written.
type Result struct {
	Documents []*hierarchy.Document
}

// Option configures Apply.
type Option func(*applyConfig)

type applyConfig struct {
	logger interfaces.Logger
}

// WithLogger sets the logger Apply reports progress to.
func WithLogger(logger interfaces.Logger) Option {
	return func(cfg *applyConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// DocumentID is the stable id a seeded entry is stored under.
func DocumentID(entry *Entry) uuid.UUID {
	return identity.DocumentUUID(entry.Tenant, entry.Collection, entry.Key)
}

// Apply writes entries parents first. Ids derive from tenant, collection and
// key, so re-running Apply updates the same documents.
func Apply(ctx context.Context, saver Saver, entries []*Entry, opts ...Option) (*Result, error) {
	cfg := applyConfig{logger: logging.NoOp()}
	for _, opt := range opts {
		opt(&cfg)
	}

	ordered, err := order(entries)
	if err != nil {
		return nil, err
	}
	index := make(map[string]*Entry, len(entries))
	for _, entry := range entries {
		index[entry.Tenant+"\x00"+entry.Key] = entry
	}

	result := &Result{}
	for _, entry := range ordered {
		doc := &hierarchy.Document{
			ID:         DocumentID(entry),
			Collection: entry.Collection,
			Tenant:     entry.Tenant,
			IsRootPage: entry.Root,
			Slug:       entry.Slug.Clone(),
			Fields:     make(map[string]hierarchy.Localized, len(entry.Fields)),
		}
		for name, value := range entry.Fields {
			doc.Fields[name] = value.Clone()
		}
		if entry.Parent != "" {
			parentID := DocumentID(index[entry.Tenant+"\x00"+entry.Parent])
			doc.ParentID = &parentID
		}

		scoped := ctx
		if entry.Tenant != "" {
			scoped = tenancy.ContextWithTenant(ctx, entry.Tenant)
		}
		saved, err := saver.SaveDocument(scoped, doc)
		if err != nil {
			return result, fmt.Errorf("seed %s: %w", entry.Key, err)
		}
		logging.WithDocumentContext(cfg.logger, entry.Collection, saved.ID.String(), "").
			Debug("seed.document.saved", "key", entry.Key)
		result.Documents = append(result.Documents, saved)
	}
	cfg.logger.Info("seed.applied", "documents", len(result.Documents))
	return result, nil
}

// order sorts entries so every parent precedes its children, keeping the
// input order otherwise.
func order(entries []*Entry) ([]*Entry, error) {
	index := make(map[string]*Entry, len(entries))
	for _, entry := range entries {
		index[entry.Tenant+"\x00"+entry.Key] = entry
	}

	const (
		pending = iota
		visiting
		done
	)
	state := make(map[*Entry]int, len(entries))
	out := make([]*Entry, 0, len(entries))

	var visit func(entry *Entry) error
	visit = func(entry *Entry) error {
		switch state[entry] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: %s", ErrParentCycle, entry.Key)
		}
		state[entry] = visiting
		if entry.Parent != "" {
			parent, ok := index[entry.Tenant+"\x00"+entry.Parent]
			if !ok {
				return fmt.Errorf("%w: %s -> %s", ErrUnknownParent, entry.Key, entry.Parent)
			}
			if err := visit(parent); err != nil {
				return err
			}
		}
		state[entry] = done
		out = append(out, entry)
		return nil
	}

	for _, entry := range entries {
		if err := visit(entry); err != nil {
			return nil, err
		}
	}
	return out, nil
}
