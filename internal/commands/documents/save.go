package documentscmd

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-pagetree/internal/commands"
	"github.com/goliatone/go-pagetree/internal/hierarchy"
	"github.com/goliatone/go-pagetree/internal/logging"
	"github.com/goliatone/go-pagetree/pkg/interfaces"
	"github.com/google/uuid"
)

const saveDocumentMessageType = "pagetree.documents.save"

// Service is the document surface the command handlers drive.
type Service interface {
	SaveDocument(ctx context.Context, doc *hierarchy.Document) (*hierarchy.Document, error)
	DeleteDocument(ctx context.Context, collection string, id uuid.UUID) error
}

// SaveDocumentCommand creates a document, or updates it when ID is set.
type SaveDocumentCommand struct {
	Collection string                       `json:"collection"`
	ID         uuid.UUID                    `json:"id,omitempty"`
	Tenant     string                       `json:"tenant,omitempty"`
	IsRootPage bool                         `json:"is_root_page,omitempty"`
	ParentID   *uuid.UUID                   `json:"parent_id,omitempty"`
	Slug       map[string]string            `json:"slug,omitempty"`
	Fields     map[string]map[string]string `json:"fields,omitempty"`

	// Saved receives the stored document, virtual fields included.
	Saved func(*hierarchy.Document) `json:"-"`
}

// Type implements command.Message.
func (SaveDocumentCommand) Type() string { return saveDocumentMessageType }

// Validate ensures the command names a collection and a well-formed parent.
func (m SaveDocumentCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(m.Collection) == "" {
		errs["collection"] = validation.NewError("pagetree.documents.save.collection_required", "collection is required")
	}
	if m.ParentID != nil && *m.ParentID == uuid.Nil {
		errs["parent_id"] = validation.NewError("pagetree.documents.save.parent_id_invalid", "parent_id must be a valid identifier when provided")
	}
	if m.IsRootPage && m.ParentID != nil {
		errs["parent_id"] = validation.NewError("pagetree.documents.save.parent_on_root", "root pages cannot have a parent")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (m SaveDocumentCommand) document() *hierarchy.Document {
	doc := &hierarchy.Document{
		ID:         m.ID,
		Collection: strings.TrimSpace(m.Collection),
		Tenant:     strings.TrimSpace(m.Tenant),
		IsRootPage: m.IsRootPage,
		Slug:       hierarchy.Localized(m.Slug).Clone(),
	}
	if m.ParentID != nil {
		parent := *m.ParentID
		doc.ParentID = &parent
	}
	if len(m.Fields) > 0 {
		doc.Fields = make(map[string]hierarchy.Localized, len(m.Fields))
		for name, values := range m.Fields {
			doc.Fields[name] = hierarchy.Localized(values).Clone()
		}
	}
	return doc
}

// SaveDocumentHandler persists documents through the page tree hooks.
type SaveDocumentHandler struct {
	inner *commands.Handler[SaveDocumentCommand]
}

// NewSaveDocumentHandler constructs a handler wired to the provided service.
func NewSaveDocumentHandler(service Service, logger interfaces.Logger, opts ...commands.HandlerOption[SaveDocumentCommand]) *SaveDocumentHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg SaveDocumentCommand) error {
		ctx = commands.TenantContext(ctx, msg.Tenant)
		id := ""
		if msg.ID != uuid.Nil {
			id = msg.ID.String()
		}
		logging.WithDocumentContext(baseLogger, msg.Collection, id, "").Debug("documents.command.save.dispatch")

		saved, err := service.SaveDocument(ctx, msg.document())
		if err != nil {
			return err
		}
		if msg.Saved != nil {
			msg.Saved(saved)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[SaveDocumentCommand]{
		commands.WithLogger[SaveDocumentCommand](baseLogger),
		commands.WithOperation[SaveDocumentCommand]("documents.save"),
		commands.WithMessageFields(func(msg SaveDocumentCommand) map[string]any {
			fields := map[string]any{"collection": msg.Collection}
			if msg.ID != uuid.Nil {
				fields["document_id"] = msg.ID
			}
			if msg.Tenant != "" {
				fields["tenant"] = msg.Tenant
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SaveDocumentCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SaveDocumentHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SaveDocumentCommand].
func (h *SaveDocumentHandler) Execute(ctx context.Context, msg SaveDocumentCommand) error {
	return h.inner.Execute(ctx, msg)
}
