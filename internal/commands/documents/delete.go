package documentscmd

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-pagetree/internal/commands"
	"github.com/goliatone/go-pagetree/internal/logging"
	"github.com/goliatone/go-pagetree/pkg/interfaces"
	"github.com/google/uuid"
)

const deleteDocumentMessageType = "pagetree.documents.delete"

// DeleteDocumentCommand removes a document. Parents with children are
// refused while the deletion guard is enabled.
type DeleteDocumentCommand struct {
	Collection string    `json:"collection"`
	ID         uuid.UUID `json:"id"`
	Tenant     string    `json:"tenant,omitempty"`
}

// Type implements command.Message.
func (DeleteDocumentCommand) Type() string { return deleteDocumentMessageType }

// Validate ensures the command carries the required identifiers.
func (m DeleteDocumentCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(m.Collection) == "" {
		errs["collection"] = validation.NewError("pagetree.documents.delete.collection_required", "collection is required")
	}
	if m.ID == uuid.Nil {
		errs["id"] = validation.NewError("pagetree.documents.delete.id_required", "id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DeleteDocumentHandler deletes documents via the service.
type DeleteDocumentHandler struct {
	inner *commands.Handler[DeleteDocumentCommand]
}

// NewDeleteDocumentHandler constructs a handler wired to the provided service.
func NewDeleteDocumentHandler(service Service, logger interfaces.Logger, opts ...commands.HandlerOption[DeleteDocumentCommand]) *DeleteDocumentHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg DeleteDocumentCommand) error {
		ctx = commands.TenantContext(ctx, msg.Tenant)
		logging.WithDocumentContext(baseLogger, msg.Collection, msg.ID.String(), "").Debug("documents.command.delete.dispatch")
		return service.DeleteDocument(ctx, strings.TrimSpace(msg.Collection), msg.ID)
	}

	handlerOpts := []commands.HandlerOption[DeleteDocumentCommand]{
		commands.WithLogger[DeleteDocumentCommand](baseLogger),
		commands.WithOperation[DeleteDocumentCommand]("documents.delete"),
		commands.WithMessageFields(func(msg DeleteDocumentCommand) map[string]any {
			return map[string]any{
				"collection":  msg.Collection,
				"document_id": msg.ID,
			}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &DeleteDocumentHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[DeleteDocumentCommand].
func (h *DeleteDocumentHandler) Execute(ctx context.Context, msg DeleteDocumentCommand) error {
	return h.inner.Execute(ctx, msg)
}
