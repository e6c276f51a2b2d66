package redirectscmd

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-pagetree/internal/commands"
	"github.com/goliatone/go-pagetree/internal/logging"
	"github.com/goliatone/go-pagetree/internal/redirects"
	"github.com/goliatone/go-pagetree/pkg/interfaces"
	"github.com/google/uuid"
)

const (
	saveRedirectMessageType   = "pagetree.redirects.save"
	deleteRedirectMessageType = "pagetree.redirects.delete"
)

// Service is the redirect surface the command handlers drive.
type Service interface {
	SaveRedirect(ctx context.Context, record *redirects.Redirect) (*redirects.Redirect, error)
	DeleteRedirect(ctx context.Context, id uuid.UUID) error
}

// SaveRedirectCommand creates a redirect, or updates it when ID is set.
type SaveRedirectCommand struct {
	ID              uuid.UUID      `json:"id,omitempty"`
	Tenant          string         `json:"tenant,omitempty"`
	SourcePath      string         `json:"source_path"`
	DestinationPath string         `json:"destination_path"`
	RedirectType    redirects.Type `json:"type,omitempty"`
	Reason          string         `json:"reason,omitempty"`

	Saved func(*redirects.Redirect) `json:"-"`
}

// Type implements command.Message.
func (SaveRedirectCommand) Type() string { return saveRedirectMessageType }

// Validate only checks presence; path rules and loop detection run in the
// redirect validator.
func (m SaveRedirectCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(m.SourcePath) == "" {
		errs["source_path"] = validation.NewError("pagetree.redirects.save.source_required", "source_path is required")
	}
	if strings.TrimSpace(m.DestinationPath) == "" {
		errs["destination_path"] = validation.NewError("pagetree.redirects.save.destination_required", "destination_path is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SaveRedirectHandler validates and stores redirects.
type SaveRedirectHandler struct {
	inner *commands.Handler[SaveRedirectCommand]
}

// NewSaveRedirectHandler constructs a handler wired to the provided service.
func NewSaveRedirectHandler(service Service, logger interfaces.Logger, opts ...commands.HandlerOption[SaveRedirectCommand]) *SaveRedirectHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg SaveRedirectCommand) error {
		ctx = commands.TenantContext(ctx, msg.Tenant)
		logging.WithFields(baseLogger, map[string]any{
			"source_path":      msg.SourcePath,
			"destination_path": msg.DestinationPath,
		}).Debug("redirects.command.save.dispatch")

		saved, err := service.SaveRedirect(ctx, &redirects.Redirect{
			ID:              msg.ID,
			Tenant:          strings.TrimSpace(msg.Tenant),
			SourcePath:      msg.SourcePath,
			DestinationPath: msg.DestinationPath,
			Type:            msg.RedirectType,
			Reason:          msg.Reason,
		})
		if err != nil {
			return err
		}
		if msg.Saved != nil {
			msg.Saved(saved)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[SaveRedirectCommand]{
		commands.WithLogger[SaveRedirectCommand](baseLogger),
		commands.WithOperation[SaveRedirectCommand]("redirects.save"),
		commands.WithMessageFields(func(msg SaveRedirectCommand) map[string]any {
			fields := map[string]any{"source_path": msg.SourcePath}
			if msg.ID != uuid.Nil {
				fields["redirect_id"] = msg.ID
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SaveRedirectCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SaveRedirectHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SaveRedirectCommand].
func (h *SaveRedirectHandler) Execute(ctx context.Context, msg SaveRedirectCommand) error {
	return h.inner.Execute(ctx, msg)
}

// DeleteRedirectCommand removes a redirect by id.
type DeleteRedirectCommand struct {
	ID uuid.UUID `json:"id"`
}

// Type implements command.Message.
func (DeleteRedirectCommand) Type() string { return deleteRedirectMessageType }

// Validate ensures the command carries an id.
func (m DeleteRedirectCommand) Validate() error {
	if m.ID == uuid.Nil {
		return validation.Errors{
			"id": validation.NewError("pagetree.redirects.delete.id_required", "id is required"),
		}
	}
	return nil
}

// DeleteRedirectHandler deletes redirects via the service.
type DeleteRedirectHandler struct {
	inner *commands.Handler[DeleteRedirectCommand]
}

// NewDeleteRedirectHandler constructs a handler wired to the provided service.
func NewDeleteRedirectHandler(service Service, logger interfaces.Logger, opts ...commands.HandlerOption[DeleteRedirectCommand]) *DeleteRedirectHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg DeleteRedirectCommand) error {
		return service.DeleteRedirect(ctx, msg.ID)
	}

	handlerOpts := []commands.HandlerOption[DeleteRedirectCommand]{
		commands.WithLogger[DeleteRedirectCommand](baseLogger),
		commands.WithOperation[DeleteRedirectCommand]("redirects.delete"),
		commands.WithMessageFields(func(msg DeleteRedirectCommand) map[string]any {
			return map[string]any{"redirect_id": msg.ID}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &DeleteRedirectHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[DeleteRedirectCommand].
func (h *DeleteRedirectHandler) Execute(ctx context.Context, msg DeleteRedirectCommand) error {
	return h.inner.Execute(ctx, msg)
}
