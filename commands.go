package pagetree

import (
	"errors"
	"time"

	"github.com/goliatone/go-pagetree/internal/commands"
	documentscmd "github.com/goliatone/go-pagetree/internal/commands/documents"
	redirectscmd "github.com/goliatone/go-pagetree/internal/commands/redirects"
	"github.com/goliatone/go-pagetree/pkg/interfaces"
)

type (
	SaveDocumentCommand   = documentscmd.SaveDocumentCommand
	DeleteDocumentCommand = documentscmd.DeleteDocumentCommand
	SaveRedirectCommand   = redirectscmd.SaveRedirectCommand
	DeleteRedirectCommand = redirectscmd.DeleteRedirectCommand
)

// CommandRegistry records command handlers so hosts can expose them via CLI or cron.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// RegistrationOptions configures how handlers are registered.
type RegistrationOptions struct {
	Registry       CommandRegistry
	Dispatcher     CommandDispatcher
	LoggerProvider interfaces.LoggerProvider
}

// RegistrationResult captures the constructed command handlers and any dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
}

// Close unsubscribes every dispatcher subscription.
func (r *RegistrationResult) Close() {
	if r == nil {
		return
	}
	for _, sub := range r.Subscriptions {
		sub.Unsubscribe()
	}
	r.Subscriptions = nil
}

// RegisterCommands builds the document and redirect command handlers and
// optionally registers them with a registry and a dispatcher.
func (m *Module) RegisterCommands(opts RegistrationOptions) (*RegistrationResult, error) {
	if m == nil {
		return &RegistrationResult{}, nil
	}

	provider := opts.LoggerProvider
	if provider == nil {
		provider = m.container.LoggerProvider()
	}
	timeout := time.Duration(m.container.Config.Commands.Timeout)

	result := &RegistrationResult{
		Handlers:      make([]any, 0, 4),
		Subscriptions: make([]CommandSubscription, 0),
	}

	var errs error
	register := func(handler any) {
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}
		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}
	}

	documentsLogger := commands.CommandLogger(provider, commands.GroupDocuments)
	register(documentscmd.NewSaveDocumentHandler(m, documentsLogger, commands.TimeoutOptions[SaveDocumentCommand](timeout)...))
	register(documentscmd.NewDeleteDocumentHandler(m, documentsLogger, commands.TimeoutOptions[DeleteDocumentCommand](timeout)...))

	if m.RedirectsEnabled() {
		redirectsLogger := commands.CommandLogger(provider, commands.GroupRedirects)
		register(redirectscmd.NewSaveRedirectHandler(m, redirectsLogger, commands.TimeoutOptions[SaveRedirectCommand](timeout)...))
		register(redirectscmd.NewDeleteRedirectHandler(m, redirectsLogger, commands.TimeoutOptions[DeleteRedirectCommand](timeout)...))
	}

	return result, errs
}
