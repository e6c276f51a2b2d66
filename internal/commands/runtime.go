package commands

import (
	"context"
	"strings"
	"time"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-pagetree/internal/logging"
	"github.com/goliatone/go-pagetree/internal/tenancy"
	"github.com/goliatone/go-pagetree/pkg/interfaces"
)

// DefaultCommandTimeout bounds handler execution unless overridden.
const DefaultCommandTimeout = 30 * time.Second

// TenantContext scopes ctx to the tenant named by a command. A blank tenant
// keeps whatever scope ctx already carries.
func TenantContext(ctx context.Context, tenant string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if tenant = strings.TrimSpace(tenant); tenant != "" {
		return tenancy.ContextWithTenant(ctx, tenant)
	}
	return ctx
}

// TimeoutOptions turns a configured timeout into handler options. A zero
// timeout keeps DefaultCommandTimeout.
func TimeoutOptions[T command.Message](timeout time.Duration) []HandlerOption[T] {
	if timeout <= 0 {
		return nil
	}
	return []HandlerOption[T]{WithTimeout[T](timeout)}
}

// EnsureLogger returns a usable logger, defaulting to a no-op logger when nil.
func EnsureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}

func withDeadline(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
