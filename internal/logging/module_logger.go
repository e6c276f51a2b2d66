package logging

import (
	"context"

	"github.com/goliatone/go-pagetree/pkg/interfaces"
)

const (
	rootModule      = "pagetree"
	hierarchyModule = "pagetree.hierarchy"
	guardModule     = "pagetree.guard"
	redirectsModule = "pagetree.redirects"
)

// ModuleLogger resolves the logger for module from provider and tags it with a
// module field. A nil provider, or one returning nil, yields NoOp.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	var logger interfaces.Logger = noopLogger{}
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return WithFields(logger, map[string]any{"module": module})
}

// HierarchyLogger is used by the virtual field materializer and resolver.
func HierarchyLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, hierarchyModule)
}

// GuardLogger is used by the parent deletion guard.
func GuardLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, guardModule)
}

// RedirectsLogger is used by the redirect loop validator.
func RedirectsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, redirectsModule)
}

// NoOp returns a logger that discards everything.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger { return n }

func (n noopLogger) WithContext(context.Context) interfaces.Logger { return n }
