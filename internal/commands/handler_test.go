package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-pagetree/internal/hierarchy"
	"github.com/goliatone/go-pagetree/internal/redirects"
	"github.com/goliatone/go-pagetree/pkg/testsupport"
)

type testMessage struct{}

func (testMessage) Type() string { return "pagetree.test.message" }

func (testMessage) Validate() error { return nil }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "pagetree.test.invalid" }

func (invalidMessage) Validate() error {
	return validationError()
}

func validationError() error {
	return errors.New("invalid")
}

func TestHandlerExecuteSuccess(t *testing.T) {
	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to be invoked")
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	h := NewHandler[invalidMessage](func(ctx context.Context, msg invalidMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), invalidMessage{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestHandlerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, testMessage{})
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when context is cancelled")
	}
}

func TestHandlerWrapsExecutionError(t *testing.T) {
	execErr := errors.New("boom")
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return execErr
	})

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected wrapped execution error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !goerrors.HasCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category to propagate, got %v", err)
	}
}

func TestHandlerMapsStoreMisses(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code string
	}{
		{name: "document", err: hierarchy.ErrDocumentNotFound, code: "DOCUMENT_NOT_FOUND"},
		{name: "redirect", err: redirects.ErrRedirectNotFound, code: redirects.CodeRedirectMissing},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
				return tc.err
			})
			err := h.Execute(context.Background(), testMessage{})
			if !goerrors.IsNotFound(err) {
				t.Fatalf("expected not found category, got %v", err)
			}
			var typed *goerrors.Error
			if !errors.As(err, &typed) || typed.TextCode != tc.code {
				t.Fatalf("expected text code %s, got %v", tc.code, err)
			}
			if !errors.Is(err, tc.err) {
				t.Fatalf("expected sentinel to survive wrapping, got %v", err)
			}
		})
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(20 * time.Millisecond):
			return nil
		}
	}, WithTimeout[testMessage](10*time.Millisecond))

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	var typed *goerrors.Error
	if !errors.As(err, &typed) || typed.TextCode != CodeCommandTimeout {
		t.Fatalf("expected timeout code, got %v", err)
	}
}

func TestHandlerLogsMessageFields(t *testing.T) {
	logger := testsupport.NewRecordingLogger()
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return nil
	},
		WithLogger[testMessage](logger),
		WithOperation[testMessage]("documents.save"),
		WithMessageFields(func(testMessage) map[string]any {
			return map[string]any{"collection": "pages"}
		}),
	)

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	entries := logger.Entries()
	if len(entries) == 0 {
		t.Fatal("expected log entries")
	}
	last := entries[len(entries)-1]
	if last.Msg != "command.execute.success" {
		t.Fatalf("expected success entry, got %q", last.Msg)
	}
	if last.Fields["collection"] != "pages" || last.Fields["operation"] != "documents.save" {
		t.Fatalf("expected message fields on entry, got %v", last.Fields)
	}
}

func TestHandlerReportsTelemetry(t *testing.T) {
	var got TelemetryInfo
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return errors.New("boom")
	}, WithTelemetry(func(_ context.Context, _ testMessage, info TelemetryInfo) {
		got = info
	}))

	if err := h.Execute(context.Background(), testMessage{}); err == nil {
		t.Fatal("expected error")
	}
	if got.Status != TelemetryStatusFailed || got.Error == nil {
		t.Fatalf("expected failed telemetry, got %+v", got)
	}
	if got.Command != "pagetree.test.message" {
		t.Fatalf("expected command type, got %q", got.Command)
	}
}

func TestHandlerReportsRejections(t *testing.T) {
	logger := testsupport.NewRecordingLogger()
	blocked := goerrors.Wrap(hierarchy.ErrParentDeletionDenied, goerrors.CategoryConflict, "still referenced").
		WithTextCode(hierarchy.CodeParentDeletionBlocked)
	var got TelemetryInfo
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return blocked
	},
		WithLogger[testMessage](logger),
		WithTelemetry(func(ctx context.Context, msg testMessage, info TelemetryInfo) {
			got = info
			DefaultTelemetry[testMessage](logger)(ctx, msg, info)
		}),
	)

	err := h.Execute(context.Background(), testMessage{})
	if !errors.Is(err, hierarchy.ErrParentDeletionDenied) {
		t.Fatalf("expected guard error to pass through, got %v", err)
	}
	if got.Status != TelemetryStatusRejected {
		t.Fatalf("expected rejected status, got %q", got.Status)
	}
	entries := logger.Entries()
	last := entries[len(entries)-1]
	if last.Msg != "command.execute.rejected" || last.Level != "info" {
		t.Fatalf("expected info rejection entry, got %+v", last)
	}
}
