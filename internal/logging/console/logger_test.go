package console_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-pagetree/internal/logging"
	"github.com/goliatone/go-pagetree/internal/logging/console"
)

func TestConsoleLoggerRendersSortedFields(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 5, 2, 10, 30, 0, 0, time.UTC)
	level := console.LevelDebug
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
		MinLevel: &level,
	})

	ctx := logging.ContextWithFields(context.Background(), map[string]any{"tenant": "acme"})
	logger := logging.WithFields(provider.GetLogger("pagetree.hierarchy"), map[string]any{"module": "pagetree.hierarchy"})
	logger = logger.WithContext(ctx)
	logger.Warn("breadcrumbs.locale_missing", "locale", "en", "error", errors.New("slug not set"))

	got := strings.TrimSpace(buf.String())
	want := `2024-05-02T10:30:00Z WARN breadcrumbs.locale_missing error="slug not set" locale=en logger=pagetree.hierarchy module=pagetree.hierarchy tenant=acme`
	if got != want {
		t.Fatalf("unexpected entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLoggerFiltersBelowMinLevel(t *testing.T) {
	var buf bytes.Buffer
	level := console.ParseLevel("warning")
	logger := console.NewProvider(console.Options{Writer: &buf, MinLevel: &level}).GetLogger("pagetree")

	logger.Info("skipped")
	logger.Error("kept", "dangling")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 || !strings.Contains(lines[0], "kept field_0=dangling") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
