package main

import (
	"context"
	"embed"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/goliatone/go-command/dispatcher"
	pagetree "github.com/goliatone/go-pagetree"
	documentscmd "github.com/goliatone/go-pagetree/internal/commands/documents"
	redirectscmd "github.com/goliatone/go-pagetree/internal/commands/redirects"
	"github.com/goliatone/go-pagetree/internal/seed"
	"github.com/goliatone/go-pagetree/pkg/interfaces"
)

//go:embed content
var content embed.FS

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		log.Fatalf("pagetree example: %v", err)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("pagetree-example", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a JSON configuration file")
	dsn := fs.String("dsn", "file::memory:?cache=shared", "SQLite DSN used when no config file is given")
	logLevel := fs.String("log-level", "info", "Log level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath, *dsn, *logLevel)
	if err != nil {
		return err
	}

	module, err := pagetree.New(cfg)
	if err != nil {
		return fmt.Errorf("new module: %w", err)
	}
	defer module.Close()

	registration, err := module.RegisterCommands(pagetree.RegistrationOptions{Dispatcher: commandBus{}})
	if err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	defer registration.Close()

	entries, err := seed.NewLoader(content, "content", cfg.Locales...).Load(ctx)
	if err != nil {
		return fmt.Errorf("load seed content: %w", err)
	}
	if _, err := seed.Apply(ctx, module, entries); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	renderers := pagetree.NewRendererRegistry()
	if err := renderers.Register(interfaces.FieldKindBreadcrumbs, interfaces.FieldRendererFunc(renderTrail)); err != nil {
		return err
	}

	for _, col := range cfg.Collections {
		docs, err := module.ListDocuments(ctx, col.Slug, pagetree.Filter{}, pagetree.ReadOptions{Locale: pagetree.AllLocales})
		if err != nil {
			return fmt.Errorf("list %s: %w", col.Slug, err)
		}
		for _, doc := range docs {
			if err := printDocument(ctx, renderers, doc); err != nil {
				return err
			}
		}
	}

	if err := dispatcher.Dispatch(ctx, pagetree.SaveRedirectCommand{SourcePath: "/en/about-us", DestinationPath: "/en/about"}); err != nil {
		return fmt.Errorf("save redirect: %w", err)
	}
	err = dispatcher.Dispatch(ctx, pagetree.SaveRedirectCommand{SourcePath: "/en/about", DestinationPath: "/en/about-us"})
	fmt.Printf("\nreverse redirect rejected: %v\n", err != nil)

	home := seed.DocumentID(&seed.Entry{Collection: "pages", Key: "pages/home"})
	err = dispatcher.Dispatch(ctx, pagetree.DeleteDocumentCommand{Collection: "pages", ID: home})
	fmt.Printf("deleting the root page rejected: %v\n", err != nil)
	return nil
}

func loadConfig(path, dsn, level string) (pagetree.Config, error) {
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return pagetree.Config{}, err
		}
		defer file.Close()
		return pagetree.LoadConfig(file)
	}

	cfg := pagetree.DefaultConfig()
	cfg.Locales = []string{"en", "de"}
	cfg.DefaultLocale = "en"
	cfg.Collections = []pagetree.CollectionConfig{
		{Slug: "pages", ParentCollection: "pages", IsRootCollection: true},
		{Slug: "authors", ParentCollection: "pages"},
	}
	cfg.Storage = pagetree.StorageConfig{Provider: "bun", Driver: "sqlite", DSN: dsn}
	cfg.Cache.Enabled = true
	cfg.Logging = pagetree.LoggingConfig{Provider: "gologger", Level: level, Format: "console"}
	return cfg, nil
}

func printDocument(ctx context.Context, renderers *pagetree.RendererRegistry, doc *pagetree.Document) error {
	title, _ := doc.Label("title", "en")
	if title == "" {
		title, _ = doc.Label("title", "de")
	}
	fmt.Printf("%s/%s  %s\n", doc.Collection, doc.ID, title)
	if doc.Virtual == nil {
		fmt.Println("  (no path yet)")
		return nil
	}

	locales := make([]string, 0, len(doc.Virtual.Paths))
	for locale := range doc.Virtual.Paths {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	field := pagetree.FieldSpec{Name: "breadcrumbs", Kind: interfaces.FieldKindBreadcrumbs}
	for _, locale := range locales {
		trail, err := renderers.Render(ctx, field, doc.Virtual.BreadcrumbsByLocale[locale])
		if err != nil {
			return err
		}
		fmt.Printf("  %-3s %-28s %s\n", locale, doc.Virtual.Paths[locale], trail)
	}
	return nil
}

func renderTrail(_ context.Context, _ pagetree.FieldSpec, value any) (string, error) {
	trail, ok := value.([]pagetree.Breadcrumb)
	if !ok {
		return "", fmt.Errorf("breadcrumbs: unexpected value %T", value)
	}
	labels := make([]string, 0, len(trail))
	for _, crumb := range trail {
		labels = append(labels, crumb.Label)
	}
	return strings.Join(labels, " › "), nil
}

// commandBus subscribes the pagetree handlers on the go-command dispatcher.
type commandBus struct{}

func (commandBus) RegisterCommand(handler any) (pagetree.CommandSubscription, error) {
	switch h := handler.(type) {
	case *documentscmd.SaveDocumentHandler:
		return dispatcher.SubscribeCommand(h), nil
	case *documentscmd.DeleteDocumentHandler:
		return dispatcher.SubscribeCommand(h), nil
	case *redirectscmd.SaveRedirectHandler:
		return dispatcher.SubscribeCommand(h), nil
	case *redirectscmd.DeleteRedirectHandler:
		return dispatcher.SubscribeCommand(h), nil
	}
	return nil, errors.New("unsupported command handler")
}
