package seed

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"sort"
	"strings"

	"github.com/goliatone/go-pagetree/internal/hierarchy"
)

// Entry is one seeded document, merged across its locale files.
type Entry struct {
	Key        string
	Collection string
	Tenant     string
	Root       bool
	Parent     string
	Slug       hierarchy.Localized
	Fields     map[string]hierarchy.Localized
}

// Loader discovers seed files in a filesystem. Files are named
// <key>.md or <key>.<locale>.md; keys are slash separated paths relative to
// the loader root.
type Loader struct {
	fs      fs.FS
	root    string
	locales []string
}

// NewLoader returns a Loader reading below root. locales lists the suffixes
// recognised as locale markers.
func NewLoader(filesystem fs.FS, root string, locales ...string) *Loader {
	root = path.Clean(strings.TrimSpace(root))
	if root == "" {
		root = "."
	}
	return &Loader{fs: filesystem, root: root, locales: append([]string(nil), locales...)}
}

// Load parses every *.md file and merges locale variants by tenant and key.
// Entries are returned sorted by key.
func (l *Loader) Load(ctx context.Context) ([]*Entry, error) {
	merged := map[string]*Entry{}
	err := fs.WalkDir(l.fs, l.root, func(name string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || path.Ext(name) != ".md" {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		source, err := fs.ReadFile(l.fs, name)
		if err != nil {
			return fmt.Errorf("seed read %s: %w", name, err)
		}
		key, locale := l.splitName(name)
		entry, err := ParseEntry(key, locale, source)
		if err != nil {
			return fmt.Errorf("seed %s: %w", name, err)
		}
		id := entry.Tenant + "\x00" + entry.Key
		current, ok := merged[id]
		if !ok {
			merged[id] = entry
			return nil
		}
		return mergeEntry(current, entry)
	})
	if err != nil {
		return nil, err
	}

	out := make([]*Entry, 0, len(merged))
	for _, entry := range merged {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Tenant != out[j].Tenant {
			return out[i].Tenant < out[j].Tenant
		}
		return out[i].Key < out[j].Key
	})
	return out, nil
}

func (l *Loader) splitName(name string) (string, string) {
	rel := strings.TrimPrefix(strings.TrimPrefix(name, l.root), "/")
	if l.root == "." {
		rel = name
	}
	rel = strings.TrimSuffix(rel, ".md")
	if ext := path.Ext(rel); ext != "" {
		if locale := ext[1:]; slices.Contains(l.locales, locale) {
			return strings.TrimSuffix(rel, ext), locale
		}
	}
	return rel, ""
}

func mergeEntry(into, from *Entry) error {
	if into.Collection != from.Collection {
		return fmt.Errorf("%w: %s", ErrEntryConflict, into.Key)
	}
	if from.Parent != "" {
		if into.Parent != "" && into.Parent != from.Parent {
			return fmt.Errorf("%w: %s", ErrEntryConflict, into.Key)
		}
		into.Parent = from.Parent
	}
	into.Root = into.Root || from.Root
	for locale, slug := range from.Slug {
		into.Slug[locale] = slug
	}
	for name, values := range from.Fields {
		current, ok := into.Fields[name]
		if !ok {
			into.Fields[name] = values
			continue
		}
		for locale, value := range values {
			current[locale] = value
		}
	}
	return nil
}
