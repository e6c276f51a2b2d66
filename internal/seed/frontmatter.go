package seed

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-pagetree/internal/hierarchy"
)

// LocalizedValue accepts either a plain string or a locale keyed mapping in
// front matter.
type LocalizedValue struct {
	Plain  string
	Values map[string]string
}

// UnmarshalYAML implements the yaml.v2 unmarshaler used by frontmatter.
func (v *LocalizedValue) UnmarshalYAML(unmarshal func(any) error) error {
	var plain string
	if err := unmarshal(&plain); err == nil {
		v.Plain = plain
		return nil
	}
	var values map[string]string
	if err := unmarshal(&values); err != nil {
		return fmt.Errorf("expected string or locale map: %w", err)
	}
	v.Values = values
	return nil
}

// Localize spreads the value over locales. A plain string lands on locale.
func (v LocalizedValue) Localize(locale string) hierarchy.Localized {
	out := hierarchy.Localized{}
	if v.Plain != "" {
		out[locale] = v.Plain
	}
	for key, value := range v.Values {
		if value = strings.TrimSpace(value); value != "" {
			out[strings.TrimSpace(key)] = value
		}
	}
	return out
}

type frontMatterEnvelope struct {
	Key        string                    `yaml:"key"`
	Collection string                    `yaml:"collection"`
	Tenant     string                    `yaml:"tenant"`
	Locale     string                    `yaml:"locale"`
	Root       bool                      `yaml:"root"`
	Parent     string                    `yaml:"parent"`
	Slug       LocalizedValue            `yaml:"slug"`
	Title      LocalizedValue            `yaml:"title"`
	Fields     map[string]LocalizedValue `yaml:"fields"`
}

// ParseEntry extracts one seed entry from a front matter document. key and
// locale are the defaults inferred from the file path.
func ParseEntry(key, locale string, source []byte) (*Entry, error) {
	var meta frontMatterEnvelope
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	if meta.Key != "" {
		key = strings.TrimSpace(meta.Key)
	}
	if meta.Locale != "" {
		locale = strings.TrimSpace(meta.Locale)
	}
	entry := &Entry{
		Key:        key,
		Collection: strings.TrimSpace(meta.Collection),
		Tenant:     strings.TrimSpace(meta.Tenant),
		Root:       meta.Root,
		Parent:     strings.TrimSpace(meta.Parent),
		Slug:       meta.Slug.Localize(locale),
		Fields:     map[string]hierarchy.Localized{},
	}
	if title := meta.Title.Localize(locale); len(title) > 0 {
		entry.Fields["title"] = title
	}
	for name, value := range meta.Fields {
		if localized := value.Localize(locale); len(localized) > 0 {
			entry.Fields[name] = localized
		}
	}
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 {
		entry.Fields["body"] = hierarchy.Localized{locale: string(trimmed)}
	}
	if entry.Collection == "" {
		return nil, fmt.Errorf("%w: %s", ErrCollectionMissing, key)
	}
	return entry, nil
}
