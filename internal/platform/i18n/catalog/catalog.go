// Package catalog loads embedded locale message files for user-facing
// grimoire text: capacity notices, rank-change confirmations, and redemption
// results. Files are minimal YAML, one per locale, hand-parsed to keep the
// format strict.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// BaseLocale is the canonical source locale.
const BaseLocale = "en-US"

//go:embed locales/*.yaml
var embeddedFS embed.FS

// Bundle holds the message maps for every loaded locale.
type Bundle struct {
	locales map[string]map[string]string
	matcher language.Matcher
	tags    []string
}

// LoadEmbedded loads the locale files embedded in this package.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedFS)
}

// LoadFromFS loads locale files from the provided filesystem.
func LoadFromFS(localeFS fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(localeFS, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale files: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no locale files found")
	}
	sort.Strings(paths)

	bundle := &Bundle{locales: map[string]map[string]string{}}
	var tags []language.Tag
	for _, filePath := range paths {
		data, err := fs.ReadFile(localeFS, filePath)
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", filePath, err)
		}
		locale, messages, err := parseLocaleFile(data)
		if err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", filePath, err)
		}
		fromName := strings.TrimSuffix(path.Base(filePath), ".yaml")
		if locale != fromName {
			return nil, fmt.Errorf("locale %s: declared locale %q must match filename", filePath, locale)
		}
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("locale %s: %w", filePath, err)
		}
		bundle.locales[locale] = messages
		bundle.tags = append(bundle.tags, locale)
		tags = append(tags, tag)
	}

	if _, ok := bundle.locales[BaseLocale]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined", BaseLocale)
	}

	// The matcher prefers the base locale, so it must come first.
	ordered := make([]language.Tag, 0, len(tags))
	orderedNames := make([]string, 0, len(tags))
	for i, name := range bundle.tags {
		if name == BaseLocale {
			ordered = append([]language.Tag{tags[i]}, ordered...)
			orderedNames = append([]string{name}, orderedNames...)
			continue
		}
		ordered = append(ordered, tags[i])
		orderedNames = append(orderedNames, name)
	}
	bundle.tags = orderedNames
	bundle.matcher = language.NewMatcher(ordered)
	return bundle, nil
}

// Match resolves a BCP 47 accept string to the closest loaded locale.
func (b *Bundle) Match(accept string) string {
	if b == nil || b.matcher == nil {
		return BaseLocale
	}
	desired, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(desired) == 0 {
		return BaseLocale
	}
	_, index, _ := b.matcher.Match(desired...)
	if index < 0 || index >= len(b.tags) {
		return BaseLocale
	}
	return b.tags[index]
}

// Locales returns the loaded locale identifiers, base locale first.
func (b *Bundle) Locales() []string {
	if b == nil {
		return nil
	}
	out := make([]string, len(b.tags))
	copy(out, b.tags)
	return out
}

// Message returns one message with base-locale fallback.
func (b *Bundle) Message(locale, key string) (string, bool) {
	if b == nil || strings.TrimSpace(key) == "" {
		return "", false
	}
	if messages, ok := b.locales[strings.TrimSpace(locale)]; ok {
		if value, exists := messages[key]; exists {
			return value, true
		}
	}
	if locale != BaseLocale {
		value, exists := b.locales[BaseLocale][key]
		return value, exists
	}
	return "", false
}

// parseLocaleFile reads the strict locale file layout:
//
//	locale: "en-US"
//	messages:
//	  some.key: "value"
func parseLocaleFile(data []byte) (string, map[string]string, error) {
	locale := ""
	messages := map[string]string{}
	inMessages := false

	for _, rawLine := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "locale:"):
			value, err := unquote(strings.TrimSpace(strings.TrimPrefix(line, "locale:")))
			if err != nil {
				return "", nil, fmt.Errorf("parse locale: %w", err)
			}
			locale = value
		case line == "messages:":
			inMessages = true
		default:
			if !inMessages {
				return "", nil, fmt.Errorf("unexpected line %q", line)
			}
			key, value, err := parseMessageLine(line)
			if err != nil {
				return "", nil, err
			}
			if _, exists := messages[key]; exists {
				return "", nil, fmt.Errorf("duplicate key %q", key)
			}
			messages[key] = value
		}
	}

	if locale == "" {
		return "", nil, fmt.Errorf("missing locale")
	}
	if len(messages) == 0 {
		return "", nil, fmt.Errorf("missing messages")
	}
	return locale, messages, nil
}

func parseMessageLine(line string) (string, string, error) {
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return "", "", fmt.Errorf("parse message entry %q", line)
	}
	key := strings.TrimSpace(line[:idx])
	value, err := unquote(strings.TrimSpace(line[idx+1:]))
	if err != nil {
		return "", "", fmt.Errorf("parse message entry %q: %w", line, err)
	}
	return key, value, nil
}

func unquote(value string) (string, error) {
	if len(value) < 2 || !strings.HasPrefix(value, `"`) || !strings.HasSuffix(value, `"`) {
		return "", fmt.Errorf("value %q must be double quoted", value)
	}
	return value[1 : len(value)-1], nil
}
