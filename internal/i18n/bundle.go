// Package i18n resolves localized texts referenced from column labels.
package i18n

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// MissingKeyFallback selects the text returned for keys missing from the bundle
type MissingKeyFallback int

const (
	// FallbackEmpty returns the empty string
	FallbackEmpty MissingKeyFallback = iota
	// FallbackKey returns the key itself
	FallbackKey
)

// ParseFallback converts a configuration value to a MissingKeyFallback
func ParseFallback(s string) (MissingKeyFallback, error) {
	switch s {
	case "", "empty":
		return FallbackEmpty, nil
	case "key":
		return FallbackKey, nil
	default:
		return FallbackEmpty, fmt.Errorf("unknown missing key fallback %q", s)
	}
}

// Bundle is a flat key/value text bundle.
type Bundle struct {
	mu       sync.RWMutex
	texts    map[string]string
	fallback MissingKeyFallback
}

// NewBundle creates a bundle from the given texts
func NewBundle(texts map[string]string, fallback MissingKeyFallback) *Bundle {
	b := &Bundle{texts: make(map[string]string, len(texts)), fallback: fallback}
	for k, v := range texts {
		b.texts[k] = v
	}
	return b
}

// Load parses a YAML bundle of string keys to string texts
func Load(data []byte, fallback MissingKeyFallback) (*Bundle, error) {
	var texts map[string]string
	if err := yaml.Unmarshal(data, &texts); err != nil {
		return nil, fmt.Errorf("failed to parse text bundle: %w", err)
	}
	return NewBundle(texts, fallback), nil
}

// LoadFile reads and parses a YAML bundle from disk
func LoadFile(path string, fallback MissingKeyFallback) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read text bundle %s: %w", path, err)
	}
	return Load(data, fallback)
}

// Merge adds texts to the bundle, overriding existing keys
func (b *Bundle) Merge(texts map[string]string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for k, v := range texts {
		b.texts[k] = v
	}
}

// Len returns the number of texts in the bundle
func (b *Bundle) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.texts)
}

// Text looks up a key directly
func (b *Bundle) Text(key string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	text, ok := b.texts[key]
	return text, ok
}

// Localize resolves "{i18n>KEY}" and "{@i18n>KEY}" bindings; any other
// text is returned unchanged. On a miss a non-empty string fallbackCtx is
// returned, otherwise the bundle's MissingKeyFallback applies.
// A nil bundle only passes plain text through.
func (b *Bundle) Localize(text string, fallbackCtx any) string {
	key, ok := ParseBinding(text)
	if !ok {
		return text
	}

	if b != nil {
		if localized, found := b.Text(key); found {
			return localized
		}
	}

	if s, ok := fallbackCtx.(string); ok && s != "" {
		return s
	}
	if b != nil && b.fallback == FallbackKey {
		return key
	}
	return ""
}

// ParseBinding extracts the key of an i18n binding expression.
func ParseBinding(text string) (string, bool) {
	if !strings.HasPrefix(text, "{") || !strings.HasSuffix(text, "}") {
		return "", false
	}
	inner := strings.TrimPrefix(text[1:len(text)-1], "@")
	key, found := strings.CutPrefix(inner, "i18n>")
	if !found || key == "" {
		return "", false
	}
	return key, true
}
