package locales

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	// ErrFallbackCycle reports a fallback table whose chain revisits a locale.
	ErrFallbackCycle = errors.New("locales: fallback chain contains a cycle")
	// ErrNoLocaleContent is returned by Resolve when no locale in the chain has content.
	ErrNoLocaleContent = errors.New("locales: no content in any fallback locale")
	// ErrLocaleRequired is returned for empty locale input.
	ErrLocaleRequired = errors.New("locales: locale is required")
)

// CycleError names the locale whose chain loops.
type CycleError struct {
	Locale string
	Chain  []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("locales: fallback chain for %q loops: %s", e.Locale, strings.Join(e.Chain, " -> "))
}

func (e *CycleError) Unwrap() error {
	return ErrFallbackCycle
}

// FallbackTable maps a locale to its single fallback. It is immutable after
// construction and safe for concurrent reads.
type FallbackTable struct {
	entries       map[string]string
	defaultLocale string
}

// TableOption customises a FallbackTable.
type TableOption func(*FallbackTable)

// WithDefaultLocale sets the root locale appended to chains that end elsewhere.
func WithDefaultLocale(locale string) TableOption {
	return func(t *FallbackTable) {
		t.defaultLocale = Canonical(locale)
	}
}

// NewFallbackTable copies entries into a table keyed by canonical locale.
// Blank keys and values are ignored.
func NewFallbackTable(entries map[string]string, opts ...TableOption) *FallbackTable {
	table := &FallbackTable{entries: make(map[string]string, len(entries))}
	for from, to := range entries {
		from, to = Canonical(from), Canonical(to)
		if from == "" || to == "" {
			continue
		}
		table.entries[from] = to
	}
	for _, opt := range opts {
		if opt != nil {
			opt(table)
		}
	}
	return table
}

// DefaultLocale returns the configured root locale, if any.
func (t *FallbackTable) DefaultLocale() string {
	if t == nil {
		return ""
	}
	return t.defaultLocale
}

// Lookup returns the configured fallback for locale.
func (t *FallbackTable) Lookup(locale string) (string, bool) {
	if t == nil {
		return "", false
	}
	fallback, ok := t.entries[Canonical(locale)]
	return fallback, ok
}

// Entries returns a copy of the table.
func (t *FallbackTable) Entries() map[string]string {
	if t == nil {
		return map[string]string{}
	}
	return maps.Clone(t.entries)
}

// Validate walks every chain and reports the first cycle found. Keys are
// visited in sorted order so the reported cycle is stable.
func (t *FallbackTable) Validate() error {
	if t == nil {
		return nil
	}
	for _, start := range slices.Sorted(maps.Keys(t.entries)) {
		seen := map[string]struct{}{start: {}}
		chain := []string{start}
		current := start
		for {
			next, ok := t.entries[current]
			if !ok {
				break
			}
			chain = append(chain, next)
			if _, loop := seen[next]; loop {
				return &CycleError{Locale: start, Chain: chain}
			}
			seen[next] = struct{}{}
			current = next
		}
	}
	return nil
}

// Chain returns locale followed by each fallback in order. A walk that would
// revisit a locale stops before the repeat. When a default locale is set and
// the chain does not already contain it, it is appended as the root.
func (t *FallbackTable) Chain(locale string) []string {
	start := Canonical(locale)
	if start == "" {
		if t.DefaultLocale() == "" {
			return nil
		}
		return []string{t.DefaultLocale()}
	}

	chain := []string{start}
	seen := map[string]struct{}{start: {}}
	current := start
	for {
		next, ok := t.Lookup(current)
		if !ok {
			break
		}
		if _, loop := seen[next]; loop {
			break
		}
		seen[next] = struct{}{}
		chain = append(chain, next)
		current = next
	}

	if root := t.DefaultLocale(); root != "" {
		if _, ok := seen[root]; !ok {
			chain = append(chain, root)
		}
	}
	return chain
}

// ContentExists reports whether content is available for a URL-form locale.
type ContentExists func(ctx context.Context, locale string) (bool, error)

// Resolve walks Chain(locale) and returns the first locale for which exists
// reports true. Errors from exists stop the walk.
func (t *FallbackTable) Resolve(ctx context.Context, locale string, exists ContentExists) (string, error) {
	if strings.TrimSpace(locale) == "" {
		return "", ErrLocaleRequired
	}
	if exists == nil {
		return "", errors.New("locales: content lookup is required")
	}
	for _, candidate := range t.Chain(locale) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		ok, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("locales: lookup %q: %w", candidate, err)
		}
		if ok {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNoLocaleContent, locale)
}
