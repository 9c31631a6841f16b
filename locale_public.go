package cmsgraph

import (
	"context"
	"strings"

	"github.com/goliatone/go-cms-graph/internal/locales"
)

var (
	ErrFallbackCycle   = locales.ErrFallbackCycle
	ErrNoLocaleContent = locales.ErrNoLocaleContent
	ErrLocaleRequired  = locales.ErrLocaleRequired
	ErrLocaleNotFound  = locales.ErrLocaleNotFound
)

type (
	FallbackTable = locales.FallbackTable
	ContentExists = locales.ContentExists
)

// ToBackendLocale converts a URL locale (fr-ca) to backend form (fr_CA).
func ToBackendLocale(urlLocale string) string {
	return locales.ToBackendLocale(urlLocale)
}

// ToURLLocale converts a backend locale (nb_NO) to URL form (nb-NO). Case is
// not changed.
func ToURLLocale(backendLocale string) string {
	return locales.ToURLLocale(backendLocale)
}

// NewFallbackTable builds a standalone table. Use Validate to reject cycles.
func NewFallbackTable(entries map[string]string, defaultLocale string) *FallbackTable {
	return locales.NewFallbackTable(entries, locales.WithDefaultLocale(defaultLocale))
}

// LocaleInfo is the public view of a stored locale.
type LocaleInfo struct {
	Code        string
	BackendCode string
	Fallback    string
	Chain       []string
	IsActive    bool
	IsDefault   bool
}

// Locale returns the stored record for code together with its fallback chain.
func (m *Module) Locale(ctx context.Context, code string) (LocaleInfo, error) {
	if m == nil || m.container == nil {
		return LocaleInfo{}, errNilModule
	}
	if strings.TrimSpace(code) == "" {
		return LocaleInfo{}, ErrLocaleRequired
	}
	record, err := m.container.LocaleRepository().GetByCode(ctx, code)
	if err != nil {
		return LocaleInfo{}, err
	}
	info := LocaleInfo{
		Code:        record.Code,
		BackendCode: record.BackendCode(),
		Chain:       m.container.FallbackTable().Chain(record.Code),
		IsActive:    record.IsActive,
		IsDefault:   record.IsDefault,
	}
	if record.Fallback != nil {
		info.Fallback = *record.Fallback
	}
	return info, nil
}

// ResolveLocale walks the fallback chain of locale and returns the first
// locale for which exists reports content.
func (m *Module) ResolveLocale(ctx context.Context, locale string, exists ContentExists) (string, error) {
	if m == nil || m.container == nil {
		return "", errNilModule
	}
	return m.container.FallbackTable().Resolve(ctx, locale, exists)
}
