// Package locales converts between URL locale codes (fr-CA) and the backend
// form used in graph queries (fr_CA), and resolves fallback chains.
package locales

import "strings"

// ToBackendLocale converts a URL locale to the backend form: hyphens become
// underscores, the language is lowercased, a region is uppercased and a
// script segment keeps its case.
//
//	fr-ca      -> fr_CA
//	zh-Hans-HK -> zh_Hans_HK
//	EN         -> en
//
// Codes with more than three segments lowercase the first segment, uppercase
// the last and leave the rest untouched.
func ToBackendLocale(urlLocale string) string {
	parts := strings.Split(strings.ReplaceAll(urlLocale, "-", "_"), "_")
	last := len(parts) - 1

	parts[0] = strings.ToLower(parts[0])
	if last > 0 {
		parts[last] = strings.ToUpper(parts[last])
	}
	return strings.Join(parts, "_")
}

// ToURLLocale converts a backend locale to URL form by replacing underscores
// with hyphens. Case is left alone, so it is not an exact inverse of
// ToBackendLocale for oddly cased input.
func ToURLLocale(backendLocale string) string {
	return strings.ReplaceAll(backendLocale, "_", "-")
}

// Canonical returns the URL form of locale with backend casing applied.
// Fallback tables key on this form so "fr-ca", "fr_CA" and "fr-CA" match.
func Canonical(locale string) string {
	trimmed := strings.TrimSpace(locale)
	if trimmed == "" {
		return ""
	}
	return ToURLLocale(ToBackendLocale(trimmed))
}
