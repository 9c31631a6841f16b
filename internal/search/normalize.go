package search

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Field paths are tried in order; the first non-empty value wins. Two shapes
// are accepted: the metadata shape (_metadata.*) returned by the SaaS schema
// and the page/block shape (ContentLink, PageName, Language.Name) returned by
// the CMS 12 schema.
var (
	guidPaths = [][]string{
		{"_metadata", "key"},
		{"_id"},
		{"id"},
		{"ContentLink", "GuidValue"},
	}
	namePaths = [][]string{
		{"Name"},
		{"name"},
		{"PageName"},
		{"_metadata", "displayName"},
	}
	typeListPaths = [][]string{
		{"_metadata", "types"},
		{"ContentType"},
	}
	typePaths = [][]string{
		{"_metadata", "type"},
		{"contentType"},
		{"ContentType"},
		{"__typename"},
	}
	languagePaths = [][]string{
		{"_metadata", "locale"},
		{"Language", "Name"},
		{"locale"},
		{"language"},
	}
	urlPairs = []struct{ base, relative []string }{
		{[]string{"_metadata", "url", "base"}, []string{"_metadata", "url", "default"}},
		{[]string{"SiteUrl"}, []string{"RelativePath"}},
	}
	urlPaths = [][]string{
		{"_metadata", "url", "default"},
		{"_metadata", "url", "hierarchical"},
		{"Url"},
		{"url"},
		{"RelativePath"},
	}
	scorePaths = [][]string{
		{"_score"},
		{"score"},
	}
	modifiedPaths = [][]string{
		{"_metadata", "lastModified"},
		{"Changed"},
		{"_modified"},
		{"modified"},
	}
)

// Normalize maps a raw item onto Item. The boolean is false when no
// identifier could be found; such items are dropped by callers.
func Normalize(raw map[string]any) (Item, bool) {
	guid := firstString(raw, guidPaths...)
	if guid == "" {
		return Item{}, false
	}

	item := Item{
		GUID:        guid,
		Name:        firstString(raw, namePaths...),
		ContentType: firstListString(raw, typeListPaths...),
		Language:    firstString(raw, languagePaths...),
		URL:         resolveURL(raw),
		Score:       firstNumber(raw, scorePaths...),
		Modified:    firstTime(raw, modifiedPaths...),
	}
	if item.Name == "" {
		item.Name = UntitledName
	}
	if item.ContentType == "" {
		item.ContentType = firstString(raw, typePaths...)
	}
	if item.ContentType == "" {
		item.ContentType = UnknownValue
	}
	if item.Language == "" {
		item.Language = UnknownValue
	}
	return item, true
}

// NormalizeAll normalizes every raw item, keeping input order and dropping
// items without an identifier.
func NormalizeAll(raw []map[string]any) []Item {
	items := make([]Item, 0, len(raw))
	for _, entry := range raw {
		if item, ok := Normalize(entry); ok {
			items = append(items, item)
		}
	}
	return items
}

func resolveURL(raw map[string]any) *string {
	for _, pair := range urlPairs {
		base := lookupString(raw, pair.base)
		relative := lookupString(raw, pair.relative)
		if base == "" || relative == "" {
			continue
		}
		if resolved, ok := joinURL(base, relative); ok {
			return &resolved
		}
	}
	if single := firstString(raw, urlPaths...); single != "" {
		return &single
	}
	return nil
}

func joinURL(base, relative string) (string, bool) {
	baseURL, err := url.Parse(base)
	if err != nil || baseURL.Scheme == "" {
		return "", false
	}
	ref, err := url.Parse(relative)
	if err != nil {
		return "", false
	}
	return baseURL.ResolveReference(ref).String(), true
}

func lookup(raw map[string]any, path []string) (any, bool) {
	var current any = raw
	for _, key := range path {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[key]
		if !ok || current == nil {
			return nil, false
		}
	}
	return current, true
}

func lookupString(raw map[string]any, path []string) string {
	value, ok := lookup(raw, path)
	if !ok {
		return ""
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func firstString(raw map[string]any, paths ...[]string) string {
	for _, path := range paths {
		if value := lookupString(raw, path); value != "" {
			return value
		}
	}
	return ""
}

func firstListString(raw map[string]any, paths ...[]string) string {
	for _, path := range paths {
		value, ok := lookup(raw, path)
		if !ok {
			continue
		}
		list, ok := value.([]any)
		if !ok {
			continue
		}
		for _, entry := range list {
			if s, ok := entry.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func firstNumber(raw map[string]any, paths ...[]string) *float64 {
	for _, path := range paths {
		value, ok := lookup(raw, path)
		if !ok {
			continue
		}
		switch v := value.(type) {
		case float64:
			return &v
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return &f
			}
		}
	}
	return nil
}

func firstTime(raw map[string]any, paths ...[]string) *time.Time {
	for _, path := range paths {
		value := lookupString(raw, path)
		if value == "" {
			continue
		}
		if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
			return &ts
		}
	}
	return nil
}
