package search

import (
	"strings"
	"testing"
)

func TestNormalize_MetadataShape(t *testing.T) {
	raw := map[string]any{
		"_metadata": map[string]any{
			"key":          "f2b3c4d5",
			"displayName":  "Spring Campaign",
			"locale":       "en",
			"types":        []any{"LandingPage", "_Page", "_Content"},
			"lastModified": "2024-05-01T10:00:00Z",
			"url": map[string]any{
				"base":    "https://www.example.com",
				"default": "/en/spring/",
			},
		},
		"_score": 3.5,
	}

	item, ok := Normalize(raw)
	if !ok {
		t.Fatal("expected item to be kept")
	}
	if item.GUID != "f2b3c4d5" || item.Name != "Spring Campaign" {
		t.Fatalf("unexpected identity %+v", item)
	}
	if item.ContentType != "LandingPage" || item.Language != "en" {
		t.Fatalf("unexpected type/language %+v", item)
	}
	if item.URL == nil || *item.URL != "https://www.example.com/en/spring/" {
		t.Fatalf("expected resolved absolute url, got %v", item.URL)
	}
	if item.Score == nil || *item.Score != 3.5 {
		t.Fatalf("unexpected score %v", item.Score)
	}
	if item.Modified == nil || item.Modified.Year() != 2024 {
		t.Fatalf("unexpected modified %v", item.Modified)
	}
}

func TestNormalize_PageShape(t *testing.T) {
	raw := map[string]any{
		"ContentLink": map[string]any{"GuidValue": "9a8b7c6d-0000-4000-8000-000000000001"},
		"PageName":    "About us",
		"ContentType": []any{"ArticlePage", "Page"},
		"Language":    map[string]any{"Name": "sv"},
		"Url":         "https://www.example.com/sv/about/",
	}

	item, ok := Normalize(raw)
	if !ok {
		t.Fatal("expected item to be kept")
	}
	if item.GUID != "9a8b7c6d-0000-4000-8000-000000000001" {
		t.Fatalf("expected guid from ContentLink, got %q", item.GUID)
	}
	if item.Name != "About us" || item.ContentType != "ArticlePage" || item.Language != "sv" {
		t.Fatalf("unexpected fields %+v", item)
	}
	if item.URL == nil || *item.URL != "https://www.example.com/sv/about/" {
		t.Fatalf("unexpected url %v", item.URL)
	}
	if item.Score != nil || item.Modified != nil {
		t.Fatalf("expected nil score and modified, got %+v", item)
	}
}

func TestNormalize_FieldPriority(t *testing.T) {
	raw := map[string]any{
		"_metadata": map[string]any{"key": "meta-key", "displayName": "Meta"},
		"_id":       "top-level",
		"Name":      "Explicit",
		"PageName":  "Page",
	}
	item, _ := Normalize(raw)
	if item.GUID != "meta-key" {
		t.Fatalf("metadata key must win over top-level id, got %q", item.GUID)
	}
	if item.Name != "Explicit" {
		t.Fatalf("explicit name must win, got %q", item.Name)
	}
}

func TestNormalize_Defaults(t *testing.T) {
	item, ok := Normalize(map[string]any{"id": "only-id"})
	if !ok {
		t.Fatal("expected item with top-level id to be kept")
	}
	if item.Name != UntitledName || item.ContentType != UnknownValue || item.Language != UnknownValue {
		t.Fatalf("expected defaults, got %+v", item)
	}
	if item.URL != nil {
		t.Fatalf("expected nil url, got %v", *item.URL)
	}
}

func TestNormalize_SingleURLWithoutBase(t *testing.T) {
	raw := map[string]any{
		"_metadata": map[string]any{
			"key": "k",
			"url": map[string]any{"default": "/en/relative/"},
		},
	}
	item, _ := Normalize(raw)
	if item.URL == nil || *item.URL != "/en/relative/" {
		t.Fatalf("expected relative url passthrough, got %v", item.URL)
	}
}

func TestNormalizeAll_DropsItemsWithoutIdentifier(t *testing.T) {
	items := NormalizeAll([]map[string]any{
		{"_metadata": map[string]any{"key": "a"}},
		{"Name": "No identity"},
		{"ContentLink": map[string]any{"GuidValue": "b"}},
	})
	if len(items) != 2 || items[0].GUID != "a" || items[1].GUID != "b" {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestResponseRawItemsToleratesBothKeys(t *testing.T) {
	for _, key := range []string{"Content", "_Content"} {
		resp, err := DecodeResponse(strings.NewReader(`{"data":{"` + key + `":{"items":[{"_metadata":{"key":"k1"}},{"_score":1}]}}}`))
		if err != nil {
			t.Fatalf("%s: decode: %v", key, err)
		}
		items, err := resp.Items()
		if err != nil {
			t.Fatalf("%s: items: %v", key, err)
		}
		if len(items) != 1 || items[0].GUID != "k1" {
			t.Fatalf("%s: unexpected items %+v", key, items)
		}
	}
}

func TestResponseErrorsAndMissingList(t *testing.T) {
	resp, err := DecodeResponse(strings.NewReader(`{"errors":[{"message":"Syntax Error"},{"message":"Unknown field"}]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.HasErrors() || resp.ErrorMessage() != "Syntax Error; Unknown field" {
		t.Fatalf("unexpected error message %q", resp.ErrorMessage())
	}

	resp, _ = DecodeResponse(strings.NewReader(`{"data":{"Other":{}}}`))
	if _, err := resp.RawItems(); err != ErrNoResultList {
		t.Fatalf("expected ErrNoResultList, got %v", err)
	}
}
