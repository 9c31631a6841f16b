package search_test

import (
	"bytes"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/goliatone/go-cms-graph/internal/search"
	"github.com/goliatone/go-cms-graph/pkg/testsupport"
)

func TestResponseItemsMatchGolden(t *testing.T) {
	raw := testsupport.MustLoadFixture(t, "testdata/content_response.json")

	resp, err := search.DecodeResponse(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("DecodeResponse returned error: %v", err)
	}
	items, err := resp.Items()
	if err != nil {
		t.Fatalf("Items returned error: %v", err)
	}

	encoded, err := json.Marshal(items)
	if err != nil {
		t.Fatalf("marshal items: %v", err)
	}
	var got []any
	if err := json.Unmarshal(encoded, &got); err != nil {
		t.Fatalf("unmarshal items: %v", err)
	}

	var want []any
	if err := testsupport.LoadGolden("testdata/content_items.golden.json", &want); err != nil {
		t.Fatalf("load golden: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("normalized items mismatch\nwant: %v\ngot:  %v", want, got)
	}
}
