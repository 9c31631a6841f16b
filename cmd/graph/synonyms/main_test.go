package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-cms-graph/cmd/graph/internal/bootstrap"
	"github.com/goliatone/go-cms-graph/internal/graphclient"
	"github.com/goliatone/go-cms-graph/internal/logging"
)

type stubUploader struct {
	calls int
	text  string
	opts  graphclient.SynonymOptions
}

func (s *stubUploader) UploadSynonyms(_ context.Context, text string, opts graphclient.SynonymOptions) graphclient.SynonymResult {
	s.calls++
	s.text = text
	s.opts = opts
	return graphclient.SynonymResult{Success: true, Message: "synonyms uploaded to slot " + opts.Slot}
}

func withStubs(t *testing.T, uploader *stubUploader, input string) *bytes.Buffer {
	t.Helper()
	originalBuilder, originalIn, originalOut := moduleBuilder, stdin, stdout
	t.Cleanup(func() {
		moduleBuilder, stdin, stdout = originalBuilder, originalIn, originalOut
	})

	moduleBuilder = func(bootstrap.Options) (*bootstrap.Module, error) {
		return &bootstrap.Module{Synonyms: uploader, Logger: logging.NoOp()}, nil
	}
	out := &bytes.Buffer{}
	stdin = strings.NewReader(input)
	stdout = out
	return out
}

func TestRunSynonymsUsesCommandHandler(t *testing.T) {
	uploader := &stubUploader{}
	out := withStubs(t, uploader, "car, automobile\nbike, bicycle\n")

	if err := runSynonyms([]string{"-slot", "2", "-language-routing", "en"}); err != nil {
		t.Fatalf("runSynonyms returned error: %v", err)
	}
	if uploader.calls != 1 {
		t.Fatalf("expected one upload, got %d", uploader.calls)
	}
	if uploader.text != "car, automobile\nbike, bicycle\n" {
		t.Fatalf("unexpected text %q", uploader.text)
	}
	if uploader.opts.Slot != "2" || uploader.opts.LanguageRouting != "en" {
		t.Fatalf("unexpected options %+v", uploader.opts)
	}
	if got := strings.TrimSpace(out.String()); got != "synonyms uploaded to slot 2" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestRunSynonymsRejectsInvalidSlot(t *testing.T) {
	uploader := &stubUploader{}
	withStubs(t, uploader, "a, b\n")

	if err := runSynonyms([]string{"-slot", "3"}); err == nil {
		t.Fatal("expected invalid slot error")
	}
	if uploader.calls != 0 {
		t.Fatalf("expected no upload for invalid slot, got %d", uploader.calls)
	}
}
