// Package graphcmd exposes the gateway helpers as go-command handlers.
package graphcmd

import (
	"context"
	"errors"
	"fmt"
	"maps"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-cms-graph/internal/commands"
	"github.com/goliatone/go-cms-graph/internal/graphclient"
	"github.com/goliatone/go-cms-graph/internal/locales"
	"github.com/goliatone/go-cms-graph/internal/logging"
	"github.com/goliatone/go-cms-graph/pkg/interfaces"
)

const (
	uploadSynonymsOperation = "graph.upload_synonyms"
	searchContentOperation  = "graph.search_content"
)

var (
	// ErrSynonymUploadFailed wraps the message of an unsuccessful upload.
	ErrSynonymUploadFailed = errors.New("graph command: synonym upload failed")
	// ErrSearchFailed wraps the message of an unsuccessful search.
	ErrSearchFailed = errors.New("graph command: content search failed")
)

// SynonymUploader is the part of graphclient.Client used for uploads.
type SynonymUploader interface {
	UploadSynonyms(ctx context.Context, text string, opts graphclient.SynonymOptions) graphclient.SynonymResult
}

// ContentSearcher is the part of graphclient.Client used for searches.
type ContentSearcher interface {
	SearchContent(ctx context.Context, query string, variables map[string]any) graphclient.SearchResult
}

var (
	_ command.Commander[UploadSynonymsCommand] = (*UploadSynonymsHandler)(nil)
	_ command.Commander[SearchContentCommand]  = (*SearchContentHandler)(nil)
)

// UploadSynonymsHandler executes UploadSynonymsCommand.
type UploadSynonymsHandler struct {
	inner *commands.Handler[UploadSynonymsCommand]
}

func NewUploadSynonymsHandler(uploader SynonymUploader, logger interfaces.Logger, opts ...commands.HandlerOption[UploadSynonymsCommand]) *UploadSynonymsHandler {
	baseLogger := logging.EnsureLogger(logger)

	exec := func(ctx context.Context, msg UploadSynonymsCommand) error {
		if uploader == nil {
			return errors.New("graph command: synonym uploader not configured")
		}
		result := uploader.UploadSynonyms(ctx, msg.Synonyms, graphclient.SynonymOptions{
			Slot:            msg.Slot,
			LanguageRouting: msg.LanguageRouting,
		})
		if msg.ResultCallback != nil {
			msg.ResultCallback(result)
		}
		if !result.Success {
			return fmt.Errorf("%w: %s", ErrSynonymUploadFailed, result.Error)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[UploadSynonymsCommand]{
		commands.WithLogger[UploadSynonymsCommand](baseLogger),
		commands.WithOperation[UploadSynonymsCommand](uploadSynonymsOperation),
		commands.WithMessageFields(func(msg UploadSynonymsCommand) map[string]any {
			fields := map[string]any{"bytes": len(msg.Synonyms)}
			if msg.Slot != "" {
				fields["slot"] = msg.Slot
			}
			if msg.LanguageRouting != "" {
				fields["language_routing"] = msg.LanguageRouting
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[UploadSynonymsCommand](nil)),
	}
	handlerOpts = append(handlerOpts, opts...)
	return &UploadSynonymsHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[UploadSynonymsCommand].
func (h *UploadSynonymsHandler) Execute(ctx context.Context, msg UploadSynonymsCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SearchContentHandler executes SearchContentCommand.
type SearchContentHandler struct {
	inner *commands.Handler[SearchContentCommand]
}

func NewSearchContentHandler(searcher ContentSearcher, logger interfaces.Logger, opts ...commands.HandlerOption[SearchContentCommand]) *SearchContentHandler {
	baseLogger := logging.EnsureLogger(logger)

	exec := func(ctx context.Context, msg SearchContentCommand) error {
		if searcher == nil {
			return errors.New("graph command: content searcher not configured")
		}
		result := searcher.SearchContent(ctx, msg.Query, searchVariables(msg))
		if msg.ResultCallback != nil {
			msg.ResultCallback(result)
		}
		if result.Error != "" {
			return fmt.Errorf("%w: %s", ErrSearchFailed, result.Error)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[SearchContentCommand]{
		commands.WithLogger[SearchContentCommand](baseLogger),
		commands.WithOperation[SearchContentCommand](searchContentOperation),
		commands.WithMessageFields(func(msg SearchContentCommand) map[string]any {
			fields := map[string]any{"variables": len(msg.Variables)}
			if msg.Locale != "" {
				fields["locale"] = msg.Locale
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SearchContentCommand](nil)),
	}
	handlerOpts = append(handlerOpts, opts...)
	return &SearchContentHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[SearchContentCommand].
func (h *SearchContentHandler) Execute(ctx context.Context, msg SearchContentCommand) error {
	return h.inner.Execute(ctx, msg)
}

func searchVariables(msg SearchContentCommand) map[string]any {
	variables := maps.Clone(msg.Variables)
	if variables == nil {
		variables = map[string]any{}
	}
	if msg.Locale != "" {
		if _, ok := variables["locale"]; !ok {
			variables["locale"] = locales.ToBackendLocale(msg.Locale)
		}
	}
	return variables
}
