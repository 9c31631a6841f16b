package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/goliatone/go-cms-graph/cmd/graph/internal/bootstrap"
	graphcmd "github.com/goliatone/go-cms-graph/internal/commands/graph"
	"github.com/goliatone/go-cms-graph/internal/graphclient"
)

var (
	moduleBuilder           = bootstrap.BuildModule
	stdin         io.Reader = os.Stdin
	stdout        io.Writer = os.Stdout
)

func main() {
	if err := runSynonyms(os.Args[1:]); err != nil {
		log.Fatalf("graph synonyms: %v", err)
	}
}

func runSynonyms(args []string) error {
	fs := flag.NewFlagSet("graph-synonyms", flag.ExitOnError)
	file := fs.String("file", "-", "Synonym file, one rule per line (- reads stdin)")
	slot := fs.String("slot", graphclient.SynonymSlotPrimary, "Synonym slot: 1 or 2")
	languageRouting := fs.String("language-routing", "", "Optional language routing value")
	gateway := fs.String("gateway", "", "Override GRAPH_GATEWAY_URL")
	logLevel := fs.String("log-level", "", "Override GRAPH_LOG_LEVEL")

	if err := fs.Parse(args); err != nil {
		return err
	}

	text, err := bootstrap.ReadInput(*file, stdin)
	if err != nil {
		return fmt.Errorf("read synonyms: %w", err)
	}

	module, err := moduleBuilder(bootstrap.Options{
		GatewayBaseURL: *gateway,
		LogLevel:       *logLevel,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	var result graphclient.SynonymResult
	handler := graphcmd.NewUploadSynonymsHandler(module.Synonyms, module.Logger)
	cmd := graphcmd.UploadSynonymsCommand{
		Synonyms:        text,
		Slot:            *slot,
		LanguageRouting: *languageRouting,
		ResultCallback:  func(r graphclient.SynonymResult) { result = r },
	}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("execute upload command: %w", err)
	}
	fmt.Fprintln(stdout, result.Message)

	return nil
}
