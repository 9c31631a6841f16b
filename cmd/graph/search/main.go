package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

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
	if err := runSearch(os.Args[1:]); err != nil {
		log.Fatalf("graph search: %v", err)
	}
}

func runSearch(args []string) error {
	fs := flag.NewFlagSet("graph-search", flag.ExitOnError)
	queryFile := fs.String("query-file", "-", "GraphQL query file (- reads stdin)")
	variables := fs.String("variables", "", "JSON object of query variables")
	locale := fs.String("locale", "", "URL locale passed as the locale variable, e.g. fr-ca")
	gateway := fs.String("gateway", "", "Override GRAPH_GATEWAY_URL")
	logLevel := fs.String("log-level", "", "Override GRAPH_LOG_LEVEL")

	if err := fs.Parse(args); err != nil {
		return err
	}

	query, err := bootstrap.ReadInput(*queryFile, stdin)
	if err != nil {
		return fmt.Errorf("read query: %w", err)
	}

	var vars map[string]any
	if trimmed := strings.TrimSpace(*variables); trimmed != "" {
		if err := json.Unmarshal([]byte(trimmed), &vars); err != nil {
			return fmt.Errorf("parse variables: %w", err)
		}
	}

	module, err := moduleBuilder(bootstrap.Options{
		GatewayBaseURL: *gateway,
		LogLevel:       *logLevel,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	var result graphclient.SearchResult
	handler := graphcmd.NewSearchContentHandler(module.Searcher, module.Logger)
	cmd := graphcmd.SearchContentCommand{
		Query:          query,
		Variables:      vars,
		Locale:         *locale,
		ResultCallback: func(r graphclient.SearchResult) { result = r },
	}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("execute search command: %w", err)
	}

	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result.Items)
}
