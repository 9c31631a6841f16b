package commands

import (
	"strings"

	"github.com/goliatone/go-cms-graph/internal/logging"
	"github.com/goliatone/go-cms-graph/pkg/interfaces"
)

const commandModuleRoot = "graph.commands"

// CommandLogger returns a logger named graph.commands.<module> carrying the
// component fields shared by every command log entry.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.ModuleLogger(provider, commandModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
