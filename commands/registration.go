package commands

import (
	"errors"
	"fmt"

	internalcmd "github.com/goliatone/go-cms-graph/internal/commands"
	graphcmd "github.com/goliatone/go-cms-graph/internal/commands/graph"
	"github.com/goliatone/go-cms-graph/internal/di"
	"github.com/goliatone/go-cms-graph/pkg/interfaces"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
)

// CommandRegistry records command handlers so hosts can expose them via CLI.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// RegistrationOptions configures how handlers are registered.
type RegistrationOptions struct {
	Registry       CommandRegistry
	Dispatcher     CommandDispatcher
	LoggerProvider interfaces.LoggerProvider
}

// RegistrationResult captures the registered handlers and any dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
}

// RegisterContainerCommands collects the graph command handlers built by the
// container and registers them with the optional registry and dispatcher.
func RegisterContainerCommands(container *di.Container, opts RegistrationOptions) (*RegistrationResult, error) {
	if container == nil {
		return &RegistrationResult{}, nil
	}

	provider := opts.LoggerProvider
	if provider == nil {
		provider = container.LoggerProvider()
	}
	logger := internalcmd.CommandLogger(provider, "registration")

	result := &RegistrationResult{
		Handlers:      make([]any, 0, 2),
		Subscriptions: make([]CommandSubscription, 0),
	}

	var errs error

	register := func(handler any) {
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}

		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}
	}

	if handler := container.UploadSynonymsHandler(); handler != nil {
		register(handler)
	}
	if handler := container.SearchContentHandler(); handler != nil {
		register(handler)
	}

	if len(result.Handlers) == 0 {
		return result, errors.New("no command handlers registered; ensure the graph client is configured")
	}

	logger.Debug("graph.commands.registered", "handlers", len(result.Handlers), "subscriptions", len(result.Subscriptions))
	return result, errs
}

// GoCommandDispatcher subscribes graph handlers to the process wide
// go-command dispatcher with an optional retry budget.
type GoCommandDispatcher struct {
	MaxRetries int
}

// RegisterCommand implements CommandDispatcher.
func (d GoCommandDispatcher) RegisterCommand(handler any) (CommandSubscription, error) {
	var opts []runner.Option
	if d.MaxRetries > 0 {
		opts = append(opts, runner.WithMaxRetries(d.MaxRetries))
	}

	switch h := handler.(type) {
	case *graphcmd.UploadSynonymsHandler:
		return dispatcher.SubscribeCommand(h, opts...), nil
	case *graphcmd.SearchContentHandler:
		return dispatcher.SubscribeCommand(h, opts...), nil
	default:
		return nil, fmt.Errorf("commands: unsupported handler %T", handler)
	}
}
