// Package cli wires configuration, the market client, the model provider,
// and the agent into the stock-agent command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/petasbytes/stock-agent/agent"
	"github.com/petasbytes/stock-agent/console"
	"github.com/petasbytes/stock-agent/internal/config"
	"github.com/petasbytes/stock-agent/internal/market"
	"github.com/petasbytes/stock-agent/internal/metrics"
	"github.com/petasbytes/stock-agent/internal/provider"
	"github.com/petasbytes/stock-agent/tools"
)

// EnvLogLevel overrides the default log level when --log-level is not set.
const EnvLogLevel = "STOCKAGENT_LOG_LEVEL"

type globalOptions struct {
	ConfigPath string
	LogLevel   LogLevel
}

func NewRootCmd() *cobra.Command {
	options := &globalOptions{}
	cmd := &cobra.Command{
		Use:          "stock-agent",
		Short:        "Tool-calling agent for stock information",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := resolveLogLevel(cmd, options)
			slog.SetDefault(slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level.SlogLevel(),
			})))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&options.ConfigPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().Var(&options.LogLevel, "log-level", "set the log level")

	cmd.AddCommand(newServeCmd(options))
	cmd.AddCommand(newChatCmd(options))
	return cmd
}

// Execute runs the command tree until completion or SIGINT/SIGTERM.
// It returns the process exit code.
func Execute() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

// buildStack assembles the market client, tool set, model provider, and
// agent from configuration. A nil recorder skips metrics.
func buildStack(cfg config.Config, cons *console.Console, rec *metrics.Recorder) (*agent.Agent, error) {
	marketClient, err := market.NewClient(market.Config{
		BaseURL:   cfg.Market.BaseURL,
		CacheSize: cfg.Market.CacheSize,
		CacheTTL:  time.Duration(cfg.Market.CacheTTL),
	})
	if err != nil {
		return nil, fmt.Errorf("market client: %w", err)
	}

	llm, err := provider.New(provider.Options{
		Provider:  cfg.Model.Provider,
		Model:     cfg.Model.Name,
		BaseURL:   cfg.Model.BaseURL,
		APIKeyEnv: cfg.Model.APIKeyEnv,
	})
	if err != nil {
		return nil, err
	}

	toolReg, err := tools.NewRegistry(tools.DefaultTools(marketClient, cons)...)
	if err != nil {
		return nil, err
	}

	return agent.New(llm, toolReg, cons,
		agent.WithMaxTurns(cfg.Agent.MaxTurns),
		agent.WithMetrics(rec),
	), nil
}

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

func (l *LogLevel) String() string {
	if l == nil {
		return ""
	}
	return string(*l)
}

func (l *LogLevel) Set(v string) error {
	for _, level := range []LogLevel{LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError} {
		if v == string(level) {
			*l = level
			return nil
		}
	}
	return errors.New(`must be one of "debug", "info", "warn", or "error"`)
}

func (l *LogLevel) Type() string {
	return "log-level"
}

func (l *LogLevel) SlogLevel() slog.Level {
	switch *l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	}
	return slog.LevelInfo
}

func resolveLogLevel(cmd *cobra.Command, options *globalOptions) LogLevel {
	if cmd.Flags().Changed("log-level") {
		return options.LogLevel
	}

	var fromEnv LogLevel
	if err := fromEnv.Set(os.Getenv(EnvLogLevel)); err == nil {
		return fromEnv
	}
	return LogLevelInfo
}
