// Package logging logs store actions and mutations with log/slog.
package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/vango-dev/vstore/pkg/store"
)

// Config configures the logging plugin.
type Config struct {
	// Logger receives the records. If nil, the registry's logger is used.
	Logger *slog.Logger

	// Level is the level for successful actions (default: slog.LevelDebug).
	// Failed actions are always logged at slog.LevelWarn.
	Level slog.Level

	// Mutations enables a record per state mutation.
	Mutations bool
}

// Option configures the logging plugin.
type Option func(*Config)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithLevel sets the level for successful actions.
func WithLevel(level slog.Level) Option {
	return func(c *Config) {
		c.Level = level
	}
}

// WithMutations enables mutation logging.
func WithMutations(enabled bool) Option {
	return func(c *Config) {
		c.Mutations = enabled
	}
}

// Plugin returns a store plugin that logs every action once it settles.
func Plugin(opts ...Option) store.Plugin {
	config := Config{Level: slog.LevelDebug}
	for _, opt := range opts {
		opt(&config)
	}

	return func(ctx store.PluginContext) {
		logger := config.Logger
		if logger == nil {
			logger = ctx.Registry.Logger()
		}
		logger = logger.With("store", ctx.Store.ID(), "registry", ctx.Registry.ID())

		ctx.Store.OnAction(func(call *store.ActionContext) {
			start := time.Now()
			call.After(func(any) any {
				logger.Log(context.Background(), config.Level, "action completed",
					"action", call.Name,
					"args", len(call.Args),
					"duration", time.Since(start),
				)
				return nil
			})
			call.OnError(func(err error) {
				logger.Warn("action failed",
					"action", call.Name,
					"error", err,
					"duration", time.Since(start),
				)
			})
		})

		if config.Mutations {
			ctx.Store.Subscribe(func(m store.Mutation, st *store.State) {
				logger.Debug("state mutated",
					"type", m.Type.String(),
					"version", st.Version(),
				)
			})
		}
	}
}
