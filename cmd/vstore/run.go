package main

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vstore/internal/config"
	"github.com/vango-dev/vstore/pkg/plugins/logging"
	"github.com/vango-dev/vstore/pkg/plugins/metrics"
	"github.com/vango-dev/vstore/pkg/plugins/tracing"
	"github.com/vango-dev/vstore/pkg/store"
)

func runCmd(flags *globalFlags) *cobra.Command {
	var showMetrics bool

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a store scenario",
		Long: `Run a scenario file against a fresh registry.

The scenario declares stores (initial state, getters and declarative
actions) and a list of steps. After the last step the state and
getters of every store are printed as JSON.`,
		Example: `  vstore run counter.yaml
  vstore run counter.yaml --metrics`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			sc, err := loadScenario(args[0])
			if err != nil {
				return err
			}

			promRegistry := prometheus.NewRegistry()
			r := newRegistry(cfg, cmd.ErrOrStderr(), promRegistry)

			res, err := sc.run(r)
			if err != nil {
				return err
			}
			if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}

			if showMetrics {
				if err := writeMetrics(cmd.OutOrStdout(), promRegistry); err != nil {
					return err
				}
			}

			success(cmd.ErrOrStderr(), "%d steps, %d stores", len(sc.Steps), len(res.Stores))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "Print Prometheus metrics after the result")

	return cmd
}

// newRegistry builds a registry with the plugins cfg enables. Metrics are
// always collected into promRegistry.
func newRegistry(cfg *config.Config, logOut io.Writer, promRegistry prometheus.Registerer) *store.Registry {
	collector := metrics.New(
		metrics.WithRegistry(promRegistry),
		metrics.WithNamespace(cfg.Metrics.Namespace),
		metrics.WithSubsystem(cfg.Metrics.Subsystem),
	)

	logger := cfg.Logger(logOut)
	opts := append(cfg.StoreOptions(logger), store.WithPlugins(collector.Plugin))

	if cfg.Tracing.Enabled {
		opts = append(opts, store.WithPlugins(tracing.Plugin(tracing.WithTracerName(cfg.Tracing.TracerName))))
	}
	if cfg.Logging.Actions {
		opts = append(opts, store.WithPlugins(logging.Plugin(
			logging.WithLogger(logger),
			logging.WithMutations(cfg.Logging.Mutations),
		)))
	}

	return store.NewRegistry(opts...)
}

// writeMetrics prints every gathered metric family in the text exposition
// format.
func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
