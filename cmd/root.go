package cmd

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/imci/internal/config"
	"github.com/abhisek/imci/internal/counsel"
	"github.com/abhisek/imci/internal/decision"
	"github.com/abhisek/imci/internal/llm"
	"github.com/abhisek/imci/internal/store"
)

// cfg is loaded by the root command before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "imci",
	Short:         "Pediatric IMCI triage support",
	Long:          "IMCI: decision support for the WHO Integrated Management of Childhood Illness protocol (children 0-5 years).",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTriage(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default ./imci.yaml or $XDG_CONFIG_HOME/imci/imci.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides IMCI_DB env var)")

	rootCmd.AddCommand(triageCmd)
	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(growthCmd)
	rootCmd.AddCommand(vitalsCmd)
	rootCmd.AddCommand(codesCmd)
	rootCmd.AddCommand(doseCmd)
	rootCmd.AddCommand(protocolCmd)
	rootCmd.AddCommand(roleCmd)
	rootCmd.AddCommand(requestsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := config.InitLogger(c.Log); err != nil {
		return err
	}
	cfg = c
	return nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then store.path from the config, then IMCI_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.Store.Path != "" {
		return cfg.Store.Path, store.EnsureDir(cfg.Store.Path)
	}
	return store.DefaultDBPath()
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, eris.Wrap(err, "resolve database path")
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, eris.Wrap(err, "open database")
	}
	return st, nil
}

// loadGraph returns the configured protocol, or the built-in flowchart.
func loadGraph() (*decision.Graph, error) {
	if cfg == nil || cfg.Protocol.Path == "" {
		return decision.Default(), nil
	}
	g, err := decision.LoadProtocol(cfg.Protocol.Path)
	if err != nil {
		return nil, eris.Wrapf(err, "load protocol %s", cfg.Protocol.Path)
	}
	zap.L().Debug("loaded protocol", zap.String("path", cfg.Protocol.Path), zap.Int("nodes", g.Len()))
	return g, nil
}

// newCounsel builds the counselling service. A missing or disabled model
// yields a static-only service; model calls are logged to the store.
func newCounsel(ctx context.Context, st *store.Store) (*counsel.Service, error) {
	cc := counsel.Config{MaxTokens: cfg.Counsel.MaxTokens, Temperature: cfg.Counsel.Temperature}
	if !cfg.Counsel.Enabled {
		return counsel.NewService(nil, cc), nil
	}

	var repo store.RequestRepo
	if st != nil {
		repo = st.Requests()
	}
	llmCfg := cfg.LLM
	if llmCfg.Discover() {
		zap.L().Debug("llm provider discovered from environment", zap.String("provider", llmCfg.Provider))
	}
	provider, err := llm.NewProvider(ctx, llmCfg, repo)
	if err != nil {
		return nil, eris.Wrap(err, "configure llm")
	}
	if provider == nil {
		zap.L().Debug("no llm provider configured, using static counselling")
	}
	return counsel.NewService(provider, cc), nil
}
