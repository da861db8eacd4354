package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dodai/navigator/internal/config"
	"github.com/dodai/navigator/internal/db"
	"github.com/dodai/navigator/internal/llm"
	"github.com/dodai/navigator/internal/logging"
	"github.com/dodai/navigator/internal/search"
	"github.com/dodai/navigator/internal/services"
)

// cli carries state shared by every subcommand once PersistentPreRunE ran.
type cli struct {
	configPath string
	cfg        *config.Config
	log        *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "navigator",
		Short:         "AI Navigator survey service",
		Long:          "Collects AI-adoption questionnaire responses and produces personalised Hebrew analyses.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			c.cfg, c.log = cfg, logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "navigator.yaml", "path to the YAML config file (missing file = defaults)")

	root.AddCommand(
		c.newServeCmd(),
		c.newResponsesCmd(),
		c.newStatsCmd(),
		c.newReindexCmd(),
		c.newExportCmd(),
		c.newImportCmd(),
	)
	return root
}

func (c *cli) openStore(ctx context.Context) (*db.SQLiteStore, error) {
	store, err := db.Open(ctx, c.cfg.Store.Path, c.log)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", c.cfg.Store.Path, err)
	}
	return store, nil
}

// openIndex returns nil when search is disabled.
func (c *cli) openIndex() (*search.Index, error) {
	if c.cfg.Search.IndexPath == "" {
		return nil, nil
	}
	idx, err := search.Open(c.cfg.Search.IndexPath)
	if err != nil {
		return nil, fmt.Errorf("open index %s: %w", c.cfg.Search.IndexPath, err)
	}
	return idx, nil
}

func (c *cli) surveyService(store services.SurveyStore, idx *search.Index) *services.SurveyService {
	opts := services.SurveyServiceOptions{
		DefaultLimit: c.cfg.Store.DefaultLimit,
		MaxLimit:     c.cfg.Store.MaxLimit,
		Logger:       c.log,
	}
	if idx != nil {
		opts.Index = idx
	}
	return services.NewSurveyService(store, opts)
}

func (c *cli) analyzer(ctx context.Context) (*services.Analyzer, error) {
	remote, err := llm.FromConfig(ctx, c.cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("build remote model client: %w", err)
	}
	if remote == nil {
		c.log.Info("no remote model key configured; analyses use the static fallback")
	} else {
		c.log.Info("remote model configured", zap.String("provider", c.cfg.LLM.Provider), zap.String("model", remote.Model()))
	}
	return services.NewAnalyzer(remote, services.AnalyzerOptions{
		MaxTokens:   c.cfg.LLM.MaxTokens,
		Temperature: c.cfg.LLM.Temperature,
		Logger:      c.log,
	}), nil
}
