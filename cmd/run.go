package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/pathwise/internal/contentgen"
	"github.com/abhisek/pathwise/internal/llm"
	"github.com/abhisek/pathwise/internal/logger"
	"github.com/abhisek/pathwise/internal/metrics"
	"github.com/abhisek/pathwise/internal/store"
	"github.com/abhisek/pathwise/internal/workflow"
)

// deps holds everything a command needs to generate content and run
// workflows.
type deps struct {
	Store     *store.Store
	Log       *zap.Logger
	Registry  *prometheus.Registry
	Metrics   *metrics.Metrics
	LLMConfig llm.Config
	Content   *contentgen.Service
	Workflows *workflow.Service
}

// Close releases the store and flushes the logger.
func (d *deps) Close() {
	_ = d.Log.Sync()
	d.Store.Close()
}

// newLogger builds the zap logger, honouring --log-level.
func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		return logger.New(level, os.Getenv("PATHWISE_LOG_MODE"))
	}
	return logger.FromEnv()
}

// buildDeps opens the store, builds the provider families and wires the
// services. Without any configured family the generators still answer
// from their fallbacks.
func buildDeps(cmd *cobra.Command, identity workflow.Identity) (*deps, error) {
	log, err := newLogger(cmd)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	llmCfg := llm.ConfigFromEnv()
	families, err := llm.NewFamilies(cmd.Context(), llmCfg, st.EventRepo(), log, m)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM providers not configured:", err)
		fmt.Fprintln(os.Stderr, "Generated content will use built-in placeholders.")
		families = nil
	}

	gen := contentgen.New(families, contentgen.ConfigFor(llmCfg), log, m)
	if identity == nil {
		identity = workflow.StaticIdentity{ID: resolveUser(cmd)}
	}

	return &deps{
		Store:     st,
		Log:       log,
		Registry:  reg,
		Metrics:   m,
		LLMConfig: llmCfg,
		Content:   gen,
		Workflows: workflow.NewService(st.Documents(), gen, identity, log),
	}, nil
}

// generationContext bounds a CLI generation by the configured LLM timeout.
func (d *deps) generationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.LLMConfig.Timeout > 0 {
		return context.WithTimeout(ctx, d.LLMConfig.Timeout)
	}
	return context.WithCancel(ctx)
}
