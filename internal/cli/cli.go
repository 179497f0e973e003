// Package cli wires collectors, the badge formatter, and the publisher into
// the check-downloads and check-loc commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/UnitVectorY-Labs/statbadge/internal/badge"
	"github.com/UnitVectorY-Labs/statbadge/internal/collector"
	"github.com/UnitVectorY-Labs/statbadge/internal/config"
	"github.com/UnitVectorY-Labs/statbadge/internal/crates"
	"github.com/UnitVectorY-Labs/statbadge/internal/logging"
	"github.com/UnitVectorY-Labs/statbadge/internal/publisher"
	"github.com/UnitVectorY-Labs/statbadge/internal/readme"
	"github.com/UnitVectorY-Labs/statbadge/internal/workspace"
)

// Kind selects the metric a command maintains.
type Kind int

const (
	Downloads Kind = iota
	LinesOfCode
)

// Options holds the collaborators a command runs with. Zero values fall back
// to the real implementations.
type Options struct {
	// Dir is the directory the working context is opened from.
	Dir      string
	Logger   *zap.Logger
	NewStore func(ctx context.Context, token, owner, repo string) publisher.ContentStore
	Runner   collector.Runner
}

func (o Options) withDefaults() Options {
	if o.Dir == "" {
		o.Dir = "."
	}
	if o.NewStore == nil {
		o.NewStore = func(ctx context.Context, token, owner, repo string) publisher.ContentStore {
			return publisher.NewGitHubStore(ctx, token, owner, repo)
		}
	}
	if o.Runner == nil {
		o.Runner = collector.ExecRunner{}
	}
	return o
}

// NewCommand builds the root command for one badge binary.
func NewCommand(name string, kind Kind, opts Options) *cobra.Command {
	opts = opts.withDefaults()
	usage := fmt.Sprintf("Usage: %s <github token>", name)

	cmd := &cobra.Command{
		Use:           name + " <github token>",
		Short:         shortDescription(kind),
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return ErrUsage
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), kind, args[0], opts)
		},
	}
	cmd.SetFlagErrorFunc(func(*cobra.Command, error) error { return ErrUsage })
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		fmt.Fprintln(c.OutOrStdout(), usage)
	})
	cmd.SetUsageFunc(func(c *cobra.Command) error {
		_, err := fmt.Fprintln(c.OutOrStdout(), usage)
		return err
	})
	return cmd
}

func shortDescription(kind Kind) string {
	if kind == LinesOfCode {
		return "Publish the total lines of code badge"
	}
	return "Publish the crates.io total downloads badge"
}

// Execute runs cmd and returns the process exit status.
func Execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUsage):
		_ = cmd.Usage()
	default:
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return 1
}

func run(ctx context.Context, stdout io.Writer, kind Kind, token string, opts Options) error {
	wc, err := workspace.Open(opts.Dir)
	if err != nil {
		return wrap(ErrConfig, err)
	}
	cfg, err := config.Load(wc.Root)
	if err != nil {
		return wrap(ErrConfig, err)
	}

	logger := opts.Logger
	if logger == nil {
		if logger, err = logging.New(cfg.LogLevel); err != nil {
			return wrap(ErrConfig, err)
		}
		defer func() { _ = logger.Sync() }()
	}

	if cfg.Owner != "" {
		wc.Owner = cfg.Owner
	}
	if cfg.Repo != "" {
		wc.Repo = cfg.Repo
	}
	if wc.Owner == "" || wc.Repo == "" {
		return wrap(ErrConfig, errors.New("cannot determine the GitHub repository: no github.com origin remote and no owner/repo in "+config.FileName))
	}
	logger = logger.With(zap.String("repository", wc.Owner+"/"+wc.Repo))
	if wc.Branch != "" && cfg.SourceBranch != "" && wc.Branch != cfg.SourceBranch {
		logger.Warn("Measuring a branch other than the source branch",
			zap.String("checked_out", wc.Branch), zap.String("source_branch", cfg.SourceBranch))
	}

	c, path, label, err := newCollector(kind, wc, cfg, opts, logger)
	if err != nil {
		return wrap(ErrConfig, err)
	}

	metric, err := c.Collect(ctx)
	if err != nil {
		return wrap(ErrCollection, err)
	}
	fmt.Fprintf(stdout, "Total: %d\n", metric)

	record, err := badge.Format(metric, label)
	if err != nil {
		return wrap(ErrCollection, err)
	}

	store := opts.NewStore(ctx, token, wc.Owner, wc.Repo)
	outcome, err := publisher.New(store, logger).Publish(ctx, record, path, cfg.Branch)
	if err != nil {
		return wrap(ErrPublish, err)
	}
	if outcome == publisher.RejectedStale {
		logger.Warn("Computed metric is lower than the published one; leaving badge as is",
			zap.Int64("metric", metric), zap.String("path", path))
	}
	logger.Info("Publish finished", zap.Stringer("outcome", outcome), zap.Int64("metric", metric))

	checkReadme(logger, wc, cfg.Branch, path)
	return nil
}

func newCollector(kind Kind, wc workspace.WorkingContext, cfg config.Config, opts Options, logger *zap.Logger) (collector.Collector, string, string, error) {
	switch kind {
	case Downloads:
		strategy, err := collector.ParseStrategy(cfg.Downloads.Strategy)
		if err != nil {
			return nil, "", "", err
		}
		var source collector.CrateSource = collector.WorkspaceSource{Root: wc.Root}
		if len(cfg.Downloads.Crates) > 0 {
			source = collector.StaticSource(cfg.Downloads.Crates)
		}
		return &collector.DownloadCollector{
			Source:   source,
			Registry: crates.NewClient(cfg.Downloads.RegistryURL),
			Strategy: strategy,
			Logger:   logger,
		}, cfg.Downloads.Path, cfg.Downloads.Label, nil
	case LinesOfCode:
		return &collector.LineCountCollector{
			Dir:     wc.Root,
			Command: cfg.LOC.Command,
			Runner:  opts.Runner,
			Logger:  logger,
		}, cfg.LOC.Path, cfg.LOC.Label, nil
	default:
		return nil, "", "", fmt.Errorf("unknown badge kind %d", kind)
	}
}

// checkReadme only logs; a README without the badge never fails the run.
func checkReadme(logger *zap.Logger, wc workspace.WorkingContext, branch, path string) {
	badges, err := readme.Load(wc.Root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("No README.md to check for the badge")
			return
		}
		logger.Warn("Failed to read README.md", zap.Error(err))
		return
	}
	if ep, ok := readme.FindEndpointBadge(badges, wc.Owner, wc.Repo, branch, path); ok {
		logger.Info("README embeds the badge", zap.String("alt_text", ep.AltText))
		return
	}
	logger.Warn("README does not embed an endpoint badge for the published file",
		zap.String("path", path), zap.String("branch", branch))
}
