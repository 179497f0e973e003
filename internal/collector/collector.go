// Package collector gathers the single integer metric a badge displays.
package collector

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/UnitVectorY-Labs/statbadge/internal/crates"
	"github.com/UnitVectorY-Labs/statbadge/internal/workspace"
)

// Collector produces one non-negative metric per run.
type Collector interface {
	Collect(ctx context.Context) (int64, error)
}

// CrateSource yields the crate names whose downloads are summed.
type CrateSource interface {
	Crates() ([]string, error)
}

// StaticSource is a fixed crate list.
type StaticSource []string

func (s StaticSource) Crates() ([]string, error) {
	return s, nil
}

// WorkspaceSource reads crate names from the Cargo workspace at Root.
type WorkspaceSource struct {
	Root string
}

func (s WorkspaceSource) Crates() ([]string, error) {
	members, err := workspace.Members(s.Root)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(members))
	for _, member := range members {
		name, err := workspace.PackageName(filepath.Join(s.Root, filepath.FromSlash(member)))
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// Strategy selects which registry endpoint a DownloadCollector reads.
type Strategy string

const (
	// StrategyTotal reads the all-time counter from /crates/{name}.
	StrategyTotal Strategy = "total"
	// StrategyBreakdown sums /crates/{name}/downloads.
	StrategyBreakdown Strategy = "breakdown"
)

// ParseStrategy validates a configured strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyTotal, StrategyBreakdown:
		return Strategy(s), nil
	case "":
		return StrategyTotal, nil
	default:
		return "", fmt.Errorf("unknown download strategy %q (want %q or %q)", s, StrategyTotal, StrategyBreakdown)
	}
}

// Registry is the subset of the crates.io client the collector needs.
type Registry interface {
	CrateDownloads(ctx context.Context, name string) (int64, error)
	DownloadBreakdown(ctx context.Context, name string) (crates.Breakdown, error)
}

// DownloadCollector sums crates.io downloads across a set of crates. A lookup
// failure for any crate fails the whole collection.
type DownloadCollector struct {
	Source   CrateSource
	Registry Registry
	Strategy Strategy
	Logger   *zap.Logger
}

func (c *DownloadCollector) Collect(ctx context.Context) (int64, error) {
	names, err := c.Source.Crates()
	if err != nil {
		return 0, fmt.Errorf("failed to resolve crate list: %w", err)
	}
	if len(names) == 0 {
		return 0, fmt.Errorf("crate list is empty")
	}

	var total int64
	for _, name := range names {
		n, err := c.downloads(ctx, name)
		if err != nil {
			return 0, fmt.Errorf("failed to fetch downloads for %s: %w", name, err)
		}
		c.Logger.Info("Crate downloads", zap.String("crate", name), zap.Int64("downloads", n))
		total += n
	}
	return total, nil
}

func (c *DownloadCollector) downloads(ctx context.Context, name string) (int64, error) {
	switch c.Strategy {
	case StrategyBreakdown:
		b, err := c.Registry.DownloadBreakdown(ctx, name)
		if err != nil {
			return 0, err
		}
		return b.Total(), nil
	case StrategyTotal, "":
		return c.Registry.CrateDownloads(ctx, name)
	default:
		return 0, fmt.Errorf("unknown download strategy %q", c.Strategy)
	}
}
