package collector

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/UnitVectorY-Labs/statbadge/internal/crates"
)

type fakeRegistry struct {
	totals     map[string]int64
	breakdowns map[string]crates.Breakdown
	calls      []string
}

func (f *fakeRegistry) CrateDownloads(_ context.Context, name string) (int64, error) {
	f.calls = append(f.calls, name)
	n, ok := f.totals[name]
	if !ok {
		return 0, errors.New("404 Not Found")
	}
	return n, nil
}

func (f *fakeRegistry) DownloadBreakdown(_ context.Context, name string) (crates.Breakdown, error) {
	f.calls = append(f.calls, name)
	b, ok := f.breakdowns[name]
	if !ok {
		return crates.Breakdown{}, errors.New("404 Not Found")
	}
	return b, nil
}

func breakdown(extra []int64, versions []int64) crates.Breakdown {
	var b crates.Breakdown
	for _, n := range extra {
		b.Meta.ExtraDownloads = append(b.Meta.ExtraDownloads, crates.DownloadEntry{Downloads: n})
	}
	for _, n := range versions {
		b.VersionDownloads = append(b.VersionDownloads, crates.DownloadEntry{Downloads: n})
	}
	return b
}

func TestDownloadCollectorBreakdown(t *testing.T) {
	reg := &fakeRegistry{breakdowns: map[string]crates.Breakdown{
		"function-grep": breakdown([]int64{3, 5}, []int64{2}),
	}}
	c := &DownloadCollector{
		Source:   StaticSource{"function-grep"},
		Registry: reg,
		Strategy: StrategyBreakdown,
		Logger:   zap.NewNop(),
	}

	n, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)
}

func TestDownloadCollectorTotal(t *testing.T) {
	reg := &fakeRegistry{totals: map[string]int64{
		"git_function_history":   1200,
		"cargo-function-history": 300,
		"brand-new":              0,
	}}
	c := &DownloadCollector{
		Source:   StaticSource{"git_function_history", "cargo-function-history", "brand-new"},
		Registry: reg,
		Strategy: StrategyTotal,
		Logger:   zap.NewNop(),
	}

	n, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1500), n)
	assert.Equal(t, []string{"git_function_history", "cargo-function-history", "brand-new"}, reg.calls)
}

func TestDownloadCollectorFailsWholeRun(t *testing.T) {
	reg := &fakeRegistry{totals: map[string]int64{"a": 7}}
	c := &DownloadCollector{
		Source:   StaticSource{"a", "unpublished", "b"},
		Registry: reg,
		Logger:   zap.NewNop(),
	}

	_, err := c.Collect(context.Background())
	assert.ErrorContains(t, err, "unpublished")
	assert.Equal(t, []string{"a", "unpublished"}, reg.calls)
}

func TestDownloadCollectorEmptySource(t *testing.T) {
	c := &DownloadCollector{Source: StaticSource{}, Registry: &fakeRegistry{}, Logger: zap.NewNop()}
	_, err := c.Collect(context.Background())
	assert.Error(t, err)
}

func TestWorkspaceSource(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"Cargo.toml":                          "[workspace]\nmembers = [\"git-function-history-lib\", \"function-grep\"]\n",
		"git-function-history-lib/Cargo.toml": "[package]\nname = \"git_function_history\"\n",
		"function-grep/Cargo.toml":            "[package]\nname = \"function-grep\"\n",
	}
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	names, err := WorkspaceSource{Root: root}.Crates()
	require.NoError(t, err)
	assert.Equal(t, []string{"git_function_history", "function-grep"}, names)
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, StrategyTotal, s)

	s, err = ParseStrategy("breakdown")
	require.NoError(t, err)
	assert.Equal(t, StrategyBreakdown, s)

	_, err = ParseStrategy("weekly")
	assert.Error(t, err)
}
