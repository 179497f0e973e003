package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRunner struct {
	stdout string
	stderr string
	err    error

	dir  string
	name string
	args []string
}

func (f *fakeRunner) Run(_ context.Context, dir string, name string, args ...string) ([]byte, []byte, error) {
	f.dir, f.name, f.args = dir, name, args
	return []byte(f.stdout), []byte(f.stderr), f.err
}

func TestLineCountCollector(t *testing.T) {
	runner := &fakeRunner{stdout: `{"Rust":{"code":90},"Total":{"code":100,"comments":20,"blanks":30,"inaccurate":false}}`}
	c := &LineCountCollector{Dir: "/work/tree", Runner: runner, Logger: zap.NewNop()}

	n, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(150), n)
	assert.Equal(t, "/work/tree", runner.dir)
	assert.Equal(t, "tokei", runner.name)
	assert.Equal(t, []string{"--output=json"}, runner.args)
}

func TestLineCountCollectorCustomCommand(t *testing.T) {
	runner := &fakeRunner{stdout: `{"Total":{"code":1,"comments":0,"blanks":0}}`}
	c := &LineCountCollector{
		Command: []string{"tokei", "--output=json", "--exclude", "doc"},
		Runner:  runner,
		Logger:  zap.NewNop(),
	}

	n, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, []string{"--output=json", "--exclude", "doc"}, runner.args)
}

func TestLineCountCollectorFailures(t *testing.T) {
	tests := []struct {
		name   string
		runner *fakeRunner
	}{
		{"stderr", &fakeRunner{stdout: `{"Total":{"code":1,"comments":1,"blanks":1}}`, stderr: "error: unknown option"}},
		{"exit", &fakeRunner{err: errors.New("exec: \"tokei\": executable file not found in $PATH")}},
		{"not json", &fakeRunner{stdout: "Language Files Lines"}},
		{"no total", &fakeRunner{stdout: `{"Rust":{"code":1}}`}},
		{"partial total", &fakeRunner{stdout: `{"Total":{"code":1,"blanks":2}}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &LineCountCollector{Runner: tt.runner, Logger: zap.NewNop()}
			_, err := c.Collect(context.Background())
			assert.Error(t, err)
		})
	}
}
