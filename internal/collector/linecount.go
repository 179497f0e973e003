package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// DefaultLineCountCommand is the tokei invocation used when none is configured.
var DefaultLineCountCommand = []string{"tokei", "--output=json"}

// Runner executes an external command in dir and returns its output streams.
type Runner interface {
	Run(ctx context.Context, dir string, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir string, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

type tokeiStats struct {
	Code     *int64 `json:"code"`
	Comments *int64 `json:"comments"`
	Blanks   *int64 `json:"blanks"`
}

// LineCountCollector totals code, comment, and blank lines reported by tokei.
type LineCountCollector struct {
	Dir     string
	Command []string
	Runner  Runner
	Logger  *zap.Logger
}

func (c *LineCountCollector) Collect(ctx context.Context) (int64, error) {
	command := c.Command
	if len(command) == 0 {
		command = DefaultLineCountCommand
	}

	stdout, stderr, err := c.Runner.Run(ctx, c.Dir, command[0], command[1:]...)
	if msg := strings.TrimSpace(string(stderr)); msg != "" {
		return 0, fmt.Errorf("%s reported an error: %s", command[0], msg)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to run %s: %w", command[0], err)
	}

	total, err := parseTokeiTotal(stdout)
	if err != nil {
		return 0, err
	}
	c.Logger.Info("Line counts",
		zap.Int64("code", *total.Code),
		zap.Int64("comments", *total.Comments),
		zap.Int64("blanks", *total.Blanks))
	return *total.Code + *total.Comments + *total.Blanks, nil
}

func parseTokeiTotal(out []byte) (tokeiStats, error) {
	var report struct {
		Total *tokeiStats `json:"Total"`
	}
	if err := json.Unmarshal(out, &report); err != nil {
		return tokeiStats{}, fmt.Errorf("failed to parse line count output: %w", err)
	}
	t := report.Total
	if t == nil || t.Code == nil || t.Comments == nil || t.Blanks == nil {
		return tokeiStats{}, fmt.Errorf("line count output has no complete Total section")
	}
	if *t.Code < 0 || *t.Comments < 0 || *t.Blanks < 0 {
		return tokeiStats{}, fmt.Errorf("line count output has negative totals")
	}
	return *t, nil
}
