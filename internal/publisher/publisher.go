// Package publisher writes badge records to a results branch, never moving
// the published metric backwards.
package publisher

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/UnitVectorY-Labs/statbadge/internal/badge"
)

var (
	// ErrConflict means the remote file changed between read and write.
	ErrConflict = errors.New("remote file changed since it was read")
	// ErrNotFound means the badge file does not exist on the branch.
	ErrNotFound = errors.New("remote file not found")
)

// Outcome is the result of a publish attempt.
type Outcome int

const (
	Unchanged Outcome = iota
	Updated
	RejectedStale
)

func (o Outcome) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case Updated:
		return "updated"
	case RejectedStale:
		return "rejected-stale"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// RemoteState is a file's content together with the blob SHA it was read at.
type RemoteState struct {
	Content []byte
	SHA     string
}

// ContentStore reads and conditionally writes single files on a branch.
type ContentStore interface {
	GetFile(ctx context.Context, path, branch string) (RemoteState, error)
	// UpdateFile must fail with ErrConflict when sha is no longer current.
	UpdateFile(ctx context.Context, path, message string, content []byte, sha, branch string) error
}

// Publisher compares a freshly computed record with the published one.
type Publisher struct {
	Store  ContentStore
	Logger *zap.Logger
}

func New(store ContentStore, logger *zap.Logger) *Publisher {
	return &Publisher{Store: store, Logger: logger}
}

// Publish writes record to path on branch unless it is already there or would
// lower the published metric.
func (p *Publisher) Publish(ctx context.Context, record badge.Record, path, branch string) (Outcome, error) {
	next, err := record.Marshal()
	if err != nil {
		return 0, err
	}
	metric, err := record.Metric()
	if err != nil {
		return 0, err
	}

	current, err := p.Store.GetFile(ctx, path, branch)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch %s@%s: %w", path, branch, err)
	}
	log := p.Logger.With(zap.String("path", path), zap.String("branch", branch), zap.String("sha", current.SHA))

	if bytes.Equal(current.Content, next) {
		log.Info("Badge already up to date", zap.String("message", record.Message))
		return Unchanged, nil
	}

	published, err := badge.ParseRecord(current.Content)
	if err != nil {
		return 0, fmt.Errorf("published %s is not a badge record: %w", path, err)
	}
	old, err := published.Metric()
	if err != nil {
		return 0, fmt.Errorf("published %s: %w", path, err)
	}
	if old > metric {
		log.Warn("Refusing to lower published metric", zap.Int64("published", old), zap.Int64("computed", metric))
		return RejectedStale, nil
	}

	if err := p.Store.UpdateFile(ctx, path, "update "+path, next, current.SHA, branch); err != nil {
		return 0, fmt.Errorf("failed to update %s@%s: %w", path, branch, err)
	}
	log.Info("Badge updated", zap.Int64("previous", old), zap.Int64("current", metric))
	return Updated, nil
}
