package publisher

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// GitHubStore is a ContentStore backed by the GitHub repository contents API.
type GitHubStore struct {
	client *github.Client
	owner  string
	repo   string
}

// NewGitHubStore authenticates with a caller-supplied token.
func NewGitHubStore(ctx context.Context, token, owner, repo string) *GitHubStore {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	return NewGitHubStoreWithClient(github.NewClient(tc), owner, repo)
}

// NewGitHubStoreWithClient wraps an already configured client.
func NewGitHubStoreWithClient(client *github.Client, owner, repo string) *GitHubStore {
	return &GitHubStore{client: client, owner: owner, repo: repo}
}

func (s *GitHubStore) GetFile(ctx context.Context, path, branch string) (RemoteState, error) {
	file, _, _, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, path,
		&github.RepositoryContentGetOptions{Ref: branch})
	if err != nil {
		return RemoteState{}, classify(err)
	}
	if file == nil {
		return RemoteState{}, fmt.Errorf("%s/%s:%s is a directory", s.owner, s.repo, path)
	}

	content, err := file.GetContent()
	if err != nil {
		return RemoteState{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return RemoteState{Content: []byte(content), SHA: file.GetSHA()}, nil
}

func (s *GitHubStore) UpdateFile(ctx context.Context, path, message string, content []byte, sha, branch string) error {
	_, _, err := s.client.Repositories.UpdateFile(ctx, s.owner, s.repo, path, &github.RepositoryContentFileOptions{
		Message: github.String(message),
		Content: content,
		SHA:     github.String(sha),
		Branch:  github.String(branch),
	})
	if err != nil {
		return classify(err)
	}
	return nil
}

func classify(err error) error {
	var ghErr *github.ErrorResponse
	if !errors.As(err, &ghErr) || ghErr.Response == nil {
		return err
	}
	switch ghErr.Response.StatusCode {
	case http.StatusConflict:
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	default:
		return err
	}
}
