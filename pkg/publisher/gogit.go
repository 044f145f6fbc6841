package publisher

import (
	"context"
	"errors"
	"fmt"
	"time"

	goGit "github.com/go-git/go-git/v5"
	goGitConfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

type GoGitOptions struct {
	Dir         string
	Remote      string
	Username    string
	Token       string
	AuthorName  string
	AuthorEmail string
}

// GoGit performs the publish steps in-process, without a git binary.
type GoGit struct {
	opts GoGitOptions
	repo *goGit.Repository
}

func NewGoGit(opts GoGitOptions) (*GoGit, error) {
	if opts.Remote == "" {
		opts.Remote = "origin"
	}
	repo, err := goGit.PlainOpenWithOptions(opts.Dir, &goGit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", opts.Dir, err)
	}
	return &GoGit{opts: opts, repo: repo}, nil
}

func (g *GoGit) Stage(ctx context.Context) error {
	worktree, err := g.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get working tree: %w", err)
	}
	if err := worktree.AddWithOptions(&goGit.AddOptions{All: true}); err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}
	return nil
}

func (g *GoGit) Commit(ctx context.Context, message string) error {
	worktree, err := g.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get working tree: %w", err)
	}

	opts := &goGit.CommitOptions{}
	if g.opts.AuthorName != "" && g.opts.AuthorEmail != "" {
		opts.Author = &object.Signature{
			Name:  g.opts.AuthorName,
			Email: g.opts.AuthorEmail,
			When:  time.Now(),
		}
	}

	if _, err := worktree.Commit(message, opts); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func (g *GoGit) Push(ctx context.Context, branch string) error {
	refSpec := goGitConfig.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch))
	pushOptions := &goGit.PushOptions{
		RemoteName: g.opts.Remote,
		RefSpecs:   []goGitConfig.RefSpec{refSpec},
	}
	if auth := g.authMethod(); auth != nil {
		pushOptions.Auth = auth
	}

	err := g.repo.PushContext(ctx, pushOptions)
	if err != nil && !errors.Is(err, goGit.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to push %s to %s: %w", branch, g.opts.Remote, err)
	}
	return nil
}

// Only HTTP(S) basic auth is supported; other transports use their own defaults.
func (g *GoGit) authMethod() transport.AuthMethod {
	if g.opts.Username != "" && g.opts.Token != "" {
		return &http.BasicAuth{
			Username: g.opts.Username,
			Password: g.opts.Token,
		}
	}
	return nil
}
