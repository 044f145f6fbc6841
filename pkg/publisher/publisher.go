package publisher

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/synaptica-ai/hospital-dataset/pkg/common/apperr"
	"github.com/synaptica-ai/hospital-dataset/pkg/common/logger"
)

const (
	DefaultBranch = "main"

	StepStage  = "stage"
	StepCommit = "commit"
	StepPush   = "push"
)

// VCS is the version-control client the publisher drives. Each call blocks
// until the underlying operation finishes.
type VCS interface {
	Stage(ctx context.Context) error
	Commit(ctx context.Context, message string) error
	Push(ctx context.Context, branch string) error
}

type Publisher struct {
	vcs VCS
	out io.Writer
}

type Option func(*Publisher)

// WithOutput redirects the progress lines, stdout by default.
func WithOutput(w io.Writer) Option {
	return func(p *Publisher) {
		p.out = w
	}
}

func New(vcs VCS, opts ...Option) *Publisher {
	p := &Publisher{vcs: vcs, out: os.Stdout}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish stages, commits and pushes in that order. It stops at the first
// failing step and leaves whatever the earlier steps did in place.
func (p *Publisher) Publish(ctx context.Context, message, branch string) error {
	if branch == "" {
		branch = DefaultBranch
	}

	if err := p.vcs.Stage(ctx); err != nil {
		return p.fail(StepStage, err)
	}
	fmt.Fprintln(p.out, "Staged all changes.")

	if err := p.vcs.Commit(ctx, message); err != nil {
		return p.fail(StepCommit, err)
	}
	fmt.Fprintf(p.out, "Committed changes with message: %s\n", message)

	if err := p.vcs.Push(ctx, branch); err != nil {
		return p.fail(StepPush, err)
	}
	fmt.Fprintf(p.out, "Pushed changes to remote branch '%s'.\n", branch)

	logger.WithFields(map[string]interface{}{
		"branch":  branch,
		"message": message,
	}).Info("dataset published")
	return nil
}

func (p *Publisher) fail(step string, err error) error {
	logger.WithError(err).WithField("step", step).Error("publish step failed")
	return apperr.Wrap(apperr.ExternalCommandFailure, step, err, fmt.Sprintf("%s step failed", step))
}
