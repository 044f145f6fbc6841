package publisher

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/synaptica-ai/hospital-dataset/pkg/common/logger"
)

type GitCLIOptions struct {
	Binary string
	Dir    string
	Remote string
}

// GitCLI shells out to the git binary. No timeout is applied to the child process.
type GitCLI struct {
	binary string
	dir    string
	remote string
}

func NewGitCLI(opts GitCLIOptions) *GitCLI {
	if opts.Binary == "" {
		opts.Binary = "git"
	}
	if opts.Remote == "" {
		opts.Remote = "origin"
	}
	return &GitCLI{binary: opts.Binary, dir: opts.Dir, remote: opts.Remote}
}

func (g *GitCLI) Stage(ctx context.Context) error {
	return g.run(ctx, "add", ".")
}

func (g *GitCLI) Commit(ctx context.Context, message string) error {
	return g.run(ctx, "commit", "-m", message)
}

func (g *GitCLI) Push(ctx context.Context, branch string) error {
	return g.run(ctx, "push", g.remote, branch)
}

func (g *GitCLI) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, g.binary, args...)
	cmd.Dir = g.dir

	output, err := cmd.CombinedOutput()
	text := strings.TrimSpace(string(output))
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%s %s exited with status %d: %s", g.binary, strings.Join(args, " "), exitErr.ExitCode(), text)
		}
		return fmt.Errorf("failed to run %s %s: %w", g.binary, strings.Join(args, " "), err)
	}

	logger.WithFields(map[string]interface{}{
		"command": g.binary + " " + strings.Join(args, " "),
		"output":  text,
	}).Debug("git command finished")
	return nil
}
