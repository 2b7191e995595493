// Package gitrepo fetches remote repositories for analysis.
package gitrepo

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/serr"
)

// Cloner fetches a repository into a destination directory
type Cloner interface {
	Clone(ctx context.Context, url, dest string) error
}

// GitCLI clones with the git binary found on PATH
type GitCLI struct {
	// Timeout bounds a single clone; zero means no limit beyond ctx
	Timeout time.Duration
	// Binary overrides the git executable, mostly for tests
	Binary string
}

// NewGitCLI returns a GitCLI with the given clone timeout
func NewGitCLI(timeout time.Duration) *GitCLI {
	return &GitCLI{Timeout: timeout}
}

// Clone performs a shallow (depth 1) clone of url into dest.
// dest must be empty or not yet exist.
func (g *GitCLI) Clone(ctx context.Context, url, dest string) error {
	if strings.TrimSpace(url) == "" {
		return serr.New("repository url is required")
	}

	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	bin := g.Binary
	if bin == "" {
		bin = "git"
	}

	cmd := exec.CommandContext(ctx, bin, "clone", "--depth", "1", "--quiet", "--", url, dest)
	// Never block on a credential prompt
	cmd.Env = append(cmd.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	logger.Info("Cloning repository", "url", url, "dest", dest)

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return serr.Wrap(ctxErr, "git clone interrupted: "+strings.TrimSpace(stderr.String()))
		}
		return serr.Wrap(err, "git clone failed: "+strings.TrimSpace(stderr.String()))
	}

	logger.Info("Cloned repository", "url", url, "elapsed", time.Since(start).String())
	return nil
}
