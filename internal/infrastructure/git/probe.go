package git

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v6"

	"github.com/doeshing/statusline-go/internal/domain"
)

// Probe reports whether a working tree has uncommitted changes.
type Probe interface {
	Name() string
	Dirty(ctx context.Context, dir string) (bool, error)
}

// NewProbe prefers the git binary and falls back to go-git when git is not
// on PATH. The choice is made once.
func NewProbe(timeout time.Duration) Probe {
	if timeout <= 0 {
		timeout = domain.DefaultGitTimeout
	}
	if bin, err := exec.LookPath("git"); err == nil {
		return &execProbe{binary: bin, timeout: timeout}
	}
	return &libraryProbe{}
}

// execProbe runs `git status --porcelain`.
type execProbe struct {
	binary  string
	timeout time.Duration
}

func (p *execProbe) Name() string { return "git" }

// notARepoExit is git's exit status outside a repository.
const notARepoExit = 128

func (p *execProbe) Dirty(ctx context.Context, dir string) (bool, error) {
	cctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	cmd := exec.CommandContext(cctx, p.binary, "-C", dir, "status", "--porcelain")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == notARepoExit {
			return false, nil
		}
		return false, err
	}
	return strings.TrimSpace(stdout.String()) != "", nil
}

// libraryProbe computes worktree status in-process.
type libraryProbe struct{}

func (p *libraryProbe) Name() string { return "go-git" }

func (p *libraryProbe) Dirty(ctx context.Context, dir string) (bool, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return false, nil
		}
		return false, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		if errors.Is(err, gogit.ErrIsBareRepository) {
			return false, nil
		}
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	status, err := wt.Status()
	if err != nil {
		return false, err
	}
	return !status.IsClean(), nil
}
