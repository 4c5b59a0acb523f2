package git

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v6"

	"github.com/doeshing/statusline-go/internal/infrastructure/cache"
)

type stubProbe struct {
	calls int
	dirty bool
	err   error
}

func (p *stubProbe) Name() string { return "stub" }

func (p *stubProbe) Dirty(context.Context, string) (bool, error) {
	p.calls++
	return p.dirty, p.err
}

func TestDirtyCheckerMemoizesWithinTTL(t *testing.T) {
	probe := &stubProbe{dirty: true}
	c := NewDirtyChecker(probe, nil, nil)
	start := time.Now()
	c.now = func() time.Time { return start }

	if !c.IsDirty(context.Background(), "/repo") {
		t.Fatal("expected dirty")
	}
	c.now = func() time.Time { return start.Add(4 * time.Second) }
	c.IsDirty(context.Background(), "/repo")
	if probe.calls != 1 {
		t.Fatalf("expected 1 probe within ttl, got %d", probe.calls)
	}

	c.now = func() time.Time { return start.Add(6 * time.Second) }
	c.IsDirty(context.Background(), "/repo")
	if probe.calls != 2 {
		t.Fatalf("expected a new probe after ttl, got %d", probe.calls)
	}
}

func TestDirtyCheckerSharesFileCacheAcrossInstances(t *testing.T) {
	fc := cache.NewFileCache(t.TempDir(), nil)
	first := &stubProbe{dirty: true}
	NewDirtyChecker(first, fc, nil).IsDirty(context.Background(), "/repo")

	second := &stubProbe{dirty: false}
	if !NewDirtyChecker(second, fc, nil).IsDirty(context.Background(), "/repo") {
		t.Fatal("expected the cached dirty bit from the previous checker")
	}
	if second.calls != 0 {
		t.Fatalf("second checker should not probe, got %d calls", second.calls)
	}
}

func TestDirtyCheckerFailureReadsClean(t *testing.T) {
	probe := &stubProbe{dirty: true, err: errors.New("timeout")}
	if NewDirtyChecker(probe, nil, nil).IsDirty(context.Background(), "/repo") {
		t.Fatal("failed probe should read as clean")
	}
}

func TestBranchFromHead(t *testing.T) {
	tests := []struct {
		name string
		head string
		want string
	}{
		{"branch", "ref: refs/heads/feature/login\n", "feature/login"},
		{"detached", "3f1c2a9b8d7e6f5a4b3c2d1e0f9a8b7c6d5e4f3a\n", "3f1c2a9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gitDir := filepath.Join(t.TempDir(), ".git")
			if err := os.MkdirAll(gitDir, 0o755); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte(tt.head), 0o644); err != nil {
				t.Fatal(err)
			}
			got, err := Branch(gitDir)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFindGitDirWalksUpAndFollowsGitFile(t *testing.T) {
	root := t.TempDir()
	realGit := filepath.Join(root, "main", ".git")
	if err := os.MkdirAll(realGit, 0o755); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "main", "pkg", "sub")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	got, err := FindGitDir(nested)
	if err != nil || got != realGit {
		t.Fatalf("got %q, %v", got, err)
	}

	worktree := filepath.Join(root, "wt")
	if err := os.MkdirAll(worktree, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(worktree, ".git"), []byte("gitdir: ../main/.git\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = FindGitDir(worktree)
	if err != nil || got != realGit {
		t.Fatalf("worktree: got %q, %v", got, err)
	}
}

func TestInspectOutsideRepository(t *testing.T) {
	dir := t.TempDir()
	if _, err := FindGitDir(dir); !errors.Is(err, ErrNotRepository) {
		t.Skip("temp dir is inside a repository")
	}
	insp := NewInspector(NewDirtyChecker(&stubProbe{}, nil, nil))
	if got := insp.Inspect(context.Background(), dir); got != nil {
		t.Fatalf("expected nil status, got %+v", got)
	}
}

func TestLibraryProbe(t *testing.T) {
	dir := t.TempDir()
	if _, err := gogit.PlainInit(dir, false); err != nil {
		t.Fatal(err)
	}
	probe := &libraryProbe{}
	dirty, err := probe.Dirty(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if dirty {
		t.Fatal("fresh repository should be clean")
	}

	if err := os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	dirty, err = probe.Dirty(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if !dirty {
		t.Fatal("untracked file should make the tree dirty")
	}
}

func TestExecProbe(t *testing.T) {
	bin, err := exec.LookPath("git")
	if err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	if err := exec.Command(bin, "init", "-q", dir).Run(); err != nil {
		t.Skipf("git init failed: %v", err)
	}
	probe := &execProbe{binary: bin, timeout: 5 * time.Second}
	if dirty, err := probe.Dirty(context.Background(), dir); err != nil || dirty {
		t.Fatalf("fresh repository: dirty=%v err=%v", dirty, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if dirty, err := probe.Dirty(context.Background(), dir); err != nil || !dirty {
		t.Fatalf("after write: dirty=%v err=%v", dirty, err)
	}
}
