package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/rs/zerolog/log"
)

var ErrNotRepository = errors.New("not a git repository")

var (
	safeArg        = regexp.MustCompile(`^[a-z][a-z-]*$`)
	credentialURL  = regexp.MustCompile(`https?://[^\s@]+@`)
	credentialPair = regexp.MustCompile(`(?i)(token|secret|password|passwd|bearer)=[^\s]+`)
)

// Runner executes git with args inside dir and returns its stdout.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// ExecRunner runs the git binary.
type ExecRunner struct {
	GitBin string
}

func NewExecRunner(gitBin string) *ExecRunner {
	if strings.TrimSpace(gitBin) == "" {
		gitBin = "git"
	}
	return &ExecRunner{GitBin: gitBin}
}

func (e *ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, e.GitBin, args...)
	if strings.TrimSpace(dir) != "" {
		cmd.Dir = dir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(stdout.String())
		}
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s failed: %s", describeArgs(args), redact(msg))
	}
	return stdout.String(), nil
}

// describeArgs keeps the leading subcommand words and stops before paths,
// URLs or messages.
func describeArgs(args []string) string {
	safe := make([]string, 0, 2)
	for _, a := range args {
		if !safeArg.MatchString(a) || len(safe) == 2 {
			break
		}
		safe = append(safe, a)
	}
	if len(safe) == 0 {
		return "<redacted>"
	}
	return strings.Join(safe, " ")
}

func redact(s string) string {
	s = credentialURL.ReplaceAllString(s, "https://<redacted>@")
	return credentialPair.ReplaceAllString(s, "$1=<redacted>")
}

// Repo runs git commands against one work tree.
type Repo struct {
	root   string
	runner Runner
}

// NewRepo returns a Repo rooted at root. A nil runner uses the git binary.
func NewRepo(root string, runner Runner) *Repo {
	if runner == nil {
		runner = NewExecRunner("")
	}
	return &Repo{root: root, runner: runner}
}

// Open finds the repository containing path and returns a Repo rooted at its
// work tree.
func Open(path string, runner Runner) (*Repo, error) {
	root, err := FindRoot(path)
	if err != nil {
		return nil, err
	}
	return NewRepo(root, runner), nil
}

// FindRoot walks up from path to the enclosing work tree root.
func FindRoot(path string) (string, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return "", fmt.Errorf("%s: %w", path, ErrNotRepository)
		}
		return "", fmt.Errorf("failed to open repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("%s: %w: %v", path, ErrNotRepository, err)
	}
	return wt.Filesystem.Root(), nil
}

func (r *Repo) Root() string {
	return r.root
}

func (r *Repo) run(ctx context.Context, args ...string) (string, error) {
	out, err := r.runner.Run(ctx, r.root, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// StageAll stages every change in the work tree.
func (r *Repo) StageAll(ctx context.Context) error {
	if _, err := r.run(ctx, "add", "."); err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}
	return nil
}

// StagedFiles lists staged paths in the order git reports them. The list is
// NUL separated so non-ASCII paths come back verbatim instead of C-quoted.
func (r *Repo) StagedFiles(ctx context.Context) ([]string, error) {
	out, err := r.runner.Run(ctx, r.root, "diff", "--staged", "--name-only", "-z")
	if err != nil {
		return nil, fmt.Errorf("failed to list staged files: %w", err)
	}
	var files []string
	for _, name := range strings.Split(out, "\x00") {
		if strings.TrimSpace(name) != "" {
			files = append(files, name)
		}
	}
	return files, nil
}

func (r *Repo) StagedNumstat(ctx context.Context, file string) (string, error) {
	return r.run(ctx, "diff", "--staged", "--numstat", "--", file)
}

func (r *Repo) StagedUnified(ctx context.Context, file string) (string, error) {
	return r.run(ctx, "diff", "--staged", "--unified=0", "--", file)
}

// Commit records the staged changes. The message is passed through a file so
// multi-line messages and leading dashes survive untouched.
func (r *Repo) Commit(ctx context.Context, message string) error {
	f, err := os.CreateTemp("", "autocommiter-msg-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create message file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.WriteString(message); err != nil {
		f.Close()
		return fmt.Errorf("failed to write message file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write message file: %w", err)
	}

	if _, err := r.run(ctx, "commit", "-F", f.Name()); err != nil {
		return fmt.Errorf("git commit failed: %w", err)
	}
	log.Debug().Str("root", r.root).Msg("Git commit executed successfully")
	return nil
}

func (r *Repo) Push(ctx context.Context) error {
	if _, err := r.run(ctx, "push"); err != nil {
		return fmt.Errorf("git push failed: %w", err)
	}
	log.Debug().Str("root", r.root).Msg("Git push executed successfully")
	return nil
}
