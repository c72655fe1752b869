package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"autocommiter/internal/config"
	"autocommiter/internal/core"
	"autocommiter/internal/git"
	"autocommiter/internal/gitignore"
	"autocommiter/internal/gitmoji"
	"autocommiter/internal/utils"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog/log"
)

// RunOptions are the generate command flags.
type RunOptions struct {
	RepoPath string
	NoPush   bool
	Force    bool
}

// Generator drives one commit from staging to push.
type Generator struct {
	Store  *config.Store
	Runner git.Runner
	// NewClient builds the inference client for an API key.
	NewClient func(key string) core.MessageGenerator
	Emoji     *gitmoji.Selector
	Out       io.Writer

	Interactive bool
	// Confirm and Copy default to the bubbletea menu and the system
	// clipboard.
	Confirm func(message string, push bool) (Action, error)
	Copy    func(text string) error
	// Spinner defaults to one following Interactive.
	Spinner *Spinner
}

func (g *Generator) confirm(message string, push bool) (Action, error) {
	if g.Confirm != nil {
		return g.Confirm(message, push)
	}
	return Confirm(message, push)
}

func (g *Generator) copy(text string) error {
	if g.Copy != nil {
		return g.Copy(text)
	}
	return clipboard.WriteAll(text)
}

// Run stages every change under opts.RepoPath, generates a message and,
// once accepted, commits and pushes it.
func (g *Generator) Run(ctx context.Context, opts RunOptions) error {
	path := opts.RepoPath
	if path == "" {
		path = "."
	}

	repo, err := git.Open(path, g.Runner)
	if err != nil {
		if errors.Is(err, git.ErrNotRepository) {
			return fmt.Errorf("%s is not inside a git repository: %w", path, err)
		}
		return err
	}
	log.Debug().Str("root", repo.Root()).Msg("Resolved repository")

	cfg, err := g.Store.Load()
	if err != nil {
		return err
	}

	if cfg.UpdateGitignore {
		added, err := gitignore.Ensure(repo.Root(), cfg.GitignorePatterns)
		if err != nil {
			Warn(g.Out, "⚠ Could not update .gitignore: %v", err)
		} else if len(added) > 0 {
			Info(g.Out, "Added %d pattern(s) to .gitignore", len(added))
		}
	}

	var llm core.MessageGenerator
	if cfg.HasAPIKey() {
		llm = g.NewClient(cfg.APIKey)
	} else {
		Warn(g.Out, "⚠ No API key set. Run `autocommiter set-api-key` to enable generated messages.")
	}
	c := core.NewCore(llm, g.Emoji)

	files, err := c.Stage(ctx, repo)
	if err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}
	if len(files) == 0 {
		fmt.Fprintln(g.Out, "No changes to commit.")
		return nil
	}

	Info(g.Out, "Staged %d file(s):", len(files))
	for _, f := range files {
		Dim(g.Out, "  %s", f)
	}

	spinner := g.Spinner
	if spinner == nil {
		spinner = NewSpinner(g.Out, g.Interactive)
	}
	spinner.Start(fmt.Sprintf("Summarizing %d file(s)...", len(files)))
	summary := core.Summarize(ctx, repo, files)
	if utils.IsDebug() {
		log.Debug().Int("files", len(files)).Int("payload_bytes", len(summary.Payload)).Str("payload", summary.Payload).Msg("Built change summary")
	}

	genOpts := core.GenerateOptions{Model: cfg.Model(), Gitmoji: cfg.EnableGitmoji, Summary: summary}
	spinner.UpdateText("Generating commit message...")
	gen := c.GenerateMessage(ctx, genOpts)
	spinner.Stop()

	push := !opts.NoPush
	for {
		if gen.Fallback && !errors.Is(gen.Cause, core.ErrNoAPIKey) {
			Warn(g.Out, "⚠ Could not generate a message, using the default: %v", gen.Cause)
		}

		if opts.Force {
			return g.apply(ctx, c, repo, gen.Message, push)
		}

		if !g.Interactive {
			fmt.Fprintf(g.Out, "Generated commit message:\n%s\n", gen.Message)
			fmt.Fprintln(g.Out, "\nRun with -f flag to apply this commit automatically in non-interactive environments.")
			return nil
		}

		action, err := g.confirm(gen.Message, push)
		if err != nil {
			return err
		}
		log.Debug().Stringer("action", action).Msg("Menu choice")

		switch action {
		case ActionCommit:
			return g.apply(ctx, c, repo, gen.Message, push)
		case ActionCopy:
			if err := g.copy(gen.Message); err != nil {
				return fmt.Errorf("failed to copy to clipboard: %w", err)
			}
			Success(g.Out, "Commit message copied to clipboard.")
			return nil
		case ActionRegenerate:
			gen = WithSpinner(spinner, "Regenerating commit message...", func() core.Generation {
				return c.GenerateMessage(ctx, genOpts)
			})
		default:
			fmt.Fprintln(g.Out, "Commit aborted.")
			return nil
		}
	}
}

func (g *Generator) apply(ctx context.Context, c *core.Core, repo *git.Repo, message string, push bool) error {
	if err := c.Apply(ctx, repo, message, push); err != nil {
		return err
	}
	Success(g.Out, "✓ Committed: %s", message)
	if push {
		Success(g.Out, "✓ Pushed")
	}
	return nil
}
