package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"autocommiter/internal/gitmoji"
	"autocommiter/internal/summarizer"

	"github.com/rs/zerolog/log"
)

// FallbackMessage is committed when no model reply is available.
const FallbackMessage = "chore: automated commit generated by Autocommiter"

const (
	SummaryBudget  = summarizer.DefaultBudget
	MaxPromptFiles = 50
)

var (
	ErrNoAPIKey      = errors.New("no API key configured")
	ErrEmptyResponse = errors.New("model returned an empty message")
)

type MessageGenerator interface {
	GenerateCommitMessage(ctx context.Context, model, fileNames, summary string) (string, error)
}

// Repository is the git work tree the commit is built from.
type Repository interface {
	summarizer.DiffSource
	StageAll(ctx context.Context) error
	StagedFiles(ctx context.Context) ([]string, error)
	Commit(ctx context.Context, message string) error
	Push(ctx context.Context) error
}

type Core struct {
	llm   MessageGenerator
	emoji *gitmoji.Selector
}

// NewCore wires the generator and emoji selector. A nil llm means no API key
// is configured and every generation falls back to FallbackMessage.
func NewCore(llm MessageGenerator, emoji *gitmoji.Selector) *Core {
	if emoji == nil {
		emoji = gitmoji.NewSelector(nil)
	}
	return &Core{
		llm:   llm,
		emoji: emoji,
	}
}

// Stage stages the whole work tree and returns the staged paths.
func (c *Core) Stage(ctx context.Context, repo Repository) ([]string, error) {
	if err := repo.StageAll(ctx); err != nil {
		return nil, err
	}
	return repo.StagedFiles(ctx)
}

// Summary is what the model sees of the staged changes.
type Summary struct {
	Changes   []summarizer.FileChange
	FileNames string
	Payload   string
}

// Summarize analyzes each staged file and compresses the result into the
// prompt payload.
func Summarize(ctx context.Context, src summarizer.DiffSource, files []string) Summary {
	changes := summarizer.BuildFileChanges(ctx, src, files)

	names := files
	if len(names) > MaxPromptFiles {
		names = names[:MaxPromptFiles]
	}

	return Summary{
		Changes:   changes,
		FileNames: strings.Join(names, "\n"),
		Payload:   summarizer.Compress(changes, SummaryBudget),
	}
}

type GenerateOptions struct {
	Model   string
	Gitmoji bool
	Summary Summary
}

func (o *GenerateOptions) validate() error {
	if o.Model == "" {
		return ErrEmptyModel
	}
	return nil
}

// Generation is the message to commit and where it came from.
type Generation struct {
	Message  string
	Fallback bool
	// Cause explains why the fallback was used.
	Cause error
}

// GenerateMessage asks the model for a message. It never fails: without an
// API key, or when the call or its reply is unusable, FallbackMessage is
// returned instead. Only model replies are decorated with a gitmoji.
func (c *Core) GenerateMessage(ctx context.Context, opts GenerateOptions) Generation {
	msg, err := c.generate(ctx, opts)
	if err != nil {
		log.Debug().Err(err).Msg("Using fallback commit message")
		return Generation{Message: FallbackMessage, Fallback: true, Cause: err}
	}

	if opts.Gitmoji {
		msg = c.emoji.Decorate(msg)
	}
	return Generation{Message: msg}
}

func (c *Core) generate(ctx context.Context, opts GenerateOptions) (string, error) {
	if c.llm == nil {
		return "", ErrNoAPIKey
	}
	if err := opts.validate(); err != nil {
		return "", fmt.Errorf("invalid options: %w", err)
	}

	raw, err := c.llm.GenerateCommitMessage(ctx, opts.Model, opts.Summary.FileNames, opts.Summary.Payload)
	if err != nil {
		return "", &GenerationError{Step: StepRequest, Model: opts.Model, Err: err}
	}

	msg, err := parseCommitMessage(raw)
	if err != nil {
		return "", &GenerationError{Step: StepReply, Model: opts.Model, Err: err}
	}
	return msg, nil
}

// Apply commits the staged changes and pushes unless push is false.
func (c *Core) Apply(ctx context.Context, repo Repository, message string, push bool) error {
	if err := repo.Commit(ctx, message); err != nil {
		return err
	}
	if !push {
		return nil
	}
	return repo.Push(ctx)
}
