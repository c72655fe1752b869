package core

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"autocommiter/internal/gitmoji"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	reply string
	err   error

	calls     int
	model     string
	fileNames string
	summary   string
}

func (f *fakeLLM) GenerateCommitMessage(_ context.Context, model, fileNames, summary string) (string, error) {
	f.calls++
	f.model, f.fileNames, f.summary = model, fileNames, summary
	return f.reply, f.err
}

type fakeRepo struct {
	staged    []string
	numstat   map[string]string
	stageErr  error
	commitErr error
	pushErr   error

	ops       []string
	committed string
}

func (r *fakeRepo) StageAll(context.Context) error {
	r.ops = append(r.ops, "stage")
	return r.stageErr
}

func (r *fakeRepo) StagedFiles(context.Context) ([]string, error) {
	r.ops = append(r.ops, "list")
	return r.staged, nil
}

func (r *fakeRepo) StagedNumstat(_ context.Context, file string) (string, error) {
	out, ok := r.numstat[file]
	if !ok {
		return "", errors.New("no numstat")
	}
	return out, nil
}

func (r *fakeRepo) StagedUnified(context.Context, string) (string, error) {
	return "", errors.New("no diff")
}

func (r *fakeRepo) Commit(_ context.Context, message string) error {
	r.ops = append(r.ops, "commit")
	r.committed = message
	return r.commitErr
}

func (r *fakeRepo) Push(context.Context) error {
	r.ops = append(r.ops, "push")
	return r.pushErr
}

func seeded() *gitmoji.Selector {
	return gitmoji.NewSelector(rand.New(rand.NewPCG(1, 1)))
}

func TestStage(t *testing.T) {
	repo := &fakeRepo{staged: []string{"b.go", "a.go"}}
	files, err := NewCore(nil, nil).Stage(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, []string{"b.go", "a.go"}, files)
	assert.Equal(t, []string{"stage", "list"}, repo.ops)
}

func TestStageError(t *testing.T) {
	repo := &fakeRepo{stageErr: errors.New("index.lock exists")}
	_, err := NewCore(nil, nil).Stage(context.Background(), repo)
	require.Error(t, err)
	assert.Equal(t, []string{"stage"}, repo.ops)
}

func TestSummarize(t *testing.T) {
	repo := &fakeRepo{numstat: map[string]string{
		"src/main.rs": "5\t2\tsrc/main.rs",
	}}

	s := Summarize(context.Background(), repo, []string{"src/main.rs", "broken.bin"})

	assert.Equal(t, "src/main.rs\nbroken.bin", s.FileNames)
	assert.Equal(t, `{"files":[{"f":"src/main.rs","c":"5+/2−"},{"f":"broken.bin","c":"err"}]}`, s.Payload)
	require.Len(t, s.Changes, 2)
	assert.Equal(t, "err", s.Changes[1].Change)
}

func TestSummarizeLimitsFileNames(t *testing.T) {
	files := make([]string, 80)
	numstat := make(map[string]string)
	for i := range files {
		files[i] = fmt.Sprintf("dir/file%02d.go", i)
		numstat[files[i]] = "1\t1\t" + files[i]
	}

	s := Summarize(context.Background(), &fakeRepo{numstat: numstat}, files)

	names := strings.Split(s.FileNames, "\n")
	assert.Len(t, names, MaxPromptFiles)
	assert.Equal(t, "dir/file49.go", names[len(names)-1])
	assert.Len(t, s.Changes, 80)
	assert.LessOrEqual(t, len(s.Payload), SummaryBudget)
}

func TestGenerateMessage(t *testing.T) {
	llm := &fakeLLM{reply: "```\nFix crash on startup\n```"}
	c := NewCore(llm, seeded())
	summary := Summary{FileNames: "main.go", Payload: `{"files":[]}`}

	gen := c.GenerateMessage(context.Background(), GenerateOptions{Model: "gpt-4o", Summary: summary})

	assert.Equal(t, Generation{Message: "Fix crash on startup"}, gen)
	assert.Equal(t, 1, llm.calls)
	assert.Equal(t, "gpt-4o", llm.model)
	assert.Equal(t, "main.go", llm.fileNames)
	assert.Equal(t, `{"files":[]}`, llm.summary)
}

func TestGenerateMessageWithGitmoji(t *testing.T) {
	c := NewCore(&fakeLLM{reply: "fix crash on startup"}, seeded())

	gen := c.GenerateMessage(context.Background(), GenerateOptions{Model: "m", Gitmoji: true})

	assert.Equal(t, "🐛 fix crash on startup", gen.Message)
	assert.False(t, gen.Fallback)
}

func TestGenerateMessageFallback(t *testing.T) {
	boom := errors.New("status 500")

	tests := []struct {
		name  string
		llm   MessageGenerator
		model string
		check func(t *testing.T, err error)
	}{
		{
			name:  "no api key",
			llm:   nil,
			model: "m",
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrNoAPIKey) },
		},
		{
			name:  "request failure",
			llm:   &fakeLLM{err: boom},
			model: "m",
			check: func(t *testing.T, err error) {
				var ge *GenerationError
				require.ErrorAs(t, err, &ge)
				assert.Equal(t, StepRequest, ge.Step)
				assert.Equal(t, "m", ge.Model)
				assert.ErrorIs(t, err, boom)
			},
		},
		{
			name:  "empty reply",
			llm:   &fakeLLM{reply: "  \"\"  "},
			model: "m",
			check: func(t *testing.T, err error) {
				var ge *GenerationError
				require.ErrorAs(t, err, &ge)
				assert.Equal(t, StepReply, ge.Step)
				assert.ErrorIs(t, err, ErrEmptyResponse)
			},
		},
		{
			name:  "missing model",
			llm:   &fakeLLM{reply: "ok"},
			model: "",
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrEmptyModel) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCore(tt.llm, seeded())
			gen := c.GenerateMessage(context.Background(), GenerateOptions{Model: tt.model, Gitmoji: true})

			assert.Equal(t, FallbackMessage, gen.Message, "fallback is never decorated")
			assert.True(t, gen.Fallback)
			require.Error(t, gen.Cause)
			tt.check(t, gen.Cause)
		})
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		push    bool
		repo    *fakeRepo
		wantOps []string
		wantErr bool
	}{
		{name: "commit and push", push: true, repo: &fakeRepo{}, wantOps: []string{"commit", "push"}},
		{name: "no push", push: false, repo: &fakeRepo{}, wantOps: []string{"commit"}},
		{name: "commit fails", push: true, repo: &fakeRepo{commitErr: errors.New("hook failed")}, wantOps: []string{"commit"}, wantErr: true},
		{name: "push fails", push: true, repo: &fakeRepo{pushErr: errors.New("rejected")}, wantOps: []string{"commit", "push"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewCore(nil, nil).Apply(context.Background(), tt.repo, "msg", tt.push)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantOps, tt.repo.ops)
			assert.Equal(t, "msg", tt.repo.committed)
		})
	}
}
