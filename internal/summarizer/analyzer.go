package summarizer

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"
)

const (
	ChangeUnchanged = "unchanged"
	ChangeModified  = "mod"
	ChangeError     = "err"

	maxHunkLineRunes = 40
)

// FileChange is the short summary of a single staged file.
type FileChange struct {
	File   string
	Change string
}

// DiffSource supplies staged diff output for a single path.
type DiffSource interface {
	StagedNumstat(ctx context.Context, file string) (string, error)
	StagedUnified(ctx context.Context, file string) (string, error)
}

// AnalyzeFileChange describes the staged change of file. It never fails:
// numstat is tried first, then the zero-context diff, and "err" is returned
// when neither is available.
func AnalyzeFileChange(ctx context.Context, src DiffSource, file string) string {
	numstat, err := src.StagedNumstat(ctx, file)
	if err == nil {
		return describeNumstat(numstat)
	}
	log.Debug().Err(err).Str("file", file).Msg("numstat unavailable, falling back to unified diff")

	hunks, err := src.StagedUnified(ctx, file)
	if err != nil {
		log.Warn().Err(err).Str("file", file).Msg("Failed to get diff for file")
		return ChangeError
	}
	return describeHunks(hunks)
}

// BuildFileChanges analyzes files in order, one at a time.
func BuildFileChanges(ctx context.Context, src DiffSource, files []string) []FileChange {
	changes := make([]FileChange, 0, len(files))
	for _, file := range files {
		changes = append(changes, FileChange{
			File:   file,
			Change: AnalyzeFileChange(ctx, src, file),
		})
	}
	return changes
}

func describeNumstat(out string) string {
	out = strings.TrimSpace(out)
	if out == "" {
		return ChangeUnchanged
	}

	first, _, _ := strings.Cut(out, "\n")
	parts := strings.Split(strings.TrimRight(first, "\r"), "\t")
	if len(parts) < 3 {
		return ChangeModified
	}

	added, ok := parseCount(parts[0])
	if !ok {
		return ChangeModified
	}
	removed, ok := parseCount(parts[1])
	if !ok {
		return ChangeModified
	}
	return fmt.Sprintf("%d+/%d−", added, removed)
}

// parseCount reads one numstat column. Binary files report "-".
func parseCount(field string) (int, bool) {
	field = strings.TrimSpace(field)
	if field == "-" {
		return 0, true
	}
	n, err := strconv.Atoi(field)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func describeHunks(out string) string {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if r := []rune(line); len(r) > maxHunkLineRunes {
			line = string(r[:maxHunkLineRunes])
		}
		line = collapseSpace(line)
		if line == "" {
			continue
		}
		return line
	}
	return ChangeModified
}

// collapseSpace folds whitespace runs into single spaces and drops any other
// control characters.
func collapseSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = true
		case unicode.IsControl(r):
		default:
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		}
	}
	return b.String()
}
