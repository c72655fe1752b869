package gitignore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const commentPrefix = "# Added by Autocommiter: ensure "

// Ensure appends every pattern missing from root/.gitignore and returns the
// patterns it added. The file is left untouched when nothing is missing.
func Ensure(root string, patterns []string) ([]string, error) {
	path := filepath.Join(root, ".gitignore")

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .gitignore: %w", err)
	}
	existing := string(data)

	present := make(map[string]bool)
	for _, line := range strings.Split(existing, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			present[line] = true
		}
	}

	var added, lines []string
	for _, p := range patterns {
		if present[p] {
			continue
		}
		present[p] = true
		added = append(added, p)
		lines = append(lines, commentPrefix+p, p)
	}
	if len(added) == 0 {
		return nil, nil
	}

	block := strings.Join(lines, "\n") + "\n"
	content := block
	if strings.TrimSpace(existing) != "" {
		content = existing + "\n" + block
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write .gitignore: %w", err)
	}
	return added, nil
}
