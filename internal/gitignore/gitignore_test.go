package gitignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureCreatesFile(t *testing.T) {
	root := t.TempDir()

	added, err := Ensure(root, []string{".env*", "docx/"})
	require.NoError(t, err)
	assert.Equal(t, []string{".env*", "docx/"}, added)

	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t,
		"# Added by Autocommiter: ensure .env*\n.env*\n# Added by Autocommiter: ensure docx/\ndocx/\n",
		string(data))
}

func TestEnsureAppendsOnlyMissing(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ".gitignore")
	require.NoError(t, os.WriteFile(path, []byte("node_modules/\n  .env*  \n# docx/\n"), 0o644))

	added, err := Ensure(root, []string{".env*", "docx/", "docx/"})
	require.NoError(t, err)
	assert.Equal(t, []string{"docx/"}, added)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"node_modules/\n  .env*  \n# docx/\n\n# Added by Autocommiter: ensure docx/\ndocx/\n",
		string(data))
}

func TestEnsureIsIdempotent(t *testing.T) {
	root := t.TempDir()
	patterns := []string{"*.env*", ".env*"}

	_, err := Ensure(root, patterns)
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	require.NoError(t, err)

	added, err := Ensure(root, patterns)
	require.NoError(t, err)
	assert.Empty(t, added)

	second, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestEnsureNoPatterns(t *testing.T) {
	root := t.TempDir()
	added, err := Ensure(root, nil)
	require.NoError(t, err)
	assert.Empty(t, added)

	_, err = os.Stat(filepath.Join(root, ".gitignore"))
	assert.True(t, os.IsNotExist(err))
}
