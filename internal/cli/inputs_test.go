package cli

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylekit/css/internal/config"
)

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.css", "")
	b := writeFile(t, dir, "sub/b.css", "")
	writeFile(t, dir, "vendor/c.css", "")
	writeFile(t, dir, "notes.txt", "")

	paths, err := expandInputs(
		[]string{filepath.Join(dir, "**/*.css"), a},
		[]string{filepath.Join(dir, "vendor/**")},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, paths)
}

func TestExpandInputs_Order(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.css", "")
	b := writeFile(t, dir, "b.css", "")

	paths, err := expandInputs([]string{b, filepath.Join(dir, "*.css")}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{b, a}, paths)
}

func TestExpandInputs_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := expandInputs([]string{filepath.Join(dir, "missing.css")}, nil)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	paths, err := expandInputs([]string{filepath.Join(dir, "*.css")}, nil)
	require.NoError(t, err)
	assert.Empty(t, paths)

	_, err = inputFiles(config.Config{Inputs: []string{filepath.Join(dir, "*.css")}})
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = inputFiles(config.Config{})
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
