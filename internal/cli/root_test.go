package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylekit/css/internal/log"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "cssmin", cmd.Use)
	assert.Contains(t, cmd.Long, "cssmin.yaml")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"minify", "check", "selectors", "colors"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)
	assert.Equal(t, "", configFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
}

func TestMinifyCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	minifyCmd, _, err := cmd.Find([]string{"minify"})
	require.NoError(t, err)

	outputFlag := minifyCmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)
	require.NotNil(t, minifyCmd.Flags().Lookup("source-urls"))
	require.NotNil(t, minifyCmd.Flags().Lookup("exclude"))
}

func TestRootCommand_ConfigFile(t *testing.T) {
	defer log.SetOutput(nil)
	defer log.SetLevel(log.LevelInfo)

	dir := t.TempDir()
	writeFile(t, dir, "src/a.css", "a { color : red }")
	writeFile(t, dir, "src/b.css", "b { top : 0 }")
	config := writeFile(t, dir, "cssmin.yaml", "inputs: [src/*.css]\nexclude: [src/b.css]\noutput: out.css\nlogLevel: warn\n")

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", config, "minify"})
	require.NoError(t, cmd.Execute())

	b, err := os.ReadFile(filepath.Join(dir, "out.css"))
	require.NoError(t, err)
	assert.Equal(t, "a{color: red}", string(b))
	assert.Equal(t, log.LevelWarn, log.GetLevel())
}

func TestRootCommand_ConfigErrors(t *testing.T) {
	defer log.SetOutput(nil)

	dir := t.TempDir()
	config := writeFile(t, dir, "cssmin.yaml", "logLevel: loud\n")

	for _, args := range [][]string{
		{"--config", config, "selectors", "a"},
		{"--config", filepath.Join(dir, "missing.yaml"), "selectors", "a"},
		{"--log-level", "loud", "selectors", "a"},
	} {
		cmd := NewRootCommand()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(args)
		err := cmd.Execute()
		require.Error(t, err, "%v", args)
		assert.Equal(t, ExitCommandError, GetExitCode(err), "%v", args)
	}
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("boom")))
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "bad", errors.New("boom"))))

	err := WrapExitError(ExitFailure, "minify failed", os.ErrNotExist)
	assert.Equal(t, "minify failed: file does not exist", err.Error())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// writeFile writes content to name under dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
