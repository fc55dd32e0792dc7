package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckValidFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.css", "a { color: red }")
	b := writeFile(t, dir, "b.css", "@media print { b { top: 0 } }")

	buf := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{a, b})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "checked 2 file(s): 0 error(s), 0 dropped declaration(s)\n", buf.String())
}

func TestCheckDroppedDeclarations(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "warn.css", "a{color: red); top: 0}")

	buf := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())
	output := buf.String()
	assert.Contains(t, output, path+":1:")
	assert.Contains(t, output, "dropped: ")
	assert.Contains(t, output, "0 error(s), 1 dropped declaration(s)")

	cmd = NewCheckCommand(&RootOptions{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{path, "--strict"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestCheckInvalidFile(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.css", "a{}")
	bad := writeFile(t, dir, "bad.css", "a{}\n@import \"x.css\";")

	buf := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{good, bad})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, "1 of 2 file(s) failed", err.Error())
	assert.Contains(t, buf.String(), bad+":2:1: @import is not allowed after body rules\n")
}
