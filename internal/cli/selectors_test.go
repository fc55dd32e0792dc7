package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectors(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewSelectorsCommand(&RootOptions{})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{".a  .b, a > b"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, ".a .b,a>b\n\t.a .b\tdescendant-only\n\ta>b\tcomplex\n", buf.String())
}

func TestSelectorsInvalid(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewSelectorsCommand(&RootOptions{})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"a", "svg|rect"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "a\n\ta\tdescendant-only\n")
	assert.Contains(t, buf.String(), `"svg|rect": `)
}

func TestSelectorsRequiresArgs(t *testing.T) {
	cmd := NewSelectorsCommand(&RootOptions{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	assert.Error(t, cmd.Execute())
}
