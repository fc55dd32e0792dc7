package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const colorsCSS = `a { color: red; background: url(x.png) }
@media print {
  b { border-color: #00f; -webkit-text-fill-color: rgb(255, 0, 0) }
}
@keyframes pulse { to { color: RED } }
i { color: inherit; margin: 0 }`

func TestColors(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.css", colorsCSS)

	buf := &bytes.Buffer{}
	cmd := NewColorsCommand(&RootOptions{})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, ""+
		path+":1:5\tcolor\t#ff0000\n"+
		path+":3:7\tborder-color\t#0000ff\n"+
		path+":3:27\t-webkit-text-fill-color\t#ff0000\n"+
		path+":5:25\tcolor\t#ff0000\n",
		buf.String())
}

func TestColorsUnique(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.css", colorsCSS)

	buf := &bytes.Buffer{}
	cmd := NewColorsCommand(&RootOptions{})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path, "--unique"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "#ff0000\t3\n#0000ff\t1\n", buf.String())
}
