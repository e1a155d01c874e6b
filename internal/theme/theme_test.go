package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStyleFallbacks(t *testing.T) {
	th := &ComposerDark
	assert.Equal(t, th.Styles["Quote"], th.GetStyle("Quote.7"))
	assert.Equal(t, th.Styles["Quote.2"], th.GetStyle("Quote.2"))
	assert.Equal(t, th.Styles["Default"], th.GetStyle("nonexistent"))
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ff0000")
	require.NoError(t, err)
	assert.Equal(t, tcell.NewHexColor(0xff0000), c)

	c, err = ParseColor("Red")
	require.NoError(t, err)
	assert.Equal(t, tcell.ColorRed, c)

	c, err = ParseColor("reset")
	require.NoError(t, err)
	assert.Equal(t, tcell.ColorReset, c)

	_, err = ParseColor("#12")
	assert.Error(t, err)
	_, err = ParseColor("no-such-color")
	assert.Error(t, err)
}

func TestManagerLoadsDirectory(t *testing.T) {
	dir := t.TempDir()
	body := `
name = "Paper"
[styles.Default]
fg = "#000000"
bg = "#ffffff"
[styles.Link]
underline = true
[styles.Broken]
fg = "#zz"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "paper.toml"), []byte(body), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	m := NewManager(dir)
	assert.Equal(t, []string{"Composer Dark", "Paper"}, m.ListThemes())
	assert.Equal(t, "Composer Dark", m.Current().Name)

	require.NoError(t, m.SetTheme("paper"))
	cur := m.Current()
	assert.Equal(t, "Paper", cur.Name)
	fg, bg, _ := cur.GetStyle("Link").Decompose()
	assert.Equal(t, tcell.NewHexColor(0x000000), fg)
	assert.Equal(t, tcell.NewHexColor(0xffffff), bg)
	_, hasBroken := cur.Styles["Broken"]
	assert.False(t, hasBroken)

	assert.Error(t, m.SetTheme("missing"))
}

func TestManagerMissingDirectory(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "none"))
	assert.Equal(t, []string{"Composer Dark"}, m.ListThemes())
}
