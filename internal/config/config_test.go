package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultHistorySize, cfg.History.Size)
	assert.Equal(t, DefaultWrapWidth, cfg.Editor.WrapWidth)
	assert.Equal(t, DefaultScrollOff, cfg.Editor.ScrollOff)
	assert.True(t, cfg.Editor.MagicLinks)
	assert.True(t, cfg.Editor.MagicSmileys)
	assert.Equal(t, DefaultAutosaveInterval, cfg.Drafts.AutosaveInterval)
	assert.Equal(t, "info", cfg.Logger.LogLevel)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[logger]
log_level = "debug"

[editor]
wrap_width = 60
magic_smileys = false

[history]
size = 5

[drafts]
path = "/tmp/d.db"
autosave_interval = "2m"

[mail]
from = "me@example.org"
`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logger.LogLevel)
	assert.Equal(t, 60, cfg.Editor.WrapWidth)
	assert.False(t, cfg.Editor.MagicSmileys)
	assert.True(t, cfg.Editor.MagicLinks, "keys missing from the file keep their defaults")
	assert.Equal(t, 5, cfg.History.Size)
	assert.Equal(t, "/tmp/d.db", cfg.DraftsPath())
	assert.Equal(t, 2*time.Minute, cfg.Drafts.AutosaveInterval)
	assert.Equal(t, "me@example.org", cfg.Mail.From)
}

func TestLoadFileInvalid(t *testing.T) {
	path := writeConfig(t, "[editor\nwrap_width = ")
	cfg, err := Load(path, nil)
	assert.Error(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, DefaultWrapWidth, cfg.Editor.WrapWidth)
}

func TestValidateResetsBadValues(t *testing.T) {
	path := writeConfig(t, `
[editor]
wrap_width = 3
scroll_off = -2

[history]
size = 0
`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultWrapWidth, cfg.Editor.WrapWidth)
	assert.Equal(t, DefaultScrollOff, cfg.Editor.ScrollOff)
	assert.Equal(t, DefaultHistorySize, cfg.History.Size)
}

func TestFlagOverrides(t *testing.T) {
	path := writeConfig(t, "[history]\nsize = 5\n")
	var f Flags
	args, err := f.ParseFlags(flag.NewFlagSet("composer", flag.ContinueOnError),
		[]string{"-history", "12", "-wrapwidth", "40", "-log-tags", "history, core", "draft.html"})
	require.NoError(t, err)
	assert.Equal(t, []string{"draft.html"}, args)

	cfg, err := Load(path, &f)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.History.Size)
	assert.Equal(t, 40, cfg.Editor.WrapWidth)
	assert.Equal(t, []string{"history", "core"}, cfg.Logger.EnabledTags)
	assert.Equal(t, DefaultScrollOff, cfg.Editor.ScrollOff, "unset flags do not override")
}

func TestSplitCommaList(t *testing.T) {
	assert.Nil(t, splitCommaList(""))
	assert.Equal(t, []string{"a", "b"}, splitCommaList(" a,, b ,"))
}
