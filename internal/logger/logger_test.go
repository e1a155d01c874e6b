package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetup_TagFiltering(t *testing.T) {
	var buf bytes.Buffer
	cfg := NewConfig()
	cfg.LogLevel = "debug"
	cfg.DisabledTags = []string{"noisy"}
	Setup(cfg, &buf)
	t.Cleanup(func() { Init(slog.LevelInfo, nil) })

	DebugTagf("noisy", "dropped %d", 1)
	DebugTagf("history", "kept %d", 2)
	Debugf("plain")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept 2")
	assert.Contains(t, out, "tag=history")
	assert.Contains(t, out, "plain")
}

func TestSetup_EnabledTagsDropUntagged(t *testing.T) {
	var buf bytes.Buffer
	cfg := NewConfig()
	cfg.LogLevel = "debug"
	cfg.EnabledTags = []string{"History"}
	Setup(cfg, &buf)
	t.Cleanup(func() { Init(slog.LevelInfo, nil) })

	Infof("untagged")
	InfoTagf("history", "tagged")

	assert.NotContains(t, buf.String(), "untagged")
	assert.Contains(t, buf.String(), "tagged")
}

func TestSetup_PackageFiltering(t *testing.T) {
	var buf bytes.Buffer
	cfg := NewConfig()
	cfg.DisabledPackages = []string{"logger"}
	Setup(cfg, &buf)
	t.Cleanup(func() { Init(slog.LevelInfo, nil) })

	Warnf("from the logger package")
	assert.Empty(t, buf.String())
}

func TestLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelWarn, &buf)
	t.Cleanup(func() { Init(slog.LevelInfo, nil) })

	Infof("quiet")
	Errorf("loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")

	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}
