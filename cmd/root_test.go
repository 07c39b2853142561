package cmd

import (
	"io/ioutil"
	"log"
	"path/filepath"
	"testing"

	"github.com/lcamplin/tpsh/core/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withConfigPath(t *testing.T, dir string) {
	t.Helper()
	old := cfgPath
	cfgPath = dir
	t.Cleanup(func() { cfgPath = old })
}

func TestLoadConfig_missing(t *testing.T) {
	withConfigPath(t, filepath.Join(t.TempDir(), "absent"))

	cfg, err := loadConfig(log.New(ioutil.Discard, "", 0))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadConfig_initialized(t *testing.T) {
	dir := t.TempDir()
	withConfigPath(t, dir)
	_, err := config.Initialize(configFs(), log.New(ioutil.Discard, "", 0))
	require.NoError(t, err)

	cfg, err := loadConfig(log.New(ioutil.Discard, "", 0))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "history"), cfg.HistoryPath())
}

func TestLoadConfig_invalid(t *testing.T) {
	dir := t.TempDir()
	withConfigPath(t, dir)
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, config.ConfigurationName), []byte("prompt:\n  color: mauve\n"), 0o600))

	_, err := loadConfig(log.New(ioutil.Discard, "", 0))
	assert.Error(t, err)
}
