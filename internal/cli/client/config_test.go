package client

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withConfigPath points the global config at a temp file for the test.
func withConfigPath(t *testing.T) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "classmate", "config.json")
	old := getConfigPathFunc
	getConfigPathFunc = func() (string, error) { return configPath, nil }
	t.Cleanup(func() { getConfigPathFunc = old })
	return configPath
}

func TestGetConfigDir(t *testing.T) {
	dir, err := GetConfigDir()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(dir))
	assert.True(t, strings.HasSuffix(dir, "classmate"))
}

func TestLoadGlobalConfig_FileNotExists(t *testing.T) {
	withConfigPath(t)

	config, err := LoadGlobalConfig()
	require.NoError(t, err)
	assert.Nil(t, config)
}

func TestLoadGlobalConfig_InvalidJSON(t *testing.T) {
	path := withConfigPath(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("{invalid json}"), 0600))

	_, err := LoadGlobalConfig()
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestSaveGlobalConfig_RoundTrip(t *testing.T) {
	path := withConfigPath(t)
	want := &GlobalConfig{APIURL: "http://localhost:9000", User: "Thandi", SchoolID: "greenwood", Grade: "4"}

	require.NoError(t, SaveGlobalConfig(want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	got, err := LoadGlobalConfig()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveGlobalConfig_NilConfig(t *testing.T) {
	assert.Error(t, SaveGlobalConfig(nil))
}

func TestProfileFor(t *testing.T) {
	withConfigPath(t)
	require.NoError(t, SaveGlobalConfig(&GlobalConfig{User: "Thandi", SchoolID: "greenwood", Grade: "4"}))

	user, school, grade, err := profileFor("Sipho", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Sipho", user)
	assert.Equal(t, "greenwood", school)
	assert.Equal(t, "4", grade)
}
