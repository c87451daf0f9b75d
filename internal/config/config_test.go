package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChicagoDave/stopeplanner/pkg/risk"
)

func lookupMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestFromEnvDefaults(t *testing.T) {
	c, err := FromEnv(lookupMap(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
	assert.Equal(t, risk.DefaultParams(), c.Params)
	assert.False(t, c.Risk)
	assert.Equal(t, 300*time.Millisecond, c.Debounce)
}

func TestFromEnvOverrides(t *testing.T) {
	c, err := FromEnv(lookupMap(map[string]string{
		EnvModelPath:    "/var/lib/stope/model.json",
		EnvTrainingData: "/srv/history.csv",
		EnvRisk:         "true",
		EnvTrees:        "50",
		EnvMaxDepth:     "6",
		EnvSeed:         "7",
		EnvDebounce:     "1s",
	}))
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/stope/model.json", c.ModelPath)
	assert.Equal(t, "/srv/history.csv", c.TrainingData)
	assert.True(t, c.Risk)
	assert.Equal(t, 50, c.Params.Trees)
	assert.Equal(t, 6, c.Params.MaxDepth)
	assert.Equal(t, uint64(7), c.Params.Seed)
	assert.Equal(t, time.Second, c.Debounce)
}

func TestFromEnvErrorsNameVariable(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{EnvRisk, "maybe"},
		{EnvTrees, "many"},
		{EnvTrees, "0"},
		{EnvMaxDepth, "-1"},
		{EnvSeed, "-5"},
		{EnvDebounce, "soon"},
		{EnvDebounce, "0s"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			_, err := FromEnv(lookupMap(map[string]string{tt.key: tt.value}))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stope.env")
	require.NoError(t, os.WriteFile(path, []byte("STOPE_RISK=1\nSTOPE_TREES=20\n# comment\nSTOPE_SEED=9\n"), 0o644))
	t.Setenv(EnvSeed, "11")

	c, err := Load(path)
	require.NoError(t, err)
	assert.True(t, c.Risk)
	assert.Equal(t, 20, c.Params.Trees)
	assert.Equal(t, uint64(11), c.Params.Seed, "process environment wins over the file")

	_, ok := os.LookupEnv(EnvTrees)
	assert.False(t, ok, "loading must not modify the process environment")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "reading env file")
}

func TestLoadDefaultFileOptional(t *testing.T) {
	t.Chdir(t.TempDir())
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().ModelPath, c.ModelPath)
}
