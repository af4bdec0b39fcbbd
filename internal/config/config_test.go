package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `{
		"batch_size": 500,
		"port": 8080,
		"database_url": "postgres://localhost/tracker",
		"high_threshold": 0.9
	}`)

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, 500, cfg.BatchSize)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "postgres://localhost/tracker", cfg.DatabaseURL)
	assert.Equal(t, 0.9, cfg.HighThreshold)
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	require.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeConfig(t, `{not json`)
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"empty config", Config{}, false},
		{"valid thresholds", Config{HighThreshold: 0.9, LowThreshold: 0.6}, false},
		{"negative batch size", Config{BatchSize: -1}, true},
		{"port out of range", Config{Port: 70000}, true},
		{"threshold above one", Config{HighThreshold: 1.5}, true},
		{"low above high", Config{HighThreshold: 0.6, LowThreshold: 0.9}, true},
		{"missing import file", Config{File: "/does/not/exist.csv"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Port: 9000}
	defaults := Config{
		Port:        8080,
		DatabaseURL: "postgres://localhost/tracker",
		BatchSize:   1000,
	}

	merged := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, 9000, merged.Port, "explicit value wins")
	assert.Equal(t, "postgres://localhost/tracker", merged.DatabaseURL)
	assert.Equal(t, 1000, merged.BatchSize)
}
