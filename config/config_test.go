package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"callcenter-sim/config"
	"callcenter-sim/runmodel"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ccsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	tests := map[string]struct {
		file     string
		env      map[string]string
		expected config.Config
		errMsg   string
	}{
		"Defaults": {
			expected: config.Config{Strict: true, Language: "en", LogLevel: "info", Format: "text"},
		},
		"File": {
			file: "strict: false\nmax_threads: 4\nlanguage: de\nlog_level: debug\nformat: json\n",
			expected: config.Config{
				Strict: false, MaxThreads: 4, Language: "de", LogLevel: "debug", Format: "json",
			},
		},
		"EnvOverridesFile": {
			file: "format: json\nmax_threads: 4\n",
			env:  map[string]string{"CCSIM_FORMAT": "csv", "CCSIM_MAX_THREADS": "2"},
			expected: config.Config{
				Strict: true, MaxThreads: 2, Language: "en", LogLevel: "info", Format: "csv",
			},
		},
		"InvalidFormat": {
			file:   "format: xml\n",
			errMsg: "format must be one of: text, json, csv (got: xml)",
		},
		"InvalidLogLevel": {
			env:    map[string]string{"CCSIM_LOG_LEVEL": "loud"},
			errMsg: "invalid log level",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeFile(t, tt.file)
			}

			cfg, err := config.Load(path)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, *cfg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestConfig_Options(t *testing.T) {
	cfg := config.Config{Strict: true, MaxThreads: 3, Language: "de", LogLevel: "trace", Format: "text"}
	assert.Equal(t, runmodel.Options{Strict: true, Threads: 3, Language: "de"}, cfg.Options())
	assert.Equal(t, log.TraceLevel, cfg.Level())

	cfg.LogLevel = "nonsense"
	assert.Equal(t, log.InfoLevel, cfg.Level())
}
