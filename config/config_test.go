package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"reservation-controller/config"
	customerrors "reservation-controller/errors"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"CONTROLLER_MIN_HOUR",
	"CONTROLLER_MAX_HOUR",
	"CONTROLLER_SECONDS_PER_HOUR",
	"CONTROLLER_CAPACITY",
	"CONTROLLER_PIPE",
	"CONTROLLER_REPORT_FORMAT",
	"CONTROLLER_METRICS_ADDR",
	"CONTROLLER_PUSH_URL",
	"CONTROLLER_WAIT",
	"LOG_LEVEL",
	"LOG_FORMAT",
}

// clearEnv unsets every variable the loader reads, restoring them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFlags(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load([]string{"-i", "7", "-f", "19", "-s", "2", "-t", "50", "-p", "/tmp/controller"})
	require.NoError(t, err)

	assert.Equal(t, &config.Config{
		MinHour:        7,
		MaxHour:        19,
		SecondsPerHour: 2,
		Capacity:       50,
		Pipe:           "/tmp/controller",
		ReportFormat:   "text",
		LogLevel:       "info",
		LogFormat:      "text",
	}, cfg)
	assert.Equal(t, 2*time.Second, cfg.HourPeriod())
}

func TestLoadLongFlags(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load([]string{
		"--min-hour=8", "--max-hour=12", "--seconds-per-hour=1", "--capacity=5",
		"--pipe=/tmp/p", "--report-format=json", "--metrics-addr=:9090", "--wait",
		"--log-level=debug", "--log-format=json",
	})
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.ReportFormat)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.True(t, cfg.Wait)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONTROLLER_MIN_HOUR", "7")
	t.Setenv("CONTROLLER_MAX_HOUR", "19")
	t.Setenv("CONTROLLER_SECONDS_PER_HOUR", "5")
	t.Setenv("CONTROLLER_CAPACITY", "10")
	t.Setenv("CONTROLLER_PIPE", "/tmp/from-env")

	file := writeFile(t, "controller.yaml", `
max_hour: 15
capacity: 30
report_format: csv
`)

	cfg, err := config.Load([]string{"--config", file, "-t", "40"})
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.MinHour, "from env")
	assert.Equal(t, 15, cfg.MaxHour, "file overrides env")
	assert.Equal(t, 5, cfg.SecondsPerHour)
	assert.Equal(t, 40, cfg.Capacity, "flag overrides file")
	assert.Equal(t, "/tmp/from-env", cfg.Pipe)
	assert.Equal(t, "csv", cfg.ReportFormat)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	envFile := writeFile(t, ".env", `CONTROLLER_MIN_HOUR=9
CONTROLLER_MAX_HOUR=17
CONTROLLER_SECONDS_PER_HOUR=1
CONTROLLER_CAPACITY=12
CONTROLLER_PIPE=/tmp/dotenv
CONTROLLER_WAIT=true
`)

	cfg, err := config.Load([]string{"--env-file", envFile})
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.MinHour)
	assert.Equal(t, 17, cfg.MaxHour)
	assert.Equal(t, 12, cfg.Capacity)
	assert.Equal(t, "/tmp/dotenv", cfg.Pipe)
	assert.True(t, cfg.Wait)
}

func TestLoadErrors(t *testing.T) {
	base := []string{"-p", "/tmp/p"}

	tests := map[string]struct {
		args          []string
		env           map[string]string
		expectedError error
	}{
		"MissingEverything": {
			args:          nil,
			expectedError: customerrors.ErrMissingOption,
		},
		"MissingCapacity": {
			args:          append([]string{"-i", "7", "-f", "19", "-s", "1"}, base...),
			expectedError: customerrors.ErrMissingOption,
		},
		"MissingPipe": {
			args:          []string{"-i", "7", "-f", "19", "-s", "1", "-t", "5"},
			expectedError: customerrors.ErrMissingOption,
		},
		"MinNotBelowMax": {
			args:          append([]string{"-i", "10", "-f", "10", "-s", "1", "-t", "5"}, base...),
			expectedError: customerrors.ErrInvalidConfig,
		},
		"MaxPastMidnight": {
			args:          append([]string{"-i", "10", "-f", "25", "-s", "1", "-t", "5"}, base...),
			expectedError: customerrors.ErrInvalidConfig,
		},
		"ZeroSecondsPerHour": {
			args:          append([]string{"-i", "7", "-f", "19", "-s", "0", "-t", "5"}, base...),
			expectedError: customerrors.ErrInvalidConfig,
		},
		"NegativeCapacity": {
			args:          append([]string{"-i", "7", "-f", "19", "-s", "1", "-t", "-1"}, base...),
			expectedError: customerrors.ErrInvalidConfig,
		},
		"BadReportFormat": {
			args:          append([]string{"-i", "7", "-f", "19", "-s", "1", "-t", "5", "--report-format", "xml"}, base...),
			expectedError: customerrors.ErrInvalidConfig,
		},
		"BadEnvInteger": {
			args:          append([]string{"-f", "19", "-s", "1", "-t", "5"}, base...),
			env:           map[string]string{"CONTROLLER_MIN_HOUR": "siete"},
			expectedError: customerrors.ErrInvalidConfig,
		},
		"UnexpectedArgument": {
			args:          append([]string{"-i", "7", "-f", "19", "-s", "1", "-t", "5", "extra"}, base...),
			expectedError: customerrors.ErrInvalidConfig,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := config.Load(tc.args)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.expectedError), "expected %v, got %v", tc.expectedError, err)
		})
	}
}

func TestLoadHelp(t *testing.T) {
	clearEnv(t)
	_, err := config.Load([]string{"--help"})
	assert.True(t, errors.Is(err, pflag.ErrHelp))
	assert.Contains(t, config.Usage(), "--seconds-per-hour")
}

func TestLoadMissingConfigFile(t *testing.T) {
	clearEnv(t)
	_, err := config.Load([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}
