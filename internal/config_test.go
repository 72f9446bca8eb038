package internal

import (
	"os"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	req := require.New(t)
	unsetEnv(t, "LOG_LEVEL", "STORE_BACKEND", "HISTORY_SIZE")

	config, err := LoadConfig()

	req.NoError(err)
	req.Equal(Config{LogLevel: "INFO", StoreBackend: "memory", HistorySize: 10}, config)
}

func TestLoadConfig_From_Environment(t *testing.T) {
	req := require.New(t)
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("STORE_BACKEND", "badger")
	t.Setenv("HISTORY_SIZE", "3")

	config, err := LoadConfig()

	req.NoError(err)
	req.Equal(Config{LogLevel: "DEBUG", StoreBackend: "badger", HistorySize: 3}, config)
}

func TestLoadConfig_Rejects_Invalid_Values(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		history string
	}{
		{name: "unknown backend", backend: "postgres", history: "10"},
		{name: "empty history", backend: "memory", history: "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			t.Setenv("LOG_LEVEL", "INFO")
			t.Setenv("STORE_BACKEND", tt.backend)
			t.Setenv("HISTORY_SIZE", tt.history)

			_, err := LoadConfig()

			req.Error(err)
			var validationErrors validator.ValidationErrors
			req.ErrorAs(err, &validationErrors)
		})
	}
}

func TestLoadConfig_Rejects_Malformed_Number(t *testing.T) {
	req := require.New(t)
	t.Setenv("HISTORY_SIZE", "ten")

	_, err := LoadConfig()

	req.ErrorContains(err, "config error")
}

// unsetEnv removes keys for the duration of the test, an empty value would not trigger defaults.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		if previous, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { _ = os.Setenv(key, previous) })
		}
		require.NoError(t, os.Unsetenv(key))
	}
}
