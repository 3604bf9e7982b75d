package test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	logpkg "github.com/youthfc/team-manager-service/internal/logger"
)

func TestLoggerNew(t *testing.T) {
	tests := []struct {
		name           string
		config         *logpkg.LoggerConfig
		expectError    bool
		validateOutput func(zerolog.Logger) bool
	}{
		{
			name: "valid production environment",
			config: &logpkg.LoggerConfig{
				ServiceName:    "test-service",
				ServiceVersion: "1.0.0",
				Env:            "prod",
				Level:          "info",
				TimeField:      "timestamp",
				TimeFormat:     "unix",
			},
			expectError: false,
			validateOutput: func(logger zerolog.Logger) bool {
				return zerolog.GlobalLevel() == zerolog.InfoLevel
			},
		},
		{
			name: "invalid configuration - wrong env",
			config: &logpkg.LoggerConfig{
				ServiceName: "bad-service",
				Env:         "wrong-env",
				Level:       "debug",
			},
			expectError: true,
		},
		{
			name: "invalid log level",
			config: &logpkg.LoggerConfig{
				Env:   "prod",
				Level: "loud",
			},
			expectError: true,
		},
		{
			name: "valid development console logger",
			config: &logpkg.LoggerConfig{
				Env:   "dev",
				Level: "debug",
			},
			expectError: false,
			validateOutput: func(logger zerolog.Logger) bool {
				return zerolog.GlobalLevel() == zerolog.DebugLevel
			},
		},
		{
			name: "valid staging with extra fields",
			config: &logpkg.LoggerConfig{
				Env:    "staging",
				Level:  "warn",
				Fields: map[string]interface{}{"squad": "u16"},
			},
			expectError: false,
			validateOutput: func(logger zerolog.Logger) bool {
				return zerolog.GlobalLevel() == zerolog.WarnLevel
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			l, err := logpkg.New(test.config)
			if test.expectError {
				assert.NotNil(t, err)
			} else {
				assert.NoError(t, err)
				if test.validateOutput != nil {
					assert.True(t, test.validateOutput(l))
				}
			}
		})
	}
}

func TestLoggerDefaults(t *testing.T) {
	cfg := &logpkg.LoggerConfig{}
	_, err := logpkg.New(cfg)
	assert.NoError(t, err)
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "team-manager-service", cfg.ServiceName)
}
