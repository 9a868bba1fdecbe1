package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		ServiceName:    "backoffice-test",
		ServiceVersion: "1.0.0",
		Environment:    "test",
		SampleRate:     1.0,
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"valid", func(c *Config) {}, nil},
		{"missing service name", func(c *Config) { c.ServiceName = "" }, ErrMissingServiceName},
		{"missing version", func(c *Config) { c.ServiceVersion = "" }, ErrMissingServiceVersion},
		{"sample rate above one", func(c *Config) { c.SampleRate = 1.5 }, ErrInvalidSampleRate},
		{"negative sample rate", func(c *Config) { c.SampleRate = -0.1 }, ErrInvalidSampleRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestInitializeWithoutEndpointUsesDroppingExporters(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.EnableTracing = true
	cfg.EnableMetrics = true

	tel, err := Initialize(ctx, cfg)
	require.NoError(t, err)

	assert.NotNil(t, tel.TracerProvider())
	assert.NotNil(t, tel.MeterProvider())

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	assert.NoError(t, tel.Shutdown(shutdownCtx))
}

func TestInitializeDisabled(t *testing.T) {
	tel, err := Initialize(context.Background(), testConfig())
	require.NoError(t, err)

	assert.Nil(t, tel.TracerProvider())
	assert.Nil(t, tel.MeterProvider())
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestInitializeRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.ServiceName = ""

	_, err := Initialize(context.Background(), cfg)
	assert.True(t, errors.Is(err, ErrMissingServiceName))
}

func TestCreateSampler(t *testing.T) {
	assert.Contains(t, createSampler(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, createSampler(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, createSampler(0.25).Description(), "TraceIDRatioBased")
}
