package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
	assert.Equal(t, "none", cfg.Token)
	assert.Equal(t, 8000, cfg.MaxInputChars)
	assert.Equal(t, 1000, cfg.SummaryMaxTokens)
	require.NoError(t, cfg.Validate())
}

func TestNewConfigAppliesOptions(t *testing.T) {
	cfg := NewConfig(
		WithHost("http://models.internal:9100"),
		WithModel("qwen2.5:7b"),
		WithToken("secret"),
		WithTimeout(30*time.Second),
		WithMaxInputChars(12000),
	)
	assert.Equal(t, "http://models.internal:9100", cfg.Host)
	assert.Equal(t, "qwen2.5:7b", cfg.Model)
	assert.Equal(t, "secret", cfg.Token)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 12000, cfg.MaxInputChars)
}

func TestNormalizeAddsV1Suffix(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{"bare host", "http://localhost:11434", "http://localhost:11434/v1"},
		{"trailing slash", "http://localhost:11434/", "http://localhost:11434/v1"},
		{"already normalized", "http://localhost:11434/v1", "http://localhost:11434/v1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(WithHost(tt.host))
			cfg.Normalize()
			assert.Equal(t, tt.want, cfg.Host)
		})
	}
}

func TestNormalizeDefaultsEmptyToken(t *testing.T) {
	cfg := NewConfig(WithToken(""))
	cfg.Normalize()
	assert.Equal(t, "none", cfg.Token)
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	assert.Error(t, NewConfig(WithHost("")).Validate())
	assert.Error(t, NewConfig(WithModel("")).Validate())
	assert.Error(t, NewConfig(WithMaxInputChars(100)).Validate())

	bad := DefaultConfig()
	bad.SummaryMaxTokens = 0
	assert.Error(t, bad.Validate())
}
