package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-diagnosis/internal/domain"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearSecrets(t *testing.T) {
	t.Helper()
	for _, env := range fallbackSecretEnv {
		t.Setenv(env, "")
	}
	t.Setenv("AI_API_KEY", "")
}

func TestLoadFile_Defaults(t *testing.T) {
	clearSecrets(t)
	cfg, err := LoadFile(writeFile(t, "questions:\n  pessoa: [\"q1\"]\n"))
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Server.Port)
	assert.False(t, cfg.AI.Enabled)
	assert.Equal(t, "openrouter", cfg.AI.Provider)
	assert.Equal(t, 15*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 2, cfg.AI.MaxAttempts)
	assert.Equal(t, 300*time.Millisecond, cfg.AI.RetryBaseDelay)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 2*time.Hour, cfg.Cache.ResultTTL)
	assert.Equal(t, "Nenhum", cfg.Prompt.EmptyMarker)
	assert.Equal(t, "stdout", cfg.Logger.Output)
	assert.Equal(t, []string{"q1"}, cfg.Questions[domain.SegmentPerson])
}

func TestLoadFile_Values(t *testing.T) {
	clearSecrets(t)
	cfg, err := LoadFile(writeFile(t, `
ai:
  enabled: true
  provider: Gemini
  model: " gemini-2.5-flash "
  max_attempts: 0
questions:
  Empresa: ["a", "b"]
  escola: ["c"]
diagnosis_copy:
  low: "baixa"
integrations:
  whatsapp_number: "+55 11 99999-9999"
`))
	require.NoError(t, err)

	assert.True(t, cfg.AI.Enabled)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.Model)
	assert.Equal(t, 1, cfg.AI.MaxAttempts)
	assert.Equal(t, []string{"a", "b"}, cfg.Questions[domain.SegmentCompany])
	assert.Equal(t, []string{"c"}, cfg.Questions[domain.SegmentSchool])
	assert.Equal(t, "baixa", cfg.DiagnosisCopy.Low)
	assert.Equal(t, "+55 11 99999-9999", cfg.Integrations.WhatsAppNumber)
}

func TestLoadFile_InvalidSegmentKey(t *testing.T) {
	clearSecrets(t)
	_, err := LoadFile(writeFile(t, "questions:\n  governo: [\"q\"]\n"))
	assert.ErrorContains(t, err, "invalid questions key")
}

func TestLoadFile_FallbackSecrets(t *testing.T) {
	clearSecrets(t)
	t.Setenv("OPENROUTER_API_KEY", "or-key")
	t.Setenv("GEMINI_API_KEY", "gm-key")

	cfg, err := LoadFile(writeFile(t, "ai:\n  model: m\n"))
	require.NoError(t, err)
	assert.Equal(t, "or-key", cfg.AI.APIKey)
	assert.Equal(t, "gm-key", cfg.AI.ProviderKeys["gemini"])
}

func TestLoadFile_EnvOverridesFile(t *testing.T) {
	clearSecrets(t)
	t.Setenv("AI_MODEL", "env-model")
	t.Setenv("AI_API_KEY", "env-key")

	cfg, err := LoadFile(writeFile(t, "ai:\n  model: file-model\n"))
	require.NoError(t, err)
	assert.Equal(t, "env-model", cfg.AI.Model)
	assert.Equal(t, "env-key", cfg.AI.APIKey)
}

func TestAIConfig_Resolve(t *testing.T) {
	base := AIConfig{
		Enabled:      true,
		Provider:     "openrouter",
		Model:        "server-model",
		APIKey:       "server-key",
		ProviderKeys: map[string]string{"openrouter": "server-key", "anthropic": "anthropic-key"},
	}
	disabled := false

	tests := []struct {
		name     string
		override AIOverride
		want     domain.AIConfig
	}{
		{
			name:     "no override",
			override: AIOverride{},
			want:     domain.AIConfig{Enabled: true, Provider: "openrouter", Model: "server-model", Credential: "server-key"},
		},
		{
			name:     "request model and key win",
			override: AIOverride{Model: " req-model ", APIKey: "req-key"},
			want:     domain.AIConfig{Enabled: true, Provider: "openrouter", Model: "req-model", Credential: "req-key"},
		},
		{
			name:     "provider switch uses that provider's secret",
			override: AIOverride{Provider: "Anthropic"},
			want:     domain.AIConfig{Enabled: true, Provider: "anthropic", Model: "server-model", Credential: "anthropic-key"},
		},
		{
			name:     "provider switch without a secret leaves the key empty",
			override: AIOverride{Provider: "openai"},
			want:     domain.AIConfig{Enabled: true, Provider: "openai", Model: "server-model"},
		},
		{
			name:     "disabled per request",
			override: AIOverride{Enabled: &disabled},
			want:     domain.AIConfig{Enabled: false, Provider: "openrouter", Model: "server-model", Credential: "server-key"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Resolve(tt.override))
		})
	}
}

func TestAIConfig_RetryPolicy(t *testing.T) {
	policy := AIConfig{MaxAttempts: 3, RetryBaseDelay: time.Second}.RetryPolicy()
	assert.Equal(t, domain.RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second}, policy)
}
