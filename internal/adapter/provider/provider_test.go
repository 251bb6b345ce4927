package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-diagnosis/internal/domain"
)

func TestNew_KnownProviders(t *testing.T) {
	for _, name := range Names {
		p, err := New(name, Options{})
		require.NoError(t, err, name)
		assert.Equal(t, name, p.Name())
	}

	p, err := New("  OpenRouter ", Options{})
	require.NoError(t, err)
	assert.Equal(t, NameOpenRouter, p.Name())
}

func TestNew_UnknownProviderIsConfigurationError(t *testing.T) {
	_, err := New("mistral", Options{})
	require.Error(t, err)
	aiErr := domain.AsAIError(err)
	assert.Equal(t, domain.AIErrorConfiguration, aiErr.Kind)
	assert.Equal(t, domain.MsgUnknownProvider, aiErr.Message)
}

type stubProvider struct{ name string }

func (s stubProvider) Name() string { return s.name }
func (s stubProvider) Generate(ctx context.Context, req domain.ProviderRequest) (string, error) {
	return "", errors.New("not used")
}

func TestRegistry_LookupAndRegister(t *testing.T) {
	r := NewRegistry(NameOpenRouter, Options{BaseURL: "http://localhost:9999/v1"})

	p, err := r.Lookup("GEMINI")
	require.NoError(t, err)
	assert.Equal(t, NameGemini, p.Name())

	primary, err := r.Lookup(NameOpenRouter)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999/v1/chat/completions", primary.(*OpenRouterProvider).endpoint)

	lc, err := r.Lookup(NameLangChain)
	require.NoError(t, err)
	assert.Equal(t, openRouterBaseURL, lc.(*LangChainProvider).baseURL)

	_, err = r.Lookup("unknown")
	assert.Equal(t, domain.AIErrorConfiguration, domain.AsAIError(err).Kind)

	r.Register(stubProvider{name: "Stub"})
	p, err = r.Lookup("stub")
	require.NoError(t, err)
	assert.Equal(t, "Stub", p.Name())
}

func TestClassifyCallError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := classifyCallError(ctx, "falha", errors.New("connection refused"))
	assert.Equal(t, domain.AIErrorRequest, err.Kind)
	assert.Equal(t, "falha", err.Message)

	err = classifyCallError(context.Background(), "falha", context.DeadlineExceeded)
	assert.Equal(t, domain.AIErrorTimeout, err.Kind)

	parsing := domain.NewAIError(domain.AIErrorParsing, "x", nil)
	assert.Same(t, parsing, classifyCallError(context.Background(), "falha", parsing))
}
