package cache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"quiz-diagnosis/internal/domain"
)

func TestGenerateCacheKey(t *testing.T) {
	tests := []struct {
		name        string
		serviceName string
		objectType  string
		identifier  string
		paramsKey   []string
		expectedKey string
	}{
		{
			name:        "without paramsKey",
			serviceName: "segment",
			objectType:  "questions",
			identifier:  "empresa",
			paramsKey:   nil,
			expectedKey: "diagnosis:segment:questions:empresa",
		},
		{
			name:        "with empty paramsKey",
			serviceName: "segment",
			objectType:  "questions",
			identifier:  "empresa",
			paramsKey:   []string{},
			expectedKey: "diagnosis:segment:questions:empresa",
		},
		{
			name:        "with one paramsKey",
			serviceName: "product",
			objectType:  "details",
			identifier:  "abc",
			paramsKey:   []string{"param1"},
			expectedKey: "diagnosis:product:details:abc:param1",
		},
		{
			name:        "with multiple paramsKey",
			serviceName: "order",
			objectType:  "item",
			identifier:  "xyz",
			paramsKey:   []string{"param1", "param2", "param3"},
			expectedKey: "diagnosis:order:item:xyz:param1_param2_param3",
		},
		{
			name:        "with paramsKey containing special characters",
			serviceName: "service",
			objectType:  "type",
			identifier:  "id",
			paramsKey:   []string{"param-1", "param_2"},
			expectedKey: "diagnosis:service:type:id:param-1_param_2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actualKey := GenerateCacheKey(tt.serviceName, tt.objectType, tt.identifier, tt.paramsKey...)
			if actualKey != tt.expectedKey {
				t.Errorf("GenerateCacheKey() = %v, want %v", actualKey, tt.expectedKey)
			}
		})
	}
}

func TestNarrativeKey(t *testing.T) {
	prompt := domain.BuildPrompt(domain.SegmentSchool, []string{"A"}, []string{"B"})

	key := NarrativeKey("OpenRouter", "model-a", prompt)
	assert.True(t, strings.HasPrefix(key, "diagnosis:narrative:openrouter:"))
	assert.Len(t, strings.TrimPrefix(key, "diagnosis:narrative:openrouter:"), 64)

	assert.Equal(t, key, NarrativeKey("openrouter", "model-a", prompt), "provider name is case-insensitive")
	assert.NotEqual(t, key, NarrativeKey("openrouter", "model-b", prompt))
	assert.NotEqual(t, key, NarrativeKey("gemini", "model-a", prompt))

	other := domain.BuildPrompt(domain.SegmentSchool, []string{"B"}, []string{"A"})
	assert.NotEqual(t, key, NarrativeKey("openrouter", "model-a", other))
}
