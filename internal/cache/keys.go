package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"quiz-diagnosis/internal/domain"
)

const (
	GlobalKeyPrefix = "diagnosis"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// NarrativeKey identifies a validated narrative by everything that shapes
// the provider output: provider, model and both prompt blocks.
func NarrativeKey(provider, model string, prompt domain.Prompt) string {
	h := sha256.New()
	for _, part := range []string{model, prompt.Instructions, prompt.Data} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return GenerateCacheKey("narrative", strings.ToLower(provider), hex.EncodeToString(h.Sum(nil)))
}
