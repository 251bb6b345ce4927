package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"quiz-diagnosis/internal/cache"
	"quiz-diagnosis/internal/domain"
	"quiz-diagnosis/internal/logger"
)

// ProviderResolver picks the provider client for a configured name.
type ProviderResolver interface {
	Lookup(name string) (domain.NarrativeProvider, error)
}

// NarrativeRequest is one AI narrative generation.
type NarrativeRequest struct {
	Segment    domain.Segment
	Strengths  []string
	Weaknesses []string
	AI         domain.AIConfig
}

// NarrativeService produces a validated narrative through the provider.
type NarrativeService interface {
	Generate(ctx context.Context, req NarrativeRequest) (*domain.Narrative, error)
}

type narrativeService struct {
	providers ProviderResolver
	prompts   domain.PromptBuilder
	retrier   *Retrier
	cache     domain.Cache
	cacheTTL  time.Duration
	group     singleflight.Group
}

// NewNarrativeService wires the AI path. cache may be nil to disable
// narrative caching.
func NewNarrativeService(providers ProviderResolver, prompts domain.PromptBuilder, retrier *Retrier, cache domain.Cache, cacheTTL time.Duration) NarrativeService {
	if retrier == nil {
		retrier = NewRetrier(domain.DefaultRetryPolicy, nil)
	}
	if cache == nil {
		logger.Get().Info("NarrativeService initialized without cache. Every request reaches the provider.")
	}
	return &narrativeService{
		providers: providers,
		prompts:   prompts,
		retrier:   retrier,
		cache:     cache,
		cacheTTL:  cacheTTL,
	}
}

// Generate validates the resolved configuration, then runs prompt building,
// the provider call and response validation under the retry policy. All
// failures are *domain.AIError values.
func (s *narrativeService) Generate(ctx context.Context, req NarrativeRequest) (*domain.Narrative, error) {
	if strings.TrimSpace(req.AI.Credential) == "" {
		return nil, domain.NewAIError(domain.AIErrorConfiguration, domain.MsgMissingCredential, nil)
	}
	if strings.TrimSpace(req.AI.Model) == "" {
		return nil, domain.NewAIError(domain.AIErrorConfiguration, domain.MsgMissingModel, nil)
	}
	provider, err := s.providers.Lookup(req.AI.Provider)
	if err != nil {
		return nil, domain.AsAIError(err)
	}

	prompt := s.prompts.Build(req.Segment, req.Strengths, req.Weaknesses)
	key := cache.NarrativeKey(provider.Name(), req.AI.Model, prompt)

	if narrative, ok := s.lookupCache(ctx, key); ok {
		return narrative, nil
	}

	// Callers sharing a flight must also share the credential. The flight
	// outlives any single caller, so it runs without the caller's cancellation;
	// each provider attempt still has its own timeout.
	flightKey := key + ":" + fingerprint(req.AI.Credential)
	flightCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(flightKey, func() (interface{}, error) {
		return s.generate(flightCtx, provider, req.AI, prompt, key)
	})

	select {
	case <-ctx.Done():
		return nil, canceledError(ctx.Err())
	case res := <-ch:
		if res.Shared {
			logger.Get().Debug("Narrative generation shared with concurrent request", zap.String("key", key))
		}
		if res.Err != nil {
			return nil, res.Err
		}
		narrative := *res.Val.(*domain.Narrative)
		return &narrative, nil
	}
}

// canceledError reports a caller that stopped waiting for the narrative.
func canceledError(err error) *domain.AIError {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewAIError(domain.AIErrorTimeout, domain.MsgTimeout, err)
	}
	return domain.NewAIError(domain.AIErrorRequest, domain.MsgCanceled, err)
}

func (s *narrativeService) generate(ctx context.Context, provider domain.NarrativeProvider, ai domain.AIConfig, prompt domain.Prompt, key string) (*domain.Narrative, error) {
	l := logger.Get()
	var narrative *domain.Narrative

	err := s.retrier.Do(ctx, func(ctx context.Context, attempt int) error {
		start := time.Now()
		raw, err := provider.Generate(ctx, domain.ProviderRequest{
			Prompt:     prompt,
			Model:      ai.Model,
			Credential: ai.Credential,
		})
		if err == nil {
			l.Debug("Raw provider response received", zap.String("provider", provider.Name()), zap.String("raw_response", raw))
			narrative, err = domain.ParseNarrative(raw)
		}

		fields := []zap.Field{
			zap.String("provider", provider.Name()),
			zap.String("model", ai.Model),
			zap.Int("attempt", attempt),
			zap.Duration("duration", time.Since(start)),
		}
		if err != nil {
			aiErr := domain.AsAIError(err)
			l.Warn("AI attempt failed", append(fields, zap.String("kind", string(aiErr.Kind)), zap.Error(aiErr))...)
			return aiErr
		}
		l.Info("AI attempt succeeded", fields...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.storeCache(ctx, key, narrative)
	return narrative, nil
}

func (s *narrativeService) lookupCache(ctx context.Context, key string) (*domain.Narrative, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Narrative cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var narrative domain.Narrative
	if err := json.Unmarshal([]byte(raw), &narrative); err != nil {
		logger.Get().Warn("Discarding unreadable cached narrative", zap.String("key", key), zap.Error(err))
		_ = s.cache.Delete(ctx, key)
		return nil, false
	}
	logger.Get().Debug("Narrative cache hit", zap.String("key", key))
	return &narrative, true
}

func (s *narrativeService) storeCache(ctx context.Context, key string, narrative *domain.Narrative) {
	if s.cache == nil || narrative == nil {
		return
	}
	data, err := json.Marshal(narrative)
	if err != nil {
		logger.Get().Warn("Failed to marshal narrative for caching", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, string(data), s.cacheTTL); err != nil {
		logger.Get().Warn("Narrative cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func fingerprint(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:8])
}
