package app

import (
	"go.uber.org/zap"

	"quiz-diagnosis/internal/adapter"
	"quiz-diagnosis/internal/adapter/provider"
	"quiz-diagnosis/internal/adapter/webhook"
	"quiz-diagnosis/internal/cache"
	"quiz-diagnosis/internal/config"
	"quiz-diagnosis/internal/domain"
	"quiz-diagnosis/internal/logger"
	"quiz-diagnosis/internal/service"
)

const appTitle = "Diagnóstico de Diversidade e Inclusão"

// Services is the wired diagnosis pipeline shared by the HTTP server and
// the CLI.
type Services struct {
	// Cache holds narratives. ResultCache holds stored diagnoses; it is the
	// same Redis backend or a separate in-process LRU with cache.result_ttl.
	Cache       domain.Cache
	ResultCache domain.Cache

	Narratives service.NarrativeService
	Diagnoses  service.DiagnosisService
	Leads      service.LeadService
	Results    service.ResultStore

	closers []func() error
}

// Close releases the connections opened by NewServices.
func (s *Services) Close() {
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			logger.Get().Warn("Failed to close resource", zap.Error(err))
		}
	}
}

// NewServices builds every service from cfg. A cache backend that cannot be
// reached degrades to the in-process cache.
func NewServices(cfg *config.Config) *Services {
	s := &Services{}
	s.Cache, s.ResultCache = s.newCaches(cfg)

	registry := provider.NewRegistry(cfg.AI.Provider, provider.Options{
		BaseURL:     cfg.AI.BaseURL,
		Timeout:     cfg.AI.Timeout,
		Temperature: cfg.AI.Temperature,
		Title:       appTitle,
	})

	s.Narratives = service.NewNarrativeService(
		registry,
		domain.PromptBuilder{EmptyMarker: cfg.Prompt.EmptyMarker},
		service.NewRetrier(cfg.AI.RetryPolicy(), nil),
		s.Cache,
		cfg.Cache.TTL,
	)
	s.Diagnoses = service.NewDiagnosisService(cfg.Questions, cfg.DiagnosisCopy, s.Narratives)

	var sender domain.LeadSender
	if forwarder := webhook.NewLeadForwarder(cfg.Integrations.WebhookURL, cfg.Integrations.WebhookTimeout); forwarder != nil {
		sender = forwarder
	}
	s.Leads = service.NewLeadService(sender, cfg.Integrations.WhatsAppNumber)
	s.Results = service.NewResultStore(s.ResultCache, cfg.Cache.ResultTTL)

	return s
}

// newCaches returns the narrative cache and the result cache. Redis honours
// the per-entry expiration, so both share it; the in-process LRU expires
// with one TTL per instance, so each gets its own.
func (s *Services) newCaches(cfg *config.Config) (domain.Cache, domain.Cache) {
	l := logger.Get()
	switch cfg.Cache.Backend {
	case "none":
		l.Info("Narrative cache disabled")
		return nil, nil
	case "redis":
		client, err := cache.NewRedisClient(cfg.Redis)
		if err == nil {
			s.closers = append(s.closers, client.Close)
			l.Info("Narrative cache backed by Redis", zap.String("address", cfg.Redis.Address))
			shared := adapter.NewRedisCacheAdapter(client)
			return shared, shared
		}
		l.Warn("Redis unavailable, falling back to in-process cache", zap.Error(err))
	case "memory", "":
	default:
		l.Warn("Unknown cache backend, using in-process cache", zap.String("backend", cfg.Cache.Backend))
	}
	l.Info("Narrative cache kept in process",
		zap.Int("size", cfg.Cache.Size),
		zap.Duration("ttl", cfg.Cache.TTL),
		zap.Duration("result_ttl", cfg.Cache.ResultTTL))
	return adapter.NewLRUCacheAdapter(cfg.Cache.Size, cfg.Cache.TTL),
		adapter.NewLRUCacheAdapter(cfg.Cache.Size, cfg.Cache.ResultTTL)
}
