package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"quiz-diagnosis/internal/cache"
	"quiz-diagnosis/internal/domain"
	"quiz-diagnosis/internal/logger"
)

// ErrResultNotFound is returned when no diagnosis is stored under an id.
var ErrResultNotFound = domain.NewError(domain.CodeNotFound, "diagnóstico não encontrado ou expirado", nil)

// ErrResultStoreDisabled is returned by Put when no cache backs the store.
var ErrResultStoreDisabled = errors.New("result store disabled")

// ResultStore keeps assembled diagnoses for a while so later steps (lead
// capture, export) can refer to them by id instead of resending them.
type ResultStore interface {
	Put(ctx context.Context, id string, result domain.DiagnosisResult) error
	Get(ctx context.Context, id string) (*domain.DiagnosisResult, error)
}

type resultStore struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewResultStore falls back to a no-op store when cache is nil.
func NewResultStore(cache domain.Cache, ttl time.Duration) ResultStore {
	if cache == nil {
		logger.Get().Info("ResultStore initialized without cache. Diagnoses are not kept.")
		return noopResultStore{}
	}
	return &resultStore{cache: cache, ttl: ttl}
}

func resultKey(id string) string {
	return cache.GenerateCacheKey("session", "result", id)
}

func (s *resultStore) Put(ctx context.Context, id string, result domain.DiagnosisResult) error {
	if id == "" {
		return domain.NewInvalidInputError("cannot store a diagnosis without id")
	}

	key := resultKey(id)
	data, err := json.Marshal(result)
	if err != nil {
		return domain.NewInternalError("failed to marshal diagnosis for storage", err)
	}
	if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
		logger.Get().Error("Failed to store diagnosis", zap.Error(err), zap.String("key", key))
		return domain.NewInternalError(fmt.Sprintf("failed to store diagnosis under key %s", key), err)
	}
	logger.Get().Debug("Stored diagnosis", zap.String("key", key), zap.Duration("ttl", s.ttl))
	return nil
}

func (s *resultStore) Get(ctx context.Context, id string) (*domain.DiagnosisResult, error) {
	key := resultKey(id)
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, ErrResultNotFound
		}
		logger.Get().Error("Failed to read stored diagnosis", zap.Error(err), zap.String("key", key))
		return nil, domain.NewInternalError(fmt.Sprintf("failed to read diagnosis under key %s", key), err)
	}
	if data == "" {
		return nil, ErrResultNotFound
	}

	var result domain.DiagnosisResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, domain.NewInternalError(fmt.Sprintf("failed to unmarshal diagnosis under key %s", key), err)
	}
	return &result, nil
}

type noopResultStore struct{}

func (noopResultStore) Put(context.Context, string, domain.DiagnosisResult) error {
	return ErrResultStoreDisabled
}

func (noopResultStore) Get(context.Context, string) (*domain.DiagnosisResult, error) {
	return nil, ErrResultNotFound
}
