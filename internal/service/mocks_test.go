package service

import (
	"context"
	"errors"
	"time"

	"github.com/stretchr/testify/mock"

	"quiz-diagnosis/internal/domain"
)

// --- MockNarrativeProvider ---
type MockNarrativeProvider struct {
	mock.Mock
	name string
}

func NewMockNarrativeProvider(name string) *MockNarrativeProvider {
	return &MockNarrativeProvider{name: name}
}

func (m *MockNarrativeProvider) Name() string { return m.name }

func (m *MockNarrativeProvider) Generate(ctx context.Context, req domain.ProviderRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// --- stubResolver ---
type stubResolver struct {
	providers map[string]domain.NarrativeProvider
}

func resolverFor(providers ...domain.NarrativeProvider) *stubResolver {
	r := &stubResolver{providers: make(map[string]domain.NarrativeProvider)}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

func (r *stubResolver) Lookup(name string) (domain.NarrativeProvider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, domain.NewAIError(domain.AIErrorConfiguration, domain.MsgUnknownProvider, nil)
	}
	return p, nil
}

// --- ManualMockCache ---
type ManualMockCache struct {
	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key string, value string, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
	PingFunc   func(ctx context.Context) error
}

func (m *ManualMockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return "", errors.New("GetFunc not set")
}

func (m *ManualMockCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	return errors.New("SetFunc not set")
}

func (m *ManualMockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return errors.New("DeleteFunc not set")
}

func (m *ManualMockCache) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return errors.New("PingFunc not set")
}

// --- MockNarrativeService ---
type MockNarrativeService struct {
	mock.Mock
}

func (m *MockNarrativeService) Generate(ctx context.Context, req NarrativeRequest) (*domain.Narrative, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Narrative), args.Error(1)
}

// --- MockLeadSender ---
type MockLeadSender struct {
	mock.Mock
}

func (m *MockLeadSender) Send(ctx context.Context, payload domain.LeadPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}
