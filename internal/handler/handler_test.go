package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"quiz-diagnosis/internal/adapter"
	"quiz-diagnosis/internal/config"
	"quiz-diagnosis/internal/domain"
	"quiz-diagnosis/internal/middleware"
	"quiz-diagnosis/internal/service"
)

// --- Manual Mocks ---

type MockDiagnosisService struct {
	QuestionsFunc func(segment domain.Segment) ([]string, error)
	AssessFunc    func(ctx context.Context, req service.DiagnosisRequest) (*domain.Assessment, error)
}

func (m *MockDiagnosisService) Questions(segment domain.Segment) ([]string, error) {
	if m.QuestionsFunc != nil {
		return m.QuestionsFunc(segment)
	}
	panic("MockDiagnosisService.QuestionsFunc not implemented")
}
func (m *MockDiagnosisService) Assess(ctx context.Context, req service.DiagnosisRequest) (*domain.Assessment, error) {
	if m.AssessFunc != nil {
		return m.AssessFunc(ctx, req)
	}
	panic("MockDiagnosisService.AssessFunc not implemented")
}
func (m *MockDiagnosisService) Assemble(ctx context.Context, segment domain.Segment, scoring domain.ScoringOutcome, ai domain.AIConfig) domain.Assessment {
	panic("MockDiagnosisService.Assemble not implemented")
}

type MockNarrativeService struct {
	GenerateFunc func(ctx context.Context, req service.NarrativeRequest) (*domain.Narrative, error)
}

func (m *MockNarrativeService) Generate(ctx context.Context, req service.NarrativeRequest) (*domain.Narrative, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	panic("MockNarrativeService.GenerateFunc not implemented")
}

type MockLeadService struct {
	SubmitFunc func(ctx context.Context, lead domain.Lead) (*service.LeadReceipt, error)
}

func (m *MockLeadService) Submit(ctx context.Context, lead domain.Lead) (*service.LeadReceipt, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, lead)
	}
	panic("MockLeadService.SubmitFunc not implemented")
}

type MockCache struct {
	PingFunc func(ctx context.Context) error
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	return "", domain.ErrCacheMiss
}
func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return nil
}
func (m *MockCache) Delete(ctx context.Context, key string) error { return nil }
func (m *MockCache) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

// --- Helpers ---

var serverAI = config.AIConfig{
	Enabled:  true,
	Provider: "openrouter",
	Model:    "server-model",
	APIKey:   "server-key",
}

var noResults = service.NewResultStore(nil, 0)

func newResults() service.ResultStore {
	return service.NewResultStore(adapter.NewLRUCacheAdapter(8, time.Hour), time.Hour)
}

func newApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(http.MethodPost, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func fiveQuestions(segment domain.Segment) ([]string, error) {
	if segment != domain.SegmentCompany {
		return nil, domain.NewError(domain.CodeNotFound, "no questions", nil)
	}
	return []string{"q1", "q2", "q3", "q4", "q5"}, nil
}
