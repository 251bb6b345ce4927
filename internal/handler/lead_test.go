package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-diagnosis/internal/domain"
	"quiz-diagnosis/internal/dto"
	"quiz-diagnosis/internal/handler"
	"quiz-diagnosis/internal/middleware"
	"quiz-diagnosis/internal/service"
)

func TestLeadHandler_SubmitLead(t *testing.T) {
	leadBody := dto.LeadRequest{
		Name:    "Ana",
		Email:   "ana@example.com",
		Segment: "Empresa",
		Diagnosis: domain.DiagnosisResult{
			UrgencyLevel: "Moderada",
			Source:       domain.SourceAI,
		},
	}

	t.Run("Delivered", func(t *testing.T) {
		leads := &MockLeadService{
			SubmitFunc: func(ctx context.Context, lead domain.Lead) (*service.LeadReceipt, error) {
				assert.Equal(t, domain.SegmentCompany, lead.Segment)
				assert.Equal(t, "Moderada", lead.Diagnosis.UrgencyLevel)
				return &service.LeadReceipt{Delivered: true, WhatsAppLink: "https://wa.me/5511999999999?text=Ol%C3%A1"}, nil
			},
		}
		app := newApp()
		app.Post("/api/leads", handler.NewLeadHandler(leads, noResults).SubmitLead)

		resp := postJSON(t, app, "/api/leads", leadBody)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body dto.LeadResponse
		decode(t, resp, &body)
		assert.True(t, body.Delivered)
		assert.Contains(t, body.WhatsAppLink, "https://wa.me/5511999999999")
	})

	t.Run("Webhook failure", func(t *testing.T) {
		leads := &MockLeadService{
			SubmitFunc: func(ctx context.Context, lead domain.Lead) (*service.LeadReceipt, error) {
				return nil, domain.NewWebhookError(errors.New("status 500"))
			},
		}
		app := newApp()
		app.Post("/api/leads", handler.NewLeadHandler(leads, noResults).SubmitLead)

		resp := postJSON(t, app, "/api/leads", leadBody)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

		var body middleware.ErrorResponse
		decode(t, resp, &body)
		assert.Equal(t, string(domain.CodeWebhookError), body.Code)
	})

	t.Run("Invalid lead never reaches the service", func(t *testing.T) {
		app := newApp()
		app.Post("/api/leads", handler.NewLeadHandler(&MockLeadService{}, noResults).SubmitLead)

		resp := postJSON(t, app, "/api/leads", `{"name":"","email":"x","segment":"Empresa"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body middleware.ValidationErrorResponse
		decode(t, resp, &body)
		assert.Len(t, body.Errors, 2)
	})
}

func TestLeadHandler_StoredDiagnosis(t *testing.T) {
	results := newResults()
	stored := domain.DiagnosisResult{UrgencyLevel: "Alta", Source: domain.SourceAI}
	require.NoError(t, results.Put(context.Background(), "01HGZ8VNRYXS8QKNJV5GRWPWDQ", stored))

	leads := &MockLeadService{
		SubmitFunc: func(ctx context.Context, lead domain.Lead) (*service.LeadReceipt, error) {
			assert.Equal(t, stored, lead.Diagnosis)
			return &service.LeadReceipt{}, nil
		},
	}
	app := newApp()
	app.Post("/api/leads", handler.NewLeadHandler(leads, results).SubmitLead)

	resp := postJSON(t, app, "/api/leads", map[string]interface{}{
		"name":        "Ana",
		"email":       "ana@example.com",
		"segment":     "Pessoa",
		"diagnosisId": "01HGZ8VNRYXS8QKNJV5GRWPWDQ",
		"diagnosis":   map[string]string{"urgencyLevel": "Baixa"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, app, "/api/leads", map[string]interface{}{
		"name":        "Ana",
		"email":       "ana@example.com",
		"segment":     "Pessoa",
		"diagnosisId": "expired",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name  string
		cache domain.Cache
		want  string
	}{
		{"no cache", nil, "disabled"},
		{"cache up", &MockCache{}, "ok"},
		{"cache down", &MockCache{PingFunc: func(ctx context.Context) error { return errors.New("refused") }}, "unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp()
			app.Get("/health", handler.NewHealthHandler(tt.cache).Health)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			var body dto.HealthResponse
			decode(t, resp, &body)
			assert.Equal(t, "ok", body.Status)
			assert.Equal(t, tt.want, body.Cache)
		})
	}
}
