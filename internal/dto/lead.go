package dto

import "quiz-diagnosis/internal/domain"

// LeadRequest is the contact form sent after the diagnosis screen.
// DiagnosisID, when set, replaces Diagnosis with the stored result.
type LeadRequest struct {
	Name        string                 `json:"name"`
	Email       string                 `json:"email"`
	Phone       string                 `json:"phone,omitempty"`
	Company     string                 `json:"company,omitempty"`
	Segment     string                 `json:"segment"`
	DiagnosisID string                 `json:"diagnosisId,omitempty"`
	Diagnosis   domain.DiagnosisResult `json:"diagnosis"`
}

// LeadResponse reports the lead delivery
type LeadResponse struct {
	Delivered    bool   `json:"delivered"`
	WhatsAppLink string `json:"whatsappLink,omitempty"`
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	Status string `json:"status"`
	Cache  string `json:"cache"`
}
