package dto

import "quiz-diagnosis/internal/domain"

// SegmentsResponse lists the selectable segments
type SegmentsResponse struct {
	Segments []domain.Segment `json:"segments"`
}

// QuestionsResponse is the question list of one segment
type QuestionsResponse struct {
	Segment   domain.Segment `json:"segment"`
	Questions []string       `json:"questions"`
}

// DiagnoseRequest asks for an AI narrative over an already scored session.
// @Description Request body for the AI narrative endpoint
//
// Strengths and Weaknesses stay untyped so that a non-string list is
// reported as a field error instead of a body parse failure.
type DiagnoseRequest struct {
	Segment    string      `json:"segment"`
	Strengths  interface{} `json:"strengths"`
	Weaknesses interface{} `json:"weaknesses"`
	Model      string      `json:"model"`
	APIKey     string      `json:"apiKey"`
	Provider   string      `json:"provider,omitempty"`
}

// NarrativeResponse is the validated AI narrative
type NarrativeResponse struct {
	UrgencyLevel       string `json:"urgencyLevel"`
	UrgencyDescription string `json:"urgencyDescription"`
	Conclusion         string `json:"conclusion"`
}

// AIOptions carries the admin AI settings sent along with a session.
// Omitted fields fall back to the server configuration.
type AIOptions struct {
	Enabled  *bool  `json:"enabled,omitempty"`
	Model    string `json:"model,omitempty"`
	APIKey   string `json:"apiKey,omitempty"`
	Provider string `json:"provider,omitempty"`
}

// DiagnosisRequest is a completed quiz session
// @Description Request body for the full diagnosis pipeline
type DiagnosisRequest struct {
	Segment string     `json:"segment"`
	Answers []bool     `json:"answers"`
	AI      *AIOptions `json:"ai,omitempty"`
}

// NoticeResponse explains why the AI narrative was not used
type NoticeResponse struct {
	Kind    domain.AIErrorKind `json:"kind"`
	Message string             `json:"message"`
}

// DiagnosisResponse is the assembled diagnosis
type DiagnosisResponse struct {
	// ID retrieves the result later; empty when it could not be stored.
	ID     string                 `json:"id,omitempty"`
	Result domain.DiagnosisResult `json:"result"`
	Notice *NoticeResponse        `json:"notice,omitempty"`
	Trace  []domain.PipelineState `json:"trace"`
}

// NewDiagnosisResponse converts an assessment into its API shape.
func NewDiagnosisResponse(a domain.Assessment) DiagnosisResponse {
	resp := DiagnosisResponse{Result: a.Result, Trace: a.Trace}
	if a.Notice != nil {
		resp.Notice = &NoticeResponse{Kind: a.Notice.Kind, Message: a.Notice.Message}
	}
	return resp
}
