package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-diagnosis/internal/domain"
	"quiz-diagnosis/internal/dto"
)

func decodeDiagnose(t *testing.T, body string) *dto.DiagnoseRequest {
	t.Helper()
	var req dto.DiagnoseRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return &req
}

func TestValidateDiagnoseRequest(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name       string
		body       string
		wantFields []string
	}{
		{
			name: "valid",
			body: `{"segment":"empresa","strengths":["a"],"weaknesses":[]}`,
		},
		{
			name:       "unknown segment",
			body:       `{"segment":"Governo","strengths":[],"weaknesses":[]}`,
			wantFields: []string{"segment"},
		},
		{
			name:       "missing segment",
			body:       `{"strengths":[],"weaknesses":[]}`,
			wantFields: []string{"segment"},
		},
		{
			name:       "non-string item",
			body:       `{"segment":"Pessoa","strengths":["a",1],"weaknesses":[]}`,
			wantFields: []string{"strengths"},
		},
		{
			name:       "not a list",
			body:       `{"segment":"Pessoa","strengths":[],"weaknesses":"b"}`,
			wantFields: []string{"weaknesses"},
		},
		{
			name:       "missing lists",
			body:       `{"segment":"Escola"}`,
			wantFields: []string{"strengths", "weaknesses"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, errs := v.ValidateDiagnoseRequest(decodeDiagnose(t, tt.body))

			var fields []string
			for _, e := range errs {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
			if len(tt.wantFields) == 0 {
				assert.Equal(t, domain.SegmentCompany, input.Segment)
				assert.Equal(t, []string{"a"}, input.Strengths)
				assert.Equal(t, []string{}, input.Weaknesses)
			}
		})
	}
}

func TestValidateDiagnosisRequest(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateDiagnosisRequest(&dto.DiagnosisRequest{Answers: []bool{true, false}}, 2))

	errs := v.ValidateDiagnosisRequest(&dto.DiagnosisRequest{Answers: []bool{true}}, 2)
	require.Len(t, errs, 1)
	assert.Equal(t, "answers", errs[0].Field)

	errs = v.ValidateDiagnosisRequest(&dto.DiagnosisRequest{}, 2)
	require.Len(t, errs, 1)
	assert.Equal(t, "field is required", errs[0].Message)
}

func TestValidateLeadRequest(t *testing.T) {
	v := NewValidator()

	lead, errs := v.ValidateLeadRequest(&dto.LeadRequest{
		Name:    "  Ana ",
		Email:   "ana@example.com",
		Segment: "escola",
	})
	assert.Empty(t, errs)
	assert.Equal(t, "Ana", lead.Name)
	assert.Equal(t, domain.SegmentSchool, lead.Segment)

	_, errs = v.ValidateLeadRequest(&dto.LeadRequest{Email: "sem-arroba", Segment: "x"})
	assert.Len(t, errs, 3)
}
