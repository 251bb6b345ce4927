package validation

import (
	"strings"

	"quiz-diagnosis/internal/domain"
	"quiz-diagnosis/internal/dto"
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// DiagnoseInput is a DiagnoseRequest that passed validation.
type DiagnoseInput struct {
	Segment    domain.Segment
	Strengths  []string
	Weaknesses []string
}

// ValidateDiagnoseRequest checks the segment and the two answer lists.
// Model and credential are checked after configuration fallbacks apply.
func (v *Validator) ValidateDiagnoseRequest(req *dto.DiagnoseRequest) (DiagnoseInput, domain.ValidationErrors) {
	var errors domain.ValidationErrors
	var input DiagnoseInput

	segment, segErrs := v.ValidateSegment(req.Segment)
	errors = append(errors, segErrs...)
	input.Segment = segment

	var err *domain.ValidationError
	if input.Strengths, err = stringList("strengths", req.Strengths); err != nil {
		errors = append(errors, *err)
	}
	if input.Weaknesses, err = stringList("weaknesses", req.Weaknesses); err != nil {
		errors = append(errors, *err)
	}

	return input, errors
}

// ValidateSegment parses a segment name from a request.
func (v *Validator) ValidateSegment(raw string) (domain.Segment, domain.ValidationErrors) {
	if strings.TrimSpace(raw) == "" {
		return "", domain.ValidationErrors{domain.NewMissingFieldError("segment")}
	}
	segment, err := domain.ParseSegment(raw)
	if err != nil {
		return "", domain.ValidationErrors{domain.NewInvalidFormatError("segment", "must be one of Pessoa, Empresa, Escola")}
	}
	return segment, nil
}

// ValidateDiagnosisRequest checks a full quiz session against the number of
// questions configured for its segment.
func (v *Validator) ValidateDiagnosisRequest(req *dto.DiagnosisRequest, questionCount int) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if req.Answers == nil {
		errors = append(errors, domain.NewMissingFieldError("answers"))
	} else if len(req.Answers) != questionCount {
		errors = append(errors, domain.NewInvalidFormatError("answers",
			"must contain one answer per question of the segment"))
	}

	return errors
}

// ValidateLeadRequest converts and checks the lead form.
func (v *Validator) ValidateLeadRequest(req *dto.LeadRequest) (domain.Lead, domain.ValidationErrors) {
	segment, _ := domain.ParseSegment(req.Segment)
	lead := domain.Lead{
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Company:   strings.TrimSpace(req.Company),
		Segment:   segment,
		Diagnosis: req.Diagnosis,
	}
	return lead, lead.Validate()
}

// stringList accepts a JSON array of strings. Anything else, including a
// missing field, is a client error.
func stringList(field string, raw interface{}) ([]string, *domain.ValidationError) {
	if raw == nil {
		err := domain.NewMissingFieldError(field)
		return nil, &err
	}
	items, ok := raw.([]interface{})
	if !ok {
		err := domain.NewInvalidFormatError(field, "must be a list of strings")
		return nil, &err
	}
	list := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			err := domain.NewInvalidFormatError(field, "must be a list of strings")
			return nil, &err
		}
		list = append(list, s)
	}
	return list, nil
}
