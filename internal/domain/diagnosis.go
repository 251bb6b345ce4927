package domain

import "strings"

// Source tags where a diagnosis narrative came from.
type Source string

const (
	SourceAI      Source = "AI"
	SourceDefault Source = "Padrão"
)

// DiagnosisResult is the value handed to every consumer of a finished quiz
// session. It is never modified after assembly.
type DiagnosisResult struct {
	UrgencyLevel       string   `json:"urgencyLevel"`
	UrgencyDescription string   `json:"urgencyDescription"`
	Conclusion         string   `json:"conclusion"`
	Strengths          []string `json:"strengths"`
	Weaknesses         []string `json:"weaknesses"`
	Source             Source   `json:"source"`
}

// DiagnosisCopy is the operator-supplied static narrative used when the AI
// path is skipped or fails.
type DiagnosisCopy struct {
	Low               string
	Medium            string
	High              string
	ConclusionDefault string
}

// DefaultDiagnosisCopy fills any blank field of a configured copy.
var DefaultDiagnosisCopy = DiagnosisCopy{
	Low:               "Sua organização demonstra boas práticas de diversidade e inclusão. Continue evoluindo para consolidar essa cultura.",
	Medium:            "Existem pontos de atenção importantes que podem afetar o engajamento e a reputação. É hora de agir.",
	High:              "Há fragilidades relevantes que expõem pessoas e organização a riscos sérios. Uma ação estruturada é urgente.",
	ConclusionDefault: "Um especialista da Ubuntu pode ajudar a transformar este diagnóstico em um plano de ação concreto. Entre em contato.",
}

// WithDefaults returns c with blank fields taken from DefaultDiagnosisCopy.
func (c DiagnosisCopy) WithDefaults() DiagnosisCopy {
	pick := func(v, d string) string {
		if v == "" {
			return d
		}
		return v
	}
	return DiagnosisCopy{
		Low:               pick(c.Low, DefaultDiagnosisCopy.Low),
		Medium:            pick(c.Medium, DefaultDiagnosisCopy.Medium),
		High:              pick(c.High, DefaultDiagnosisCopy.High),
		ConclusionDefault: pick(c.ConclusionDefault, DefaultDiagnosisCopy.ConclusionDefault),
	}
}

// Description returns the copy for a tier.
func (c DiagnosisCopy) Description(tier UrgencyTier) string {
	switch tier {
	case UrgencyHigh:
		return c.High
	case UrgencyModerate:
		return c.Medium
	default:
		return c.Low
	}
}

// FallbackNarrative builds the static narrative for a tier.
func (c DiagnosisCopy) FallbackNarrative(tier UrgencyTier) Narrative {
	filled := c.WithDefaults()
	return Narrative{
		UrgencyLevel:       tier.Label(),
		UrgencyDescription: filled.Description(tier),
		Conclusion:         filled.ConclusionDefault,
	}
}

// NewDiagnosisResult merges a narrative with the scoring partition.
func NewDiagnosisResult(scoring ScoringOutcome, narrative Narrative, source Source) DiagnosisResult {
	return DiagnosisResult{
		UrgencyLevel:       narrative.UrgencyLevel,
		UrgencyDescription: narrative.UrgencyDescription,
		Conclusion:         narrative.Conclusion,
		Strengths:          append([]string(nil), scoring.Strengths...),
		Weaknesses:         append([]string(nil), scoring.Weaknesses...),
		Source:             source,
	}
}

// AIConfig is the already-resolved provider configuration for one request.
type AIConfig struct {
	Enabled    bool
	Provider   string
	Model      string
	Credential string
}

// Usable reports whether the AI path should be attempted at all.
func (c AIConfig) Usable() bool {
	return c.Enabled && strings.TrimSpace(c.Model) != "" && strings.TrimSpace(c.Credential) != ""
}

// PipelineState is a step of the per-session diagnosis state machine.
type PipelineState string

const (
	StateNotStarted PipelineState = "not_started"
	StateScoring    PipelineState = "scoring"
	StateAIAttempt  PipelineState = "ai_attempt"
	StateAISuccess  PipelineState = "ai_success"
	StateAIFailure  PipelineState = "ai_failure"
	StateFallback   PipelineState = "fallback"
	StateAssembled  PipelineState = "assembled"
)

var pipelineTransitions = map[PipelineState][]PipelineState{
	StateNotStarted: {StateScoring},
	StateScoring:    {StateAIAttempt, StateFallback},
	StateAIAttempt:  {StateAISuccess, StateAIFailure},
	StateAISuccess:  {StateAssembled},
	StateAIFailure:  {StateFallback},
	StateFallback:   {StateAssembled},
}

// CanTransition reports whether next may follow s.
func (s PipelineState) CanTransition(next PipelineState) bool {
	for _, allowed := range pipelineTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Assessment is the assembler's full output: the result, the non-fatal AI
// failure if one occurred, and the states the session went through.
type Assessment struct {
	Result DiagnosisResult
	Notice *AIError
	Trace  []PipelineState
}
