package service

import (
	"context"

	"go.uber.org/zap"

	"quiz-diagnosis/internal/domain"
	"quiz-diagnosis/internal/logger"
)

// DiagnosisRequest is one completed quiz session.
type DiagnosisRequest struct {
	Segment domain.Segment
	Answers map[int]bool
	AI      domain.AIConfig
}

// DiagnosisService scores a session and assembles its diagnosis.
type DiagnosisService interface {
	Questions(segment domain.Segment) ([]string, error)
	// Assess fails only on invalid input; every AI failure is reported
	// through Assessment.Notice.
	Assess(ctx context.Context, req DiagnosisRequest) (*domain.Assessment, error)
	Assemble(ctx context.Context, segment domain.Segment, scoring domain.ScoringOutcome, ai domain.AIConfig) domain.Assessment
}

type diagnosisService struct {
	questions  map[domain.Segment][]string
	fallback   domain.DiagnosisCopy
	narratives NarrativeService
}

func NewDiagnosisService(questions map[domain.Segment][]string, diagnosisCopy domain.DiagnosisCopy, narratives NarrativeService) DiagnosisService {
	return &diagnosisService{
		questions:  questions,
		fallback:   diagnosisCopy.WithDefaults(),
		narratives: narratives,
	}
}

func (s *diagnosisService) Questions(segment domain.Segment) ([]string, error) {
	if !segment.Valid() {
		return nil, domain.NewInvalidSegmentError(string(segment))
	}
	questions, err := domain.QuestionsFor(s.questions, segment)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), questions...), nil
}

func (s *diagnosisService) Assess(ctx context.Context, req DiagnosisRequest) (*domain.Assessment, error) {
	questions, err := s.Questions(req.Segment)
	if err != nil {
		return nil, err
	}
	assessment := s.Assemble(ctx, req.Segment, domain.Score(questions, req.Answers), req.AI)
	return &assessment, nil
}

// Assemble picks the AI narrative or the configured fallback copy. It never
// fails: a disabled or unconfigured AI path goes straight to the fallback,
// and an AI failure is kept as the notice while the fallback still runs.
func (s *diagnosisService) Assemble(ctx context.Context, segment domain.Segment, scoring domain.ScoringOutcome, ai domain.AIConfig) domain.Assessment {
	l := logger.Get()
	trace := newTrace()
	trace.move(domain.StateScoring)

	tier := scoring.Tier()
	var notice *domain.AIError

	if ai.Usable() && s.narratives != nil {
		trace.move(domain.StateAIAttempt)
		narrative, err := s.narratives.Generate(ctx, NarrativeRequest{
			Segment:    segment,
			Strengths:  scoring.Strengths,
			Weaknesses: scoring.Weaknesses,
			AI:         ai,
		})
		if err == nil && narrative != nil {
			trace.move(domain.StateAISuccess)
			trace.move(domain.StateAssembled)
			return domain.Assessment{
				Result: domain.NewDiagnosisResult(scoring, *narrative, domain.SourceAI),
				Trace:  trace.states,
			}
		}
		notice = domain.AsAIError(err)
		if notice == nil {
			notice = domain.NewAIError(domain.AIErrorParsing, domain.MsgEmptyContent, nil)
		}
		trace.move(domain.StateAIFailure)
		l.Warn("AI diagnosis failed, using default copy",
			zap.String("segment", string(segment)),
			zap.String("kind", string(notice.Kind)),
			zap.String("message", notice.Message))
	} else {
		l.Debug("AI diagnosis skipped", zap.String("segment", string(segment)), zap.Bool("enabled", ai.Enabled))
	}

	trace.move(domain.StateFallback)
	result := domain.NewDiagnosisResult(scoring, s.fallback.FallbackNarrative(tier), domain.SourceDefault)
	trace.move(domain.StateAssembled)
	return domain.Assessment{Result: result, Notice: notice, Trace: trace.states}
}

type pipelineTrace struct {
	states []domain.PipelineState
}

func newTrace() *pipelineTrace {
	return &pipelineTrace{states: []domain.PipelineState{domain.StateNotStarted}}
}

func (t *pipelineTrace) move(next domain.PipelineState) {
	current := t.states[len(t.states)-1]
	if !current.CanTransition(next) {
		logger.Get().Error("Invalid pipeline transition",
			zap.String("from", string(current)),
			zap.String("to", string(next)))
	}
	t.states = append(t.states, next)
}
