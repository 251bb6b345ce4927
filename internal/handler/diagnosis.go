package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"quiz-diagnosis/internal/config"
	"quiz-diagnosis/internal/domain"
	"quiz-diagnosis/internal/dto"
	"quiz-diagnosis/internal/logger"
	"quiz-diagnosis/internal/middleware"
	"quiz-diagnosis/internal/service"
	"quiz-diagnosis/internal/util"
	"quiz-diagnosis/internal/validation"
)

// AIResolver merges request AI settings into the server configuration.
type AIResolver interface {
	Resolve(override config.AIOverride) domain.AIConfig
}

// DiagnosisHandler handles quiz and diagnosis HTTP requests
type DiagnosisHandler struct {
	diagnoses  service.DiagnosisService
	narratives service.NarrativeService
	results    service.ResultStore
	ai         AIResolver
	validator  *validation.Validator
}

// NewDiagnosisHandler creates a new DiagnosisHandler instance
func NewDiagnosisHandler(diagnoses service.DiagnosisService, narratives service.NarrativeService, results service.ResultStore, ai AIResolver) *DiagnosisHandler {
	return &DiagnosisHandler{
		diagnoses:  diagnoses,
		narratives: narratives,
		results:    results,
		ai:         ai,
		validator:  validation.NewValidator(),
	}
}

// GetSegments godoc
// @Summary List segments
// @Tags quiz
// @Produce json
// @Success 200 {object} dto.SegmentsResponse
// @Router /segments [get]
func (h *DiagnosisHandler) GetSegments(c *fiber.Ctx) error {
	return c.JSON(dto.SegmentsResponse{Segments: domain.Segments})
}

// GetQuestions godoc
// @Summary Get the questions of a segment
// @Tags quiz
// @Produce json
// @Param segment path string true "Segment"
// @Success 200 {object} dto.QuestionsResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /segments/{segment}/questions [get]
func (h *DiagnosisHandler) GetQuestions(c *fiber.Ctx) error {
	segment, ok := middleware.SegmentFrom(c)
	if !ok {
		var errs domain.ValidationErrors
		if segment, errs = h.validator.ValidateSegment(c.Params("segment")); len(errs) > 0 {
			return errs
		}
	}

	questions, err := h.diagnoses.Questions(segment)
	if err != nil {
		return err
	}
	return c.JSON(dto.QuestionsResponse{Segment: segment, Questions: questions})
}

// Diagnose godoc
// @Summary Generate the AI narrative for a scored session
// @Tags diagnosis
// @Accept json
// @Produce json
// @Param request body dto.DiagnoseRequest true "Scored session"
// @Success 200 {object} dto.NarrativeResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Failure 504 {object} middleware.ErrorResponse
// @Router /diagnose [post]
func (h *DiagnosisHandler) Diagnose(c *fiber.Ctx) error {
	var req dto.DiagnoseRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	input, errs := h.validator.ValidateDiagnoseRequest(&req)
	if len(errs) > 0 {
		return errs
	}

	ai := h.ai.Resolve(config.AIOverride{Provider: req.Provider, Model: req.Model, APIKey: req.APIKey})
	narrative, err := h.narratives.Generate(c.UserContext(), service.NarrativeRequest{
		Segment:    input.Segment,
		Strengths:  input.Strengths,
		Weaknesses: input.Weaknesses,
		AI:         ai,
	})
	if err != nil {
		return domain.AsAIError(err).ToDomainError()
	}

	return c.JSON(dto.NarrativeResponse{
		UrgencyLevel:       narrative.UrgencyLevel,
		UrgencyDescription: narrative.UrgencyDescription,
		Conclusion:         narrative.Conclusion,
	})
}

// Diagnosis godoc
// @Summary Score a quiz session and assemble its diagnosis
// @Description Always answers 200 for a valid session; AI failures are reported in notice.
// @Tags diagnosis
// @Accept json
// @Produce json
// @Param request body dto.DiagnosisRequest true "Quiz session"
// @Success 200 {object} dto.DiagnosisResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /diagnosis [post]
func (h *DiagnosisHandler) Diagnosis(c *fiber.Ctx) error {
	var req dto.DiagnosisRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	segment, errs := h.validator.ValidateSegment(req.Segment)
	if len(errs) > 0 {
		return errs
	}
	questions, err := h.diagnoses.Questions(segment)
	if err != nil {
		return err
	}
	if errs := h.validator.ValidateDiagnosisRequest(&req, len(questions)); len(errs) > 0 {
		return errs
	}

	override := config.AIOverride{}
	if req.AI != nil {
		override = config.AIOverride{
			Enabled:  req.AI.Enabled,
			Provider: req.AI.Provider,
			Model:    req.AI.Model,
			APIKey:   req.AI.APIKey,
		}
	}

	assessment, err := h.diagnoses.Assess(c.UserContext(), service.DiagnosisRequest{
		Segment: segment,
		Answers: domain.AnswersFromSlice(req.Answers),
		AI:      h.ai.Resolve(override),
	})
	if err != nil {
		return err
	}

	if assessment.Notice != nil {
		logger.Get().Info("Diagnosis assembled with fallback",
			zap.String("segment", string(segment)),
			zap.String("kind", string(assessment.Notice.Kind)))
	}

	resp := dto.NewDiagnosisResponse(*assessment)
	// The request id comes from the client and only correlates logs; the
	// storage key is always minted here.
	id := util.NewULID()
	requestID, _ := c.Locals(middleware.RequestIDKey).(string)
	switch err := h.results.Put(c.UserContext(), id, assessment.Result); {
	case err == nil:
		resp.ID = id
		logger.Get().Debug("Diagnosis stored", zap.String("id", id), zap.String("request_id", requestID))
	case !errors.Is(err, service.ErrResultStoreDisabled):
		logger.Get().Warn("Diagnosis not stored", zap.String("id", id), zap.String("request_id", requestID), zap.Error(err))
	}
	return c.JSON(resp)
}

// GetDiagnosis godoc
// @Summary Get a stored diagnosis
// @Tags diagnosis
// @Produce json
// @Param id path string true "Diagnosis id"
// @Success 200 {object} domain.DiagnosisResult
// @Failure 404 {object} middleware.ErrorResponse
// @Router /diagnosis/{id} [get]
func (h *DiagnosisHandler) GetDiagnosis(c *fiber.Ctx) error {
	result, err := h.results.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(result)
}
