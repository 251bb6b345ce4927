package handler

import (
	"github.com/gofiber/fiber/v2"

	"quiz-diagnosis/internal/domain"
	"quiz-diagnosis/internal/dto"
	"quiz-diagnosis/internal/service"
	"quiz-diagnosis/internal/validation"
)

// LeadHandler handles lead capture requests
type LeadHandler struct {
	leads     service.LeadService
	results   service.ResultStore
	validator *validation.Validator
}

// NewLeadHandler creates a new LeadHandler instance
func NewLeadHandler(leads service.LeadService, results service.ResultStore) *LeadHandler {
	return &LeadHandler{leads: leads, results: results, validator: validation.NewValidator()}
}

// SubmitLead godoc
// @Summary Capture a lead
// @Tags leads
// @Accept json
// @Produce json
// @Param request body dto.LeadRequest true "Lead"
// @Success 200 {object} dto.LeadResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /leads [post]
func (h *LeadHandler) SubmitLead(c *fiber.Ctx) error {
	var req dto.LeadRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	if req.DiagnosisID != "" {
		stored, err := h.results.Get(c.UserContext(), req.DiagnosisID)
		if err != nil {
			return err
		}
		req.Diagnosis = *stored
	}

	lead, errs := h.validator.ValidateLeadRequest(&req)
	if len(errs) > 0 {
		return errs
	}

	receipt, err := h.leads.Submit(c.UserContext(), lead)
	if err != nil {
		return err
	}
	return c.JSON(dto.LeadResponse{Delivered: receipt.Delivered, WhatsAppLink: receipt.WhatsAppLink})
}
