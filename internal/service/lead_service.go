package service

import (
	"context"

	"go.uber.org/zap"

	"quiz-diagnosis/internal/domain"
	"quiz-diagnosis/internal/logger"
)

// LeadReceipt is what the lead form shows after submission.
type LeadReceipt struct {
	Delivered    bool   `json:"delivered"`
	WhatsAppLink string `json:"whatsappLink,omitempty"`
}

// LeadService captures a quiz taker's contact and hands it to the
// configured integrations.
type LeadService interface {
	Submit(ctx context.Context, lead domain.Lead) (*LeadReceipt, error)
}

type leadService struct {
	sender         domain.LeadSender
	whatsAppNumber string
}

// NewLeadService accepts a nil sender when no webhook is configured.
func NewLeadService(sender domain.LeadSender, whatsAppNumber string) LeadService {
	return &leadService{sender: sender, whatsAppNumber: whatsAppNumber}
}

// Submit validates the lead, delivers it to the webhook and returns the
// WhatsApp link. A webhook failure stops the flow: no link is returned.
func (s *leadService) Submit(ctx context.Context, lead domain.Lead) (*LeadReceipt, error) {
	if errs := lead.Validate(); len(errs) > 0 {
		return nil, errs
	}

	receipt := &LeadReceipt{}
	if s.sender != nil {
		if err := s.sender.Send(ctx, lead.Payload()); err != nil {
			logger.Get().Error("Failed to deliver lead",
				zap.String("segment", string(lead.Segment)),
				zap.Error(err))
			return nil, domain.NewWebhookError(err)
		}
		receipt.Delivered = true
	}

	receipt.WhatsAppLink = lead.WhatsAppLink(s.whatsAppNumber)
	return receipt, nil
}
