package domain

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Lead is the contact a quiz taker leaves after seeing the diagnosis.
type Lead struct {
	Name      string
	Email     string
	Phone     string
	Company   string
	Segment   Segment
	Diagnosis DiagnosisResult
}

// Validate checks the contact fields the lead form requires.
func (l Lead) Validate() ValidationErrors {
	var errs ValidationErrors
	if strings.TrimSpace(l.Name) == "" {
		errs = append(errs, NewMissingFieldError("name"))
	}
	email := strings.TrimSpace(l.Email)
	if email == "" {
		errs = append(errs, NewMissingFieldError("email"))
	} else if !strings.Contains(email, "@") {
		errs = append(errs, NewInvalidFormatError("email", "must be an e-mail address"))
	}
	if !l.Segment.Valid() {
		errs = append(errs, NewInvalidFormatError("segment", "must be one of Pessoa, Empresa, Escola"))
	}
	return errs
}

// LeadPayload is the JSON body delivered to the lead webhook: contact
// fields, the segment and the flattened diagnosis.
type LeadPayload struct {
	Name               string   `json:"name"`
	Email              string   `json:"email"`
	Phone              string   `json:"phone"`
	Company            string   `json:"company"`
	Segment            Segment  `json:"segment"`
	UrgencyLevel       string   `json:"urgencyLevel"`
	UrgencyDescription string   `json:"urgencyDescription"`
	Conclusion         string   `json:"conclusion"`
	Strengths          []string `json:"strengths"`
	Weaknesses         []string `json:"weaknesses"`
	Source             Source   `json:"source"`
}

func (l Lead) Payload() LeadPayload {
	return LeadPayload{
		Name:               l.Name,
		Email:              l.Email,
		Phone:              l.Phone,
		Company:            l.Company,
		Segment:            l.Segment,
		UrgencyLevel:       l.Diagnosis.UrgencyLevel,
		UrgencyDescription: l.Diagnosis.UrgencyDescription,
		Conclusion:         l.Diagnosis.Conclusion,
		Strengths:          l.Diagnosis.Strengths,
		Weaknesses:         l.Diagnosis.Weaknesses,
		Source:             l.Diagnosis.Source,
	}
}

// LeadSender delivers a lead payload to an external integration.
type LeadSender interface {
	Send(ctx context.Context, payload LeadPayload) error
}

// WhatsAppMessage renders the message pre-filled in the WhatsApp link.
func (l Lead) WhatsAppMessage() string {
	orDefault := func(v, d string) string {
		if strings.TrimSpace(v) == "" {
			return d
		}
		return v
	}
	list := func(items []string) string {
		if len(items) == 0 {
			return DefaultEmptyMarker
		}
		lines := make([]string, len(items))
		for i, item := range items {
			lines[i] = "- " + item
		}
		return strings.Join(lines, "\n")
	}

	var sb strings.Builder
	sb.WriteString("Olá! Gostaria de saber mais sobre a consultoria de D&I.\n\n")
	fmt.Fprintf(&sb, "*Meu Diagnóstico (%s):*\n", l.Segment)
	fmt.Fprintf(&sb, "- Nível de Urgência: %s\n\n", l.Diagnosis.UrgencyLevel)
	sb.WriteString("*Contato:*\n")
	fmt.Fprintf(&sb, "- Nome: %s\n", l.Name)
	fmt.Fprintf(&sb, "- E-mail: %s\n", l.Email)
	fmt.Fprintf(&sb, "- Telefone: %s\n", orDefault(l.Phone, "Não informado"))
	fmt.Fprintf(&sb, "- Empresa: %s\n\n", orDefault(l.Company, "Não informada"))
	sb.WriteString("*Resumo das minhas respostas:*\n\n")
	sb.WriteString("*Pontos Fortes:*\n")
	sb.WriteString(list(l.Diagnosis.Strengths))
	sb.WriteString("\n\n*Pontos de Melhoria:*\n")
	sb.WriteString(list(l.Diagnosis.Weaknesses))
	return strings.TrimSpace(sb.String())
}

// WhatsAppLink returns the wa.me deep link for number, or "" when no number
// is configured.
func (l Lead) WhatsAppLink(number string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	if digits == "" {
		return ""
	}
	text := strings.ReplaceAll(url.QueryEscape(l.WhatsAppMessage()), "+", "%20")
	return "https://wa.me/" + digits + "?text=" + text
}
