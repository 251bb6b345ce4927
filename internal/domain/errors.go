package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error at the API boundary
type ErrorCode string

const (
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput   ErrorCode = "INVALID_INPUT"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeValidation     ErrorCode = "VALIDATION_ERROR"
	CodeInvalidSegment ErrorCode = "INVALID_SEGMENT"

	CodeAINotConfigured   ErrorCode = "AI_NOT_CONFIGURED"
	CodeAIProviderError   ErrorCode = "AI_PROVIDER_ERROR"
	CodeAITimeout         ErrorCode = "AI_TIMEOUT"
	CodeAIInvalidResponse ErrorCode = "AI_INVALID_RESPONSE"

	CodeWebhookError ErrorCode = "WEBHOOK_ERROR"
)

// DomainError represents a boundary-level error with a stable code.
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Err }

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewInvalidSegmentError(segment string) *DomainError {
	return NewError(CodeInvalidSegment, fmt.Sprintf("Segmento inválido ou ausente: %q", segment), nil)
}

func NewWebhookError(err error) *DomainError {
	return NewError(CodeWebhookError, "Falha ao enviar informações. Tente novamente.", err)
}

// ValidationError describes one invalid request field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every invalid field of a request.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s (and %d more)", v[0].Error(), len(v)-1)
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Message: "field is required"}
}

func NewInvalidFormatError(field, message string) ValidationError {
	return ValidationError{Field: field, Message: message}
}

// AIErrorKind classifies failures of the AI narrative path.
type AIErrorKind string

const (
	AIErrorConfiguration AIErrorKind = "CONFIGURATION"
	AIErrorRequest       AIErrorKind = "REQUEST"
	AIErrorTimeout       AIErrorKind = "TIMEOUT"
	AIErrorParsing       AIErrorKind = "PARSING"
)

// Retryable reports whether the orchestrator may attempt the call again.
// Configuration and Parsing are terminal.
func (k AIErrorKind) Retryable() bool {
	return k == AIErrorRequest || k == AIErrorTimeout
}

// AIError is the tagged error value produced by the provider, validator and
// orchestrator. Message is user-facing copy.
type AIError struct {
	Kind    AIErrorKind
	Message string
	Cause   error
}

func (e *AIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %v", e.Message, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Kind)
}

func (e *AIError) Unwrap() error { return e.Cause }

func NewAIError(kind AIErrorKind, message string, cause error) *AIError {
	return &AIError{Kind: kind, Message: message, Cause: cause}
}

// AsAIError extracts an *AIError from err. Errors of any other type are
// reported as Request failures, since an unexpected fault of the transport
// is the only way they can arise.
func AsAIError(err error) *AIError {
	if err == nil {
		return nil
	}
	var aiErr *AIError
	if errors.As(err, &aiErr) {
		return aiErr
	}
	return NewAIError(AIErrorRequest, "Falha inesperada ao acionar o serviço de IA.", err)
}

// AIErrorKindOf returns the kind of the first AIError in err's chain, or ""
// when there is none.
func AIErrorKindOf(err error) AIErrorKind {
	var aiErr *AIError
	if errors.As(err, &aiErr) {
		return aiErr.Kind
	}
	return ""
}

// ToDomainError maps an AI failure to the boundary error code.
func (e *AIError) ToDomainError() *DomainError {
	code := CodeAIProviderError
	switch e.Kind {
	case AIErrorConfiguration:
		code = CodeAINotConfigured
	case AIErrorTimeout:
		code = CodeAITimeout
	case AIErrorParsing:
		code = CodeAIInvalidResponse
	}
	return NewError(code, e.Message, e)
}

// Messages shared by the provider clients.
const (
	MsgMissingCredential = "Chave da API ausente. Configure o segredo para liberar o diagnóstico inteligente."
	MsgMissingModel      = "Modelo da IA não informado. Verifique as configurações administrativas."
	MsgUnknownProvider   = "Provedor de IA desconhecido. Verifique as configurações administrativas."
	MsgTimeout           = "Tempo limite excedido ao tentar gerar o diagnóstico com a IA. Tente novamente em instantes."
	MsgEmptyContent      = "A IA respondeu sem conteúdo utilizável. Tente novamente em instantes."
	MsgCanceled          = "A solicitação foi cancelada antes da resposta da IA."
	MsgUnreadableBody    = "Falha ao interpretar a resposta enviada pelo provedor de IA."
	MsgInvalidJSON       = "Falha ao interpretar a resposta JSON enviada pela IA."
	MsgMissingFields     = "A resposta da IA não retornou os campos obrigatórios (urgencyLevel, urgencyDescription, conclusion)."
)
