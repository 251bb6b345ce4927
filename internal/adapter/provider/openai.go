package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"quiz-diagnosis/internal/domain"
)

// OpenAIProvider uses the OpenAI SDK with a strict JSON schema response
// format.
type OpenAIProvider struct {
	opts Options
}

func NewOpenAIProvider(opts Options) *OpenAIProvider {
	return &OpenAIProvider{opts: opts.withDefaults()}
}

func (p *OpenAIProvider) Name() string { return NameOpenAI }

func (p *OpenAIProvider) Generate(ctx context.Context, req domain.ProviderRequest) (string, error) {
	if err := checkRequest(req); err != nil {
		return "", err
	}

	config := openai.DefaultConfig(req.Credential)
	if p.opts.BaseURL != "" {
		config.BaseURL = p.opts.BaseURL
	}
	config.HTTPClient = p.opts.HTTPClient
	client := openai.NewClientWithConfig(config)

	schemaBytes, err := json.Marshal(domain.NarrativeSchema())
	if err != nil {
		return "", domain.NewAIError(domain.AIErrorRequest, "Falha ao montar a requisição para a IA.", err)
	}

	chatReq := openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.Prompt.Instructions},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt.Data},
		},
		Temperature: float32(p.opts.Temperature),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   domain.NarrativeSchemaName,
				Schema: json.RawMessage(schemaBytes),
				Strict: true,
			},
		},
	}

	callCtx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	resp, err := client.CreateChatCompletion(callCtx, chatReq)
	if err != nil {
		return "", classifyCallError(callCtx, openAIErrorMessage(err), err)
	}

	if len(resp.Choices) == 0 {
		return "", emptyContent(errors.New("no choices in OpenAI response"))
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", emptyContent(nil)
	}
	return content, nil
}

func openAIErrorMessage(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fmt.Sprintf("A OpenAI retornou o status %d.", apiErr.HTTPStatusCode)
	}
	return "Falha de comunicação com a OpenAI."
}
