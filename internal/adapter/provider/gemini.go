package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"quiz-diagnosis/internal/domain"
)

// GeminiProvider uses the Google Gemini SDK with a JSON response schema.
type GeminiProvider struct {
	opts Options
}

func NewGeminiProvider(opts Options) *GeminiProvider {
	return &GeminiProvider{opts: opts.withDefaults()}
}

func (p *GeminiProvider) Name() string { return NameGemini }

func (p *GeminiProvider) Generate(ctx context.Context, req domain.ProviderRequest) (string, error) {
	if err := checkRequest(req); err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	clientCfg := &genai.ClientConfig{
		APIKey:     req.Credential,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: p.opts.HTTPClient,
	}
	if p.opts.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: p.opts.BaseURL}
	}
	client, err := genai.NewClient(callCtx, clientCfg)
	if err != nil {
		return "", domain.NewAIError(domain.AIErrorConfiguration, "Falha ao inicializar o cliente Gemini.", err)
	}

	temp := float32(p.opts.Temperature)
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: req.Prompt.Instructions}},
		},
		ResponseMIMEType: "application/json",
		ResponseSchema:   geminiNarrativeSchema(),
	}

	result, err := client.Models.GenerateContent(callCtx, req.Model, genai.Text(req.Prompt.Data), config)
	if err != nil {
		return "", classifyCallError(callCtx, geminiErrorMessage(err), err)
	}
	if result == nil || len(result.Candidates) == 0 {
		return "", emptyContent(errors.New("no candidates in Gemini response"))
	}

	content := strings.TrimSpace(result.Text())
	if content == "" {
		return "", emptyContent(nil)
	}
	return content, nil
}

// geminiNarrativeSchema mirrors domain.NarrativeSchema in genai's form.
func geminiNarrativeSchema() *genai.Schema {
	def := domain.NarrativeSchema()
	schema := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: make(map[string]*genai.Schema),
	}
	if props, ok := def["properties"].(map[string]any); ok {
		for name, v := range props {
			prop, _ := v.(map[string]any)
			desc, _ := prop["description"].(string)
			schema.Properties[name] = &genai.Schema{Type: genai.TypeString, Description: desc}
		}
	}
	if required, ok := def["required"].([]any); ok {
		for _, r := range required {
			if s, ok := r.(string); ok {
				schema.Required = append(schema.Required, s)
			}
		}
	}
	return schema
}

func geminiErrorMessage(err error) string {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fmt.Sprintf("O Gemini retornou o status %d.", apiErr.Code)
	}
	return "Falha de comunicação com o Gemini."
}
