package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"quiz-diagnosis/internal/domain"
)

const anthropicMaxTokens = 1024

// AnthropicProvider uses the Anthropic SDK with JSON output format. SDK
// retries are disabled; the retry loop lives in the narrative service.
type AnthropicProvider struct {
	opts Options
}

func NewAnthropicProvider(opts Options) *AnthropicProvider {
	return &AnthropicProvider{opts: opts.withDefaults()}
}

func (p *AnthropicProvider) Name() string { return NameAnthropic }

func (p *AnthropicProvider) Generate(ctx context.Context, req domain.ProviderRequest) (string, error) {
	if err := checkRequest(req); err != nil {
		return "", err
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(req.Credential),
		option.WithHTTPClient(p.opts.HTTPClient),
		option.WithMaxRetries(0),
	}
	if p.opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(p.opts.BaseURL))
	}
	client := anthropic.NewClient(clientOpts...)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: anthropicMaxTokens,
		System:    []anthropic.TextBlockParam{{Text: req.Prompt.Instructions}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt.Data)),
		},
		Temperature: anthropic.Float(p.opts.Temperature),
		OutputConfig: anthropic.OutputConfigParam{
			Format: anthropic.JSONOutputFormatParam{
				Schema: domain.NarrativeSchema(),
			},
		},
	}

	callCtx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	msg, err := client.Messages.New(callCtx, params)
	if err != nil {
		return "", classifyCallError(callCtx, anthropicErrorMessage(err), err)
	}

	var parts []string
	for _, block := range msg.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	content := strings.TrimSpace(strings.Join(parts, "\n"))
	if content == "" {
		return "", emptyContent(errors.New("no text content in Anthropic response"))
	}
	return content, nil
}

func anthropicErrorMessage(err error) string {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("A Anthropic retornou o status %d.", apiErr.StatusCode)
	}
	return "Falha de comunicação com a Anthropic."
}
