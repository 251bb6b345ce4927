package provider

import (
	"context"
	"errors"
	"strings"

	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"quiz-diagnosis/internal/domain"
	"quiz-diagnosis/internal/logger"
)

// LangChainProvider drives any OpenAI-compatible backend through
// langchaingo. It defaults to the OpenRouter API root.
type LangChainProvider struct {
	baseURL string
	opts    Options
}

func NewLangChainProvider(opts Options) *LangChainProvider {
	opts = opts.withDefaults()
	base := opts.BaseURL
	if base == "" {
		base = openRouterBaseURL
	}
	return &LangChainProvider{baseURL: base, opts: opts}
}

func (p *LangChainProvider) Name() string { return NameLangChain }

// Generate builds a client for the request credential and performs one
// JSON-mode chat call.
func (p *LangChainProvider) Generate(ctx context.Context, req domain.ProviderRequest) (string, error) {
	if err := checkRequest(req); err != nil {
		return "", err
	}

	llm, err := lcopenai.New(
		lcopenai.WithToken(req.Credential),
		lcopenai.WithModel(req.Model),
		lcopenai.WithBaseURL(p.baseURL),
		lcopenai.WithHTTPClient(p.opts.HTTPClient),
	)
	if err != nil {
		return "", domain.NewAIError(domain.AIErrorConfiguration, "Falha ao inicializar o cliente de IA.", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, req.Prompt.Instructions),
		llms.TextParts(llms.ChatMessageTypeHuman, req.Prompt.Data),
	}
	resp, err := llm.GenerateContent(callCtx, messages,
		llms.WithTemperature(p.opts.Temperature),
		llms.WithJSONMode(),
	)
	if err != nil {
		logger.Get().Debug("langchain call failed", zap.String("model", req.Model), zap.Error(err))
		return "", classifyCallError(callCtx, "Falha de comunicação com o provedor de IA.", err)
	}

	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", emptyContent(errors.New("no choices in response"))
	}
	content := strings.TrimSpace(resp.Choices[0].Content)
	if content == "" {
		return "", emptyContent(nil)
	}
	return content, nil
}
