package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"quiz-diagnosis/internal/domain"
	"quiz-diagnosis/internal/logger"
)

const maxErrorBodyLen = 300

// OpenRouterProvider calls an OpenAI-compatible chat completions endpoint
// directly. The envelope is read with gjson since providers behind the
// router disagree on the shape of message content.
type OpenRouterProvider struct {
	endpoint string
	client   *http.Client
	opts     Options
}

// NewOpenRouterProvider creates an OpenRouter client. opts.BaseURL replaces
// the API root (the part before /chat/completions).
func NewOpenRouterProvider(opts Options) *OpenRouterProvider {
	opts = opts.withDefaults()
	base := opts.BaseURL
	if base == "" {
		base = openRouterBaseURL
	}
	return &OpenRouterProvider{
		endpoint: base + "/chat/completions",
		client:   opts.HTTPClient,
		opts:     opts,
	}
}

func (p *OpenRouterProvider) Name() string { return NameOpenRouter }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat map[string]any `json:"response_format,omitempty"`
}

// Generate performs one chat completion and returns the message content.
func (p *OpenRouterProvider) Generate(ctx context.Context, req domain.ProviderRequest) (string, error) {
	if err := checkRequest(req); err != nil {
		return "", err
	}

	body, err := json.Marshal(chatRequest{
		Model: req.Model,
		Messages: []chatMessage{
			{Role: "system", Content: req.Prompt.Instructions},
			{Role: "user", Content: req.Prompt.Data},
		},
		Temperature: p.opts.Temperature,
		ResponseFormat: map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   domain.NarrativeSchemaName,
				"strict": true,
				"schema": domain.NarrativeSchema(),
			},
		},
	})
	if err != nil {
		return "", domain.NewAIError(domain.AIErrorRequest, "Falha ao montar a requisição para a IA.", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", domain.NewAIError(domain.AIErrorRequest, "Falha ao montar a requisição para a IA.", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+req.Credential)
	if p.opts.Referer != "" {
		httpReq.Header.Set("HTTP-Referer", p.opts.Referer)
	}
	if p.opts.Title != "" {
		httpReq.Header.Set("X-Title", p.opts.Title)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", classifyCallError(callCtx, "Falha de comunicação com a OpenRouter.", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyCallError(callCtx, "Falha ao ler a resposta da OpenRouter.", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := openRouterErrorMessage(raw, resp.StatusCode)
		logger.Get().Warn("OpenRouter returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.String("model", req.Model),
			zap.String("message", msg))
		return "", domain.NewAIError(domain.AIErrorRequest, msg, fmt.Errorf("status %d", resp.StatusCode))
	}

	if !gjson.ValidBytes(raw) {
		return "", domain.NewAIError(domain.AIErrorParsing, domain.MsgUnreadableBody, fmt.Errorf("invalid JSON envelope"))
	}

	content := extractMessageContent(gjson.ParseBytes(raw))
	if content == "" {
		return "", emptyContent(nil)
	}
	return content, nil
}

// extractMessageContent reads choices[0].message.content, which may be a
// string, an array of parts (strings or objects with text), or an object
// with a text field.
func extractMessageContent(root gjson.Result) string {
	content := root.Get("choices.0.message.content")
	switch {
	case content.Type == gjson.String:
		return strings.TrimSpace(content.String())
	case content.IsArray():
		var parts []string
		for _, part := range content.Array() {
			if part.Type == gjson.String {
				parts = append(parts, part.String())
				continue
			}
			if text := part.Get("text"); text.Type == gjson.String {
				parts = append(parts, text.String())
			}
		}
		return strings.TrimSpace(strings.Join(parts, "\n"))
	case content.IsObject():
		if text := content.Get("text"); text.Type == gjson.String {
			return strings.TrimSpace(text.String())
		}
	}
	return ""
}

func openRouterErrorMessage(raw []byte, status int) string {
	if gjson.ValidBytes(raw) {
		root := gjson.ParseBytes(raw)
		for _, path := range []string{"error", "error.message", "message"} {
			if v := root.Get(path); v.Type == gjson.String && strings.TrimSpace(v.String()) != "" {
				return strings.TrimSpace(v.String())
			}
		}
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		if len(text) > maxErrorBodyLen {
			text = text[:maxErrorBodyLen]
		}
		return text
	}
	return fmt.Sprintf("A OpenRouter retornou o status %d.", status)
}
