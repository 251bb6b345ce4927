package provider

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"quiz-diagnosis/internal/domain"
)

// Provider names accepted in configuration.
const (
	NameOpenRouter = "openrouter"
	NameLangChain  = "langchain"
	NameOpenAI     = "openai"
	NameGemini     = "gemini"
	NameAnthropic  = "anthropic"
)

// Names lists every supported provider.
var Names = []string{NameOpenRouter, NameLangChain, NameOpenAI, NameGemini, NameAnthropic}

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// Options tune a provider client. Zero values fall back to vendor defaults
// and domain.DefaultProviderTimeout.
type Options struct {
	BaseURL     string
	Timeout     time.Duration
	Temperature float64
	HTTPClient  *http.Client

	// Referer and Title are sent as attribution headers where the vendor
	// supports them.
	Referer string
	Title   string
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = domain.DefaultProviderTimeout
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{}
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	return o
}

// New builds the provider registered under name.
func New(name string, opts Options) (domain.NarrativeProvider, error) {
	opts = opts.withDefaults()
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameOpenRouter:
		return NewOpenRouterProvider(opts), nil
	case NameLangChain:
		return NewLangChainProvider(opts), nil
	case NameOpenAI:
		return NewOpenAIProvider(opts), nil
	case NameGemini:
		return NewGeminiProvider(opts), nil
	case NameAnthropic:
		return NewAnthropicProvider(opts), nil
	default:
		return nil, domain.NewAIError(domain.AIErrorConfiguration, domain.MsgUnknownProvider, errors.New("unknown provider "+name))
	}
}

// Registry holds one client per supported provider so a request may
// override the configured provider.
type Registry struct {
	providers map[string]domain.NarrativeProvider
}

// NewRegistry builds every provider. opts.BaseURL applies only to the
// primary provider; the others talk to their vendor defaults.
func NewRegistry(primary string, opts Options) *Registry {
	r := &Registry{providers: make(map[string]domain.NarrativeProvider, len(Names))}
	primary = strings.ToLower(strings.TrimSpace(primary))
	for _, name := range Names {
		o := opts
		if name != primary {
			o.BaseURL = ""
		}
		p, err := New(name, o)
		if err != nil {
			continue
		}
		r.providers[name] = p
	}
	return r
}

// Register adds or replaces a provider.
func (r *Registry) Register(p domain.NarrativeProvider) {
	r.providers[strings.ToLower(p.Name())] = p
}

// Lookup returns the provider registered under name, or a Configuration
// error when there is none.
func (r *Registry) Lookup(name string) (domain.NarrativeProvider, error) {
	p, ok := r.providers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, domain.NewAIError(domain.AIErrorConfiguration, domain.MsgUnknownProvider, errors.New("unknown provider "+name))
	}
	return p, nil
}

func checkRequest(req domain.ProviderRequest) error {
	if strings.TrimSpace(req.Credential) == "" {
		return domain.NewAIError(domain.AIErrorConfiguration, domain.MsgMissingCredential, nil)
	}
	if strings.TrimSpace(req.Model) == "" {
		return domain.NewAIError(domain.AIErrorConfiguration, domain.MsgMissingModel, nil)
	}
	return nil
}

// classifyCallError maps a transport failure to Timeout when the per-call
// deadline fired and to Request otherwise.
func classifyCallError(callCtx context.Context, message string, err error) *domain.AIError {
	var aiErr *domain.AIError
	if errors.As(err, &aiErr) {
		return aiErr
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return domain.NewAIError(domain.AIErrorTimeout, domain.MsgTimeout, err)
	}
	return domain.NewAIError(domain.AIErrorRequest, message, err)
}

func emptyContent(cause error) *domain.AIError {
	return domain.NewAIError(domain.AIErrorParsing, domain.MsgEmptyContent, cause)
}
