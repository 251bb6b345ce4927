package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Narrative is the three free-text fields of a diagnosis.
type Narrative struct {
	UrgencyLevel       string `json:"urgencyLevel"`
	UrgencyDescription string `json:"urgencyDescription"`
	Conclusion         string `json:"conclusion"`
}

// NarrativeSchemaName is the schema name sent to providers that accept one.
const NarrativeSchemaName = "diagnosis_response"

// NarrativeSchema returns the JSON schema sent to providers with a
// structured-output mode. It stays within the subset strict modes accept.
func NarrativeSchema() map[string]any {
	return narrativeSchema(false)
}

// narrativeSchema with validation set also rejects empty strings and
// tolerates extra properties; ParseNarrative uses that form locally
// regardless of what the provider promised.
func narrativeSchema(validation bool) map[string]any {
	field := func(description string) map[string]any {
		f := map[string]any{
			"type":        "string",
			"description": description,
		}
		if validation {
			f["minLength"] = 1
		}
		return f
	}
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"urgencyLevel":       field(`Classifique a urgência em uma única palavra: "Baixa", "Moderada" ou "Alta".`),
			"urgencyDescription": field(`Frase impactante (máximo 25 palavras) que conecte os "Pontos de Melhoria" a uma consequência real para o segmento.`),
			"conclusion":         field("Parágrafo curto (máximo 50 palavras) validando o diagnóstico e convidando para um plano de ação estratégico."),
		},
		"required": []any{"urgencyLevel", "urgencyDescription", "conclusion"},
	}
	if !validation {
		schema["additionalProperties"] = false
	}
	return schema
}

var (
	validatorOnce   sync.Once
	validatorSchema *jsonschema.Schema
	validatorErr    error
)

func compiledNarrativeSchema() (*jsonschema.Schema, error) {
	validatorOnce.Do(func() {
		// jsonschema wants the decoded JSON form, not Go literals.
		raw, err := json.Marshal(narrativeSchema(true))
		if err != nil {
			validatorErr = fmt.Errorf("marshal narrative schema: %w", err)
			return
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			validatorErr = fmt.Errorf("parse narrative schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://" + NarrativeSchemaName + ".json"
		if err := c.AddResource(url, doc); err != nil {
			validatorErr = fmt.Errorf("add narrative schema: %w", err)
			return
		}
		validatorSchema, validatorErr = c.Compile(url)
	})
	return validatorSchema, validatorErr
}

// ParseNarrative validates raw provider text and decodes it. Every failure
// is a Parsing AIError. Word limits from the prompt are advisory and not
// checked here.
func ParseNarrative(rawText string) (*Narrative, error) {
	doc, err := decodeJSONObject(rawText)
	if err != nil {
		return nil, NewAIError(AIErrorParsing, MsgInvalidJSON, err)
	}

	schema, err := compiledNarrativeSchema()
	if err != nil {
		return nil, NewAIError(AIErrorParsing, MsgMissingFields, err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, NewAIError(AIErrorParsing, MsgMissingFields, err)
	}

	obj := doc.(map[string]any)
	return &Narrative{
		UrgencyLevel:       obj["urgencyLevel"].(string),
		UrgencyDescription: obj["urgencyDescription"].(string),
		Conclusion:         obj["conclusion"].(string),
	}, nil
}

// decodeJSONObject parses text as a JSON object. When a direct parse fails
// it retries on the span between the first '{' and the last '}', after
// dropping any <think>...</think> block some models emit.
func decodeJSONObject(rawText string) (any, error) {
	cleaned := strings.TrimSpace(rawText)
	if cleaned == "" {
		return nil, fmt.Errorf("empty response")
	}

	var doc any
	directErr := json.Unmarshal([]byte(cleaned), &doc)
	if directErr == nil {
		if _, ok := doc.(map[string]any); ok {
			return doc, nil
		}
	}

	if thinkStart := strings.Index(cleaned, "<think>"); thinkStart != -1 {
		if thinkEnd := strings.Index(cleaned, "</think>"); thinkEnd > thinkStart {
			cleaned = strings.TrimSpace(cleaned[:thinkStart] + cleaned[thinkEnd+len("</think>"):])
		}
	}

	jsonStart := strings.Index(cleaned, "{")
	jsonEnd := strings.LastIndex(cleaned, "}")
	if jsonStart == -1 || jsonEnd <= jsonStart {
		if directErr != nil {
			return nil, fmt.Errorf("no JSON object found: %w", directErr)
		}
		return nil, fmt.Errorf("response is not a JSON object")
	}

	doc = nil
	if err := json.Unmarshal([]byte(cleaned[jsonStart:jsonEnd+1]), &doc); err != nil {
		return nil, fmt.Errorf("unmarshal extracted JSON: %w", err)
	}
	if _, ok := doc.(map[string]any); !ok {
		return nil, fmt.Errorf("response is not a JSON object")
	}
	return doc, nil
}
