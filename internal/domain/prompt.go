package domain

import (
	"fmt"
	"strings"
)

// DefaultEmptyMarker is written in place of an empty strength or weakness list.
const DefaultEmptyMarker = "Nenhum"

// Prompt is the provider-neutral prompt: a fixed instruction block and a
// data block describing one quiz session.
type Prompt struct {
	Instructions string
	Data         string
}

// Combined joins both blocks for providers that take a single prompt.
func (p Prompt) Combined() string {
	return p.Instructions + "\n\n" + p.Data
}

const promptInstructions = `Você é um especialista em Diversidade e Inclusão (D&I) da consultoria Ubuntu. Sua missão é analisar as respostas de um questionário de autodiagnóstico e fornecer um retorno claro, preciso e que eleve a consciência do usuário, incentivando-o a buscar ajuda especializada.
O tom deve ser profissional, empático e orientado à ação, sem jargões técnicos.
Responda APENAS com um objeto JSON, sem texto adicional, contendo exatamente estes três campos:
- "urgencyLevel": uma única palavra entre "Baixa", "Moderada" ou "Alta".
- "urgencyDescription": uma frase (máximo 25 palavras) que conecte os pontos de melhoria a uma consequência real para o segmento.
- "conclusion": um parágrafo curto (máximo 50 palavras) validando o diagnóstico e convidando para um plano de ação com um especialista.`

// PromptBuilder renders prompts. The zero value uses DefaultEmptyMarker.
type PromptBuilder struct {
	EmptyMarker string
}

// Build renders the instruction and data blocks. Output depends only on the
// arguments, so identical sessions yield identical prompts.
func (b PromptBuilder) Build(segment Segment, strengths, weaknesses []string) Prompt {
	marker := b.EmptyMarker
	if marker == "" {
		marker = DefaultEmptyMarker
	}

	var data strings.Builder
	data.WriteString("Contexto do Diagnóstico:\n")
	fmt.Fprintf(&data, "- Segmento: %q\n", string(segment))
	data.WriteString("- Pontos Fortes:\n")
	writeBullets(&data, strengths, marker)
	data.WriteString("- Pontos de Melhoria:\n")
	writeBullets(&data, weaknesses, marker)

	return Prompt{
		Instructions: promptInstructions,
		Data:         strings.TrimRight(data.String(), "\n"),
	}
}

// BuildPrompt renders a prompt with the default empty marker.
func BuildPrompt(segment Segment, strengths, weaknesses []string) Prompt {
	return PromptBuilder{}.Build(segment, strengths, weaknesses)
}

func writeBullets(sb *strings.Builder, items []string, marker string) {
	if len(items) == 0 {
		sb.WriteString(marker)
		sb.WriteString("\n")
		return
	}
	for _, item := range items {
		sb.WriteString("  - ")
		sb.WriteString(item)
		sb.WriteString("\n")
	}
}
