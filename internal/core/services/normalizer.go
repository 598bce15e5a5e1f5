package services

import (
	"encoding/json"
	"strings"

	"github.com/biz-cto/rag-chatbot/internal/core/domain"
)

// RepairOutcome tags what the normalizer had to do to the model output.
type RepairOutcome int

const (
	// OutcomePlainText means the output was not JSON and was wrapped as-is.
	OutcomePlainText RepairOutcome = iota
	// OutcomeParsed means the output was valid JSON in the expected shape.
	OutcomeParsed
	// OutcomeRepaired means one level of double-encoding was collapsed.
	OutcomeRepaired
	// OutcomeUnrepaired means the output looked like JSON but could not be
	// parsed; the raw text was kept as the answer.
	OutcomeUnrepaired
)

// rawAnswer is the lenient decode target for model output. The answer
// field is kept raw so a double-encoded inner object can be detected
// before committing to a string interpretation.
type rawAnswer struct {
	Answer  json.RawMessage        `json:"answer"`
	Sources []domain.SourceContent `json:"sources"`
}

// Normalize coerces arbitrary model text into the guaranteed
// {answer, sources} shape. Parsing never fails upward: any malformed
// output degrades to the raw text as the answer. Sources missing from
// the model output are reconstructed from the retrieved chunks so
// citations never depend on the model remembering to include them.
func Normalize(raw string, retrieved []domain.DocumentChunk) (domain.StructuredAnswer, RepairOutcome) {
	trimmed := strings.TrimSpace(raw)
	fallbackSources := deriveSources(retrieved)

	if !strings.HasPrefix(trimmed, "{") {
		return domain.StructuredAnswer{Answer: trimmed, Sources: fallbackSources}, OutcomePlainText
	}

	var outer rawAnswer
	if err := json.Unmarshal([]byte(trimmed), &outer); err != nil || len(outer.Answer) == 0 {
		return domain.StructuredAnswer{Answer: trimmed, Sources: fallbackSources}, OutcomeUnrepaired
	}

	outcome := OutcomeParsed
	answer, sources := resolveAnswer(outer)
	if sources != nil {
		outcome = OutcomeRepaired
	} else {
		sources = outer.Sources
	}

	if len(sources) == 0 {
		sources = fallbackSources
	}
	return domain.StructuredAnswer{Answer: answer, Sources: sources}, outcome
}

// resolveAnswer decodes the outer answer field, collapsing one level of
// accidental re-serialization. The returned sources slice is non-nil
// only when an inner object was promoted.
func resolveAnswer(outer rawAnswer) (string, []domain.SourceContent) {
	var answerText string
	if err := json.Unmarshal(outer.Answer, &answerText); err != nil {
		// answer was not a string; keep its raw JSON text
		return string(outer.Answer), nil
	}

	inner := strings.TrimSpace(answerText)
	if !strings.HasPrefix(inner, "{") || !strings.Contains(inner, `"answer"`) {
		return answerText, nil
	}

	var promoted domain.StructuredAnswer
	if err := json.Unmarshal([]byte(inner), &promoted); err != nil || promoted.Answer == "" {
		return answerText, nil
	}
	if promoted.Sources == nil {
		promoted.Sources = []domain.SourceContent{}
	}
	return promoted.Answer, promoted.Sources
}

// deriveSources groups retrieved chunks by source label, truncating each
// excerpt. The result is always a non-nil slice.
func deriveSources(retrieved []domain.DocumentChunk) []domain.SourceContent {
	sources := make([]domain.SourceContent, 0, len(retrieved))
	index := make(map[string]int, len(retrieved))

	for _, chunk := range retrieved {
		excerpt := chunk.Excerpt()
		if i, ok := index[chunk.Source]; ok {
			sources[i].Contents = append(sources[i].Contents, excerpt)
			continue
		}
		index[chunk.Source] = len(sources)
		sources = append(sources, domain.SourceContent{
			Source:   chunk.Source,
			Contents: []string{excerpt},
		})
	}
	return sources
}
