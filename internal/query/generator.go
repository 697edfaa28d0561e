package query

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rohmanhakim/askpdf/internal/store"
)

// NoAnswer is returned when the context does not contain the answer.
const NoAnswer = "I don't know"

// ErrGeneration marks failures of the answer generator. The query boundary
// classifies it as a model failure.
var ErrGeneration = errors.New("answer generation failed")

const promptTemplate = `You are a helpful assistant.
Use the following context to answer the question.
If the answer is not in the context, say '%s'.

Context:
%s

Question:
%s
`

// Prompt is what a generator answers from.
type Prompt struct {
	Question string
	Context  []store.Hit
}

// Render formats the prompt for a language model.
func (p Prompt) Render() string {
	parts := make([]string, len(p.Context))
	for i, h := range p.Context {
		parts[i] = h.Content
	}
	return fmt.Sprintf(promptTemplate, NoAnswer, strings.Join(parts, "\n\n"), p.Question)
}

type Generator interface {
	Generate(ctx context.Context, prompt Prompt) (string, error)
}

var _ Generator = ExtractiveGenerator{}

// ExtractiveGenerator answers with the context sentences that share the
// most terms with the question. It needs no model credentials and is the
// offline default.
type ExtractiveGenerator struct {
	// MaxSentences bounds the answer length; 0 means 3.
	MaxSentences int
}

func (ExtractiveGenerator) Model() string {
	return "extractive"
}

func (g ExtractiveGenerator) Generate(ctx context.Context, prompt Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	if len(prompt.Context) == 0 {
		return NoAnswer, nil
	}

	limit := g.MaxSentences
	if limit <= 0 {
		limit = 3
	}

	terms := map[string]bool{}
	for _, t := range store.Terms(prompt.Question) {
		terms[t] = true
	}

	type candidate struct {
		text  string
		score int
		order int
	}
	var candidates []candidate
	for _, h := range prompt.Context {
		for _, s := range sentences(h.Content) {
			score := 0
			for _, t := range store.Terms(s) {
				if terms[t] {
					score++
				}
			}
			if score > 0 {
				candidates = append(candidates, candidate{text: s, score: score, order: len(candidates)})
			}
		}
	}
	if len(candidates) == 0 {
		return NoAnswer, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	// answer reads in source order
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].order < candidates[j].order
	})

	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.text
	}
	return strings.Join(out, " "), nil
}

func sentences(text string) []string {
	var out []string
	start := 0
	runes := []rune(text)
	for i, r := range runes {
		if r == '.' || r == '?' || r == '!' || r == '\n' {
			if s := strings.TrimSpace(string(runes[start : i+1])); len(s) > 1 {
				out = append(out, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}
