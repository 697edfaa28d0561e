package query

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rohmanhakim/askpdf/internal/config"
	"github.com/rohmanhakim/askpdf/internal/guard"
	"github.com/rohmanhakim/askpdf/internal/metadata"
	"github.com/rohmanhakim/askpdf/internal/store"
	"github.com/rohmanhakim/askpdf/pkg/failure"
)

// MaxQuestionLength bounds a question in runes.
const MaxQuestionLength = 2000

// Retriever returns the chunks most relevant to a question.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]store.Hit, *failure.Error)
}

var _ Retriever = (*store.SQLiteStore)(nil)

type Source struct {
	ID     string  `json:"doc_id"`
	Source string  `json:"source"`
	Index  int     `json:"chunk"`
	Score  float64 `json:"score"`
}

type Answer struct {
	Answer  string
	Sources []Source
	// Model names what produced the answer; empty when the generator
	// does not say.
	Model string
}

// Payload is the success envelope body of an answer.
func (a Answer) Payload() map[string]any {
	payload := map[string]any{
		"answer":  a.Answer,
		"sources": a.Sources,
	}
	if a.Model != "" {
		payload["model"] = a.Model
	}
	return payload
}

// modelNamer is implemented by generators that can name their model.
type modelNamer interface {
	Model() string
}

// Service answers questions behind a boundary whose fallback is
// QueryError. Generator failures are classified as model failures.
type Service struct {
	boundary    guard.Boundary
	retriever   Retriever
	generator   Generator
	topK        int
	requiredEnv []string
	lookup      config.LookupFunc
}

type Option func(*Service)

func WithGenerator(g Generator) Option {
	return func(s *Service) {
		s.generator = g
	}
}

// WithRequiredEnv sets the external values that must be present before
// the generator is used. lookup nil means the process environment.
func WithRequiredEnv(names []string, lookup config.LookupFunc) Option {
	return func(s *Service) {
		s.requiredEnv = names
		s.lookup = lookup
	}
}

func NewService(sink metadata.Sink, retriever Retriever, topK int, opts ...Option) *Service {
	s := &Service{
		boundary: guard.NewBoundary(sink, failure.KindQuery,
			guard.Match(ErrGeneration, failure.KindModel, failure.CodeLLMError),
		),
		retriever: retriever,
		generator: ExtractiveGenerator{},
		topK:      topK,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ask validates the question, checks preconditions once, retrieves the
// top-k chunks and generates an answer. Exactly one error record is
// written per failed call.
func (s *Service) Ask(ctx context.Context, question string) (Answer, *failure.Error) {
	return guard.RunBoundary(ctx, s.boundary, func(ctx context.Context) (Answer, error) {
		return s.ask(ctx, question)
	}, failure.Details{metadata.AttrOperation: "ask"})
}

func (s *Service) ask(ctx context.Context, question string) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, failure.New(failure.KindValidation, failure.CodeValidationError, "Question cannot be empty", nil)
	}
	if n := utf8.RuneCountInString(question); n > MaxQuestionLength {
		return Answer{}, failure.New(
			failure.KindValidation,
			failure.CodeValidationError,
			fmt.Sprintf("Question is %d characters long; the limit is %d", n, MaxQuestionLength),
			failure.Details{"length": n, "max_length": MaxQuestionLength},
		)
	}

	if err := config.RequireEnvWith(s.lookup, s.requiredEnv); err != nil {
		return Answer{}, err
	}

	hits, err := s.retriever.Search(ctx, question, s.topK)
	if err != nil {
		return Answer{}, err
	}

	text, gerr := s.generator.Generate(ctx, Prompt{Question: question, Context: hits})
	if gerr != nil {
		return Answer{}, fmt.Errorf("%w: %w", ErrGeneration, gerr)
	}

	sources := make([]Source, len(hits))
	for i, h := range hits {
		sources[i] = Source{ID: h.ID, Source: h.Source, Index: h.Index, Score: h.Score}
	}
	answer := Answer{Answer: text, Sources: sources}
	if named, ok := s.generator.(modelNamer); ok {
		answer.Model = named.Model()
	}
	return answer, nil
}
