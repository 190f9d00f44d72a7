package content

import (
	"context"

	"github.com/abhisek/mindpath/internal/diagnostic"
	"github.com/abhisek/mindpath/internal/llm"
	"github.com/abhisek/mindpath/internal/logger"
	"github.com/abhisek/mindpath/internal/misconception"
	"github.com/abhisek/mindpath/internal/profile"
	"github.com/abhisek/mindpath/internal/style"
)

// FallbackGenerator serves from primary and degrades to the offline bank
// for diagnostic questions, feedback and insights. Every other error
// propagates.
type FallbackGenerator struct {
	primary Generator
	bank    *BankGenerator
	engine  *diagnostic.Engine
	log     *logger.Logger
}

// NewFallback wraps primary. Diagnostic questions from primary must pass
// engine.Prepare or the bank set is used instead.
func NewFallback(primary Generator, engine *diagnostic.Engine, log *logger.Logger) *FallbackGenerator {
	if log == nil {
		log = logger.Nop()
	}
	return &FallbackGenerator{primary: primary, bank: NewBankGenerator(), engine: engine, log: log}
}

// New returns the generator for provider: the offline bank when provider
// is nil, otherwise an LLM generator behind the fallback policy.
func New(provider llm.Provider, cfg Config, engine *diagnostic.Engine, log *logger.Logger) Generator {
	if provider == nil {
		return NewBankGenerator()
	}
	return NewFallback(NewLLMGenerator(provider, cfg), engine, log)
}

// DiagnosticQuestions asks primary and serves the bank set when primary fails
// or returns a set engine.Prepare rejects. Cancellation is not masked.
func (f *FallbackGenerator) DiagnosticQuestions(ctx context.Context, topic string, count int) ([]diagnostic.Question, error) {
	qs, err := f.primary.DiagnosticQuestions(ctx, topic, count)
	if err == nil {
		prepared, perr := f.engine.Prepare(qs)
		if perr == nil {
			return prepared, nil
		}
		err = perr
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	f.log.Warn("diagnostic generation failed, using question bank", "topic", topic, "error", err)
	return f.bank.DiagnosticQuestions(ctx, topic, count)
}

// AnswerFeedback falls back to a fixed correct/incorrect line.
func (f *FallbackGenerator) AnswerFeedback(ctx context.Context, q diagnostic.Question, correct bool) (string, error) {
	s, err := f.primary.AnswerFeedback(ctx, q, correct)
	if err != nil {
		f.log.Warn("feedback generation failed, using placeholder", "question_id", q.ID, "error", err)
		return placeholderFeedback(q, correct), nil
	}
	return s, nil
}

// Insights falls back to a summary built from the profile fields.
func (f *FallbackGenerator) Insights(ctx context.Context, p profile.Profile, s style.Style) (string, error) {
	out, err := f.primary.Insights(ctx, p, s)
	if err != nil {
		f.log.Warn("insights generation failed, using placeholder", "error", err)
		return placeholderInsights(p, s), nil
	}
	return out, nil
}

// Explain delegates to primary.
func (f *FallbackGenerator) Explain(ctx context.Context, req ExplainRequest) (*Explanation, error) {
	return f.primary.Explain(ctx, req)
}

// EvaluateExplanation delegates to primary.
func (f *FallbackGenerator) EvaluateExplanation(ctx context.Context, req EvaluationRequest) (*Evaluation, error) {
	return f.primary.EvaluateExplanation(ctx, req)
}

// DetectMisconception propagates errors; callers omit the finding rather
// than show a guess.
func (f *FallbackGenerator) DetectMisconception(ctx context.Context, in misconception.Input) (*misconception.Finding, error) {
	return f.primary.DetectMisconception(ctx, in)
}

// Practice delegates to primary.
func (f *FallbackGenerator) Practice(ctx context.Context, topic string, p profile.Profile, count int) ([]PracticeQuestion, error) {
	return f.primary.Practice(ctx, topic, p, count)
}

// Flashcards delegates to primary.
func (f *FallbackGenerator) Flashcards(ctx context.Context, topic string, p profile.Profile, count int) ([]Flashcard, error) {
	return f.primary.Flashcards(ctx, topic, p, count)
}

// Summarize delegates to primary.
func (f *FallbackGenerator) Summarize(ctx context.Context, topic string, p profile.Profile) (*Summary, error) {
	return f.primary.Summarize(ctx, topic, p)
}
