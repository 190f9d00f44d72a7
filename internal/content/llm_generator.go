package content

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/abhisek/mindpath/internal/adaptation"
	"github.com/abhisek/mindpath/internal/diagnostic"
	"github.com/abhisek/mindpath/internal/llm"
	"github.com/abhisek/mindpath/internal/misconception"
	"github.com/abhisek/mindpath/internal/profile"
	"github.com/abhisek/mindpath/internal/style"
)

// Config holds generation settings.
type Config struct {
	Temperature float64 `yaml:"temperature"`

	QuestionMaxTokens    int `yaml:"question_max_tokens"`
	FeedbackMaxTokens    int `yaml:"feedback_max_tokens"`
	ExplanationMaxTokens int `yaml:"explanation_max_tokens"`
	EvaluationMaxTokens  int `yaml:"evaluation_max_tokens"`

	// Timeout bounds each generation, retries included. Zero means no bound
	// beyond the caller's context.
	Timeout time.Duration `yaml:"-"`
}

// DefaultConfig returns sensible defaults for content generation.
func DefaultConfig() Config {
	return Config{
		Temperature:          0.7,
		QuestionMaxTokens:    2048,
		FeedbackMaxTokens:    128,
		ExplanationMaxTokens: 1500,
		EvaluationMaxTokens:  384,
		Timeout:              30 * time.Second,
	}
}

// LLMGenerator implements Generator over an llm.Provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// NewLLMGenerator creates a generator backed by provider.
func NewLLMGenerator(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

func (g *LLMGenerator) generate(ctx context.Context, purpose, system, prompt string, schema *llm.Schema, maxTokens int, temperature float64, out any) error {
	ctx = llm.WithPurpose(ctx, purpose)
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	req := llm.UserPrompt(system, prompt, schema, maxTokens)
	req.Temperature = temperature

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return fmt.Errorf("%s: %w", purpose, err)
	}
	if err := resp.Decode(out); err != nil {
		return fmt.Errorf("%s: %w", purpose, err)
	}
	return nil
}

type questionsOutput struct {
	Questions []diagnostic.Question `json:"questions"`
}

func (g *LLMGenerator) DiagnosticQuestions(ctx context.Context, topic string, count int) ([]diagnostic.Question, error) {
	var out questionsOutput
	err := g.generate(ctx, llm.PurposeDiagnostic, diagnosticSystemPrompt, buildDiagnosticMessage(topic, count),
		DiagnosticSchema, g.config.QuestionMaxTokens, g.config.Temperature, &out)
	if err != nil {
		return nil, err
	}
	if len(out.Questions) == 0 {
		return nil, fmt.Errorf("diagnostic questions: %w", ErrNoContent)
	}
	return out.Questions, nil
}

type feedbackOutput struct {
	Feedback string `json:"feedback"`
}

func (g *LLMGenerator) AnswerFeedback(ctx context.Context, q diagnostic.Question, correct bool) (string, error) {
	var out feedbackOutput
	// Feedback is short and meant to vary, so it runs hotter.
	err := g.generate(ctx, llm.PurposeFeedback, tutorSystemPrompt, buildFeedbackMessage(q, correct),
		FeedbackSchema, g.config.FeedbackMaxTokens, 0.9, &out)
	if err != nil {
		return "", err
	}
	return nonEmpty(out.Feedback, "answer feedback")
}

type insightsOutput struct {
	Insights string `json:"insights"`
}

func (g *LLMGenerator) Insights(ctx context.Context, p profile.Profile, s style.Style) (string, error) {
	var out insightsOutput
	err := g.generate(ctx, llm.PurposeInsights, tutorSystemPrompt, buildInsightsMessage(p, s),
		InsightsSchema, g.config.EvaluationMaxTokens, 0.8, &out)
	if err != nil {
		return "", err
	}
	return nonEmpty(out.Insights, "insights")
}

type explanationOutput struct {
	Content          string   `json:"content"`
	KeyTakeaways     []string `json:"key_takeaways"`
	FollowUpQuestion string   `json:"follow_up_question"`
}

func (g *LLMGenerator) Explain(ctx context.Context, req ExplainRequest) (*Explanation, error) {
	var out explanationOutput
	err := g.generate(ctx, llm.PurposeExplanation, tutorSystemPrompt, buildExplainMessage(req),
		ExplanationSchema, g.config.ExplanationMaxTokens, g.config.Temperature, &out)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.Content) == "" {
		return nil, fmt.Errorf("explanation: %w", ErrNoContent)
	}
	if len(out.KeyTakeaways) == 0 {
		out.KeyTakeaways = defaultTakeaways()
	}
	if out.FollowUpQuestion == "" {
		out.FollowUpQuestion = defaultFollowUp
	}
	return &Explanation{
		Topic:            req.Topic,
		Content:          out.Content,
		KeyTakeaways:     out.KeyTakeaways,
		FollowUpQuestion: out.FollowUpQuestion,
		StyleUsed:        req.Style,
		ProfileUsed:      req.Profile,
	}, nil
}

func (g *LLMGenerator) EvaluateExplanation(ctx context.Context, req EvaluationRequest) (*Evaluation, error) {
	var out Evaluation
	// Grading should be stable across retries.
	err := g.generate(ctx, llm.PurposeExplainBack, evaluatorSystemPrompt, buildEvaluationMessage(req),
		EvaluationSchema, g.config.EvaluationMaxTokens, 0.2, &out)
	if err != nil {
		return nil, err
	}
	if !out.Understanding.Valid() {
		return nil, fmt.Errorf("explain-back evaluation: %w: understanding %q", adaptation.ErrInvalidEvent, out.Understanding)
	}
	return &out, nil
}

func (g *LLMGenerator) DetectMisconception(ctx context.Context, in misconception.Input) (*misconception.Finding, error) {
	var out misconception.Finding
	err := g.generate(ctx, llm.PurposeMisconception, tutorSystemPrompt, buildMisconceptionMessage(in),
		MisconceptionSchema, g.config.EvaluationMaxTokens, 0.3, &out)
	if err != nil {
		return nil, err
	}
	if !out.Detected {
		return &misconception.Finding{}, nil
	}
	return &out, nil
}

type practiceOutput struct {
	Questions []PracticeQuestion `json:"questions"`
}

func (g *LLMGenerator) Practice(ctx context.Context, topic string, p profile.Profile, count int) ([]PracticeQuestion, error) {
	var out practiceOutput
	err := g.generate(ctx, llm.PurposePractice, tutorSystemPrompt, buildPracticeMessage(topic, p, count),
		PracticeSchema, g.config.QuestionMaxTokens, g.config.Temperature, &out)
	if err != nil {
		return nil, err
	}
	qs := make([]PracticeQuestion, 0, len(out.Questions))
	for _, q := range out.Questions {
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			continue
		}
		qs = append(qs, q)
	}
	if len(qs) == 0 {
		return nil, fmt.Errorf("practice: %w", ErrNoContent)
	}
	if len(qs) > count {
		qs = qs[:count]
	}
	return qs, nil
}

type flashcardsOutput struct {
	Cards []Flashcard `json:"cards"`
}

func (g *LLMGenerator) Flashcards(ctx context.Context, topic string, p profile.Profile, count int) ([]Flashcard, error) {
	var out flashcardsOutput
	err := g.generate(ctx, llm.PurposeFlashcards, tutorSystemPrompt, buildFlashcardsMessage(topic, p, count),
		FlashcardsSchema, g.config.QuestionMaxTokens, g.config.Temperature, &out)
	if err != nil {
		return nil, err
	}
	cards := slices.DeleteFunc(out.Cards, func(c Flashcard) bool {
		return strings.TrimSpace(c.Front) == "" || strings.TrimSpace(c.Back) == ""
	})
	if len(cards) == 0 {
		return nil, fmt.Errorf("flashcards: %w", ErrNoContent)
	}
	if len(cards) > count {
		cards = cards[:count]
	}
	return cards, nil
}

func (g *LLMGenerator) Summarize(ctx context.Context, topic string, p profile.Profile) (*Summary, error) {
	var out Summary
	err := g.generate(ctx, llm.PurposeSummary, tutorSystemPrompt, buildSummaryMessage(topic, p),
		SummarySchema, g.config.ExplanationMaxTokens, g.config.Temperature, &out)
	if err != nil {
		return nil, err
	}
	if out.Text, err = nonEmpty(out.Text, "summary"); err != nil {
		return nil, err
	}
	return &out, nil
}

func nonEmpty(s, what string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%s: %w", what, ErrNoContent)
	}
	return s, nil
}
