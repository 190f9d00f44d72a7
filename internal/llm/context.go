package llm

import "context"

type purposeKey struct{}

// Purposes used by the content generator.
const (
	PurposeDiagnostic    = "diagnostic-questions"
	PurposeFeedback      = "answer-feedback"
	PurposeInsights      = "profile-insights"
	PurposeExplanation   = "explanation"
	PurposeExplainBack   = "explain-back-eval"
	PurposeMisconception = "misconception"
	PurposePractice      = "practice"
	PurposeFlashcards    = "flashcards"
	PurposeSummary       = "summary"
)

// WithPurpose labels the request for the request log.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok {
		return v
	}
	return "unknown"
}
