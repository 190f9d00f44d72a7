package content

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/abhisek/mindpath/internal/adaptation"
	"github.com/abhisek/mindpath/internal/diagnostic"
	"github.com/abhisek/mindpath/internal/misconception"
	"github.com/abhisek/mindpath/internal/profile"
	"github.com/abhisek/mindpath/internal/style"
)

const defaultFollowUp = "Can you explain this concept back to me in your own words?"

func defaultTakeaways() []string {
	return []string{"Understanding the core concept", "Seeing real-world applications", "Knowing when to apply it"}
}

// BankGenerator implements Generator offline from the built-in question
// bank and fixed templates. Its output is deterministic.
type BankGenerator struct{}

// NewBankGenerator returns the offline generator.
func NewBankGenerator() *BankGenerator {
	return &BankGenerator{}
}

// DiagnosticQuestions returns the first count bank questions for topic.
func (BankGenerator) DiagnosticQuestions(_ context.Context, topic string, count int) ([]diagnostic.Question, error) {
	qs := diagnostic.BankQuestions(topic)
	if count > 0 && len(qs) > count {
		qs = qs[:count]
	}
	return qs, nil
}

// AnswerFeedback returns a fixed line for the outcome.
func (BankGenerator) AnswerFeedback(_ context.Context, q diagnostic.Question, correct bool) (string, error) {
	return placeholderFeedback(q, correct), nil
}

func placeholderFeedback(q diagnostic.Question, correct bool) string {
	switch {
	case !q.Probe.IsKnowledge():
		return "Thanks, that tells me a lot about how you like to learn."
	case correct:
		return "Nice work, you've got a solid handle on this one."
	case q.ConceptTested != "":
		return fmt.Sprintf("Not quite. %s can be tricky, and we'll explore it together.", q.ConceptTested)
	}
	return "Not quite, but that's what we're here for. We'll explore it together."
}

// Insights describes the profile and the style it selects.
func (BankGenerator) Insights(_ context.Context, p profile.Profile, s style.Style) (string, error) {
	return placeholderInsights(p, s), nil
}

func placeholderInsights(p profile.Profile, s style.Style) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You seem to learn best through %s, so that's where we'll start.", style.Describe(s))
	switch p.Pace {
	case profile.PaceSlow:
		b.WriteString(" We'll take things one careful step at a time.")
	case profile.PaceFast:
		b.WriteString(" You move quickly, so explanations will stay concise.")
	}
	if p.Confidence == profile.ConfidenceLow {
		b.WriteString(" Every expert started where you are, and I'll adjust whenever something doesn't click.")
	} else {
		b.WriteString(" If something doesn't click, I'll switch approaches.")
	}
	return b.String()
}

// Explain fills the template for req.Style.
func (BankGenerator) Explain(_ context.Context, req ExplainRequest) (*Explanation, error) {
	topic := displayTopic(req.Topic)
	var b strings.Builder
	if req.Reexplain() {
		fmt.Fprintf(&b, "Let's try %s instead.\n\n", style.Describe(req.Style))
	}
	switch req.Style {
	case style.StoryAnalogy:
		fmt.Fprintf(&b, "Picture a busy railway junction. Trains are programs, tracks are shared resources, and the signal operator is the system deciding who goes next. %s is about how that operator keeps every train moving without collisions.\n\nSo basically, %s is about sharing scarce things fairly and safely.", topic, strings.ToLower(topic))
	case style.StepByStep:
		fmt.Fprintf(&b, "Step 1: State what %s is responsible for.\nStep 2: List the inputs it works with.\nStep 3: Apply its rules to a small example.\nStep 4: Check the result against the definition.", topic)
	case style.ExamSmart:
		fmt.Fprintf(&b, "Definition: %s covers the rules and mechanisms examiners expect you to state precisely.\nKey points: define the terms, give one example, state the trade-off.\nExam pattern: \"Define, illustrate, compare.\"", topic)
	case style.VisualMental:
		fmt.Fprintf(&b, "Draw three boxes left to right: [request] -> [%s] -> [result]. Arrows show what flows between them; anything that loops back is where problems appear.", topic)
	default:
		return nil, fmt.Errorf("explain: unknown style %q", req.Style)
	}
	return &Explanation{
		Topic:            req.Topic,
		Content:          b.String(),
		KeyTakeaways:     defaultTakeaways(),
		FollowUpQuestion: defaultFollowUp,
		StyleUsed:        req.Style,
		ProfileUsed:      req.Profile,
	}, nil
}

// EvaluateExplanation grades by overlap with the topic's vocabulary.
func (BankGenerator) EvaluateExplanation(_ context.Context, req EvaluationRequest) (*Evaluation, error) {
	words := tokenize(req.Explanation)
	if len(words) < 5 {
		return &Evaluation{
			Understanding: adaptation.UnderstandingPoor,
			Feedback:      "Thanks for trying! Could you say a bit more?",
			Hint:          "Describe what the concept does and give one example.",
		}, nil
	}

	vocab := topicVocabulary(req.Topic, req.Question)
	hits := 0
	for w := range words {
		if vocab[w] {
			hits++
		}
	}
	switch {
	case hits >= 3:
		return &Evaluation{Understanding: adaptation.UnderstandingCorrect, Feedback: "That's a clear explanation, well done."}, nil
	case hits >= 1:
		return &Evaluation{
			Understanding: adaptation.UnderstandingPartial,
			Feedback:      "You're on the right track.",
			Hint:          "Try connecting it to the key terms of the topic.",
		}, nil
	}
	return &Evaluation{
		Understanding: adaptation.UnderstandingPoor,
		Feedback:      "Thank you for trying! Let me help clarify this further.",
		Hint:          "Start from what problem the concept solves.",
	}, nil
}

// DetectMisconception names the concept behind the input without guessing
// at a specific error.
func (BankGenerator) DetectMisconception(_ context.Context, in misconception.Input) (*misconception.Finding, error) {
	return placeholderFinding(in), nil
}

func placeholderFinding(in misconception.Input) *misconception.Finding {
	topic := displayTopic(in.Topic)
	return &misconception.Finding{
		Detected:      true,
		Misconception: fmt.Sprintf("This answer suggests a mix-up in how %s works.", strings.ToLower(topic)),
		Correction:    fmt.Sprintf("Revisit the core definition of %s and check each option against it.", strings.ToLower(topic)),
	}
}

// Practice serves the bank's knowledge questions, easiest first for
// unsure learners and hardest first for confident ones.
func (BankGenerator) Practice(_ context.Context, topic string, p profile.Profile, count int) ([]PracticeQuestion, error) {
	var qs []PracticeQuestion
	for _, q := range diagnostic.BankQuestions(topic) {
		if !q.Probe.IsKnowledge() {
			continue
		}
		qs = append(qs, PracticeQuestion{
			Question:     q.Question,
			Options:      q.Options,
			CorrectIndex: q.CorrectIndex,
			Explanation:  fmt.Sprintf("The answer is %q. This checks %s.", q.Options[q.CorrectIndex], q.ConceptTested),
			Difficulty:   q.Difficulty,
		})
	}

	rank := map[profile.Difficulty]int{profile.DifficultyEasy: 0, profile.DifficultyMedium: 1, profile.DifficultyHard: 2}
	switch p.Confidence {
	case profile.ConfidenceLow:
		slices.SortStableFunc(qs, func(a, b PracticeQuestion) int { return rank[a.Difficulty] - rank[b.Difficulty] })
	case profile.ConfidenceHigh:
		slices.SortStableFunc(qs, func(a, b PracticeQuestion) int { return rank[b.Difficulty] - rank[a.Difficulty] })
	}
	if count > 0 && len(qs) > count {
		qs = qs[:count]
	}
	if len(qs) == 0 {
		return nil, fmt.Errorf("practice: %w", ErrNoContent)
	}
	return qs, nil
}

// Flashcards turns the bank's knowledge questions into question/answer
// cards, ordered as Practice orders them.
func (b BankGenerator) Flashcards(ctx context.Context, topic string, p profile.Profile, count int) ([]Flashcard, error) {
	qs, err := b.Practice(ctx, topic, p, count)
	if err != nil {
		return nil, fmt.Errorf("flashcards: %w", ErrNoContent)
	}
	cards := make([]Flashcard, len(qs))
	for i, q := range qs {
		cards[i] = Flashcard{Front: q.Question, Back: q.Options[q.CorrectIndex]}
	}
	return cards, nil
}

// Summarize lists the concepts the bank tests for topic.
func (BankGenerator) Summarize(_ context.Context, topic string, p profile.Profile) (*Summary, error) {
	var points []string
	for _, q := range diagnostic.BankQuestions(topic) {
		if q.Probe.IsKnowledge() && q.ConceptTested != "" && !slices.Contains(points, q.ConceptTested) {
			points = append(points, q.ConceptTested)
		}
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("summary: %w", ErrNoContent)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s comes down to a few ideas: %s.", displayTopic(topic), strings.Join(points, ", "))
	if p.Confidence == profile.ConfidenceLow {
		b.WriteString(" Take them one at a time; each builds on the last.")
	}
	return &Summary{Text: b.String(), KeyPoints: points}, nil
}

var stopwords = map[string]bool{
	"that": true, "this": true, "with": true, "from": true, "what": true, "when": true,
	"which": true, "have": true, "there": true, "their": true, "they": true, "then": true,
	"than": true, "into": true, "your": true, "about": true, "would": true, "does": true,
}

func tokenize(s string) map[string]bool {
	out := map[string]bool{}
	for _, f := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len(f) >= 4 && !stopwords[f] {
			out[f] = true
		}
	}
	return out
}

func topicVocabulary(topic, question string) map[string]bool {
	vocab := tokenize(topic + " " + question)
	for _, q := range diagnostic.BankQuestions(topic) {
		if !q.Probe.IsKnowledge() {
			continue
		}
		for w := range tokenize(q.ConceptTested + " " + q.Options[q.CorrectIndex]) {
			vocab[w] = true
		}
	}
	return vocab
}

func displayTopic(topic string) string {
	t := strings.TrimSpace(strings.ReplaceAll(topic, "_", " "))
	if t == "" {
		return "This topic"
	}
	r := []rune(t)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
