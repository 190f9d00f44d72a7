package content

import (
	"fmt"
	"strings"

	"github.com/abhisek/mindpath/internal/diagnostic"
	"github.com/abhisek/mindpath/internal/misconception"
	"github.com/abhisek/mindpath/internal/profile"
	"github.com/abhisek/mindpath/internal/style"
)

const tutorSystemPrompt = `You are a patient computer science tutor for university students. You adapt how you teach to each learner's profile. Use plain text; no markdown headings.`

const diagnosticSystemPrompt = `You design short diagnostics that reveal both what a learner knows and how they prefer to learn.`

const evaluatorSystemPrompt = `You grade a learner's explanation of a computer science concept. Judge understanding, not wording or grammar.`

func writeProfile(b *strings.Builder, p profile.Profile) {
	b.WriteString("Learner Profile:\n")
	fmt.Fprintf(b, "- Learning style: %s\n", p.LearningStyle)
	fmt.Fprintf(b, "- Pace: %s\n", p.Pace)
	fmt.Fprintf(b, "- Confidence: %s\n", p.Confidence)
	fmt.Fprintf(b, "- Depth preference: %s\n", p.DepthPreference)
	if p.TotalAnswers > 0 {
		fmt.Fprintf(b, "- Diagnostic accuracy: %.0f%% (%d/%d)\n", p.Accuracy()*100, p.CorrectAnswers, p.TotalAnswers)
	}
}

// ProfileContext renders p and the style it selects as the plain-text block
// the tutor prompts carry.
func ProfileContext(p profile.Profile) string {
	var b strings.Builder
	writeProfile(&b, p)
	fmt.Fprintf(&b, "- Teaching style: %s\n", style.Select(p))
	return b.String()
}

func buildDiagnosticMessage(topic string, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", topic)
	fmt.Fprintf(&b, "Number of questions: %d\n", count)
	b.WriteString(`
Instructions:
1. Mix probe types. Include at least two "knowledge" questions with one correct option, one "learning-style" question, and one "depth-preference" or "preference" question.
2. Knowledge questions test understanding, not recall, and span easy, medium and hard.
3. For learning-style probes, give option_styles with one style per option (conceptual, visual, exam-focused).
4. For depth-preference probes, give option_depths with one value per option (intuition-first, formula-first). A "preference" probe gives both.
5. Preference probes have no wrong answer; set correct_answer to 0.
6. Use short unique ids such as "q1", "q2".`)
	return b.String()
}

func buildFeedbackMessage(q diagnostic.Question, correct bool) string {
	if correct {
		return "Write one brief, encouraging sentence for a correct answer. Be warm but not over the top."
	}
	concept := q.ConceptTested
	if concept == "" {
		concept = q.Question
	}
	return fmt.Sprintf("Write one supportive sentence for an incorrect answer. The concept being tested was: %s. Hint that we'll explore it together.", concept)
}

func buildInsightsMessage(p profile.Profile, s style.Style) string {
	var b strings.Builder
	writeProfile(&b, p)
	fmt.Fprintf(&b, "\nChosen teaching style: %s (%s)\n", s, style.Describe(s))
	b.WriteString("\nWrite 2-3 warm, personal sentences explaining what the diagnostic revealed and how lessons will adapt.")
	return b.String()
}

func paceGuidance(p profile.Pace) string {
	switch p {
	case profile.PaceSlow:
		return "take your time and be detailed"
	case profile.PaceFast:
		return "be concise"
	}
	return "keep a balanced pace"
}

func confidenceGuidance(c profile.Confidence) string {
	switch c {
	case profile.ConfidenceLow:
		return "be extra encouraging and supportive"
	case profile.ConfidenceHigh:
		return "challenge them appropriately"
	}
	return "give balanced encouragement"
}

func buildExplainMessage(req ExplainRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n\n", req.Topic)
	writeProfile(&b, req.Profile)
	fmt.Fprintf(&b, "\nTeaching style: %s\n%s\n", req.Style, style.Instructions(req.Style))
	if req.Reexplain() {
		fmt.Fprintf(&b, "\nThis is a re-explanation. The previous %s approach did not work; use a completely different approach and break things down more simply.\n", req.Previous)
	}
	fmt.Fprintf(&b, "\nPace: %s. Confidence: %s. Depth: %s.\n",
		paceGuidance(req.Profile.Pace), confidenceGuidance(req.Profile.Confidence), req.Profile.DepthPreference)
	b.WriteString("\nEnd with exactly 3 key takeaways and one follow-up question that checks understanding.")
	return b.String()
}

func buildEvaluationMessage(req EvaluationRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	if req.Question != "" {
		fmt.Fprintf(&b, "Question: %s\n", req.Question)
	}
	fmt.Fprintf(&b, "Learner's explanation: %s\n", req.Explanation)
	fmt.Fprintf(&b, "Learner confidence: %s\n", req.Profile.Confidence)
	b.WriteString(`
Grade understanding as "correct", "partial" or "poor". Give one sentence of feedback suited to their confidence, and a hint (not the answer) if they are not fully correct; otherwise an empty hint.`)
	return b.String()
}

func buildMisconceptionMessage(in misconception.Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", in.Topic)
	if in.Question != "" {
		fmt.Fprintf(&b, "Question: %s\n", in.Question)
	}
	switch in.Type {
	case misconception.InputMCQ:
		fmt.Fprintf(&b, "The learner chose this incorrect answer: %s\n", in.Text)
	default:
		fmt.Fprintf(&b, "The learner explained it as: %s\n", in.Text)
		if in.Understanding != "" {
			fmt.Fprintf(&b, "Graded understanding: %s\n", in.Understanding)
		}
	}
	b.WriteString(`
Identify the most likely misconception behind this answer in one sentence, and a one or two sentence correction. If the answer shows no real misconception (a slip or typo), set misconception_detected to false.`)
	return b.String()
}

func buildPracticeMessage(topic string, p profile.Profile, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d multiple-choice questions on: %s\n\n", count, topic)
	writeProfile(&b, p)

	mix := difficultyMix(p.Confidence, count)
	tally := map[profile.Difficulty]int{}
	for _, d := range mix {
		tally[d]++
	}
	fmt.Fprintf(&b, "\nDifficulty distribution: %d easy, %d medium, %d hard\n",
		tally[profile.DifficultyEasy], tally[profile.DifficultyMedium], tally[profile.DifficultyHard])
	b.WriteString(`
Requirements:
- Test understanding, not recall; include application questions.
- Exactly 4 options per question with plausible distractors.
- Add a brief explanation of the correct answer.`)
	return b.String()
}

func buildFlashcardsMessage(topic string, p profile.Profile, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write %d revision flashcards on: %s\n\n", count, topic)
	writeProfile(&b, p)
	b.WriteString(`
Requirements:
- The front is a short question or term; the back answers it in one or two sentences.
- Cover distinct ideas; no two cards test the same fact.`)
	return b.String()
}

func buildSummaryMessage(topic string, p profile.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summarize for revision: %s\n\n", topic)
	writeProfile(&b, p)
	fmt.Fprintf(&b, "\nPresentation: %s\n", style.Instructions(style.Select(p)))
	b.WriteString(`
Write a summary of at most 120 words and list up to 6 key points.`)
	return b.String()
}
