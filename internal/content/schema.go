package content

import "github.com/abhisek/mindpath/internal/llm"

var difficultyEnum = []any{"easy", "medium", "hard"}

// DiagnosticSchema defines the JSON schema for diagnostic question sets.
var DiagnosticSchema = &llm.Schema{
	Name:        "diagnostic-questions",
	Description: "A short diagnostic that probes knowledge and learning preferences",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":       map[string]any{"type": "string"},
						"question": map[string]any{"type": "string"},
						"options": map[string]any{
							"type":     "array",
							"items":    map[string]any{"type": "string"},
							"minItems": 2,
							"maxItems": 6,
						},
						"correct_answer": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"description": "Index of the correct option; 0 for preference probes",
						},
						"difficulty": map[string]any{"type": "string", "enum": difficultyEnum},
						"probe": map[string]any{
							"type": "string",
							"enum": []any{"knowledge", "learning-style", "depth-preference", "preference"},
						},
						"concept_tested": map[string]any{"type": "string"},
						"option_styles": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string", "enum": []any{"conceptual", "visual", "exam-focused"}},
							"description": "One learning style per option, for learning-style and preference probes",
						},
						"option_depths": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string", "enum": []any{"intuition-first", "formula-first"}},
							"description": "One depth preference per option, for depth-preference and preference probes",
						},
					},
					"required":             []any{"id", "question", "options", "correct_answer", "difficulty", "probe", "concept_tested"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// FeedbackSchema defines the JSON schema for single-sentence answer feedback.
var FeedbackSchema = &llm.Schema{
	Name:        "answer-feedback",
	Description: "One short, warm sentence of feedback",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"feedback": map[string]any{"type": "string"},
		},
		"required":             []any{"feedback"},
		"additionalProperties": false,
	},
}

// InsightsSchema defines the JSON schema for profile insights.
var InsightsSchema = &llm.Schema{
	Name:        "profile-insights",
	Description: "Two or three sentences describing how teaching will adapt",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"insights": map[string]any{"type": "string"},
		},
		"required":             []any{"insights"},
		"additionalProperties": false,
	},
}

// ExplanationSchema defines the JSON schema for style-conditioned explanations.
var ExplanationSchema = &llm.Schema{
	Name:        "explanation",
	Description: "An explanation with key takeaways and a follow-up question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"content": map[string]any{"type": "string"},
			"key_takeaways": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"maxItems": 3,
			},
			"follow_up_question": map[string]any{"type": "string"},
		},
		"required":             []any{"content", "key_takeaways", "follow_up_question"},
		"additionalProperties": false,
	},
}

// EvaluationSchema defines the JSON schema for explain-back grading.
var EvaluationSchema = &llm.Schema{
	Name:        "explain-back-eval",
	Description: "Grades a learner's explanation in their own words",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"understanding": map[string]any{"type": "string", "enum": []any{"correct", "partial", "poor"}},
			"feedback":      map[string]any{"type": "string"},
			"hint":          map[string]any{"type": "string"},
		},
		"required":             []any{"understanding", "feedback", "hint"},
		"additionalProperties": false,
	},
}

// MisconceptionSchema defines the JSON schema for misconception lookups.
var MisconceptionSchema = &llm.Schema{
	Name:        "misconception",
	Description: "The likely misconception behind a wrong answer and how to correct it",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"misconception_detected": map[string]any{"type": "boolean"},
			"misconception":          map[string]any{"type": "string"},
			"correction":             map[string]any{"type": "string"},
		},
		"required":             []any{"misconception_detected", "misconception", "correction"},
		"additionalProperties": false,
	},
}

// PracticeSchema defines the JSON schema for practice MCQs.
var PracticeSchema = &llm.Schema{
	Name:        "practice",
	Description: "Adaptive multiple-choice practice questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{"type": "string"},
						"options": map[string]any{
							"type":     "array",
							"items":    map[string]any{"type": "string"},
							"minItems": 4,
							"maxItems": 4,
						},
						"correct_answer": map[string]any{"type": "integer", "minimum": 0, "maximum": 3},
						"explanation":    map[string]any{"type": "string"},
						"difficulty":     map[string]any{"type": "string", "enum": difficultyEnum},
					},
					"required":             []any{"question", "options", "correct_answer", "explanation", "difficulty"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// FlashcardsSchema defines the JSON schema for revision flashcards.
var FlashcardsSchema = &llm.Schema{
	Name:        "flashcards",
	Description: "Question and answer cards for quick revision",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"cards": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"front": map[string]any{"type": "string"},
						"back":  map[string]any{"type": "string"},
					},
					"required":             []any{"front", "back"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"cards"},
		"additionalProperties": false,
	},
}

// SummarySchema defines the JSON schema for revision summaries.
var SummarySchema = &llm.Schema{
	Name:        "summary",
	Description: "A short revision summary and its key points",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{"type": "string"},
			"key_points": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"maxItems": 6,
			},
		},
		"required":             []any{"summary", "key_points"},
		"additionalProperties": false,
	},
}
