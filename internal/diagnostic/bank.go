package diagnostic

import (
	"slices"
	"strings"

	"github.com/abhisek/mindpath/internal/profile"
)

// Bank topic keys.
const (
	TopicOperatingSystems = "operating_systems"
	TopicDataStructures   = "data_structures"
	TopicAlgorithms       = "algorithms"
)

// DefaultTopic is served for topics the bank does not know.
const DefaultTopic = TopicOperatingSystems

var topicAliases = map[string]string{
	"os":                TopicOperatingSystems,
	"operating_systems": TopicOperatingSystems,
	"deadlock":          TopicOperatingSystems,
	"ds":                TopicDataStructures,
	"data_structures":   TopicDataStructures,
	"algo":              TopicAlgorithms,
	"algorithms":        TopicAlgorithms,
	"sorting":           TopicAlgorithms,
}

// NormalizeTopic maps a free-form topic to a bank key. ok is false when the
// topic has no bank entry.
func NormalizeTopic(topic string) (string, bool) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(topic)), " ", "_")
	k, ok := topicAliases[key]
	return k, ok
}

// BankTopics lists the topics with built-in questions.
func BankTopics() []string {
	return []string{TopicOperatingSystems, TopicDataStructures, TopicAlgorithms}
}

// TopicName is the display name for a bank topic key.
func TopicName(key string) string {
	switch key {
	case TopicOperatingSystems:
		return "Operating Systems"
	case TopicDataStructures:
		return "Data Structures"
	case TopicAlgorithms:
		return "Algorithms"
	}
	return key
}

// BankQuestions returns a copy of the built-in questions for topic, falling
// back to DefaultTopic.
func BankQuestions(topic string) []Question {
	key, ok := NormalizeTopic(topic)
	if !ok {
		key = DefaultTopic
	}
	src := bank[key]
	out := make([]Question, len(src))
	for i, q := range src {
		q.Options = slices.Clone(q.Options)
		q.OptionStyles = slices.Clone(q.OptionStyles)
		q.OptionDepths = slices.Clone(q.OptionDepths)
		out[i] = q
	}
	return out
}

var (
	styleByOption = []profile.LearningStyle{profile.Conceptual, profile.Visual, profile.ExamFocused, profile.ExamFocused}
	depthByOption = []profile.Depth{profile.IntuitionFirst, profile.IntuitionFirst, profile.FormulaFirst, profile.FormulaFirst}
)

var bank = map[string][]Question{
	TopicOperatingSystems: {
		{
			ID:            "os_1",
			Question:      "What happens when multiple processes need the same resource simultaneously?",
			Options:       []string{"They share it automatically", "Resource contention occurs, possibly leading to deadlock", "The faster process always wins", "The OS crashes"},
			CorrectIndex:  1,
			Difficulty:    profile.DifficultyMedium,
			Probe:         ProbeKnowledge,
			ConceptTested: "Resource Management",
		},
		{
			ID:            "os_2",
			Question:      "If you were explaining process scheduling to a friend, which analogy would help YOU understand it best?",
			Options:       []string{"A traffic signal managing cars at an intersection", "The formal definition: 'Algorithm that determines process execution order'", "A flowchart showing process states", "Practice problems from previous exams"},
			Difficulty:    profile.DifficultyEasy,
			Probe:         ProbeLearningStyle,
			ConceptTested: "Learning Style Detection",
			OptionStyles:  []profile.LearningStyle{profile.Conceptual, profile.ExamFocused, profile.Visual, profile.ExamFocused},
		},
		{
			ID:            "os_3",
			Question:      "Which condition is NOT required for a deadlock to occur?",
			Options:       []string{"Mutual Exclusion", "Hold and Wait", "Preemption", "Circular Wait"},
			CorrectIndex:  2,
			Difficulty:    profile.DifficultyHard,
			Probe:         ProbeKnowledge,
			ConceptTested: "Deadlock Conditions",
		},
		{
			ID:            "os_4",
			Question:      "When learning new concepts, I prefer to:",
			Options:       []string{"Start with real-world examples and stories, then learn the theory", "See diagrams and visual representations first", "Jump straight to definitions and formulas", "Practice problems and past exam questions immediately"},
			Difficulty:    profile.DifficultyEasy,
			Probe:         ProbePreference,
			ConceptTested: "Depth Preference Detection",
			OptionStyles:  styleByOption,
			OptionDepths:  depthByOption,
		},
		{
			ID:            "os_5",
			Question:      "In virtual memory, what is a page fault?",
			Options:       []string{"An error in the page table", "When a referenced page is not in physical memory", "When the page size is incorrectly configured", "A type of segmentation fault"},
			CorrectIndex:  1,
			Difficulty:    profile.DifficultyMedium,
			Probe:         ProbeKnowledge,
			ConceptTested: "Virtual Memory",
		},
		{
			ID:            "os_6",
			Question:      "Which scheduling algorithm can starve long-running processes?",
			Options:       []string{"Round Robin", "First Come First Served", "Shortest Job First", "None of them"},
			CorrectIndex:  2,
			Difficulty:    profile.DifficultyMedium,
			Probe:         ProbeKnowledge,
			ConceptTested: "CPU Scheduling",
		},
	},
	TopicDataStructures: {
		{
			ID:            "ds_1",
			Question:      "What is the time complexity of searching in a balanced BST?",
			Options:       []string{"O(1)", "O(log n)", "O(n)", "O(n²)"},
			CorrectIndex:  1,
			Difficulty:    profile.DifficultyMedium,
			Probe:         ProbeKnowledge,
			ConceptTested: "Tree Complexity",
		},
		{
			ID:            "ds_2",
			Question:      "Which data structure would you use for implementing an 'Undo' feature?",
			Options:       []string{"Queue", "Stack", "Array", "Linked List"},
			CorrectIndex:  1,
			Difficulty:    profile.DifficultyEasy,
			Probe:         ProbeKnowledge,
			ConceptTested: "Stack Applications",
		},
		{
			ID:            "ds_3",
			Question:      "When I encounter a new data structure, I first want to:",
			Options:       []string{"Understand WHY it was invented - what problem it solves", "See a visual diagram of how it looks", "Memorize the operations and their complexities", "Solve coding problems using it"},
			Difficulty:    profile.DifficultyEasy,
			Probe:         ProbePreference,
			ConceptTested: "Learning Style Detection",
			OptionStyles:  styleByOption,
			OptionDepths:  depthByOption,
		},
		{
			ID:            "ds_4",
			Question:      "What is the main advantage of a hash table over a BST?",
			Options:       []string{"Ordered traversal", "O(1) average case lookup", "Lower memory usage", "Simpler implementation"},
			CorrectIndex:  1,
			Difficulty:    profile.DifficultyMedium,
			Probe:         ProbeKnowledge,
			ConceptTested: "Hash Tables",
		},
		{
			ID:            "ds_5",
			Question:      "In a heap, what is the relationship between a parent and its children?",
			Options:       []string{"Parent is always smaller (min-heap) or larger (max-heap)", "Children are always equal to parent", "No specific relationship", "Parent is the average of children"},
			CorrectIndex:  0,
			Difficulty:    profile.DifficultyMedium,
			Probe:         ProbeKnowledge,
			ConceptTested: "Heap Property",
		},
		{
			ID:            "ds_6",
			Question:      "To really trust that a linked list works, I want to:",
			Options:       []string{"Hear why pointers beat shifting array elements", "Trace the boxes and arrows on paper", "Derive the cost of each operation", "Implement it and run the tests"},
			Difficulty:    profile.DifficultyEasy,
			Probe:         ProbeDepthPreference,
			ConceptTested: "Depth Preference Detection",
			OptionDepths:  depthByOption,
		},
	},
	TopicAlgorithms: {
		{
			ID:            "algo_1",
			Question:      "Which sorting algorithm has the best average-case time complexity?",
			Options:       []string{"Bubble Sort", "Quick Sort", "Selection Sort", "Insertion Sort"},
			CorrectIndex:  1,
			Difficulty:    profile.DifficultyEasy,
			Probe:         ProbeKnowledge,
			ConceptTested: "Sorting Complexity",
		},
		{
			ID:            "algo_2",
			Question:      "When would you choose BFS over DFS?",
			Options:       []string{"When memory is limited", "When finding the shortest path in unweighted graphs", "When the graph is very deep", "When you need to visit all nodes"},
			CorrectIndex:  1,
			Difficulty:    profile.DifficultyMedium,
			Probe:         ProbeKnowledge,
			ConceptTested: "Graph Traversal",
		},
		{
			ID:            "algo_3",
			Question:      "What is the key idea behind dynamic programming?",
			Options:       []string{"Always use recursion", "Store and reuse solutions to overlapping subproblems", "Divide the problem into independent parts", "Use greedy choices at each step"},
			CorrectIndex:  1,
			Difficulty:    profile.DifficultyHard,
			Probe:         ProbeKnowledge,
			ConceptTested: "Dynamic Programming",
		},
		{
			ID:            "algo_4",
			Question:      "I feel most confident when I can:",
			Options:       []string{"Relate algorithms to everyday situations", "See step-by-step execution traces", "Remember the exact steps and formula", "Practice with competitive programming problems"},
			Difficulty:    profile.DifficultyEasy,
			Probe:         ProbePreference,
			ConceptTested: "Confidence Style",
			OptionStyles:  styleByOption,
			OptionDepths:  depthByOption,
		},
		{
			ID:            "algo_5",
			Question:      "What is the time complexity of binary search?",
			Options:       []string{"O(1)", "O(log n)", "O(n)", "O(n log n)"},
			CorrectIndex:  1,
			Difficulty:    profile.DifficultyEasy,
			Probe:         ProbeKnowledge,
			ConceptTested: "Search Algorithms",
		},
		{
			ID:            "algo_6",
			Question:      "Which technique does merge sort rely on?",
			Options:       []string{"Greedy choice", "Divide and conquer", "Backtracking", "Hashing"},
			CorrectIndex:  1,
			Difficulty:    profile.DifficultyMedium,
			Probe:         ProbeKnowledge,
			ConceptTested: "Divide and Conquer",
		},
	},
}
