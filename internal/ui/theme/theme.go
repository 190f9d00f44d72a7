// Package theme holds the terminal styles used by the mindpath CLI.
package theme

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mindpath/internal/profile"
	"github.com/abhisek/mindpath/internal/style"
)

// Color palette
var (
	Primary = lipgloss.Color("#8B5CF6") // Vivid Purple
	Accent  = lipgloss.Color("#F97316") // Orange
	Success = lipgloss.Color("#22C55E") // Green
	Error   = lipgloss.Color("#F43F5E") // Rose
	Text    = lipgloss.Color("#F8FAFC") // White
	TextDim = lipgloss.Color("#94A3B8") // Slate
	Border  = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Label = lipgloss.NewStyle().
		Foreground(TextDim).
		Width(18)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Good = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Bad = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
)

// styleColors gives each presentation style its own accent.
var styleColors = map[style.Style]string{
	style.StoryAnalogy: "#F97316",
	style.ExamSmart:    "#14B8A6",
	style.StepByStep:   "#38BDF8",
	style.VisualMental: "#8B5CF6",
}

// Rule is a horizontal separator of width cells.
func Rule(width int) string {
	return lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", width))
}

// Field renders one "label  value" line.
func Field(label string, value any) string {
	return Label.Render(label) + Body.Render(fmt.Sprint(value))
}

// Badge renders a presentation style in its accent color.
func Badge(s style.Style) string {
	c, ok := styleColors[s]
	if !ok {
		return Body.Render(string(s))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Bold(true).Render(string(s))
}

// ProfileCard renders a profile and the style it selects.
func ProfileCard(title string, p profile.Profile) string {
	sty, rule := style.Explain(p)
	lines := []string{
		Title.Render(title),
		Field("learning style", p.LearningStyle),
		Field("pace", p.Pace),
		Field("confidence", p.Confidence),
		Field("depth", p.DepthPreference),
		Field("accuracy", fmt.Sprintf("%d/%d (%.0f%%)", p.CorrectAnswers, p.TotalAnswers, p.Accuracy()*100)),
		Label.Render("style") + Badge(sty) + Hint.Render("  via "+rule),
	}
	return Card.Render(strings.Join(lines, "\n"))
}

// Check renders a success or failure mark.
func Check(ok bool) string {
	if ok {
		return Good.Render("✓")
	}
	return Bad.Render("✗")
}
