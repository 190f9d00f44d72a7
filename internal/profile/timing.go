package profile

import "fmt"

// Difficulty is the difficulty band of a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

func (d *Difficulty) UnmarshalText(b []byte) error {
	v, err := ParseDifficulty(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ParseDifficulty converts a wire string into a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	v := Difficulty(s)
	if !v.Valid() {
		return "", fmt.Errorf("%w: difficulty %q", ErrInvalidValue, s)
	}
	return v, nil
}

// Timing holds the response-time thresholds shared by the diagnostic
// scorer and the adaptation trigger. Thresholds are for a medium question;
// Weights scale them per difficulty.
type Timing struct {
	FastSeconds float64                `yaml:"fast_seconds"`
	SlowSeconds float64                `yaml:"slow_seconds"`
	Weights     map[Difficulty]float64 `yaml:"weights"`
}

// DefaultTiming returns the thresholds used when nothing is configured.
func DefaultTiming() Timing {
	return Timing{
		FastSeconds: 15,
		SlowSeconds: 45,
		Weights: map[Difficulty]float64{
			DifficultyEasy:   0.75,
			DifficultyMedium: 1.0,
			DifficultyHard:   1.5,
		},
	}
}

// Weight returns the multiplier for d. Unknown or unset difficulties count
// as medium.
func (t Timing) Weight(d Difficulty) float64 {
	if w, ok := t.Weights[d]; ok && w > 0 {
		return w
	}
	return 1.0
}

// FastFor is the fast threshold scaled for d.
func (t Timing) FastFor(d Difficulty) float64 {
	return t.FastSeconds * t.Weight(d)
}

// SlowFor is the slow threshold scaled for d.
func (t Timing) SlowFor(d Difficulty) float64 {
	return t.SlowSeconds * t.Weight(d)
}

// Normalize converts seconds spent on a question of difficulty d into
// medium-question seconds.
func (t Timing) Normalize(seconds float64, d Difficulty) float64 {
	return seconds / t.Weight(d)
}
