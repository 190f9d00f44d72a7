package profile

// Field names a mutable profile dimension.
type Field string

const (
	FieldLearningStyle   Field = "learning_style"
	FieldPace            Field = "pace"
	FieldConfidence      Field = "confidence"
	FieldDepthPreference Field = "depth_preference"
)

// Change records one field moving from one value to another.
type Change struct {
	Field Field  `json:"field"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// Delta is a proposed field-by-field mutation. Nil fields are left alone.
type Delta struct {
	LearningStyle   *LearningStyle
	Pace            *Pace
	Confidence      *Confidence
	DepthPreference *Depth

	// Reasons explains each proposed change in learner-facing language.
	Reasons []string
}

// SetLearningStyle proposes the learning style and records why.
func (d *Delta) SetLearningStyle(s LearningStyle, reason string) {
	d.LearningStyle = &s
	d.Reasons = append(d.Reasons, reason)
}

// SetPace proposes the pace and records why.
func (d *Delta) SetPace(p Pace, reason string) {
	d.Pace = &p
	d.Reasons = append(d.Reasons, reason)
}

// SetConfidence proposes the confidence band and records why.
func (d *Delta) SetConfidence(c Confidence, reason string) {
	d.Confidence = &c
	d.Reasons = append(d.Reasons, reason)
}

// SetDepthPreference proposes the depth preference and records why.
func (d *Delta) SetDepthPreference(v Depth, reason string) {
	d.DepthPreference = &v
	d.Reasons = append(d.Reasons, reason)
}

// Changes lists the fields of p that d would actually modify.
func (d Delta) Changes(p Profile) []Change {
	var out []Change
	if d.LearningStyle != nil && *d.LearningStyle != p.LearningStyle {
		out = append(out, Change{FieldLearningStyle, string(p.LearningStyle), string(*d.LearningStyle)})
	}
	if d.Pace != nil && *d.Pace != p.Pace {
		out = append(out, Change{FieldPace, string(p.Pace), string(*d.Pace)})
	}
	if d.Confidence != nil && *d.Confidence != p.Confidence {
		out = append(out, Change{FieldConfidence, string(p.Confidence), string(*d.Confidence)})
	}
	if d.DepthPreference != nil && *d.DepthPreference != p.DepthPreference {
		out = append(out, Change{FieldDepthPreference, string(p.DepthPreference), string(*d.DepthPreference)})
	}
	return out
}

// IsNoop reports whether applying d to p would leave p unchanged.
func (d Delta) IsNoop(p Profile) bool {
	return len(d.Changes(p)) == 0
}

// Apply returns a copy of p with d applied, along with the changes made.
// Every proposed value is validated first; on error p is returned untouched.
func (d Delta) Apply(p Profile) (Profile, []Change, error) {
	next := p
	if d.LearningStyle != nil {
		if !d.LearningStyle.Valid() {
			return p, nil, ErrInvalidValue
		}
		next.LearningStyle = *d.LearningStyle
	}
	if d.Pace != nil {
		if !d.Pace.Valid() {
			return p, nil, ErrInvalidValue
		}
		next.Pace = *d.Pace
	}
	if d.Confidence != nil {
		if !d.Confidence.Valid() {
			return p, nil, ErrInvalidValue
		}
		next.Confidence = *d.Confidence
	}
	if d.DepthPreference != nil {
		if !d.DepthPreference.Valid() {
			return p, nil, ErrInvalidValue
		}
		next.DepthPreference = *d.DepthPreference
	}
	return next, d.Changes(p), nil
}
