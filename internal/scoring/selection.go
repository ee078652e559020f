package scoring

// Selection is an ordered set of feature labels. Labels, not feature ids,
// are the identity of a need: two solutions defining the "same" feature
// under different ids still match the same selection.
type Selection []string

// NewSelection builds a selection, dropping duplicates and empty labels.
func NewSelection(labels ...string) Selection {
	var s Selection
	for _, l := range labels {
		s = s.With(l)
	}
	return s
}

// Has reports whether label is selected.
func (s Selection) Has(label string) bool {
	for _, l := range s {
		if l == label {
			return true
		}
	}
	return false
}

// With returns s plus label. s itself is not modified.
func (s Selection) With(label string) Selection {
	if label == "" || s.Has(label) {
		return s
	}
	out := make(Selection, len(s), len(s)+1)
	copy(out, s)
	return append(out, label)
}

// Without returns s minus label. s itself is not modified.
func (s Selection) Without(label string) Selection {
	out := make(Selection, 0, len(s))
	for _, l := range s {
		if l != label {
			out = append(out, l)
		}
	}
	return out
}

// Toggle adds label when absent and removes it when present.
func (s Selection) Toggle(label string) Selection {
	if s.Has(label) {
		return s.Without(label)
	}
	return s.With(label)
}

// Clone returns an independent copy.
func (s Selection) Clone() Selection {
	if s == nil {
		return nil
	}
	out := make(Selection, len(s))
	copy(out, s)
	return out
}
