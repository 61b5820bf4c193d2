package model

import (
	"fmt"

	"github.com/rivo/uniseg"
)

// TextRun is a leaf node: a string payload plus an attribute bag.
// Runs are owned by the document that holds them; detached runs (created
// but not yet inserted) may be mutated freely.
type TextRun struct {
	Text  string
	Attrs Attributes
}

// NewTextRun creates a run with the given text and attributes.
// The attribute bag is cloned so the run owns its own copy.
func NewTextRun(text string, attrs Attributes) *TextRun {
	if attrs == nil {
		attrs = NewAttributes()
	} else {
		attrs = attrs.Clone()
	}
	return &TextRun{Text: text, Attrs: attrs}
}

// String returns a human-readable representation of the run.
func (r *TextRun) String() string {
	if r.Attrs.Len() == 0 {
		return fmt.Sprintf("%q", r.Text)
	}
	return fmt.Sprintf("%q %v", r.Text, map[string]any(r.Attrs))
}

// Len returns the byte length of the run's text.
func (r *TextRun) Len() int {
	return len(r.Text)
}

// IsEmpty returns true if the run holds no text.
func (r *TextRun) IsEmpty() bool {
	return len(r.Text) == 0
}

// Attribute returns the value stored under key and whether it is present.
func (r *TextRun) Attribute(key string) (any, bool) {
	return r.Attrs.Get(key)
}

// HasAttribute returns true if key is present on the run.
func (r *TextRun) HasAttribute(key string) bool {
	return r.Attrs.Has(key)
}

// SetAttribute stores value under key on the run.
func (r *TextRun) SetAttribute(key string, value any) {
	r.Attrs.Set(key, value)
}

// RemoveAttribute deletes key from the run.
func (r *TextRun) RemoveAttribute(key string) {
	r.Attrs.Delete(key)
}

// EqualAttributes returns true if both runs carry equal attribute bags.
// Adjacent runs with equal bags are logically contiguous and merge during
// document normalization.
func (r *TextRun) EqualAttributes(other *TextRun) bool {
	return r.Attrs.Equal(other.Attrs)
}

// Clone returns a deep copy of the run.
func (r *TextRun) Clone() *TextRun {
	return &TextRun{Text: r.Text, Attrs: r.Attrs.Clone()}
}

// Split truncates the run at offset and returns the tail as a new run
// carrying a clone of the attribute bag. The offset snaps backward to the
// nearest grapheme-cluster boundary so a cluster is never severed.
// Returns the actual split offset used.
func (r *TextRun) Split(offset int) (*TextRun, int) {
	offset = SnapToGrapheme(r.Text, offset)
	tail := &TextRun{Text: r.Text[offset:], Attrs: r.Attrs.Clone()}
	r.Text = r.Text[:offset]
	return tail, offset
}

// SnapToGrapheme returns the largest grapheme-cluster boundary in s that is
// less than or equal to offset. Offsets outside [0, len(s)] are clamped.
func SnapToGrapheme(s string, offset int) int {
	if offset <= 0 {
		return 0
	}
	if offset >= len(s) {
		return len(s)
	}
	boundary := 0
	rest := s
	state := -1
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		next := boundary + len(cluster)
		if next > offset {
			return boundary
		}
		boundary = next
	}
	return boundary
}
