package model

import "fmt"

// Selection is either collapsed at a single position (a caret) or a
// non-empty set of non-overlapping ranges in document order. It references
// positions in a document but owns no runs; it is replaced wholesale at the
// end of each command execution.
type Selection struct {
	pos       Position
	ranges    []Range
	collapsed bool
}

// CollapsedSelection creates a caret selection at the given position.
func CollapsedSelection(p Position) Selection {
	return Selection{pos: p, collapsed: true}
}

// RangeSelection creates a selection over the given ranges. Ranges must be
// valid, in document order, and non-overlapping. A single collapsed range
// produces a collapsed selection.
func RangeSelection(ranges ...Range) (Selection, error) {
	if len(ranges) == 0 {
		return Selection{}, fmt.Errorf("%w: no ranges", ErrSelectionInvalid)
	}
	for i, r := range ranges {
		if !r.IsValid() {
			return Selection{}, fmt.Errorf("%w: range %d: %w", ErrSelectionInvalid, i, ErrRangeInvalid)
		}
		if i > 0 {
			prev := ranges[i-1]
			if r.Start.Before(prev.End) {
				return Selection{}, fmt.Errorf("%w: ranges %d and %d out of order or overlapping", ErrSelectionInvalid, i-1, i)
			}
		}
	}
	if len(ranges) == 1 && ranges[0].IsCollapsed() {
		return CollapsedSelection(ranges[0].Start), nil
	}
	out := make([]Range, len(ranges))
	copy(out, ranges)
	return Selection{ranges: out}, nil
}

// IsCollapsed returns true if the selection is a caret.
func (s Selection) IsCollapsed() bool {
	return s.collapsed
}

// FirstPosition returns the earliest position covered by the selection.
func (s Selection) FirstPosition() Position {
	if s.collapsed {
		return s.pos
	}
	return s.ranges[0].Start
}

// Ranges returns the selection's ranges in document order. A collapsed
// selection yields one zero-width range at the caret.
func (s Selection) Ranges() []Range {
	if s.collapsed {
		return []Range{NewCollapsedRange(s.pos)}
	}
	out := make([]Range, len(s.ranges))
	copy(out, s.ranges)
	return out
}

// Attributes returns the selection's active attributes in doc: for a caret,
// the typing attributes (the character before the caret, falling back to
// the character after at document start); for a ranged selection, the
// attributes of the first character covered. The returned bag is a copy.
func (s Selection) Attributes(doc *Document) Attributes {
	run := s.attributeRun(doc)
	if run == nil {
		return NewAttributes()
	}
	return run.Attrs.Clone()
}

// Attribute returns the value of key among the selection's active
// attributes.
func (s Selection) Attribute(doc *Document, key string) (any, bool) {
	run := s.attributeRun(doc)
	if run == nil {
		return nil, false
	}
	return run.Attribute(key)
}

// HasAttribute returns true if key is among the selection's active
// attributes.
func (s Selection) HasAttribute(doc *Document, key string) bool {
	_, ok := s.Attribute(doc, key)
	return ok
}

// attributeRun resolves the run whose attributes the selection exposes,
// or nil for an empty document.
func (s Selection) attributeRun(doc *Document) *TextRun {
	if doc == nil || doc.RunCount() == 0 {
		return nil
	}
	p := doc.NormalizePosition(s.FirstPosition())
	if !s.collapsed {
		// First character of the first range.
		if p.Run < doc.RunCount() {
			return doc.Run(p.Run)
		}
		return doc.Run(doc.RunCount() - 1)
	}
	// Character before the caret.
	if p.Offset > 0 {
		return doc.Run(p.Run)
	}
	if p.Run > 0 {
		return doc.Run(p.Run - 1)
	}
	// Document start: character after the caret.
	return doc.Run(0)
}
