package model

import "fmt"

// Range is an ordered pair of positions. Start is inclusive, End is
// exclusive: [Start, End). A range with Start == End is collapsed.
type Range struct {
	Start Position // Inclusive start position
	End   Position // Exclusive end position
}

// NewRange creates a range from start to end.
func NewRange(start, end Position) Range {
	return Range{Start: start, End: end}
}

// NewCollapsedRange creates a zero-width range at the given position.
func NewCollapsedRange(p Position) Range {
	return Range{Start: p, End: p}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%s:%s)", r.Start, r.End)
}

// IsCollapsed returns true if the range has zero extent.
func (r Range) IsCollapsed() bool {
	return r.Start.Compare(r.End) == 0
}

// IsValid returns true if Start <= End.
func (r Range) IsValid() bool {
	return r.Start.Compare(r.End) <= 0
}

// Equal returns true if both endpoints match structurally.
// Compare positions only after normalizing against the same document.
func (r Range) Equal(other Range) bool {
	return r.Start.Compare(other.Start) == 0 && r.End.Compare(other.End) == 0
}

// Contains returns true if the given position is within the range.
func (r Range) Contains(p Position) bool {
	return p.Compare(r.Start) >= 0 && p.Compare(r.End) < 0
}

// ContainsRange returns true if other lies entirely within this range.
func (r Range) ContainsRange(other Range) bool {
	return other.Start.Compare(r.Start) >= 0 && other.End.Compare(r.End) <= 0
}

// Overlaps returns true if this range and other share any extent.
// Collapsed ranges never overlap anything.
func (r Range) Overlaps(other Range) bool {
	return r.Start.Compare(other.End) < 0 && other.Start.Compare(r.End) < 0
}

// Intersect returns the common extent of two ranges, or a collapsed range
// at the later start if they do not overlap.
func (r Range) Intersect(other Range) Range {
	start := r.Start
	if other.Start.After(start) {
		start = other.Start
	}
	end := r.End
	if other.End.Before(end) {
		end = other.End
	}
	if start.Compare(end) >= 0 {
		return Range{Start: start, End: start}
	}
	return Range{Start: start, End: end}
}
