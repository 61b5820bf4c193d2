package model

import "fmt"

// Position locates a point between bytes in the document.
// Run is the index of the text run, Offset the byte offset within it.
// Both are 0-indexed.
//
// A position is canonical when its offset is strictly less than the run's
// length, or when it denotes the document end. Document.NormalizePosition
// establishes canonical form; comparisons on canonical positions are purely
// lexicographic.
type Position struct {
	Run    int // index of the text run
	Offset int // byte offset within the run
}

// NewPosition creates a position at the given run index and byte offset.
func NewPosition(run, offset int) Position {
	return Position{Run: run, Offset: offset}
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d:%d)", p.Run, p.Offset)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Position) Compare(other Position) int {
	if p.Run < other.Run {
		return -1
	}
	if p.Run > other.Run {
		return 1
	}
	if p.Offset < other.Offset {
		return -1
	}
	if p.Offset > other.Offset {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Position) After(other Position) bool {
	return p.Compare(other) > 0
}

// IsZero returns true if this is the zero position (0:0).
func (p Position) IsZero() bool {
	return p.Run == 0 && p.Offset == 0
}
