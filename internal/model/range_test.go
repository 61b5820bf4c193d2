package model

import "testing"

func TestRangeCollapsed(t *testing.T) {
	p := NewPosition(1, 2)
	r := NewCollapsedRange(p)

	if !r.IsCollapsed() {
		t.Error("collapsed range should report IsCollapsed")
	}
	if !r.IsValid() {
		t.Error("collapsed range should be valid")
	}

	wide := NewRange(NewPosition(0, 0), NewPosition(0, 3))
	if wide.IsCollapsed() {
		t.Error("non-empty range should not report IsCollapsed")
	}
}

func TestRangeIsValid(t *testing.T) {
	bad := NewRange(NewPosition(1, 0), NewPosition(0, 5))
	if bad.IsValid() {
		t.Error("range with end before start should be invalid")
	}
}

func TestRangeContains(t *testing.T) {
	r := NewRange(NewPosition(0, 2), NewPosition(1, 3))

	if !r.Contains(NewPosition(0, 2)) {
		t.Error("range should contain its start")
	}
	if r.Contains(NewPosition(1, 3)) {
		t.Error("range should not contain its exclusive end")
	}
	if !r.Contains(NewPosition(1, 0)) {
		t.Error("range should contain interior position")
	}
	if r.Contains(NewPosition(0, 1)) {
		t.Error("range should not contain position before start")
	}
}

func TestRangeContainsRange(t *testing.T) {
	outer := NewRange(NewPosition(0, 0), NewPosition(2, 0))
	inner := NewRange(NewPosition(0, 1), NewPosition(1, 0))

	if !outer.ContainsRange(inner) {
		t.Error("outer should contain inner")
	}
	if inner.ContainsRange(outer) {
		t.Error("inner should not contain outer")
	}
}

func TestRangeOverlaps(t *testing.T) {
	a := NewRange(NewPosition(0, 0), NewPosition(0, 5))
	b := NewRange(NewPosition(0, 3), NewPosition(1, 0))
	c := NewRange(NewPosition(0, 5), NewPosition(1, 0))

	if !a.Overlaps(b) {
		t.Error("a and b should overlap")
	}
	if a.Overlaps(c) {
		t.Error("touching ranges should not overlap")
	}

	collapsed := NewCollapsedRange(NewPosition(0, 2))
	if a.Overlaps(collapsed) {
		t.Error("collapsed range should not overlap anything")
	}
}

func TestRangeIntersect(t *testing.T) {
	a := NewRange(NewPosition(0, 0), NewPosition(0, 5))
	b := NewRange(NewPosition(0, 3), NewPosition(0, 8))

	got := a.Intersect(b)
	want := NewRange(NewPosition(0, 3), NewPosition(0, 5))
	if !got.Equal(want) {
		t.Errorf("Intersect = %s, want %s", got, want)
	}

	far := NewRange(NewPosition(2, 0), NewPosition(2, 4))
	if !a.Intersect(far).IsCollapsed() {
		t.Error("disjoint ranges should intersect to a collapsed range")
	}
}
