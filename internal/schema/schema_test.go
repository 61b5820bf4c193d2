package schema

import (
	"testing"

	"github.com/runestone-text/runestone/internal/model"
)

func linkDoc() *model.Document {
	return model.NewDocument(
		model.NewTextRun("foo", nil),
		model.NewTextRun("bar", model.Attributes{"code": true}),
		model.NewTextRun("baz", nil),
	)
}

func TestAllowedOnRun(t *testing.T) {
	s := Default()

	plain := model.NewTextRun("x", nil)
	code := model.NewTextRun("y", model.Attributes{"code": true})

	if !s.AllowedOnRun(plain, "linkHref") {
		t.Error("link should be allowed on a plain run")
	}
	if s.AllowedOnRun(code, "linkHref") {
		t.Error("link should be excluded on a code run")
	}
	if s.AllowedOnRun(plain, "unknownAttr") {
		// default policy allows unknown keys
	} else {
		t.Error("unknown keys should be allowed by default")
	}
}

func TestDefaultPolicyDeny(t *testing.T) {
	s := New()
	s.SetDefaultPolicy(false)

	run := model.NewTextRun("x", nil)
	if s.AllowedOnRun(run, "anything") {
		t.Error("deny policy should reject keys without rules")
	}

	if err := s.Register(Rule{Key: "known"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if !s.AllowedOnRun(run, "known") {
		t.Error("registered key should be allowed under deny policy")
	}
}

func TestRegisterEmptyKey(t *testing.T) {
	s := New()
	if err := s.Register(Rule{}); err != ErrEmptyKey {
		t.Errorf("expected ErrEmptyKey, got %v", err)
	}
}

func TestDisallowedRule(t *testing.T) {
	s := New()
	if err := s.Register(Rule{Key: "banned", Disallowed: true}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if s.AllowedOnRun(model.NewTextRun("x", nil), "banned") {
		t.Error("disallowed rule should ban the key everywhere")
	}
}

func TestIsAttributeAllowed(t *testing.T) {
	s := Default()
	d := linkDoc()

	if !s.IsAttributeAllowed(d, model.NewPosition(0, 1), "linkHref") {
		t.Error("expected link allowed inside plain run")
	}
	if s.IsAttributeAllowed(d, model.NewPosition(1, 1), "linkHref") {
		t.Error("expected link disallowed inside code run")
	}
	// Boundary: the run before the position decides.
	if !s.IsAttributeAllowed(d, model.NewPosition(1, 0), "linkHref") {
		t.Error("boundary after plain run should allow the link")
	}
	if s.IsAttributeAllowed(d, model.NewPosition(2, 0), "linkHref") {
		t.Error("boundary after code run should disallow the link")
	}
	if s.IsAttributeAllowed(d, model.NewPosition(9, 0), "linkHref") {
		t.Error("invalid position should never be allowed")
	}
}

func TestValidRangesNarrowsDisallowedRuns(t *testing.T) {
	s := Default()
	d := linkDoc()

	in := []model.Range{{Start: model.NewPosition(0, 0), End: model.NewPosition(2, 3)}}
	got := s.ValidRanges(d, in, "linkHref")

	if len(got) != 2 {
		t.Fatalf("expected 2 sub-ranges, got %d: %v", len(got), got)
	}
	want0 := model.NewRange(model.NewPosition(0, 0), model.NewPosition(1, 0))
	want1 := model.NewRange(model.NewPosition(2, 0), model.NewPosition(2, 3))
	if !got[0].Equal(want0) {
		t.Errorf("sub-range 0 = %s, want %s", got[0], want0)
	}
	if !got[1].Equal(want1) {
		t.Errorf("sub-range 1 = %s, want %s", got[1], want1)
	}
}

func TestValidRangesPartialRuns(t *testing.T) {
	s := Default()
	d := linkDoc()

	// Starts and ends mid-run; only the plain portions survive.
	in := []model.Range{{Start: model.NewPosition(0, 1), End: model.NewPosition(2, 2)}}
	got := s.ValidRanges(d, in, "linkHref")

	if len(got) != 2 {
		t.Fatalf("expected 2 sub-ranges, got %d: %v", len(got), got)
	}
	if !got[0].Equal(model.NewRange(model.NewPosition(0, 1), model.NewPosition(1, 0))) {
		t.Errorf("sub-range 0 = %s", got[0])
	}
	if !got[1].Equal(model.NewRange(model.NewPosition(2, 0), model.NewPosition(2, 2))) {
		t.Errorf("sub-range 1 = %s", got[1])
	}
}

func TestValidRangesFullyAllowed(t *testing.T) {
	s := Default()
	d := model.NewDocument(model.NewTextRun("hello", nil))

	in := []model.Range{{Start: model.NewPosition(0, 1), End: model.NewPosition(0, 4)}}
	got := s.ValidRanges(d, in, "linkHref")

	if len(got) != 1 || !got[0].Equal(in[0]) {
		t.Errorf("fully allowed range should come back unchanged, got %v", got)
	}
}

func TestValidRangesDropsCollapsedAndInvalid(t *testing.T) {
	s := Default()
	d := linkDoc()

	in := []model.Range{
		model.NewCollapsedRange(model.NewPosition(0, 1)),
		{Start: model.NewPosition(7, 0), End: model.NewPosition(8, 0)},
	}
	if got := s.ValidRanges(d, in, "linkHref"); len(got) != 0 {
		t.Errorf("expected no ranges, got %v", got)
	}
}

func TestValidRangesFullyDisallowed(t *testing.T) {
	s := Default()
	d := model.NewDocument(model.NewTextRun("code only", model.Attributes{"code": true}))

	in := []model.Range{{Start: model.NewPosition(0, 0), End: model.NewPosition(0, 9)}}
	if got := s.ValidRanges(d, in, "linkHref"); len(got) != 0 {
		t.Errorf("expected no ranges over a code run, got %v", got)
	}
}

func TestCheckAttributeInSelection(t *testing.T) {
	s := Default()
	d := linkDoc()

	collapsed := model.CollapsedSelection(model.NewPosition(0, 1))
	if !s.CheckAttributeInSelection(d, collapsed, "linkHref") {
		t.Error("collapsed selection in plain run should allow the link")
	}

	inCode := model.CollapsedSelection(model.NewPosition(1, 1))
	if s.CheckAttributeInSelection(d, inCode, "linkHref") {
		t.Error("collapsed selection in code run should not allow the link")
	}

	ranged, err := model.RangeSelection(model.NewRange(model.NewPosition(1, 0), model.NewPosition(2, 3)))
	if err != nil {
		t.Fatalf("RangeSelection failed: %v", err)
	}
	if !s.CheckAttributeInSelection(d, ranged, "linkHref") {
		t.Error("selection overlapping a plain run should allow the link")
	}
}

func TestReplaceRulesAtomic(t *testing.T) {
	s := Default()
	s.ReplaceRules([]Rule{{Key: "linkHref", Disallowed: true}}, true)

	if s.AllowedOnRun(model.NewTextRun("x", nil), "linkHref") {
		t.Error("replaced rules should take effect")
	}
	if len(s.Rules()) != 1 {
		t.Errorf("expected 1 rule after replace, got %d", len(s.Rules()))
	}
}
