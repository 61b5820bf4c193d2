package command

import (
	"testing"

	"github.com/runestone-text/runestone/internal/model"
	"github.com/runestone-text/runestone/internal/schema"
)

func linkedDoc() *model.Document {
	meta := map[string]any{"href": "u"}
	return model.NewDocument(
		model.NewTextRun("foo", nil),
		model.NewTextRun("bar", model.Attributes{AttrLink: "u", AttrLinkMeta: meta}),
		model.NewTextRun("baz", nil),
	)
}

func TestUnlinkCollapsedRemovesWholeLink(t *testing.T) {
	d := linkedDoc()
	caretAt(t, d, model.NewPosition(1, 1))

	cmd := NewUnlinkCommand(d, schema.Default())
	if err := cmd.Execute(nil); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if d.Text() != "foobarbaz" {
		t.Errorf("unlink must not change text, got %q", d.Text())
	}
	// All runs now carry equal bags and merge into one.
	if d.RunCount() != 1 {
		t.Fatalf("expected 1 run after unlink, got %d", d.RunCount())
	}
	if d.Run(0).HasAttribute(AttrLink) || d.Run(0).HasAttribute(AttrLinkMeta) {
		t.Error("link and metadata should both be gone")
	}

	// The formerly linked text stays selected.
	start, end := selectedSpan(t, d)
	if start != 3 || end != 6 {
		t.Errorf("selection covers [%d,%d), want [3,6)", start, end)
	}
}

func TestUnlinkCollapsedOutsideLinkNoOp(t *testing.T) {
	d := linkedDoc()
	caretAt(t, d, model.NewPosition(0, 1))

	cmd := NewUnlinkCommand(d, schema.Default())
	if err := cmd.Execute(nil); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if !d.Run(1).HasAttribute(AttrLink) {
		t.Error("caret outside the link must not strip it")
	}
}

func TestUnlinkRangedPartial(t *testing.T) {
	d := model.NewDocument(model.NewTextRun("linked", model.Attributes{AttrLink: "u"}))
	selectRanges(t, d, model.NewRange(model.NewPosition(0, 0), model.NewPosition(0, 3)))

	cmd := NewUnlinkCommand(d, schema.Default())
	if err := cmd.Execute(nil); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if d.RunCount() != 2 {
		t.Fatalf("expected 2 runs, got %d", d.RunCount())
	}
	if d.Run(0).HasAttribute(AttrLink) {
		t.Error("selected prefix should lose the link")
	}
	if !d.Run(1).HasAttribute(AttrLink) {
		t.Error("unselected suffix should keep the link")
	}
}

func TestUnlinkRangedMultipleRanges(t *testing.T) {
	d := model.NewDocument(
		model.NewTextRun("ab", model.Attributes{AttrLink: "u"}),
		model.NewTextRun("cd", nil),
		model.NewTextRun("ef", model.Attributes{AttrLink: "v"}),
	)
	selectRanges(t, d,
		model.NewRange(model.NewPosition(0, 0), model.NewPosition(1, 0)),
		model.NewRange(model.NewPosition(2, 0), model.NewPosition(2, 2)),
	)

	cmd := NewUnlinkCommand(d, schema.Default())
	if err := cmd.Execute(nil); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if d.RunCount() != 1 {
		t.Fatalf("expected everything to merge unlinked, got %d runs", d.RunCount())
	}
	if d.Run(0).HasAttribute(AttrLink) {
		t.Error("both selected links should be gone")
	}
}

func TestUnlinkRefresh(t *testing.T) {
	d := linkedDoc()
	cmd := NewUnlinkCommand(d, schema.Default())

	caretAt(t, d, model.NewPosition(1, 1))
	cmd.Refresh()
	if !cmd.Enabled {
		t.Error("caret inside a link should enable unlink")
	}

	caretAt(t, d, model.NewPosition(0, 1))
	cmd.Refresh()
	if cmd.Enabled {
		t.Error("caret outside a link should disable unlink")
	}
}
