package codec

import (
	"errors"
	"testing"

	"github.com/runestone-text/runestone/internal/model"
)

func TestRoundTrip(t *testing.T) {
	d := model.NewDocument(
		model.NewTextRun("plain ", nil),
		model.NewTextRun("linked", model.Attributes{
			"linkHref":     "https://example.com",
			"linkMetadata": map[string]any{"href": "https://example.com", "rel": "nofollow"},
			"weight":       float64(3),
			"draft":        true,
		}),
	)
	if err := d.SetSelection(model.CollapsedSelection(model.NewPosition(1, 2))); err != nil {
		t.Fatalf("SetSelection failed: %v", err)
	}

	data, err := Marshal(d)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if got.Text() != d.Text() {
		t.Errorf("text = %q, want %q", got.Text(), d.Text())
	}
	if got.RunCount() != 2 {
		t.Fatalf("expected 2 runs, got %d", got.RunCount())
	}
	if !got.Run(1).Attrs.Equal(d.Run(1).Attrs) {
		t.Errorf("attributes = %v, want %v", got.Run(1).Attrs, d.Run(1).Attrs)
	}
	if got.Run(0).Attrs.Len() != 0 {
		t.Errorf("plain run gained attributes: %v", got.Run(0).Attrs)
	}
	if !got.Selection().IsCollapsed() || got.Selection().FirstPosition() != model.NewPosition(1, 2) {
		t.Errorf("selection = %v", got.Selection())
	}
}

func TestRoundTripRangedSelection(t *testing.T) {
	d := model.NewDocument(model.NewTextRun("abcdefgh", nil))
	sel, err := model.RangeSelection(
		model.NewRange(model.NewPosition(0, 1), model.NewPosition(0, 3)),
		model.NewRange(model.NewPosition(0, 5), model.NewPosition(0, 7)),
	)
	if err != nil {
		t.Fatalf("RangeSelection failed: %v", err)
	}
	if err := d.SetSelection(sel); err != nil {
		t.Fatalf("SetSelection failed: %v", err)
	}

	data, err := Marshal(d)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	ranges := got.Selection().Ranges()
	if len(ranges) != 2 {
		t.Fatalf("expected 2 ranges, got %d", len(ranges))
	}
	if !ranges[0].Equal(model.NewRange(model.NewPosition(0, 1), model.NewPosition(0, 3))) {
		t.Errorf("range 0 = %s", ranges[0])
	}
	if !ranges[1].Equal(model.NewRange(model.NewPosition(0, 5), model.NewPosition(0, 7))) {
		t.Errorf("range 1 = %s", ranges[1])
	}
}

func TestUnmarshalDefaults(t *testing.T) {
	got, err := Unmarshal([]byte(`{"runs":[{"text":"hi"}]}`))
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got.Text() != "hi" {
		t.Errorf("text = %q", got.Text())
	}
	if !got.Selection().IsCollapsed() || !got.Selection().FirstPosition().IsZero() {
		t.Error("missing selection should default to a caret at the start")
	}

	empty, err := Unmarshal([]byte(`{}`))
	if err != nil {
		t.Fatalf("Unmarshal({}) failed: %v", err)
	}
	if empty.RunCount() != 0 {
		t.Errorf("expected an empty document, got %d runs", empty.RunCount())
	}
}

func TestUnmarshalErrors(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"malformed", `{"runs": [`},
		{"not an object", `[1, 2]`},
		{"run without text", `{"runs":[{"attributes":{}}]}`},
		{"selection out of range", `{"runs":[{"text":"hi"}],"selection":{"position":{"run":5,"offset":0}}}`},
		{"backwards range", `{"runs":[{"text":"hi"}],"selection":{"ranges":[{"start":{"run":0,"offset":2},"end":{"run":0,"offset":0}}]}}`},
	}
	for _, tt := range cases {
		if _, err := Unmarshal([]byte(tt.in)); !errors.Is(err, ErrInvalidDocument) {
			t.Errorf("%s: Unmarshal = %v, want ErrInvalidDocument", tt.name, err)
		}
	}
}

func TestMarshalEmptyDocument(t *testing.T) {
	data, err := Marshal(model.NewDocument())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got.RunCount() != 0 || got.Len() != 0 {
		t.Error("empty document should round-trip empty")
	}
}
