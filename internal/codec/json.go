// Package codec serializes documents to and from a JSON interchange form:
//
//	{
//	  "runs": [{"text": "...", "attributes": {...}}, ...],
//	  "selection": {"position": {"run": 0, "offset": 0}}
//	            or {"ranges": [{"start": {...}, "end": {...}}, ...]}
//	}
//
// Persistence is a host concern; this codec exists for the CLI and test
// fixtures, not for the editing core.
package codec

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/runestone-text/runestone/internal/model"
)

// ErrInvalidDocument is returned when the input is not a document in the
// expected JSON form.
var ErrInvalidDocument = errors.New("invalid document JSON")

// Marshal encodes the document, its runs' attributes, and its selection.
func Marshal(doc *model.Document) ([]byte, error) {
	out := `{"runs":[]}`
	var err error

	for i, run := range doc.Runs() {
		out, err = sjson.Set(out, fmt.Sprintf("runs.%d.text", i), run.Text)
		if err != nil {
			return nil, fmt.Errorf("encoding run %d: %w", i, err)
		}
		if run.Attrs.Len() > 0 {
			out, err = sjson.Set(out, fmt.Sprintf("runs.%d.attributes", i), map[string]any(run.Attrs))
			if err != nil {
				return nil, fmt.Errorf("encoding run %d attributes: %w", i, err)
			}
		}
	}

	sel := doc.Selection()
	if sel.IsCollapsed() {
		p := sel.FirstPosition()
		out, err = sjson.Set(out, "selection.position.run", p.Run)
		if err == nil {
			out, err = sjson.Set(out, "selection.position.offset", p.Offset)
		}
		if err != nil {
			return nil, fmt.Errorf("encoding selection: %w", err)
		}
		return []byte(out), nil
	}
	for i, r := range sel.Ranges() {
		prefix := fmt.Sprintf("selection.ranges.%d", i)
		for _, kv := range []struct {
			path  string
			value int
		}{
			{prefix + ".start.run", r.Start.Run},
			{prefix + ".start.offset", r.Start.Offset},
			{prefix + ".end.run", r.End.Run},
			{prefix + ".end.offset", r.End.Offset},
		} {
			out, err = sjson.Set(out, kv.path, kv.value)
			if err != nil {
				return nil, fmt.Errorf("encoding selection range %d: %w", i, err)
			}
		}
	}
	return []byte(out), nil
}

// Unmarshal decodes a document from its JSON form. A missing selection
// leaves the default caret at the document start.
func Unmarshal(data []byte) (*model.Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidDocument)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top level is not an object", ErrInvalidDocument)
	}

	var runs []*model.TextRun
	for i, rr := range root.Get("runs").Array() {
		text := rr.Get("text")
		if !text.Exists() {
			return nil, fmt.Errorf("%w: run %d has no text", ErrInvalidDocument, i)
		}
		attrs := model.NewAttributes()
		rr.Get("attributes").ForEach(func(k, v gjson.Result) bool {
			attrs.Set(k.String(), v.Value())
			return true
		})
		runs = append(runs, model.NewTextRun(text.String(), attrs))
	}
	doc := model.NewDocument(runs...)

	if p := root.Get("selection.position"); p.Exists() {
		pos := decodePosition(p)
		if err := doc.SetSelection(model.CollapsedSelection(pos)); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
		return doc, nil
	}
	if rs := root.Get("selection.ranges"); rs.Exists() {
		var ranges []model.Range
		for _, rr := range rs.Array() {
			ranges = append(ranges, model.NewRange(
				decodePosition(rr.Get("start")),
				decodePosition(rr.Get("end")),
			))
		}
		sel, err := model.RangeSelection(ranges...)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
		if err := doc.SetSelection(sel); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
	}
	return doc, nil
}

func decodePosition(r gjson.Result) model.Position {
	return model.NewPosition(int(r.Get("run").Int()), int(r.Get("offset").Int()))
}
