package writer

import (
	"errors"

	"github.com/runestone-text/runestone/internal/model"
)

var errEmptyKey = errors.New("empty attribute key")

// Writer mutates a document inside exactly one transaction. It is handed
// to the closure passed to Change and must not escape it; operations on a
// writer whose transaction has ended fail with ErrNoTransaction.
type Writer struct {
	doc    *model.Document
	active bool
}

// check guards every operation against use outside the transaction.
func (w *Writer) check(op string) error {
	if !w.active {
		return mutationErr(op, ErrNoTransaction)
	}
	return nil
}

// span resolves a range to absolute byte offsets against the current
// document state.
func (w *Writer) span(op string, r model.Range) (int, int, error) {
	start, err := w.doc.OffsetOf(r.Start)
	if err != nil {
		return 0, 0, mutationErr(op, err)
	}
	end, err := w.doc.OffsetOf(r.End)
	if err != nil {
		return 0, 0, mutationErr(op, err)
	}
	if start > end {
		return 0, 0, mutationErr(op, model.ErrRangeInvalid)
	}
	return start, end, nil
}

// SetAttribute sets key=value on every run covered by r, splitting runs at
// r's boundaries so the attribute edge aligns exactly with the range.
// Runs entirely outside r are untouched. Collapsed ranges are a no-op.
func (w *Writer) SetAttribute(key string, value any, r model.Range) error {
	if err := w.check("set attribute"); err != nil {
		return err
	}
	if key == "" {
		return mutationErr("set attribute", errEmptyKey)
	}
	start, end, err := w.span("set attribute", r)
	if err != nil {
		return err
	}
	if start == end {
		return nil
	}
	i, err := w.doc.SplitAtOffset(start)
	if err != nil {
		return mutationErr("set attribute", err)
	}
	j, err := w.doc.SplitAtOffset(end)
	if err != nil {
		return mutationErr("set attribute", err)
	}
	if err := w.doc.SetRunAttribute(i, j, key, value); err != nil {
		return mutationErr("set attribute", err)
	}
	return nil
}

// SetAttributes sets every entry of attrs on the runs covered by r in one
// boundary-splitting pass. Use this when stamping several keys over the
// same range: the range is resolved once, so later keys cannot be
// invalidated by the splits made for earlier ones.
func (w *Writer) SetAttributes(attrs model.Attributes, r model.Range) error {
	if err := w.check("set attributes"); err != nil {
		return err
	}
	for key := range attrs {
		if key == "" {
			return mutationErr("set attributes", errEmptyKey)
		}
	}
	start, end, err := w.span("set attributes", r)
	if err != nil {
		return err
	}
	if start == end || attrs.Len() == 0 {
		return nil
	}
	i, err := w.doc.SplitAtOffset(start)
	if err != nil {
		return mutationErr("set attributes", err)
	}
	j, err := w.doc.SplitAtOffset(end)
	if err != nil {
		return mutationErr("set attributes", err)
	}
	for _, key := range attrs.Keys() {
		value, _ := attrs.Get(key)
		if err := w.doc.SetRunAttribute(i, j, key, value); err != nil {
			return mutationErr("set attributes", err)
		}
	}
	return nil
}

// RemoveAttribute deletes key from every run covered by r, with the same
// boundary splitting as SetAttribute.
func (w *Writer) RemoveAttribute(key string, r model.Range) error {
	if err := w.check("remove attribute"); err != nil {
		return err
	}
	if key == "" {
		return mutationErr("remove attribute", errEmptyKey)
	}
	start, end, err := w.span("remove attribute", r)
	if err != nil {
		return err
	}
	if start == end {
		return nil
	}
	i, err := w.doc.SplitAtOffset(start)
	if err != nil {
		return mutationErr("remove attribute", err)
	}
	j, err := w.doc.SplitAtOffset(end)
	if err != nil {
		return mutationErr("remove attribute", err)
	}
	if err := w.doc.RemoveRunAttribute(i, j, key); err != nil {
		return mutationErr("remove attribute", err)
	}
	return nil
}

// RemoveAttributes deletes every listed key from the runs covered by r in
// one boundary-splitting pass.
func (w *Writer) RemoveAttributes(keys []string, r model.Range) error {
	if err := w.check("remove attributes"); err != nil {
		return err
	}
	for _, key := range keys {
		if key == "" {
			return mutationErr("remove attributes", errEmptyKey)
		}
	}
	start, end, err := w.span("remove attributes", r)
	if err != nil {
		return err
	}
	if start == end || len(keys) == 0 {
		return nil
	}
	i, err := w.doc.SplitAtOffset(start)
	if err != nil {
		return mutationErr("remove attributes", err)
	}
	j, err := w.doc.SplitAtOffset(end)
	if err != nil {
		return mutationErr("remove attributes", err)
	}
	for _, key := range keys {
		if err := w.doc.RemoveRunAttribute(i, j, key); err != nil {
			return mutationErr("remove attributes", err)
		}
	}
	return nil
}

// CreateText builds a detached run carrying the given text and attributes.
// The run is not part of the document until passed to Insert.
func (w *Writer) CreateText(text string, attrs model.Attributes) *model.TextRun {
	return model.NewTextRun(text, attrs)
}

// Insert splices run into the document at pos, shifting subsequent
// positions.
func (w *Writer) Insert(run *model.TextRun, pos model.Position) error {
	if err := w.check("insert"); err != nil {
		return err
	}
	if run == nil {
		return mutationErr("insert", errors.New("nil run"))
	}
	off, err := w.doc.OffsetOf(pos)
	if err != nil {
		return mutationErr("insert", err)
	}
	i, err := w.doc.SplitAtOffset(off)
	if err != nil {
		return mutationErr("insert", err)
	}
	if err := w.doc.InsertRunAt(i, run); err != nil {
		return mutationErr("insert", err)
	}
	return nil
}

// Remove deletes the content covered by r.
func (w *Writer) Remove(r model.Range) error {
	if err := w.check("remove"); err != nil {
		return err
	}
	start, end, err := w.span("remove", r)
	if err != nil {
		return err
	}
	if start == end {
		return nil
	}
	i, err := w.doc.SplitAtOffset(start)
	if err != nil {
		return mutationErr("remove", err)
	}
	j, err := w.doc.SplitAtOffset(end)
	if err != nil {
		return mutationErr("remove", err)
	}
	if err := w.doc.RemoveRunRange(i, j); err != nil {
		return mutationErr("remove", err)
	}
	return nil
}

// SetSelectionPosition collapses the selection to pos.
func (w *Writer) SetSelectionPosition(pos model.Position) error {
	if err := w.check("set selection"); err != nil {
		return err
	}
	if err := w.doc.SetSelection(model.CollapsedSelection(pos)); err != nil {
		return mutationErr("set selection", err)
	}
	return nil
}

// SetSelectionRange selects exactly r.
func (w *Writer) SetSelectionRange(r model.Range) error {
	return w.SetSelectionRanges([]model.Range{r})
}

// SetSelectionRanges replaces the selection with the given ranges.
func (w *Writer) SetSelectionRanges(ranges []model.Range) error {
	if err := w.check("set selection"); err != nil {
		return err
	}
	sel, err := model.RangeSelection(ranges...)
	if err != nil {
		return mutationErr("set selection", err)
	}
	if err := w.doc.SetSelection(sel); err != nil {
		return mutationErr("set selection", err)
	}
	return nil
}

// SetSelectionOnRun selects the full extent of a run already in the
// document, typically one just inserted.
func (w *Writer) SetSelectionOnRun(run *model.TextRun) error {
	if err := w.check("set selection"); err != nil {
		return err
	}
	i, err := w.doc.IndexOfRun(run)
	if err != nil {
		return mutationErr("set selection", err)
	}
	r := model.NewRange(
		model.NewPosition(i, 0),
		model.NewPosition(i, run.Len()),
	)
	if err := w.doc.SetSelection(mustRangeSelection(r)); err != nil {
		return mutationErr("set selection", err)
	}
	return nil
}

// mustRangeSelection builds a single-range selection for a range already
// known to be valid.
func mustRangeSelection(r model.Range) model.Selection {
	sel, err := model.RangeSelection(r)
	if err != nil {
		panic(err)
	}
	return sel
}
