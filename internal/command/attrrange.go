package command

import "github.com/runestone-text/runestone/internal/model"

// FindAttributeRange returns the maximal contiguous range around pos whose
// runs all carry key with a value equal to want. It scans backward then
// forward from the run at pos, stopping at the first run where the value
// differs or the attribute is absent, or at a document boundary.
//
// The position should sit inside or at the edge of a run carrying the
// attribute; when the caret rests on a boundary between a matching run and
// a non-matching one, the matching side wins. Returns a collapsed range at
// pos when no adjacent run matches.
func FindAttributeRange(doc *model.Document, pos model.Position, key string, want any) model.Range {
	if doc.RunCount() == 0 || doc.ValidatePosition(pos) != nil {
		return model.NewCollapsedRange(pos)
	}
	pos = doc.NormalizePosition(pos)

	anchor := -1
	if runMatches(doc.Run(pos.Run), key, want) {
		anchor = pos.Run
	} else if pos.Offset == 0 && pos.Run > 0 && runMatches(doc.Run(pos.Run-1), key, want) {
		// Caret on a run boundary: the run before it wins.
		anchor = pos.Run - 1
	} else {
		return model.NewCollapsedRange(pos)
	}

	first := anchor
	for first > 0 && runMatches(doc.Run(first-1), key, want) {
		first--
	}
	last := anchor
	for last < doc.RunCount()-1 && runMatches(doc.Run(last+1), key, want) {
		last++
	}

	r := model.NewRange(
		model.NewPosition(first, 0),
		model.NewPosition(last, doc.Run(last).Len()),
	)
	return doc.NormalizeRange(r)
}

// runMatches reports whether run carries key with a value equal to want.
func runMatches(run *model.TextRun, key string, want any) bool {
	v, ok := run.Attribute(key)
	return ok && model.EqualValues(v, want)
}
