package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Document is an ordered sequence of text runs plus a selection. It
// exclusively owns its runs. Every committed edit produces a new revision
// id, so readers can detect staleness cheaply.
type Document struct {
	runs      []*TextRun
	selection Selection
	revision  uuid.UUID
	editing   bool
}

// Snapshot is a deep copy of a document's state, used for transaction
// rollback.
type Snapshot struct {
	runs      []*TextRun
	selection Selection
	revision  uuid.UUID
}

// NewDocument creates a document over the given runs with the selection
// collapsed at the document start. Runs are adopted, not copied; callers
// must not retain references.
func NewDocument(runs ...*TextRun) *Document {
	owned := make([]*TextRun, 0, len(runs))
	for _, r := range runs {
		if r != nil {
			owned = append(owned, r)
		}
	}
	return &Document{
		runs:      owned,
		selection: CollapsedSelection(Position{}),
		revision:  uuid.New(),
	}
}

// Read operations

// RunCount returns the number of runs.
func (d *Document) RunCount() int {
	return len(d.runs)
}

// Run returns the run at index i. The index must be in range.
func (d *Document) Run(i int) *TextRun {
	return d.runs[i]
}

// Runs returns the run sequence. The slice is a copy; the runs are not.
func (d *Document) Runs() []*TextRun {
	out := make([]*TextRun, len(d.runs))
	copy(out, d.runs)
	return out
}

// Text returns the concatenated text of all runs.
func (d *Document) Text() string {
	var sb strings.Builder
	for _, r := range d.runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Len returns the total byte length of the document text.
func (d *Document) Len() int {
	n := 0
	for _, r := range d.runs {
		n += len(r.Text)
	}
	return n
}

// IsEmpty returns true if the document holds no text.
func (d *Document) IsEmpty() bool {
	return d.Len() == 0
}

// Selection returns the current selection.
func (d *Document) Selection() Selection {
	return d.selection
}

// Revision returns the current revision id.
func (d *Document) Revision() uuid.UUID {
	return d.revision
}

// Editing returns true while an edit is open on the document.
func (d *Document) Editing() bool {
	return d.editing
}

// Start returns the position at the beginning of the document.
func (d *Document) Start() Position {
	return Position{}
}

// End returns the position just past the last byte of the document.
func (d *Document) End() Position {
	if len(d.runs) == 0 {
		return Position{}
	}
	last := len(d.runs) - 1
	return Position{Run: last, Offset: len(d.runs[last].Text)}
}

// FullRange returns the range covering the entire document.
func (d *Document) FullRange() Range {
	return Range{Start: d.Start(), End: d.End()}
}

// ValidatePosition returns an error unless p resolves to a location in the
// document. The end-of-run position is accepted as an alias for the start
// of the next run.
func (d *Document) ValidatePosition(p Position) error {
	if p.Run < 0 || p.Offset < 0 {
		return fmt.Errorf("%w: %s", ErrPositionOutOfRange, p)
	}
	if len(d.runs) == 0 {
		if p.Run == 0 && p.Offset == 0 {
			return nil
		}
		return fmt.Errorf("%w: %s in empty document", ErrPositionOutOfRange, p)
	}
	if p.Run >= len(d.runs) {
		return fmt.Errorf("%w: %s: document has %d runs", ErrPositionOutOfRange, p, len(d.runs))
	}
	if p.Offset > len(d.runs[p.Run].Text) {
		return fmt.Errorf("%w: %s: run is %d bytes", ErrPositionOutOfRange, p, len(d.runs[p.Run].Text))
	}
	return nil
}

// ValidateRange returns an error unless both endpoints are valid and
// start <= end.
func (d *Document) ValidateRange(r Range) error {
	if err := d.ValidatePosition(r.Start); err != nil {
		return err
	}
	if err := d.ValidatePosition(r.End); err != nil {
		return err
	}
	if !r.IsValid() {
		return fmt.Errorf("%w: %s", ErrRangeInvalid, r)
	}
	return nil
}

// NormalizePosition returns p in canonical form: an offset equal to a
// run's length moves to the start of the next run, except at document end.
// The position must be valid.
func (d *Document) NormalizePosition(p Position) Position {
	for p.Run < len(d.runs)-1 && p.Offset >= len(d.runs[p.Run].Text) {
		p.Offset -= len(d.runs[p.Run].Text)
		p.Run++
	}
	return p
}

// NormalizeRange returns r with both endpoints in canonical form.
func (d *Document) NormalizeRange(r Range) Range {
	return Range{
		Start: d.NormalizePosition(r.Start),
		End:   d.NormalizePosition(r.End),
	}
}

// OffsetOf converts a position to an absolute byte offset.
func (d *Document) OffsetOf(p Position) (int, error) {
	if err := d.ValidatePosition(p); err != nil {
		return 0, err
	}
	off := 0
	for i := 0; i < p.Run; i++ {
		off += len(d.runs[i].Text)
	}
	return off + p.Offset, nil
}

// offsetOfClamped converts a position to an absolute byte offset, clamping
// out-of-range components instead of failing. Used when remapping a
// selection that mutation may have invalidated.
func (d *Document) offsetOfClamped(p Position) int {
	if p.Run < 0 {
		return 0
	}
	off := 0
	for i := 0; i < p.Run && i < len(d.runs); i++ {
		off += len(d.runs[i].Text)
	}
	if p.Run < len(d.runs) {
		extra := p.Offset
		if extra < 0 {
			extra = 0
		}
		if extra > len(d.runs[p.Run].Text) {
			extra = len(d.runs[p.Run].Text)
		}
		off += extra
	}
	if total := d.Len(); off > total {
		off = total
	}
	return off
}

// PositionAt converts an absolute byte offset to a canonical position.
func (d *Document) PositionAt(offset int) (Position, error) {
	if offset < 0 || offset > d.Len() {
		return Position{}, fmt.Errorf("%w: %d", ErrOffsetOutOfRange, offset)
	}
	for i, r := range d.runs {
		if offset < len(r.Text) || (i == len(d.runs)-1 && offset == len(r.Text)) {
			return Position{Run: i, Offset: offset}, nil
		}
		offset -= len(r.Text)
	}
	return Position{}, nil
}

// RunAt returns the run containing the character at p, treating a position
// at document end as belonging to the last run.
func (d *Document) RunAt(p Position) (*TextRun, error) {
	if err := d.ValidatePosition(p); err != nil {
		return nil, err
	}
	if len(d.runs) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrRunNotFound)
	}
	p = d.NormalizePosition(p)
	if p.Run >= len(d.runs) {
		return d.runs[len(d.runs)-1], nil
	}
	return d.runs[p.Run], nil
}

// AttributeAt returns the value of key on the run containing p.
func (d *Document) AttributeAt(p Position, key string) (any, bool) {
	run, err := d.RunAt(p)
	if err != nil {
		return nil, false
	}
	return run.Attribute(key)
}

// IndexOfRun returns the index of run, matched by identity.
func (d *Document) IndexOfRun(run *TextRun) (int, error) {
	for i, r := range d.runs {
		if r == run {
			return i, nil
		}
	}
	return 0, ErrRunNotFound
}

// Edit lifecycle

// BeginEdit opens an edit on the document. Exactly one edit may be open at
// a time; the writer package wraps this in its transaction scope.
func (d *Document) BeginEdit() error {
	if d.editing {
		return ErrEditInProgress
	}
	d.editing = true
	return nil
}

// EndEdit closes the open edit. When commit is true the revision id is
// replaced, making the change observable to readers.
func (d *Document) EndEdit(commit bool) {
	d.editing = false
	if commit {
		d.revision = uuid.New()
	}
}

// TakeSnapshot returns a deep copy of the document state for rollback.
func (d *Document) TakeSnapshot() *Snapshot {
	runs := make([]*TextRun, len(d.runs))
	for i, r := range d.runs {
		runs[i] = r.Clone()
	}
	return &Snapshot{runs: runs, selection: d.selection, revision: d.revision}
}

// Restore replaces the document state with a previously taken snapshot.
func (d *Document) Restore(s *Snapshot) {
	d.runs = s.runs
	d.selection = s.selection
	d.revision = s.revision
}

// Mutation operations (open edit required)

// requireEdit guards run mutators.
func (d *Document) requireEdit() error {
	if !d.editing {
		return ErrNotEditing
	}
	return nil
}

// SplitAtOffset splits the run spanning the absolute byte offset so a run
// boundary falls exactly there, and returns the index of the first run at
// or after the offset. Splitting on an existing boundary is a no-op.
func (d *Document) SplitAtOffset(offset int) (int, error) {
	if err := d.requireEdit(); err != nil {
		return 0, err
	}
	if offset < 0 || offset > d.Len() {
		return 0, fmt.Errorf("%w: %d", ErrOffsetOutOfRange, offset)
	}
	at := 0
	for i, r := range d.runs {
		if offset == at {
			return i, nil
		}
		if offset < at+len(r.Text) {
			tail, used := r.Split(offset - at)
			if used == 0 {
				// Grapheme snap landed on the run start.
				r.Text = tail.Text
				r.Attrs = tail.Attrs
				return i, nil
			}
			d.runs = append(d.runs, nil)
			copy(d.runs[i+2:], d.runs[i+1:])
			d.runs[i+1] = tail
			return i + 1, nil
		}
		at += len(r.Text)
	}
	return len(d.runs), nil
}

// InsertRunAt splices run into the sequence at index i.
func (d *Document) InsertRunAt(i int, run *TextRun) error {
	if err := d.requireEdit(); err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("insert run: nil run")
	}
	if i < 0 || i > len(d.runs) {
		return fmt.Errorf("insert run: %w: index %d", ErrOffsetOutOfRange, i)
	}
	d.runs = append(d.runs, nil)
	copy(d.runs[i+1:], d.runs[i:])
	d.runs[i] = run
	return nil
}

// RemoveRunRange removes runs[i:j] from the sequence.
func (d *Document) RemoveRunRange(i, j int) error {
	if err := d.requireEdit(); err != nil {
		return err
	}
	if i < 0 || j > len(d.runs) || i > j {
		return fmt.Errorf("remove runs: %w: [%d:%d)", ErrOffsetOutOfRange, i, j)
	}
	d.runs = append(d.runs[:i], d.runs[j:]...)
	return nil
}

// SetRunAttribute sets key=value on runs[i:j].
func (d *Document) SetRunAttribute(i, j int, key string, value any) error {
	if err := d.requireEdit(); err != nil {
		return err
	}
	if i < 0 || j > len(d.runs) || i > j {
		return fmt.Errorf("set attribute: %w: [%d:%d)", ErrOffsetOutOfRange, i, j)
	}
	for k := i; k < j; k++ {
		d.runs[k].SetAttribute(key, value)
	}
	return nil
}

// RemoveRunAttribute deletes key from runs[i:j].
func (d *Document) RemoveRunAttribute(i, j int, key string) error {
	if err := d.requireEdit(); err != nil {
		return err
	}
	if i < 0 || j > len(d.runs) || i > j {
		return fmt.Errorf("remove attribute: %w: [%d:%d)", ErrOffsetOutOfRange, i, j)
	}
	for k := i; k < j; k++ {
		d.runs[k].RemoveAttribute(key)
	}
	return nil
}

// SetSelection replaces the selection. Positions are validated against the
// current run sequence and normalized.
func (d *Document) SetSelection(sel Selection) error {
	if sel.IsCollapsed() {
		p := sel.FirstPosition()
		if err := d.ValidatePosition(p); err != nil {
			return fmt.Errorf("%w: %w", ErrSelectionInvalid, err)
		}
		d.selection = CollapsedSelection(d.NormalizePosition(p))
		return nil
	}
	ranges := sel.Ranges()
	for i, r := range ranges {
		if err := d.ValidateRange(r); err != nil {
			return fmt.Errorf("%w: %w", ErrSelectionInvalid, err)
		}
		ranges[i] = d.NormalizeRange(r)
	}
	normalized, err := RangeSelection(ranges...)
	if err != nil {
		return err
	}
	d.selection = normalized
	return nil
}

// Normalize coalesces adjacent runs with equal attribute bags, drops empty
// runs, and remaps the selection across the rewrite. The writer calls this
// once per committed transaction, implementing the model's lazy position
// normalization.
func (d *Document) Normalize() error {
	if err := d.requireEdit(); err != nil {
		return err
	}

	// Capture the selection as absolute offsets; runs are about to move.
	var caret int
	var spans [][2]int
	collapsed := d.selection.IsCollapsed()
	if collapsed {
		caret = d.offsetOfClamped(d.selection.FirstPosition())
	} else {
		for _, r := range d.selection.Ranges() {
			spans = append(spans, [2]int{
				d.offsetOfClamped(r.Start),
				d.offsetOfClamped(r.End),
			})
		}
	}

	merged := make([]*TextRun, 0, len(d.runs))
	for _, r := range d.runs {
		if r.IsEmpty() {
			continue
		}
		if n := len(merged); n > 0 && merged[n-1].EqualAttributes(r) {
			merged[n-1].Text += r.Text
			continue
		}
		merged = append(merged, r)
	}
	d.runs = merged

	if collapsed {
		p, err := d.PositionAt(caret)
		if err != nil {
			return err
		}
		d.selection = CollapsedSelection(p)
		return nil
	}
	ranges := make([]Range, 0, len(spans))
	for _, sp := range spans {
		start, err := d.PositionAt(sp[0])
		if err != nil {
			return err
		}
		end, err := d.PositionAt(sp[1])
		if err != nil {
			return err
		}
		ranges = append(ranges, Range{Start: start, End: end})
	}
	sel, err := RangeSelection(ranges...)
	if err != nil {
		return err
	}
	d.selection = sel
	return nil
}
