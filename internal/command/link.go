package command

import (
	"github.com/runestone-text/runestone/internal/model"
	"github.com/runestone-text/runestone/internal/schema"
	"github.com/runestone-text/runestone/internal/writer"
)

// LinkCommand attaches or updates the link attribute on the document
// selection. Depending on selection state it retargets an existing link,
// inserts a new text run carrying the link, or applies the link across a
// multi-range selection while skipping runs the schema disallows.
type LinkCommand struct {
	doc    *model.Document
	schema *schema.Schema

	// Value is the link attribute's value at the selection's first
	// position; ValueSet reports whether it is present. Enabled is true if
	// the schema allows the link attribute somewhere in the selection.
	// All three are recomputed by Refresh.
	Value    string
	ValueSet bool
	Enabled  bool
}

// NewLinkCommand creates a link command over doc gated by s.
func NewLinkCommand(doc *model.Document, s *schema.Schema) *LinkCommand {
	return &LinkCommand{doc: doc, schema: s}
}

// Refresh recomputes Value, ValueSet, and Enabled from the current
// document state. Idempotent; performs no mutation.
func (c *LinkCommand) Refresh() {
	sel := c.doc.Selection()
	c.Value, c.ValueSet = "", false
	if v, ok := sel.Attribute(c.doc, AttrLink); ok {
		c.ValueSet = true
		if s, isString := v.(string); isString {
			c.Value = s
		}
	}
	c.Enabled = c.schema.CheckAttributeInSelection(c.doc, sel, AttrLink)
}

// Execute applies the edit in one transaction.
//
// Collapsed selection inside a link: the whole contiguous equal-value link
// is retargeted to the new href and selected. Collapsed selection outside a
// link: a new run whose text is the href itself is inserted at the caret
// with the current typing attributes plus the link, and selected, unless
// the href is empty, which is a no-op. Non-collapsed selection: the link is
// applied to every schema-allowed sub-range, and the full edit payload is
// additionally stamped under AttrLinkMeta on those sub-ranges; disallowed
// sub-ranges are skipped silently.
func (c *LinkCommand) Execute(edit *LinkEdit) error {
	if err := edit.Validate(); err != nil {
		return err
	}
	sel := c.doc.Selection()

	return writer.Change(c.doc, func(w *writer.Writer) error {
		if sel.IsCollapsed() {
			return c.executeCollapsed(w, sel, edit)
		}
		return c.executeRanged(w, sel, edit)
	})
}

// executeCollapsed handles the caret strategies.
func (c *LinkCommand) executeCollapsed(w *writer.Writer, sel model.Selection, edit *LinkEdit) error {
	pos := sel.FirstPosition()

	if current, ok := sel.Attribute(c.doc, AttrLink); ok {
		// Inside an existing link: retarget the whole contiguous link,
		// not just the caret point.
		linkRange := FindAttributeRange(c.doc, pos, AttrLink, current)
		if err := w.SetAttribute(AttrLink, edit.Href, linkRange); err != nil {
			return err
		}
		return w.SetSelectionRange(linkRange)
	}

	if edit.Href == "" {
		// Nothing to insert for an empty href at a caret.
		return nil
	}

	// Link text defaults to its own URL.
	attrs := sel.Attributes(c.doc)
	attrs.Set(AttrLink, edit.Href)
	run := w.CreateText(edit.Href, attrs)
	if err := w.Insert(run, pos); err != nil {
		return err
	}
	return w.SetSelectionOnRun(run)
}

// executeRanged stamps the link and the full payload across the allowed
// sub-ranges of the selection. Ranges are processed in reverse document
// order so boundary splits cannot shift the positions of ranges still
// pending.
func (c *LinkCommand) executeRanged(w *writer.Writer, sel model.Selection, edit *LinkEdit) error {
	ranges := c.schema.ValidRanges(c.doc, sel.Ranges(), AttrLink)
	stamp := model.Attributes{
		AttrLink:     edit.Href,
		AttrLinkMeta: edit.payload(),
	}
	for i := len(ranges) - 1; i >= 0; i-- {
		if err := w.SetAttributes(stamp, ranges[i]); err != nil {
			return err
		}
	}
	return nil
}
