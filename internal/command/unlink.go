package command

import (
	"github.com/runestone-text/runestone/internal/model"
	"github.com/runestone-text/runestone/internal/schema"
	"github.com/runestone-text/runestone/internal/writer"
)

// UnlinkCommand removes the link attribute (and its metadata side channel)
// from the document selection. At a caret inside a link the whole
// contiguous link is unlinked; over a ranged selection every sub-range
// where the link attribute is legal is stripped.
type UnlinkCommand struct {
	doc    *model.Document
	schema *schema.Schema

	// Enabled is true if the selection carries the link attribute.
	// Recomputed by Refresh.
	Enabled bool
}

// NewUnlinkCommand creates an unlink command over doc gated by s.
func NewUnlinkCommand(doc *model.Document, s *schema.Schema) *UnlinkCommand {
	return &UnlinkCommand{doc: doc, schema: s}
}

// Refresh recomputes Enabled from the current document state.
func (c *UnlinkCommand) Refresh() {
	c.Enabled = c.doc.Selection().HasAttribute(c.doc, AttrLink)
}

// Execute removes the link in one transaction. The edit argument is
// ignored; passing nil is fine. Selections without a link are a no-op.
func (c *UnlinkCommand) Execute(_ *LinkEdit) error {
	sel := c.doc.Selection()
	keys := []string{AttrLink, AttrLinkMeta}

	return writer.Change(c.doc, func(w *writer.Writer) error {
		if sel.IsCollapsed() {
			current, ok := sel.Attribute(c.doc, AttrLink)
			if !ok {
				return nil
			}
			linkRange := FindAttributeRange(c.doc, sel.FirstPosition(), AttrLink, current)
			if err := w.RemoveAttributes(keys, linkRange); err != nil {
				return err
			}
			return w.SetSelectionRange(linkRange)
		}
		ranges := c.schema.ValidRanges(c.doc, sel.Ranges(), AttrLink)
		for i := len(ranges) - 1; i >= 0; i-- {
			if err := w.RemoveAttributes(keys, ranges[i]); err != nil {
				return err
			}
		}
		return nil
	})
}
