package command

import (
	"errors"
	"fmt"
	"unicode"
)

// Attribute keys written by the link commands.
const (
	// AttrLink marks a run of text as hyperlinked; its value is the link
	// destination.
	AttrLink = "linkHref"

	// AttrLinkMeta carries the full edit payload for downstream consumers
	// (metadata beyond the URL). Only range-wide edits stamp it.
	AttrLinkMeta = "linkMetadata"
)

// ErrInvalidEdit is returned when an edit violates the caller contract
// before any mutation is attempted.
var ErrInvalidEdit = errors.New("invalid link edit")

// Command is a user-invokable editing action with explicitly recomputed
// state: call Refresh to update the command's observable fields, Execute to
// perform the edit.
type Command interface {
	Refresh()
	Execute(edit *LinkEdit) error
}

// LinkEdit is the ephemeral intent object consumed once per execution:
// the link destination plus any extra payload supplied by the caller.
type LinkEdit struct {
	Href  string
	Extra map[string]any
}

// Validate rejects edits that violate the caller contract: a nil edit, or
// an href containing control characters.
func (e *LinkEdit) Validate() error {
	if e == nil {
		return fmt.Errorf("%w: nil edit", ErrInvalidEdit)
	}
	for _, r := range e.Href {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: href contains control character %q", ErrInvalidEdit, r)
		}
	}
	return nil
}

// payload returns the full edit as an attribute-bag value: the href under
// "href" plus every extra entry. This is what range-wide edits stamp under
// AttrLinkMeta.
func (e *LinkEdit) payload() map[string]any {
	out := make(map[string]any, len(e.Extra)+1)
	for k, v := range e.Extra {
		out[k] = v
	}
	out["href"] = e.Href
	return out
}
