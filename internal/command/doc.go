// Package command implements the editor commands that attach and detach
// hyperlink attributes on the document selection.
//
// Commands follow a plain refresh/execute contract: Refresh recomputes the
// command's observable state (value, enabled) from the document, and
// Execute performs the edit in a single writer transaction. Nothing here is
// reactive; callers refresh when they care.
package command
