// Package model implements the document model for the attribute range
// editor: positions, ranges, attribute bags, text runs, the run-sequence
// document, and the selection over it.
//
// The model exposes two surfaces. Read accessors are safe to call at any
// time. Run mutators (SplitAtOffset, InsertRunAt, RemoveRunRange, the
// per-run attribute setters, Normalize) require an open edit started with
// BeginEdit and are intended to be driven by the writer package, which
// provides the transactional scope around them.
package model
