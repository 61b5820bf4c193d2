// Package editor ties the document model, schema, and link commands into
// one facade, the way a host embeds the editing core.
package editor

import (
	"github.com/runestone-text/runestone/internal/command"
	"github.com/runestone-text/runestone/internal/model"
	"github.com/runestone-text/runestone/internal/schema"
)

// Editor bundles a document with the schema that gates it and the commands
// that edit it.
type Editor struct {
	doc    *model.Document
	schema *schema.Schema
	link   *command.LinkCommand
	unlink *command.UnlinkCommand

	watcher *schema.Watcher
}

// Option configures an Editor.
type Option func(*Editor)

// WithSchema replaces the default schema.
func WithSchema(s *schema.Schema) Option {
	return func(e *Editor) {
		if s != nil {
			e.schema = s
		}
	}
}

// New creates an editor over doc. Without options the default schema
// applies (links and code are mutually exclusive).
func New(doc *model.Document, opts ...Option) *Editor {
	e := &Editor{
		doc:    doc,
		schema: schema.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.link = command.NewLinkCommand(doc, e.schema)
	e.unlink = command.NewUnlinkCommand(doc, e.schema)
	return e
}

// Document returns the underlying document.
func (e *Editor) Document() *model.Document {
	return e.doc
}

// Schema returns the schema gating attribute application.
func (e *Editor) Schema() *schema.Schema {
	return e.schema
}

// LinkState describes the link command's observable state.
type LinkState struct {
	Value    string // link value at the selection's first position
	ValueSet bool   // whether the selection carries a link
	Enabled  bool   // whether a link may be applied in the selection
}

// LinkState refreshes and returns the link command's state.
func (e *Editor) LinkState() LinkState {
	e.link.Refresh()
	return LinkState{
		Value:    e.link.Value,
		ValueSet: e.link.ValueSet,
		Enabled:  e.link.Enabled,
	}
}

// Link applies the edit to the current selection.
func (e *Editor) Link(edit *command.LinkEdit) error {
	return e.link.Execute(edit)
}

// Unlink removes the link from the current selection.
func (e *Editor) Unlink() error {
	return e.unlink.Execute(nil)
}

// WatchRules loads the rule file into the schema and hot-reloads it on
// change until Close is called.
func (e *Editor) WatchRules(path string, opts ...schema.WatcherOption) error {
	w, err := schema.Watch(e.schema, path, opts...)
	if err != nil {
		return err
	}
	if e.watcher != nil {
		_ = e.watcher.Close()
	}
	e.watcher = w
	return nil
}

// LoadRules loads the rule file into the schema once, without watching.
func (e *Editor) LoadRules(path string) error {
	rs, err := schema.LoadRules(path)
	if err != nil {
		return err
	}
	e.schema.Apply(rs)
	return nil
}

// Close releases any resources held by the editor.
func (e *Editor) Close() error {
	if e.watcher == nil {
		return nil
	}
	err := e.watcher.Close()
	e.watcher = nil
	return err
}
