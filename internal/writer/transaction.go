package writer

import "github.com/runestone-text/runestone/internal/model"

// Change runs fn with a Writer scoped to one transaction on doc.
//
// On a nil return the transaction commits: positions are normalized,
// adjacent runs with equal attribute bags merge, and the document revision
// advances. On any error (or panic) the document is restored byte for byte
// to its pre-transaction state, selection included, and the error (or
// panic) propagates. Nested calls fail with ErrNestedTransaction.
func Change(doc *model.Document, fn func(*Writer) error) error {
	if doc == nil {
		return mutationErr("change", ErrNilDocument)
	}
	if err := doc.BeginEdit(); err != nil {
		return ErrNestedTransaction
	}

	snap := doc.TakeSnapshot()
	w := &Writer{doc: doc, active: true}

	defer func() {
		w.active = false
		if r := recover(); r != nil {
			doc.Restore(snap)
			doc.EndEdit(false)
			panic(r)
		}
	}()

	if err := fn(w); err != nil {
		doc.Restore(snap)
		doc.EndEdit(false)
		return err
	}

	if err := doc.Normalize(); err != nil {
		doc.Restore(snap)
		doc.EndEdit(false)
		return mutationErr("commit", err)
	}

	doc.EndEdit(true)
	return nil
}
