// Package writer provides the transactional mutation surface over a
// document. Change is the only entry point: it opens exactly one
// transaction, hands the caller a Writer scoped to it, and guarantees the
// document is either committed whole or restored to its prior state.
// Readers never observe a document mid-transaction.
package writer
