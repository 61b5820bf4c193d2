// Package schema answers whether an attribute may be applied at a document
// position or over a range, and narrows candidate ranges to their allowed
// sub-ranges.
//
// Validity follows an exclusion model: a rule for an attribute key lists
// other attribute keys it cannot coexist with on the same run. Rules can be
// registered programmatically or loaded from a TOML or YAML file, and a
// Watcher can hot-reload the file while the editor runs.
package schema
