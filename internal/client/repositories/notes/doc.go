// Package notes provides the local note store.
//
// The store keeps one record per note id and maintains three secondary
// orderings (title, date, plain-text content) backed by SQLite indexes.
// Records are whole-object replaced on Put; Insert refuses to overwrite an
// existing id and reports common.ErrAlreadyExists instead.
//
// Ties in ListSortedBy are broken by first-insertion order, which is
// tracked in the seq column and survives later updates of the record.
package notes
