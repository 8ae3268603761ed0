// Package ledger tracks every accepted request until its result arrives.
//
// An entry is opened as pending when a task is emitted and resolved as
// completed or failed by the result listener. Entries that stay pending
// past a configured age are marked expired by the Sweeper. Entries are kept
// in the State Store under the "requests" namespace, so any backend that
// stores records also stores the ledger.
package ledger
