// Package testdb provides utilities for tests that need a real Postgres
// database. Those tests are skipped unless COURIER_TEST_DATABASE_URL is set.
//
// Writes should happen inside WithTx so nothing a test writes outlives it
// and tests can run in parallel against one database.
package testdb
