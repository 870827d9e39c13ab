// Package writer persists the reconciled table.
//
// Writers:
//   - PostgreSQL writer (pgx COPY inside a transaction)
//   - SQLite writer (prepared inserts inside a transaction)
//
// All writers use replace semantics: every run drops and recreates the
// table with the new record set, never appending or upserting. The swap
// happens in one transaction, so a failed write leaves the previous table.
package writer
