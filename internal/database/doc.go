// Package database provides connection management for the ETL databases.
//
// Each run uses two databases:
//   - Source: upstream sensor tables (PurpleAirData, Registros)
//   - Target: the reconciled table, replaced wholesale on every run
//
// Production uses PostgreSQL through pgx pools; local runs and tests can
// point either side at a sqlite file instead.
package database
