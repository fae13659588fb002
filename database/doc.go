// Package database manages Bun connections for the supported engines
// (PostgreSQL through lib/pq or pgx, MySQL, SQLite and SQL Server), their
// configuration, query hooks, SQL error classification, health checks and
// the registry used to create model tables.
package database
