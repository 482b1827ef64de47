// Package repo contains the storage adapters implementing the core ports.
//
// PostgresRepository is the production adapter; MemoryRepository backs the
// test suite and local development without a database.
package repo
