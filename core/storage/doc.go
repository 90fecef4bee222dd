// Package storage defines the record-store contract handlers program
// against.
//
// The interface is deliberately narrow: get one, list a page, insert,
// update, delete. Entities map to tables (or collections) by name; records
// travel as column-to-value maps so handler code stays free of driver
// types. integration/database/pg provides the PostgreSQL implementation.
//
// Handlers that read from somewhere else entirely simply don't take a
// Store; nothing in the request lifecycle assumes one exists.
package storage
