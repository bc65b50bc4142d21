// Package models defines the domain entities shared by the lyrx client, CLI and record store.
//
// The package contains two categories of types:
//
// 1. Lookup values built from API responses
//   - [Candidate] : lightweight summary (id, name, url) offered during disambiguation
//   - [CandidateSet] : ordered candidates de-duplicated by id
//
// 2. Persistent entities managed by the record store
//   - [StoredTable] : metadata of a projected table saved to sqlite
//   - [StoredRow] : one serialized row of a stored table
//
// Persistent entities implement the [Model] interface; the [Repository] interface describes the store operations.
package models
