// Package pager implements the paged storage substrate of an embedded,
// file-backed key/value engine: a fixed-size Page abstraction, a Device
// layer that serves pages from either a memory-mapped file or heap
// memory, and the environment configuration that drives both.
//
// Higher-level machinery — B+tree navigation, cursors, transactions,
// a journal/WAL, and the public API — is intentionally out of scope.
// This package defines the contract those layers consume.
package pager
