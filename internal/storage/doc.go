// Package storage is the persistence layer of the garage directory.
//
// A Storage is a stateful connection handle (Disconnected, Connected, Failed)
// exposing CRUD over users and categories. Every backend reports failures with
// the same taxonomy, so callers can match them with errors.Is:
//
//   - ErrNotConnected: call made before Connect or after Disconnect
//   - ErrConnectionFailed: backend unreachable, or persisted data unreadable
//   - ErrNotFound: get/update/delete of an unknown key
//   - ErrDuplicateKey: add of a key that already exists
//
// Backends
//
//   - Memory: seeds a fixed dataset on every connect; nothing survives
//     a disconnect.
//   - File: JSON snapshot of the whole dataset, loaded on connect and
//     atomically rewritten on every mutation.
//   - SQLite: modernc.org/sqlite database migrated with goose; each
//     mutation runs in its own transaction.
//
// Open builds a backend from its Kind name.
package storage
