// Package storage is the client's durable local store.
//
// A single SQLite file holds a metadata key/value table. The session
// credential lives under one key; when a passphrase is configured it is
// sealed with AES-GCM under an Argon2id-derived key whose salt is kept in the
// same table.
package storage
