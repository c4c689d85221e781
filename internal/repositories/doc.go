// Package repositories implements SQLite persistence for the dashboard's server-side state.
//
// Credential rows carry atomic sequence numbers for human-readable ordering and support soft deletes via
// deleted_at timestamps, excluded from queries by default.
//
// Key Implementations:
//   - [CredentialRepository] : Server-side usernames with bcrypt password hashes
//   - [ServerSessionRepository] : Sessions created by the server-side login, with revoke and prune
//   - [KeyValueRepository] : Namespaced key-value rows backing the sqlite persistence substrate
//
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
