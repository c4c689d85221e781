// Package models defines domain entities and persistence interfaces for the learndash dashboard.
//
// The package contains two categories of types:
//
// 1. Client-side values: plain structs passed between the login flow, the catalog and the dashboard
//   - [UserRecord] : Seed-list entry (identifier, secret, role, display name)
//   - [PublicUser] : Secret-free projection carried by the login handoff
//   - [SessionState] : Current user, remembered identifier and [FavoriteSet] of one client
//   - [Video] : Catalog entry
//   - [SignupRecord] : Simulated signup entry kept in the persistence substrate
//   - [SocialProfile] : Identity returned by a social login provider
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [Credential] : Server-side username with bcrypt password hash
//   - [ServerSession] : Session established by the server-side credential check
//
// Persistent entities implement the [Model] interface providing ID, timestamps and validation.
// The [Repository] interface defines standard CRUD operations for database access.
package models
