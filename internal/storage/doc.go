// Package storage is the key-value persistence substrate behind client preferences: the remembered
// identifier, favorites, the simulated signup record and the session marker.
//
// A [Backend] holds entries for many namespaces (sqlite, memory or redis, chosen by [Open]).
// [Profile] fixes a backend to one namespace and returns the [Store] a single client sees. The typed
// helpers in keys.go encode and decode the values; a malformed value is reported as *[ParseError] and
// a failing backend as *[PersistenceError].
package storage
