// Package session runs the client-side flows of the dashboard for one client: login, favorites, logout,
// signup, password reset and social login.
//
// A [Manager] owns a [models.SessionState] and writes preferences to a [storage.Store]. Visible effects
// (field errors, alerts, the loading indicator, the shake and navigation) go to a [Presenter]; [Recorder]
// collects them for the web handlers and tests.
//
// The login flow moves through the phases Idle, Validating, Submitting and then Success or Failed.
// A Failed login returns to Idle when an input changes.
package session
