// Package catalog serves the dashboard's video list: search, category filtering, favorites and view counts.
//
// [Filter] is a pure function over a slice of [models.Video]; [Catalog] wraps the seed list with a lock so
// HTTP handlers and the TUI can share it while [Catalog.RecordView] bumps view counts.
package catalog
