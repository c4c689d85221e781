// Package server provides HTTP routing, middleware, and OAuth callback handling for the web service and the CLI.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns ("GET /api/videos/{id}").
//
// # Middleware
//
//   - [RequestID], [RealIP], [Recoverer] : chi middleware ([RealIP] only behind a trusted proxy)
//   - [RequestLogger] : one structured log line per request, with [SensitiveQueryParams] redacted
//   - [CORS] : go-chi/cors for the JSON API
//   - [RateLimiter] : per-client token buckets from golang.org/x/time/rate, dropped once idle
//
// # OAuth Callback Handler
//
// [Callback] validates the state parameter (CSRF protection) and exchanges the authorization code with a
// [services.SocialProvider]. The web handlers call it directly.
//
// [OAuthHandler] wraps it for the CLI: `learndash login --google` starts a temporary server on the configured
// callback address, opens the browser, and waits on [OAuthHandler.Result]. It only processes one callback
// to prevent replay attacks.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
