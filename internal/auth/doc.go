// Package auth holds the credential checks and input validation behind every login path.
//
// # Client-side login
//
// [Authenticate] checks an identifier and secret against a fixed list of [models.UserRecord]
// (see [SeedUsers] and [Directory]). Identifiers compare case-insensitively, secrets exactly.
// Failures are [ErrUserNotFound] and [ErrWrongSecret], both *[AuthError] values whose Error text is
// the alert shown on the login form.
//
// [ValidateIdentifier] and [ValidateSecret] run before any credential check and return *[FieldError]
// values carrying the field and the [FieldKind] (Empty, TooShort, BadEmailFormat).
//
// # Handoff
//
// A successful login is handed to the dashboard as a signed, short-lived token issued by
// [HandoffSigner]. It carries only the [models.PublicUser] fields.
//
// # Server-side login
//
// [CredentialChecker] verifies a username and password against bcrypt hashes kept in the
// credentials table. It is independent from the seed list.
package auth
