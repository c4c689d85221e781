// Package services implements the [SocialProvider] interface for the dashboard's social login.
//
// # Google Implementation
//
// [GoogleService] wraps an [oauth2.Config] for Google's endpoints. [GoogleService.Exchange] trades the
// authorization code for a token, then reads the OpenID userinfo endpoint with the token's client and maps
// the response to a [models.SocialProfile].
//
// # Error Handling
//
//   - [shared.ErrMissingCredentials] : client id or secret not configured
//   - [shared.ErrAuthFailed] : code exchange or userinfo request rejected
package services
