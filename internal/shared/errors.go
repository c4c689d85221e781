package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed        = fmt.Errorf("authentication failed")
	ErrNotAuthenticated  = fmt.Errorf("not authenticated")
	ErrInvalidToken      = fmt.Errorf("invalid token")
	ErrTokenExpired      = fmt.Errorf("token expired")
	ErrSessionExpired    = fmt.Errorf("session expired")
	ErrUnsupportedSocial = fmt.Errorf("unsupported social login provider")

	// Lookup errors
	ErrNotFound      = fmt.Errorf("not found")
	ErrVideoNotFound = fmt.Errorf("video not found")
	ErrAlreadyExists = fmt.Errorf("already exists")

	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrTimeout            = fmt.Errorf("operation timed out")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
