package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// Catalog and resolution errors.
	//
	// ErrRetryExhausted and ErrFatalResponse classify retry client failures;
	// ErrSetlistNotFound is an expected outcome (wrong lookup date), distinct
	// from failure, and requires a corrected date from the caller.
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrRetryExhausted     = fmt.Errorf("retry budget exhausted")
	ErrFatalResponse      = fmt.Errorf("non-retriable response")
	ErrSetlistNotFound    = fmt.Errorf("no setlist found")
	ErrLookupFailed       = fmt.Errorf("setlist lookup failed")
	ErrTrackNotFound      = fmt.Errorf("track not found")
	ErrRecordNotFound     = fmt.Errorf("record not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
