package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Session and token lifecycle errors
	ErrGrantExchange    = fmt.Errorf("authorization grant rejected")
	ErrNotAuthenticated = fmt.Errorf("no active session")
	ErrRefreshFailed    = fmt.Errorf("token refresh failed")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// Catalog errors
	ErrCatalogData = fmt.Errorf("malformed catalog data")
	ErrLookup      = fmt.Errorf("video catalog lookup failed")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrAccountNotFound    = fmt.Errorf("account not found")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
