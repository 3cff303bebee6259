package shared

import "fmt"

var (
	// Reference and response errors
	ErrInvalidReference = fmt.Errorf("Not a Spotify url or id")
	ErrNotJSON          = fmt.Errorf("Spotify did not return a 'application/json' response")
	ErrRemote           = fmt.Errorf("spotify API error")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Token errors
	ErrNoToken       = fmt.Errorf("no access token available")
	ErrRefreshFailed = fmt.Errorf("token refresh failed")

	// Service errors
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrStoreDisabled      = fmt.Errorf("token store disabled")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
