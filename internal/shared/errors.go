package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrLockedOut          = fmt.Errorf("account temporarily locked")
	ErrTokenExpired       = fmt.Errorf("session token expired")
	ErrTokenMalformed     = fmt.Errorf("malformed session token")
	ErrNotAuthenticated   = fmt.Errorf("not authenticated")

	// Storage errors
	ErrQuotaExceeded = fmt.Errorf("storage quota exceeded")
	ErrNotFound      = fmt.Errorf("resource not found")
	ErrServer        = fmt.Errorf("internal server error")

	// Transport errors
	ErrNetwork = fmt.Errorf("network request failed")
	ErrTimeout = fmt.Errorf("operation timed out")

	// Input validation errors
	ErrValidation      = fmt.Errorf("validation failed")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
