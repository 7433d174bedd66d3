package weatherservice

import (
	"errors"
	"fmt"
)

// NetworkError is returned when a remote service cannot be reached or
// answers with a non-success status.
type NetworkError struct {
	Operation  string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("network error during %s: status %d: %v", e.Operation, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// GeolocationReason says why a position could not be determined.
type GeolocationReason string

const (
	GeolocationDenied      GeolocationReason = "denied"
	GeolocationTimeout     GeolocationReason = "timeout"
	GeolocationUnsupported GeolocationReason = "unsupported"
)

// GeolocationError is returned by a Locator that could not produce a fix.
type GeolocationError struct {
	Reason GeolocationReason
	Err    error
}

func (e *GeolocationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("geolocation %s", e.Reason)
	}
	return fmt.Sprintf("geolocation %s: %v", e.Reason, e.Err)
}

func (e *GeolocationError) Unwrap() error {
	return e.Err
}

var errEmptyResponse = errors.New("empty response body")

// IsNetworkError reports whether err carries a *NetworkError.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
