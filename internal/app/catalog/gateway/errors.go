package gateway

import (
	"errors"
	"fmt"
)

// FetchError reports a failed backend request. Status is 0 when no HTTP
// response was received.
type FetchError struct {
	Resource string
	Status   int
	Message  string
	Err      error
}

func (e *FetchError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("fetch %s: %s", e.Resource, e.Message)
	}
	return fmt.Sprintf("fetch %s: status %d: %s", e.Resource, e.Status, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// AsFetchError extracts a *FetchError from err.
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
