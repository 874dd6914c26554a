package grabber

import (
	"errors"
	"fmt"
)

var ErrAlreadyGrabbed = errors.New("grabber: Grab already called on this Grabber")

// ConfigurationError reports an unusable worker count. It is returned by New before any
// network activity.
type ConfigurationError struct {
	Workers int
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid worker count %d: must be a positive integer", e.Workers)
}

// StatusError is recorded for a job whose origin answered with anything but 200.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d for %s", e.StatusCode, e.URL)
}
