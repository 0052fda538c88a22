package github

import (
	"errors"
	"fmt"
)

// ErrMissingToken is returned before any request is issued when the caller
// did not supply an access token.
var ErrMissingToken = errors.New("github: missing access token")

// UpstreamError indicates a non-2xx response or transport failure from the
// GitHub API.
type UpstreamError struct {
	StatusCode int
	Path       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("github: request to %s failed: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("github: request to %s returned status %d", e.Path, e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue) && ue.StatusCode == 404
}
