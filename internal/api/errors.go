package api

import (
	"fmt"
	"net/http"
)

// Error is returned for any non-2xx response or transport failure on a
// gateway call. Status is 0 when the request never reached the server.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("api: request failed: %s", e.Message)
	}
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
}

// AuthError is returned by Login and Register. Message carries the
// server-provided reason when one was present.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
