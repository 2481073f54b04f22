package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotAnImage        = errors.New("uploaded file is not an image")
	ErrNoImageContent    = errors.New("model response contained no image data")
	ErrNotReady          = errors.New("session is not ready to generate")
	ErrBusy              = errors.New("a generation is already in flight")
	ErrReferenceNotFound = errors.New("reference not found")
	ErrNoResult          = errors.New("no fused image available")
	ErrSessionNotFound   = errors.New("session not found")
)

// FetchError reports a failed retrieval of a reference image through the
// relay. Status carries the HTTP status text of the upstream response.
type FetchError struct {
	URL    string
	Status string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch reference image: %s", e.Status)
}
