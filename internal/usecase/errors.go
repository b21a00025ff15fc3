package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrTransport    = errors.New("provider request failed")
)

// ProviderStatusError is a non-2xx answer from an upstream API. It matches
// ErrTransport under errors.Is.
type ProviderStatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ProviderStatusError) Error() string {
	return fmt.Sprintf("%s status=%d body=%s", e.Provider, e.StatusCode, e.Body)
}

func (e *ProviderStatusError) Unwrap() error {
	return ErrTransport
}
