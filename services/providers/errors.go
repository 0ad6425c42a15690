package providers

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a provider answer of "no lyrics for this song".
	ErrNotFound = errors.New("lyrics not found")

	// ErrNoProviders is wrapped by ResolutionError when the chain is empty.
	ErrNoProviders = errors.New("no lyrics providers enabled")
)

// ProviderError represents an error from a provider with additional context
type ProviderError struct {
	Provider string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Provider + ": " + e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a new ProviderError
func NewProviderError(provider, message string, err error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Message:  message,
		Err:      err,
	}
}

// NotFound returns a ProviderError reporting that provider has no lyrics
// for the song.
func NotFound(provider string) *ProviderError {
	return NewProviderError(provider, "no lyrics for song", ErrNotFound)
}

// NotFoundError is returned when the chain is exhausted and at least one
// provider answered that it has no lyrics for the song.
type NotFoundError struct {
	Artist string
	Title  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no lyrics found for %s - %s", e.Artist, e.Title)
}

// Is lets errors.Is(err, ErrNotFound) match a NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ResolutionError is returned when every provider failed for a reason other
// than "not found". Last is the final provider's error.
type ResolutionError struct {
	Attempted []string
	Last      error
}

func (e *ResolutionError) Error() string {
	if e.Last == nil {
		return "lyrics resolution failed"
	}
	return "lyrics resolution failed: " + e.Last.Error()
}

func (e *ResolutionError) Unwrap() error {
	return e.Last
}

// IsNotFound reports whether err means "no lyrics for this song" rather
// than a provider failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
