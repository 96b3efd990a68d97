package ai

import "errors"

var (
	// ErrProviderUnavailable covers network-layer failures reaching the backend.
	ErrProviderUnavailable = errors.New("generation provider unavailable")
	// ErrRequestTimeout covers a provider call exceeding the bounded timeout.
	ErrRequestTimeout = errors.New("generation request timeout")
	// ErrAPIError covers an explicit error payload in the provider response.
	ErrAPIError = errors.New("generation provider returned an error")
	// ErrInvalidResponse covers a response missing the expected content field.
	ErrInvalidResponse = errors.New("generation provider returned invalid response")
)
