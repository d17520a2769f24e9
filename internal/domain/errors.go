package domain

import (
	"errors"
)

// Failure classes surfaced by the API layer. Handlers map them to HTTP
// statuses with errors.Is; none of them are retried internally.
var (
	// ErrSessionNotFound means an unknown session id was referenced.
	ErrSessionNotFound = errors.New("session not found")

	// ErrProfileNotFound means the document store has no profile for the id.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrSessionRetired means a retired session was asked to accept a turn.
	ErrSessionRetired = errors.New("session already retired")

	// ErrMalformedInferenceResult means a model reply could not be parsed
	// into the expected shape.
	ErrMalformedInferenceResult = errors.New("malformed inference result")

	// ErrContractViolation means the model returned an index outside the
	// bounds of the known item list.
	ErrContractViolation = errors.New("model response violates contract")

	// ErrUpstreamUnavailable covers any external store or service failure.
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
)
