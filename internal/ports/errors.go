package ports

import "errors"

// ErrUpstreamUnavailable covers network failures, timeouts and non-2xx
// statuses from the listings provider.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// ErrMalformedResponse covers provider payloads that do not match the
// documented shape (non-array root, missing required field).
var ErrMalformedResponse = errors.New("malformed upstream response")

// ErrInternalAssembly flags an index misalignment between the channel
// list and a grid result. Defensive; should not happen.
var ErrInternalAssembly = errors.New("internal assembly error")
