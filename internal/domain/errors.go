package domain

import "errors"

// Extraction failures: the backend replied but no usable code block was found.
var (
	ErrNoCodeFence   = errors.New("no fenced code block in response")
	ErrUnclosedFence = errors.New("fenced code block is not closed")
)

// Backend failures.
var (
	ErrBackend     = errors.New("backend request failed")
	ErrRateLimited = errors.New("backend rate limited")
	ErrAuth        = errors.New("backend authentication failed")
)

// ErrConfig covers invalid startup configuration: bad provider selector,
// degenerate window size, missing credentials.
var ErrConfig = errors.New("invalid configuration")
