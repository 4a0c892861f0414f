package quip

import "fmt"

// ErrorCategory classifies what went wrong on the API boundary.  The
// hierarchy builder keys its containment policy off this: an *APIError on a
// non-root subfolder drops that branch and carries on, anything else is
// fatal to the traversal.
type ErrorCategory int

const (
	CategoryUnauthorized ErrorCategory = iota
	CategoryForbidden
	CategoryNotFound
	CategoryRateLimited
	CategoryNetwork
	CategoryMalformedResponse
)

func (c ErrorCategory) String() string {
	switch c {
	case CategoryUnauthorized:
		return "unauthorized"
	case CategoryForbidden:
		return "forbidden"
	case CategoryNotFound:
		return "not_found"
	case CategoryRateLimited:
		return "rate_limited"
	case CategoryMalformedResponse:
		return "malformed_response"
	default:
		return "network"
	}
}

// APIError is the typed failure for every Quip call.
type APIError struct {
	Category   ErrorCategory
	StatusCode int // zero when the failure never got an HTTP status
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("quip: %s (%s, status %d)", e.Message, e.Category, e.StatusCode)
	}
	return fmt.Sprintf("quip: %s (%s)", e.Message, e.Category)
}

func (e *APIError) Unwrap() error {
	return e.Err
}
