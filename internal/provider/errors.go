package provider

import "fmt"

// FetchErrorKind classifies why a remote fetch failed.
type FetchErrorKind int

const (
	// ErrNetwork covers DNS, connect, and transport failures.
	ErrNetwork FetchErrorKind = iota
	// ErrHTTPStatus is a non-2xx response from the remote API.
	ErrHTTPStatus
	// ErrMalformedBody is a response body that could not be parsed.
	ErrMalformedBody
	// ErrMissingField is a parseable response missing a required field.
	ErrMissingField
	// ErrTimeout is a fetch that exceeded its deadline.
	ErrTimeout
)

func (k FetchErrorKind) String() string {
	switch k {
	case ErrNetwork:
		return "network"
	case ErrHTTPStatus:
		return "http status"
	case ErrMalformedBody:
		return "malformed body"
	case ErrMissingField:
		return "missing field"
	case ErrTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// FetchError is a failed fetch for one location. The Collection Cycle
// recovers these locally; they are never fatal to the process.
type FetchError struct {
	Kind     FetchErrorKind
	Location string
	Status   int    // HTTP status, for ErrHTTPStatus
	Field    string // missing field name, for ErrMissingField
	Err      error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case ErrHTTPStatus:
		return fmt.Sprintf("fetch for %s: API returned status %d", e.Location, e.Status)
	case ErrMissingField:
		return fmt.Sprintf("fetch for %s: response missing required field %q", e.Location, e.Field)
	default:
		return fmt.Sprintf("fetch for %s: %s error: %v", e.Location, e.Kind, e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
