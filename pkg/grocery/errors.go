package grocery

import (
	"errors"
	"fmt"
)

// ====================================================================================
// Error taxonomy shared by every service:
//
//   - NetworkError: transport/timeout/HTTP-level failure from a remote data source.
//   - StoreError: local persistence failure (clear, insert or query).
//   - PreconditionError: missing context detected before any network or cache I/O.
//   - DecodingError: malformed remote payload, carrying the raw bytes for diagnostics.
//
// A NetworkError is surfaced verbatim whenever no usable cached value exists. A
// StoreError raised immediately after a successful remote fetch overrides the
// success. PreconditionErrors are never retried.
// ====================================================================================

// NetworkError wraps a failure from a remote data source.
type NetworkError struct {
	Op   string // The logical operation, e.g. "getBasket".
	Code int    // HTTP status or transport error code, if known.
	Err  error
}

func (e *NetworkError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("network error in %s (code %d): %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("network error in %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// StoreError wraps a failure from the local cache store.
type StoreError struct {
	Op  string // "clear", "insert" or "query".
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("cache store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// DecodingError reports a payload that could not be decoded. Raw holds the
// offending bytes for diagnostics.
type DecodingError struct {
	Op  string
	Raw []byte
	Err error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("decoding failed in %s: %v", e.Op, e.Err)
}

func (e *DecodingError) Unwrap() error { return e.Err }

// Precondition errors. These short-circuit a service call before any remote or
// cache I/O happens.
var (
	ErrStoreSelectionRequired     = errors.New("a selected store is required")
	ErrFulfilmentLocationRequired = errors.New("a resolved fulfilment location is required")
	ErrDraftOrderRequired         = errors.New("a draft order is required")
	ErrMemberSignInRequired       = errors.New("a signed in member is required")
	ErrBasketRequired             = errors.New("unable to proceed without a basket")
)

// ErrMemberAlreadyRegistered is returned by registration when the email is
// already attached to an account; callers retry the attempt as a login.
var ErrMemberAlreadyRegistered = errors.New("member already registered")

// IsPrecondition reports whether err is one of the domain precondition errors.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrStoreSelectionRequired) ||
		errors.Is(err, ErrFulfilmentLocationRequired) ||
		errors.Is(err, ErrDraftOrderRequired) ||
		errors.Is(err, ErrMemberSignInRequired) ||
		errors.Is(err, ErrBasketRequired)
}
