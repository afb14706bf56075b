// Package errs defines the fatal error taxonomy shared by every codec
// package. All of them are fatal to the current stream and are never
// retried internally.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedCBOR means the outer bytes are not a valid CBOR array, or
	// an inner element is not the expected shape (map, [index,value] pair).
	ErrMalformedCBOR = errors.New("malformed cbor")

	// ErrIndexOutOfRange means a diff index exceeds the highest index in
	// the previous document.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrWrongContainerKind means an edit's kind is incompatible with the
	// target node (delete from scalar, prepend on map, ...).
	ErrWrongContainerKind = errors.New("wrong container kind")

	// ErrTagPayloadInvalid means a value tag carries a payload of the
	// wrong length or shape.
	ErrTagPayloadInvalid = errors.New("tag payload invalid")

	// ErrUnknownKeyTag means a key tag is in the custom range but not one
	// of the ten defined key tags.
	ErrUnknownKeyTag = errors.New("unknown key tag")

	// ErrMalformedEdit means an edit script entry is missing a required
	// field or its value is the wrong shape for its container kind.
	ErrMalformedEdit = errors.New("malformed edit")
)

// ChainError wraps an error with the position of the failing document in
// a decoded chain, so callers can tell which element of the stream broke.
type ChainError struct {
	DocIndex int
	Err      error
}

func Chain(docIndex int, err error) error {
	if err == nil {
		return nil
	}
	return &ChainError{DocIndex: docIndex, Err: err}
}

func (e *ChainError) Error() string {
	return fmt.Sprintf("document %d: %v", e.DocIndex, e.Err)
}

func (e *ChainError) Unwrap() error {
	return e.Err
}
