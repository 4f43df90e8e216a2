package msgarg

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrInvalidValue is returned when reading or inspecting a [Value]
// that is not bound to anything.
var ErrInvalidValue = errors.New("msgarg: value is invalid (not bound)")

// BadSignatureError is the error returned when a signature is
// malformed, or when a value does not match the signature it is
// being bound to.
type BadSignatureError struct {
	// Signature is the signature that was being parsed or bound. When
	// binding a container, it is the signature of the innermost
	// component that failed.
	Signature string
	// Path locates the failing component within the value being
	// bound, for example "[2].key" or ".1[0]". It is empty when the
	// failure is at the top level.
	Path string
	// Reason explains what is wrong.
	Reason error
}

func (e BadSignatureError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("bad signature %q: %s", e.Signature, e.Reason)
	}
	return fmt.Sprintf("bad signature %q at %s: %s", e.Signature, e.Path, e.Reason)
}

func (e BadSignatureError) Unwrap() error {
	return e.Reason
}

func badSig(sig, path string, reason string, args ...any) error {
	return BadSignatureError{sig, path, fmt.Errorf(reason, args...)}
}

// SignatureMismatchError is the error returned when a [Value] cannot
// satisfy the signature or Go type requested from it.
type SignatureMismatchError struct {
	// Want is the requested signature.
	Want string
	// Have is the declared signature of the value, followed by the
	// signatures of any variant layers that were searched.
	Have []string
	// Reason optionally explains why a value with a matching
	// signature could not be stored in the requested Go type.
	Reason error
}

func (e SignatureMismatchError) Error() string {
	if e.Reason != nil {
		return fmt.Sprintf("signature mismatch: want %q, have %q: %s", e.Want, e.Have, e.Reason)
	}
	return fmt.Sprintf("signature mismatch: want %q, have %q", e.Want, e.Have)
}

func (e SignatureMismatchError) Unwrap() error {
	return e.Reason
}

// TypeError is the error returned when a Go type has no
// representation as a signature.
type TypeError struct {
	// Type is the name of the type that caused the error.
	Type string
	// Reason is an explanation of why the type isn't representable.
	Reason error
}

func (e TypeError) Error() string {
	return fmt.Sprintf("msgarg cannot represent %s: %s", e.Type, e.Reason)
}

func (e TypeError) Unwrap() error {
	return e.Reason
}

func typeErr(t reflect.Type, reason string, args ...any) error {
	ts := "nil"
	if t != nil {
		ts = t.String()
	}
	return TypeError{ts, fmt.Errorf(reason, args...)}
}
