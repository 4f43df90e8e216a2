// Package fragments provides low-level encoding and decoding helpers
// for the aligned wire format used by message bus bodies.
//
// The provided encoder and decoder are very low level, and do not
// encode any type semantics. It is the caller's responsibility to
// produce and consume well-formed bodies with these tools. The msgarg
// package uses them to encode and decode Value trees.
package fragments
