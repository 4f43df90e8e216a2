package fragments

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// MaxArrayLength is the maximum length in bytes of an encoded array.
const MaxArrayLength = 64 << 20

// A Decoder provides utilities to read the wire format from a byte
// slice.
//
// Methods consume padding as needed to conform to wire alignment
// rules, except for [Decoder.Read] which reads bytes verbatim.
// Alignment is computed relative to the start of In. Padding bytes
// must be zero.
type Decoder struct {
	// Order is the byte order to use when reading multi-byte values.
	Order ByteOrder
	// In is the input stream to read from.
	In []byte

	offset int
}

// Offset returns the number of bytes consumed so far.
func (d *Decoder) Offset() int {
	return d.offset
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.In) - d.offset
}

// Pad consumes padding bytes as needed to make the next read happen
// at a multiple of align bytes. If the decoder is already correctly
// aligned, no bytes are consumed.
func (d *Decoder) Pad(align int) error {
	extra := d.offset % align
	if extra == 0 {
		return nil
	}
	pad, err := d.Read(align - extra)
	if err != nil {
		return err
	}
	for _, b := range pad {
		if b != 0 {
			return fmt.Errorf("non-zero padding byte at offset %d", d.offset-len(pad))
		}
	}
	return nil
}

// Read reads n bytes, with no framing or padding. The returned slice
// aliases In.
func (d *Decoder) Read(n int) ([]byte, error) {
	if n < 0 || n > d.Remaining() {
		return nil, io.ErrUnexpectedEOF
	}
	ret := d.In[d.offset : d.offset+n]
	d.offset += n
	return ret, nil
}

// Bytes reads an array of bytes.
func (d *Decoder) Bytes() ([]byte, error) {
	ln, err := d.Uint32()
	if err != nil {
		return nil, err
	}
	if ln > MaxArrayLength {
		return nil, fmt.Errorf("byte array length %d exceeds maximum %d", ln, MaxArrayLength)
	}
	return d.Read(int(ln))
}

// String reads a string. The string must be valid UTF-8 and must not
// contain NUL bytes.
func (d *Decoder) String() (string, error) {
	ln, err := d.Uint32()
	if err != nil {
		return "", err
	}
	if ln > MaxArrayLength {
		return "", fmt.Errorf("string length %d exceeds maximum %d", ln, MaxArrayLength)
	}
	return d.terminated(int(ln))
}

// Signature reads a signature string. The signature's syntax is not
// checked.
func (d *Decoder) Signature() (string, error) {
	ln, err := d.Uint8()
	if err != nil {
		return "", err
	}
	return d.terminated(int(ln))
}

// terminated reads n bytes of text followed by a NUL terminator.
func (d *Decoder) terminated(n int) (string, error) {
	bs, err := d.Read(n + 1)
	if err != nil {
		return "", err
	}
	if bs[n] != 0 {
		return "", errors.New("string is missing its NUL terminator")
	}
	bs = bs[:n]
	for _, b := range bs {
		if b == 0 {
			return "", errors.New("string contains a NUL byte")
		}
	}
	if !utf8.Valid(bs) {
		return "", errors.New("string is not valid UTF-8")
	}
	return string(bs), nil
}

// Uint8 reads a uint8.
func (d *Decoder) Uint8() (uint8, error) {
	bs, err := d.Read(1)
	if err != nil {
		return 0, err
	}
	return bs[0], nil
}

// Uint16 reads a uint16.
func (d *Decoder) Uint16() (uint16, error) {
	if err := d.Pad(2); err != nil {
		return 0, err
	}
	bs, err := d.Read(2)
	if err != nil {
		return 0, err
	}
	return d.Order.Uint16(bs), nil
}

// Uint32 reads a uint32.
func (d *Decoder) Uint32() (uint32, error) {
	if err := d.Pad(4); err != nil {
		return 0, err
	}
	bs, err := d.Read(4)
	if err != nil {
		return 0, err
	}
	return d.Order.Uint32(bs), nil
}

// Uint64 reads a uint64.
func (d *Decoder) Uint64() (uint64, error) {
	if err := d.Pad(8); err != nil {
		return 0, err
	}
	bs, err := d.Read(8)
	if err != nil {
		return 0, err
	}
	return d.Order.Uint64(bs), nil
}

// Array reads an array, and returns the number of elements read.
//
// readElement is called repeatedly with the index of the element to
// decode, until the array's byte length has been consumed. The
// function is responsible for consuming the element's own padding.
//
// containsStructs indicates whether the array's elements are 8-byte
// aligned (structs, dict entries and 64-bit values), so that the
// padding after the array header is consumed even when the array is
// empty.
func (d *Decoder) Array(containsStructs bool, readElement func(idx int) error) (int, error) {
	ln, err := d.Uint32()
	if err != nil {
		return 0, err
	}
	if ln > MaxArrayLength {
		return 0, fmt.Errorf("array length %d exceeds maximum %d", ln, MaxArrayLength)
	}
	if containsStructs {
		if err := d.Pad(8); err != nil {
			return 0, err
		}
	}
	if int(ln) > d.Remaining() {
		return 0, io.ErrUnexpectedEOF
	}

	end := d.offset + int(ln)
	idx := 0
	for d.offset < end {
		if err := readElement(idx); err != nil {
			return idx, err
		}
		idx++
	}
	if d.offset != end {
		return idx, fmt.Errorf("array element overran array end by %d bytes", d.offset-end)
	}
	return idx, nil
}

// Struct reads a struct.
//
// Struct fields must be read within the provided fields function.
func (d *Decoder) Struct(fields func() error) error {
	if err := d.Pad(8); err != nil {
		return err
	}
	return fields()
}

// ByteOrderFlag reads a byte order flag byte, and sets [Decoder.Order]
// to the byte order it denotes.
func (d *Decoder) ByteOrderFlag() error {
	v, err := d.Uint8()
	if err != nil {
		return err
	}
	ord, err := OrderForFlag(v)
	if err != nil {
		return err
	}
	d.Order = ord
	return nil
}
