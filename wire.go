package msgarg

import (
	"errors"
	"fmt"
	"math"

	"github.com/danderson/msgarg/fragments"
)

// MaxArrayLength is the maximum length in bytes of an encoded array
// or string.
const MaxArrayLength = fragments.MaxArrayLength

// WireError is the error returned when a message body cannot be
// decoded.
type WireError struct {
	// Offset is the byte offset in the body at which decoding failed.
	Offset int
	// Path locates the failing value, for example "arg1[3].key".
	Path string
	// Reason explains what is wrong.
	Reason error
}

func (e WireError) Error() string {
	return fmt.Sprintf("wire decode at offset %d (%s): %s", e.Offset, e.Path, e.Reason)
}

func (e WireError) Unwrap() error {
	return e.Reason
}

// AppendWire appends the wire encoding of args to buf, and returns
// the extended buffer. Alignment padding is computed relative to the
// start of buf, so buf should be empty or end on an 8-byte boundary
// of the enclosing message.
func AppendWire(buf []byte, ord fragments.ByteOrder, args ...Value) ([]byte, error) {
	e := fragments.Encoder{Order: ord, Out: buf}
	for i, a := range args {
		if !a.IsValid() {
			return buf, fmt.Errorf("arg%d: %w", i, ErrInvalidValue)
		}
		if err := encodeValue(&e, a); err != nil {
			return buf, err
		}
	}
	return e.Out, nil
}

func encodeValue(e *fragments.Encoder, v Value) error {
	switch p := v.p.(type) {
	case scalar[uint8]:
		e.Uint8(p.v)
	case scalar[bool]:
		if p.v {
			e.Uint32(1)
		} else {
			e.Uint32(0)
		}
	case scalar[int16]:
		e.Uint16(uint16(p.v))
	case scalar[uint16]:
		e.Uint16(p.v)
	case scalar[int32]:
		e.Uint32(uint32(p.v))
	case scalar[uint32]:
		e.Uint32(p.v)
	case scalar[int64]:
		e.Uint64(uint64(p.v))
	case scalar[uint64]:
		e.Uint64(p.v)
	case scalar[float64]:
		e.Uint64(math.Float64bits(p.v))
	case scalar[string]:
		e.String(p.v)
	case scalar[ObjectPath]:
		e.String(string(p.v))
	case scalar[Signature]:
		e.Signature(p.v.str)
	case arrayPayload:
		return e.Array(alignment(v.sig.Elem()) == 8, func() error {
			for _, elem := range p.elems {
				if err := encodeValue(e, elem); err != nil {
					return err
				}
			}
			return nil
		})
	case structPayload:
		return e.Struct(func() error {
			for _, f := range p.fields {
				if err := encodeValue(e, f); err != nil {
					return err
				}
			}
			return nil
		})
	case dictPayload:
		return e.Array(true, func() error {
			for i := range p.keys {
				err := e.Struct(func() error {
					if err := encodeValue(e, p.keys[i]); err != nil {
						return err
					}
					return encodeValue(e, p.vals[i])
				})
				if err != nil {
					return err
				}
			}
			return nil
		})
	case variantPayload:
		e.Signature(p.inner.sig.str)
		return encodeValue(e, p.inner)
	default:
		return ErrInvalidValue
	}
	return nil
}

// alignment returns the wire alignment of values of signature s.
func alignment(s Signature) int {
	switch s.str[0] {
	case 'y', 'g', 'v':
		return 1
	case 'n', 'q':
		return 2
	case 'b', 'i', 'u', 's', 'o', 'a':
		return 4
	default:
		// x, t, d, structs.
		return 8
	}
}

// DecodeWire decodes a message body whose signature is sig, and
// returns one Value per complete type in sig.
//
// The body must be entirely consumed. Decoded values are validated
// like values built with [Value.Set]: booleans must be 0 or 1, strings
// valid UTF-8, object paths and signatures well formed, dictionary
// keys unique, and nesting within [MaxDepth] containers. Variants in
// the body are collapsed as described for [NewVariant].
func DecodeWire(data []byte, ord fragments.ByteOrder, sig string) ([]Value, error) {
	s, err := ParseSignature(sig)
	if err != nil {
		return nil, err
	}
	d := wireDecoder{Decoder: fragments.Decoder{Order: ord, In: data}}
	parts := s.Split()
	ret := make([]Value, 0, len(parts))
	for i, part := range parts {
		v, err := d.value(part, fmt.Sprintf("arg%d", i), 0)
		if err != nil {
			return nil, err
		}
		ret = append(ret, v)
	}
	if n := d.Remaining(); n > 0 {
		return nil, WireError{d.Offset(), "", fmt.Errorf("%d trailing bytes after body", n)}
	}
	return ret, nil
}

type wireDecoder struct {
	fragments.Decoder
}

func (d *wireDecoder) fail(path string, err error) error {
	var we WireError
	if errors.As(err, &we) {
		return err
	}
	return WireError{d.Offset(), path, err}
}

func (d *wireDecoder) value(sig Signature, path string, depth int) (Value, error) {
	if depth > maxValueDepth {
		return Value{}, d.fail(path, fmt.Errorf("values nested deeper than %d levels", maxValueDepth))
	}

	var p payload
	switch sig.str[0] {
	case 'y':
		u, err := d.Uint8()
		if err != nil {
			return Value{}, d.fail(path, err)
		}
		p = scalar[uint8]{u}
	case 'b':
		u, err := d.Uint32()
		if err != nil {
			return Value{}, d.fail(path, err)
		}
		if u > 1 {
			return Value{}, d.fail(path, fmt.Errorf("invalid boolean value %d", u))
		}
		p = scalar[bool]{u == 1}
	case 'n', 'q':
		u, err := d.Uint16()
		if err != nil {
			return Value{}, d.fail(path, err)
		}
		if sig.str[0] == 'n' {
			p = scalar[int16]{int16(u)}
		} else {
			p = scalar[uint16]{u}
		}
	case 'i', 'u':
		u, err := d.Uint32()
		if err != nil {
			return Value{}, d.fail(path, err)
		}
		if sig.str[0] == 'i' {
			p = scalar[int32]{int32(u)}
		} else {
			p = scalar[uint32]{u}
		}
	case 'x', 't', 'd':
		u, err := d.Uint64()
		if err != nil {
			return Value{}, d.fail(path, err)
		}
		switch sig.str[0] {
		case 'x':
			p = scalar[int64]{int64(u)}
		case 't':
			p = scalar[uint64]{u}
		default:
			p = scalar[float64]{math.Float64frombits(u)}
		}
	case 's':
		s, err := d.String()
		if err != nil {
			return Value{}, d.fail(path, err)
		}
		p = scalar[string]{s}
	case 'o':
		s, err := d.String()
		if err != nil {
			return Value{}, d.fail(path, err)
		}
		if err := ObjectPath(s).Valid(); err != nil {
			return Value{}, d.fail(path, err)
		}
		p = scalar[ObjectPath]{ObjectPath(s)}
	case 'g':
		s, err := d.Signature()
		if err != nil {
			return Value{}, d.fail(path, err)
		}
		gs, err := ParseSignature(s)
		if err != nil {
			return Value{}, d.fail(path, err)
		}
		p = scalar[Signature]{gs}
	case 'a':
		if sig.isDict() {
			return d.dict(sig, path, depth)
		}
		return d.array(sig, path, depth)
	case '(':
		fieldSigs := sig.Fields()
		fields := make([]Value, 0, len(fieldSigs))
		err := d.Struct(func() error {
			for i, fs := range fieldSigs {
				f, err := d.value(fs, fieldPath(path, i), depth+1)
				if err != nil {
					return err
				}
				fields = append(fields, f)
			}
			return nil
		})
		if err != nil {
			return Value{}, d.fail(path, err)
		}
		return Value{sig, structPayload{fields}}, nil
	case 'v':
		return d.variant(path, depth)
	default:
		return Value{}, d.fail(path, fmt.Errorf("cannot decode signature %q", sig.str))
	}
	return Value{sig, p}, nil
}

func (d *wireDecoder) array(sig Signature, path string, depth int) (Value, error) {
	elemSig := sig.Elem()
	var elems []Value
	_, err := d.Array(alignment(elemSig) == 8, func(i int) error {
		e, err := d.value(elemSig, elemPath(path, i), depth+1)
		if err != nil {
			return err
		}
		elems = append(elems, e)
		return nil
	})
	if err != nil {
		return Value{}, d.fail(path, err)
	}
	return Value{sig, arrayPayload{elems}}, nil
}

func (d *wireDecoder) dict(sig Signature, path string, depth int) (Value, error) {
	keySig, valSig := sig.Key(), sig.Elem()
	var keys, vals []Value
	_, err := d.Array(true, func(i int) error {
		return d.Struct(func() error {
			k, err := d.value(keySig, keyPath(path, i), depth+1)
			if err != nil {
				return err
			}
			v, err := d.value(valSig, elemPath(path, i), depth+1)
			if err != nil {
				return err
			}
			keys = append(keys, k)
			vals = append(vals, v)
			return nil
		})
	})
	if err != nil {
		return Value{}, d.fail(path, err)
	}
	ret, err := newDict(sig, keys, vals, path)
	if err != nil {
		return Value{}, d.fail(path, err)
	}
	return ret, nil
}

func (d *wireDecoder) variant(path string, depth int) (Value, error) {
	s, err := d.Signature()
	if err != nil {
		return Value{}, d.fail(path, err)
	}
	sig, err := ParseSignature(s)
	if err != nil {
		return Value{}, d.fail(path, err)
	}
	if !sig.IsSingle() {
		return Value{}, d.fail(path, fmt.Errorf("variant signature %q is not a single complete type", s))
	}
	inner, err := d.value(sig, path+".variant", depth+1)
	if err != nil {
		return Value{}, err
	}
	return newVariant(inner), nil
}
