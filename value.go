package msgarg

import (
	"fmt"
	"reflect"
)

// A Kind is the kind of a [Value].
type Kind uint8

const (
	KindInvalid Kind = iota
	KindByte
	KindBoolean
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindDouble
	KindString
	KindObjectPath
	KindSignature
	KindArray
	KindStruct
	KindDict
	KindVariant
)

var kindNames = [...]string{
	KindInvalid:    "invalid",
	KindByte:       "byte",
	KindBoolean:    "boolean",
	KindInt16:      "int16",
	KindUint16:     "uint16",
	KindInt32:      "int32",
	KindUint32:     "uint32",
	KindInt64:      "int64",
	KindUint64:     "uint64",
	KindDouble:     "double",
	KindString:     "string",
	KindObjectPath: "object path",
	KindSignature:  "signature",
	KindArray:      "array",
	KindStruct:     "struct",
	KindDict:       "dict",
	KindVariant:    "variant",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsBasic reports whether k is a scalar kind.
func (k Kind) IsBasic() bool {
	return k >= KindByte && k <= KindSignature
}

// A Value is a typed value bound to a signature: a scalar, or a
// container of other Values.
//
// The zero Value is invalid, and is not bound to anything. [Value.Set]
// binds a Value, and [Value.Clear] returns it to the invalid state.
//
// Containers exclusively own their children. Values handed to
// constructors are copied, and Values returned by accessors are
// copies, so mutating one never affects another tree.
//
// A Value must not be mutated concurrently with any other use. A
// Value that is not being mutated is safe for concurrent reads.
type Value struct {
	sig Signature
	p   payload
}

// payload is the content of a bound Value. It is one of the
// scalar[T] types, arrayPayload, structPayload, dictPayload or
// variantPayload.
type payload interface {
	kind() Kind
}

// Basic is the set of Go types that bind to scalar Values.
type Basic interface {
	uint8 | bool | int16 | uint16 | int32 | uint32 | int64 | uint64 | float64 | string | ObjectPath | Signature
}

type scalar[T Basic] struct {
	v T
}

func (s scalar[T]) kind() Kind {
	switch any(s.v).(type) {
	case uint8:
		return KindByte
	case bool:
		return KindBoolean
	case int16:
		return KindInt16
	case uint16:
		return KindUint16
	case int32:
		return KindInt32
	case uint32:
		return KindUint32
	case int64:
		return KindInt64
	case uint64:
		return KindUint64
	case float64:
		return KindDouble
	case string:
		return KindString
	case ObjectPath:
		return KindObjectPath
	case Signature:
		return KindSignature
	}
	panic("unreachable")
}

type arrayPayload struct {
	elems []Value
}

func (arrayPayload) kind() Kind { return KindArray }

type structPayload struct {
	fields []Value
}

func (structPayload) kind() Kind { return KindStruct }

type dictPayload struct {
	keys []Value
	vals []Value
}

func (dictPayload) kind() Kind { return KindDict }

type variantPayload struct {
	inner Value
}

func (variantPayload) kind() Kind { return KindVariant }

// IsValid reports whether v is bound to a value.
func (v Value) IsValid() bool {
	return v.p != nil
}

// Kind returns the kind of v, or KindInvalid if v is not bound.
func (v Value) Kind() Kind {
	if v.p == nil {
		return KindInvalid
	}
	return v.p.kind()
}

// Signature returns the declared signature of v. A variant's
// declared signature is always "v", regardless of its content. If v
// is invalid, Signature returns the zero Signature.
func (v Value) Signature() Signature {
	return v.sig
}

// HasSignature reports whether the declared signature of v is
// sig. It does not look inside variants.
func (v Value) HasSignature(sig string) bool {
	return v.IsValid() && v.sig.str == sig
}

// Clear returns v to the invalid state.
func (v *Value) Clear() {
	*v = Value{}
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch p := v.p.(type) {
	case arrayPayload:
		return Value{v.sig, arrayPayload{cloneAll(p.elems)}}
	case structPayload:
		return Value{v.sig, structPayload{cloneAll(p.fields)}}
	case dictPayload:
		return Value{v.sig, dictPayload{cloneAll(p.keys), cloneAll(p.vals)}}
	case variantPayload:
		return Value{v.sig, variantPayload{p.inner.Clone()}}
	default:
		// Scalars are immutable.
		return v
	}
}

func cloneAll(vs []Value) []Value {
	if vs == nil {
		return nil
	}
	ret := make([]Value, len(vs))
	for i, v := range vs {
		ret[i] = v.Clone()
	}
	return ret
}

// Len returns the number of elements of an array, fields of a
// struct, or entries of a dictionary. It returns 0 for other kinds.
func (v Value) Len() int {
	switch p := v.p.(type) {
	case arrayPayload:
		return len(p.elems)
	case structPayload:
		return len(p.fields)
	case dictPayload:
		return len(p.keys)
	}
	return 0
}

// Index returns a copy of the i'th element of an array, or the i'th
// field of a struct.
func (v Value) Index(i int) (Value, error) {
	var elems []Value
	switch p := v.p.(type) {
	case nil:
		return Value{}, ErrInvalidValue
	case arrayPayload:
		elems = p.elems
	case structPayload:
		elems = p.fields
	default:
		return Value{}, fmt.Errorf("cannot index %s value", v.Kind())
	}
	if i < 0 || i >= len(elems) {
		return Value{}, fmt.Errorf("index %d out of range [0:%d]", i, len(elems))
	}
	return elems[i].Clone(), nil
}

// Entry returns copies of the key and value of the i'th entry of a
// dictionary.
func (v Value) Entry(i int) (key, val Value, err error) {
	switch p := v.p.(type) {
	case nil:
		return Value{}, Value{}, ErrInvalidValue
	case dictPayload:
		if i < 0 || i >= len(p.keys) {
			return Value{}, Value{}, fmt.Errorf("index %d out of range [0:%d]", i, len(p.keys))
		}
		return p.keys[i].Clone(), p.vals[i].Clone(), nil
	default:
		return Value{}, Value{}, fmt.Errorf("cannot get entries of %s value", v.Kind())
	}
}

// Lookup returns a copy of the dictionary value stored under key,
// which must be a native value or Value of the dictionary's key
// type. The boolean result reports whether the key was found.
func (v Value) Lookup(key any) (Value, bool, error) {
	p, ok := v.p.(dictPayload)
	if !ok {
		if v.p == nil {
			return Value{}, false, ErrInvalidValue
		}
		return Value{}, false, fmt.Errorf("cannot look up keys in %s value", v.Kind())
	}
	k, err := build(v.sig.Key(), reflect.ValueOf(key), "", 0)
	if err != nil {
		return Value{}, false, err
	}
	for i, pk := range p.keys {
		if pk.Equal(k) {
			return p.vals[i].Clone(), true, nil
		}
	}
	return Value{}, false, nil
}

// Native returns the content of v converted to its canonical Go
// type, as described by [Signature.Type].
func (v Value) Native() (any, error) {
	if !v.IsValid() {
		return nil, ErrInvalidValue
	}
	out := reflect.New(v.sig.Type()).Elem()
	if err := store(v, out, ""); err != nil {
		return nil, err
	}
	return out.Interface(), nil
}
