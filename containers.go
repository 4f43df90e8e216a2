package msgarg

import (
	"fmt"
	"strings"

	"github.com/creachadair/mds/mapset"
)

// NewBasic returns a scalar Value holding v.
//
// The only possible error is for an ObjectPath that is not valid.
func NewBasic[T Basic](v T) (Value, error) {
	return newBasic(v, "")
}

func newBasic[T Basic](v T, path string) (Value, error) {
	code := basicCodeOf(v)
	if p, ok := any(v).(ObjectPath); ok {
		if err := p.Valid(); err != nil {
			return Value{}, BadSignatureError{"o", path, err}
		}
	}
	return Value{mustParseSignature(string(code)), scalar[T]{v}}, nil
}

func basicCodeOf[T Basic](v T) byte {
	switch any(v).(type) {
	case uint8:
		return 'y'
	case bool:
		return 'b'
	case int16:
		return 'n'
	case uint16:
		return 'q'
	case int32:
		return 'i'
	case uint32:
		return 'u'
	case int64:
		return 'x'
	case uint64:
		return 't'
	case float64:
		return 'd'
	case string:
		return 's'
	case ObjectPath:
		return 'o'
	case Signature:
		return 'g'
	}
	panic("unreachable")
}

// NewArray returns an array Value of elements with signature
// elemSig. Each element must have exactly that signature.
func NewArray(elemSig string, elems ...Value) (Value, error) {
	sig, err := ParseSignature("a" + elemSig)
	if err != nil {
		return Value{}, err
	}
	if sig.Kind() != KindArray {
		return Value{}, badSig(sig.str, "", "element signature %q is not a single complete type", elemSig)
	}
	return newArray(sig, cloneAll(elems), "")
}

// newArray takes ownership of elems.
func newArray(sig Signature, elems []Value, path string) (Value, error) {
	want := sig.str[1:]
	for i, e := range elems {
		if !e.IsValid() {
			return Value{}, badSig(want, elemPath(path, i), "%w", ErrInvalidValue)
		}
		if e.sig.str != want {
			return Value{}, badSig(want, elemPath(path, i), "array element has signature %q", e.sig.str)
		}
	}
	return Value{sig, arrayPayload{elems}}, nil
}

// NewStruct returns a struct Value with the given fields. A struct
// has at least one field.
func NewStruct(fields ...Value) (Value, error) {
	return newStruct(cloneAll(fields), "")
}

// newStruct takes ownership of fields.
func newStruct(fields []Value, path string) (Value, error) {
	if len(fields) == 0 {
		return Value{}, badSig("()", path, "struct has no fields")
	}
	var s strings.Builder
	s.WriteByte('(')
	for i, f := range fields {
		if !f.IsValid() {
			return Value{}, badSig("", fieldPath(path, i), "%w", ErrInvalidValue)
		}
		s.WriteString(f.sig.str)
	}
	s.WriteByte(')')
	sig, err := ParseSignature(s.String())
	if err != nil {
		return Value{}, withPath(err, path)
	}
	return Value{sig, structPayload{fields}}, nil
}

// NewDict returns a dictionary Value with key signature keySig and
// value signature valSig. kvs lists keys and values alternately. Keys
// must be distinct.
func NewDict(keySig, valSig string, kvs ...Value) (Value, error) {
	sig, err := ParseSignature("a{" + keySig + valSig + "}")
	if err != nil {
		return Value{}, err
	}
	if len(kvs)%2 != 0 {
		return Value{}, badSig(sig.str, "", "odd number of keys and values (%d)", len(kvs))
	}
	kvs = cloneAll(kvs)
	keys := make([]Value, 0, len(kvs)/2)
	vals := make([]Value, 0, len(kvs)/2)
	for i := 0; i < len(kvs); i += 2 {
		keys = append(keys, kvs[i])
		vals = append(vals, kvs[i+1])
	}
	return newDict(sig, keys, vals, "")
}

// newDict takes ownership of keys and vals.
func newDict(sig Signature, keys, vals []Value, path string) (Value, error) {
	keySig, valSig := sig.str[2:3], sig.str[3:len(sig.str)-1]
	seen := mapset.New[dictKey]()
	for i, k := range keys {
		if !k.IsValid() {
			return Value{}, badSig(keySig, keyPath(path, i), "%w", ErrInvalidValue)
		}
		if k.sig.str != keySig {
			return Value{}, badSig(keySig, keyPath(path, i), "dict key has signature %q", k.sig.str)
		}
		dk := k.dictKey()
		if seen.Has(dk) {
			return Value{}, badSig(sig.str, keyPath(path, i), "duplicate dict key %s", k)
		}
		seen.Add(dk)
	}
	for i, v := range vals {
		if !v.IsValid() {
			return Value{}, badSig(valSig, elemPath(path, i), "%w", ErrInvalidValue)
		}
		if v.sig.str != valSig {
			return Value{}, badSig(valSig, elemPath(path, i), "dict value has signature %q", v.sig.str)
		}
	}
	return Value{sig, dictPayload{keys, vals}}, nil
}

// dictKey is the identity of a scalar Value, used to detect
// duplicate dictionary keys.
type dictKey struct {
	code byte
	bits uint64
	str  string
}

func (v Value) dictKey() dictKey {
	ret := dictKey{code: v.sig.str[0]}
	switch p := v.p.(type) {
	case scalar[uint8]:
		ret.bits = uint64(p.v)
	case scalar[bool]:
		if p.v {
			ret.bits = 1
		}
	case scalar[int16]:
		ret.bits = uint64(p.v)
	case scalar[uint16]:
		ret.bits = uint64(p.v)
	case scalar[int32]:
		ret.bits = uint64(p.v)
	case scalar[uint32]:
		ret.bits = uint64(p.v)
	case scalar[int64]:
		ret.bits = uint64(p.v)
	case scalar[uint64]:
		ret.bits = p.v
	case scalar[float64]:
		ret.bits = doubleBits(p.v)
	case scalar[string]:
		ret.str = p.v
	case scalar[ObjectPath]:
		ret.str = string(p.v)
	case scalar[Signature]:
		ret.str = p.v.str
	default:
		panic(fmt.Sprintf("dict key of non-basic kind %s", v.Kind()))
	}
	return ret
}

// NewVariant returns a variant Value wrapping inner.
//
// Variants never directly contain other variants: if inner is itself
// a variant, the new variant wraps inner's content instead.
func NewVariant(inner Value) (Value, error) {
	if !inner.IsValid() {
		return Value{}, badSig("v", "", "%w", ErrInvalidValue)
	}
	return newVariant(inner.Clone()), nil
}

var variantSig = mustParseSignature("v")

// newVariant takes ownership of inner, which must be valid.
func newVariant(inner Value) Value {
	for {
		vp, ok := inner.p.(variantPayload)
		if !ok {
			break
		}
		inner = vp.inner
	}
	return Value{variantSig, variantPayload{inner}}
}

func elemPath(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

func fieldPath(path string, i int) string {
	return fmt.Sprintf("%s.%d", path, i)
}

func keyPath(path string, i int) string {
	return fmt.Sprintf("%s[%d].key", path, i)
}

// withPath prefixes path onto the location of a BadSignatureError.
func withPath(err error, path string) error {
	if e, ok := err.(BadSignatureError); ok && path != "" {
		e.Path = path + e.Path
		return e
	}
	return err
}

// A DictEntry is one key/value pair of a dictionary, in native
// form. A []DictEntry binds to a dictionary with the pairs in the
// given order.
type DictEntry struct {
	Key   any
	Value any
}
