package msgarg

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
)

// maxValueDepth bounds the nesting of containers and variants within
// a single Value. Signatures bound container nesting to MaxDepth, but
// each variant starts a fresh signature.
const maxValueDepth = 2 * MaxDepth

// Set binds v to the value described by sig, built from the native
// Go value native. On error, v is left unchanged.
//
// sig must describe a single complete type, and native must match it
// exactly:
//
// Basic types require the Go type of the exact width and signedness:
// uint8 for "y", bool for "b", int16 for "n", uint16 for "q", int32
// for "i", uint32 for "u", int64 for "x", uint64 for "t", float64 for
// "d", string for "s", [ObjectPath] for "o" and [Signature] for
// "g". Named types with those underlying types are accepted, except
// that only ObjectPath binds to "o". No conversions are performed
// between types.
//
// Arrays bind from a slice or array, each element of which must bind
// to the array's element type.
//
// Structs bind from a Go struct, whose exported fields bind to the
// struct's fields in declaration order, or from a slice or array of
// field values. The number of fields must match.
//
// Dictionaries bind from a map, or from a []DictEntry listing pairs
// in order. Entries built from a map are ordered by key. Keys must
// be distinct.
//
// Variants bind from a [Variant], or from any value for which
// [SignatureOf] succeeds. A variant never directly contains another
// variant, see [NewVariant].
//
// Anywhere, a [Value] binds as a copy of itself if its signature
// matches, and pointers bind as the value they point to.
//
// Errors are [BadSignatureError]s, locating the component that failed
// to bind.
func (v *Value) Set(sig string, native any) error {
	s, err := ParseSignature(sig)
	if err != nil {
		return err
	}
	if !s.IsSingle() {
		return badSig(sig, "", "signature must describe exactly one complete type")
	}
	ret, err := build(s, reflect.ValueOf(native), "", 0)
	if err != nil {
		return err
	}
	*v = ret
	return nil
}

// New returns a Value bound to native under sig. See [Value.Set].
func New(sig string, native any) (Value, error) {
	var ret Value
	if err := ret.Set(sig, native); err != nil {
		return Value{}, err
	}
	return ret, nil
}

// MustNew is like [New], but panics on error.
func MustNew(sig string, native any) Value {
	ret, err := New(sig, native)
	if err != nil {
		panic(err)
	}
	return ret
}

func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

func build(sig Signature, rv reflect.Value, path string, depth int) (Value, error) {
	if depth > maxValueDepth {
		return Value{}, badSig(sig.str, path, "value nested deeper than %d levels", maxValueDepth)
	}
	rv = indirect(rv)
	if !rv.IsValid() {
		return Value{}, badSig(sig.str, path, "cannot bind nil")
	}

	if rv.Type() == valueType {
		val := rv.Interface().(Value)
		switch {
		case !val.IsValid():
			return Value{}, badSig(sig.str, path, "%w", ErrInvalidValue)
		case val.sig.str == sig.str:
			return val.Clone(), nil
		case sig.str == "v":
			return newVariant(val.Clone()), nil
		default:
			return Value{}, badSig(sig.str, path, "cannot use Value with signature %q", val.sig.str)
		}
	}

	switch sig.Kind() {
	case KindArray:
		return buildArray(sig, rv, path, depth)
	case KindDict:
		return buildDict(sig, rv, path, depth)
	case KindStruct:
		return buildStruct(sig, rv, path, depth)
	case KindVariant:
		return buildVariant(rv, path, depth)
	default:
		return buildBasic(sig, rv, path)
	}
}

func buildBasic(sig Signature, rv reflect.Value, path string) (Value, error) {
	want := sig.str[0]
	if got, ok := basicCode(rv.Type()); !ok || got != want {
		return Value{}, badSig(sig.str, path, "cannot use %s as %s", rv.Type(), codeToKind[want])
	}
	switch want {
	case 'y':
		return newBasic(uint8(rv.Uint()), path)
	case 'b':
		return newBasic(rv.Bool(), path)
	case 'n':
		return newBasic(int16(rv.Int()), path)
	case 'q':
		return newBasic(uint16(rv.Uint()), path)
	case 'i':
		return newBasic(int32(rv.Int()), path)
	case 'u':
		return newBasic(uint32(rv.Uint()), path)
	case 'x':
		return newBasic(rv.Int(), path)
	case 't':
		return newBasic(rv.Uint(), path)
	case 'd':
		return newBasic(rv.Float(), path)
	case 's':
		return newBasic(rv.String(), path)
	case 'o':
		return newBasic(ObjectPath(rv.String()), path)
	case 'g':
		return newBasic(rv.Interface().(Signature), path)
	}
	panic(fmt.Sprintf("unhandled basic type code %q", want))
}

func isSpecialStruct(t reflect.Type) bool {
	switch t {
	case signatureType, variantType, dictEntryType:
		return true
	}
	return false
}

func buildArray(sig Signature, rv reflect.Value, path string, depth int) (Value, error) {
	if k := rv.Kind(); k != reflect.Slice && k != reflect.Array {
		return Value{}, badSig(sig.str, path, "cannot use %s as array", rv.Type())
	}
	elemSig := sig.Elem()
	elems := make([]Value, rv.Len())
	for i := range elems {
		e, err := build(elemSig, rv.Index(i), elemPath(path, i), depth+1)
		if err != nil {
			return Value{}, err
		}
		elems[i] = e
	}
	return newArray(sig, elems, path)
}

func buildStruct(sig Signature, rv reflect.Value, path string, depth int) (Value, error) {
	var fields []reflect.Value
	switch t := rv.Type(); {
	case t.Kind() == reflect.Struct && !isSpecialStruct(t):
		for _, f := range exportedFields(t) {
			fv, err := rv.FieldByIndexErr(f.Index)
			if err != nil {
				// Promoted through a nil embedded pointer.
				fv = reflect.Zero(f.Type)
			}
			fields = append(fields, fv)
		}
	case t.Kind() == reflect.Slice || t.Kind() == reflect.Array:
		for i := range rv.Len() {
			fields = append(fields, rv.Index(i))
		}
	default:
		return Value{}, badSig(sig.str, path, "cannot use %s as struct", t)
	}

	fieldSigs := sig.Fields()
	if len(fields) != len(fieldSigs) {
		return Value{}, badSig(sig.str, path, "struct signature has %d fields, %s has %d", len(fieldSigs), rv.Type(), len(fields))
	}
	vals := make([]Value, len(fields))
	for i, f := range fields {
		fv, err := build(fieldSigs[i], f, fieldPath(path, i), depth+1)
		if err != nil {
			return Value{}, err
		}
		vals[i] = fv
	}
	return newStruct(vals, path)
}

func buildDict(sig Signature, rv reflect.Value, path string, depth int) (Value, error) {
	keySig, valSig := sig.Key(), sig.Elem()
	var keys, vals []Value

	switch {
	case rv.Kind() == reflect.Map:
		keys = make([]Value, 0, rv.Len())
		vals = make([]Value, 0, rv.Len())
		iter := rv.MapRange()
		for i := 0; iter.Next(); i++ {
			k, err := build(keySig, iter.Key(), keyPath(path, i), depth+1)
			if err != nil {
				return Value{}, err
			}
			v, err := build(valSig, iter.Value(), elemPath(path, i), depth+1)
			if err != nil {
				return Value{}, err
			}
			keys = append(keys, k)
			vals = append(vals, v)
		}
		sortEntries(keys, vals)
	case rv.Type() == dictEntriesType:
		ents := rv.Interface().([]DictEntry)
		keys = make([]Value, 0, len(ents))
		vals = make([]Value, 0, len(ents))
		for i, ent := range ents {
			k, err := build(keySig, reflect.ValueOf(ent.Key), keyPath(path, i), depth+1)
			if err != nil {
				return Value{}, err
			}
			v, err := build(valSig, reflect.ValueOf(ent.Value), elemPath(path, i), depth+1)
			if err != nil {
				return Value{}, err
			}
			keys = append(keys, k)
			vals = append(vals, v)
		}
	default:
		return Value{}, badSig(sig.str, path, "cannot use %s as dict", rv.Type())
	}
	return newDict(sig, keys, vals, path)
}

// sortEntries sorts dictionary entries by key, so that dictionaries
// built from Go maps have a deterministic order.
func sortEntries(keys, vals []Value) {
	idx := make([]int, len(keys))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return compareBasic(keys[a], keys[b])
	})
	ks := make([]Value, len(keys))
	vs := make([]Value, len(vals))
	for i, j := range idx {
		ks[i], vs[i] = keys[j], vals[j]
	}
	copy(keys, ks)
	copy(vals, vs)
}

// compareBasic orders two scalar Values of the same signature.
func compareBasic(a, b Value) int {
	switch pa := a.p.(type) {
	case scalar[bool]:
		pb := b.p.(scalar[bool])
		switch {
		case pa.v == pb.v:
			return 0
		case !pa.v:
			return -1
		default:
			return 1
		}
	case scalar[float64]:
		return cmp.Compare(pa.v, b.p.(scalar[float64]).v)
	case scalar[int16]:
		return cmp.Compare(pa.v, b.p.(scalar[int16]).v)
	case scalar[int32]:
		return cmp.Compare(pa.v, b.p.(scalar[int32]).v)
	case scalar[int64]:
		return cmp.Compare(pa.v, b.p.(scalar[int64]).v)
	}
	ka, kb := a.dictKey(), b.dictKey()
	if c := cmp.Compare(ka.bits, kb.bits); c != 0 {
		return c
	}
	return cmp.Compare(ka.str, kb.str)
}

func buildVariant(rv reflect.Value, path string, depth int) (Value, error) {
	path += ".variant"
	for rv.Type() == variantType {
		rv = indirect(reflect.ValueOf(rv.Interface().(Variant).Value))
		if !rv.IsValid() {
			return Value{}, badSig("v", path, "variant holds nil")
		}
		if depth++; depth > maxValueDepth {
			return Value{}, badSig("v", path, "value nested deeper than %d levels", maxValueDepth)
		}
	}

	if rv.Type() == valueType {
		val := rv.Interface().(Value)
		if !val.IsValid() {
			return Value{}, badSig("v", path, "%w", ErrInvalidValue)
		}
		return newVariant(val.Clone()), nil
	}

	sig, err := signatureFor(rv.Type(), nil)
	if err != nil {
		return Value{}, BadSignatureError{"v", path, err}
	}
	inner, err := build(sig, rv, path, depth+1)
	if err != nil {
		return Value{}, err
	}
	return newVariant(inner), nil
}
