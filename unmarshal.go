package msgarg

import (
	"fmt"
	"reflect"
)

// Get stores the value of v in the Go value pointed to by out,
// provided that v satisfies sig.
//
// If the declared signature of v is not sig and v is a variant, Get
// searches through the variant's content, and through any further
// variants within it, for a value whose declared signature is
// sig. Requesting "v" therefore removes exactly one variant layer,
// while requesting a concrete signature finds the value regardless
// of how it is wrapped.
//
// Generally, Get applies the inverse of the rules used by
// [Value.Set]. Basic values are stored into Go values of the exact
// corresponding type, or named types with that underlying type.
//
// Arrays store into slices, or into Go arrays of the same length.
//
// Structs store into Go structs with the same number of exported
// fields, or into []any.
//
// Dictionaries store into maps, replacing any existing map, or into
// []DictEntry in dictionary order.
//
// Variants store into [Variant]. Storing a variant into a *Value
// stores a copy of the variant's content, so that
//
//	var inner Value
//	v.Get("v", &inner)
//
// unwraps one layer.
//
// A [Value] destination receives a copy of the stored value, and an
// interface destination with no methods receives the value converted
// to its canonical Go type, see [Signature.Type].
//
// If v is invalid, Get returns [ErrInvalidValue]. If v does not
// satisfy sig, or cannot be stored in out, Get returns a
// [SignatureMismatchError].
func (v Value) Get(sig string, out any) error {
	if !v.IsValid() {
		return ErrInvalidValue
	}
	s, err := ParseSignature(sig)
	if err != nil {
		return err
	}
	rv := reflect.ValueOf(out)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return typeErr(reflect.TypeOf(out), "Get requires a non-nil pointer")
	}

	src, chain := v.find(s)
	if !src.IsValid() {
		return SignatureMismatchError{Want: sig, Have: chain}
	}
	if err := store(src, rv.Elem(), ""); err != nil {
		return SignatureMismatchError{Want: sig, Have: chain, Reason: err}
	}
	return nil
}

// Get returns the value of v as a T. The signature requested is the
// one for T, as computed by [SignatureFor]. See [Value.Get] for
// details.
func Get[T any](v Value) (T, error) {
	var ret T
	if !v.IsValid() {
		return ret, ErrInvalidValue
	}
	sig, err := SignatureFor[T]()
	if err != nil {
		return ret, err
	}
	if err := v.Get(sig.str, &ret); err != nil {
		var zero T
		return zero, err
	}
	return ret, nil
}

// find returns the first value at or within v's variant layers whose
// declared signature is s, and the signatures that were examined.
func (v Value) find(s Signature) (Value, []string) {
	var chain []string
	for cur := v; ; {
		chain = append(chain, cur.sig.str)
		if cur.sig.str == s.str {
			return cur, chain
		}
		vp, ok := cur.p.(variantPayload)
		if !ok {
			return Value{}, chain
		}
		cur = vp.inner
	}
}

func mismatch(src Value, dst reflect.Value, path string) error {
	if path == "" {
		return fmt.Errorf("cannot store %q in %s", src.sig.str, dst.Type())
	}
	return fmt.Errorf("%s: cannot store %q in %s", path, src.sig.str, dst.Type())
}

// store writes src into dst, which must be settable.
func store(src Value, dst reflect.Value, path string) error {
	switch dst.Type() {
	case valueType:
		if vp, ok := src.p.(variantPayload); ok {
			dst.Set(reflect.ValueOf(vp.inner.Clone()))
		} else {
			dst.Set(reflect.ValueOf(src.Clone()))
		}
		return nil
	}

	switch dst.Kind() {
	case reflect.Interface:
		if dst.NumMethod() != 0 {
			return mismatch(src, dst, path)
		}
		nat := reflect.New(src.sig.Type()).Elem()
		if err := store(src, nat, path); err != nil {
			return err
		}
		dst.Set(nat)
		return nil
	case reflect.Pointer:
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return store(src, dst.Elem(), path)
	}

	switch p := src.p.(type) {
	case arrayPayload:
		return storeArray(src, p, dst, path)
	case structPayload:
		return storeStruct(src, p, dst, path)
	case dictPayload:
		return storeDict(src, p, dst, path)
	case variantPayload:
		if dst.Type() != variantType {
			return mismatch(src, dst, path)
		}
		inner, err := p.inner.Native()
		if err != nil {
			return err
		}
		dst.Set(reflect.ValueOf(Variant{inner}))
		return nil
	default:
		if code, ok := basicCode(dst.Type()); !ok || code != src.sig.str[0] {
			return mismatch(src, dst, path)
		}
		dst.Set(reflect.ValueOf(scalarValue(p)).Convert(dst.Type()))
		return nil
	}
}

// scalarValue returns the Go value held by a scalar payload.
func scalarValue(p payload) any {
	switch s := p.(type) {
	case scalar[uint8]:
		return s.v
	case scalar[bool]:
		return s.v
	case scalar[int16]:
		return s.v
	case scalar[uint16]:
		return s.v
	case scalar[int32]:
		return s.v
	case scalar[uint32]:
		return s.v
	case scalar[int64]:
		return s.v
	case scalar[uint64]:
		return s.v
	case scalar[float64]:
		return s.v
	case scalar[string]:
		return s.v
	case scalar[ObjectPath]:
		return s.v
	case scalar[Signature]:
		return s.v
	}
	panic(fmt.Sprintf("scalarValue of non-scalar payload %T", p))
}

func storeArray(src Value, p arrayPayload, dst reflect.Value, path string) error {
	switch dst.Kind() {
	case reflect.Slice:
		ret := reflect.MakeSlice(dst.Type(), len(p.elems), len(p.elems))
		for i, e := range p.elems {
			if err := store(e, ret.Index(i), elemPath(path, i)); err != nil {
				return err
			}
		}
		dst.Set(ret)
		return nil
	case reflect.Array:
		if dst.Len() != len(p.elems) {
			return fmt.Errorf("%s: cannot store %d elements in %s", path, len(p.elems), dst.Type())
		}
		ret := reflect.New(dst.Type()).Elem()
		for i, e := range p.elems {
			if err := store(e, ret.Index(i), elemPath(path, i)); err != nil {
				return err
			}
		}
		dst.Set(ret)
		return nil
	}
	return mismatch(src, dst, path)
}

func storeStruct(src Value, p structPayload, dst reflect.Value, path string) error {
	t := dst.Type()
	switch {
	case t.Kind() == reflect.Struct && !isSpecialStruct(t):
		fs := exportedFields(t)
		if len(fs) != len(p.fields) {
			return fmt.Errorf("%s: cannot store %d struct fields in %s with %d fields", path, len(p.fields), t, len(fs))
		}
		ret := reflect.New(t).Elem()
		for i, f := range fs {
			fv, err := ret.FieldByIndexErr(f.Index)
			if err != nil {
				// Embedded through a nil pointer, allocate it.
				if fv, err = allocField(ret, f.Index); err != nil {
					return fmt.Errorf("%s: %w", fieldPath(path, i), err)
				}
			}
			if err := store(p.fields[i], fv, fieldPath(path, i)); err != nil {
				return err
			}
		}
		dst.Set(ret)
		return nil
	case t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Interface && t.Elem().NumMethod() == 0:
		ret := reflect.MakeSlice(t, len(p.fields), len(p.fields))
		for i, f := range p.fields {
			if err := store(f, ret.Index(i), fieldPath(path, i)); err != nil {
				return err
			}
		}
		dst.Set(ret)
		return nil
	}
	return mismatch(src, dst, path)
}

// allocField walks the field index path idx from v, allocating nil
// embedded struct pointers along the way. Pointers to unexported
// embedded structs cannot be allocated.
func allocField(v reflect.Value, idx []int) (reflect.Value, error) {
	for _, i := range idx {
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !v.CanSet() {
					return reflect.Value{}, fmt.Errorf("cannot set embedded pointer to unexported struct %s", v.Type().Elem())
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(i)
	}
	return v, nil
}

func storeDict(src Value, p dictPayload, dst reflect.Value, path string) error {
	t := dst.Type()
	switch {
	case t.Kind() == reflect.Map:
		ret := reflect.MakeMapWithSize(t, len(p.keys))
		for i := range p.keys {
			k := reflect.New(t.Key()).Elem()
			if err := store(p.keys[i], k, keyPath(path, i)); err != nil {
				return err
			}
			v := reflect.New(t.Elem()).Elem()
			if err := store(p.vals[i], v, elemPath(path, i)); err != nil {
				return err
			}
			ret.SetMapIndex(k, v)
		}
		dst.Set(ret)
		return nil
	case t == dictEntriesType:
		ret := make([]DictEntry, len(p.keys))
		for i := range p.keys {
			if err := store(p.keys[i], reflect.ValueOf(&ret[i].Key).Elem(), keyPath(path, i)); err != nil {
				return err
			}
			if err := store(p.vals[i], reflect.ValueOf(&ret[i].Value).Elem(), elemPath(path, i)); err != nil {
				return err
			}
		}
		dst.Set(reflect.ValueOf(ret))
		return nil
	}
	return mismatch(src, dst, path)
}
