package msgarg

// A Variant is the native form of a variant value: a value carrying
// its own type.
//
// When binding a Variant, the signature of the inner value is
// derived with [SignatureOf]. To control the inner signature
// explicitly, set Value to a bound [Value].
type Variant struct {
	Value any
}

// Inner returns a copy of the content of a variant Value.
//
// Since variants never directly contain variants, the returned Value
// is never itself a variant.
func (v Value) Inner() (Value, error) {
	switch p := v.p.(type) {
	case nil:
		return Value{}, ErrInvalidValue
	case variantPayload:
		return p.inner.Clone(), nil
	default:
		return Value{}, SignatureMismatchError{Want: "v", Have: []string{v.sig.str}}
	}
}

// Unwrap returns v with any variant wrapper removed. Values that are
// not variants are returned unchanged.
func (v Value) Unwrap() Value {
	if p, ok := v.p.(variantPayload); ok {
		return p.inner.Clone()
	}
	return v.Clone()
}
