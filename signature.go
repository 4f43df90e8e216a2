package msgarg

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
)

const (
	// MaxSignatureLength is the maximum length in bytes of a
	// signature string.
	MaxSignatureLength = 255
	// MaxDepth is the maximum nesting depth of containers (arrays,
	// structs and dictionaries) within a signature.
	MaxDepth = 32
)

// A Signature describes the type of a value. It is the parsed and
// validated form of a signature string.
//
// The zero Signature is the empty signature, which describes no
// values at all.
type Signature struct {
	str string
	typ reflect.Type
}

// String returns the signature string.
func (s Signature) String() string {
	return s.str
}

// IsZero reports whether s is the empty signature.
func (s Signature) IsZero() bool {
	return s.str == ""
}

// Type returns the canonical Go type for values of this signature.
//
// Arrays map to slices, dictionaries to maps, structs to anonymous
// structs with fields named Field0...FieldN, and variants to
// [Variant]. A signature with several complete types is treated as a
// struct of those types. If s is the zero Signature, Type returns
// nil.
func (s Signature) Type() reflect.Type {
	return s.typ
}

// IsSingle reports whether s describes exactly one complete type.
func (s Signature) IsSingle() bool {
	if s.str == "" {
		return false
	}
	end, ok := scanOne(s.str, 0)
	return ok && end == len(s.str)
}

// Kind returns the kind of value described by s. It returns
// KindInvalid if s is not a single complete type.
func (s Signature) Kind() Kind {
	if !s.IsSingle() {
		return KindInvalid
	}
	switch s.str[0] {
	case 'a':
		if s.isDict() {
			return KindDict
		}
		return KindArray
	case '(':
		return KindStruct
	}
	return codeToKind[s.str[0]]
}

// Split returns the complete types that make up s, in order.
func (s Signature) Split() []Signature {
	parts, _ := SplitSignature(s.str)
	ret := make([]Signature, 0, len(parts))
	for _, p := range parts {
		ret = append(ret, mustParseSignature(p))
	}
	return ret
}

// Elem returns the element type of an array signature, or the value
// type of a dictionary signature. It panics if s is neither.
func (s Signature) Elem() Signature {
	switch s.Kind() {
	case KindArray:
		return mustParseSignature(s.str[1:])
	case KindDict:
		return mustParseSignature(s.str[3 : len(s.str)-1])
	}
	panic(fmt.Sprintf("Elem of non-array signature %q", s.str))
}

// Key returns the key type of a dictionary signature. It panics if s
// is not a dictionary.
func (s Signature) Key() Signature {
	if s.Kind() != KindDict {
		panic(fmt.Sprintf("Key of non-dict signature %q", s.str))
	}
	return mustParseSignature(s.str[2:3])
}

// Fields returns the field types of a struct signature. It panics if
// s is not a struct.
func (s Signature) Fields() []Signature {
	if s.Kind() != KindStruct {
		panic(fmt.Sprintf("Fields of non-struct signature %q", s.str))
	}
	return mustParseSignature(s.str[1 : len(s.str)-1]).Split()
}

func (s Signature) isDict() bool {
	return strings.HasPrefix(s.str, "a{")
}

var (
	typeToSignature cache[reflect.Type, Signature]
	strToSignature  cache[string, Signature]
)

// ParseSignature parses and validates a signature string.
//
// sig may contain any number of complete types, including zero.
func ParseSignature(sig string) (Signature, error) {
	if ret, err := strToSignature.Get(sig); !errors.Is(err, errNotFound) {
		return ret, err
	}
	ret, err := parseSignature(sig)
	if err != nil {
		strToSignature.SetErr(sig, err)
		return Signature{}, err
	}
	strToSignature.Set(sig, ret)
	return ret, nil
}

// MustParseSignature is like [ParseSignature], but panics if sig is
// invalid. It is intended for signature literals in code.
func MustParseSignature(sig string) Signature {
	ret, err := ParseSignature(sig)
	if err != nil {
		panic(err)
	}
	return ret
}

func mustParseSignature(sig string) Signature {
	return MustParseSignature(sig)
}

// ValidateSignature reports whether sig is a well-formed signature
// string. The returned error, if any, is a [BadSignatureError].
func ValidateSignature(sig string) error {
	_, err := ParseSignature(sig)
	return err
}

func parseSignature(sig string) (Signature, error) {
	if len(sig) > MaxSignatureLength {
		return Signature{}, badSig(sig, "", "length %d exceeds maximum of %d", len(sig), MaxSignatureLength)
	}

	var (
		rest  = sig
		parts []reflect.Type
		part  reflect.Type
		err   error
	)
	for rest != "" {
		part, rest, err = parseOne(rest, 0)
		if err != nil {
			return Signature{}, BadSignatureError{Signature: sig, Reason: err}
		}
		parts = append(parts, part)
	}

	switch len(parts) {
	case 0:
		return Signature{}, nil
	case 1:
		return Signature{sig, parts[0]}, nil
	default:
		return Signature{sig, structOf(parts)}, nil
	}
}

// parseOne consumes the first complete type from the front of sig,
// and returns the corresponding reflect.Type as well as the remainder
// of the type string.
func parseOne(sig string, depth int) (t reflect.Type, rest string, err error) {
	if depth > MaxDepth {
		return nil, "", fmt.Errorf("containers nested deeper than %d levels", MaxDepth)
	}
	if sig == "" {
		return nil, "", errors.New("missing element type")
	}
	if ret, ok := codeToType[sig[0]]; ok {
		return ret, sig[1:], nil
	}

	switch sig[0] {
	case 'a':
		if len(sig) > 1 && sig[1] == '{' {
			return parseDict(sig[1:], depth+1)
		}
		elem, rest, err := parseOne(sig[1:], depth+1)
		if err != nil {
			return nil, "", err
		}
		return reflect.SliceOf(elem), rest, nil
	case '(':
		var (
			fields []reflect.Type
			field  reflect.Type
			rest   = sig[1:]
			err    error
		)
		for rest != "" && rest[0] != ')' {
			field, rest, err = parseOne(rest, depth+1)
			if err != nil {
				return nil, "", err
			}
			fields = append(fields, field)
		}
		if rest == "" {
			return nil, "", errors.New("missing closing ) in struct definition")
		}
		if len(fields) == 0 {
			return nil, "", errors.New("struct has no fields")
		}
		return structOf(fields), rest[1:], nil
	case '{':
		return nil, "", errors.New("dict entry type found outside array")
	case ')', '}':
		return nil, "", fmt.Errorf("unexpected %q", sig[0])
	default:
		return nil, "", fmt.Errorf("unknown type code %q", sig[0])
	}
}

// parseDict parses a dict entry type "{kv}" at the front of sig.
func parseDict(sig string, depth int) (t reflect.Type, rest string, err error) {
	if len(sig) < 2 {
		return nil, "", errors.New("missing dict key type")
	}
	if !basicCodes.Has(sig[1]) {
		return nil, "", fmt.Errorf("invalid dict key type %q, must be a basic type", sig[1])
	}
	key := codeToType[sig[1]]
	val, rest, err := parseOne(sig[2:], depth)
	if err != nil {
		return nil, "", err
	}
	if rest == "" || rest[0] != '}' {
		return nil, "", errors.New("missing closing } in dict entry definition")
	}
	return reflect.MapOf(key, val), rest[1:], nil
}

func structOf(fields []reflect.Type) reflect.Type {
	fs := make([]reflect.StructField, len(fields))
	for i, f := range fields {
		fs[i] = reflect.StructField{
			Name: fmt.Sprintf("Field%d", i),
			Type: f,
		}
	}
	return reflect.StructOf(fs)
}

// SplitSignature splits sig into its top-level complete types, in
// order. Bracketed structs and dict entries are treated as opaque
// balanced spans, and array prefixes stay attached to their element
// type.
//
// SplitSignature reports false if sig has unbalanced brackets or a
// dangling array prefix. It does not otherwise validate the type
// codes, use [ParseSignature] for that.
func SplitSignature(sig string) ([]string, bool) {
	var ret []string
	for start := 0; start < len(sig); {
		end, ok := scanOne(sig, start)
		if !ok {
			return nil, false
		}
		ret = append(ret, sig[start:end])
		start = end
	}
	return ret, true
}

// scanOne returns the end offset of the complete type that starts at
// sig[i].
func scanOne(sig string, i int) (int, bool) {
	for i < len(sig) && sig[i] == 'a' {
		i++
	}
	if i == len(sig) {
		return 0, false
	}
	switch sig[i] {
	case '(', '{':
	case ')', '}':
		return 0, false
	default:
		return i + 1, true
	}

	var open []byte
	for ; i < len(sig); i++ {
		switch c := sig[i]; c {
		case '(':
			open = append(open, ')')
		case '{':
			open = append(open, '}')
		case ')', '}':
			if len(open) == 0 || open[len(open)-1] != c {
				return 0, false
			}
			open = open[:len(open)-1]
			if len(open) == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

// SignatureFor returns the Signature for the given type.
func SignatureFor[T any]() (Signature, error) {
	return signatureFor(reflect.TypeFor[T](), nil)
}

// SignatureOf returns the Signature of the given value.
//
// If v is a [Value], SignatureOf returns its declared signature.
func SignatureOf(v any) (Signature, error) {
	if val, ok := v.(Value); ok {
		if !val.IsValid() {
			return Signature{}, ErrInvalidValue
		}
		return val.sig, nil
	}
	return signatureFor(reflect.TypeOf(v), nil)
}

func signatureFor(t reflect.Type, stack []reflect.Type) (sig Signature, err error) {
	if ret, err := typeToSignature.Get(t); !errors.Is(err, errNotFound) {
		return ret, err
	}

	if slices.Contains(stack, t) {
		return Signature{}, typeErr(t, "recursive type")
	}
	stack = append(stack, t)

	// Note, defer captures the type value before we mess with it
	// below.
	defer func(t reflect.Type) {
		if err != nil {
			typeToSignature.SetErr(t, err)
		} else {
			typeToSignature.Set(t, sig)
		}
	}(t)

	str, err := signatureStr(t, stack)
	if err != nil {
		return Signature{}, err
	}
	ret, err := ParseSignature(str)
	if err != nil {
		return Signature{}, typeErr(t, "%w", err)
	}
	return ret, nil
}

func signatureStr(t reflect.Type, stack []reflect.Type) (string, error) {
	if t == nil {
		return "", typeErr(t, "nil interface")
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t {
	case valueType:
		return "", typeErr(t, "Value has no static signature, use SignatureOf")
	case dictEntryType, dictEntriesType:
		return "", typeErr(t, "DictEntry has no static signature")
	case anyType:
		return "v", nil
	}
	if ret, ok := typeToCode[t]; ok {
		return string(ret), nil
	}
	if ret, ok := basicCode(t); ok {
		return string(ret), nil
	}

	switch t.Kind() {
	case reflect.Int, reflect.Uint:
		return "", typeErr(t, "int and uint aren't portable, use fixed width integers")
	case reflect.Int8:
		return "", typeErr(t, "int8 has no corresponding type code, use uint8 instead")
	case reflect.Float32:
		return "", typeErr(t, "float32 has no corresponding type code, use float64 instead")
	case reflect.Slice, reflect.Array:
		es, err := signatureFor(t.Elem(), stack)
		if err != nil {
			return "", err
		}
		return "a" + es.str, nil
	case reflect.Map:
		k := t.Key()
		kc, ok := basicCode(k)
		if !ok {
			return "", typeErr(t, "map key type %s is not a basic type", k)
		}
		vs, err := signatureFor(t.Elem(), stack)
		if err != nil {
			return "", err
		}
		return "a{" + string(kc) + vs.str + "}", nil
	case reflect.Struct:
		var s []string
		for _, f := range exportedFields(t) {
			fs, err := signatureFor(f.Type, stack)
			if err != nil {
				return "", err
			}
			s = append(s, fs.str)
		}
		if len(s) == 0 {
			return "", typeErr(t, "struct has no exported fields")
		}
		return "(" + strings.Join(s, "") + ")", nil
	}

	return "", typeErr(t, "no mapping available")
}

// exportedFields returns the fields of struct type t that map to
// struct fields, in declaration order. Fields of embedded structs
// are flattened into the outer struct.
func exportedFields(t reflect.Type) []reflect.StructField {
	var ret []reflect.StructField
	for _, f := range reflect.VisibleFields(t) {
		if f.Anonymous || !f.IsExported() {
			continue
		}
		ret = append(ret, f)
	}
	return ret
}
