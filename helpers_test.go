package msgarg

// Simple is a struct with simple fields.
type Simple struct {
	A int16
	B bool
}

// Nested is a struct with a struct field.
type Nested struct {
	A byte
	B Simple
}

// Embedded is a struct that embeds another struct by value.
type Embedded struct {
	Simple
	C byte
}

// EmbeddedShadow is a struct that embeds another struct by value,
// with one of the embedded fields shadowed by an outer field.
type EmbeddedShadow struct {
	Simple
	B byte
}

// Arrays is a struct with various degrees of complicated arrays
// inside.
type Arrays struct {
	A []string
	B []Simple
	C [][]Nested
}

// Tree is a self-referential struct that can't be represented as a
// signature.
type Tree struct {
	Left  *Tree
	Right *Tree
}

// Embedded_P is a struct that embeds another struct by pointer.
type Embedded_P struct {
	*Simple
	C byte
}

type hidden struct {
	A int32
}

// EmbeddedHidden embeds an unexported struct by pointer.
type EmbeddedHidden struct {
	*hidden
	B string
}

// WithAny is a struct with a field that binds to a variant.
type WithAny struct {
	A uint16
	B any
}

// Unexported is a struct with no exported fields.
type Unexported struct {
	a int32
}

// Name is a named string type.
type Name string

func ptr[T any](v T) *T {
	return &v
}

func mustSignatureFor[T any]() Signature {
	sig, err := SignatureFor[T]()
	if err != nil {
		panic(err)
	}
	return sig
}

// mustArgs is NewArgs for tests.
func mustArgs(sig string, natives ...any) []Value {
	ret, err := NewArgs(sig, natives...)
	if err != nil {
		panic(err)
	}
	return ret
}
