// Package msgarg implements typed message arguments: values bound to
// type signatures, as carried in the bodies of message bus calls.
//
// A signature is a string of type codes describing one or more
// complete types:
//
//	y  byte            b  boolean
//	n  int16           q  uint16
//	i  int32           u  uint32
//	x  int64           t  uint64
//	d  double          s  string
//	o  object path     g  signature
//	v  variant
//	aT       array of T
//	(T...)   struct of one or more fields
//	a{KV}    dictionary from basic type K to V
//
// [ParseSignature] validates a signature, and [SplitSignature] splits
// a multi-type signature such as "sa{sv}" into its complete types.
//
// A [Value] is bound to exactly one complete type. [Value.Set] binds
// a Value to a signature and a Go value, converting the Go value to a
// tree of scalars and containers. [Value.Get] is the inverse: it
// checks that the Value satisfies a requested signature, and stores
// its content in a Go value.
//
// Set uses the following conversions from Go values:
//
// uint8, bool, int16, uint16, int32, uint32, int64, uint64, float64
// and string values, and named types with those underlying types,
// bind to the basic type with the exact corresponding code. There is
// no implicit numeric conversion: an int32 cannot bind to "x".
//
// [ObjectPath] and [Signature] values bind to "o" and "g". Object
// paths are validated.
//
// Slices and Go arrays bind to arrays. Nil slices bind as empty
// arrays.
//
// Structs bind to struct signatures, one exported field per struct
// field in declaration order. Embedded struct fields are flattened,
// subject to the usual Go visibility rules. A []any also binds to a
// struct, one element per field.
//
// Maps bind to dictionaries. Entries are ordered by key, so that
// binding the same map twice yields identical Values. A []DictEntry
// binds to a dictionary with entries in slice order. Duplicate keys
// are an error.
//
// Any Go value that has a signature, see [SignatureOf], binds to a
// variant. So does [Variant], whose content may be any such value.
//
// A [Value] binds to its own signature, so Values can be assembled
// into larger trees. The container constructors [NewArray],
// [NewStruct], [NewDict] and [NewVariant] build trees directly from
// Values.
//
// Pointers bind as the value pointed to. Nil pointers are an error.
//
// int8, int, uint, uintptr, float32, complex, channel and function
// values have no signature, and cause Set to return an error.
//
// Variants never directly contain variants. Binding a variant to a
// value that is already a variant wraps the inner value instead.
//
// Values can be encoded to and decoded from the aligned wire layout
// of message bodies with [AppendWire] and [DecodeWire].
package msgarg
