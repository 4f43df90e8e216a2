package msgarg

import (
	"reflect"

	"github.com/creachadair/mds/mapset"
)

var (
	valueType       = reflect.TypeFor[Value]()
	variantType     = reflect.TypeFor[Variant]()
	signatureType   = reflect.TypeFor[Signature]()
	objectPathType  = reflect.TypeFor[ObjectPath]()
	dictEntryType   = reflect.TypeFor[DictEntry]()
	dictEntriesType = reflect.TypeFor[[]DictEntry]()
	anyType         = reflect.TypeFor[any]()
)

var (
	// codeToType maps the single character type codes to the
	// canonical Go type of the values they describe.
	codeToType = map[byte]reflect.Type{
		'y': reflect.TypeFor[uint8](),
		'b': reflect.TypeFor[bool](),
		'n': reflect.TypeFor[int16](),
		'q': reflect.TypeFor[uint16](),
		'i': reflect.TypeFor[int32](),
		'u': reflect.TypeFor[uint32](),
		'x': reflect.TypeFor[int64](),
		't': reflect.TypeFor[uint64](),
		'd': reflect.TypeFor[float64](),
		's': reflect.TypeFor[string](),
		'o': objectPathType,
		'g': signatureType,
		'v': variantType,
	}

	// typeToCode is the inverse of codeToType.
	typeToCode = map[reflect.Type]byte{
		reflect.TypeFor[uint8]():   'y',
		reflect.TypeFor[bool]():    'b',
		reflect.TypeFor[int16]():   'n',
		reflect.TypeFor[uint16]():  'q',
		reflect.TypeFor[int32]():   'i',
		reflect.TypeFor[uint32]():  'u',
		reflect.TypeFor[int64]():   'x',
		reflect.TypeFor[uint64]():  't',
		reflect.TypeFor[float64](): 'd',
		reflect.TypeFor[string]():  's',
		objectPathType:             'o',
		signatureType:              'g',
		variantType:                'v',
	}

	// kindToCode maps the reflect.Kinds of Go basic types to the type
	// code they marshal as. Named types with these underlying kinds
	// map the same way, except for ObjectPath.
	kindToCode = map[reflect.Kind]byte{
		reflect.Uint8:   'y',
		reflect.Bool:    'b',
		reflect.Int16:   'n',
		reflect.Uint16:  'q',
		reflect.Int32:   'i',
		reflect.Uint32:  'u',
		reflect.Int64:   'x',
		reflect.Uint64:  't',
		reflect.Float64: 'd',
		reflect.String:  's',
	}

	// codeToKind maps type codes to the Kind of Value they produce.
	codeToKind = map[byte]Kind{
		'y': KindByte,
		'b': KindBoolean,
		'n': KindInt16,
		'q': KindUint16,
		'i': KindInt32,
		'u': KindUint32,
		'x': KindInt64,
		't': KindUint64,
		'd': KindDouble,
		's': KindString,
		'o': KindObjectPath,
		'g': KindSignature,
		'v': KindVariant,
	}

	// basicCodes is the set of type codes that can be used as
	// dictionary keys.
	basicCodes = mapset.New[byte]('y', 'b', 'n', 'q', 'i', 'u', 'x', 't', 'd', 's', 'o', 'g')
)

// basicCode returns the type code that values of Go type t marshal
// as, if t is a basic type.
func basicCode(t reflect.Type) (byte, bool) {
	switch t {
	case objectPathType:
		return 'o', true
	case signatureType:
		return 'g', true
	}
	ret, ok := kindToCode[t.Kind()]
	return ret, ok
}
