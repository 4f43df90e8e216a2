package msgarg

import (
	"fmt"
	"reflect"
	"strings"
)

// NewArgs returns an argument list, one Value per complete type in
// sig, bound to the corresponding native value. It is the shape of a
// message body: "sa{sv}" with two natives yields two Values.
func NewArgs(sig string, natives ...any) ([]Value, error) {
	s, err := ParseSignature(sig)
	if err != nil {
		return nil, err
	}
	parts := s.Split()
	if len(parts) != len(natives) {
		return nil, badSig(sig, "", "signature has %d arguments, got %d values", len(parts), len(natives))
	}
	ret := make([]Value, len(parts))
	for i, part := range parts {
		v, err := build(part, reflect.ValueOf(natives[i]), fmt.Sprintf("arg%d", i), 0)
		if err != nil {
			return nil, err
		}
		ret[i] = v
	}
	return ret, nil
}

// ArgsSignature returns the signature of an argument list: the
// concatenated signatures of args.
func ArgsSignature(args []Value) string {
	var b strings.Builder
	for _, a := range args {
		b.WriteString(a.sig.str)
	}
	return b.String()
}
