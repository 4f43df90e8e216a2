package msgarg

import "testing"

func TestTypeMaps(t *testing.T) {
	for want, typ := range codeToType {
		if got := typeToCode[typ]; got != want {
			t.Errorf("typeToCode[%v] = %q, want %q", typ, got, want)
		}
	}

	for want, b := range typeToCode {
		if got := codeToType[b]; got != want {
			t.Errorf("codeToType[%q] = %v, want %v", b, got, want)
		}
	}

	for kind, code := range kindToCode {
		if got := codeToType[code]; got.Kind() != kind {
			t.Errorf("kindToCode[%v] = %q, which maps to type %v", kind, code, got)
		}
	}

	for code := range codeToType {
		k, ok := codeToKind[code]
		if !ok {
			t.Errorf("codeToKind has no entry for %q", code)
			continue
		}
		if got, want := k.IsBasic(), basicCodes.Has(code); got != want {
			t.Errorf("%s.IsBasic() = %v, want %v", k, got, want)
		}
	}
}
