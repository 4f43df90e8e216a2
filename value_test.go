package msgarg

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestKind(t *testing.T) {
	tests := []struct {
		val  Value
		want Kind
	}{
		{Value{}, KindInvalid},
		{MustNew("y", uint8(1)), KindByte},
		{MustNew("b", true), KindBoolean},
		{MustNew("d", 1.0), KindDouble},
		{MustNew("s", ""), KindString},
		{MustNew("o", ObjectPath("/")), KindObjectPath},
		{MustNew("g", MustParseSignature("")), KindSignature},
		{MustNew("ai", []int32{}), KindArray},
		{MustNew("(i)", []any{int32(1)}), KindStruct},
		{MustNew("a{ii}", map[int32]int32{}), KindDict},
		{MustNew("v", int32(1)), KindVariant},
	}
	for _, tc := range tests {
		if got := tc.val.Kind(); got != tc.want {
			t.Errorf("%s.Kind() = %s, want %s", tc.val, got, tc.want)
		}
		if got := tc.val.Signature().Kind(); tc.val.IsValid() && got != tc.want {
			t.Errorf("%s.Signature().Kind() = %s, want %s", tc.val, got, tc.want)
		}
	}
	if got, want := Kind(99).String(), "Kind(99)"; got != want {
		t.Errorf("Kind(99).String() = %q, want %q", got, want)
	}
}

func TestAccessors(t *testing.T) {
	arr := MustNew("as", []string{"a", "b"})
	if got := arr.Len(); got != 2 {
		t.Errorf("array Len() = %d, want 2", got)
	}
	e, err := arr.Index(1)
	if err != nil {
		t.Fatalf("array Index(1) got err: %v", err)
	}
	if got, want := e.String(), `"b"`; got != want {
		t.Errorf("array Index(1) = %s, want %s", got, want)
	}
	if _, err := arr.Index(2); err == nil {
		t.Error("array Index(2) succeeded, want error")
	}

	st := MustNew("(nb)", Simple{1, true})
	f, err := st.Index(1)
	if err != nil {
		t.Fatalf("struct Index(1) got err: %v", err)
	}
	if got, want := f.String(), "true"; got != want {
		t.Errorf("struct Index(1) = %s, want %s", got, want)
	}

	dict := MustNew("a{sv}", map[string]any{"a": int32(1), "b": "x"})
	if got := dict.Len(); got != 2 {
		t.Errorf("dict Len() = %d, want 2", got)
	}
	k, v, err := dict.Entry(1)
	if err != nil {
		t.Fatalf("dict Entry(1) got err: %v", err)
	}
	if got, want := k.String()+"="+v.String(), `"b"=<s "x">`; got != want {
		t.Errorf("dict Entry(1) = %s, want %s", got, want)
	}
	if _, _, err := dict.Entry(-1); err == nil {
		t.Error("dict Entry(-1) succeeded, want error")
	}
	if _, err := dict.Index(0); err == nil {
		t.Error("dict Index(0) succeeded, want error")
	}

	found, ok, err := dict.Lookup("a")
	if err != nil || !ok {
		t.Fatalf("dict Lookup(\"a\") = %v, %v, want found", ok, err)
	}
	if got, want := found.String(), "<i 1>"; got != want {
		t.Errorf("dict Lookup(\"a\") = %s, want %s", got, want)
	}
	if _, ok, err := dict.Lookup(MustNew("s", "zzz")); err != nil || ok {
		t.Errorf("dict Lookup(\"zzz\") = %v, %v, want not found", ok, err)
	}
	if _, _, err := dict.Lookup(int32(1)); err == nil {
		t.Error("dict Lookup with wrong key type succeeded, want error")
	}
	if _, _, err := arr.Lookup("a"); err == nil {
		t.Error("array Lookup succeeded, want error")
	}

	scalar := MustNew("i", int32(1))
	if got := scalar.Len(); got != 0 {
		t.Errorf("scalar Len() = %d, want 0", got)
	}
	if _, err := scalar.Index(0); err == nil {
		t.Error("scalar Index(0) succeeded, want error")
	}

	var invalid Value
	if _, err := invalid.Index(0); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("invalid Index got err %v, want ErrInvalidValue", err)
	}
	if _, _, err := invalid.Entry(0); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("invalid Entry got err %v, want ErrInvalidValue", err)
	}
	if _, _, err := invalid.Lookup("a"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("invalid Lookup got err %v, want ErrInvalidValue", err)
	}
}

func TestClone(t *testing.T) {
	orig := MustNew("a{s(iav)}", map[string][]any{
		"a": {int32(1), []any{"x", uint8(2)}},
	})
	c := orig.Clone()
	if !c.Equal(orig) {
		t.Fatalf("Clone() = %s, want %s", c, orig)
	}
	// Mutate the clone's storage directly, the original must not
	// change.
	c.p.(dictPayload).vals[0].p.(structPayload).fields[0] = MustNew("i", int32(99))
	if c.Equal(orig) {
		t.Errorf("mutating clone changed original: %s", orig)
	}
}

func TestCloneNaNKey(t *testing.T) {
	orig := MustNew("a{dy}", map[float64]byte{math.NaN(): 1, 2: 3})
	c := orig.Clone()
	if !c.Equal(orig) {
		t.Errorf("Clone() = %s, not equal to %s", c, orig)
	}
	if c.Hash() != orig.Hash() {
		t.Errorf("Clone().Hash() = %x, want %x", c.Hash(), orig.Hash())
	}
	got, ok, err := orig.Lookup(math.NaN())
	if err != nil || !ok {
		t.Fatalf("Lookup(NaN) = %v, %v, %v, want found", got, ok, err)
	}
	if want := MustNew("y", uint8(1)); !got.Equal(want) {
		t.Errorf("Lookup(NaN) = %s, want %s", got, want)
	}
}

func TestNative(t *testing.T) {
	tests := []struct {
		val  Value
		want any
	}{
		{MustNew("a{sx}", map[string]int64{"a": 1}), map[string]int64{"a": 1}},
		{MustNew("aay", [][]byte{{1}}), [][]byte{{1}}},
		{MustNew("v", uint16(3)), Variant{uint16(3)}},
		{MustNew("(sv)", []any{"a", int32(1)}), struct {
			Field0 string
			Field1 Variant
		}{"a", Variant{int32(1)}}},
	}
	for _, tc := range tests {
		got, err := tc.val.Native()
		if err != nil {
			t.Errorf("%s.Native() got err: %v", tc.val, err)
			continue
		}
		if diff := cmp.Diff(got, tc.want); diff != "" {
			t.Errorf("%s.Native() wrong (-got+want):\n%s", tc.val, diff)
		}
	}
}
