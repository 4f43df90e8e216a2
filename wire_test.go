package msgarg

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/danderson/msgarg/fragments"
)

func TestWire(t *testing.T) {
	type testCase struct {
		name   string
		sig    string
		native any
		raw    []byte
	}
	ok := func(name string, sig string, native any, raw ...byte) testCase {
		return testCase{name, sig, native, raw}
	}

	tests := []testCase{
		ok("true", "b", true,
			0, 0, 0, 1),
		ok("false", "b", false,
			0, 0, 0, 0),

		ok("byte", "y", byte(42),
			42),
		ok("i16", "n", int16(0x1234),
			0x12, 0x34),
		ok("u16", "q", uint16(0x1234),
			0x12, 0x34),
		ok("i32", "i", int32(0x12345678),
			0x12, 0x34, 0x56, 0x78),
		ok("u32", "u", uint32(0x12345678),
			0x12, 0x34, 0x56, 0x78),
		ok("i64", "x", int64(0x1abbccdd12345678),
			0x1a, 0xbb, 0xcc, 0xdd,
			0x12, 0x34, 0x56, 0x78),
		ok("u64", "t", uint64(0x1abbccdd12345678),
			0x1a, 0xbb, 0xcc, 0xdd,
			0x12, 0x34, 0x56, 0x78),

		ok("f64", "d", float64(3402823700),
			0x41, 0xE9, 0x5A, 0x5F,
			0x02, 0x80, 0x00, 0x00),

		ok("string", "s", "foobar",
			// Length
			0, 0, 0, 6,
			// Value
			'f', 'o', 'o', 'b', 'a', 'r',
			// Terminator
			0),

		ok("object path", "o", ObjectPath("/a"),
			0, 0, 0, 2, '/', 'a', 0),

		ok("signature", "g", MustParseSignature("a{sv}"),
			5, 'a', '{', 's', 'v', '}', 0),

		ok("bytes", "ay", []byte("foobar"),
			// Length
			0, 0, 0, 6,
			// Value
			'f', 'o', 'o', 'b', 'a', 'r'),

		ok("[]string", "as", []string{"fo", "obar"},
			// array length
			0, 0, 0, 17,
			// "fo"
			0, 0, 0, 2, 'f', 'o', 0,
			// pad
			0,
			// "obar"
			0, 0, 0, 4, 'o', 'b', 'a', 'r', 0),
		ok("[][]string", "aas", [][]string{{"fo", "obar"}, {"qux"}},
			// outer array length
			0, 0, 0, 36,

			// array length
			0, 0, 0, 17,
			// "fo"
			0, 0, 0, 2, 'f', 'o', 0,
			// pad
			0,
			// "obar"
			0, 0, 0, 4, 'o', 'b', 'a', 'r', 0,

			// pad
			0, 0, 0,

			// array length
			0, 0, 0, 8,
			0, 0, 0, 3, 'q', 'u', 'x', 0,
		),

		ok("[]uint64", "at", []uint64{1},
			// array length
			0, 0, 0, 8,
			// pad to element
			0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 1),
		ok("empty []uint64", "at", []uint64{},
			// array length
			0, 0, 0, 0,
			// pad to element
			0, 0, 0, 0),
		ok("empty struct array", "a(nb)", []Simple{},
			// array length
			0, 0, 0, 0,
			// pad to struct
			0, 0, 0, 0),

		ok("struct simple", "(nb)",
			Simple{42, true},
			// .A
			0, 42,
			// pad
			0, 0,
			// .B
			0, 0, 0, 1),

		ok("struct any", "(qv)",
			WithAny{42, uint32(66)},
			// .A
			0, 42,
			// .B
			// signature: uint32
			1, 'u', 0,
			// pad
			0, 0, 0,
			// value
			0, 0, 0, 66,
		),

		ok("struct nested", "(y(nb))",
			Nested{66, Simple{42, true}},
			// .A
			66,
			// pad to struct
			0, 0, 0,
			0, 0, 0, 0,
			// .B.A
			0, 42,
			// pad
			0, 0,
			// .B.B
			0, 0, 0, 1),

		ok("map", "a{qy}", map[uint16]uint8{3: 4, 1: 2},
			// dict length
			0, 0, 0, 11,
			// pad
			0, 0, 0, 0,
			// key=1
			0, 1,
			// val=2
			2,
			// pad
			0, 0, 0, 0, 0,
			// key=3
			0, 3,
			// val=4
			4),

		ok("vardict", "a{sv}", map[string]any{"a": uint8(2)},
			// dict length
			0, 0, 0, 10,
			// pad
			0, 0, 0, 0,
			// key="a"
			0, 0, 0, 1, 'a', 0,
			// signature (uint8)
			1, 'y', 0,
			// val=2
			2),

		ok("variant struct", "v", Simple{A: 2, B: true},
			// Signature string "(nb)"
			0x04, 0x28, 0x6e, 0x62, 0x29, 0x00,
			// pad to struct
			0x00, 0x00,
			// val
			0x00, 0x02, // A
			0x00, 0x00, // pad
			0x00, 0x00, 0x00, 0x01, // B
		),

		ok("variant signature", "v", MustParseSignature("uu"),
			// Signature string "g"
			0x01, 0x67, 0x00,
			// val
			0x02, 0x75, 0x75, 0x00),
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := MustNew(tc.sig, tc.native)
			got, err := AppendWire(nil, fragments.BigEndian, v)
			if err != nil {
				t.Fatalf("encode failed: %v\n  val: %s\n want: % x", err, v, tc.raw)
			}
			if !bytes.Equal(got, tc.raw) {
				t.Fatalf("encode wrong encoding:\n  val: %s\n  got: % x\n want: % x", v, got, tc.raw)
			}

			dec, err := DecodeWire(tc.raw, fragments.BigEndian, tc.sig)
			if err != nil {
				t.Fatalf("decode failed: %v\n  raw: % x\n want: %s", err, tc.raw, v)
			}
			if len(dec) != 1 || !dec[0].Equal(v) {
				t.Fatalf("decode wrong value:\n  got: %v\n want: %s", dec, v)
			}
		})
	}
}

func TestWireLittleEndian(t *testing.T) {
	v := MustNew("(qu)", []any{uint16(1), uint32(2)})
	got, err := AppendWire(nil, fragments.LittleEndian, v)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{
		0x01, 0x00,
		0x00, 0x00, // pad
		0x02, 0x00, 0x00, 0x00,
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("encode wrong encoding:\n  got: % x\n want: % x", got, want)
	}
	dec, err := DecodeWire(got, fragments.LittleEndian, "(qu)")
	if err != nil {
		t.Fatal(err)
	}
	if !dec[0].Equal(v) {
		t.Errorf("decode got %s, want %s", dec[0], v)
	}
}

func TestWireAppend(t *testing.T) {
	got, err := AppendWire([]byte{0xff}, fragments.BigEndian, MustNew("u", uint32(1)))
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0xff, 0, 0, 0, 0, 0, 0, 1}
	if !bytes.Equal(got, want) {
		t.Errorf("encode wrong encoding:\n  got: % x\n want: % x", got, want)
	}

	if _, err := AppendWire(nil, fragments.BigEndian, Value{}); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("AppendWire(invalid) got err %v, want ErrInvalidValue", err)
	}
}

func TestWireRoundTrip(t *testing.T) {
	var (
		sig     strings.Builder
		natives []any
	)
	for _, s := range scalars {
		sig.WriteString(s.code)
		natives = append(natives, s.native)
	}
	sig.WriteString("a{sv}(iv)aata{oa{sv}}")
	natives = append(natives,
		map[string]any{"a": int32(1), "b": []string{"x"}, "c": Variant{Simple{1, true}}},
		[]any{int32(-1), Nested{1, Simple{2, false}}},
		[][]uint64{{1, 2}, {}, {3}},
		map[ObjectPath]map[string]any{"/a": {"x": 1.5}, "/b": {}},
	)
	args := mustArgs(sig.String(), natives...)

	for _, ord := range []fragments.ByteOrder{fragments.BigEndian, fragments.LittleEndian} {
		raw, err := AppendWire(nil, ord, args...)
		if err != nil {
			t.Fatalf("AppendWire got err: %v", err)
		}
		got, err := DecodeWire(raw, ord, sig.String())
		if err != nil {
			t.Fatalf("DecodeWire got err: %v\n  raw: % x", err, raw)
		}
		if len(got) != len(args) {
			t.Fatalf("DecodeWire returned %d args, want %d", len(got), len(args))
		}
		for i := range args {
			if !got[i].Equal(args[i]) {
				t.Errorf("arg %d: got %s, want %s", i, got[i], args[i])
			}
		}
		if got, want := ArgsSignature(got), sig.String(); got != want {
			t.Errorf("decoded signature %q, want %q", got, want)
		}
	}
}

func TestWireVariantCollapse(t *testing.T) {
	raw := []byte{
		1, 'v', 0,
		1, 'v', 0,
		1, 'y', 0,
		5,
	}
	got, err := DecodeWire(raw, fragments.BigEndian, "v")
	if err != nil {
		t.Fatalf("DecodeWire got err: %v", err)
	}
	if want := MustNew("v", uint8(5)); !got[0].Equal(want) {
		t.Errorf("DecodeWire = %s, want %s", got[0], want)
	}

	var deep []byte
	for range maxValueDepth + 2 {
		deep = append(deep, 1, 'v', 0)
	}
	deep = append(deep, 1, 'y', 0, 5)
	if _, err := DecodeWire(deep, fragments.BigEndian, "v"); err == nil {
		t.Error("DecodeWire of deeply nested variants succeeded, want error")
	}
}

func TestWireDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		sig  string
		raw  []byte
	}{
		{"bad bool", "b", []byte{0, 0, 0, 2}},
		{"trailing bytes", "y", []byte{1, 2}},
		{"short", "u", []byte{0, 0, 1}},
		{"empty", "s", nil},
		{"bad object path", "o", []byte{0, 0, 0, 1, 'a', 0}},
		{"bad signature value", "g", []byte{2, 'a', '{', 0}},
		{"bad variant signature", "v", []byte{1, 'z', 0}},
		{"multi-type variant", "v", []byte{2, 'y', 'y', 0, 1, 2}},
		{"empty variant signature", "v", []byte{0, 0}},
		{"duplicate keys", "a{yy}", []byte{
			0, 0, 0, 10,
			0, 0, 0, 0,
			1, 1,
			0, 0, 0, 0, 0, 0,
			1, 2,
		}},
		{"nonzero padding", "(yu)", []byte{1, 0xff, 0, 0, 0, 0, 0, 1}},
		{"bad UTF-8", "s", []byte{0, 0, 0, 1, 0xff, 0}},
		{"array overrun", "ai", []byte{0, 0, 0, 6, 0, 0, 0, 1, 0, 0, 0, 2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeWire(tc.raw, fragments.BigEndian, tc.sig)
			var we WireError
			if !errors.As(err, &we) {
				t.Fatalf("DecodeWire(% x) = %v, %v, want WireError", tc.raw, got, err)
			}
		})
	}

	if _, err := DecodeWire(nil, fragments.BigEndian, "a{"); err == nil {
		t.Error("DecodeWire with bad signature succeeded")
	}
}
