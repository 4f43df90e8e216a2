package msgarg

import (
	"errors"
	"testing"
)

func TestObjectPath(t *testing.T) {
	tests := []struct {
		in    ObjectPath
		valid bool
	}{
		{"/", true},
		{"/org/alljoyn/test", true},
		{"/a", true},
		{"/A_b/C9/_", true},

		{"", false},
		{"/org/alljoyn/test/", false},
		{"/org/alljoyn//test", false},
		{"Error Gold", false},
		{"org/alljoyn", false},
		{"//", false},
		{"/org/all-joyn", false},
		{"/org/all joyn", false},
		{"/org/é", false},
	}

	for _, tc := range tests {
		if got := tc.in.IsValid(); got != tc.valid {
			t.Errorf("ObjectPath(%q).IsValid() = %v, want %v", tc.in, got, tc.valid)
		}

		_, err := NewBasic(tc.in)
		if tc.valid {
			if err != nil {
				t.Errorf("NewBasic(ObjectPath(%q)) got err: %v", tc.in, err)
			}
			continue
		}
		var bse BadSignatureError
		if !errors.As(err, &bse) {
			t.Errorf("NewBasic(ObjectPath(%q)) got err %v, want BadSignatureError", tc.in, err)
		}
		var v Value
		if err := v.Set("o", tc.in); !errors.As(err, &bse) {
			t.Errorf("Set(\"o\", %q) got err %v, want BadSignatureError", tc.in, err)
		}
	}
}

func TestObjectPathNavigation(t *testing.T) {
	tests := []struct {
		in     ObjectPath
		child  ObjectPath
		parent ObjectPath
	}{
		{"/", "/foo", "/"},
		{"/org", "/org/foo", "/"},
		{"/org/alljoyn/test", "/org/alljoyn/test/foo", "/org/alljoyn"},
	}
	for _, tc := range tests {
		if got := tc.in.Child("foo"); got != tc.child {
			t.Errorf("%q.Child(\"foo\") = %q, want %q", tc.in, got, tc.child)
		}
		if got := tc.in.Parent(); got != tc.parent {
			t.Errorf("%q.Parent() = %q, want %q", tc.in, got, tc.parent)
		}
	}
}
