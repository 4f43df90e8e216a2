package msgarg

import (
	"errors"
	"fmt"
	"strings"
)

// An ObjectPath is a slash-delimited name of an object, such as
// "/org/freedesktop/DBus".
//
// A valid ObjectPath is either "/", or a sequence of one or more
// elements each preceded by a slash. Elements are non-empty and
// consist only of the ASCII characters [A-Za-z0-9_]. There is no
// trailing slash.
type ObjectPath string

// Valid returns an error describing why p is not a valid object
// path, or nil if it is valid.
func (p ObjectPath) Valid() error {
	s := string(p)
	switch {
	case s == "/":
		return nil
	case s == "":
		return errors.New("empty object path")
	case s[0] != '/':
		return fmt.Errorf("object path %q does not begin with /", s)
	case s[len(s)-1] == '/':
		return fmt.Errorf("object path %q has a trailing /", s)
	}
	for _, elem := range strings.Split(s[1:], "/") {
		if elem == "" {
			return fmt.Errorf("object path %q has an empty element", s)
		}
		for i := 0; i < len(elem); i++ {
			if !isPathChar(elem[i]) {
				return fmt.Errorf("object path %q contains invalid character %q", s, elem[i])
			}
		}
	}
	return nil
}

// IsValid reports whether p is a valid object path.
func (p ObjectPath) IsValid() bool {
	return p.Valid() == nil
}

// Child returns the path of the child element name under p.
func (p ObjectPath) Child(name string) ObjectPath {
	if p == "/" {
		return ObjectPath("/" + name)
	}
	return ObjectPath(string(p) + "/" + name)
}

// Parent returns the parent path of p. The parent of "/" is "/".
func (p ObjectPath) Parent() ObjectPath {
	i := strings.LastIndexByte(string(p), '/')
	if i <= 0 {
		return "/"
	}
	return p[:i]
}

func (p ObjectPath) String() string {
	return string(p)
}

func isPathChar(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_'
}
