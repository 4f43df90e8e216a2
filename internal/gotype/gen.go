// Package gotype generates Go type declarations for signatures.
package gotype

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"strings"
	"unicode"

	"github.com/danderson/msgarg"
)

type generator struct {
	out bytes.Buffer
	// qual is the package qualifier for msgarg types, including the
	// trailing dot. Empty means unqualified.
	qual string
}

// Options controls code generation.
type Options struct {
	// Package is the name by which generated code refers to the
	// msgarg package. If empty, "msgarg" is used. Set it to "-" to
	// generate code for use inside the msgarg package itself.
	Package string
	// ArgNames optionally names the fields of a generated argument
	// struct, in signature order. Missing names default to argN.
	ArgNames []string
}

func newGenerator(opts Options) *generator {
	switch opts.Package {
	case "":
		return &generator{qual: "msgarg."}
	case "-":
		return &generator{}
	default:
		return &generator{qual: opts.Package + "."}
	}
}

// Type returns a gofmt'd declaration of a Go type named name, whose
// values can hold values of signature sig. sig must be a single
// complete type.
func Type(name string, sig msgarg.Signature, opts Options) (string, error) {
	if !sig.IsSingle() {
		return "", fmt.Errorf("signature %q is not a single complete type", sig)
	}
	g := newGenerator(opts)
	g.f("// %s holds values of signature %q.\n", publicIdentifier(name), sig)
	g.f("type %s ", publicIdentifier(name))
	g.Type(sig)
	g.s("\n")
	return g.finish()
}

// Args returns a gofmt'd declaration of a struct type named name,
// with one field per complete type in sig. It is suitable for holding
// a whole argument list.
func Args(name string, sig msgarg.Signature, opts Options) (string, error) {
	if sig.IsZero() {
		return "", errors.New("empty signature has no arguments")
	}
	g := newGenerator(opts)
	g.f("// %s holds an argument list of signature %q.\n", publicIdentifier(name), sig)
	g.f("type %s struct {\n", publicIdentifier(name))
	for i, part := range sig.Split() {
		var n string
		if i < len(opts.ArgNames) {
			n = opts.ArgNames[i]
		}
		g.f("%s ", publicIdentifier(argName(i, n)))
		g.Type(part)
		g.s("\n")
	}
	g.s("}\n")
	return g.finish()
}

func (g *generator) finish() (string, error) {
	ret, err := format.Source(g.out.Bytes())
	if err != nil {
		return g.out.String(), err
	}
	return string(ret), nil
}

func (g *generator) s(s string) {
	g.out.WriteString(s)
}

func (g *generator) f(msg string, args ...any) {
	fmt.Fprintf(&g.out, msg, args...)
}

// Type writes the Go type expression for the single complete type
// sig.
func (g *generator) Type(sig msgarg.Signature) {
	switch k := sig.Kind(); k {
	case msgarg.KindArray:
		g.s("[]")
		g.Type(sig.Elem())
	case msgarg.KindDict:
		g.s("map[")
		g.Type(sig.Key())
		g.s("]")
		g.Type(sig.Elem())
	case msgarg.KindStruct:
		g.s("struct {\n")
		for i, f := range sig.Fields() {
			g.f("Field%d ", i)
			g.Type(f)
			g.s("\n")
		}
		g.s("}")
	case msgarg.KindVariant:
		g.f("%sVariant", g.qual)
	case msgarg.KindObjectPath:
		g.f("%sObjectPath", g.qual)
	case msgarg.KindSignature:
		g.f("%sSignature", g.qual)
	case msgarg.KindByte:
		g.s("byte")
	default:
		g.s(sig.Type().String())
	}
}

func argName(n int, name string) string {
	if name == "" {
		name = fmt.Sprintf("arg%d", n)
	}
	name = identifier(name)
	switch name {
	case "type":
		name = "typ"
	}
	return name
}

func identifier(s string) string {
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}
	fs := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	for i := range fs {
		if i == 0 {
			fst := true
			fs[i] = strings.Map(func(r rune) rune {
				if fst {
					fst = false
					return unicode.ToLower(r)
				}
				return r
			}, fs[i])
		} else {
			switch fs[i] {
			case "id":
				fs[i] = "ID"
			case "fd":
				fs[i] = "FD"
			default:
				fs[i] = title(fs[i])
			}
		}
	}
	return strings.Join(fs, "")
}

func publicIdentifier(s string) string {
	return title(identifier(s))
}

func title(s string) string {
	for i, r := range s {
		return string(unicode.ToUpper(r)) + s[i+len(string(r)):]
	}
	return s
}
