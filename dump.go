package msgarg

import (
	"fmt"
	"strconv"
	"strings"
)

// String returns a compact, human-readable rendering of v. It is
// meant for debugging and error messages, and its format may change.
func (v Value) String() string {
	var b strings.Builder
	v.format(&b)
	return b.String()
}

func (v Value) format(b *strings.Builder) {
	switch p := v.p.(type) {
	case nil:
		b.WriteString("<invalid>")
	case arrayPayload:
		b.WriteByte('[')
		for i, e := range p.elems {
			if i > 0 {
				b.WriteString(", ")
			}
			e.format(b)
		}
		b.WriteByte(']')
	case structPayload:
		b.WriteByte('(')
		for i, f := range p.fields {
			if i > 0 {
				b.WriteString(", ")
			}
			f.format(b)
		}
		b.WriteByte(')')
	case dictPayload:
		b.WriteByte('{')
		for i := range p.keys {
			if i > 0 {
				b.WriteString(", ")
			}
			p.keys[i].format(b)
			b.WriteString(": ")
			p.vals[i].format(b)
		}
		b.WriteByte('}')
	case variantPayload:
		fmt.Fprintf(b, "<%s ", p.inner.sig.str)
		p.inner.format(b)
		b.WriteByte('>')
	default:
		b.WriteString(formatScalar(p))
	}
}

func formatScalar(p payload) string {
	switch s := p.(type) {
	case scalar[string]:
		return strconv.Quote(s.v)
	case scalar[ObjectPath]:
		return "o" + strconv.Quote(string(s.v))
	case scalar[Signature]:
		return "g" + strconv.Quote(s.v.str)
	case scalar[float64]:
		return strconv.FormatFloat(s.v, 'g', -1, 64)
	default:
		return fmt.Sprint(scalarValue(p))
	}
}

// Dump returns a multi-line rendering of v, showing the signature of
// every value in the tree. It is meant for debugging only.
func (v Value) Dump() string {
	d := dumper{}
	d.value(v, "")
	return d.out.String()
}

type dumper struct {
	out   strings.Builder
	depth int
}

func (d *dumper) line(msg string, args ...any) {
	d.out.WriteString(strings.Repeat("  ", d.depth))
	fmt.Fprintf(&d.out, msg, args...)
	d.out.WriteByte('\n')
}

func (d *dumper) value(v Value, label string) {
	if label != "" {
		label += ": "
	}
	switch p := v.p.(type) {
	case nil:
		d.line("%s<invalid>", label)
	case arrayPayload:
		d.line("%s%s array, %d elements", label, v.sig.str, len(p.elems))
		d.depth++
		for i, e := range p.elems {
			d.value(e, fmt.Sprintf("[%d]", i))
		}
		d.depth--
	case structPayload:
		d.line("%s%s struct", label, v.sig.str)
		d.depth++
		for i, f := range p.fields {
			d.value(f, fmt.Sprintf(".%d", i))
		}
		d.depth--
	case dictPayload:
		d.line("%s%s dict, %d entries", label, v.sig.str, len(p.keys))
		d.depth++
		for i := range p.keys {
			d.value(p.vals[i], p.keys[i].String())
		}
		d.depth--
	case variantPayload:
		d.line("%sv variant", label)
		d.depth++
		d.value(p.inner, "")
		d.depth--
	default:
		d.line("%s%s %s", label, v.sig.str, formatScalar(p))
	}
}
