package msgarg

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Equal reports whether v and o are structurally equal: they have
// the same signature, and recursively equal content.
//
// Scalars compare by value. Values of different basic types are
// never equal, even if numerically equal. Doubles compare by bit
// pattern, except that -0 equals +0: a NaN equals a NaN with the
// same bits, which keeps Equal consistent with dictionary key
// identity. Arrays and structs compare
// element by element in order. Dictionaries compare as sets of
// entries, regardless of order. Invalid Values are equal to each
// other.
func (v Value) Equal(o Value) bool {
	if v.sig.str != o.sig.str {
		return false
	}
	switch a := v.p.(type) {
	case nil:
		return o.p == nil
	case arrayPayload:
		return equalAll(a.elems, o.p.(arrayPayload).elems)
	case structPayload:
		return equalAll(a.fields, o.p.(structPayload).fields)
	case dictPayload:
		b := o.p.(dictPayload)
		if len(a.keys) != len(b.keys) {
			return false
		}
		idx := make(map[dictKey]int, len(b.keys))
		for i, k := range b.keys {
			idx[k.dictKey()] = i
		}
		for i, k := range a.keys {
			j, ok := idx[k.dictKey()]
			if !ok || !k.Equal(b.keys[j]) || !a.vals[i].Equal(b.vals[j]) {
				return false
			}
		}
		return true
	case variantPayload:
		return a.inner.Equal(o.p.(variantPayload).inner)
	case scalar[Signature]:
		return a.v.str == o.p.(scalar[Signature]).v.str
	case scalar[float64]:
		return doubleBits(a.v) == doubleBits(o.p.(scalar[float64]).v)
	default:
		return v.p == o.p
	}
}

func equalAll(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// Hash returns a hash of v that is consistent with [Value.Equal]:
// equal Values have equal hashes.
func (v Value) Hash() uint64 {
	d := xxhash.New()
	v.hashTo(d)
	return d.Sum64()
}

func (v Value) hashTo(d *xxhash.Digest) {
	d.WriteString(v.sig.str)
	var buf [8]byte
	putBits := func(u uint64) {
		binary.LittleEndian.PutUint64(buf[:], u)
		d.Write(buf[:])
	}
	putString := func(s string) {
		putBits(uint64(len(s)))
		d.WriteString(s)
	}

	switch p := v.p.(type) {
	case nil:
	case arrayPayload:
		putBits(uint64(len(p.elems)))
		for _, e := range p.elems {
			e.hashTo(d)
		}
	case structPayload:
		for _, f := range p.fields {
			f.hashTo(d)
		}
	case dictPayload:
		// Entries combine commutatively, so that hashing is
		// independent of entry order.
		var sum uint64
		for i := range p.keys {
			ed := xxhash.New()
			p.keys[i].hashTo(ed)
			p.vals[i].hashTo(ed)
			sum += ed.Sum64()
		}
		putBits(uint64(len(p.keys)))
		putBits(sum)
	case variantPayload:
		p.inner.hashTo(d)
	case scalar[float64]:
		putBits(doubleBits(p.v))
	case scalar[string]:
		putString(p.v)
	case scalar[ObjectPath]:
		putString(string(p.v))
	case scalar[Signature]:
		putString(p.v.str)
	default:
		putBits(v.dictKey().bits)
	}
}

// doubleBits returns the bit pattern of f, with -0 normalized to +0.
func doubleBits(f float64) uint64 {
	return math.Float64bits(f + 0)
}
