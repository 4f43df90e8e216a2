package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/danderson/msgarg"
)

// parseJSON decodes one JSON document and converts it to a Value with
// signature sig.
//
// Numbers must fit the exact type named by sig. Strings hold s, o and
// g values. JSON arrays hold arrays and struct fields, JSON objects
// hold dictionaries (keys are parsed according to the key type), and
// a variant is written as a two element array: ["sig", value].
func parseJSON(sig msgarg.Signature, doc string) (msgarg.Value, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(doc)))
	dec.UseNumber()
	var j any
	if err := dec.Decode(&j); err != nil {
		return msgarg.Value{}, fmt.Errorf("parsing JSON: %w", err)
	}
	if dec.More() {
		return msgarg.Value{}, fmt.Errorf("trailing data after JSON value")
	}
	return fromJSON(sig, j, "")
}

func fromJSON(sig msgarg.Signature, j any, path string) (msgarg.Value, error) {
	fail := func(msg string, args ...any) (msgarg.Value, error) {
		if path == "" {
			return msgarg.Value{}, fmt.Errorf(msg, args...)
		}
		return msgarg.Value{}, fmt.Errorf("%s: %s", path, fmt.Sprintf(msg, args...))
	}

	switch k := sig.Kind(); k {
	case msgarg.KindArray:
		js, ok := j.([]any)
		if !ok {
			return fail("want JSON array for %q, got %T", sig, j)
		}
		elems := make([]msgarg.Value, 0, len(js))
		for i, e := range js {
			v, err := fromJSON(sig.Elem(), e, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return msgarg.Value{}, err
			}
			elems = append(elems, v)
		}
		return msgarg.NewArray(sig.Elem().String(), elems...)

	case msgarg.KindStruct:
		js, ok := j.([]any)
		fs := sig.Fields()
		if !ok || len(js) != len(fs) {
			return fail("want JSON array of %d fields for %q", len(fs), sig)
		}
		fields := make([]msgarg.Value, 0, len(fs))
		for i, f := range fs {
			v, err := fromJSON(f, js[i], fmt.Sprintf("%s.%d", path, i))
			if err != nil {
				return msgarg.Value{}, err
			}
			fields = append(fields, v)
		}
		return msgarg.NewStruct(fields...)

	case msgarg.KindDict:
		obj, ok := j.(map[string]any)
		if !ok {
			return fail("want JSON object for %q, got %T", sig, j)
		}
		var kvs []msgarg.Value
		for _, ks := range slices.Sorted(maps.Keys(obj)) {
			key, err := parseKey(sig.Key(), ks)
			if err != nil {
				return fail("key %q: %v", ks, err)
			}
			val, err := fromJSON(sig.Elem(), obj[ks], fmt.Sprintf("%s[%q]", path, ks))
			if err != nil {
				return msgarg.Value{}, err
			}
			kvs = append(kvs, key, val)
		}
		return msgarg.NewDict(sig.Key().String(), sig.Elem().String(), kvs...)

	case msgarg.KindVariant:
		js, ok := j.([]any)
		if !ok || len(js) != 2 {
			return fail(`want ["sig", value] for variant`)
		}
		is, ok := js[0].(string)
		if !ok {
			return fail("variant signature must be a string, got %T", js[0])
		}
		inner, err := msgarg.ParseSignature(is)
		if err != nil {
			return msgarg.Value{}, err
		}
		if !inner.IsSingle() {
			return fail("variant signature %q is not a single complete type", is)
		}
		v, err := fromJSON(inner, js[1], path+".variant")
		if err != nil {
			return msgarg.Value{}, err
		}
		return msgarg.NewVariant(v)

	case msgarg.KindBoolean:
		b, ok := j.(bool)
		if !ok {
			return fail("want JSON boolean, got %T", j)
		}
		return msgarg.NewBasic(b)

	case msgarg.KindString, msgarg.KindObjectPath, msgarg.KindSignature:
		s, ok := j.(string)
		if !ok {
			return fail("want JSON string for %s, got %T", k, j)
		}
		return parseKey(sig, s)

	case msgarg.KindInvalid:
		return fail("%q is not a single complete type", sig)

	default:
		n, ok := j.(json.Number)
		if !ok {
			return fail("want JSON number for %s, got %T", k, j)
		}
		v, err := parseKey(sig, n.String())
		if err != nil {
			return fail("%v", err)
		}
		return v, nil
	}
}

// parseKey parses s as a basic value of type sig.
func parseKey(sig msgarg.Signature, s string) (msgarg.Value, error) {
	switch sig.Kind() {
	case msgarg.KindByte:
		u, err := strconv.ParseUint(s, 0, 8)
		if err != nil {
			return msgarg.Value{}, err
		}
		return msgarg.NewBasic(uint8(u))
	case msgarg.KindBoolean:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return msgarg.Value{}, err
		}
		return msgarg.NewBasic(b)
	case msgarg.KindInt16:
		i, err := strconv.ParseInt(s, 0, 16)
		if err != nil {
			return msgarg.Value{}, err
		}
		return msgarg.NewBasic(int16(i))
	case msgarg.KindUint16:
		u, err := strconv.ParseUint(s, 0, 16)
		if err != nil {
			return msgarg.Value{}, err
		}
		return msgarg.NewBasic(uint16(u))
	case msgarg.KindInt32:
		i, err := strconv.ParseInt(s, 0, 32)
		if err != nil {
			return msgarg.Value{}, err
		}
		return msgarg.NewBasic(int32(i))
	case msgarg.KindUint32:
		u, err := strconv.ParseUint(s, 0, 32)
		if err != nil {
			return msgarg.Value{}, err
		}
		return msgarg.NewBasic(uint32(u))
	case msgarg.KindInt64:
		i, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return msgarg.Value{}, err
		}
		return msgarg.NewBasic(i)
	case msgarg.KindUint64:
		u, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return msgarg.Value{}, err
		}
		return msgarg.NewBasic(u)
	case msgarg.KindDouble:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return msgarg.Value{}, err
		}
		return msgarg.NewBasic(f)
	case msgarg.KindString:
		return msgarg.NewBasic(s)
	case msgarg.KindObjectPath:
		return msgarg.NewBasic(msgarg.ObjectPath(s))
	case msgarg.KindSignature:
		g, err := msgarg.ParseSignature(s)
		if err != nil {
			return msgarg.Value{}, err
		}
		return msgarg.NewBasic(g)
	}
	return msgarg.Value{}, fmt.Errorf("%q is not a basic type", sig)
}
