// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package ronjson converts between RON value trees and JSON documents.
//
// The two formats do not coincide, so conversion lowers the forms JSON lacks
// to conventional renderings:
//
//	char              "c" (a one-character string)
//	byte string       base64 of the contents, as a string
//	unit, None        null
//	named unit        "Name" (the name as a string)
//	tuple             [items...], or {"Name": [items...]} when named
//	struct            {fields...}, or {"Name": {fields...}} when named
//	Some(v)           the conversion of v
//
// Map keys are lowered to strings; a map whose keys have no string rendering
// cannot be converted.  Nonfinite floats have no JSON form and report an
// error.
//
// In the reverse direction, input is first standardized with the hujson
// package, so comments and trailing commas are accepted.  JSON objects
// become maps with string keys, arrays become lists, and null becomes None.
package ronjson

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/creachadair/ron/value"
	"github.com/tailscale/hujson"
)

// ToJSON renders v as a compact JSON document.
func ToJSON(v value.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeJSON(buf *bytes.Buffer, v value.Value) error {
	switch t := v.(type) {
	case value.Bool:
		buf.WriteString(strconv.FormatBool(bool(t)))

	case value.Int:
		buf.WriteString(strconv.FormatInt(int64(t), 10))

	case value.Uint:
		buf.WriteString(strconv.FormatUint(uint64(t), 10))

	case value.Float:
		if math.IsNaN(float64(t)) || math.IsInf(float64(t), 0) {
			return fmt.Errorf("%v has no JSON representation", t)
		}
		buf.WriteString(strconv.FormatFloat(float64(t), 'g', -1, 64))

	case value.Char:
		writeJSONString(buf, string(rune(t)))

	case value.String:
		writeJSONString(buf, string(t))

	case value.Bytes:
		writeJSONString(buf, base64.StdEncoding.EncodeToString(t))

	case value.Option:
		if t.Value == nil {
			buf.WriteString("null")
			return nil
		}
		return encodeJSON(buf, t.Value)

	case value.Unit:
		if t.Name == "" {
			buf.WriteString("null")
			return nil
		}
		writeJSONString(buf, t.Name)

	case value.List:
		buf.WriteByte('[')
		for i, elt := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeJSON(buf, elt); err != nil {
				return err
			}
		}
		buf.WriteByte(']')

	case value.Map:
		buf.WriteByte('{')
		for i, ent := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := keyString(ent.Key)
			if err != nil {
				return err
			}
			writeJSONString(buf, key)
			buf.WriteByte(':')
			if err := encodeJSON(buf, ent.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')

	case value.Tuple:
		if t.Name != "" {
			buf.WriteByte('{')
			writeJSONString(buf, t.Name)
			buf.WriteByte(':')
		}
		if err := encodeJSON(buf, value.List(t.Items)); err != nil {
			return err
		}
		if t.Name != "" {
			buf.WriteByte('}')
		}

	case value.Struct:
		if t.Name != "" {
			buf.WriteByte('{')
			writeJSONString(buf, t.Name)
			buf.WriteByte(':')
		}
		buf.WriteByte('{')
		for i, f := range t.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSONString(buf, f.Name)
			buf.WriteByte(':')
			if err := encodeJSON(buf, f.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		if t.Name != "" {
			buf.WriteByte('}')
		}

	default:
		return fmt.Errorf("value of type %T has no JSON representation", v)
	}
	return nil
}

// keyString lowers a map key to its JSON object key.
func keyString(key value.Value) (string, error) {
	switch t := key.(type) {
	case value.String:
		return string(t), nil
	case value.Char:
		return string(rune(t)), nil
	case value.Bool:
		return strconv.FormatBool(bool(t)), nil
	case value.Int:
		return strconv.FormatInt(int64(t), 10), nil
	case value.Uint:
		return strconv.FormatUint(uint64(t), 10), nil
	case value.Float:
		if math.IsNaN(float64(t)) || math.IsInf(float64(t), 0) {
			return "", fmt.Errorf("%v has no JSON representation", t)
		}
		return strconv.FormatFloat(float64(t), 'g', -1, 64), nil
	case value.Unit:
		if t.Name != "" {
			return t.Name, nil
		}
	}
	return "", fmt.Errorf("map key of type %T has no JSON key form", key)
}

func writeJSONString(buf *bytes.Buffer, s string) {
	enc, err := json.Marshal(s)
	if err != nil {
		panic(err) // strings always marshal
	}
	buf.Write(enc)
}

// FromJSON parses a JSON document into a value tree.  The input may be
// "human JSON": comments and trailing commas are standardized away before
// parsing.
func FromJSON(data []byte) (value.Value, error) {
	// A line comment must end in a newline, including one that ends the input.
	std, err := hujson.Standardize(append(data[:len(data):len(data)], '\n'))
	if err != nil {
		return nil, fmt.Errorf("standardize input: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(std))
	dec.UseNumber()
	v, err := decodeJSON(dec)
	if err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("unexpected data after the value")
	}
	return v, nil
}

func decodeJSON(dec *json.Decoder) (value.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			var m value.Map
			for dec.More() {
				ktok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				val, err := decodeJSON(dec)
				if err != nil {
					return nil, err
				}
				m = append(m, value.Entry{
					Key:   value.String(ktok.(string)),
					Value: val,
				})
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m, nil

		case '[':
			var lst value.List
			for dec.More() {
				val, err := decodeJSON(dec)
				if err != nil {
					return nil, err
				}
				lst = append(lst, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return lst, nil
		}
		return nil, fmt.Errorf("unexpected %q", t.String())

	case bool:
		return value.Bool(t), nil

	case string:
		return value.String(t), nil

	case json.Number:
		if z, err := strconv.ParseInt(t.String(), 10, 64); err == nil {
			return value.Int(z), nil
		}
		if z, err := strconv.ParseUint(t.String(), 10, 64); err == nil {
			return value.Uint(z), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", t)
		}
		return value.Float(f), nil

	case nil:
		return value.Option{}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}
