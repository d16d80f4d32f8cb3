// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package ron

import (
	"bytes"
	"fmt"
	"reflect"
)

// Options carries settings for the reflective Marshal and Unmarshal
// functions.  A zero Options is ready for use and provides the defaults.
type Options struct {
	// DefaultExtensions are enabled without requiring a document attribute.
	// When decoding, attributes in the input add to this set; when encoding,
	// the set is written as an attribute at the head of the output.
	DefaultExtensions Extensions

	// DepthLimit is the maximum permitted nesting depth.  If zero, a default
	// limit is used.
	DepthLimit int

	// Pretty, if set, selects the layout of encoded output.  If nil, output
	// is compact.
	Pretty *PrettyConfig
}

// Unmarshal decodes a RON document from data into v, which must be a non-nil
// pointer.  The entire input must be consumed by the value; leftover input
// is reported as an error.
func (o Options) Unmarshal(data []byte, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("target must be a non-nil pointer, not %T", v)
	}
	d := NewDecoderBytes(data)
	d.SetExtensions(o.DefaultExtensions)
	if o.DepthLimit > 0 {
		d.SetDepthLimit(o.DepthLimit)
	}
	if err := unmarshalValue(d, rv.Elem()); err != nil {
		return err
	}
	return d.End()
}

// Marshal encodes v as a RON document.
func (o Options) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	e := NewEncoder(&buf)
	e.SetExtensions(o.DefaultExtensions)
	if o.Pretty != nil {
		e.SetPretty(o.Pretty)
	}
	if o.DepthLimit > 0 {
		e.SetDepthLimit(o.DepthLimit)
	}
	if err := marshalValue(e, reflect.ValueOf(v)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a RON document from data into v with default options.
// It is shorthand for Options{}.Unmarshal.
func Unmarshal(data []byte, v any) error { return Options{}.Unmarshal(data, v) }

// Marshal encodes v as a compact RON document with default options.  It is
// shorthand for Options{}.Marshal.
func Marshal(v any) ([]byte, error) { return Options{}.Marshal(v) }

// MarshalPretty encodes v as a RON document with the given layout.  A nil
// cfg is equivalent to DefaultPretty.
func MarshalPretty(v any, cfg *PrettyConfig) ([]byte, error) {
	if cfg == nil {
		cfg = DefaultPretty()
	}
	return Options{Pretty: cfg}.Marshal(v)
}
