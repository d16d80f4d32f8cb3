// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package value implements a generic tree representation of RON values,
// preserving the structure of a document without reference to a target type.
//
// A tree is built from a document by Parse or ParseBytes, or constructed
// directly from the concrete types of the package.  Trees render back to
// document text with Format and FormatPretty.  Formatting a parsed tree and
// parsing it again yields an equal tree.
//
// Enum variants have no distinguished representation: a named body parses to
// a Tuple or Struct carrying the name, and a bare identifier to a Unit, so
// the same types serve for variants and for named structs.
package value

import (
	"math"
	"strings"

	"github.com/creachadair/ron"
)

// Value is the interface satisfied by the value types of this package: Bool,
// Int, Uint, Float, Char, String, Bytes, Option, Unit, List, Map, Tuple, and
// Struct.
type Value interface {
	// Encode writes the value to e as a single RON value.
	Encode(e *ron.Encoder) error
}

// Format renders v as a compact RON document.
func Format(v Value) string {
	var sb strings.Builder
	e := ron.NewEncoder(&sb)
	e.SetDepthLimit(math.MaxInt)
	if err := v.Encode(e); err != nil {
		return "" // unreachable: writes to a strings.Builder cannot fail
	}
	return sb.String()
}

// FormatPretty renders v as a RON document with the given layout.  A nil cfg
// is equivalent to ron.DefaultPretty.
func FormatPretty(v Value, cfg *ron.PrettyConfig) (string, error) {
	if cfg == nil {
		cfg = ron.DefaultPretty()
	}
	var sb strings.Builder
	e := ron.NewEncoder(&sb)
	e.SetPretty(cfg)
	if err := v.Encode(e); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Bool represents a Boolean value.
type Bool bool

func (b Bool) Encode(e *ron.Encoder) error { return e.Bool(bool(b)) }
func (b Bool) String() string              { return Format(b) }

// Int represents a signed integer.  Unsigned values beyond the range of
// int64 are represented by Uint; Equal treats an Int and a Uint with the
// same numeric value as equal.
type Int int64

func (z Int) Encode(e *ron.Encoder) error { return e.Int(int64(z)) }
func (z Int) String() string              { return Format(z) }

// Uint represents an unsigned integer too large for Int.
type Uint uint64

func (z Uint) Encode(e *ron.Encoder) error { return e.Uint(uint64(z)) }
func (z Uint) String() string              { return Format(z) }

// Float represents a floating-point value, including the infinities and NaN.
type Float float64

func (f Float) Encode(e *ron.Encoder) error { return e.Float(float64(f), 64) }
func (f Float) String() string              { return Format(f) }

// Char represents a character literal.
type Char rune

func (c Char) Encode(e *ron.Encoder) error { return e.Rune(rune(c)) }
func (c Char) String() string              { return Format(c) }

// String represents a text string.
type String string

func (s String) Encode(e *ron.Encoder) error { return e.String(string(s)) }
func (s String) String() string              { return Format(s) }

// Bytes represents a byte string.
type Bytes []byte

func (b Bytes) Encode(e *ron.Encoder) error { return e.Bytes([]byte(b)) }
func (b Bytes) String() string              { return Format(b) }

// Option represents an optional value.  The zero Option is None; an Option
// with a non-nil Value is Some of that value.
type Option struct {
	Value Value
}

// Some constructs a present Option enclosing v.
func Some(v Value) Option { return Option{Value: v} }

// IsNone reports whether o is the absent option.
func (o Option) IsNone() bool { return o.Value == nil }

// Unwrap returns the enclosed value of o.  It panics if o is None.
func (o Option) Unwrap() Value {
	if o.Value == nil {
		panic("unwrap of None")
	}
	return o.Value
}

func (o Option) Encode(e *ron.Encoder) error {
	if o.Value == nil {
		return e.None()
	}
	return e.Some(o.Value.Encode)
}

func (o Option) String() string { return Format(o) }

// Unit represents the unit value or a unit struct.  A Unit with an empty
// name renders as "()"; otherwise it renders as a bare identifier, the form
// shared by named unit structs and unit enum variants.
type Unit struct {
	Name string
}

func (u Unit) Encode(e *ron.Encoder) error { return e.UnitStruct(u.Name) }
func (u Unit) String() string              { return Format(u) }

// List represents a sequence of values.
type List []Value

func (ls List) Encode(e *ron.Encoder) error {
	return e.Seq(func(e *ron.Encoder) error {
		for _, v := range ls {
			if err := v.Encode(e); err != nil {
				return err
			}
		}
		return nil
	})
}

func (ls List) String() string { return Format(ls) }

// An Entry is a single key-value pair of a Map.
type Entry struct {
	Key, Value Value
}

// Map represents a map as a sequence of entries.  Entry order is preserved,
// and duplicate keys are permitted; a document with repeated keys parses
// without error and renders back with the repetitions intact.
type Map []Entry

// Find reports the value of the first entry of m whose key is structurally
// equal to key.
func (m Map) Find(key Value) (Value, bool) {
	for _, ent := range m {
		if Equal(ent.Key, key) {
			return ent.Value, true
		}
	}
	return nil, false
}

func (m Map) Encode(e *ron.Encoder) error {
	return e.Map(func(e *ron.Encoder) error {
		for _, ent := range m {
			if err := ent.Key.Encode(e); err != nil {
				return err
			}
			if err := ent.Value.Encode(e); err != nil {
				return err
			}
		}
		return nil
	})
}

func (m Map) String() string { return Format(m) }

// Tuple represents a positional body, optionally named.  An anonymous Tuple
// renders as "(a, b)", a named one as "Name(a, b)".  A named Tuple with no
// items renders as "Name()".
type Tuple struct {
	Name  string
	Items []Value
}

func (t Tuple) Encode(e *ron.Encoder) error {
	return e.TupleStruct(t.Name, func(e *ron.Encoder) error {
		for _, v := range t.Items {
			if err := v.Encode(e); err != nil {
				return err
			}
		}
		return nil
	})
}

func (t Tuple) String() string { return Format(t) }

// A Field is a single named field of a Struct.
type Field struct {
	Name  string
	Value Value
}

// Struct represents a named-field body, optionally named.  Field order is
// preserved.
type Struct struct {
	Name   string
	Fields []Field
}

// Find reports the value of the first field of s with the given name.
func (s Struct) Find(name string) (Value, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

func (s Struct) Encode(e *ron.Encoder) error {
	return e.Struct(s.Name, func(e *ron.Encoder) error {
		for _, f := range s.Fields {
			if err := e.Field(f.Name); err != nil {
				return err
			}
			if err := f.Value.Encode(e); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s Struct) String() string { return Format(s) }

// Equal reports whether a and b are structurally equal: the same shape with
// equal names and elements.  Numeric values compare by value across Int and
// Uint, and NaN compares equal to NaN, so that a formatted tree parses back
// equal to its original.
func Equal(a, b Value) bool {
	switch t := a.(type) {
	case Bool:
		u, ok := b.(Bool)
		return ok && t == u
	case Int:
		switch u := b.(type) {
		case Int:
			return t == u
		case Uint:
			return t >= 0 && uint64(t) == uint64(u)
		}
		return false
	case Uint:
		switch u := b.(type) {
		case Uint:
			return t == u
		case Int:
			return u >= 0 && uint64(u) == uint64(t)
		}
		return false
	case Float:
		u, ok := b.(Float)
		if !ok {
			return false
		}
		if math.IsNaN(float64(t)) {
			return math.IsNaN(float64(u))
		}
		return t == u
	case Char:
		u, ok := b.(Char)
		return ok && t == u
	case String:
		u, ok := b.(String)
		return ok && t == u
	case Bytes:
		u, ok := b.(Bytes)
		return ok && string(t) == string(u)
	case Option:
		u, ok := b.(Option)
		if !ok {
			return false
		}
		if t.Value == nil || u.Value == nil {
			return t.Value == nil && u.Value == nil
		}
		return Equal(t.Value, u.Value)
	case Unit:
		u, ok := b.(Unit)
		return ok && t.Name == u.Name
	case List:
		u, ok := b.(List)
		if !ok || len(t) != len(u) {
			return false
		}
		for i, v := range t {
			if !Equal(v, u[i]) {
				return false
			}
		}
		return true
	case Map:
		u, ok := b.(Map)
		if !ok || len(t) != len(u) {
			return false
		}
		for i, ent := range t {
			if !Equal(ent.Key, u[i].Key) || !Equal(ent.Value, u[i].Value) {
				return false
			}
		}
		return true
	case Tuple:
		u, ok := b.(Tuple)
		if !ok || t.Name != u.Name || len(t.Items) != len(u.Items) {
			return false
		}
		for i, v := range t.Items {
			if !Equal(v, u.Items[i]) {
				return false
			}
		}
		return true
	case Struct:
		u, ok := b.(Struct)
		if !ok || t.Name != u.Name || len(t.Fields) != len(u.Fields) {
			return false
		}
		for i, f := range t.Fields {
			if f.Name != u.Fields[i].Name || !Equal(f.Value, u.Fields[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}
