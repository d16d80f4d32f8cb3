// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package value

import (
	"io"

	"github.com/creachadair/ron"
)

// Parse reads a complete RON document from r and builds its value tree.
// Extension attributes at the head of the document are consumed, but do not
// affect the tree: the structure recorded is what the document spells out.
func Parse(r io.Reader) (Value, error) {
	return parseAll(ron.NewDecoder(r))
}

// ParseBytes reads a complete RON document from data and builds its value
// tree.
func ParseBytes(data []byte) (Value, error) {
	return parseAll(ron.NewDecoderBytes(data))
}

// Decode builds the value tree of the next value from d.  Unlike Parse it
// does not require the value to exhaust the input, so the caller may impose
// its own decoder settings and trailing-input policy.
func Decode(d *ron.Decoder) (Value, error) {
	var b builder
	if err := d.Any(&b); err != nil {
		return nil, err
	}
	return b.value, nil
}

func parseAll(d *ron.Decoder) (Value, error) {
	v, err := Decode(d)
	if err != nil {
		return nil, err
	}
	if err := d.End(); err != nil {
		return nil, err
	}
	return v, nil
}

// A builder is a ron.Handler that assembles a Value tree from parse events.
type builder struct {
	stack []*frame
	value Value
}

// A frame holds one partially-built container.
type frame struct {
	kind    byte // 'L' list, 'M' map, 'T' tuple, 'S' struct, 'O' option
	name    string
	items   []Value
	entries []Entry
	fields  []Field
	key     Value // pending map key
	haveKey bool
	field   string // pending struct field name
}

func (b *builder) emit(v Value) error {
	if len(b.stack) == 0 {
		b.value = v
		return nil
	}
	f := b.stack[len(b.stack)-1]
	switch f.kind {
	case 'M':
		if !f.haveKey {
			f.key, f.haveKey = v, true
		} else {
			f.entries = append(f.entries, Entry{Key: f.key, Value: v})
			f.key, f.haveKey = nil, false
		}
	case 'S':
		f.fields = append(f.fields, Field{Name: f.field, Value: v})
	default:
		f.items = append(f.items, v)
	}
	return nil
}

func (b *builder) push(kind byte, name string) error {
	b.stack = append(b.stack, &frame{kind: kind, name: name})
	return nil
}

func (b *builder) pop() *frame {
	f := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	return f
}

func (b *builder) Bool(v bool) error     { return b.emit(Bool(v)) }
func (b *builder) Int(v int64) error     { return b.emit(Int(v)) }
func (b *builder) Uint(v uint64) error   { return b.emit(Uint(v)) }
func (b *builder) Float(v float64) error { return b.emit(Float(v)) }
func (b *builder) Char(v rune) error     { return b.emit(Char(v)) }
func (b *builder) Str(s string) error    { return b.emit(String(s)) }

func (b *builder) Bytes(data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	return b.emit(Bytes(cp))
}

func (b *builder) None() error      { return b.emit(Option{}) }
func (b *builder) BeginSome() error { return b.push('O', "") }
func (b *builder) EndSome() error {
	f := b.pop()
	return b.emit(Option{Value: f.items[0]})
}

func (b *builder) Unit() error             { return b.emit(Unit{}) }
func (b *builder) Ident(name string) error { return b.emit(Unit{Name: name}) }

func (b *builder) BeginList() error { return b.push('L', "") }
func (b *builder) EndList() error   { return b.emit(List(b.pop().items)) }

func (b *builder) BeginMap() error { return b.push('M', "") }
func (b *builder) EndMap() error   { return b.emit(Map(b.pop().entries)) }

func (b *builder) BeginTuple(name string) error { return b.push('T', name) }
func (b *builder) EndTuple() error {
	f := b.pop()
	return b.emit(Tuple{Name: f.name, Items: f.items})
}

func (b *builder) BeginStruct(name string) error { return b.push('S', name) }
func (b *builder) Field(name string) error {
	b.stack[len(b.stack)-1].field = name
	return nil
}
func (b *builder) EndStruct() error {
	f := b.pop()
	return b.emit(Struct{Name: f.name, Fields: f.fields})
}
