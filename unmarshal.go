// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package ron

import (
	"fmt"
	"reflect"
)

// Unmarshaler is the interface implemented by types that decode themselves.
// UnmarshalRON must consume exactly one value from the decoder.
type Unmarshaler interface {
	UnmarshalRON(*Decoder) error
}

// unmarshalValue decodes one value from d into v, which must be settable.
// The type mapping mirrors marshalValue.
func unmarshalValue(d *Decoder, v reflect.Value) error {
	if v.CanAddr() {
		if u, ok := v.Addr().Interface().(Unmarshaler); ok {
			return u.UnmarshalRON(d)
		}
	}
	t := v.Type()
	switch t.Kind() {
	case reflect.Bool:
		b, err := d.Bool()
		if err != nil {
			return err
		}
		v.SetBool(b)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := d.Int(t.Bits())
		if err != nil {
			return err
		}
		v.SetInt(n)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := d.Uint(t.Bits())
		if err != nil {
			return err
		}
		v.SetUint(n)
		return nil

	case reflect.Float32, reflect.Float64:
		f, err := d.Float(t.Bits())
		if err != nil {
			return err
		}
		v.SetFloat(f)
		return nil

	case reflect.String:
		s, err := d.String()
		if err != nil {
			return err
		}
		v.SetString(s)
		return nil

	case reflect.Pointer:
		ok, err := d.Option(func(d *Decoder) error {
			p := reflect.New(t.Elem())
			if err := unmarshalValue(d, p.Elem()); err != nil {
				return err
			}
			v.Set(p)
			return nil
		})
		if err != nil {
			return err
		}
		if !ok {
			v.SetZero()
		}
		return nil

	case reflect.Interface:
		if info := enumFor(t); info != nil {
			return unmarshalVariant(d, info, v)
		}
		if t.NumMethod() == 0 {
			return unmarshalAny(d, v)
		}
		return fmt.Errorf("cannot decode into unregistered interface %s", t)

	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			b, err := d.Bytes()
			if err != nil {
				return err
			}
			v.SetBytes(b)
			return nil
		}
		out := reflect.MakeSlice(t, 0, 0)
		if err := d.Seq(func(d *Decoder) error {
			ev := reflect.New(t.Elem()).Elem()
			if err := unmarshalValue(d, ev); err != nil {
				return err
			}
			out = reflect.Append(out, ev)
			return nil
		}); err != nil {
			return err
		}
		v.Set(out)
		return nil

	case reflect.Array:
		return d.Tuple(t.Len(), func(d *Decoder, i int) error {
			return unmarshalValue(d, v.Index(i))
		})

	case reflect.Map:
		out := reflect.MakeMap(t)
		var key reflect.Value
		if err := d.Map(func(d *Decoder) error {
			key = reflect.New(t.Key()).Elem()
			return unmarshalValue(d, key)
		}, func(d *Decoder) error {
			if out.MapIndex(key).IsValid() {
				return &Error{Kind: KindDuplicateMapKey,
					Message: fmt.Sprintf("duplicate map key %v", key.Interface())}
			}
			ev := reflect.New(t.Elem()).Elem()
			if err := unmarshalValue(d, ev); err != nil {
				return err
			}
			out.SetMapIndex(key, ev)
			return nil
		}); err != nil {
			return err
		}
		v.Set(out)
		return nil

	case reflect.Struct:
		si := structInfoOf(t)
		name := t.Name()
		switch {
		case si.isNewtype():
			return d.Newtype(name, func(d *Decoder) error {
				return unmarshalValue(d, v.Field(si.fields[0].index))
			})
		case si.tuple:
			return d.TupleStruct(name, len(si.fields), func(d *Decoder, i int) error {
				return unmarshalValue(d, v.Field(si.fields[i].index))
			})
		case len(si.fields) == 0:
			return d.UnitStruct(name)
		}
		seen := make(map[string]bool, len(si.fields))
		if err := d.Struct(name, si.names, func(d *Decoder, fname string) error {
			seen[fname] = true
			f := si.fieldNamed(fname)
			return unmarshalValue(d, v.Field(f.index))
		}); err != nil {
			return err
		}
		return checkRequired(si, seen)
	}
	return fmt.Errorf("cannot decode into %s value", t)
}

// checkRequired reports an error for any field of si that was not decoded.
// Fields marked omitempty may be absent from the document.
func checkRequired(si *structInfo, seen map[string]bool) error {
	for _, f := range si.fields {
		if !f.omitEmpty && !seen[f.name] {
			return &Error{Kind: KindMissingField,
				Message: fmt.Sprintf("missing required field %q", f.name)}
		}
	}
	return nil
}

// unmarshalVariant decodes an enum variant into the interface value v.
func unmarshalVariant(d *Decoder, info *enumInfo, v reflect.Value) error {
	name, err := d.Enum(info.name, info.names)
	if err != nil {
		return err
	}
	vi := info.byName[name]
	cv := reflect.New(vi.typ).Elem()
	switch {
	case vi.info.isNewtype():
		err = d.NewtypeVariant(func(d *Decoder) error {
			return unmarshalValue(d, cv.Field(vi.info.fields[0].index))
		})
	case vi.info.tuple:
		err = d.TupleVariant(len(vi.info.fields), func(d *Decoder, i int) error {
			return unmarshalValue(d, cv.Field(vi.info.fields[i].index))
		})
	case len(vi.info.fields) == 0:
		err = d.UnitVariant()
	default:
		seen := make(map[string]bool, len(vi.info.fields))
		err = d.StructVariant(vi.info.names, func(d *Decoder, fname string) error {
			seen[fname] = true
			f := vi.info.fieldNamed(fname)
			return unmarshalValue(d, cv.Field(f.index))
		})
		if err == nil {
			err = checkRequired(vi.info, seen)
		}
	}
	if err != nil {
		return err
	}
	v.Set(cv)
	return nil
}

// unmarshalAny decodes one value of arbitrary shape into an empty interface.
//
// Scalars decode to bool, int64, uint64, float64, rune, string, and []byte.
// Options decode to their enclosed value or nil, the unit value and unit
// idents to nil and string respectively, lists and tuple bodies to []any,
// maps to map[any]any, and struct bodies to map[string]any.  Map keys must
// be comparable after decoding; documents keyed by lists or maps require a
// decoded form that preserves structure, such as a value tree.
func unmarshalAny(d *Decoder, v reflect.Value) error {
	var h anyGo
	if err := d.Any(&h); err != nil {
		return err
	}
	if h.value == nil {
		v.SetZero()
		return nil
	}
	v.Set(reflect.ValueOf(h.value))
	return nil
}

// anyGo is a Handler that builds generic Go values.
type anyGo struct {
	stack []*anyFrame
	value any
}

type anyFrame struct {
	list    []any          // list and tuple bodies
	entries map[any]any    // map bodies
	fields  map[string]any // struct bodies
	key     any            // pending map key
	haveKey bool
	field   string // pending struct field name
}

func (h *anyGo) emit(v any) error {
	if len(h.stack) == 0 {
		h.value = v
		return nil
	}
	f := h.stack[len(h.stack)-1]
	switch {
	case f.entries != nil:
		if !f.haveKey {
			if t := reflect.TypeOf(v); t != nil && !t.Comparable() {
				return fmt.Errorf("map key of type %T is not comparable", v)
			}
			f.key, f.haveKey = v, true
			return nil
		}
		f.entries[f.key] = v
		f.haveKey = false
	case f.fields != nil:
		f.fields[f.field] = v
	default:
		f.list = append(f.list, v)
	}
	return nil
}

func (h *anyGo) push(f *anyFrame) error { h.stack = append(h.stack, f); return nil }

func (h *anyGo) pop() *anyFrame {
	f := h.stack[len(h.stack)-1]
	h.stack = h.stack[:len(h.stack)-1]
	return f
}

func (h *anyGo) Bool(v bool) error       { return h.emit(v) }
func (h *anyGo) Int(v int64) error       { return h.emit(v) }
func (h *anyGo) Uint(v uint64) error     { return h.emit(v) }
func (h *anyGo) Float(v float64) error   { return h.emit(v) }
func (h *anyGo) Char(v rune) error       { return h.emit(v) }
func (h *anyGo) Str(s string) error      { return h.emit(s) }
func (h *anyGo) Bytes(b []byte) error    { return h.emit(b) }
func (h *anyGo) None() error             { return h.emit(nil) }
func (h *anyGo) BeginSome() error        { return nil }
func (h *anyGo) EndSome() error          { return nil }
func (h *anyGo) Unit() error             { return h.emit(nil) }
func (h *anyGo) Ident(name string) error { return h.emit(name) }

func (h *anyGo) BeginList() error { return h.push(&anyFrame{list: []any{}}) }
func (h *anyGo) EndList() error   { return h.emit(h.pop().list) }

func (h *anyGo) BeginMap() error { return h.push(&anyFrame{entries: make(map[any]any)}) }
func (h *anyGo) EndMap() error   { return h.emit(h.pop().entries) }

func (h *anyGo) BeginTuple(name string) error { return h.push(&anyFrame{list: []any{}}) }
func (h *anyGo) EndTuple() error              { return h.emit(h.pop().list) }

func (h *anyGo) BeginStruct(name string) error { return h.push(&anyFrame{fields: make(map[string]any)}) }
func (h *anyGo) Field(name string) error {
	h.stack[len(h.stack)-1].field = name
	return nil
}
func (h *anyGo) EndStruct() error { return h.emit(h.pop().fields) }
