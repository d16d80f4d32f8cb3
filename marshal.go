// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package ron

import (
	"fmt"
	"reflect"
	"sort"
)

// Marshaler is the interface implemented by types that encode themselves.
// MarshalRON must write exactly one value to the encoder.
type Marshaler interface {
	MarshalRON(*Encoder) error
}

var marshalerType = reflect.TypeFor[Marshaler]()

// marshalValue writes the encoding of v to e.
//
// The mapping follows the kinds of Go: Booleans, integers, floats, and
// strings encode as the corresponding literals, a []byte as a byte string, a
// pointer as an option, a slice as a list, an array as a tuple, a map as a
// map, and a struct as a body whose shape is determined by structInfoOf.  An
// interface type registered with RegisterEnum encodes as an enum variant
// named by the concrete type.  There is no reflective mapping for character
// literals, since rune is indistinguishable from int32; a type wanting one
// implements Marshaler and calls the Rune method itself.
func marshalValue(e *Encoder, v reflect.Value) error {
	if !v.IsValid() {
		return e.Unit()
	}
	t := v.Type()
	if t.Implements(marshalerType) {
		if t.Kind() == reflect.Pointer && v.IsNil() {
			return e.None()
		}
		return v.Interface().(Marshaler).MarshalRON(e)
	}
	if v.CanAddr() && reflect.PointerTo(t).Implements(marshalerType) {
		return v.Addr().Interface().(Marshaler).MarshalRON(e)
	}

	switch t.Kind() {
	case reflect.Bool:
		return e.Bool(v.Bool())

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return e.Int(v.Int())

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return e.Uint(v.Uint())

	case reflect.Float32, reflect.Float64:
		return e.Float(v.Float(), t.Bits())

	case reflect.String:
		return e.String(v.String())

	case reflect.Pointer:
		if v.IsNil() {
			return e.None()
		}
		return e.Some(func(e *Encoder) error { return marshalValue(e, v.Elem()) })

	case reflect.Interface:
		if info := enumFor(t); info != nil {
			return marshalVariant(e, info, v)
		}
		if v.IsNil() {
			return e.Unit()
		}
		return marshalValue(e, v.Elem())

	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return e.Bytes(v.Bytes())
		}
		return e.Seq(func(e *Encoder) error {
			for i := 0; i < v.Len(); i++ {
				if err := marshalValue(e, v.Index(i)); err != nil {
					return err
				}
			}
			return nil
		})

	case reflect.Array:
		return e.Tuple(func(e *Encoder) error {
			for i := 0; i < v.Len(); i++ {
				if err := marshalValue(e, v.Index(i)); err != nil {
					return err
				}
			}
			return nil
		})

	case reflect.Map:
		return e.Map(func(e *Encoder) error {
			keys := v.MapKeys()
			sortKeys(keys)
			for _, key := range keys {
				if err := marshalValue(e, key); err != nil {
					return err
				}
				if err := marshalValue(e, v.MapIndex(key)); err != nil {
					return err
				}
			}
			return nil
		})

	case reflect.Struct:
		return marshalStruct(e, structName(e, t), structInfoOf(t), v)
	}
	return fmt.Errorf("cannot encode %s value", t)
}

// structName reports the name to write for the struct type t, which is empty
// unless the encoder is configured to include struct names.
func structName(e *Encoder, t reflect.Type) string {
	if e.StructNames() {
		return t.Name()
	}
	return ""
}

// marshalStruct writes the body of a struct value under the given name, which
// may be empty.
func marshalStruct(e *Encoder, name string, si *structInfo, v reflect.Value) error {
	switch {
	case si.isNewtype():
		return e.Newtype(name, func(e *Encoder) error {
			return marshalValue(e, v.Field(si.fields[0].index))
		})

	case si.tuple:
		return e.TupleStruct(name, func(e *Encoder) error {
			for _, f := range si.fields {
				if err := marshalValue(e, v.Field(f.index)); err != nil {
					return err
				}
			}
			return nil
		})

	case len(si.fields) == 0:
		return e.UnitStruct(name)
	}
	return e.Struct(name, func(e *Encoder) error { return marshalFields(e, si, v) })
}

func marshalFields(e *Encoder, si *structInfo, v reflect.Value) error {
	for _, f := range si.fields {
		fv := v.Field(f.index)
		if f.omitEmpty && fv.IsZero() {
			continue
		}
		if err := e.Field(f.name); err != nil {
			return err
		}
		if err := marshalValue(e, fv); err != nil {
			return err
		}
	}
	return nil
}

// marshalVariant writes an interface value as a variant of its registered
// enumeration.
func marshalVariant(e *Encoder, info *enumInfo, v reflect.Value) error {
	if v.IsNil() {
		return fmt.Errorf("cannot encode nil %s value", info.name)
	}
	cv := v.Elem()
	vi := info.variantForType(cv.Type())
	if vi == nil {
		return fmt.Errorf("type %s is not a variant of %s", cv.Type(), info.name)
	}
	switch {
	case vi.info.isNewtype():
		return e.NewtypeVariant(vi.name, func(e *Encoder) error {
			return marshalValue(e, cv.Field(vi.info.fields[0].index))
		})

	case vi.info.tuple:
		return e.TupleVariant(vi.name, func(e *Encoder) error {
			for _, f := range vi.info.fields {
				if err := marshalValue(e, cv.Field(f.index)); err != nil {
					return err
				}
			}
			return nil
		})

	case len(vi.info.fields) == 0:
		return e.UnitVariant(vi.name)
	}
	return e.StructVariant(vi.name, func(e *Encoder) error {
		return marshalFields(e, vi.info, cv)
	})
}

// sortKeys orders map keys for output, so that encoding a map is
// deterministic.  Keys of kinds without a natural order are left in map
// order.
func sortKeys(keys []reflect.Value) {
	if len(keys) == 0 {
		return
	}
	switch keys[0].Kind() {
	case reflect.String:
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		sort.Slice(keys, func(i, j int) bool { return keys[i].Int() < keys[j].Int() })
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		sort.Slice(keys, func(i, j int) bool { return keys[i].Uint() < keys[j].Uint() })
	case reflect.Float32, reflect.Float64:
		sort.Slice(keys, func(i, j int) bool { return keys[i].Float() < keys[j].Float() })
	}
}
