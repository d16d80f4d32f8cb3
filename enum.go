// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package ron

import (
	"fmt"
	"reflect"
	"sync"
)

// RegisterEnum declares that the interface type pointed to by iface is an
// enumeration with the given name, whose variants are the concrete struct
// types of the given values.  Once registered, values of the interface type
// can be encoded and decoded by the reflective API, with each value written
// as the variant named by its concrete type.
//
// The iface argument must be a nil pointer to the interface type, for example
//
//	ron.RegisterEnum("Shape", (*Shape)(nil), Circle{}, Square{})
//
// Each variant must be a struct type implementing the interface.  The shape
// of each variant follows the usual struct mapping: a struct with no encoded
// fields is a unit variant, a tuple-tagged struct with one field is a newtype
// variant, other tuple-tagged structs are tuple variants, and the rest are
// struct variants.
//
// RegisterEnum panics if the arguments do not satisfy these conditions, or if
// the interface type is already registered.
func RegisterEnum(name string, iface any, variants ...any) {
	pt := reflect.TypeOf(iface)
	if pt == nil || pt.Kind() != reflect.Pointer || pt.Elem().Kind() != reflect.Interface {
		panic("enum: iface must be a nil pointer to an interface type")
	}
	it := pt.Elem()

	info := &enumInfo{name: name, byName: make(map[string]*variantInfo)}
	for _, v := range variants {
		vt := reflect.TypeOf(v)
		if vt == nil || vt.Kind() != reflect.Struct {
			panic(fmt.Sprintf("enum %s: variant %T is not a struct type", name, v))
		}
		if !vt.Implements(it) {
			panic(fmt.Sprintf("enum %s: variant %s does not implement %s", name, vt.Name(), it))
		}
		vi := &variantInfo{name: vt.Name(), typ: vt, info: structInfoOf(vt)}
		if _, ok := info.byName[vi.name]; ok {
			panic(fmt.Sprintf("enum %s: duplicate variant %s", name, vi.name))
		}
		info.byName[vi.name] = vi
		info.variants = append(info.variants, vi)
		info.names = append(info.names, vi.name)
	}

	if _, ok := enums.LoadOrStore(it, info); ok {
		panic(fmt.Sprintf("enum: interface %s is already registered", it))
	}
}

// enums maps registered interface types to their enumInfo records.
var enums sync.Map // reflect.Type → *enumInfo

type enumInfo struct {
	name     string
	names    []string
	variants []*variantInfo
	byName   map[string]*variantInfo
}

type variantInfo struct {
	name string
	typ  reflect.Type
	info *structInfo
}

// variantForType reports the variant whose concrete type is t, or nil.
func (e *enumInfo) variantForType(t reflect.Type) *variantInfo {
	for _, vi := range e.variants {
		if vi.typ == t {
			return vi
		}
	}
	return nil
}

// enumFor reports the registered enumeration for the interface type t, or
// nil.
func enumFor(t reflect.Type) *enumInfo {
	if v, ok := enums.Load(t); ok {
		return v.(*enumInfo)
	}
	return nil
}

// A structInfo records the encoding plan for a struct type.
type structInfo struct {
	tuple  bool // encode positionally, without field names
	fields []fieldInfo
	names  []string // the encoded names of fields, in order
}

type fieldInfo struct {
	name      string
	index     int
	omitEmpty bool
}

// isNewtype reports whether the struct encodes as a newtype, a positional
// wrapper around a single value.
func (si *structInfo) isNewtype() bool { return si.tuple && len(si.fields) == 1 }

// fieldNamed reports the field with the given encoded name.  The caller must
// ensure name is one of the names of si.
func (si *structInfo) fieldNamed(name string) fieldInfo {
	for _, f := range si.fields {
		if f.name == name {
			return f
		}
	}
	panic("unknown field " + name)
}

var structCache sync.Map // reflect.Type → *structInfo

// structInfoOf reports the encoding plan for the struct type t.
//
// Exported fields are encoded under their Go names, which a field tag of the
// form `ron:"name"` overrides.  A tag name of "-" omits the field, and the
// ",omitempty" option suppresses zero-valued fields from the output.  A blank
// field of type struct{} tagged `ron:",tuple"` marks the whole struct as
// positional, so that its remaining fields encode as a tuple rather than a
// named-field body.
func structInfoOf(t reflect.Type) *structInfo {
	if v, ok := structCache.Load(t); ok {
		return v.(*structInfo)
	}
	si := new(structInfo)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag, opts, _ := cutTag(f.Tag.Get("ron"))
		if f.Name == "_" {
			if f.Type == reflect.TypeOf(struct{}{}) && opts == "tuple" {
				si.tuple = true
			}
			continue
		}
		if !f.IsExported() || tag == "-" {
			continue
		}
		name := f.Name
		if tag != "" {
			name = tag
		}
		si.fields = append(si.fields, fieldInfo{
			name:      name,
			index:     i,
			omitEmpty: opts == "omitempty",
		})
		si.names = append(si.names, name)
	}
	got, _ := structCache.LoadOrStore(t, si)
	return got.(*structInfo)
}

// cutTag splits a struct tag into its name and option parts.
func cutTag(tag string) (name, opts string, ok bool) {
	for i := 0; i < len(tag); i++ {
		if tag[i] == ',' {
			return tag[:i], tag[i+1:], true
		}
	}
	return tag, "", false
}
