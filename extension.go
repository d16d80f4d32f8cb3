// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package ron

import "strings"

// Extensions is a set of named extensions that alter the parsing and
// serialization semantics of a document.  Extensions are declared at the head
// of a document with one or more attributes of the form:
//
//	#![enable(name1, name2, ...)]
//
// The set active for a document is the union of the declared extensions with
// the defaults configured on the decoder or encoder.  The set is frozen once
// the last attribute has been consumed.
type Extensions uint

// Constants defining the supported extensions.
const (
	UnwrapNewtypes            Extensions = 1 << iota // unwrap_newtypes
	ImplicitSome                                     // implicit_some
	UnwrapVariantNewtypes                            // unwrap_variant_newtypes
	ExplicitStructNames                              // explicit_struct_names
	DeprecatedBase64ByteString                       // deprecated_base64_byte_string
	ImplicitOutmostStruct                            // implicit_outmost_struct
)

var extNames = []struct {
	name string
	bit  Extensions
}{
	{"unwrap_newtypes", UnwrapNewtypes},
	{"implicit_some", ImplicitSome},
	{"unwrap_variant_newtypes", UnwrapVariantNewtypes},
	{"explicit_struct_names", ExplicitStructNames},
	{"deprecated_base64_byte_string", DeprecatedBase64ByteString},
	{"implicit_outmost_struct", ImplicitOutmostStruct},
}

// ExtensionByName reports the extension named by name.  It reports false for
// names outside the supported set, including the experimental enum_repr
// extension, which requires a type environment this package does not consume.
func ExtensionByName(name string) (Extensions, bool) {
	for _, e := range extNames {
		if e.name == name {
			return e.bit, true
		}
	}
	return 0, false
}

// Has reports whether every extension in mask is a member of e.
func (e Extensions) Has(mask Extensions) bool { return e&mask == mask }

// Names reports the names of the extensions in e, in declaration order.
func (e Extensions) Names() []string {
	var names []string
	for _, x := range extNames {
		if e.Has(x.bit) {
			names = append(names, x.name)
		}
	}
	return names
}

func (e Extensions) String() string {
	if e == 0 {
		return "(none)"
	}
	return strings.Join(e.Names(), ",")
}
