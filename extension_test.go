// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package ron_test

import (
	"testing"

	"github.com/creachadair/ron"
	"github.com/google/go-cmp/cmp"
)

func TestExtensionByName(t *testing.T) {
	tests := []struct {
		name string
		want ron.Extensions
		ok   bool
	}{
		{"unwrap_newtypes", ron.UnwrapNewtypes, true},
		{"implicit_some", ron.ImplicitSome, true},
		{"unwrap_variant_newtypes", ron.UnwrapVariantNewtypes, true},
		{"explicit_struct_names", ron.ExplicitStructNames, true},
		{"deprecated_base64_byte_string", ron.DeprecatedBase64ByteString, true},
		{"implicit_outmost_struct", ron.ImplicitOutmostStruct, true},
		{"enum_repr", 0, false},
		{"nonesuch", 0, false},
		{"", 0, false},
	}
	for _, test := range tests {
		got, ok := ron.ExtensionByName(test.name)
		if got != test.want || ok != test.ok {
			t.Errorf("ExtensionByName %q: got %v, %v; want %v, %v",
				test.name, got, ok, test.want, test.ok)
		}
	}
}

func TestExtensionsNames(t *testing.T) {
	exts := ron.ImplicitSome | ron.UnwrapNewtypes | ron.ImplicitOutmostStruct
	want := []string{"unwrap_newtypes", "implicit_some", "implicit_outmost_struct"}
	if diff := cmp.Diff(want, exts.Names()); diff != "" {
		t.Errorf("Names: (-want, +got)\n%s", diff)
	}
	if got := ron.Extensions(0).Names(); got != nil {
		t.Errorf("Names of empty set: got %v, want nil", got)
	}
}

func TestExtensionsHas(t *testing.T) {
	exts := ron.ImplicitSome | ron.UnwrapNewtypes
	if !exts.Has(ron.ImplicitSome) {
		t.Error("Has implicit_some: got false, want true")
	}
	if !exts.Has(ron.ImplicitSome | ron.UnwrapNewtypes) {
		t.Error("Has both members: got false, want true")
	}
	if exts.Has(ron.ImplicitSome | ron.ExplicitStructNames) {
		t.Error("Has with a missing member: got true, want false")
	}
}

func TestExtensionsString(t *testing.T) {
	if got, want := ron.Extensions(0).String(), "(none)"; got != want {
		t.Errorf("String: got %q, want %q", got, want)
	}
	exts := ron.ImplicitSome | ron.ExplicitStructNames
	if got, want := exts.String(), "implicit_some,explicit_struct_names"; got != want {
		t.Errorf("String: got %q, want %q", got, want)
	}
}
