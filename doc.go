// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package ron implements parsing and serialization of Rusty Object Notation
// (RON), a readable text format for structured data.
//
// # Parsing
//
// The Unmarshal and Options.Unmarshal functions decode a document into a Go
// value using reflection, in the manner of encoding/json:
//
//	var cfg struct {
//	   Window  string `ron:"window"`
//	   Size    []int  `ron:"size"`
//	   Visible bool   `ron:"visible,omitempty"`
//	}
//	err := ron.Unmarshal(data, &cfg)
//
// Pointers decode options, slices decode lists, arrays decode tuples, and
// structs decode named-field bodies.  A struct encodes positionally when its
// first field is a blank struct{} tagged `ron:",tuple"`; with exactly one
// remaining field such a struct is a newtype wrapper.  Interface types
// registered with RegisterEnum decode enum variants by name.  A type may
// take over its own conversion by implementing Marshaler or Unmarshaler.
//
// For finer control, a Decoder exposes one method per value shape (Bool,
// Int, String, Struct, Enum, and so on), and reports the structure of a
// document without a target type through the Any method.  The value
// subpackage builds a generic tree over this interface.
//
// # Serialization
//
// Marshal encodes a Go value compactly; MarshalPretty applies a PrettyConfig
// controlling indentation, separators, struct names, and related layout
// choices.  The Encoder type provides the corresponding per-shape methods
// for types that construct documents directly.
//
// # Extensions
//
// A document may begin with attributes such as
//
//	#![enable(implicit_some)]
//
// that alter the meaning of the values that follow.  The supported
// extensions are declared as constants of the Extensions type.  Extensions
// may also be enabled in code, on a Decoder or Encoder directly or through
// Options.DefaultExtensions.
//
// # Errors
//
// Errors arising from a document are reported as *Error values carrying a
// Kind classifying the failure and, except for the DuplicateMapKey and
// MissingField errors of Go map and struct targets, the position of the first
// offending byte.  Use ErrorKind or errors.As to recover the classification.
package ron
