// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package ron

import (
	"errors"
	"fmt"
)

// Kind classifies the errors reported by the scanner, decoder, and encoder.
type Kind byte

// Constants defining the valid Kind values.
const (
	KindUnknown             Kind = iota // unclassified error
	KindIO                              // failure reading the underlying source
	KindSyntax                          // malformed token or structure
	KindEOF                             // premature end of input
	KindInvalidEscape                   // malformed escape sequence
	KindInvalidUnicode                  // escape does not denote a Unicode scalar
	KindUTF8                            // string content is not valid UTF-8
	KindBase64                          // invalid base64 in a deprecated byte string
	KindNumberOutOfRange                // numeric literal does not fit the target type
	KindFloatUnderflow                  // nonzero float literal rounds to zero
	KindTypeMismatch                    // input does not match the expected kind
	KindUnknownVariant                  // enum variant not in the declared list
	KindUnknownField                    // struct field not in the declared list
	KindMissingField                    // required struct field absent
	KindDuplicateField                  // struct field given more than once
	KindDuplicateMapKey                 // typed map key given more than once
	KindUnknownExtension                // extension name not recognized
	KindExtensionsAfterValue            // attribute header after the document value
	KindDepthLimit                      // nesting exceeds the configured depth limit
	KindExpectedStructName              // struct name required but absent
	KindWrongStructName                 // struct name does not match the expected name
	KindTrailingCharacters              // non-whitespace input after the document value
)

var kindStr = [...]string{
	KindUnknown:              "error",
	KindIO:                   "I/O error",
	KindSyntax:               "syntax error",
	KindEOF:                  "unexpected end of input",
	KindInvalidEscape:        "invalid escape",
	KindInvalidUnicode:       "invalid Unicode escape",
	KindUTF8:                 "invalid UTF-8",
	KindBase64:               "invalid base64",
	KindNumberOutOfRange:     "number out of range",
	KindFloatUnderflow:       "float underflow",
	KindTypeMismatch:         "type mismatch",
	KindUnknownVariant:       "unknown variant",
	KindUnknownField:         "unknown field",
	KindMissingField:         "missing field",
	KindDuplicateField:       "duplicate field",
	KindDuplicateMapKey:      "duplicate map key",
	KindUnknownExtension:     "unknown extension",
	KindExtensionsAfterValue: "extensions after value",
	KindDepthLimit:           "depth limit exceeded",
	KindExpectedStructName:   "expected struct name",
	KindWrongStructName:      "wrong struct name",
	KindTrailingCharacters:   "trailing characters",
}

func (k Kind) String() string {
	v := int(k)
	if v >= len(kindStr) {
		return kindStr[KindUnknown]
	}
	return kindStr[v]
}

// Error is the concrete type of errors reported by this package.  Every error
// carries the classification of the failure.  Errors found while reading the
// source also carry the location of the first offending byte; the
// DuplicateMapKey and MissingField errors reported when decoding into Go maps
// and structs carry no source position.
type Error struct {
	Kind     Kind
	Location LineCol
	Offset   int // byte offset of the first offending byte, 0-based
	Message  string

	err error
}

// Error satisfies the error interface.  Errors from an encoder have no
// source position and omit the location prefix.
func (e *Error) Error() string {
	s := e.Kind.String()
	if e.Location != (LineCol{}) {
		s = fmt.Sprintf("at %s: %s", e.Location, s)
	}
	if e.Message == "" {
		return s
	}
	return s + ": " + e.Message
}

// Unwrap supports error wrapping.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target matches e.  A *Error target matches when its Kind
// is equal, so errors.Is(err, &ron.Error{Kind: ron.KindSyntax}) tests the
// classification without regard to position.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// ErrorKind reports the classification of err, or KindUnknown if err is not an
// error produced by this package.
func ErrorKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
