// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package ron

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
)

// defaultDepthLimit is the nesting depth permitted when the caller does not
// configure a limit explicitly.
const defaultDepthLimit = 128

// A Decoder reads a single RON document from an input source and delivers its
// contents to a typed consumer.  The consumer drives the decoder by calling
// the method matching the kind of value it expects next; the decoder inspects
// the input to satisfy the request, applying the coercions of any enabled
// extensions.  Each method call consumes exactly one value of the document.
//
// The same input text may decode differently depending on the sequence of
// expectations, so the consumer must route every value position through the
// method for its expected kind.  After the document value has been consumed,
// call End to verify that no input remains.
type Decoder struct {
	sc       *Scanner
	defaults Extensions
	exts     Extensions
	limit    int
	depth    int
	err      error
	warnings []string

	have           bool // a scanned token is buffered and unconsumed
	ready          bool // deferred initialization has completed
	headersDone    bool // the attribute headers have been consumed
	atTop          bool // positioned at the top-level document value
	newtypeVariant bool // the enclosing newtype variant body unwraps
}

// NewDecoder constructs a decoder that consumes input from r.  The contents
// of r are read fully before decoding begins; a read failure is reported by
// the first decoding call.
func NewDecoder(r io.Reader) *Decoder { return &Decoder{sc: NewScanner(r)} }

// NewDecoderBytes constructs a decoder for the given input.  The decoder
// retains data, and the caller must not modify its contents during decoding.
func NewDecoderBytes(data []byte) *Decoder { return &Decoder{sc: NewScannerBytes(data)} }

// SetExtensions sets the extensions enabled by default for the document.  The
// active set is the union of exts with the extensions declared by the
// document header.  SetExtensions must be called before decoding begins.
func (d *Decoder) SetExtensions(exts Extensions) { d.defaults = exts }

// SetDepthLimit sets the maximum nesting depth the decoder will accept.
// Documents nested more deeply report an error rather than recursing further.
// If not set, a default limit applies.  SetDepthLimit must be called before
// decoding begins.
func (d *Decoder) SetDepthLimit(n int) { d.limit = n }

// Extensions reports the extension set active for the document, the union of
// the configured defaults with those declared by the document header.
func (d *Decoder) Extensions() Extensions { d.init(); return d.exts }

// Warnings reports diagnostic messages accumulated while decoding, such as
// the use of a deprecated extension.  The result is nil if there are none.
func (d *Decoder) Warnings() []string { d.init(); return d.warnings }

// init consumes the attribute headers and freezes the extension set.  It is
// deferred to the first decoding call so that configuration may follow
// construction.  Initialization errors are sticky.
func (d *Decoder) init() error {
	if d.ready {
		return d.err
	}
	d.ready = true
	if d.limit <= 0 {
		d.limit = defaultDepthLimit
	}
	d.exts = d.defaults
	for {
		tok, err := d.peekToken()
		if err != nil {
			d.err = err
			return err
		}
		if tok != AttrIntro {
			break
		}
		d.take()
		if err := d.parseAttr(); err != nil {
			d.err = err
			return err
		}
	}
	d.headersDone = true
	if d.exts.Has(DeprecatedBase64ByteString) {
		d.warnings = append(d.warnings,
			"extension deprecated_base64_byte_string is deprecated, use a byte string literal instead")
	}
	d.atTop = true
	return nil
}

// parseAttr parses one attribute of the form [enable(name, ...)] whose "#!"
// introducer has already been consumed.
func (d *Decoder) parseAttr() error {
	if err := d.expect(LSquare); err != nil {
		return err
	}
	tok, err := d.peek()
	if err != nil {
		return err
	} else if tok != Ident || string(d.sc.IdentName()) != "enable" {
		return d.sc.failValue(KindSyntax, "expected enable in attribute")
	}
	d.take()
	if err := d.expect(LParen); err != nil {
		return err
	}
	for {
		tok, err := d.peek()
		if err != nil {
			return err
		}
		if tok == RParen {
			d.take()
			break
		}
		if tok != Ident {
			return d.sc.failValue(KindSyntax, "expected extension name, found %v", tok)
		}
		name := string(d.sc.IdentName())
		ext, ok := ExtensionByName(name)
		if !ok {
			if name == "enum_repr" {
				return d.sc.failValue(KindUnknownExtension, "extension enum_repr is not supported")
			}
			return d.sc.failValue(KindUnknownExtension, "unknown extension %q", name)
		}
		d.take()
		d.exts |= ext

		tok, err = d.peek()
		if err != nil {
			return err
		}
		switch tok {
		case Comma:
			d.take()
		case RParen:
			// closed on the next pass
		default:
			return d.sc.failValue(KindSyntax, `expected "," or ")", found %v`, tok)
		}
	}
	return d.expect(RSquare)
}

// Bool decodes a boolean value.
func (d *Decoder) Bool() (bool, error) {
	if _, _, err := d.begin(); err != nil {
		return false, err
	}
	tok, err := d.peek()
	if err != nil {
		return false, err
	}
	if tok == Ident {
		switch string(d.sc.Text()) {
		case "true":
			d.take()
			return true, nil
		case "false":
			d.take()
			return false, nil
		}
	}
	return false, d.sc.failValue(KindTypeMismatch, "expected bool, found %v", tok)
}

// Int decodes a signed integer of the given width in bits (8, 16, 32, or 64).
func (d *Decoder) Int(bits int) (int64, error) {
	if _, _, err := d.begin(); err != nil {
		return 0, err
	}
	tok, err := d.peek()
	if err != nil {
		return 0, err
	}
	if tok != Integer {
		return 0, d.sc.failValue(KindTypeMismatch, "expected integer, found %v", tok)
	}
	v, err := d.sc.Int64()
	if err != nil {
		return 0, err
	}
	if bits < 64 {
		lo, hi := int64(-1)<<(bits-1), int64(1)<<(bits-1)-1
		if v < lo || v > hi {
			return 0, d.sc.failValue(KindNumberOutOfRange, "%d does not fit in int%d", v, bits)
		}
	}
	d.take()
	return v, nil
}

// Uint decodes an unsigned integer of the given width in bits (8, 16, 32, or
// 64).
func (d *Decoder) Uint(bits int) (uint64, error) {
	if _, _, err := d.begin(); err != nil {
		return 0, err
	}
	tok, err := d.peek()
	if err != nil {
		return 0, err
	}
	if tok != Integer {
		return 0, d.sc.failValue(KindTypeMismatch, "expected integer, found %v", tok)
	}
	v, err := d.sc.Uint64()
	if err != nil {
		return 0, err
	}
	if bits < 64 && v > uint64(1)<<bits-1 {
		return 0, d.sc.failValue(KindNumberOutOfRange, "%d does not fit in uint%d", v, bits)
	}
	d.take()
	return v, nil
}

// Float decodes a floating-point value of the given width in bits (32 or 64),
// including the literals inf, -inf, and NaN.  Integer literals are accepted
// and converted to the nearest representable value.
func (d *Decoder) Float(bits int) (float64, error) {
	if _, _, err := d.begin(); err != nil {
		return 0, err
	}
	tok, err := d.peek()
	if err != nil {
		return 0, err
	}
	if tok == Ident {
		switch string(d.sc.Text()) {
		case "inf":
			d.take()
			return math.Inf(1), nil
		case "NaN":
			d.take()
			return math.NaN(), nil
		}
		return 0, d.sc.failValue(KindTypeMismatch, "expected float, found %v", tok)
	}
	if tok != Float && tok != Integer {
		return 0, d.sc.failValue(KindTypeMismatch, "expected float, found %v", tok)
	}
	v, err := d.sc.Float64()
	if err != nil {
		return 0, err
	}
	if bits == 32 && !math.IsInf(v, 0) && !math.IsNaN(v) {
		if w := float64(float32(v)); math.IsInf(w, 0) {
			return 0, d.sc.failValue(KindNumberOutOfRange, "%s overflows float32", d.sc.Text())
		} else if v != 0 && w == 0 {
			return 0, d.sc.failValue(KindFloatUnderflow, "%s underflows float32", d.sc.Text())
		}
	}
	d.take()
	return v, nil
}

// Rune decodes a character literal as a single Unicode scalar value.
func (d *Decoder) Rune() (rune, error) {
	if _, _, err := d.begin(); err != nil {
		return 0, err
	}
	tok, err := d.peek()
	if err != nil {
		return 0, err
	}
	if tok != Char {
		return 0, d.sc.failValue(KindTypeMismatch, "expected char, found %v", tok)
	}
	r, err := d.sc.Rune()
	if err != nil {
		return 0, err
	}
	d.take()
	return r, nil
}

// String decodes a string or raw string value.
func (d *Decoder) String() (string, error) {
	if _, _, err := d.begin(); err != nil {
		return "", err
	}
	tok, err := d.peek()
	if err != nil {
		return "", err
	}
	if tok != String && tok != RawString {
		return "", d.sc.failValue(KindTypeMismatch, "expected string, found %v", tok)
	}
	text, err := d.sc.Unescape()
	if err != nil {
		return "", err
	}
	d.take()
	return string(text), nil
}

// Bytes decodes a byte string or raw byte string value.  When the
// deprecated_base64_byte_string extension is enabled, a plain string is also
// accepted and its content decoded as standard base64.
func (d *Decoder) Bytes() ([]byte, error) {
	if _, _, err := d.begin(); err != nil {
		return nil, err
	}
	tok, err := d.peek()
	if err != nil {
		return nil, err
	}
	switch tok {
	case ByteString, RawByteString:
		dec, err := d.sc.Unescape()
		if err != nil {
			return nil, err
		}
		d.take()
		return dec, nil

	case String, RawString:
		if !d.exts.Has(DeprecatedBase64ByteString) {
			break
		}
		text, err := d.sc.Unescape()
		if err != nil {
			return nil, err
		}
		dec, err := base64.StdEncoding.AppendDecode(nil, text)
		if err != nil {
			return nil, d.sc.failValue(KindBase64, "invalid base64: %v", err)
		}
		d.take()
		return dec, nil
	}
	return nil, d.sc.failValue(KindTypeMismatch, "expected byte string, found %v", tok)
}

// Option decodes an optional value.  If the option is present (Some), Option
// calls f to decode the enclosed value and reports true; for None it reports
// false without calling f.  When the implicit_some extension is enabled, any
// value that is not literally Some or None decodes as present, so nested
// options wrap a bare value in as many layers of Some as the target demands.
func (d *Decoder) Option(f func(*Decoder) error) (bool, error) {
	if _, _, err := d.begin(); err != nil {
		return false, err
	}
	tok, err := d.peek()
	if err != nil {
		return false, err
	}
	if tok == Ident {
		switch string(d.sc.Text()) {
		case "None":
			d.take()
			return false, nil
		case "Some":
			d.take()
			if err := d.expect(LParen); err != nil {
				return false, err
			}
			if err := d.push(); err != nil {
				return false, err
			}
			if err := f(d); err != nil {
				return false, err
			}
			if tok, err := d.peekToken(); err != nil {
				return false, err
			} else if tok == Comma {
				d.take()
			}
			if err := d.expect(RParen); err != nil {
				return false, err
			}
			d.pop()
			return true, nil
		}
	}
	if d.exts.Has(ImplicitSome) {
		return true, f(d)
	}
	return false, d.sc.failValue(KindTypeMismatch, "expected Some or None, found %v", tok)
}

// Unit decodes the unit value "()".
func (d *Decoder) Unit() error {
	_, nv, err := d.begin()
	if err != nil {
		return err
	}
	if nv {
		return nil // the unwrapped body of a unit is empty
	}
	tok, err := d.peek()
	if err != nil {
		return err
	}
	if tok != LParen {
		return d.sc.failValue(KindTypeMismatch, "expected unit, found %v", tok)
	}
	d.take()
	return d.expect(RParen)
}

// UnitStruct decodes a unit struct, written either as its bare name or as
// "()".  The name form must match name.  When the explicit_struct_names
// extension is enabled the name form is required.
func (d *Decoder) UnitStruct(name string) error {
	_, nv, err := d.begin()
	if err != nil {
		return err
	}
	if nv {
		return nil
	}
	tok, err := d.peek()
	if err != nil {
		return err
	}
	switch tok {
	case Ident:
		if got := string(d.sc.IdentName()); got != name {
			return d.sc.failValue(KindWrongStructName, "expected struct name %q, found %q", name, got)
		}
		d.take()
		return nil
	case LParen:
		if d.exts.Has(ExplicitStructNames) {
			return d.sc.failValue(KindExpectedStructName, "expected struct name %q", name)
		}
		d.take()
		return d.expect(RParen)
	}
	return d.sc.failValue(KindTypeMismatch, "expected unit struct, found %v", tok)
}

// Newtype decodes a newtype struct, a single-element tuple struct wrapping
// the value decoded by f.  When the unwrap_newtypes extension is enabled the
// wrapper may be omitted in the input, and the bare inner value is accepted
// wherever the wrapped form is expected.
func (d *Decoder) Newtype(name string, f func(*Decoder) error) error {
	_, nv, err := d.begin()
	if err != nil {
		return err
	}
	if nv {
		d.newtypeVariant = true // the enclosed value inherits the variant body
		return f(d)
	}
	tok, err := d.peek()
	if err != nil {
		return err
	}
	unwrap := d.exts.Has(UnwrapNewtypes)
	switch tok {
	case Ident:
		got := string(d.sc.IdentName())
		if got == name || !unwrap {
			if d.exts.Has(ExplicitStructNames) && got != name {
				return d.sc.failValue(KindWrongStructName, "expected struct name %q, found %q", name, got)
			}
			d.take()
			return d.newtypeBody(f)
		}
		// An identifier other than the wrapper name begins the inner value.
		return f(d)

	case LParen:
		if d.exts.Has(ExplicitStructNames) {
			return d.sc.failValue(KindExpectedStructName, "expected struct name %q", name)
		}
		if !unwrap {
			return d.newtypeBody(f)
		}

		// With unwrapping enabled a parenthesis may open either the wrapper
		// or the bare inner value.  Try the wrapper first, and rewind to
		// decode the inner value directly if that fails.
		st := d.save()
		werr := d.newtypeBody(f)
		if werr == nil {
			return nil
		}
		d.restore(st)
		if err := f(d); err == nil {
			return nil
		}
		return werr
	}
	if unwrap {
		return f(d)
	}
	return d.sc.failValue(KindTypeMismatch, "expected newtype struct %q, found %v", name, tok)
}

// newtypeBody decodes the parenthesised payload of a newtype wrapper whose
// name, if any, has already been consumed.
func (d *Decoder) newtypeBody(f func(*Decoder) error) error {
	if err := d.expect(LParen); err != nil {
		return err
	}
	if err := d.push(); err != nil {
		return err
	}
	if err := f(d); err != nil {
		return err
	}
	if tok, err := d.peekToken(); err != nil {
		return err
	} else if tok == Comma {
		d.take()
	}
	if err := d.expect(RParen); err != nil {
		return err
	}
	d.pop()
	return nil
}

// Struct decodes a struct with the given type name and field names.  The body
// is a parenthesised list of "field: value" pairs; for each field present in
// the input, Struct calls f with the field name to decode its value.  Fields
// may appear in any order.  Unknown and duplicated fields are reported as
// errors; absent fields are not, and the caller is responsible for fields it
// requires.
//
// The name before the body is optional unless the explicit_struct_names
// extension is enabled, which requires it to be present and equal to name.
// When the implicit_outmost_struct extension is enabled, the top-level value
// of the document may be a bare field list without enclosing parentheses.
func (d *Decoder) Struct(name string, fields []string, f func(*Decoder, string) error) error {
	top, nv, err := d.begin()
	if err != nil {
		return err
	}
	if nv {
		return d.structFields(fields, f, RParen, false)
	}
	if top && d.exts.Has(ImplicitOutmostStruct) {
		bare, err := d.bareTopStruct()
		if err != nil {
			return err
		}
		if bare {
			return d.structFields(fields, f, Invalid, false)
		}
	}
	tok, err := d.peek()
	if err != nil {
		return err
	}
	switch tok {
	case Ident:
		if got := string(d.sc.IdentName()); d.exts.Has(ExplicitStructNames) && got != name {
			return d.sc.failValue(KindWrongStructName, "expected struct name %q, found %q", name, got)
		}
		d.take()
		if err := d.expect(LParen); err != nil {
			return err
		}
	case LParen:
		if d.exts.Has(ExplicitStructNames) {
			return d.sc.failValue(KindExpectedStructName, "expected struct name %q", name)
		}
		d.take()
	default:
		return d.sc.failValue(KindTypeMismatch, "expected struct, found %v", tok)
	}
	if err := d.push(); err != nil {
		return err
	}
	if err := d.structFields(fields, f, RParen, true); err != nil {
		return err
	}
	d.pop()
	return nil
}

// bareTopStruct reports whether the document value is a struct body with the
// outer parentheses omitted, as permitted by implicit_outmost_struct.
func (d *Decoder) bareTopStruct() (bool, error) {
	tok, err := d.peekToken()
	if err != nil {
		return false, err
	}
	switch tok {
	case Invalid:
		return true, nil // an empty document is an empty body
	case Ident:
		st := d.save()
		defer d.restore(st)
		d.take()
		next, err := d.peekToken()
		if err != nil {
			return false, err
		}
		return next == Colon, nil
	}
	return false, nil
}

// structFields decodes the fields of a struct body up to the term token,
// consuming the terminator only when consume is true.  An Invalid term means
// the body extends to the end of the input.
func (d *Decoder) structFields(fields []string, f func(*Decoder, string) error, term Token, consume bool) error {
	seen := make(map[string]bool, len(fields))
	for {
		tok, err := d.peekToken()
		if err != nil {
			return err
		}
		if tok == term {
			if consume {
				d.take()
			}
			return nil
		}
		if tok == Invalid {
			return d.eofErr()
		}
		if tok != Ident {
			return d.sc.failValue(KindSyntax, "expected field name, found %v", tok)
		}
		name := string(d.sc.IdentName())
		if !slices.Contains(fields, name) {
			return d.sc.failValue(KindUnknownField, "unknown field %q", name)
		}
		if seen[name] {
			return d.sc.failValue(KindDuplicateField, "duplicate field %q", name)
		}
		seen[name] = true
		d.take()
		if err := d.expect(Colon); err != nil {
			return err
		}
		if err := f(d, name); err != nil {
			return err
		}

		tok, err = d.peekToken()
		if err != nil {
			return err
		}
		switch tok {
		case Comma:
			d.take()
		case term:
			// closed on the next pass
		case Invalid:
			return d.eofErr()
		default:
			return d.sc.failValue(KindSyntax, `expected "," or end of struct, found %v`, tok)
		}
	}
}

// Tuple decodes a tuple of n elements, calling f with each element index in
// order.
func (d *Decoder) Tuple(n int, f func(*Decoder, int) error) error {
	_, nv, err := d.begin()
	if err != nil {
		return err
	}
	if !nv {
		tok, err := d.peek()
		if err != nil {
			return err
		}
		if tok != LParen {
			return d.sc.failValue(KindTypeMismatch, "expected tuple, found %v", tok)
		}
		d.take()
		if err := d.push(); err != nil {
			return err
		}
	}
	if err := d.tupleElems(n, f); err != nil {
		return err
	}
	if nv {
		return nil // the terminator belongs to the enclosing variant
	}
	if n > 0 {
		if tok, err := d.peekToken(); err != nil {
			return err
		} else if tok == Comma {
			d.take()
		}
	}
	if err := d.expect(RParen); err != nil {
		return err
	}
	d.pop()
	return nil
}

// TupleStruct decodes a tuple struct with the given type name and n
// positional elements.  Name handling follows the same rules as Struct.
func (d *Decoder) TupleStruct(name string, n int, f func(*Decoder, int) error) error {
	_, nv, err := d.begin()
	if err != nil {
		return err
	}
	if nv {
		return d.tupleElems(n, f)
	}
	tok, err := d.peek()
	if err != nil {
		return err
	}
	switch tok {
	case Ident:
		if got := string(d.sc.IdentName()); d.exts.Has(ExplicitStructNames) && got != name {
			return d.sc.failValue(KindWrongStructName, "expected struct name %q, found %q", name, got)
		}
		d.take()
		if err := d.expect(LParen); err != nil {
			return err
		}
	case LParen:
		if d.exts.Has(ExplicitStructNames) {
			return d.sc.failValue(KindExpectedStructName, "expected struct name %q", name)
		}
		d.take()
	default:
		return d.sc.failValue(KindTypeMismatch, "expected tuple struct, found %v", tok)
	}
	if err := d.push(); err != nil {
		return err
	}
	if err := d.tupleElems(n, f); err != nil {
		return err
	}
	if n > 0 {
		if tok, err := d.peekToken(); err != nil {
			return err
		} else if tok == Comma {
			d.take()
		}
	}
	if err := d.expect(RParen); err != nil {
		return err
	}
	d.pop()
	return nil
}

func (d *Decoder) tupleElems(n int, f func(*Decoder, int) error) error {
	for i := range n {
		if i > 0 {
			if err := d.expect(Comma); err != nil {
				return err
			}
		}
		if err := f(d, i); err != nil {
			return err
		}
	}
	return nil
}

// Seq decodes a list, calling f once per element in order.
func (d *Decoder) Seq(f func(*Decoder) error) error {
	if _, _, err := d.begin(); err != nil {
		return err
	}
	tok, err := d.peek()
	if err != nil {
		return err
	}
	if tok != LSquare {
		return d.sc.failValue(KindTypeMismatch, "expected list, found %v", tok)
	}
	d.take()
	if err := d.push(); err != nil {
		return err
	}
	for {
		tok, err := d.peek()
		if err != nil {
			return err
		}
		if tok == RSquare {
			d.take()
			break
		}
		if err := f(d); err != nil {
			return err
		}

		tok, err = d.peek()
		if err != nil {
			return err
		}
		switch tok {
		case Comma:
			d.take()
		case RSquare:
			// closed on the next pass
		default:
			return d.sc.failValue(KindSyntax, `expected "," or "]", found %v`, tok)
		}
	}
	d.pop()
	return nil
}

// Map decodes a map, calling key then value alternately for each entry in
// order of appearance.  Detection of duplicate keys is the concern of the
// caller, since only it can compare decoded keys.
func (d *Decoder) Map(key, value func(*Decoder) error) error {
	if _, _, err := d.begin(); err != nil {
		return err
	}
	tok, err := d.peek()
	if err != nil {
		return err
	}
	if tok != LBrace {
		return d.sc.failValue(KindTypeMismatch, "expected map, found %v", tok)
	}
	d.take()
	if err := d.push(); err != nil {
		return err
	}
	for {
		tok, err := d.peek()
		if err != nil {
			return err
		}
		if tok == RBrace {
			d.take()
			break
		}
		if err := key(d); err != nil {
			return err
		}
		if err := d.expect(Colon); err != nil {
			return err
		}
		if err := value(d); err != nil {
			return err
		}

		tok, err = d.peek()
		if err != nil {
			return err
		}
		switch tok {
		case Comma:
			d.take()
		case RBrace:
			// closed on the next pass
		default:
			return d.sc.failValue(KindSyntax, `expected "," or "}", found %v`, tok)
		}
	}
	d.pop()
	return nil
}

// Enum decodes the variant name of an enum value and reports which of the
// declared variants it denotes.  The caller then invokes the variant method
// matching the shape of the named variant (UnitVariant, NewtypeVariant,
// TupleVariant, or StructVariant) to decode the payload.
func (d *Decoder) Enum(name string, variants []string) (string, error) {
	if _, _, err := d.begin(); err != nil {
		return "", err
	}
	tok, err := d.peek()
	if err != nil {
		return "", err
	}
	if tok != Ident {
		return "", d.sc.failValue(KindTypeMismatch, "expected enum %s, found %v", name, tok)
	}
	v := string(d.sc.IdentName())
	if !slices.Contains(variants, v) {
		return "", d.sc.failValue(KindUnknownVariant, "unknown variant %q, expected one of %s", v, quoteList(variants))
	}
	d.take()
	return v, nil
}

// UnitVariant completes the decoding of a unit enum variant.
func (d *Decoder) UnitVariant() error {
	tok, err := d.peekToken()
	if err != nil {
		return err
	}
	if tok == LParen {
		return d.sc.failValue(KindTypeMismatch, "unit variant does not take a value")
	}
	return nil
}

// NewtypeVariant decodes the payload of a newtype enum variant, calling f to
// decode the wrapped value.  When the unwrap_variant_newtypes extension is
// enabled the wrapper layer must be omitted in the input, and the body of the
// variant is decoded directly as the content of the wrapped value; writing
// the wrapper explicitly is then an error.
func (d *Decoder) NewtypeVariant(f func(*Decoder) error) error {
	if err := d.expect(LParen); err != nil {
		return err
	}
	if err := d.push(); err != nil {
		return err
	}
	if d.exts.Has(UnwrapVariantNewtypes) {
		d.newtypeVariant = true
	}
	err := f(d)
	d.newtypeVariant = false
	if err != nil {
		return err
	}
	if tok, err := d.peekToken(); err != nil {
		return err
	} else if tok == Comma {
		d.take()
	}
	if err := d.expect(RParen); err != nil {
		return err
	}
	d.pop()
	return nil
}

// TupleVariant decodes the payload of a tuple enum variant with n elements.
func (d *Decoder) TupleVariant(n int, f func(*Decoder, int) error) error {
	if err := d.expect(LParen); err != nil {
		return err
	}
	if err := d.push(); err != nil {
		return err
	}
	if err := d.tupleElems(n, f); err != nil {
		return err
	}
	if n > 0 {
		if tok, err := d.peekToken(); err != nil {
			return err
		} else if tok == Comma {
			d.take()
		}
	}
	if err := d.expect(RParen); err != nil {
		return err
	}
	d.pop()
	return nil
}

// StructVariant decodes the payload of a struct enum variant with the given
// field names.
func (d *Decoder) StructVariant(fields []string, f func(*Decoder, string) error) error {
	if err := d.expect(LParen); err != nil {
		return err
	}
	if err := d.push(); err != nil {
		return err
	}
	if err := d.structFields(fields, f, RParen, true); err != nil {
		return err
	}
	d.pop()
	return nil
}

// End verifies that the whole input has been consumed, apart from trailing
// whitespace and comments.  It reports an error if any value tokens remain.
func (d *Decoder) End() error {
	if err := d.init(); err != nil {
		return err
	}
	tok, err := d.peekToken()
	if err != nil {
		return err
	}
	if tok == Invalid {
		return nil
	}
	return d.sc.failValue(KindTrailingCharacters, "unexpected %v after the document value", tok)
}

// begin completes deferred initialization and captures the pending coercion
// state for the value about to be decoded: whether the decoder is positioned
// at the top-level document value, and whether the value is the unwrapped
// body of a newtype variant.  Both flags are cleared.
func (d *Decoder) begin() (top, nv bool, err error) {
	if err := d.init(); err != nil {
		return false, false, err
	}
	top, nv = d.atTop, d.newtypeVariant
	d.atTop, d.newtypeVariant = false, false
	return top, nv, nil
}

// peekToken buffers the next non-comment token of the input without consuming
// it.  At the end of the input it reports Invalid with no error.
func (d *Decoder) peekToken() (Token, error) {
	if !d.have {
		for {
			if err := d.sc.Next(); err != nil {
				if errors.Is(err, io.EOF) {
					return Invalid, nil
				}
				return Invalid, err
			}
			if !d.sc.Token().isComment() {
				break
			}
		}
		d.have = true
	}
	tok := d.sc.Token()
	if tok == AttrIntro && d.headersDone {
		return Invalid, d.sc.failValue(KindExtensionsAfterValue,
			"extension attributes must precede the document value")
	}
	return tok, nil
}

// peek reports the next token, or an error at the end of the input.
func (d *Decoder) peek() (Token, error) {
	tok, err := d.peekToken()
	if err != nil {
		return Invalid, err
	}
	if tok == Invalid {
		return Invalid, d.eofErr()
	}
	return tok, nil
}

// take consumes the buffered token.
func (d *Decoder) take() { d.have = false }

// expect consumes the next token, which must have the given type.
func (d *Decoder) expect(want Token) error {
	tok, err := d.peek()
	if err != nil {
		return err
	}
	if tok != want {
		return d.sc.failValue(KindSyntax, "expected %v, found %v", want, tok)
	}
	d.take()
	return nil
}

func (d *Decoder) eofErr() error {
	return &Error{
		Kind:     KindEOF,
		Location: LineCol{Line: d.sc.eline, Column: d.sc.ecol},
		Offset:   len(d.sc.src),
	}
}

// push records entry to a nested value, reporting an error if the configured
// depth limit is exceeded.  Each successful push is paired with a pop.
func (d *Decoder) push() error {
	d.depth++
	if d.depth > d.limit {
		return d.sc.failValue(KindDepthLimit, "nesting exceeds %d levels", d.limit)
	}
	return nil
}

func (d *Decoder) pop() { d.depth-- }

// decodeState captures the decoder position for bounded lookahead.
type decodeState struct {
	scan  scanState
	have  bool
	depth int
}

func (d *Decoder) save() decodeState { return decodeState{d.sc.save(), d.have, d.depth} }

func (d *Decoder) restore(st decodeState) {
	d.sc.restore(st.scan)
	d.have, d.depth = st.have, st.depth
}

func quoteList(names []string) string {
	var sb strings.Builder
	for i, name := range names {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q", name)
	}
	return sb.String()
}
