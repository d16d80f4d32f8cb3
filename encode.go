// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package ron

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/creachadair/ron/internal/escape"
)

// A PrettyConfig controls the layout of output produced by an Encoder.  The
// zero value is not useful; start from DefaultPretty and adjust the fields of
// interest.  An Encoder with no pretty configuration produces compact output
// with no whitespace between the tokens of a value; an extension header is
// still written with a space after each comma and a line break after it.
type PrettyConfig struct {
	// DepthLimit is the maximum permitted nesting depth of the output.  If
	// zero, a default limit is used.
	DepthLimit int

	// NewLine is the line terminator.  If empty, "\n" is used.
	NewLine string

	// Indentor is prepended once per nesting level at the start of each line.
	// If empty, four spaces are used.
	Indentor string

	// Separator is written after each comma and colon in compact bodies, and
	// after each colon in expanded bodies.
	Separator string

	// StructNames instructs the reflective encoder to prefix struct bodies
	// with the name of the Go type.
	StructNames bool

	// EnumerateArrays prefixes each element of an expanded array with a
	// comment recording its index.
	EnumerateArrays bool

	// Extensions are enabled in addition to those set on the encoder, and are
	// reflected in the document header.
	Extensions Extensions

	// CompactArrays writes arrays on a single line.
	CompactArrays bool

	// CompactMaps writes maps on a single line.
	CompactMaps bool

	// CompactStructs writes structs and tuples on a single line.
	CompactStructs bool

	// EscapeStrings escapes characters outside the printable ASCII range in
	// strings and characters.  When false, such characters are written as
	// UTF-8.  Control characters and delimiters are escaped regardless.
	EscapeStrings bool

	// NumberSuffix appends ".0" to floating-point values that would otherwise
	// be written without a decimal point or exponent, so that they parse back
	// as floats.
	NumberSuffix bool
}

// DefaultPretty returns a new PrettyConfig with the default settings: lines
// terminated by "\n", four-space indentation, a single space separator, all
// bodies expanded, strings escaped, and floats suffixed.
func DefaultPretty() *PrettyConfig {
	return &PrettyConfig{
		NewLine:       "\n",
		Indentor:      "    ",
		Separator:     " ",
		EscapeStrings: true,
		NumberSuffix:  true,
	}
}

// An Encoder writes a single RON document to an underlying writer.  The
// methods of the encoder correspond to the value shapes of the format; the
// caller invokes one method per value, and within a body callback one method
// per element of the body.
//
// The first error encountered is sticky: subsequent method calls do nothing
// and report the same error.
type Encoder struct {
	w    io.Writer
	cfg  *PrettyConfig
	exts Extensions
	err  error

	limit      int
	frames     []encFrame
	headerDone bool
	nv         bool // a variant body is pending unwrap
	buf        []byte
}

// An encFrame records the state of one open body in the output.
type encFrame struct {
	close    byte // closing delimiter
	n        int  // number of elements written
	indent   int  // nesting level inside the body
	assoc    bool // alternate keys and values, ":" before odd positions
	expanded bool // one element per line
	wrapper  bool // exactly one element, no separators
	list     bool // an array body, for index comments
}

// NewEncoder constructs an encoder that writes output to w, with compact
// layout and no extensions.
func NewEncoder(w io.Writer) *Encoder { return &Encoder{w: w} }

// SetPretty sets the layout configuration for e, and enables any extensions
// the configuration carries.  It must be called before any value is written.
// A nil cfg restores the compact layout.
func (e *Encoder) SetPretty(cfg *PrettyConfig) {
	if cfg == nil {
		e.cfg = nil
		return
	}
	c := *cfg
	if c.NewLine == "" {
		c.NewLine = "\n"
	}
	if c.Indentor == "" {
		c.Indentor = "    "
	}
	e.cfg = &c
	e.exts |= c.Extensions
}

// SetExtensions enables the specified extensions on e, in addition to any
// already enabled.  It must be called before any value is written.  The
// enabled extensions are recorded in an attribute at the head of the output.
func (e *Encoder) SetExtensions(exts Extensions) { e.exts |= exts }

// SetDepthLimit sets the maximum permitted nesting depth of the output to n.
// If n <= 0, the limit from the layout configuration applies, or failing
// that a default.
func (e *Encoder) SetDepthLimit(n int) { e.limit = n }

// Extensions reports the set of extensions enabled on e.
func (e *Encoder) Extensions() Extensions { return e.exts }

// StructNames reports whether the encoder has been asked to include struct
// names, either by its layout configuration or by the explicit_struct_names
// extension.
func (e *Encoder) StructNames() bool {
	return (e.cfg != nil && e.cfg.StructNames) || e.exts.Has(ExplicitStructNames)
}

// Err reports the first error that occurred during encoding, or nil.
func (e *Encoder) Err() error { return e.err }

// Bool writes a Boolean value.
func (e *Encoder) Bool(v bool) error {
	e.takeNV()
	if err := e.pre(); err != nil {
		return err
	}
	if v {
		return e.ws("true")
	}
	return e.ws("false")
}

// Int writes a signed integer value.
func (e *Encoder) Int(v int64) error {
	e.takeNV()
	if err := e.pre(); err != nil {
		return err
	}
	return e.ws(strconv.FormatInt(v, 10))
}

// Uint writes an unsigned integer value.
func (e *Encoder) Uint(v uint64) error {
	e.takeNV()
	if err := e.pre(); err != nil {
		return err
	}
	return e.ws(strconv.FormatUint(v, 10))
}

// Float writes a floating-point value with the specified bit width, which
// must be 32 or 64.  Infinities and NaN are written as the keywords inf,
// -inf, and NaN.
func (e *Encoder) Float(v float64, bits int) error {
	e.takeNV()
	if err := e.pre(); err != nil {
		return err
	}
	switch {
	case math.IsInf(v, 1):
		return e.ws("inf")
	case math.IsInf(v, -1):
		return e.ws("-inf")
	case math.IsNaN(v):
		return e.ws("NaN")
	}
	s := strconv.FormatFloat(v, 'g', -1, bits)
	if e.floatSuffix() && !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return e.ws(s)
}

// Rune writes a character value.
func (e *Encoder) Rune(r rune) error {
	e.takeNV()
	if err := e.pre(); err != nil {
		return err
	}
	e.buf = append(e.buf[:0], '\'')
	e.buf = escape.AppendChar(e.buf, r, e.escapeAll())
	e.buf = append(e.buf, '\'')
	return e.wb(e.buf)
}

// String writes a string value.
func (e *Encoder) String(s string) error {
	e.takeNV()
	if err := e.pre(); err != nil {
		return err
	}
	e.buf = append(e.buf[:0], '"')
	e.buf = escape.AppendString(e.buf, s, e.escapeAll())
	e.buf = append(e.buf, '"')
	return e.wb(e.buf)
}

// Bytes writes a byte string value.
func (e *Encoder) Bytes(b []byte) error {
	e.takeNV()
	if err := e.pre(); err != nil {
		return err
	}
	e.buf = append(e.buf[:0], 'b', '"')
	e.buf = escape.AppendBytes(e.buf, b, e.escapeAll())
	e.buf = append(e.buf, '"')
	return e.wb(e.buf)
}

// None writes an absent option.
func (e *Encoder) None() error {
	e.takeNV()
	if err := e.pre(); err != nil {
		return err
	}
	return e.ws("None")
}

// Some writes a present option whose enclosed value is written by f.
func (e *Encoder) Some(f func(*Encoder) error) error {
	e.takeNV()
	if err := e.pre(); err != nil {
		return err
	}
	if err := e.pushWrapper(); err != nil {
		return err
	}
	e.ws("Some(")
	if err := e.run(f); err != nil {
		return err
	}
	return e.popFrame()
}

// Unit writes the unit value "()".  Inside an unwrapped variant body it
// writes nothing, leaving the variant's own parentheses empty.
func (e *Encoder) Unit() error {
	if e.takeNV() {
		return e.err
	}
	if err := e.pre(); err != nil {
		return err
	}
	return e.ws("()")
}

// UnitStruct writes a unit struct.  If name is empty the struct is written as
// the unit value; otherwise it is written as a bare identifier.
func (e *Encoder) UnitStruct(name string) error {
	if e.takeNV() {
		return e.err
	}
	if err := e.pre(); err != nil {
		return err
	}
	if name == "" {
		return e.ws("()")
	}
	return e.ws(name)
}

// Newtype writes a newtype struct whose enclosed value is written by f.  If
// name is empty the wrapper is anonymous.  Inside an unwrapped variant body
// the wrapper is elided and the enclosed value written directly.
func (e *Encoder) Newtype(name string, f func(*Encoder) error) error {
	if e.takeNV() {
		e.nv = true // the enclosed value inherits the pending body
		return e.run(f)
	}
	if err := e.pre(); err != nil {
		return err
	}
	if err := e.pushWrapper(); err != nil {
		return err
	}
	e.ws(name)
	e.ws("(")
	if err := e.run(f); err != nil {
		return err
	}
	return e.popFrame()
}

// Tuple writes an anonymous tuple whose elements are written by f.
func (e *Encoder) Tuple(f func(*Encoder) error) error { return e.TupleStruct("", f) }

// TupleStruct writes a tuple struct with the given name, which may be empty,
// whose elements are written by f.  Inside an unwrapped variant body the name
// and parentheses are elided and the elements are written into the variant's
// own body.
func (e *Encoder) TupleStruct(name string, f func(*Encoder) error) error {
	if e.takeNV() {
		e.adoptFrame(false)
		return e.run(f)
	}
	if err := e.pre(); err != nil {
		return err
	}
	if err := e.pushFrame(')', false, e.bodyExpanded(), false); err != nil {
		return err
	}
	e.ws(name)
	e.ws("(")
	if err := e.run(f); err != nil {
		return err
	}
	return e.popFrame()
}

// Struct writes a struct with the given name, which may be empty, whose
// fields are written by f.  Within f, each field is written by a call to
// Field with the field name followed by one value.  Inside an unwrapped
// variant body the name and parentheses are elided and the fields are written
// into the variant's own body.
func (e *Encoder) Struct(name string, f func(*Encoder) error) error {
	if e.takeNV() {
		e.adoptFrame(true)
		return e.run(f)
	}
	if err := e.pre(); err != nil {
		return err
	}
	if err := e.pushFrame(')', true, e.bodyExpanded(), false); err != nil {
		return err
	}
	e.ws(name)
	e.ws("(")
	if err := e.run(f); err != nil {
		return err
	}
	return e.popFrame()
}

// Field writes the name of the next struct field.  The value of the field is
// written by the next value method called after Field.
func (e *Encoder) Field(name string) error {
	if err := e.pre(); err != nil {
		return err
	}
	return e.ws(name)
}

// Seq writes a list whose elements are written by f.
func (e *Encoder) Seq(f func(*Encoder) error) error {
	e.takeNV()
	if err := e.pre(); err != nil {
		return err
	}
	expand := e.cfg != nil && !e.cfg.CompactArrays
	if err := e.pushFrame(']', false, expand, true); err != nil {
		return err
	}
	e.ws("[")
	if err := e.run(f); err != nil {
		return err
	}
	return e.popFrame()
}

// Map writes a map whose entries are written by f.  Within f, values are
// written in alternation, each key followed by its value.
func (e *Encoder) Map(f func(*Encoder) error) error {
	e.takeNV()
	if err := e.pre(); err != nil {
		return err
	}
	expand := e.cfg != nil && !e.cfg.CompactMaps
	if err := e.pushFrame('}', true, expand, false); err != nil {
		return err
	}
	e.ws("{")
	if err := e.run(f); err != nil {
		return err
	}
	return e.popFrame()
}

// UnitVariant writes a unit enum variant as a bare identifier.
func (e *Encoder) UnitVariant(name string) error {
	e.takeNV()
	if err := e.pre(); err != nil {
		return err
	}
	return e.ws(name)
}

// NewtypeVariant writes an enum variant enclosing a single value written by
// f.  When the unwrap_variant_newtypes extension is enabled and the enclosed
// value is a struct, tuple, or newtype, its own wrapper is elided and its
// body written directly inside the variant parentheses.
func (e *Encoder) NewtypeVariant(name string, f func(*Encoder) error) error {
	e.takeNV()
	if err := e.pre(); err != nil {
		return err
	}
	if err := e.pushWrapper(); err != nil {
		return err
	}
	e.ws(name)
	e.ws("(")
	if e.exts.Has(UnwrapVariantNewtypes) {
		e.nv = true
	}
	err := e.run(f)
	e.nv = false
	if err != nil {
		return err
	}
	return e.popFrame()
}

// TupleVariant writes an enum variant whose elements are written by f.
func (e *Encoder) TupleVariant(name string, f func(*Encoder) error) error {
	e.takeNV()
	if err := e.pre(); err != nil {
		return err
	}
	if err := e.pushFrame(')', false, e.bodyExpanded(), false); err != nil {
		return err
	}
	e.ws(name)
	e.ws("(")
	if err := e.run(f); err != nil {
		return err
	}
	return e.popFrame()
}

// StructVariant writes an enum variant whose fields are written by f, in the
// manner of Struct.
func (e *Encoder) StructVariant(name string, f func(*Encoder) error) error {
	e.takeNV()
	if err := e.pre(); err != nil {
		return err
	}
	if err := e.pushFrame(')', true, e.bodyExpanded(), false); err != nil {
		return err
	}
	e.ws(name)
	e.ws("(")
	if err := e.run(f); err != nil {
		return err
	}
	return e.popFrame()
}

// pre prepares the output for the next value: it writes the document header
// if one is pending, and the separators owed by the enclosing body.
func (e *Encoder) pre() error {
	if e.err != nil {
		return e.err
	}
	if !e.headerDone {
		e.headerDone = true
		if e.exts != 0 {
			e.ws("#![enable(")
			e.ws(strings.Join(e.exts.Names(), ", "))
			e.ws(")]")
			e.ws(e.nl())
		}
	}
	if len(e.frames) == 0 {
		return e.err
	}
	f := &e.frames[len(e.frames)-1]
	switch {
	case f.wrapper:
		// a single enclosed value, no separators

	case f.assoc && f.n%2 == 1:
		e.ws(":")
		e.ws(e.sep())

	case f.n > 0:
		e.ws(",")
		if f.expanded {
			e.ws(e.nl())
			e.writeIndent(f.indent)
		} else {
			e.ws(e.sep())
		}

	case f.expanded:
		e.ws(e.nl())
		e.writeIndent(f.indent)
	}
	if f.list && f.expanded && e.cfg.EnumerateArrays {
		e.ws(fmt.Sprintf("/*[%d]*/ ", f.n))
	}
	f.n++
	return e.err
}

// run invokes a body callback and records any error it reports.
func (e *Encoder) run(f func(*Encoder) error) error {
	if err := f(e); err != nil {
		if e.err == nil {
			e.err = err
		}
		return err
	}
	return e.err
}

// pushFrame opens a body closed by the given delimiter.
func (e *Encoder) pushFrame(close byte, assoc, expanded, list bool) error {
	if len(e.frames) >= e.depthLimit() {
		return e.fail(KindDepthLimit, "nesting exceeds %d levels", e.depthLimit())
	}
	e.frames = append(e.frames, encFrame{
		close:    close,
		indent:   len(e.frames) + 1,
		assoc:    assoc,
		expanded: expanded,
		list:     list,
	})
	return nil
}

// pushWrapper opens a body holding exactly one value with no separators.
func (e *Encoder) pushWrapper() error {
	if len(e.frames) >= e.depthLimit() {
		return e.fail(KindDepthLimit, "nesting exceeds %d levels", e.depthLimit())
	}
	e.frames = append(e.frames, encFrame{
		close:   ')',
		indent:  len(e.frames) + 1,
		wrapper: true,
	})
	return nil
}

// adoptFrame converts the wrapper opened by the enclosing variant into a body
// frame, so that the elements of an unwrapped value are written directly into
// the variant's parentheses.
func (e *Encoder) adoptFrame(assoc bool) {
	f := &e.frames[len(e.frames)-1]
	f.wrapper = false
	f.assoc = assoc
	f.expanded = e.bodyExpanded()
	f.n = 0
}

// popFrame closes the topmost body, writing the trailing comma and closing
// indentation of an expanded body that is not empty.
func (e *Encoder) popFrame() error {
	f := e.frames[len(e.frames)-1]
	e.frames = e.frames[:len(e.frames)-1]
	if f.expanded && f.n > 0 {
		e.ws(",")
		e.ws(e.nl())
		e.writeIndent(f.indent - 1)
	}
	e.buf = append(e.buf[:0], f.close)
	return e.wb(e.buf)
}

// takeNV reports and clears the pending unwrapped variant body.
func (e *Encoder) takeNV() bool { v := e.nv; e.nv = false; return v }

func (e *Encoder) bodyExpanded() bool { return e.cfg != nil && !e.cfg.CompactStructs }

func (e *Encoder) escapeAll() bool { return e.cfg == nil || e.cfg.EscapeStrings }

func (e *Encoder) floatSuffix() bool { return e.cfg == nil || e.cfg.NumberSuffix }

func (e *Encoder) depthLimit() int {
	if e.limit > 0 {
		return e.limit
	}
	if e.cfg != nil && e.cfg.DepthLimit > 0 {
		return e.cfg.DepthLimit
	}
	return defaultDepthLimit
}

func (e *Encoder) nl() string {
	if e.cfg != nil {
		return e.cfg.NewLine
	}
	return "\n"
}

func (e *Encoder) sep() string {
	if e.cfg != nil {
		return e.cfg.Separator
	}
	return ""
}

func (e *Encoder) writeIndent(n int) {
	for range n {
		e.ws(e.cfg.Indentor)
	}
}

// ws writes s to the output unless an error is already pending.
func (e *Encoder) ws(s string) error {
	if e.err != nil {
		return e.err
	}
	if _, err := io.WriteString(e.w, s); err != nil {
		e.err = &Error{Kind: KindIO, Message: err.Error(), err: err}
	}
	return e.err
}

// wb writes b to the output unless an error is already pending.
func (e *Encoder) wb(b []byte) error {
	if e.err != nil {
		return e.err
	}
	if _, err := e.w.Write(b); err != nil {
		e.err = &Error{Kind: KindIO, Message: err.Error(), err: err}
	}
	return e.err
}

func (e *Encoder) fail(kind Kind, msg string, args ...any) error {
	if e.err == nil {
		e.err = &Error{Kind: kind, Message: fmt.Sprintf(msg, args...)}
	}
	return e.err
}
