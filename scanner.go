// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package ron

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/creachadair/ron/internal/escape"

	"go4.org/mem"
)

// A Scanner reads lexical tokens from an input buffer.  Each call to Next
// advances the scanner to the next token, or reports an error.
//
// The scanner operates on an in-memory copy of its input so that the decoder
// can perform bounded lookahead without re-reading the source.
type Scanner struct {
	src []byte
	tok Token
	err error

	pos, end int // start and end offsets of current token

	// Apparent line and column offsets (line 1-based, column 0-based)
	pline, pcol int
	eline, ecol int
}

// NewScanner constructs a new lexical scanner that consumes input from r.
// The contents of r are read fully before scanning begins; a read failure is
// reported by the first call to Next.
func NewScanner(r io.Reader) *Scanner {
	data, err := io.ReadAll(r)
	s := NewScannerBytes(data)
	if err != nil {
		s.err = &Error{Kind: KindIO, Location: LineCol{Line: 1}, Message: err.Error(), err: err}
	}
	return s
}

// NewScannerBytes constructs a new lexical scanner for the given input.
// The scanner retains data, and the caller must not modify its contents
// during scanning.
func NewScannerBytes(data []byte) *Scanner {
	return &Scanner{src: data, eline: 1}
}

// Next advances s to the next token of the input, or reports an error.
// At the end of the input, Next returns io.EOF.
func (s *Scanner) Next() error {
	if e, ok := s.err.(*Error); ok && e.Kind == KindIO {
		return s.err // I/O errors are not recoverable
	}
	s.err = nil
	s.tok = Invalid
	s.skipSpace()
	s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol

	if s.end >= len(s.src) {
		return s.setErr(io.EOF)
	}

	ch := s.src[s.end]
	switch {
	case ch == '(':
		return s.punct(LParen)
	case ch == ')':
		return s.punct(RParen)
	case ch == '[':
		return s.punct(LSquare)
	case ch == ']':
		return s.punct(RSquare)
	case ch == '{':
		return s.punct(LBrace)
	case ch == '}':
		return s.punct(RBrace)
	case ch == ',':
		return s.punct(Comma)
	case ch == ':':
		return s.punct(Colon)
	case ch == '#':
		if s.at(1) == '!' {
			s.take(2)
			s.tok = AttrIntro
			return nil
		}
		return s.failf(KindSyntax, "unexpected %q", ch)
	case ch == '/':
		return s.scanComment()
	case ch == '"':
		return s.scanString(String)
	case ch == '\'':
		return s.scanChar()
	case ch == 'b' && (s.at(1) == '"' || (s.at(1) == 'r' && (s.at(2) == '"' || s.at(2) == '#'))):
		s.take(1)
		if s.src[s.end] == '"' {
			return s.scanString(ByteString)
		}
		s.take(1)
		return s.scanRawString(RawByteString)
	case ch == 'r' && (s.at(1) == '"' || s.at(1) == '#'):
		// Distinguish a raw string r#"..."# from a raw identifier r#ident.
		if s.at(1) == '#' && s.at(2) != '"' && s.at(2) != '#' {
			return s.scanIdent()
		}
		s.take(1)
		return s.scanRawString(RawString)
	case isNumStart(ch):
		return s.scanNumber()
	default:
		r, _ := utf8.DecodeRune(s.src[s.end:])
		if isIdentStart(r) {
			return s.scanIdent()
		}
		return s.failf(KindSyntax, "unexpected %q", r)
	}
}

// Token returns the type of the current token.
func (s *Scanner) Token() Token { return s.tok }

// Err returns the last error reported by Next.
func (s *Scanner) Err() error { return s.err }

// Text returns the undecoded text of the current token, including any
// enclosing quotation marks and prefixes.  The returned slice aliases the
// input buffer and must not be modified.
func (s *Scanner) Text() []byte { return s.src[s.pos:s.end] }

// Span returns the location span of the current token.
func (s *Scanner) Span() Span { return Span{Pos: s.pos, End: s.end} }

// Location returns the complete location of the current token.
func (s *Scanner) Location() Location {
	return Location{
		Span:  s.Span(),
		First: LineCol{Line: s.pline, Column: s.pcol},
		Last:  LineCol{Line: s.eline, Column: s.ecol},
	}
}

// Int64 decodes the text of the current token as a signed integer.
func (s *Scanner) Int64() (int64, error) {
	text, base, neg := splitNumber(s.Text())
	v, err := strconv.ParseUint(text, base, 64)
	if err != nil {
		return 0, s.numErr(err)
	}
	if neg {
		if v > 1<<63 {
			return 0, s.failValue(KindNumberOutOfRange, "%s underflows int64", s.Text())
		}
		return -int64(v), nil
	}
	if v > 1<<63-1 {
		return 0, s.failValue(KindNumberOutOfRange, "%s overflows int64", s.Text())
	}
	return int64(v), nil
}

// Uint64 decodes the text of the current token as an unsigned integer.
func (s *Scanner) Uint64() (uint64, error) {
	text, base, neg := splitNumber(s.Text())
	if neg {
		return 0, s.failValue(KindNumberOutOfRange, "negative value %s for unsigned target", s.Text())
	}
	v, err := strconv.ParseUint(text, base, 64)
	if err != nil {
		return 0, s.numErr(err)
	}
	return v, nil
}

// Float64 decodes the text of the current token as a floating-point value,
// including the literals inf, -inf, and NaN.  Integer tokens decode to the
// nearest representable float.
func (s *Scanner) Float64() (float64, error) {
	text := string(s.Text())
	switch text {
	case "inf", "+inf":
		return math.Inf(1), nil
	case "-inf":
		return math.Inf(-1), nil
	case "NaN", "+NaN", "-NaN":
		return math.NaN(), nil
	}
	if s.tok == Float && strings.ContainsRune(text, '_') {
		return 0, s.failValue(KindSyntax, "underscore in float literal %s", text)
	}
	if t, base, neg := splitNumber(s.Text()); base != 10 {
		// A base-prefixed integer read at a float target.
		v, err := strconv.ParseUint(t, base, 64)
		if err != nil {
			return 0, s.numErr(err)
		}
		if neg {
			return -float64(v), nil
		}
		return float64(v), nil
	} else {
		text = t
		if neg {
			text = "-" + t
		}
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) && errors.Is(ne.Err, strconv.ErrRange) && v == 0 {
			return 0, s.failValue(KindFloatUnderflow, "%s underflows float64", s.Text())
		}
		return 0, s.numErr(err)
	}
	if v == 0 {
		// ParseFloat rounds a too-small value to zero without reporting an
		// error; a nonzero digit in the mantissa marks the underflow.
		mant := text
		if i := strings.IndexAny(text, "eE"); i >= 0 {
			mant = text[:i]
		}
		if strings.ContainsAny(mant, "123456789") {
			return 0, s.failValue(KindFloatUnderflow, "%s underflows float64", s.Text())
		}
	}
	return v, nil
}

// Unescape decodes the content of the current string, raw string, byte
// string, or raw byte string token.  For plain and raw strings the result is
// checked for UTF-8 validity; byte strings may contain arbitrary bytes.
func (s *Scanner) Unescape() ([]byte, error) {
	text := s.Text()
	var dec []byte
	var err error
	switch s.tok {
	case String, ByteString:
		body := text[bytes.IndexByte(text, '"')+1 : len(text)-1]
		dec, err = escape.Unquote(mem.B(body), s.tok == String)
		if err != nil {
			return nil, s.escErr(err)
		}
	case RawString, RawByteString:
		open := bytes.IndexByte(text, '"')
		var hashes int
		if i := bytes.IndexByte(text, '#'); i >= 0 && i < open {
			hashes = open - i
		}
		dec = text[open+1 : len(text)-1-hashes]
	default:
		return nil, s.failValue(KindTypeMismatch, "token %v is not a string", s.tok)
	}
	if (s.tok == String || s.tok == RawString) && !utf8.Valid(dec) {
		return nil, s.failValue(KindUTF8, "string content is not valid UTF-8")
	}
	return dec, nil
}

// Rune decodes the content of the current char token as a single Unicode
// scalar value.
func (s *Scanner) Rune() (rune, error) {
	text := s.Text()
	r, err := escape.UnquoteChar(mem.B(text[1 : len(text)-1]))
	if err != nil {
		return 0, s.escErr(err)
	}
	return r, nil
}

// IdentName returns the name of the current identifier token with any raw
// prefix removed.
func (s *Scanner) IdentName() []byte {
	text := s.Text()
	if len(text) > 2 && text[0] == 'r' && text[1] == '#' {
		return text[2:]
	}
	return text
}

// at returns the byte at offset i from the cursor, or 0 at the end of input.
func (s *Scanner) at(i int) byte {
	if p := s.end + i; p < len(s.src) {
		return s.src[p]
	}
	return 0
}

// take advances the cursor by n bytes, updating line and column offsets.
func (s *Scanner) take(n int) {
	stop := s.end + n
	for s.end < stop {
		if s.src[s.end] == '\n' {
			s.eline++
			s.ecol = 0
		} else {
			s.ecol++
		}
		s.end++
	}
}

func (s *Scanner) punct(tok Token) error {
	s.take(1)
	s.tok = tok
	return nil
}

func (s *Scanner) skipSpace() {
	for s.end < len(s.src) {
		ch := s.src[s.end]
		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\v' || ch == '\f' {
			s.take(1)
			continue
		}
		if ch < utf8.RuneSelf {
			return
		}
		r, n := utf8.DecodeRune(s.src[s.end:])
		if !isSpaceRune(r) {
			return
		}
		s.take(n)
	}
}

func (s *Scanner) scanComment() error {
	switch s.at(1) {
	case '/': // line comment to LF
		s.take(2)
		for s.end < len(s.src) && s.src[s.end] != '\n' {
			s.take(1)
		}
		if s.end < len(s.src) {
			s.take(1) // include the newline
		}
		s.tok = LineComment
		return nil

	case '*': // block comment, nesting must balance
		s.take(2)
		depth := 1
		for s.end < len(s.src) {
			if s.src[s.end] == '/' && s.at(1) == '*' {
				s.take(2)
				depth++
			} else if s.src[s.end] == '*' && s.at(1) == '/' {
				s.take(2)
				depth--
				if depth == 0 {
					s.tok = BlockComment
					return nil
				}
			} else {
				s.take(1)
			}
		}
		return s.failf(KindEOF, "unterminated block comment")

	default:
		return s.failf(KindSyntax, "unexpected %q", '/')
	}
}

func (s *Scanner) scanString(tok Token) error {
	s.take(1) // opening quote
	for s.end < len(s.src) {
		switch s.src[s.end] {
		case '"':
			s.take(1)
			s.tok = tok
			return nil
		case '\\':
			s.take(1)
			if s.end < len(s.src) {
				s.take(1) // the escaped byte, validated on decode
			}
		default:
			s.take(1)
		}
	}
	return s.failf(KindEOF, "unterminated string")
}

// scanRawString scans a raw string whose leading 'r' (or 'br') has already
// been consumed.  The number of opening hashes must match the closing count
// exactly so that embedded quote-hash sequences are preserved.
func (s *Scanner) scanRawString(tok Token) error {
	var hashes int
	for s.src[s.end] == '#' {
		hashes++
		s.take(1)
		if s.end >= len(s.src) {
			return s.failf(KindEOF, "unterminated raw string")
		}
	}
	if s.src[s.end] != '"' {
		return s.failf(KindSyntax, "expected %q in raw string", '"')
	}
	s.take(1)
	for s.end < len(s.src) {
		if s.src[s.end] != '"' {
			s.take(1)
			continue
		}
		s.take(1)
		n := 0
		for n < hashes && s.at(0) == '#' {
			s.take(1)
			n++
		}
		if n == hashes {
			s.tok = tok
			return nil
		}
	}
	return s.failf(KindEOF, "unterminated raw string")
}

func (s *Scanner) scanChar() error {
	s.take(1) // opening quote
	for s.end < len(s.src) {
		switch s.src[s.end] {
		case '\'':
			s.take(1)
			s.tok = Char
			return nil
		case '\\':
			s.take(1)
			if s.end < len(s.src) {
				s.take(1)
			}
		default:
			s.take(1)
		}
	}
	return s.failf(KindEOF, "unterminated char")
}

func (s *Scanner) scanNumber() error {
	if ch := s.src[s.end]; ch == '+' || ch == '-' {
		s.take(1)
	}

	// A signed non-finite literal: -inf, +inf, -NaN.
	if s.hasWord("inf") || s.hasWord("NaN") {
		s.take(3)
		s.tok = Float
		return nil
	}

	if s.at(0) == '0' && (s.at(1) == 'x' || s.at(1) == 'o' || s.at(1) == 'b') {
		s.take(2)
		if !isBaseDigit(s.at(0), s.src[s.end-1]) {
			return s.failf(KindSyntax, "missing digits after base prefix")
		}
		base := s.src[s.end-1]
		for isBaseDigit(s.at(0), base) || s.at(0) == '_' {
			s.take(1)
		}
		s.tok = Integer
		return nil
	}

	isFloat := false
	nd := s.digits()
	if s.at(0) == '.' {
		s.take(1)
		nf := s.digits()
		if nd == 0 && nf == 0 {
			return s.failf(KindSyntax, "no digits in number")
		}
		isFloat = true
	} else if nd == 0 {
		return s.failf(KindSyntax, "no digits in number")
	}
	if s.at(0) == 'e' || s.at(0) == 'E' {
		s.take(1)
		if s.at(0) == '+' || s.at(0) == '-' {
			s.take(1)
		}
		if s.digits() == 0 {
			return s.failf(KindSyntax, "missing exponent digits")
		}
		isFloat = true
	}
	if isFloat {
		s.tok = Float
	} else {
		s.tok = Integer
	}
	return nil
}

// digits consumes a run of decimal digits with underscore separators, and
// reports the number of digits consumed.  A leading underscore is an error
// left for the decoder, since "_" alone begins an identifier.
func (s *Scanner) digits() int {
	var n int
	for {
		if ch := s.at(0); ch >= '0' && ch <= '9' {
			n++
		} else if ch != '_' || n == 0 {
			return n
		}
		s.take(1)
	}
}

func (s *Scanner) hasWord(word string) bool {
	if !bytes.HasPrefix(s.src[s.end:], []byte(word)) {
		return false
	}
	r, _ := utf8.DecodeRune(s.src[s.end+len(word):])
	return !isIdentCont(r)
}

func (s *Scanner) scanIdent() error {
	if s.at(0) == 'r' && s.at(1) == '#' {
		s.take(2)
	}
	r, n := utf8.DecodeRune(s.src[s.end:])
	if !isIdentStart(r) {
		return s.failf(KindSyntax, "invalid identifier start %q", r)
	}
	s.take(n)
	for s.end < len(s.src) {
		r, n := utf8.DecodeRune(s.src[s.end:])
		if !isIdentCont(r) {
			break
		}
		s.take(n)
	}
	s.tok = Ident
	return nil
}

// scanState captures the scanner position so the decoder can look ahead and
// rewind.  Restoring a state is valid only for states saved from the same
// scanner.
type scanState struct {
	tok         Token
	pos, end    int
	pline, pcol int
	eline, ecol int
}

func (s *Scanner) save() scanState {
	return scanState{s.tok, s.pos, s.end, s.pline, s.pcol, s.eline, s.ecol}
}

func (s *Scanner) restore(st scanState) {
	s.tok, s.pos, s.end = st.tok, st.pos, st.end
	s.pline, s.pcol = st.pline, st.pcol
	s.eline, s.ecol = st.eline, st.ecol
	s.err = nil
}

func (s *Scanner) setErr(err error) error {
	s.err = err
	return err
}

// failf reports an error of the given kind at the current cursor position.
func (s *Scanner) failf(kind Kind, msg string, args ...any) error {
	return s.setErr(&Error{
		Kind:     kind,
		Location: LineCol{Line: s.eline, Column: s.ecol},
		Offset:   s.end,
		Message:  fmt.Sprintf(msg, args...),
	})
}

// failValue reports an error of the given kind at the start of the current
// token, used for decode failures of an already-scanned token.
func (s *Scanner) failValue(kind Kind, msg string, args ...any) error {
	return &Error{
		Kind:     kind,
		Location: LineCol{Line: s.pline, Column: s.pcol},
		Offset:   s.pos,
		Message:  fmt.Sprintf(msg, args...),
	}
}

func (s *Scanner) numErr(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) && errors.Is(ne.Err, strconv.ErrRange) {
		return s.failValue(KindNumberOutOfRange, "%s out of range", s.Text())
	}
	return s.failValue(KindSyntax, "invalid number %s", s.Text())
}

func (s *Scanner) escErr(err error) error {
	kind := KindInvalidEscape
	switch {
	case errors.Is(err, escape.ErrInvalidUnicode):
		kind = KindInvalidUnicode
	case errors.Is(err, escape.ErrIncomplete):
		kind = KindEOF
	}
	return &Error{
		Kind:     kind,
		Location: LineCol{Line: s.pline, Column: s.pcol},
		Offset:   s.pos,
		Message:  err.Error(),
		err:      err,
	}
}

// splitNumber splits the raw text of an integer token into its digits, base,
// and sign, with underscore separators removed.
func splitNumber(text []byte) (digits string, base int, neg bool) {
	t := string(text)
	if len(t) > 0 && (t[0] == '+' || t[0] == '-') {
		neg = t[0] == '-'
		t = t[1:]
	}
	base = 10
	if len(t) > 2 && t[0] == '0' {
		switch t[1] {
		case 'x':
			base, t = 16, t[2:]
		case 'o':
			base, t = 8, t[2:]
		case 'b':
			base, t = 2, t[2:]
		}
	}
	return strings.ReplaceAll(t, "_", ""), base, neg
}

func isNumStart(ch byte) bool {
	return ch == '+' || ch == '-' || ch == '.' || (ch >= '0' && ch <= '9')
}

func isBaseDigit(ch, base byte) bool {
	switch base {
	case 'x':
		return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
	case 'o':
		return ch >= '0' && ch <= '7'
	default:
		return ch == '0' || ch == '1'
	}
}

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isIdentCont(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) ||
		unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r) || unicode.Is(unicode.Pc, r)
}

func isSpaceRune(r rune) bool {
	switch r {
	case 0x85, 0x200E, 0x200F, 0x2028, 0x2029:
		return true
	}
	return unicode.IsSpace(r)
}
