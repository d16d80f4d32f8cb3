// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting and unquoting of RON strings, byte strings,
// and character literals.
package escape

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"go4.org/mem"
)

// Sentinel errors reported by the functions of this package, for
// classification by the caller.  Reported errors wrap these values.
var (
	ErrIncomplete     = errors.New("incomplete escape sequence")
	ErrInvalidEscape  = errors.New("invalid escape")
	ErrInvalidUnicode = errors.New("invalid Unicode escape")
)

// Unquote decodes a byte slice containing the RON encoding of a string or
// byte string.  The input must have the enclosing double quotation marks
// already removed.  When unicode is true, \u{...} escapes are permitted and
// decode to the UTF-8 encoding of the named scalar; byte strings pass false,
// making \u an invalid escape.
//
// The result is not checked for UTF-8 validity, since byte strings may
// contain arbitrary bytes.
func Unquote(src mem.RO, unicode bool) ([]byte, error) {
	dec := make([]byte, 0, src.Len())
	i := mem.IndexByte(src, '\\')
	if i < 0 {
		return mem.Append(dec, src), nil
	}

	for src.Len() != 0 {
		dec = mem.Append(dec, src.SliceTo(i))
		src = src.SliceFrom(i + 1)
		if src.Len() == 0 {
			return nil, ErrIncomplete
		}

		ch := src.At(0)
		src = src.SliceFrom(1)
		switch ch {
		case '"', '\\', '\'':
			dec = append(dec, ch)
		case 'b':
			dec = append(dec, '\b')
		case 'f':
			dec = append(dec, '\f')
		case 'n':
			dec = append(dec, '\n')
		case 'r':
			dec = append(dec, '\r')
		case 't':
			dec = append(dec, '\t')
		case '0':
			dec = append(dec, 0)
		case 'x':
			if src.Len() < 2 {
				return nil, ErrIncomplete
			}
			v, err := parseHex(src.SliceTo(2))
			if err != nil {
				return nil, err
			}
			dec = append(dec, byte(v))
			src = src.SliceFrom(2)
		case 'u':
			if !unicode {
				return nil, fmt.Errorf(`%w \u in byte string`, ErrInvalidEscape)
			}
			r, rest, err := parseUnicode(src)
			if err != nil {
				return nil, err
			}
			dec = utf8.AppendRune(dec, r)
			src = rest
		default:
			return nil, fmt.Errorf("%w %q", ErrInvalidEscape, ch)
		}

		i = mem.IndexByte(src, '\\')
		if i < 0 {
			dec = mem.Append(dec, src)
			break
		}
	}
	return dec, nil
}

// UnquoteChar decodes the content of a RON character literal, with the
// enclosing apostrophes already removed.  The content must comprise exactly
// one Unicode scalar value or escape sequence.
func UnquoteChar(src mem.RO) (rune, error) {
	if src.Len() == 0 {
		return 0, ErrIncomplete
	}
	if src.At(0) != '\\' {
		r, n := mem.DecodeRune(src)
		if r == utf8.RuneError && n <= 1 {
			return 0, fmt.Errorf("%w: not UTF-8", ErrInvalidUnicode)
		} else if n != src.Len() {
			return 0, fmt.Errorf("%w: multiple characters", ErrInvalidEscape)
		}
		return r, nil
	}

	dec, err := Unquote(src, true)
	if err != nil {
		return 0, err
	}
	r, n := utf8.DecodeRune(dec)
	if r == utf8.RuneError && n <= 1 {
		return 0, fmt.Errorf("%w: not a Unicode scalar", ErrInvalidUnicode)
	} else if n != len(dec) {
		return 0, fmt.Errorf("%w: multiple characters", ErrInvalidEscape)
	}
	return r, nil
}

// parseUnicode decodes a \u{H...} escape whose leading \u has already been
// removed, returning the scalar and the unconsumed remainder of src.
func parseUnicode(src mem.RO) (rune, mem.RO, error) {
	if src.Len() == 0 || src.At(0) != '{' {
		return 0, src, fmt.Errorf(`%w: missing {`, ErrInvalidUnicode)
	}
	var v int64
	var nd int
	i := 1
	for ; i < src.Len() && src.At(i) != '}'; i++ {
		d, err := parseHex(src.Slice(i, i+1))
		if err != nil {
			return 0, src, fmt.Errorf("%w: %v", ErrInvalidUnicode, err)
		}
		v = v<<4 | d
		nd++
		if nd > 6 {
			return 0, src, fmt.Errorf("%w: too many digits", ErrInvalidUnicode)
		}
	}
	if i >= src.Len() {
		return 0, src, ErrIncomplete
	} else if nd == 0 {
		return 0, src, fmt.Errorf("%w: no digits", ErrInvalidUnicode)
	}
	if v > 0x10FFFF || (v >= 0xD800 && v <= 0xDFFF) {
		return 0, src, fmt.Errorf("%w: U+%X is not a scalar value", ErrInvalidUnicode, v)
	}
	return rune(v), src.SliceFrom(i + 1), nil
}

func parseHex(data mem.RO) (int64, error) {
	var v int64
	for i := 0; i < data.Len(); i++ {
		b := data.At(i)
		v <<= 4
		if '0' <= b && b <= '9' {
			v += int64(b - '0')
		} else if 'a' <= b && b <= 'f' {
			v += int64(b - 'a' + 10)
		} else if 'A' <= b && b <= 'F' {
			v += int64(b - 'A' + 10)
		} else {
			return 0, fmt.Errorf("%w: invalid hex digit %q", ErrInvalidEscape, b)
		}
	}
	return v, nil
}
