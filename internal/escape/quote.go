// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package escape

import (
	"fmt"
	"unicode/utf8"
)

// AppendString appends the RON string encoding of s to dst, without the
// enclosing quotation marks.  Control characters, the backslash and the quote
// character are always escaped.  When escapeAll is true, non-ASCII characters
// are escaped as well; otherwise they are copied verbatim.
func AppendString(dst []byte, s string, escapeAll bool) []byte {
	for _, r := range s {
		dst = appendRune(dst, r, '"', escapeAll)
	}
	return dst
}

// AppendBytes appends the RON byte string encoding of b to dst, without the
// prefix and enclosing quotation marks.  Bytes that do not form valid UTF-8
// are escaped as \xHH regardless of escapeAll, since a byte string carries no
// text encoding.
func AppendBytes(dst, b []byte, escapeAll bool) []byte {
	for i := 0; i < len(b); {
		if c := b[i]; c < utf8.RuneSelf {
			dst = appendASCII(dst, c, '"')
			i++
			continue
		}
		r, n := utf8.DecodeRune(b[i:])
		if (r == utf8.RuneError && n <= 1) || escapeAll {
			dst = fmt.Appendf(dst, `\x%02x`, b[i])
			i++
			continue
		}
		dst = append(dst, b[i:i+n]...)
		i += n
	}
	return dst
}

// AppendChar appends the RON character literal encoding of r to dst, without
// the enclosing apostrophes.
func AppendChar(dst []byte, r rune, escapeAll bool) []byte {
	return appendRune(dst, r, '\'', escapeAll)
}

// appendRune appends the encoding of r within a literal delimited by quote.
func appendRune(dst []byte, r rune, quote byte, escapeAll bool) []byte {
	if r < utf8.RuneSelf {
		return appendASCII(dst, byte(r), quote)
	}
	if escapeAll {
		return fmt.Appendf(dst, `\u{%x}`, r)
	}
	return utf8.AppendRune(dst, r)
}

func appendASCII(dst []byte, c, quote byte) []byte {
	switch c {
	case quote:
		return append(dst, '\\', quote)
	case '\\':
		return append(dst, '\\', '\\')
	case '\b':
		return append(dst, '\\', 'b')
	case '\f':
		return append(dst, '\\', 'f')
	case '\n':
		return append(dst, '\\', 'n')
	case '\r':
		return append(dst, '\\', 'r')
	case '\t':
		return append(dst, '\\', 't')
	case 0:
		return append(dst, '\\', '0')
	}
	if c < 0x20 || c == 0x7f {
		return fmt.Appendf(dst, `\x%02x`, c)
	}
	return append(dst, c)
}
