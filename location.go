// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package ron

import "fmt"

// A Span marks a contiguous byte range of the input.
type Span struct {
	Pos int // offset of the first byte, 0-based
	End int // offset just past the last byte, 0-based
}

// A LineCol is a human-readable position in the input, as reported in
// error messages.
type LineCol struct {
	Line   int // 1-based line number
	Column int // 0-based byte offset within the line
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Column) }

// A Location combines a byte range with the line and column positions of
// its endpoints.
type Location struct {
	Span
	First, Last LineCol
}

func (loc Location) String() string { return loc.First.String() }
