// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package ron_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/creachadair/ron"
	"github.com/google/go-cmp/cmp"
)

func scanAll(t *testing.T, input string) ([]ron.Token, error) {
	t.Helper()
	var got []ron.Token
	s := ron.NewScanner(strings.NewReader(input))
	for {
		if err := s.Next(); err == io.EOF {
			return got, nil
		} else if err != nil {
			return got, err
		}
		got = append(got, s.Token())
	}
}

func TestScanner(t *testing.T) {
	tests := []struct {
		input string
		want  []ron.Token
	}{
		// Empty inputs
		{"", nil},
		{"  ", nil},
		{"\n\n  \n", nil},
		{"\t  \r\n \t  \r\n", nil},

		// Punctuation
		{"( [ ] ) { } , :", []ron.Token{
			ron.LParen, ron.LSquare, ron.RSquare, ron.RParen,
			ron.LBrace, ron.RBrace, ron.Comma, ron.Colon,
		}},

		// Keywords are ordinary identifiers to the scanner.
		{"true false Some None inf NaN", []ron.Token{
			ron.Ident, ron.Ident, ron.Ident, ron.Ident, ron.Ident, ron.Ident,
		}},

		// Numbers
		{"0 -1 5139 1_000 0x2f 0o17 0b1010_1111", []ron.Token{
			ron.Integer, ron.Integer, ron.Integer, ron.Integer,
			ron.Integer, ron.Integer, ron.Integer,
		}},
		{"2.3 5e+9 3.6E4 -0.001e-100 .5 4. -inf +inf -NaN", []ron.Token{
			ron.Float, ron.Float, ron.Float, ron.Float, ron.Float,
			ron.Float, ron.Float, ron.Float, ron.Float,
		}},

		// Strings
		{`"" "a b c" "a\nb\tc"`, []ron.Token{ron.String, ron.String, ron.String}},
		{`r"raw" r#"with "quotes""#`, []ron.Token{ron.RawString, ron.RawString}},
		{`b"bytes" br#"raw "bytes""#`, []ron.Token{ron.ByteString, ron.RawByteString}},
		{`'a' '\n' '\u{1F600}'`, []ron.Token{ron.Char, ron.Char, ron.Char}},

		// Identifiers
		{"abc _x r#true Ünïcodé", []ron.Token{ron.Ident, ron.Ident, ron.Ident, ron.Ident}},

		// Attributes
		{"#![enable(implicit_some)]", []ron.Token{
			ron.AttrIntro, ron.LSquare, ron.Ident, ron.LParen, ron.Ident,
			ron.RParen, ron.RSquare,
		}},

		// Comments
		{"// to end of line\n15", []ron.Token{ron.LineComment, ron.Integer}},
		{"/* out /* in */ out */ 15", []ron.Token{ron.BlockComment, ron.Integer}},

		// Mixed structure
		{`(name: "hero", hp: 100, pos: (1.0, 2.0))`, []ron.Token{
			ron.LParen, ron.Ident, ron.Colon, ron.String, ron.Comma,
			ron.Ident, ron.Colon, ron.Integer, ron.Comma,
			ron.Ident, ron.Colon,
			ron.LParen, ron.Float, ron.Comma, ron.Float, ron.RParen,
			ron.RParen,
		}},
	}

	for _, test := range tests {
		got, err := scanAll(t, test.input)
		if err != nil {
			t.Errorf("Input: %#q: unexpected error: %v", test.input, err)
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Input: %#q\nTokens: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestScannerErrors(t *testing.T) {
	tests := []struct {
		input string
		want  ron.Kind
	}{
		{`"unterminated`, ron.KindEOF},
		{`r#"unterminated"`, ron.KindEOF},
		{`'x`, ron.KindEOF},
		{`/* unterminated`, ron.KindEOF},
		{`0x`, ron.KindSyntax},
		{`1e`, ron.KindSyntax},
		{`@`, ron.KindSyntax},
	}
	for _, test := range tests {
		_, err := scanAll(t, test.input)
		if err == nil {
			t.Errorf("Input: %#q: no error, wanted %v", test.input, test.want)
		} else if got := ron.ErrorKind(err); got != test.want {
			t.Errorf("Input: %#q: got error kind %v, want %v [%v]", test.input, got, test.want, err)
		}
	}
}

func TestScannerDecode(t *testing.T) {
	t.Run("Int64", func(t *testing.T) {
		tests := []struct {
			input string
			want  int64
		}{
			{"0", 0}, {"-15", -15}, {"1_000_000", 1000000},
			{"0x2f", 47}, {"0o17", 15}, {"0b101", 5}, {"-0xff", -255},
		}
		for _, test := range tests {
			s := ron.NewScannerBytes([]byte(test.input))
			if err := s.Next(); err != nil {
				t.Fatalf("Next %#q: %v", test.input, err)
			}
			got, err := s.Int64()
			if err != nil {
				t.Errorf("Int64 %#q: %v", test.input, err)
			} else if got != test.want {
				t.Errorf("Int64 %#q: got %d, want %d", test.input, got, test.want)
			}
		}
	})

	t.Run("Float64", func(t *testing.T) {
		tests := []struct {
			input string
			want  float64
		}{
			{"2.5", 2.5}, {"5e2", 500}, {"-0.25", -0.25}, {".5", 0.5},
		}
		for _, test := range tests {
			s := ron.NewScannerBytes([]byte(test.input))
			if err := s.Next(); err != nil {
				t.Fatalf("Next %#q: %v", test.input, err)
			}
			got, err := s.Float64()
			if err != nil {
				t.Errorf("Float64 %#q: %v", test.input, err)
			} else if got != test.want {
				t.Errorf("Float64 %#q: got %v, want %v", test.input, got, test.want)
			}
		}
	})

	t.Run("Unescape", func(t *testing.T) {
		tests := []struct {
			input, want string
		}{
			{`"plain"`, "plain"},
			{`"a\tb\nc"`, "a\tb\nc"},
			{`"\u{2603}"`, "☃"},
			{`"\x41\x42"`, "AB"},
			{`r#"no \n escapes"#`, `no \n escapes`},
			{`b"\x00\xff"`, "\x00\xff"},
		}
		for _, test := range tests {
			s := ron.NewScannerBytes([]byte(test.input))
			if err := s.Next(); err != nil {
				t.Fatalf("Next %#q: %v", test.input, err)
			}
			got, err := s.Unescape()
			if err != nil {
				t.Errorf("Unescape %#q: %v", test.input, err)
			} else if string(got) != test.want {
				t.Errorf("Unescape %#q: got %#q, want %#q", test.input, got, test.want)
			}
		}
	})
}

func TestScannerLocation(t *testing.T) {
	const input = "(a: 1,\n b: 2)"
	s := ron.NewScannerBytes([]byte(input))

	// Advance to the identifier "b" on the second line.
	var loc ron.Location
	for {
		if err := s.Next(); err != nil {
			t.Fatalf("Next: %v", err)
		}
		if s.Token() == ron.Ident && string(s.Text()) == "b" {
			loc = s.Location()
			break
		}
	}
	if want := (ron.Span{Pos: 8, End: 9}); loc.Span != want {
		t.Errorf("Span: got %+v, want %+v", loc.Span, want)
	}
	if loc.First.Line != 2 || loc.First.Column != 1 {
		t.Errorf("First: got %v, want 2:1", loc.First)
	}
}

func TestScannerErrorPosition(t *testing.T) {
	const input = "[true,\n @]"
	_, err := scanAll(t, input)

	var e *ron.Error
	if !errors.As(err, &e) {
		t.Fatalf("got %v, want *ron.Error", err)
	}
	if e.Location.Line != 2 {
		t.Errorf("error line: got %d, want 2", e.Location.Line)
	}
}
