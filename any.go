// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package ron

import "math"

// A Handler receives events from the self-describing parsing of a value by
// the Any method.  If a method of the handler reports an error, parsing stops
// and that error is returned to the caller of Any.
//
// Without a target type to consult, the parser classifies each value by its
// syntax alone: a parenthesised body whose first element is a field name
// followed by a colon is reported as a struct, any other parenthesised body
// as a tuple, and a bare identifier that is not a keyword via Ident.  The
// handler is responsible for imposing any further interpretation.
type Handler interface {
	Bool(v bool) error
	Int(v int64) error

	// Uint reports an integer too large for int64.  Values representable as
	// int64 are reported by Int, including all negative values.
	Uint(v uint64) error

	Float(v float64) error
	Char(v rune) error
	Str(s string) error
	Bytes(b []byte) error

	// None reports an absent option.  A present option delivers BeginSome,
	// then the events of the enclosed value, then EndSome.
	None() error
	BeginSome() error
	EndSome() error

	// Unit reports the unit value "()".
	Unit() error

	// Ident reports a bare identifier, a unit struct or unit enum variant.
	Ident(name string) error

	BeginList() error
	EndList() error

	BeginMap() error
	EndMap() error

	// BeginTuple begins a positional body.  The name is "" when the body had
	// no leading identifier.
	BeginTuple(name string) error
	EndTuple() error

	// BeginStruct begins a named-field body.  The name is "" when the body
	// had no leading identifier.  Each field delivers Field with its name,
	// then the events of the field value.
	BeginStruct(name string) error
	Field(name string) error
	EndStruct() error
}

// Any parses a single value without a target type and reports its structure
// to h.  It consumes exactly one value of the document.
func (d *Decoder) Any(h Handler) error {
	if _, _, err := d.begin(); err != nil {
		return err
	}
	return d.anyValue(h)
}

func (d *Decoder) anyValue(h Handler) error {
	tok, err := d.peek()
	if err != nil {
		return err
	}
	switch tok {
	case Integer:
		v, err := d.sc.Int64()
		if err == nil {
			d.take()
			return h.Int(v)
		}
		if u, uerr := d.sc.Uint64(); uerr == nil {
			d.take()
			return h.Uint(u)
		}
		return err

	case Float:
		v, err := d.sc.Float64()
		if err != nil {
			return err
		}
		d.take()
		return h.Float(v)

	case String, RawString:
		text, err := d.sc.Unescape()
		if err != nil {
			return err
		}
		d.take()
		return h.Str(string(text))

	case ByteString, RawByteString:
		dec, err := d.sc.Unescape()
		if err != nil {
			return err
		}
		d.take()
		return h.Bytes(dec)

	case Char:
		r, err := d.sc.Rune()
		if err != nil {
			return err
		}
		d.take()
		return h.Char(r)

	case Ident:
		return d.anyIdent(h)

	case LParen:
		return d.anyBody("", h)

	case LSquare:
		return d.anyList(h)

	case LBrace:
		return d.anyMap(h)
	}
	return d.sc.failValue(KindSyntax, "unexpected %v", tok)
}

// anyIdent parses a value beginning with an identifier: a keyword literal, an
// option, a named body, or a bare identifier.
func (d *Decoder) anyIdent(h Handler) error {
	switch string(d.sc.Text()) {
	case "true":
		d.take()
		return h.Bool(true)
	case "false":
		d.take()
		return h.Bool(false)
	case "inf":
		d.take()
		return h.Float(math.Inf(1))
	case "NaN":
		d.take()
		return h.Float(math.NaN())
	case "None":
		d.take()
		return h.None()
	case "Some":
		d.take()
		if tok, err := d.peekToken(); err != nil {
			return err
		} else if tok != LParen {
			return h.Ident("Some")
		}
		d.take()
		if err := d.push(); err != nil {
			return err
		}
		if err := h.BeginSome(); err != nil {
			return err
		}
		if err := d.anyValue(h); err != nil {
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
		return h.EndSome()
	}

	name := string(d.sc.IdentName())
	d.take()
	if tok, err := d.peekToken(); err != nil {
		return err
	} else if tok == LParen {
		return d.anyBody(name, h)
	}
	return h.Ident(name)
}

// anyBody parses a parenthesised body with the given leading name, which is
// "" for an anonymous body.  The opening parenthesis has not been consumed.
func (d *Decoder) anyBody(name string, h Handler) error {
	d.take() // the opening parenthesis
	if err := d.push(); err != nil {
		return err
	}
	tok, err := d.peek()
	if err != nil {
		return err
	}
	if tok == RParen {
		d.take()
		d.pop()
		if name == "" {
			return h.Unit()
		}
		if err := h.BeginTuple(name); err != nil {
			return err
		}
		return h.EndTuple()
	}

	// A body whose first element is "ident :" is a struct, else a tuple.
	named := false
	if tok == Ident {
		st := d.save()
		d.take()
		next, err := d.peekToken()
		d.restore(st)
		if err != nil {
			return err
		}
		named = next == Colon
	}
	if named {
		if err := h.BeginStruct(name); err != nil {
			return err
		}
		if err := d.anyStructFields(h); err != nil {
			return err
		}
		d.pop()
		return h.EndStruct()
	}
	if err := h.BeginTuple(name); err != nil {
		return err
	}
	for {
		if err := d.anyValue(h); err != nil {
			return err
		}
		tok, err := d.peek()
		if err != nil {
			return err
		}
		switch tok {
		case Comma:
			d.take()
			if tok, err := d.peek(); err != nil {
				return err
			} else if tok != RParen {
				continue
			}
			d.take()
		case RParen:
			d.take()
		default:
			return d.sc.failValue(KindSyntax, `expected "," or ")", found %v`, tok)
		}
		break
	}
	d.pop()
	return h.EndTuple()
}

func (d *Decoder) anyStructFields(h Handler) error {
	for {
		tok, err := d.peek()
		if err != nil {
			return err
		}
		if tok == RParen {
			d.take()
			return nil
		}
		if tok != Ident {
			return d.sc.failValue(KindSyntax, "expected field name, found %v", tok)
		}
		if err := h.Field(string(d.sc.IdentName())); err != nil {
			return err
		}
		d.take()
		if err := d.expect(Colon); err != nil {
			return err
		}
		if err := d.anyValue(h); err != nil {
			return err
		}

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
}

func (d *Decoder) anyList(h Handler) error {
	d.take() // the opening bracket
	if err := d.push(); err != nil {
		return err
	}
	if err := h.BeginList(); err != nil {
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
		if err := d.anyValue(h); err != nil {
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
	return h.EndList()
}

func (d *Decoder) anyMap(h Handler) error {
	d.take() // the opening brace
	if err := d.push(); err != nil {
		return err
	}
	if err := h.BeginMap(); err != nil {
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
		if err := d.anyValue(h); err != nil {
			return err
		}
		if err := d.expect(Colon); err != nil {
			return err
		}
		if err := d.anyValue(h); err != nil {
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
	return h.EndMap()
}
