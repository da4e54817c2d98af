package docjson

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"go.streamy.dev/streamy/doc"
	"go.streamy.dev/streamy/parse"
)

// ParseError reports malformed JSON at a byte offset. Parsing yields no
// partial results.
type ParseError struct {
	Offset int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed JSON at offset %d", e.Offset)
}

// Parse parses a complete JSON document. Trailing whitespace is allowed;
// any other trailing bytes are an error.
func Parse(b []byte) (doc.Value, error) {
	p := &parser{s: parse.NewScanner(b)}

	p.ws()

	v, err := p.value()
	if err != nil {
		return nil, malformed(p.s, err)
	}

	p.ws()

	if !p.s.EOF() {
		return nil, &ParseError{Offset: p.s.Pos()}
	}

	return v, nil
}

// ParseString parses a complete JSON document from a string.
func ParseString(s string) (doc.Value, error) {
	return Parse([]byte(s))
}

func malformed(s *parse.Scanner, err error) error {
	var perr *parse.Error
	if errors.As(err, &perr) {
		return &ParseError{Offset: perr.Offset}
	}

	return &ParseError{Offset: s.Pos()}
}

type parser struct {
	s *parse.Scanner
}

func (p *parser) ws() {
	for {
		c, ok := p.s.Peek()
		if !ok || (c != ' ' && c != '\t' && c != '\n' && c != '\r') {
			return
		}

		p.s.Next()
	}
}

func (p *parser) value() (doc.Value, error) {
	c, ok := p.s.Peek()
	if !ok {
		return nil, &parse.Error{Offset: p.s.Pos(), Kind: parse.EndOfInput, Want: "value"}
	}

	switch c {
	case '{':
		return p.object()
	case '[':
		return p.array()
	case '"':
		s, err := p.string()
		if err != nil {
			return nil, err
		}

		return doc.String(s), nil
	case 't':
		if err := parse.Literal("true")(p.s); err != nil {
			return nil, err
		}

		return doc.Bool(true), nil
	case 'f':
		if err := parse.Literal("false")(p.s); err != nil {
			return nil, err
		}

		return doc.Bool(false), nil
	case 'n':
		if err := parse.Literal("null")(p.s); err != nil {
			return nil, err
		}

		return doc.Null{}, nil
	}

	return p.number()
}

func (p *parser) object() (doc.Value, error) {
	if err := parse.Ch('{')(p.s); err != nil {
		return nil, err
	}

	b := doc.NewObjectBuilder()

	p.ws()

	if c, ok := p.s.Peek(); ok && c == '}' {
		p.s.Next()
		return b.Result(), nil
	}

	for {
		p.ws()

		key, err := p.string()
		if err != nil {
			return nil, err
		}

		p.ws()

		if err := parse.Ch(':')(p.s); err != nil {
			return nil, err
		}

		p.ws()

		v, err := p.value()
		if err != nil {
			return nil, err
		}

		b.Put(key, v)

		p.ws()

		c, ok := p.s.Next()
		if !ok {
			return nil, &parse.Error{Offset: p.s.Pos(), Kind: parse.EndOfInput, Want: "',' or '}'"}
		}

		switch c {
		case ',':
			continue
		case '}':
			return b.Result(), nil
		default:
			return nil, &parse.Error{Offset: p.s.Pos() - 1, Kind: parse.Expected, Want: "',' or '}'"}
		}
	}
}

func (p *parser) array() (doc.Value, error) {
	if err := parse.Ch('[')(p.s); err != nil {
		return nil, err
	}

	b := doc.NewArrayBuilder()

	p.ws()

	if c, ok := p.s.Peek(); ok && c == ']' {
		p.s.Next()
		return b.Result(), nil
	}

	for {
		p.ws()

		v, err := p.value()
		if err != nil {
			return nil, err
		}

		b.Add(v)

		p.ws()

		c, ok := p.s.Next()
		if !ok {
			return nil, &parse.Error{Offset: p.s.Pos(), Kind: parse.EndOfInput, Want: "',' or ']'"}
		}

		switch c {
		case ',':
			continue
		case ']':
			return b.Result(), nil
		default:
			return nil, &parse.Error{Offset: p.s.Pos() - 1, Kind: parse.Expected, Want: "',' or ']'"}
		}
	}
}

func (p *parser) string() (string, error) {
	if err := parse.Ch('"')(p.s); err != nil {
		return "", err
	}

	var sb []byte

	for {
		c, ok := p.s.Next()
		if !ok {
			return "", &parse.Error{Offset: p.s.Pos(), Kind: parse.EndOfInput, Want: "'\"'"}
		}

		switch {
		case c == '"':
			return string(sb), nil
		case c == '\\':
			var err error

			sb, err = p.escape(sb)
			if err != nil {
				return "", err
			}
		case c < 0x20:
			return "", &parse.Error{Offset: p.s.Pos() - 1, Kind: parse.Expected, Want: "escaped control character"}
		default:
			sb = append(sb, c)
		}
	}
}

func (p *parser) escape(sb []byte) ([]byte, error) {
	c, ok := p.s.Next()
	if !ok {
		return nil, &parse.Error{Offset: p.s.Pos(), Kind: parse.EndOfInput, Want: "escape sequence"}
	}

	switch c {
	case '"', '\\', '/':
		return append(sb, c), nil
	case 'b':
		return append(sb, '\b'), nil
	case 'f':
		return append(sb, '\f'), nil
	case 'n':
		return append(sb, '\n'), nil
	case 'r':
		return append(sb, '\r'), nil
	case 't':
		return append(sb, '\t'), nil
	case 'u':
		return p.unicodeEscape(sb)
	}

	return nil, &parse.Error{Offset: p.s.Pos() - 1, Kind: parse.Expected, Want: "escape sequence"}
}

func (p *parser) unicodeEscape(sb []byte) ([]byte, error) {
	hi, err := p.hex4()
	if err != nil {
		return nil, err
	}

	r := rune(hi)

	if utf16.IsSurrogate(r) {
		// Code points above the BMP arrive as surrogate pairs.
		if err := parse.Literal(`\u`)(p.s); err != nil {
			return nil, &parse.Error{Offset: p.s.Pos(), Kind: parse.Expected, Want: "low surrogate"}
		}

		lo, err := p.hex4()
		if err != nil {
			return nil, err
		}

		r = utf16.DecodeRune(rune(hi), rune(lo))
		if r == utf8.RuneError {
			return nil, &parse.Error{Offset: p.s.Pos(), Kind: parse.Expected, Want: "valid surrogate pair"}
		}
	}

	return utf8.AppendRune(sb, r), nil
}

func (p *parser) hex4() (uint32, error) {
	var n uint32

	for range 4 {
		c, ok := p.s.Next()
		if !ok {
			return 0, &parse.Error{Offset: p.s.Pos(), Kind: parse.EndOfInput, Want: "hex digit"}
		}

		var d uint32

		switch {
		case c >= '0' && c <= '9':
			d = uint32(c - '0')
		case c >= 'a' && c <= 'f':
			d = uint32(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = uint32(c-'A') + 10
		default:
			return 0, &parse.Error{Offset: p.s.Pos() - 1, Kind: parse.Expected, Want: "hex digit"}
		}

		n = n<<4 | d
	}

	return n, nil
}

var (
	digit  = parse.Range('0', '9')
	digits = parse.Times(digit, 1, parse.Unbounded)

	// number is the RFC 8259 grammar: int [frac] [exp], with no leading
	// zeros on multi-digit integer parts.
	// A "0" integer part takes no further digits, so "01" stops after the
	// zero and the stray digit surfaces as a trailing-byte error.
	intPart = parse.Seq(parse.Opt(parse.Ch('-')), parse.Alt(
		parse.Ch('0'),
		parse.Seq(parse.Range('1', '9'), parse.Times(digit, 0, parse.Unbounded)),
	))
	fracPart = parse.Seq(parse.Ch('.'), digits)
	expPart  = parse.Seq(parse.AnyOf("eE"), parse.Opt(parse.AnyOf("+-")), digits)
)

func (p *parser) number() (doc.Value, error) {
	start := p.s.Pos()

	if err := intPart(p.s); err != nil {
		return nil, err
	}

	integral := true

	mark := p.s.Pos()
	if err := fracPart(p.s); err == nil {
		integral = false
	} else {
		p.s.SetPos(mark)
	}

	mark = p.s.Pos()
	if err := expPart(p.s); err == nil {
		integral = false
	} else {
		p.s.SetPos(mark)
	}

	lit := string(p.s.Slice(start, p.s.Pos()))

	if integral {
		if n, err := strconv.ParseInt(lit, 10, 64); err == nil {
			if n >= -1<<31 && n < 1<<31 {
				return doc.Int(int32(n)), nil
			}

			return doc.Long(n), nil
		}
		// Out of int64 range; fall through to arbitrary precision.
	}

	d, err := doc.ParseBigDecimal(lit)
	if err != nil {
		return nil, &parse.Error{Offset: start, Kind: parse.Expected, Want: "number"}
	}

	return d, nil
}
