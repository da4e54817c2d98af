package syslog

import (
	"go.streamy.dev/streamy/bind"
	"go.streamy.dev/streamy/doc"
	"go.streamy.dev/streamy/parse"
)

// ParseRFC5424 parses one RFC 5424 frame into a document using the
// configured binders. Mandatory fields carrying the NILVALUE "-" invoke no
// binder and produce no document field.
func ParseRFC5424(frame []byte, cfg Config) (doc.Value, error) {
	p := &parser5424{
		s:    parse.NewScanner(frame),
		b:    doc.NewObjectBuilder(),
		bnd:  cfg.Binding,
		caps: cfg.Mode.caps(),
	}

	if err := p.run(); err != nil {
		return nil, malformed(p.s, err)
	}

	return p.b.Result(), nil
}

type parser5424 struct {
	s    *parse.Scanner
	b    *doc.ObjectBuilder
	bnd  Binding
	caps caps
}

func (p *parser5424) run() error {
	if err := p.pri(); err != nil {
		return err
	}

	// VERSION, fixed at 1.
	if err := parse.Seq(parse.Ch('1'), parse.Ch(' '))(p.s); err != nil {
		return err
	}

	if err := p.token(p.bnd.Timestamp, 0, "timestamp"); err != nil {
		return err
	}

	if err := parse.Ch(' ')(p.s); err != nil {
		return err
	}

	if err := p.token(p.bnd.Hostname, p.caps.hostname, "hostname"); err != nil {
		return err
	}

	if err := parse.Ch(' ')(p.s); err != nil {
		return err
	}

	if err := p.token(p.bnd.AppName, p.caps.appName, "appName"); err != nil {
		return err
	}

	if err := parse.Ch(' ')(p.s); err != nil {
		return err
	}

	if err := p.token(p.bnd.ProcID, p.caps.procID, "procId"); err != nil {
		return err
	}

	if err := parse.Ch(' ')(p.s); err != nil {
		return err
	}

	if err := p.token(p.bnd.MsgID, p.caps.msgID, "msgId"); err != nil {
		return err
	}

	if err := parse.Ch(' ')(p.s); err != nil {
		return err
	}

	if err := p.structData(); err != nil {
		return err
	}

	// Optional SP MSG: the message is everything after the separator.
	if p.s.EOF() {
		return nil
	}

	if err := parse.Ch(' ')(p.s); err != nil {
		return err
	}

	return p.bindRaw(p.bnd.Message, p.s.Rest(), p.s.Pos())
}

// pri parses "<N>" with 0 <= N <= 191 and binds facility N/8 and
// severity N%8.
func (p *parser5424) pri() error {
	if err := parse.Ch('<')(p.s); err != nil {
		return err
	}

	var pri int

	digits := parse.Capture(
		parse.Times(parse.Range('0', '9'), 1, 3),
		func(raw []byte) error {
			for _, c := range raw {
				pri = pri*10 + int(c-'0')
			}

			if pri > 191 {
				return &parse.Error{Offset: p.s.Pos(), Kind: parse.Overflow, Want: "PRI <= 191"}
			}

			return nil
		},
	)

	if err := digits(p.s); err != nil {
		return err
	}

	if err := parse.Ch('>')(p.s); err != nil {
		return err
	}

	if err := p.bindRaw(p.bnd.Facility, int32(pri/8), p.s.Pos()); err != nil {
		return err
	}

	return p.bindRaw(p.bnd.Severity, int32(pri%8), p.s.Pos())
}

// token parses one header field: either the NILVALUE "-" (no binder call)
// or a run of non-space bytes, length-capped when cap is nonzero.
func (p *parser5424) token(bd bind.Binder, maxLen int, what string) error {
	start := p.s.Pos()

	if err := parse.Times(parse.NoneOf(" "), 1, parse.Unbounded)(p.s); err != nil {
		return err
	}

	raw := p.s.Slice(start, p.s.Pos())

	if len(raw) == 1 && raw[0] == '-' {
		return nil
	}

	if maxLen > 0 && len(raw) > maxLen {
		return &parse.Error{Offset: start, Kind: parse.Overflow, Want: what}
	}

	return p.bindRaw(bd, raw, start)
}

// structData parses STRUCTURED-DATA: the NILVALUE or one or more
// bracketed elements, captured as a single raw slice. Quoted param values
// may contain backslash-escaped bytes, including `\]` and `\"`.
func (p *parser5424) structData() error {
	start := p.s.Pos()

	c, ok := p.s.Peek()
	if !ok {
		return &parse.Error{Offset: start, Kind: parse.EndOfInput, Want: "structured data"}
	}

	if c == '-' {
		p.s.Next()
		return nil
	}

	if c != '[' {
		return &parse.Error{Offset: start, Kind: parse.Expected, Want: "'-' or '['"}
	}

	for {
		c, ok := p.s.Peek()
		if !ok || c != '[' {
			break
		}

		if err := p.sdElement(); err != nil {
			return err
		}
	}

	return p.bindRaw(p.bnd.StructData, p.s.Slice(start, p.s.Pos()), start)
}

func (p *parser5424) sdElement() error {
	p.s.Next() // consume '['

	inQuote := false

	for {
		c, ok := p.s.Next()
		if !ok {
			return &parse.Error{Offset: p.s.Pos(), Kind: parse.EndOfInput, Want: "']'"}
		}

		switch {
		case c == '\\':
			// Escapes only matter inside quotes, but skipping the next
			// byte unconditionally matches how producers escape.
			p.s.Next()
		case c == '"':
			inQuote = !inQuote
		case c == ']' && !inQuote:
			return nil
		}
	}
}

// bindRaw projects raw through bd into the document builder. Inert binders
// discard the capture; a rejecting binder fails the parse.
func (p *parser5424) bindRaw(bd bind.Binder, raw any, at int) error {
	if inert(bd) {
		return nil
	}

	if !bd.Bind(p.b, raw) {
		return &parse.Error{Offset: at, Kind: parse.Overflow, Want: bd.Key()}
	}

	return nil
}
