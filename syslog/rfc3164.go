package syslog

import (
	"go.streamy.dev/streamy/bind"
	"go.streamy.dev/streamy/doc"
	"go.streamy.dev/streamy/parse"
)

var months = [...]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// ParseRFC3164 parses one BSD syslog frame
// ("<PRI>Mmm dd hh:mm:ss HOSTNAME TAG[PID]: MSG") into a document using
// the configured binders. The config's mode is ignored; RFC 3164 has no
// length-cap knob.
func ParseRFC3164(frame []byte, cfg Config) (doc.Value, error) {
	p := &parser3164{
		s:   parse.NewScanner(frame),
		b:   doc.NewObjectBuilder(),
		bnd: cfg.Binding,
	}

	if err := p.run(); err != nil {
		return nil, malformed(p.s, err)
	}

	return p.b.Result(), nil
}

type parser3164 struct {
	s   *parse.Scanner
	b   *doc.ObjectBuilder
	bnd Binding
}

var (
	digit3164 = parse.Range('0', '9')

	// "Mmm dd hh:mm:ss": single-digit days are space-padded.
	timestamp3164 = parse.Seq(
		monthAbbrev(),
		parse.Ch(' '),
		parse.AnyOf(" 0123"),
		digit3164,
		parse.Ch(' '),
		digit3164, digit3164, parse.Ch(':'),
		digit3164, digit3164, parse.Ch(':'),
		digit3164, digit3164,
	)

	alnum = parse.Alt(
		parse.Range('a', 'z'),
		parse.Range('A', 'Z'),
		parse.Range('0', '9'),
	)
)

func monthAbbrev() parse.Parser {
	ps := make([]parse.Parser, len(months))
	for i, m := range months {
		ps[i] = parse.Literal(m)
	}

	return parse.Alt(ps...)
}

func (p *parser3164) run() error {
	if err := p.pri(); err != nil {
		return err
	}

	ts := parse.Capture(timestamp3164, func(raw []byte) error {
		return p.bindRaw(p.bnd.Timestamp, raw, p.s.Pos())
	})
	if err := ts(p.s); err != nil {
		return err
	}

	if err := parse.Ch(' ')(p.s); err != nil {
		return err
	}

	host := parse.Capture(
		parse.Times(parse.NoneOf(" "), 1, parse.Unbounded),
		func(raw []byte) error {
			return p.bindRaw(p.bnd.Hostname, raw, p.s.Pos())
		},
	)
	if err := host(p.s); err != nil {
		return err
	}

	if err := parse.Ch(' ')(p.s); err != nil {
		return err
	}

	tag := parse.Capture(parse.Times(alnum, 1, 32), func(raw []byte) error {
		return p.bindRaw(p.bnd.AppName, raw, p.s.Pos())
	})
	if err := tag(p.s); err != nil {
		return err
	}

	// Optional "[pid]".
	pid := parse.Seq(
		parse.Ch('['),
		parse.Capture(parse.Times(digit3164, 1, parse.Unbounded), func(raw []byte) error {
			return p.bindRaw(p.bnd.ProcID, raw, p.s.Pos())
		}),
		parse.Ch(']'),
	)
	if err := parse.Opt(pid)(p.s); err != nil {
		return err
	}

	if err := parse.Ch(':')(p.s); err != nil {
		return err
	}

	// CONTENT conventionally starts after one space.
	_ = parse.Opt(parse.Ch(' '))(p.s)

	return p.bindRaw(p.bnd.Message, p.s.Rest(), p.s.Pos())
}

func (p *parser3164) pri() error {
	if err := parse.Ch('<')(p.s); err != nil {
		return err
	}

	var pri int

	digits := parse.Capture(
		parse.Times(digit3164, 1, 3),
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

func (p *parser3164) bindRaw(bd bind.Binder, raw any, at int) error {
	if inert(bd) {
		return nil
	}

	if !bd.Bind(p.b, raw) {
		return &parse.Error{Offset: at, Kind: parse.Overflow, Want: bd.Key()}
	}

	return nil
}
