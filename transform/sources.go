package transform

import (
	"go.streamy.dev/streamy/doc"
	"go.streamy.dev/streamy/docjson"
	"go.streamy.dev/streamy/syslog"
)

// fallbackKey is where an undecodable frame lands when a source skips
// instead of discarding.
const fallbackKey = "message"

// JSONSource decodes JSON frames into documents. On a malformed frame the
// [OnError] policy applies: skip wraps the raw frame under "message" so no
// input is lost, discard drops it.
type JSONSource struct {
	onError OnError
}

// NewJSONSource builds a JSON source.
func NewJSONSource(onError OnError) *JSONSource {
	return &JSONSource{onError: onError}
}

// Apply decodes one frame.
func (s *JSONSource) Apply(frame []byte) (doc.Value, bool) {
	v, err := docjson.Parse(frame)
	if err != nil {
		return recoverFrame(frame, s.onError)
	}

	return v, true
}

// SyslogFormat selects the wire grammar of a syslog source or sink.
type SyslogFormat int

const (
	// RFC5424 is the modern syslog protocol.
	RFC5424 SyslogFormat = iota
	// RFC3164 is the BSD syslog format.
	RFC3164
)

// SyslogSource decodes syslog frames into documents through the configured
// binders, with the same error recovery as [JSONSource].
type SyslogSource struct {
	format  SyslogFormat
	cfg     syslog.Config
	onError OnError
}

// NewSyslogSource builds a syslog source.
func NewSyslogSource(format SyslogFormat, cfg syslog.Config, onError OnError) *SyslogSource {
	return &SyslogSource{format: format, cfg: cfg, onError: onError}
}

// Apply decodes one frame.
func (s *SyslogSource) Apply(frame []byte) (doc.Value, bool) {
	var (
		v   doc.Value
		err error
	)

	if s.format == RFC3164 {
		v, err = syslog.ParseRFC3164(frame, s.cfg)
	} else {
		v, err = syslog.ParseRFC5424(frame, s.cfg)
	}

	if err != nil {
		return recoverFrame(frame, s.onError)
	}

	return v, true
}

func recoverFrame(frame []byte, policy OnError) (doc.Value, bool) {
	if policy == ErrorDiscard {
		return nil, false
	}

	b := doc.NewObjectBuilder()
	b.Put(fallbackKey, doc.String(frame))

	return b.Result(), true
}
