// Package pipeline assembles transformers into a runnable chain from a
// declarative YAML config and drives line-framed input through it.
//
// A pipeline is one source, zero or more field transformers, and one sink.
// Configs are validated against a JSON schema before binding, so a typo in
// a stage type or policy value fails loading instead of silently building
// the wrong chain. Per the transformer contract the chain is single-
// threaded per stream and preserves input order; discarded elements are
// simply omitted.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"

	"go.streamy.dev/streamy/doc"
	"go.streamy.dev/streamy/syslog"
	"go.streamy.dev/streamy/transform"
)

// ErrInvalidConfig indicates a config that failed schema validation or
// binding.
var ErrInvalidConfig = errors.New("invalid pipeline config")

// Config is the declarative form of a pipeline.
type Config struct {
	Source     SourceConfig      `yaml:"source"`
	Transforms []TransformConfig `yaml:"transforms"`
	Sink       SinkConfig        `yaml:"sink"`
}

// SourceConfig selects and configures the frame decoder.
type SourceConfig struct {
	// Type is one of "json", "syslog-rfc5424", "syslog-rfc3164".
	Type string `yaml:"type"`
	// Mode is the syslog cap profile, "strict" (default) or "lenient".
	Mode string `yaml:"mode"`
	// OnError is "skip" (default; keeps the raw frame under "message")
	// or "discard".
	OnError string `yaml:"on_error"`
}

// TransformConfig configures one field transformer.
type TransformConfig struct {
	// Type is the transformer kind; "json" is the only one.
	Type string `yaml:"type"`
	// Mode is "deserialize" (default) or "serialize".
	Mode string `yaml:"mode"`
	// Source is the pointer to the field to read, e.g. "/message".
	Source string `yaml:"source"`
	// Target is where to write; "/" addresses the document root.
	// Omitted means in place; an empty string, like "/", addresses the
	// root.
	Target *string `yaml:"target"`
	// OnSuccess is "skip" (default) or "remove".
	OnSuccess string `yaml:"on_success"`
	// OnError is "skip" (default) or "discard".
	OnError string `yaml:"on_error"`
}

// SinkConfig selects the frame encoder.
type SinkConfig struct {
	// Type is one of "json", "syslog-rfc5424", "syslog-rfc3164".
	Type string `yaml:"type"`
}

// LoadConfig parses and validates a YAML pipeline config.
func LoadConfig(b []byte) (*Config, error) {
	var raw any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return &cfg, nil
}

func (c *SourceConfig) build() (transform.Source, error) {
	onErr, err := parseOnError(c.OnError)
	if err != nil {
		return nil, err
	}

	switch c.Type {
	case "json":
		return transform.NewJSONSource(onErr), nil
	case "syslog-rfc5424", "syslog-rfc3164":
		cfg := syslog.Config{Binding: syslog.DefaultBinding()}

		if c.Mode != "" {
			cfg.Mode, err = syslog.ParseMode(c.Mode)
			if err != nil {
				return nil, err
			}
		}

		return transform.NewSyslogSource(syslogFormat(c.Type), cfg, onErr), nil
	}

	return nil, fmt.Errorf("unknown source type %q", c.Type)
}

func (c *TransformConfig) build() (transform.Simple, error) {
	if c.Type != "json" {
		return nil, fmt.Errorf("unknown transform type %q", c.Type)
	}

	src, err := doc.ParsePointer(c.Source)
	if err != nil {
		return nil, err
	}

	tcfg := transform.Config{Source: src}

	if c.Target != nil {
		tgt, err := parseTarget(*c.Target)
		if err != nil {
			return nil, err
		}

		tcfg.Target = &tgt
	}

	if tcfg.OnSuccess, err = parseOnSuccess(c.OnSuccess); err != nil {
		return nil, err
	}

	if tcfg.OnError, err = parseOnError(c.OnError); err != nil {
		return nil, err
	}

	mode := transform.Deserialize
	if c.Mode == "serialize" {
		mode = transform.Serialize
	}

	return transform.NewJSON(mode, tcfg), nil
}

func (c *SinkConfig) build() (transform.Sink, error) {
	switch c.Type {
	case "json":
		return transform.NewJSONSink(), nil
	case "syslog-rfc5424", "syslog-rfc3164":
		return transform.NewSyslogSink(syslogFormat(c.Type), syslog.DefaultBinding()), nil
	}

	return nil, fmt.Errorf("unknown sink type %q", c.Type)
}

func syslogFormat(typ string) transform.SyslogFormat {
	if typ == "syslog-rfc3164" {
		return transform.RFC3164
	}

	return transform.RFC5424
}

// parseTarget treats "/" as the document root; everything else is an
// RFC 6901 pointer.
func parseTarget(s string) (doc.Pointer, error) {
	if s == "/" {
		return doc.Root, nil
	}

	return doc.ParsePointer(s)
}

func parseOnError(s string) (transform.OnError, error) {
	switch s {
	case "", "skip":
		return transform.ErrorSkip, nil
	case "discard":
		return transform.ErrorDiscard, nil
	}

	return 0, fmt.Errorf("unknown on_error policy %q", s)
}

func parseOnSuccess(s string) (transform.OnSuccess, error) {
	switch s {
	case "", "skip":
		return transform.SuccessSkip, nil
	case "remove":
		return transform.SuccessRemove, nil
	}

	return 0, fmt.Errorf("unknown on_success policy %q", s)
}
