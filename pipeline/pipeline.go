package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.streamy.dev/streamy/transform"
)

// Pipeline is an assembled chain: one source, the configured field
// transformers in order, one sink. Instances are single-threaded.
type Pipeline struct {
	src    transform.Source
	stages []transform.Simple
	sink   transform.Sink
	logger *slog.Logger
}

// New builds a pipeline from a loaded config. A nil logger discards logs.
func New(cfg *Config, logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	src, err := cfg.Source.build()
	if err != nil {
		return nil, fmt.Errorf("%w: source: %w", ErrInvalidConfig, err)
	}

	stages := make([]transform.Simple, 0, len(cfg.Transforms))

	for i, tc := range cfg.Transforms {
		stage, err := tc.build()
		if err != nil {
			return nil, fmt.Errorf("%w: transforms[%d]: %w", ErrInvalidConfig, i, err)
		}

		stages = append(stages, stage)
	}

	sink, err := cfg.Sink.build()
	if err != nil {
		return nil, fmt.Errorf("%w: sink: %w", ErrInvalidConfig, err)
	}

	return &Pipeline{src: src, stages: stages, sink: sink, logger: logger}, nil
}

// Process pushes one frame through the chain. The second return is false
// when any stage discarded the element.
func (p *Pipeline) Process(frame []byte) ([]byte, bool) {
	v, ok := p.src.Apply(frame)
	if !ok {
		return nil, false
	}

	for _, stage := range p.stages {
		v, ok = stage.Apply(v)
		if !ok {
			return nil, false
		}
	}

	return p.sink.Apply(v)
}

// Run reads newline-framed input from r, pushes every frame through the
// chain, and writes emitted frames to w, one per line. Output order
// matches input order; discarded frames are omitted. Run returns when the
// input is exhausted, the context is canceled, or a write fails.
func (p *Pipeline) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	var frames, emitted uint64

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	out := bufio.NewWriter(w)
	defer func() { _ = out.Flush() }()

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		frames++

		result, ok := p.Process(scanner.Bytes())
		if !ok {
			p.logger.Debug("frame discarded", "frame", frames)
			continue
		}

		emitted++

		if _, err := out.Write(result); err != nil {
			return fmt.Errorf("writing frame %d: %w", frames, err)
		}

		if err := out.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing frame %d: %w", frames, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	if err := out.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}

	p.logger.Info("pipeline finished",
		"frames", frames,
		"emitted", emitted,
		"discarded", frames-emitted,
	)

	return nil
}
