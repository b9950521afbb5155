package output

import (
	"fmt"
	"io"
	"sync"
)

// EmitSink writes an additional structured stream.
//
// Formats:
//   - json: folds events into a Summary written on Close
//   - ndjson: streams every Event (one JSON object per line)
type EmitSink struct {
	writer  io.Writer
	format  string // "json" | "ndjson"
	mu      sync.Mutex
	summary Summary
}

func NewEmitSink(w io.Writer, format string) (*EmitSink, error) {
	if w == nil {
		return nil, fmt.Errorf("emit sink writer must not be nil")
	}
	if format != "json" && format != "ndjson" {
		return nil, fmt.Errorf("unsupported emit format: %s", format)
	}
	return &EmitSink{writer: w, format: format}, nil
}

func (s *EmitSink) Write(e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == "json" {
		s.summary.apply(e)
		return nil
	}
	return writeNDJSON(s.writer, e)
}

func (s *EmitSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == "json" {
		return writeSummaryJSON(s.writer, &s.summary)
	}
	return nil
}
