package output

import (
	"encoding/json"
	"io"
)

type flusher interface {
	Flush() error
}

func flushIfPossible(w io.Writer) error {
	f, ok := w.(flusher)
	if !ok {
		return nil
	}
	return f.Flush()
}

// writeNDJSON writes e as one line and flushes buffered writers so streaming
// consumers see it immediately.
func writeNDJSON(w io.Writer, e Event) error {
	if err := json.NewEncoder(w).Encode(e); err != nil {
		return err
	}
	return flushIfPossible(w)
}

func writeSummaryJSON(w io.Writer, s *Summary) error {
	s.normalize()
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(s); err != nil {
		return err
	}
	return flushIfPossible(w)
}
