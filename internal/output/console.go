package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

const (
	timeLayout    = "2006-01-02 15:04:05"
	separatorLine = "-------------------------------------------------------------------------------------------------"

	// Markers distinguishing simulated from real deletions.
	MarkerDryRun = "(MOCK) "
	MarkerLive   = "✅ "
)

type ConsoleSink struct {
	writer  io.Writer
	format  string // "text", "json", "ndjson"
	mu      sync.Mutex
	summary Summary
	red     *color.Color
}

func NewConsoleSink(w io.Writer, format string) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	if format == "" {
		format = "text"
	}
	return &ConsoleSink{
		writer: w,
		format: format,
		red:    color.New(color.FgRed),
	}
}

func (s *ConsoleSink) Write(e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.format {
	case "json":
		s.summary.apply(e)
		return nil
	case "ndjson":
		return writeNDJSON(s.writer, e)
	case "text":
		if err := s.writeText(e); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	default:
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
}

func (s *ConsoleSink) writeText(e Event) error {
	w := s.writer
	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}
	red := func(format string, args ...any) string {
		return s.red.Sprintf(format, args...)
	}

	switch e.Type {
	case EventRunStarted:
		if e.Start == nil {
			return nil
		}
		printf("\n🚀 Starting to Delete GitHub Branches (dry-run: %s, exclude-branches: %s, max-idle-days: %s)\n\n",
			red("%t", e.Start.DryRun), red("%s", formatSet(e.Start.Exclusions)), red("%d", e.Start.MaxIdleDays))
		printf("Current Time (UTC): %s\n\n", e.Start.Now.UTC().Format(timeLayout))
	case EventExemptions:
		x := e.Exemptions
		if x == nil {
			return nil
		}
		if len(x.Exclusions) > 0 {
			printf("Refined User Exclude Branch(es): %s\n", formatSet(x.Exclusions))
		}
		printf("Default Branch                 : %s\n", x.DefaultBranch)
		for _, b := range x.Protected {
			printf("Protected Branch               : %s\n", b)
		}
		for _, b := range x.PullRequestHeads {
			printf("Pull Request Head Branch       : %s\n", b)
		}
	case EventSelection:
		sel := e.Selection
		if sel == nil {
			return nil
		}
		printf("\nTotal Number of Branches                         : %d\n", sel.TotalBranches)
		printf("Total Number of Branches (Exempt-From-Delete)    : %d\n", sel.ExemptBranches)
		printf("Total Number of Branches (Not-Exempt-From-Delete): %d\n", sel.NotExemptBranches)
		printf("\n%s, %s\n",
			red("From %d Not-Exempt-From-Delete Branch(es)", sel.NotExemptBranches),
			red("%d had no commit in the last %d day(s)", len(sel.Candidates), sel.MaxIdleDays))
		printf("%s\n", separatorLine)
	case EventBranchDeleted:
		d := e.Deletion
		if d == nil {
			return nil
		}
		marker := MarkerLive
		if d.DryRun {
			marker = MarkerDryRun
		}
		printf("%sDelete branch - last update UTC %s: %s\n", marker, d.LastCommit.UTC().Format(timeLayout), d.Branch)
	case EventNothingToDelete:
		printf("There is no branch to delete\n")
	}
	return err
}

func formatSet(names []string) string {
	return "{" + strings.Join(names, ", ") + "}"
}

func (s *ConsoleSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.format {
	case "json":
		return writeSummaryJSON(s.writer, &s.summary)
	case "text", "ndjson":
		return nil
	default:
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
}
