package output

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// ReportSink writes a Markdown summary of the run on Close.
type ReportSink struct {
	path    string
	file    *os.File
	mu      sync.Mutex
	summary Summary
}

func NewReportSink(path string) (*ReportSink, error) {
	if path == "" {
		return nil, fmt.Errorf("report path required")
	}
	f, err := createFile(path)
	if err != nil {
		return nil, err
	}
	return &ReportSink{path: path, file: f}, nil
}

func (s *ReportSink) Write(e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary.apply(e)
	return nil
}

func (s *ReportSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.file.WriteString(renderReport(&s.summary))
	if closeErr := s.file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

func renderReport(s *Summary) string {
	var b strings.Builder

	mode := "live"
	if s.DryRun {
		mode = "dry-run"
	}

	b.WriteString("# Branch Sweep Report\n\n")
	fmt.Fprintf(&b, "- Repository: `%s`\n", s.Repo)
	fmt.Fprintf(&b, "- Run ID: `%s`\n", s.RunID)
	fmt.Fprintf(&b, "- Mode: %s\n", mode)
	fmt.Fprintf(&b, "- Idle cutoff: %s (%d day(s))\n", s.Cutoff.UTC().Format(timeLayout), s.MaxIdleDays)
	if s.DefaultBranch != "" {
		fmt.Fprintf(&b, "- Default branch: `%s`\n", s.DefaultBranch)
	}

	b.WriteString("\n## Summary\n\n")
	b.WriteString("| Metric | Count |\n|---|---|\n")
	fmt.Fprintf(&b, "| Branches | %d |\n", s.TotalBranches)
	fmt.Fprintf(&b, "| Exempt from delete | %d |\n", s.TotalBranches-s.NotExemptBranches)
	fmt.Fprintf(&b, "| Not exempt | %d |\n", s.NotExemptBranches)
	fmt.Fprintf(&b, "| Idle (selected) | %d |\n", len(s.Candidates))
	fmt.Fprintf(&b, "| Deleted | %d |\n", len(s.Deleted))

	if len(s.DroppedExclusions) > 0 {
		b.WriteString("\n## Ignored exclusions\n\n")
		b.WriteString("These names were requested for exclusion but no such branch exists:\n\n")
		for _, name := range s.DroppedExclusions {
			fmt.Fprintf(&b, "- `%s`\n", name)
		}
	}

	b.WriteString("\n## Deletions\n\n")
	if len(s.Deleted) == 0 {
		b.WriteString("There is no branch to delete.\n")
	} else {
		b.WriteString("| Branch | Last commit (UTC) | Action |\n|---|---|---|\n")
		for _, d := range s.Deleted {
			action := "deleted"
			if d.DryRun {
				action = "would delete"
			}
			fmt.Fprintf(&b, "| `%s` | %s | %s |\n", d.Branch, d.LastCommit.UTC().Format(timeLayout), action)
		}
	}

	if s.Error != "" {
		b.WriteString("\n## Run failed\n\n")
		fmt.Fprintf(&b, "```\n%s\n```\n", s.Error)
	}

	return b.String()
}
