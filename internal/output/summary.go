package output

import "time"

// Summary is the aggregate view of one run, used by the json formats and the
// Markdown report.
type Summary struct {
	RunID             string           `json:"run_id"`
	Repo              string           `json:"repo"`
	DryRun            bool             `json:"dry_run"`
	MaxIdleDays       int              `json:"max_idle_days"`
	Cutoff            time.Time        `json:"cutoff"`
	DefaultBranch     string           `json:"default_branch,omitempty"`
	Exempt            []string         `json:"exempt"`
	DroppedExclusions []string         `json:"dropped_exclusions,omitempty"`
	TotalBranches     int              `json:"total_branches"`
	NotExemptBranches int              `json:"not_exempt_branches"`
	Candidates        []string         `json:"candidates"`
	Deleted           []BranchDeletion `json:"deleted"`
	Finished          bool             `json:"finished"`
	ExitCode          int              `json:"exit_code"`
	Error             string           `json:"error,omitempty"`
}

func (s *Summary) apply(e Event) {
	if e.RunID != "" {
		s.RunID = e.RunID
	}
	if e.Repo != "" {
		s.Repo = e.Repo
	}
	switch e.Type {
	case EventRunStarted:
		if e.Start != nil {
			s.DryRun = e.Start.DryRun
			s.MaxIdleDays = e.Start.MaxIdleDays
			s.Cutoff = e.Start.Cutoff
		}
	case EventExemptions:
		if e.Exemptions != nil {
			s.DefaultBranch = e.Exemptions.DefaultBranch
			s.Exempt = e.Exemptions.Exempt
			s.DroppedExclusions = e.Exemptions.DroppedExclusions
		}
	case EventSelection:
		if e.Selection != nil {
			s.TotalBranches = e.Selection.TotalBranches
			s.NotExemptBranches = e.Selection.NotExemptBranches
			s.Candidates = e.Selection.Candidates
		}
	case EventBranchDeleted:
		if e.Deletion != nil {
			s.Deleted = append(s.Deleted, *e.Deletion)
		}
	case EventRunFinished:
		s.Finished = true
		s.ExitCode = e.ExitCode
		s.Error = e.Error
	}
}

func (s *Summary) normalize() {
	if s.Exempt == nil {
		s.Exempt = []string{}
	}
	if s.Candidates == nil {
		s.Candidates = []string{}
	}
	if s.Deleted == nil {
		s.Deleted = []BranchDeletion{}
	}
}
