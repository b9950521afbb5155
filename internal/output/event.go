package output

import (
	"time"
)

// Event types, in the order a run emits them.
const (
	EventRunStarted      = "run.started"
	EventExemptions      = "exemption.summary"
	EventSelection       = "selection.summary"
	EventBranchDeleted   = "branch.deleted"
	EventNothingToDelete = "nothing.to.delete"
	EventRunFinished     = "run.finished"
)

// Event is one lifecycle record of a sweep run.
//
// In NDJSON mode sinks emit every Event as one JSON object per line. JSON mode
// folds the events into a single Summary document written on Close.
// Exactly one of the payload pointers is set, matching Type.
type Event struct {
	Type  string    `json:"type"`
	RunID string    `json:"run_id,omitempty"`
	Repo  string    `json:"repo,omitempty"`
	Time  time.Time `json:"time"`

	Start      *RunStart         `json:"start,omitempty"`
	Exemptions *ExemptionSummary `json:"exemptions,omitempty"`
	Selection  *SelectionSummary `json:"selection,omitempty"`
	Deletion   *BranchDeletion   `json:"deletion,omitempty"`

	ExitCode int    `json:"exit_code,omitempty"`
	Error    string `json:"error,omitempty"`
}

type RunStart struct {
	DryRun           bool      `json:"dry_run"`
	Exclusions       []string  `json:"exclusions"`
	MaxIdleDays      int       `json:"max_idle_days"`
	PullRequestState string    `json:"pr_state"`
	Now              time.Time `json:"now"`
	Cutoff           time.Time `json:"cutoff"`
}

type ExemptionSummary struct {
	DefaultBranch     string   `json:"default_branch"`
	Exclusions        []string `json:"exclusions"`
	DroppedExclusions []string `json:"dropped_exclusions,omitempty"`
	Protected         []string `json:"protected"`
	PullRequestBases  []string `json:"pull_request_bases"`
	PullRequestHeads  []string `json:"pull_request_heads"`
	Exempt            []string `json:"exempt"`
}

type SelectionSummary struct {
	TotalBranches     int       `json:"total_branches"`
	ExemptBranches    int       `json:"exempt_branches"`
	NotExemptBranches int       `json:"not_exempt_branches"`
	MaxIdleDays       int       `json:"max_idle_days"`
	Cutoff            time.Time `json:"cutoff"`
	Candidates        []string  `json:"candidates"`
}

type BranchDeletion struct {
	Branch     string    `json:"branch"`
	LastCommit time.Time `json:"last_commit"`
	DryRun     bool      `json:"dry_run"`
}
