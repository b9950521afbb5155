package output

import "time"

var testNow = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

// sampleRun is the event sequence of a dry run that selects two branches.
func sampleRun() []Event {
	cutoff := testNow.AddDate(0, 0, -7)
	return []Event{
		{Type: EventRunStarted, RunID: "run-1", Repo: "acme/widgets", Time: testNow, Start: &RunStart{
			DryRun: true, Exclusions: []string{"keep", "ghost"}, MaxIdleDays: 7, PullRequestState: "open", Now: testNow, Cutoff: cutoff,
		}},
		{Type: EventExemptions, RunID: "run-1", Repo: "acme/widgets", Time: testNow, Exemptions: &ExemptionSummary{
			DefaultBranch:     "main",
			Exclusions:        []string{"keep"},
			DroppedExclusions: []string{"ghost"},
			Protected:         []string{"release"},
			PullRequestBases:  []string{"main"},
			PullRequestHeads:  []string{"feature/open"},
			Exempt:            []string{"feature/open", "keep", "main", "release"},
		}},
		{Type: EventSelection, RunID: "run-1", Repo: "acme/widgets", Time: testNow, Selection: &SelectionSummary{
			TotalBranches: 7, ExemptBranches: 4, NotExemptBranches: 3, MaxIdleDays: 7, Cutoff: cutoff,
			Candidates: []string{"old-1", "old-2"},
		}},
		{Type: EventBranchDeleted, RunID: "run-1", Repo: "acme/widgets", Time: testNow, Deletion: &BranchDeletion{
			Branch: "old-1", LastCommit: testNow.AddDate(0, 0, -12), DryRun: true,
		}},
		{Type: EventBranchDeleted, RunID: "run-1", Repo: "acme/widgets", Time: testNow, Deletion: &BranchDeletion{
			Branch: "old-2", LastCommit: testNow.AddDate(0, 0, -20), DryRun: true,
		}},
		{Type: EventRunFinished, RunID: "run-1", Repo: "acme/widgets", Time: testNow},
	}
}
