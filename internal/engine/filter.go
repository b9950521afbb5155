package engine

import (
	"time"

	"branchsweep/internal/data/models"
)

// IdleCutoff is the instant before which a branch's last commit makes it idle.
// Days are calendar days in UTC, so large values move the cutoff further into
// the past instead of overflowing a time.Duration.
func IdleCutoff(now time.Time, maxIdleDays int) time.Time {
	return now.UTC().AddDate(0, 0, -maxIdleDays)
}

// SelectForDeletion walks branches in listing order and returns the names of
// non-exempt branches whose last commit is strictly before cutoff, plus the
// number of non-exempt branches seen.
func SelectForDeletion(branches []models.Branch, exemptions BranchSet, cutoff time.Time) (candidates []string, notExempt int) {
	for _, b := range branches {
		if exemptions.Has(b.Name) {
			continue
		}
		notExempt++
		if b.LastCommit.Before(cutoff) {
			candidates = append(candidates, b.Name)
		}
	}
	return candidates, notExempt
}
