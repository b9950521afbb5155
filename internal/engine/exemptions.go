package engine

import (
	"branchsweep/internal/data/models"

	"go.uber.org/zap"
)

// Exemptions is the breakdown behind an exemption set. Set is the union of
// everything else; the slices exist for reporting.
type Exemptions struct {
	Set BranchSet

	DefaultBranch string
	// Exclusions are the user exclusions that name an existing branch, sorted.
	Exclusions []string
	// DroppedExclusions are user exclusions with no matching branch, sorted.
	DroppedExclusions []string
	// Protected branches in listing order.
	Protected []string
	// Pull request refs in pull request order, without duplicates.
	PullRequestBases []string
	PullRequestHeads []string
}

// BuildExemptions returns the names of branches that must never be deleted.
func BuildExemptions(branches []models.Branch, pulls []models.PullRequest, defaultBranch string, userExclusions BranchSet, logger *zap.Logger) BranchSet {
	return ComputeExemptions(branches, pulls, defaultBranch, userExclusions, logger).Set
}

// ComputeExemptions builds the exemption set from:
//   - user exclusions that match an existing branch
//   - the default branch
//   - every protected branch
//   - the base and head of every listed pull request
//
// Pull request refs that do not name a branch of the listing (for example a
// head in a fork) are ignored; they could never be a deletion candidate.
func ComputeExemptions(branches []models.Branch, pulls []models.PullRequest, defaultBranch string, userExclusions BranchSet, logger *zap.Logger) Exemptions {
	if logger == nil {
		logger = zap.NewNop()
	}

	known := NewBranchSet(models.BranchNames(branches)...)
	x := Exemptions{
		Set:           BranchSet{},
		DefaultBranch: defaultBranch,
	}

	refined := BranchSet{}
	dropped := BranchSet{}
	for name := range userExclusions {
		if known.Has(name) {
			refined.Add(name)
		} else {
			dropped.Add(name)
		}
	}
	x.Exclusions = refined.Sorted()
	x.DroppedExclusions = dropped.Sorted()
	for _, name := range x.DroppedExclusions {
		logger.Warn("ignoring exclusion for unknown branch", zap.String("branch", name))
	}
	if len(x.Exclusions) > 0 {
		logger.Info("refined user exclusions", zap.Strings("branches", x.Exclusions))
	}
	for _, name := range x.Exclusions {
		x.Set.Add(name)
	}

	x.Set.Add(defaultBranch)
	logger.Info("exempting default branch", zap.String("branch", defaultBranch))

	for _, b := range branches {
		if !b.Protected {
			continue
		}
		x.Protected = append(x.Protected, b.Name)
		x.Set.Add(b.Name)
		logger.Info("exempting protected branch", zap.String("branch", b.Name))
	}

	bases := BranchSet{}
	heads := BranchSet{}
	for _, pr := range pulls {
		if known.Has(pr.Base) && !bases.Has(pr.Base) {
			bases.Add(pr.Base)
			x.PullRequestBases = append(x.PullRequestBases, pr.Base)
			x.Set.Add(pr.Base)
		}
		if !known.Has(pr.Head) {
			if pr.Head != "" {
				logger.Debug("ignoring pull request head outside listing", zap.Int("number", pr.Number), zap.String("branch", pr.Head))
			}
			continue
		}
		if heads.Has(pr.Head) {
			continue
		}
		heads.Add(pr.Head)
		x.PullRequestHeads = append(x.PullRequestHeads, pr.Head)
		x.Set.Add(pr.Head)
		logger.Info("exempting pull request head branch", zap.Int("number", pr.Number), zap.String("branch", pr.Head))
	}

	return x
}
