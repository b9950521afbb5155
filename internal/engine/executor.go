package engine

import (
	"context"
	"time"

	"branchsweep/internal/output"
)

// EventWriter receives run events. *output.Manager satisfies it.
type EventWriter interface {
	Write(e output.Event) error
}

type DeletedBranch struct {
	Name       string
	LastCommit time.Time
	DryRun     bool
}

// ExecutionReport lists the branches handled by Execute, in order.
type ExecutionReport struct {
	Deleted []DeletedBranch
	DryRun  bool
}

// Execute deletes candidates in order, reporting each one to sink. In dry-run
// mode branches are looked up and reported but DeleteRef is never called.
//
// The first failing call aborts the run. Branches deleted before the failure
// stay deleted and are already in the returned report.
func Execute(ctx context.Context, repo Repository, dryRun bool, candidates []string, sink EventWriter) (ExecutionReport, error) {
	report := ExecutionReport{DryRun: dryRun}

	if len(candidates) == 0 {
		writeEvent(sink, output.Event{Type: output.EventNothingToDelete})
		return report, nil
	}

	for _, name := range candidates {
		if err := ctx.Err(); err != nil {
			return report, apiError("delete branch "+name, err)
		}

		branch, err := repo.GetBranch(ctx, name)
		if err != nil {
			return report, apiError("get branch "+name, err)
		}

		if !dryRun {
			if err := repo.DeleteRef(ctx, name); err != nil {
				return report, apiError("delete branch "+name, err)
			}
		}

		report.Deleted = append(report.Deleted, DeletedBranch{
			Name:       name,
			LastCommit: branch.LastCommit,
			DryRun:     dryRun,
		})
		writeEvent(sink, output.Event{
			Type: output.EventBranchDeleted,
			Deletion: &output.BranchDeletion{
				Branch:     name,
				LastCommit: branch.LastCommit,
				DryRun:     dryRun,
			},
		})
	}

	return report, nil
}

func writeEvent(sink EventWriter, e output.Event) {
	if sink == nil {
		return
	}
	_ = sink.Write(e)
}
