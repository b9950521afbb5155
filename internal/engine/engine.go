package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"branchsweep/internal/config"
	"branchsweep/internal/output"
)

func setupOutputManager(cfg *config.Config, stdout io.Writer) (*output.Manager, error) {
	outMgr := output.NewManager()

	// Console Sink
	if !cfg.Output.NoConsole {
		if err := outMgr.AddSink(output.NewConsoleSink(stdout, cfg.Output.ConsoleFormat)); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// Emit Sinks (additional structured streams)
	for _, emit := range cfg.Output.Emit {
		es, err := output.NewEmitSink(stdout, emit)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(es); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// File Sink
	if cfg.Output.Out != "" {
		fs, err := output.NewFileSink(cfg.Output.Out, cfg.Output.OutFormat)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(fs); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// Report Sink
	if cfg.Output.Report != "" {
		rs, err := output.NewReportSink(cfg.Output.Report)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(rs); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	return outMgr, nil
}

// runWriter stamps run identity and time onto every event.
type runWriter struct {
	next  EventWriter
	runID string
	repo  string
	now   func() time.Time
}

func (w *runWriter) Write(e output.Event) error {
	if e.RunID == "" {
		e.RunID = w.runID
	}
	if e.Repo == "" {
		e.Repo = w.repo
	}
	if e.Time.IsZero() {
		e.Time = w.now().UTC()
	}
	return w.next.Write(e)
}

// Result is everything a sweep decided and did.
type Result struct {
	Now        time.Time
	Cutoff     time.Time
	Branches   int
	Exemptions Exemptions
	Candidates []string
	NotExempt  int
	Execution  ExecutionReport
}

type Engine struct {
	Repo   Repository
	Logger *zap.Logger

	now      func() time.Time
	newRunID func() string
	stdout   io.Writer
	stderr   io.Writer
}

type Option func(*Engine)

// WithClock replaces time.Now, used for the idle cutoff and event times.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func WithRunIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newRunID = fn
		}
	}
}

// WithStreams redirects console output and error diagnostics.
func WithStreams(stdout, stderr io.Writer) Option {
	return func(e *Engine) {
		if stdout != nil {
			e.stdout = stdout
		}
		if stderr != nil {
			e.stderr = stderr
		}
	}
}

func NewEngine(repo Repository, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		Repo:     repo,
		Logger:   logger,
		now:      time.Now,
		newRunID: uuid.NewString,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run performs one sweep with the configured sinks and returns the process
// exit code: 0 on success, 1 on any failure.
func (e *Engine) Run(ctx context.Context, cfg *config.Config) int {
	outMgr, err := setupOutputManager(cfg, e.stdout)
	if err != nil {
		e.reportError(ConfigurationError(fmt.Errorf("create output sinks: %w", err)), cfg.Runtime.Verbose)
		return 1
	}
	defer outMgr.Close()

	w := &runWriter{
		next:  outMgr,
		runID: e.newRunID(),
		repo:  cfg.Target.Repo.FullName(),
		now:   e.now,
	}

	if _, err := e.Sweep(ctx, cfg, w); err != nil {
		msg := ErrorMessage(err, cfg.Runtime.Verbose)
		_ = w.Write(output.Event{Type: output.EventRunFinished, ExitCode: 1, Error: msg})
		e.reportError(err, cfg.Runtime.Verbose)
		return 1
	}

	_ = w.Write(output.Event{Type: output.EventRunFinished})
	return 0
}

func (e *Engine) reportError(err error, verbose bool) {
	fmt.Fprintf(e.stderr, "❌ Error: %s\n", ErrorMessage(err, verbose))
}

// Sweep runs the pipeline: normalize exclusions, fetch listings, build the
// exemption set, select idle branches and delete them.
func (e *Engine) Sweep(ctx context.Context, cfg *config.Config, sink EventWriter) (Result, error) {
	var res Result
	if e.Repo == nil {
		return res, ConfigurationError(errors.New("no repository configured"))
	}
	if cfg.Selection.MaxIdleDays < 0 {
		return res, ConfigurationError(errors.New("--max-idle-days must be an integer (0 or more)"))
	}

	repoName := cfg.Target.Repo.FullName()
	exclusions := NormalizeExclusions(cfg.Selection.ExcludeBranches)
	res.Now = e.now().UTC()
	res.Cutoff = IdleCutoff(res.Now, cfg.Selection.MaxIdleDays)

	writeEvent(sink, output.Event{
		Type: output.EventRunStarted,
		Start: &output.RunStart{
			DryRun:           cfg.Selection.DryRun,
			Exclusions:       exclusions.Sorted(),
			MaxIdleDays:      cfg.Selection.MaxIdleDays,
			PullRequestState: cfg.Selection.PullRequestState,
			Now:              res.Now,
			Cutoff:           res.Cutoff,
		},
	})
	e.Logger.Debug("sweep started",
		zap.String("repo", repoName),
		zap.Bool("dry_run", cfg.Selection.DryRun),
		zap.Time("cutoff", res.Cutoff),
	)

	defaultBranch, err := e.Repo.DefaultBranchName(ctx)
	if err != nil {
		return res, lookupError(repoName, err)
	}

	branches, err := e.Repo.ListBranches(ctx)
	if err != nil {
		return res, apiError("list branches", err)
	}
	res.Branches = len(branches)

	pulls, err := e.Repo.ListPullRequests(ctx)
	if err != nil {
		return res, apiError("list pull requests", err)
	}

	res.Exemptions = ComputeExemptions(branches, pulls, defaultBranch, exclusions, e.Logger)
	writeEvent(sink, output.Event{
		Type: output.EventExemptions,
		Exemptions: &output.ExemptionSummary{
			DefaultBranch:     defaultBranch,
			Exclusions:        res.Exemptions.Exclusions,
			DroppedExclusions: res.Exemptions.DroppedExclusions,
			Protected:         res.Exemptions.Protected,
			PullRequestBases:  res.Exemptions.PullRequestBases,
			PullRequestHeads:  res.Exemptions.PullRequestHeads,
			Exempt:            res.Exemptions.Set.Sorted(),
		},
	})

	res.Candidates, res.NotExempt = SelectForDeletion(branches, res.Exemptions.Set, res.Cutoff)
	writeEvent(sink, output.Event{
		Type: output.EventSelection,
		Selection: &output.SelectionSummary{
			TotalBranches:     len(branches),
			ExemptBranches:    len(branches) - res.NotExempt,
			NotExemptBranches: res.NotExempt,
			MaxIdleDays:       cfg.Selection.MaxIdleDays,
			Cutoff:            res.Cutoff,
			Candidates:        res.Candidates,
		},
	})

	res.Execution, err = Execute(ctx, e.Repo, cfg.Selection.DryRun, res.Candidates, sink)
	if err != nil {
		return res, err
	}
	return res, nil
}
