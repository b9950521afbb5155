package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"branchsweep/internal/config"
	"branchsweep/internal/engine"
	"branchsweep/internal/fetcher"
	"branchsweep/internal/flags"
	gh "branchsweep/internal/github"
	"branchsweep/internal/logging"
)

var (
	cfg        = config.New()
	configFile string
	authToken  string
)

const sweepHelpTemplate = `{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}Usage:
  {{.UseLine}}

{{if .HasAvailableLocalFlags}}Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableInheritedFlags}}Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}Environment:
	branchsweep authenticates to GitHub using an access token.

	Sources (in order):
	1) --token
	2) GH_TOKEN environment variable
	3) GITHUB_TOKEN environment variable
	4) GitHub CLI (gh) authentication via gh auth token (if gh is installed and logged in)

	Every flag can also be set as BRANCHSWEEP_<FLAG> (for example
	BRANCHSWEEP_MAX_IDLE_DAYS=30) or as a key in the --config YAML file.
	Flags given on the command line win.

  Token guidance (brief):
  - PAT (classic): needs repo.
  - Fine-grained PAT: grant access to the target repository with
    Contents: Read and write, Pull requests: Read.

{{if .HasAvailableSubCommands}}Available Commands:
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.
{{end}}`

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete branches that have been idle for too long",
	Long: `Delete branches of one GitHub repository whose last commit is older than
--max-idle-days.

Never deleted:
  - the default branch
  - protected branches
  - base and head branches of pull requests (see --pr-state)
  - branches named in --exclude-branches

--dry-run defaults to true: branches are listed with a (MOCK) marker and
nothing is deleted. Pass --dry-run false to delete.

Output:
	Console output is controlled by --console-format (default: text).
	Structured outputs can be written via:
	- --out / --out-format: write an aggregate JSON document or NDJSON stream to a file
	- --emit: write an additional structured stream to stdout (json or ndjson)
	- --report: write a Markdown summary
	- --no-console: suppress the console sink (use with --emit/--out for machine output)

	NDJSON mode emits one JSON object per line. Objects are lifecycle Events with a
	"type" field (run.started, exemption.summary, selection.summary, branch.deleted,
	nothing.to.delete, run.finished).

Exit codes:
	0 = success
	1 = any failure (bad input, repository not found, GitHub API error)

Examples:
  # Preview
  branchsweep sweep --repo-url https://github.com/org/repo --max-idle-days 30

  # Delete, keeping two release branches
  branchsweep sweep --repo-url git@github.com:org/repo.git --max-idle-days 30 \
    --exclude-branches release-1,release-2 --dry-run false

	# Machine-readable events on stdout
	branchsweep sweep --repo-url org/repo --max-idle-days 7 --no-console --emit ndjson
`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runSweep(cmd.Context(), cmd.Flags(), cfg, os.Stdout, os.Stderr))
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
	sweepCmd.SetHelpTemplate(sweepHelpTemplate)

	registerSweepFlags(sweepCmd.Flags(), cfg)
}

func registerSweepFlags(fs *pflag.FlagSet, cfg *config.Config) {
	// Target
	fs.StringVar(&cfg.Target.RepoURL, flags.FlagRepoURL, "", "Repository to sweep: https://github.com/OWNER/REPO, github.com/OWNER/REPO or git@github.com:OWNER/REPO.git (required)")
	fs.StringVar(&cfg.Target.APIURL, flags.FlagAPIURL, "", "GitHub Enterprise Server API base, e.g. https://ghe.example.com/api/v3/ (default: api.github.com)")
	fs.StringVar(&authToken, flags.FlagToken, "", "GitHub access token (default: GH_TOKEN, GITHUB_TOKEN, then gh auth token)")

	// Selection
	fs.StringVar(&cfg.Selection.ExcludeBranches, flags.FlagExcludeBranches, "", "Comma-separated branch names never to delete")
	fs.StringVar(&cfg.Selection.MaxIdleDaysRaw, flags.FlagMaxIdleDays, "", "Delete branches without a commit in this many days (integer, 0 or more; required)")
	fs.StringVar(&cfg.Selection.PullRequestState, flags.FlagPullRequestState, cfg.Selection.PullRequestState, "Pull requests whose branches are kept: open|closed|all")
	fs.BoolVar(&cfg.Selection.DryRun, flags.FlagDryRun, cfg.Selection.DryRun, "Report deletions without performing them: true|false (both --dry-run false and --dry-run=false work)")
	// Require a value so "--dry-run false" is not read as a positional argument.
	fs.Lookup(flags.FlagDryRun).NoOptDefVal = ""

	// Output
	fs.StringVar(&cfg.Output.ConsoleFormat, flags.FlagConsoleFormat, cfg.Output.ConsoleFormat, "Console output format: text|json|ndjson")
	fs.StringVar(&cfg.Output.Report, flags.FlagReport, "", "Write a Markdown report to this path")
	fs.StringVar(&cfg.Output.Out, flags.FlagOut, "", "Write structured output to this path")
	fs.StringVar(&cfg.Output.OutFormat, flags.FlagOutFormat, "", "Structured output format for --out: json|ndjson (default: inferred from file extension)")
	fs.StringSliceVar(&cfg.Output.Emit, flags.FlagEmit, nil, "Emit additional structured stream to stdout: json|ndjson (repeatable; comma-separated accepted)")
	fs.BoolVar(&cfg.Output.NoConsole, flags.FlagNoConsole, false, "Suppress console output (use with --emit/--out/--report)")

	// Runtime
	fs.StringVar(&configFile, flags.FlagConfig, "", "Read flag values from this YAML file")
	fs.DurationVar(&cfg.Runtime.Timeout, flags.FlagTimeout, cfg.Runtime.Timeout, "Global timeout for the whole run")
}

// runSweep wires configuration, logging, the GitHub client and the engine,
// and returns the process exit code.
func runSweep(ctx context.Context, flagSet *pflag.FlagSet, cfg *config.Config, stdout, stderr io.Writer) int {
	if ctx == nil {
		ctx = context.Background()
	}
	fail := func(err error) int {
		fmt.Fprintf(stderr, "❌ Error: %s\n", engine.ErrorMessage(err, cfg.Runtime.Verbose))
		return 1
	}

	if _, err := config.Load(flagSet, configFile, flags.FlagConfig); err != nil {
		return fail(engine.ConfigurationError(err))
	}
	if err := cfg.Validate(); err != nil {
		return fail(engine.ConfigurationError(err))
	}

	logger, err := newLogger(cfg, stderr)
	if err != nil {
		return fail(engine.ConfigurationError(err))
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(ctx, cfg.Runtime.Timeout)
	defer cancel()

	token, source, err := gh.ResolveAuthToken(ctx, authToken, cfg.Target.Repo.Host)
	if err != nil {
		return fail(engine.ConfigurationError(fmt.Errorf("failed to resolve GitHub auth token: %w", err)))
	}
	if strings.TrimSpace(token) == "" {
		return fail(engine.ConfigurationError(errors.New("GitHub auth token is required (pass --token, set GH_TOKEN or GITHUB_TOKEN, or run 'gh auth login')")))
	}
	logger.Debug("resolved auth token", zap.String("source", string(source)))

	client, err := gh.NewClient(ctx, token,
		gh.WithVerbose(cfg.Runtime.Verbose, logger),
		gh.WithEnterpriseURL(cfg.Target.APIURL),
		gh.WithTimeout(cfg.Runtime.Timeout),
	)
	if err != nil {
		return fail(engine.ConfigurationError(fmt.Errorf("failed to create GitHub client: %w", err)))
	}

	repo, err := fetcher.NewFetcher(client, fetcher.NewRequestBudget(), cfg.Target.Repo.Owner, cfg.Target.Repo.Name,
		fetcher.WithPullRequestState(cfg.Selection.PullRequestState),
		fetcher.WithLogger(logger),
	)
	if err != nil {
		return fail(engine.ConfigurationError(err))
	}

	eng := engine.NewEngine(repo, logger, engine.WithStreams(stdout, stderr))
	return eng.Run(ctx, cfg)
}

// newLogger builds the diagnostic logger. --verbose raises the level to at
// least info so per-request lines are visible.
func newLogger(cfg *config.Config, w io.Writer) (*zap.Logger, error) {
	level := logging.LogLevel(cfg.Runtime.LogLevel)
	if cfg.Runtime.Verbose && (level == logging.LogLevelWarn || level == logging.LogLevelError) {
		level = logging.LogLevelInfo
	}
	factory := logging.NewLoggerFactory()
	factory.Writer = w
	return factory.CreateLogger(level, logging.LogFormat(cfg.Runtime.LogFormat))
}
