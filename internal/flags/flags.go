package flags

// Package flags defines canonical CLI flag names shared by the CLI and the
// configuration loader. Keys in the config file and BRANCHSWEEP_* environment
// variables are derived from these names.
// IMPORTANT: These are flag *names* without leading dashes.
// Example usage:
//
//	cmd.Flags().StringVar(&cfg.Target.RepoURL, flags.FlagRepoURL, "", "...")
//	arg := "--" + flags.FlagRepoURL
const (
	// Target
	FlagRepoURL = "repo-url"
	FlagAPIURL  = "api-url"
	FlagToken   = "token"

	// Selection
	FlagExcludeBranches  = "exclude-branches"
	FlagMaxIdleDays      = "max-idle-days"
	FlagPullRequestState = "pr-state"
	FlagDryRun           = "dry-run"

	// Output
	FlagConsoleFormat = "console-format"
	FlagReport        = "report"
	FlagOut           = "out"
	FlagOutFormat     = "out-format"
	FlagEmit          = "emit"
	FlagNoConsole     = "no-console"

	// Runtime
	FlagConfig    = "config"
	FlagTimeout   = "timeout"
	FlagVerbose   = "verbose"
	FlagLogLevel  = "log-level"
	FlagLogFormat = "log-format"
)
