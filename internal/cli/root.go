package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"branchsweep/internal/flags"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "branchsweep",
	Short: "Delete stale branches from a GitHub repository",
	Long: `branchsweep finds branches that have gone without a commit for a given number
of days and deletes them. The default branch, protected branches, branches
referenced by pull requests and branches you exclude are never touched.

Runs are dry runs unless --dry-run false is given.

Examples:
	# Show available commands and global flags
	branchsweep --help

	# Preview which branches would be deleted
	branchsweep sweep --repo-url https://github.com/org/repo --max-idle-days 30

	# Print build info
	branchsweep version

Output:
	By default, commands write human-readable output to stdout and diagnostics
	to stderr. Structured output is available via --emit and --out.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, flags.FlagVerbose, false, "Enable verbose logging (prints every GitHub API call and full error details)")
	rootCmd.PersistentFlags().StringVar(&cfg.Runtime.LogLevel, flags.FlagLogLevel, cfg.Runtime.LogLevel, "Diagnostic log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&cfg.Runtime.LogFormat, flags.FlagLogFormat, cfg.Runtime.LogFormat, "Diagnostic log format: console|structured")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
		os.Exit(1)
	}
}
