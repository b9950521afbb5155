package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const defaultHost = "github.com"

// MaxIdleDaysLimit bounds --max-idle-days to about a million years, well inside
// the range time.Time can represent.
const MaxIdleDaysLimit = 365_000_000

type Config struct {
	// MAINTAINER NOTE: If you add/change/remove config fields, keep these in sync:
	// - CLI flags in internal/cli/sweep.go
	// - flag name constants in internal/flags/flags.go
	Target    Target
	Selection Selection
	Output    Output
	Runtime   Runtime
}

type Target struct {
	// RepoURL is the repository to sweep (see --repo-url). Accepted forms:
	//   https://github.com/OWNER/REPO(.git)
	//   github.com/OWNER/REPO
	//   git@github.com:OWNER/REPO.git
	//   ssh://git@github.com/OWNER/REPO.git
	RepoURL string

	// APIURL points the client at a GitHub Enterprise Server REST base
	// (see --api-url). Empty means github.com.
	APIURL string

	// Repo is populated by Validate from RepoURL.
	Repo RepoRef
}

type Selection struct {
	// ExcludeBranches is the raw comma-separated exclusion list (see --exclude-branches).
	ExcludeBranches string

	// MaxIdleDaysRaw is the unparsed --max-idle-days value. Validate parses it
	// into MaxIdleDays so non-numeric input is reported as a configuration error.
	MaxIdleDaysRaw string

	// MaxIdleDays is the number of days without a commit after which a branch is idle.
	MaxIdleDays int

	// PullRequestState selects which pull requests exempt their refs (see --pr-state).
	// Allowed values: open, closed, all.
	PullRequestState string

	// DryRun reports deletions without performing them (see --dry-run).
	DryRun bool
}

type Output struct {
	// ConsoleFormat controls the console sink format (see --console-format).
	// Allowed values: text, json, ndjson.
	ConsoleFormat string

	// Report writes a Markdown summary to this path (see --report).
	Report string

	// Out writes structured output to this path (see --out).
	Out string

	// OutFormat selects the format for --out. Inferred from the extension when empty.
	OutFormat string

	// Emit writes an additional structured stream to stdout (see --emit).
	Emit []string

	// NoConsole suppresses the console sink (see --no-console).
	NoConsole bool
}

type Runtime struct {
	// Timeout bounds the whole run, including every GitHub call (see --timeout).
	Timeout time.Duration

	// Verbose logs every GitHub API call and full error details.
	Verbose bool

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// LogFormat is one of console, structured.
	LogFormat string
}

// RepoRef identifies a repository on a GitHub host.
type RepoRef struct {
	Host  string
	Owner string
	Name  string
}

func (r RepoRef) FullName() string {
	if r.Owner == "" || r.Name == "" {
		return ""
	}
	return r.Owner + "/" + r.Name
}

func New() *Config {
	return &Config{
		Selection: Selection{
			PullRequestState: "open",
			DryRun:           true,
		},
		Output: Output{
			ConsoleFormat: "text",
		},
		Runtime: Runtime{
			Timeout:   10 * time.Minute,
			LogLevel:  "warn",
			LogFormat: "console",
		},
	}
}

func (c *Config) Validate() error {
	c.Output.Emit = splitCommaList(c.Output.Emit)

	// Target
	expectedHost := defaultHost
	c.Target.APIURL = strings.TrimSpace(c.Target.APIURL)
	if c.Target.APIURL != "" {
		u, err := url.Parse(c.Target.APIURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid --api-url value: %q", c.Target.APIURL)
		}
		expectedHost = strings.ToLower(u.Hostname())
	}

	c.Target.RepoURL = strings.TrimSpace(c.Target.RepoURL)
	if c.Target.RepoURL == "" {
		return errors.New("--repo-url is required")
	}
	ref, err := ParseRepoURL(c.Target.RepoURL)
	if err != nil {
		return fmt.Errorf("invalid --repo-url value: %w", err)
	}
	if ref.Host != expectedHost {
		return fmt.Errorf("invalid --repo-url value: host %q does not match %q (set --api-url for GitHub Enterprise)", ref.Host, expectedHost)
	}
	c.Target.Repo = ref

	// Selection
	raw := strings.TrimSpace(c.Selection.MaxIdleDaysRaw)
	if raw == "" {
		return errors.New("--max-idle-days is required")
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("--max-idle-days must be an integer (0 or more), got %q", raw)
	}
	if days < 0 {
		return errors.New("--max-idle-days must be an integer (0 or more)")
	}
	if days > MaxIdleDaysLimit {
		return fmt.Errorf("--max-idle-days must be at most %d, got %d", MaxIdleDaysLimit, days)
	}
	c.Selection.MaxIdleDays = days

	c.Selection.PullRequestState = normalizeEnumValue(c.Selection.PullRequestState)
	if c.Selection.PullRequestState == "" {
		c.Selection.PullRequestState = "open"
	}
	if c.Selection.PullRequestState != "open" && c.Selection.PullRequestState != "closed" && c.Selection.PullRequestState != "all" {
		return fmt.Errorf("unsupported --pr-state: %s (must be one of: open, closed, all)", c.Selection.PullRequestState)
	}

	// Output
	c.Output.ConsoleFormat = normalizeEnumValue(c.Output.ConsoleFormat)
	if c.Output.ConsoleFormat == "" {
		return errors.New("--console-format must be one of: text, json, ndjson")
	}
	if c.Output.ConsoleFormat != "text" && c.Output.ConsoleFormat != "json" && c.Output.ConsoleFormat != "ndjson" {
		return fmt.Errorf("unsupported --console-format: %s (must be one of: text, json, ndjson)", c.Output.ConsoleFormat)
	}

	for _, emit := range c.Output.Emit {
		v := normalizeEnumValue(emit)
		if v != "json" && v != "ndjson" {
			return fmt.Errorf("unsupported --emit value: %s (must be one of: json, ndjson)", v)
		}
	}

	if c.Output.Out != "" {
		c.Output.OutFormat = normalizeEnumValue(c.Output.OutFormat)
		if c.Output.OutFormat == "" {
			ext := strings.ToLower(filepath.Ext(c.Output.Out))
			switch ext {
			case ".json":
				c.Output.OutFormat = "json"
			case ".ndjson", ".jsonl":
				c.Output.OutFormat = "ndjson"
			default:
				if ext == "" {
					return errors.New("cannot infer output format from file extension (missing extension); use --out-format")
				}
				return fmt.Errorf("cannot infer output format from file extension %q; use --out-format", ext)
			}
		} else if c.Output.OutFormat != "json" && c.Output.OutFormat != "ndjson" {
			return fmt.Errorf("unsupported output format: %s", c.Output.OutFormat)
		}
	}

	// Runtime
	if c.Runtime.Timeout <= 0 {
		return errors.New("--timeout must be > 0")
	}
	c.Runtime.LogLevel = normalizeEnumValue(c.Runtime.LogLevel)
	c.Runtime.LogFormat = normalizeEnumValue(c.Runtime.LogFormat)

	return nil
}

// ParseRepoURL extracts host, owner and repository name from a clone or web URL.
func ParseRepoURL(raw string) (RepoRef, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return RepoRef{}, errors.New("empty repository url")
	}

	// scp-like SSH syntax: git@host:owner/repo.git
	if !strings.Contains(raw, "://") {
		if at := strings.Index(raw, "@"); at >= 0 {
			hostAndPath := raw[at+1:]
			host, p, ok := strings.Cut(hostAndPath, ":")
			if !ok {
				return RepoRef{}, fmt.Errorf("%q", raw)
			}
			return repoRefFromPath(raw, host, p)
		}
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return RepoRef{}, fmt.Errorf("%q", raw)
	}
	switch u.Scheme {
	case "http", "https", "ssh", "git":
	default:
		return RepoRef{}, fmt.Errorf("%q: unsupported scheme %q", raw, u.Scheme)
	}
	return repoRefFromPath(raw, u.Hostname(), u.Path)
}

func repoRefFromPath(raw, host, p string) (RepoRef, error) {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "www.github.com" {
		host = defaultHost
	}
	if host == "" {
		return RepoRef{}, fmt.Errorf("%q: missing host", raw)
	}

	parts := strings.FieldsFunc(strings.Trim(p, "/"), func(r rune) bool { return r == '/' })
	if len(parts) != 2 {
		return RepoRef{}, fmt.Errorf("%q: expected OWNER/REPO", raw)
	}
	owner := parts[0]
	name := strings.TrimSuffix(parts[1], ".git")
	if owner == "" || name == "" {
		return RepoRef{}, fmt.Errorf("%q: expected OWNER/REPO", raw)
	}
	return RepoRef{Host: host, Owner: owner, Name: name}, nil
}

func normalizeEnumValue(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func splitCommaList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			p := strings.TrimSpace(part)
			if p == "" {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}
