package engine

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v81/github"

	gh "branchsweep/internal/github"
)

// Error kinds. Match them with errors.Is.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTransientAPI  = errors.New("github api error")
)

// RunError is a failure that aborts a sweep.
type RunError struct {
	Kind error
	Op   string
	Err  error
}

func (e *RunError) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *RunError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// ConfigurationError marks err as invalid user input.
func ConfigurationError(err error) error {
	if err == nil {
		return nil
	}
	return &RunError{Kind: ErrConfiguration, Err: err}
}

func apiError(op string, err error) error {
	var re *RunError
	if errors.As(err, &re) {
		return err
	}
	return &RunError{Kind: ErrTransientAPI, Op: op, Err: err}
}

// lookupError classifies a failed repository lookup: a 404 means the
// repository does not exist or the token cannot see it.
func lookupError(repo string, err error) error {
	if isNotFound(err) {
		return &RunError{
			Kind: ErrNotFound,
			Op:   "get repository " + repo,
			Err:  fmt.Errorf("repository %s not found or not accessible with the current token: %w", repo, err),
		}
	}
	return apiError("get repository "+repo, err)
}

func isNotFound(err error) bool {
	var er *github.ErrorResponse
	if errors.As(err, &er) && er.Response != nil && er.Response.StatusCode == http.StatusNotFound {
		return true
	}
	var ge *gh.GraphQLStatusError
	if errors.As(err, &ge) && ge.StatusCode == http.StatusNotFound {
		return true
	}
	return false
}

// ErrorMessage renders err for the user. Unless verbose, GitHub errors are
// reduced to status and message so request URLs are not printed.
func ErrorMessage(err error, verbose bool) string {
	if err == nil {
		return "unknown error"
	}
	if verbose {
		return err.Error()
	}

	var re *RunError
	if errors.As(err, &re) {
		if errors.Is(re.Kind, ErrNotFound) {
			return re.Op + ": not found or not accessible with the current token"
		}
		msg := presentGitHubError(re.Err)
		if re.Op == "" {
			return msg
		}
		return re.Op + ": " + msg
	}
	return presentGitHubError(err)
}

func presentGitHubError(err error) string {
	full := strings.TrimSpace(err.Error())

	// Prefer structured GitHub error types to avoid leaking full request URLs.
	var er *github.ErrorResponse
	if errors.As(err, &er) {
		msg := strings.TrimSpace(er.Message)
		if msg == "" {
			msg = "GitHub API request failed"
		}
		if er.Response != nil {
			status := fmt.Sprintf("%d %s", er.Response.StatusCode, http.StatusText(er.Response.StatusCode))
			return fmt.Sprintf("GitHub API request failed (%s): %s", status, msg)
		}
		return fmt.Sprintf("GitHub API request failed: %s", msg)
	}

	if scrubbed := scrubGitHubRequestFromErrorString(full); scrubbed != "" {
		return scrubbed
	}
	return full
}

func scrubGitHubRequestFromErrorString(s string) string {
	// Typical go-github error format:
	//   DELETE https://api.github.com/...: 422 Reference does not exist []
	// Drop the leading "DELETE https://...: " part.
	methods := []string{"GET ", "POST ", "PUT ", "PATCH ", "DELETE "}
	for _, m := range methods {
		if !strings.HasPrefix(s, m) {
			continue
		}
		if i := strings.Index(s, "://"); i >= 0 {
			if j := strings.Index(s[i:], ": "); j >= 0 {
				return strings.TrimSpace(s[i+j+2:])
			}
		}
		if j := strings.Index(s, ": "); j >= 0 {
			return strings.TrimSpace(s[j+2:])
		}
		break
	}
	return ""
}
