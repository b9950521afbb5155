package github

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v81/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

type Client struct {
	Client *github.Client
	HTTP   *http.Client
}

type options struct {
	verbose bool
	logger  *zap.Logger
	apiURL  string
	timeout time.Duration
}

type Option func(*options)

// WithVerbose logs one line per API request and response through logger.
func WithVerbose(enabled bool, logger *zap.Logger) Option {
	return func(o *options) {
		o.verbose = enabled
		o.logger = logger
	}
}

// WithEnterpriseURL targets a GitHub Enterprise Server REST base such as
// https://ghe.example.com/api/v3/. Empty keeps api.github.com.
func WithEnterpriseURL(apiURL string) Option {
	return func(o *options) {
		o.apiURL = apiURL
	}
}

// WithTimeout bounds each HTTP round trip.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// loggingRoundTripper emits one info line per request and response
// (including latency) when verbose logging is enabled.
type loggingRoundTripper struct {
	base   http.RoundTripper
	logger *zap.Logger
}

func (t *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	t.logger.Info("github api request", zap.String("method", req.Method), zap.String("url", req.URL.String()))
	resp, err := t.base.RoundTrip(req)
	dur := time.Since(start).Truncate(time.Millisecond)
	if err != nil {
		t.logger.Info("github api error", zap.Duration("elapsed", dur), zap.Error(err))
	} else {
		t.logger.Info("github api response",
			zap.Int("status", resp.StatusCode),
			zap.String("status_text", http.StatusText(resp.StatusCode)),
			zap.Duration("elapsed", dur),
			zap.String("ratelimit_remaining", resp.Header.Get("X-RateLimit-Remaining")),
		)
	}
	return resp, err
}

func NewClient(ctx context.Context, token string, opts ...Option) (*Client, error) {
	if ctx == nil {
		return nil, fmt.Errorf("github client: ctx is nil")
	}

	o := &options{}
	for _, apply := range opts {
		if apply != nil {
			apply(o)
		}
	}
	if o.verbose && o.logger == nil {
		o.logger = zap.NewNop()
	}

	transport := http.DefaultTransport
	if o.verbose {
		transport = &loggingRoundTripper{base: transport, logger: o.logger}
	}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		transport = &oauth2.Transport{Source: ts, Base: transport}
	}
	tc := &http.Client{Transport: transport, Timeout: o.timeout}

	client := github.NewClient(tc)
	if o.apiURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(o.apiURL, o.apiURL)
		if err != nil {
			return nil, fmt.Errorf("github client: invalid enterprise url %q: %w", o.apiURL, err)
		}
	}

	return &Client{
		Client: client,
		HTTP:   tc,
	}, nil
}
