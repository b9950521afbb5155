package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

type GraphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type GraphQLError struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

type GraphQLResponse[T any] struct {
	Data   T              `json:"data"`
	Errors []GraphQLError `json:"errors"`
}

// GraphQLEndpoint derives the GraphQL URL from a REST base URL.
//
//	https://api.github.com/          -> https://api.github.com/graphql
//	https://<host>/api/v3/           -> https://<host>/api/graphql
func GraphQLEndpoint(base *url.URL) (*url.URL, error) {
	if base == nil {
		return nil, fmt.Errorf("graphql: base url is nil")
	}

	u := *base
	u.RawQuery = ""
	u.Fragment = ""

	path := strings.TrimSuffix(u.Path, "/")
	if strings.HasSuffix(path, "/api/v3") {
		u.Path = strings.TrimSuffix(path, "/v3") + "/graphql"
		return &u, nil
	}
	u.Path = "/graphql"
	return &u, nil
}

// DoGraphQL POSTs req through the same transport as the REST client (auth,
// verbose logging). Request-budget accounting is left to the caller.
func DoGraphQL[T any](ctx context.Context, c *Client, req GraphQLRequest) (GraphQLResponse[T], *http.Response, error) {
	var zero GraphQLResponse[T]
	if ctx == nil {
		return zero, nil, fmt.Errorf("graphql: ctx is nil")
	}
	if c == nil || c.Client == nil || c.HTTP == nil {
		return zero, nil, fmt.Errorf("graphql: client is nil")
	}

	endpoint, err := GraphQLEndpoint(c.Client.BaseURL)
	if err != nil {
		return zero, nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return zero, nil, fmt.Errorf("graphql: marshal request: %w", err)
	}

	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return zero, nil, fmt.Errorf("graphql: build request: %w", err)
	}
	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set("Accept", "application/json")

	hresp, err := c.HTTP.Do(hreq)
	if err != nil {
		return zero, nil, fmt.Errorf("graphql: do request: %w", err)
	}
	defer hresp.Body.Close()

	if hresp.StatusCode < 200 || hresp.StatusCode >= 300 {
		return zero, hresp, &GraphQLStatusError{StatusCode: hresp.StatusCode}
	}

	var out GraphQLResponse[T]
	if err := json.NewDecoder(hresp.Body).Decode(&out); err != nil {
		return zero, hresp, fmt.Errorf("graphql: decode response: %w", err)
	}
	if len(out.Errors) > 0 {
		if out.Errors[0].Type == "NOT_FOUND" {
			return zero, hresp, &GraphQLStatusError{StatusCode: http.StatusNotFound, Message: out.Errors[0].Message}
		}
		return zero, hresp, fmt.Errorf("graphql: %s", out.Errors[0].Message)
	}

	return out, hresp, nil
}

// GraphQLStatusError reports a non-2xx GraphQL response, or a NOT_FOUND error
// mapped onto 404.
type GraphQLStatusError struct {
	StatusCode int
	Message    string
}

func (e *GraphQLStatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("graphql: http %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("graphql: http %d", e.StatusCode)
}
