package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewClient(t *testing.T) {
	ctx := context.Background()
	client, err := NewClient(ctx, "test-token")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client.Client == nil || client.HTTP == nil {
		t.Fatal("Expected client to be initialized with explicit token")
	}

	// No token: still initialised, just unauthenticated.
	client, err = NewClient(ctx, "")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client.Client == nil {
		t.Error("Expected client to be initialized even without token")
	}
}

func TestNewClient_NilContextReturnsError(t *testing.T) {
	var nilCtx context.Context
	_, err := NewClient(nilCtx, "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "ctx is nil") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewClient_WithEnterpriseURL(t *testing.T) {
	client, err := NewClient(context.Background(), "", WithEnterpriseURL("https://ghe.example.com/api/v3/"))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if got := client.Client.BaseURL.String(); got != "https://ghe.example.com/api/v3/" {
		t.Fatalf("unexpected base url %q", got)
	}
}

func TestNewClient_WithVerbose_LogsAndAuthHeader(t *testing.T) {
	ctx := context.Background()

	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{}"))
	}))
	t.Cleanup(server.Close)

	base, err := url.Parse(server.URL + "/")
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}

	for _, token := range []string{"", "test-token"} {
		gotAuth = ""
		core, logs := observer.New(zap.InfoLevel)
		c, err := NewClient(ctx, token, WithVerbose(true, zap.New(core)))
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		c.Client.BaseURL = base

		req, err := c.Client.NewRequest("GET", "rate_limit", nil)
		if err != nil {
			t.Fatalf("NewRequest: %v", err)
		}
		if _, err := c.Client.Do(ctx, req, nil); err != nil {
			t.Fatalf("Do: %v", err)
		}

		if logs.FilterMessage("github api request").Len() != 1 {
			t.Fatalf("expected one request log, got %v", logs.All())
		}
		if logs.FilterMessage("github api response").Len() != 1 {
			t.Fatalf("expected one response log, got %v", logs.All())
		}

		if token == "" && gotAuth != "" {
			t.Fatalf("expected no Authorization header, got %q", gotAuth)
		}
		if token != "" && !strings.Contains(gotAuth, token) {
			t.Fatalf("expected Authorization header to contain token, got %q", gotAuth)
		}
	}
}
