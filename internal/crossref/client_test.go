package crossref

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const sampleWorks = `{
  "status": "ok",
  "message-type": "work-list",
  "message": {
    "total-results": 2817361,
    "items": [
      {
        "DOI": "10.1016/j.prrv.2009.03.002",
        "score": 98.47,
        "title": ["Assessment of thoraco-abdominal asynchrony"],
        "container-title": ["Paediatric Respiratory Reviews"],
        "author": [
          {"given": "Jürg", "family": "Hammer", "ORCID": "http://orcid.org/0000-0002-1825-0097"},
          {"given": "Christopher J.L.", "family": "Newth"}
        ],
        "published": {"date-parts": [[2009, 6]]}
      }
    ]
  }
}`

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(WithBaseURL(server.URL + "/works"))
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient()

	if c.baseURL != BaseURL {
		t.Errorf("baseURL = %s, want %s", c.baseURL, BaseURL)
	}
	if c.httpClient.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", c.httpClient.Timeout, DefaultTimeout)
	}
	if c.userAgent != DefaultUserAgent {
		t.Errorf("userAgent = %s, want %s", c.userAgent, DefaultUserAgent)
	}
	if c.logger == nil {
		t.Error("logger should not be nil")
	}
}

func TestNewClient_WithOptions(t *testing.T) {
	c := NewClient(
		WithBaseURL("http://custom:8080/works"),
		WithTimeout(5*time.Second),
		WithUserAgent("refdoi/1.2.3"),
	)

	if c.baseURL != "http://custom:8080/works" {
		t.Errorf("baseURL = %s", c.baseURL)
	}
	if c.httpClient.Timeout != 5*time.Second {
		t.Errorf("timeout = %v", c.httpClient.Timeout)
	}
	if c.userAgent != "refdoi/1.2.3" {
		t.Errorf("userAgent = %s", c.userAgent)
	}
}

func TestLookup_RequestShape(t *testing.T) {
	var gotQuery map[string][]string
	var gotUA string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/works" {
			t.Errorf("path = %s, want /works", r.URL.Path)
		}
		gotQuery = r.URL.Query()
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, sampleWorks)
	})

	query := `J. Hammer and C. J. L. Newth, "Assessment of thoraco-abdominal asynchrony," 2009.`
	if _, err := c.Lookup(context.Background(), query, " researcher@university.edu "); err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}

	checks := map[string]string{
		"query.bibliographic": query,
		"rows":                "1",
		"select":              SelectFields,
		"mailto":              "researcher@university.edu",
	}
	for key, want := range checks {
		if got := gotQuery[key]; len(got) != 1 || got[0] != want {
			t.Errorf("query param %s = %v, want %q", key, got, want)
		}
	}
	if !strings.Contains(gotUA, "mailto:researcher@university.edu") {
		t.Errorf("User-Agent = %q, want it to name the contact", gotUA)
	}
}

func TestLookup_ContactShapeCheck(t *testing.T) {
	tests := []struct {
		name       string
		contact    string
		wantMailto bool
	}{
		{"empty", "", false},
		{"no at sign", "researcher", false},
		{"email", "a@b.org", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hasMailto bool
			c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				_, hasMailto = r.URL.Query()["mailto"]
				fmt.Fprint(w, sampleWorks)
			})
			if _, err := c.Lookup(context.Background(), "q", tt.contact); err != nil {
				t.Fatalf("Lookup() error = %v", err)
			}
			if hasMailto != tt.wantMailto {
				t.Errorf("mailto present = %v, want %v", hasMailto, tt.wantMailto)
			}
		})
	}
}

func TestLookup_Match(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sampleWorks)
	})

	work, err := c.Lookup(context.Background(), "q", "")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if work == nil {
		t.Fatal("Lookup() returned nil work")
	}
	if work.DOI != "10.1016/j.prrv.2009.03.002" {
		t.Errorf("DOI = %q", work.DOI)
	}
	if work.FirstTitle() != "Assessment of thoraco-abdominal asynchrony" {
		t.Errorf("FirstTitle() = %q", work.FirstTitle())
	}
	if work.Score != 98.47 {
		t.Errorf("Score = %v", work.Score)
	}
}

func TestLookup_NoMatch(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"ok","message":{"items":[],"total-results":0}}`)
	})

	work, err := c.Lookup(context.Background(), "nothing like this exists", "")
	if err != nil {
		t.Fatalf("Lookup() error = %v, want nil", err)
	}
	if work != nil {
		t.Errorf("Lookup() = %+v, want nil", work)
	}
}

func TestLookup_HTTPErrors(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		wantRateLimit bool
	}{
		{"server error", http.StatusInternalServerError, false},
		{"unavailable", http.StatusServiceUnavailable, false},
		{"rate limited", http.StatusTooManyRequests, true},
		{"bad request", http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, "something went wrong\nsecond line")
			})

			_, err := c.Lookup(context.Background(), "q", "")
			if err == nil {
				t.Fatal("Lookup() error = nil, want error")
			}
			if !errors.Is(err, ErrAPIError) {
				t.Errorf("errors.Is(err, ErrAPIError) = false for %v", err)
			}
			if IsRateLimited(err) != tt.wantRateLimit {
				t.Errorf("IsRateLimited() = %v, want %v", IsRateLimited(err), tt.wantRateLimit)
			}
			if StatusCode(err) != tt.status {
				t.Errorf("StatusCode() = %d, want %d", StatusCode(err), tt.status)
			}
			if !strings.Contains(err.Error(), fmt.Sprint(tt.status)) {
				t.Errorf("error %q should mention status %d", err.Error(), tt.status)
			}
			if strings.Contains(err.Error(), "second line") {
				t.Errorf("error %q should only carry the first body line", err.Error())
			}
		})
	}
}

func TestLookup_InvalidResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"error status", `{"status":"failed","message":{"items":[]}}`},
		{"missing message", `{"status":"ok"}`},
		{"missing DOI", `{"status":"ok","message":{"items":[{"score":1}]}}`},
		{"malformed DOI", `{"status":"ok","message":{"items":[{"DOI":"not-a-doi","score":1}]}}`},
		{"wrong types", `{"status":"ok","message":{"items":[{"DOI":42}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			})

			_, err := c.Lookup(context.Background(), "q", "")
			if !errors.Is(err, ErrInvalidResponse) {
				t.Errorf("Lookup() error = %v, want ErrInvalidResponse", err)
			}
		})
	}
}

func TestLookup_MissingTitleTolerated(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"message":{"items":[{"DOI":"10.1234/untitled","score":3.5}]}}`)
	})

	work, err := c.Lookup(context.Background(), "q", "")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if work.FirstTitle() != "" {
		t.Errorf("FirstTitle() = %q, want empty", work.FirstTitle())
	}
}

func TestLookup_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := NewClient(WithBaseURL(url))
	_, err := c.Lookup(context.Background(), "q", "")
	if !IsNetworkError(err) {
		t.Errorf("Lookup() error = %v, want ErrNetworkError", err)
	}
}

func TestLookup_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.Lookup(ctx, "q", "")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Lookup() error = %v, want context.Canceled", err)
	}
}

func TestClient_ImplementsLookuper(t *testing.T) {
	var _ Lookuper = (*Client)(nil)
	var _ Lookuper = (*Cache)(nil)
}
