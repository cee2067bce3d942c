package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestCompaniesRetriesThenSucceeds(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"companies":[{"name":"DataFlow Analytics","website":"https://dataflow.io/about","industry":"Analytics"}]}`))
	}))
	defer srv.Close()

	c := &Client{Endpoint: srv.URL, MaxTries: 3}
	companies, err := c.Companies(context.Background())
	if err != nil {
		t.Fatalf("Companies: %v", err)
	}
	if calls != 2 {
		t.Fatalf("got %d calls, want 2", calls)
	}
	if len(companies) != 1 || companies[0].Domain != "dataflow.io" {
		t.Fatalf("unexpected companies: %+v", companies)
	}
}

func TestCompaniesOrFallbackUsesCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := &Client{Endpoint: srv.URL, MaxTries: 2, Logger: zerolog.Nop()}
	companies := c.CompaniesOrFallback(context.Background())
	if len(companies) == 0 {
		t.Fatal("fallback catalog is empty")
	}
}

func TestHostOf(t *testing.T) {
	cases := map[string]string{
		"https://www.example.com/path": "example.com",
		"http://example.io":            "example.io",
		"example.dev/":                 "example.dev",
	}
	for in, want := range cases {
		if got := hostOf(in); got != want {
			t.Errorf("hostOf(%q) = %q, want %q", in, got, want)
		}
	}
}
