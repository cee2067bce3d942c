// Package scrape fetches company identities from a public directory
// API. The engine treats it as optional: any failure falls back to the
// embedded catalog so generation never depends on the network.
package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"

	"orgforge/internal/namegen"
)

type Client struct {
	Endpoint string
	Client   *http.Client
	MaxTries uint
	Logger   zerolog.Logger
}

type directoryEntry struct {
	Name     string `json:"name"`
	Website  string `json:"website"`
	Industry string `json:"industry"`
}

type directoryResponse struct {
	Companies []directoryEntry `json:"companies"`
}

// Companies fetches the directory listing with exponential-backoff
// retries. Entries without a usable website are skipped; an empty
// result is an error so callers fall back.
func (c *Client) Companies(ctx context.Context) ([]namegen.Company, error) {
	client := c.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	tries := c.MaxTries
	if tries == 0 {
		tries = 4
	}

	op := func() ([]namegen.Company, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, fmt.Errorf("directory returned %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, backoff.Permanent(fmt.Errorf("directory returned %d", resp.StatusCode))
		}
		var out directoryResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("decode directory response: %w", err))
		}
		var companies []namegen.Company
		for _, e := range out.Companies {
			if e.Name == "" || e.Website == "" {
				continue
			}
			industry := e.Industry
			if industry == "" {
				industry = "Software"
			}
			companies = append(companies, namegen.Company{Name: e.Name, Domain: hostOf(e.Website), Industry: industry})
		}
		if len(companies) == 0 {
			return nil, backoff.Permanent(fmt.Errorf("directory returned no usable companies"))
		}
		return companies, nil
	}
	return backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(tries))
}

// CompaniesOrFallback never fails: directory errors are logged and the
// embedded catalog takes over.
func (c *Client) CompaniesOrFallback(ctx context.Context) []namegen.Company {
	companies, err := c.Companies(ctx)
	if err != nil {
		c.Logger.Warn().Err(err).Msg("company directory unavailable, using embedded catalog")
		return namegen.Companies()
	}
	return companies
}

func hostOf(website string) string {
	s := website
	for _, prefix := range []string{"https://", "http://", "www."} {
		if len(s) >= len(prefix) && s[:len(prefix)] == prefix {
			s = s[len(prefix):]
		}
	}
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			return s[:i]
		}
	}
	return s
}
