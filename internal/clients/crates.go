package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jewlexx/lawyer/internal/cache"
)

// ErrNotFound is returned when crates.io has no such crate or version
var ErrNotFound = errors.New("not found")

const userAgent = "lawyer (https://github.com/jewlexx/lawyer)"

// CrateMetadata is the information lawyer reports for a crate version.
// Every field may be empty.
type CrateMetadata struct {
	Authors    []string
	HomePage   string
	Repository string
	License    string
}

// CratesClient handles requests to the crates.io API
type CratesClient struct {
	httpClient *http.Client
	cache      *cache.Cache
	baseURL    string
}

// NewCratesClient creates a new crates.io client.
// A nil cache disables caching.
func NewCratesClient(baseURL string, timeout time.Duration, c *cache.Cache) *CratesClient {
	return &CratesClient{
		httpClient: &http.Client{Timeout: timeout},
		cache:      c,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

type crateResponse struct {
	Crate struct {
		Name       string `json:"name"`
		HomePage   string `json:"homepage"`
		Repository string `json:"repository"`
	} `json:"crate"`
}

type versionResponse struct {
	Version struct {
		Num     string `json:"num"`
		License string `json:"license"`
	} `json:"version"`
}

type ownersResponse struct {
	Users []struct {
		Login string `json:"login"`
		Name  string `json:"name"`
	} `json:"users"`
}

// FetchMetadata returns homepage, repository, license and owners for one
// crate version.
func (c *CratesClient) FetchMetadata(ctx context.Context, name, version string) (*CrateMetadata, error) {
	crateURL := c.baseURL + "/crates/" + url.PathEscape(name)

	var cr crateResponse
	if err := c.getJSON(ctx, crateURL, &cr); err != nil {
		return nil, fmt.Errorf("failed to fetch crate %s: %w", name, err)
	}

	var vr versionResponse
	if err := c.getJSON(ctx, crateURL+"/"+url.PathEscape(version), &vr); err != nil {
		return nil, fmt.Errorf("failed to fetch crate %s %s: %w", name, version, err)
	}

	meta := &CrateMetadata{
		HomePage:   cr.Crate.HomePage,
		Repository: cr.Crate.Repository,
		License:    vr.Version.License,
	}

	// Owners are best effort; teams and private owners may be hidden.
	var or ownersResponse
	if err := c.getJSON(ctx, crateURL+"/owners", &or); err == nil {
		for _, u := range or.Users {
			if u.Name != "" {
				meta.Authors = append(meta.Authors, u.Name)
			} else if u.Login != "" {
				meta.Authors = append(meta.Authors, u.Login)
			}
		}
	}

	return meta, nil
}

func (c *CratesClient) getJSON(ctx context.Context, u string, v any) error {
	var data []byte

	// Check cache first
	if c.cache != nil {
		if cached, ok := c.cache.Get(u); ok {
			data = cached
		}
	}

	// Fetch from remote if not cached
	if data == nil {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return ErrNotFound
		case resp.StatusCode != http.StatusOK:
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}

		if c.cache != nil {
			_ = c.cache.Set(u, data)
		}
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
