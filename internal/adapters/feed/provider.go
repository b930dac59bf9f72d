// Package feed reads player documents published over HTTP, such as the
// static site built from the file store.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hiscore-tracker/internal/core/domain"
)

type Provider struct {
	httpClient *http.Client
	baseURL    string
}

func NewProvider(baseURL string) *Provider {
	return &Provider{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Fetch GETs <base>/<key>.json.
func (p *Provider) Fetch(ctx context.Context, key string) ([]byte, error) {
	return p.get(ctx, url.PathEscape(key)+".json")
}

func (p *Provider) ListPlayers(ctx context.Context) ([]string, error) {
	data, err := p.get(ctx, "players.json")
	if err != nil {
		return nil, err
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("decode player index: %w", err)
	}
	return names, nil
}

func (p *Provider) get(ctx context.Context, file string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/"+file, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", file, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, file)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetch %s: unexpected status code: %d", file, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	return data, nil
}
