// Package wom reads group membership from the Wise Old Man API.
package wom

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hiscore-tracker/internal/adapters/metrics"
)

const DefaultBaseURL = "https://api.wiseoldman.net/v2"

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

type groupResponse struct {
	Memberships []struct {
		Player struct {
			Username    string `json:"username"`
			DisplayName string `json:"displayName"`
		} `json:"player"`
	} `json:"memberships"`
}

// FetchGroupMembers returns member display names in membership order,
// trimmed and de-duplicated case-insensitively.
func (c *Client) FetchGroupMembers(ctx context.Context, groupID int) ([]string, error) {
	u := fmt.Sprintf("%s/groups/%d", c.baseURL, groupID)

	var data groupResponse
	if err := c.getAndDecode(ctx, u, &data); err != nil {
		return nil, fmt.Errorf("fetch group %d: %w", groupID, err)
	}

	var names []string
	seen := make(map[string]struct{})
	for _, m := range data.Memberships {
		name := m.Player.DisplayName
		if name == "" {
			name = m.Player.Username
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, name)
	}
	return names, nil
}

func (c *Client) getAndDecode(ctx context.Context, url string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.WOMRequests.WithLabelValues("error").Inc()
		return err
	}
	defer resp.Body.Close()

	metrics.WOMRequests.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
