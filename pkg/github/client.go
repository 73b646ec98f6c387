// Package github looks up public GitHub data for profiles. It is an
// external collaborator: failures surface as ErrProfileUnavailable and are
// mapped by the caller, never retried here.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

var ErrProfileUnavailable = errors.New("github profile unavailable")

type Repo struct {
	Name            string `json:"name"`
	HTMLURL         string `json:"html_url"`
	Description     string `json:"description"`
	StargazersCount int    `json:"stargazers_count"`
	WatchersCount   int    `json:"watchers_count"`
	ForksCount      int    `json:"forks_count"`
}

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewClient(token string) *Client {
	return &Client{
		BaseURL: "https://api.github.com",
		Token:   token,
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
}

// Repos returns the user's five newest public repositories.
func (c *Client) Repos(ctx context.Context, username string) ([]Repo, error) {
	u := fmt.Sprintf("%s/users/%s/repos?per_page=5&sort=created:asc", c.BaseURL, url.PathEscape(username))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, ErrProfileUnavailable
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return nil, ErrProfileUnavailable
	}

	var repos []Repo
	if err := json.NewDecoder(res.Body).Decode(&repos); err != nil {
		return nil, ErrProfileUnavailable
	}
	return repos, nil
}
