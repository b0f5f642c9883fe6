package plex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Client handles communication with a Plex media server
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new Plex API client
func NewClient(baseURL, token string, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// Configured reports whether a server URL and token are set.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.token != ""
}

// Section is one Plex library section.
type Section struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Type  string `json:"type"` // "movie" or "show"
}

// Part is one file backing a media version.
type Part struct {
	File string `json:"file"`
	Size int64  `json:"size"`
}

// Media is one version of an item with its parts on disk.
type Media struct {
	Parts []Part `json:"Part"`
}

// Item is one entry in a library section.
type Item struct {
	RatingKey    string  `json:"ratingKey"`
	Title        string  `json:"title"`
	Type         string  `json:"type"` // "movie" or "show"
	Year         int     `json:"year"`
	ViewCount    int     `json:"viewCount"`
	LastViewedAt int64   `json:"lastViewedAt"`
	ChildCount   int     `json:"childCount"`
	LeafCount    int     `json:"leafCount"`
	Media        []Media `json:"Media"`
}

type mediaContainer struct {
	MediaContainer struct {
		Directory []Section `json:"Directory"`
		Metadata  []Item    `json:"Metadata"`
	} `json:"MediaContainer"`
}

// doRequest performs an authenticated HTTP request against the Plex server
func (c *Client) doRequest(ctx context.Context, method, path string, result interface{}) error {
	fullURL := c.baseURL + path
	c.logger.WithFields(logrus.Fields{
		"method": method,
		"url":    fullURL,
	}).Debug("Making Plex API request")

	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Plex-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("Plex request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// Ping verifies connectivity to the server.
func (c *Client) Ping(ctx context.Context) error {
	if !c.Configured() {
		return fmt.Errorf("Plex URL or token not configured")
	}
	return c.doRequest(ctx, http.MethodGet, "/identity", nil)
}

// Library returns every movie and show across all library sections. Items
// from other section types (music, photos) are skipped.
func (c *Client) Library(ctx context.Context) ([]Item, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("Plex URL or token not configured")
	}

	var sections mediaContainer
	if err := c.doRequest(ctx, http.MethodGet, "/library/sections", &sections); err != nil {
		return nil, fmt.Errorf("failed to list library sections: %w", err)
	}

	var items []Item
	for _, section := range sections.MediaContainer.Directory {
		if section.Type != "movie" && section.Type != "show" {
			continue
		}

		var contents mediaContainer
		path := fmt.Sprintf("/library/sections/%s/all", section.Key)
		if err := c.doRequest(ctx, http.MethodGet, path, &contents); err != nil {
			return nil, fmt.Errorf("failed to list section %q: %w", section.Title, err)
		}
		items = append(items, contents.MediaContainer.Metadata...)
	}
	return items, nil
}

// DeleteItem removes an item from the server by rating key.
func (c *Client) DeleteItem(ctx context.Context, id string) error {
	if !c.Configured() {
		return fmt.Errorf("Plex URL or token not configured")
	}
	return c.doRequest(ctx, http.MethodDelete, "/library/metadata/"+id, nil)
}
