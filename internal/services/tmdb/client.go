package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sweeparr/sweeparr/internal/models"
)

const defaultBaseURL = "https://api.themoviedb.org/3"

// watchRegion selects which country's provider listings are consulted.
const watchRegion = "US"

// Client handles communication with the TMDB API for streaming-availability
// lookups. Each lookup is two network calls (title search, then watch
// providers), so callers gate it behind size thresholds.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new TMDB API client
func NewClient(apiKey string, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// NewClientWithBaseURL creates a client against a non-default endpoint; used
// by tests.
func NewClientWithBaseURL(baseURL, apiKey string, logger *logrus.Logger) *Client {
	c := NewClient(apiKey, logger)
	c.baseURL = baseURL
	return c
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type searchResponse struct {
	Results []struct {
		ID int `json:"id"`
	} `json:"results"`
}

type providersResponse struct {
	Results map[string]struct {
		Flatrate []struct {
			ProviderName string `json:"provider_name"`
		} `json:"flatrate"`
	} `json:"results"`
}

func (c *Client) doRequest(ctx context.Context, path string, query url.Values, result interface{}) error {
	query.Set("api_key", c.apiKey)
	fullURL := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("TMDB request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Providers returns the flatrate streaming providers a title is currently
// available on. An unknown title yields an empty list, not an error.
func (c *Client) Providers(ctx context.Context, mediaType models.MediaType, title string) ([]string, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("TMDB API key not configured")
	}

	kind := "movie"
	if mediaType == models.MediaTypeTV {
		kind = "tv"
	}

	var search searchResponse
	query := url.Values{"query": {title}}
	if err := c.doRequest(ctx, "/search/"+kind, query, &search); err != nil {
		return nil, fmt.Errorf("title search failed: %w", err)
	}
	if len(search.Results) == 0 {
		c.logger.WithField("title", title).Debug("No TMDB match for title")
		return nil, nil
	}

	var providers providersResponse
	path := fmt.Sprintf("/%s/%d/watch/providers", kind, search.Results[0].ID)
	if err := c.doRequest(ctx, path, url.Values{}, &providers); err != nil {
		return nil, fmt.Errorf("watch provider lookup failed: %w", err)
	}

	region, ok := providers.Results[watchRegion]
	if !ok {
		return nil, nil
	}
	var names []string
	for _, p := range region.Flatrate {
		names = append(names, p.ProviderName)
	}
	return names, nil
}
