package sonarr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const bytesPerGB = 1024 * 1024 * 1024

// Client handles communication with the Sonarr v3 API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	// moveClient uses a longer timeout: bulk file moves are slow.
	moveClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new Sonarr API client
func NewClient(baseURL, apiKey string, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		moveClient: &http.Client{Timeout: 120 * time.Second},
		logger:     logger,
	}
}

// Configured reports whether a URL and API key are set.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

// Series is one tracked show.
type Series struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Status         string `json:"status"` // "continuing", "ended", ...
	Path           string `json:"path"`
	RootFolderPath string `json:"rootFolderPath"`
	SeasonCount    int    `json:"seasonCount"`
	Statistics     struct {
		SeasonCount      int   `json:"seasonCount"`
		EpisodeFileCount int   `json:"episodeFileCount"`
		SizeOnDisk       int64 `json:"sizeOnDisk"`
	} `json:"statistics"`
}

// EpisodeFile is one on-disk episode file.
type EpisodeFile struct {
	ID   int   `json:"id"`
	Size int64 `json:"size"`
}

// RootFolder is one configured library root.
type RootFolder struct {
	ID        int    `json:"id"`
	Path      string `json:"path"`
	FreeSpace int64  `json:"freeSpace"`
}

// Summary aggregates library-wide size and counts.
type Summary struct {
	TotalGB       float64 `json:"total_gb"`
	TotalEpisodes int     `json:"total_episodes"`
	TotalSeries   int     `json:"total_series"`
}

func (c *Client) doRequest(ctx context.Context, client *http.Client, method, path string, body, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	fullURL := c.baseURL + path
	c.logger.WithFields(logrus.Fields{
		"method": method,
		"url":    fullURL,
	}).Debug("Making Sonarr API request")

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("Sonarr request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// Series returns every tracked series.
func (c *Client) Series(ctx context.Context) ([]Series, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("Sonarr URL or API key not configured")
	}
	var series []Series
	if err := c.doRequest(ctx, c.httpClient, http.MethodGet, "/api/v3/series", nil, &series); err != nil {
		return nil, fmt.Errorf("failed to fetch series: %w", err)
	}
	return series, nil
}

// EpisodeFiles returns the on-disk episode files for one series.
func (c *Client) EpisodeFiles(ctx context.Context, seriesID int) ([]EpisodeFile, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("Sonarr URL or API key not configured")
	}
	var files []EpisodeFile
	path := fmt.Sprintf("/api/v3/episodefile?seriesId=%d", seriesID)
	if err := c.doRequest(ctx, c.httpClient, http.MethodGet, path, nil, &files); err != nil {
		return nil, fmt.Errorf("failed to fetch episode files for series %d: %w", seriesID, err)
	}
	return files, nil
}

// RootFolders returns the configured library root folders.
func (c *Client) RootFolders(ctx context.Context) ([]RootFolder, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("Sonarr URL or API key not configured")
	}
	var folders []RootFolder
	if err := c.doRequest(ctx, c.httpClient, http.MethodGet, "/api/v3/rootfolder", nil, &folders); err != nil {
		return nil, fmt.Errorf("failed to fetch root folders: %w", err)
	}
	return folders, nil
}

// LibrarySummary sums on-disk episode files across every series. Summing the
// actual files is slower than trusting per-series statistics but matches what
// is really on disk.
func (c *Client) LibrarySummary(ctx context.Context) (Summary, error) {
	series, err := c.Series(ctx)
	if err != nil {
		return Summary{}, err
	}

	var totalBytes int64
	var totalEpisodes int
	for i, s := range series {
		files, err := c.EpisodeFiles(ctx, s.ID)
		if err != nil {
			c.logger.WithError(err).WithField("series_id", s.ID).Warn("Skipping series in summary")
			continue
		}
		for _, f := range files {
			totalBytes += f.Size
		}
		totalEpisodes += len(files)

		if (i+1)%25 == 0 {
			c.logger.WithFields(logrus.Fields{
				"processed": i + 1,
				"total":     len(series),
			}).Debug("Summing series sizes")
		}
	}

	summary := Summary{
		TotalGB:       float64(totalBytes) / bytesPerGB,
		TotalEpisodes: totalEpisodes,
		TotalSeries:   len(series),
	}
	c.logger.WithFields(logrus.Fields{
		"total_gb": fmt.Sprintf("%.2f", summary.TotalGB),
		"episodes": summary.TotalEpisodes,
		"series":   summary.TotalSeries,
	}).Info("Sonarr library summary complete")
	return summary, nil
}

// MoveSeries points a series at a new root folder and asks Sonarr to move the
// files on disk.
func (c *Client) MoveSeries(ctx context.Context, seriesID int, destRoot string) error {
	if !c.Configured() {
		return fmt.Errorf("Sonarr URL or API key not configured")
	}

	var series map[string]interface{}
	path := fmt.Sprintf("/api/v3/series/%d", seriesID)
	if err := c.doRequest(ctx, c.httpClient, http.MethodGet, path, nil, &series); err != nil {
		return fmt.Errorf("failed to fetch series %d: %w", seriesID, err)
	}

	title, _ := series["title"].(string)
	series["rootFolderPath"] = destRoot
	series["path"] = fmt.Sprintf("%s/%s", destRoot, title)

	if err := c.doRequest(ctx, c.moveClient, http.MethodPut, path+"?moveFiles=true", series, nil); err != nil {
		return fmt.Errorf("failed to move series %d: %w", seriesID, err)
	}

	c.logger.WithFields(logrus.Fields{
		"series_id": seriesID,
		"title":     title,
		"dest":      destRoot,
	}).Info("Series moved to new root folder")
	return nil
}
