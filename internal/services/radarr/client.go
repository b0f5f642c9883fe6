package radarr

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

// Client handles communication with the Radarr v3 API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	// moveClient uses a longer timeout: bulk file moves are slow.
	moveClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new Radarr API client
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

// Movie is one tracked movie.
type Movie struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Year           int    `json:"year"`
	Status         string `json:"status"`
	Path           string `json:"path"`
	RootFolderPath string `json:"rootFolderPath"`
	SizeOnDisk     int64  `json:"sizeOnDisk"`
	HasFile        bool   `json:"hasFile"`
}

// MovieFile is one on-disk movie file.
type MovieFile struct {
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
	TotalGB     float64 `json:"total_gb"`
	TotalMovies int     `json:"total_movies"`
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
	}).Debug("Making Radarr API request")

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
		return fmt.Errorf("Radarr request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// Movies returns every tracked movie.
func (c *Client) Movies(ctx context.Context) ([]Movie, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("Radarr URL or API key not configured")
	}
	var movies []Movie
	if err := c.doRequest(ctx, c.httpClient, http.MethodGet, "/api/v3/movie", nil, &movies); err != nil {
		return nil, fmt.Errorf("failed to fetch movies: %w", err)
	}
	return movies, nil
}

// MovieFiles returns the on-disk files for one movie.
func (c *Client) MovieFiles(ctx context.Context, movieID int) ([]MovieFile, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("Radarr URL or API key not configured")
	}
	var files []MovieFile
	path := fmt.Sprintf("/api/v3/moviefile?movieId=%d", movieID)
	if err := c.doRequest(ctx, c.httpClient, http.MethodGet, path, nil, &files); err != nil {
		return nil, fmt.Errorf("failed to fetch movie files for movie %d: %w", movieID, err)
	}
	return files, nil
}

// RootFolders returns the configured library root folders.
func (c *Client) RootFolders(ctx context.Context) ([]RootFolder, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("Radarr URL or API key not configured")
	}
	var folders []RootFolder
	if err := c.doRequest(ctx, c.httpClient, http.MethodGet, "/api/v3/rootfolder", nil, &folders); err != nil {
		return nil, fmt.Errorf("failed to fetch root folders: %w", err)
	}
	return folders, nil
}

// LibrarySummary sums on-disk movie files; movies without files are not
// counted.
func (c *Client) LibrarySummary(ctx context.Context) (Summary, error) {
	movies, err := c.Movies(ctx)
	if err != nil {
		return Summary{}, err
	}

	var totalBytes int64
	var withFiles int
	for i, m := range movies {
		files, err := c.MovieFiles(ctx, m.ID)
		if err != nil {
			c.logger.WithError(err).WithField("movie_id", m.ID).Warn("Skipping movie in summary")
			continue
		}
		if len(files) == 0 {
			continue
		}
		for _, f := range files {
			totalBytes += f.Size
		}
		withFiles++

		if (i+1)%25 == 0 {
			c.logger.WithFields(logrus.Fields{
				"processed": i + 1,
				"total":     len(movies),
			}).Debug("Summing movie sizes")
		}
	}

	summary := Summary{
		TotalGB:     float64(totalBytes) / bytesPerGB,
		TotalMovies: withFiles,
	}
	c.logger.WithFields(logrus.Fields{
		"total_gb": fmt.Sprintf("%.2f", summary.TotalGB),
		"movies":   summary.TotalMovies,
	}).Info("Radarr library summary complete")
	return summary, nil
}

// MoveMovie points a movie at a new root folder and asks Radarr to move the
// files on disk.
func (c *Client) MoveMovie(ctx context.Context, movieID int, destRoot string) error {
	if !c.Configured() {
		return fmt.Errorf("Radarr URL or API key not configured")
	}

	var movie map[string]interface{}
	path := fmt.Sprintf("/api/v3/movie/%d", movieID)
	if err := c.doRequest(ctx, c.httpClient, http.MethodGet, path, nil, &movie); err != nil {
		return fmt.Errorf("failed to fetch movie %d: %w", movieID, err)
	}

	title, _ := movie["title"].(string)
	movie["rootFolderPath"] = destRoot
	movie["path"] = fmt.Sprintf("%s/%s", destRoot, title)

	if err := c.doRequest(ctx, c.moveClient, http.MethodPut, path+"?moveFiles=true", movie, nil); err != nil {
		return fmt.Errorf("failed to move movie %d: %w", movieID, err)
	}

	c.logger.WithFields(logrus.Fields{
		"movie_id": movieID,
		"title":    title,
		"dest":     destRoot,
	}).Info("Movie moved to new root folder")
	return nil
}
