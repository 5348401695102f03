package youtube

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
)

const defaultBaseURL = "https://www.googleapis.com"

// maxResultsPerPage is the upstream maximum for list endpoints.
const maxResultsPerPage = 50

// ErrCredentialMissing indicates that no API key is configured. It is
// distinct from request failures so callers can prompt for setup instead of
// retrying.
var ErrCredentialMissing = errors.New("no API key configured - run 'tubefeed config set-key' or set TUBEFEED_API_KEY")

// ErrUpstreamRequest marks failed API requests so callers can tell transient
// upstream trouble apart from a missing credential.
var ErrUpstreamRequest = errors.New("YouTube API request failed")

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// Client is a YouTube Data API client authenticated with an API key.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPClient
}

// NewClient creates a new YouTube API client. An empty key is allowed at
// construction; every request then fails with ErrCredentialMissing.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Ready reports whether the client can reach the API. It returns
// ErrCredentialMissing when no key is configured.
func (c *Client) Ready() error {
	if c.apiKey == "" {
		return ErrCredentialMissing
	}
	return nil
}

// ResolveUploadsPlaylist returns the id of the channel's uploads playlist,
// or an empty string when the channel exposes none.
func (c *Client) ResolveUploadsPlaylist(ctx context.Context, channelID string) (string, error) {
	query := url.Values{}
	query.Set("part", "contentDetails")
	query.Set("id", channelID)

	body, err := c.doRequest(ctx, "/youtube/v3/channels", query)
	if err != nil {
		return "", err
	}

	var response channelsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse channels response: %w", err)
	}

	if len(response.Items) == 0 {
		return "", nil
	}
	return response.Items[0].ContentDetails.RelatedPlaylists.Uploads, nil
}

// ListUploads retrieves up to limit raw entries from an uploads playlist,
// newest first. The upstream caps one page at 50 entries.
func (c *Client) ListUploads(ctx context.Context, playlistID string, limit int) ([]UploadEntry, error) {
	query := url.Values{}
	query.Set("part", "snippet")
	query.Set("playlistId", playlistID)
	query.Set("maxResults", fmt.Sprintf("%d", clampResults(limit)))

	body, err := c.doRequest(ctx, "/youtube/v3/playlistItems", query)
	if err != nil {
		return nil, err
	}

	var response playlistItemsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse playlist items response: %w", err)
	}

	entries := make([]UploadEntry, 0, len(response.Items))
	for _, item := range response.Items {
		publishedAt, _ := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
		entries = append(entries, UploadEntry{
			VideoID:     item.Snippet.ResourceID.VideoID,
			Title:       item.Snippet.Title,
			Thumbnail:   item.Snippet.Thumbnails.Medium.URL,
			PublishedAt: publishedAt,
		})
	}

	return entries, nil
}

// ListVideoDurations retrieves duration codes for up to 50 video ids in a
// single call. This is the quota-critical batch endpoint; callers with more
// ids must partition them.
func (c *Client) ListVideoDurations(ctx context.Context, videoIDs []string) (map[string]string, error) {
	if len(videoIDs) == 0 {
		return map[string]string{}, nil
	}
	if len(videoIDs) > maxResultsPerPage {
		return nil, fmt.Errorf("at most %d video ids per detail lookup, got %d", maxResultsPerPage, len(videoIDs))
	}

	query := url.Values{}
	query.Set("part", "contentDetails")
	query.Set("id", strings.Join(videoIDs, ","))

	body, err := c.doRequest(ctx, "/youtube/v3/videos", query)
	if err != nil {
		return nil, err
	}

	var response videosResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse videos response: %w", err)
	}

	durations := make(map[string]string, len(response.Items))
	for _, item := range response.Items {
		durations[item.ID] = item.ContentDetails.Duration
	}

	return durations, nil
}

// ListActivities retrieves up to limit entries from a channel's activity
// feed, newest first. Community posts appear with the bulletin type; the
// endpoint cannot filter by type, so callers filter client-side.
func (c *Client) ListActivities(ctx context.Context, channelID string, limit int) ([]Activity, error) {
	query := url.Values{}
	query.Set("part", "snippet")
	query.Set("channelId", channelID)
	query.Set("maxResults", fmt.Sprintf("%d", clampResults(limit)))

	body, err := c.doRequest(ctx, "/youtube/v3/activities", query)
	if err != nil {
		return nil, err
	}

	var response activitiesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse activities response: %w", err)
	}

	activities := make([]Activity, 0, len(response.Items))
	for _, item := range response.Items {
		publishedAt, _ := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
		activities = append(activities, Activity{
			Type:        item.Snippet.Type,
			Description: item.Snippet.Description,
			Thumbnail:   item.Snippet.Thumbnails.Medium.URL,
			PublishedAt: publishedAt,
		})
	}

	return activities, nil
}

// SearchChannels finds channels matching the query.
func (c *Client) SearchChannels(ctx context.Context, q string) ([]ChannelResult, error) {
	query := url.Values{}
	query.Set("part", "snippet")
	query.Set("type", "channel")
	query.Set("q", q)
	query.Set("maxResults", "25")

	body, err := c.doRequest(ctx, "/youtube/v3/search", query)
	if err != nil {
		return nil, err
	}

	var response searchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	results := make([]ChannelResult, 0, len(response.Items))
	for _, item := range response.Items {
		results = append(results, ChannelResult{
			ChannelID: item.ID.ChannelID,
			Title:     item.Snippet.Title,
			Thumbnail: item.Snippet.Thumbnails.Medium.URL,
		})
	}

	return results, nil
}

func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.Ready(); err != nil {
		return nil, err
	}

	query.Set("key", c.apiKey)
	requestURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleAPIError(resp.StatusCode)
	}

	return body, nil
}

func clampResults(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > maxResultsPerPage {
		return maxResultsPerPage
	}
	return limit
}

func (c *Client) handleAPIError(statusCode int) error {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusBadRequest:
		return fmt.Errorf("%w: rejected credential - check your API key", ErrUpstreamRequest)
	case http.StatusForbidden:
		return fmt.Errorf("%w: access denied - the daily quota may be exhausted", ErrUpstreamRequest)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: rate limit exceeded - please try again later", ErrUpstreamRequest)
	case http.StatusServiceUnavailable:
		return fmt.Errorf("%w: temporarily unavailable - please try again in a few minutes", ErrUpstreamRequest)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: server error - please try again later", ErrUpstreamRequest)
	default:
		return fmt.Errorf("%w: unexpected status %d", ErrUpstreamRequest, statusCode)
	}
}

// API response types (private - implementation detail)

type channelsResponse struct {
	Items []struct {
		ContentDetails struct {
			RelatedPlaylists struct {
				Uploads string `json:"uploads"`
			} `json:"relatedPlaylists"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type playlistItemsResponse struct {
	Items []struct {
		Snippet struct {
			ResourceID struct {
				VideoID string `json:"videoId"`
			} `json:"resourceId"`
			Title       string `json:"title"`
			PublishedAt string `json:"publishedAt"`
			Thumbnails  struct {
				Medium struct {
					URL string `json:"url"`
				} `json:"medium"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

type videosResponse struct {
	Items []struct {
		ID             string `json:"id"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type activitiesResponse struct {
	Items []struct {
		Snippet struct {
			Type        string `json:"type"`
			Description string `json:"description"`
			PublishedAt string `json:"publishedAt"`
			Thumbnails  struct {
				Medium struct {
					URL string `json:"url"`
				} `json:"medium"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

type searchResponse struct {
	Items []struct {
		ID struct {
			ChannelID string `json:"channelId"`
		} `json:"id"`
		Snippet struct {
			Title      string `json:"title"`
			Thumbnails struct {
				Medium struct {
					URL string `json:"url"`
				} `json:"medium"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}
