package collectors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iamkumarji/Multi-Platform-Sentiment-Analyzer/internal/models"
)

const REDDIT_SEARCH_URL = "https://www.reddit.com/search.json"

// RedditCollector searches Reddit through its public JSON surface. No
// authentication is required; rate limits are absorbed by the shared
// retry/backoff policy.
type RedditCollector struct {
	BaseURL string
	Client  *http.Client

	Sort       string
	TimeFilter string
}

func NewRedditCollector() *RedditCollector {
	return &RedditCollector{
		BaseURL:    REDDIT_SEARCH_URL,
		Client:     &http.Client{Timeout: 15 * time.Second},
		Sort:       "relevance",
		TimeFilter: "month",
	}
}

func (rc *RedditCollector) Platform() models.Platform {
	return models.PlatformReddit
}

func (rc *RedditCollector) Fetch(ctx context.Context, query string, limit int) ([]models.RawRecord, error) {
	var records []models.RawRecord
	after := ""

	for len(records) < limit {
		page, nextAfter, err := rc.fetchPage(ctx, query, limit-len(records), after)
		if err != nil {
			// Return what we already have alongside the error; the
			// pipeline decides whether partial results are usable.
			return records, fmt.Errorf("[RedditCollector] fetch failed: %w", err)
		}

		records = append(records, page...)

		if nextAfter == "" || len(page) == 0 {
			break
		}
		after = nextAfter
	}

	if len(records) > limit {
		records = records[:limit]
	}

	slog.Info("[RedditCollector] Collected posts",
		slog.String("query", query),
		slog.Int("count", len(records)))
	return records, nil
}

func (rc *RedditCollector) fetchPage(ctx context.Context, query string, remaining int, after string) ([]models.RawRecord, string, error) {
	parsedURL, err := url.Parse(rc.BaseURL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse URL: %w", err)
	}

	pageSize := remaining
	if pageSize > 100 {
		pageSize = 100
	}

	queryParams := parsedURL.Query()
	queryParams.Set("q", query)
	queryParams.Set("limit", strconv.Itoa(pageSize))
	queryParams.Set("sort", rc.Sort)
	queryParams.Set("t", rc.TimeFilter)
	queryParams.Set("type", "link")
	if after != "" {
		queryParams.Set("after", after)
	}
	parsedURL.RawQuery = queryParams.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsedURL.String(), nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := doWithRetry(ctx, rc.Client, req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}

	var apiResp models.RedditAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, "", fmt.Errorf("failed to parse response: %w", err)
	}

	records := make([]models.RawRecord, 0, len(apiResp.Data.Children))
	for _, child := range apiResp.Data.Children {
		record, ok := redditPostToRecord(child.Data)
		if !ok {
			continue
		}
		records = append(records, record)
		if len(records) >= remaining {
			break
		}
	}

	return records, apiResp.Data.After, nil
}

func redditPostToRecord(post models.RedditAPIChildData) (models.RawRecord, bool) {
	text := strings.TrimSpace(post.Title)
	if selftext := strings.TrimSpace(post.Selftext); selftext != "" {
		if text != "" {
			text = text + ". " + selftext
		} else {
			text = selftext
		}
	}
	if text == "" {
		return models.RawRecord{}, false
	}

	author := post.Author
	if author == "" {
		author = "[deleted]"
	}

	return models.RawRecord{
		ID:         post.ID,
		Platform:   models.PlatformReddit,
		Text:       text,
		Timestamp:  time.Unix(int64(post.CreatedUTC), 0).UTC(),
		Author:     author,
		Engagement: float64(post.Score),
	}, true
}
