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

	"golang.org/x/oauth2"

	"github.com/iamkumarji/Multi-Platform-Sentiment-Analyzer/internal/models"
)

const SOCIALX_SEARCH_URL = "https://api.socialx.com/2/posts/search/recent"

// SocialXCollector searches recent SocialX posts. It requires a bearer
// token; calling Fetch without one is a configuration error, not an empty
// result, so the caller can tell "no credential" from "no results".
type SocialXCollector struct {
	BaseURL string
	Client  *http.Client

	token string
}

func NewSocialXCollector(bearerToken string) *SocialXCollector {
	sc := &SocialXCollector{
		BaseURL: SOCIALX_SEARCH_URL,
		token:   bearerToken,
	}
	if bearerToken != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: bearerToken, TokenType: "Bearer"})
		sc.Client = oauth2.NewClient(context.Background(), src)
		sc.Client.Timeout = 15 * time.Second
	}
	return sc
}

func (sc *SocialXCollector) Platform() models.Platform {
	return models.PlatformSocialX
}

func (sc *SocialXCollector) Fetch(ctx context.Context, query string, limit int) ([]models.RawRecord, error) {
	if sc.token == "" {
		return nil, fmt.Errorf("[SocialXCollector] bearer token not configured: %w", ErrMissingCredential)
	}

	var records []models.RawRecord
	nextToken := ""

	for len(records) < limit {
		page, next, err := sc.fetchPage(ctx, query, limit-len(records), nextToken)
		if err != nil {
			return records, err
		}

		records = append(records, page...)

		if next == "" || len(page) == 0 {
			break
		}
		nextToken = next
	}

	if len(records) > limit {
		records = records[:limit]
	}

	slog.Info("[SocialXCollector] Collected posts",
		slog.String("query", query),
		slog.Int("count", len(records)))
	return records, nil
}

func (sc *SocialXCollector) fetchPage(ctx context.Context, query string, remaining int, nextToken string) ([]models.RawRecord, string, error) {
	parsedURL, err := url.Parse(sc.BaseURL)
	if err != nil {
		return nil, "", fmt.Errorf("[SocialXCollector] failed to parse URL: %w", err)
	}

	pageSize := remaining
	if pageSize > 100 {
		pageSize = 100
	}

	queryParams := parsedURL.Query()
	queryParams.Set("query", query+" -is:repost lang:en")
	queryParams.Set("max_results", strconv.Itoa(pageSize))
	queryParams.Set("post.fields", "created_at,public_metrics,author_id")
	queryParams.Set("user.fields", "username")
	queryParams.Set("expansions", "author_id")
	if nextToken != "" {
		queryParams.Set("next_token", nextToken)
	}
	parsedURL.RawQuery = queryParams.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsedURL.String(), nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := sc.Client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("[SocialXCollector] request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, "", fmt.Errorf("[SocialXCollector] invalid bearer token: %w", ErrMissingCredential)
	case http.StatusTooManyRequests:
		// Rate limited: stop paginating and keep what we have.
		slog.Warn("[SocialXCollector] Rate limit reached, stopping early")
		return nil, "", nil
	default:
		return nil, "", fmt.Errorf("[SocialXCollector] unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}

	var apiResp models.SocialXSearchResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, "", fmt.Errorf("[SocialXCollector] failed to parse response: %w", err)
	}

	users := make(map[string]string, len(apiResp.Includes.Users))
	for _, user := range apiResp.Includes.Users {
		users[user.ID] = user.Username
	}

	records := make([]models.RawRecord, 0, len(apiResp.Data))
	for _, post := range apiResp.Data {
		text := strings.TrimSpace(post.Text)
		if text == "" {
			continue
		}

		author := "unknown"
		if username, ok := users[post.AuthorID]; ok {
			author = username
		}

		timestamp, err := time.Parse(time.RFC3339, post.CreatedAt)
		if err != nil {
			timestamp = time.Now().UTC()
		}

		records = append(records, models.RawRecord{
			ID:         post.ID,
			Platform:   models.PlatformSocialX,
			Text:       text,
			Timestamp:  timestamp,
			Author:     "@" + author,
			Engagement: float64(post.PublicMetrics.LikeCount),
		})

		if len(records) >= remaining {
			break
		}
	}

	return records, apiResp.Meta.NextToken, nil
}
