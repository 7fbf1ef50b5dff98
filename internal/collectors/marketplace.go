package collectors

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/iamkumarji/Multi-Platform-Sentiment-Analyzer/internal/models"
)

const (
	MARKETPLACE_BASE_URL = "https://www.marketplace.in"

	maxSearchItems  = 10
	maxScrapedItems = 8
)

// MarketplaceCollector scrapes product reviews: a keyword search yields item
// IDs, then each item page's review widget is parsed. The marketplace is
// scraping-resistant, so requests carry browser-like headers and item pages
// are fetched with a polite delay.
type MarketplaceCollector struct {
	BaseURL string
	Client  *http.Client

	// PageDelay separates item-page fetches. Tests set it to zero.
	PageDelay time.Duration
}

func NewMarketplaceCollector() *MarketplaceCollector {
	return &MarketplaceCollector{
		BaseURL:   MARKETPLACE_BASE_URL,
		Client:    &http.Client{Timeout: 15 * time.Second},
		PageDelay: 2 * time.Second,
	}
}

func (mc *MarketplaceCollector) Platform() models.Platform {
	return models.PlatformMarketplace
}

func (mc *MarketplaceCollector) Fetch(ctx context.Context, query string, limit int) ([]models.RawRecord, error) {
	itemIDs, err := mc.searchItems(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("[MarketplaceCollector] search failed: %w", err)
	}
	if len(itemIDs) == 0 {
		slog.Warn("[MarketplaceCollector] No items found", slog.String("query", query))
		return nil, nil
	}

	slog.Info("[MarketplaceCollector] Scraping reviews",
		slog.String("query", query),
		slog.Int("items", len(itemIDs)))

	var records []models.RawRecord
	for i, itemID := range itemIDs {
		if i >= maxScrapedItems || len(records) >= limit {
			break
		}
		if i > 0 && mc.PageDelay > 0 {
			select {
			case <-ctx.Done():
				return records, ctx.Err()
			case <-time.After(mc.PageDelay):
			}
		}

		reviews, err := mc.scrapeItemReviews(ctx, itemID)
		if err != nil {
			slog.Debug("[MarketplaceCollector] Review scraping failed",
				slog.String("item_id", itemID),
				slog.String("error", err.Error()))
			continue
		}
		records = append(records, reviews...)
	}

	if len(records) > limit {
		records = records[:limit]
	}

	slog.Info("[MarketplaceCollector] Collected reviews",
		slog.String("query", query),
		slog.Int("count", len(records)))
	return records, nil
}

// searchItems runs the keyword search and returns unique item IDs.
func (mc *MarketplaceCollector) searchItems(ctx context.Context, query string) ([]string, error) {
	searchURL := mc.BaseURL + "/s?k=" + url.QueryEscape(query)

	doc, err := mc.fetchDocument(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var itemIDs []string
	doc.Find("[data-asin]").Each(func(_ int, sel *goquery.Selection) {
		id := strings.TrimSpace(sel.AttrOr("data-asin", ""))
		if len(id) != 10 || seen[id] {
			return
		}
		seen[id] = true
		if len(itemIDs) < maxSearchItems {
			itemIDs = append(itemIDs, id)
		}
	})

	return itemIDs, nil
}

func (mc *MarketplaceCollector) scrapeItemReviews(ctx context.Context, itemID string) ([]models.RawRecord, error) {
	doc, err := mc.fetchDocument(ctx, mc.BaseURL+"/dp/"+itemID)
	if err != nil {
		return nil, err
	}

	focal := doc.Find(".cr-widget-FocalReviews")
	if focal.Length() == 0 {
		return nil, nil
	}

	var records []models.RawRecord
	focal.Find(".a-section.celwidget").Each(func(_ int, review *goquery.Selection) {
		body := strings.TrimSpace(review.Find(`span[data-hook="review-body"]`).First().Text())
		body = strings.TrimSpace(strings.NewReplacer("Read more", "", "Read less", "").Replace(body))
		if len(body) < 5 {
			return
		}

		title := reviewTitle(review)
		text := body
		if title != "" {
			text = title + ". " + body
		}

		author := strings.TrimSpace(review.Find(".a-profile-content .a-profile-name").First().Text())
		if author == "" {
			author = "Marketplace Customer"
		}

		records = append(records, models.RawRecord{
			ID:         reviewID(text),
			Platform:   models.PlatformMarketplace,
			Text:       text,
			Timestamp:  reviewDate(review),
			Author:     author,
			Engagement: reviewRating(review),
		})
	})

	return records, nil
}

func (mc *MarketplaceCollector) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}

	// Browser-like headers; the marketplace rejects obvious bots.
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := doWithRetry(ctx, mc.Client, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

// reviewTitle pulls the review headline, skipping the rating spans that
// share the same anchor.
func reviewTitle(review *goquery.Selection) string {
	var title string
	review.Find(`a[data-hook="review-title"] > span`).Each(func(_ int, span *goquery.Selection) {
		text := strings.TrimSpace(span.Text())
		if text != "" && !strings.Contains(text, "out of") {
			title = text
		}
	})
	return title
}

func reviewRating(review *goquery.Selection) float64 {
	alt := review.Find(`i[data-hook="review-star-rating"] .a-icon-alt, i.review-rating .a-icon-alt`).First().Text()
	fields := strings.Fields(strings.TrimSpace(alt))
	if len(fields) == 0 {
		return 0
	}
	rating, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0
	}
	return rating
}

func reviewDate(review *goquery.Selection) time.Time {
	raw := strings.TrimSpace(review.Find(`span[data-hook="review-date"]`).First().Text())
	if idx := strings.LastIndex(raw, " on "); idx >= 0 {
		raw = raw[idx+len(" on "):]
	}
	for _, layout := range []string{"2 January 2006", "January 2, 2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Now().UTC()
}

func reviewID(text string) string {
	if len(text) > 100 {
		text = text[:100]
	}
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}
