package collectors

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iamkumarji/Multi-Platform-Sentiment-Analyzer/internal/models"
)

const marketplaceSearchHTML = `
<html><body>
  <div data-asin="B00ITEM001">item one</div>
  <div data-asin="B00ITEM001">duplicate</div>
  <div data-asin="short">bad id</div>
  <div data-asin="B00ITEM002">item two</div>
</body></html>`

const marketplaceItemHTML = `
<html><body>
  <span id="productTitle">Wireless Headphones</span>
  <div class="cr-widget-FocalReviews">
    <div class="a-section celwidget">
      <a data-hook="review-title"><span>5.0 out of 5 stars</span><span>Excellent purchase</span></a>
      <i data-hook="review-star-rating"><span class="a-icon-alt">5.0 out of 5 stars</span></i>
      <div class="a-profile-content"><span class="a-profile-name">Priya</span></div>
      <span data-hook="review-date">Reviewed in India on 12 March 2026</span>
      <span data-hook="review-body">Sound quality is superb and battery lasts long.Read more</span>
    </div>
    <div class="a-section celwidget">
      <span data-hook="review-body">ok</span>
    </div>
  </div>
</body></html>`

func newMarketplaceTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/s"):
			fmt.Fprint(w, marketplaceSearchHTML)
		case strings.HasPrefix(r.URL.Path, "/dp/"):
			fmt.Fprint(w, marketplaceItemHTML)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestMarketplaceCollector_FetchScrapesReviews(t *testing.T) {
	srv := newMarketplaceTestServer(t)
	defer srv.Close()

	mc := NewMarketplaceCollector()
	mc.BaseURL = srv.URL
	mc.PageDelay = 0

	records, err := mc.Fetch(context.Background(), "headphones", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Two items found, each page carries one usable review; the too-short
	// review body is skipped.
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.Platform != models.PlatformMarketplace {
		t.Fatalf("unexpected platform %q", first.Platform)
	}
	if first.Text != "Excellent purchase. Sound quality is superb and battery lasts long." {
		t.Fatalf("unexpected review text: %q", first.Text)
	}
	if first.Author != "Priya" {
		t.Fatalf("unexpected author %q", first.Author)
	}
	if first.Engagement != 5.0 {
		t.Fatalf("expected star rating as engagement, got %f", first.Engagement)
	}
	if first.ID == "" {
		t.Fatal("expected a derived record id")
	}
	if got := first.Timestamp.Format("2006-01-02"); got != "2026-03-12" {
		t.Fatalf("unexpected review date %s", got)
	}
}

func TestMarketplaceCollector_RespectsLimit(t *testing.T) {
	srv := newMarketplaceTestServer(t)
	defer srv.Close()

	mc := NewMarketplaceCollector()
	mc.BaseURL = srv.URL
	mc.PageDelay = 0

	records, err := mc.Fetch(context.Background(), "headphones", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected limit to cap records at 1, got %d", len(records))
	}
}

func TestMarketplaceCollector_NoItemsMeansZeroRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>no results</body></html>")
	}))
	defer srv.Close()

	mc := NewMarketplaceCollector()
	mc.BaseURL = srv.URL
	mc.PageDelay = 0

	records, err := mc.Fetch(context.Background(), "nothing", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected zero records, got %d", len(records))
	}
}
