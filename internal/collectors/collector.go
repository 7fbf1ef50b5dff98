package collectors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/iamkumarji/Multi-Platform-Sentiment-Analyzer/internal/models"
)

const (
	MAX_RETRIES     = 5
	INITIAL_BACKOFF = 1 * time.Second
	MAX_BACKOFF     = 32 * time.Second
	USER_AGENT      = "multi-platform-sentiment-analyzer/1.0"
)

// ErrMissingCredential marks a platform that was selected without the
// credential it requires. The pipeline reports it as a configuration error
// for that platform only; it never aborts sibling platforms.
var ErrMissingCredential = errors.New("collectors: missing required credential")

// Collector fetches raw records for one platform. Fetch returns at most
// limit records; fewer is normal (platform exhausted, rate-limited, partial
// failure). Each call re-executes network I/O; there is no implicit caching.
type Collector interface {
	Platform() models.Platform
	Fetch(ctx context.Context, query string, limit int) ([]models.RawRecord, error)
}

// doWithRetry issues the request, retrying on transport errors, 5xx
// responses and 429s with exponential backoff.
func doWithRetry(ctx context.Context, client *http.Client, req *http.Request) (*http.Response, error) {
	return doWithBackoff(ctx, client, req, INITIAL_BACKOFF, MAX_BACKOFF)
}

func doWithBackoff(ctx context.Context, client *http.Client, req *http.Request, initial, max time.Duration) (*http.Response, error) {
	var resp *http.Response
	var err error
	backoff := initial

	for attempt := 0; attempt < MAX_RETRIES; attempt++ {
		resp, err = client.Do(req)
		if err == nil && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		if resp != nil {
			resp.Body.Close()
		}

		// The final failure returns right away; backing off with no
		// attempt left would only delay the caller.
		if attempt == MAX_RETRIES-1 {
			break
		}

		slog.Warn("[Collector] Request failed, will retry",
			slog.Int("attempt", attempt+1),
			slog.String("error", errMsg(err, resp)))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > max {
			backoff = max
		}
	}

	if err == nil {
		err = fmt.Errorf("collectors: request failed after %d attempts: %s", MAX_RETRIES, errMsg(nil, resp))
	}
	return nil, err
}

func errMsg(err error, resp *http.Response) string {
	if err != nil {
		return err.Error()
	}
	if resp != nil {
		return fmt.Sprintf("status code %d", resp.StatusCode)
	}
	return "unknown error"
}
