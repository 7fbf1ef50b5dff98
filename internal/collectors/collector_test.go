package collectors

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

// refusingTransport fails every request and cancels the context from inside
// the final attempt, so a trailing backoff would surface as a cancellation
// error instead of the transport error.
type refusingTransport struct {
	calls  int
	cancel context.CancelFunc
}

func (rt *refusingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	rt.calls++
	if rt.calls == MAX_RETRIES {
		rt.cancel()
	}
	return nil, errors.New("connection refused")
}

func TestDoWithRetry_FinalFailureReturnsWithoutBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	transport := &refusingTransport{cancel: cancel}
	client := &http.Client{Transport: transport}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://upstream.invalid/", nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}

	resp, err := doWithBackoff(ctx, client, req, time.Millisecond, 4*time.Millisecond)
	if resp != nil {
		t.Fatal("expected no response after exhausted retries")
	}
	if err == nil {
		t.Fatal("expected the transport error")
	}
	if errors.Is(err, context.Canceled) {
		t.Fatalf("expected the transport error after the last attempt, got cancellation: %v", err)
	}
	if transport.calls != MAX_RETRIES {
		t.Fatalf("expected %d attempts, got %d", MAX_RETRIES, transport.calls)
	}
}
