package store

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/iamkumarji/Multi-Platform-Sentiment-Analyzer/internal/models"
)

const seenKeyTTLSeconds = 86400

// DedupeCache is a Valkey-backed seen-record set. Records already marked
// for a platform are skipped by the pipeline on later runs, so repeated
// queries do not re-ingest identical content.
type DedupeCache struct {
	client valkey.Client
}

type ValkeyOptions struct {
	Address  string
	Password string
	UseTLS   bool
}

func NewDedupeCache(opts ValkeyOptions) (*DedupeCache, error) {
	clientOpts := valkey.ClientOption{
		InitAddress:      []string{opts.Address},
		Password:         opts.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}
	if opts.UseTLS {
		clientOpts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("[DedupeCache] failed to create Valkey client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if res := client.Do(ctx, client.B().Ping().Build()); res.Error() != nil {
		client.Close()
		return nil, fmt.Errorf("[DedupeCache] failed to ping Valkey: %w", res.Error())
	}

	slog.Info("[DedupeCache] Connected to Valkey", slog.String("address", opts.Address))
	return &DedupeCache{client: client}, nil
}

func (dc *DedupeCache) Close() {
	dc.client.Close()
}

func (dc *DedupeCache) Seen(ctx context.Context, platform models.Platform, id string) bool {
	res := dc.doWithRetry(ctx, func() valkey.Completed {
		return dc.client.B().Sismember().Key(seenKey(platform)).Member(id).Build()
	}, 3)
	ok, err := res.AsBool()
	if err != nil {
		return false
	}
	return ok
}

func (dc *DedupeCache) Mark(ctx context.Context, platform models.Platform, id string) error {
	key := seenKey(platform)
	commands := []valkey.Completed{
		dc.client.B().Sadd().Key(key).Member(id).Build(),
		dc.client.B().Expire().Key(key).Seconds(seenKeyTTLSeconds).Build(),
	}

	for _, res := range dc.client.DoMulti(ctx, commands...) {
		if err := res.Error(); err != nil {
			return fmt.Errorf("[DedupeCache] failed to mark record: %w", err)
		}
	}
	return nil
}

// doWithRetry rebuilds the command on every attempt; valkey-go recycles
// command objects once executed.
func (dc *DedupeCache) doWithRetry(ctx context.Context, build func() valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		result = dc.client.Do(ctx, build())
		if result.Error() == nil {
			break
		}

		slog.Warn("[DedupeCache] Command failed",
			slog.Int("attempt", i+1),
			slog.String("error", result.Error().Error()))

		time.Sleep(250 * time.Millisecond)
	}
	return result
}

func seenKey(platform models.Platform) string {
	return "sentiment:seen:" + string(platform)
}
