package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/iamkumarji/Multi-Platform-Sentiment-Analyzer/internal/models"
)

const RESULTS_TABLE_NAME = "ReconciledSentiment"

// ResultStore persists reconciled results to DynamoDB so past runs stay
// queryable by the dashboard layer.
type ResultStore struct {
	client *dynamodb.Client
	table  string
}

func NewResultStore(ctx context.Context, region, endpoint string) (*ResultStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("[ResultStore] failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return &ResultStore{client: client, table: RESULTS_TABLE_NAME}, nil
}

// storedRow is the persisted shape: the result plus the run and display
// fields the dashboard filters on.
type storedRow struct {
	RecordID  string                  `dynamodbav:"record_id"`
	RunID     string                  `dynamodbav:"run_id"`
	Platform  string                  `dynamodbav:"platform"`
	Author    string                  `dynamodbav:"author,omitempty"`
	Timestamp string                  `dynamodbav:"timestamp,omitempty"`
	Result    models.ReconciledResult `dynamodbav:"result"`
	ExpiresAt int64                   `dynamodbav:"expires_at"`
}

// StoreResults batch-writes the dataset, retrying unprocessed items with
// backoff. Rows expire after seven days.
func (rs *ResultStore) StoreResults(ctx context.Context, runID string, dataset *models.UnifiedDataset) error {
	rows := dataset.Rows()
	expiresAt := time.Now().Add(7 * 24 * time.Hour).Unix()

	const maxBatchSize = 25
	for start := 0; start < len(rows); start += maxBatchSize {
		select {
		case <-ctx.Done():
			slog.Warn("[ResultStore] Context canceled")
			return ctx.Err()
		default:
		}

		end := start + maxBatchSize
		if end > len(rows) {
			end = len(rows)
		}

		writeRequests := make([]types.WriteRequest, 0, end-start)
		for _, row := range rows[start:end] {
			item, err := attributevalue.MarshalMap(storedRow{
				RecordID:  row.Result.RecordID,
				RunID:     runID,
				Platform:  string(row.Record.Platform),
				Author:    row.Record.Author,
				Timestamp: row.Record.Timestamp.UTC().Format(time.RFC3339),
				Result:    row.Result,
				ExpiresAt: expiresAt,
			})
			if err != nil {
				return fmt.Errorf("[ResultStore] failed to marshal result: %w", err)
			}
			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}

		out, err := rs.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{rs.table: writeRequests},
		})
		if err != nil {
			return fmt.Errorf("[ResultStore] failed to batch write results: %w", err)
		}

		retryCount := 0
		backoff := 500 * time.Millisecond
		for len(out.UnprocessedItems) > 0 && retryCount < 3 {
			time.Sleep(backoff)
			backoff *= 2
			slog.Warn("[ResultStore] Retrying unprocessed items...",
				slog.Int("retry_attempt", retryCount+1),
				slog.Int("remaining_items", len(out.UnprocessedItems[rs.table])))

			out, err = rs.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: out.UnprocessedItems,
			})
			if err != nil {
				return fmt.Errorf("[ResultStore] failed to retry batch write: %w", err)
			}
			retryCount++
		}

		if len(out.UnprocessedItems) > 0 {
			slog.Error("[ResultStore] Some results were not written even after retries",
				slog.Int("remaining_items", len(out.UnprocessedItems[rs.table])))
		}
	}

	slog.Info("[ResultStore] Stored run results",
		slog.String("run_id", runID),
		slog.Int("count", len(rows)))
	return nil
}
