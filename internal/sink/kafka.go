package sink

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/iamkumarji/Multi-Platform-Sentiment-Analyzer/internal/models"
)

const ResultsTopic = "sentiment-results"

// ResultPublisher emits finished run results to Kafka for downstream
// dashboards. Delivery is at-least-once; a single-shot analysis run does
// not need transactional produce.
type ResultPublisher struct {
	producer *kafka.Producer
}

func NewResultPublisher(broker string) (*ResultPublisher, error) {
	slog.Info("[ResultPublisher] Connecting to Kafka", slog.String("broker", broker))

	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":   broker,
		"security.protocol":   "PLAINTEXT",
		"api.version.request": "true",
	})
	if err != nil {
		return nil, fmt.Errorf("[ResultPublisher] failed to create producer: %w", err)
	}

	return &ResultPublisher{producer: producer}, nil
}

func (rp *ResultPublisher) Close() {
	if remaining := rp.producer.Flush(5000); remaining > 0 {
		slog.Warn("[ResultPublisher] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	rp.producer.Close()
}

// runEnvelope is the published message shape: the full dataset plus the
// flat summary statistics.
type runEnvelope struct {
	Summary models.Summary      `json:"summary"`
	Rows    []models.DatasetRow `json:"rows"`
}

// PublishRun sends one run's dataset and summary as a single message keyed
// by run ID.
func (rp *ResultPublisher) PublishRun(summary models.Summary, dataset *models.UnifiedDataset) error {
	payload, err := json.Marshal(runEnvelope{Summary: summary, Rows: dataset.Rows()})
	if err != nil {
		return fmt.Errorf("[ResultPublisher] failed to marshal run: %w", err)
	}

	topic := ResultsTopic
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(summary.RunID),
		Value:          payload,
	}

	if err := rp.producer.Produce(msg, nil); err != nil {
		return fmt.Errorf("[ResultPublisher] failed to produce message: %w", err)
	}

	slog.Info("[ResultPublisher] Run published",
		slog.String("run_id", summary.RunID),
		slog.Int("rows", dataset.Len()))
	return nil
}
