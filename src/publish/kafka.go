package publish

import (
	"context"
	"encoding/json"
	"time"

	"plug-explorer/src/helpers"
	"plug-explorer/src/models"

	"github.com/segmentio/kafka-go"
)

const defaultKafkaTopic = "plug-explorer.home"

// KafkaSink appends every snapshot to a topic as a change feed.
type KafkaSink struct {
	writer *kafka.Writer
}

// -----------------------------------------------------------------------------

func NewKafkaSink(cfg models.MKafkaConfig) (*KafkaSink, error) {
	if len(cfg.Brokers) == 0 {
		return nil, helpers.NewConfigurationError("kafka brokers are required", nil)
	}
	topic := cfg.Topic
	if topic == "" {
		topic = defaultKafkaTopic
	}

	return &KafkaSink{writer: &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 100 * time.Millisecond,
	}}, nil
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Topic() string { return s.writer.Topic }

// -----------------------------------------------------------------------------

// SnapshotMessage encodes one snapshot, keyed by block height so a compacted topic
// keeps the last state per height.
func SnapshotMessage(snapshot models.MHomeSnapshot, at time.Time) (kafka.Message, error) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return kafka.Message{}, err
	}
	key := snapshot.BlockHeight
	if key == "" {
		key = "pending"
	}
	return kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Time:  at.UTC(),
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	}, nil
}

// -----------------------------------------------------------------------------

func (s *KafkaSink) Publish(ctx context.Context, snapshot models.MHomeSnapshot) error {
	msg, err := SnapshotMessage(snapshot, time.Now())
	if err != nil {
		return err
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return helpers.NewNetworkError("kafka write", err)
	}
	return nil
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
