package feed

import (
	"context"
	"encoding/json"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/jackhudsonnnn/p2picks-resolution-engine/pkg/contracts/events"
)

// KafkaChangeFeed decodifica events.WagerChange de um tópico Kafka
type KafkaChangeFeed struct {
	R *kafkago.Reader
}

func NewKafkaChangeFeed(r *kafkago.Reader) *KafkaChangeFeed { return &KafkaChangeFeed{R: r} }

func (f *KafkaChangeFeed) Next(ctx context.Context) (events.WagerChange, error) {
	m, err := f.R.ReadMessage(ctx)
	if err != nil {
		return events.WagerChange{}, err
	}
	var ev events.WagerChange
	if err := json.Unmarshal(m.Value, &ev); err != nil {
		return events.WagerChange{}, fmt.Errorf("decode wager change: %w", err)
	}
	return ev, nil
}

func (f *KafkaChangeFeed) Close() error { return f.R.Close() }

// KafkaUpdateFeed decodifica events.GameUpdate de um tópico Kafka
type KafkaUpdateFeed struct {
	R *kafkago.Reader
}

func NewKafkaUpdateFeed(r *kafkago.Reader) *KafkaUpdateFeed { return &KafkaUpdateFeed{R: r} }

func (f *KafkaUpdateFeed) Next(ctx context.Context) (events.GameUpdate, error) {
	m, err := f.R.ReadMessage(ctx)
	if err != nil {
		return events.GameUpdate{}, err
	}
	var ev events.GameUpdate
	if err := json.Unmarshal(m.Value, &ev); err != nil {
		return events.GameUpdate{}, fmt.Errorf("decode game update: %w", err)
	}
	return ev, nil
}

func (f *KafkaUpdateFeed) Close() error { return f.R.Close() }
