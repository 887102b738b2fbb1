package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
)

// KafkaPublisher writes search events to a topic. Writes are async so a slow
// broker never holds up a search response.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			BatchTimeout:           50 * time.Millisecond,
			Async:                  true,
			AllowAutoTopicCreation: true,
			Completion: func(messages []kafka.Message, err error) {
				if err != nil {
					log.WithError(err).WithField("count", len(messages)).Warn("kafka publish failed")
				}
			},
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e SearchEvent) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.SessionID),
		Value: data,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// MessageReader is the part of *kafka.Reader the consumer uses.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer drains search events from a topic into a repository.
type Consumer struct {
	reader MessageReader
	repo   Repository
}

func NewKafkaConsumer(brokers []string, groupID, topic string, repo Repository) *Consumer {
	return NewConsumer(kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   topic,
	}), repo)
}

func NewConsumer(reader MessageReader, repo Repository) *Consumer {
	return &Consumer{reader: reader, repo: repo}
}

// Run blocks until ctx is cancelled. Undecodable messages are logged and
// skipped; a failed save is logged and the loop continues.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.reader.Close()

	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			log.WithError(err).Warn("kafka read error")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}

		var e SearchEvent
		if err := json.Unmarshal(m.Value, &e); err != nil {
			log.WithError(err).WithField("offset", m.Offset).Warn("kafka unmarshal error")
			continue
		}

		if err := c.repo.Save(ctx, &e); err != nil {
			log.WithError(err).WithField("event", e.ID).Error("persist search event failed")
			continue
		}

		log.WithFields(log.Fields{
			"event":   e.ID,
			"outcome": e.Outcome,
			"offset":  m.Offset,
		}).Debug("search event stored")
	}
}
