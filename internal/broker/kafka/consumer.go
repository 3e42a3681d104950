package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/BearBump/ParcelAssist/internal/broker/messages"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads assistant events from one topic inside a consumer group.
type Consumer struct {
	r       messageReader
	skipped atomic.Int64
}

func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	cfg := kafka.ReaderConfig{
		Brokers:           brokers,
		GroupID:           groupID,
		HeartbeatInterval: 3 * time.Second,
		SessionTimeout:    30 * time.Second,
	}
	if groupID != "" {
		cfg.GroupTopics = []string{topic}
	} else {
		cfg.Topic = topic
	}
	return newConsumerWithReader(kafka.NewReader(cfg))
}

func newConsumerWithReader(r messageReader) *Consumer {
	return &Consumer{r: r}
}

func (c *Consumer) Close() error {
	return c.r.Close()
}

// Skipped is the number of messages committed without reaching the handler.
func (c *Consumer) Skipped() int64 {
	return c.skipped.Load()
}

// Consume decodes every message into an AssistantEvent and passes it to handler.
// Messages that are not valid events, or carry no type or session, are logged and committed.
// A handler error stops consumption and leaves the message uncommitted for redelivery.
func (c *Consumer) Consume(ctx context.Context, handler func(ctx context.Context, ev messages.AssistantEvent) error) error {
	for {
		msg, err := c.r.FetchMessage(ctx)
		if err != nil {
			return errors.Wrap(err, "fetch message")
		}

		ev, err := decodeEvent(msg.Value)
		if err != nil {
			c.skipped.Add(1)
			slog.Warn("skip assistant event", "partition", msg.Partition, "offset", msg.Offset, "error", err.Error())
		} else if err := handler(ctx, ev); err != nil {
			return err
		}

		if err := c.r.CommitMessages(ctx, msg); err != nil {
			return errors.Wrap(err, "commit message")
		}
	}
}

func decodeEvent(value []byte) (messages.AssistantEvent, error) {
	var ev messages.AssistantEvent
	if err := json.Unmarshal(value, &ev); err != nil {
		return ev, errors.Wrap(err, "decode assistant event")
	}
	if ev.Type == "" || ev.SessionID == "" {
		return ev, errors.New("assistant event without type or session_id")
	}
	return ev, nil
}
