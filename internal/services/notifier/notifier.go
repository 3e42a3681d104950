package notifier

import (
	"context"
	"encoding/json"
	"time"

	"github.com/BearBump/ParcelAssist/internal/broker/messages"
	"github.com/pkg/errors"
)

type Producer interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// Notifier публикует события ассистента в один топик, ключ — session_id.
type Notifier struct {
	producer Producer
	topic    string
	attempts int
	backoff  time.Duration
}

func New(producer Producer, topic string) *Notifier {
	return &Notifier{producer: producer, topic: topic, attempts: 3, backoff: 100 * time.Millisecond}
}

func (n *Notifier) WithRetry(attempts int, backoff time.Duration) *Notifier {
	if attempts > 0 {
		n.attempts = attempts
	}
	if backoff >= 0 {
		n.backoff = backoff
	}
	return n
}

func (n *Notifier) Publish(ctx context.Context, ev messages.AssistantEvent) error {
	if ev.Type == "" {
		return errors.New("event type is required")
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "marshal assistant event")
	}

	var pubErr error
	for i := 0; i < n.attempts; i++ {
		if pubErr = n.producer.Publish(ctx, n.topic, []byte(ev.SessionID), b); pubErr == nil {
			return nil
		}
		if i == n.attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "publish assistant event")
		case <-time.After(time.Duration(i+1) * n.backoff):
		}
	}
	return errors.Wrapf(pubErr, "publish assistant event after %d attempts", n.attempts)
}
