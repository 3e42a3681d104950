package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/BearBump/ParcelAssist/internal/broker/messages"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	msgs      []kafka.Message
	err       error
	i         int
	committed []kafka.Message
	commitErr error
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if r.i < len(r.msgs) {
		m := r.msgs[r.i]
		r.i++
		return m, nil
	}
	if r.err != nil {
		return kafka.Message{}, r.err
	}
	return kafka.Message{}, errors.New("eof")
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	if r.commitErr != nil {
		return r.commitErr
	}
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error { return nil }

func eventMessage(t *testing.T, ev messages.AssistantEvent) kafka.Message {
	t.Helper()
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	return kafka.Message{Key: []byte(ev.SessionID), Value: b}
}

func TestConsumer_Consume_DecodesAndCommits(t *testing.T) {
	fr := &fakeReader{
		msgs: []kafka.Message{eventMessage(t, messages.AssistantEvent{
			Type: messages.EventSessionEscalated, SessionID: "s-1", Reason: "invalid_zip",
		})},
		err: errors.New("stop"),
	}
	c := newConsumerWithReader(fr)

	var got []messages.AssistantEvent
	err := c.Consume(context.Background(), func(_ context.Context, ev messages.AssistantEvent) error {
		got = append(got, ev)
		return nil
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "fetch message")
	require.Len(t, got, 1)
	require.Equal(t, "s-1", got[0].SessionID)
	require.Equal(t, "invalid_zip", got[0].Reason)
	require.Len(t, fr.committed, 1)
}

func TestConsumer_Consume_SkipsMalformed(t *testing.T) {
	fr := &fakeReader{
		msgs: []kafka.Message{
			{Value: []byte("{not json")},
			eventMessage(t, messages.AssistantEvent{Type: messages.EventSessionEscalated}),
			eventMessage(t, messages.AssistantEvent{SessionID: "s-2"}),
			eventMessage(t, messages.AssistantEvent{Type: messages.EventDeliveryConfirmed, SessionID: "s-3"}),
		},
		err: errors.New("stop"),
	}
	c := newConsumerWithReader(fr)

	var calls int
	err := c.Consume(context.Background(), func(_ context.Context, ev messages.AssistantEvent) error {
		calls++
		require.Equal(t, "s-3", ev.SessionID)
		return nil
	})
	require.Error(t, err)
	require.Equal(t, 1, calls)
	require.Equal(t, int64(3), c.Skipped())
	require.Len(t, fr.committed, 4)
}

func TestConsumer_Consume_HandlerErrorStopsWithoutCommit(t *testing.T) {
	fr := &fakeReader{msgs: []kafka.Message{eventMessage(t, messages.AssistantEvent{
		Type: messages.EventSessionEscalated, SessionID: "s-1",
	})}}
	c := newConsumerWithReader(fr)

	want := errors.New("handler failed")
	err := c.Consume(context.Background(), func(context.Context, messages.AssistantEvent) error { return want })
	require.ErrorIs(t, err, want)
	require.Empty(t, fr.committed)
}

func TestConsumer_Consume_CommitError(t *testing.T) {
	fr := &fakeReader{
		msgs:      []kafka.Message{eventMessage(t, messages.AssistantEvent{Type: messages.EventUpdatesOptedIn, SessionID: "s"})},
		commitErr: errors.New("broker gone"),
	}
	c := newConsumerWithReader(fr)

	err := c.Consume(context.Background(), func(context.Context, messages.AssistantEvent) error { return nil })
	require.Error(t, err)
	require.Contains(t, err.Error(), "commit message")
}

func TestNewConsumer_Close(t *testing.T) {
	c := NewConsumer([]string{"localhost:0"}, "t", "g")
	require.NotNil(t, c)
	require.NoError(t, c.Close())
}
