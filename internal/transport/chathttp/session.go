package chathttp

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/BearBump/ParcelAssist/internal/services/conversation"
)

// turn is everything the assistant said since the previous answer, up to and
// including the next prompt.
type turn struct {
	Messages      []string
	AwaitingInput bool
	Done          bool
	Summary       conversation.Summary
}

// channelTransport feeds one conversation from HTTP requests. Said lines are buffered
// until the next Ask, which hands them out as a turn and blocks for the answer.
type channelTransport struct {
	buf    []string
	turns  chan turn
	inputs chan string
	closed <-chan struct{}
	idle   time.Duration
}

func (t *channelTransport) Say(_ context.Context, line string) error {
	if line == "" {
		return nil
	}
	t.buf = append(t.buf, line)
	return nil
}

func (t *channelTransport) Ask(ctx context.Context, prompt string) (string, error) {
	t.buf = append(t.buf, strings.TrimRight(prompt, " "))
	t.turns <- turn{Messages: t.flush(), AwaitingInput: true}

	var timeout <-chan time.Time
	if t.idle > 0 {
		timer := time.NewTimer(t.idle)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case in := <-t.inputs:
		return in, nil
	case <-t.closed:
		return "", io.EOF
	case <-timeout:
		return "", io.EOF
	case <-ctx.Done():
		return "", io.EOF
	}
}

func (t *channelTransport) flush() []string {
	out := t.buf
	t.buf = nil
	if out == nil {
		out = []string{}
	}
	return out
}

type session struct {
	id string

	// сериализует ходы одной сессии
	mu sync.Mutex

	tr        *channelTransport
	closeOnce sync.Once
	closeCh   chan struct{}
	done      chan struct{}

	finishedAt time.Time
}

func newSession(id string, idle time.Duration) *session {
	closeCh := make(chan struct{})
	return &session{
		id: id,
		tr: &channelTransport{
			// одного слота хватает: каждый ход забирается до следующего ответа
			turns:  make(chan turn, 1),
			inputs: make(chan string),
			closed: closeCh,
			idle:   idle,
		},
		closeCh: closeCh,
		done:    make(chan struct{}),
	}
}

// run plays the conversation and emits the final turn once it is over.
func (s *session) run(ctx context.Context, runner Runner) {
	defer close(s.done)
	sum, err := runner.Run(ctx, s.id, s.tr)
	if err != nil {
		slog.Error("chat session failed", "session_id", s.id, "error", err.Error())
		sum.Final = conversation.StateAborted
	}
	s.tr.turns <- turn{Messages: s.tr.flush(), Done: true, Summary: sum}
}

func (s *session) finished() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// answer hands text to the conversation and waits for the next turn.
// ok is false when the conversation had already ended.
func (s *session) answer(text string) (turn, bool) {
	select {
	case s.tr.inputs <- text:
	case <-s.done:
		return turn{}, false
	}
	return <-s.tr.turns, true
}

func (s *session) abort() {
	s.closeOnce.Do(func() { close(s.closeCh) })
}
