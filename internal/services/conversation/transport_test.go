package conversation

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/BearBump/ParcelAssist/internal/broker/messages"
)

// scriptedTransport отдаёт заранее заданные ответы, а после них — io.EOF.
type scriptedTransport struct {
	answers []string
	prompts []string
	lines   []string
	sayErr  error
}

func script(answers ...string) *scriptedTransport {
	return &scriptedTransport{answers: answers}
}

func (t *scriptedTransport) Say(_ context.Context, line string) error {
	if t.sayErr != nil {
		return t.sayErr
	}
	t.lines = append(t.lines, line)
	return nil
}

func (t *scriptedTransport) Ask(_ context.Context, prompt string) (string, error) {
	t.prompts = append(t.prompts, prompt)
	if len(t.answers) == 0 {
		return "", io.EOF
	}
	a := t.answers[0]
	t.answers = t.answers[1:]
	return a, nil
}

func (t *scriptedTransport) output() string {
	return strings.Join(t.lines, "\n")
}

func (t *scriptedTransport) asked(prompt string) int {
	n := 0
	for _, p := range t.prompts {
		if p == prompt {
			n++
		}
	}
	return n
}

type recordingEvents struct {
	mu     sync.Mutex
	events []messages.AssistantEvent
	err    error
}

func (r *recordingEvents) Publish(_ context.Context, ev messages.AssistantEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func (r *recordingEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}
