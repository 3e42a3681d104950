package conversation

import "context"

// Transport is the ask/say boundary between the state machine and a chat channel.
// Ask must return io.EOF (possibly wrapped) when no more input will arrive.
type Transport interface {
	Say(ctx context.Context, line string) error
	Ask(ctx context.Context, prompt string) (string, error)
}
