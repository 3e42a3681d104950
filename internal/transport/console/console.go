// Package console runs a conversation over a line-oriented reader and writer,
// typically stdin and stdout.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Transport writes each said line with a trailing newline and reads one line per Ask.
// Prompts are written without a newline so the answer is typed right after them.
type Transport struct {
	in  *bufio.Reader
	out io.Writer

	// prompt был напечатан, а ответа так и не пришло
	pending bool
}

func New(in io.Reader, out io.Writer) *Transport {
	return &Transport{in: bufio.NewReader(in), out: out}
}

func (t *Transport) Say(_ context.Context, line string) error {
	if t.pending {
		if _, err := io.WriteString(t.out, "\n"); err != nil {
			return errors.Wrap(err, "console write")
		}
		t.pending = false
	}
	if _, err := fmt.Fprintln(t.out, line); err != nil {
		return errors.Wrap(err, "console write")
	}
	return nil
}

// Ask returns io.EOF when the input is exhausted or ctx is done.
func (t *Transport) Ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", io.EOF
	}
	if _, err := io.WriteString(t.out, prompt); err != nil {
		return "", errors.Wrap(err, "console write")
	}
	line, err := t.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		t.pending = true
		if err == io.EOF {
			return "", io.EOF
		}
		return "", errors.Wrap(err, "console read")
	}
	// длина строки не ограничена: слишком длинный ввод просто не пройдёт валидацию
	return strings.TrimRight(line, "\r\n"), nil
}
