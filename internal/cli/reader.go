package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// LineReader reads answers to prompts and gives up when its context ends.
type LineReader struct {
	reader *bufio.Reader
	out    io.Writer
	mu     sync.Mutex
}

// NewLineReader creates a reader over in that writes prompts to out.
func NewLineReader(in io.Reader, out io.Writer) *LineReader {
	if out == nil {
		out = io.Discard
	}
	return &LineReader{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// ReadLine reads one trimmed line. A final line without a newline is
// returned as is; an empty input yields io.EOF.
func (r *LineReader) ReadLine(ctx context.Context) (string, error) {
	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		value, err := r.reader.ReadString('\n')
		if errors.Is(err, io.EOF) && value != "" {
			err = nil
		}
		resultCh <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-resultCh:
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.value), nil
	}
}

// Ask prints prompt and returns the answer, or def when the answer is empty.
func (r *LineReader) Ask(ctx context.Context, prompt, def string) (string, error) {
	label := prompt
	if def != "" {
		label = fmt.Sprintf("%s [%s]", prompt, def)
	}
	if _, err := fmt.Fprint(r.out, FormatPrompt(label)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	answer, err := r.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Confirm asks a yes/no question. Anything but y or yes means no.
func (r *LineReader) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := r.Ask(ctx, question+" (y/N)", "")
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
