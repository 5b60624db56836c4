// Package notifier delivers formatted alerts and digests.
package notifier

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Notifier sends one formatted message.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// LogNotifier writes messages to the log instead of a chat.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier is used when no chat is configured.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{logger: log.With().Str("component", "log_notifier").Logger()}
}

func (n *LogNotifier) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.logger.Info().Msg(text)
	return nil
}

// WriterNotifier prints messages to w, separated by blank lines.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	_, err := fmt.Fprintf(n.w, "%s\n\n", text)
	return err
}

// splitMessage breaks text into chunks of at most limit bytes, cutting on
// line boundaries where possible.
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var b strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > limit {
			if b.Len() > 0 {
				chunks = append(chunks, b.String())
				b.Reset()
			}
			cut := limit
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			if cut == 0 {
				cut = limit
			}
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}
		if b.Len()+len(line) > limit {
			chunks = append(chunks, b.String())
			b.Reset()
		}
		b.WriteString(line)
	}
	if b.Len() > 0 {
		chunks = append(chunks, b.String())
	}
	return chunks
}
