package ingest

import (
	"bufio"
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"syscall"
	"unicode/utf8"

	"github.com/kbukum/itemfeed/errors"
	"github.com/kbukum/itemfeed/itemchan"
	"github.com/kbukum/itemfeed/logger"
	"github.com/kbukum/itemfeed/observability"
)

// BufferSize is the read buffer size of a Loop.
const BufferSize = 64 * 1024

// Loop reads lines from a source and publishes them as items.
type Loop struct {
	// LineEnding terminates lines. With '\n', a preceding '\r' is dropped.
	LineEnding byte
	Mode       Mode
	// Source labels metrics and logs, e.g. "pipe" or "command".
	Source  string
	Logger  *logger.Logger
	Metrics *observability.Metrics
}

// Run consumes src until end of input and sends every line on tx. It
// returns nil at end of input and when the receiver is gone. Invalid UTF-8
// stops the loop with INVALID_ENCODING after the complete lines preceding
// the bad byte have been published.
func (l *Loop) Run(src io.Reader, tx *itemchan.Sender) error {
	log := l.Logger
	if log == nil {
		log = logger.Get(logger.ComponentIngest)
	}
	ctx := context.Background()
	br := bufio.NewReaderSize(retryReader{src}, BufferSize)
	buf := make([]byte, 0, BufferSize)
	total := 0

	for {
		var readErr error
		buf, readErr = l.fill(br, buf[:0])
		if len(buf) == 0 {
			if readErr != nil && readErr != io.EOF {
				log.Debug("read ended", logger.Fields(logger.FieldSource, l.Source, logger.FieldError, readErr.Error()))
			}
			break
		}

		valid := buf
		var encErr error
		if off := invalidOffset(buf); off >= 0 {
			valid = buf[:bytes.LastIndexByte(buf[:off], l.LineEnding)+1]
			encErr = errors.InvalidEncoding(total + off)
		}

		n, gone := l.publish(valid, tx)
		total += len(buf)
		l.Metrics.RecordItems(ctx, l.Source, n)
		switch {
		case gone:
			log.Debug("receiver gone", logger.Fields(logger.FieldSource, l.Source))
			return nil
		case encErr != nil:
			return encErr
		case readErr != nil:
			if readErr != io.EOF {
				log.Debug("read ended", logger.Fields(logger.FieldSource, l.Source, logger.FieldError, readErr.Error()))
			}
			return nil
		}
	}
	return nil
}

// fill appends whatever br already holds, or the result of one blocking
// read when it holds nothing, then reads on to the next terminator unless
// the data already ends with one.
func (l *Loop) fill(br *bufio.Reader, buf []byte) ([]byte, error) {
	n := br.Buffered()
	if n == 0 {
		if _, err := br.Peek(1); err != nil {
			return buf, err
		}
		n = br.Buffered()
	}
	chunk, _ := br.Peek(n)
	buf = append(buf, chunk...)
	_, _ = br.Discard(n)

	if buf[len(buf)-1] == l.LineEnding {
		return buf, nil
	}
	rest, err := br.ReadBytes(l.LineEnding)
	return append(buf, rest...), err
}

// publish splits chunk into lines and sends them. It reports how many
// were sent and whether the receiver is gone.
func (l *Loop) publish(chunk []byte, tx *itemchan.Sender) (int, bool) {
	sent := 0
	for len(chunk) > 0 {
		line := chunk
		if i := bytes.IndexByte(chunk, l.LineEnding); i >= 0 {
			line, chunk = chunk[:i], chunk[i+1:]
		} else {
			chunk = nil
		}
		if l.LineEnding == '\n' {
			line = bytes.TrimSuffix(line, []byte{'\r'})
		}
		if err := tx.Send(l.Mode.Item(string(line))); err != nil {
			return sent, true
		}
		sent++
	}
	return sent, false
}

// invalidOffset returns the index of the first byte that is not valid
// UTF-8, or -1.
func invalidOffset(b []byte) int {
	if utf8.Valid(b) {
		return -1
	}
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

// retryReader retries reads interrupted by a signal.
type retryReader struct {
	r io.Reader
}

func (rr retryReader) Read(p []byte) (int, error) {
	for {
		n, err := rr.r.Read(p)
		if n == 0 && interrupted(err) {
			continue
		}
		return n, err
	}
}

func interrupted(err error) bool {
	return err != nil && (stderrors.Is(err, syscall.EINTR) || errors.HasCode(err, errors.ErrCodeInterrupted))
}
