package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"syscall"

	"github.com/kbukum/itemfeed/ansi"
	"github.com/kbukum/itemfeed/header"
	"github.com/kbukum/itemfeed/item"
	"github.com/kbukum/itemfeed/itemchan"
	"github.com/kbukum/itemfeed/store"
)

// printer writes items as they arrive. The first headerLines items are
// held in the pool and printed as part of the header.
type printer struct {
	out         io.Writer
	sep         byte
	original    bool
	headerLines int
	pool        *store.Pool
	header      *header.Header
	width       int
}

// run prints everything rx delivers and returns the number of items
// printed below the header. A reader that closed the output is not an
// error.
func (p *printer) run(ctx context.Context, rx *itemchan.Receiver) (int, error) {
	n, err := p.print(ctx, rx)
	if errors.Is(err, syscall.EPIPE) {
		return n, nil
	}
	return n, err
}

func (p *printer) print(ctx context.Context, rx *itemchan.Receiver) (int, error) {
	w := bufio.NewWriter(p.out)

	pending := p.headerLines
	headerDone := false
	n := 0
	for {
		it, ok := rx.Recv(ctx)
		if !ok {
			break
		}
		if pending > 0 {
			p.pool.Append(it)
			pending--
			continue
		}
		if !headerDone {
			headerDone = true
			if err := p.writeHeader(w); err != nil {
				return n, err
			}
		}
		if err := p.writeItem(w, it); err != nil {
			return n, err
		}
		n++
	}
	if !headerDone {
		if err := p.writeHeader(w); err != nil {
			return n, err
		}
	}
	if err := w.Flush(); err != nil {
		return n, err
	}
	return n, ctx.Err()
}

func (p *printer) writeHeader(w *bufio.Writer) error {
	lines := p.header.LinesOfHeader()
	if lines == 0 {
		return nil
	}
	rows, err := p.header.Render(p.width, lines)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := w.WriteString(row + "\n"); err != nil {
			return err
		}
	}
	return nil
}

func (p *printer) writeItem(w *bufio.Writer, it *item.Item) error {
	text := it.Output()
	if !p.original {
		text = ansi.Render(it.Display(item.DisplayContext{}))
	}
	if _, err := w.WriteString(text); err != nil {
		return err
	}
	return w.WriteByte(p.sep)
}
