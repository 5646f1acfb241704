package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/itemfeed/item"
	"github.com/kbukum/itemfeed/itemchan"
)

func TestAppendAndGet(t *testing.T) {
	p := New()
	hs := p.Append(item.Raw("a"), item.Raw("b"))
	if len(hs) != 2 || p.Len() != 2 {
		t.Fatalf("Append returned %d handles, Len() = %d", len(hs), p.Len())
	}
	it, ok := p.Get(hs[1])
	if !ok || it.Text() != "b" {
		t.Fatalf("Get() = %v, %v", it, ok)
	}
	if _, ok := p.Get(Handle{index: 5}); ok {
		t.Fatal("Get() out of range should report absent")
	}
}

func TestClearInvalidatesHandles(t *testing.T) {
	p := New()
	h := p.Append(item.Raw("old"))[0]
	p.Clear()

	if _, ok := p.Get(h); ok {
		t.Fatal("handle survived Clear")
	}
	p.Append(item.Raw("new"))
	if _, ok := p.Get(h); ok {
		t.Fatal("stale handle resolved to an item of the next generation")
	}
	if p.Generation() != 1 {
		t.Fatalf("Generation() = %d", p.Generation())
	}
}

func TestReserve(t *testing.T) {
	p := New()
	p.Reserve(2)
	p.Append(item.Raw("h1"))
	p.Append(item.Raw("h2"), item.Raw("x"), item.Raw("y"))

	reserved := p.Reserved()
	if len(reserved) != 2 {
		t.Fatalf("Reserved() = %d handles, want 2", len(reserved))
	}
	if it, _ := p.Get(reserved[1]); it.Text() != "h2" {
		t.Fatalf("second reserved = %q", it.Text())
	}
	items := p.Items()
	if len(items) != 2 || items[0].Text() != "x" {
		t.Fatalf("Items() = %d, first %q", len(items), items[0].Text())
	}

	p.Clear()
	p.Append(item.Raw("H"), item.Raw("I"), item.Raw("z"))
	if got := len(p.Reserved()); got != 2 {
		t.Fatalf("after Clear, Reserved() = %d, want 2", got)
	}
	if got := p.Items(); len(got) != 1 || got[0].Text() != "z" {
		t.Fatalf("after Clear, Items() = %d", len(got))
	}
}

func TestReserveAfterAppend(t *testing.T) {
	p := New()
	p.Append(item.Raw("a"), item.Raw("b"))
	p.Reserve(1)
	p.Append(item.Raw("c"), item.Raw("d"))

	if got := texts(p.Items()); got != "a,b,d" {
		t.Fatalf("Items() = %s, want a,b,d", got)
	}
	reserved := p.Reserved()
	if len(reserved) != 1 {
		t.Fatalf("Reserved() has %d handles, want 1", len(reserved))
	}
	if it, ok := p.Get(reserved[0]); !ok || it.Text() != "c" {
		t.Fatalf("reserved item = %v, %v, want c", it, ok)
	}
}

func TestZeroPoolReserve(t *testing.T) {
	var p Pool
	p.Reserve(1)
	p.Append(item.Raw("h"), item.Raw("x"))
	if got := texts(p.Items()); got != "x" {
		t.Fatalf("Items() = %s, want x", got)
	}
}

func texts(items []*item.Item) string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Text()
	}
	return strings.Join(out, ",")
}

func TestConsume(t *testing.T) {
	tx, rx := itemchan.New(0)
	go func() {
		defer tx.Close()
		for _, s := range []string{"a", "b", "c"} {
			_ = tx.Send(item.Raw(s))
		}
	}()

	p := New()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	n, err := p.Consume(ctx, rx)
	if err != nil || n != 3 || p.Len() != 3 {
		t.Fatalf("Consume() = %d, %v; Len() = %d", n, err, p.Len())
	}
}

func TestConsumeCancelled(t *testing.T) {
	tx, rx := itemchan.New(0)
	defer tx.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Consume(ctx, rx); err == nil {
		t.Fatal("Consume() should return the context error")
	}
}
