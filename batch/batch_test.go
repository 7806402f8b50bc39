package batch_test

import (
	"testing"
	"time"

	"github.com/duskwave-games/netcode/batch"
	"github.com/duskwave-games/netcode/bitio"
	"github.com/duskwave-games/netcode/transport"
)

type fakeSender struct {
	sent [][]byte
	fail bool
}

func (f *fakeSender) Send(id transport.ConnectionID, data []byte, channel transport.Channel) bool {
	if f.fail {
		return false
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	f.sent = append(f.sent, cp)
	return true
}

func writerWithBits(n int) *bitio.Writer {
	buf := make([]byte, 8)
	w := bitio.NewWriter(buf)
	for n > 32 {
		w.WriteUintBits(0xFFFFFFFF, 32)
		n -= 32
	}
	if n > 0 {
		w.WriteUintBits(0xFFFFFFFF, n)
	}
	return w
}

func TestAppendFlushScenario(t *testing.T) {
	sender := &fakeSender{}
	now := time.Unix(0, 0)
	b := batch.New(sender, 16, time.Second, nil)

	lens := []int{12, 20, 8, 8}
	for _, n := range lens {
		msg := writerWithBits(n)
		if !b.Append(1, transport.Reliable, msg, now) {
			t.Fatalf("Append(%d bits) failed", n)
		}
	}
	if !b.Flush(1, transport.Reliable, now) {
		t.Fatalf("Flush failed")
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d batches, want 1", len(sender.sent))
	}
	if len(sender.sent[0]) != 6 {
		t.Fatalf("flushed %d bytes, want 6", len(sender.sent[0]))
	}
}

func TestTickFlushesAfterInterval(t *testing.T) {
	sender := &fakeSender{}
	start := time.Unix(0, 0)
	b := batch.New(sender, 32, 10*time.Millisecond, nil)

	msg := writerWithBits(8)
	if !b.Append(1, transport.Reliable, msg, start) {
		t.Fatalf("Append failed")
	}
	b.Tick(start.Add(5 * time.Millisecond))
	if len(sender.sent) != 0 {
		t.Fatalf("flushed early: %d sends", len(sender.sent))
	}
	b.Tick(start.Add(11 * time.Millisecond))
	if len(sender.sent) != 1 {
		t.Fatalf("expected one flush after interval, got %d", len(sender.sent))
	}
}

func TestFlushFailureInvokesBrokenCallback(t *testing.T) {
	sender := &fakeSender{fail: true}
	var broken transport.ConnectionID
	called := false
	b := batch.New(sender, 32, time.Second, func(id transport.ConnectionID) {
		called = true
		broken = id
	})
	msg := writerWithBits(8)
	now := time.Unix(0, 0)
	b.Append(5, transport.Reliable, msg, now)
	if b.Flush(5, transport.Reliable, now) {
		t.Fatalf("expected Flush to report failure")
	}
	if !called || broken != 5 {
		t.Fatalf("onBroken not invoked correctly: called=%v id=%d", called, broken)
	}
}

func TestAppendFlushesFullBatchBeforeAppending(t *testing.T) {
	sender := &fakeSender{}
	now := time.Unix(0, 0)
	b := batch.New(sender, 5, time.Second, nil) // MTU 5: 40 bits of space per batch

	first := writerWithBits(32)
	if !b.Append(1, transport.Reliable, first, now) {
		t.Fatalf("first append failed")
	}
	second := writerWithBits(16) // only 8 bits left after first
	if !b.Append(1, transport.Reliable, second, now) {
		t.Fatalf("second append failed")
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected an automatic flush to make room, got %d sends", len(sender.sent))
	}
}
