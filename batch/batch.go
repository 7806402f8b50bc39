// Package batch accumulates outgoing messages per (connection, channel)
// and flushes them to the transport either when full or on a timer.
package batch

import (
	"time"

	"github.com/duskwave-games/netcode/bitio"
	"github.com/duskwave-games/netcode/transport"
)

// DefaultInterval is the flush timeout applied when Batcher is constructed
// with interval <= 0.
const DefaultInterval = 10 * time.Millisecond

// Sender is the subset of transport.Transport a Batcher needs to flush.
type Sender interface {
	Send(id transport.ConnectionID, data []byte, channel transport.Channel) bool
}

// Batch is one pending outgoing buffer for a single (connection, channel)
// pair: a Writer over an MTU-sized buffer plus the time of its last flush.
type Batch struct {
	buf          []byte
	w            *bitio.Writer
	lastSendTime time.Time
}

func newBatch(mtu int, now time.Time) *Batch {
	buf := make([]byte, mtu)
	return &Batch{buf: buf, w: bitio.NewWriter(buf), lastSendTime: now}
}

func (b *Batch) empty() bool { return b.w.BitPosition() == 0 }

func (b *Batch) reset(now time.Time) {
	b.w.Reset(b.buf)
	b.lastSendTime = now
}

type key struct {
	id      transport.ConnectionID
	channel transport.Channel
}

// Batcher owns one Batch per (connection, channel) pair and the
// broken-connection callback fired on an unrecoverable flush failure.
type Batcher struct {
	sender   Sender
	mtu      int
	interval time.Duration
	batches  map[key]*Batch
	onBroken func(id transport.ConnectionID)
}

// New returns a Batcher that flushes through sender, sizing each batch
// buffer to mtu bytes. onBroken is invoked (at most once per connection,
// from the caller's perspective — Batcher does not itself dedupe) when a
// flush's transport send fails. interval <= 0 uses DefaultInterval.
func New(sender Sender, mtu int, interval time.Duration, onBroken func(id transport.ConnectionID)) *Batcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Batcher{
		sender:   sender,
		mtu:      mtu,
		interval: interval,
		batches:  make(map[key]*Batch),
		onBroken: onBroken,
	}
}

func (b *Batcher) batchFor(id transport.ConnectionID, channel transport.Channel, now time.Time) *Batch {
	k := key{id, channel}
	bt, ok := b.batches[k]
	if !ok {
		bt = newBatch(b.mtu, now)
		b.batches[k] = bt
	}
	return bt
}

// Append copies msg's bit-exact content into the batch for (id, channel),
// flushing first if the current batch cannot accommodate it. Returns false
// on a hard failure (the message alone cannot fit even an empty batch, or
// the flush it triggered failed); in both cases onBroken has been invoked
// for id.
func (b *Batcher) Append(id transport.ConnectionID, channel transport.Channel, msg *bitio.Writer, now time.Time) bool {
	bt := b.batchFor(id, channel, now)
	bits := msg.BitPosition()
	if bt.w.SpaceBits() < bits {
		if !bt.empty() {
			if !b.flushBatch(id, channel, bt, now) {
				return false
			}
		}
		if bt.w.SpaceBits() < bits {
			if b.onBroken != nil {
				b.onBroken(id)
			}
			return false
		}
	}
	payload := msg.Segment()
	return bt.w.WriteBytesBitSize(payload, int(bits))
}

// Flush emits the batch for (id, channel), if any, regardless of size or
// age. A no-op when the batch is empty or does not yet exist.
func (b *Batcher) Flush(id transport.ConnectionID, channel transport.Channel, now time.Time) bool {
	bt, ok := b.batches[key{id, channel}]
	if !ok || bt.empty() {
		return true
	}
	return b.flushBatch(id, channel, bt, now)
}

func (b *Batcher) flushBatch(id transport.ConnectionID, channel transport.Channel, bt *Batch, now time.Time) bool {
	payload := bt.w.Segment()
	if !b.sender.Send(id, payload, channel) {
		if b.onBroken != nil {
			b.onBroken(id)
		}
		return false
	}
	bt.reset(now)
	return true
}

// Tick flushes every batch whose age has exceeded the configured interval.
// Called periodically by the server's tick loop (§5 of the design: no
// internal timers or goroutines, the caller drives progress).
func (b *Batcher) Tick(now time.Time) {
	for k, bt := range b.batches {
		if bt.empty() {
			continue
		}
		if now.Sub(bt.lastSendTime) >= b.interval {
			b.flushBatch(k.id, k.channel, bt, now)
		}
	}
}

// Forget drops all batches for id, e.g. once its connection is removed.
func (b *Batcher) Forget(id transport.ConnectionID) {
	for k := range b.batches {
		if k.id == id {
			delete(b.batches, k)
		}
	}
}
