// Package dispatch maps message ids to typed handlers and drives the
// outbound send path through a Batcher.
package dispatch

import (
	"errors"
	"time"

	"github.com/duskwave-games/netcode/batch"
	"github.com/duskwave-games/netcode/bitio"
	"github.com/duskwave-games/netcode/message"
	"github.com/duskwave-games/netcode/transport"
)

// ErrAlreadyRegistered is returned by Register when a handler already
// exists for the message kind's id.
var ErrAlreadyRegistered = errors.New("dispatch: handler already registered for this id")

// ConnectionTable is the subset of connection bookkeeping the dispatcher
// needs. It is declared here, not in package server, so dispatch does not
// import server (server imports dispatch).
type ConnectionTable interface {
	// Authenticated reports connID's authentication bit and whether connID
	// is known at all.
	Authenticated(connID transport.ConnectionID) (authenticated, known bool)
	// Broken reports whether connID has been marked broken.
	Broken(connID transport.ConnectionID) bool
	// Disconnect unilaterally severs connID (protocol violation path).
	Disconnect(connID transport.ConnectionID)
}

type handlerEntry struct {
	requiresAuth bool
	invoke       func(connID transport.ConnectionID, r *bitio.Reader) bool
}

// Dispatcher owns the message-id -> handler table and the outbound send
// path. Its zero value is not usable; construct with New.
type Dispatcher struct {
	conns    ConnectionTable
	batcher  *batch.Batcher
	handlers map[byte]handlerEntry
	sendBuf  []byte
	logDrop  func(id transport.ConnectionID, msgID byte)
}

// New returns a Dispatcher that gates handlers through conns and appends
// outbound messages to batcher. sendBufSize must be at least 1 byte plus
// the largest message payload any registered kind can serialize; it is
// reused, one Writer per message, across every Send call.
func New(conns ConnectionTable, batcher *batch.Batcher, sendBufSize int, logDrop func(id transport.ConnectionID, msgID byte)) *Dispatcher {
	return &Dispatcher{
		conns:    conns,
		batcher:  batcher,
		handlers: make(map[byte]handlerEntry),
		sendBuf:  make([]byte, sendBufSize),
		logDrop:  logDrop,
	}
}

// msgPtr constrains Register's type parameters: T is the message's value
// type, PT is the pointer type that actually implements message.Message
// (Deserialize needs a mutable receiver).
type msgPtr[T any] interface {
	*T
	message.Message
}

// Register installs handler for the message kind PT under its stable id.
// The wrapper default-constructs a fresh T for every inbound frame,
// enforces requiresAuth before deserializing a single byte of payload, and
// disconnects on deserialization failure. Returns ErrAlreadyRegistered if
// the id already has a handler.
func Register[T any, PT msgPtr[T]](d *Dispatcher, handler func(connID transport.ConnectionID, msg PT), requiresAuth bool) error {
	var probe T
	id := PT(&probe).ID()
	if _, exists := d.handlers[id]; exists {
		return ErrAlreadyRegistered
	}
	d.handlers[id] = handlerEntry{
		requiresAuth: requiresAuth,
		invoke: func(connID transport.ConnectionID, r *bitio.Reader) bool {
			var m T
			pm := PT(&m)
			if !pm.Deserialize(r) {
				return false
			}
			handler(connID, pm)
			return true
		},
	}
	return nil
}

// OnTransportData is the inbound entry point: it frames data as zero or
// more <id:8 bits><payload> pairs, dispatching each in turn. A short final
// remainder (fewer than 8 bits) is assumed to be the batch's own trailing
// zero-bit padding and is discarded silently, never treated as truncation.
// A frame truncated inside a payload is caught by the handler's Deserialize
// failing, which disconnects.
func (d *Dispatcher) OnTransportData(connID transport.ConnectionID, data []byte) {
	r := bitio.NewReader(data)
	for r.RemainingBits() >= 8 {
		idByte, ok := r.ReadByteBits(8)
		if !ok {
			d.conns.Disconnect(connID)
			return
		}
		entry, known := d.handlers[idByte]
		if !known {
			d.conns.Disconnect(connID)
			return
		}
		if entry.requiresAuth {
			authenticated, connKnown := d.conns.Authenticated(connID)
			if !connKnown || !authenticated {
				d.conns.Disconnect(connID)
				return
			}
		}
		if !entry.invoke(connID, r) {
			d.conns.Disconnect(connID)
			return
		}
	}
}

// Deliver dispatches a synthetic message (Connect, Disconnect) that never
// travels over the wire, through the same handler path as a wire
// message so connection bookkeeping flows through one code path. Returns
// false if no handler is registered for m's id.
func (d *Dispatcher) Deliver(connID transport.ConnectionID, m message.Message) bool {
	entry, known := d.handlers[m.ID()]
	if !known {
		return false
	}
	if entry.requiresAuth {
		authenticated, connKnown := d.conns.Authenticated(connID)
		if !connKnown || !authenticated {
			d.conns.Disconnect(connID)
			return false
		}
	}
	return entry.invoke(connID, bitio.NewReader(nil))
}

// Send serializes m and appends it to connID's batch on channel. Rejects
// silently if connID is unknown or broken. A serialization failure (the
// message does not fit the send buffer) is logged and the message is
// dropped, not a disconnect — it is a developer error, not a protocol
// violation.
func (d *Dispatcher) Send(connID transport.ConnectionID, m message.Message, channel transport.Channel, now time.Time) bool {
	return d.SendBulk(connID, []message.Message{m}, channel, now)
}

// SendBulk serializes and appends each of msgs in order, one Writer per
// message. Stops attempting further messages to connID this tick as soon
// as a batch append fails (the connection is presumed broken); a
// serialization failure for one message does not stop the rest.
func (d *Dispatcher) SendBulk(connID transport.ConnectionID, msgs []message.Message, channel transport.Channel, now time.Time) bool {
	if d.conns.Broken(connID) {
		return false
	}
	if _, known := d.conns.Authenticated(connID); !known {
		return false
	}
	allOK := true
	for _, m := range msgs {
		w := bitio.NewWriter(d.sendBuf)
		if !w.WriteByteBits(m.ID(), 8) || !m.Serialize(w) {
			if d.logDrop != nil {
				d.logDrop(connID, m.ID())
			}
			allOK = false
			continue
		}
		if !d.batcher.Append(connID, channel, w, now) {
			return false
		}
	}
	return allOK
}
