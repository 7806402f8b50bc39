package dispatch_test

import (
	"testing"
	"time"

	"github.com/duskwave-games/netcode/batch"
	"github.com/duskwave-games/netcode/bitio"
	"github.com/duskwave-games/netcode/dispatch"
	"github.com/duskwave-games/netcode/message"
	"github.com/duskwave-games/netcode/transport"
)

type fakeConns struct {
	authenticated map[transport.ConnectionID]bool
	known         map[transport.ConnectionID]bool
	broken        map[transport.ConnectionID]bool
	disconnected  []transport.ConnectionID
}

func newFakeConns() *fakeConns {
	return &fakeConns{
		authenticated: map[transport.ConnectionID]bool{},
		known:         map[transport.ConnectionID]bool{},
		broken:        map[transport.ConnectionID]bool{},
	}
}

func (f *fakeConns) Authenticated(id transport.ConnectionID) (bool, bool) {
	return f.authenticated[id], f.known[id]
}
func (f *fakeConns) Broken(id transport.ConnectionID) bool { return f.broken[id] }
func (f *fakeConns) Disconnect(id transport.ConnectionID) {
	f.disconnected = append(f.disconnected, id)
}

type fakeSender struct{ sent [][]byte }

func (f *fakeSender) Send(id transport.ConnectionID, data []byte, channel transport.Channel) bool {
	cp := make([]byte, len(data))
	copy(cp, data)
	f.sent = append(f.sent, cp)
	return true
}

func TestAuthGateBlocksUnauthenticatedHandler(t *testing.T) {
	conns := newFakeConns()
	conns.known[1] = true
	conns.authenticated[1] = false

	sender := &fakeSender{}
	b := batch.New(sender, 64, time.Second, nil)
	d := dispatch.New(conns, b, 64, nil)

	called := false
	if err := dispatch.Register[message.Chat](d, func(id transport.ConnectionID, m *message.Chat) {
		called = true
	}, true); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Build a valid Chat frame.
	buf := make([]byte, 256)
	w := bitio.NewWriter(buf)
	w.WriteByteBits(message.IDChat, 8)
	(&message.Chat{Sender: "a", Text: "b"}).Serialize(w)

	d.OnTransportData(1, w.Segment())

	if called {
		t.Fatalf("handler was invoked despite requires_auth and authenticated=false")
	}
	if len(conns.disconnected) != 1 || conns.disconnected[0] != 1 {
		t.Fatalf("expected connection 1 disconnected, got %v", conns.disconnected)
	}
}

func TestAuthenticatedDeliversToHandler(t *testing.T) {
	conns := newFakeConns()
	conns.known[1] = true
	conns.authenticated[1] = true

	sender := &fakeSender{}
	b := batch.New(sender, 64, time.Second, nil)
	d := dispatch.New(conns, b, 64, nil)

	var gotText string
	dispatch.Register[message.Chat](d, func(id transport.ConnectionID, m *message.Chat) {
		gotText = m.Text
	}, true)

	buf := make([]byte, 256)
	w := bitio.NewWriter(buf)
	w.WriteByteBits(message.IDChat, 8)
	(&message.Chat{Sender: "a", Text: "hello"}).Serialize(w)

	d.OnTransportData(1, w.Segment())

	if gotText != "hello" {
		t.Fatalf("got %q, want hello", gotText)
	}
	if len(conns.disconnected) != 0 {
		t.Fatalf("unexpected disconnect: %v", conns.disconnected)
	}
}

func TestUnknownMessageIDDisconnects(t *testing.T) {
	conns := newFakeConns()
	conns.known[1] = true
	conns.authenticated[1] = true
	sender := &fakeSender{}
	b := batch.New(sender, 64, time.Second, nil)
	d := dispatch.New(conns, b, 64, nil)

	d.OnTransportData(1, []byte{0xEE})

	if len(conns.disconnected) != 1 {
		t.Fatalf("expected disconnect on unknown id, got %v", conns.disconnected)
	}
}

func TestRegisterTwiceFails(t *testing.T) {
	conns := newFakeConns()
	sender := &fakeSender{}
	b := batch.New(sender, 64, time.Second, nil)
	d := dispatch.New(conns, b, 64, nil)

	if err := dispatch.Register[message.Chat](d, func(transport.ConnectionID, *message.Chat) {}, false); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if err := dispatch.Register[message.Chat](d, func(transport.ConnectionID, *message.Chat) {}, false); err != dispatch.ErrAlreadyRegistered {
		t.Fatalf("second Register error = %v, want ErrAlreadyRegistered", err)
	}
}

func TestMultipleMessagesPerBatch(t *testing.T) {
	conns := newFakeConns()
	conns.known[1] = true
	conns.authenticated[1] = true
	sender := &fakeSender{}
	b := batch.New(sender, 64, time.Second, nil)
	d := dispatch.New(conns, b, 64, nil)

	var unspawns []uint64
	dispatch.Register[message.Unspawn](d, func(id transport.ConnectionID, m *message.Unspawn) {
		unspawns = append(unspawns, m.NetID)
	}, false)

	buf := make([]byte, 256)
	w := bitio.NewWriter(buf)
	for _, netID := range []uint64{1, 2, 3} {
		w.WriteByteBits(message.IDUnspawn, 8)
		(&message.Unspawn{NetID: netID}).Serialize(w)
	}

	d.OnTransportData(1, w.Segment())

	if len(unspawns) != 3 || unspawns[0] != 1 || unspawns[1] != 2 || unspawns[2] != 3 {
		t.Fatalf("got %v, want [1 2 3]", unspawns)
	}
}

func TestSendUnknownConnectionRejected(t *testing.T) {
	conns := newFakeConns()
	sender := &fakeSender{}
	b := batch.New(sender, 64, time.Second, nil)
	d := dispatch.New(conns, b, 64, nil)

	if d.Send(99, &message.Joined{}, transport.Reliable, time.Unix(0, 0)) {
		t.Fatalf("expected Send to reject an unknown connection")
	}
}

func TestDeliverSyntheticConnect(t *testing.T) {
	conns := newFakeConns()
	conns.known[1] = true
	conns.authenticated[1] = true
	sender := &fakeSender{}
	b := batch.New(sender, 64, time.Second, nil)
	d := dispatch.New(conns, b, 64, nil)

	called := false
	dispatch.Register[message.Connect](d, func(id transport.ConnectionID, m *message.Connect) {
		called = true
	}, false)

	if !d.Deliver(1, &message.Connect{}) {
		t.Fatalf("Deliver failed")
	}
	if !called {
		t.Fatalf("Connect handler not invoked")
	}
}
