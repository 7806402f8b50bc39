package server_test

import (
	"testing"

	"github.com/duskwave-games/netcode/dispatch"
	"github.com/duskwave-games/netcode/message"
	"github.com/duskwave-games/netcode/server"
	"github.com/duskwave-games/netcode/transport"
)

type fakeTransport struct {
	sink          transport.EventSink
	started       bool
	disconnected  []transport.ConnectionID
	sent          map[transport.ConnectionID][][]byte
	startErr      error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{sent: make(map[transport.ConnectionID][][]byte)}
}

func (f *fakeTransport) Start() error   { f.started = true; return f.startErr }
func (f *fakeTransport) Stop() error    { f.started = false; return nil }
func (f *fakeTransport) IsActive() bool { return f.started }
func (f *fakeTransport) Send(id transport.ConnectionID, data []byte, channel transport.Channel) bool {
	cp := make([]byte, len(data))
	copy(cp, data)
	f.sent[id] = append(f.sent[id], cp)
	return true
}
func (f *fakeTransport) Disconnect(id transport.ConnectionID) {
	f.disconnected = append(f.disconnected, id)
}
func (f *fakeTransport) MaxPacketSize() int               { return 256 }
func (f *fakeTransport) GetAddress(transport.ConnectionID) string { return "fake" }
func (f *fakeTransport) Tick()                            {}
func (f *fakeTransport) Bind(sink transport.EventSink)    { f.sink = sink }

type fakeStore struct {
	netIDs    map[transport.EntityID]uint64
	observers map[transport.EntityID][]transport.ConnectionID
	destroyed []transport.EntityID
	nextID    uint64
}

func newFakeStore() *fakeStore {
	return &fakeStore{netIDs: make(map[transport.EntityID]uint64), observers: make(map[transport.EntityID][]transport.ConnectionID)}
}

func (f *fakeStore) HasNetworkComponent(e transport.EntityID) bool {
	_, ok := f.netIDs[e]
	return ok
}
func (f *fakeStore) GetNetworkComponent(e transport.EntityID) (uint64, bool) {
	v, ok := f.netIDs[e]
	return v, ok
}
func (f *fakeStore) SetNetworkComponent(e transport.EntityID, netID uint64) { f.netIDs[e] = netID }
func (f *fakeStore) UniqueID(e transport.EntityID) uint64 {
	f.nextID++
	return f.nextID
}
func (f *fakeStore) Destroy(e transport.EntityID) { f.destroyed = append(f.destroyed, e) }
func (f *fakeStore) Observers(e transport.EntityID) []transport.ConnectionID {
	return f.observers[e]
}
func (f *fakeStore) AddObserver(e transport.EntityID, id transport.ConnectionID) {
	f.observers[e] = append(f.observers[e], id)
}
func (f *fakeStore) RemoveObserver(e transport.EntityID, id transport.ConnectionID) {}

func TestStartOrdersTransportBeforeActive(t *testing.T) {
	tr := newFakeTransport()
	st := newFakeStore()
	s := server.New(tr, st, nil)
	if s.State() != server.Inactive {
		t.Fatalf("expected Inactive before Start")
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !tr.started {
		t.Fatalf("transport was not started")
	}
	if s.State() != server.Active {
		t.Fatalf("expected Active after Start")
	}
}

func TestAdmissionRejectsOverCapacity(t *testing.T) {
	tr := newFakeTransport()
	st := newFakeStore()
	s := server.New(tr, st, nil, server.WithConnectionLimit(1))
	s.Start()

	s.OnConnected(1)
	if _, ok := s.Connection(1); !ok {
		t.Fatalf("connection 1 should have been admitted")
	}
	s.OnConnected(2)
	if _, ok := s.Connection(2); ok {
		t.Fatalf("connection 2 should have been rejected over capacity")
	}
	found := false
	for _, id := range tr.disconnected {
		if id == 2 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected connection 2 to be disconnected, got %v", tr.disconnected)
	}
}

func TestAdmissionRejectsDuplicateID(t *testing.T) {
	tr := newFakeTransport()
	st := newFakeStore()
	s := server.New(tr, st, nil, server.WithConnectionLimit(10))
	s.Start()

	s.OnConnected(1)
	tr.disconnected = nil
	s.OnConnected(1)
	if len(tr.disconnected) != 1 || tr.disconnected[0] != 1 {
		t.Fatalf("expected duplicate connect to be disconnected, got %v", tr.disconnected)
	}
}

func TestNewConnectionDefaultsAuthenticatedTrue(t *testing.T) {
	tr := newFakeTransport()
	st := newFakeStore()
	s := server.New(tr, st, nil)
	s.Start()
	s.OnConnected(1)
	conn, ok := s.Connection(1)
	if !ok || !conn.Authenticated {
		t.Fatalf("expected new connection authenticated=true by default")
	}
}

func TestDisconnectDestroysOwnedEntitiesBeforeRemoval(t *testing.T) {
	tr := newFakeTransport()
	st := newFakeStore()
	s := server.New(tr, st, nil)
	s.Start()
	s.OnConnected(1)

	e := transport.EntityID(1)
	s.JoinWorld(1, e)

	s.OnDisconnected(1)

	if _, ok := s.Connection(1); ok {
		t.Fatalf("connection should be removed after disconnect")
	}
	found := false
	for _, d := range st.destroyed {
		if d == e {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected owned entity destroyed on disconnect, got %v", st.destroyed)
	}
}

func TestStopDestroysAllSpawnedEntities(t *testing.T) {
	tr := newFakeTransport()
	st := newFakeStore()
	s := server.New(tr, st, nil)
	s.Start()
	s.OnConnected(1)
	e := transport.EntityID(5)
	s.Spawn(e, nil)

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if s.State() != server.Inactive {
		t.Fatalf("expected Inactive after Stop")
	}
	found := false
	for _, d := range st.destroyed {
		if d == e {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected spawned entity destroyed on stop, got %v", st.destroyed)
	}
}

func TestJoinWorldSetsFlagAndSpawns(t *testing.T) {
	tr := newFakeTransport()
	st := newFakeStore()
	s := server.New(tr, st, nil)
	s.Start()
	s.OnConnected(1)

	e := transport.EntityID(9)
	netID, ok := s.JoinWorld(1, e)
	if !ok || netID == 0 {
		t.Fatalf("JoinWorld failed: netID=%d ok=%v", netID, ok)
	}
	conn, _ := s.Connection(1)
	if !conn.JoinedWorld {
		t.Fatalf("expected JoinedWorld to be set")
	}
}

func TestConnectDispatchesSyntheticMessage(t *testing.T) {
	tr := newFakeTransport()
	st := newFakeStore()
	s := server.New(tr, st, nil)

	called := false
	if err := dispatch.Register[message.Connect](s.Dispatcher(), func(id transport.ConnectionID, m *message.Connect) {
		called = true
	}, false); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	s.Start()
	s.OnConnected(1)
	if !called {
		t.Fatalf("expected Connect handler to be invoked via the synthetic dispatch path")
	}
}
