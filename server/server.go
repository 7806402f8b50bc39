// Package server ties bitio, message, batch, dispatch, and transport
// together into the authoritative game server's connection lifecycle:
// admission control, the connect/disconnect synthetic-message path, and
// spawn/unspawn bookkeeping toward the external entity store.
package server

import (
	"time"

	"github.com/duskwave-games/netcode/batch"
	"github.com/duskwave-games/netcode/dispatch"
	"github.com/duskwave-games/netcode/internal/netlog"
	"github.com/duskwave-games/netcode/message"
	"github.com/duskwave-games/netcode/transport"
)

// State is ServerCore's lifecycle variant.
type State int

const (
	Inactive State = iota
	Active
)

// Connection is the server-side bookkeeping for one live transport id.
// Exactly one exists per connected id; removed on transport_disconnected.
type Connection struct {
	ID            transport.ConnectionID
	Authenticated bool
	JoinedWorld   bool
	broken        bool
	owned         map[transport.EntityID]struct{}
}

func newConnection(id transport.ConnectionID) *Connection {
	return &Connection{ID: id, Authenticated: true, owned: make(map[transport.EntityID]struct{})}
}

// ServerCore is the authoritative server: connection table, state machine,
// and the glue between a Transport, a Dispatcher, and an EntityStore.
type ServerCore struct {
	cfg       Config
	state     State
	transport transport.Transport
	store     transport.EntityStore
	dispatch  *dispatch.Dispatcher
	batcher   *batch.Batcher
	logger    *netlog.Logger

	conns   map[transport.ConnectionID]*Connection
	spawned map[uint64]transport.EntityID

	// tickNow is the timestamp of the Tick call currently driving the
	// transport's event delivery; OnConnected/OnData/OnDisconnected all run
	// synchronously inside Tick (see transport.Transport.Tick), so this is
	// the "now" any message they send should carry.
	tickNow time.Time

	onConnected      func(id transport.ConnectionID)
	onDisconnected   func(id transport.ConnectionID)
	rebuildObservers func()
}

// New constructs a ServerCore over t and store. Handlers must be
// registered on Dispatcher() before Start, including the reserved
// Connect/Disconnect ids the core itself dispatches through.
func New(t transport.Transport, store transport.EntityStore, logger *netlog.Logger, opts ...Option) *ServerCore {
	cfg := defaultConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if logger == nil {
		logger = netlog.Default()
	}
	s := &ServerCore{
		cfg:       cfg,
		state:     Inactive,
		transport: t,
		store:     store,
		logger:    logger,
		conns:     make(map[transport.ConnectionID]*Connection),
		spawned:   make(map[uint64]transport.EntityID),
	}
	s.batcher = batch.New(t, t.MaxPacketSize(), cfg.BatchInterval, s.markBroken)
	s.dispatch = dispatch.New(s, s.batcher, cfg.SendBufferSize, s.logDrop)
	t.Bind(s)
	return s
}

// Dispatcher exposes the handler table for registration before Start.
func (s *ServerCore) Dispatcher() *dispatch.Dispatcher { return s.dispatch }

// State reports the current lifecycle state.
func (s *ServerCore) State() State { return s.state }

// OnConnectedFunc sets the user-level callback invoked after admission
// control accepts a new connection, before the synthetic Connect message
// is dispatched.
func (s *ServerCore) OnConnectedFunc(f func(id transport.ConnectionID)) { s.onConnected = f }

// OnDisconnectedFunc sets the user-level callback invoked after the
// synthetic Disconnect dispatch and before owned entities are destroyed and
// the connection is removed.
func (s *ServerCore) OnDisconnectedFunc(f func(id transport.ConnectionID)) { s.onDisconnected = f }

// RebuildObserversFunc sets the interest-management collaborator signaled
// after a connection is fully removed.
func (s *ServerCore) RebuildObserversFunc(f func()) { s.rebuildObservers = f }

// Start transitions INACTIVE->ACTIVE: builds the connection table, starts
// the transport, and only then flips state, so observers never see an
// ACTIVE server with an inactive transport.
func (s *ServerCore) Start() error {
	s.conns = make(map[transport.ConnectionID]*Connection)
	s.spawned = make(map[uint64]transport.EntityID)
	if err := s.transport.Start(); err != nil {
		return err
	}
	s.state = Active
	return nil
}

// Stop tears the server down: destroys every spawned entity via the
// external entity store, clears the connection table, stops the
// transport, and transitions to INACTIVE.
func (s *ServerCore) Stop() error {
	for netID, e := range s.spawned {
		s.store.Destroy(e)
		delete(s.spawned, netID)
	}
	s.conns = make(map[transport.ConnectionID]*Connection)
	err := s.transport.Stop()
	s.state = Inactive
	return err
}

// Tick drives the transport poll and the batcher's interval-based flush.
// Call this once per server tick (default 60 Hz, see Config.TickRate).
func (s *ServerCore) Tick(now time.Time) {
	s.tickNow = now
	s.transport.Tick()
	s.batcher.Tick(now)
}

// --- transport.EventSink ---

// OnConnected implements transport.EventSink: admission control followed
// by the synthetic Connect dispatch.
func (s *ServerCore) OnConnected(id transport.ConnectionID) {
	if _, exists := s.conns[id]; exists || len(s.conns) >= s.cfg.ConnectionLimit {
		s.transport.Disconnect(id)
		return
	}
	conn := newConnection(id)
	s.conns[id] = conn
	if s.onConnected != nil {
		s.onConnected(id)
	}
	s.dispatch.Deliver(id, &message.Connect{})
}

// OnData implements transport.EventSink: routes raw bytes to the
// dispatcher's batch-unpacking loop.
func (s *ServerCore) OnData(id transport.ConnectionID, data []byte) {
	s.dispatch.OnTransportData(id, data)
}

// OnDisconnected implements transport.EventSink: synthetic Disconnect
// dispatch, owned-entity teardown, then connection removal, in that
// order — the Disconnect handler may still need the connection's
// owned-entity set, so destruction must happen while it is still
// reachable and removal must happen last. Teardown goes through Destroy,
// not the store directly, so any other connection still observing an
// owned entity still gets its Unspawn before the entity disappears.
func (s *ServerCore) OnDisconnected(id transport.ConnectionID) {
	conn, ok := s.conns[id]
	if !ok {
		return
	}
	s.dispatch.Deliver(id, &message.Disconnect{})
	if s.onDisconnected != nil {
		s.onDisconnected(id)
	}
	owned := make([]transport.EntityID, 0, len(conn.owned))
	for e := range conn.owned {
		owned = append(owned, e)
	}
	for _, e := range owned {
		s.Destroy(e, transport.Reliable, s.tickNow)
	}
	s.batcher.Forget(id)
	delete(s.conns, id)
	if s.rebuildObservers != nil {
		s.rebuildObservers()
	}
}

// --- dispatch.ConnectionTable ---

func (s *ServerCore) Authenticated(id transport.ConnectionID) (authenticated, known bool) {
	conn, ok := s.conns[id]
	if !ok {
		return false, false
	}
	return conn.Authenticated, true
}

func (s *ServerCore) Broken(id transport.ConnectionID) bool {
	conn, ok := s.conns[id]
	return ok && conn.broken
}

func (s *ServerCore) Disconnect(id transport.ConnectionID) {
	if conn, ok := s.conns[id]; ok {
		conn.broken = true
	}
	s.transport.Disconnect(id)
}

func (s *ServerCore) markBroken(id transport.ConnectionID) {
	s.Disconnect(id)
}

func (s *ServerCore) logDrop(id transport.ConnectionID, msgID byte) {
	s.logger.Warn("dropped outbound message: serialization failed", "connID", id, "msgID", msgID)
}

// SetAuthenticated flips a connection's authenticated bit, e.g. from an
// authentication module's own Connect handler per spec.md §4.5.
func (s *ServerCore) SetAuthenticated(id transport.ConnectionID, authenticated bool) {
	if conn, ok := s.conns[id]; ok {
		conn.Authenticated = authenticated
	}
}

// Connection returns the bookkeeping for id, if it is currently connected.
func (s *ServerCore) Connection(id transport.ConnectionID) (*Connection, bool) {
	conn, ok := s.conns[id]
	return conn, ok
}
