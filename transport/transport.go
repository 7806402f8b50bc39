// Package transport declares the external contracts ServerCore drives: the
// network transport and the game's entity store. Neither is implemented
// here — concrete transports (KCP, TCP, libuv, loopback) and the
// entity/scene system live outside this module's scope. This module ships
// no Transport implementation; the tests use in-package fakes.
package transport

// Channel is the transport's reliability class. Transports may map these
// onto their own concepts (e.g. a KCP stream vs. an unreliable datagram).
type Channel int

const (
	Reliable Channel = iota
	Unreliable
)

func (c Channel) String() string {
	if c == Reliable {
		return "reliable"
	}
	return "unreliable"
}

// ConnectionID identifies a connection on a Transport. Transports assign
// these; ServerCore treats them as opaque keys.
type ConnectionID uint64

// EventSink receives the three events a Transport surfaces to the server,
// always on the server's own thread/tick.
type EventSink interface {
	OnConnected(id ConnectionID)
	OnData(id ConnectionID, data []byte)
	OnDisconnected(id ConnectionID)
}

// Transport is the network boundary ServerCore drives. Implementations
// deliver events to a bound EventSink from within Tick; they must never
// call back into the sink from another goroutine.
type Transport interface {
	// Start begins accepting connections and delivering events.
	Start() error
	// Stop halts the transport and releases its resources.
	Stop() error
	// IsActive reports whether Start has been called without a matching Stop.
	IsActive() bool

	// Send writes data to connection id on channel. Returns false on a hard
	// send failure; the caller marks the connection broken and disconnects
	// it rather than retrying.
	Send(id ConnectionID, data []byte, channel Channel) bool
	// Disconnect unilaterally severs connection id.
	Disconnect(id ConnectionID)

	// MaxPacketSize bounds the size of any single Send payload (the MTU);
	// Batcher sizes its buffers to this value.
	MaxPacketSize() int
	// GetAddress returns a human-readable peer address for logging.
	GetAddress(id ConnectionID) string

	// Tick polls for connects/data/disconnects and delivers them to the
	// bound EventSink before returning.
	Tick()

	// Bind attaches the EventSink that Tick delivers events to. Called once
	// by server.New, before ServerCore.Start starts the transport.
	Bind(sink EventSink)
}

// EntityID is the external entity/scene system's identifier for a game
// object, opaque to this module.
type EntityID uint64

// EntityStore is the external collaborator that owns game-specific
// components, interest management, and physics removal. ServerCore never
// reaches into game-specific component data directly.
type EntityStore interface {
	// HasNetworkComponent reports whether e carries a network identity.
	HasNetworkComponent(e EntityID) bool
	// GetNetworkComponent returns e's assigned net id and whether it has one.
	GetNetworkComponent(e EntityID) (netID uint64, ok bool)
	// SetNetworkComponent assigns e's net id.
	SetNetworkComponent(e EntityID, netID uint64)
	// UniqueID derives a stable u64 identity for e, used as its net id.
	UniqueID(e EntityID) uint64
	// Destroy removes e from the game world.
	Destroy(e EntityID)

	// Observers returns the connections currently interested in e.
	Observers(e EntityID) []ConnectionID
	// AddObserver marks id as interested in e.
	AddObserver(e EntityID, id ConnectionID)
	// RemoveObserver stops tracking id's interest in e.
	RemoveObserver(e EntityID, id ConnectionID)
}
