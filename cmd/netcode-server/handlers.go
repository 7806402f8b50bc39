package main

import (
	"time"

	"github.com/duskwave-games/netcode/dispatch"
	"github.com/duskwave-games/netcode/message"
	"github.com/duskwave-games/netcode/server"
	"github.com/duskwave-games/netcode/transport"
)

// registerDemoHandlers wires the minimal message set a bare netcode-server
// needs to be useful standalone: world join and a chat echo. A real
// deployment registers its own gameplay messages on the same Dispatcher.
func registerDemoHandlers(s *server.ServerCore) {
	d := s.Dispatcher()

	dispatch.Register[message.JoinWorld](d, func(id transport.ConnectionID, m *message.JoinWorld) {
		e := transport.EntityID(id) // demo-only: one placeholder entity per connection
		if _, ok := s.JoinWorld(id, e); !ok {
			return
		}
		d.Send(id, &message.Joined{}, transport.Reliable, time.Now())
	}, true)

	// Echoes chat back to the sender; a real deployment would fan this out
	// to every connection observing the sender's avatar entity instead.
	dispatch.Register[message.Chat](d, func(id transport.ConnectionID, m *message.Chat) {
		d.Send(id, m, transport.Reliable, time.Now())
	}, true)

	s.OnConnectedFunc(func(id transport.ConnectionID) {
		s.SetAuthenticated(id, true)
	})
}
