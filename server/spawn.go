package server

import (
	"time"

	"github.com/duskwave-games/netcode/message"
	"github.com/duskwave-games/netcode/transport"
)

// Spawn assigns e a net id derived from the external entity store's unique
// id, records it in the spawned map, and — if owner is non-nil — adds e to
// that connection's owned-entity set. It does not itself notify observers;
// callers send a message.Spawn to whichever connections should see it.
func (s *ServerCore) Spawn(e transport.EntityID, owner *transport.ConnectionID) uint64 {
	netID := s.store.UniqueID(e)
	s.store.SetNetworkComponent(e, netID)
	s.spawned[netID] = e
	if owner != nil {
		if conn, ok := s.conns[*owner]; ok {
			conn.owned[e] = struct{}{}
		}
	}
	return netID
}

// Unspawn removes e from the spawned map and from whichever connection owns
// it, and emits message.Unspawn to every observer connection that still
// exists. The net id stored for e in the entity store is left in place.
func (s *ServerCore) Unspawn(e transport.EntityID, channel transport.Channel, now time.Time) {
	s.unspawnLocked(e)
	netID, ok := s.store.GetNetworkComponent(e)
	if !ok {
		return
	}
	for _, obs := range s.store.Observers(e) {
		if _, known := s.conns[obs]; known {
			s.dispatch.Send(obs, &message.Unspawn{NetID: netID}, channel, now)
		}
	}
}

func (s *ServerCore) unspawnLocked(e transport.EntityID) {
	netID, ok := s.store.GetNetworkComponent(e)
	if ok {
		delete(s.spawned, netID)
	}
	for _, conn := range s.conns {
		delete(conn.owned, e)
	}
}

// Destroy unspawns e (notifying observers) and then removes it from the
// external entity store.
func (s *ServerCore) Destroy(e transport.EntityID, channel transport.Channel, now time.Time) {
	s.Unspawn(e, channel, now)
	s.store.Destroy(e)
}

// JoinWorld spawns e owned by connID and marks connID's world-join flag,
// per spec.md §4.5: "spawn(entity, Some(connection_id)) plus setting the
// connection's joined_world flag."
func (s *ServerCore) JoinWorld(connID transport.ConnectionID, e transport.EntityID) (netID uint64, ok bool) {
	conn, known := s.conns[connID]
	if !known {
		return 0, false
	}
	netID = s.Spawn(e, &connID)
	conn.JoinedWorld = true
	return netID, true
}
