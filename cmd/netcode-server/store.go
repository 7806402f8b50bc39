package main

import "github.com/duskwave-games/netcode/transport"

// demoStore is a minimal in-memory transport.EntityStore, good enough to
// let netcode-server run standalone. A real deployment supplies its own
// store backed by the host engine's entity/component system; ServerCore
// never assumes anything about how one is implemented.
type demoStore struct {
	netIDs    map[transport.EntityID]uint64
	observers map[transport.EntityID][]transport.ConnectionID
	nextID    uint64
}

func newDemoStore() *demoStore {
	return &demoStore{
		netIDs:    make(map[transport.EntityID]uint64),
		observers: make(map[transport.EntityID][]transport.ConnectionID),
	}
}

func (s *demoStore) HasNetworkComponent(e transport.EntityID) bool {
	_, ok := s.netIDs[e]
	return ok
}

func (s *demoStore) GetNetworkComponent(e transport.EntityID) (uint64, bool) {
	v, ok := s.netIDs[e]
	return v, ok
}

func (s *demoStore) SetNetworkComponent(e transport.EntityID, netID uint64) {
	s.netIDs[e] = netID
}

func (s *demoStore) UniqueID(e transport.EntityID) uint64 {
	s.nextID++
	return s.nextID
}

func (s *demoStore) Destroy(e transport.EntityID) {
	delete(s.netIDs, e)
	delete(s.observers, e)
}

func (s *demoStore) Observers(e transport.EntityID) []transport.ConnectionID {
	return s.observers[e]
}

func (s *demoStore) AddObserver(e transport.EntityID, id transport.ConnectionID) {
	s.observers[e] = append(s.observers[e], id)
}

func (s *demoStore) RemoveObserver(e transport.EntityID, id transport.ConnectionID) {
	obs := s.observers[e]
	for i, o := range obs {
		if o == id {
			s.observers[e] = append(obs[:i], obs[i+1:]...)
			return
		}
	}
}
