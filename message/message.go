// Package message defines the wire shapes exchanged between server and
// client, framed as <id:8 bits><payload> by the dispatch package.
package message

import "github.com/duskwave-games/netcode/bitio"

// Reserved message ids. Applications own 0x00 and 0x40-0xFF; 0x03-0x21,
// 0x24, 0x26-0x30, and 0x34-0x3F are reserved for future core use.
const (
	IDConnect    byte = 0x01
	IDDisconnect byte = 0x02
	IDSpawn      byte = 0x22
	IDUnspawn    byte = 0x23
	IDTransform  byte = 0x25
	IDJoinWorld  byte = 0x31
	IDJoined     byte = 0x32
	IDChat       byte = 0x33
)

// Message is any value that can be framed with a stable one-byte id and
// serialized/deserialized through bitio. Implementations are value types:
// a fresh zero value is default-constructed by the dispatcher before each
// Deserialize call.
type Message interface {
	ID() byte
	Serialize(w *bitio.Writer) bool
	Deserialize(r *bitio.Reader) bool
}

// prefabIDSize is the inline byte-blob length used for prefab identifiers
// in Spawn and JoinWorld.
const prefabIDSize = 16

// Connect is synthesized by ServerCore on transport_connected; it is never
// sent over the wire.
type Connect struct{}

func (Connect) ID() byte                           { return IDConnect }
func (Connect) Serialize(w *bitio.Writer) bool      { return true }
func (c *Connect) Deserialize(r *bitio.Reader) bool { return true }

// Disconnect is synthesized by ServerCore on transport_disconnected; it is
// never sent over the wire.
type Disconnect struct{}

func (Disconnect) ID() byte                           { return IDDisconnect }
func (Disconnect) Serialize(w *bitio.Writer) bool      { return true }
func (d *Disconnect) Deserialize(r *bitio.Reader) bool { return true }

// Spawn tells a client to instantiate prefab PrefabID as network entity
// NetID, owned by the receiving connection if Owned is set.
type Spawn struct {
	PrefabID   [prefabIDSize]byte
	NetID      uint64
	Owned      bool
	X, Y, Z    float32
	Quaternion bitio.Quaternion
}

func (Spawn) ID() byte { return IDSpawn }

func (s *Spawn) Serialize(w *bitio.Writer) bool {
	if !w.WriteInlineBytes(s.PrefabID[:], prefabIDSize) {
		return false
	}
	if !w.WriteU64(s.NetID, 0, ^uint64(0)) {
		return false
	}
	if !w.WriteBool(s.Owned) {
		return false
	}
	if !w.WriteFloat(s.X) || !w.WriteFloat(s.Y) || !w.WriteFloat(s.Z) {
		return false
	}
	return w.WriteQuaternionSmallestThree(s.Quaternion)
}

func (s *Spawn) Deserialize(r *bitio.Reader) bool {
	prefab, ok := r.ReadInlineBytes(prefabIDSize)
	if !ok {
		return false
	}
	netID, ok := r.ReadU64(0, ^uint64(0))
	if !ok {
		return false
	}
	owned, ok := r.ReadBool()
	if !ok {
		return false
	}
	x, ok := r.ReadFloat()
	if !ok {
		return false
	}
	y, ok := r.ReadFloat()
	if !ok {
		return false
	}
	z, ok := r.ReadFloat()
	if !ok {
		return false
	}
	q, ok := r.ReadQuaternionSmallestThree()
	if !ok {
		return false
	}
	copy(s.PrefabID[:], prefab)
	s.NetID, s.Owned, s.X, s.Y, s.Z, s.Quaternion = netID, owned, x, y, z, q
	return true
}

// Unspawn tells a client to remove network entity NetID.
type Unspawn struct {
	NetID uint64
}

func (Unspawn) ID() byte { return IDUnspawn }

func (u *Unspawn) Serialize(w *bitio.Writer) bool {
	return w.WriteU64(u.NetID, 0, ^uint64(0))
}

func (u *Unspawn) Deserialize(r *bitio.Reader) bool {
	v, ok := r.ReadU64(0, ^uint64(0))
	if !ok {
		return false
	}
	u.NetID = v
	return true
}

// Transform updates the position and rotation of network entity NetID.
type Transform struct {
	NetID      uint64
	X, Y, Z    float32
	Quaternion bitio.Quaternion
}

func (Transform) ID() byte { return IDTransform }

func (t *Transform) Serialize(w *bitio.Writer) bool {
	if !w.WriteU64(t.NetID, 0, ^uint64(0)) {
		return false
	}
	if !w.WriteFloat(t.X) || !w.WriteFloat(t.Y) || !w.WriteFloat(t.Z) {
		return false
	}
	return w.WriteQuaternionSmallestThree(t.Quaternion)
}

func (t *Transform) Deserialize(r *bitio.Reader) bool {
	netID, ok := r.ReadU64(0, ^uint64(0))
	if !ok {
		return false
	}
	x, ok := r.ReadFloat()
	if !ok {
		return false
	}
	y, ok := r.ReadFloat()
	if !ok {
		return false
	}
	z, ok := r.ReadFloat()
	if !ok {
		return false
	}
	q, ok := r.ReadQuaternionSmallestThree()
	if !ok {
		return false
	}
	t.NetID, t.X, t.Y, t.Z, t.Quaternion = netID, x, y, z, q
	return true
}

// JoinWorld requests that the receiving connection's avatar prefab be
// spawned and the world join finalized. The spec's table lists JoinWorld
// ambiguously as either a 16-byte prefab id or a 32-byte fixed string;
// this package picks the prefab-id shape, since Chat already owns the
// fixed-string payload shape and ServerCore's join_world operation (§4.5)
// takes an entity/prefab, not free text.
type JoinWorld struct {
	PrefabID [prefabIDSize]byte
}

func (JoinWorld) ID() byte { return IDJoinWorld }

func (j *JoinWorld) Serialize(w *bitio.Writer) bool {
	return w.WriteInlineBytes(j.PrefabID[:], prefabIDSize)
}

func (j *JoinWorld) Deserialize(r *bitio.Reader) bool {
	b, ok := r.ReadInlineBytes(prefabIDSize)
	if !ok {
		return false
	}
	copy(j.PrefabID[:], b)
	return true
}

// Joined confirms a successful JoinWorld to the requesting connection.
type Joined struct{}

func (Joined) ID() byte                          { return IDJoined }
func (Joined) Serialize(w *bitio.Writer) bool     { return true }
func (j *Joined) Deserialize(r *bitio.Reader) bool { return true }

// Chat carries a chat line from Sender.
type Chat struct {
	Sender string
	Text   string
}

func (Chat) ID() byte { return IDChat }

func (c *Chat) Serialize(w *bitio.Writer) bool {
	if !w.WriteFixedString32(c.Sender) {
		return false
	}
	return w.WriteFixedString128(c.Text)
}

func (c *Chat) Deserialize(r *bitio.Reader) bool {
	sender, ok := r.ReadFixedString32()
	if !ok {
		return false
	}
	text, ok := r.ReadFixedString128()
	if !ok {
		return false
	}
	c.Sender, c.Text = sender, text
	return true
}
