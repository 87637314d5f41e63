// Package wire defines the message that carries a value from one machine to
// the inbox of its peer.
package wire

import "github.com/sarchlab/akita/v4/sim"

// ExternalPort is the source of values pushed into an inbox from outside a
// scheduler.
const ExternalPort sim.RemotePort = "External"

// ValueMsg moves one sent value from a machine to its peer.
type ValueMsg struct {
	sim.MsgMeta

	Data int64

	// Seq numbers the messages of one link, starting from 0.
	Seq int
}

// Meta returns the meta data of the msg.
func (m *ValueMsg) Meta() *sim.MsgMeta {
	return &m.MsgMeta
}

// Clone returns a copy of the msg with a new ID.
func (m *ValueMsg) Clone() sim.Msg {
	clone := *m
	clone.ID = sim.GetIDGenerator().Generate()

	return &clone
}

// ValueMsgBuilder is a factory for ValueMsg.
type ValueMsgBuilder struct {
	src, dst sim.RemotePort
	data     int64
	seq      int
}

// WithSrc sets the source port of the msg.
func (b ValueMsgBuilder) WithSrc(src sim.RemotePort) ValueMsgBuilder {
	b.src = src
	return b
}

// WithDst sets the destination port of the msg.
func (b ValueMsgBuilder) WithDst(dst sim.RemotePort) ValueMsgBuilder {
	b.dst = dst
	return b
}

// WithData sets the value carried by the msg.
func (b ValueMsgBuilder) WithData(data int64) ValueMsgBuilder {
	b.data = data
	return b
}

// WithSeq sets the sequence number of the msg on its link.
func (b ValueMsgBuilder) WithSeq(seq int) ValueMsgBuilder {
	b.seq = seq
	return b
}

// Build creates a ValueMsg.
func (b ValueMsgBuilder) Build() *ValueMsg {
	return &ValueMsg{
		MsgMeta: sim.MsgMeta{
			ID:  sim.GetIDGenerator().Generate(),
			Src: b.src,
			Dst: b.dst,
		},
		Data: b.data,
		Seq:  b.seq,
	}
}
