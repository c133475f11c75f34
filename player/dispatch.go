package player

import (
	"bytes"
	"io"
)

// readLoop blocks on the socket, decoding frames with the connection's
// Framer and handing each decoded packet to the actor's mailbox as an
// inboundFrameMsg so that every stateful decision about it (stage
// transitions, component writes) happens on the single owning goroutine.
// The Framer's own fields (compression flag, cipher) are mutated only from
// inside handle() calls running on that same goroutine. EnableEncryption
// runs while EncryptionResponse is handled, so LoginCompression and
// LoginFinished already go out encrypted; a ReadFrame that is blocked when
// the cipher is installed still decrypts the bytes that arrive after it,
// because the Framer looks the cipher up on every read.
func (c *Connection) readLoop(h Handle) {
	defer func() {
		_ = c.conn.Close()
		h.Stop()
	}()
	for {
		frame, err := c.framer.ReadFrame(c.conn)
		if err != nil {
			if err != io.EOF {
				c.log.WithError(err).Debug("connection read failed")
			}
			return
		}
		if err := h.inner.Send(inboundFrameMsg{data: frame}); err != nil {
			return
		}
	}
}

type inboundFrameMsg struct {
	data []byte
}

func (m inboundFrameMsg) handle(c *Connection) {
	r := bytes.NewReader(m.data)
	id, err := readUVarInt(r)
	if err != nil {
		c.log.WithError(err).Debug("malformed packet, dropping connection")
		c.conn.Close()
		return
	}

	switch c.stage {
	case StageHandshake:
		c.handleHandshakePacket(id, r)
	case StageStatus:
		c.handleStatusPacket(id, r)
	case StageLogin:
		c.handleLoginPacket(id, r)
	case StageConfig:
		c.handleConfigPacket(id, r)
	case StagePlay:
		c.handlePlayPacket(id, r)
	}
}

// write is a small convenience wrapper every stage handler uses to send a
// fully-encoded packet back down the framer.
func (c *Connection) write(packet []byte) {
	if err := c.framer.WriteFrame(c.conn, packet); err != nil {
		c.log.WithError(err).Debug("write failed")
	}
}
