package player

import "bytes"

const packetHandshake = 0x00

// handleHandshakePacket processes the single packet a connection can send
// while in StageHandshake: the client announces its protocol version and
// which stage (Status or Login) it wants next. Anything else is a
// malformed client and the connection is dropped.
func (c *Connection) handleHandshakePacket(id int32, r *bytes.Reader) {
	if id != packetHandshake {
		c.conn.Close()
		return
	}

	if _, err := readUVarInt(r); err != nil { // protocol_version, unused beyond acceptance
		c.conn.Close()
		return
	}
	if _, err := readString(r); err != nil { // server_address
		c.conn.Close()
		return
	}
	var portBuf [2]byte
	if _, err := r.Read(portBuf[:]); err != nil { // server_port
		c.conn.Close()
		return
	}
	nextState, err := readUVarInt(r)
	if err != nil {
		c.conn.Close()
		return
	}

	switch nextState {
	case 1:
		c.stage = StageStatus
	case 2:
		c.stage = StageLogin
	default:
		c.conn.Close()
	}
}
