package player

import "bytes"

const (
	packetStatusRequest  = 0x00
	packetPingRequest    = 0x01
	packetStatusResponse = 0x00
	packetPongResponse   = 0x01
)

// handleStatusPacket answers the two packets a pinging client sends: a
// StatusRequest (server-list entry) and a PingRequest (latency probe). The
// connection is terminal in this stage; the client closes after the pong.
func (c *Connection) handleStatusPacket(id int32, r *bytes.Reader) {
	switch id {
	case packetStatusRequest:
		c.write(encodeStatusResponse())
	case packetPingRequest:
		payload, err := readInt64(r)
		if err != nil {
			c.conn.Close()
			return
		}
		c.write(encodePongResponse(payload))
	default:
		c.conn.Close()
	}
}

func encodeStatusResponse() []byte {
	buf := newPacket(packetStatusResponse)
	writeString(buf, `{"version":{"name":"1.21.4","protocol":769},"players":{"max":20,"online":0},"description":{"text":"A wyvern server"}}`)
	return buf.Bytes()
}

func encodePongResponse(payload int64) []byte {
	buf := newPacket(packetPongResponse)
	writeInt64(buf, payload)
	return buf.Bytes()
}
