package player

import (
	"bytes"

	"github.com/oriumgames/wyvern/registry"
)

const (
	packetClientInformation   = 0x00
	packetSelectKnownPacksIn  = 0x07
	packetFinishConfiguration = 0x03

	packetSelectKnownPacksOut = 0x0E
	packetRegistryData        = 0x07
	packetResourcePackPush    = 0x09
	packetFinishConfigOut     = 0x03
)

// ResourcePackRequest configures the optional resource-pack push a server
// can perform during Config, per spec.md §9's design note that the
// "forced" flag should be configurable rather than hardcoded.
type ResourcePackRequest struct {
	URL    string
	Hash   string
	Forced bool
}

// beginConfig starts the Config substage: announce no known registry
// packs, stream every registry kind as a RegistryData packet, then ask the
// client to acknowledge completion.
func (c *Connection) beginConfig() {
	c.write(encodeSelectKnownPacks(nil))
	if c.registries != nil {
		for _, kind := range registry.AllKinds {
			c.write(encodeRegistryData(kind, c.registries.Entries(kind)))
		}
	}
	if c.resourcePack != nil {
		c.write(encodeResourcePackPush(*c.resourcePack))
	}
	c.write(encodeFinishConfiguration())
}

func (c *Connection) handleConfigPacket(id int32, r *bytes.Reader) {
	switch id {
	case packetClientInformation:
		c.handleClientInformation(r)
	case packetSelectKnownPacksIn:
		// The client's own known-pack list; wyvern always resends every
		// registry regardless, so the reply itself needs no action beyond
		// advancing past it.
	case packetFinishConfiguration:
		c.connectToNewDimension()
	default:
	}
}

func (c *Connection) handleClientInformation(r *bytes.Reader) {
	locale, err := readString(r)
	if err != nil {
		return
	}
	viewDistance, err := r.ReadByte()
	if err != nil {
		return
	}
	_ = locale
	if int32(viewDistance) > 0 && int32(viewDistance) < c.renderDistance {
		c.renderDistance = int32(viewDistance)
	}
}

// PushResourcePack writes a ResourcePackPush packet for req to this
// connection immediately, whatever its current stage.
func (c *Connection) PushResourcePack(req ResourcePackRequest) {
	c.write(encodeResourcePackPush(req))
}

func encodeSelectKnownPacks(packs []string) []byte {
	buf := newPacket(packetSelectKnownPacksOut)
	_ = writeUVarInt(buf, int32(len(packs)))
	for _, p := range packs {
		writeString(buf, p)
	}
	return buf.Bytes()
}

func encodeRegistryData(kind registry.Kind, entries []registry.Entry) []byte {
	buf := newPacket(packetRegistryData)
	writeString(buf, string(kind))
	_ = writeUVarInt(buf, int32(len(entries)))
	for _, e := range entries {
		writeString(buf, e.ID.String())
	}
	return buf.Bytes()
}

func encodeResourcePackPush(req ResourcePackRequest) []byte {
	buf := newPacket(packetResourcePackPush)
	writeString(buf, req.URL)
	writeString(buf, req.Hash)
	writeBool(buf, req.Forced)
	return buf.Bytes()
}

func encodeFinishConfiguration() []byte {
	return newPacket(packetFinishConfigOut).Bytes()
}
