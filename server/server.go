// Package server wires the dimension set, the registry snapshot, the event
// bus, and the entity-id allocator into a single listening process: the
// root object every cmd/ binary constructs via Builder.
package server

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"net"

	"github.com/sirupsen/logrus"

	"github.com/oriumgames/wyvern/actor"
	"github.com/oriumgames/wyvern/component"
	"github.com/oriumgames/wyvern/dimension"
	"github.com/oriumgames/wyvern/event"
	"github.com/oriumgames/wyvern/player"
	"github.com/oriumgames/wyvern/registry"
)

// ResourcePack describes an optional resource pack pushed to every joining
// player during the Config substage.
type ResourcePack struct {
	URL    string
	Hash   string
	Forced bool
}

// Server owns every dimension, the shared registries snapshot, the event
// bus, and the entity-id allocator. It has no actor mailbox of its own: the
// listener's accept loop and each dimension's own actor are the concurrent
// pieces; Server itself is just the wiring.
type Server struct {
	listenAddr     string
	dims           map[component.Id]dimension.Handle
	defaultDim     component.Id
	registries     *registry.Container
	events         *event.Bus
	entityAlloc    *actor.Counter
	onlineMode     bool
	renderDistance int32
	resourcePack   *ResourcePack
	keypair        *rsa.PrivateKey
	log            *logrus.Entry
}

// resolveDimension implements player.DefaultDimensionProvider: an event
// handler's override (set on event.PlayerJoinEvent) takes precedence over
// the server's configured default dimension.
func (s *Server) resolveDimension(override *component.Id) (dimension.Handle, error) {
	id := s.defaultDim
	if override != nil {
		id = *override
	}
	dim, ok := s.dims[id]
	if !ok {
		return dimension.Handle{}, fmt.Errorf("server: no dimension registered for %s", id)
	}
	return dim, nil
}

func (s *Server) resourcePackRequest() *player.ResourcePackRequest {
	if s.resourcePack == nil {
		return nil
	}
	return &player.ResourcePackRequest{
		URL:    s.resourcePack.URL,
		Hash:   s.resourcePack.Hash,
		Forced: s.resourcePack.Forced,
	}
}

// Dimension returns the running handle for id, if any.
func (s *Server) Dimension(id component.Id) (dimension.Handle, bool) {
	dim, ok := s.dims[id]
	return dim, ok
}

// Run starts the TCP listener and blocks, accepting connections until the
// listener is closed or accept fails permanently. Each accepted connection
// is handed to a fresh player.Connection actor.
func (s *Server) Run() error {
	if s.onlineMode && s.keypair == nil {
		key, err := rsa.GenerateKey(rand.Reader, 1024)
		if err != nil {
			return fmt.Errorf("server: generating login keypair: %w", err)
		}
		s.keypair = key
	}

	ln, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", s.listenAddr, err)
	}
	defer ln.Close()
	s.log.WithField("addr", s.listenAddr).Info("listening")

	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		s.log.WithField("remote", conn.RemoteAddr()).Debug("accepted connection")
		player.Spawn(player.Config{
			Conn:             conn,
			Registries:       s.registries,
			Events:           s.events,
			Log:              s.log,
			Keypair:          s.keypair,
			OnlineMode:       s.onlineMode,
			EntityAlloc:      s.entityAlloc,
			ResolveDimension: s.resolveDimension,
			RenderDistance:   s.renderDistance,
			ResourcePack:     s.resourcePackRequest(),
		})
	}
}
