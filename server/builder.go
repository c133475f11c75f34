package server

import (
	"github.com/sirupsen/logrus"

	"github.com/oriumgames/wyvern/actor"
	"github.com/oriumgames/wyvern/chunkdata"
	"github.com/oriumgames/wyvern/component"
	"github.com/oriumgames/wyvern/dimension"
	"github.com/oriumgames/wyvern/event"
	"github.com/oriumgames/wyvern/registry"
)

// Builder assembles a Server with chained setters, mirroring the teacher's
// constructor-with-options shape (New/NewWithCompression) generalized to a
// fluent builder since this spec has far more optional knobs than the
// teacher's two-constructor pair could express cleanly.
type Builder struct {
	listenAddr     string
	dims           map[component.Id]dimension.Config
	defaultDim     component.Id
	registries     *registry.Container
	events         *event.Bus
	onlineMode     bool
	renderDistance int32
	resourcePack   *ResourcePack
	log            *logrus.Entry
}

// NewBuilder returns a Builder defaulting to 0.0.0.0:25565, offline mode,
// render distance 10, and a fresh empty event bus.
func NewBuilder() *Builder {
	return &Builder{
		listenAddr:     "0.0.0.0:25565",
		dims:           make(map[component.Id]dimension.Config),
		renderDistance: 10,
	}
}

// WithListenAddr overrides the TCP listen address.
func (b *Builder) WithListenAddr(addr string) *Builder {
	b.listenAddr = addr
	return b
}

// WithDimension registers a dimension configuration under id. The first
// dimension registered becomes the default unless WithDefaultDimension is
// also called.
func (b *Builder) WithDimension(id component.Id, cfg dimension.Config) *Builder {
	cfg.ID = id
	if cfg.StateTable == nil {
		cfg.StateTable = chunkdata.NewStateTable()
	}
	if len(b.dims) == 0 {
		b.defaultDim = id
	}
	b.dims[id] = cfg
	return b
}

// WithDefaultDimension overrides which registered dimension new players
// join absent an event.PlayerJoinEvent override.
func (b *Builder) WithDefaultDimension(id component.Id) *Builder {
	b.defaultDim = id
	return b
}

// WithRegistries sets the vanilla registry snapshot sent during Config.
func (b *Builder) WithRegistries(registries *registry.Container) *Builder {
	b.registries = registries
	return b
}

// WithEvents sets the event bus handlers register against. Defaults to a
// fresh empty Bus if never called.
func (b *Builder) WithEvents(bus *event.Bus) *Builder {
	b.events = bus
	return b
}

// WithOnlineMode toggles Mojang session-server verification during Login.
func (b *Builder) WithOnlineMode(on bool) *Builder {
	b.onlineMode = on
	return b
}

// WithRenderDistance sets the default chunk-streaming radius for new
// connections.
func (b *Builder) WithRenderDistance(chunks int32) *Builder {
	b.renderDistance = chunks
	return b
}

// WithResourcePack configures the optional resource pack pushed to every
// joining player.
func (b *Builder) WithResourcePack(pack ResourcePack) *Builder {
	b.resourcePack = &pack
	return b
}

// WithLogger overrides the structured logger every actor and connection
// logs through. Defaults to logrus.StandardLogger().
func (b *Builder) WithLogger(log *logrus.Entry) *Builder {
	b.log = log
	return b
}

// Build finalizes the Builder: spawns every registered dimension's actor
// and returns the assembled, not-yet-listening Server.
func (b *Builder) Build() *Server {
	log := b.log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	events := b.events
	if events == nil {
		events = event.NewBus(log)
	}
	registries := b.registries
	if registries == nil {
		registries = registry.NewBuilder().AddDefaults().Build()
	}

	entityAlloc := &actor.Counter{}
	dims := make(map[component.Id]dimension.Handle, len(b.dims))
	for id, cfg := range b.dims {
		cfg.EntityAlloc = entityAlloc
		dims[id] = dimension.Spawn(cfg)
	}

	return &Server{
		listenAddr:     b.listenAddr,
		dims:           dims,
		defaultDim:     b.defaultDim,
		registries:     registries,
		events:         events,
		entityAlloc:    entityAlloc,
		onlineMode:     b.onlineMode,
		renderDistance: b.renderDistance,
		resourcePack:   b.resourcePack,
		log:            log,
	}
}
