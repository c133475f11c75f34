// Command wyvernserver hosts a single wyvern server process: one overworld
// dimension backed by a flat generator, vanilla registry defaults, and a
// TCP listener on the default Java-edition port.
package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/oriumgames/wyvern/chunkdata"
	"github.com/oriumgames/wyvern/component"
	"github.com/oriumgames/wyvern/dimension"
	"github.com/oriumgames/wyvern/server"
	"github.com/oriumgames/wyvern/vecmath"
)

func main() {
	log := logrus.NewEntry(logrus.StandardLogger())
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	overworld := component.MinecraftId("overworld")

	srv := server.NewBuilder().
		WithListenAddr("0.0.0.0:25565").
		WithDimension(overworld, dimension.Config{
			MinSection: -4,
			MaxSection: 19,
			ChunkMax:   vecmath.ChunkPos{X: 512, Z: 512},
			StateTable: stateTable,
			Generator:  flatGenerator,
		}).
		WithDefaultDimension(overworld).
		WithRenderDistance(10).
		WithLogger(log).
		Build()

	if err := srv.Run(); err != nil {
		log.WithError(err).Error("server exited")
		os.Exit(1)
	}
}

// stateTable is the overworld's block-state table; flatGenerator registers
// stone in it so the protocol id it writes resolves back to stone.
var stateTable = chunkdata.NewStateTable()

// flatGenerator fills a newly-initialized chunk's bottom four layers with
// stone and the world-height layer above with air, a minimal superflat-style
// default world since spec.md names no terrain generator.
func flatGenerator(chunk *chunkdata.Chunk, chunkX, chunkZ int32) {
	stoneName := component.MinecraftId("stone")
	stoneID := stateTable.Register(chunkdata.BlockState{Name: stoneName})
	noBlockEntities := func(component.Id) (component.Id, bool) { return component.Id{}, false }
	for x := int32(0); x < 16; x++ {
		for z := int32(0); z < 16; z++ {
			for y := int32(-64); y < -60; y++ {
				_ = chunk.SetBlock(x, y, z, stoneID, nil, stoneName, noBlockEntities)
			}
		}
	}
}
