package main

import (
	"math/rand"
	"testing"
	"time"

	"github.com/aukilabs/octree/geometry"
	"github.com/aukilabs/octree/simulation"
	"github.com/stretchr/testify/require"
)

func testConfig() config {
	return config{
		LogSummaryInterval: time.Minute,
		FrameDuration:      time.Millisecond * 15,
		MaxDepth:           3,
		Bodies:             50,
		BodyRadius:         1,
		BodySpeed:          4,
		Bounds:             16,
		ShutdownTimeout:    time.Second,
	}
}

func TestValidateConfig(t *testing.T) {
	require.NoError(t, validateConfig(testConfig()))

	invalid := map[string]func(*config){
		"negative max depth":   func(c *config) { c.MaxDepth = -1 },
		"empty bounds":         func(c *config) { c.Bounds = 0 },
		"negative bodies":      func(c *config) { c.Bodies = -1 },
		"zero body radius":     func(c *config) { c.BodyRadius = 0 },
		"body larger than map": func(c *config) { c.BodyRadius = 17 },
		"negative body speed":  func(c *config) { c.BodySpeed = -1 },
		"zero frame duration":  func(c *config) { c.FrameDuration = 0 },
		"zero summary":         func(c *config) { c.LogSummaryInterval = 0 },
		"zero shutdown":        func(c *config) { c.ShutdownTimeout = 0 },
	}

	for name, edit := range invalid {
		t.Run(name, func(t *testing.T) {
			conf := testConfig()
			edit(&conf)
			require.Error(t, validateConfig(conf))
		})
	}
}

func TestSpawnBodies(t *testing.T) {
	conf := testConfig()

	world, err := simulation.NewWorld(simulation.Config{
		Bounds:   geometry.NewBox(geometry.NewVector3(-16, -16, -16), geometry.NewVector3(16, 16, 16)),
		MaxDepth: conf.MaxDepth,
	})
	require.NoError(t, err)

	err = spawnBodies(world, rand.New(rand.NewSource(1)), conf)
	require.NoError(t, err)

	bodies := world.Bodies()
	require.Len(t, bodies, conf.Bodies)

	for _, b := range bodies {
		shape := b.Shape()
		require.True(t, world.Bounds().ContainsPoint(shape.Center))
		require.Greater(t, shape.Radius, float32(0))
		require.LessOrEqual(t, shape.Radius, float32(conf.BodyRadius))
	}
}
