// Package simulation moves spherical bodies inside a bounded world and finds
// the pairs colliding at each step using an octree.
package simulation

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/hagall-common/messages/dagazpb"
	"github.com/aukilabs/octree/featureflag"
	"github.com/aukilabs/octree/geometry"
	"github.com/aukilabs/octree/models"
	"github.com/aukilabs/octree/octree"
	"github.com/google/uuid"
)

const (
	ErrTypeInvalidConfig = "simulation_invalid_config"
	ErrTypeOutOfBounds   = "simulation_out_of_bounds"
)

type Config struct {
	// The box bodies are kept in.
	Bounds geometry.Box

	// The maximum depth of the octree.
	MaxDepth int

	Flags featureflag.FeatureFlag
}

// Pair is a couple of colliding bodies, A being the lowest id.
type Pair struct {
	A uint32 `json:"a"`
	B uint32 `json:"b"`
}

// Frame summarizes a simulation step.
type Frame struct {
	ID       string        `json:"id"`
	Step     uint64        `json:"step"`
	Bodies   int           `json:"bodies"`
	Leaves   int           `json:"leaves"`
	Pairs    []Pair        `json:"pairs"`
	Duration time.Duration `json:"duration"`
}

// World owns the bodies and the octree indexing them. Every exported method
// holds the world lock for its whole duration, which serializes the
// operations on the octree.
type World struct {
	mutex  sync.Mutex
	bounds geometry.Box
	flags  featureflag.FeatureFlag
	bodies *models.BodyStore
	tree   *octree.Octree[*models.Body]

	step              uint64
	summarySteps      int
	summaryCollisions int
}

func NewWorld(conf Config) (*World, error) {
	tree, err := octree.New(conf.Bounds.Low, conf.Bounds.High, conf.MaxDepth, bodyOverlapsRegion)
	if err != nil {
		return nil, errors.New("creating world octree failed").
			WithType(ErrTypeInvalidConfig).
			WithTag("max_depth", conf.MaxDepth).
			Wrap(err)
	}

	flags := conf.Flags
	if flags == nil {
		flags = featureflag.New(nil)
	}

	return &World{
		bounds: conf.Bounds,
		flags:  flags,
		bodies: models.NewBodyStore(),
		tree:   tree,
	}, nil
}

func bodyOverlapsRegion(b *models.Body, r octree.Region) bool {
	return b.Shape().OverlapsBox(r.Box())
}

func bodiesCollide(b, other *models.Body) bool {
	return b.Shape().OverlapsSphere(other.Shape())
}

// Spawn adds a body whose center must be within the world bounds.
func (w *World) Spawn(shape geometry.Sphere, velocity geometry.Vector3) (*models.Body, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if !w.bounds.ContainsPoint(shape.Center) {
		return nil, errors.New("body center is out of the world bounds").
			WithType(ErrTypeOutOfBounds).
			WithTag("center", shape.Center).
			WithTag("bounds", w.bounds)
	}

	b := w.bodies.Add(shape, velocity)
	w.tree.Insert(b)
	return b, nil
}

func (w *World) Despawn(id uint32) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	b, err := w.bodies.Delete(id)
	if err != nil {
		return err
	}

	if w.tree.Contains(b) {
		return w.tree.Remove(b)
	}
	return nil
}

func (w *World) Bodies() []*models.Body {
	return w.bodies.List()
}

func (w *World) Bounds() geometry.Box {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	return w.bounds
}

// Resize changes the world bounds and rebuilds the octree over them. Bodies
// left outside are brought back in at the next step.
func (w *World) Resize(bounds geometry.Box) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if err := w.tree.ResetWithBounds(bounds.Low, bounds.High); err != nil {
		return errors.New("resizing world failed").
			WithType(ErrTypeInvalidConfig).
			Wrap(err)
	}

	w.bounds = bounds
	return nil
}

// Step moves the bodies by dt seconds, bouncing them on the world bounds, and
// returns the pairs of bodies colliding afterwards.
func (w *World) Step(dt float32) Frame {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	start := time.Now()
	bodies := w.bodies.List()

	for _, b := range bodies {
		w.move(b, dt)

		if !w.tree.Contains(b) {
			w.tree.Insert(b)
			continue
		}

		if err := w.tree.Update(b); err != nil {
			logs.WithTag("body_id", b.ID).Error(err)
		}
	}

	queryMode := queryModeInside
	if w.flags.IsSet(featureflag.FlagForceOutsideQuery) {
		queryMode = queryModeOutside
	}

	var pairs []Pair
	for _, b := range bodies {
		for _, other := range w.collisions(b, queryMode) {
			if b.ID < other.ID {
				pairs = append(pairs, Pair{A: b.ID, B: other.ID})
			}
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})

	w.step++
	w.summarySteps++
	w.summaryCollisions += len(pairs)

	stats := w.tree.Stats()
	instrumentStep(queryMode, start, len(pairs))
	instrumentTree(len(bodies), stats.Leaves)

	return Frame{
		ID:       uuid.NewString(),
		Step:     w.step,
		Bodies:   len(bodies),
		Leaves:   stats.Leaves,
		Pairs:    pairs,
		Duration: time.Since(start),
	}
}

func (w *World) collisions(b *models.Body, queryMode string) []*models.Body {
	if queryMode == queryModeOutside {
		return w.tree.TestIntersectionOutside(b, bodyOverlapsRegion, bodiesCollide).Collisions
	}

	res, err := w.tree.TestIntersection(b, bodyOverlapsRegion, bodiesCollide)
	if err != nil {
		logs.WithTag("body_id", b.ID).Error(err)
		return nil
	}
	return res.Collisions
}

// move integrates the body position and reflects its velocity on the axes
// where it left the world bounds.
func (w *World) move(b *models.Body, dt float32) {
	shape := b.Shape()
	velocity := b.Velocity()

	center := shape.Center.Add(velocity.Mul(dt))
	low := w.bounds.Low.Add(geometry.NewVector3(shape.Radius, shape.Radius, shape.Radius))
	high := w.bounds.High.Sub(geometry.NewVector3(shape.Radius, shape.Radius, shape.Radius))

	center.X, velocity.X = bounce(center.X, velocity.X, low.X, high.X)
	center.Y, velocity.Y = bounce(center.Y, velocity.Y, low.Y, high.Y)
	center.Z, velocity.Z = bounce(center.Z, velocity.Z, low.Z, high.Z)

	shape.Center = center
	b.SetShape(shape)
	b.SetVelocity(velocity)
}

func bounce(position, velocity, low, high float32) (float32, float32) {
	if low > high {
		// Body larger than the world on this axis.
		return (low + high) / 2, 0
	}

	switch {
	case position < low:
		return low, abs(velocity)
	case position > high:
		return high, -abs(velocity)
	default:
		return position, velocity
	}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// Probe returns the ids of the bodies colliding with a sphere that is not part
// of the world.
func (w *World) Probe(shape geometry.Sphere) []uint32 {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	probe := models.NewBody(0, shape, geometry.Vector3{})
	res := w.tree.TestIntersectionOutside(probe, bodyOverlapsRegion, bodiesCollide)

	ids := make([]uint32, len(res.Collisions))
	for i, b := range res.Collisions {
		ids[i] = b.ID
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i] < ids[j]
	})
	return ids
}

// Snapshot is the state of a world at a given step.
type Snapshot struct {
	Step   uint64                `json:"step"`
	Bounds *dagazpb.Quad         `json:"bounds"`
	Tree   octree.Stats          `json:"tree"`
	Cells  []CellSnapshot        `json:"cells"`
	Bodies []models.BodySnapshot `json:"bodies"`
}

// CellSnapshot is an occupied leaf of the world octree.
type CellSnapshot struct {
	Region *dagazpb.Quad `json:"region"`
	Depth  int           `json:"depth"`
	Bodies []uint32      `json:"bodies"`
}

// Snapshot returns the world state. Cells lists the occupied leaves.
func (w *World) Snapshot() Snapshot {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	snapshot := Snapshot{
		Step:   w.step,
		Bounds: w.bounds.ToProtobuf(),
		Tree:   w.tree.Stats(),
	}

	w.tree.Walk(func(c *octree.Cell[*models.Body]) bool {
		if !c.IsLeaf() || len(c.Objects()) == 0 {
			return true
		}

		cell := CellSnapshot{
			Region: c.Region().Box().ToProtobuf(),
			Depth:  c.Depth(),
		}
		for _, b := range c.Objects() {
			cell.Bodies = append(cell.Bodies, b.ID)
		}
		snapshot.Cells = append(snapshot.Cells, cell)
		return true
	})

	for _, b := range w.bodies.List() {
		snapshot.Bodies = append(snapshot.Bodies, b.Snapshot())
	}
	return snapshot
}

// Run steps the world every frameDuration until ctx is canceled. Each frame
// is given to publish when not nil.
func (w *World) Run(ctx context.Context, frameDuration, summaryInterval time.Duration, publish func(Frame)) {
	frameTicker := time.NewTicker(frameDuration)
	defer frameTicker.Stop()

	summaryTicker := time.NewTicker(summaryInterval)
	defer summaryTicker.Stop()

	dt := float32(frameDuration.Seconds())

	for {
		select {
		case <-ctx.Done():
			return

		case <-frameTicker.C:
			frame := w.Step(dt)
			if publish != nil {
				publish(frame)
			}

		case <-summaryTicker.C:
			w.flags.IfNotSet(featureflag.FlagDisableSummaryLog, w.logSummary)
		}
	}
}

func (w *World) logSummary() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	stats := w.tree.Stats()

	logs.WithTag("step", w.step).
		WithTag("steps", w.summarySteps).
		WithTag("collisions", w.summaryCollisions).
		WithTag("bodies", stats.Objects).
		WithTag("cells", stats.Cells).
		WithTag("leaves", stats.Leaves).
		WithTag("depth", stats.Depth).
		Info("simulation summary")

	w.summarySteps = 0
	w.summaryCollisions = 0
}
