package models

import (
	"sort"
	"sync"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/octree/geometry"
	"github.com/segmentio/encoding/json"
)

const ErrTypeBodyNotFound = "body_not_found"

// Body is a moving sphere. Its identity is its pointer: the spatial index
// holds *Body values.
type Body struct {
	ID uint32

	mutex    sync.RWMutex
	shape    geometry.Sphere
	velocity geometry.Vector3
}

func NewBody(id uint32, shape geometry.Sphere, velocity geometry.Vector3) *Body {
	return &Body{
		ID:       id,
		shape:    shape,
		velocity: velocity,
	}
}

func (b *Body) SetShape(v geometry.Sphere) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.shape = v
}

func (b *Body) Shape() geometry.Sphere {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	return b.shape
}

func (b *Body) SetVelocity(v geometry.Vector3) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.velocity = v
}

func (b *Body) Velocity() geometry.Vector3 {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	return b.velocity
}

// MarshalJSON is required since the body fields are guarded by a mutex.
func (b *Body) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Snapshot())
}

// BodySnapshot is a copy of a body state.
type BodySnapshot struct {
	ID       uint32           `json:"id"`
	Center   geometry.Vector3 `json:"center"`
	Radius   float32          `json:"radius"`
	Velocity geometry.Vector3 `json:"velocity"`
}

func (b *Body) Snapshot() BodySnapshot {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	return BodySnapshot{
		ID:       b.ID,
		Center:   b.shape.Center,
		Radius:   b.shape.Radius,
		Velocity: b.velocity,
	}
}

// BodyStore holds the bodies of a world, indexed by id.
type BodyStore struct {
	ids    SequentialIDGenerator
	mutex  sync.RWMutex
	bodies map[uint32]*Body
}

func NewBodyStore() *BodyStore {
	return &BodyStore{
		bodies: make(map[uint32]*Body),
	}
}

// Add creates a body with a new id.
func (s *BodyStore) Add(shape geometry.Sphere, velocity geometry.Vector3) *Body {
	b := NewBody(s.ids.New(), shape, velocity)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.bodies[b.ID] = b
	instrumentAddBody()
	return b
}

func (s *BodyStore) Get(id uint32) (*Body, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	b, ok := s.bodies[id]
	if !ok {
		return nil, errors.New("body not found").
			WithType(ErrTypeBodyNotFound).
			WithTag("id", id)
	}
	return b, nil
}

// Delete removes the body with the given id and releases its id.
func (s *BodyStore) Delete(id uint32) (*Body, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	b, ok := s.bodies[id]
	if !ok {
		return nil, errors.New("body not found").
			WithType(ErrTypeBodyNotFound).
			WithTag("id", id)
	}

	delete(s.bodies, id)
	s.ids.Reuse(id)
	instrumentDeleteBody()
	return b, nil
}

// List returns the bodies sorted by id.
func (s *BodyStore) List() []*Body {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	bodies := make([]*Body, 0, len(s.bodies))
	for _, b := range s.bodies {
		bodies = append(bodies, b)
	}

	sort.Slice(bodies, func(i, j int) bool {
		return bodies[i].ID < bodies[j].ID
	})
	return bodies
}

func (s *BodyStore) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return len(s.bodies)
}
