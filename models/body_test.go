package models

import (
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/octree/geometry"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/require"
)

func TestBody(t *testing.T) {
	b := NewBody(1, geometry.NewSphere(geometry.NewVector3(1, 2, 3), 0.5), geometry.NewVector3(1, 0, 0))

	b.SetShape(geometry.NewSphere(geometry.NewVector3(2, 2, 3), 0.5))
	b.SetVelocity(geometry.NewVector3(-1, 0, 0))
	require.Equal(t, geometry.NewVector3(2, 2, 3), b.Shape().Center)
	require.Equal(t, geometry.NewVector3(-1, 0, 0), b.Velocity())

	data, err := json.Marshal(b)
	require.NoError(t, err)
	require.Contains(t, string(data), `"id":1`)
	require.Contains(t, string(data), `"radius":0.5`)
}

func TestBodyStore(t *testing.T) {
	s := NewBodyStore()
	sphere := geometry.NewSphere(geometry.Vector3{}, 1)

	t.Run("add", func(t *testing.T) {
		b1 := s.Add(sphere, geometry.Vector3{})
		b2 := s.Add(sphere, geometry.Vector3{})
		require.Equal(t, uint32(1), b1.ID)
		require.Equal(t, uint32(2), b2.ID)
		require.Equal(t, 2, s.Len())
	})

	t.Run("get", func(t *testing.T) {
		b, err := s.Get(2)
		require.NoError(t, err)
		require.Equal(t, uint32(2), b.ID)

		_, err = s.Get(42)
		require.Error(t, err)
		require.Equal(t, ErrTypeBodyNotFound, errors.Type(err))
	})

	t.Run("list is sorted by id", func(t *testing.T) {
		s.Add(sphere, geometry.Vector3{})
		bodies := s.List()
		require.Len(t, bodies, 3)
		for i, b := range bodies {
			require.Equal(t, uint32(i+1), b.ID)
		}
	})

	t.Run("delete reuses the id", func(t *testing.T) {
		b, err := s.Delete(2)
		require.NoError(t, err)
		require.Equal(t, uint32(2), b.ID)
		require.Equal(t, 2, s.Len())

		_, err = s.Delete(2)
		require.Equal(t, ErrTypeBodyNotFound, errors.Type(err))

		require.Equal(t, uint32(2), s.Add(sphere, geometry.Vector3{}).ID)
	})
}
