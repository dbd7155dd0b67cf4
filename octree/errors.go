package octree

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
)

const (
	// ErrTypeNotIndexed is the type of the errors returned when an operation
	// targets an object that is not in the tree.
	ErrTypeNotIndexed = "octree_object_not_indexed"

	// ErrTypeDegenerateRegion is the type of the errors returned when a low
	// bound is not lower than or equal to its high bound.
	ErrTypeDegenerateRegion = "octree_degenerate_region"

	ErrTypeInvalidMaxDepth  = "octree_invalid_max_depth"
	ErrTypeMissingPredicate = "octree_missing_predicate"
)

func notIndexedError(op string, o any) error {
	err := errors.New("object is not indexed").
		WithType(ErrTypeNotIndexed).
		WithTag("op", op).
		WithTag("object", o)

	logs.Warn(err)
	return err
}

func validateRegion(r Region) error {
	if r.Valid() {
		return nil
	}

	return errors.New("low bound is not lower than or equal to high bound").
		WithType(ErrTypeDegenerateRegion).
		WithTag("low", r.Low).
		WithTag("high", r.High)
}
