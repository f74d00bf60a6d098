package asignaciones

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// Capacity edits must fail fast on legacy schemas, before any SQL runs.
func TestLegacyStoreRejectsCapacity(t *testing.T) {
	s := &legacyStore{}
	limit := 20

	_, err := s.Assign(context.Background(), uuid.New(), uuid.New(), &limit)
	assert.ErrorIs(t, err, ErrCapacityUnsupported)

	_, err = s.Update(context.Background(), uuid.New(), Update{MaxJovenesSet: true})
	assert.ErrorIs(t, err, ErrCapacityUnsupported)

	_, err = s.Update(context.Background(), uuid.New(), Update{MaxJovenesSet: true, MaxJovenes: &limit})
	assert.ErrorIs(t, err, ErrCapacityUnsupported)
}

func TestNewStorePicksStrategy(t *testing.T) {
	assert.IsType(t, &overlayStore{}, NewStore(nil, Capabilities{OverlayTable: true}))
	assert.IsType(t, &legacyStore{}, NewStore(nil, Capabilities{OverlayTable: false}))
}
