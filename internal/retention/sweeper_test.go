package retention

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	expired   []ExpiredDoc
	listErr   error
	deleted   []uuid.UUID
	deleteErr error
}

func (f *fakeStore) ListExpired(_ context.Context, _ time.Time) ([]ExpiredDoc, error) {
	return f.expired, f.listErr
}

func (f *fakeStore) DeleteBatch(_ context.Context, ids []uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, ids...)
	return nil
}

type fakeRemover struct {
	failOn  map[string]bool
	removed []string
}

func (f *fakeRemover) Remove(ruta string) error {
	if f.failOn[ruta] {
		return errors.New("disk on fire")
	}
	f.removed = append(f.removed, ruta)
	return nil
}

func TestSweepDeletesExpired(t *testing.T) {
	docs := []ExpiredDoc{
		{ID: uuid.New(), RutaInterna: "a/1.pdf"},
		{ID: uuid.New(), RutaInterna: "b/2.png"},
	}
	store := &fakeStore{expired: docs}
	files := &fakeRemover{}

	NewSweeper(store, files, nil).Sweep(context.Background())

	assert.ElementsMatch(t, []string{"a/1.pdf", "b/2.png"}, files.removed)
	require.Len(t, store.deleted, 2)
	assert.ElementsMatch(t, []uuid.UUID{docs[0].ID, docs[1].ID}, store.deleted)
}

func TestSweepKeepsRowWhenFileRemovalFails(t *testing.T) {
	keep := ExpiredDoc{ID: uuid.New(), RutaInterna: "stuck/1.pdf"}
	gone := ExpiredDoc{ID: uuid.New(), RutaInterna: "ok/2.pdf"}
	store := &fakeStore{expired: []ExpiredDoc{keep, gone}}
	files := &fakeRemover{failOn: map[string]bool{"stuck/1.pdf": true}}

	NewSweeper(store, files, nil).Sweep(context.Background())

	assert.Equal(t, []uuid.UUID{gone.ID}, store.deleted)
}

func TestSweepNothingExpired(t *testing.T) {
	store := &fakeStore{}
	files := &fakeRemover{}

	NewSweeper(store, files, nil).Sweep(context.Background())

	assert.Empty(t, files.removed)
	assert.Empty(t, store.deleted)
}

func TestSweepListErrorIsNonFatal(t *testing.T) {
	store := &fakeStore{listErr: errors.New("db down")}

	NewSweeper(store, &fakeRemover{}, nil).Sweep(context.Background())

	assert.Empty(t, store.deleted)
}

func TestSweepAllRemovalsFail(t *testing.T) {
	doc := ExpiredDoc{ID: uuid.New(), RutaInterna: "stuck/1.pdf"}
	store := &fakeStore{expired: []ExpiredDoc{doc}}
	files := &fakeRemover{failOn: map[string]bool{"stuck/1.pdf": true}}

	NewSweeper(store, files, nil).Sweep(context.Background())

	assert.Empty(t, store.deleted)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	store := &fakeStore{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		NewSweeper(store, &fakeRemover{}, nil).Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
}
