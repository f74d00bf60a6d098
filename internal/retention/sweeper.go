// Package retention removes participant documents once their event is long
// over. Files go first, rows second: a document row without a file is a
// cleanup candidate on the next pass, a file without a row is an orphan
// nobody can reach.
package retention

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Elicupra/Paroikiapp/internal/metrics"
)

// GracePeriod is how long after an event ends its documents are kept.
const GracePeriod = 7 * 24 * time.Hour

// Interval between sweeps.
const Interval = 12 * time.Hour

// ExpiredDoc is one document due for deletion.
type ExpiredDoc struct {
	ID          uuid.UUID
	RutaInterna string
}

// DocStore is the slice of persistence the sweeper needs.
type DocStore interface {
	// ListExpired returns documents whose event ended before the cutoff.
	ListExpired(ctx context.Context, cutoff time.Time) ([]ExpiredDoc, error)
	// DeleteBatch removes the given document rows.
	DeleteBatch(ctx context.Context, ids []uuid.UUID) error
}

// FileRemover deletes a stored file. Missing files are not an error.
type FileRemover interface {
	Remove(rutaInterna string) error
}

// Sweeper runs the retention policy.
type Sweeper struct {
	store  DocStore
	files  FileRemover
	logger *zap.Logger
}

// NewSweeper creates a retention sweeper.
func NewSweeper(store DocStore, files FileRemover, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{store: store, files: files, logger: logger}
}

// Run sweeps once immediately, then every Interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	s.Sweep(ctx)
	ticker := time.NewTicker(Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep performs one pass. Only rows whose file was actually removed (or was
// already gone) are deleted, so a failed disk never loses bookkeeping.
func (s *Sweeper) Sweep(ctx context.Context) {
	cutoff := time.Now().Add(-GracePeriod)
	docs, err := s.store.ListExpired(ctx, cutoff)
	if err != nil {
		s.logger.Error("list expired documentos", zap.Error(err))
		return
	}
	if len(docs) == 0 {
		return
	}

	removed := make([]uuid.UUID, 0, len(docs))
	for _, doc := range docs {
		if err := s.files.Remove(doc.RutaInterna); err != nil {
			s.logger.Warn("remove expired file", zap.Error(err), zap.String("documento_id", doc.ID.String()))
			continue
		}
		removed = append(removed, doc.ID)
	}
	if len(removed) == 0 {
		return
	}

	if err := s.store.DeleteBatch(ctx, removed); err != nil {
		s.logger.Error("delete expired documentos", zap.Error(err), zap.Int("count", len(removed)))
		return
	}
	metrics.RetentionDeleted.Add(float64(len(removed)))
	s.logger.Info("retention sweep complete",
		zap.Int("expired", len(docs)), zap.Int("deleted", len(removed)))
}
