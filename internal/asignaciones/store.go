// Package asignaciones owns monitor-to-event assignments. Two schema
// generations coexist in deployments: the legacy monitores row carrying the
// registration token, and a newer asignacion_eventos table overlaying
// per-assignment token/capacity/active state on the same
// (usuario_id, evento_id) pair. The Store interface hides which one backs a
// given database; the strategy is picked once at startup from the capability
// probe.
package asignaciones

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Elicupra/Paroikiapp/internal/models"
)

// ErrCapacityUnsupported is returned when per-assignment capacity is edited
// on a database without the asignacion_eventos table.
var ErrCapacityUnsupported = errors.New("per-assignment capacity requires the asignacion_eventos table")

// Update describes a partial assignment change. MaxJovenesSet distinguishes
// "set to NULL (unlimited)" from "leave untouched".
type Update struct {
	Activo        *bool
	MaxJovenes    *int
	MaxJovenesSet bool
}

// Store is the assignment lifecycle: assign, update, revoke token, remove.
// Revoking rotates the token and keeps the assignment active; removing
// deletes the row(s) entirely.
type Store interface {
	// ResolveToken resolves an active assignment from its registration-link
	// token. Returns pgx.ErrNoRows for unknown, inactive or revoked tokens.
	ResolveToken(ctx context.Context, token uuid.UUID) (*models.Asignacion, error)

	// GetByMonitorID returns the assignment identified by the legacy
	// monitores row ID, active or not.
	GetByMonitorID(ctx context.Context, monitorID uuid.UUID) (*models.Asignacion, error)

	// ListActiveByUsuario returns the user's active assignments, newest first.
	ListActiveByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]models.Asignacion, error)

	// Assign creates the assignment for (usuario, evento) with a fresh token.
	// A duplicate pair surfaces as a unique violation.
	Assign(ctx context.Context, usuarioID, eventoID uuid.UUID, maxJovenes *int) (*models.Asignacion, error)

	// Update applies a partial change, keeping both schema generations in
	// sync where both exist.
	Update(ctx context.Context, monitorID uuid.UUID, upd Update) (*models.Asignacion, error)

	// RevokeToken issues a fresh token for the assignment without touching
	// its active flag or registered youths.
	RevokeToken(ctx context.Context, monitorID uuid.UUID) (*models.Asignacion, error)

	// Remove deletes the assignment row and, when present, its overlay
	// counterpart. Missing rows are not an error.
	Remove(ctx context.Context, monitorID uuid.UUID) error
}
