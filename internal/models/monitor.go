package models

import (
	"time"

	"github.com/google/uuid"
)

// Monitor binds a user in the monitor role to one event. The row carries the
// registration link token and, under the legacy schema, the capacity limit.
// (usuario_id, evento_id) is unique.
type Monitor struct {
	ID          uuid.UUID `json:"id"`
	UsuarioID   uuid.UUID `json:"usuario_id"`
	EventoID    uuid.UUID `json:"evento_id"`
	EnlaceToken uuid.UUID `json:"enlace_token"`
	MaxJovenes  *int      `json:"max_jovenes,omitempty"` // nil = unlimited
	Activo      bool      `json:"activo"`
	CreadoEn    time.Time `json:"creado_en"`
}

// Asignacion is the resolved monitor-to-event assignment the handlers work
// with, regardless of which schema variant backs it.
type Asignacion struct {
	MonitorID   uuid.UUID `json:"monitor_id"`
	UsuarioID   uuid.UUID `json:"usuario_id"`
	EventoID    uuid.UUID `json:"evento_id"`
	EnlaceToken uuid.UUID `json:"enlace_token"`
	MaxJovenes  *int      `json:"max_jovenes,omitempty"`
	Activo      bool      `json:"activo"`
}

// LegacyMaxJovenes is the fixed per-monitor participant cap when the
// per-assignment table is absent.
const LegacyMaxJovenes = 10

// Cap returns the effective participant limit for the assignment, or 0 when
// unlimited. The per-assignment value always wins when present.
func (a *Asignacion) Cap(overlaySchema bool) int {
	if overlaySchema {
		if a.MaxJovenes == nil {
			return 0
		}
		return *a.MaxJovenes
	}
	return LegacyMaxJovenes
}
