package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Evento represents an organized event (camp, pilgrimage, trip).
// Deleting an event only flips Activo; rows are never removed.
type Evento struct {
	ID              uuid.UUID       `json:"id"`
	Nombre          string          `json:"nombre"`
	Tipo            string          `json:"tipo"`
	TipoEventoID    *uuid.UUID      `json:"tipo_evento_id,omitempty"`
	Descripcion     string          `json:"descripcion,omitempty"`
	PrecioBase      float64         `json:"precio_base"`
	FechaInicio     *time.Time      `json:"fecha_inicio,omitempty"`
	FechaFin        *time.Time      `json:"fecha_fin,omitempty"`
	Localizacion    string          `json:"localizacion,omitempty"`
	Fotos           json.RawMessage `json:"fotos,omitempty"`
	OtraInformacion string          `json:"otra_informacion,omitempty"`
	Activo          bool            `json:"activo"`
	CreadoEn        time.Time       `json:"creado_en"`
	ActualizadoEn   time.Time       `json:"actualizado_en"`
}

// TipoEvento is an admin-managed event category. Eventos reference it through
// an optional foreign key, with the enum string as legacy fallback.
type TipoEvento struct {
	ID       uuid.UUID `json:"id"`
	Nombre   string    `json:"nombre"`
	CreadoEn time.Time `json:"creado_en"`
}
