package models

import (
	"time"

	"github.com/google/uuid"
)

// Pago is one payment installment for a joven.
type Pago struct {
	ID            uuid.UUID  `json:"id"`
	JovenID       uuid.UUID  `json:"joven_id"`
	PlazoNumero   int        `json:"plazo_numero"`
	Cantidad      float64    `json:"cantidad"`
	Pagado        bool       `json:"pagado"`
	EsEspecial    bool       `json:"es_especial"`
	NotaEspecial  string     `json:"nota_especial,omitempty"`
	Descuento     float64    `json:"descuento"`
	FechaPago     *time.Time `json:"fecha_pago,omitempty"`
	RegistradoPor *uuid.UUID `json:"registrado_por,omitempty"`
	CreadoEn      time.Time  `json:"creado_en"`
}
