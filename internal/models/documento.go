package models

import (
	"time"

	"github.com/google/uuid"
)

// TipoDocumento enumerates accepted document kinds.
type TipoDocumento string

const (
	DocAutorizacionPaterna TipoDocumento = "autorizacion_paterna"
	DocTarjetaSanitaria    TipoDocumento = "tarjeta_sanitaria"
	DocOtro                TipoDocumento = "otro"
)

// Documento is an uploaded file tied to a joven. RutaInterna is the
// server-generated path relative to the uploads root; the client-supplied
// filename is kept only for display and download headers.
type Documento struct {
	ID             uuid.UUID     `json:"id"`
	JovenID        uuid.UUID     `json:"joven_id"`
	Tipo           TipoDocumento `json:"tipo"`
	RutaInterna    string        `json:"-"`
	NombreOriginal string        `json:"nombre_original"`
	MimeType       string        `json:"mime_type"`
	TamanoBytes    int64         `json:"tamano_bytes"`
	SubidoEn       time.Time     `json:"subido_en"`
	Validado       bool          `json:"validado"`
	ValidadoEn     *time.Time    `json:"validado_en,omitempty"`
}
