package documentos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Elicupra/Paroikiapp/internal/models"
)

// Repository handles documento persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a documentos repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// OwnedDocumento is a documento together with the usuario that owns it
// through the joven → monitor chain.
type OwnedDocumento struct {
	models.Documento
	OwnerUsuarioID uuid.UUID
}

// GetWithOwner loads a documento plus its owning monitor's usuario_id for
// the download permission check.
func (r *Repository) GetWithOwner(ctx context.Context, id uuid.UUID) (*OwnedDocumento, error) {
	var d OwnedDocumento
	err := r.pool.QueryRow(ctx,
		`SELECT d.id, d.joven_id, d.tipo, d.ruta_interna, COALESCE(d.nombre_original, ''),
		        d.mime_type, COALESCE(d.tamano_bytes, 0), d.subido_en, m.usuario_id
		 FROM documentos d
		 JOIN jovenes j ON d.joven_id = j.id
		 JOIN monitores m ON j.monitor_id = m.id
		 WHERE d.id = $1`, id).
		Scan(&d.ID, &d.JovenID, &d.Tipo, &d.RutaInterna, &d.NombreOriginal,
			&d.MimeType, &d.TamanoBytes, &d.SubidoEn, &d.OwnerUsuarioID)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByJoven returns a joven's documentos with their validation state,
// newest first.
func (r *Repository) ListByJoven(ctx context.Context, jovenID uuid.UUID) ([]models.Documento, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT d.id, d.joven_id, d.tipo, d.ruta_interna, COALESCE(d.nombre_original, ''),
		        d.mime_type, COALESCE(d.tamano_bytes, 0), d.subido_en,
		        COALESCE(v.validado, false), v.validado_en
		 FROM documentos d
		 LEFT JOIN documento_validaciones v ON v.documento_id = d.id
		 WHERE d.joven_id = $1
		 ORDER BY d.subido_en DESC`, jovenID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Documento
	for rows.Next() {
		var d models.Documento
		if err := rows.Scan(&d.ID, &d.JovenID, &d.Tipo, &d.RutaInterna, &d.NombreOriginal,
			&d.MimeType, &d.TamanoBytes, &d.SubidoEn, &d.Validado, &d.ValidadoEn); err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// Insert stores a documento row for an already-saved file.
func (r *Repository) Insert(ctx context.Context, jovenID uuid.UUID, tipo models.TipoDocumento, saved *SavedFile, nombreOriginal string) (*models.Documento, error) {
	var d models.Documento
	err := r.pool.QueryRow(ctx,
		`INSERT INTO documentos (joven_id, tipo, ruta_interna, nombre_original, mime_type, tamano_bytes)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, joven_id, tipo, ruta_interna, nombre_original, mime_type, tamano_bytes, subido_en`,
		jovenID, tipo, saved.RutaInterna, nombreOriginal, saved.MimeType, saved.Size).
		Scan(&d.ID, &d.JovenID, &d.Tipo, &d.RutaInterna, &d.NombreOriginal, &d.MimeType, &d.TamanoBytes, &d.SubidoEn)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// OwnedByUsuario reports whether the documento's joven belongs to a monitor
// of the given usuario.
func (r *Repository) OwnedByUsuario(ctx context.Context, docID, usuarioID uuid.UUID) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM documentos d
		   JOIN jovenes j ON j.id = d.joven_id
		   JOIN monitores m ON m.id = j.monitor_id
		   WHERE d.id = $1 AND m.usuario_id = $2
		 )`, docID, usuarioID).Scan(&ok)
	return ok, err
}

// Validate upserts the validation record for a documento.
func (r *Repository) Validate(ctx context.Context, docID, validadorID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO documento_validaciones (documento_id, validado, validado_por, validado_en)
		 VALUES ($1, true, $2, now())
		 ON CONFLICT (documento_id)
		 DO UPDATE SET validado = true, validado_por = $2, validado_en = now()`,
		docID, validadorID)
	return err
}
