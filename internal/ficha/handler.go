package ficha

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Elicupra/Paroikiapp/internal/documentos"
	"github.com/Elicupra/Paroikiapp/internal/metrics"
	"github.com/Elicupra/Paroikiapp/internal/models"
	"github.com/Elicupra/Paroikiapp/pkg/response"
	"github.com/Elicupra/Paroikiapp/pkg/utils"
)

// Handler serves the unauthenticated youth self-service surface. Like the
// registration links, every failure here is a 404 so the token space cannot
// be probed.
type Handler struct {
	repo    *Repository
	docs    *documentos.Repository
	storage *documentos.Storage
	logger  *zap.Logger
}

// NewHandler creates a ficha handler.
func NewHandler(repo *Repository, docs *documentos.Repository, storage *documentos.Storage, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, docs: docs, storage: storage, logger: logger}
}

func fichaNotFound(c *gin.Context) {
	response.NotFound(c, "FICHA_NOT_FOUND", "Ficha not found")
}

func (h *Handler) parseToken(c *gin.Context) (uuid.UUID, bool) {
	token := c.Param("jovenToken")
	if !utils.IsValidUUID(token) {
		fichaNotFound(c)
		return uuid.Nil, false
	}
	return uuid.MustParse(strings.ToLower(token)), true
}

// Get handles GET /ficha/:jovenToken.
func (h *Handler) Get(c *gin.Context) {
	token, ok := h.parseToken(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	f, err := h.repo.GetByToken(ctx, token)
	if err != nil {
		fichaNotFound(c)
		return
	}
	docs, err := h.docs.ListByJoven(ctx, f.JovenID)
	if err != nil {
		h.logger.Error("list documentos", zap.Error(err), zap.String("joven_id", f.JovenID.String()))
		response.Internal(c, "failed to load ficha")
		return
	}
	if docs == nil {
		docs = []models.Documento{}
	}

	response.OK(c, gin.H{
		"joven": gin.H{
			"id":        f.JovenID,
			"nombre":    f.Nombre,
			"apellidos": f.Apellidos,
			"creado_en": f.CreadoEn,
		},
		"evento": gin.H{
			"id":           f.EventoID,
			"nombre":       f.EventoNombre,
			"tipo":         f.EventoTipo,
			"fecha_inicio": f.FechaInicio,
			"fecha_fin":    f.FechaFin,
		},
		"documentos": docs,
	})
}

// UpdateRequest is the body for PATCH /ficha/:jovenToken.
type UpdateRequest struct {
	Nombre    *string `json:"nombre"`
	Apellidos *string `json:"apellidos"`
}

// Update handles PATCH /ficha/:jovenToken.
func (h *Handler) Update(c *gin.Context) {
	token, ok := h.parseToken(c)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_BODY", "Invalid request body")
		return
	}
	for _, v := range []*string{req.Nombre, req.Apellidos} {
		if v == nil {
			continue
		}
		*v = strings.TrimSpace(*v)
		if len(*v) < 2 || len(*v) > 100 {
			response.ValidationError(c, []gin.H{{"field": "nombre/apellidos", "message": "must be 2-100 characters"}})
			return
		}
	}

	f, err := h.repo.UpdateNames(c.Request.Context(), token, req.Nombre, req.Apellidos)
	if err != nil {
		fichaNotFound(c)
		return
	}
	response.OK(c, gin.H{
		"mensaje": "Datos actualizados correctamente",
		"joven": gin.H{
			"id":        f.JovenID,
			"nombre":    f.Nombre,
			"apellidos": f.Apellidos,
		},
	})
}

// Self-service uploads only accept the two document kinds a family is asked
// to provide. Everything else goes through a monitor.
var fichaTipos = map[models.TipoDocumento]bool{
	models.DocAutorizacionPaterna: true,
	models.DocTarjetaSanitaria:    true,
}

// UploadDocumento handles POST /ficha/:jovenToken/documentos.
func (h *Handler) UploadDocumento(c *gin.Context) {
	token, ok := h.parseToken(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	jovenID, err := h.repo.JovenIDByToken(ctx, token)
	if err != nil {
		fichaNotFound(c)
		return
	}

	tipo := models.TipoDocumento(c.PostForm("tipo"))
	if !fichaTipos[tipo] {
		response.BadRequest(c, "INVALID_TIPO", "Document type not allowed")
		return
	}
	fh, err := c.FormFile("archivo")
	if err != nil {
		response.BadRequest(c, "MISSING_FILE", "No file was uploaded")
		return
	}

	saved, err := h.storage.Save(fh, jovenID)
	if err != nil {
		switch {
		case errors.Is(err, documentos.ErrFileTooLarge):
			response.BadRequest(c, "FILE_TOO_LARGE", err.Error())
		case errors.Is(err, documentos.ErrBadType):
			response.BadRequest(c, "INVALID_FILE_TYPE", err.Error())
		default:
			h.logger.Error("save upload", zap.Error(err), zap.String("joven_id", jovenID.String()))
			response.Internal(c, "failed to store file")
		}
		return
	}

	doc, err := h.docs.Insert(ctx, jovenID, tipo, saved, fh.Filename)
	if err != nil {
		h.logger.Error("insert documento", zap.Error(err), zap.String("joven_id", jovenID.String()))
		if rmErr := h.storage.Remove(saved.RutaInterna); rmErr != nil {
			h.logger.Warn("remove orphan file", zap.Error(rmErr))
		}
		response.DBError(c, err)
		return
	}
	metrics.DocumentUploads.Inc()

	response.Created(c, gin.H{
		"mensaje":   "Documento subido correctamente",
		"documento": doc,
	})
}

// DeleteDocumento handles DELETE /ficha/:jovenToken/documentos/:docId.
func (h *Handler) DeleteDocumento(c *gin.Context) {
	token, ok := h.parseToken(c)
	if !ok {
		return
	}
	docID, err := uuid.Parse(c.Param("docId"))
	if err != nil {
		fichaNotFound(c)
		return
	}

	ruta, err := h.repo.DeleteDocumento(c.Request.Context(), token, docID)
	if err != nil {
		fichaNotFound(c)
		return
	}
	if err := h.storage.Remove(ruta); err != nil {
		h.logger.Warn("remove documento file", zap.Error(err), zap.String("documento_id", docID.String()))
	}
	response.OK(c, gin.H{"mensaje": "Documento eliminado correctamente"})
}
