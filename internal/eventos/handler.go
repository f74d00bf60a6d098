package eventos

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Elicupra/Paroikiapp/internal/jovenes"
	"github.com/Elicupra/Paroikiapp/pkg/response"
)

var validTipos = map[string]bool{
	"campamento": true, "peregrinacion": true, "viaje": true, "otro": true,
}

// Handler serves the admin evento endpoints plus the public active-events
// listing.
type Handler struct {
	repo   *Repository
	joven  *jovenes.Repository
	logger *zap.Logger
}

// NewHandler creates an eventos handler.
func NewHandler(repo *Repository, joven *jovenes.Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, joven: joven, logger: logger}
}

func parseEventoID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("eventoId"))
	if err != nil {
		response.NotFound(c, "EVENTO_NOT_FOUND", "Event not found")
		return uuid.Nil, false
	}
	return id, true
}

// ListPublic handles GET /api/public/eventos.
func (h *Handler) ListPublic(c *gin.Context) {
	list, err := h.repo.ListActive(c.Request.Context())
	if err != nil {
		h.logger.Error("list public eventos", zap.Error(err))
		response.Internal(c, "failed to list events")
		return
	}
	response.OK(c, gin.H{"eventos": list})
}

// List handles GET /api/admin/eventos, inactive rows included.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Error("list eventos", zap.Error(err))
		response.Internal(c, "failed to list events")
		return
	}
	response.OK(c, gin.H{"eventos": list})
}

// Get handles GET /api/admin/eventos/:eventoId with its global discount.
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseEventoID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	evento, err := h.repo.Get(ctx, id)
	if err != nil {
		response.DBError(c, err)
		return
	}
	descuento, err := h.repo.DescuentoGlobal(ctx, id)
	if err != nil {
		h.logger.Error("load descuento global", zap.Error(err), zap.String("evento_id", id.String()))
		response.Internal(c, "failed to load event")
		return
	}
	response.OK(c, gin.H{"evento": evento, "descuento_global": descuento})
}

// Create handles POST /api/admin/eventos.
func (h *Handler) Create(c *gin.Context) {
	var in EventoInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "INVALID_BODY", "Invalid request body")
		return
	}
	in.Nombre = strings.TrimSpace(in.Nombre)
	if in.Nombre == "" {
		response.ValidationError(c, []gin.H{{"field": "nombre", "message": "is required"}})
		return
	}
	if in.Tipo == "" {
		in.Tipo = "campamento"
	}
	if !validTipos[in.Tipo] {
		response.ValidationError(c, []gin.H{{"field": "tipo", "message": "must be campamento, peregrinacion, viaje or otro"}})
		return
	}
	if in.PrecioBase < 0 {
		response.ValidationError(c, []gin.H{{"field": "precio_base", "message": "must not be negative"}})
		return
	}
	if in.FechaInicio != nil && in.FechaFin != nil && in.FechaFin.Before(*in.FechaInicio) {
		response.ValidationError(c, []gin.H{{"field": "fecha_fin", "message": "must not precede fecha_inicio"}})
		return
	}

	evento, err := h.repo.Create(c.Request.Context(), &in)
	if err != nil {
		h.logger.Error("create evento", zap.Error(err))
		response.DBError(c, err)
		return
	}
	response.Created(c, gin.H{"mensaje": "Evento creado exitosamente", "evento": evento})
}

// Update handles PATCH /api/admin/eventos/:eventoId.
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseEventoID(c)
	if !ok {
		return
	}
	var patch EventoPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, "INVALID_BODY", "Invalid request body")
		return
	}
	if patch.Nombre != nil {
		*patch.Nombre = strings.TrimSpace(*patch.Nombre)
		if *patch.Nombre == "" {
			response.ValidationError(c, []gin.H{{"field": "nombre", "message": "must not be empty"}})
			return
		}
	}
	if patch.Tipo != nil && !validTipos[*patch.Tipo] {
		response.ValidationError(c, []gin.H{{"field": "tipo", "message": "must be campamento, peregrinacion, viaje or otro"}})
		return
	}
	if patch.PrecioBase != nil && *patch.PrecioBase < 0 {
		response.ValidationError(c, []gin.H{{"field": "precio_base", "message": "must not be negative"}})
		return
	}

	evento, err := h.repo.Update(c.Request.Context(), id, &patch)
	if err != nil {
		response.DBError(c, err)
		return
	}
	response.OK(c, gin.H{"mensaje": "Evento actualizado correctamente", "evento": evento})
}

// Delete handles DELETE /api/admin/eventos/:eventoId. Soft delete only:
// links stop resolving, rows stay for reporting and retention.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseEventoID(c)
	if !ok {
		return
	}
	if err := h.repo.SoftDelete(c.Request.Context(), id); err != nil {
		response.DBError(c, err)
		return
	}
	response.OK(c, gin.H{"mensaje": "Evento desactivado correctamente"})
}

// DescuentoRequest is the body for PATCH /api/admin/eventos/:eventoId/descuento-global.
type DescuentoRequest struct {
	DescuentoGlobal *float64 `json:"descuento_global" binding:"required"`
}

// SetDescuentoGlobal handles PATCH /api/admin/eventos/:eventoId/descuento-global.
func (h *Handler) SetDescuentoGlobal(c *gin.Context) {
	id, ok := parseEventoID(c)
	if !ok {
		return
	}
	var req DescuentoRequest
	if err := c.ShouldBindJSON(&req); err != nil || *req.DescuentoGlobal < 0 {
		response.ValidationError(c, []gin.H{{"field": "descuento_global", "message": "must be a non-negative number"}})
		return
	}
	ctx := c.Request.Context()

	if _, err := h.repo.Get(ctx, id); err != nil {
		response.DBError(c, err)
		return
	}
	if err := h.repo.SetDescuentoGlobal(ctx, id, *req.DescuentoGlobal); err != nil {
		h.logger.Error("set descuento global", zap.Error(err), zap.String("evento_id", id.String()))
		response.DBError(c, err)
		return
	}
	response.OK(c, gin.H{"mensaje": "Descuento global actualizado", "descuento_global": *req.DescuentoGlobal})
}

// ListJovenes handles GET /api/admin/eventos/:eventoId/jovenes.
func (h *Handler) ListJovenes(c *gin.Context) {
	id, ok := parseEventoID(c)
	if !ok {
		return
	}
	list, err := h.joven.ListAll(c.Request.Context(), &id)
	if err != nil {
		h.logger.Error("list evento jovenes", zap.Error(err), zap.String("evento_id", id.String()))
		response.Internal(c, "failed to list jovenes")
		return
	}
	response.OK(c, gin.H{"jovenes": list})
}

// Recaudacion handles GET /api/admin/eventos/:eventoId/recaudacion.
func (h *Handler) Recaudacion(c *gin.Context) {
	id, ok := parseEventoID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if _, err := h.repo.Get(ctx, id); err != nil {
		response.DBError(c, err)
		return
	}
	rec, err := h.repo.GetRecaudacion(ctx, id)
	if err != nil {
		h.logger.Error("recaudacion", zap.Error(err), zap.String("evento_id", id.String()))
		response.Internal(c, "failed to compute recaudacion")
		return
	}
	response.OK(c, gin.H{"recaudacion": rec})
}

// Dashboard handles GET /api/admin/dashboard.
func (h *Handler) Dashboard(c *gin.Context) {
	counts, err := h.repo.GetDashboard(c.Request.Context())
	if err != nil {
		h.logger.Error("dashboard", zap.Error(err))
		response.Internal(c, "failed to load dashboard")
		return
	}
	response.OK(c, gin.H{"dashboard": counts})
}

// TipoRequest is the body for tipo-evento create and rename.
type TipoRequest struct {
	Nombre string `json:"nombre" binding:"required"`
}

// ListTipos handles GET /api/admin/tipos-evento.
func (h *Handler) ListTipos(c *gin.Context) {
	list, err := h.repo.ListTipos(c.Request.Context())
	if err != nil {
		h.logger.Error("list tipos evento", zap.Error(err))
		response.Internal(c, "failed to list event types")
		return
	}
	response.OK(c, gin.H{"tipos": list})
}

// CreateTipo handles POST /api/admin/tipos-evento.
func (h *Handler) CreateTipo(c *gin.Context) {
	var req TipoRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Nombre) == "" {
		response.ValidationError(c, []gin.H{{"field": "nombre", "message": "is required"}})
		return
	}
	tipo, err := h.repo.CreateTipo(c.Request.Context(), strings.TrimSpace(req.Nombre))
	if err != nil {
		response.DBError(c, err)
		return
	}
	response.Created(c, gin.H{"mensaje": "Tipo de evento creado", "tipo": tipo})
}

// UpdateTipo handles PATCH /api/admin/tipos-evento/:tipoId.
func (h *Handler) UpdateTipo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("tipoId"))
	if err != nil {
		response.NotFound(c, "TIPO_NOT_FOUND", "Event type not found")
		return
	}
	var req TipoRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Nombre) == "" {
		response.ValidationError(c, []gin.H{{"field": "nombre", "message": "is required"}})
		return
	}
	tipo, err := h.repo.UpdateTipo(c.Request.Context(), id, strings.TrimSpace(req.Nombre))
	if err != nil {
		response.DBError(c, err)
		return
	}
	response.OK(c, gin.H{"mensaje": "Tipo de evento actualizado", "tipo": tipo})
}

// DeleteTipo handles DELETE /api/admin/tipos-evento/:tipoId.
func (h *Handler) DeleteTipo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("tipoId"))
	if err != nil {
		response.NotFound(c, "TIPO_NOT_FOUND", "Event type not found")
		return
	}
	if err := h.repo.DeleteTipo(c.Request.Context(), id); err != nil {
		response.DBError(c, err)
		return
	}
	response.OK(c, gin.H{"mensaje": "Tipo de evento eliminado"})
}
