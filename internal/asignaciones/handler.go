package asignaciones

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Elicupra/Paroikiapp/internal/middleware"
	"github.com/Elicupra/Paroikiapp/internal/models"
	"github.com/Elicupra/Paroikiapp/pkg/response"
)

// Handler serves the admin assignment endpoints and the monitor's own link
// and summary views.
type Handler struct {
	store       Store
	dir         *Directory
	caps        Capabilities
	frontendURL string
	logger      *zap.Logger
}

// NewHandler creates an asignaciones handler. frontendURL is used to build
// shareable registration links.
func NewHandler(store Store, dir *Directory, caps Capabilities, frontendURL string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, dir: dir, caps: caps, frontendURL: strings.TrimRight(frontendURL, "/"), logger: logger}
}

func (h *Handler) linkURL(token uuid.UUID) string {
	return h.frontendURL + "/register/" + token.String()
}

func parseMonitorID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("monitorId"))
	if err != nil {
		response.NotFound(c, "ASIGNACION_NOT_FOUND", "Assignment not found")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) capacityError(c *gin.Context, err error) bool {
	if errors.Is(err, ErrCapacityUnsupported) {
		response.Conflict(c, "CAPACITY_UNSUPPORTED", "Per-assignment capacity is not available on this deployment")
		return true
	}
	return false
}

// AssignRequest is the body for POST /api/admin/monitores.
type AssignRequest struct {
	UsuarioID  uuid.UUID `json:"usuario_id" binding:"required"`
	EventoID   uuid.UUID `json:"evento_id" binding:"required"`
	MaxJovenes *int      `json:"max_jovenes"`
}

// Assign handles POST /api/admin/monitores.
func (h *Handler) Assign(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_BODY", "usuario_id and evento_id are required")
		return
	}
	if req.MaxJovenes != nil && *req.MaxJovenes < 1 {
		response.ValidationError(c, []gin.H{{"field": "max_jovenes", "message": "must be at least 1"}})
		return
	}

	asig, err := h.store.Assign(c.Request.Context(), req.UsuarioID, req.EventoID, req.MaxJovenes)
	if err != nil {
		if h.capacityError(c, err) {
			return
		}
		if response.IsUniqueViolation(err) {
			response.Conflict(c, "ALREADY_ASSIGNED", "This user is already assigned to the event")
			return
		}
		response.DBError(c, err)
		return
	}
	response.Created(c, gin.H{
		"mensaje":    "Monitor asignado exitosamente",
		"asignacion": asig,
		"enlace":     h.linkURL(asig.EnlaceToken),
	})
}

// AssignEvento handles POST /api/admin/monitores/:monitorId/eventos. It
// assigns the same usuario to another event.
func (h *Handler) AssignEvento(c *gin.Context) {
	monitorID, ok := parseMonitorID(c)
	if !ok {
		return
	}
	var req struct {
		EventoID   uuid.UUID `json:"evento_id" binding:"required"`
		MaxJovenes *int      `json:"max_jovenes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_BODY", "evento_id is required")
		return
	}
	ctx := c.Request.Context()

	existing, err := h.store.GetByMonitorID(ctx, monitorID)
	if err != nil {
		response.DBError(c, err)
		return
	}
	asig, err := h.store.Assign(ctx, existing.UsuarioID, req.EventoID, req.MaxJovenes)
	if err != nil {
		if h.capacityError(c, err) {
			return
		}
		if response.IsUniqueViolation(err) {
			response.Conflict(c, "ALREADY_ASSIGNED", "This user is already assigned to the event")
			return
		}
		response.DBError(c, err)
		return
	}
	response.Created(c, gin.H{
		"mensaje":    "Monitor asignado exitosamente",
		"asignacion": asig,
		"enlace":     h.linkURL(asig.EnlaceToken),
	})
}

// Get handles GET /api/admin/monitores/:monitorId. The admin view of one
// assignment with names and youth count.
func (h *Handler) Get(c *gin.Context) {
	monitorID, ok := parseMonitorID(c)
	if !ok {
		return
	}
	link, err := h.dir.GetLink(c.Request.Context(), monitorID)
	if err != nil {
		response.DBError(c, err)
		return
	}
	response.OK(c, gin.H{"asignacion": link, "enlace": h.linkURL(link.EnlaceToken)})
}

// Update handles PATCH /api/admin/monitores/:monitorId. max_jovenes is
// tri-state: absent leaves it, null means unlimited, a number sets it.
func (h *Handler) Update(c *gin.Context) {
	monitorID, ok := parseMonitorID(c)
	if !ok {
		return
	}
	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		response.BadRequest(c, "INVALID_BODY", "Invalid request body")
		return
	}

	var upd Update
	if v, present := raw["activo"]; present {
		var b bool
		if err := json.Unmarshal(v, &b); err != nil {
			response.ValidationError(c, []gin.H{{"field": "activo", "message": "must be a boolean"}})
			return
		}
		upd.Activo = &b
	}
	if v, present := raw["max_jovenes"]; present {
		upd.MaxJovenesSet = true
		if string(v) != "null" {
			var n int
			if err := json.Unmarshal(v, &n); err != nil || n < 1 {
				response.ValidationError(c, []gin.H{{"field": "max_jovenes", "message": "must be null or at least 1"}})
				return
			}
			upd.MaxJovenes = &n
		}
	}

	asig, err := h.store.Update(c.Request.Context(), monitorID, upd)
	if err != nil {
		if h.capacityError(c, err) {
			return
		}
		response.DBError(c, err)
		return
	}
	response.OK(c, gin.H{"mensaje": "Asignación actualizada", "asignacion": asig})
}

// RevokeToken handles POST /api/admin/monitores/:monitorId/revocar-token.
// The old link dies instantly; the assignment and its jovenes are untouched.
func (h *Handler) RevokeToken(c *gin.Context) {
	monitorID, ok := parseMonitorID(c)
	if !ok {
		return
	}
	asig, err := h.store.RevokeToken(c.Request.Context(), monitorID)
	if err != nil {
		response.DBError(c, err)
		return
	}
	response.OK(c, gin.H{
		"mensaje":    "Enlace regenerado",
		"asignacion": asig,
		"enlace":     h.linkURL(asig.EnlaceToken),
	})
}

// RevokeTokenByEvento handles
// POST /api/admin/usuarios/:usuarioId/eventos/:eventoId/revocar-token.
func (h *Handler) RevokeTokenByEvento(c *gin.Context) {
	usuarioID, err := uuid.Parse(c.Param("usuarioId"))
	if err != nil {
		response.NotFound(c, "ASIGNACION_NOT_FOUND", "Assignment not found")
		return
	}
	eventoID, err := uuid.Parse(c.Param("eventoId"))
	if err != nil {
		response.NotFound(c, "ASIGNACION_NOT_FOUND", "Assignment not found")
		return
	}
	ctx := c.Request.Context()

	monitorID, err := h.dir.MonitorIDByPair(ctx, usuarioID, eventoID)
	if err != nil {
		response.DBError(c, err)
		return
	}
	asig, err := h.store.RevokeToken(ctx, monitorID)
	if err != nil {
		response.DBError(c, err)
		return
	}
	response.OK(c, gin.H{
		"mensaje":    "Enlace regenerado",
		"asignacion": asig,
		"enlace":     h.linkURL(asig.EnlaceToken),
	})
}

// Remove handles DELETE /api/admin/monitores/:monitorId. Assignments with
// registered jovenes are protected by the foreign key and surface as a 409.
func (h *Handler) Remove(c *gin.Context) {
	monitorID, ok := parseMonitorID(c)
	if !ok {
		return
	}
	if err := h.store.Remove(c.Request.Context(), monitorID); err != nil {
		response.DBError(c, err)
		return
	}
	response.OK(c, gin.H{"mensaje": "Asignación eliminada"})
}

// ListLinks handles GET /api/admin/registration-links.
func (h *Handler) ListLinks(c *gin.Context) {
	list, err := h.dir.ListAllLinks(c.Request.Context())
	if err != nil {
		h.logger.Error("list links", zap.Error(err))
		response.Internal(c, "failed to list registration links")
		return
	}
	response.OK(c, gin.H{"links": h.withURLs(list)})
}

// MyLinks handles GET /api/monitor/registration-links.
func (h *Handler) MyLinks(c *gin.Context) {
	acting := middleware.ActingUser(c)
	list, err := h.dir.ListLinksByUsuario(c.Request.Context(), acting.ID)
	if err != nil {
		h.logger.Error("list my links", zap.Error(err), zap.String("usuario_id", acting.ID.String()))
		response.Internal(c, "failed to list registration links")
		return
	}
	response.OK(c, gin.H{"links": h.withURLs(list)})
}

type linkWithURL struct {
	LinkRow
	Enlace string `json:"enlace"`
}

func (h *Handler) withURLs(list []LinkRow) []linkWithURL {
	out := make([]linkWithURL, len(list))
	for i, l := range list {
		out[i] = linkWithURL{LinkRow: l, Enlace: h.linkURL(l.EnlaceToken)}
	}
	return out
}

// Resumen handles GET /api/monitor/resumen?evento_id=. The presupuesto is
// the per-head price times the group limit, minus the event's global
// discount spread over at least one youth.
func (h *Handler) Resumen(c *gin.Context) {
	eventoID, err := uuid.Parse(c.Query("evento_id"))
	if err != nil {
		response.BadRequest(c, "INVALID_EVENTO_ID", "evento_id must be a UUID")
		return
	}
	acting := middleware.ActingUser(c)

	r, err := h.dir.GetResumen(c.Request.Context(), acting.ID, eventoID)
	if err != nil {
		response.DBError(c, err)
		return
	}

	limit := r.Jovenes
	if h.caps.OverlayTable {
		if r.MaxJovenes != nil {
			limit = *r.MaxJovenes
		}
	} else {
		limit = models.LegacyMaxJovenes
	}
	jovenes := r.Jovenes
	if jovenes < 1 {
		jovenes = 1
	}
	presupuesto := r.PrecioBase*float64(limit) - r.DescuentoGlobal*float64(jovenes)
	if presupuesto < 0 {
		presupuesto = 0
	}

	response.OK(c, gin.H{
		"resumen":     r,
		"presupuesto": presupuesto,
	})
}
