package jovenes

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Elicupra/Paroikiapp/internal/documentos"
	"github.com/Elicupra/Paroikiapp/internal/middleware"
	"github.com/Elicupra/Paroikiapp/internal/models"
	"github.com/Elicupra/Paroikiapp/pkg/response"
)

// Store is the joven persistence the handler needs. Satisfied by *Repository.
type Store interface {
	ListByUsuario(ctx context.Context, usuarioID uuid.UUID, eventoID *uuid.UUID) ([]models.JovenResumen, error)
	ListAll(ctx context.Context, eventoID *uuid.UUID) ([]models.JovenResumen, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Joven, error)
	OwnerUsuarioID(ctx context.Context, jovenID uuid.UUID) (uuid.UUID, error)
	AccessToken(ctx context.Context, jovenID uuid.UUID) (*uuid.UUID, error)
	Create(ctx context.Context, nombre, apellidos string, monitorID, eventoID uuid.UUID) (*models.Joven, uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, nombre, apellidos *string, monitorID *uuid.UUID) (*models.Joven, error)
	Delete(ctx context.Context, id uuid.UUID) ([]string, error)
	ListPagos(ctx context.Context, jovenID uuid.UUID) ([]models.Pago, error)
}

// Handler serves the monitor and admin joven endpoints.
type Handler struct {
	repo    Store
	docs    *documentos.Repository
	storage *documentos.Storage
	logger  *zap.Logger
}

// NewHandler creates a jovenes handler.
func NewHandler(repo Store, docs *documentos.Repository, storage *documentos.Storage, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, docs: docs, storage: storage, logger: logger}
}

func eventoFilter(c *gin.Context) (*uuid.UUID, bool) {
	raw := c.Query("evento_id")
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.BadRequest(c, "INVALID_EVENTO_ID", "evento_id must be a UUID")
		return nil, false
	}
	return &id, true
}

// List handles GET /api/monitor/jovenes. Monitors only ever see their own
// groups, including under simulation.
func (h *Handler) List(c *gin.Context) {
	eventoID, ok := eventoFilter(c)
	if !ok {
		return
	}
	acting := middleware.ActingUser(c)

	list, err := h.repo.ListByUsuario(c.Request.Context(), acting.ID, eventoID)
	if err != nil {
		h.logger.Error("list jovenes", zap.Error(err), zap.String("usuario_id", acting.ID.String()))
		response.Internal(c, "failed to list jovenes")
		return
	}
	response.OK(c, gin.H{"jovenes": list})
}

// Get handles GET /api/monitor/jovenes/:jovenId with documentos and pagos
// inlined. A monitor asking about another monitor's joven gets a 403, not a
// 404, because the admin surface shares this detail shape.
func (h *Handler) Get(c *gin.Context) {
	jovenID, err := uuid.Parse(c.Param("jovenId"))
	if err != nil {
		response.NotFound(c, "JOVEN_NOT_FOUND", "Joven not found")
		return
	}
	ctx := c.Request.Context()
	acting := middleware.ActingUser(c)

	joven, err := h.repo.Get(ctx, jovenID)
	if err != nil {
		response.NotFound(c, "JOVEN_NOT_FOUND", "Joven not found")
		return
	}
	if acting.Rol != models.RolOrganizador {
		owner, err := h.repo.OwnerUsuarioID(ctx, jovenID)
		if err != nil || owner != acting.ID {
			response.Forbidden(c, "This joven belongs to another monitor")
			return
		}
	}

	docs, err := h.docs.ListByJoven(ctx, jovenID)
	if err != nil {
		h.logger.Error("list documentos", zap.Error(err), zap.String("joven_id", jovenID.String()))
		response.Internal(c, "failed to load joven")
		return
	}
	pagos, err := h.repo.ListPagos(ctx, jovenID)
	if err != nil {
		h.logger.Error("list pagos", zap.Error(err), zap.String("joven_id", jovenID.String()))
		response.Internal(c, "failed to load joven")
		return
	}
	token, err := h.repo.AccessToken(ctx, jovenID)
	if err != nil {
		h.logger.Error("load acceso token", zap.Error(err), zap.String("joven_id", jovenID.String()))
		response.Internal(c, "failed to load joven")
		return
	}
	if docs == nil {
		docs = []models.Documento{}
	}

	response.OK(c, gin.H{
		"joven":        joven,
		"documentos":   docs,
		"pagos":        pagos,
		"acceso_token": token,
	})
}

// ListAll handles GET /api/admin/jovenes.
func (h *Handler) ListAll(c *gin.Context) {
	eventoID, ok := eventoFilter(c)
	if !ok {
		return
	}
	list, err := h.repo.ListAll(c.Request.Context(), eventoID)
	if err != nil {
		h.logger.Error("list all jovenes", zap.Error(err))
		response.Internal(c, "failed to list jovenes")
		return
	}
	response.OK(c, gin.H{"jovenes": list})
}

// CreateRequest is the body for POST /api/admin/jovenes.
type CreateRequest struct {
	Nombre    string    `json:"nombre" binding:"required"`
	Apellidos string    `json:"apellidos" binding:"required"`
	MonitorID uuid.UUID `json:"monitor_id" binding:"required"`
	EventoID  uuid.UUID `json:"evento_id" binding:"required"`
}

// Create handles POST /api/admin/jovenes. Unlike link registrations this
// path ignores capacity; an organizador placing a youth by hand overrides
// the group limit knowingly.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_BODY", "nombre, apellidos, monitor_id and evento_id are required")
		return
	}
	req.Nombre = strings.TrimSpace(req.Nombre)
	req.Apellidos = strings.TrimSpace(req.Apellidos)
	if len(req.Nombre) < 2 || len(req.Nombre) > 100 || len(req.Apellidos) < 2 || len(req.Apellidos) > 100 {
		response.ValidationError(c, []gin.H{{"field": "nombre/apellidos", "message": "must be 2-100 characters"}})
		return
	}

	joven, token, err := h.repo.Create(c.Request.Context(), req.Nombre, req.Apellidos, req.MonitorID, req.EventoID)
	if err != nil {
		h.logger.Error("create joven", zap.Error(err))
		response.DBError(c, err)
		return
	}
	response.Created(c, gin.H{
		"mensaje":      "Joven creado exitosamente",
		"joven":        joven,
		"acceso_token": token,
	})
}

// UpdateRequest is the body for PATCH /api/admin/jovenes/:jovenId.
type UpdateRequest struct {
	Nombre    *string    `json:"nombre"`
	Apellidos *string    `json:"apellidos"`
	MonitorID *uuid.UUID `json:"monitor_id"`
}

// Update handles PATCH /api/admin/jovenes/:jovenId.
func (h *Handler) Update(c *gin.Context) {
	jovenID, err := uuid.Parse(c.Param("jovenId"))
	if err != nil {
		response.NotFound(c, "JOVEN_NOT_FOUND", "Joven not found")
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

	joven, err := h.repo.Update(c.Request.Context(), jovenID, req.Nombre, req.Apellidos, req.MonitorID)
	if errors.Is(err, ErrEventoMismatch) {
		response.Conflict(c, "INVALID_REFERENCE", "Monitor belongs to a different event")
		return
	}
	if err != nil {
		response.DBError(c, err)
		return
	}
	response.OK(c, gin.H{"mensaje": "Joven actualizado correctamente", "joven": joven})
}

// Delete handles DELETE /api/admin/jovenes/:jovenId. Removes the joven, its
// documentos, pagos and access token in one transaction, then sweeps the
// files off disk.
func (h *Handler) Delete(c *gin.Context) {
	jovenID, err := uuid.Parse(c.Param("jovenId"))
	if err != nil {
		response.NotFound(c, "JOVEN_NOT_FOUND", "Joven not found")
		return
	}

	rutas, err := h.repo.Delete(c.Request.Context(), jovenID)
	if err != nil {
		response.DBError(c, err)
		return
	}
	for _, ruta := range rutas {
		if err := h.storage.Remove(ruta); err != nil {
			h.logger.Warn("remove documento file", zap.Error(err), zap.String("ruta", ruta))
		}
	}
	response.OK(c, gin.H{"mensaje": "Joven eliminado correctamente"})
}
