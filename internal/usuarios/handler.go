package usuarios

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Elicupra/Paroikiapp/internal/documentos"
	"github.com/Elicupra/Paroikiapp/internal/middleware"
	"github.com/Elicupra/Paroikiapp/internal/models"
	"github.com/Elicupra/Paroikiapp/pkg/response"
	"github.com/Elicupra/Paroikiapp/pkg/utils"
)

const tempPasswordLength = 12

// Handler serves the admin usuario endpoints.
type Handler struct {
	repo    *Repository
	storage *documentos.Storage
	logger  *zap.Logger
}

// NewHandler creates a usuarios handler.
func NewHandler(repo *Repository, storage *documentos.Storage, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, storage: storage, logger: logger}
}

func parseUsuarioID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("usuarioId"))
	if err != nil {
		response.NotFound(c, "USUARIO_NOT_FOUND", "User not found")
		return uuid.Nil, false
	}
	return id, true
}

// List handles GET /api/admin/usuarios.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list usuarios", zap.Error(err))
		response.Internal(c, "failed to list users")
		return
	}
	response.OK(c, gin.H{"usuarios": list})
}

// Get handles GET /api/admin/usuarios/:usuarioId.
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseUsuarioID(c)
	if !ok {
		return
	}
	u, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		response.DBError(c, err)
		return
	}
	response.OK(c, gin.H{"usuario": u})
}

// CreateRequest is the body for POST /api/admin/usuarios.
type CreateRequest struct {
	Email          string     `json:"email" binding:"required,email"`
	NombreMostrado string     `json:"nombre_mostrado" binding:"required"`
	Rol            models.Rol `json:"rol"`
}

// Create handles POST /api/admin/usuarios. A temporary password is generated
// server-side and returned exactly once; it is never stored in clear.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_BODY", "email and nombre_mostrado are required")
		return
	}
	if req.Rol == "" {
		req.Rol = models.RolMonitor
	}
	if !req.Rol.Valid() {
		response.ValidationError(c, []gin.H{{"field": "rol", "message": "must be monitor or organizador"}})
		return
	}

	tempPassword, err := utils.GeneratePassword(tempPasswordLength)
	if err != nil {
		h.logger.Error("generate password", zap.Error(err))
		response.Internal(c, "failed to create user")
		return
	}
	hash, err := utils.HashPassword(tempPassword)
	if err != nil {
		h.logger.Error("hash password", zap.Error(err))
		response.Internal(c, "failed to create user")
		return
	}

	u, err := h.repo.Create(c.Request.Context(),
		strings.ToLower(strings.TrimSpace(req.Email)), hash,
		strings.TrimSpace(req.NombreMostrado), req.Rol)
	if err != nil {
		if response.IsUniqueViolation(err) {
			response.Conflict(c, "EMAIL_EXISTS", "A user with this email already exists")
			return
		}
		response.DBError(c, err)
		return
	}
	response.Created(c, gin.H{
		"mensaje":           "Usuario creado exitosamente",
		"usuario":           u,
		"password_temporal": tempPassword,
		"password_aviso":    "Guarda esta contraseña; no volverá a mostrarse",
	})
}

// UpdateRequest is the body for PATCH /api/admin/usuarios/:usuarioId.
type UpdateRequest struct {
	Email          *string     `json:"email"`
	NombreMostrado *string     `json:"nombre_mostrado"`
	Rol            *models.Rol `json:"rol"`
}

// Update handles PATCH /api/admin/usuarios/:usuarioId.
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseUsuarioID(c)
	if !ok {
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_BODY", "Invalid request body")
		return
	}
	if req.Rol != nil && !req.Rol.Valid() {
		response.ValidationError(c, []gin.H{{"field": "rol", "message": "must be monitor or organizador"}})
		return
	}
	if req.Email != nil {
		*req.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	acting := middleware.ActingUser(c)
	if id == acting.ID && req.Rol != nil && *req.Rol != models.RolOrganizador {
		response.Conflict(c, "SELF_DEMOTION", "You cannot remove your own organizador role")
		return
	}

	u, err := h.repo.Update(c.Request.Context(), id, req.Email, req.NombreMostrado, req.Rol)
	if err != nil {
		if response.IsUniqueViolation(err) {
			response.Conflict(c, "EMAIL_EXISTS", "A user with this email already exists")
			return
		}
		response.DBError(c, err)
		return
	}
	response.OK(c, gin.H{"mensaje": "Usuario actualizado correctamente", "usuario": u})
}

// ToggleActivo handles PATCH /api/admin/usuarios/:usuarioId/activo.
func (h *Handler) ToggleActivo(c *gin.Context) {
	id, ok := parseUsuarioID(c)
	if !ok {
		return
	}
	var req struct {
		Activo *bool `json:"activo" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_BODY", "activo is required")
		return
	}
	acting := middleware.ActingUser(c)
	if id == acting.ID && !*req.Activo {
		response.Conflict(c, "SELF_DEACTIVATION", "You cannot deactivate your own account")
		return
	}

	u, err := h.repo.SetActivo(c.Request.Context(), id, *req.Activo)
	if err != nil {
		response.DBError(c, err)
		return
	}
	response.OK(c, gin.H{"mensaje": "Usuario actualizado correctamente", "usuario": u})
}

// ResetPassword handles POST /api/admin/usuarios/:usuarioId/reset-password.
// Generates a fresh temporary password and kills every session.
func (h *Handler) ResetPassword(c *gin.Context) {
	id, ok := parseUsuarioID(c)
	if !ok {
		return
	}
	tempPassword, err := utils.GeneratePassword(tempPasswordLength)
	if err != nil {
		h.logger.Error("generate password", zap.Error(err))
		response.Internal(c, "failed to reset password")
		return
	}
	hash, err := utils.HashPassword(tempPassword)
	if err != nil {
		h.logger.Error("hash password", zap.Error(err))
		response.Internal(c, "failed to reset password")
		return
	}
	if err := h.repo.SetPassword(c.Request.Context(), id, hash); err != nil {
		response.DBError(c, err)
		return
	}
	response.OK(c, gin.H{
		"mensaje":           "Contraseña restablecida",
		"password_temporal": tempPassword,
	})
}

// Delete handles DELETE /api/admin/usuarios/:usuarioId. Hard delete: the
// user, its assignments, its jovenes and their documentos and pagos all go
// in one transaction, then files are swept off disk.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseUsuarioID(c)
	if !ok {
		return
	}
	acting := middleware.ActingUser(c)
	if id == acting.ID {
		response.Conflict(c, "SELF_DELETION", "You cannot delete your own account")
		return
	}

	rutas, err := h.repo.Delete(c.Request.Context(), id)
	if err != nil {
		response.DBError(c, err)
		return
	}
	for _, ruta := range rutas {
		if err := h.storage.Remove(ruta); err != nil {
			h.logger.Warn("remove documento file", zap.Error(err), zap.String("ruta", ruta))
		}
	}
	response.OK(c, gin.H{"mensaje": "Usuario eliminado correctamente"})
}

// ListEventos handles GET /api/admin/usuarios/:usuarioId/eventos.
func (h *Handler) ListEventos(c *gin.Context) {
	id, ok := parseUsuarioID(c)
	if !ok {
		return
	}
	list, err := h.repo.ListEventos(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("list usuario eventos", zap.Error(err), zap.String("usuario_id", id.String()))
		response.Internal(c, "failed to list events")
		return
	}
	response.OK(c, gin.H{"eventos": list})
}
