package documentos

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Elicupra/Paroikiapp/internal/middleware"
	"github.com/Elicupra/Paroikiapp/internal/models"
	"github.com/Elicupra/Paroikiapp/pkg/response"
)

// Handler serves authenticated document downloads and monitor-side
// validation.
type Handler struct {
	repo    *Repository
	storage *Storage
	logger  *zap.Logger
}

// NewHandler creates a documentos handler.
func NewHandler(repo *Repository, storage *Storage, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, storage: storage, logger: logger}
}

// Download handles GET /api/documentos/:docId. The owning monitor and any
// organizador may fetch the file.
func (h *Handler) Download(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("docId"))
	if err != nil {
		response.NotFound(c, "DOCUMENT_NOT_FOUND", "Document not found")
		return
	}

	doc, err := h.repo.GetWithOwner(c.Request.Context(), docID)
	if err != nil {
		response.NotFound(c, "DOCUMENT_NOT_FOUND", "Document not found")
		return
	}

	acting := middleware.ActingUser(c)
	if doc.OwnerUsuarioID != acting.ID && acting.Rol != models.RolOrganizador {
		response.Forbidden(c, "You do not have permission to access this document")
		return
	}

	path, err := h.storage.Resolve(doc.RutaInterna)
	if err != nil {
		h.logger.Error("resolve document path", zap.Error(err), zap.String("documento_id", docID.String()))
		response.NotFound(c, "FILE_NOT_FOUND", "File not found on server")
		return
	}
	if _, err := os.Stat(path); err != nil {
		response.NotFound(c, "FILE_NOT_FOUND", "File not found on server")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.NombreOriginal))
	c.Header("Content-Type", doc.MimeType)
	c.File(path)
}

// Validar handles PATCH /api/monitor/documentos/:docId/validar. The
// validation record names the real authenticated user even when the request
// runs under simulation.
func (h *Handler) Validar(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("docId"))
	if err != nil {
		response.NotFound(c, "DOCUMENT_NOT_FOUND", "Document not found")
		return
	}
	acting := middleware.ActingUser(c)

	owned, err := h.repo.OwnedByUsuario(c.Request.Context(), docID, acting.ID)
	if err != nil {
		h.logger.Error("ownership check", zap.Error(err), zap.String("documento_id", docID.String()))
		response.Internal(c, "failed to validate document")
		return
	}
	if !owned {
		response.Forbidden(c, "You cannot validate this document")
		return
	}

	validador := acting.ID
	if acting.SimulatedBy != nil {
		validador = *acting.SimulatedBy
	}
	if err := h.repo.Validate(c.Request.Context(), docID, validador); err != nil {
		h.logger.Error("validate document", zap.Error(err), zap.String("documento_id", docID.String()))
		response.Internal(c, "failed to validate document")
		return
	}
	response.OK(c, gin.H{"mensaje": "Documento validado correctamente"})
}
