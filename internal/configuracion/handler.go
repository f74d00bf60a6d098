package configuracion

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Elicupra/Paroikiapp/pkg/response"
)

// Handler serves the admin branding configuration endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a configuracion handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// Get handles GET /api/admin/configuracion.
func (h *Handler) Get(c *gin.Context) {
	cfg, err := h.repo.GetAll(c.Request.Context())
	if err != nil {
		h.logger.Error("load configuracion", zap.Error(err))
		response.Internal(c, "failed to load configuration")
		return
	}
	response.OK(c, gin.H{"configuracion": cfg})
}

// Put handles PUT /api/admin/configuracion. Accepts a flat map of allowed
// keys; an unknown key fails the whole request so typos never vanish
// silently.
func (h *Handler) Put(c *gin.Context) {
	var body map[string]string
	if err := c.ShouldBindJSON(&body); err != nil || len(body) == 0 {
		response.BadRequest(c, "INVALID_BODY", "Expected a non-empty object of configuration keys")
		return
	}
	for clave := range body {
		if !claveAllowed(clave) {
			response.BadRequest(c, "UNKNOWN_CLAVE", "Unknown configuration key: "+clave)
			return
		}
	}

	ctx := c.Request.Context()
	for clave, valor := range body {
		if err := h.repo.Set(ctx, clave, valor); err != nil {
			h.logger.Error("set configuracion", zap.Error(err), zap.String("clave", clave))
			response.Internal(c, "failed to save configuration")
			return
		}
	}

	cfg, err := h.repo.GetAll(ctx)
	if err != nil {
		h.logger.Error("reload configuracion", zap.Error(err))
		response.Internal(c, "failed to load configuration")
		return
	}
	response.OK(c, gin.H{"mensaje": "Configuración guardada", "configuracion": cfg})
}
