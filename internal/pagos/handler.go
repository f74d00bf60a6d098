package pagos

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Elicupra/Paroikiapp/internal/middleware"
	"github.com/Elicupra/Paroikiapp/internal/models"
	"github.com/Elicupra/Paroikiapp/pkg/response"
)

// Handler serves the monitor payment endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a pagos handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// CreateRequest is the body for POST /api/monitor/pagos.
type CreateRequest struct {
	JovenID      uuid.UUID `json:"joven_id" binding:"required"`
	PlazoNumero  int       `json:"plazo_numero" binding:"required,min=1"`
	Cantidad     float64   `json:"cantidad" binding:"required,gt=0"`
	Pagado       bool      `json:"pagado"`
	EsEspecial   bool      `json:"es_especial"`
	NotaEspecial string    `json:"nota_especial"`
	Descuento    float64   `json:"descuento"`
}

// Create handles POST /api/monitor/pagos. registrado_por always names the
// real authenticated user, never the simulated monitor.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_BODY", "joven_id, plazo_numero and cantidad are required")
		return
	}
	if req.Descuento < 0 {
		response.ValidationError(c, []gin.H{{"field": "descuento", "message": "must not be negative"}})
		return
	}
	ctx := c.Request.Context()
	acting := middleware.ActingUser(c)

	owned, err := h.repo.JovenOwnedBy(ctx, req.JovenID, acting.ID)
	if err != nil {
		h.logger.Error("pago ownership check", zap.Error(err), zap.String("joven_id", req.JovenID.String()))
		response.Internal(c, "failed to register payment")
		return
	}
	if !owned {
		response.Forbidden(c, "This joven belongs to another monitor")
		return
	}

	registrador := acting.ID
	if acting.SimulatedBy != nil {
		registrador = *acting.SimulatedBy
	}
	pago, err := h.repo.Insert(ctx, &models.Pago{
		JovenID:       req.JovenID,
		PlazoNumero:   req.PlazoNumero,
		Cantidad:      req.Cantidad,
		Pagado:        req.Pagado,
		EsEspecial:    req.EsEspecial,
		NotaEspecial:  req.NotaEspecial,
		Descuento:     req.Descuento,
		RegistradoPor: &registrador,
	})
	if err != nil {
		h.logger.Error("insert pago", zap.Error(err), zap.String("joven_id", req.JovenID.String()))
		response.DBError(c, err)
		return
	}
	response.Created(c, gin.H{"mensaje": "Pago registrado exitosamente", "pago": pago})
}

// UpdateRequest is the body for PATCH /api/monitor/pagos/:pagoId.
type UpdateRequest struct {
	Cantidad     *float64 `json:"cantidad"`
	Pagado       *bool    `json:"pagado"`
	EsEspecial   *bool    `json:"es_especial"`
	NotaEspecial *string  `json:"nota_especial"`
	Descuento    *float64 `json:"descuento"`
}

// Update handles PATCH /api/monitor/pagos/:pagoId.
func (h *Handler) Update(c *gin.Context) {
	pagoID, err := uuid.Parse(c.Param("pagoId"))
	if err != nil {
		response.NotFound(c, "PAGO_NOT_FOUND", "Payment not found")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_BODY", "Invalid request body")
		return
	}
	if req.Cantidad != nil && *req.Cantidad <= 0 {
		response.ValidationError(c, []gin.H{{"field": "cantidad", "message": "must be greater than zero"}})
		return
	}
	if req.Descuento != nil && *req.Descuento < 0 {
		response.ValidationError(c, []gin.H{{"field": "descuento", "message": "must not be negative"}})
		return
	}
	ctx := c.Request.Context()
	acting := middleware.ActingUser(c)

	owned, err := h.repo.PagoOwnedBy(ctx, pagoID, acting.ID)
	if err != nil {
		h.logger.Error("pago ownership check", zap.Error(err), zap.String("pago_id", pagoID.String()))
		response.Internal(c, "failed to update payment")
		return
	}
	if !owned {
		response.Forbidden(c, "This payment belongs to another monitor")
		return
	}

	pago, err := h.repo.Update(ctx, pagoID, req.Cantidad, req.Pagado, req.EsEspecial, req.NotaEspecial, req.Descuento)
	if err != nil {
		response.DBError(c, err)
		return
	}
	response.OK(c, gin.H{"mensaje": "Pago actualizado correctamente", "pago": pago})
}
