package registro

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Elicupra/Paroikiapp/internal/asignaciones"
	"github.com/Elicupra/Paroikiapp/internal/metrics"
	"github.com/Elicupra/Paroikiapp/internal/models"
	"github.com/Elicupra/Paroikiapp/pkg/response"
	"github.com/Elicupra/Paroikiapp/pkg/utils"
)

// NewYouthNotifier emails the monitor about a registration. Best effort.
type NewYouthNotifier interface {
	SendNewYouth(email, monitorNombre, jovenNombre, jovenApellidos, eventoNombre string)
}

// LinkRepo is the persistence behind the registration surface. Satisfied by
// *Repository.
type LinkRepo interface {
	GetLinkInfo(ctx context.Context, usuarioID, eventoID uuid.UUID) (*LinkInfo, error)
	CreateJoven(ctx context.Context, nombre, apellidos string, monitorID, eventoID uuid.UUID, limit int) (*models.Joven, uuid.UUID, error)
}

// JovenRequest is the body for POST /register/:token/joven.
type JovenRequest struct {
	Nombre    string `json:"nombre"`
	Apellidos string `json:"apellidos"`
}

// Handler serves the unauthenticated registration-link surface. Every failure
// on this surface is a 404: the token either works or the caller learns
// nothing.
type Handler struct {
	repo     LinkRepo
	store    asignaciones.Store
	caps     asignaciones.Capabilities
	notifier NewYouthNotifier
	logger   *zap.Logger
}

// NewHandler creates a registro handler.
func NewHandler(repo LinkRepo, store asignaciones.Store, caps asignaciones.Capabilities, notifier NewYouthNotifier, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, store: store, caps: caps, notifier: notifier, logger: logger}
}

func linkNotFound(c *gin.Context) {
	response.NotFound(c, "EVENTO_NOT_FOUND", "Event not found or link is inactive")
}

// GetEventoInfo handles GET /register/:token.
func (h *Handler) GetEventoInfo(c *gin.Context) {
	token := c.Param("token")
	if !utils.IsValidUUID(token) {
		linkNotFound(c)
		return
	}

	asig, err := h.store.ResolveToken(c.Request.Context(), uuid.MustParse(strings.ToLower(token)))
	if err != nil {
		linkNotFound(c)
		return
	}
	info, err := h.repo.GetLinkInfo(c.Request.Context(), asig.UsuarioID, asig.EventoID)
	if err != nil {
		linkNotFound(c)
		return
	}

	response.OK(c, gin.H{
		"evento": gin.H{
			"nombre":       info.EventoNombre,
			"tipo":         info.EventoTipo,
			"fecha_inicio": info.FechaInicio,
			"fecha_fin":    info.FechaFin,
		},
		"monitor": gin.H{
			"nombre": info.MonitorNombre,
		},
	})
}

// RegisterJoven handles POST /register/:token/joven. Enforces the
// per-assignment capacity (legacy fixed cap without the overlay table) and
// issues the youth's self-service access token.
func (h *Handler) RegisterJoven(c *gin.Context) {
	token := c.Param("token")
	if !utils.IsValidUUID(token) {
		linkNotFound(c)
		return
	}

	var req JovenRequest
	_ = c.ShouldBindJSON(&req)
	nombre := strings.TrimSpace(req.Nombre)
	apellidos := strings.TrimSpace(req.Apellidos)
	if len(nombre) < 2 || len(nombre) > 100 || len(apellidos) < 2 || len(apellidos) > 100 {
		response.ValidationError(c, []gin.H{
			{"field": "nombre", "message": "must be 2-100 characters"},
			{"field": "apellidos", "message": "must be 2-100 characters"},
		})
		return
	}

	ctx := c.Request.Context()
	asig, err := h.store.ResolveToken(ctx, uuid.MustParse(strings.ToLower(token)))
	if err != nil {
		linkNotFound(c)
		return
	}

	limit := asig.Cap(h.caps.OverlayTable)
	joven, accessToken, err := h.repo.CreateJoven(ctx, nombre, apellidos, asig.MonitorID, asig.EventoID, limit)
	if errors.Is(err, ErrGroupFull) {
		response.Conflict(c, "MAX_JOVENES_REACHED", "This group is full")
		return
	}
	if err != nil {
		h.logger.Error("create joven", zap.Error(err), zap.String("monitor_id", asig.MonitorID.String()))
		response.DBError(c, err)
		return
	}
	metrics.RegistrationsViaLink.Inc()

	if h.notifier != nil {
		if info, err := h.repo.GetLinkInfo(ctx, asig.UsuarioID, asig.EventoID); err == nil && info.NotifyHabilitada {
			h.notifier.SendNewYouth(info.NotifyEmail, info.MonitorNombre, joven.Nombre, joven.Apellidos, info.EventoNombre)
		}
	}

	response.Created(c, gin.H{
		"mensaje": "Joven registrado exitosamente",
		"joven": gin.H{
			"id":        joven.ID,
			"nombre":    joven.Nombre,
			"apellidos": joven.Apellidos,
			"creado_en": joven.CreadoEn,
		},
		"acceso_token": accessToken,
	})
}
