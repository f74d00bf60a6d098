package auth

import (
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Elicupra/Paroikiapp/internal/middleware"
	"github.com/Elicupra/Paroikiapp/pkg/response"
	"github.com/Elicupra/Paroikiapp/pkg/utils"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// PasswordChangedNotifier sends the password-changed warning email.
// Sending is best effort; implementations must never fail the request.
type PasswordChangedNotifier interface {
	SendPasswordChanged(email, nombreMostrado string)
}

// LoginRequest is the body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// RefreshRequest is the body for POST /api/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ChangePasswordRequest is the body for PATCH /api/auth/me/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required,min=8"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// ChangeEmailRequest is the body for PATCH /api/auth/me/email.
type ChangeEmailRequest struct {
	Password string `json:"password" binding:"required"`
	NewEmail string `json:"newEmail" binding:"required"`
}

// Handler handles session HTTP endpoints.
type Handler struct {
	repo              *Repository
	jwt               *JWTService
	refreshExpireDays int
	notifier          PasswordChangedNotifier
	logger            *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(repo *Repository, jwt *JWTService, refreshExpireDays int, notifier PasswordChangedNotifier, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, jwt: jwt, refreshExpireDays: refreshExpireDays, notifier: notifier, logger: logger}
}

// Login handles POST /api/auth/login. Wrong password and inactive or unknown
// user all produce the same INVALID_CREDENTIALS response.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "VALIDATION_ERROR", "email and password (min 8 chars) are required")
		return
	}

	user, err := h.repo.GetByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil || !user.Activo {
		response.Unauthorized(c, "INVALID_CREDENTIALS", "Invalid email or password")
		return
	}
	if !utils.CheckPassword(req.Password, user.PasswordHash) {
		response.Unauthorized(c, "INVALID_CREDENTIALS", "Invalid email or password")
		return
	}

	accessToken, err := h.jwt.Generate(user.ID)
	if err != nil {
		h.logger.Error("generate access token", zap.Error(err))
		response.Internal(c, "failed to generate token")
		return
	}

	refreshToken := uuid.New().String()
	expiresAt := time.Now().AddDate(0, 0, h.refreshExpireDays)
	if err := h.repo.CreateRefreshToken(c.Request.Context(), user.ID, utils.HashToken(refreshToken), expiresAt); err != nil {
		h.logger.Error("persist refresh token", zap.Error(err), zap.String("usuario_id", user.ID.String()))
		response.Internal(c, "failed to create session")
		return
	}

	if err := h.repo.TouchLastLogin(c.Request.Context(), user.ID); err != nil {
		h.logger.Warn("touch last login", zap.Error(err))
	}

	response.OK(c, gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"user": gin.H{
			"id":              user.ID,
			"email":           user.Email,
			"nombre_mostrado": user.NombreMostrado,
			"rol":             user.Rol,
		},
	})
}

// Refresh handles POST /api/auth/refresh. Reissues the access token only.
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		response.Unauthorized(c, "NO_REFRESH_TOKEN", "Refresh token required")
		return
	}

	userID, err := h.repo.LookupRefreshToken(c.Request.Context(), utils.HashToken(req.RefreshToken))
	if err != nil {
		response.Unauthorized(c, "INVALID_REFRESH_TOKEN", "Invalid or expired refresh token")
		return
	}

	accessToken, err := h.jwt.Generate(userID)
	if err != nil {
		h.logger.Error("generate access token", zap.Error(err))
		response.Internal(c, "failed to generate token")
		return
	}
	response.OK(c, gin.H{"accessToken": accessToken})
}

// Logout handles POST /api/auth/logout. Idempotent.
func (h *Handler) Logout(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.RefreshToken != "" {
		if err := h.repo.DeactivateRefreshToken(c.Request.Context(), utils.HashToken(req.RefreshToken)); err != nil {
			h.logger.Warn("deactivate refresh token", zap.Error(err))
		}
	}
	response.OK(c, gin.H{"mensaje": "Logged out successfully"})
}

// ChangePassword handles PATCH /api/auth/me/password. Invalidates every
// refresh token of the user afterwards.
func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "VALIDATION_ERROR", "currentPassword and newPassword (min 8 chars) are required")
		return
	}
	userID := middleware.ActingUser(c).ID

	user, err := h.repo.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.NotFound(c, "USER_NOT_FOUND", "User not found")
		return
	}
	if !utils.CheckPassword(req.CurrentPassword, user.PasswordHash) {
		response.Unauthorized(c, "INVALID_PASSWORD", "Current password is incorrect")
		return
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		h.logger.Error("hash password", zap.Error(err))
		response.Internal(c, "failed to update password")
		return
	}
	if err := h.repo.UpdatePassword(c.Request.Context(), userID, hash); err != nil {
		h.logger.Error("update password", zap.Error(err), zap.String("usuario_id", userID.String()))
		response.Internal(c, "failed to update password")
		return
	}
	if err := h.repo.DeactivateAllRefreshTokens(c.Request.Context(), userID); err != nil {
		h.logger.Error("invalidate sessions", zap.Error(err), zap.String("usuario_id", userID.String()))
	}
	if h.notifier != nil {
		h.notifier.SendPasswordChanged(user.Email, user.NombreMostrado)
	}

	response.OK(c, gin.H{"mensaje": "Password changed successfully"})
}

// ChangeEmail handles PATCH /api/auth/me/email.
func (h *Handler) ChangeEmail(c *gin.Context) {
	var req ChangeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "VALIDATION_ERROR", "password and newEmail are required")
		return
	}
	newEmail := strings.ToLower(strings.TrimSpace(req.NewEmail))
	if !emailPattern.MatchString(newEmail) {
		response.BadRequest(c, "INVALID_EMAIL", "Invalid email format")
		return
	}
	userID := middleware.ActingUser(c).ID

	user, err := h.repo.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.NotFound(c, "USER_NOT_FOUND", "User not found")
		return
	}
	if !utils.CheckPassword(req.Password, user.PasswordHash) {
		response.Unauthorized(c, "INVALID_PASSWORD", "Password is incorrect")
		return
	}

	if err := h.repo.UpdateEmail(c.Request.Context(), userID, newEmail); err != nil {
		if response.IsUniqueViolation(err) {
			response.Conflict(c, "EMAIL_EXISTS", "Email already in use")
			return
		}
		h.logger.Error("update email", zap.Error(err), zap.String("usuario_id", userID.String()))
		response.Internal(c, "failed to update email")
		return
	}
	response.OK(c, gin.H{"mensaje": "Email changed successfully"})
}

// GetProfile handles GET /api/auth/me/profile.
func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.repo.GetByID(c.Request.Context(), middleware.ActingUser(c).ID)
	if err != nil {
		response.NotFound(c, "USER_NOT_FOUND", "User not found")
		return
	}
	response.OK(c, gin.H{"user": user.ToPublic()})
}

// UpdateProfile handles PATCH /api/auth/me/profile.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req struct {
		NombreMostrado string `json:"nombre_mostrado"`
	}
	_ = c.ShouldBindJSON(&req)
	nombre := strings.TrimSpace(req.NombreMostrado)
	if len(nombre) < 2 || len(nombre) > 100 {
		response.BadRequest(c, "INVALID_NAME", "nombre_mostrado must be 2-100 characters")
		return
	}

	user, err := h.repo.UpdateNombreMostrado(c.Request.Context(), middleware.ActingUser(c).ID, nombre)
	if err != nil {
		if err == pgx.ErrNoRows {
			response.NotFound(c, "USER_NOT_FOUND", "User not found")
			return
		}
		h.logger.Error("update profile", zap.Error(err))
		response.Internal(c, "failed to update profile")
		return
	}
	response.OK(c, gin.H{"mensaje": "Profile updated successfully", "user": user.ToPublic()})
}

// GetNotifications handles GET /api/auth/me/notifications.
func (h *Handler) GetNotifications(c *gin.Context) {
	prefs, err := h.repo.GetNotificationPrefs(c.Request.Context(), middleware.ActingUser(c).ID)
	if err != nil {
		response.NotFound(c, "USER_NOT_FOUND", "User not found")
		return
	}
	response.OK(c, gin.H{"data": prefs})
}

// UpdateNotifications handles PATCH /api/auth/me/notifications.
func (h *Handler) UpdateNotifications(c *gin.Context) {
	var req struct {
		Email      string `json:"notificacion_email"`
		Webhook    string `json:"notificacion_webhook"`
		Habilitada *bool  `json:"notificacion_email_habilitada"`
	}
	_ = c.ShouldBindJSON(&req)

	email := strings.TrimSpace(req.Email)
	webhook := strings.TrimSpace(req.Webhook)
	if email != "" && !emailPattern.MatchString(email) {
		response.BadRequest(c, "INVALID_EMAIL", "Invalid notification email format")
		return
	}
	if webhook != "" && !strings.HasPrefix(strings.ToLower(webhook), "http://") && !strings.HasPrefix(strings.ToLower(webhook), "https://") {
		response.BadRequest(c, "INVALID_WEBHOOK", "Webhook must start with http:// or https://")
		return
	}
	habilitada := true
	if req.Habilitada != nil {
		habilitada = *req.Habilitada
	}

	prefs, err := h.repo.UpdateNotificationPrefs(c.Request.Context(), middleware.ActingUser(c).ID, email, webhook, habilitada)
	if err != nil {
		if err == pgx.ErrNoRows {
			response.NotFound(c, "USER_NOT_FOUND", "User not found")
			return
		}
		h.logger.Error("update notification prefs", zap.Error(err))
		response.Internal(c, "failed to update notification preferences")
		return
	}
	response.OK(c, gin.H{"mensaje": "Notification preferences updated", "data": prefs})
}
