package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Elicupra/Paroikiapp/config"
	"github.com/Elicupra/Paroikiapp/internal/asignaciones"
	"github.com/Elicupra/Paroikiapp/internal/auth"
	"github.com/Elicupra/Paroikiapp/internal/configuracion"
	"github.com/Elicupra/Paroikiapp/internal/documentos"
	"github.com/Elicupra/Paroikiapp/internal/eventos"
	"github.com/Elicupra/Paroikiapp/internal/ficha"
	"github.com/Elicupra/Paroikiapp/internal/jovenes"
	"github.com/Elicupra/Paroikiapp/internal/metrics"
	"github.com/Elicupra/Paroikiapp/internal/middleware"
	"github.com/Elicupra/Paroikiapp/internal/models"
	"github.com/Elicupra/Paroikiapp/internal/notificaciones"
	"github.com/Elicupra/Paroikiapp/internal/pagos"
	"github.com/Elicupra/Paroikiapp/internal/registro"
	"github.com/Elicupra/Paroikiapp/internal/retention"
	"github.com/Elicupra/Paroikiapp/internal/usuarios"
	"github.com/Elicupra/Paroikiapp/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := zapCfg.Build()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	metrics.Register()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), cfg.Database.Schema, logger)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}

	caps, err := asignaciones.Probe(ctx, pool)
	if err != nil {
		logger.Fatal("probe schema capabilities", zap.Error(err))
	}
	logger.Info("schema capabilities", zap.Bool("overlay_table", caps.OverlayTable))

	storage, err := documentos.NewStorage(cfg.Uploads.Path, cfg.Uploads.MaxSizeBytes)
	if err != nil {
		logger.Fatal("init upload storage", zap.Error(err))
	}

	mailer := notificaciones.NewMailer(cfg.Email, logger)
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireMinutes)

	authRepo := auth.NewRepository(pool)
	docRepo := documentos.NewRepository(pool)
	jovenRepo := jovenes.NewRepository(pool)
	pagoRepo := pagos.NewRepository(pool)
	eventoRepo := eventos.NewRepository(pool)
	usuarioRepo := usuarios.NewRepository(pool)
	configRepo := configuracion.NewRepository(pool)
	fichaRepo := ficha.NewRepository(pool)
	registroRepo := registro.NewRepository(pool)
	asigStore := asignaciones.NewStore(pool, caps)
	asigDir := asignaciones.NewDirectory(pool)

	authH := auth.NewHandler(authRepo, jwtSvc, cfg.JWT.RefreshExpireDays, mailer, logger)
	docH := documentos.NewHandler(docRepo, storage, logger)
	jovenH := jovenes.NewHandler(jovenRepo, docRepo, storage, logger)
	pagoH := pagos.NewHandler(pagoRepo, logger)
	eventoH := eventos.NewHandler(eventoRepo, jovenRepo, logger)
	usuarioH := usuarios.NewHandler(usuarioRepo, storage, logger)
	configH := configuracion.NewHandler(configRepo, logger)
	fichaH := ficha.NewHandler(fichaRepo, docRepo, storage, logger)
	registroH := registro.NewHandler(registroRepo, asigStore, caps, mailer, logger)
	asigH := asignaciones.NewHandler(asigStore, asigDir, caps, cfg.FrontendURL, logger)

	sweeper := retention.NewSweeper(retention.NewStore(pool), storage, logger)
	go sweeper.Run(ctx)

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	validate := middleware.TokenValidator(func(token string) (uuid.UUID, error) {
		claims, err := jwtSvc.Validate(token)
		if err != nil {
			return uuid.Nil, err
		}
		return claims.UserID, nil
	})
	authed := middleware.Auth(validate, authRepo)
	adminOnly := middleware.RequireRol(models.RolOrganizador)
	monitorOrSim := middleware.RequireMonitorOrSimulated(authRepo)

	loginLimiter := middleware.NewLoginLimiter(cfg.RateLimit.LoginMaxAttempts, cfg.RateLimit.LoginWindowMin)

	// Session.
	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/login", loginLimiter.Middleware(), authH.Login)
		authGroup.POST("/refresh", authH.Refresh)
		authGroup.POST("/logout", authH.Logout)

		me := authGroup.Group("/me", authed)
		{
			me.PATCH("/password", authH.ChangePassword)
			me.PATCH("/email", authH.ChangeEmail)
			me.GET("/profile", authH.GetProfile)
			me.PATCH("/profile", authH.UpdateProfile)
			me.GET("/notifications", authH.GetNotifications)
			me.PATCH("/notifications", authH.UpdateNotifications)
		}
	}

	// Token-gated, unauthenticated.
	router.GET("/register/:token", registroH.GetEventoInfo)
	router.POST("/register/:token/joven", registroH.RegisterJoven)
	// Alias kept for links issued right after registration; same token as the
	// ficha surface.
	router.GET("/register/acceso/:jovenToken", fichaH.Get)

	fichaGroup := router.Group("/ficha/:jovenToken")
	{
		fichaGroup.GET("", fichaH.Get)
		fichaGroup.PATCH("", fichaH.Update)
		fichaGroup.POST("/documento", fichaH.UploadDocumento)
		fichaGroup.DELETE("/documento/:docId", fichaH.DeleteDocumento)
	}

	// Public.
	router.GET("/api/public/eventos", eventoH.ListPublic)

	// Authenticated downloads.
	router.GET("/api/documentos/:docId", authed, docH.Download)

	// Monitor surface.
	monitor := router.Group("/api/monitor", authed, monitorOrSim)
	{
		monitor.GET("/registration-links", asigH.MyLinks)
		monitor.GET("/resumen", asigH.Resumen)
		monitor.GET("/jovenes", jovenH.List)
		monitor.GET("/jovenes/:jovenId", jovenH.Get)
		monitor.PATCH("/documentos/:docId/validar", docH.Validar)
		monitor.POST("/pagos", pagoH.Create)
		monitor.PATCH("/pagos/:pagoId", pagoH.Update)
	}

	// Admin surface.
	admin := router.Group("/api/admin", authed, adminOnly)
	{
		admin.GET("/dashboard", eventoH.Dashboard)
		admin.GET("/registration-links", asigH.ListLinks)

		admin.GET("/eventos", eventoH.List)
		admin.POST("/eventos", eventoH.Create)
		admin.GET("/eventos/:eventoId", eventoH.Get)
		admin.PATCH("/eventos/:eventoId", eventoH.Update)
		admin.DELETE("/eventos/:eventoId", eventoH.Delete)
		admin.PATCH("/eventos/:eventoId/descuento-global", eventoH.SetDescuentoGlobal)
		admin.GET("/eventos/:eventoId/jovenes", eventoH.ListJovenes)
		admin.GET("/eventos/:eventoId/recaudacion", eventoH.Recaudacion)

		admin.GET("/tipos-evento", eventoH.ListTipos)
		admin.POST("/tipos-evento", eventoH.CreateTipo)
		admin.PATCH("/tipos-evento/:tipoId", eventoH.UpdateTipo)
		admin.DELETE("/tipos-evento/:tipoId", eventoH.DeleteTipo)

		admin.GET("/configuracion", configH.Get)
		admin.PUT("/configuracion", configH.Put)

		admin.GET("/usuarios", usuarioH.List)
		admin.POST("/usuarios", usuarioH.Create)
		admin.GET("/usuarios/:usuarioId", usuarioH.Get)
		admin.PATCH("/usuarios/:usuarioId", usuarioH.Update)
		admin.DELETE("/usuarios/:usuarioId", usuarioH.Delete)
		admin.PATCH("/usuarios/:usuarioId/activo", usuarioH.ToggleActivo)
		admin.POST("/usuarios/:usuarioId/reset-password", usuarioH.ResetPassword)
		admin.GET("/usuarios/:usuarioId/eventos", usuarioH.ListEventos)
		admin.POST("/usuarios/:usuarioId/eventos/:eventoId/revocar-token", asigH.RevokeTokenByEvento)

		admin.POST("/monitores", asigH.Assign)
		admin.GET("/monitores/:monitorId", asigH.Get)
		admin.PATCH("/monitores/:monitorId", asigH.Update)
		admin.DELETE("/monitores/:monitorId", asigH.Remove)
		admin.POST("/monitores/:monitorId/eventos", asigH.AssignEvento)
		admin.POST("/monitores/:monitorId/revocar-token", asigH.RevokeToken)

		admin.GET("/jovenes", jovenH.ListAll)
		admin.POST("/jovenes", jovenH.Create)
		admin.PATCH("/jovenes/:jovenId", jovenH.Update)
		admin.DELETE("/jovenes/:jovenId", jovenH.Delete)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
