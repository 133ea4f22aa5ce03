package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/time/rate"

	"github.com/rafabene/entregas-backend/docs"
	"github.com/rafabene/entregas-backend/internal/domain/ports"
	"github.com/rafabene/entregas-backend/internal/handlers/dto"
	httphandlers "github.com/rafabene/entregas-backend/internal/handlers/http"
	"github.com/rafabene/entregas-backend/internal/handlers/middleware"
	"github.com/rafabene/entregas-backend/internal/infrastructure/auth/supabase"
	"github.com/rafabene/entregas-backend/internal/infrastructure/config"
	"github.com/rafabene/entregas-backend/internal/infrastructure/i18n"
	"github.com/rafabene/entregas-backend/internal/infrastructure/logging"
	"github.com/rafabene/entregas-backend/internal/infrastructure/persistence/postgres"
	"github.com/rafabene/entregas-backend/internal/infrastructure/realtime"
	"github.com/rafabene/entregas-backend/internal/services"
)

//	@title			Entregas API
//	@version		1.0
//	@description	Perfil resolvido, controle de acesso por papel e pedidos visíveis do painel de entregas.

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Access token do Supabase no formato "Bearer {token}"

func main() {
	// Carregar configurações
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Inicializar logger
	logger := logging.NewSlogLogger(cfg.Logging.Level)
	logger.Info("starting entregas backend",
		"env", cfg.Env,
		"version", docs.SwaggerInfo.Version,
	)

	// Conectar ao banco de dados
	db, err := postgres.NewDatabaseConnection(&cfg.Database, cfg.Env, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		log.Fatal(err)
	}

	// Inicializar i18n
	var i18nService *i18n.Service
	if cfg.I18n.LocalesDir != "" {
		i18nService, err = i18n.NewService(cfg.I18n.LocalesDir, cfg.I18n.DefaultLanguage)
	} else {
		i18nService, err = i18n.NewEmbeddedService(cfg.I18n.DefaultLanguage)
	}
	if err != nil {
		logger.Error("failed to initialize i18n", "error", err)
		log.Fatal(err)
	}
	logger.Info("i18n initialized",
		"default_language", i18nService.GetDefaultLanguage(),
		"supported_languages", i18nService.GetSupportedLanguages(),
	)

	// Inicializar repositories
	userRepo := postgres.NewUserRepository(db)
	lojaRepo := postgres.NewLojaUsuarioRepository(db)
	pedidoRepo := postgres.NewPedidoRepository(db)
	uow := postgres.NewUnitOfWork(db)

	// Inicializar services
	profileLoader := services.NewProfileLoader(userRepo, lojaRepo, logger)
	userService := services.NewUserService(userRepo, uow, logger)
	pedidoService := services.NewPedidoService(pedidoRepo, logger)

	verifier := supabase.NewTokenVerifier(cfg.Supabase.JWTSecret, cfg.Supabase.Audience, cfg.Supabase.Issuer())

	// Alterações de vínculos em tempo real (opcional)
	var feed ports.MembershipFeed
	if cfg.Realtime.Enabled {
		listener := realtime.NewMembershipListener(cfg.Database.URL(), cfg.Realtime.Channel, logger)
		if err := listener.Start(); err != nil {
			logger.Error("failed to start membership listener", "error", err)
			log.Fatal(err)
		}
		defer listener.Stop()
		feed = listener
	}

	// Inicializar handlers
	handlers := httphandlers.Handlers{
		Profile: httphandlers.NewProfileHandler(userService),
		Pedido:  httphandlers.NewPedidoHandler(pedidoService),
		User:    httphandlers.NewUserHandler(userService),
		Stream: httphandlers.NewStreamHandler(verifier, profileLoader, feed, httphandlers.StreamOptions{
			RedirectPath:   cfg.Guard.RedirectPath,
			RedirectDelay:  cfg.Guard.RedirectDelay,
			AllowedOrigins: splitOrigins(cfg.CORS.AllowedOrigins),
		}, logger),
	}

	// Setup Gin
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	dto.RegisterJSONTagNames()

	router := gin.Default()

	// Middleware global para adicionar base URL ao contexto
	router.Use(func(c *gin.Context) {
		c.Set("base_url", cfg.Server.BaseURL)
		c.Next()
	})

	// Middleware i18n
	i18nMiddleware := middleware.NewI18nMiddleware(i18nService)
	router.Use(i18nMiddleware.DetectLanguage())

	// Middleware CORS
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Rate limit por IP
	limiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst, 10*time.Minute)
	router.Use(limiter.Middleware())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"env":    cfg.Env,
		})
	})

	// Documentação
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	httphandlers.RegisterRoutes(router.Group("/api/v1"), handlers, httphandlers.RouteOptions{
		Verifier:      verifier,
		Loader:        profileLoader,
		RedirectPath:  cfg.Guard.RedirectPath,
		RedirectDelay: cfg.Guard.RedirectDelay,
		Logger:        logger,
	})

	// HTTP Server
	srv := &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Info("server starting",
			"host", cfg.Server.Host,
			"port", cfg.Server.Port,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			log.Fatal(err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

func splitOrigins(origins string) []string {
	var out []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
