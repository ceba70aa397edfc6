package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cleberrangel/horario-zen-api/internal/cache"
	"github.com/cleberrangel/horario-zen-api/internal/config"
	"github.com/cleberrangel/horario-zen-api/internal/database"
	"github.com/cleberrangel/horario-zen-api/internal/handler"
	"github.com/cleberrangel/horario-zen-api/internal/logger"
	"github.com/cleberrangel/horario-zen-api/internal/metrics"
	"github.com/cleberrangel/horario-zen-api/internal/middleware"
	"github.com/cleberrangel/horario-zen-api/internal/migration"
	"github.com/cleberrangel/horario-zen-api/internal/service"
	"github.com/cleberrangel/horario-zen-api/internal/session"
	"github.com/cleberrangel/horario-zen-api/internal/store"
	"github.com/cleberrangel/horario-zen-api/internal/websocket"
	"github.com/gin-gonic/gin"
)

const Version = "1.0.0"

func main() {
	// Carrega configurações
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Erro ao carregar configurações: %v", err)
	}

	// Inicializa logger estruturado
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	log := logger.Global()
	log.Info().
		Str("version", Version).
		Str("port", cfg.Port).
		Str("log_level", cfg.LogLevel).
		Str("store_backend", cfg.StoreBackend).
		Msg("Horario Zen API iniciando")

	// Inicializa métricas
	metrics.Init()

	// Seleciona o backend de persistência
	st, err := buildStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Erro ao inicializar persistência")
	}
	defer st.Close()

	// Carrega o estado da sessão e semeia o primeiro uso
	sess := session.New(st, nil)
	sess.Load()
	if created, err := sess.InitDefaults(); err != nil {
		log.Error().Err(err).Msg("Erro ao criar tarefas iniciais")
	} else if len(created) > 0 {
		log.Info().Int("tasks", len(created)).Msg("Tarefas iniciais criadas")
	}

	// Motores de rollover e inteligência diária
	rolloverEngine := service.NewRolloverEngine(sess)
	intelligenceEngine := service.NewIntelligenceEngine(sess, nil)

	ctx := context.Background()
	if _, err := rolloverEngine.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Erro na passada inicial de rollover")
	}
	if _, err := intelligenceEngine.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Erro na passada inicial de inteligência")
	}
	if _, err := sess.MarkNeededItems(); err != nil {
		log.Error().Err(err).Msg("Erro ao avaliar alertas de compras")
	}

	// Hub WebSocket para os banners
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Agendador de notificações: banner via WebSocket, sistema via webhook
	banner := service.NewBannerNotifier(wsHub)
	var system service.Notifier
	webhook := service.NewWebhookNotifier(cfg.NotifWebhookURL)
	if webhook.Enabled() {
		system = webhook
	}
	scheduler := service.NewNotificationScheduler(
		sess, banner, system,
		time.Duration(cfg.NotifTickSeconds)*time.Second, nil,
	)
	scheduler.Start()
	defer scheduler.Stop()

	// Serviços e handlers
	scannerService := service.NewScannerService(sess)
	reportGenerator := service.NewReportGenerator()
	reportCache := cache.NewCache(time.Hour)
	defer reportCache.Stop()

	healthHandler := handler.NewHealthHandler(st, wsHub, Version)
	taskHandler := handler.NewTaskHandler(sess, rolloverEngine, intelligenceEngine)
	settingsHandler := handler.NewSettingsHandler(sess)
	inventoryHandler := handler.NewInventoryHandler(sess)
	shoppingHandler := handler.NewShoppingHandler(sess)
	scanHandler := handler.NewScanHandler(scannerService)
	reportHandler := handler.NewReportHandler(sess, reportGenerator, reportCache)

	// Configura modo do Gin
	gin.SetMode(cfg.GinMode)

	// Inicializa router
	r := gin.New()
	r.Use(middleware.RequestID()) // Request ID + logging estruturado
	r.Use(middleware.MetricsMiddleware())
	r.Use(gin.Recovery())

	// Health checks e métricas (públicos)
	r.GET("/health", healthHandler.DetailedHealthCheck)
	r.GET("/health/live", healthHandler.LivenessCheck)
	r.GET("/health/ready", healthHandler.ReadinessCheck)
	r.GET("/metrics", healthHandler.GetMetrics)
	r.GET("/metrics/summary", healthHandler.GetMetricsSummary)
	r.GET("/metrics/endpoints", healthHandler.GetEndpointMetrics)

	// Canal de banners (público, mesma origem na rede local)
	r.GET("/ws", wsHub.ServeWS)

	// Grupo de rotas protegidas
	api := r.Group("/api/v1")
	api.Use(middleware.BearerAuth(middleware.AuthConfig{
		TokenAPI:     cfg.TokenAPI,
		TokenAPIHash: cfg.TokenAPIHash,
	}))
	{
		api.GET("/tasks", taskHandler.ListTasks)
		api.POST("/tasks", taskHandler.CreateTask)
		api.POST("/tasks/:id/toggle", taskHandler.ToggleTask)
		api.DELETE("/tasks/:id", taskHandler.DeleteTask)
		api.POST("/rollover/run", taskHandler.RunRollover)
		api.POST("/intelligence/run", taskHandler.RunIntelligence)

		api.GET("/settings", settingsHandler.GetSettings)
		api.PUT("/settings", settingsHandler.UpdateSettings)
		api.POST("/market/register", settingsHandler.RegisterMarket)

		api.GET("/inventory", inventoryHandler.ListInventory)
		api.POST("/inventory", inventoryHandler.Restock)
		api.POST("/inventory/:id/consume", inventoryHandler.Consume)

		api.GET("/shopping", shoppingHandler.ListShopping)
		api.POST("/shopping", shoppingHandler.AddItem)
		api.DELETE("/shopping/:id", shoppingHandler.DeleteItem)
		api.POST("/shopping/:id/purchase", shoppingHandler.PurchaseItem)
		api.GET("/shopping/alerts", shoppingHandler.Alerts)

		api.POST("/scan", scanHandler.Ingest)

		api.GET("/reports/weekly", reportHandler.WeeklyReport)
	}

	// Encerramento limpo no SIGINT/SIGTERM
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("Sinal recebido, encerrando")
		scheduler.Stop()
		st.Close()
		os.Exit(0)
	}()

	// Inicia servidor
	log.Info().Str("port", cfg.Port).Msg("Servidor iniciando")

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Erro ao iniciar servidor")
	}
}

// buildStore escolhe o backend de persistência conforme a configuração
func buildStore(cfg *config.Config) (store.Store, error) {
	if cfg.StoreBackend == config.StorePostgres {
		db, err := database.Connect(database.Config{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			DBName:   cfg.DBName,
			SSLMode:  cfg.DBSSLMode,
		})
		if err != nil {
			return nil, err
		}
		if err := migration.NewMigrator(db).Run(); err != nil {
			db.Close()
			return nil, err
		}
		return store.NewPostgresStore(db), nil
	}

	return store.NewFileStore(cfg.DataDir)
}
