package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Nossos pacotes de infraestrutura e utilitários
	"fiapcloudgames/config"
	_ "fiapcloudgames/docs" // Documento OpenAPI servido em /swagger/
	"fiapcloudgames/internal/pkg/cache"
	"fiapcloudgames/internal/pkg/database"
	"fiapcloudgames/internal/pkg/logger"
	"fiapcloudgames/internal/pkg/token"

	// Camadas para Injeção de Dependências
	"fiapcloudgames/internal/api/game"
	"fiapcloudgames/internal/api/order"
	"fiapcloudgames/internal/api/promotion"
	"fiapcloudgames/internal/api/router"
	"fiapcloudgames/internal/api/user"
	"fiapcloudgames/internal/domain"
	"fiapcloudgames/internal/repository/gamerepo"
	"fiapcloudgames/internal/repository/orderrepo"
	"fiapcloudgames/internal/repository/promotionrepo"
	"fiapcloudgames/internal/repository/userrepo"
	"fiapcloudgames/internal/service/gameservice"
	"fiapcloudgames/internal/service/orderservice"
	"fiapcloudgames/internal/service/promotionservice"
	"fiapcloudgames/internal/service/userservice"
)

// @title FiapCloudGames API
// @version 1.0
// @description API de venda de jogos: usuários, catálogo, promoções e pedidos.
// @host localhost:8080
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 0. CARREGAR VARIÁVEIS DE AMBIENTE (.env)
	log.Println("⚡ Inicializando serviço FiapCloudGames...")
	config.LoadEnvFile()

	// 1. Configuração e Logger
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Configuração inválida: %v", err)
	}
	var appLog logger.Logger
	if cfg.IsDevelopment() {
		appLog = logger.NewConsoleLogger(cfg.LogLevel)
	} else {
		appLog = logger.NewLogger(cfg.LogLevel)
	}
	appLog.Info("Configurações carregadas.", map[string]interface{}{"env": cfg.Environment})

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL, cfg.DBTimeout)
	if err != nil {
		appLog.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	appLog.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis). Sem Redis, a API segue com cache em memória local.
	var cacheClient cache.Client
	redisClient, err := cache.NewRedisClient(cfg.RedisAddr, cfg.CacheTimeout)
	if err != nil {
		appLog.Warn("Redis indisponível. Usando cache em memória.", map[string]interface{}{"addr": cfg.RedisAddr, "error": err.Error()})
		if redisClient != nil {
			redisClient.Close()
		}
		cacheClient = cache.NewMemoryClient()
	} else {
		defer redisClient.Close()
		cacheClient = redisClient
		appLog.Info("Conexão Redis estabelecida.", nil)
	}

	// C. Serviço de Tokens (JWT)
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.JWTIssuer, cfg.TokenExpiry)

	// 3. INJEÇÃO DE DEPENDÊNCIAS
	// Ordem: Repository -> Service -> Handler

	// A. Repositórios
	userRepo := userrepo.NewUserRepository(db, cfg.DBTimeout, appLog)
	gameRepo := gamerepo.NewGameRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTTL, appLog)
	promoRepo := promotionrepo.NewPromotionRepository(db, cfg.DBTimeout, appLog)
	orderRepo := orderrepo.NewOrderRepository(db, cfg.DBTimeout, appLog)
	appLog.Debug("Repositórios inicializados.", nil)

	// B. Serviços
	userSvc := userservice.NewService(userRepo, tokenSvc, appLog)
	gameSvc := gameservice.NewService(gameRepo, appLog)
	promoSvc := promotionservice.NewService(promoRepo, appLog)
	orderSvc := orderservice.NewService(orderRepo, userRepo, gameRepo, promoRepo, appLog)
	appLog.Debug("Serviços inicializados.", nil)

	// C. Administrador inicial
	if cfg.HasAdminSeed() {
		seedCtx, cancel := context.WithTimeout(context.Background(), cfg.DBTimeout)
		err := userSvc.EnsureAdmin(seedCtx, domain.UserRegistration{Name: cfg.AdminName, Email: cfg.AdminEmail, Password: cfg.AdminPassword})
		cancel()
		if err != nil {
			appLog.Fatal("Falha ao criar o administrador inicial.", err)
		}
		appLog.Info("Administrador inicial verificado.", map[string]interface{}{"email": cfg.AdminEmail})
	}

	// D. Handlers
	handlers := router.Handlers{
		User:      user.NewHandler(userSvc, appLog),
		Game:      game.NewHandler(gameSvc, appLog),
		Promotion: promotion.NewHandler(promoSvc, appLog),
		Order:     order.NewHandler(orderSvc, appLog),
	}

	// 4. Configuração e Início do Roteador/Servidor
	r := router.NewRouter(handlers, tokenSvc, cacheClient, router.RateLimit{
		MaxRequests: cfg.RateLimitMaxRequests,
		Period:      cfg.RateLimitPeriod,
	}, appLog)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		appLog.Info("Servidor FiapCloudGames ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	appLog.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLog.Error("Desligamento do servidor forçado.", err)
	}

	appLog.Info("Servidor encerrado com sucesso.", nil)
}
