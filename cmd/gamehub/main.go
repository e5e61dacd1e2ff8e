package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gamehub/internal/api/handlers"
	"gamehub/internal/auth"
	"gamehub/internal/config"
	"gamehub/internal/infrastructure/leader"
	"gamehub/internal/infrastructure/mysql"
	"gamehub/internal/infrastructure/redis"
	"gamehub/internal/infrastructure/websocket"
	"gamehub/internal/services"
	"gamehub/pkg/logger"
	"gamehub/pkg/utils"

	redisClient "github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	log := logger.New()
	log.Info("Starting GameHub Service")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize Redis
	rdb := redisClient.NewClient(&redisClient.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("Connected to Redis", "address", cfg.Redis.Address)

	// Initialize MySQL
	db := utils.InitializeMysql(cfg, log, ctx)
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close MySQL connection", "error", err)
		}
	}()
	log.Info("Connected to MySQL")

	// Initialize repositories
	userRepo := mysql.NewMySQLUserRepository(db)
	friendRepo := mysql.NewMySQLFriendRepository(db)
	notificationRepo := mysql.NewMySQLNotificationRepository(db)
	matchRepo := mysql.NewMySQLMatchRepository(db)
	statsRepo := mysql.NewMySQLStatsRepository(db)

	// Initialize Redis based components
	ticketStore := redis.NewRedisTicketStore(rdb)
	eventPublisher := redis.NewEventPublisher(rdb)
	eventSubscriber := redis.NewRedisEventSubscriber(rdb, log)
	rateLimiter := redis.NewRateLimiter(rdb, 100, time.Minute)

	// Initialize leader election
	leaderElection := leader.NewRedisLeaderElection(rdb, cfg.Leader.TTL)

	// Tokens and connection registry
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL, cfg.Auth.TicketTTL)
	connectionManager := websocket.NewConnectionManager(log)

	// Events travel through Redis so delivery works with several instances
	// behind the load balancer; each instance's subscriber feeds the
	// connections it holds.
	notifier := redis.NewRelayNotifier(eventPublisher, log)

	// Initialize services
	userService := services.NewUserService(userRepo, tokens, log)
	friendService := services.NewFriendService(friendRepo, userRepo, notificationRepo, notifier, log)
	notificationService := services.NewNotificationService(notificationRepo, log)
	matchService := services.NewMatchService(matchRepo, friendRepo, userRepo, statsRepo, notificationRepo, notifier, log)

	sweeper := services.NewSweeper(
		matchRepo,
		notificationRepo,
		leaderElection,
		cfg.Instance.ID,
		cfg.Sweeper.WaitingMatchMaxAge,
		cfg.Sweeper.NotificationRetention,
		log,
	)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: `{"time":"${time_rfc3339}","id":"${id}","remote_ip":"${remote_ip}","host":"${host}","method":"${method}","uri":"${uri}","user_agent":"${user_agent}","status":${status},"error":"${error}","latency":${latency},"latency_human":"${latency_human}","bytes_in":${bytes_in},"bytes_out":${bytes_out}}` + "\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			echo.GET, echo.HEAD, echo.PUT, echo.PATCH,
			echo.POST, echo.DELETE, echo.OPTIONS,
		},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			echo.HeaderXRequestedWith,
		},
		AllowCredentials: true,
		MaxAge:           86400,
	}))
	e.Use(handlers.RateLimit(rateLimiter, log))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, log)
	userHandler := handlers.NewUserHandler(userService, log)
	friendHandler := handlers.NewFriendHandler(friendService, log)
	notificationHandler := handlers.NewNotificationHandler(notificationService, log)
	matchHandler := handlers.NewMatchHandler(matchService, log)
	ticketHandler := handlers.NewTicketHandler(tokens, ticketStore, log)
	wsHandler := websocket.NewWebSocketHandler(tokens, ticketStore, connectionManager, log)

	// API routes
	api := e.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("", handlers.SessionAuth(tokens))
	authed.GET("/users/me", userHandler.Me)
	authed.PATCH("/users/me", userHandler.UpdateMe)

	authed.GET("/friends", friendHandler.List)
	authed.DELETE("/friends/:id", friendHandler.Remove)
	authed.GET("/friends/invites", friendHandler.ListInvites)
	authed.POST("/friends/invites", friendHandler.SendInvite)
	authed.POST("/friends/invites/:id/accept", friendHandler.AcceptInvite)
	authed.POST("/friends/invites/:id/reject", friendHandler.RejectInvite)

	authed.GET("/notifications", notificationHandler.List)
	authed.PATCH("/notifications/:id/read", notificationHandler.MarkRead)

	authed.POST("/matches", matchHandler.Create)
	authed.GET("/matches", matchHandler.List)
	authed.GET("/matches/:id", matchHandler.Get)
	authed.POST("/matches/:id/join", matchHandler.Join)
	authed.POST("/matches/:id/moves", matchHandler.PlayMove)
	authed.POST("/matches/:id/forfeit", matchHandler.Forfeit)

	authed.GET("/stats/leaderboard", matchHandler.Leaderboard)

	authed.POST("/ws/ticket", ticketHandler.Issue)

	// The upgrade itself authenticates with the single-use ticket.
	e.GET("/ws", wsHandler.HandleConnection)

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"service":   "gamehub",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   "1.0.0",
		})
	})

	// Start background services
	subscriberCtx, stopSubscriber := context.WithCancel(context.Background())
	go func() {
		err := eventSubscriber.SubscribeToUserEvents(subscriberCtx, func(userID string, payload []byte) error {
			connectionManager.NotifyRaw(userID, payload)
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Event subscriber stopped unexpectedly", "error", err)
		}
	}()

	go func() {
		if err := sweeper.Start(context.Background()); err != nil {
			log.Error("Failed to start sweeper", "error", err)
		}
	}()

	// Try to become leader
	go func() {
		for {
			became, err := leaderElection.BecomeLeader(context.Background(), cfg.Instance.ID)
			if err != nil {
				log.Error("Failed to attempt leadership", "error", err)
				time.Sleep(5 * time.Second)
				continue
			}
			if became {
				log.Info("Became sweeper leader", "instance_id", cfg.Instance.ID)
			}
			time.Sleep(10 * time.Second)
		}
	}()

	// Start server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("Starting gamehub server", "address", serverAddr)

	go func() {
		if err := e.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gamehub service...")

	// Graceful shutdown
	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stopSubscriber()

	if err := sweeper.Stop(); err != nil {
		log.Error("Failed to stop sweeper", "error", err)
	}
	if err := leaderElection.ReleaseLeadership(ctx, cfg.Instance.ID); err != nil {
		log.Error("Failed to release leadership", "error", err)
	}

	connectionManager.CloseAll()

	if err := e.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("GameHub service stopped")
}
