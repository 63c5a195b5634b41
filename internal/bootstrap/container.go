package bootstrap

import (
	"log"
	"time"

	"pulse-chat-be/internal/config"
	"pulse-chat-be/internal/controller"
	"pulse-chat-be/internal/engagement"
	"pulse-chat-be/internal/handler"
	"pulse-chat-be/internal/pkg/logger"
	"pulse-chat-be/internal/realtime"
	"pulse-chat-be/internal/repository/implementation"
	"pulse-chat-be/internal/repository/memory"
	"pulse-chat-be/internal/service"
	"pulse-chat-be/pkg/scorer"

	pktNats "pulse-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController controller.IAuthController
	RoomController controller.IRoomController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	RealtimeHandler *handler.RealtimeHandler
	Hub             *realtime.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	wsLogger := logger.NewIsolatedLogger(cfg.App.WsLogFilePath)

	// 2. Repositories
	userRepo := implementation.NewUserRepository(db)
	messageRepo := implementation.NewChatMessageRepository(db)
	reportRepo := implementation.NewEngagementReportRepository(db)
	identityCache := memory.NewIdentityCache()

	// 3. Event Bus (in-process; carries completed scoring cycles)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 4. Redis (optional cross-instance fanout)
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Invalid REDIS_URL, running single-instance: %v", err)
		} else {
			rdb = redis.NewClient(opts)
		}
	}

	// 5. Engagement core
	buffers := engagement.NewBufferManager()
	hub := realtime.NewHub(rdb, buffers, wsLogger)

	scorerClient := scorer.NewHTTPScorer(
		cfg.Scorer.BaseURL,
		time.Duration(cfg.Scorer.TimeoutSeconds)*time.Second,
	)
	pipeline := engagement.NewPipeline(
		buffers,
		scorerClient,
		pubSub,
		time.Duration(cfg.Scorer.TimeoutSeconds)*time.Second,
		sysLogger,
	)

	// 6. Services
	authService := service.NewAuthService(userRepo, identityCache)
	chatService := service.NewChatService(messageRepo)
	engagementService := service.NewEngagementService(reportRepo)

	// NATS (optional downstream analytics)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	consumerService := service.NewConsumerService(pubSub, reportRepo, hub, natsPub, sysLogger)

	// 7. Realtime wiring
	eventRouter := realtime.NewEventRouter(hub, authService, chatService, buffers, pipeline, wsLogger)
	realtimeHandler := handler.NewRealtimeHandler(hub, eventRouter, wsLogger)

	// 8. Controllers
	authController := controller.NewAuthController(authService)
	roomController := controller.NewRoomController(chatService, engagementService)

	return &Container{
		AuthController:  authController,
		RoomController:  roomController,
		ConsumerService: consumerService,
		RealtimeHandler: realtimeHandler,
		Hub:             hub,
	}
}
