package bootstrap

import (
	"context"
	"log"

	"mindmate-be/internal/config"
	"mindmate-be/internal/controller"
	"mindmate-be/internal/handler"
	"mindmate-be/internal/pkg/logger"
	"mindmate-be/internal/pkg/mailer"
	"mindmate-be/internal/pkg/serverutils"
	"mindmate-be/internal/repository/implementation"
	"mindmate-be/internal/repository/memory"
	"mindmate-be/internal/repository/unitofwork"
	"mindmate-be/internal/service"
	"mindmate-be/internal/websocket"
	"mindmate-be/pkg/embedding"
	"mindmate-be/pkg/embedding/jina"
	"mindmate-be/pkg/llm/factory"

	pktNats "mindmate-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController      controller.IAuthController
	UserController      controller.IUserController
	OAuthController     controller.IOAuthController
	MoodController      controller.IMoodController
	JournalController   controller.IJournalController
	CompanionController controller.ICompanionController
	PaymentController   controller.IPaymentController
	AdminController     controller.IAdminController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Embedding provider per config
	var embeddingProvider embedding.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	case "jina":
		embeddingProvider = jina.NewJinaProvider(cfg.Keys.Jina)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	default:
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// LLM provider per config
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// In-memory transcript cache for active companion sessions
	transcriptCache := memory.NewTranscriptCache()

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Services
	publisherService := service.NewPublisherService(cfg.Keys.EmbedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedTopic,
		uowFactory,
		embeddingProvider,
	)

	authService := service.NewAuthService(uowFactory, emailService, natsPub)
	userService := service.NewUserService(uowFactory, sysLogger)
	oauthService := service.NewOAuthService(uowFactory)

	moodService := service.NewMoodService(uowFactory, sysLogger)
	journalService := service.NewJournalService(
		uowFactory,
		publisherService,
		embeddingProvider,
		sysLogger,
	)

	companionService := service.NewCompanionService(
		uowFactory,
		llmProvider,
		transcriptCache,
		natsPub,
		sysLogger,
	)
	companionLimiter := serverutils.NewRateLimiter(cfg.Companion.RatePerSecond, cfg.Companion.RateBurst)

	paymentService := service.NewPaymentService(uowFactory, natsPub, sysLogger)
	adminService := service.NewAdminService(uowFactory, sysLogger, natsPub)

	// 3.5 Notification System
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, natsSub, wsHub, wsLogger)

	if natsSub != nil {
		go notifService.Start()
	}

	notifHandler := handler.NewNotificationHandler(notifService, natsPub, wsHub, wsLogger)

	// 4. Controllers
	return &Container{
		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
		AuthController:      controller.NewAuthController(authService),
		UserController:      controller.NewUserController(userService),
		OAuthController:     controller.NewOAuthController(oauthService),
		MoodController:      controller.NewMoodController(moodService),
		JournalController:   controller.NewJournalController(journalService),
		CompanionController: controller.NewCompanionController(companionService, companionLimiter),
		PaymentController:   controller.NewPaymentController(paymentService),
		AdminController:     controller.NewAdminController(adminService, authService),

		ConsumerService: consumerService,
	}
}
