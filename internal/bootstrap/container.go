package bootstrap

import (
	"context"
	"log"

	"virtualboard-be/internal/config"
	"virtualboard-be/internal/controller"
	"virtualboard-be/internal/handler"
	"virtualboard-be/internal/pkg/logger"
	"virtualboard-be/internal/pkg/mailer"
	"virtualboard-be/internal/pkg/serverutils"
	"virtualboard-be/internal/repository/implementation"
	"virtualboard-be/internal/repository/unitofwork"
	"virtualboard-be/internal/service"
	"virtualboard-be/internal/websocket"
	"virtualboard-be/pkg/board/memory"
	"virtualboard-be/pkg/board/moderator"
	"virtualboard-be/pkg/embedding"
	"virtualboard-be/pkg/llm/factory"
	"virtualboard-be/pkg/rag/retrieval"

	pkgNats "virtualboard-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const meetingCompletedTopic = "meeting.completed"

type Container struct {
	// Controllers
	ProjectController  controller.IProjectController
	DocumentController controller.IDocumentController
	MeetingController  controller.IMeetingController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	BoardHandler *handler.BoardHandler
	WebSocketHub *websocket.Hub
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
		cfg.SMTP.Email,
		cfg.App.ClientURL,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else if cfg.Ai.EmbeddingProvider == "gemini" {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GoogleGeminiKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	} else {
		embeddingProvider = embedding.NewOpenRouterProvider(cfg.Ai.OpenRouterAPIKey, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: OPENROUTER (%s)", cfg.Ai.EmbeddingModel)
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OpenRouterAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pkgNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

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

	rateLimiter := serverutils.NewRateLimiter(rdb)

	// WebSocket Hub
	wsLogger := logger.NewZapLogger("logs/board_events.log", cfg.App.Environment == "production")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 5. Board Engine
	// Non-transactional repos back the retrieval path; searches never write.
	embeddingRepo := implementation.NewDocumentEmbeddingRepository(db)
	memoryRepo := implementation.NewMeetingMemoryRepository(db)
	contextBuilder := retrieval.NewContextBuilder(embeddingProvider, embeddingRepo, memoryRepo)

	synthesizer := moderator.NewSynthesizer(llmProvider)
	memoryStore := service.NewMemoryStore(uowFactory)
	memoryWriter := memory.NewWriter(llmProvider, embeddingProvider, memoryStore)

	// 6. Services
	publisherService := service.NewPublisherService(pubSub, meetingCompletedTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		meetingCompletedTopic,
		uowFactory,
		emailService,
	)

	projectService := service.NewProjectService(uowFactory, sysLogger)
	documentService := service.NewDocumentService(uowFactory, embeddingProvider, natsPub, sysLogger)
	meetingService := service.NewMeetingService(
		uowFactory,
		contextBuilder,
		llmProvider,
		synthesizer,
		memoryWriter,
		natsPub,
		publisherService,
		sysLogger,
	)

	notifService := service.NewNotificationService(natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go notifService.Start()
	}

	boardHandler := handler.NewBoardHandler(wsHub, wsLogger)

	// 7. Controllers
	return &Container{
		BoardHandler: boardHandler,
		WebSocketHub: wsHub,

		ProjectController:  controller.NewProjectController(projectService),
		DocumentController: controller.NewDocumentController(documentService, rateLimiter),
		MeetingController:  controller.NewMeetingController(meetingService, rateLimiter, sysLogger),

		ConsumerService: consumerService,
	}
}
