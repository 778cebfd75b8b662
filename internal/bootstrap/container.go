package bootstrap

import (
	"context"
	"fmt"

	"chatshare-be/internal/config"
	"chatshare-be/internal/controller"
	"chatshare-be/internal/handler"
	"chatshare-be/internal/pkg/logger"
	"chatshare-be/internal/pkg/mailer"
	"chatshare-be/internal/repository/contract"
	"chatshare-be/internal/repository/memory"
	"chatshare-be/internal/repository/redisstore"
	"chatshare-be/internal/repository/unitofwork"
	"chatshare-be/internal/service"
	"chatshare-be/internal/websocket"
	"chatshare-be/pkg/filestore"
	"chatshare-be/pkg/llm/factory"
	pktNats "chatshare-be/pkg/nats"
	"chatshare-be/pkg/speech"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController          controller.IAuthController
	UserController          controller.IUserController
	ChatController          controller.IChatController
	CollaborationController controller.ICollaborationController
	SpeechController        controller.ISpeechController
	PaymentController       controller.IPaymentController

	// Background services, started by main.go
	ConsumerService service.INotificationConsumer

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

// Close releases the external connections opened by NewContainer.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}

func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	c := &Container{Logger: sysLogger}

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	// NATS is optional. The interface stays nil unless a connection exists.
	var forwarder service.EventForwarder
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to NATS publisher", map[string]interface{}{"error": err.Error()})
		} else {
			forwarder = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	rdb, err := connectRedis(cfg.App.RedisURL)
	if err != nil {
		if cfg.Guest.Backend == "redis" {
			return nil, fmt.Errorf("guest limiter backend redis: %w", err)
		}
		sysLogger.Warn("BOOTSTRAP", "Redis unavailable, websocket fan-out stays local", map[string]interface{}{"error": err.Error()})
	} else {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	wsLogger := logger.NewIsolatedLogger(cfg.App.NotificationLog)
	wsHub := websocket.NewHub(rdb, wsLogger)

	var guestStore contract.GuestCounterStore
	switch cfg.Guest.Backend {
	case "redis":
		guestStore = redisstore.NewGuestCounterStore(rdb, cfg.Guest.CounterTTL)
	case "memory":
		guestStore = memory.NewGuestCounterStore(cfg.Guest.CounterTTL)
	default:
		// Writes outside a transaction, one atomic upsert per counter.
		guestStore = uowFactory.NewUnitOfWork(context.Background()).GuestCounterRepository()
	}

	llmProvider, err := factory.NewLLMProvider(factory.Config{
		Provider:    cfg.Ai.LLMProvider,
		Model:       cfg.Ai.LLMModel,
		BaseURL:     llmBaseURL(cfg),
		APIKey:      cfg.Keys.OpenAI,
		Timeout:     cfg.Ai.RequestTimeout,
		MaxRetries:  cfg.Ai.MaxRetries,
		BackoffBase: cfg.Ai.RetryBackoff,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	sysLogger.Info("BOOTSTRAP", "LLM provider ready", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})

	fileStore, err := filestore.New(context.Background(), filestore.Config{
		Backend:       cfg.Storage.Backend,
		LocalDir:      cfg.Storage.LocalDir,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
		GCSBucket:     cfg.Storage.GCSBucket,
		GCSCredential: cfg.Storage.GCSCredential,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file store: %w", err)
	}
	synthesizer := speech.NewOpenAISynthesizer(cfg.Keys.OpenAI, cfg.Ai.SpeechBaseURL, cfg.Ai.SpeechModel, cfg.Ai.RequestTimeout)

	var emailService mailer.IEmailService
	if cfg.SMTP.Host != "" {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.SenderName,
			cfg.App.ClientURL,
		)
	}

	policy, err := service.ParseDeletedChatPolicy(cfg.Collaboration.DeletedChatPolicy)
	if err != nil {
		return nil, err
	}

	// 4. Services
	publisherService := service.NewPublisherService(pubSub, cfg.App.EventsTopic, sysLogger)
	accessEvaluator := service.NewAccessEvaluator()
	guestLimiter := service.NewGuestLimiter(guestStore, cfg.Guest.Limit, sysLogger)
	titleSummarizer := service.NewTitleSummarizer(llmProvider, cfg.Ai.TitleModel, sysLogger)

	chatService := service.NewChatService(
		uowFactory,
		llmProvider,
		accessEvaluator,
		guestLimiter,
		titleSummarizer,
		publisherService,
		policy,
		sysLogger,
	)
	collaborationService := service.NewCollaborationService(
		uowFactory,
		accessEvaluator,
		publisherService,
		service.CollaborationPolicy{
			CollaboratorsMayInvite: cfg.Collaboration.CollaboratorsMayInvite,
			DeletedChats:           policy,
		},
		sysLogger,
	)
	authService := service.NewAuthService(uowFactory)
	userService := service.NewUserService(uowFactory)
	speechService := service.NewSpeechService(uowFactory, synthesizer, fileStore, cfg.Ai.FreeAudioMinutes, sysLogger)
	paymentService := service.NewPaymentService(
		uowFactory,
		service.NewSnapClient(cfg.Payment.MidtransServerKey, cfg.Payment.MidtransIsProduction),
		service.PaymentSettings{
			ServerKey:    cfg.Payment.MidtransServerKey,
			PremiumPrice: cfg.Payment.PremiumPrice,
			PremiumDays:  cfg.Payment.PremiumDays,
			ClientURL:    cfg.App.ClientURL,
		},
		sysLogger,
	)

	c.ConsumerService = service.NewNotificationConsumer(
		pubSub,
		cfg.App.EventsTopic,
		wsHub,
		emailService,
		forwarder,
		wsLogger,
	)

	// 5. Controllers
	c.NotificationHandler = handler.NewNotificationHandler(wsHub, wsLogger)
	c.WebSocketHub = wsHub
	c.AuthController = controller.NewAuthController(authService)
	c.UserController = controller.NewUserController(userService)
	c.ChatController = controller.NewChatController(chatService)
	c.CollaborationController = controller.NewCollaborationController(collaborationService)
	c.SpeechController = controller.NewSpeechController(speechService)
	c.PaymentController = controller.NewPaymentController(paymentService)

	return c, nil
}

func connectRedis(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func llmBaseURL(cfg *config.Config) string {
	if cfg.Ai.LLMProvider == "ollama" {
		return cfg.Ai.OllamaBaseURL
	}
	return cfg.Ai.LLMBaseURL
}
