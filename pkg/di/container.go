package di

import (
	"chat-intake-bot/backend/internal/api"
	"chat-intake-bot/backend/internal/archive"
	"chat-intake-bot/backend/internal/chat"
	"chat-intake-bot/backend/internal/intent"
	"chat-intake-bot/backend/internal/llm"
	"chat-intake-bot/backend/internal/observability"
	"chat-intake-bot/backend/internal/responder"
	"chat-intake-bot/backend/internal/session"
	"chat-intake-bot/backend/pkg/cache"
	"chat-intake-bot/backend/pkg/config"
	"chat-intake-bot/backend/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Container holds all the dependencies for the application. Every client
// handle is constructed explicitly here; lifecycle is owned by the process
// entry point.
type Container struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Logger *logger.Logger
	Config *config.Config

	SessionStore *session.RedisStore
	LLMClient    *llm.Client
	Catalog      *intent.Catalog
	Classifier   *intent.Classifier
	Responder    *responder.Responder
	ArchiveRepo  *archive.Repository
	Archiver     *archive.Archiver
	Metrics      *observability.Metrics
	ChatService  *chat.Service
	ChatHandler  *api.ChatHandler
}

// New wires the dependency graph bottom-up
func New(db *gorm.DB, rdb *redis.Client, cfg *config.Config, log *logger.Logger) (*Container, error) {
	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)

	sessionStore := session.NewRedisStore(rdb, cfg.Redis.SessionTTL, log)

	llmClient := llm.NewClient(llm.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		CallTimeout: cfg.LLM.CallTimeout,
	})

	archiveRepo := archive.NewRepository(db)
	catalogCache := cache.New(cfg.Cache.TTL, cfg.Cache.PurgeWindow, cfg.Cache.MaxSize)
	catalog := intent.NewCatalog(archiveRepo, catalogCache)

	classifier := intent.NewClassifier(llmClient, catalog, log)
	replyGen := responder.New(llmClient, log)
	archiver := archive.NewArchiver(archiveRepo, log)

	chatService := chat.NewService(
		sessionStore,
		classifier,
		catalog,
		replyGen,
		archiver,
		metrics,
		log,
		chat.ServiceConfig{MaxMessageLength: cfg.Limits.MaxMessageLength},
	)

	chatHandler := api.NewChatHandler(chatService, log)

	return &Container{
		DB:           db,
		Redis:        rdb,
		Logger:       log,
		Config:       cfg,
		SessionStore: sessionStore,
		LLMClient:    llmClient,
		Catalog:      catalog,
		Classifier:   classifier,
		Responder:    replyGen,
		ArchiveRepo:  archiveRepo,
		Archiver:     archiver,
		Metrics:      metrics,
		ChatService:  chatService,
		ChatHandler:  chatHandler,
	}, nil
}

// Close flushes the archiver and releases client connections
func (c *Container) Close() error {
	c.Archiver.Close()
	return c.Redis.Close()
}
