package container

import (
	"context"
	"fmt"
	"log/slog"

	dialogflow "cloud.google.com/go/dialogflow/apiv2"
	"cloud.google.com/go/translate"
	gvision "cloud.google.com/go/vision/v2/apiv1"
	"github.com/gorilla/sessions"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/travelica/travelica-backend/config"
	"github.com/travelica/travelica-backend/internal/api/chat"
	"github.com/travelica/travelica-backend/internal/api/intent"
	"github.com/travelica/travelica-backend/internal/api/tour"
	"github.com/travelica/travelica-backend/internal/api/translation"
	"github.com/travelica/travelica-backend/internal/api/vision"
)

// Container holds all application dependencies.
type Container struct {
	Config      *config.Config
	Logger      *slog.Logger
	Pool        *pgxpool.Pool
	ChatHandler *chat.HandlerImpl
	TourHandler *tour.HandlerImpl

	translateClient  *translate.Client
	visionClient     *gvision.ImageAnnotatorClient
	dialogflowClient *dialogflow.SessionsClient
}

// NewContainer constructs the Google clients, gateways, services and
// handlers. Clients are built once here and injected; nothing reaches for
// ambient globals.
func NewContainer(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) (*Container, error) {
	translateClient, err := translate.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating translate client: %w", err)
	}

	visionClient, err := gvision.NewImageAnnotatorClient(ctx)
	if err != nil {
		translateClient.Close()
		return nil, fmt.Errorf("creating vision client: %w", err)
	}

	dialogflowClient, err := dialogflow.NewSessionsClient(ctx)
	if err != nil {
		translateClient.Close()
		visionClient.Close()
		return nil, fmt.Errorf("creating dialogflow sessions client: %w", err)
	}

	translator := translation.NewGoogleService(translateClient, logger)
	visionSvc := vision.NewGoogleService(visionClient, logger)
	intents := intent.NewDialogflowService(dialogflowClient, cfg.Google.ProjectID, logger)

	tourRepo := tour.NewTourRepository(pool, logger)
	tourService := tour.NewTourService(tourRepo, logger)
	tourHandler := tour.NewTourHandler(tourService, logger)

	sessionStore := chat.NewCacheSessionStore(cfg.Session.TTL)
	chatService := chat.NewChatService(translator, visionSvc, intents, tourService,
		sessionStore, cfg.Google.PivotLanguage, logger)

	cookieStore := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	cookieStore.MaxAge(int(cfg.Session.TTL.Seconds()))
	chatHandler := chat.NewChatHandler(chatService, cookieStore, cfg.Session.CookieName, logger)

	return &Container{
		Config:           cfg,
		Logger:           logger,
		Pool:             pool,
		ChatHandler:      chatHandler,
		TourHandler:      tourHandler,
		translateClient:  translateClient,
		visionClient:     visionClient,
		dialogflowClient: dialogflowClient,
	}, nil
}

// Close releases the Google clients. The pgx pool is owned by main.
func (c *Container) Close() {
	if c.translateClient != nil {
		c.translateClient.Close()
	}
	if c.visionClient != nil {
		c.visionClient.Close()
	}
	if c.dialogflowClient != nil {
		c.dialogflowClient.Close()
	}
}
