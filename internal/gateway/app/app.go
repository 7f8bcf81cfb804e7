package app

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"reelforge/internal/creative"
	"reelforge/internal/gateway/config"
	"reelforge/internal/gateway/handler"
	"reelforge/internal/gateway/repository/brollstore"
	"reelforge/internal/gateway/repository/channelstore"
	"reelforge/internal/gateway/repository/ideastore"
	"reelforge/internal/gateway/repository/projectstore"
	"reelforge/internal/gateway/repository/publishedstore"
	"reelforge/internal/gateway/server"
	"reelforge/internal/gateway/service/profile"
	"reelforge/internal/gateway/service/workspace"
	"reelforge/internal/llmclient"
)

type App struct {
	server     *server.Server
	workspaces *workspace.Manager
	llm        llmclient.Client
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Repositories
	channels := channelstore.NewFromEnv(filepath.Join(cfg.DataDir, "channels.json"))
	ideas := ideastore.NewFromEnv(filepath.Join(cfg.DataDir, "ideas.json"))
	projects := projectstore.NewFromEnv(filepath.Join(cfg.DataDir, "projects.json"))
	published := publishedstore.NewFromEnv(filepath.Join(cfg.DataDir, "published.json"))

	var broll *brollstore.S3Store
	if cfg.Broll.CanUseS3() {
		broll, err = brollstore.NewS3Store(brollstore.S3Config{
			Endpoint:  cfg.Broll.Endpoint,
			Region:    cfg.Broll.Region,
			AccessKey: cfg.Broll.AccessKey,
			SecretKey: cfg.Broll.SecretKey,
			Bucket:    cfg.Broll.Bucket,
			UseSSL:    cfg.Broll.UseSSL,
		})
		if err != nil {
			log.Printf("b-roll storage unavailable: %v", err)
			broll = nil
		}
	}

	// Generation
	llm, err := llmclient.New(ctx, cfg.LLM.Provider, cfg.LLM.APIKey, cfg.LLM.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize llm client: %w", err)
	}
	contexts := creative.NewContextCache(profile.NewLoader(channels, projects, published))
	creativeSvc := creative.NewService(llm, contexts, creative.NewHookLibrary(cfg.HooksPath))
	workspaces := workspace.New(projects, creativeSvc)

	// Handlers
	channelHandler := handler.NewChannelHandler(channels, creativeSvc)
	ideasHandler := handler.NewIdeasHandler(ideas, channelHandler, creativeSvc)
	projectsHandler := handler.NewProjectsHandler(projects, ideas, channelHandler, workspaces, creativeSvc)
	canvasHandler := handler.NewCanvasHandler(workspaces)
	publishedHandler := handler.NewPublishedHandler(published, channelHandler)
	brollHandler := handler.NewBrollHandler(broll, channelHandler)
	dashboardHandler := handler.NewDashboardHandler(channelHandler, ideas, projects, published)

	// Routing & Server
	mux := server.NewMux(
		cfg.AuthTokens,
		channelHandler,
		ideasHandler,
		projectsHandler,
		canvasHandler,
		publishedHandler,
		brollHandler,
		dashboardHandler,
	)
	srv := server.New(cfg.Port, mux)

	return &App{
		server:     srv,
		workspaces: workspaces,
		llm:        llm,
	}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

// Shutdown flushes every open canvas before stopping the listener so pending
// debounced saves reach the store.
func (a *App) Shutdown(ctx context.Context) error {
	a.workspaces.CloseAll(ctx)
	if err := a.llm.Close(); err != nil {
		log.Printf("llm client close: %v", err)
	}
	return a.server.Shutdown(ctx)
}
