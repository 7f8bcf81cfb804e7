package server

import (
	"net/http"

	"reelforge/internal/gateway/handler"
	"reelforge/internal/gateway/middleware"
)

func NewMux(
	authTokens map[string]string,
	channelHandler *handler.ChannelHandler,
	ideasHandler *handler.IdeasHandler,
	projectsHandler *handler.ProjectsHandler,
	canvasHandler *handler.CanvasHandler,
	publishedHandler *handler.PublishedHandler,
	brollHandler *handler.BrollHandler,
	dashboardHandler *handler.DashboardHandler,
) http.Handler {
	mux := http.NewServeMux()

	// Channel profile
	mux.HandleFunc("GET /api/me/channel", channelHandler.HandleGet)
	mux.HandleFunc("PUT /api/me/channel", channelHandler.HandleUpdate)
	mux.HandleFunc("PATCH /api/me/channel", channelHandler.HandleUpdate)
	mux.HandleFunc("POST /api/me/channel/suggest", channelHandler.HandleSuggest)

	// Idea bank
	mux.HandleFunc("GET /api/me/ideas", ideasHandler.HandleList)
	mux.HandleFunc("POST /api/me/ideas", ideasHandler.HandleCreate)
	mux.HandleFunc("POST /api/me/ideas/generate", ideasHandler.HandleGenerate)
	mux.HandleFunc("PATCH /api/me/ideas/{id}", ideasHandler.HandleUpdate)
	mux.HandleFunc("DELETE /api/me/ideas/{id}", ideasHandler.HandleDelete)

	// Projects
	mux.HandleFunc("GET /api/me/projects", projectsHandler.HandleList)
	mux.HandleFunc("POST /api/me/projects", projectsHandler.HandleCreate)
	mux.HandleFunc("GET /api/me/projects/{id}", projectsHandler.HandleGet)
	mux.HandleFunc("PATCH /api/me/projects/{id}", projectsHandler.HandleUpdate)
	mux.HandleFunc("DELETE /api/me/projects/{id}", projectsHandler.HandleDelete)
	mux.HandleFunc("GET /api/me/projects/{id}/outputs", projectsHandler.HandleListOutputs)
	mux.HandleFunc("POST /api/me/projects/{id}/outputs", projectsHandler.HandleAddOutput)

	// Canvas
	mux.HandleFunc("POST /api/me/projects/{id}/canvas/open", canvasHandler.HandleOpen)
	mux.HandleFunc("GET /api/me/projects/{id}/canvas", canvasHandler.HandleSnapshot)
	mux.HandleFunc("POST /api/me/projects/{id}/canvas/ops", canvasHandler.HandleOp)
	mux.HandleFunc("POST /api/me/projects/{id}/canvas/close", canvasHandler.HandleClose)
	mux.HandleFunc("GET /api/me/projects/{id}/canvas/ws", canvasHandler.HandleSocket)

	// Published content and performance
	mux.HandleFunc("GET /api/me/published", publishedHandler.HandleList)
	mux.HandleFunc("POST /api/me/published", publishedHandler.HandleCreate)
	mux.HandleFunc("PATCH /api/me/published/{id}/views", publishedHandler.HandleSetViews)
	mux.HandleFunc("GET /api/me/published/top", publishedHandler.HandleTopPerformers)
	mux.HandleFunc("GET /api/me/dashboard", dashboardHandler.HandleDashboard)
	mux.HandleFunc("GET /api/me/performance", dashboardHandler.HandlePerformance)

	// B-roll library
	mux.HandleFunc("GET /api/broll", brollHandler.HandleList)
	mux.HandleFunc("PUT /api/broll/{name}", brollHandler.HandleUpload)
	mux.HandleFunc("GET /api/broll/{name}/url", brollHandler.HandleURL)
	mux.HandleFunc("DELETE /api/broll/{name}", brollHandler.HandleDelete)

	// Middleware
	return middleware.CORS(middleware.Auth(authTokens)(mux))
}
