package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"reelforge/internal/canvas"
	"reelforge/internal/creative"
	"reelforge/internal/gateway/handler"
	"reelforge/internal/gateway/middleware"
	"reelforge/internal/gateway/repository/channelstore"
	"reelforge/internal/gateway/repository/ideastore"
	"reelforge/internal/gateway/repository/projectstore"
	"reelforge/internal/gateway/repository/publishedstore"
	"reelforge/internal/gateway/server"
	"reelforge/internal/gateway/service/profile"
	"reelforge/internal/gateway/service/workspace"
)

// canvasState mirrors the handler package's unexported snapshot payload so
// responses can be decoded from this external test package.
type canvasState struct {
	Graph        canvas.Graph        `json:"graph"`
	Selection    canvas.Selection    `json:"selection"`
	Capabilities canvas.Capabilities `json:"capabilities"`
}

// cannedLLM answers every prompt with the same JSON payload.
type cannedLLM struct {
	raw string
}

func (c *cannedLLM) Name() string { return "canned" }

func (c *cannedLLM) GenerateJSON(_ context.Context, _ string, _ any) (json.RawMessage, error) {
	return json.RawMessage(c.raw), nil
}

func (c *cannedLLM) Close() error { return nil }

func newTestServer(t *testing.T, llmJSON string) (http.Handler, *workspace.Manager) {
	t.Helper()
	dir := t.TempDir()
	channels := channelstore.New(filepath.Join(dir, "channels.json"))
	ideas := ideastore.New(filepath.Join(dir, "ideas.json"))
	projects := projectstore.New(filepath.Join(dir, "projects.json"))
	published := publishedstore.New(filepath.Join(dir, "published.json"))

	contexts := creative.NewContextCache(profile.NewLoader(channels, projects, published))
	svc := creative.NewService(&cannedLLM{raw: llmJSON}, contexts, creative.NewHookLibrary(""))
	workspaces := workspace.New(projects, svc)
	t.Cleanup(func() { workspaces.CloseAll(context.Background()) })

	channelHandler := handler.NewChannelHandler(channels, svc)
	mux := server.NewMux(
		nil,
		channelHandler,
		handler.NewIdeasHandler(ideas, channelHandler, svc),
		handler.NewProjectsHandler(projects, ideas, channelHandler, workspaces, svc),
		handler.NewCanvasHandler(workspaces),
		handler.NewPublishedHandler(published, channelHandler),
		handler.NewBrollHandler(nil, channelHandler),
		handler.NewDashboardHandler(channelHandler, ideas, projects, published),
	)
	return mux, workspaces
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("X-User-ID", "tester")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestChannelCreatedLazilyAndUpdated(t *testing.T) {
	h, _ := newTestServer(t, `{}`)

	first := do(t, h, http.MethodGet, "/api/me/channel", nil)
	require.Equal(t, http.StatusOK, first.Code)
	ch := decode[channelstore.Channel](t, first)
	require.NotEmpty(t, ch.ChannelID)
	require.Equal(t, "tester", ch.UserID)
	require.Equal(t, "My channel", ch.Name)

	patch := do(t, h, http.MethodPatch, "/api/me/channel", map[string]any{
		"name":          "Forge Lab",
		"core_audience": "indie builders",
	})
	require.Equal(t, http.StatusOK, patch.Code)
	updated := decode[channelstore.Channel](t, patch)
	require.Equal(t, ch.ChannelID, updated.ChannelID)
	require.Equal(t, "Forge Lab", updated.Name)

	again := decode[channelstore.Channel](t, do(t, h, http.MethodGet, "/api/me/channel", nil))
	require.Equal(t, ch.ChannelID, again.ChannelID)
}

func TestIdeaPromotedToProjectLeavesTheBank(t *testing.T) {
	h, _ := newTestServer(t, `{}`)

	created := do(t, h, http.MethodPost, "/api/me/ideas", map[string]any{"content": "Why debuggers beat print statements"})
	require.Equal(t, http.StatusCreated, created.Code)
	idea := decode[ideastore.Idea](t, created)

	promoted := do(t, h, http.MethodPost, "/api/me/projects", map[string]any{"idea_id": idea.IdeaID})
	require.Equal(t, http.StatusCreated, promoted.Code)
	proj := decode[projectstore.Project](t, promoted)
	require.Equal(t, idea.Content, proj.Content)

	var bank struct {
		Ideas []ideastore.Idea `json:"ideas"`
	}
	require.NoError(t, json.Unmarshal(do(t, h, http.MethodGet, "/api/me/ideas", nil).Body.Bytes(), &bank))
	require.Empty(t, bank.Ideas)
}

func TestGeneratedIdeasLandInTheBank(t *testing.T) {
	h, _ := newTestServer(t, `{"ideas":["First angle","Second angle"]}`)

	resp := do(t, h, http.MethodPost, "/api/me/ideas/generate", map[string]any{"rough_idea": "vim motions", "count": 2})
	require.Equal(t, http.StatusOK, resp.Code)

	var bank struct {
		Ideas []ideastore.Idea `json:"ideas"`
	}
	require.NoError(t, json.Unmarshal(do(t, h, http.MethodGet, "/api/me/ideas", nil).Body.Bytes(), &bank))
	require.Len(t, bank.Ideas, 2)
	for _, i := range bank.Ideas {
		require.Equal(t, "generated", i.Source)
	}
}

func TestCanvasOpenSeedsRootIdeaAndOpsMutate(t *testing.T) {
	h, workspaces := newTestServer(t, `{}`)

	proj := decode[projectstore.Project](t, do(t, h, http.MethodPost, "/api/me/projects", map[string]any{"content": "Ship a CLI in a weekend"}))

	open := do(t, h, http.MethodPost, "/api/me/projects/"+proj.ProjectID+"/canvas/open", nil)
	require.Equal(t, http.StatusOK, open.Code)
	state := decode[canvasState](t, open)
	require.Len(t, state.Graph.Nodes, 1)
	require.Equal(t, canvas.NodeIdea, state.Graph.Nodes[0].Type)
	require.Equal(t, "Ship a CLI in a weekend", state.Graph.Nodes[0].Content)
	rootID := state.Graph.Nodes[0].ID

	sel := do(t, h, http.MethodPost, "/api/me/projects/"+proj.ProjectID+"/canvas/ops", map[string]any{"op": "selectNode", "nodeId": rootID})
	require.Equal(t, http.StatusOK, sel.Code)

	next := do(t, h, http.MethodPost, "/api/me/projects/"+proj.ProjectID+"/canvas/ops", map[string]any{"op": "addNextStep", "nodeType": "hook"})
	require.Equal(t, http.StatusOK, next.Code)
	var opResp struct {
		State canvasState `json:"state"`
	}
	require.NoError(t, json.Unmarshal(next.Body.Bytes(), &opResp))
	require.Len(t, opResp.State.Graph.Nodes, 2)
	require.Len(t, opResp.State.Graph.Edges, 1)

	unknown := do(t, h, http.MethodPost, "/api/me/projects/"+proj.ProjectID+"/canvas/ops", map[string]any{"op": "teleport"})
	require.Equal(t, http.StatusBadRequest, unknown.Code)

	_, stillOpen := workspaces.Get(proj.ProjectID)
	require.True(t, stillOpen)

	closed := do(t, h, http.MethodPost, "/api/me/projects/"+proj.ProjectID+"/canvas/close", nil)
	require.Equal(t, http.StatusOK, closed.Code)
	_, stillOpen = workspaces.Get(proj.ProjectID)
	require.False(t, stillOpen)
}

func TestCanvasOpRejectsUngatedNextStep(t *testing.T) {
	h, _ := newTestServer(t, `{}`)
	proj := decode[projectstore.Project](t, do(t, h, http.MethodPost, "/api/me/projects", map[string]any{"content": "topic"}))
	do(t, h, http.MethodPost, "/api/me/projects/"+proj.ProjectID+"/canvas/open", nil)

	// Nothing selected, so a next step has no anchor.
	resp := do(t, h, http.MethodPost, "/api/me/projects/"+proj.ProjectID+"/canvas/ops", map[string]any{"op": "addNextStep", "nodeType": "hook"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestScriptOutputUpdatesSummaryAndStatus(t *testing.T) {
	h, _ := newTestServer(t, `{"text":"A tight recap of the video."}`)
	proj := decode[projectstore.Project](t, do(t, h, http.MethodPost, "/api/me/projects", map[string]any{"content": "topic"}))

	resp := do(t, h, http.MethodPost, "/api/me/projects/"+proj.ProjectID+"/outputs", map[string]any{
		"kind":    "script",
		"content": "Hook\n\nBody\n\nEnd",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	after := decode[projectstore.Project](t, do(t, h, http.MethodGet, "/api/me/projects/"+proj.ProjectID, nil))
	require.Equal(t, "A tight recap of the video.", after.Summary)
	require.Equal(t, "scripted", after.Status)
}

func TestPublishedTopPerformersOrdered(t *testing.T) {
	h, _ := newTestServer(t, `{}`)

	for _, p := range []map[string]any{
		{"title": "Low", "views": 10},
		{"title": "High", "views": 9000},
		{"title": "Mid", "views": 400},
	} {
		require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/me/published", p).Code)
	}

	var top struct {
		Top []publishedstore.Published `json:"top"`
	}
	require.NoError(t, json.Unmarshal(do(t, h, http.MethodGet, "/api/me/published/top?limit=2", nil).Body.Bytes(), &top))
	require.Len(t, top.Top, 2)
	require.Equal(t, "High", top.Top[0].Title)
	require.Equal(t, "Mid", top.Top[1].Title)
}

func TestBrollUnconfiguredAnswers503(t *testing.T) {
	h, _ := newTestServer(t, `{}`)
	resp := do(t, h, http.MethodGet, "/api/broll", nil)
	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestAuthTokenResolvesUser(t *testing.T) {
	var seenUser string
	handler := middleware.Auth(map[string]string{"sekrit": "alex"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser = middleware.UserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/me/channel", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/me/channel", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/me/channel", nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "alex", seenUser)
}

func TestDashboardAggregates(t *testing.T) {
	h, _ := newTestServer(t, `{}`)

	do(t, h, http.MethodPost, "/api/me/projects", map[string]any{"content": "one"})
	do(t, h, http.MethodPost, "/api/me/ideas", map[string]any{"content": "an idea"})
	do(t, h, http.MethodPost, "/api/me/published", map[string]any{"title": "Hit", "views": 100})

	resp := do(t, h, http.MethodGet, "/api/me/dashboard", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var dash struct {
		IdeaCount        int                        `json:"idea_count"`
		ProjectsByStatus map[string]int             `json:"projects_by_status"`
		RecentProjects   []projectstore.Project     `json:"recent_projects"`
		TopPerformers    []publishedstore.Published `json:"top_performers"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &dash))
	require.Equal(t, 1, dash.IdeaCount)
	require.Equal(t, 1, dash.ProjectsByStatus["draft"])
	require.Len(t, dash.RecentProjects, 1)
	require.Len(t, dash.TopPerformers, 1)
}
