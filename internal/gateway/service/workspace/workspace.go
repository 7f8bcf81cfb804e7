package workspace

import (
	"context"
	"fmt"
	"log"
	"sync"

	"reelforge/internal/canvas"
	"reelforge/internal/creative"
	"reelforge/internal/gateway/repository/projectstore"
)

// Manager owns the open canvas engines, one per project. Opening is
// idempotent; closing flushes the pending save so teardown never loses the
// last edit burst.
type Manager struct {
	projects *projectstore.Store
	saver    *projectstore.GraphSaver
	creative *creative.Service

	mu      sync.Mutex
	engines map[string]*canvas.Engine
}

func New(projects *projectstore.Store, svc *creative.Service) *Manager {
	return &Manager{
		projects: projects,
		saver:    projectstore.NewGraphSaver(projects),
		creative: svc,
		engines:  make(map[string]*canvas.Engine),
	}
}

// Open returns the engine for a project, creating it on first use. A project
// without a stored graph starts from a single root idea seeded with the
// project's content.
func (m *Manager) Open(projectID string) (*canvas.Engine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.engines[projectID]; ok {
		return e, nil
	}
	proj, ok := m.projects.Get(projectID)
	if !ok {
		return nil, fmt.Errorf("project %s not found", projectID)
	}
	gen := m.creative.ForChannel(proj.ChannelID)
	e := canvas.NewEngine(projectID, m.saver.LoadGraph(projectID), gen, m.saver, canvas.EngineOptions{
		SeedContent: proj.Content,
		OnSaveError: func(err error) {
			log.Printf("workspace %s: save failed: %v", projectID, err)
		},
	})
	m.engines[projectID] = e
	return e, nil
}

// Get returns an already-open engine.
func (m *Manager) Get(projectID string) (*canvas.Engine, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.engines[projectID]
	return e, ok
}

// Close flushes and discards one engine. Unknown projects are a no-op.
func (m *Manager) Close(projectID string) {
	m.mu.Lock()
	e, ok := m.engines[projectID]
	delete(m.engines, projectID)
	m.mu.Unlock()
	if ok {
		e.Close()
	}
}

// CloseAll tears down every open engine. Called on server shutdown.
func (m *Manager) CloseAll(_ context.Context) {
	m.mu.Lock()
	engines := m.engines
	m.engines = make(map[string]*canvas.Engine)
	m.mu.Unlock()
	for id, e := range engines {
		e.Close()
		log.Printf("workspace %s: closed", id)
	}
}
