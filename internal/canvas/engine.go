package canvas

import (
	"context"
	"time"
)

// Engine bundles the graph store, selection controller, persistence scheduler
// and generation orchestrator for one open workspace. One engine per open
// project; engines share nothing.
type Engine struct {
	workspaceID string
	store       *Store
	sel         *Controller
	sched       *Scheduler
	orch        *Orchestrator
}

// EngineOptions tune engine construction.
type EngineOptions struct {
	// SaveDelay overrides the debounce window (DefaultSaveDelay when zero).
	SaveDelay time.Duration
	// SeedContent populates the root idea node when the workspace has no
	// graph yet.
	SeedContent string
	// OnSaveError receives persistence failures. May be nil.
	OnSaveError func(error)
}

// NewEngine builds an engine over a loaded graph. A nil or empty graph starts
// fresh; with SeedContent set it is seeded with a single root idea node.
func NewEngine(workspaceID string, initial *Graph, gen Generator, saver Saver, opts EngineOptions) *Engine {
	var store *Store
	if initial.IsEmpty() {
		store = NewStore()
		if trimmed(opts.SeedContent) != "" {
			store.AddNode(NodeIdea, SeedPosition, NodeInit{Content: opts.SeedContent})
		}
	} else {
		store = NewStoreFromGraph(*initial)
	}
	e := &Engine{
		workspaceID: workspaceID,
		store:       store,
		sel:         NewController(store),
		sched:       NewScheduler(workspaceID, store, saver, opts.SaveDelay, opts.OnSaveError),
		orch:        NewOrchestrator(store, gen),
	}
	store.SetOnMutate(e.sched.Schedule)
	return e
}

// WorkspaceID returns the owning workspace id.
func (e *Engine) WorkspaceID() string { return e.workspaceID }

// Snapshot returns the current serializable graph.
func (e *Engine) Snapshot() Graph { return e.store.Snapshot() }

// AddIdea adds a blank idea node after the rightmost node.
func (e *Engine) AddIdea() string {
	return e.store.AddNode(NodeIdea, e.store.NextPosition(), NodeInit{})
}

// AddNode adds a node of any type at an explicit position.
func (e *Engine) AddNode(t NodeType, pos Position, init NodeInit) (string, error) {
	if !ValidNodeType(t) {
		return "", NewPreconditionError("unknown node type %q", t)
	}
	return e.store.AddNode(t, pos, init), nil
}

// AddNextStep appends a forward-chain node derived from the current
// selection and connects it. Generation happens separately, via Brainstorm on
// the new (empty) node.
func (e *Engine) AddNextStep(t NodeType) (string, error) {
	sel := e.sel.Current()
	if sel.NodeID == "" {
		return "", NewPreconditionError("select a node first")
	}
	allowed := false
	for _, nt := range NextStepTypes(sel.NodeType) {
		if nt == t {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", NewPreconditionError("cannot add a %s step after %s", t, sel.NodeType)
	}
	id := e.store.AddNode(t, e.store.NextPosition(), NodeInit{})
	e.store.Connect(sel.NodeID, id)
	return id, nil
}

// AddIdeaBlock attaches an auxiliary context block feeding into the selected
// generation-step node.
func (e *Engine) AddIdeaBlock() (string, error) {
	sel := e.sel.Current()
	if sel.NodeID == "" {
		return "", NewPreconditionError("select a node first")
	}
	if !CanAddIdeaBlock(sel.NodeType) {
		return "", NewPreconditionError("idea blocks cannot feed a %s node", sel.NodeType)
	}
	target, ok := e.store.Node(sel.NodeID)
	if !ok {
		return "", nil
	}
	pos := Position{X: target.Position.X - ideaBlockOffsetX, Y: target.Position.Y + ideaBlockOffsetY}
	id := e.store.AddNode(NodeIdeaBlock, pos, NodeInit{})
	e.store.Connect(id, sel.NodeID)
	return id, nil
}

// UpdateContent forwards a content edit to the store.
func (e *Engine) UpdateContent(nodeID, content string) { e.store.UpdateContent(nodeID, content) }

// UpdateScriptSection forwards a script section edit to the store.
func (e *Engine) UpdateScriptSection(nodeID string, section ScriptSection, value string) {
	e.store.UpdateScriptSection(nodeID, section, value)
}

// SetReady toggles a script node's ready flag.
func (e *Engine) SetReady(nodeID string, ready bool) { e.store.SetReady(nodeID, ready) }

// Connect adds an edge between two existing nodes.
func (e *Engine) Connect(sourceID, targetID string) (string, bool) {
	return e.store.Connect(sourceID, targetID)
}

// RemoveSelected is the only deletion path that reaches persistence.
// Rendering layers may propose edge removals of their own; those are dropped
// upstream and never arrive here.
func (e *Engine) RemoveSelected(nodeIDs, edgeIDs []string) {
	e.store.RemoveSelected(nodeIDs, edgeIDs)
	e.sel.PruneRemoved(nodeIDs, edgeIDs)
}

// DeleteSelection removes whatever is currently selected.
func (e *Engine) DeleteSelection() {
	sel := e.sel.Current()
	if sel.NodeID == "" && len(sel.EdgeIDs) == 0 {
		return
	}
	var nodeIDs []string
	if sel.NodeID != "" {
		nodeIDs = []string{sel.NodeID}
	}
	e.RemoveSelected(nodeIDs, sel.EdgeIDs)
	e.sel.Clear()
}

// SelectNode selects a single node.
func (e *Engine) SelectNode(nodeID string) bool { return e.sel.SelectNode(nodeID) }

// SelectEdges selects a set of edges.
func (e *Engine) SelectEdges(edgeIDs []string) { e.sel.SelectEdges(edgeIDs) }

// ClearSelection empties the selection.
func (e *Engine) ClearSelection() { e.sel.Clear() }

// Selection returns the current selection.
func (e *Engine) Selection() Selection { return e.sel.Current() }

// Capabilities gates which toolbar operations are currently offerable.
type Capabilities struct {
	HasSelection      bool `json:"hasSelection"`
	CanAddSubIdeas    bool `json:"canAddSubIdeas"`
	CanAddNextStep    bool `json:"canAddNextStep"`
	CanAddIdeaBlock   bool `json:"canAddIdeaBlock"`
	HasAnyReadyScript bool `json:"hasAnyReadyScript"`
}

// Capabilities derives the operation gates for the current selection.
func (e *Engine) Capabilities() Capabilities {
	return Capabilities{
		HasSelection:      e.sel.HasSelection(),
		CanAddSubIdeas:    e.sel.CanAddSubIdeas(),
		CanAddNextStep:    e.sel.CanAddNextStep(),
		CanAddIdeaBlock:   e.sel.CanAddIdeaBlock(),
		HasAnyReadyScript: e.sel.HasAnyReadyScript(),
	}
}

// Brainstorm triggers generation or refinement on one node.
func (e *Engine) Brainstorm(ctx context.Context, nodeID, currentContent string) (BrainstormOutcome, error) {
	return e.orch.Brainstorm(ctx, nodeID, currentContent)
}

// GenerateIdeas adds a batch of generated idea nodes.
func (e *Engine) GenerateIdeas(ctx context.Context) ([]string, error) {
	return e.orch.GenerateIdeas(ctx)
}

// BrainstormSubIdeas fans sub-ideas out of the given parent node.
func (e *Engine) BrainstormSubIdeas(ctx context.Context, parentID string) ([]string, error) {
	return e.orch.BrainstormSubIdeas(ctx, parentID)
}

// Flush forces any pending save to run now.
func (e *Engine) Flush() { e.sched.Flush() }

// Close flushes pending work and stops the persistence scheduler. Called on
// workspace teardown so the last edit burst is never lost.
func (e *Engine) Close() { e.sched.Close() }
