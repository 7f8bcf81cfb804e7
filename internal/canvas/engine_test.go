package canvas

import (
	"context"
	"testing"
	"time"
)

func newTestEngine(t *testing.T, gen Generator) (*Engine, *countingSaver) {
	t.Helper()
	saver := &countingSaver{}
	e := NewEngine("ws1", nil, gen, saver, EngineOptions{
		SaveDelay:   time.Hour,
		SeedContent: "First video concept",
	})
	t.Cleanup(e.Close)
	return e, saver
}

func TestNewEngineSeedsEmptyWorkspace(t *testing.T) {
	e, _ := newTestEngine(t, &fakeGenerator{})
	snap := e.Snapshot()
	if len(snap.Nodes) != 1 {
		t.Fatalf("seeded nodes = %d, want 1", len(snap.Nodes))
	}
	n := snap.Nodes[0]
	if n.Type != NodeIdea || n.Content != "First video concept" || n.Position != SeedPosition {
		t.Fatalf("seed node = %+v", n)
	}
}

func TestNewEngineRestoresExistingGraph(t *testing.T) {
	store := NewStore()
	store.AddNode(NodeIdea, SeedPosition, NodeInit{Content: "kept"})
	store.AddNode(NodeHook, SeedPosition, NodeInit{Content: "also kept"})
	g := store.Snapshot()

	e := NewEngine("ws1", &g, &fakeGenerator{}, &countingSaver{}, EngineOptions{SeedContent: "ignored"})
	defer e.Close()
	if len(e.Snapshot().Nodes) != 2 {
		t.Fatalf("restored %d nodes, want 2", len(e.Snapshot().Nodes))
	}
}

func TestAddNextStepValidatesChain(t *testing.T) {
	e, _ := newTestEngine(t, &fakeGenerator{})
	ideaID := e.Snapshot().Nodes[0].ID
	e.SelectNode(ideaID)

	hookID, err := e.AddNextStep(NodeHook)
	if err != nil {
		t.Fatalf("AddNextStep(hook): %v", err)
	}
	snap := e.Snapshot()
	if len(snap.Edges) != 1 || snap.Edges[0].Source != ideaID || snap.Edges[0].Target != hookID {
		t.Fatalf("edges = %+v, want idea→hook", snap.Edges)
	}

	e.SelectNode(hookID)
	if _, err := e.AddNextStep(NodeHook); !IsPrecondition(err) {
		t.Fatalf("err = %v, want precondition (hook after hook)", err)
	}

	e.ClearSelection()
	if _, err := e.AddNextStep(NodeScript); !IsPrecondition(err) {
		t.Fatalf("err = %v, want precondition (no selection)", err)
	}
}

func TestAddIdeaBlockAttachesToSelection(t *testing.T) {
	e, _ := newTestEngine(t, &fakeGenerator{})
	ideaID := e.Snapshot().Nodes[0].ID
	e.SelectNode(ideaID)
	hookID, _ := e.AddNextStep(NodeHook)

	// Idea blocks feed generation steps, not ideas.
	if _, err := e.AddIdeaBlock(); !IsPrecondition(err) {
		t.Fatalf("err = %v, want precondition on idea selection", err)
	}

	e.SelectNode(hookID)
	blockID, err := e.AddIdeaBlock()
	if err != nil {
		t.Fatalf("AddIdeaBlock: %v", err)
	}
	found := false
	for _, edge := range e.Snapshot().Edges {
		if edge.Source == blockID && edge.Target == hookID {
			found = true
		}
	}
	if !found {
		t.Fatalf("no edge block→hook after AddIdeaBlock")
	}
}

func TestDeleteSelectionCascades(t *testing.T) {
	e, _ := newTestEngine(t, &fakeGenerator{})
	ideaID := e.Snapshot().Nodes[0].ID
	e.SelectNode(ideaID)
	hookID, _ := e.AddNextStep(NodeHook)

	e.SelectNode(hookID)
	e.DeleteSelection()

	snap := e.Snapshot()
	if len(snap.Nodes) != 1 || len(snap.Edges) != 0 {
		t.Fatalf("nodes=%d edges=%d after delete, want 1/0", len(snap.Nodes), len(snap.Edges))
	}
	if e.Selection().NodeID != "" {
		t.Fatalf("selection survived deletion")
	}
}

func TestCapabilitiesReflectSelection(t *testing.T) {
	e, _ := newTestEngine(t, &fakeGenerator{})
	caps := e.Capabilities()
	if caps.HasSelection || caps.CanAddSubIdeas {
		t.Fatalf("caps = %+v, want everything off with no selection", caps)
	}

	ideaID := e.Snapshot().Nodes[0].ID
	e.SelectNode(ideaID)
	caps = e.Capabilities()
	if !caps.HasSelection || !caps.CanAddSubIdeas || !caps.CanAddNextStep || caps.CanAddIdeaBlock {
		t.Fatalf("caps = %+v for seeded idea selection", caps)
	}
	if caps.HasAnyReadyScript {
		t.Fatalf("no script exists yet")
	}
}

func TestEngineCloseFlushesLastBurst(t *testing.T) {
	saver := &countingSaver{}
	e := NewEngine("ws1", nil, &fakeGenerator{}, saver, EngineOptions{
		SaveDelay:   time.Hour,
		SeedContent: "seed",
	})

	ideaID := e.Snapshot().Nodes[0].ID
	e.UpdateContent(ideaID, "final words")
	e.Close()

	if saver.count() == 0 {
		t.Fatalf("close lost the pending edit")
	}
	if saver.last.Nodes[0].Content != "final words" {
		t.Fatalf("persisted %q, want the last edit", saver.last.Nodes[0].Content)
	}
}

// Full flow: seed idea → hook fan-out → pick a hook → script → mark ready →
// description. Mirrors a complete authoring session.
func TestEngineAuthoringFlow(t *testing.T) {
	gen := &fakeGenerator{
		hooks:  []string{"H1", "H2", "H3"},
		script: ScriptResult{Hook: "gh", Body: "body", End: "end"},
		descr:  "Final description",
	}
	e, _ := newTestEngine(t, gen)
	ctx := context.Background()

	ideaID := e.Snapshot().Nodes[0].ID
	e.SelectNode(ideaID)
	hookID, err := e.AddNextStep(NodeHook)
	if err != nil {
		t.Fatalf("add hook step: %v", err)
	}

	out, err := e.Brainstorm(ctx, hookID, "")
	if err != nil {
		t.Fatalf("hook brainstorm: %v", err)
	}
	if len(out.CreatedNodeIDs) != 3 {
		t.Fatalf("fan-out created %d, want 3", len(out.CreatedNodeIDs))
	}

	chosen := out.CreatedNodeIDs[1]
	e.SelectNode(chosen)
	scriptID, err := e.AddNextStep(NodeScript)
	if err != nil {
		t.Fatalf("add script step: %v", err)
	}
	if _, err := e.Brainstorm(ctx, scriptID, ""); err != nil {
		t.Fatalf("script brainstorm: %v", err)
	}
	scriptNode, _ := e.store.Node(scriptID)
	if scriptNode.Script.Hook != "H2" || !scriptNode.Script.HookLocked {
		t.Fatalf("script = %+v, want opening locked to chosen hook", scriptNode.Script)
	}

	e.SetReady(scriptID, true)
	if !e.Capabilities().HasAnyReadyScript {
		t.Fatalf("ready flag not visible in capabilities")
	}

	e.SelectNode(scriptID)
	descID, err := e.AddNextStep(NodeDescription)
	if err != nil {
		t.Fatalf("add description step: %v", err)
	}
	if _, err := e.Brainstorm(ctx, descID, ""); err != nil {
		t.Fatalf("description brainstorm: %v", err)
	}
	descNode, _ := e.store.Node(descID)
	if descNode.Content != "Final description" {
		t.Fatalf("description = %q", descNode.Content)
	}
	assertEdgeIntegrity(t, e.Snapshot())
}
