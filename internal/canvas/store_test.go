package canvas

import (
	"encoding/json"
	"testing"
)

func TestAddNodeGeneratesUniqueIDs(t *testing.T) {
	s := NewStore()
	a := s.AddNode(NodeIdea, SeedPosition, NodeInit{})
	b := s.AddNode(NodeIdea, SeedPosition, NodeInit{})
	if a == "" || b == "" || a == b {
		t.Fatalf("ids must be unique and non-empty: %q %q", a, b)
	}
	if s.NodeCount() != 2 {
		t.Fatalf("NodeCount() = %d, want 2", s.NodeCount())
	}
}

func TestUpdateContentMissingNodeIsNoop(t *testing.T) {
	s := NewStore()
	s.UpdateContent("nope", "text") // must not panic or create anything
	if s.NodeCount() != 0 {
		t.Fatalf("NodeCount() = %d, want 0", s.NodeCount())
	}
}

func TestScriptSectionsDeriveContent(t *testing.T) {
	s := NewStore()
	id := s.AddNode(NodeScript, SeedPosition, NodeInit{})

	s.UpdateScriptSection(id, SectionHook, "H")
	s.UpdateScriptSection(id, SectionBody, "B")
	s.UpdateScriptSection(id, SectionEnd, "E")

	n, ok := s.Node(id)
	if !ok {
		t.Fatalf("node missing")
	}
	if n.Content != "H\n\nB\n\nE" {
		t.Fatalf("Content = %q, want %q", n.Content, "H\n\nB\n\nE")
	}

	// Empty sections are skipped in the join.
	s.UpdateScriptSection(id, SectionBody, "")
	n, _ = s.Node(id)
	if n.Content != "H\n\nE" {
		t.Fatalf("Content = %q, want %q", n.Content, "H\n\nE")
	}
}

func TestUpdateContentIgnoredOnceSectionsPopulated(t *testing.T) {
	s := NewStore()
	id := s.AddNode(NodeScript, SeedPosition, NodeInit{})
	s.UpdateScriptSection(id, SectionBody, "body text")

	s.UpdateContent(id, "free text")

	n, _ := s.Node(id)
	if n.Content != "body text" {
		t.Fatalf("Content = %q, sections must stay authoritative", n.Content)
	}
}

func TestLockedHookSectionRejectsEdits(t *testing.T) {
	s := NewStore()
	id := s.AddNode(NodeScript, SeedPosition, NodeInit{})
	s.UpdateScriptSection(id, SectionHook, "seeded")
	s.mutate(id, func(n *Node) { n.Script.HookLocked = true })

	s.UpdateScriptSection(id, SectionHook, "overwrite attempt")

	n, _ := s.Node(id)
	if n.Script.Hook != "seeded" {
		t.Fatalf("Hook = %q, want %q", n.Script.Hook, "seeded")
	}
}

func TestSetReadyOnlyAffectsScriptNodes(t *testing.T) {
	s := NewStore()
	scriptID := s.AddNode(NodeScript, SeedPosition, NodeInit{})
	ideaID := s.AddNode(NodeIdea, SeedPosition, NodeInit{})

	s.SetReady(scriptID, true)
	s.SetReady(ideaID, true)

	if !s.HasReadyScript() {
		t.Fatalf("HasReadyScript() = false after SetReady")
	}
	n, _ := s.Node(ideaID)
	if n.Script != nil {
		t.Fatalf("idea node grew script data")
	}
}

func TestConnectRefusesMissingEndpoints(t *testing.T) {
	s := NewStore()
	id := s.AddNode(NodeIdea, SeedPosition, NodeInit{})
	if _, ok := s.Connect(id, "ghost"); ok {
		t.Fatalf("Connect() accepted a missing target")
	}
	if _, ok := s.Connect("ghost", id); ok {
		t.Fatalf("Connect() accepted a missing source")
	}
	if len(s.Snapshot().Edges) != 0 {
		t.Fatalf("edges = %d, want 0", len(s.Snapshot().Edges))
	}
}

func TestRemoveSelectedCascadesEdges(t *testing.T) {
	s := NewStore()
	a := s.AddNode(NodeIdea, SeedPosition, NodeInit{})
	b := s.AddNode(NodeHook, SeedPosition, NodeInit{})
	c := s.AddNode(NodeScript, SeedPosition, NodeInit{})
	s.Connect(a, b)
	s.Connect(b, c)
	s.Connect(a, c)

	s.RemoveSelected([]string{b}, nil)

	snap := s.Snapshot()
	if len(snap.Nodes) != 2 {
		t.Fatalf("nodes = %d, want 2", len(snap.Nodes))
	}
	assertEdgeIntegrity(t, snap)
	if len(snap.Edges) != 1 {
		t.Fatalf("edges = %d, want 1 (only a→c survives)", len(snap.Edges))
	}
	if snap.Edges[0].Source != a || snap.Edges[0].Target != c {
		t.Fatalf("surviving edge = %+v, want a→c", snap.Edges[0])
	}
}

func TestRemoveSelectedByEdgeID(t *testing.T) {
	s := NewStore()
	a := s.AddNode(NodeIdea, SeedPosition, NodeInit{})
	b := s.AddNode(NodeHook, SeedPosition, NodeInit{})
	edgeID, _ := s.Connect(a, b)

	s.RemoveSelected(nil, []string{edgeID})

	snap := s.Snapshot()
	if len(snap.Nodes) != 2 || len(snap.Edges) != 0 {
		t.Fatalf("nodes=%d edges=%d, want 2/0", len(snap.Nodes), len(snap.Edges))
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := NewStore()
	id := s.AddNode(NodeScript, SeedPosition, NodeInit{})
	s.UpdateScriptSection(id, SectionBody, "original")

	snap := s.Snapshot()
	snap.Nodes[0].Script.Body = "tampered"

	n, _ := s.Node(id)
	if n.Script.Body != "original" {
		t.Fatalf("snapshot mutation leaked into store")
	}
}

func TestStoreFromGraphReservesIDs(t *testing.T) {
	s := NewStore()
	a := s.AddNode(NodeHook, SeedPosition, NodeInit{})
	g := s.Snapshot()

	restored := NewStoreFromGraph(g)
	b := restored.AddNode(NodeHook, SeedPosition, NodeInit{})
	if a == b {
		t.Fatalf("restored store reused id %q", a)
	}
}

func TestGraphWireRoundTrip(t *testing.T) {
	s := NewStore()
	idea := s.AddNode(NodeIdea, Position{X: 80, Y: 80}, NodeInit{Content: "Morning routine video"})
	script := s.AddNode(NodeScript, Position{X: 400, Y: 80}, NodeInit{})
	s.UpdateScriptSection(script, SectionHook, "H")
	s.UpdateScriptSection(script, SectionBody, "B")
	s.SetReady(script, true)
	s.Connect(idea, script)

	b, err := json.Marshal(s.Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var g Graph
	if err := json.Unmarshal(b, &g); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	restored := NewStoreFromGraph(g)
	n, ok := restored.Node(script)
	if !ok {
		t.Fatalf("script node lost in round trip")
	}
	if n.Content != "H\n\nB" {
		t.Fatalf("Content = %q, want derived join", n.Content)
	}
	if n.Script == nil || !n.Script.Ready {
		t.Fatalf("ready flag lost in round trip")
	}
	if !restored.HasReadyScript() {
		t.Fatalf("HasReadyScript() = false after reload")
	}
}

func TestNextPositionAdvancesRight(t *testing.T) {
	s := NewStore()
	if got := s.NextPosition(); got != SeedPosition {
		t.Fatalf("empty store NextPosition() = %+v, want seed", got)
	}
	s.AddNode(NodeIdea, Position{X: 100, Y: 50}, NodeInit{})
	s.AddNode(NodeIdea, Position{X: 500, Y: 200}, NodeInit{})

	got := s.NextPosition()
	if got.X <= 500 {
		t.Fatalf("NextPosition().X = %v, want past rightmost node", got.X)
	}
	if got.Y != 200 {
		t.Fatalf("NextPosition().Y = %v, want bottom row 200", got.Y)
	}
}

// assertEdgeIntegrity checks the one structural invariant: every edge
// endpoint references an existing node.
func assertEdgeIntegrity(t *testing.T, g Graph) {
	t.Helper()
	ids := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		ids[n.ID] = struct{}{}
	}
	for _, e := range g.Edges {
		if _, ok := ids[e.Source]; !ok {
			t.Fatalf("edge %s has dangling source %s", e.ID, e.Source)
		}
		if _, ok := ids[e.Target]; !ok {
			t.Fatalf("edge %s has dangling target %s", e.ID, e.Target)
		}
	}
}
