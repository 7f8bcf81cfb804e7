package canvas

import "testing"

func TestSelectNodeClearsEdgeSelection(t *testing.T) {
	store := NewStore()
	a := store.AddNode(NodeIdea, SeedPosition, NodeInit{})
	b := store.AddNode(NodeHook, SeedPosition, NodeInit{})
	edgeID, _ := store.Connect(a, b)

	c := NewController(store)
	c.SelectEdges([]string{edgeID})
	if !c.SelectNode(a) {
		t.Fatalf("SelectNode(%s) = false", a)
	}
	sel := c.Current()
	if sel.NodeID != a || len(sel.EdgeIDs) != 0 {
		t.Fatalf("selection = %+v, want node only", sel)
	}
}

func TestSelectMissingNodeClears(t *testing.T) {
	store := NewStore()
	a := store.AddNode(NodeIdea, SeedPosition, NodeInit{})
	c := NewController(store)
	c.SelectNode(a)
	if c.SelectNode("ghost") {
		t.Fatalf("selecting a missing node must fail")
	}
	if c.HasSelection() {
		t.Fatalf("stale selection survived")
	}
}

func TestCurrentDropsVanishedNode(t *testing.T) {
	store := NewStore()
	a := store.AddNode(NodeIdea, SeedPosition, NodeInit{})
	c := NewController(store)
	c.SelectNode(a)
	store.RemoveSelected([]string{a}, nil)

	if sel := c.Current(); sel.NodeID != "" {
		t.Fatalf("selection = %+v, want empty after node removal", sel)
	}
}

func TestCanAddSubIdeasNeedsContent(t *testing.T) {
	store := NewStore()
	empty := store.AddNode(NodeIdea, SeedPosition, NodeInit{})
	filled := store.AddNode(NodeSubIdea, SeedPosition, NodeInit{Content: "x"})
	hook := store.AddNode(NodeHook, SeedPosition, NodeInit{Content: "x"})
	c := NewController(store)

	c.SelectNode(empty)
	if c.CanAddSubIdeas() {
		t.Fatalf("empty idea must not offer sub-ideas")
	}
	c.SelectNode(filled)
	if !c.CanAddSubIdeas() {
		t.Fatalf("filled sub-idea must offer sub-ideas")
	}
	c.SelectNode(hook)
	if c.CanAddSubIdeas() {
		t.Fatalf("hook must never offer sub-ideas")
	}
}

func TestCanAddNextStep(t *testing.T) {
	store := NewStore()
	c := NewController(store)
	if c.CanAddNextStep() {
		t.Fatalf("no selection must not offer next steps")
	}

	tags := store.AddNode(NodeHashtags, SeedPosition, NodeInit{})
	c.SelectNode(tags)
	if c.CanAddNextStep() {
		t.Fatalf("hashtags is terminal")
	}

	block := store.AddNode(NodeIdeaBlock, SeedPosition, NodeInit{})
	c.SelectNode(block)
	if c.CanAddNextStep() {
		t.Fatalf("idea blocks must not offer next steps")
	}

	idea := store.AddNode(NodeIdea, SeedPosition, NodeInit{})
	c.SelectNode(idea)
	if !c.CanAddNextStep() {
		t.Fatalf("idea must offer next steps")
	}
}

func TestPruneRemovedEdges(t *testing.T) {
	store := NewStore()
	a := store.AddNode(NodeIdea, SeedPosition, NodeInit{})
	b := store.AddNode(NodeHook, SeedPosition, NodeInit{})
	cNode := store.AddNode(NodeScript, SeedPosition, NodeInit{})
	e1, _ := store.Connect(a, b)
	e2, _ := store.Connect(b, cNode)

	c := NewController(store)
	c.SelectEdges([]string{e1, e2})
	c.PruneRemoved(nil, []string{e1})

	sel := c.Current()
	if len(sel.EdgeIDs) != 1 || sel.EdgeIDs[0] != e2 {
		t.Fatalf("selection = %+v, want only %s", sel, e2)
	}
}
