package canvas

import (
	"fmt"
	"sync"

	"reelforge/internal/utils"
)

// Layout constants, matching the web canvas defaults. Positions are purely
// presentational.
const (
	nodeWidth        = 240.0
	nextStepGapX     = 60.0
	ideaSpacingX     = 280.0
	subIdeaOffsetX   = 320.0
	subIdeaSpacingY  = 100.0
	variantSpacingY  = 140.0
	ideaBlockOffsetX = 280.0
	ideaBlockOffsetY = 120.0
)

// SeedPosition is where the root idea node of a fresh workspace lands.
var SeedPosition = Position{X: 80, Y: 80}

// NodeInit carries optional initial data for AddNode.
type NodeInit struct {
	Content       string
	Label         string
	InputDisabled bool
}

// Store is the single source of truth for one workspace's nodes and edges.
// All mutation goes through it so persistence and selection observe a
// consistent view. Safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	nodes []Node
	edges []Edge
	ids   *utils.UIDGenerator

	// onMutate fires after every completed mutation, outside the lock.
	// The persistence scheduler hangs off this.
	onMutate func()
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{ids: utils.NewUIDGenerator()}
}

// NewStoreFromGraph creates a store seeded with a loaded graph. Existing ids
// are reserved so new nodes can never collide with them.
func NewStoreFromGraph(g Graph) *Store {
	s := NewStore()
	g = g.Clone()
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.Type == NodeScript && n.Script == nil {
			n.Script = &ScriptData{}
		}
		if n.Script.hasSections() {
			n.Content = n.Script.derivedContent()
		}
		s.ids.Reserve(n.ID)
	}
	for _, e := range g.Edges {
		s.ids.Reserve(e.ID)
	}
	s.nodes = g.Nodes
	s.edges = g.Edges
	return s
}

// SetOnMutate registers the mutation observer. Must be called before the
// store is shared.
func (s *Store) SetOnMutate(fn func()) { s.onMutate = fn }

func (s *Store) notify() {
	if s.onMutate != nil {
		s.onMutate()
	}
}

func (s *Store) indexOf(nodeID string) int {
	for i := range s.nodes {
		if s.nodes[i].ID == nodeID {
			return i
		}
	}
	return -1
}

// AddNode inserts a new node and returns its generated id. Always succeeds;
// ids are generated, never caller-supplied.
func (s *Store) AddNode(t NodeType, pos Position, init NodeInit) string {
	s.mu.Lock()
	n := Node{
		ID:            s.ids.Generate(string(t)),
		Type:          t,
		Position:      pos,
		Content:       init.Content,
		Label:         init.Label,
		InputDisabled: init.InputDisabled,
	}
	if t == NodeScript {
		n.Script = &ScriptData{}
	}
	s.nodes = append(s.nodes, n)
	s.mu.Unlock()
	s.notify()
	return n.ID
}

// UpdateContent replaces a node's primary text. A missing node is a silent
// no-op. Script nodes with populated sections ignore this: the sections are
// authoritative and content stays their derived join.
func (s *Store) UpdateContent(nodeID, content string) {
	s.mu.Lock()
	i := s.indexOf(nodeID)
	if i < 0 || s.nodes[i].Script.hasSections() {
		s.mu.Unlock()
		return
	}
	s.nodes[i].Content = content
	s.mu.Unlock()
	s.notify()
}

// UpdateScriptSection updates one script section and recomputes the derived
// content. Non-script nodes and locked hook sections are no-ops.
func (s *Store) UpdateScriptSection(nodeID string, section ScriptSection, value string) {
	s.mu.Lock()
	i := s.indexOf(nodeID)
	if i < 0 || s.nodes[i].Type != NodeScript || s.nodes[i].Script == nil {
		s.mu.Unlock()
		return
	}
	sc := s.nodes[i].Script
	switch section {
	case SectionHook:
		if sc.HookLocked {
			s.mu.Unlock()
			return
		}
		sc.Hook = value
	case SectionBody:
		sc.Body = value
	case SectionEnd:
		sc.End = value
	default:
		s.mu.Unlock()
		return
	}
	s.nodes[i].Content = sc.derivedContent()
	s.mu.Unlock()
	s.notify()
}

// SetReady toggles the gating flag on a script node.
func (s *Store) SetReady(nodeID string, ready bool) {
	s.mu.Lock()
	i := s.indexOf(nodeID)
	if i < 0 || s.nodes[i].Type != NodeScript || s.nodes[i].Script == nil {
		s.mu.Unlock()
		return
	}
	s.nodes[i].Script.Ready = ready
	s.mu.Unlock()
	s.notify()
}

// Connect appends an edge from source to target and returns its id.
// Duplicate and cyclic edges are the caller's concern; edges to nodes that do
// not exist are refused to preserve edge integrity.
func (s *Store) Connect(sourceID, targetID string) (string, bool) {
	s.mu.Lock()
	if s.indexOf(sourceID) < 0 || s.indexOf(targetID) < 0 {
		s.mu.Unlock()
		return "", false
	}
	id := s.edgeID(sourceID, targetID)
	s.edges = append(s.edges, Edge{ID: id, Source: sourceID, Target: targetID})
	s.mu.Unlock()
	s.notify()
	return id, true
}

// edgeID builds "e-<source>-<target>", suffixing on duplicates. Caller holds mu.
func (s *Store) edgeID(sourceID, targetID string) string {
	base := fmt.Sprintf("e-%s-%s", sourceID, targetID)
	id := base
	for n := 2; ; n++ {
		taken := false
		for _, e := range s.edges {
			if e.ID == id {
				taken = true
				break
			}
		}
		if !taken {
			return id
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}
}

// RemoveSelected removes the given nodes and edges, plus every edge touching
// a removed node. This is the invariant-preserving rule: no edge may ever
// reference a node missing from the node set.
func (s *Store) RemoveSelected(nodeIDs, edgeIDs []string) {
	if len(nodeIDs) == 0 && len(edgeIDs) == 0 {
		return
	}
	dropNodes := make(map[string]struct{}, len(nodeIDs))
	for _, id := range nodeIDs {
		dropNodes[id] = struct{}{}
	}
	dropEdges := make(map[string]struct{}, len(edgeIDs))
	for _, id := range edgeIDs {
		dropEdges[id] = struct{}{}
	}

	s.mu.Lock()
	nodes := s.nodes[:0]
	for _, n := range s.nodes {
		if _, drop := dropNodes[n.ID]; !drop {
			nodes = append(nodes, n)
		}
	}
	s.nodes = nodes
	edges := s.edges[:0]
	for _, e := range s.edges {
		if _, drop := dropEdges[e.ID]; drop {
			continue
		}
		if _, drop := dropNodes[e.Source]; drop {
			continue
		}
		if _, drop := dropNodes[e.Target]; drop {
			continue
		}
		edges = append(edges, e)
	}
	s.edges = edges
	s.mu.Unlock()
	s.notify()
}

// Snapshot returns a deep copy of the serializable graph view.
func (s *Store) Snapshot() Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Graph{Nodes: s.nodes, Edges: s.edges}.Clone()
}

// Node returns a copy of the node, if present.
func (s *Store) Node(nodeID string) (Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(nodeID)
	if i < 0 {
		return Node{}, false
	}
	n := s.nodes[i]
	if n.Script != nil {
		sc := *n.Script
		n.Script = &sc
	}
	return n, true
}

// NodeCount returns the number of nodes.
func (s *Store) NodeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.nodes)
}

// HasReadyScript reports whether any script node in the graph is marked ready.
func (s *Store) HasReadyScript() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.nodes {
		if n.Type == NodeScript && n.Script != nil && n.Script.Ready {
			return true
		}
	}
	return false
}

// IncomingSources returns copies of the source nodes of all edges pointing at
// nodeID, in edge insertion order.
func (s *Store) IncomingSources(nodeID string) []Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Node
	for _, e := range s.edges {
		if e.Target != nodeID {
			continue
		}
		if i := s.indexOf(e.Source); i >= 0 {
			n := s.nodes[i]
			if n.Script != nil {
				sc := *n.Script
				n.Script = &sc
			}
			out = append(out, n)
		}
	}
	return out
}

// NextPosition returns where a new standalone node should land: just past the
// rightmost node, aligned with the lowest row.
func (s *Store) NextPosition() Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.nodes) == 0 {
		return SeedPosition
	}
	rightmost := s.nodes[0].Position.X + nodeWidth
	bottom := s.nodes[0].Position.Y
	for _, n := range s.nodes[1:] {
		if x := n.Position.X + nodeWidth; x > rightmost {
			rightmost = x
		}
		if n.Position.Y > bottom {
			bottom = n.Position.Y
		}
	}
	return Position{X: rightmost + nextStepGapX, Y: bottom}
}

// mutate runs fn against the live node under the lock. Used by the
// orchestrator to apply generation results; returns false (and fires no
// notification) when the node no longer exists, so stale async results are
// discarded rather than resurrecting deleted nodes.
func (s *Store) mutate(nodeID string, fn func(*Node)) bool {
	s.mu.Lock()
	i := s.indexOf(nodeID)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	fn(&s.nodes[i])
	if sc := s.nodes[i].Script; sc.hasSections() {
		s.nodes[i].Content = sc.derivedContent()
	}
	s.mu.Unlock()
	s.notify()
	return true
}
