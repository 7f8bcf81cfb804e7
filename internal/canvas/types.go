package canvas

import (
	"encoding/json"
	"strings"
)

// NodeType is one step in the content development chain:
// idea → sub-idea → hook → script → description/hashtags.
// ideaBlock is an auxiliary context node feeding a generation step.
type NodeType string

const (
	NodeIdea        NodeType = "idea"
	NodeSubIdea     NodeType = "subIdea"
	NodeHook        NodeType = "hook"
	NodeScript      NodeType = "script"
	NodeDescription NodeType = "description"
	NodeHashtags    NodeType = "hashtags"
	NodeIdeaBlock   NodeType = "ideaBlock"
)

// NodeTypes lists every valid node type.
var NodeTypes = []NodeType{
	NodeIdea, NodeSubIdea, NodeHook, NodeScript, NodeDescription, NodeHashtags, NodeIdeaBlock,
}

func ValidNodeType(t NodeType) bool {
	for _, v := range NodeTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Position is a presentational 2D coordinate; never validated against other nodes.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ScriptSection names one of the three editable script sections.
type ScriptSection string

const (
	SectionHook ScriptSection = "hook"
	SectionBody ScriptSection = "body"
	SectionEnd  ScriptSection = "end"
)

// ScriptData carries state that only exists on script nodes. Keeping it behind
// a pointer makes ready/hookLocked unrepresentable on other node types.
type ScriptData struct {
	Hook string
	Body string
	End  string
	// Ready gates downstream description/hashtags generation.
	Ready bool
	// HookLocked marks a hook section seeded from a connected hook node.
	HookLocked bool
}

func (s *ScriptData) hasSections() bool {
	return s != nil && (s.Hook != "" || s.Body != "" || s.End != "")
}

// derivedContent joins the non-empty sections in hook→body→end order with a
// blank line between them.
func (s *ScriptData) derivedContent() string {
	if s == nil {
		return ""
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{s.Hook, s.Body, s.End} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Node is one unit of creative content at a single development stage.
// Content is the primary text payload; for script nodes with populated
// sections, Content is the derived join and the sections are authoritative.
type Node struct {
	ID            string
	Type          NodeType
	Position      Position
	Content       string
	Label         string
	InputDisabled bool
	Script        *ScriptData
}

// Edge is a directed relationship: target was derived from source.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is the serializable unit of persistence for one workspace.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// IsEmpty reports whether the graph has no nodes.
func (g *Graph) IsEmpty() bool { return g == nil || len(g.Nodes) == 0 }

// Clone returns a deep copy safe to hand across goroutines.
func (g Graph) Clone() Graph {
	out := Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
	}
	copy(out.Edges, g.Edges)
	for i, n := range g.Nodes {
		if n.Script != nil {
			sc := *n.Script
			n.Script = &sc
		}
		out.Nodes[i] = n
	}
	return out
}

// nodeWire is the stored JSON shape. It matches the layout the web canvas
// persisted historically: the per-node payload nests under "data".
type nodeWire struct {
	ID       string       `json:"id"`
	Type     NodeType     `json:"type"`
	Position Position     `json:"position"`
	Data     nodeWireData `json:"data"`
}

type nodeWireData struct {
	Content       string `json:"content"`
	Label         string `json:"label,omitempty"`
	Ready         bool   `json:"ready,omitempty"`
	InputDisabled bool   `json:"inputDisabled,omitempty"`
	ScriptHook    string `json:"scriptHook,omitempty"`
	ScriptBody    string `json:"scriptBody,omitempty"`
	ScriptEnd     string `json:"scriptEnd,omitempty"`
	HookLocked    bool   `json:"hookLocked,omitempty"`
}

func (n Node) MarshalJSON() ([]byte, error) {
	w := nodeWire{
		ID:       n.ID,
		Type:     n.Type,
		Position: n.Position,
		Data: nodeWireData{
			Content:       n.Content,
			Label:         n.Label,
			InputDisabled: n.InputDisabled,
		},
	}
	if n.Script != nil {
		w.Data.Ready = n.Script.Ready
		w.Data.ScriptHook = n.Script.Hook
		w.Data.ScriptBody = n.Script.Body
		w.Data.ScriptEnd = n.Script.End
		w.Data.HookLocked = n.Script.HookLocked
	}
	return json.Marshal(w)
}

func (n *Node) UnmarshalJSON(b []byte) error {
	var w nodeWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	n.ID = w.ID
	n.Type = w.Type
	n.Position = w.Position
	n.Content = w.Data.Content
	n.Label = w.Data.Label
	n.InputDisabled = w.Data.InputDisabled
	n.Script = nil
	if w.Type == NodeScript {
		n.Script = &ScriptData{
			Hook:       w.Data.ScriptHook,
			Body:       w.Data.ScriptBody,
			End:        w.Data.ScriptEnd,
			Ready:      w.Data.Ready,
			HookLocked: w.Data.HookLocked,
		}
		if n.Script.hasSections() {
			n.Content = n.Script.derivedContent()
		}
	}
	return nil
}
