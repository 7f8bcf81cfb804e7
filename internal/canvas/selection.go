package canvas

import "sync"

// Selection is the ephemeral view of what is currently selected. It is never
// persisted; it only gates which toolbar operations are offerable.
type Selection struct {
	NodeID      string   `json:"nodeId,omitempty"`
	NodeType    NodeType `json:"nodeType,omitempty"`
	NodeContent string   `json:"nodeContent,omitempty"`
	EdgeIDs     []string `json:"edgeIds,omitempty"`
}

// Controller tracks single-node-or-many-edges selection for one workspace.
// Selecting a node clears edge selection and vice versa.
type Controller struct {
	mu      sync.Mutex
	store   *Store
	nodeID  string
	edgeIDs []string
}

// NewController creates a selection controller bound to a store.
func NewController(store *Store) *Controller {
	return &Controller{store: store}
}

// SelectNode selects a single node, clearing any edge selection. Selecting a
// node that does not exist clears the selection instead.
func (c *Controller) SelectNode(nodeID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.store.Node(nodeID); !ok {
		c.nodeID = ""
		c.edgeIDs = nil
		return false
	}
	c.nodeID = nodeID
	c.edgeIDs = nil
	return true
}

// SelectEdges selects a set of edges, clearing any node selection.
func (c *Controller) SelectEdges(edgeIDs []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nodeID = ""
	c.edgeIDs = append([]string(nil), edgeIDs...)
}

// Clear empties the selection.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nodeID = ""
	c.edgeIDs = nil
}

// Current returns the selection with node type/content refreshed from the
// store. A selected node that has since been removed resets the selection.
func (c *Controller) Current() Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.nodeID != "" {
		n, ok := c.store.Node(c.nodeID)
		if !ok {
			c.nodeID = ""
			return Selection{}
		}
		return Selection{NodeID: n.ID, NodeType: n.Type, NodeContent: n.Content}
	}
	if len(c.edgeIDs) > 0 {
		return Selection{EdgeIDs: append([]string(nil), c.edgeIDs...)}
	}
	return Selection{}
}

// HasSelection reports whether anything is selected.
func (c *Controller) HasSelection() bool {
	sel := c.Current()
	return sel.NodeID != "" || len(sel.EdgeIDs) > 0
}

// CanAddSubIdeas reports whether the sub-idea brainstorm is offerable for the
// current selection. The non-empty-content precondition is checked here so the
// toolbar can disable the action up front.
func (c *Controller) CanAddSubIdeas() bool {
	sel := c.Current()
	return sel.NodeID != "" && CanBrainstormSubIdeas(sel.NodeType) && trimmed(sel.NodeContent) != ""
}

// CanAddNextStep reports whether a forward-chain step can be added from the
// current selection.
func (c *Controller) CanAddNextStep() bool {
	sel := c.Current()
	return sel.NodeID != "" && sel.NodeType != NodeIdeaBlock && len(NextStepTypes(sel.NodeType)) > 0
}

// CanAddIdeaBlock reports whether an auxiliary idea block can attach to the
// current selection.
func (c *Controller) CanAddIdeaBlock() bool {
	sel := c.Current()
	return sel.NodeID != "" && CanAddIdeaBlock(sel.NodeType)
}

// HasAnyReadyScript is graph-wide, not selection-scoped.
func (c *Controller) HasAnyReadyScript() bool {
	return c.store.HasReadyScript()
}

// PruneRemoved resets the selection when it references removed entities.
func (c *Controller) PruneRemoved(nodeIDs, edgeIDs []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range nodeIDs {
		if id == c.nodeID {
			c.nodeID = ""
			c.edgeIDs = nil
			return
		}
	}
	if len(c.edgeIDs) == 0 {
		return
	}
	removed := make(map[string]struct{}, len(edgeIDs))
	for _, id := range edgeIDs {
		removed[id] = struct{}{}
	}
	kept := c.edgeIDs[:0]
	for _, id := range c.edgeIDs {
		if _, gone := removed[id]; !gone {
			kept = append(kept, id)
		}
	}
	c.edgeIDs = kept
}
