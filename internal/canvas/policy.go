package canvas

// Pure decision logic for which operations a node type admits. No state lives
// here; the orchestrator and selection controller consult these to gate
// operations.

// nodeLabels are the default display labels per type.
var nodeLabels = map[NodeType]string{
	NodeIdea:        "Core idea",
	NodeSubIdea:     "Sub-idea",
	NodeHook:        "Hook",
	NodeScript:      "Script",
	NodeDescription: "Description",
	NodeHashtags:    "Hashtags",
	NodeIdeaBlock:   "Idea for this",
}

// DefaultLabel returns the display label for a node type.
func DefaultLabel(t NodeType) string {
	if l, ok := nodeLabels[t]; ok {
		return l
	}
	return string(t)
}

// forwardChain is the ordered hook→script→description→hashtags progression.
var forwardChain = []NodeType{NodeHook, NodeScript, NodeDescription, NodeHashtags}

// NextStepTypes returns the forward-chain types that may follow the current
// type, in order. hashtags is terminal and returns nothing. The current type
// itself is excluded.
func NextStepTypes(current NodeType) []NodeType {
	if current == NodeHashtags {
		return nil
	}
	out := make([]NodeType, 0, len(forwardChain))
	for _, t := range forwardChain {
		if t != current {
			out = append(out, t)
		}
	}
	return out
}

// CanBrainstormSubIdeas reports whether sub-ideas may branch off this type.
func CanBrainstormSubIdeas(current NodeType) bool {
	return current == NodeIdea || current == NodeSubIdea
}

// CanAddIdeaBlock reports whether an auxiliary idea block may feed this type.
// Idea blocks attach to generation steps, never to idea/subIdea nodes.
func CanAddIdeaBlock(current NodeType) bool {
	switch current {
	case NodeHook, NodeScript, NodeDescription, NodeHashtags:
		return true
	}
	return false
}

// RequiresReadyScript reports whether generating this type needs at least one
// script node marked ready somewhere in the graph.
func RequiresReadyScript(target NodeType) bool {
	return target == NodeDescription || target == NodeHashtags
}

// IsGeneratable reports whether "brainstorm" on an empty node of this type
// means generate-from-upstream-context rather than refine-existing-text.
func IsGeneratable(t NodeType) bool {
	switch t {
	case NodeHook, NodeScript, NodeDescription, NodeHashtags:
		return true
	}
	return false
}
