package canvas

import (
	"context"
	"errors"
	"strings"
)

// VariantDelimiter separates hook variants when a generation result arrives
// as one combined string.
const VariantDelimiter = "\n---\n"

// fallbackContext stands in when the context node has no usable text yet.
const fallbackContext = "General content idea."

// defaultSubIdeaCount is a hint for the generator, not a hard guarantee.
const defaultSubIdeaCount = 4

// defaultIdeaBatch is the number of ideas the canvas toolbar asks for.
const defaultIdeaBatch = 3

// ScriptResult is the structured outcome of a script generation.
type ScriptResult struct {
	Hook string `json:"hook"`
	Body string `json:"body"`
	End  string `json:"end"`
}

// Generator is the external text-generation collaborator. Implementations
// bind it to an LLM; tests use fakes.
type Generator interface {
	GenerateIdeas(ctx context.Context, count int) ([]string, error)
	GenerateSubIdeas(ctx context.Context, parentContent string, count int) ([]string, error)
	RefineNote(ctx context.Context, content string) (string, error)
	GenerateHooks(ctx context.Context, contextContent, auxContext string) ([]string, error)
	GenerateScript(ctx context.Context, contextContent, auxContext, openingHook string) (ScriptResult, error)
	GenerateDescription(ctx context.Context, contextContent, auxContext string) (string, error)
	GenerateHashtags(ctx context.Context, contextContent, auxContext string) (string, error)
}

// BrainstormOutcome reports what a Brainstorm call did to the graph.
type BrainstormOutcome struct {
	// UpdatedNodeID is set when content was written into the originating node.
	UpdatedNodeID string `json:"updatedNodeId,omitempty"`
	// CreatedNodeIDs is set when a multi-variant result fanned out into new nodes.
	CreatedNodeIDs []string `json:"createdNodeIds,omitempty"`
	// RemovedNodeID is set when the originating placeholder was replaced by fan-out.
	RemovedNodeID string `json:"removedNodeId,omitempty"`
	// Discarded is true when the node disappeared before the result could apply.
	Discarded bool `json:"discarded,omitempty"`
}

// Orchestrator bridges node lifecycle events to the generation collaborator
// and applies interpreted results back to the store. It never mutates the
// graph on a failed generation, and it discards results whose target node was
// deleted while the call was in flight.
type Orchestrator struct {
	store *Store
	gen   Generator
}

// NewOrchestrator creates an orchestrator over a store and a generator.
func NewOrchestrator(store *Store, gen Generator) *Orchestrator {
	return &Orchestrator{store: store, gen: gen}
}

// Brainstorm is the per-node trigger. An empty generatable node means
// generate-from-upstream-context; anything else is a refine of the existing
// text. A missing node is a benign no-op.
func (o *Orchestrator) Brainstorm(ctx context.Context, nodeID, currentContent string) (BrainstormOutcome, error) {
	n, ok := o.store.Node(nodeID)
	if !ok {
		return BrainstormOutcome{Discarded: true}, nil
	}
	if IsGeneratable(n.Type) && trimmed(currentContent) == "" {
		return o.generateFromContext(ctx, n)
	}
	content := currentContent
	if trimmed(content) == "" {
		content = n.Content
	}
	refined, err := o.gen.RefineNote(ctx, content)
	if err != nil {
		return BrainstormOutcome{}, NewGenerationError(err)
	}
	applied := o.store.mutate(nodeID, func(nd *Node) {
		if nd.Script.hasSections() {
			// Sections stay authoritative; the refine lands in the body.
			nd.Script.Body = refined
			return
		}
		nd.Content = refined
	})
	if !applied {
		return BrainstormOutcome{Discarded: true}, nil
	}
	return BrainstormOutcome{UpdatedNodeID: nodeID}, nil
}

func (o *Orchestrator) generateFromContext(ctx context.Context, n Node) (BrainstormOutcome, error) {
	ctxNode, aux := o.resolveContext(n.ID)

	contextContent := fallbackContext
	ctxID := ""
	if ctxNode != nil {
		ctxID = ctxNode.ID
		if t := trimmed(ctxNode.Content); t != "" {
			contextContent = t
		}
	}
	openingHook := ""
	if n.Type == NodeScript && ctxNode != nil && ctxNode.Type == NodeHook {
		openingHook = trimmed(ctxNode.Content)
	}
	if RequiresReadyScript(n.Type) && !o.store.HasReadyScript() {
		return BrainstormOutcome{}, NewPreconditionError(
			"mark a script as ready before generating a %s", strings.ToLower(DefaultLabel(n.Type)))
	}

	var out BrainstormOutcome
	var err error
	switch n.Type {
	case NodeHook:
		out, err = o.applyHooks(ctx, n, ctxID, contextContent, aux)
	case NodeScript:
		out, err = o.applyScript(ctx, n, contextContent, aux, openingHook)
	case NodeDescription:
		out, err = o.applyText(ctx, n, contextContent, aux, o.gen.GenerateDescription)
	case NodeHashtags:
		out, err = o.applyText(ctx, n, contextContent, aux, o.gen.GenerateHashtags)
	default:
		return BrainstormOutcome{}, NewPreconditionError("node type %s cannot be generated", n.Type)
	}
	if err != nil || out.Discarded {
		return out, err
	}
	// The context node's output is now consumed downstream; treat it as settled.
	if ctxID != "" {
		o.store.mutate(ctxID, func(nd *Node) { nd.InputDisabled = true })
	}
	return out, nil
}

// resolveContext splits the incoming-edge sources of nodeID into the context
// node (first non-ideaBlock source) and the auxiliary context (blank-line join
// of all ideaBlock sources).
func (o *Orchestrator) resolveContext(nodeID string) (*Node, string) {
	srcs := o.store.IncomingSources(nodeID)
	var ctxNode *Node
	var auxParts []string
	for i := range srcs {
		if srcs[i].Type == NodeIdeaBlock {
			if t := trimmed(srcs[i].Content); t != "" {
				auxParts = append(auxParts, t)
			}
			continue
		}
		if ctxNode == nil {
			ctxNode = &srcs[i]
		}
	}
	return ctxNode, strings.Join(auxParts, "\n\n")
}

func (o *Orchestrator) applyHooks(ctx context.Context, n Node, ctxID, contextContent, aux string) (BrainstormOutcome, error) {
	variants, err := o.gen.GenerateHooks(ctx, contextContent, aux)
	if err != nil {
		return BrainstormOutcome{}, NewGenerationError(err)
	}
	kept := variants[:0]
	for _, v := range variants {
		if t := trimmed(v); t != "" {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return BrainstormOutcome{}, NewGenerationError(errors.New("empty hook result"))
	}
	if len(kept) == 1 {
		applied := o.store.mutate(n.ID, func(nd *Node) {
			nd.Content = kept[0]
			nd.InputDisabled = false
		})
		if !applied {
			return BrainstormOutcome{Discarded: true}, nil
		}
		return BrainstormOutcome{UpdatedNodeID: n.ID}, nil
	}

	// Fan-out: the placeholder node goes away; one read-only hook node per
	// variant lands near its position, each fed from the same context node.
	if _, ok := o.store.Node(n.ID); !ok {
		return BrainstormOutcome{Discarded: true}, nil
	}
	o.store.RemoveSelected([]string{n.ID}, nil)
	out := BrainstormOutcome{RemovedNodeID: n.ID}
	for i, v := range kept {
		pos := Position{X: n.Position.X, Y: n.Position.Y + float64(i)*variantSpacingY}
		id := o.store.AddNode(NodeHook, pos, NodeInit{Content: v, InputDisabled: true})
		if ctxID != "" {
			o.store.Connect(ctxID, id)
		}
		out.CreatedNodeIDs = append(out.CreatedNodeIDs, id)
	}
	return out, nil
}

func (o *Orchestrator) applyScript(ctx context.Context, n Node, contextContent, aux, openingHook string) (BrainstormOutcome, error) {
	res, err := o.gen.GenerateScript(ctx, contextContent, aux, openingHook)
	if err != nil {
		return BrainstormOutcome{}, NewGenerationError(err)
	}
	hook := trimmed(res.Hook)
	body := trimmed(res.Body)
	end := trimmed(res.End)
	locked := false
	if openingHook != "" {
		// The connected hook node owns the opening; the rest is body material.
		hook = openingHook
		locked = true
		if body == "" {
			body = trimmed(res.Hook)
		}
	}
	if hook == "" && body == "" && end == "" {
		return BrainstormOutcome{}, NewGenerationError(errors.New("empty script result"))
	}
	applied := o.store.mutate(n.ID, func(nd *Node) {
		if nd.Script == nil {
			nd.Script = &ScriptData{}
		}
		nd.Script.Hook = hook
		nd.Script.Body = body
		nd.Script.End = end
		nd.Script.HookLocked = locked
		// Freshly generated content must be re-reviewed.
		nd.Script.Ready = false
		nd.InputDisabled = false
	})
	if !applied {
		return BrainstormOutcome{Discarded: true}, nil
	}
	return BrainstormOutcome{UpdatedNodeID: n.ID}, nil
}

func (o *Orchestrator) applyText(ctx context.Context, n Node, contextContent, aux string,
	gen func(context.Context, string, string) (string, error)) (BrainstormOutcome, error) {
	text, err := gen(ctx, contextContent, aux)
	if err != nil {
		return BrainstormOutcome{}, NewGenerationError(err)
	}
	if trimmed(text) == "" {
		return BrainstormOutcome{}, NewGenerationError(errors.New("empty result"))
	}
	applied := o.store.mutate(n.ID, func(nd *Node) {
		nd.Content = trimmed(text)
		nd.InputDisabled = false
	})
	if !applied {
		return BrainstormOutcome{Discarded: true}, nil
	}
	return BrainstormOutcome{UpdatedNodeID: n.ID}, nil
}

// GenerateIdeas asks for a batch of fresh idea nodes, placed side by side
// after the rightmost existing node. An empty result is a no-op, not an error.
func (o *Orchestrator) GenerateIdeas(ctx context.Context) ([]string, error) {
	list, err := o.gen.GenerateIdeas(ctx, defaultIdeaBatch)
	if err != nil {
		return nil, NewGenerationError(err)
	}
	var ids []string
	pos := o.store.NextPosition()
	for _, content := range list {
		content = trimmed(content)
		if content == "" {
			continue
		}
		p := Position{X: pos.X + float64(len(ids))*ideaSpacingX, Y: pos.Y}
		ids = append(ids, o.store.AddNode(NodeIdea, p, NodeInit{Content: content}))
	}
	return ids, nil
}

// BrainstormSubIdeas fans sub-idea nodes out of a parent idea. The parent must
// have content; a parent deleted mid-flight discards the result.
func (o *Orchestrator) BrainstormSubIdeas(ctx context.Context, parentID string) ([]string, error) {
	parent, ok := o.store.Node(parentID)
	if !ok {
		return nil, nil
	}
	parentContent := trimmed(parent.Content)
	if parentContent == "" {
		return nil, NewPreconditionError("add some content to the idea before brainstorming sub-ideas")
	}
	list, err := o.gen.GenerateSubIdeas(ctx, parentContent, defaultSubIdeaCount)
	if err != nil {
		return nil, NewGenerationError(err)
	}
	if _, ok := o.store.Node(parentID); !ok {
		return nil, nil
	}
	var ids []string
	for _, content := range list {
		content = trimmed(content)
		if content == "" {
			continue
		}
		p := Position{
			X: parent.Position.X + subIdeaOffsetX,
			Y: parent.Position.Y + float64(len(ids))*subIdeaSpacingY,
		}
		id := o.store.AddNode(NodeSubIdea, p, NodeInit{Content: content})
		o.store.Connect(parentID, id)
		ids = append(ids, id)
	}
	return ids, nil
}

func trimmed(s string) string { return strings.TrimSpace(s) }
