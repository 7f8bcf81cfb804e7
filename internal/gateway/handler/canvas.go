package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"reelforge/internal/canvas"
	"reelforge/internal/gateway/service/workspace"
)

var errUnknownOp = errors.New("unknown op")

// CanvasHandler exposes the canvas engine over plain JSON endpoints. The
// websocket session in canvas_ws.go shares the same op dispatch.
type CanvasHandler struct {
	workspaces *workspace.Manager
}

func NewCanvasHandler(workspaces *workspace.Manager) *CanvasHandler {
	return &CanvasHandler{workspaces: workspaces}
}

// canvasState is the snapshot payload returned after every operation so the
// client never has to reconcile partial updates.
type canvasState struct {
	Graph        canvas.Graph        `json:"graph"`
	Selection    canvas.Selection    `json:"selection"`
	Capabilities canvas.Capabilities `json:"capabilities"`
}

func stateOf(e *canvas.Engine) canvasState {
	return canvasState{
		Graph:        e.Snapshot(),
		Selection:    e.Selection(),
		Capabilities: e.Capabilities(),
	}
}

func (h *CanvasHandler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	e, err := h.workspaces.Open(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, stateOf(e))
}

func (h *CanvasHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	e, ok := h.workspaces.Get(r.PathValue("id"))
	if !ok {
		http.Error(w, "canvas not open", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, stateOf(e))
}

func (h *CanvasHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	h.workspaces.Close(r.PathValue("id"))
	writeJSON(w, http.StatusOK, map[string]any{"closed": true})
}

// canvasOp is one client-initiated canvas operation. Only the fields the
// named op uses are read.
type canvasOp struct {
	Op       string   `json:"op"`
	NodeID   string   `json:"nodeId"`
	NodeType string   `json:"nodeType"`
	Content  string   `json:"content"`
	Section  string   `json:"section"`
	Ready    bool     `json:"ready"`
	SourceID string   `json:"sourceId"`
	TargetID string   `json:"targetId"`
	NodeIDs  []string `json:"nodeIds"`
	EdgeIDs  []string `json:"edgeIds"`
}

func (h *CanvasHandler) HandleOp(w http.ResponseWriter, r *http.Request) {
	e, err := h.workspaces.Open(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	var op canvasOp
	if err := json.NewDecoder(r.Body).Decode(&op); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	result, err := applyOp(r.Context(), e, op)
	if errors.Is(err, errUnknownOp) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": result, "state": stateOf(e)})
}

// applyOp dispatches one operation to the engine. Generation ops block until
// the result is applied or discarded; structural ops return immediately.
func applyOp(ctx context.Context, e *canvas.Engine, op canvasOp) (any, error) {
	switch op.Op {
	case "addIdea":
		return map[string]any{"nodeId": e.AddIdea()}, nil
	case "addNextStep":
		id, err := e.AddNextStep(canvas.NodeType(op.NodeType))
		if err != nil {
			return nil, err
		}
		return map[string]any{"nodeId": id}, nil
	case "addIdeaBlock":
		id, err := e.AddIdeaBlock()
		if err != nil {
			return nil, err
		}
		return map[string]any{"nodeId": id}, nil
	case "updateContent":
		e.UpdateContent(op.NodeID, op.Content)
		return nil, nil
	case "updateScriptSection":
		e.UpdateScriptSection(op.NodeID, canvas.ScriptSection(op.Section), op.Content)
		return nil, nil
	case "setReady":
		e.SetReady(op.NodeID, op.Ready)
		return nil, nil
	case "connect":
		id, ok := e.Connect(op.SourceID, op.TargetID)
		if !ok {
			return nil, canvas.NewPreconditionError("cannot connect %s to %s", op.SourceID, op.TargetID)
		}
		return map[string]any{"edgeId": id}, nil
	case "selectNode":
		e.SelectNode(op.NodeID)
		return nil, nil
	case "selectEdges":
		e.SelectEdges(op.EdgeIDs)
		return nil, nil
	case "clearSelection":
		e.ClearSelection()
		return nil, nil
	case "deleteSelection":
		e.DeleteSelection()
		return nil, nil
	case "removeSelected":
		e.RemoveSelected(op.NodeIDs, op.EdgeIDs)
		return nil, nil
	case "brainstorm":
		outcome, err := e.Brainstorm(ctx, op.NodeID, op.Content)
		if err != nil {
			return nil, err
		}
		return outcome, nil
	case "generateIdeas":
		ids, err := e.GenerateIdeas(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"nodeIds": ids}, nil
	case "brainstormSubIdeas":
		ids, err := e.BrainstormSubIdeas(ctx, op.NodeID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"nodeIds": ids}, nil
	case "flush":
		e.Flush()
		return nil, nil
	default:
		return nil, fmt.Errorf("%w %q", errUnknownOp, op.Op)
	}
}
