package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Origin is enforced by the CORS layer; the socket accepts any upgrade.
	CheckOrigin: func(*http.Request) bool { return true },
}

// wsMessage is one frame in either direction.
type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Result  any             `json:"result,omitempty"`
	State   *canvasState    `json:"state,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// HandleSocket runs an interactive canvas session over one websocket. Each
// "op" frame applies one engine operation and answers with the full state.
//
// Rendering layers emit their own node/edge change events when they redraw;
// those arrive as "nodesChange"/"edgesChange" frames and are ignored here.
// Removal only ever happens through an explicit deleteSelection or
// removeSelected op.
func (h *CanvasHandler) HandleSocket(w http.ResponseWriter, r *http.Request) {
	e, err := h.workspaces.Open(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	var writeMu sync.Mutex
	send := func(msg wsMessage) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("canvas ws %s: write failed: %v", e.WorkspaceID(), err)
		}
	}

	state := stateOf(e)
	send(wsMessage{Type: "state", State: &state})

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		switch msg.Type {
		case "op":
			var op canvasOp
			if err := json.Unmarshal(msg.Payload, &op); err != nil {
				send(wsMessage{Type: "error", Error: "invalid op payload"})
				continue
			}
			// Generation ops can take seconds; run them off the read loop so
			// the client can keep editing.
			go func() {
				result, err := applyOp(r.Context(), e, op)
				if err != nil {
					send(wsMessage{Type: "error", Error: err.Error()})
					return
				}
				state := stateOf(e)
				send(wsMessage{Type: "state", Result: result, State: &state})
			}()
		case "nodesChange", "edgesChange":
			// Framework-originated churn. Dropped on purpose.
		case "ping":
			send(wsMessage{Type: "pong"})
		default:
			send(wsMessage{Type: "error", Error: "unknown message type"})
		}
	}
}
