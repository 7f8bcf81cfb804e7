package projectstore

import (
	"context"
	"encoding/json"
	"fmt"

	"reelforge/internal/canvas"
)

// GraphSaver adapts the store to the canvas persistence contract.
type GraphSaver struct {
	store *Store
}

func NewGraphSaver(store *Store) *GraphSaver {
	return &GraphSaver{store: store}
}

var _ canvas.Saver = (*GraphSaver)(nil)

func (g *GraphSaver) SaveGraph(_ context.Context, workspaceID string, graph canvas.Graph) error {
	if g == nil || g.store == nil {
		return nil
	}
	b, err := json.Marshal(graph)
	if err != nil {
		return fmt.Errorf("encode graph: %w", err)
	}
	if err := g.store.SaveGraph(workspaceID, b); err != nil {
		return fmt.Errorf("save graph %s: %w", workspaceID, err)
	}
	return nil
}

// LoadGraph decodes the stored graph; a missing or corrupt graph returns nil
// so the caller can start fresh.
func (g *GraphSaver) LoadGraph(workspaceID string) *canvas.Graph {
	if g == nil || g.store == nil {
		return nil
	}
	raw, ok := g.store.LoadGraph(workspaceID)
	if !ok {
		return nil
	}
	var graph canvas.Graph
	if err := json.Unmarshal(raw, &graph); err != nil {
		return nil
	}
	return &graph
}
