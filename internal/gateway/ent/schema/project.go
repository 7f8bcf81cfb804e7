package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
)

// Project holds the schema definition for the Project entity: one video in
// the making with its canvas graph and continuity metadata.
type Project struct {
	ent.Schema
}

func (Project) Fields() []ent.Field {
	return []ent.Field{
		field.String("project_id").
			Unique().
			Immutable(),
		field.Text("content").
			Default(""),
		field.Enum("status").
			Values("draft", "scripted", "published").
			Default("draft"),
		field.String("sequence_label").
			Default(""),
		field.Text("story_beat").
			Default(""),
		field.Text("summary").
			Default(""),
		field.JSON("graph_data", map[string]any{}).
			Optional(),
		field.Time("created_at").
			Default(time.Now),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

func (Project) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("channel", Channel.Type).
			Ref("projects").
			Unique(),
		edge.To("outputs", ContentOutput.Type),
	}
}
