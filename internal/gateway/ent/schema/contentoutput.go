package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
)

// ContentOutput holds the schema definition for the ContentOutput entity, one
// finished deliverable (script, description, hashtags, title) of a project.
type ContentOutput struct {
	ent.Schema
}

func (ContentOutput) Fields() []ent.Field {
	return []ent.Field{
		field.Int("id").
			Unique().
			Immutable(),
		field.Enum("kind").
			Values("title", "description", "hashtags", "script", "hooks"),
		field.Text("content").
			NotEmpty(),
		field.Time("created_at").
			Default(time.Now),
	}
}

func (ContentOutput) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("project", Project.Type).
			Ref("outputs").
			Unique(),
	}
}
