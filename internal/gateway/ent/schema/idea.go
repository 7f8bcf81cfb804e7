package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Idea holds the schema definition for the Idea entity, one idea-bank entry.
type Idea struct {
	ent.Schema
}

func (Idea) Fields() []ent.Field {
	return []ent.Field{
		field.String("idea_id").
			Unique().
			Immutable(),
		field.String("bucket_id").
			Default(""),
		field.Text("content").
			NotEmpty(),
		field.Enum("source").
			Values("manual", "generated").
			Default("manual"),
		field.Bool("archived").
			Default(false),
		field.Time("created_at").
			Default(time.Now),
	}
}

func (Idea) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("channel", Channel.Type).
			Ref("ideas").
			Unique(),
	}
}

func (Idea) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("archived"),
	}
}
