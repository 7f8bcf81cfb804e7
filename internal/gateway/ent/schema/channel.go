package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Channel holds the schema definition for the Channel entity.
type Channel struct {
	ent.Schema
}

// Fields of the Channel.
func (Channel) Fields() []ent.Field {
	return []ent.Field{
		field.String("channel_id").
			Unique().
			Immutable(),
		field.String("user_id").
			NotEmpty(),
		field.String("name").
			Default("My channel"),
		field.String("core_audience").
			Default(""),
		field.Text("goals").
			Default(""),
		field.JSON("inspiration_notes", []string{}).
			Optional(),
		field.String("hooks_path").
			Default(""),
		field.Time("created_at").
			Default(time.Now),
	}
}

// Edges of the Channel.
func (Channel) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("buckets", Bucket.Type),
		edge.To("ideas", Idea.Type),
		edge.To("projects", Project.Type),
		edge.To("published", PublishedContent.Type),
	}
}

// Indexes of the Channel.
func (Channel) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id"),
	}
}
