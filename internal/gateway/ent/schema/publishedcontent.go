package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// PublishedContent holds the schema definition for the PublishedContent
// entity: content that went live and its performance.
type PublishedContent struct {
	ent.Schema
}

func (PublishedContent) Fields() []ent.Field {
	return []ent.Field{
		field.String("published_id").
			Unique().
			Immutable(),
		field.String("project_id").
			Default(""),
		field.String("title").
			Default("Untitled"),
		field.String("platform").
			Default(""),
		field.String("url").
			Default(""),
		field.Int64("views").
			Default(-1),
		field.Time("published_at").
			Default(time.Now),
	}
}

func (PublishedContent) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("channel", Channel.Type).
			Ref("published").
			Unique(),
	}
}

func (PublishedContent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("views"),
	}
}
