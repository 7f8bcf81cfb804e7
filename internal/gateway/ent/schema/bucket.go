package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
)

// Bucket holds the schema definition for the Bucket entity, one content theme
// within a channel.
type Bucket struct {
	ent.Schema
}

func (Bucket) Fields() []ent.Field {
	return []ent.Field{
		field.String("bucket_id").
			Unique().
			Immutable(),
		field.String("name").
			NotEmpty(),
		field.String("description").
			Default(""),
	}
}

func (Bucket) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("channel", Channel.Type).
			Ref("buckets").
			Unique(),
	}
}
