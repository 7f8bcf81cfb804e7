package channelstore

import (
	"path/filepath"
	"testing"
)

func TestFilePutGetByUser(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "channels.json"))
	s.Put(Channel{ChannelID: "c1", UserID: "u1", Name: "fit-with-mia"})

	got, ok := s.GetByUser("u1")
	if !ok || got.Name != "fit-with-mia" {
		t.Fatalf("GetByUser = %+v ok=%v", got, ok)
	}
	if _, ok := s.GetByUser("u2"); ok {
		t.Fatalf("GetByUser matched the wrong user")
	}
}

func TestFileUpdateNormalizesBuckets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.json")
	s := New(path)
	s.Put(Channel{ChannelID: "c1", UserID: "u1"})

	got, ok := s.Update("c1", func(c *Channel) {
		c.Buckets = []Bucket{
			{BucketID: "b1", Name: "Recipes"},
			{BucketID: "b2", Name: "   "},
		}
	})
	if !ok {
		t.Fatalf("Update failed")
	}
	if len(got.Buckets) != 1 || got.Buckets[0].Name != "Recipes" {
		t.Fatalf("buckets = %+v, want nameless bucket dropped", got.Buckets)
	}

	// Survives reload.
	reloaded := New(path)
	got, ok = reloaded.Get("c1")
	if !ok || len(got.Buckets) != 1 {
		t.Fatalf("reload = %+v ok=%v", got, ok)
	}
}

func TestFileDefaultName(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "channels.json"))
	s.Put(Channel{ChannelID: "c1", UserID: "u1", Name: "  "})
	got, _ := s.Get("c1")
	if got.Name != "My channel" {
		t.Fatalf("name = %q, want default", got.Name)
	}
}
