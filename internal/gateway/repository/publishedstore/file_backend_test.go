package publishedstore

import (
	"path/filepath"
	"testing"
)

func TestFileTopPerformers(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "published.json"))
	s.Put(Published{PublishedID: "v1", ChannelID: "c1", Title: "low", Views: 100})
	s.Put(Published{PublishedID: "v2", ChannelID: "c1", Title: "high", Views: 90000})
	s.Put(Published{PublishedID: "v3", ChannelID: "c1", Title: "mid", Views: 5000})
	s.Put(Published{PublishedID: "v4", ChannelID: "c2", Title: "other", Views: 999999})

	top := s.TopPerformers("c1", 2)
	if len(top) != 2 {
		t.Fatalf("top = %d, want 2", len(top))
	}
	if top[0].Title != "high" || top[1].Title != "mid" {
		t.Fatalf("top = %+v", top)
	}
}

func TestFileSetViews(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "published.json"))
	s.Put(Published{PublishedID: "v1", ChannelID: "c1", Views: -1})

	if !s.SetViews("v1", 4200) {
		t.Fatalf("SetViews failed")
	}
	if s.SetViews("ghost", 1) {
		t.Fatalf("SetViews on missing item reported ok")
	}
	list := s.ListByChannel("c1")
	if len(list) != 1 || list[0].Views != 4200 {
		t.Fatalf("list = %+v", list)
	}
}
