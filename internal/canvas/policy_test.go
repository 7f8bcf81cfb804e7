package canvas

import "testing"

func TestNextStepTypes(t *testing.T) {
	cases := []struct {
		current NodeType
		want    []NodeType
	}{
		{NodeIdea, []NodeType{NodeHook, NodeScript, NodeDescription, NodeHashtags}},
		{NodeSubIdea, []NodeType{NodeHook, NodeScript, NodeDescription, NodeHashtags}},
		{NodeHook, []NodeType{NodeScript, NodeDescription, NodeHashtags}},
		{NodeScript, []NodeType{NodeHook, NodeDescription, NodeHashtags}},
		{NodeDescription, []NodeType{NodeHook, NodeScript, NodeHashtags}},
		{NodeHashtags, nil},
	}
	for _, c := range cases {
		got := NextStepTypes(c.current)
		if len(got) != len(c.want) {
			t.Fatalf("NextStepTypes(%s) = %v, want %v", c.current, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("NextStepTypes(%s) = %v, want %v", c.current, got, c.want)
			}
		}
	}
}

func TestCanBrainstormSubIdeas(t *testing.T) {
	for _, nt := range NodeTypes {
		want := nt == NodeIdea || nt == NodeSubIdea
		if got := CanBrainstormSubIdeas(nt); got != want {
			t.Fatalf("CanBrainstormSubIdeas(%s) = %v, want %v", nt, got, want)
		}
	}
}

func TestCanAddIdeaBlock(t *testing.T) {
	for _, nt := range NodeTypes {
		want := nt == NodeHook || nt == NodeScript || nt == NodeDescription || nt == NodeHashtags
		if got := CanAddIdeaBlock(nt); got != want {
			t.Fatalf("CanAddIdeaBlock(%s) = %v, want %v", nt, got, want)
		}
	}
}

func TestRequiresReadyScript(t *testing.T) {
	for _, nt := range NodeTypes {
		want := nt == NodeDescription || nt == NodeHashtags
		if got := RequiresReadyScript(nt); got != want {
			t.Fatalf("RequiresReadyScript(%s) = %v, want %v", nt, got, want)
		}
	}
}

func TestDefaultLabel(t *testing.T) {
	if got := DefaultLabel(NodeIdeaBlock); got != "Idea for this" {
		t.Fatalf("DefaultLabel(ideaBlock) = %q", got)
	}
	if got := DefaultLabel(NodeType("mystery")); got != "mystery" {
		t.Fatalf("unknown type label = %q, want the raw type", got)
	}
}
