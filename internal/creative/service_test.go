package creative

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"reelforge/internal/llmclient"
)

// fakeLLM returns the canned raw JSON and records the prompts it saw.
type fakeLLM struct {
	raw     string
	err     error
	prompts []string
	inputs  []any
}

func (f *fakeLLM) Name() string { return "fake" }
func (f *fakeLLM) Close() error { return nil }
func (f *fakeLLM) GenerateJSON(_ context.Context, prompt string, input any) (json.RawMessage, error) {
	f.prompts = append(f.prompts, prompt)
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(f.raw), nil
}

func fixedLoader(profile ChannelProfile) ProfileLoader {
	return ProfileLoaderFunc(func(context.Context, string) (ChannelProfile, error) {
		return profile, nil
	})
}

func newTestService(llm llmclient.Client) *Service {
	loader := fixedLoader(ChannelProfile{ChannelName: "fit-with-mia", CoreAudience: "busy parents"})
	return NewService(llm, NewContextCache(loader), nil)
}

func TestGenerateIdeasParsesAndCaps(t *testing.T) {
	llm := &fakeLLM{raw: `{"ideas":["a","b","c","d","e"]}`}
	gen := newTestService(llm).ForChannel("ch1")

	ideas, err := gen.GenerateIdeas(context.Background(), 3)
	if err != nil {
		t.Fatalf("GenerateIdeas: %v", err)
	}
	if len(ideas) != 3 {
		t.Fatalf("ideas = %v, want capped at 3", ideas)
	}
	if !strings.Contains(llm.prompts[0], `"ideas"`) {
		t.Fatalf("system prompt does not ask for the ideas JSON shape")
	}
}

func TestGenerateHooksPassesChannelContext(t *testing.T) {
	llm := &fakeLLM{raw: `{"hooks":["h1","h2","h3"]}`}
	gen := newTestService(llm).ForChannel("ch1")

	hooks, err := gen.GenerateHooks(context.Background(), "5am routine", "extra creator notes")
	if err != nil {
		t.Fatalf("GenerateHooks: %v", err)
	}
	if len(hooks) != 3 {
		t.Fatalf("hooks = %v", hooks)
	}
	prompt := llm.prompts[0]
	if !strings.Contains(prompt, "Channel name: fit-with-mia") {
		t.Fatalf("channel context missing from prompt:\n%s", prompt)
	}
	if !strings.Contains(prompt, "extra creator notes") {
		t.Fatalf("auxiliary context missing from prompt:\n%s", prompt)
	}
}

func TestGenerateScriptWithOpeningHook(t *testing.T) {
	llm := &fakeLLM{raw: `{"hook":"H","body":"B","end":"E"}`}
	gen := newTestService(llm).ForChannel("ch1")

	res, err := gen.GenerateScript(context.Background(), "idea", "", "Did you know?")
	if err != nil {
		t.Fatalf("GenerateScript: %v", err)
	}
	if res.Hook != "H" || res.Body != "B" || res.End != "E" {
		t.Fatalf("res = %+v", res)
	}
	if !strings.Contains(llm.prompts[0], "Did you know?") {
		t.Fatalf("opening hook missing from prompt")
	}
	if !strings.Contains(llm.prompts[0], "Use the given opening hook") {
		t.Fatalf("opening hook instruction missing from prompt")
	}
}

func TestRefineNoteRejectsRefusals(t *testing.T) {
	llm := &fakeLLM{raw: `{"text":"I cannot work with this; provide more details."}`}
	gen := newTestService(llm).ForChannel("ch1")

	if _, err := gen.RefineNote(context.Background(), "??"); err != ErrUnusableNote {
		t.Fatalf("err = %v, want ErrUnusableNote", err)
	}
}

func TestRefineNoteReturnsTrimmedText(t *testing.T) {
	llm := &fakeLLM{raw: `{"text":"  A sharper version.  "}`}
	gen := newTestService(llm).ForChannel("ch1")

	got, err := gen.RefineNote(context.Background(), "rough")
	if err != nil {
		t.Fatalf("RefineNote: %v", err)
	}
	if got != "A sharper version." {
		t.Fatalf("got %q", got)
	}
}

func TestGenerateDescriptionUnwrapsText(t *testing.T) {
	llm := &fakeLLM{raw: `{"text":"A two sentence description."}`}
	gen := newTestService(llm).ForChannel("ch1")

	got, err := gen.GenerateDescription(context.Background(), "idea", "")
	if err != nil {
		t.Fatalf("GenerateDescription: %v", err)
	}
	if got != "A two sentence description." {
		t.Fatalf("got %q", got)
	}
}

func TestInvalidJSONSurfacesAsInvalid(t *testing.T) {
	llm := &fakeLLM{raw: `not json at all`}
	gen := newTestService(llm).ForChannel("ch1")

	if _, err := gen.GenerateIdeas(context.Background(), 3); err != llmclient.ErrInvalidJSON {
		t.Fatalf("err = %v, want ErrInvalidJSON", err)
	}
}

func TestContextCacheHitsOnce(t *testing.T) {
	loads := 0
	loader := ProfileLoaderFunc(func(context.Context, string) (ChannelProfile, error) {
		loads++
		return ChannelProfile{ChannelName: "c"}, nil
	})
	cache := NewContextCache(loader)
	svc := NewService(&fakeLLM{raw: `{"ideas":["x"]}`}, cache, nil)
	gen := svc.ForChannel("ch1")

	for i := 0; i < 5; i++ {
		if _, err := gen.GenerateIdeas(context.Background(), 1); err != nil {
			t.Fatalf("GenerateIdeas: %v", err)
		}
	}
	if loads != 1 {
		t.Fatalf("profile loaded %d times, want 1 (cached)", loads)
	}

	svc.InvalidateContext("ch1")
	if _, err := gen.GenerateIdeas(context.Background(), 1); err != nil {
		t.Fatalf("GenerateIdeas: %v", err)
	}
	if loads != 2 {
		t.Fatalf("profile loaded %d times after invalidate, want 2", loads)
	}
}

func TestSuggestGoalsAndBuckets(t *testing.T) {
	llm := &fakeLLM{raw: `{"goals":"Grow to 10k","buckets":[{"name":"Recipes","description":"Quick meals"}]}`}
	svc := newTestService(llm)

	got, err := svc.SuggestGoalsAndBuckets(context.Background(), "both", "fit-with-mia", "parents", "", nil)
	if err != nil {
		t.Fatalf("SuggestGoalsAndBuckets: %v", err)
	}
	if got.Goals != "Grow to 10k" || len(got.Buckets) != 1 || got.Buckets[0].Name != "Recipes" {
		t.Fatalf("got %+v", got)
	}

	if _, err := svc.SuggestGoalsAndBuckets(context.Background(), "nope", "c", "", "", nil); err == nil {
		t.Fatalf("unknown mode accepted")
	}
}
