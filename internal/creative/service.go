package creative

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"reelforge/internal/canvas"
	"reelforge/internal/llmclient"
)

// ErrUnusableNote means the model declined to refine the given text.
var ErrUnusableNote = errors.New("add a bit more text to the idea first")

// Service turns graph-level generation requests into LLM calls: it assembles
// the channel context, builds the prompt, and parses the structured result.
type Service struct {
	llm      llmclient.Client
	contexts *ContextCache
	hooks    *HookLibrary
}

// NewService wires the LLM client with the channel-context cache and the hook
// inspiration library. hooks may be nil.
func NewService(llm llmclient.Client, contexts *ContextCache, hooks *HookLibrary) *Service {
	return &Service{llm: llm, contexts: contexts, hooks: hooks}
}

// ForChannel binds the service to one channel, yielding the generator a canvas
// engine consumes.
func (s *Service) ForChannel(channelID string) *ChannelGenerator {
	return &ChannelGenerator{svc: s, channelID: channelID}
}

// InvalidateContext drops the cached context after a channel edit.
func (s *Service) InvalidateContext(channelID string) {
	s.contexts.Invalidate(channelID)
}

type textResult struct {
	Text string `json:"text"`
}

type ideasResult struct {
	Ideas []string `json:"ideas"`
}

type hooksResult struct {
	Hooks []string `json:"hooks"`
}

func (s *Service) generate(ctx context.Context, system string, input, out any) error {
	raw, err := s.llm.GenerateJSON(ctx, system, input)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return llmclient.ErrInvalidJSON
	}
	return nil
}

// ProjectSummary produces a one-line narrative summary of a finished script,
// stored for continuity in later prompts.
func (s *Service) ProjectSummary(ctx context.Context, scriptText string) (string, error) {
	const maxChars = 3000
	if len(scriptText) > maxChars {
		scriptText = scriptText[:maxChars]
	}
	var out textResult
	input := struct {
		Script string `json:"script"`
	}{Script: scriptText}
	if err := s.generate(ctx, projectSummarySystem, input, &out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Text), nil
}

// GoalsAndBucketsSuggestion is the channel-setup assist result.
type GoalsAndBucketsSuggestion struct {
	Goals   string             `json:"goals,omitempty"`
	Buckets []BucketSuggestion `json:"buckets,omitempty"`
}

// SuggestGoalsAndBuckets proposes goals and/or themed content buckets for a
// channel. mode is "goals", "buckets" or "both".
func (s *Service) SuggestGoalsAndBuckets(ctx context.Context, mode, channelName, coreAudience, currentGoals string, current []BucketSuggestion) (GoalsAndBucketsSuggestion, error) {
	var user string
	switch mode {
	case "goals":
		user = goalsUser(channelName, coreAudience, currentGoals)
	case "buckets":
		user = bucketsUser(channelName, current)
	case "both":
		user = goalsAndBucketsUser(channelName, coreAudience, currentGoals, current)
	default:
		return GoalsAndBucketsSuggestion{}, fmt.Errorf("creative: unknown suggestion mode %q", mode)
	}
	var out GoalsAndBucketsSuggestion
	input := struct {
		Request string `json:"request"`
	}{Request: user}
	if err := s.generate(ctx, goalsBucketsSystem, input, &out); err != nil {
		return GoalsAndBucketsSuggestion{}, err
	}
	return out, nil
}

// GenerateIdeasFromRough turns a creator's rough note into concrete ideas,
// keeping the original intent.
func (s *Service) GenerateIdeasFromRough(ctx context.Context, channelID, roughIdea string, count int) ([]string, error) {
	channelContext, err := s.contexts.Context(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if count <= 0 || count > 3 {
		count = 3
	}
	var out ideasResult
	input := struct {
		ChannelContext string `json:"channelContext"`
		RoughIdea      string `json:"roughIdea"`
		Count          int    `json:"count"`
		Instruction    string `json:"instruction"`
	}{
		ChannelContext: channelContext,
		RoughIdea:      roughIdea,
		Count:          count,
		Instruction:    "Turn this rough idea into concrete, actionable content ideas. Keep the creator's intent but make each idea specific and ready to film.",
	}
	if err := s.generate(ctx, ideasSystem, input, &out); err != nil {
		return nil, err
	}
	return capList(out.Ideas, count), nil
}

// ChannelGenerator is the per-channel view of the service. It satisfies the
// generation contract the canvas orchestrator expects.
type ChannelGenerator struct {
	svc       *Service
	channelID string
}

var _ canvas.Generator = (*ChannelGenerator)(nil)

func (g *ChannelGenerator) channelContext(ctx context.Context) (string, error) {
	return g.svc.contexts.Context(ctx, g.channelID)
}

func (g *ChannelGenerator) GenerateIdeas(ctx context.Context, count int) ([]string, error) {
	channelContext, err := g.channelContext(ctx)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		count = 3
	}
	var out ideasResult
	input := struct {
		ChannelContext string `json:"channelContext"`
		Count          int    `json:"count"`
	}{ChannelContext: channelContext, Count: count}
	if err := g.svc.generate(ctx, ideasSystem, input, &out); err != nil {
		return nil, err
	}
	return capList(out.Ideas, count), nil
}

func (g *ChannelGenerator) GenerateSubIdeas(ctx context.Context, parentContent string, count int) ([]string, error) {
	channelContext, err := g.channelContext(ctx)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		count = 4
	}
	var out ideasResult
	input := struct {
		ChannelContext string `json:"channelContext"`
		MainIdea       string `json:"mainIdea"`
		Count          int    `json:"count"`
	}{ChannelContext: channelContext, MainIdea: parentContent, Count: count}
	if err := g.svc.generate(ctx, subIdeasSystem, input, &out); err != nil {
		return nil, err
	}
	return capList(out.Ideas, count), nil
}

// refusal phrases the model emits when it cannot work with the given text.
var refusalPhrases = []string{
	"input is unclear", "provide more details", "can't assist", "i cannot", "i'm unable",
}

func (g *ChannelGenerator) RefineNote(ctx context.Context, content string) (string, error) {
	channelContext, err := g.channelContext(ctx)
	if err != nil {
		return "", err
	}
	var out textResult
	input := struct {
		Note string `json:"note"`
	}{Note: content}
	if err := g.svc.generate(ctx, refineSystem(channelContext), input, &out); err != nil {
		return "", err
	}
	result := strings.TrimSpace(out.Text)
	lower := strings.ToLower(result)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			return "", ErrUnusableNote
		}
	}
	return result, nil
}

func (g *ChannelGenerator) GenerateHooks(ctx context.Context, contextContent, auxContext string) ([]string, error) {
	channelContext, err := g.channelContext(ctx)
	if err != nil {
		return nil, err
	}
	system := contentSystem(channelContext, kindHooks, g.svc.hooks.Sample(), "", auxContext)
	var out hooksResult
	input := struct {
		Idea string `json:"idea"`
	}{Idea: contextContent}
	if err := g.svc.generate(ctx, system, input, &out); err != nil {
		return nil, err
	}
	return out.Hooks, nil
}

func (g *ChannelGenerator) GenerateScript(ctx context.Context, contextContent, auxContext, openingHook string) (canvas.ScriptResult, error) {
	channelContext, err := g.channelContext(ctx)
	if err != nil {
		return canvas.ScriptResult{}, err
	}
	system := contentSystem(channelContext, kindScript, nil, openingHook, auxContext)
	var out canvas.ScriptResult
	input := struct {
		Idea string `json:"idea"`
	}{Idea: contextContent}
	if err := g.svc.generate(ctx, system, input, &out); err != nil {
		return canvas.ScriptResult{}, err
	}
	return out, nil
}

func (g *ChannelGenerator) GenerateDescription(ctx context.Context, contextContent, auxContext string) (string, error) {
	return g.generateText(ctx, kindDescription, contextContent, auxContext)
}

func (g *ChannelGenerator) GenerateHashtags(ctx context.Context, contextContent, auxContext string) (string, error) {
	return g.generateText(ctx, kindHashtags, contextContent, auxContext)
}

// GenerateTitle produces a one-line title for an idea.
func (g *ChannelGenerator) GenerateTitle(ctx context.Context, contextContent, auxContext string) (string, error) {
	return g.generateText(ctx, kindTitle, contextContent, auxContext)
}

func (g *ChannelGenerator) generateText(ctx context.Context, kind contentKind, contextContent, auxContext string) (string, error) {
	channelContext, err := g.channelContext(ctx)
	if err != nil {
		return "", err
	}
	system := contentSystem(channelContext, kind, nil, "", auxContext)
	var out textResult
	input := struct {
		Idea string `json:"idea"`
	}{Idea: contextContent}
	if err := g.svc.generate(ctx, system, input, &out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Text), nil
}
