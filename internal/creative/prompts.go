package creative

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Prompt templates for generation. Single source of truth for every system
// message the service sends.

// noEmDash is appended to prompts to keep em-dashes out of model output.
const noEmDash = " Do not use em-dashes in your response; use hyphens (-) or rephrase."

const ideasSystem = `You are a creative content strategist for short-form video (TikTok, Instagram Reels, YouTube Shorts). Given the channel context, suggest specific, actionable content ideas. Return only a JSON object with key "ideas" whose value is an array of strings, each string one idea (1-2 sentences). Example: { "ideas": ["Idea one...", "Idea two..."] }` + noEmDash

const subIdeasSystem = `You are a creative content strategist for short-form video. Given a main idea, suggest concrete sub-ideas or parts (angles, beats, sections) that could be explored. Return only a JSON object with key "ideas" whose value is an array of strings, each 1-2 sentences. Example: { "ideas": ["Part one...", "Part two..."] }` + noEmDash

const projectSummarySystem = `Summarize this short-form video script in one sentence: what did the creator say, promise, or set up for later? Return JSON: { "text": "..." }` + noEmDash

const goalsBucketsSystem = `You are a content strategist. Return only valid JSON, no markdown.` + noEmDash

const refineInstruction = "Expand and refine this note into a clearer, more actionable version. Keep the same intent."

func refineSystem(channelContext string) string {
	return fmt.Sprintf("You are a creative content strategist. Channel context:\n%s\n\n%s Return JSON: { \"text\": \"...\" }.%s",
		channelContext, refineInstruction, noEmDash)
}

// contentKind names one deliverable the copywriter prompt can produce.
type contentKind string

const (
	kindTitle       contentKind = "title"
	kindDescription contentKind = "description"
	kindHashtags    contentKind = "hashtags"
	kindScript      contentKind = "script"
	kindHooks       contentKind = "hooks"
)

func kindInstruction(kind contentKind, hasOpeningHook bool) string {
	switch kind {
	case kindTitle:
		return `Generate a single catchy title for this idea (one line). Return JSON: { "text": "..." }.`
	case kindDescription:
		return `Generate a short platform description (2-4 sentences) for this idea. Return JSON: { "text": "..." }.`
	case kindHashtags:
		return `Generate 5-10 relevant hashtags for TikTok/Instagram/YouTube, comma-separated or one per line. Return JSON: { "text": "..." }.`
	case kindScript:
		instr := "Generate a short script for a 30-60 second video. Split it into three parts: hook (opening 1-2 sentences), body (main content), end (closing/CTA). "
		if hasOpeningHook {
			instr += "Use the given opening hook as the hook. "
		}
		return instr + `Return valid JSON only, with exactly these keys: "hook", "body", "end". Example: { "hook": "...", "body": "...", "end": "..." }. Every key must be a non-empty string.`
	case kindHooks:
		return `Generate 3-5 opening hooks (first 1-2 sentences to grab attention) for this idea. Return JSON: { "hooks": ["hook1", "hook2", ...] }`
	}
	return ""
}

const maxHookInspiration = 15

func hookInspirationBlock(hooks []string) string {
	if len(hooks) == 0 {
		return ""
	}
	if len(hooks) > maxHookInspiration {
		hooks = hooks[:maxHookInspiration]
	}
	return "Use these proven hooks as inspiration (adapt to this idea, don't copy):\n" +
		strings.Join(hooks, "\n") + "\n\n"
}

func openingHookBlock(openingHook string) string {
	if strings.TrimSpace(openingHook) == "" {
		return ""
	}
	return fmt.Sprintf("Use this as the opening hook (first 1-2 sentences of the script):\n%q\n\n",
		strings.TrimSpace(openingHook))
}

func additionalContextBlock(additional string) string {
	if strings.TrimSpace(additional) == "" {
		return ""
	}
	return "Additional ideas/context from the creator:\n" + strings.TrimSpace(additional) + "\n\n"
}

// contentSystem assembles the full copywriter system message: channel context,
// then the optional inspiration / opening-hook / extra-context blocks, then the
// per-kind instruction.
func contentSystem(channelContext string, kind contentKind, inspiration []string, openingHook, additional string) string {
	var hookPart, openingPart string
	if kind == kindHooks {
		hookPart = hookInspirationBlock(inspiration)
	}
	if kind == kindScript {
		openingPart = openingHookBlock(openingHook)
	}
	return fmt.Sprintf("You are a short-form video copywriter. Channel context:\n%s\n\n%s%s%s%s",
		channelContext, hookPart, openingPart, additionalContextBlock(additional),
		kindInstruction(kind, strings.TrimSpace(openingHook) != "")) + noEmDash
}

// BucketSuggestion is one themed content bucket proposal.
type BucketSuggestion struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func goalsUser(channelName, coreAudience, currentGoals string) string {
	return fmt.Sprintf("Channel: %s. Audience: %s. Current goals: %s. Suggest improved or expanded goals (2-4 sentences). Return JSON: { \"goals\": \"...\" }",
		channelName, orNotSet(coreAudience), orNone(currentGoals))
}

func bucketsUser(channelName string, current []BucketSuggestion) string {
	b, _ := json.Marshal(current)
	return fmt.Sprintf("Channel: %s. Current buckets: %s. Suggest 3-6 content buckets (themes) with short descriptions. Return JSON: { \"buckets\": [ { \"name\": \"...\", \"description\": \"...\" } ] }",
		channelName, string(b))
}

func goalsAndBucketsUser(channelName, coreAudience, currentGoals string, current []BucketSuggestion) string {
	b, _ := json.Marshal(current)
	return fmt.Sprintf("Channel: %s. Audience: %s. Current goals: %s. Current buckets: %s. Suggest goals (2-4 sentences) and 3-6 content buckets with descriptions. Return JSON: { \"goals\": \"...\", \"buckets\": [ { \"name\": \"...\", \"description\": \"...\" } ] }",
		channelName, orNotSet(coreAudience), orNone(currentGoals), string(b))
}

func orNotSet(s string) string {
	if strings.TrimSpace(s) == "" {
		return "not set"
	}
	return s
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "none"
	}
	return s
}
