package utils

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"
)

// UIDGenerator creates stable-ish UIDs from seed strings and resolves
// collisions. A generated UID shape is: "<slug>-<hash>" (or "<slug>-<hash>-N"
// on collision). Canvas node ids come from here so callers never supply their
// own and collisions inside one graph are impossible.
type UIDGenerator struct {
	used    map[string]struct{}
	counter map[string]int
}

// NewUIDGenerator creates a generator with optional pre-reserved UIDs
// (e.g. ids already present in a loaded graph).
func NewUIDGenerator(existing ...string) *UIDGenerator {
	g := &UIDGenerator{
		used:    make(map[string]struct{}, len(existing)+8),
		counter: make(map[string]int, len(existing)+8),
	}
	g.Reserve(existing...)
	return g
}

// Reserve marks extra UIDs as taken.
func (g *UIDGenerator) Reserve(uids ...string) {
	if g == nil {
		return
	}
	for _, uid := range uids {
		uid = strings.TrimSpace(uid)
		if uid != "" {
			g.used[uid] = struct{}{}
		}
	}
}

// Generate returns a UID unique within this generator for the given seed.
func (g *UIDGenerator) Generate(seed string) string {
	if g == nil {
		g = NewUIDGenerator()
	}
	base := baseUIDFromSeed(seed)
	if _, ok := g.used[base]; !ok {
		g.used[base] = struct{}{}
		g.counter[base] = 1
		return base
	}
	n := g.counter[base]
	if n < 1 {
		n = 1
	}
	for {
		n++
		candidate := fmt.Sprintf("%s-%d", base, n)
		if _, exists := g.used[candidate]; exists {
			continue
		}
		g.used[candidate] = struct{}{}
		g.counter[base] = n
		return candidate
	}
}

func baseUIDFromSeed(seed string) string {
	seed = strings.TrimSpace(seed)
	slug := slugifyASCII(seed)
	if slug == "" {
		slug = "node"
	}
	return fmt.Sprintf("%s-%s", slug, shortHashHex(seed))
}

func shortHashHex(s string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	sum := h.Sum64()
	return fmt.Sprintf("%08x", uint32(sum&0xffffffff))
}

func slugifyASCII(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return ""
	}
	return out
}
