package creative

import (
	"math/rand"
	"os"
	"strings"
)

const maxHooksSample = 20

// HookLibrary reads hook inspiration from a static text file: one hook per
// line, lines starting with # ignored.
type HookLibrary struct {
	path string
}

// NewHookLibrary points at a hooks file. An empty path disables inspiration.
func NewHookLibrary(path string) *HookLibrary {
	return &HookLibrary{path: path}
}

// Sample returns a random sample of up to 20 hooks. A missing or unreadable
// file yields an empty sample, never an error.
func (h *HookLibrary) Sample() []string {
	if h == nil || h.path == "" {
		return nil
	}
	content, err := os.ReadFile(h.path)
	if err != nil {
		return nil
	}
	var lines []string
	for _, l := range strings.Split(string(content), "\n") {
		l = strings.TrimSpace(l)
		if l == "" || strings.HasPrefix(l, "#") {
			continue
		}
		lines = append(lines, l)
	}
	if len(lines) == 0 {
		return nil
	}
	rand.Shuffle(len(lines), func(i, j int) { lines[i], lines[j] = lines[j], lines[i] })
	if len(lines) > maxHooksSample {
		lines = lines[:maxHooksSample]
	}
	return lines
}
