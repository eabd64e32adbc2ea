package history

import (
	"strings"
	"sync"
)

const maxEntries = 10000

// History is the shared, mutex-protected command history. One instance is
// used across all panes in a process, per spec.md §5's shared-resource
// policy.
type History struct {
	mu sync.Mutex

	entries     []Entry
	globalFreq  map[string]int
	dirFreq     map[string]map[string]int
	maxEntries  int
	index       *Index // optional derived SQLite index, may be nil
}

// New creates an empty history capped at n entries (0 uses the default of
// 10000).
func New(n int) *History {
	if n <= 0 {
		n = maxEntries
	}
	return &History{
		maxEntries: n,
		globalFreq: make(map[string]int),
		dirFreq:    make(map[string]map[string]int),
	}
}

// AttachIndex wires a derived search index that Record keeps in sync.
// Failures writing to it never fail Record itself; the JSON log remains
// the source of truth.
func (h *History) AttachIndex(idx *Index) {
	h.mu.Lock()
	h.index = idx
	h.mu.Unlock()
}

// Record appends a new entry, evicting the oldest if at capacity, and
// updates the global and per-directory frequency maps. Identical to
// smart_history.rs's add()+complete_last() collapsed into one call
// because this router records completed commands, not in-flight ones.
func (h *History) Record(e Entry) {
	command := strings.TrimSpace(e.Command)
	if command == "" {
		return
	}
	e.Command = command
	if len(e.Tags) == 0 {
		e.Tags = AutoTag(command)
	}
	if len(e.OutputSnippet) > 0 {
		e.OutputSnippet = snippetFromOutput(e.OutputSnippet)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) >= h.maxEntries {
		h.entries = h.entries[1:]
	}
	h.entries = append(h.entries, e)

	h.globalFreq[command]++
	if h.dirFreq[e.Cwd] == nil {
		h.dirFreq[e.Cwd] = make(map[string]int)
	}
	h.dirFreq[e.Cwd][command]++

	if h.index != nil {
		_ = h.index.IndexEntry(int64(len(h.entries)-1), e)
	}
}

// AutoTag derives tags from argv[0] and, for a handful of tools, the
// subcommand, grounded on smart_history.rs's auto_tag.
func AutoTag(command string) []string {
	lower := strings.ToLower(command)
	var tags []string

	switch {
	case strings.HasPrefix(lower, "git "):
		tags = append(tags, "git")
		if strings.Contains(lower, "commit") {
			tags = append(tags, "commit")
		}
		if strings.Contains(lower, "push") || strings.Contains(lower, "pull") {
			tags = append(tags, "sync")
		}
	case strings.HasPrefix(lower, "npm "), strings.HasPrefix(lower, "yarn "), strings.HasPrefix(lower, "pnpm "):
		tags = append(tags, "npm")
	case strings.HasPrefix(lower, "cargo "):
		tags = append(tags, "cargo")
	case strings.HasPrefix(lower, "pip "), strings.HasPrefix(lower, "pip3 "):
		tags = append(tags, "pip")
	}

	if strings.HasPrefix(lower, "docker ") || strings.HasPrefix(lower, "docker-compose ") {
		tags = append(tags, "docker")
	}
	if strings.Contains(lower, "build") || strings.Contains(lower, "compile") {
		tags = append(tags, "build")
	}
	if strings.Contains(lower, "test") {
		tags = append(tags, "test")
	}
	if strings.HasPrefix(lower, "cd ") || strings.HasPrefix(lower, "ls") || strings.HasPrefix(lower, "pwd") {
		tags = append(tags, "nav")
	}
	return tags
}

// Lookup ranks entries for prefix-based recall (e.g. up-arrow history
// with a typed prefix): entries from the query cwd sort first weighted by
// per-directory frequency, then by global frequency, then by recency.
func (h *History) Lookup(prefix, cwd string, limit int) []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	var cands []scoredEntry
	for i, e := range h.entries {
		if prefix != "" && !strings.HasPrefix(e.Command, prefix) {
			continue
		}
		cands = append(cands, scoredEntry{
			entry:   e,
			sameDir: e.Cwd == cwd,
			dirFreq: h.dirFreq[cwd][e.Command],
			allFreq: h.globalFreq[e.Command],
			index:   i,
		})
	}

	sortScored(cands)

	if limit > 0 && len(cands) > limit {
		cands = cands[:limit]
	}
	out := make([]Entry, len(cands))
	for i, c := range cands {
		out[i] = c.entry
	}
	return out
}

type scoredEntry = struct {
	entry   Entry
	sameDir bool
	dirFreq int
	allFreq int
	index   int
}

func sortScored(cands []scoredEntry) {
	// Stable insertion sort is fine at history-window sizes; ranking
	// rules are (a) same cwd first weighted by dir frequency, (b) then
	// global frequency, (c) then recency (higher index = newer, wins).
	less := func(a, b scoredEntry) bool {
		if a.sameDir != b.sameDir {
			return a.sameDir
		}
		if a.sameDir && a.dirFreq != b.dirFreq {
			return a.dirFreq > b.dirFreq
		}
		if a.allFreq != b.allFreq {
			return a.allFreq > b.allFreq
		}
		return a.index > b.index
	}
	for i := 1; i < len(cands); i++ {
		j := i
		for j > 0 && less(cands[j], cands[j-1]) {
			cands[j], cands[j-1] = cands[j-1], cands[j]
			j--
		}
	}
}

// Last returns the most recent command (for shellparse's !! expansion).
func (h *History) Last() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return "", false
	}
	return h.entries[len(h.entries)-1].Command, true
}

// Nth returns the 1-based nth command from the start (for !n).
func (h *History) Nth(n int) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n < 1 || n > len(h.entries) {
		return "", false
	}
	return h.entries[n-1].Command, true
}

// NthFromEnd returns the nth command counting back from the most recent,
// 1-based (for !-n; NthFromEnd(1) == Last()).
func (h *History) NthFromEnd(n int) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	idx := len(h.entries) - n
	if idx < 0 || idx >= len(h.entries) {
		return "", false
	}
	return h.entries[idx].Command, true
}

// Len returns the number of stored entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// All returns a snapshot copy of every stored entry, oldest first.
func (h *History) All() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}
