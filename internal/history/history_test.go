package history

import (
	"os"
	"testing"
	"time"
)

func TestRecordAndLen(t *testing.T) {
	h := New(10)
	h.Record(Entry{Command: "git status", Cwd: "/proj", Timestamp: time.Now()})
	h.Record(Entry{Command: "cargo build", Cwd: "/proj", Timestamp: time.Now()})
	if h.Len() != 2 {
		t.Fatalf("Len = %d, want 2", h.Len())
	}
}

func TestRecordEvictsOldest(t *testing.T) {
	h := New(2)
	h.Record(Entry{Command: "one", Cwd: "/a"})
	h.Record(Entry{Command: "two", Cwd: "/a"})
	h.Record(Entry{Command: "three", Cwd: "/a"})
	all := h.All()
	if len(all) != 2 || all[0].Command != "two" || all[1].Command != "three" {
		t.Fatalf("entries = %+v, want [two three]", all)
	}
}

func TestAutoTagGit(t *testing.T) {
	tags := AutoTag("git commit -m fix")
	want := map[string]bool{"git": true, "commit": true}
	for _, tag := range tags {
		delete(want, tag)
	}
	if len(want) != 0 {
		t.Fatalf("tags = %v, missing %v", tags, want)
	}
}

func TestLookupPrefersCwd(t *testing.T) {
	h := New(10)
	h.Record(Entry{Command: "ls -la", Cwd: "/other"})
	h.Record(Entry{Command: "ls -la", Cwd: "/proj"})

	results := h.Lookup("ls", "/proj", 10)
	if len(results) == 0 || results[0].Cwd != "/proj" {
		t.Fatalf("results = %+v, want /proj first", results)
	}
}

func TestHistoryBangExpansionInterface(t *testing.T) {
	h := New(10)
	h.Record(Entry{Command: "first"})
	h.Record(Entry{Command: "second"})

	if last, ok := h.Last(); !ok || last != "second" {
		t.Fatalf("Last() = %q,%v want second,true", last, ok)
	}
	if first, ok := h.Nth(1); !ok || first != "first" {
		t.Fatalf("Nth(1) = %q,%v want first,true", first, ok)
	}
	if prev, ok := h.NthFromEnd(2); !ok || prev != "first" {
		t.Fatalf("NthFromEnd(2) = %q,%v want first,true", prev, ok)
	}
}

func TestFuzzyScoreExactPrefixSubstring(t *testing.T) {
	if got := FuzzyScore("git status", "git status"); got != 1000 {
		t.Fatalf("exact score = %d, want 1000", got)
	}
	if got := FuzzyScore("git", "git status"); got != 500 {
		t.Fatalf("prefix score = %d, want 500", got)
	}
	if got := FuzzyScore("status", "git status"); got != 200 {
		t.Fatalf("substring score = %d, want 200", got)
	}
}

func TestFuzzyScoreCharByChar(t *testing.T) {
	score := FuzzyScore("gco", "git checkout origin")
	if score <= 0 {
		t.Fatalf("fuzzy score = %d, want > 0", score)
	}
}

func TestFuzzyScoreNoMatch(t *testing.T) {
	if got := FuzzyScore("xyz123", "git status"); got != 0 {
		t.Fatalf("score = %d, want 0 for unmatched chars", got)
	}
}

func TestFuzzySearchDedupesAndRanks(t *testing.T) {
	h := New(10)
	h.Record(Entry{Command: "git status", Cwd: "/a"})
	h.Record(Entry{Command: "git status", Cwd: "/b"})
	h.Record(Entry{Command: "git log", Cwd: "/a"})

	results := h.FuzzySearch("git", 10)
	if len(results) != 2 {
		t.Fatalf("results = %+v, want 2 (deduped)", results)
	}
	if results[0].Score < results[1].Score {
		t.Fatalf("results not sorted by score: %+v", results)
	}
}

func TestDetectProjectTypeGoMarker(t *testing.T) {
	dir := t.TempDir()
	if err := writeMarker(dir, "go.mod"); err != nil {
		t.Fatalf("writeMarker: %v", err)
	}
	if got := DetectProjectType(dir); got != "Go" {
		t.Fatalf("DetectProjectType = %q, want Go", got)
	}
}

func writeMarker(dir, name string) error {
	return os.WriteFile(dir+"/"+name, []byte("x"), 0o644)
}
