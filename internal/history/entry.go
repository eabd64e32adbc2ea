// Package history implements the smart per-directory command history:
// append-only recording, global and per-directory frequency ranking,
// fuzzy search, auto-tagging, project-type detection, and JSON
// persistence, with an optional SQLite-backed full-text index for
// substring search over large histories.
package history

import "time"

// Entry records one executed command with the context needed for ranking
// and recall.
type Entry struct {
	Command       string        `json:"command"`
	Cwd           string        `json:"cwd"`
	ExitCode      int           `json:"exit_code"`
	Duration      time.Duration `json:"duration"`
	Timestamp     time.Time     `json:"timestamp"`
	ProjectType   string        `json:"project_type,omitempty"`
	Tags          []string      `json:"tags,omitempty"`
	OutputSnippet string        `json:"output_snippet,omitempty"`
}

// Success reports whether the command exited cleanly.
func (e Entry) Success() bool { return e.ExitCode == 0 }

// snippetFromOutput keeps the first 3 lines or 200 characters of output,
// whichever is shorter, matching smart_history.rs's set_output.
func snippetFromOutput(output string) string {
	lines := 0
	end := len(output)
	for i := 0; i < len(output); i++ {
		if output[i] == '\n' {
			lines++
			if lines == 3 {
				end = i
				break
			}
		}
	}
	snippet := output[:end]
	if len(snippet) > 200 {
		snippet = snippet[:200] + "..."
	}
	return snippet
}
