package router

import (
	"fmt"
	"time"

	"shellgrid/internal/history"
	"shellgrid/internal/shellparse"
)

// maxAliasDepth bounds alias-expansion recursion, per spec.
const maxAliasDepth = 16

// Kind classifies one resolved pipeline stage.
type Kind int

const (
	KindExternal Kind = iota
	KindBuiltin
	KindHelp
)

// Resolved is a stage after alias and git-shortcut expansion.
type Resolved struct {
	Kind    Kind
	Argv    []string
	Stage   shellparse.Stage
	Builtin BuiltinFunc
	Help    string
}

// Classify applies alias expansion, git-shortcut rewriting, built-in
// lookup, and --help detection to one stage's argv, per the dispatch
// order: alias -> built-in/help -> git shortcut -> external.
func Classify(stage shellparse.Stage, st State) (Resolved, error) {
	argv, err := expandAliases(stage.Argv, st, 0)
	if err != nil {
		return Resolved{}, err
	}
	if len(argv) == 0 {
		return Resolved{}, fmt.Errorf("router: empty command")
	}

	if hasHelpFlag(argv[1:]) {
		if help, ok := HelpFor(argv[0]); ok {
			return Resolved{Kind: KindHelp, Argv: argv, Stage: stage, Help: help}, nil
		}
		if isGitShortcut(argv[0]) {
			return Resolved{Kind: KindHelp, Argv: argv, Stage: stage, Help: gitShortcutUsage(argv[0])}, nil
		}
	}

	if fn, ok := LookupBuiltin(argv[0]); ok {
		return Resolved{Kind: KindBuiltin, Argv: argv, Stage: stage, Builtin: fn}, nil
	}

	if expanded, ok := expandGitShortcut(argv[0], argv[1:]); ok {
		return Resolved{Kind: KindExternal, Argv: expanded, Stage: stage}, nil
	}

	return Resolved{Kind: KindExternal, Argv: argv, Stage: stage}, nil
}

func expandAliases(argv []string, st State, depth int) ([]string, error) {
	if len(argv) == 0 {
		return argv, nil
	}
	if depth >= maxAliasDepth {
		return nil, fmt.Errorf("router: alias expansion exceeded depth %d", maxAliasDepth)
	}
	expansion, ok := st.Alias(argv[0])
	if !ok {
		return argv, nil
	}

	expandedStages, err := shellparse.Parse(expansion, st.Env())
	if err != nil {
		return nil, fmt.Errorf("router: alias %q: %w", argv[0], err)
	}
	if len(expandedStages) != 1 {
		return nil, fmt.Errorf("router: alias %q must expand to a single command", argv[0])
	}

	next := append(expandedStages[0].Argv, argv[1:]...)
	return expandAliases(next, st, depth+1)
}

func hasHelpFlag(args []string) bool {
	for _, a := range args {
		if a == "--help" || a == "-h" {
			return true
		}
	}
	return false
}

func gitShortcutUsage(name string) string {
	def, ok := gitShortcuts[name]
	if !ok {
		return ""
	}
	return name + ": " + def.template
}

// interactiveCommands are known full-screen editors, remote shells, and
// REPLs that need a real PTY rather than a pipe. ChooseMode already sends
// every non-captured command to PTY regardless of membership here; the set
// exists so callers can flag a pipeline stage that pipes one of these
// programs (e.g. "vim file | cat"), which will hang since it never gets a
// terminal.
var interactiveCommands = map[string]bool{
	"vim": true, "vi": true, "nvim": true, "emacs": true, "nano": true,
	"ssh": true, "mosh": true, "tmux": true, "screen": true,
	"less": true, "more": true, "man": true, "top": true, "htop": true,
	"node": true, "python": true, "python3": true, "irb": true, "ipython": true,
	"psql": true, "mysql": true, "sqlite3": true,
}

// IsKnownInteractive reports whether name is a program that requires a
// real terminal and will misbehave if captured (e.g. as a non-final
// pipeline stage).
func IsKnownInteractive(name string) bool {
	return interactiveCommands[name]
}

// Mode is the chosen execution path for a pipeline.
type Mode int

const (
	ModeCaptured Mode = iota
	ModePTY
)

// ChooseMode implements spec.md's captured-vs-PTY rule: captured for any
// multi-stage pipeline, any redirect, or a command on the known
// non-interactive list (see knownNonInteractive); every other lone stage
// with no redirects gets a PTY, whether it is a known interactive program
// or an unrecognised one, since an unknown program might be interactive.
func ChooseMode(stages []shellparse.Stage, resolved []Resolved) Mode {
	if len(stages) != 1 {
		return ModeCaptured
	}
	s := stages[0]
	if s.Stdin != nil || s.Stdout != nil || s.Stderr != nil {
		return ModeCaptured
	}
	if len(resolved) != 1 || len(resolved[0].Argv) == 0 {
		return ModeCaptured
	}

	name := resolved[0].Argv[0]
	if knownNonInteractive(name, resolved[0].Argv) {
		return ModeCaptured
	}
	// Either a known interactive program or an unrecognised one: both get
	// a PTY, since an unknown program might be interactive and captured
	// mode would hang it waiting on a terminal that was never attached.
	return ModePTY
}

// knownNonInteractive reports commands spec.md calls out as always
// captured (echo and similar), plus cargo subcommands other than "run".
func knownNonInteractive(name string, argv []string) bool {
	switch name {
	case "echo", "printf", "true", "false", "date", "whoami", "uname", "wc", "sort", "uniq", "head", "tail", "find", "mkdir", "rm", "cp", "mv", "touch", "chmod", "which", "env":
		return true
	case "cargo":
		return len(argv) < 2 || argv[1] != "run"
	}
	return false
}

// Record appends a completed command's outcome to smart history, per
// spec.md's post-command recording step. Entry.Command tagging and output
// truncation are left to History.Record; only the project-type lookup,
// which needs the pane's cwd, happens here.
func Record(h *history.History, command, cwd string, exitCode int, dur time.Duration, output string) {
	h.Record(history.Entry{
		Command:       command,
		Cwd:           cwd,
		ExitCode:      exitCode,
		Duration:      dur,
		Timestamp:     time.Now(),
		ProjectType:   history.DetectProjectType(cwd),
		OutputSnippet: output,
	})
}
