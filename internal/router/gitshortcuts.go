package router

import "strings"

// gitShortcut is one entry of the git shortcut table, grounded on
// original_source/src/git/shortcuts.rs's ShortcutDef.
type gitShortcut struct {
	template     string
	requiresArgs bool
}

// gitShortcuts mirrors shortcuts.rs's table, plus the supplemental
// entries (gds, gpl, gco, gb, gba, gcb, grh, gst, gstp) that shortcuts.rs
// already carried but spec.md's examples only mention a subset of.
var gitShortcuts = map[string]gitShortcut{
	"gs":   {template: "git status"},
	"gd":   {template: "git diff"},
	"gds":  {template: "git diff --staged"},
	"gl":   {template: "git log --oneline -20"},
	"gp":   {template: "git push"},
	"gpl":  {template: "git pull"},
	"ga":   {template: "git add"},
	"gc":   {template: "git commit -m", requiresArgs: true},
	"gco":  {template: "git checkout", requiresArgs: true},
	"gb":   {template: "git branch"},
	"gba":  {template: "git branch -a"},
	"gcb":  {template: "git checkout -b", requiresArgs: true},
	"grh":  {template: "git reset --hard HEAD"},
	"gst":  {template: "git stash"},
	"gstp": {template: "git stash pop"},
}

// expandGitShortcut rewrites a shortcut invocation to its full "git ..."
// argv, per shortcuts.rs's expand: gc wraps its argument in quotes (here,
// a single joined argv element, since no re-lexing is needed); ga with no
// arguments defaults to staging everything.
func expandGitShortcut(name string, args []string) ([]string, bool) {
	def, ok := gitShortcuts[name]
	if !ok {
		return nil, false
	}
	if def.requiresArgs && len(args) == 0 {
		return nil, false
	}

	argv := strings.Fields(def.template)
	switch {
	case name == "gc":
		argv = append(argv, strings.Join(args, " "))
	case len(args) > 0:
		argv = append(argv, args...)
	case name == "ga":
		argv = append(argv, ".")
	}
	return argv, true
}

// isGitShortcut reports whether name names a registered shortcut, for
// classification before attempting expansion.
func isGitShortcut(name string) bool {
	_, ok := gitShortcuts[name]
	return ok
}

// GitShortcutHelp returns the shortcut names (not their templates) sorted
// alphabetically, for a "gs --help"-style listing.
func GitShortcutHelp() []string {
	names := make([]string, 0, len(gitShortcuts))
	for name := range gitShortcuts {
		names = append(names, name)
	}
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j-1] > names[j]; j-- {
			names[j-1], names[j] = names[j], names[j-1]
		}
	}
	return names
}
