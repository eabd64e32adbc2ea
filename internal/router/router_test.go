package router

import (
	"testing"

	"shellgrid/internal/shellparse"
)

type fakeState struct {
	cwd     string
	prev    string
	env     map[string]string
	aliases map[string]string
	stack   []string
	theme   string
}

func newFakeState(cwd string) *fakeState {
	return &fakeState{
		cwd:     cwd,
		env:     map[string]string{},
		aliases: map[string]string{},
		theme:   "default",
	}
}

func (s *fakeState) Cwd() string     { return s.cwd }
func (s *fakeState) SetCwd(c string) { s.prev, s.cwd = s.cwd, c }
func (s *fakeState) PrevCwd() string { return s.prev }

func (s *fakeState) Env() map[string]string   { return s.env }
func (s *fakeState) SetEnv(k, v string)       { s.env[k] = v }

func (s *fakeState) PushDir(dir string) { s.stack = append(s.stack, dir) }
func (s *fakeState) PopDir() (string, bool) {
	if len(s.stack) == 0 {
		return "", false
	}
	dir := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return dir, true
}

func (s *fakeState) Alias(name string) (string, bool) { e, ok := s.aliases[name]; return e, ok }
func (s *fakeState) SetAlias(name, expansion string)   { s.aliases[name] = expansion }
func (s *fakeState) Aliases() map[string]string        { return s.aliases }

func (s *fakeState) Theme() string      { return s.theme }
func (s *fakeState) SetTheme(t string)  { s.theme = t }

func TestClassifyBuiltin(t *testing.T) {
	st := newFakeState("/tmp")
	stage := shellparse.Stage{Argv: []string{"pwd"}}
	r, err := Classify(stage, st)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if r.Kind != KindBuiltin {
		t.Fatalf("Kind = %v, want KindBuiltin", r.Kind)
	}
}

func TestClassifyGitShortcut(t *testing.T) {
	st := newFakeState("/tmp")
	stage := shellparse.Stage{Argv: []string{"gs"}}
	r, err := Classify(stage, st)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if r.Kind != KindExternal {
		t.Fatalf("Kind = %v, want KindExternal", r.Kind)
	}
	want := []string{"git", "status"}
	if len(r.Argv) != len(want) || r.Argv[0] != want[0] || r.Argv[1] != want[1] {
		t.Fatalf("Argv = %v, want %v", r.Argv, want)
	}
}

func TestClassifyGitShortcutCommitQuotesMessage(t *testing.T) {
	st := newFakeState("/tmp")
	stage := shellparse.Stage{Argv: []string{"gc", "fix", "bug"}}
	r, err := Classify(stage, st)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	want := []string{"git", "commit", "-m", "fix bug"}
	if len(r.Argv) != len(want) {
		t.Fatalf("Argv = %v, want %v", r.Argv, want)
	}
	for i := range want {
		if r.Argv[i] != want[i] {
			t.Fatalf("Argv = %v, want %v", r.Argv, want)
		}
	}
}

func TestClassifyAliasExpansion(t *testing.T) {
	st := newFakeState("/tmp")
	st.SetAlias("ll", "ls -a")
	stage := shellparse.Stage{Argv: []string{"ll"}}
	r, err := Classify(stage, st)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if r.Kind != KindBuiltin {
		t.Fatalf("Kind = %v, want KindBuiltin (ls)", r.Kind)
	}
	if len(r.Argv) != 2 || r.Argv[0] != "ls" || r.Argv[1] != "-a" {
		t.Fatalf("Argv = %v, want [ls -a]", r.Argv)
	}
}

func TestClassifyAliasCycleHitsDepthLimit(t *testing.T) {
	st := newFakeState("/tmp")
	st.SetAlias("a", "b")
	st.SetAlias("b", "a")
	stage := shellparse.Stage{Argv: []string{"a"}}
	if _, err := Classify(stage, st); err == nil {
		t.Fatalf("expected depth-limit error for alias cycle")
	}
}

func TestClassifyHelpFlag(t *testing.T) {
	st := newFakeState("/tmp")
	stage := shellparse.Stage{Argv: []string{"cd", "--help"}}
	r, err := Classify(stage, st)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if r.Kind != KindHelp || r.Help == "" {
		t.Fatalf("Kind = %v, Help = %q, want KindHelp with text", r.Kind, r.Help)
	}
}

func TestChooseModeCapturedForPipeline(t *testing.T) {
	stages := []shellparse.Stage{{Argv: []string{"ls"}}, {Argv: []string{"grep", "x"}}}
	resolved := []Resolved{{Argv: []string{"ls"}}, {Argv: []string{"grep", "x"}}}
	if ChooseMode(stages, resolved) != ModeCaptured {
		t.Fatalf("want ModeCaptured for a pipeline")
	}
}

func TestChooseModeCapturedForRedirect(t *testing.T) {
	stages := []shellparse.Stage{{Argv: []string{"echo", "hi"}, Stdout: &shellparse.Redirect{Target: "out.txt"}}}
	resolved := []Resolved{{Argv: []string{"echo", "hi"}}}
	if ChooseMode(stages, resolved) != ModeCaptured {
		t.Fatalf("want ModeCaptured for a redirect")
	}
}

func TestChooseModeCapturedForKnownNonInteractive(t *testing.T) {
	stages := []shellparse.Stage{{Argv: []string{"echo", "hi"}}}
	resolved := []Resolved{{Argv: []string{"echo", "hi"}}}
	if ChooseMode(stages, resolved) != ModeCaptured {
		t.Fatalf("want ModeCaptured for echo")
	}
}

func TestChooseModePTYForInteractive(t *testing.T) {
	stages := []shellparse.Stage{{Argv: []string{"vim", "file.go"}}}
	resolved := []Resolved{{Argv: []string{"vim", "file.go"}}}
	if ChooseMode(stages, resolved) != ModePTY {
		t.Fatalf("want ModePTY for vim")
	}
}

func TestBuiltinCdTilde(t *testing.T) {
	st := newFakeState("/somewhere")
	fn, ok := LookupBuiltin("cd")
	if !ok {
		t.Fatalf("cd not registered")
	}
	if _, exit, err := fn(st, nil); err != nil || exit != 0 {
		t.Fatalf("cd ~: exit=%d err=%v", exit, err)
	}
	if st.Cwd() == "/somewhere" {
		t.Fatalf("cd ~ did not change cwd")
	}
}

func TestBuiltinCdDash(t *testing.T) {
	dirA, dirB := t.TempDir(), t.TempDir()
	st := newFakeState(dirA)
	st.SetCwd(dirB)
	fn, _ := LookupBuiltin("cd")
	if _, exit, err := fn(st, []string{"-"}); err != nil || exit != 0 {
		t.Fatalf("cd -: exit=%d err=%v", exit, err)
	}
	if st.Cwd() != dirA {
		t.Fatalf("cd - = %q, want %q", st.Cwd(), dirA)
	}
}

func TestBuiltinPushdPopd(t *testing.T) {
	st := newFakeState("/")
	pushd, _ := LookupBuiltin("pushd")
	popd, _ := LookupBuiltin("popd")

	if _, exit, err := pushd(st, []string{"/tmp"}); err != nil || exit != 0 {
		t.Fatalf("pushd: exit=%d err=%v", exit, err)
	}
	if st.Cwd() != "/tmp" {
		t.Fatalf("cwd = %q, want /tmp", st.Cwd())
	}
	if _, exit, err := popd(st, nil); err != nil || exit != 0 {
		t.Fatalf("popd: exit=%d err=%v", exit, err)
	}
	if st.Cwd() != "/" {
		t.Fatalf("cwd after popd = %q, want /", st.Cwd())
	}
}

func TestBuiltinAliasListAndSet(t *testing.T) {
	st := newFakeState("/")
	fn, _ := LookupBuiltin("alias")
	if _, _, err := fn(st, []string{"ll=ls -a"}); err != nil {
		t.Fatalf("alias set: %v", err)
	}
	if exp, ok := st.Alias("ll"); !ok || exp != "ls -a" {
		t.Fatalf("alias ll = %q,%v want 'ls -a',true", exp, ok)
	}
}

func TestGitShortcutAddDefaultsToDot(t *testing.T) {
	argv, ok := expandGitShortcut("ga", nil)
	if !ok {
		t.Fatalf("expandGitShortcut(ga) failed")
	}
	want := []string{"git", "add", "."}
	if len(argv) != len(want) || argv[2] != want[2] {
		t.Fatalf("argv = %v, want %v", argv, want)
	}
}

func TestGitShortcutRequiresArgsFails(t *testing.T) {
	if _, ok := expandGitShortcut("gco", nil); ok {
		t.Fatalf("expandGitShortcut(gco) with no args should fail")
	}
}
