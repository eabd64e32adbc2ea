package shellparse

import "testing"

func TestParseSimpleCommand(t *testing.T) {
	stages, err := Parse("ls -la", nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(stages) != 1 || stages[0].Argv[0] != "ls" || stages[0].Argv[1] != "-la" {
		t.Fatalf("stages = %+v", stages)
	}
}

func TestParseQuotedArgs(t *testing.T) {
	stages, err := Parse(`echo "hello world"`, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if stages[0].Argv[1] != "hello world" {
		t.Fatalf("arg = %q, want \"hello world\"", stages[0].Argv[1])
	}
}

func TestParseSingleQuoteNoEscape(t *testing.T) {
	stages, err := Parse(`echo 'a\nb'`, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if stages[0].Argv[1] != `a\nb` {
		t.Fatalf("arg = %q, want literal a\\nb", stages[0].Argv[1])
	}
}

func TestParseVarExpansionInDoubleQuotes(t *testing.T) {
	env := map[string]string{"NAME": "world"}
	stages, err := Parse(`echo "hello $NAME"`, env)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if stages[0].Argv[1] != "hello world" {
		t.Fatalf("arg = %q, want expanded", stages[0].Argv[1])
	}
}

func TestParsePipeline(t *testing.T) {
	stages, err := Parse("ls | grep foo", nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(stages) != 2 || stages[0].Argv[0] != "ls" || stages[1].Argv[0] != "grep" {
		t.Fatalf("stages = %+v", stages)
	}
}

func TestParseRedirects(t *testing.T) {
	stages, err := Parse("cmd > out.txt 2>> err.log < in.txt", nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s := stages[0]
	if s.Stdout == nil || s.Stdout.Target != "out.txt" || s.Stdout.Append {
		t.Fatalf("stdout = %+v", s.Stdout)
	}
	if s.Stderr == nil || s.Stderr.Target != "err.log" || !s.Stderr.Append {
		t.Fatalf("stderr = %+v", s.Stderr)
	}
	if s.Stdin == nil || s.Stdin.Target != "in.txt" {
		t.Fatalf("stdin = %+v", s.Stdin)
	}
}

func TestParseUnterminatedQuote(t *testing.T) {
	_, err := Parse(`echo "unterminated`, nil)
	perr, ok := err.(*ParseError)
	if !ok || perr.Kind != UnterminatedQuote {
		t.Fatalf("err = %v, want UnterminatedQuote", err)
	}
}

func TestParseDanglingRedirect(t *testing.T) {
	_, err := Parse("ls >", nil)
	perr, ok := err.(*ParseError)
	if !ok || perr.Kind != DanglingRedirect {
		t.Fatalf("err = %v, want DanglingRedirect", err)
	}
}

type fakeHistory struct {
	entries []string // oldest first
}

func (f *fakeHistory) Last() (string, bool) {
	return f.NthFromEnd(1)
}
func (f *fakeHistory) Nth(n int) (string, bool) {
	if n < 1 || n > len(f.entries) {
		return "", false
	}
	return f.entries[n-1], true
}
func (f *fakeHistory) NthFromEnd(n int) (string, bool) {
	idx := len(f.entries) - n
	if idx < 0 || idx >= len(f.entries) {
		return "", false
	}
	return f.entries[idx], true
}

func TestExpandHistoryBangBang(t *testing.T) {
	h := &fakeHistory{entries: []string{"ls -la", "git status"}}
	got, err := ExpandHistory("!!", h)
	if err != nil {
		t.Fatalf("ExpandHistory: %v", err)
	}
	if got != "git status" {
		t.Fatalf("got %q, want %q", got, "git status")
	}
}

func TestExpandHistoryNth(t *testing.T) {
	h := &fakeHistory{entries: []string{"ls -la", "git status", "cd /tmp"}}
	got, err := ExpandHistory("!2", h)
	if err != nil {
		t.Fatalf("ExpandHistory: %v", err)
	}
	if got != "git status" {
		t.Fatalf("got %q, want %q", got, "git status")
	}
}

func TestExpandHistoryBadRef(t *testing.T) {
	h := &fakeHistory{entries: []string{"ls -la"}}
	_, err := ExpandHistory("!99", h)
	perr, ok := err.(*ParseError)
	if !ok || perr.Kind != BadHistoryRef {
		t.Fatalf("err = %v, want BadHistoryRef", err)
	}
}
