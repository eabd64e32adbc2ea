// Package router classifies a parsed command line into built-in, git
// shortcut, or external dispatch, and executes it: it is the glue between
// internal/shellparse's stages and either an in-process built-in, a
// captured external process, or a PTY session.
package router

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// State is the pane-owned terminal state a built-in may read or mutate.
// The router never holds pane state itself, mirroring registry.Registry's
// split between the long-lived registry and the per-instance app state;
// here the "instance" is the pane, defined in a package router cannot
// import without a cycle.
type State interface {
	Cwd() string
	SetCwd(string)
	PrevCwd() string

	Env() map[string]string
	SetEnv(key, val string)

	PushDir(dir string)
	PopDir() (string, bool)

	Alias(name string) (string, bool)
	SetAlias(name, expansion string)
	Aliases() map[string]string

	Theme() string
	SetTheme(name string)
}

// BuiltinFunc executes a built-in command in-process against st, returning
// the text to append to the output buffer and the exit code to record.
type BuiltinFunc func(st State, args []string) (output string, exitCode int, err error)

type builtinEntry struct {
	fn   BuiltinFunc
	help string
}

var (
	builtinMu sync.RWMutex
	builtins  = map[string]builtinEntry{}
)

// RegisterBuiltin adds name to the built-in table. Later registrations for
// the same name replace earlier ones, so a host binary can override a
// default built-in without forking the package.
func RegisterBuiltin(name string, fn BuiltinFunc, help string) {
	builtinMu.Lock()
	defer builtinMu.Unlock()
	builtins[name] = builtinEntry{fn: fn, help: help}
}

// LookupBuiltin reports whether name is a registered built-in.
func LookupBuiltin(name string) (BuiltinFunc, bool) {
	builtinMu.RLock()
	defer builtinMu.RUnlock()
	e, ok := builtins[name]
	return e.fn, ok
}

// HelpFor returns the extended help text for a registered built-in.
func HelpFor(name string) (string, bool) {
	builtinMu.RLock()
	defer builtinMu.RUnlock()
	e, ok := builtins[name]
	return e.help, ok
}

func init() {
	RegisterBuiltin("pwd", builtinPwd, "pwd: print the pane's current directory")
	RegisterBuiltin("cd", builtinCd, "cd [dir|-]: change the pane's current directory; '-' returns to the previous one")
	RegisterBuiltin("ls", builtinLs, "ls [-a] [dir]: list directory entries")
	RegisterBuiltin("cat", builtinCat, "cat FILE...: print file contents")
	RegisterBuiltin("grep", builtinGrep, "grep PATTERN FILE...: print lines matching a substring")
	RegisterBuiltin("alias", builtinAlias, "alias [name=expansion]: list or define a command alias")
	RegisterBuiltin("export", builtinExport, "export [name=value]: list or set a pane environment variable")
	RegisterBuiltin("pushd", builtinPushd, "pushd DIR: push the current directory and switch to DIR")
	RegisterBuiltin("popd", builtinPopd, "popd: return to the directory on top of the stack")
	RegisterBuiltin("theme", builtinTheme, "theme [name]: show or set the active theme name")
}

func builtinPwd(st State, _ []string) (string, int, error) {
	return st.Cwd() + "\n", 0, nil
}

func builtinCd(st State, args []string) (string, int, error) {
	target := "~"
	if len(args) > 0 {
		target = args[0]
	}

	dir, err := resolveCdTarget(st, target)
	if err != nil {
		return "", 1, err
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", 1, fmt.Errorf("cd: %w", err)
	}
	if !info.IsDir() {
		return "", 1, fmt.Errorf("cd: %s: not a directory", dir)
	}
	st.SetCwd(dir)
	return "", 0, nil
}

func resolveCdTarget(st State, target string) (string, error) {
	switch {
	case target == "-":
		prev := st.PrevCwd()
		if prev == "" {
			return "", fmt.Errorf("cd: no previous directory")
		}
		return prev, nil
	case target == "~" || strings.HasPrefix(target, "~/"):
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cd: %w", err)
		}
		if target == "~" {
			return home, nil
		}
		return filepath.Join(home, target[2:]), nil
	case filepath.IsAbs(target):
		return target, nil
	default:
		return filepath.Join(st.Cwd(), target), nil
	}
}

func builtinLs(_ State, args []string) (string, int, error) {
	showHidden := false
	dir := "."
	for _, a := range args {
		if a == "-a" {
			showHidden = true
			continue
		}
		dir = a
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", 1, fmt.Errorf("ls: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !showHidden && strings.HasPrefix(e.Name(), ".") {
			continue
		}
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, "\n") + "\n", 0, nil
}

func builtinCat(_ State, args []string) (string, int, error) {
	if len(args) == 0 {
		return "", 1, fmt.Errorf("cat: missing file operand")
	}
	var out strings.Builder
	exit := 0
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(&out, "cat: %v\n", err)
			exit = 1
			continue
		}
		out.Write(data)
	}
	return out.String(), exit, nil
}

func builtinGrep(_ State, args []string) (string, int, error) {
	if len(args) < 2 {
		return "", 1, fmt.Errorf("grep: usage: grep PATTERN FILE...")
	}
	pattern := args[0]
	var out strings.Builder
	matched := false
	for _, path := range args[1:] {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(&out, "grep: %v\n", err)
			continue
		}
		for _, line := range strings.Split(string(data), "\n") {
			if strings.Contains(line, pattern) {
				matched = true
				out.WriteString(line)
				out.WriteByte('\n')
			}
		}
	}
	if !matched {
		return out.String(), 1, nil
	}
	return out.String(), 0, nil
}

func builtinAlias(st State, args []string) (string, int, error) {
	if len(args) == 0 {
		aliases := st.Aliases()
		names := make([]string, 0, len(aliases))
		for name := range aliases {
			names = append(names, name)
		}
		sort.Strings(names)
		var out strings.Builder
		for _, name := range names {
			fmt.Fprintf(&out, "%s=%s\n", name, aliases[name])
		}
		return out.String(), 0, nil
	}

	name, expansion, ok := strings.Cut(args[0], "=")
	if !ok {
		return "", 1, fmt.Errorf("alias: usage: alias name=expansion")
	}
	st.SetAlias(name, expansion)
	return "", 0, nil
}

func builtinExport(st State, args []string) (string, int, error) {
	if len(args) == 0 {
		env := st.Env()
		names := make([]string, 0, len(env))
		for name := range env {
			names = append(names, name)
		}
		sort.Strings(names)
		var out strings.Builder
		for _, name := range names {
			fmt.Fprintf(&out, "%s=%s\n", name, env[name])
		}
		return out.String(), 0, nil
	}

	name, val, ok := strings.Cut(args[0], "=")
	if !ok {
		return "", 1, fmt.Errorf("export: usage: export name=value")
	}
	st.SetEnv(name, val)
	return "", 0, nil
}

func builtinPushd(st State, args []string) (string, int, error) {
	if len(args) == 0 {
		return "", 1, fmt.Errorf("pushd: missing directory operand")
	}
	dir, err := resolveCdTarget(st, args[0])
	if err != nil {
		return "", 1, err
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return "", 1, fmt.Errorf("pushd: %s: not a directory", dir)
	}
	st.PushDir(st.Cwd())
	st.SetCwd(dir)
	return "", 0, nil
}

func builtinPopd(st State, _ []string) (string, int, error) {
	dir, ok := st.PopDir()
	if !ok {
		return "", 1, fmt.Errorf("popd: directory stack empty")
	}
	st.SetCwd(dir)
	return "", 0, nil
}

func builtinTheme(st State, args []string) (string, int, error) {
	if len(args) == 0 {
		return st.Theme() + "\n", 0, nil
	}
	st.SetTheme(args[0])
	return "", 0, nil
}
