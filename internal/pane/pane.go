// Package pane wires one pane's terminal grid, PTY session, output
// buffer, shell parsing, command routing, and smart history into a single
// per-pane state container, per spec.md §4.8. A tab's split tree holds
// pane ids (internal/splittree); this package is what those ids resolve
// to.
package pane

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"shellgrid/internal/grid"
	"shellgrid/internal/history"
	"shellgrid/internal/outputbuffer"
	"shellgrid/internal/ptysession"
	"shellgrid/internal/router"
	"shellgrid/internal/shellparse"
)

// Mode distinguishes a pane driving a PTY-attached child (bytes flow
// straight into the grid) from one reading a native input line that C4/C5
// interpret directly, per spec.md §4.8.
type Mode int

const (
	ModeNative Mode = iota
	ModePTY
)

// Pane is the exclusive owner of its grid, buffer, and (if any) PTY
// session, per spec.md §1's ownership summary; the smart history is the
// one thing it shares, read-write, across panes.
type Pane struct {
	mu sync.Mutex

	id   string
	grid *grid.Grid
	pty  *ptysession.Session
	mode Mode

	input     []rune
	inputPos  int
	cwd       string
	prevCwd   string
	env       map[string]string
	dirStack  []string
	aliases   map[string]string
	theme     string

	hist   *history.History
	buffer *outputbuffer.Buffer

	rows, cols int
}

// New creates a pane of the given id, sized rows x cols, starting in
// native mode with the given working directory and shared history.
func New(id, cwd string, rows, cols int, hist *history.History) *Pane {
	return &Pane{
		id:      id,
		grid:    grid.New(rows, cols, tcell.ColorDefault, tcell.ColorDefault),
		mode:    ModeNative,
		cwd:     cwd,
		env:     map[string]string{},
		aliases: map[string]string{},
		theme:   "default",
		hist:    hist,
		buffer:  outputbuffer.New(0),
		rows:    rows,
		cols:    cols,
	}
}

// ID returns the pane's id, the value held in the tab's split tree leaf.
func (p *Pane) ID() string { return p.id }

// Grid exposes the pane's terminal grid for rendering.
func (p *Pane) Grid() *grid.Grid { return p.grid }

// Buffer exposes the pane's scrollback/block log for rendering.
func (p *Pane) Buffer() *outputbuffer.Buffer { return p.buffer }

// Mode reports whether the pane is currently attached to a PTY.
func (p *Pane) Mode() Mode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

// Poll drains pending PTY events (if the pane has a live session) and
// feeds data into the grid, per spec.md §4.8 step 1. When the child has
// exited (or the session reported an error) the pane returns itself to
// native mode. It returns true if any event was handled (new bytes fed to
// the grid, or the session ended), so the caller knows to redraw.
func (p *Pane) Poll() (changed bool) {
	p.mu.Lock()
	sess := p.pty
	p.mu.Unlock()
	if sess == nil {
		return false
	}

	for _, ev := range sess.Poll() {
		switch ev.Kind {
		case ptysession.EventData:
			p.grid.Feed(ev.Data)
			changed = true
		case ptysession.EventExited, ptysession.EventError:
			p.mu.Lock()
			p.mode = ModeNative
			p.pty = nil
			p.mu.Unlock()
			return true
		}
	}
	return changed
}

// Reflow informs the grid and, if attached, the PTY of a new viewport
// size, per spec.md §4.8 step 3.
func (p *Pane) Reflow(rows, cols int) {
	p.mu.Lock()
	p.rows, p.cols = rows, cols
	sess := p.pty
	p.mu.Unlock()

	p.grid.Resize(rows, cols)
	if sess != nil {
		_ = sess.Resize(rows, cols)
	}
}

// HandleKey routes a keypress per spec.md §4.8 step 2: PTY mode writes
// the translated byte sequence straight to the child; native mode edits
// the input line and, on Enter, dispatches through C4 (shellparse) and C5
// (router).
func (p *Pane) HandleKey(ev *tcell.EventKey) {
	p.mu.Lock()
	mode := p.mode
	sess := p.pty
	p.mu.Unlock()

	if mode == ModePTY {
		if sess == nil {
			return
		}
		if seq := translateKey(ev); seq != nil {
			_, _ = sess.Write(seq)
		}
		return
	}

	p.editInputLine(ev)
}

func (p *Pane) editInputLine(ev *tcell.EventKey) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch ev.Key() {
	case tcell.KeyEnter:
		line := string(p.input)
		p.input = nil
		p.inputPos = 0
		go p.runLine(line)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if p.inputPos > 0 {
			p.input = append(p.input[:p.inputPos-1], p.input[p.inputPos:]...)
			p.inputPos--
		}
	case tcell.KeyLeft:
		if p.inputPos > 0 {
			p.inputPos--
		}
	case tcell.KeyRight:
		if p.inputPos < len(p.input) {
			p.inputPos++
		}
	case tcell.KeyCtrlU:
		p.input = p.input[p.inputPos:]
		p.inputPos = 0
	case tcell.KeyRune:
		r := ev.Rune()
		p.input = append(p.input[:p.inputPos], append([]rune{r}, p.input[p.inputPos:]...)...)
		p.inputPos++
	}
}

// runLine expands history references, parses, classifies, and dispatches
// a completed command line, then records it to smart history, per
// spec.md §4.5's post-command recording step. Runs off the input-editing
// goroutine's lock so a blocking captured command doesn't freeze key
// handling for an unrelated pane; the pane's own state is only touched
// while holding p.mu.
func (p *Pane) runLine(line string) {
	start := time.Now()

	expanded, err := shellparse.ExpandHistory(line, p.hist)
	if err != nil {
		p.appendError(line, err)
		return
	}

	stages, err := shellparse.Parse(expanded, p.Env())
	if err != nil {
		p.appendError(line, err)
		return
	}
	if len(stages) == 0 {
		return
	}

	resolved := make([]router.Resolved, len(stages))
	for i, stage := range stages {
		r, err := router.Classify(stage, p)
		if err != nil {
			p.appendError(line, err)
			return
		}
		resolved[i] = r
	}

	output, exitCode := p.dispatch(resolved, stages)
	dur := time.Since(start)

	p.buffer.BeginBlock(expanded)
	p.buffer.Append(output)
	p.buffer.EndBlock(exitCode, dur)

	router.Record(p.hist, expanded, p.Cwd(), exitCode, dur, output)
}

func (p *Pane) dispatch(resolved []router.Resolved, stages []shellparse.Stage) (output string, exitCode int) {
	if len(resolved) == 1 && resolved[0].Kind == router.KindHelp {
		return resolved[0].Help + "\n", 0
	}
	if len(resolved) == 1 && resolved[0].Kind == router.KindBuiltin {
		out, code, err := resolved[0].Builtin(p, resolved[0].Argv[1:])
		if err != nil {
			return err.Error() + "\n", code
		}
		return out, code
	}

	switch router.ChooseMode(stages, resolved) {
	case router.ModePTY:
		rows, cols := p.rowsCols()
		sess, err := router.RunPTY(resolved[0], p.Cwd(), p.envSlice(), rows, cols)
		if err != nil {
			return err.Error() + "\n", 1
		}
		p.mu.Lock()
		p.pty = sess
		p.mode = ModePTY
		p.mu.Unlock()
		return "", 0
	default:
		result, err := router.RunCaptured(context.Background(), resolved, p.Cwd(), p.envSlice(), 0)
		if err != nil {
			return err.Error() + "\n", 1
		}
		return result.Output, result.ExitCode
	}
}

func (p *Pane) rowsCols() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rows, p.cols
}

func (p *Pane) appendError(command string, err error) {
	p.buffer.BeginBlock(command)
	p.buffer.Append(fmt.Sprintf("%v\n", err))
	p.buffer.EndBlock(1, 0)
}

func (p *Pane) envSlice() []string {
	env := p.Env()
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	return out
}
