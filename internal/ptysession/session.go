// Package ptysession implements the pseudo-terminal I/O subsystem: spawning
// a child process under a PTY, a dedicated reader task decoupled from the
// UI, a writer, resize, and exit detection.
package ptysession

import (
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
)

// eventChanCapacity bounds the reader's event channel so a stalled UI
// imposes backpressure on reads, per spec.
const eventChanCapacity = 64

// EventKind tags a Session event.
type EventKind int

const (
	EventData EventKind = iota
	EventExited
	EventError
)

// Event is one of Data(bytes) | Exited(code) | Error(msg).
type Event struct {
	Kind EventKind
	Data []byte
	Code int
	Err  error
}

// SpawnError is returned when the child could not be launched; the caller
// (the router) keeps its pane in native mode and displays the message.
type SpawnError struct {
	Command string
	Cause   error
}

func (e *SpawnError) Error() string {
	return "spawn " + e.Command + ": " + e.Cause.Error()
}

func (e *SpawnError) Unwrap() error { return e.Cause }

// Session owns the master side of a pseudo-terminal and its child process
// exclusively; the reader goroutine holds the master solely to read from
// it, and Session is the sole writer.
type Session struct {
	cmd    *exec.Cmd
	master *os.File

	mu       sync.Mutex
	rows     int
	cols     int
	events   chan Event
	closed   bool
	doneOnce sync.Once
}

// Spawn starts command/argv under a pseudo-terminal of size rows x cols,
// with cwd and env applied to the child, and begins the dedicated reader
// goroutine. On failure a *SpawnError is returned and no Session exists.
func Spawn(command string, argv []string, cwd string, env []string, rows, cols int) (*Session, error) {
	cmd := exec.Command(command, argv...)
	cmd.Dir = cwd
	cmd.Env = env

	master, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return nil, &SpawnError{Command: command, Cause: err}
	}

	s := &Session{
		cmd:    cmd,
		master: master,
		rows:   rows,
		cols:   cols,
		events: make(chan Event, eventChanCapacity),
	}
	go s.readLoop()
	return s, nil
}

// Write enqueues input to the child. Safe to call concurrently with Poll.
func (s *Session) Write(data []byte) (int, error) {
	return s.master.Write(data)
}

// Resize informs the kernel/host of new terminal dimensions.
func (s *Session) Resize(rows, cols int) error {
	s.mu.Lock()
	s.rows, s.cols = rows, cols
	s.mu.Unlock()
	return pty.Setsize(s.master, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

// Poll drains pending events without blocking, returning them in FIFO
// order (events from one Session always arrive in the order produced).
func (s *Session) Poll() []Event {
	var out []Event
	for {
		select {
		case ev, ok := <-s.events:
			if !ok {
				return out
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}

// Close kills the child process (SIGKILL, not SIGHUP), closes the master,
// and waits for the child to exit. It does not wait for the reader
// goroutine, which ends on its own once reads on the closed master fail.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	err := s.master.Close()
	_, _ = s.cmd.Process.Wait()
	return err
}

// publish sends an event, blocking if the channel is full. The bounded
// capacity is the backpressure point: a stalled reader on the consumer
// side slows this goroutine's reads rather than losing data.
func (s *Session) publish(ev Event) {
	s.events <- ev
}

func (s *Session) terminate() {
	s.doneOnce.Do(func() {
		close(s.events)
	})
}
