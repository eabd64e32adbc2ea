package ptysession

import (
	"io"
	"log"
)

// readChunk bounds a single read from the master, grounded on the
// teacher's pty_app.go reader loop (4096-byte reads).
const readChunk = 4096

// readLoop is the dedicated reader task: it reads up to readChunk bytes at
// a time and publishes Data events. A read error (EOF, EIO from a closed
// slave, or anything else) ends the loop; it first checks whether the
// child has exited so the UI sees Exited rather than a raw Error whenever
// possible. No events are ever produced after Exited/Error.
func (s *Session) readLoop() {
	defer s.terminate()
	buf := make([]byte, readChunk)

	for {
		n, err := s.master.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			s.publish(Event{Kind: EventData, Data: data})
		}
		if err == nil {
			continue
		}

		if code, exited := s.tryWaitChild(); exited {
			s.publish(Event{Kind: EventExited, Code: code})
			return
		}
		if err == io.EOF {
			s.publish(Event{Kind: EventExited, Code: -1})
			return
		}
		s.publish(Event{Kind: EventError, Err: err})
		return
	}
}

// tryWaitChild performs a non-blocking check of whether the child process
// has exited, returning its exit code when it has.
func (s *Session) tryWaitChild() (code int, exited bool) {
	if s.cmd.ProcessState != nil {
		return s.cmd.ProcessState.ExitCode(), true
	}
	if s.cmd.Process == nil {
		return 0, false
	}

	done := make(chan struct{})
	var waitErr error
	go func() {
		waitErr = s.cmd.Wait()
		close(done)
	}()

	select {
	case <-done:
		if s.cmd.ProcessState != nil {
			return s.cmd.ProcessState.ExitCode(), true
		}
		if waitErr != nil {
			log.Printf("ptysession: wait error: %v", waitErr)
		}
		return -1, true
	default:
		return 0, false
	}
}
