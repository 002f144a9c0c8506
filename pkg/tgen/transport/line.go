package transport

import (
	"bufio"
	"io"
	"sync"
	"time"
)

// readEvent is one delivery from the reader goroutine: a line or the
// terminal read error.
type readEvent struct {
	line string
	err  error
}

// lineStream turns a blocking io.Reader into a channel of lines so that
// Receive can honor timeouts and Close can unblock an in-flight read.
// Network conns and ssh pipes get identical framing this way.
type lineStream struct {
	events chan readEvent
	done   chan struct{}
	once   sync.Once
}

func newLineStream(r io.Reader) *lineStream {
	ls := &lineStream{
		events: make(chan readEvent),
		done:   make(chan struct{}),
	}
	go ls.run(r)
	return ls
}

func (ls *lineStream) run(r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		select {
		case ls.events <- readEvent{line: scanner.Text()}:
		case <-ls.done:
			return
		}
	}
	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	select {
	case ls.events <- readEvent{err: err}:
	case <-ls.done:
	}
}

// next returns the next line, or an Error on timeout, close, or read
// failure. A line that arrives after its Receive timed out stays queued
// and pairs with the next call — recovery is the caller's decision.
func (ls *lineStream) next(timeout time.Duration) (string, error) {
	var timer <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		timer = t.C
	}

	select {
	case ev := <-ls.events:
		if ev.err != nil {
			if ev.err == io.EOF {
				return "", &Error{Kind: KindClosed, Err: ev.err}
			}
			return "", &Error{Kind: KindIO, Err: ev.err}
		}
		return ev.line, nil
	case <-timer:
		return "", &Error{Kind: KindTimeout}
	case <-ls.done:
		return "", &Error{Kind: KindClosed}
	}
}

// close releases any blocked next caller and stops the reader goroutine.
func (ls *lineStream) close() {
	ls.once.Do(func() { close(ls.done) })
}

func (ls *lineStream) isClosed() bool {
	select {
	case <-ls.done:
		return true
	default:
		return false
	}
}
