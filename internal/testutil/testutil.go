// Package testutil provides test doubles for the interpreter side of
// the command channel: an in-memory fake interpreter and a TCP console
// server speaking the same line protocol as a real device console.
package testutil

import (
	"fmt"
	"net"
	"strings"
	"sync"
)

// FakeInterp is a scripted in-process interpreter. Commands are answered
// from the Replies map (longest-prefix match) or by the Handler if set;
// anything else echoes back the device "ok" sentinel.
type FakeInterp struct {
	Replies map[string]string
	Handler func(cmd string) (string, error)

	mu       sync.Mutex
	Commands []string
}

// Eval records the command and produces its scripted reply.
func (f *FakeInterp) Eval(cmd string) (string, error) {
	f.mu.Lock()
	f.Commands = append(f.Commands, cmd)
	f.mu.Unlock()

	if f.Handler != nil {
		return f.Handler(cmd)
	}
	if reply, ok := f.lookup(cmd); ok {
		return reply, nil
	}
	return "ok", nil
}

func (f *FakeInterp) lookup(cmd string) (string, bool) {
	if f.Replies == nil {
		return "", false
	}
	if reply, ok := f.Replies[cmd]; ok {
		return reply, true
	}
	best := ""
	found := false
	for prefix := range f.Replies {
		if strings.HasPrefix(cmd, prefix) && len(prefix) > len(best) {
			best = prefix
			found = true
		}
	}
	if !found {
		return "", false
	}
	return f.Replies[best], true
}

// Sent returns a copy of the commands evaluated so far.
func (f *FakeInterp) Sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.Commands))
	copy(out, f.Commands)
	return out
}

// ConsoleServer is a single-connection TCP server that answers each
// received line through Handle, mimicking a device console. When Echo
// is set the received line is written back before the reply, and when
// Prompt is set every output line is prefixed with it.
type ConsoleServer struct {
	Handle func(cmd string) string
	Echo   bool
	Prompt string

	listener net.Listener
	wg       sync.WaitGroup

	mu       sync.Mutex
	received []string
}

// NewConsoleServer starts the server on a random localhost port.
func NewConsoleServer(handle func(cmd string) string) (*ConsoleServer, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("console server listen: %w", err)
	}
	s := &ConsoleServer{Handle: handle, listener: listener}
	s.wg.Add(1)
	go s.serve()
	return s, nil
}

// Addr returns the server's host:port.
func (s *ConsoleServer) Addr() string {
	return s.listener.Addr().String()
}

// Received returns a copy of the command lines seen so far.
func (s *ConsoleServer) Received() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.received))
	copy(out, s.received)
	return out
}

// Close stops the listener and waits for the connection handler.
func (s *ConsoleServer) Close() error {
	err := s.listener.Close()
	s.wg.Wait()
	return err
}

func (s *ConsoleServer) serve() {
	defer s.wg.Done()
	conn, err := s.listener.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	buf := make([]byte, 4096)
	var partial string
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return
		}
		partial += string(buf[:n])
		for {
			idx := strings.IndexByte(partial, '\n')
			if idx < 0 {
				break
			}
			line := strings.TrimRight(partial[:idx], "\r")
			partial = partial[idx+1:]

			s.mu.Lock()
			s.received = append(s.received, line)
			s.mu.Unlock()

			if s.Echo {
				fmt.Fprintf(conn, "%s%s\n", s.Prompt, line)
			}
			if reply := s.Handle(line); reply != noReply {
				fmt.Fprintf(conn, "%s%s\n", s.Prompt, reply)
			}
		}
	}
}

// noReply is returned by a Handle func to suppress the reply line,
// simulating a device that stays silent (to exercise read timeouts).
const noReply = "\x00noreply"

// NoReply suppresses the reply for a command (exercises timeouts).
func NoReply() string { return noReply }
