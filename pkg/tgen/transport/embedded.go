package transport

import (
	"errors"
	"sync"
)

// Interpreter is an in-process scripting engine that can evaluate one
// command and return its raw textual result. Bindings to an embedded
// Tcl (or a pure-Go stand-in for tests) satisfy this.
type Interpreter interface {
	Eval(cmd string) (string, error)
}

// Embedded adapts an in-process Interpreter to the Transport contract.
// Send and receive happen atomically in one call: Send evaluates the
// command immediately and parks the result for the following Receive.
type Embedded struct {
	interp Interpreter

	mu      sync.Mutex
	pending *string
	evalErr error
	closed  bool
}

// NewEmbedded wraps an in-process interpreter as a Transport.
func NewEmbedded(interp Interpreter) *Embedded {
	return &Embedded{interp: interp}
}

// Send evaluates cmd in the embedded interpreter and stores the result
// for the next Receive.
func (e *Embedded) Send(cmd string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return &Error{Kind: KindClosed}
	}

	out, err := e.interp.Eval(cmd)
	if err != nil {
		// The evaluation error surfaces on Receive so the send/receive
		// pairing stays identical to the remote variants.
		e.pending = nil
		e.evalErr = err
		return nil
	}
	e.pending = &out
	e.evalErr = nil
	return nil
}

// Receive returns the result parked by the previous Send.
func (e *Embedded) Receive() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return "", &Error{Kind: KindClosed}
	}
	if e.evalErr != nil {
		err := e.evalErr
		e.evalErr = nil
		return "", &Error{Kind: KindIO, Err: err}
	}
	if e.pending == nil {
		return "", &Error{Kind: KindIO, Err: errors.New("receive without pending command")}
	}
	out := *e.pending
	e.pending = nil
	return out, nil
}

// Close marks the transport closed. The embedded interpreter itself is
// owned by the caller and is not destroyed here.
func (e *Embedded) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.pending = nil
	e.evalErr = nil
	return nil
}
