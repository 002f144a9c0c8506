// Package transport abstracts the raw command/reply channel to an
// interpreter: send one command string, receive one reply string.
// Variants own the byte and line framing; callers above own command
// ordering, logging, and decoding.
package transport

import (
	"errors"
	"fmt"
	"time"
)

// Transport is the capability set every channel variant provides.
//
// Ordering contract: a Send followed by a Receive on the same transport
// pairs with exactly that command's reply. There is no multiplexing and
// no request identifier on the wire, so callers must not interleave
// commands; the session layer enforces this.
type Transport interface {
	// Send transmits one command. It does not wait for the reply.
	Send(cmd string) error

	// Receive blocks for the next reply payload. Exceeding the
	// configured read timeout returns an Error of KindTimeout and
	// leaves the transport usable for a subsequent command.
	Receive() (string, error)

	// Close tears the channel down. Any in-flight Receive unblocks
	// with an Error of KindClosed.
	Close() error
}

// ErrorKind classifies transport failures.
type ErrorKind string

const (
	KindTimeout ErrorKind = "timeout"
	KindClosed  ErrorKind = "closed"
	KindIO      ErrorKind = "io"
)

// Error is a transport-level failure. It never represents an
// interpreter-side diagnostic — those arrive as ordinary reply text.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport %s: %v", e.Kind, e.Err)
	}
	return "transport " + string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// IsTimeout reports whether err is a transport timeout.
func IsTimeout(err error) bool {
	var te *Error
	return errors.As(err, &te) && te.Kind == KindTimeout
}

// IsClosed reports whether err means the transport was closed.
func IsClosed(err error) bool {
	var te *Error
	return errors.As(err, &te) && te.Kind == KindClosed
}

// Config carries the options a transport variant needs to open and
// frame its channel. Unused fields are ignored by variants that do not
// need them.
type Config struct {
	// Endpoint is the remote address (host:port) for network variants.
	Endpoint string

	// ReadTimeout bounds a single Receive. Zero means wait forever.
	ReadTimeout time.Duration

	// Prompt is a regexp stripped from reply lines before they are
	// considered payload. Console sessions echo a shell-style prompt
	// that is noise to the caller. Empty disables stripping.
	Prompt string

	// StripEcho drops the first reply line when it echoes the command
	// just sent. Most console servers echo input.
	StripEcho bool

	// User and Password authenticate the ssh variant.
	User     string
	Password string

	// Command is the remote interpreter program the ssh variant
	// launches (e.g. "tclsh"). Empty defaults to the login shell.
	Command string
}
