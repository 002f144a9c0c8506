// Package session implements the command channel: one open connection
// to one interpreter instance, with strict request/response turn-taking,
// verbatim transcript capture, and reply decoding.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tgen-network/tgen/pkg/tgen/codec"
	"github.com/tgen-network/tgen/pkg/tgen/transcript"
	"github.com/tgen-network/tgen/pkg/tgen/transport"
	"github.com/tgen-network/tgen/pkg/util"
)

// Command is one issued command: immutable once created, discarded
// after its result is consumed.
type Command struct {
	Seq  uint64
	Text string
	Time time.Time
}

// Config selects and parameterizes the transport for a new session.
type Config struct {
	// Name identifies the session in logs and the CLI.
	Name string

	// Kind selects the transport variant: "console", "ssh", or
	// "embedded".
	Kind string

	// Transport carries endpoint, timeout, prompt, and credentials.
	Transport transport.Config

	// Interp is the in-process interpreter for Kind "embedded".
	Interp transport.Interpreter

	// LogPath is the transcript file. Empty disables the transcript.
	LogPath string

	// RecordResults additionally captures each raw reply as comment
	// lines in the transcript.
	RecordResults bool

	// Convention overrides the error-reply convention. Nil uses
	// codec.DefaultConvention.
	Convention *codec.Convention
}

func (c *Config) validate() error {
	var vb util.ValidationBuilder
	vb.Add(c.Name != "", "session name is required")
	switch c.Kind {
	case "console", "ssh":
		vb.Add(c.Transport.Endpoint != "", "endpoint is required for "+c.Kind+" transport")
	case "embedded":
		vb.Add(c.Interp != nil, "embedded transport requires an interpreter")
	default:
		vb.AddErrorf("unknown transport kind %q", c.Kind)
	}
	return vb.Build()
}

// Session is one open command channel to one interpreter. It owns
// exactly one Transport and one transcript for its lifetime; every
// entity node reachable from it becomes invalid once it closes.
//
// Exactly one command is in flight at a time. The underlying protocol
// has no multiplexing and no request identifiers, so concurrent callers
// are serialized on the session mutex and replies pair with commands by
// strict alternation.
type Session struct {
	id   string
	name string

	// mu serializes calls: held across the full send/receive/decode
	// round trip. stateMu guards the connected flag only, so Close can
	// run while a call is blocked in Receive.
	mu      sync.Mutex
	stateMu sync.Mutex

	tr        transport.Transport
	log       *transcript.Logger
	conv      *codec.Convention
	seq       uint64
	connected bool

	recordResults bool
}

// Connect opens a session per cfg: dials the transport, opens the
// transcript, and returns the ready channel.
func Connect(cfg Config) (*Session, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	var (
		tr  transport.Transport
		err error
	)
	switch cfg.Kind {
	case "console":
		tr, err = transport.DialConsole(cfg.Transport)
	case "ssh":
		tr, err = transport.DialSSH(cfg.Transport)
	case "embedded":
		tr = transport.NewEmbedded(cfg.Interp)
	}
	if err != nil {
		return nil, err
	}

	var log *transcript.Logger
	if cfg.LogPath != "" {
		log, err = transcript.New(cfg.LogPath)
		if err != nil {
			tr.Close()
			return nil, err
		}
	}

	s := Open(cfg.Name, tr, log, cfg.Convention)
	s.recordResults = cfg.RecordResults
	util.WithFields(map[string]interface{}{
		"session": s.name,
		"id":      s.id,
		"kind":    cfg.Kind,
	}).Info("Session connected")
	return s, nil
}

// Open wraps an already-built transport as a session. Connect is the
// usual entry point; Open exists for custom transports and tests.
func Open(name string, tr transport.Transport, log *transcript.Logger, conv *codec.Convention) *Session {
	if conv == nil {
		conv = codec.DefaultConvention()
	}
	return &Session{
		id:        uuid.NewString(),
		name:      name,
		tr:        tr,
		log:       log,
		conv:      conv,
		connected: true,
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Name returns the configured session name.
func (s *Session) Name() string { return s.name }

// Convention returns the error-reply convention in effect.
func (s *Session) Convention() *codec.Convention { return s.conv }

// TranscriptPath returns the transcript location, or "" when disabled.
func (s *Session) TranscriptPath() string { return s.log.Path() }

// Connected reports whether the session is open.
func (s *Session) Connected() bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.connected
}

// Seq returns the sequence number of the most recently issued command.
func (s *Session) Seq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Call sends one command and blocks for its decoded reply.
//
// Interpreter diagnostics, transport timeouts, and decode problems all
// come back inside the Result as failures — the error return is non-nil
// only for programmer misuse, i.e. calling on a closed session. Results
// are returned in issue order because only one command is ever
// outstanding.
func (s *Session) Call(ctx context.Context, command string) (codec.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Connected() {
		return codec.Result{}, fmt.Errorf("call %q: %w", s.name, util.ErrSessionClosed)
	}
	if err := ctx.Err(); err != nil {
		return codec.Result{}, err
	}

	cmd := s.nextCommand(command)
	s.log.Record(cmd.Text)
	util.WithSession(s.name).Debugf("[%d] %s", cmd.Seq, cmd.Text)

	if err := s.tr.Send(cmd.Text); err != nil {
		return codec.TransportFailure(err), nil
	}
	raw, err := s.tr.Receive()
	if err != nil {
		return codec.TransportFailure(err), nil
	}
	if s.recordResults {
		s.log.RecordResult(raw)
	}

	result := s.conv.Decode(raw)
	util.WithSession(s.name).Debugf("[%d] -> %s", cmd.Seq, result)
	return result, nil
}

// CallAsync sends a command without waiting for a reply, for control
// commands where the device is known not to answer. The command is
// still sequenced and recorded in the transcript.
func (s *Session) CallAsync(ctx context.Context, command string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Connected() {
		return fmt.Errorf("call %q: %w", s.name, util.ErrSessionClosed)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	cmd := s.nextCommand(command)
	s.log.Record(cmd.Text)
	util.WithSession(s.name).Debugf("[%d] (async) %s", cmd.Seq, cmd.Text)

	if err := s.tr.Send(cmd.Text); err != nil {
		return fmt.Errorf("send %q: %w", command, err)
	}
	return nil
}

// nextCommand assigns the next sequence number. Caller holds s.mu.
func (s *Session) nextCommand(text string) Command {
	s.seq++
	return Command{Seq: s.seq, Text: text, Time: time.Now()}
}

// Close tears the session down: the transport closes (unblocking any
// in-flight receive) and the transcript is flushed. Closing twice is a
// no-op. All entity nodes held against this session become stale.
func (s *Session) Close() error {
	s.stateMu.Lock()
	if !s.connected {
		s.stateMu.Unlock()
		return nil
	}
	s.connected = false
	s.stateMu.Unlock()

	// Closing the transport unblocks a call stuck in Receive; wait for
	// that call to drain before touching the transcript.
	err := s.tr.Close()
	s.mu.Lock()
	s.mu.Unlock()

	if lerr := s.log.Close(); err == nil {
		err = lerr
	}
	util.WithSession(s.name).Info("Session closed")
	return err
}
