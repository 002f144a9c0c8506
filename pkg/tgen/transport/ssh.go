package transport

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/crypto/ssh"

	"github.com/tgen-network/tgen/pkg/util"
)

// SSH runs a remote interpreter over an ssh channel and frames its
// stdin/stdout as a line-oriented console. Used when the device exposes
// its scripting engine only behind a login host.
type SSH struct {
	client   *ssh.Client
	session  *ssh.Session
	stdin    io.WriteCloser
	stream   *lineStream
	cfg      Config
	promptRE *regexp.Regexp
	echo     echoFilter
}

// DialSSH connects to cfg.Endpoint, starts cfg.Command (or the login
// shell) and wires its pipes as the command channel.
func DialSSH(cfg Config) (*SSH, error) {
	promptRE, err := compilePrompt(cfg.Prompt)
	if err != nil {
		return nil, err
	}

	sshCfg := &ssh.ClientConfig{
		User: cfg.User,
		Auth: []ssh.AuthMethod{
			ssh.Password(cfg.Password),
		},
		// Lab/test environment — production would verify host keys.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         dialTimeout,
	}

	client, err := ssh.Dial("tcp", cfg.Endpoint, sshCfg)
	if err != nil {
		return nil, util.NewConnectError(cfg.Endpoint, "ssh dial failed", err)
	}

	session, err := client.NewSession()
	if err != nil {
		client.Close()
		return nil, util.NewConnectError(cfg.Endpoint, "ssh session failed", err)
	}

	stdin, err := session.StdinPipe()
	if err != nil {
		session.Close()
		client.Close()
		return nil, util.NewConnectError(cfg.Endpoint, "stdin pipe failed", err)
	}
	stdout, err := session.StdoutPipe()
	if err != nil {
		session.Close()
		client.Close()
		return nil, util.NewConnectError(cfg.Endpoint, "stdout pipe failed", err)
	}

	if cfg.Command != "" {
		err = session.Start(cfg.Command)
	} else {
		err = session.Shell()
	}
	if err != nil {
		session.Close()
		client.Close()
		return nil, util.NewConnectError(cfg.Endpoint, "starting remote interpreter", err)
	}

	util.WithEndpoint(cfg.Endpoint).Debug("SSH transport connected")
	return &SSH{
		client:   client,
		session:  session,
		stdin:    stdin,
		stream:   newLineStream(stdout),
		cfg:      cfg,
		promptRE: promptRE,
	}, nil
}

// Send writes one command line to the remote interpreter's stdin.
func (s *SSH) Send(cmd string) error {
	if s.stream.isClosed() {
		return &Error{Kind: KindClosed}
	}
	if _, err := s.stdin.Write([]byte(cmd + "\n")); err != nil {
		return &Error{Kind: KindIO, Err: err}
	}
	if s.cfg.StripEcho {
		s.echo.sent(cmd)
	}
	return nil
}

// Receive returns the next reply line with prompt and echo removed.
func (s *SSH) Receive() (string, error) {
	for {
		line, err := s.stream.next(s.cfg.ReadTimeout)
		if err != nil {
			return "", err
		}
		line = strings.TrimRight(line, "\r")
		if s.promptRE != nil {
			line = s.promptRE.ReplaceAllString(line, "")
		}
		if s.cfg.StripEcho && s.echo.drop(line) {
			continue
		}
		return line, nil
	}
}

// Close tears down the ssh session and client, unblocking any in-flight
// Receive.
func (s *SSH) Close() error {
	s.stream.close()
	if err := s.session.Close(); err != nil && err.Error() != "EOF" {
		util.Debugf("ssh session close: %v", err)
	}
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("ssh close: %w", err)
	}
	return nil
}
