package transport

import (
	"fmt"
	"net"
	"regexp"
	"strings"
	"time"

	"github.com/tgen-network/tgen/pkg/util"
)

// dialTimeout bounds the TCP connect when no read timeout is configured.
const dialTimeout = 30 * time.Second

// Console is a text-stream session to a remote interpreter console
// (telnet-style). The console echoes input and prints a prompt; both are
// stripped so Receive returns only the reply payload.
type Console struct {
	conn     net.Conn
	stream   *lineStream
	cfg      Config
	promptRE *regexp.Regexp
	echo     echoFilter
}

// DialConsole opens a console transport to cfg.Endpoint.
func DialConsole(cfg Config) (*Console, error) {
	promptRE, err := compilePrompt(cfg.Prompt)
	if err != nil {
		return nil, err
	}

	timeout := cfg.ReadTimeout
	if timeout <= 0 {
		timeout = dialTimeout
	}
	conn, err := net.DialTimeout("tcp", cfg.Endpoint, timeout)
	if err != nil {
		return nil, util.NewConnectError(cfg.Endpoint, "dial failed", err)
	}

	util.WithEndpoint(cfg.Endpoint).Debug("Console transport connected")
	return &Console{
		conn:     conn,
		stream:   newLineStream(conn),
		cfg:      cfg,
		promptRE: promptRE,
	}, nil
}

func compilePrompt(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: bad prompt pattern %q: %v", util.ErrInvalidConfig, pattern, err)
	}
	return re, nil
}

// Send writes one command line.
func (c *Console) Send(cmd string) error {
	if c.stream.isClosed() {
		return &Error{Kind: KindClosed}
	}
	if _, err := fmt.Fprintf(c.conn, "%s\n", cmd); err != nil {
		return &Error{Kind: KindIO, Err: err}
	}
	if c.cfg.StripEcho {
		c.echo.sent(cmd)
	}
	return nil
}

// Receive returns the next reply line with prompt and echo removed.
func (c *Console) Receive() (string, error) {
	for {
		line, err := c.stream.next(c.cfg.ReadTimeout)
		if err != nil {
			return "", err
		}
		line = strings.TrimRight(line, "\r")
		if c.promptRE != nil {
			line = c.promptRE.ReplaceAllString(line, "")
		}
		if c.cfg.StripEcho && c.echo.drop(line) {
			continue
		}
		return line, nil
	}
}

// Close shuts the connection down and unblocks any in-flight Receive.
func (c *Console) Close() error {
	c.stream.close()
	return c.conn.Close()
}
