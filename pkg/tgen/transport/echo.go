package transport

import "strings"

// echoFilter tracks commands written to an echoing console so their
// echo lines can be dropped from the reply stream. A send without a
// paired receive (a fire-and-forget call) leaves its echo queued; the
// queue is drained in send order when later replies are read, so a
// stale echo is never handed back as a reply.
type echoFilter struct {
	pending []string
}

func (f *echoFilter) sent(cmd string) {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return
	}
	f.pending = append(f.pending, cmd)
}

// drop reports whether line is the echo of the oldest unconsumed send,
// consuming it when so.
func (f *echoFilter) drop(line string) bool {
	if len(f.pending) == 0 || strings.TrimSpace(line) != f.pending[0] {
		return false
	}
	f.pending = f.pending[1:]
	return true
}
