package transport

import "testing"

func TestEchoFilterDrainsInSendOrder(t *testing.T) {
	var f echoFilter
	f.sent("logger start")
	f.sent("version")

	if !f.drop("logger start") {
		t.Error("oldest echo not dropped")
	}
	if !f.drop("version") {
		t.Error("second echo not dropped")
	}
	if f.drop("version") {
		t.Error("consumed echo dropped twice")
	}
}

func TestEchoFilterOnlyMatchesHead(t *testing.T) {
	var f echoFilter
	f.sent("a")
	f.sent("b")

	// "b" is a reply, not the echo of the oldest send.
	if f.drop("b") {
		t.Error("dropped out-of-order line")
	}
	if !f.drop("a") {
		t.Error("head echo not dropped")
	}
}

func TestEchoFilterIgnoresWhitespaceAndEmpty(t *testing.T) {
	var f echoFilter
	f.sent("  port cget -speed  ")
	if !f.drop("port cget -speed\r") {
		t.Error("whitespace-differing echo not dropped")
	}

	f.sent("")
	if f.drop("") {
		t.Error("blank line dropped with no pending send")
	}
}
