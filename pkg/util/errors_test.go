package util

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestConnectError(t *testing.T) {
	dialErr := errors.New("connection refused")
	err := NewConnectError("192.168.1.10:8022", "dial failed", dialErr)

	msg := err.Error()
	if !strings.Contains(msg, "192.168.1.10:8022") {
		t.Errorf("Error message should contain endpoint: %s", msg)
	}
	if !strings.Contains(msg, "dial failed") {
		t.Errorf("Error message should contain reason: %s", msg)
	}
	if !strings.Contains(msg, "connection refused") {
		t.Errorf("Error message should contain wrapped error: %s", msg)
	}

	if !errors.Is(err, dialErr) {
		t.Errorf("ConnectError should unwrap to the underlying error")
	}
}

func TestConnectErrorNoCause(t *testing.T) {
	err := NewConnectError("localhost:8022", "handshake rejected", nil)
	msg := err.Error()

	if strings.HasSuffix(msg, ": ") {
		t.Errorf("Error message should not have trailing separator: %q", msg)
	}
	if errors.Unwrap(err) != nil {
		t.Errorf("Unwrap should return nil when no cause")
	}
}

func TestValidationError(t *testing.T) {
	t.Run("single error", func(t *testing.T) {
		err := NewValidationError("endpoint is required")
		msg := err.Error()
		if !strings.Contains(msg, "endpoint is required") {
			t.Errorf("Error message should contain the error: %s", msg)
		}
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("ValidationError should unwrap to ErrInvalidConfig")
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		err := NewValidationError("endpoint is required", "read_timeout must be positive")
		msg := err.Error()
		if !strings.Contains(msg, "endpoint is required") {
			t.Errorf("Error message should contain first error: %s", msg)
		}
		if !strings.Contains(msg, "read_timeout must be positive") {
			t.Errorf("Error message should contain second error: %s", msg)
		}
	})
}

func TestValidationBuilder(t *testing.T) {
	t.Run("no errors", func(t *testing.T) {
		var vb ValidationBuilder
		vb.Add(true, "should not appear")
		if vb.HasErrors() {
			t.Error("builder should have no errors")
		}
		if err := vb.Build(); err != nil {
			t.Errorf("Build() = %v, want nil", err)
		}
	})

	t.Run("accumulates errors", func(t *testing.T) {
		var vb ValidationBuilder
		vb.Add(false, "first")
		vb.AddError("second")
		vb.AddErrorf("third %d", 3)

		if !vb.HasErrors() {
			t.Fatal("builder should have errors")
		}
		err := vb.Build()
		if err == nil {
			t.Fatal("Build() should return an error")
		}
		for _, want := range []string{"first", "second", "third 3"} {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("error should contain %q: %s", want, err.Error())
			}
		}
	})
}

func TestSentinelWrapping(t *testing.T) {
	err := fmt.Errorf("call on chassis1: %w", ErrSessionClosed)
	if !errors.Is(err, ErrSessionClosed) {
		t.Error("wrapped sentinel should match with errors.Is")
	}
}
