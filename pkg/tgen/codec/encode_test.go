package codec

import (
	"strings"
	"testing"
)

func TestEncodeScalars(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"bare word", "up", "up"},
		{"empty string", "", "{}"},
		{"string with space", "hello world", "{hello world}"},
		{"int", 1000, "1000"},
		{"int64", int64(-5), "-5"},
		{"uint", uint(7), "7"},
		{"float", 2.5, "2.5"},
		{"bool true", true, "1"},
		{"bool false", false, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.value)
			if err != nil {
				t.Fatalf("Encode(%v) error: %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("Encode(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestEncodeLists(t *testing.T) {
	got, err := Encode([]string{"port1", "port2", "b b"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "port1 port2 {b b}" {
		t.Errorf("Encode = %q", got)
	}

	got, err = Encode([]interface{}{"a", []interface{}{"b", "c"}, 3})
	if err != nil {
		t.Fatal(err)
	}
	if got != "a {b c} 3" {
		t.Errorf("Encode = %q", got)
	}
}

func TestEncodeArgWrapsLists(t *testing.T) {
	got, err := EncodeArg(List(Scalar("a"), Scalar("b")))
	if err != nil {
		t.Fatal(err)
	}
	if got != "{a b}" {
		t.Errorf("EncodeArg = %q, want {a b}", got)
	}

	got, err = EncodeArg("single")
	if err != nil {
		t.Fatal(err)
	}
	if got != "single" {
		t.Errorf("EncodeArg = %q", got)
	}
}

func TestEncodeRejectsFailure(t *testing.T) {
	if _, err := Encode(Fail(FailureUnknown, "boom")); err == nil {
		t.Error("Encode(failure) should error")
	}
	if _, err := Encode(struct{}{}); err == nil {
		t.Error("Encode(unsupported type) should error")
	}
	if _, err := Encode("un{balanced"); err == nil {
		t.Error("Encode of unbalanced braces should error")
	}
}

// Round-trip property: for values the grammar represents unambiguously,
// Decode(Encode(v)) reproduces v exactly.
func TestRoundTrip(t *testing.T) {
	values := []Result{
		Scalar(""),
		Scalar("ok"),
		Scalar("1000"),
		Scalar("val-with-dash"),
		List(Scalar("a"), Scalar("b"), Scalar("c")),
		List(Scalar("a"), List(Scalar("b"), Scalar("c"))),
		List(
			List(Scalar("chassis"), Scalar("1")),
			List(Scalar("card"), Scalar("2")),
			List(Scalar("port"), List(Scalar("3"), Scalar("4"))),
		),
		List(Scalar(""), Scalar("x")),
	}

	for _, v := range values {
		wire, err := Encode(v)
		if err != nil {
			t.Fatalf("Encode(%v) error: %v", v, err)
		}
		back := Decode(wire)
		if !back.Equal(v) {
			t.Errorf("round trip %v -> %q -> %v", v, wire, back)
		}
	}
}

func TestFileName(t *testing.T) {
	got := FileName("logs/run one.tcl")
	if !strings.HasPrefix(got, "{") || !strings.HasSuffix(got, "}") {
		t.Errorf("FileName should brace-wrap: %q", got)
	}
	if strings.Contains(got, "\\") {
		t.Errorf("FileName should use forward slashes: %q", got)
	}
}
