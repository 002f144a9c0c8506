package codec

import (
	"testing"
)

func TestDecodeScalars(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \t", ""},
		{"bare word", "ok", "ok"},
		{"number", "1000", "1000"},
		{"braced word", "{a}", "a"},
		{"braced empty", "{}", ""},
		{"quoted word", "\"a\"", "a"},
		{"double wrap single word", "{{a}}", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode(tt.raw)
			if got.Kind() != KindScalar {
				t.Fatalf("Decode(%q).Kind() = %v, want scalar", tt.raw, got.Kind())
			}
			if got.Scalar() != tt.want {
				t.Errorf("Decode(%q) = %q, want %q", tt.raw, got.Scalar(), tt.want)
			}
		})
	}
}

func TestDecodeLists(t *testing.T) {
	t.Run("flat list", func(t *testing.T) {
		got := Decode("port1 port2 port3")
		want := List(Scalar("port1"), Scalar("port2"), Scalar("port3"))
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("braced children reply", func(t *testing.T) {
		// The shape a child-enumeration command answers with.
		got := Decode("{port1 port2 port3}")
		want := List(Scalar("port1"), Scalar("port2"), Scalar("port3"))
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("elements with spaces", func(t *testing.T) {
		// A wrapped element that splits further is a nested list.
		// {b b} and a two-element list are indistinguishable on the
		// wire; see the ambiguity note on Encode.
		got := Decode("{a} {b b}")
		want := List(Scalar("a"), List(Scalar("b"), Scalar("b")))
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
		if s := got.Items()[1].Strings(); len(s) != 2 || s[0] != "b" || s[1] != "b" {
			t.Errorf("flattened element = %v, want [b b]", s)
		}
	})

	t.Run("scalar with spaces round trip", func(t *testing.T) {
		// Encoding "b b" and decoding it back cannot recover the
		// scalar; the wire form reads as a list of two words.
		wire, err := EncodeArg("b b")
		if err != nil {
			t.Fatalf("EncodeArg: %v", err)
		}
		got := Decode(wire)
		want := List(Scalar("b"), Scalar("b"))
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("outer wrap collapses", func(t *testing.T) {
		// {{a} {b b}} and {a} {b b} describe the same list.
		got := Decode("{{a} {b b}}")
		want := Decode("{a} {b b}")
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("nested list", func(t *testing.T) {
		got := Decode("a {b c} {d {e f}}")
		want := List(
			Scalar("a"),
			List(Scalar("b"), Scalar("c")),
			List(Scalar("d"), List(Scalar("e"), Scalar("f"))),
		)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("quoted element", func(t *testing.T) {
		// Quotes group like braces: a quoted element that splits
		// further becomes a nested list.
		got := Decode(`first "second part" third`)
		want := List(Scalar("first"), List(Scalar("second"), Scalar("part")), Scalar("third"))
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"unclosed brace", "{a b"},
		{"stray close", "a } b"},
		{"unterminated quote", `"a b`},
		{"brace in bare word", "a{b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode(tt.raw)
			if !got.IsFailure() {
				t.Fatalf("Decode(%q) = %v, want failure", tt.raw, got)
			}
			if got.Failure().Kind != FailureMalformed {
				t.Errorf("kind = %v, want %v", got.Failure().Kind, FailureMalformed)
			}
		})
	}
}

func TestDecodeErrorMarker(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantKind FailureKind
		wantText string
	}{
		{
			name:     "not found",
			raw:      "error: no such object ./port5",
			wantKind: FailureNotFound,
			wantText: "no such object ./port5",
		},
		{
			name:     "bad argument",
			raw:      `ERROR: wrong # args: should be "port config ..."`,
			wantKind: FailureBadArgument,
			wantText: `wrong # args: should be "port config ..."`,
		},
		{
			name:     "unknown diagnostic keeps text",
			raw:      "error: the flux capacitor is offline",
			wantKind: FailureUnknown,
			wantText: "the flux capacitor is offline",
		},
		{
			name:     "leading whitespace before marker",
			raw:      "  error: not found: stream 3",
			wantKind: FailureNotFound,
			wantText: "not found: stream 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode(tt.raw)
			if !got.IsFailure() {
				t.Fatalf("Decode(%q) = %v, want failure", tt.raw, got)
			}
			f := got.Failure()
			if f.Kind != tt.wantKind {
				t.Errorf("kind = %v, want %v", f.Kind, tt.wantKind)
			}
			if f.Text != tt.wantText {
				t.Errorf("text = %q, want %q", f.Text, tt.wantText)
			}
		})
	}
}

// An error-marked reply must always decode to a failure, never to a
// scalar or list, regardless of what follows the marker.
func TestErrorMarkerTransparency(t *testing.T) {
	payloads := []string{
		"",
		"ok",
		"{a b c}",
		"{unbalanced",
		"1000",
	}
	for _, p := range payloads {
		got := Decode("error: " + p)
		if !got.IsFailure() {
			t.Errorf("Decode(%q) = %v, want failure", "error: "+p, got)
		}
	}
}

func TestCustomConvention(t *testing.T) {
	conv := &Convention{
		Markers: []string{"::chassis::fault "},
		Classify: map[string]FailureKind{
			"unknown handle": FailureNotFound,
		},
	}

	got := conv.Decode("::chassis::fault unknown handle card3")
	if !got.IsFailure() || got.Failure().Kind != FailureNotFound {
		t.Fatalf("got %v, want not-found failure", got)
	}

	// The default marker means nothing to this convention.
	got = conv.Decode("error: something")
	if got.IsFailure() {
		t.Errorf("got failure for non-matching marker: %v", got)
	}
}

func TestResultAccessors(t *testing.T) {
	if n, err := Scalar("42").Int(); err != nil || n != 42 {
		t.Errorf("Int() = %d, %v", n, err)
	}
	if _, err := Scalar("x").Int(); err == nil {
		t.Error("Int() on non-numeric should fail")
	}
	if f, err := Scalar("2.5").Float(); err != nil || f != 2.5 {
		t.Errorf("Float() = %g, %v", f, err)
	}
	if _, err := List(Scalar("1")).Int(); err == nil {
		t.Error("Int() on list should fail")
	}

	b, err := Scalar("::ixnet::ok").Bool()
	if err != nil || !b {
		t.Errorf("Bool(::ixnet::ok) = %v, %v", b, err)
	}
	b, err = Scalar("null").Bool()
	if err != nil || b {
		t.Errorf("Bool(null) = %v, %v", b, err)
	}
	if _, err := Scalar("maybe").Bool(); err == nil {
		t.Error("Bool() on non-boolean should fail")
	}
}

func TestStringsFlatten(t *testing.T) {
	r := List(Scalar("a"), List(Scalar("b"), List(Scalar("c"))), Scalar("d"))
	got := r.Strings()
	want := []string{"a", "b", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("Strings() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d = %q, want %q", i, got[i], want[i])
		}
	}

	if Fail(FailureUnknown, "x").Strings() != nil {
		t.Error("failure should flatten to nil")
	}
}

func TestTruthTables(t *testing.T) {
	for _, v := range []string{"True", "TRUE", "yes", "1", "::ixnet::ok"} {
		if !IsTrue(v) || IsFalse(v) {
			t.Errorf("%q should be true only", v)
		}
	}
	for _, v := range []string{"False", "no", "0", "null", "NONE", "::ixnet::obj-null"} {
		if !IsFalse(v) || IsTrue(v) {
			t.Errorf("%q should be false only", v)
		}
	}
}
