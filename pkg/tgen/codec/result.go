// Package codec converts interpreter reply strings to and from typed values.
//
// The remote interpreter speaks in untyped text: a reply is a scalar, a
// whitespace-separated list whose elements may themselves be brace-wrapped
// lists, or an error diagnostic distinguished only by a marker prefix.
// Result preserves that "scalar or list at any depth" shape as an explicit
// tagged union, with failures carried as values rather than panics.
package codec

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the three Result variants.
type Kind int

const (
	KindScalar Kind = iota
	KindList
	KindFailure
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindFailure:
		return "failure"
	}
	return "unknown"
}

// FailureKind is a coarse classification of an interpreter-side failure.
// The original diagnostic text is always preserved alongside the kind.
type FailureKind string

const (
	FailureNotFound    FailureKind = "not-found"
	FailureBadArgument FailureKind = "bad-argument"
	FailureMalformed   FailureKind = "malformed-result"
	FailureUnknown     FailureKind = "unknown"
	FailureTransport   FailureKind = "transport"
	FailureStaleHandle FailureKind = "stale-handle"
)

// Failure describes a failed interpreter call. It implements error so
// callers that want conventional error flow can return it directly.
type Failure struct {
	Kind FailureKind
	Text string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Text)
}

// Result is a tagged union over the interpreter's reply shapes: a scalar
// string, an ordered (possibly nested) list, or a failure. The zero value
// is Scalar("").
//
// Invariant: a list never contains a failure element. Failures only ever
// appear at the top level of a decoded reply.
type Result struct {
	kind    Kind
	scalar  string
	items   []Result
	failure *Failure
}

// Scalar returns a scalar result holding s.
func Scalar(s string) Result {
	return Result{kind: KindScalar, scalar: s}
}

// List returns a list result over items.
func List(items ...Result) Result {
	return Result{kind: KindList, items: items}
}

// Fail returns a failure result with the given kind and diagnostic text.
func Fail(kind FailureKind, text string) Result {
	return Result{kind: KindFailure, failure: &Failure{Kind: kind, Text: text}}
}

// TransportFailure wraps a transport-level error as a failure result.
func TransportFailure(err error) Result {
	return Fail(FailureTransport, err.Error())
}

// Kind returns the variant tag.
func (r Result) Kind() Kind { return r.kind }

// IsFailure reports whether the result is a failure.
func (r Result) IsFailure() bool { return r.kind == KindFailure }

// IsList reports whether the result is a list.
func (r Result) IsList() bool { return r.kind == KindList }

// Failure returns the failure value, or nil for scalar and list results.
func (r Result) Failure() *Failure {
	return r.failure
}

// Scalar returns the scalar value. Lists and failures return "".
func (r Result) Scalar() string {
	return r.scalar
}

// Items returns the list elements. Scalars and failures return nil.
func (r Result) Items() []Result {
	return r.items
}

// Len returns the number of list elements; scalars and failures have none.
func (r Result) Len() int {
	return len(r.items)
}

// Int interprets a scalar result as an integer.
func (r Result) Int() (int, error) {
	if r.kind != KindScalar {
		return 0, fmt.Errorf("cannot interpret %s as int", r.kind)
	}
	n, err := strconv.Atoi(strings.TrimSpace(r.scalar))
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", r.scalar)
	}
	return n, nil
}

// Float interprets a scalar result as a float.
func (r Result) Float() (float64, error) {
	if r.kind != KindScalar {
		return 0, fmt.Errorf("cannot interpret %s as float", r.kind)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(r.scalar), 64)
	if err != nil {
		return 0, fmt.Errorf("not a float: %q", r.scalar)
	}
	return f, nil
}

// Bool interprets a scalar result as a boolean using the device truth
// conventions (see IsTrue and IsFalse).
func (r Result) Bool() (bool, error) {
	if r.kind != KindScalar {
		return false, fmt.Errorf("cannot interpret %s as bool", r.kind)
	}
	switch {
	case IsTrue(r.scalar):
		return true, nil
	case IsFalse(r.scalar):
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", r.scalar)
}

// Strings flattens the result into its scalar leaves, depth-first.
// A scalar yields a single-element slice; a failure yields nil.
func (r Result) Strings() []string {
	switch r.kind {
	case KindScalar:
		return []string{r.scalar}
	case KindList:
		var out []string
		for _, item := range r.items {
			out = append(out, item.Strings()...)
		}
		return out
	}
	return nil
}

// Equal reports deep equality between two results.
func (r Result) Equal(other Result) bool {
	if r.kind != other.kind {
		return false
	}
	switch r.kind {
	case KindScalar:
		return r.scalar == other.scalar
	case KindList:
		if len(r.items) != len(other.items) {
			return false
		}
		for i := range r.items {
			if !r.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	case KindFailure:
		return r.failure.Kind == other.failure.Kind && r.failure.Text == other.failure.Text
	}
	return false
}

// String renders the result for logs and CLI output. Lists render in wire
// syntax; failures render as "<kind>: <text>".
func (r Result) String() string {
	switch r.kind {
	case KindScalar:
		return r.scalar
	case KindList:
		s, err := Encode(r)
		if err != nil {
			return fmt.Sprintf("%v", r.items)
		}
		return s
	case KindFailure:
		return r.failure.Error()
	}
	return ""
}

// Truth values as the devices report them. Some interpreters answer
// boolean queries with their own sentinels (e.g. ::ixnet::ok) rather
// than canonical true/false strings.
var (
	trueValues  = []string{"true", "yes", "1", "::ixnet::ok"}
	falseValues = []string{"false", "no", "0", "null", "none", "::ixnet::obj-null"}
)

// IsTrue reports whether s represents a true value in device replies.
func IsTrue(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, v := range trueValues {
		if s == v {
			return true
		}
	}
	return false
}

// IsFalse reports whether s represents a false value in device replies.
func IsFalse(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, v := range falseValues {
		if s == v {
			return true
		}
	}
	return false
}
