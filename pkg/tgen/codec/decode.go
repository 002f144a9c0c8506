package codec

import "strings"

// Convention describes how a particular device family marks and phrases
// error replies. The interpreter has no structured fault channel — an
// error reply is ordinary text behind a marker prefix — so both the
// markers and the diagnostic classification are per-family data, not
// hard-coded rules.
type Convention struct {
	// Markers are prefixes that distinguish an error reply from a
	// success reply. Matching is done after trimming leading whitespace.
	Markers []string

	// Classify maps known diagnostic substrings to coarse failure kinds.
	// Unmatched diagnostics classify as FailureUnknown.
	Classify map[string]FailureKind
}

// DefaultConvention returns the error convention shared by the Tcl-based
// chassis families we drive. Device catalogs may replace or extend it.
func DefaultConvention() *Convention {
	return &Convention{
		Markers: []string{"error:", "ERROR:"},
		Classify: map[string]FailureKind{
			"no such object":   FailureNotFound,
			"not found":        FailureNotFound,
			"wrong # args":     FailureBadArgument,
			"wrong number of":  FailureBadArgument,
			"bad argument":     FailureBadArgument,
			"bad option":       FailureBadArgument,
			"invalid argument": FailureBadArgument,
		},
	}
}

// classify looks up the failure kind for a diagnostic. The original text
// is never dropped; only the coarse kind is derived here.
func (c *Convention) classify(diag string) FailureKind {
	lower := strings.ToLower(diag)
	for substr, kind := range c.Classify {
		if strings.Contains(lower, strings.ToLower(substr)) {
			return kind
		}
	}
	return FailureUnknown
}

// errorText returns the diagnostic remainder and true when raw matches
// one of the error markers.
func (c *Convention) errorText(raw string) (string, bool) {
	trimmed := strings.TrimLeft(raw, " \t\r\n")
	for _, marker := range c.Markers {
		if strings.HasPrefix(trimmed, marker) {
			return strings.TrimSpace(trimmed[len(marker):]), true
		}
	}
	return "", false
}

// Decode parses a raw interpreter reply into a Result.
//
// An error-marked reply decodes to a classified failure. Anything else is
// tokenized with the interpreter's whitespace/brace grouping: a reply that
// splits into multiple elements becomes a list, a brace- or quote-wrapped
// element that splits further becomes a nested list, and everything else
// is a scalar string. No numeric or boolean inference happens here — the
// caller interprets scalars through the Result accessors.
//
// Empty input decodes to Scalar(""). Unbalanced braces decode to a
// failure of kind malformed-result; Decode never panics on device text.
func (c *Convention) Decode(raw string) Result {
	if diag, ok := c.errorText(raw); ok {
		return Fail(c.classify(diag), diag)
	}
	return decodeText(raw)
}

// Decode parses raw using DefaultConvention.
func Decode(raw string) Result {
	return DefaultConvention().Decode(raw)
}

func decodeText(raw string) Result {
	elems, err := splitElements(raw)
	if err != nil {
		return Fail(FailureMalformed, raw)
	}
	switch len(elems) {
	case 0:
		return Scalar("")
	case 1:
		return decodeElement(elems[0])
	}
	items := make([]Result, len(elems))
	for i, e := range elems {
		items[i] = decodeElement(e)
	}
	return List(items...)
}

// decodeElement turns one top-level token into a Result. Wrapped tokens
// are re-tokenized so nested lists of arbitrary depth come out as nested
// List values.
func decodeElement(e element) Result {
	if !e.wrapped {
		return Scalar(e.text)
	}
	inner, err := splitElements(e.text)
	if err != nil {
		return Fail(FailureMalformed, e.text)
	}
	switch len(inner) {
	case 0:
		return Scalar("")
	case 1:
		// {a} is the scalar a; {{a b}} recurses into the inner wrap.
		if inner[0].wrapped {
			return decodeElement(inner[0])
		}
		return Scalar(inner[0].text)
	}
	items := make([]Result, len(inner))
	for i, in := range inner {
		items[i] = decodeElement(in)
	}
	return List(items...)
}

// element is one token of a tokenized reply. wrapped marks tokens that
// were brace- or quote-grouped and may therefore hold a nested list.
type element struct {
	text    string
	wrapped bool
}

type parseError struct{ msg string }

func (e *parseError) Error() string { return e.msg }

// splitElements tokenizes s into top-level elements, honoring brace
// nesting, double quotes, and backslash escapes.
func splitElements(s string) ([]element, error) {
	var elems []element
	i := 0
	n := len(s)
	for i < n {
		// Skip inter-element whitespace.
		for i < n && isSpace(s[i]) {
			i++
		}
		if i >= n {
			break
		}
		switch s[i] {
		case '{':
			depth := 1
			j := i + 1
			for j < n && depth > 0 {
				switch s[j] {
				case '\\':
					j++ // escaped char is literal
				case '{':
					depth++
				case '}':
					depth--
				}
				j++
			}
			if depth != 0 {
				return nil, &parseError{"unbalanced braces"}
			}
			elems = append(elems, element{text: s[i+1 : j-1], wrapped: true})
			i = j
		case '}':
			return nil, &parseError{"unbalanced braces"}
		case '"':
			j := i + 1
			for j < n && s[j] != '"' {
				if s[j] == '\\' {
					j++
				}
				j++
			}
			if j >= n {
				return nil, &parseError{"unterminated quote"}
			}
			elems = append(elems, element{text: s[i+1 : j], wrapped: true})
			i = j + 1
		default:
			j := i
			var b strings.Builder
			for j < n && !isSpace(s[j]) {
				if s[j] == '{' || s[j] == '}' {
					return nil, &parseError{"brace inside bare word"}
				}
				// Backslash escapes metacharacters only; a backslash
				// before anything else is an ordinary byte.
				if s[j] == '\\' && j+1 < n && isMeta(s[j+1]) {
					j++
				}
				b.WriteByte(s[j])
				j++
			}
			elems = append(elems, element{text: b.String()})
			i = j
		}
	}
	return elems, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func isMeta(c byte) bool {
	return c == '{' || c == '}' || c == '"' || c == '\\' || isSpace(c)
}
