package codec

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Encode serializes a value into the interpreter's list/scalar syntax.
// It is the encode-direction counterpart of Decode: for values that the
// grammar can represent unambiguously (scalars without embedded
// whitespace or braces, and lists built from them), Decode(Encode(v))
// reproduces v exactly.
//
// Accepted values: string, bool, signed/unsigned integers, float64,
// []string, []interface{}, Result, and fmt.Stringer. Failure results
// cannot be encoded — they are replies, not arguments.
func Encode(v interface{}) (string, error) {
	switch val := v.(type) {
	case Result:
		switch val.kind {
		case KindScalar:
			return quoteScalar(val.scalar)
		case KindList:
			return encodeSlice(val.items)
		case KindFailure:
			return "", fmt.Errorf("cannot encode failure result (%s)", val.failure.Kind)
		}
	case []Result:
		return encodeSlice(val)
	case []string:
		parts := make([]string, len(val))
		for i, s := range val {
			q, err := quoteScalar(s)
			if err != nil {
				return "", err
			}
			parts[i] = q
		}
		return strings.Join(parts, " "), nil
	case []interface{}:
		parts := make([]string, len(val))
		for i, item := range val {
			p, err := encodeElement(item)
			if err != nil {
				return "", err
			}
			parts[i] = p
		}
		return strings.Join(parts, " "), nil
	default:
		return encodeScalarValue(v)
	}
	return "", fmt.Errorf("cannot encode %T", v)
}

// EncodeArg serializes a value for use as a single command argument:
// like Encode, except a list value is brace-wrapped so the interpreter
// sees one argument rather than several.
func EncodeArg(v interface{}) (string, error) {
	return encodeElement(v)
}

func encodeSlice(items []Result) (string, error) {
	parts := make([]string, len(items))
	for i, item := range items {
		p, err := encodeElement(item)
		if err != nil {
			return "", err
		}
		parts[i] = p
	}
	return strings.Join(parts, " "), nil
}

// encodeElement renders one list element: nested lists are brace-wrapped,
// scalars are quoted only when they would otherwise split.
func encodeElement(v interface{}) (string, error) {
	switch val := v.(type) {
	case Result:
		switch val.kind {
		case KindScalar:
			return quoteScalar(val.scalar)
		case KindList:
			inner, err := encodeSlice(val.items)
			if err != nil {
				return "", err
			}
			return "{" + inner + "}", nil
		case KindFailure:
			return "", fmt.Errorf("cannot encode failure result (%s)", val.failure.Kind)
		}
	case []string:
		inner, err := Encode(val)
		if err != nil {
			return "", err
		}
		return "{" + inner + "}", nil
	case []interface{}:
		inner, err := Encode(val)
		if err != nil {
			return "", err
		}
		return "{" + inner + "}", nil
	default:
		return encodeScalarValue(v)
	}
	return "", fmt.Errorf("cannot encode %T", v)
}

func encodeScalarValue(v interface{}) (string, error) {
	switch val := v.(type) {
	case string:
		return quoteScalar(val)
	case bool:
		if val {
			return "1", nil
		}
		return "0", nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case uint:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint64:
		return strconv.FormatUint(val, 10), nil
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), nil
	case fmt.Stringer:
		return quoteScalar(val.String())
	}
	return "", fmt.Errorf("cannot encode %T", v)
}

// quoteScalar brace-wraps scalars that would otherwise tokenize into
// multiple elements. Strings with unbalanced braces have no faithful
// wire form and are rejected.
func quoteScalar(s string) (string, error) {
	if s == "" {
		return "{}", nil
	}
	if !needsQuoting(s) {
		return s, nil
	}
	if !bracesBalanced(s) {
		return "", fmt.Errorf("cannot encode string with unbalanced braces: %q", s)
	}
	return "{" + s + "}", nil
}

func needsQuoting(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\r', '\n', '{', '}', '"', '\\':
			return true
		}
	}
	return false
}

func bracesBalanced(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// FileName normalizes a file path for use in interpreter commands:
// forward slashes, brace-wrapped so embedded spaces survive.
func FileName(name string) string {
	return "{" + filepath.ToSlash(filepath.Clean(name)) + "}"
}
