package entity

import "strings"

// Dialect compiles generic node operations into the command text a
// particular device family understands. The core never enumerates
// vendor object schemas — catalogs for a family supply names and, when
// the family's grammar differs, their own Dialect.
type Dialect interface {
	// GetAttr builds the command that reads one attribute.
	GetAttr(path, attr string) string

	// SetAttr builds the command that writes one attribute. value is
	// already encoded in wire syntax.
	SetAttr(path, attr, value string) string

	// Invoke builds a method-style command. args are already encoded.
	Invoke(path, method string, args []string) string

	// Children builds the command that lists child handles under path,
	// optionally filtered by kind.
	Children(path, kind string) string

	// JoinPath combines a parent path with a child handle returned by
	// a Children reply.
	JoinPath(parent, child string) string
}

// TclDialect is the default config/cget grammar used by the Tcl-based
// chassis families:
//
//	port cget -speed
//	port config -speed 1000
//	port reset
//	chassis list port
type TclDialect struct{}

func (TclDialect) GetAttr(path, attr string) string {
	return path + " cget -" + attr
}

func (TclDialect) SetAttr(path, attr, value string) string {
	return path + " config -" + attr + " " + value
}

func (TclDialect) Invoke(path, method string, args []string) string {
	cmd := path + " " + method
	if len(args) > 0 {
		cmd += " " + strings.Join(args, " ")
	}
	return cmd
}

func (TclDialect) Children(path, kind string) string {
	cmd := path + " list"
	if kind != "" {
		cmd += " " + kind
	}
	return cmd
}

func (TclDialect) JoinPath(parent, child string) string {
	if parent == "" || strings.HasPrefix(child, parent+"/") {
		return child
	}
	return parent + "/" + child
}
