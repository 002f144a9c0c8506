// Package entity maps the device's object hierarchy (chassis → card →
// port → stream) onto client-side nodes. A node holds nothing but its
// handle and a child cache — every attribute read, write, and method
// call is a round trip through the session's command channel, because
// the device owns all real state.
package entity

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/tgen-network/tgen/pkg/tgen/codec"
	"github.com/tgen-network/tgen/pkg/tgen/session"
	"github.com/tgen-network/tgen/pkg/util"
)

// Node is one remote object, identified by its path handle. Nodes share
// their Session (they never own it) and stay logically valid only while
// that session is open: operations against a closed session come back
// as stale-handle failures, never as panics.
type Node struct {
	sess    *session.Session
	dialect Dialect
	path    string
	kind    string
	parent  *Node

	mu       sync.Mutex
	children map[string][]*Node
}

// NewRoot bootstraps the tree with the device's root handle, using the
// default Tcl dialect.
func NewRoot(sess *session.Session, path string) *Node {
	return NewRootWithDialect(sess, path, TclDialect{})
}

// NewRootWithDialect bootstraps the tree with a family-specific dialect.
func NewRootWithDialect(sess *session.Session, path string, d Dialect) *Node {
	return &Node{sess: sess, dialect: d, path: path}
}

// Path returns the node's handle.
func (n *Node) Path() string { return n.path }

// Kind returns the child kind this node was enumerated under, or ""
// for the root.
func (n *Node) Kind() string { return n.kind }

// Name returns the last path segment.
func (n *Node) Name() string {
	if idx := strings.LastIndexByte(n.path, '/'); idx >= 0 {
		return n.path[idx+1:]
	}
	return n.path
}

// ID returns the numeric suffix of the handle (the relative object
// index), or -1 when the last segment is not numeric.
func (n *Node) ID() int {
	id, err := strconv.Atoi(strings.TrimLeft(n.Name(), "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"))
	if err != nil {
		return -1
	}
	return id
}

// Parent returns the enumerating parent, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Session returns the owning session.
func (n *Node) Session() *session.Session { return n.sess }

// GetAttribute reads one attribute of the remote object.
func (n *Node) GetAttribute(ctx context.Context, name string) codec.Result {
	return n.call(ctx, n.dialect.GetAttr(n.path, name))
}

// SetAttribute writes one attribute. value is serialized with the
// codec's encode direction, so anything Decode can produce round-trips
// back to the device unchanged.
func (n *Node) SetAttribute(ctx context.Context, name string, value interface{}) codec.Result {
	encoded, err := codec.EncodeArg(value)
	if err != nil {
		return codec.Fail(codec.FailureBadArgument, err.Error())
	}
	return n.call(ctx, n.dialect.SetAttr(n.path, name, encoded))
}

// Invoke calls a method-style command on the remote object. Because a
// method may create or destroy children, the node's child cache is
// dropped afterwards.
func (n *Node) Invoke(ctx context.Context, method string, args ...interface{}) codec.Result {
	encoded := make([]string, len(args))
	for i, arg := range args {
		e, err := codec.EncodeArg(arg)
		if err != nil {
			return codec.Fail(codec.FailureBadArgument, err.Error())
		}
		encoded[i] = e
	}
	res := n.call(ctx, n.dialect.Invoke(n.path, method, encoded))

	n.mu.Lock()
	n.children = nil
	n.mu.Unlock()
	return res
}

// Children queries the device for child handles under this node,
// optionally filtered by kind. The reply replaces any cached children
// for that kind — structural state is always re-read, never trusted
// from a stale cache.
func (n *Node) Children(ctx context.Context, kind string) ([]*Node, error) {
	res := n.call(ctx, n.dialect.Children(n.path, kind))
	if res.IsFailure() {
		return nil, res.Failure()
	}

	var nodes []*Node
	for _, handle := range res.Strings() {
		if handle == "" {
			continue
		}
		nodes = append(nodes, &Node{
			sess:    n.sess,
			dialect: n.dialect,
			path:    n.dialect.JoinPath(n.path, handle),
			kind:    kind,
			parent:  n,
		})
	}

	n.mu.Lock()
	if n.children == nil {
		n.children = make(map[string][]*Node)
	}
	n.children[kind] = nodes
	n.mu.Unlock()
	return nodes, nil
}

// CachedChildren returns the children of the given kind from memory,
// without a device round trip. Nil when that kind was never enumerated.
func (n *Node) CachedChildren(kind string) []*Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.children[kind]
}

// ChildrenOrCached returns cached children when present, querying the
// device only on a cache miss. Useful for static configurations.
func (n *Node) ChildrenOrCached(ctx context.Context, kind string) ([]*Node, error) {
	if cached := n.CachedChildren(kind); cached != nil {
		return cached, nil
	}
	return n.Children(ctx, kind)
}

// Child returns the first cached-or-queried child of the given kind,
// or nil when there are none.
func (n *Node) Child(ctx context.Context, kind string) (*Node, error) {
	children, err := n.ChildrenOrCached(ctx, kind)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return nil, nil
	}
	return children[0], nil
}

// FindByPath searches the cached subtree for a node with the given
// handle. Memory-only; returns nil when not cached.
func (n *Node) FindByPath(path string) *Node {
	if n.path == path {
		return n
	}
	for _, child := range n.cachedAll() {
		if found := child.FindByPath(path); found != nil {
			return found
		}
	}
	return nil
}

// FindByKind collects all nodes of the given kind in the cached
// subtree, depth-first.
func (n *Node) FindByKind(kind string) []*Node {
	var out []*Node
	for _, child := range n.cachedAll() {
		if child.kind == kind {
			out = append(out, child)
		}
		out = append(out, child.FindByKind(kind)...)
	}
	return out
}

// Ancestor walks up the tree to the nearest node of the given kind,
// including the node itself. Nil when no ancestor matches.
func (n *Node) Ancestor(kind string) *Node {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.kind == kind {
			return cur
		}
	}
	return nil
}

func (n *Node) cachedAll() []*Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []*Node
	for _, nodes := range n.children {
		out = append(out, nodes...)
	}
	return out
}

// call routes a compiled command through the session, converting the
// session-closed error into the stale-handle failure the tree contract
// promises.
func (n *Node) call(ctx context.Context, cmd string) codec.Result {
	res, err := n.sess.Call(ctx, cmd)
	if err != nil {
		if errors.Is(err, util.ErrSessionClosed) {
			return codec.Fail(codec.FailureStaleHandle, "session closed: "+n.path)
		}
		return codec.TransportFailure(err)
	}
	return res
}
