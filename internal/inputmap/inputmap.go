// Package inputmap implements a prefix trie over keys.Input sequences,
// used to drive multi-key chords (e.g. "c c" for commit) for any state's
// handler result type.
package inputmap

import "github.com/chmouel/gitstage/internal/keys"

// Handler is invoked once a sequence fully matches; Ctx carries whatever
// context the owning state needs to compute a Res.
type Handler[Ctx any, Res any] func(Ctx) Res

// Node is one trie node: a set of children keyed by the next Input, plus an
// optional Handler set only on nodes that terminate a registered sequence.
type Node[Ctx any, Res any] struct {
	children map[keys.Input]*Node[Ctx, Res]
	handler  Handler[Ctx, Res]
}

// NewNode constructs an empty node with no handler and no children.
func NewNode[Ctx any, Res any]() *Node[Ctx, Res] {
	return &Node[Ctx, Res]{children: make(map[keys.Input]*Node[Ctx, Res])}
}

// Add registers handler to fire after sequence is matched in full from this
// node, walking or creating intermediate nodes as needed. Re-adding a
// sequence overwrites its handler.
func (n *Node[Ctx, Res]) Add(sequence []keys.Input, handler Handler[Ctx, Res]) {
	cur := n
	for _, in := range sequence {
		child, ok := cur.children[in]
		if !ok {
			child = NewNode[Ctx, Res]()
			cur.children[in] = child
		}
		cur = child
	}
	cur.handler = handler
}

// Get returns the child reached by following one input from this node, or
// nil if there is no such edge.
func (n *Node[Ctx, Res]) Get(in keys.Input) *Node[Ctx, Res] {
	return n.children[in]
}

// Handler returns the handler set on this node, or nil if this node does
// not terminate a registered sequence.
func (n *Node[Ctx, Res]) Handler() Handler[Ctx, Res] {
	return n.handler
}

// HasHandler reports whether this node terminates a registered sequence.
func (n *Node[Ctx, Res]) HasHandler() bool {
	return n.handler != nil
}
