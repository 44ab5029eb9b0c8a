package core

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes the subtree, one node per line, indented by depth below n.
func (n *FrameNode) Dump(w io.Writer) error {
	return n.dump(w, 0)
}

func (n *FrameNode) dump(w io.Writer, indent int) error {
	constraint := "NA"
	if c, ok := n.layoutProp.LayoutBase().LayoutConstraint(); ok {
		constraint = c.String()
	}
	_, err := fmt.Fprintf(w, "%s%s id=%s depth=%d frame=%s constraint=%s\n",
		strings.Repeat("  ", indent), n.tag, n.id, n.depth, n.geometry.Frame(), constraint)
	if err != nil {
		return err
	}
	for _, child := range n.children {
		if err := child.dump(w, indent+1); err != nil {
			return err
		}
	}
	return nil
}

// DumpTree returns Dump's output as a string.
func (n *FrameNode) DumpTree() string {
	var sb strings.Builder
	_ = n.Dump(&sb)
	return sb.String()
}

// Walk visits the subtree in depth-first pre-order until fn returns false.
func (n *FrameNode) Walk(fn func(*FrameNode) bool) bool {
	if !fn(n) {
		return false
	}
	for _, child := range n.children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}

// FindByID returns the first node in the subtree with the given id.
func (n *FrameNode) FindByID(id string) *FrameNode {
	var found *FrameNode
	n.Walk(func(node *FrameNode) bool {
		if node.id == id {
			found = node
			return false
		}
		return true
	})
	return found
}
