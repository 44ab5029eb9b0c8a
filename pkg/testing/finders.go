package testing

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-drift/ace/pkg/core"
	"github.com/go-drift/ace/pkg/graphics"
	"github.com/go-drift/ace/pkg/widgets"
)

// Finder locates frame nodes in a tree.
type Finder interface {
	// Evaluate returns all matching nodes under root (depth-first pre-order).
	Evaluate(root *core.FrameNode) []*core.FrameNode
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	nodes  []*core.FrameNode
	finder Finder
}

func (r FinderResult) description() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *core.FrameNode {
	if len(r.nodes) == 0 {
		panic(fmt.Sprintf("Finder found no nodes: %s", r.description()))
	}
	return r.nodes[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *core.FrameNode {
	if len(r.nodes) == 0 {
		return nil
	}
	return r.nodes[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *core.FrameNode {
	if index < 0 || index >= len(r.nodes) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.nodes), r.description()))
	}
	return r.nodes[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []*core.FrameNode {
	return r.nodes
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.nodes)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.nodes) > 0
}

// Frame returns the committed frame of the first match.
func (r FinderResult) Frame() graphics.Rect {
	return r.First().GeometryNode().Frame()
}

type idFinder struct {
	id string
}

func (f *idFinder) Evaluate(root *core.FrameNode) []*core.FrameNode {
	return collectMatches(root, func(n *core.FrameNode) bool { return n.ID() == f.id })
}

func (f *idFinder) Description() string {
	return fmt.Sprintf("ByID(%q)", f.id)
}

// ByID matches nodes with the given id.
func ByID(id string) Finder {
	return &idFinder{id: id}
}

type tagFinder struct {
	tag string
}

func (f *tagFinder) Evaluate(root *core.FrameNode) []*core.FrameNode {
	return collectMatches(root, func(n *core.FrameNode) bool { return n.Tag() == f.tag })
}

func (f *tagFinder) Description() string {
	return fmt.Sprintf("ByTag(%q)", f.tag)
}

// ByTag matches nodes with the given tag, such as widgets.TagText.
func ByTag(tag string) Finder {
	return &tagFinder{tag: tag}
}

// patternFinder matches nodes whose pattern has a given type.
type patternFinder struct {
	patternType reflect.Type
}

func (f *patternFinder) Evaluate(root *core.FrameNode) []*core.FrameNode {
	return collectMatches(root, func(n *core.FrameNode) bool {
		return reflect.TypeOf(n.Pattern()) == f.patternType
	})
}

func (f *patternFinder) Description() string {
	return fmt.Sprintf("ByPattern(%s)", f.patternType)
}

// ByPattern matches nodes whose pattern is a T.
func ByPattern[T core.Pattern]() Finder {
	return &patternFinder{patternType: reflect.TypeFor[T]()}
}

// textFinder matches text nodes by content.
type textFinder struct {
	text     string
	contains bool
}

func (f *textFinder) Evaluate(root *core.FrameNode) []*core.FrameNode {
	return collectMatches(root, func(n *core.FrameNode) bool {
		prop, ok := core.GetLayoutProperty[*widgets.TextLayoutProperty](n)
		if !ok {
			return false
		}
		if f.contains {
			return strings.Contains(prop.Content(), f.text)
		}
		return prop.Content() == f.text
	})
}

func (f *textFinder) Description() string {
	if f.contains {
		return fmt.Sprintf("ByTextContaining(%q)", f.text)
	}
	return fmt.Sprintf("ByText(%q)", f.text)
}

// ByText matches text nodes whose content is exactly text.
func ByText(text string) Finder {
	return &textFinder{text: text}
}

// ByTextContaining matches text nodes whose content contains substring.
func ByTextContaining(substring string) Finder {
	return &textFinder{text: substring, contains: true}
}

type predicateFinder struct {
	fn   func(*core.FrameNode) bool
	desc string
}

func (f *predicateFinder) Evaluate(root *core.FrameNode) []*core.FrameNode {
	return collectMatches(root, f.fn)
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByPredicate matches nodes satisfying fn.
func ByPredicate(fn func(*core.FrameNode) bool) Finder {
	return &predicateFinder{fn: fn, desc: "ByPredicate(...)"}
}

// ByLayoutDirty matches nodes currently marked for layout.
func ByLayoutDirty() Finder {
	return &predicateFinder{fn: (*core.FrameNode).IsLayoutDirtyMarked, desc: "ByLayoutDirty()"}
}

// descendantFinder finds nodes matching 'matching' below nodes matching 'of'.
type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(root *core.FrameNode) []*core.FrameNode {
	var results []*core.FrameNode
	seen := make(map[*core.FrameNode]bool)
	for _, ancestor := range f.of.Evaluate(root) {
		// The ancestor itself is not its own descendant.
		for _, child := range ancestor.Children() {
			for _, match := range f.matching.Evaluate(child) {
				if !seen[match] {
					seen[match] = true
					results = append(results, match)
				}
			}
		}
	}
	return results
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant matches nodes satisfying matching that sit below a node
// satisfying of.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}

// ancestorFinder finds nodes matching 'matching' above nodes matching 'of'.
type ancestorFinder struct {
	of       Finder
	matching Finder
}

func (f *ancestorFinder) Evaluate(root *core.FrameNode) []*core.FrameNode {
	candidates := make(map[*core.FrameNode]bool)
	for _, n := range f.matching.Evaluate(root) {
		candidates[n] = true
	}
	var results []*core.FrameNode
	seen := make(map[*core.FrameNode]bool)
	for _, desc := range f.of.Evaluate(root) {
		for p := desc.Parent(); p != nil; p = p.Parent() {
			if candidates[p] && !seen[p] {
				seen[p] = true
				results = append(results, p)
			}
		}
	}
	return results
}

func (f *ancestorFinder) Description() string {
	return fmt.Sprintf("Ancestor(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Ancestor matches nodes satisfying matching that sit above a node
// satisfying of.
func Ancestor(of, matching Finder) Finder {
	return &ancestorFinder{of: of, matching: matching}
}

func collectMatches(root *core.FrameNode, predicate func(*core.FrameNode) bool) []*core.FrameNode {
	if root == nil {
		return nil
	}
	var results []*core.FrameNode
	root.Walk(func(n *core.FrameNode) bool {
		if predicate(n) {
			results = append(results, n)
		}
		return true
	})
	return results
}
