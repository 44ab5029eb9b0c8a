// Package core provides the frame node tree: the retained nodes that own a
// pattern, their layout and paint properties, and the geometry committed by
// the last layout pass.
//
// # Nodes and Patterns
//
// A FrameNode is identified by a tag, an id and a process-wide sequence
// number. Per-widget behavior lives in its Pattern, which creates the node's
// properties, its layout algorithm and its paint method. Embed PatternBase
// and override what differs:
//
//	type swatchPattern struct {
//	    core.PatternBase
//	}
//
//	func (p *swatchPattern) IsAtomicNode() bool { return true }
//
// # Dirty Marking
//
// Property setters record a change flag; MarkDirtyNode folds that flag into
// the node and walks up to the nearest measure boundary, which is queued on
// the pipeline context's scheduler. Nodes whose layout did not change but
// whose paint did are queued for render only.
//
// Layout runs on a LayoutWrapper built from a clone of the node's layout
// property. The wrapper's result is swapped back onto the node when the pass
// commits, so a node never observes half-finished geometry.
//
// # Threading
//
// Every method must be called on the UI task queue of the context the node
// is attached to. Nodes hold the context and their parent weakly.
package core
