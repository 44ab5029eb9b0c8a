// Package pipeline owns the per-frame work of one UI instance: the dirty
// node sets, the frame request, and the task executor nodes post to.
package pipeline

import (
	"cmp"
	"maps"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/go-drift/ace/pkg/logging"
)

// DirtyNode is a node the scheduler can flush.
type DirtyNode interface {
	Tag() string
	Depth() int
	// Sequence breaks depth ties; it is unique per node and stable.
	Sequence() uint64
	// CreateLayoutTask returns nil when the node no longer needs layout.
	CreateLayoutTask() func()
	// CreateRenderTask returns nil when the node no longer needs render.
	CreateRenderTask() func()
}

// maxFlushRounds bounds follow-up batches within one flush.
const maxFlushRounds = 64

// Scheduler batches nodes marked dirty between frames and flushes them once
// per frame, shallow nodes first.
//
// Nodes marked while a flush is running are processed in a follow-up batch
// of the same flush. A node waiting for layout is never also waiting for
// render: the layout swap schedules its render.
type Scheduler struct {
	dirtyLayout map[DirtyNode]struct{}
	dirtyRender map[DirtyNode]struct{}
	logger      *log.Logger
}

// NewScheduler returns an empty scheduler. A nil logger uses
// logging.Default.
func NewScheduler(logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Scheduler{
		dirtyLayout: make(map[DirtyNode]struct{}),
		dirtyRender: make(map[DirtyNode]struct{}),
		logger:      logger,
	}
}

// AddDirtyLayoutNode schedules n for layout, dropping any pending render of
// it.
func (s *Scheduler) AddDirtyLayoutNode(n DirtyNode) {
	if n == nil {
		return
	}
	s.dirtyLayout[n] = struct{}{}
	delete(s.dirtyRender, n)
}

// AddDirtyRenderNode schedules n for render. It reports false when n is
// already waiting for layout.
func (s *Scheduler) AddDirtyRenderNode(n DirtyNode) bool {
	if n == nil {
		return false
	}
	if _, ok := s.dirtyLayout[n]; ok {
		s.logger.Debug("render mark covered by layout", "tag", n.Tag())
		return false
	}
	s.dirtyRender[n] = struct{}{}
	return true
}

// IsLayoutDirty reports whether any node waits for layout.
func (s *Scheduler) IsLayoutDirty() bool {
	return len(s.dirtyLayout) > 0
}

// IsRenderDirty reports whether any node waits for render.
func (s *Scheduler) IsRenderDirty() bool {
	return len(s.dirtyRender) > 0
}

// DirtyLayoutCount returns the number of nodes waiting for layout.
func (s *Scheduler) DirtyLayoutCount() int {
	return len(s.dirtyLayout)
}

// DirtyRenderCount returns the number of nodes waiting for render.
func (s *Scheduler) DirtyRenderCount() int {
	return len(s.dirtyRender)
}

// FlushLayoutTask runs the layout task of every dirty node and returns how
// many ran.
func (s *Scheduler) FlushLayoutTask() int {
	return s.flush(&s.dirtyLayout, "layout", DirtyNode.CreateLayoutTask)
}

// FlushRenderTask runs the render task of every dirty node and returns how
// many ran.
func (s *Scheduler) FlushRenderTask() int {
	return s.flush(&s.dirtyRender, "render", DirtyNode.CreateRenderTask)
}

// FlushTask flushes layout, then render.
func (s *Scheduler) FlushTask() {
	s.FlushLayoutTask()
	s.FlushRenderTask()
}

func (s *Scheduler) flush(set *map[DirtyNode]struct{}, phase string, create func(DirtyNode) func()) int {
	ran := 0
	for round := 0; len(*set) > 0; round++ {
		if round == maxFlushRounds {
			s.logger.Warn("flush did not settle", "phase", phase, "pending", len(*set))
			return ran
		}
		batch := slices.SortedFunc(maps.Keys(*set), compareNodes)
		*set = make(map[DirtyNode]struct{})

		for _, n := range batch {
			// Only run if still dirty: an ancestor's task may have
			// covered this node.
			if t := create(n); t != nil {
				t()
				ran++
			}
		}
	}
	return ran
}

func compareNodes(a, b DirtyNode) int {
	return cmp.Or(cmp.Compare(a.Depth(), b.Depth()), cmp.Compare(a.Sequence(), b.Sequence()))
}
