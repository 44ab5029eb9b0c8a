package widgets

import (
	"github.com/go-drift/ace/pkg/core"
	"github.com/go-drift/ace/pkg/pipeline"
)

// StagePattern is the pattern of the root node. The stage always takes the
// root size, so layout requests from below stop there.
type StagePattern struct {
	core.PatternBase
}

func (p *StagePattern) IsMeasureBoundary() bool { return true }

// NewStage creates the root node of ctx and installs it as the context root.
func NewStage(ctx *pipeline.Context) *core.FrameNode {
	return core.NewRootFrameNode(TagStage, &StagePattern{}, ctx)
}
