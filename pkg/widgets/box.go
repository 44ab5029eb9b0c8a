package widgets

import (
	"github.com/charmbracelet/log"

	"github.com/go-drift/ace/pkg/core"
	"github.com/go-drift/ace/pkg/logging"
	"github.com/go-drift/ace/pkg/property"
)

// BoxPattern stacks its children inside its padded content box.
type BoxPattern struct {
	core.PatternBase
}

// NewBox creates an unmounted box node.
func NewBox(id string) *core.FrameNode {
	return core.NewFrameNode(TagBox, id, &BoxPattern{})
}

func markHost(p *core.PatternBase, flag property.ChangeFlag) {
	if host := p.Host(); host != nil {
		host.MarkDirtyNode(flag)
	}
}

func hostLogger(n *core.FrameNode) *log.Logger {
	if ctx := n.Context(); ctx != nil {
		return ctx.Logger()
	}
	return logging.Default()
}
