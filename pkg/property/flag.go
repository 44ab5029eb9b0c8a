// Package property holds the declared, per-node layout and paint state and
// the change flags that record what a mutation invalidated.
package property

import "strings"

// ChangeFlag is a bitmask of what changed on a node since the last flush.
// Flags merge with bitwise OR.
type ChangeFlag uint32

const (
	// UpdateNormal means nothing changed.
	UpdateNormal ChangeFlag = 0
	// UpdateMeasure affects the node's own size.
	UpdateMeasure ChangeFlag = 1
	// UpdateLayout affects the position of the node's children.
	UpdateLayout ChangeFlag = 1 << 1
	// UpdatePosition affects the node's own position.
	UpdatePosition ChangeFlag = 1 << 2
	// RequestNewChild means the child list changed.
	RequestNewChild ChangeFlag = 1 << 3
	// UpdateByChildRequest is raised on a parent by a child that needs layout.
	UpdateByChildRequest ChangeFlag = 1 << 4
	// UpdateRender affects paint only.
	UpdateRender ChangeFlag = 1 << 5
	// UpdateRenderByChildRequest is raised on a parent by a child that needs paint.
	UpdateRenderByChildRequest ChangeFlag = 1 << 6
	// UpdateEvent affects event handling only.
	UpdateEvent ChangeFlag = 1 << 8

	// UpdateNodeTree marks a structural change of the child list.
	UpdateNodeTree = RequestNewChild | UpdateMeasure | UpdateLayout
	// UpdateChildRequest is what a child bubbles to its parent.
	UpdateChildRequest = UpdateByChildRequest | UpdateRenderByChildRequest
)

// Has reports whether every bit of mask is set.
func (f ChangeFlag) Has(mask ChangeFlag) bool {
	return f&mask == mask
}

// Any reports whether any bit of mask is set.
func (f ChangeFlag) Any(mask ChangeFlag) bool {
	return f&mask != 0
}

var flagNames = []struct {
	flag ChangeFlag
	name string
}{
	{UpdateMeasure, "MEASURE"},
	{UpdateLayout, "LAYOUT"},
	{UpdatePosition, "POSITION"},
	{RequestNewChild, "REQUEST_NEW_CHILD"},
	{UpdateByChildRequest, "UPDATE_BY_CHILD_REQUEST"},
	{UpdateRender, "RENDER"},
	{UpdateRenderByChildRequest, "RENDER_BY_CHILD_REQUEST"},
	{UpdateEvent, "EVENT"},
}

func (f ChangeFlag) String() string {
	if f == UpdateNormal {
		return "NORMAL"
	}
	var parts []string
	for _, entry := range flagNames {
		if f.Has(entry.flag) {
			parts = append(parts, entry.name)
		}
	}
	return strings.Join(parts, "|")
}

// CheckNoChanged reports whether the flag requests no work at all.
func CheckNoChanged(flag ChangeFlag) bool {
	return flag == UpdateNormal
}

// CheckMeasureFlag reports whether the node must re-measure itself. A child
// request counts: the child's size may have changed the node's own.
func CheckMeasureFlag(flag ChangeFlag) bool {
	return flag.Any(UpdateMeasure | UpdateByChildRequest)
}

// CheckLayoutFlag reports whether the node must re-position its children.
func CheckLayoutFlag(flag ChangeFlag) bool {
	return flag.Any(UpdateLayout)
}

// CheckPositionFlag reports whether the node's own position changed.
func CheckPositionFlag(flag ChangeFlag) bool {
	return flag.Any(UpdatePosition)
}

// CheckRequestNewChildFlag reports whether the child list changed.
func CheckRequestNewChildFlag(flag ChangeFlag) bool {
	return flag.Any(RequestNewChild)
}

// CheckUpdateByChildRequest reports whether a child asked for layout.
func CheckUpdateByChildRequest(flag ChangeFlag) bool {
	return flag.Any(UpdateByChildRequest)
}

// CheckNodeTreeFlag reports whether the tree structure changed.
func CheckNodeTreeFlag(flag ChangeFlag) bool {
	return flag.Any(RequestNewChild)
}

// CheckRenderFlag reports whether paint attributes changed.
func CheckRenderFlag(flag ChangeFlag) bool {
	return flag.Any(UpdateRender | UpdateRenderByChildRequest)
}

// CheckNeedLayout reports whether the node needs a layout pass of any kind.
func CheckNeedLayout(flag ChangeFlag) bool {
	return flag.Any(UpdateMeasure | UpdateLayout | UpdatePosition | RequestNewChild | UpdateByChildRequest)
}

// CheckNeedRequestParent reports whether a change can alter what the parent
// computed for this node.
func CheckNeedRequestParent(flag ChangeFlag) bool {
	return flag.Any(UpdateMeasure | UpdatePosition)
}

// CheckNeedRender reports whether the node must be repainted.
func CheckNeedRender(flag ChangeFlag) bool {
	return CheckRenderFlag(flag) || CheckNeedLayout(flag)
}
