// Package widgets provides the concrete patterns mounted into a frame node
// tree: a stage root, boxes, linear containers, text, buttons and images.
//
// Each widget is a core.Pattern plus a constructor that builds its frame
// node. Setters on the widget's properties mark the host dirty with the
// matching change flag, so the pipeline re-measures or repaints only what
// the mutation invalidated:
//
//	stage := widgets.NewStage(ctx)
//	col := widgets.NewColumn("list")
//	col.MountToParent(stage, -1)
//	title := widgets.NewText("title", "hello")
//	title.MountToParent(col, -1)
//	col.MarkModifyDone()
//
// Trees can also be described declaratively with Spec and built with Mount.
package widgets

// Tags name the widget kind of a frame node.
const (
	TagStage  = "Stage"
	TagBox    = "Box"
	TagColumn = "Column"
	TagRow    = "Row"
	TagText   = "Text"
	TagButton = "Button"
	TagImage  = "Image"
)
