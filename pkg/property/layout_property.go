package property

import "github.com/go-drift/ace/pkg/graphics"

// Layout is implemented by LayoutProperty and by widget-specific property
// types that embed it. Clone must return a deep copy of the concrete type.
type Layout interface {
	LayoutBase() *LayoutProperty
	Clone() Layout
}

// LayoutProperty is the declared sizing state of a node. Every setter raises
// the change flag that its field invalidates, and only when the value
// actually changes.
type LayoutProperty struct {
	flag ChangeFlag

	layoutConstraint  *LayoutConstraint
	contentConstraint *LayoutConstraint

	calcLayoutConstraint *MeasureProperty
	padding              *Edges
	borderWidth          *Edges
	alignment            *graphics.Alignment
	measureType          *MeasureType
	layoutWeight         *float64
}

// NewLayoutProperty returns an empty layout property.
func NewLayoutProperty() *LayoutProperty {
	return &LayoutProperty{}
}

// LayoutBase implements Layout.
func (p *LayoutProperty) LayoutBase() *LayoutProperty {
	return p
}

// Clone implements Layout.
func (p *LayoutProperty) Clone() Layout {
	return p.CloneBase()
}

// CloneBase returns a deep copy of the base fields. Embedding types call this
// from their own Clone.
func (p *LayoutProperty) CloneBase() *LayoutProperty {
	return &LayoutProperty{
		flag:                 p.flag,
		layoutConstraint:     clonePtr(p.layoutConstraint),
		contentConstraint:    clonePtr(p.contentConstraint),
		calcLayoutConstraint: clonePtr(p.calcLayoutConstraint),
		padding:              clonePtr(p.padding),
		borderWidth:          clonePtr(p.borderWidth),
		alignment:            clonePtr(p.alignment),
		measureType:          clonePtr(p.measureType),
		layoutWeight:         clonePtr(p.layoutWeight),
	}
}

// Reset clears every declared value and the change flag.
func (p *LayoutProperty) Reset() {
	*p = LayoutProperty{}
}

// PropertyChangeFlag returns the accumulated change flag.
func (p *LayoutProperty) PropertyChangeFlag() ChangeFlag {
	return p.flag
}

// UpdatePropertyChangeFlag merges flag into the accumulated change flag.
func (p *LayoutProperty) UpdatePropertyChangeFlag(flag ChangeFlag) {
	p.flag |= flag
}

// AdjustPropertyChangeFlagByChild folds the layout-relevant part of a
// child's flag into this property as a child request.
func (p *LayoutProperty) AdjustPropertyChangeFlagByChild(childFlag ChangeFlag) {
	if CheckNeedLayout(childFlag) {
		p.flag |= UpdateByChildRequest
	}
}

// CleanDirty resets the change flag after a flush.
func (p *LayoutProperty) CleanDirty() {
	p.flag = UpdateNormal
}

// LayoutConstraint returns the constraint of the current pass, if any.
func (p *LayoutProperty) LayoutConstraint() (LayoutConstraint, bool) {
	if p.layoutConstraint == nil {
		return LayoutConstraint{}, false
	}
	return *p.layoutConstraint, true
}

// ContentLayoutConstraint returns the constraint minus padding and border.
func (p *LayoutProperty) ContentLayoutConstraint() (LayoutConstraint, bool) {
	if p.contentConstraint == nil {
		return LayoutConstraint{}, false
	}
	return *p.contentConstraint, true
}

// CalcLayoutConstraint returns the declared min/max/ideal sizes.
func (p *LayoutProperty) CalcLayoutConstraint() (MeasureProperty, bool) {
	if p.calcLayoutConstraint == nil {
		return MeasureProperty{}, false
	}
	return *p.calcLayoutConstraint, true
}

// Padding returns the declared padding.
func (p *LayoutProperty) Padding() (Edges, bool) {
	if p.padding == nil {
		return Edges{}, false
	}
	return *p.padding, true
}

// BorderWidth returns the declared border width.
func (p *LayoutProperty) BorderWidth() (Edges, bool) {
	if p.borderWidth == nil {
		return Edges{}, false
	}
	return *p.borderWidth, true
}

// Alignment returns the declared child alignment.
func (p *LayoutProperty) Alignment() (graphics.Alignment, bool) {
	if p.alignment == nil {
		return graphics.Alignment{}, false
	}
	return *p.alignment, true
}

// MeasureType returns the declared measure type or def.
func (p *LayoutProperty) MeasureType(def MeasureType) MeasureType {
	if p.measureType == nil {
		return def
	}
	return *p.measureType
}

// LayoutWeight returns the declared flex weight.
func (p *LayoutProperty) LayoutWeight() (float64, bool) {
	if p.layoutWeight == nil {
		return 0, false
	}
	return *p.layoutWeight, true
}

// UpdatePadding sets the padding.
func (p *LayoutProperty) UpdatePadding(value Edges) {
	if p.padding != nil && *p.padding == value {
		return
	}
	p.padding = &value
	p.flag |= UpdateLayout | UpdateMeasure
}

// UpdateBorderWidth sets the border width.
func (p *LayoutProperty) UpdateBorderWidth(value Edges) {
	if p.borderWidth != nil && *p.borderWidth == value {
		return
	}
	p.borderWidth = &value
	p.flag |= UpdateLayout | UpdateMeasure
}

// UpdateAlignment sets how children are placed in the content box.
func (p *LayoutProperty) UpdateAlignment(value graphics.Alignment) {
	if p.alignment != nil && *p.alignment == value {
		return
	}
	p.alignment = &value
	p.flag |= UpdateLayout
}

// UpdateMeasureType sets the measure type.
func (p *LayoutProperty) UpdateMeasureType(value MeasureType) {
	if p.measureType != nil && *p.measureType == value {
		return
	}
	p.measureType = &value
	p.flag |= UpdateMeasure
}

// UpdateLayoutWeight sets the flex weight.
func (p *LayoutProperty) UpdateLayoutWeight(value float64) {
	if p.layoutWeight != nil && *p.layoutWeight == value {
		return
	}
	p.layoutWeight = &value
	p.flag |= UpdateMeasure
}

// UpdateCalcLayoutProperty replaces every declared size at once.
func (p *LayoutProperty) UpdateCalcLayoutProperty(value MeasureProperty) {
	if p.calcLayoutConstraint != nil && *p.calcLayoutConstraint == value {
		return
	}
	p.calcLayoutConstraint = &value
	p.flag |= UpdateMeasure
}

// UpdateCalcSelfIdealSize sets the declared width/height.
func (p *LayoutProperty) UpdateCalcSelfIdealSize(value CalcSize) {
	p.updateCalc(func(m *MeasureProperty) *CalcSize { return &m.SelfIdealSize }, value)
}

// UpdateCalcMinSize sets the declared minimum size.
func (p *LayoutProperty) UpdateCalcMinSize(value CalcSize) {
	p.updateCalc(func(m *MeasureProperty) *CalcSize { return &m.MinSize }, value)
}

// UpdateCalcMaxSize sets the declared maximum size.
func (p *LayoutProperty) UpdateCalcMaxSize(value CalcSize) {
	p.updateCalc(func(m *MeasureProperty) *CalcSize { return &m.MaxSize }, value)
}

func (p *LayoutProperty) updateCalc(field func(*MeasureProperty) *CalcSize, value CalcSize) {
	if p.calcLayoutConstraint == nil {
		p.calcLayoutConstraint = &MeasureProperty{}
	}
	target := field(p.calcLayoutConstraint)
	if *target == value {
		return
	}
	*target = value
	p.flag |= UpdateMeasure
}

// UpdateSelfIdealSize pins the resolved ideal size of the current pass.
func (p *LayoutProperty) UpdateSelfIdealSize(value graphics.Size) {
	if p.layoutConstraint == nil {
		c := NewLayoutConstraint()
		p.layoutConstraint = &c
	}
	if p.layoutConstraint.UpdateSelfIdealSizeWithCheck(graphics.OptionalSizeOf(value)) {
		p.flag |= UpdateMeasure
	}
}

// UpdateLayoutConstraint adopts the constraint handed down by the parent and
// applies the declared sizes on top of it.
func (p *LayoutProperty) UpdateLayoutConstraint(parent LayoutConstraint) {
	c := parent
	if calc := p.calcLayoutConstraint; calc != nil {
		reference := parent.PercentReference
		if min := calc.MinSize.ToOptionalSize(parent.Scale, reference); !min.IsNull() {
			c.UpdateMinSizeWithCheck(min.ConvertToSize())
		}
		if max := calc.MaxSize.ToOptionalSize(parent.Scale, reference); !max.IsNull() {
			c.UpdateMaxSizeWithCheck(max.ConvertToSize())
		}
		if ideal := calc.SelfIdealSize.ToOptionalSize(parent.Scale, reference); !ideal.IsNull() {
			c.UpdateSelfIdealSizeWithCheck(ideal)
		}
	}
	c.ConstrainSelfIdealSize()
	p.layoutConstraint = &c
}

// UpdateContentConstraint derives the content constraint from the layout
// constraint by removing padding and border.
func (p *LayoutProperty) UpdateContentConstraint() {
	if p.layoutConstraint == nil {
		p.contentConstraint = nil
		return
	}
	c := *p.layoutConstraint
	edges := p.CreatePaddingAndBorder()
	c.MinusPadding(edges.Left, edges.Right, edges.Top, edges.Bottom)
	p.contentConstraint = &c
}

// AdoptConstraints copies the constraints resolved by a layout pass on a
// clone back into p.
func (p *LayoutProperty) AdoptConstraints(from *LayoutProperty) {
	p.layoutConstraint = clonePtr(from.layoutConstraint)
	p.contentConstraint = clonePtr(from.contentConstraint)
}

// CreateChildConstraint returns the constraint handed to children: the
// content constraint, with this node's ideal size becoming the children's
// parent ideal size and bounding their max size.
func (p *LayoutProperty) CreateChildConstraint() LayoutConstraint {
	if p.contentConstraint == nil {
		return NewLayoutConstraint()
	}
	c := *p.contentConstraint
	c.ParentIdealSize = c.SelfIdealSize
	if c.ParentIdealSize.HasWidth {
		c.MaxSize.Width = c.ParentIdealSize.Width
		c.PercentReference.Width = c.ParentIdealSize.Width
	}
	if c.ParentIdealSize.HasHeight {
		c.MaxSize.Height = c.ParentIdealSize.Height
		c.PercentReference.Height = c.ParentIdealSize.Height
	}
	c.MinSize = graphics.Size{}
	c.SelfIdealSize = graphics.OptionalSize{}
	return c
}

// CreateContentConstraint returns the constraint used to measure content.
func (p *LayoutProperty) CreateContentConstraint() LayoutConstraint {
	c := NewLayoutConstraint()
	if p.contentConstraint != nil {
		c = *p.contentConstraint
	}
	if c.SelfIdealSize.HasWidth && c.SelfIdealSize.Width < c.MaxSize.Width {
		c.MaxSize.Width = c.SelfIdealSize.Width
	}
	if c.SelfIdealSize.HasHeight && c.SelfIdealSize.Height < c.MaxSize.Height {
		c.MaxSize.Height = c.SelfIdealSize.Height
	}
	return c
}

// CreatePaddingWithoutBorder returns the declared padding or zero.
func (p *LayoutProperty) CreatePaddingWithoutBorder() Edges {
	padding, _ := p.Padding()
	return padding
}

// CreatePaddingAndBorder returns padding plus border width.
func (p *LayoutProperty) CreatePaddingAndBorder() Edges {
	padding, _ := p.Padding()
	border, _ := p.BorderWidth()
	return padding.Add(border)
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
