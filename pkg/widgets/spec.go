package widgets

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/ace/pkg/core"
	"github.com/go-drift/ace/pkg/errors"
	"github.com/go-drift/ace/pkg/graphics"
	"github.com/go-drift/ace/pkg/image"
	"github.com/go-drift/ace/pkg/layout"
	"github.com/go-drift/ace/pkg/property"
)

// Spec is a declarative description of a node and its subtree, as read
// from YAML. Lengths are strings: "120" and "120px" are pixels, "40vp" is
// density independent and "50%" is relative to the parent.
type Spec struct {
	Tag        string   `yaml:"tag"`
	ID         string   `yaml:"id,omitempty"`
	Width      string   `yaml:"width,omitempty"`
	Height     string   `yaml:"height,omitempty"`
	Padding    float64  `yaml:"padding,omitempty"`
	Align      string   `yaml:"align,omitempty"`
	Weight     float64  `yaml:"weight,omitempty"`
	Background string   `yaml:"background,omitempty"`
	Opacity    *float64 `yaml:"opacity,omitempty"`
	Radius     float64  `yaml:"radius,omitempty"`
	Text       string   `yaml:"text,omitempty"`
	FontSize   float64  `yaml:"font_size,omitempty"`
	Color      string   `yaml:"color,omitempty"`
	Src        string   `yaml:"src,omitempty"`
	Fit        string   `yaml:"fit,omitempty"`
	AutoResize *bool    `yaml:"auto_resize,omitempty"`
	Space      float64  `yaml:"space,omitempty"`
	CrossAlign string   `yaml:"cross_align,omitempty"`
	Children   []Spec   `yaml:"children,omitempty"`
}

// ParseSpec decodes a YAML tree description. Unknown keys are rejected.
func ParseSpec(data []byte) (Spec, error) {
	var s Spec
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return Spec{}, errors.New("widgets.ParseSpec", errors.KindConfig, err)
	}
	return s, nil
}

// Mount builds the node described by s, mounts it under parent and calls
// MarkModifyDone on every node it created, children first. provider is
// only needed for Image nodes.
func Mount(parent *core.FrameNode, s Spec, provider *image.Provider) (*core.FrameNode, error) {
	if parent == nil {
		return nil, errors.New("widgets.Mount", errors.KindPrecondition, fmt.Errorf("no parent for %s %q", s.Tag, s.ID))
	}
	n, err := s.build(provider)
	if err != nil {
		return nil, err
	}
	n.MountToParent(parent, -1)
	for _, child := range s.Children {
		if _, err := Mount(n, child, provider); err != nil {
			return nil, err
		}
	}
	n.MarkDirtyNode(property.UpdateNormal)
	n.MarkModifyDone()
	return n, nil
}

func (s Spec) build(provider *image.Provider) (*core.FrameNode, error) {
	var n *core.FrameNode
	switch s.Tag {
	case TagBox:
		n = NewBox(s.ID)
	case TagColumn, TagRow:
		if s.Tag == TagColumn {
			n = NewColumn(s.ID)
		} else {
			n = NewRow(s.ID)
		}
		p, _ := core.GetPattern[*LinearPattern](n)
		p.space = s.Space
		align, ok := layout.ParseCrossAlign(s.CrossAlign)
		if !ok {
			return nil, s.invalid("cross_align", s.CrossAlign)
		}
		p.crossAlign = align
	case TagText:
		n = NewText(s.ID, s.Text)
		prop, _ := core.GetLayoutProperty[*TextLayoutProperty](n)
		if s.FontSize > 0 {
			prop.UpdateFontSize(s.FontSize)
		}
		if s.Color != "" {
			c, err := graphics.ParseColor(s.Color)
			if err != nil {
				return nil, s.invalid("color", s.Color)
			}
			paint, _ := core.GetPaintProperty[*TextPaintProperty](n)
			paint.UpdateTextColor(c)
		}
	case TagButton:
		n = NewButton(s.ID, s.Text)
	case TagImage:
		n = NewImage(s.ID, s.Src, provider)
		prop, _ := core.GetLayoutProperty[*ImageLayoutProperty](n)
		if s.Fit != "" {
			fit, err := image.ParseFit(s.Fit)
			if err != nil {
				return nil, s.invalid("fit", s.Fit)
			}
			prop.UpdateFit(fit)
		}
		if s.AutoResize != nil {
			prop.UpdateAutoResize(*s.AutoResize)
		}
	default:
		return nil, errors.New("widgets.Mount", errors.KindConfig, fmt.Errorf("unknown tag %q", s.Tag))
	}
	if err := s.applyLayout(n.LayoutProperty().LayoutBase()); err != nil {
		return nil, err
	}
	if err := s.applyPaint(n.PaintProperty().PaintBase()); err != nil {
		return nil, err
	}
	return n, nil
}

func (s Spec) applyLayout(p *property.LayoutProperty) error {
	width, err := ParseLength(s.Width)
	if err != nil {
		return s.invalid("width", s.Width)
	}
	height, err := ParseLength(s.Height)
	if err != nil {
		return s.invalid("height", s.Height)
	}
	if width.IsValid() || height.IsValid() {
		p.UpdateCalcSelfIdealSize(property.CalcSize{Width: width, Height: height})
	}
	if s.Padding > 0 {
		p.UpdatePadding(property.EdgesAll(s.Padding))
	}
	if s.Align != "" {
		align, ok := graphics.ParseAlignment(s.Align)
		if !ok {
			return s.invalid("align", s.Align)
		}
		p.UpdateAlignment(align)
	}
	if s.Weight > 0 {
		p.UpdateLayoutWeight(s.Weight)
	}
	return nil
}

func (s Spec) applyPaint(p *property.PaintProperty) error {
	if s.Background != "" {
		c, err := graphics.ParseColor(s.Background)
		if err != nil {
			return s.invalid("background", s.Background)
		}
		p.UpdateBackgroundColor(c)
	}
	if s.Opacity != nil {
		p.UpdateOpacity(*s.Opacity)
	}
	if s.Radius > 0 {
		p.UpdateBorderRadius(s.Radius)
	}
	return nil
}

func (s Spec) invalid(field, value string) error {
	return errors.New("widgets.Mount", errors.KindConfig,
		fmt.Errorf("%s %q: invalid %s %q", s.Tag, s.ID, field, value))
}

// ParseLength parses "120", "120px", "40vp" or "50%". The empty string is
// an unset length.
func ParseLength(s string) (property.CalcLength, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return property.CalcLength{}, nil
	}
	unit := property.UnitPx
	switch {
	case strings.HasSuffix(s, "%"):
		unit, s = property.UnitPercent, strings.TrimSuffix(s, "%")
	case strings.HasSuffix(s, "vp"):
		unit, s = property.UnitVp, strings.TrimSuffix(s, "vp")
	case strings.HasSuffix(s, "px"):
		s = strings.TrimSuffix(s, "px")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return property.CalcLength{}, fmt.Errorf("invalid length %q", s)
	}
	if unit == property.UnitPercent {
		v /= 100
	}
	return property.CalcLength{Value: v, Unit: unit}, nil
}
