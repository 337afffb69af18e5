package canopy

import (
	"errors"
	"fmt"
)

// WidgetFactory creates GUI widget nodes for the widget tags. The returned
// node is detached; base properties are applied to it afterwards.
type WidgetFactory interface {
	NewWidget(class string, rec Record) (*Node, error)
}

// BuiltinOptions configures RegisterBuiltins.
type BuiltinOptions struct {
	// Atlases are searched in order for sprite frames.
	Atlases []*Atlas

	// Widgets builds widget nodes. Nil builds plain nodes whose Kind is
	// the widget class.
	Widgets WidgetFactory
}

var (
	errAssetNotFound = errors.New("asset not found")
	errNoFile        = errors.New("record has no file reference")
)

// RegisterBuiltins registers the standard tag set on reg: plain nodes
// (Node, Canvas, Scene), sub-graph references (SubGraph), sprites, particle
// systems and every tag in WidgetTypes.
func RegisterBuiltins(reg *Registry, opts BuiltinOptions) {
	for _, tag := range []string{TypeNode, TypeCanvas, TypeScene} {
		reg.Register(tag, nodeConstructor{kind: tag})
	}
	reg.Register(TypeSubGraph, subGraphConstructor{})
	reg.Register(TypeSprite, spriteConstructor{atlases: opts.Atlases})
	reg.Register(TypeParticle, particleConstructor{})
	for _, tag := range WidgetTypes {
		reg.Register(tag, widgetConstructor{class: tag, factory: opts.Widgets})
	}
}

// nodeConstructor builds plain group nodes.
type nodeConstructor struct {
	kind string
}

func (c nodeConstructor) Construct(_ *Session, rec Record) (*Node, error) {
	n := NewNode(c.kind)
	InitNode(n, rec)
	return n, nil
}

// subGraphConstructor splices in the document named by the record's file
// reference. The record's own properties apply on top of the loaded root;
// without a file it is an empty group.
type subGraphConstructor struct{}

func (subGraphConstructor) Construct(s *Session, rec Record) (*Node, error) {
	file := rec.File()
	if file == "" {
		n := NewNode(TypeSubGraph)
		InitNode(n, rec)
		return n, nil
	}
	n, err := s.LoadSubGraph(file)
	if err != nil {
		return nil, err
	}
	InitNode(n, rec)
	return n, nil
}

// spriteConstructor sizes sprites from atlas frames.
type spriteConstructor struct {
	atlases []*Atlas
}

func (c spriteConstructor) Construct(_ *Session, rec Record) (*Node, error) {
	n := NewNode(TypeSprite)
	if file := rec.File(); file != "" {
		region, ok := c.lookup(file)
		if !ok {
			return nil, fmt.Errorf("%w: sprite frame %q", errAssetNotFound, file)
		}
		n.Source = file
		n.SetContentSize(region.Size().Width, region.Size().Height)
	}
	InitNode(n, rec)
	return n, nil
}

func (c spriteConstructor) lookup(name string) (Region, bool) {
	for _, a := range c.atlases {
		if r, ok := a.Region(name); ok {
			return r, true
		}
	}
	return Region{}, false
}

// particleConstructor builds particle system placeholders. The system's
// definition file is kept on Source for the runtime to load.
type particleConstructor struct{}

func (particleConstructor) Construct(_ *Session, rec Record) (*Node, error) {
	file := rec.File()
	if file == "" {
		return nil, errNoFile
	}
	n := NewNode(TypeParticle)
	n.Source = file
	InitNode(n, rec)
	return n, nil
}

// widgetConstructor delegates widget tags to a WidgetFactory.
type widgetConstructor struct {
	class   string
	factory WidgetFactory
}

func (c widgetConstructor) Construct(_ *Session, rec Record) (*Node, error) {
	var n *Node
	if c.factory != nil {
		var err error
		n, err = c.factory.NewWidget(c.class, rec)
		if err != nil {
			return nil, err
		}
		if n == nil {
			return nil, fmt.Errorf("widget factory returned no %s", c.class)
		}
	} else {
		n = NewNode(c.class)
	}
	InitNode(n, rec)
	return n, nil
}
