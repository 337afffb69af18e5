package canopy

import (
	"fmt"
	"strings"
)

// PositionMode selects how a child's final position is computed.
type PositionMode int

const (
	PositionAbsolute   PositionMode = iota // position taken verbatim from the layout record
	PositionRelative                       // aligned against the parent with margins
	PositionPercentage                     // fraction of the parent's content size
)

func (m PositionMode) String() string {
	switch m {
	case PositionAbsolute:
		return "absolute"
	case PositionRelative:
		return "relative"
	case PositionPercentage:
		return "percentage"
	default:
		return fmt.Sprintf("PositionMode(%d)", int(m))
	}
}

// Alignment names one of nine anchor targets inside the parent.
type Alignment int

const (
	AlignNone         Alignment = iota // unset; resolves like AlignTopLeft
	AlignTopLeft                       // parent top-left corner
	AlignTopCenter                     // parent top edge, horizontally centered
	AlignTopRight                      // parent top-right corner
	AlignLeftCenter                    // parent left edge, vertically centered
	AlignCenter                        // parent center
	AlignRightCenter                   // parent right edge, vertically centered
	AlignLeftBottom                    // parent bottom-left corner
	AlignBottomCenter                  // parent bottom edge, horizontally centered
	AlignRightBottom                   // parent bottom-right corner
)

var alignmentNames = [...]string{
	AlignNone:         "none",
	AlignTopLeft:      "top-left",
	AlignTopCenter:    "top-center",
	AlignTopRight:     "top-right",
	AlignLeftCenter:   "left-center",
	AlignCenter:       "center",
	AlignRightCenter:  "right-center",
	AlignLeftBottom:   "left-bottom",
	AlignBottomCenter: "bottom-center",
	AlignRightBottom:  "right-bottom",
}

func (a Alignment) String() string {
	if a >= 0 && int(a) < len(alignmentNames) {
		return alignmentNames[a]
	}
	return fmt.Sprintf("Alignment(%d)", int(a))
}

// ParseAlignment maps a name such as "top-left" to its Alignment.
// Matching ignores case, and underscores may replace hyphens.
func ParseAlignment(name string) (Alignment, bool) {
	name = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for i, n := range alignmentNames {
		if n == name {
			return Alignment(i), true
		}
	}
	return AlignNone, false
}

// Margin is the four-sided spacing used by relative layout.
type Margin struct {
	Left, Top, Right, Bottom float64
}

// Positioning is a decoded layout record. Only the fields of Mode are
// meaningful.
type Positioning struct {
	Mode PositionMode

	// Absolute
	X, Y float64

	// Relative
	Align  Alignment
	Margin Margin

	// Percentage, each normally in [0, 1]
	PercentX, PercentY float64
}

// Layout record field names.
const (
	keyMode     = "mode"
	keyAlign    = "align"
	keyMargin   = "margin"
	keyPercentX = "percentX"
	keyPercentY = "percentY"
)

// DecodePositioning reads the "layout" sub-record of rec. It returns false
// when rec has none. A missing discriminator decodes to an unrecognized mode,
// which ResolveLayout ignores.
func DecodePositioning(rec Record) (Positioning, bool) {
	lr, ok := rec.Record(KeyLayout)
	if !ok {
		return Positioning{}, false
	}
	p := Positioning{
		Mode:     PositionMode(lr.Int(keyMode, -1)),
		X:        lr.Float(KeyX, 0),
		Y:        lr.Float(KeyY, 0),
		PercentX: lr.Float(keyPercentX, 0),
		PercentY: lr.Float(keyPercentY, 0),
	}
	if name := lr.String(keyAlign, ""); name != "" {
		p.Align, _ = ParseAlignment(name)
	} else {
		p.Align = Alignment(lr.Int(keyAlign, int(AlignNone)))
	}
	if m, ok := lr.Record(keyMargin); ok {
		p.Margin = Margin{
			Left:   m.Float("left", 0),
			Top:    m.Float("top", 0),
			Right:  m.Float("right", 0),
			Bottom: m.Float("bottom", 0),
		}
	}
	return p, true
}

// alignCoeff evaluates one alignment target:
//
//	x = fx*W + (ax-fx)*w + left*L + right*R
//	y = fy*H + (ay-fy)*h + top*T + bottom*B
//
// fx/fy place the node's edge against the parent (0 = left/bottom,
// 0.5 = center, 1 = right/top); the margin factors pick which side's margin
// pushes the node inward.
type alignCoeff struct {
	fx, fy                   float64
	left, right, top, bottom float64
}

var alignTable = [...]alignCoeff{
	AlignTopLeft:      {fx: 0, fy: 1, left: 1, top: -1},
	AlignTopCenter:    {fx: 0.5, fy: 1, top: -1},
	AlignTopRight:     {fx: 1, fy: 1, right: -1, top: -1},
	AlignLeftCenter:   {fx: 0, fy: 0.5, left: 1},
	AlignCenter:       {fx: 0.5, fy: 0.5},
	AlignRightCenter:  {fx: 1, fy: 0.5, right: -1},
	AlignLeftBottom:   {fx: 0, fy: 0, left: 1, bottom: 1},
	AlignBottomCenter: {fx: 0.5, fy: 0, bottom: 1},
	AlignRightBottom:  {fx: 1, fy: 0, right: -1, bottom: 1},
}

func coeffFor(a Alignment) alignCoeff {
	if a < AlignTopLeft || int(a) >= len(alignTable) {
		return alignTable[AlignTopLeft]
	}
	return alignTable[a]
}

// AlignedPosition computes a position for a node of size (w, h) and anchor
// (ax, ay) inside a parent of size (W, H). The Y axis grows upward.
func AlignedPosition(align Alignment, parent, node Size, ax, ay float64, m Margin) Vec2 {
	c := coeffFor(align)
	return Vec2{
		X: c.fx*parent.Width + (ax-c.fx)*node.Width + c.left*m.Left + c.right*m.Right,
		Y: c.fy*parent.Height + (ay-c.fy)*node.Height + c.top*m.Top + c.bottom*m.Bottom,
	}
}

// ResolveLayout positions n according to p. Absolute always applies.
// Relative and percentage layouts need a parent; without one the position is
// left unchanged and a *MissingParentError is returned. Unrecognized modes
// are a no-op.
func ResolveLayout(n *Node, p Positioning) error {
	switch p.Mode {
	case PositionAbsolute:
		n.SetPosition(p.X, p.Y)
	case PositionRelative:
		if n.Parent == nil {
			return &MissingParentError{Mode: p.Mode, Node: describeNode(n)}
		}
		pos := AlignedPosition(p.Align, n.Parent.ContentSize(), n.ContentSize(), n.AnchorX, n.AnchorY, p.Margin)
		n.SetPosition(pos.X, pos.Y)
	case PositionPercentage:
		if n.Parent == nil {
			return &MissingParentError{Mode: p.Mode, Node: describeNode(n)}
		}
		n.SetPosition(n.Parent.Width*p.PercentX, n.Parent.Height*p.PercentY)
	}
	return nil
}

func describeNode(n *Node) string {
	if n.Name != "" {
		return fmt.Sprintf("%s %q", n.Kind, n.Name)
	}
	return fmt.Sprintf("%s #%d", n.Kind, n.ID)
}
