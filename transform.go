package canopy

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// LocalTransform returns the matrix mapping this node's content space into
// its parent's space.
//
// Composition order:
//
//	Translate(-AnchorX*Width, -AnchorY*Height) -> Scale -> Skew -> Rotate -> Translate(X, Y)
//
// Rotation is clockwise in a Y-up space, so angles are negated before being
// handed to GeoM. RotationSkewX/Y add to Rotation on their own axis only.
func (n *Node) LocalTransform() ebiten.GeoM {
	var g ebiten.GeoM
	g.Translate(-n.AnchorX*n.Width, -n.AnchorY*n.Height)
	g.Scale(n.ScaleX, n.ScaleY)
	if n.SkewX != 0 || n.SkewY != 0 {
		g.Skew(degToRad(n.SkewX), degToRad(n.SkewY))
	}

	if n.RotationSkewX == 0 && n.RotationSkewY == 0 {
		if n.Rotation != 0 {
			g.Rotate(-degToRad(n.Rotation))
		}
	} else {
		rx := -degToRad(n.Rotation + n.RotationSkewX)
		ry := -degToRad(n.Rotation + n.RotationSkewY)
		var r ebiten.GeoM
		r.SetElement(0, 0, math.Cos(ry))
		r.SetElement(1, 0, math.Sin(ry))
		r.SetElement(0, 1, -math.Sin(rx))
		r.SetElement(1, 1, math.Cos(rx))
		g.Concat(r)
	}

	g.Translate(n.X, n.Y)
	return g
}

// WorldTransform returns the matrix mapping this node's content space into
// the space of its topmost ancestor.
func (n *Node) WorldTransform() ebiten.GeoM {
	g := n.LocalTransform()
	for p := n.Parent; p != nil; p = p.Parent {
		g.Concat(p.LocalTransform())
	}
	return g
}

// --- Coordinate conversion ---

// LocalToWorld converts a point in this node's content space to root space.
func (n *Node) LocalToWorld(lx, ly float64) (wx, wy float64) {
	g := n.WorldTransform()
	return g.Apply(lx, ly)
}

// WorldToLocal converts a root-space point to this node's content space.
// A singular transform (zero scale) maps every point to the origin.
func (n *Node) WorldToLocal(wx, wy float64) (lx, ly float64) {
	g := n.WorldTransform()
	if !g.IsInvertible() {
		return 0, 0
	}
	g.Invert()
	return g.Apply(wx, wy)
}

// ContentRect returns the node's content rectangle in its own space.
func (n *Node) ContentRect() Rect {
	return Rect{Width: n.Width, Height: n.Height}
}

// BoundingBox returns the axis-aligned bounds of the node's content
// rectangle in its parent's space.
func (n *Node) BoundingBox() Rect {
	g := n.LocalTransform()
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range [4][2]float64{{0, 0}, {n.Width, 0}, {0, n.Height}, {n.Width, n.Height}} {
		x, y := g.Apply(c[0], c[1])
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// --- Transform property setters ---

// SetPosition sets the node's local X and Y.
func (n *Node) SetPosition(x, y float64) {
	n.X = x
	n.Y = y
}

// Position returns the node's local position.
func (n *Node) Position() Vec2 {
	return Vec2{n.X, n.Y}
}

// SetScale sets the node's ScaleX and ScaleY.
func (n *Node) SetScale(sx, sy float64) {
	n.ScaleX = sx
	n.ScaleY = sy
}

// SetSkew sets the node's SkewX and SkewY (degrees).
func (n *Node) SetSkew(sx, sy float64) {
	n.SkewX = sx
	n.SkewY = sy
}

// SetAnchor sets the node's normalized anchor point.
func (n *Node) SetAnchor(ax, ay float64) {
	n.AnchorX = ax
	n.AnchorY = ay
}

// SetContentSize sets the size used by layout math.
func (n *Node) SetContentSize(w, h float64) {
	n.Width = w
	n.Height = h
}

// ContentSize returns the size used by layout math.
func (n *Node) ContentSize() Size {
	return Size{n.Width, n.Height}
}

// SetOpacity sets the node's opacity and enables opacity cascading to
// children. The two always change together.
func (n *Node) SetOpacity(a uint8) {
	n.Opacity = a
	n.CascadeOpacity = true
}

// DisplayedOpacity returns the node's opacity multiplied through every
// ancestor that cascades opacity, in [0, 255].
func (n *Node) DisplayedOpacity() uint8 {
	a := float64(n.Opacity) / 255
	for p := n.Parent; p != nil; p = p.Parent {
		if !p.CascadeOpacity {
			break
		}
		a *= float64(p.Opacity) / 255
	}
	return uint8(math.Round(a * 255))
}
