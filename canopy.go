package canopy

// Color is an RGB tint with 8-bit components. Opacity is stored separately
// on the node.
type Color struct {
	R, G, B uint8
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{255, 255, 255}

// Vec2 is a 2D vector used for positions, offsets, sizes, and anchors
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Size is a width/height pair used for content sizes.
type Size struct {
	Width, Height float64
}

// Rect is an axis-aligned rectangle. Layout math in this package treats the
// Y axis as growing upward, so (X, Y) is the bottom-left corner.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Built-in type tags registered by RegisterBuiltins.
const (
	TypeNode     = "Node"
	TypeCanvas   = "Canvas"
	TypeScene    = "Scene"
	TypeSubGraph = "SubGraph"
	TypeSprite   = "Sprite"
	TypeParticle = "Particle"

	TypeButton     = "Button"
	TypeCheckBox   = "CheckBox"
	TypeImageView  = "ImageView"
	TypeTextAtlas  = "TextAtlas"
	TypeTextBMFont = "TextBMFont"
	TypeText       = "Text"
	TypeLoadingBar = "LoadingBar"
	TypeTextField  = "TextField"
	TypeSlider     = "Slider"
	TypeLayout     = "Layout"
	TypeScrollView = "ScrollView"
	TypeListView   = "ListView"
	TypePageView   = "PageView"
	TypeWidget     = "Widget"
)

// WidgetTypes lists the widget tags delegated to a WidgetFactory.
var WidgetTypes = []string{
	TypeButton, TypeCheckBox, TypeImageView, TypeTextAtlas, TypeTextBMFont,
	TypeText, TypeLoadingBar, TypeTextField, TypeSlider, TypeLayout,
	TypeScrollView, TypeListView, TypePageView, TypeWidget,
}

// Document field names. Where the format accepts an older spelling it is
// listed as the Alt constant.
const (
	KeyNodeTree    = "nodeTree"
	KeyType        = "type"
	KeyTypeAlt     = "classname"
	KeyFile        = "file"
	KeyFileAlt     = "filePath"
	KeyChildren    = "children"
	KeyChildrenAlt = "Children"
	KeyTag         = "tag"
	KeyTagAlt      = "actionTag"
	KeyName        = "name"
	KeyVisible     = "visible"
	KeyLayout      = "layout"

	KeyX             = "x"
	KeyY             = "y"
	KeyPositionX     = "position.x"
	KeyPositionY     = "position.y"
	KeyScaleX        = "scalex"
	KeyScaleXAlt     = "scaleX"
	KeyScaleY        = "scaley"
	KeyScaleYAlt     = "scaleY"
	KeyRotation      = "rotation"
	KeyRotationSkewX = "rotationSkewX"
	KeyRotationSkewY = "rotationSkewY"
	KeySkewX         = "skewx"
	KeySkewXAlt      = "skewX"
	KeySkewY         = "skewy"
	KeySkewYAlt      = "skewY"
	KeyAnchorX       = "anchorx"
	KeyAnchorXAlt    = "anchorPointX"
	KeyAnchorY       = "anchory"
	KeyAnchorYAlt    = "anchorPointY"
	KeyOpacity       = "opacity"
	KeyColorR        = "colorr"
	KeyColorRAlt     = "colorR"
	KeyColorG        = "colorg"
	KeyColorGAlt     = "colorG"
	KeyColorB        = "colorb"
	KeyColorBAlt     = "colorB"
	KeyWidth         = "width"
	KeyHeight        = "height"
)

// NoTag is the tag carried by nodes whose record did not set one.
const NoTag = -1
