package canopy

// Attributes holds the base properties decoded from a record. Absent fields
// take the defaults below, which are the same values nodeDefaults gives a
// freshly constructed node.
//
//	position (0, 0)   scale (1, 1)   rotation/skew 0
//	anchor (0.5, 0.5) opacity 255    color (255, 255, 255)
type Attributes struct {
	Name                         string
	X, Y                         float64
	ScaleX, ScaleY               float64
	Rotation                     float64
	RotationSkewX, RotationSkewY float64
	SkewX, SkewY                 float64
	AnchorX, AnchorY             float64
	Width, Height                float64
	Opacity                      uint8
	Color                        Color
	Visible                      bool
}

// DefaultAttributes returns the attribute set of an empty record.
func DefaultAttributes() Attributes {
	return Attributes{
		ScaleX:  1,
		ScaleY:  1,
		AnchorX: 0.5,
		AnchorY: 0.5,
		Opacity: 255,
		Color:   ColorWhite,
		Visible: true,
	}
}

// DecodeAttributes reads the base properties of rec, filling absent fields
// with their defaults. Flat x/y win over a "position" point object, and the
// lower-case spellings win over their Alt forms.
func DecodeAttributes(rec Record) Attributes {
	return Attributes{
		Name:          rec.String(KeyName, ""),
		X:             rec.Float(KeyX, rec.Float(KeyPositionX, 0)),
		Y:             rec.Float(KeyY, rec.Float(KeyPositionY, 0)),
		ScaleX:        rec.Float(KeyScaleX, rec.Float(KeyScaleXAlt, 1)),
		ScaleY:        rec.Float(KeyScaleY, rec.Float(KeyScaleYAlt, 1)),
		Rotation:      rec.Float(KeyRotation, 0),
		RotationSkewX: rec.Float(KeyRotationSkewX, 0),
		RotationSkewY: rec.Float(KeyRotationSkewY, 0),
		SkewX:         rec.Float(KeySkewX, rec.Float(KeySkewXAlt, 0)),
		SkewY:         rec.Float(KeySkewY, rec.Float(KeySkewYAlt, 0)),
		AnchorX:       rec.Float(KeyAnchorX, rec.Float(KeyAnchorXAlt, 0.5)),
		AnchorY:       rec.Float(KeyAnchorY, rec.Float(KeyAnchorYAlt, 0.5)),
		Width:         rec.Float(KeyWidth, 0),
		Height:        rec.Float(KeyHeight, 0),
		Opacity:       clampByte(rec.Int(KeyOpacity, 255)),
		Color: Color{
			R: clampByte(rec.Int(KeyColorR, rec.Int(KeyColorRAlt, 255))),
			G: clampByte(rec.Int(KeyColorG, rec.Int(KeyColorGAlt, 255))),
			B: clampByte(rec.Int(KeyColorB, rec.Int(KeyColorBAlt, 255))),
		},
		Visible: rec.Bool(KeyVisible, true),
	}
}

// Apply writes a onto n. Only attributes that differ from their default are
// written, so a node built by anything other than nodeDefaults keeps its own
// values for fields the record left at default. Setting opacity also enables
// opacity cascading.
func (a Attributes) Apply(n *Node) {
	if a.Name != "" {
		n.Name = a.Name
	}
	if a.X != 0 || a.Y != 0 {
		n.SetPosition(a.X, a.Y)
	}
	if a.ScaleX != 1 {
		n.ScaleX = a.ScaleX
	}
	if a.ScaleY != 1 {
		n.ScaleY = a.ScaleY
	}
	if a.Rotation != 0 {
		n.Rotation = a.Rotation
	}
	if a.RotationSkewX != 0 {
		n.RotationSkewX = a.RotationSkewX
	}
	if a.RotationSkewY != 0 {
		n.RotationSkewY = a.RotationSkewY
	}
	if a.SkewX != 0 {
		n.SkewX = a.SkewX
	}
	if a.SkewY != 0 {
		n.SkewY = a.SkewY
	}
	if a.AnchorX != 0.5 || a.AnchorY != 0.5 {
		n.SetAnchor(a.AnchorX, a.AnchorY)
	}
	if a.Width != 0 || a.Height != 0 {
		n.SetContentSize(a.Width, a.Height)
	}
	if a.Opacity != 255 {
		n.SetOpacity(a.Opacity)
	}
	if a.Color != ColorWhite {
		n.Color = a.Color
	}
	if !a.Visible {
		n.Visible = false
	}
}

// InitNode decodes rec and applies it to n. Constructors call this after
// creating their node.
func InitNode(n *Node, rec Record) {
	DecodeAttributes(rec).Apply(n)
}

func clampByte(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}
