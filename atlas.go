package canopy

import (
	"errors"
	"fmt"

	"github.com/ohler55/ojg/oj"
)

// Region describes one named frame of a TexturePacker atlas. Only geometry
// is kept; image pages are never decoded.
type Region struct {
	Page      int  // atlas page index
	Frame     Rect // sub-image rect within the page
	OriginalW int  // untrimmed sprite width as authored
	OriginalH int  // untrimmed sprite height as authored
	Rotated   bool // true if stored 90 degrees clockwise in the page
	Trimmed   bool
}

// Size returns the untrimmed size of the sprite, which is the content size a
// sprite node built from this region gets.
func (r Region) Size() Size {
	return Size{float64(r.OriginalW), float64(r.OriginalH)}
}

// Atlas maps frame names to regions.
type Atlas struct {
	// Pages lists the page image names in page order.
	Pages   []string
	regions map[string]Region
}

// Region returns the region for name.
func (a *Atlas) Region(name string) (Region, bool) {
	r, ok := a.regions[name]
	return r, ok
}

// Len returns the number of regions.
func (a *Atlas) Len() int {
	return len(a.regions)
}

// LoadAtlas parses TexturePacker JSON data. Supports both the hash format
// (single "frames" object) and the array format ("textures" array with
// per-page frame lists).
func LoadAtlas(jsonData []byte) (*Atlas, error) {
	v, err := oj.Parse(jsonData)
	if err != nil {
		return nil, fmt.Errorf("canopy: failed to parse atlas JSON: %w", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New("canopy: atlas JSON root is not an object")
	}
	doc := NewRecord(m)

	atlas := &Atlas{regions: make(map[string]Region)}
	switch {
	case doc.Has("textures"):
		// Multi-page array format
		for i, tex := range doc.Records("textures") {
			if tex.IsZero() {
				return nil, fmt.Errorf("canopy: atlas texture %d is not an object", i)
			}
			atlas.Pages = append(atlas.Pages, tex.String("image", ""))
			if err := parseFrames(tex, i, atlas); err != nil {
				return nil, err
			}
		}
	case doc.Has("frames"):
		// Single-page hash format
		atlas.Pages = append(atlas.Pages, doc.String("meta.image", ""))
		if err := parseFrames(doc, 0, atlas); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("canopy: atlas JSON has neither \"frames\" nor \"textures\" key")
	}
	return atlas, nil
}

// parseFrames parses the hash format: {"frames": {"name": {frame...}, ...}}
func parseFrames(page Record, pageIndex int, atlas *Atlas) error {
	frames, ok := page.Record("frames")
	if !ok {
		return fmt.Errorf("canopy: atlas page %d: \"frames\" is not an object", pageIndex)
	}
	for name := range frames.Map() {
		f, ok := frames.Record(name)
		if !ok {
			return fmt.Errorf("canopy: atlas frame %q is not an object", name)
		}
		atlas.regions[name] = frameToRegion(f, pageIndex)
	}
	return nil
}

func frameToRegion(f Record, page int) Region {
	r := Region{
		Page: page,
		Frame: Rect{
			X:      f.Float("frame.x", 0),
			Y:      f.Float("frame.y", 0),
			Width:  f.Float("frame.w", 0),
			Height: f.Float("frame.h", 0),
		},
		OriginalW: f.Int("sourceSize.w", 0),
		OriginalH: f.Int("sourceSize.h", 0),
		Rotated:   f.Bool("rotated", false),
		Trimmed:   f.Bool("trimmed", false),
	}
	if r.OriginalW == 0 && r.OriginalH == 0 {
		r.OriginalW, r.OriginalH = int(r.Frame.Width), int(r.Frame.Height)
		if r.Rotated {
			r.OriginalW, r.OriginalH = r.OriginalH, r.OriginalW
		}
	}
	return r
}
