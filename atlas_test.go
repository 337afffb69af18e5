package canopy

import (
	"strings"
	"testing"
)

// --- Test JSON fixtures ---

const singlePageJSON = `{
  "frames": {
    "hero.png": {
      "frame": {"x": 0, "y": 0, "w": 64, "h": 64},
      "rotated": false,
      "trimmed": false,
      "spriteSourceSize": {"x": 0, "y": 0, "w": 64, "h": 64},
      "sourceSize": {"w": 64, "h": 64}
    },
    "enemy.png": {
      "frame": {"x": 64, "y": 0, "w": 32, "h": 48},
      "rotated": false,
      "trimmed": false,
      "spriteSourceSize": {"x": 0, "y": 0, "w": 32, "h": 48},
      "sourceSize": {"w": 32, "h": 48}
    },
    "trimmed.png": {
      "frame": {"x": 100, "y": 50, "w": 60, "h": 58},
      "rotated": false,
      "trimmed": true,
      "spriteSourceSize": {"x": 2, "y": 3, "w": 60, "h": 58},
      "sourceSize": {"w": 64, "h": 64}
    },
    "rotated.png": {
      "frame": {"x": 200, "y": 0, "w": 48, "h": 32},
      "rotated": true,
      "trimmed": false,
      "spriteSourceSize": {"x": 0, "y": 0, "w": 48, "h": 32},
      "sourceSize": {"w": 32, "h": 48}
    }
  },
  "meta": {
    "image": "atlas.png",
    "size": {"w": 1024, "h": 1024}
  }
}`

const multiPageJSON = `{
  "textures": [
    {
      "image": "atlas-0.png",
      "frames": {
        "page0_sprite.png": {
          "frame": {"x": 0, "y": 0, "w": 64, "h": 64},
          "sourceSize": {"w": 64, "h": 64}
        }
      }
    },
    {
      "image": "atlas-1.png",
      "frames": {
        "page1_sprite.png": {
          "frame": {"x": 10, "y": 20, "w": 50, "h": 40}
        }
      }
    }
  ]
}`

// --- LoadAtlas tests ---

func TestLoadAtlas_SinglePage(t *testing.T) {
	atlas, err := LoadAtlas([]byte(singlePageJSON))
	if err != nil {
		t.Fatalf("LoadAtlas: %v", err)
	}
	if got := atlas.Len(); got != 4 {
		t.Errorf("region count = %d, want 4", got)
	}
	if len(atlas.Pages) != 1 || atlas.Pages[0] != "atlas.png" {
		t.Errorf("Pages = %v, want [atlas.png]", atlas.Pages)
	}

	r, ok := atlas.Region("enemy.png")
	if !ok {
		t.Fatal("enemy.png should exist")
	}
	if r.Frame != (Rect{X: 64, Y: 0, Width: 32, Height: 48}) {
		t.Errorf("enemy.png frame = %+v", r.Frame)
	}
	if r.Size() != (Size{32, 48}) {
		t.Errorf("enemy.png size = %+v, want 32x48", r.Size())
	}
}

func TestLoadAtlas_Missing(t *testing.T) {
	atlas, err := LoadAtlas([]byte(singlePageJSON))
	if err != nil {
		t.Fatalf("LoadAtlas: %v", err)
	}
	if _, ok := atlas.Region("nonexistent.png"); ok {
		t.Error("missing region should report false")
	}
}

func TestLoadAtlas_TrimmedRegionUsesSourceSize(t *testing.T) {
	atlas, _ := LoadAtlas([]byte(singlePageJSON))
	r, _ := atlas.Region("trimmed.png")
	if !r.Trimmed {
		t.Error("trimmed.png Trimmed = false, want true")
	}
	if r.Size() != (Size{64, 64}) {
		t.Errorf("trimmed size = %+v, want 64x64", r.Size())
	}
}

func TestLoadAtlas_RotatedRegion(t *testing.T) {
	atlas, _ := LoadAtlas([]byte(singlePageJSON))
	r, _ := atlas.Region("rotated.png")
	if !r.Rotated {
		t.Error("rotated.png Rotated = false, want true")
	}
	if r.Size() != (Size{32, 48}) {
		t.Errorf("rotated size = %+v, want 32x48", r.Size())
	}
}

func TestLoadAtlas_MultiPage(t *testing.T) {
	atlas, err := LoadAtlas([]byte(multiPageJSON))
	if err != nil {
		t.Fatalf("LoadAtlas: %v", err)
	}
	if got := atlas.Len(); got != 2 {
		t.Errorf("region count = %d, want 2", got)
	}

	r1, _ := atlas.Region("page1_sprite.png")
	if r1.Page != 1 {
		t.Errorf("page1_sprite Page = %d, want 1", r1.Page)
	}
	// No sourceSize: the frame size stands in.
	if r1.Size() != (Size{50, 40}) {
		t.Errorf("page1_sprite size = %+v, want 50x40", r1.Size())
	}
}

func TestLoadAtlas_InvalidJSON(t *testing.T) {
	if _, err := LoadAtlas([]byte(`{invalid`)); err == nil {
		t.Error("expected error for invalid JSON, got nil")
	}
}

func TestLoadAtlas_NoFramesOrTextures(t *testing.T) {
	_, err := LoadAtlas([]byte(`{"meta":{}}`))
	if err == nil {
		t.Fatal("expected error for JSON with no frames/textures, got nil")
	}
	if !strings.Contains(err.Error(), "neither") {
		t.Errorf("error message = %q, want mention of neither", err.Error())
	}
}
