// Package canopy loads declarative scene documents into trees of nodes.
//
// A document is a JSON (or YAML) tree of records. Each record names a type
// tag, carries geometry and appearance fields, and may hold children, a
// layout record and a reference to another document:
//
//	{
//	  "type": "Scene", "width": 640, "height": 480,
//	  "children": [
//	    {"type": "Sprite", "file": "hero.png", "tag": 7,
//	     "layout": {"mode": 1, "align": "center"}},
//	    {"type": "SubGraph", "file": "hud.json"}
//	  ]
//	}
//
// # Loading
//
// A [Loader] resolves type tags through a [Registry] of [Constructor]s,
// attaches each constructed node under its parent in document order, assigns
// its tag and then positions it with [ResolveLayout]:
//
//	loader := canopy.NewLoader(canopy.LoaderConfig{
//		Source: canopy.NewDirSource("assets/scenes"),
//	})
//	res, err := loader.LoadFile("main.json")
//	if err != nil {
//		return err // unreadable or malformed document, no tree
//	}
//	for _, d := range res.Diagnostics {
//		log.Printf("skipped %s: %v", d.Path, d.Err)
//	}
//
// Unknown tags and failing constructors skip only their own subtree. The
// rest of the document still builds and every skipped subtree is listed in
// [Result.Diagnostics].
//
// # Layout
//
// Layout math uses a Y-up space: a parent's content spans (0, 0) to
// (Width, Height) with (0, Height) at the top-left. Three modes exist:
// absolute, relative (nine alignment targets plus margins) and percentage
// of the parent's content size.
//
// # Sub-graphs
//
// "SubGraph" records splice in another document. Built sub-graphs are kept
// in a [Cache] keyed by path; every reference receives its own deep copy.
package canopy
