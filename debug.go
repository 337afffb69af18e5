package canopy

// debugMaxTreeDepth is the depth past which debug mode warns about a build.
const debugMaxTreeDepth = 32

// debugMaxChildCount is the child count past which debug mode warns.
const debugMaxChildCount = 1000

// debugCheckTreeDepth warns if n sits deeper than debugMaxTreeDepth.
func (s *Session) debugCheckTreeDepth(n *Node, path string) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		s.loader.logger.Warn("canopy: tree depth exceeds threshold",
			"depth", depth, "threshold", debugMaxTreeDepth, "path", path)
	}
}

// debugCheckChildCount warns if n has more than debugMaxChildCount children.
func (s *Session) debugCheckChildCount(n *Node, path string) {
	if len(n.children) > debugMaxChildCount {
		s.loader.logger.Warn("canopy: child count exceeds threshold",
			"children", len(n.children), "threshold", debugMaxChildCount, "path", path)
	}
}
