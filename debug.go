package grove

import (
	"time"

	"go.uber.org/zap"
)

// debugStats holds per-frame timing and draw metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	inputTime    time.Duration
	updateTime   time.Duration
	maintainTime time.Duration
	drawTime     time.Duration
	cameraCount  int
	meshCount    int
	triangles    int
}

// debugLog writes timing and draw stats to the scene logger.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	total := stats.inputTime + stats.updateTime + stats.maintainTime + stats.drawTime
	s.log.Debug("frame",
		zap.Duration("input", stats.inputTime),
		zap.Duration("update", stats.updateTime),
		zap.Duration("maintain", stats.maintainTime),
		zap.Duration("draw", stats.drawTime),
		zap.Duration("total", total),
		zap.Int("cameras", stats.cameraCount),
		zap.Int("meshes", stats.meshCount),
		zap.Int("triangles", stats.triangles))
}

// debugCheckTreeDepth warns if the tree depth at g exceeds the threshold.
const debugMaxTreeDepth = 32

func (s *Scene) debugCheckTreeDepth(g *GameObject) {
	depth := 0
	for p := g; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		s.log.Warn("tree depth exceeds threshold",
			zap.Int("depth", depth),
			zap.Int("threshold", debugMaxTreeDepth),
			zap.String("object", g.Name))
	}
}

// debugCheckChildCount warns if g has more than 1000 children.
const debugMaxChildCount = 1000

func (s *Scene) debugCheckChildCount(g *GameObject) {
	if len(g.children) > debugMaxChildCount {
		s.log.Warn("child count exceeds threshold",
			zap.String("object", g.Name),
			zap.Int("children", len(g.children)),
			zap.Int("threshold", debugMaxChildCount))
	}
}

// countTriangles sums the triangles of the built meshes.
func countTriangles(meshes []*MeshComponent) int {
	n := 0
	for _, m := range meshes {
		for i := range m.SubMeshes() {
			n += m.data.SubMeshes[i].NumTriangles()
		}
	}
	return n
}
