package raytrace

import (
	"math"

	"github.com/quanta-uv/uvsim/pkg/core"
	"github.com/quanta-uv/uvsim/pkg/spatial"
)

// DefaultMaxDistance bounds an unbounded ClosestHit query.
const DefaultMaxDistance = 10000.0

const coincidentTolerance = 1e-6

// RayHit is the result of a closest-hit query against a whole mesh.
type RayHit struct {
	Hit      bool
	Distance float64
	Point    core.Vec3
	Triangle *core.Triangle
}

// Tracer answers occlusion and closest-hit queries against a fixed set of
// triangles, using a spatial grid to avoid testing every triangle per query.
type Tracer struct {
	grid      *spatial.Grid
	triangles []*core.Triangle
}

// NewTracer builds a tracer over triangles. A cellSize <= 0 uses the grid's
// default heuristic.
func NewTracer(triangles []*core.Triangle, cellSize float64) *Tracer {
	return &Tracer{
		grid:      spatial.NewGrid(triangles, cellSize),
		triangles: triangles,
	}
}

// IsPathClear reports whether a straight line from origin to target is
// unobstructed by any triangle. Coincident points are trivially clear.
func (tr *Tracer) IsPathClear(origin, target core.Vec3) bool {
	delta := target.Subtract(origin)
	distance := delta.Length()
	if distance < coincidentTolerance {
		return true
	}

	ray := core.NewRay(origin, delta)
	candidates := tr.grid.TrianglesAlongRay(ray, distance)

	for _, tri := range candidates {
		result := Intersect(ray, tri)
		if result.Hit && result.Distance < distance-coincidentTolerance {
			return false
		}
	}
	return true
}

// ClosestHit casts a ray from origin in direction and returns the nearest
// intersection within maxDistance. A maxDistance <= 0 uses DefaultMaxDistance.
func (tr *Tracer) ClosestHit(origin, direction core.Vec3, maxDistance float64) RayHit {
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistance
	}

	ray := core.NewRay(origin, direction)
	candidates := tr.grid.TrianglesAlongRay(ray, maxDistance)

	closest := RayHit{Distance: math.Inf(1)}
	for _, tri := range candidates {
		result := Intersect(ray, tri)
		if result.Hit && result.Distance <= maxDistance && result.Distance < closest.Distance {
			closest = RayHit{
				Hit:      true,
				Distance: result.Distance,
				Point:    result.Point,
				Triangle: tri,
			}
		}
	}
	return closest
}
