// Package sampler generates measurement points distributed across a
// triangular mesh surface, for use as the locations at which irradiance and
// dose are evaluated.
package sampler

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/quanta-uv/uvsim/pkg/core"
	"gonum.org/v1/gonum/floats"
)

// DefaultOversampleFactor sets how many candidate points are generated per
// requested measurement point before pruning.
const DefaultOversampleFactor = 10

const pruneSearchRange = 2

// Point is a measurement location on a mesh surface, carrying the surface
// normal at the point it was sampled from.
type Point struct {
	Position core.Vec3
	Normal   core.Vec3
}

// cumulativeAreaTable holds a normalized cumulative distribution over
// triangle areas, used to pick triangles with probability proportional to
// their area.
type cumulativeAreaTable struct {
	triangles  []*core.Triangle
	cumulative []float64
}

func newCumulativeAreaTable(triangles []*core.Triangle) (*cumulativeAreaTable, error) {
	if len(triangles) == 0 {
		return nil, fmt.Errorf("sampler: cannot build area table over an empty triangle list")
	}

	areas := make([]float64, len(triangles))
	for i, tri := range triangles {
		areas[i] = tri.Area()
	}

	total := floats.Sum(areas)
	if total == 0 {
		return nil, fmt.Errorf("sampler: total mesh area is zero (degenerate triangles)")
	}

	cumulative := make([]float64, len(areas))
	running := 0.0
	for i, a := range areas {
		running += a
		cumulative[i] = running
	}
	floats.Scale(1/running, cumulative)

	return &cumulativeAreaTable{triangles: triangles, cumulative: cumulative}, nil
}

// choose selects a triangle whose cumulative-area bucket contains r, a
// uniform random value in [0, 1).
func (tbl *cumulativeAreaTable) choose(r float64) *core.Triangle {
	idx := sort.Search(len(tbl.cumulative), func(i int) bool { return tbl.cumulative[i] > r })
	if idx >= len(tbl.triangles) {
		idx = len(tbl.triangles) - 1
	}
	return tbl.triangles[idx]
}

// samplePointOnTriangle draws a uniformly distributed point on tri's surface
// using the square-root barycentric correction, then offsets it along the
// triangle's normal.
func samplePointOnTriangle(tri *core.Triangle, rng *rand.Rand, offset float64) Point {
	r1 := rng.Float64()
	r2 := rng.Float64()

	sqrtR1 := math.Sqrt(r1)
	u := 1 - sqrtR1
	v := sqrtR1 * (1 - r2)
	w := sqrtR1 * r2

	point := tri.V0.Multiply(u).Add(tri.V1.Multiply(v)).Add(tri.V2.Multiply(w))
	if offset != 0 {
		point = point.Add(tri.Normal().Multiply(offset))
	}

	return Point{Position: point, Normal: tri.Normal()}
}

// pointsAreSimilar reports whether two sampled points are close enough in
// position and orientation that one should be pruned in favor of the other.
func pointsAreSimilar(a, b Point, distanceThreshold, normalThreshold float64) bool {
	if a.Position.Subtract(b.Position).Length() > distanceThreshold {
		return false
	}
	return a.Normal.Dot(b.Normal) >= normalThreshold
}

// Config controls measurement-point generation.
type Config struct {
	NumPoints                int
	DistanceThreshold        float64 // pruning drops later points within this distance that also have similar normals
	NormalSimilarityThreshold float64 // 0.9 ~= 25 degrees, 0.7 ~= 45 degrees
	OversampleFactor         int     // candidates generated per requested point
	SurfaceOffset            float64 // distance along the normal to lift points off the surface
}

// DefaultConfig returns the heuristic defaults used when a caller does not
// override them.
func DefaultConfig(numPoints int) Config {
	return Config{
		NumPoints:                 numPoints,
		DistanceThreshold:         1.0,
		NormalSimilarityThreshold: 0.9,
		OversampleFactor:          DefaultOversampleFactor,
		SurfaceOffset:             0.01,
	}
}

// GenerateMeasurementPoints produces a well-distributed set of measurement
// points on the mesh surface: area-weighted random sampling followed by
// grid-pruned deduplication of points that are both spatially close and
// similarly oriented. rng drives all randomness, so passing a seeded
// *rand.Rand makes the output reproducible.
func GenerateMeasurementPoints(triangles []*core.Triangle, cfg Config, rng *rand.Rand) ([]Point, error) {
	if cfg.NumPoints <= 0 {
		return nil, fmt.Errorf("sampler: NumPoints must be positive, got %d", cfg.NumPoints)
	}
	if cfg.DistanceThreshold <= 0 {
		return nil, fmt.Errorf("sampler: DistanceThreshold must be positive, got %f", cfg.DistanceThreshold)
	}
	if cfg.NormalSimilarityThreshold < 0 || cfg.NormalSimilarityThreshold > 1 {
		return nil, fmt.Errorf("sampler: NormalSimilarityThreshold must be in [0, 1], got %f", cfg.NormalSimilarityThreshold)
	}

	table, err := newCumulativeAreaTable(triangles)
	if err != nil {
		return nil, err
	}

	oversample := cfg.OversampleFactor
	if oversample <= 0 {
		oversample = DefaultOversampleFactor
	}
	maxAttempts := cfg.NumPoints * oversample

	candidates := make([]Point, maxAttempts)
	for i := range candidates {
		tri := table.choose(rng.Float64())
		candidates[i] = samplePointOnTriangle(tri, rng, cfg.SurfaceOffset)
	}

	cellSize := math.Max(cfg.DistanceThreshold, 0.1)
	grid := make(map[[3]int][]int)
	cellOf := func(p core.Vec3) [3]int {
		return [3]int{
			int(math.Floor(p.X / cellSize)),
			int(math.Floor(p.Y / cellSize)),
			int(math.Floor(p.Z / cellSize)),
		}
	}
	for i, c := range candidates {
		cell := cellOf(c.Position)
		grid[cell] = append(grid[cell], i)
	}

	used := make([]bool, len(candidates))
	result := make([]Point, 0, cfg.NumPoints)

	for i, c := range candidates {
		if used[i] {
			continue
		}
		result = append(result, c)
		used[i] = true

		cell := cellOf(c.Position)
		var nearby []int
		for dx := -pruneSearchRange; dx <= pruneSearchRange; dx++ {
			for dy := -pruneSearchRange; dy <= pruneSearchRange; dy++ {
				for dz := -pruneSearchRange; dz <= pruneSearchRange; dz++ {
					key := [3]int{cell[0] + dx, cell[1] + dy, cell[2] + dz}
					nearby = append(nearby, grid[key]...)
				}
			}
		}

		for _, j := range nearby {
			if j <= i || used[j] {
				continue
			}
			if pointsAreSimilar(c, candidates[j], cfg.DistanceThreshold, cfg.NormalSimilarityThreshold) {
				used[j] = true
			}
		}

		if len(result) >= cfg.NumPoints {
			break
		}
	}

	if len(result) > cfg.NumPoints {
		result = result[:cfg.NumPoints]
	}
	return result, nil
}
