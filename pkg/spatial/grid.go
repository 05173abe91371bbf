// Package spatial implements a uniform grid over triangles, used to
// accelerate ray queries by visiting only the cells a ray actually pierces.
package spatial

import (
	"math"

	"github.com/quanta-uv/uvsim/pkg/core"
)

// MinCellSize and MaxCellSize bound the default cell-size heuristic.
const (
	MinCellSize = 0.1
	MaxCellSize = 100.0

	defaultCellSizeFactor = 2.5
)

type cellKey struct {
	X, Y, Z int
}

// Grid buckets triangles by the axis-aligned cells their bounding boxes
// touch, and supports a 3D-DDA walk along a ray to find candidate triangles
// without testing every triangle in the scene.
type Grid struct {
	cellSize  float64
	cells     map[cellKey][]*core.Triangle
	triangles []*core.Triangle
}

// DefaultCellSize computes the cell-size heuristic: 2.5x the mean of all
// triangle AABB diagonals, clamped to [MinCellSize, MaxCellSize].
func DefaultCellSize(triangles []*core.Triangle) float64 {
	if len(triangles) == 0 {
		return MinCellSize
	}

	var total float64
	for _, tri := range triangles {
		size := tri.BoundingBox().Size()
		total += math.Sqrt(size.X*size.X + size.Y*size.Y + size.Z*size.Z)
	}

	avg := total / float64(len(triangles))
	cellSize := avg * defaultCellSizeFactor

	return math.Max(MinCellSize, math.Min(cellSize, MaxCellSize))
}

// NewGrid builds a grid over triangles. A cellSize <= 0 triggers the default
// heuristic from DefaultCellSize.
func NewGrid(triangles []*core.Triangle, cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = DefaultCellSize(triangles)
	}

	g := &Grid{
		cellSize:  cellSize,
		cells:     make(map[cellKey][]*core.Triangle),
		triangles: triangles,
	}
	g.build()
	return g
}

// CellSize returns the grid's cell edge length.
func (g *Grid) CellSize() float64 {
	return g.cellSize
}

func (g *Grid) cellOf(p core.Vec3) cellKey {
	return cellKey{
		X: int(math.Floor(p.X / g.cellSize)),
		Y: int(math.Floor(p.Y / g.cellSize)),
		Z: int(math.Floor(p.Z / g.cellSize)),
	}
}

func (g *Grid) build() {
	for _, tri := range g.triangles {
		bbox := tri.BoundingBox()
		minCell := g.cellOf(bbox.Min)
		maxCell := g.cellOf(bbox.Max)

		for x := minCell.X; x <= maxCell.X; x++ {
			for y := minCell.Y; y <= maxCell.Y; y++ {
				for z := minCell.Z; z <= maxCell.Z; z++ {
					key := cellKey{x, y, z}
					g.cells[key] = append(g.cells[key], tri)
				}
			}
		}
	}
}

// Cell returns the triangles stored in a specific integer cell coordinate,
// primarily useful for tests asserting grid completeness.
func (g *Grid) Cell(x, y, z int) []*core.Triangle {
	return g.cells[cellKey{x, y, z}]
}

// CellOf exposes the cell a position falls in, for tests.
func (g *Grid) CellOf(p core.Vec3) (x, y, z int) {
	c := g.cellOf(p)
	return c.X, c.Y, c.Z
}

// TrianglesAlongRay performs a 3D-DDA walk starting at the cell containing
// ray.Origin, visiting each cell the ray pierces within [0, maxT] at most
// once, and returns the deduplicated union of triangles found in those
// cells.
func (g *Grid) TrianglesAlongRay(ray core.Ray, maxT float64) []*core.Triangle {
	dir := ray.Direction
	current := g.cellOf(ray.Origin)

	stepX, tMaxX, tDeltaX := g.axisStep(ray.Origin.X, dir.X, current.X)
	stepY, tMaxY, tDeltaY := g.axisStep(ray.Origin.Y, dir.Y, current.Y)
	stepZ, tMaxZ, tDeltaZ := g.axisStep(ray.Origin.Z, dir.Z, current.Z)

	seen := make(map[cellKey]bool)
	found := make(map[*core.Triangle]bool)

	addCell := func(c cellKey) {
		if seen[c] {
			return
		}
		seen[c] = true
		for _, tri := range g.cells[c] {
			found[tri] = true
		}
	}

	addCell(current)

	t := 0.0
	for t < maxT {
		switch {
		case tMaxX < tMaxY && tMaxX < tMaxZ:
			t = tMaxX
			if t >= maxT {
				goto done
			}
			current.X += stepX
			tMaxX += tDeltaX
		case tMaxY < tMaxZ:
			t = tMaxY
			if t >= maxT {
				goto done
			}
			current.Y += stepY
			tMaxY += tDeltaY
		default:
			t = tMaxZ
			if t >= maxT {
				goto done
			}
			current.Z += stepZ
			tMaxZ += tDeltaZ
		}
		addCell(current)
	}

done:
	result := make([]*core.Triangle, 0, len(found))
	for tri := range found {
		result = append(result, tri)
	}
	return result
}

// axisStep computes the DDA step direction, initial tMax, and tDelta for one
// axis. An axis with zero direction contributes +Inf for both, so it never
// drives the next step.
func (g *Grid) axisStep(origin, direction float64, startCell int) (step int, tMax, tDelta float64) {
	if direction == 0 {
		return 0, math.Inf(1), math.Inf(1)
	}

	if direction > 0 {
		step = 1
		boundary := g.cellSize * float64(startCell+1)
		tMax = (boundary - origin) / direction
	} else {
		step = -1
		boundary := g.cellSize * float64(startCell)
		tMax = (boundary - origin) / direction
	}
	tDelta = g.cellSize / math.Abs(direction)
	return step, tMax, tDelta
}
