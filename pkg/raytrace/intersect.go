// Package raytrace tests rays against triangles and, combined with a spatial
// grid, answers occlusion and closest-hit queries over a mesh.
package raytrace

import "github.com/quanta-uv/uvsim/pkg/core"

// Epsilon guards against rays parallel to a triangle's plane and rejects
// intersections behind the ray origin.
const Epsilon = 1e-6

// EdgeTolerance widens the barycentric in-triangle test slightly so hits
// that land exactly on (or just outside) an edge are not spuriously missed.
const EdgeTolerance = 1e-4

// Hit describes the outcome of a single ray-triangle intersection test.
type Hit struct {
	Hit      bool
	Distance float64
	Point    core.Vec3
}

// Intersect tests ray against triangle using the Möller-Trumbore algorithm.
// It only reports a hit when the triangle's normal points away from the ray
// origin (normal · (centroid − origin) >= 0); a triangle whose normal points
// toward the origin never occludes or registers as a hit.
func Intersect(ray core.Ray, tri *core.Triangle) Hit {
	edge1 := tri.V1.Subtract(tri.V0)
	edge2 := tri.V2.Subtract(tri.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	if a > -Epsilon && a < Epsilon {
		return Hit{}
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(tri.V0)
	u := f * s.Dot(h)

	if u < -EdgeTolerance || u > 1.0+EdgeTolerance {
		return Hit{}
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)

	if v < -EdgeTolerance || u+v > 1.0+EdgeTolerance {
		return Hit{}
	}

	t := f * edge2.Dot(q)
	if t < Epsilon {
		return Hit{}
	}

	rayToSurface := tri.Center().Subtract(ray.Origin).Normalize()
	if tri.Normal().Dot(rayToSurface) < 0 {
		return Hit{}
	}

	return Hit{Hit: true, Distance: t, Point: ray.At(t)}
}
