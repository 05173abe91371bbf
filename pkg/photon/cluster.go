package photon

import "github.com/quanta-uv/uvsim/pkg/core"

// Cluster groups the original point indices that were merged into a single
// deposition center, for distributing cluster exposure back to individual
// measurement points.
type Cluster struct {
	Center       core.Vec3
	PointIndices []int
}

// ClusterPoints greedily groups points closer together than distance into
// clusters, replacing dense point sets with a smaller number of
// representative centers before flux deposition. This reduces deposition
// work proportionally to cluster count rather than raw point count, at the
// cost of losing per-point resolution within a cluster.
func ClusterPoints(points []core.Vec3, distance float64) []Cluster {
	used := make([]bool, len(points))
	var clusters []Cluster

	for i, p := range points {
		if used[i] {
			continue
		}

		indices := []int{i}
		used[i] = true

		for j := i + 1; j < len(points); j++ {
			if used[j] {
				continue
			}
			if p.Subtract(points[j]).Length() < distance {
				indices = append(indices, j)
				used[j] = true
			}
		}

		center := core.NewVec3(0, 0, 0)
		for _, idx := range indices {
			center = center.Add(points[idx])
		}
		center = center.Multiply(1.0 / float64(len(indices)))

		clusters = append(clusters, Cluster{Center: center, PointIndices: indices})
	}

	return clusters
}
