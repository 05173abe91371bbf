package photon

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/quanta-uv/uvsim/pkg/core"
	"github.com/quanta-uv/uvsim/pkg/lamp"
	"github.com/quanta-uv/uvsim/pkg/raytrace"
	"github.com/quanta-uv/uvsim/pkg/scene"
)

// Config controls forward photon tracing.
type Config struct {
	MaxBounces         int
	PhotonsPerLight    int
	KernelRadius       float64
	Epsilon            float64
	ClusteringDistance float64 // 0 disables clustering
	UseRussianRoulette bool
	RouletteThreshold  float64
	NumWorkers         int   // 0 uses runtime.NumCPU workers
	Deterministic      bool  // when true, Seed drives every worker's RNG
	Seed               int64 // base seed used when Deterministic is true
}

// DefaultConfig mirrors the reference implementation's tuning: a single
// bounce, 10000 photons per light, unit kernel radius, Russian roulette
// enabled below flux 0.01.
func DefaultConfig() Config {
	return Config{
		MaxBounces:         1,
		PhotonsPerLight:    10000,
		KernelRadius:       1.0,
		Epsilon:            1e-6,
		ClusteringDistance: 0.0,
		UseRussianRoulette: true,
		RouletteThreshold:  0.01,
		NumWorkers:         0,
		Deterministic:      false,
	}
}

// Tracer computes indirect (reflected) UV exposure at a set of measurement
// points by forward-tracing photons from each lamp through the scene mesh.
type Tracer struct {
	tracer *raytrace.Tracer
	lamps  *lamp.Table
	cfg    Config
}

// NewTracer builds a photon tracer over an existing raytrace.Tracer (which
// already indexes the mesh) and a lamp profile table.
func NewTracer(tracer *raytrace.Tracer, lamps *lamp.Table, cfg Config) *Tracer {
	return &Tracer{tracer: tracer, lamps: lamps, cfg: cfg}
}

// TraceIndirectExposure computes indirect exposure (photon flux deposited
// per unit kernel weight) at each of points, summed over all lights. The
// returned slice has one entry per input point, in the same order.
func (t *Tracer) TraceIndirectExposure(points []core.Vec3, lights []scene.Light) ([]float64, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("photon: no measurement points supplied")
	}

	centers := points
	var clusters []Cluster
	if t.cfg.ClusteringDistance > 0 {
		clusters = ClusterPoints(points, t.cfg.ClusteringDistance)
		centers = make([]core.Vec3, len(clusters))
		for i, c := range clusters {
			centers[i] = c.Center
		}
	}

	grid := newDepositionGrid(centers, t.cfg.KernelRadius)
	exposure := make([]float64, len(centers))

	for _, light := range lights {
		profile, err := t.lamps.Get(light.LampType)
		if err != nil {
			log.Printf("photon: unknown lamp type %q for light %q, falling back to unit angular factor", light.LampType, light.ID)
			profile = lamp.UnitProfile()
		}

		lightExposure, err := t.tracePhotonsForLight(light, profile, centers, grid)
		if err != nil {
			return nil, err
		}
		for i, v := range lightExposure {
			exposure[i] += v
		}
	}

	if clusters == nil {
		return exposure, nil
	}

	result := make([]float64, len(points))
	for clusterIdx, cluster := range clusters {
		for _, pointIdx := range cluster.PointIndices {
			result[pointIdx] = exposure[clusterIdx]
		}
	}
	return result, nil
}

// tracePhotonsForLight partitions this light's photon budget across workers,
// each with an independent *rand.Rand and a private exposure accumulator,
// and sums the accumulators once every worker has finished.
func (t *Tracer) tracePhotonsForLight(light scene.Light, profile *lamp.Profile, centers []core.Vec3, grid *depositionGrid) ([]float64, error) {
	numWorkers := t.cfg.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > t.cfg.PhotonsPerLight {
		numWorkers = t.cfg.PhotonsPerLight
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	powerPerPhoton := light.PowerW / float64(t.cfg.PhotonsPerLight)

	base := t.cfg.PhotonsPerLight / numWorkers
	remainder := t.cfg.PhotonsPerLight % numWorkers

	totals := make([][]float64, numWorkers)
	var wg sync.WaitGroup

	for w := 0; w < numWorkers; w++ {
		count := base
		if w < remainder {
			count++
		}

		seed := t.workerSeed(w)
		wg.Add(1)
		go func(workerIdx, photonCount int, seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			local := make([]float64, len(centers))

			for p := 0; p < photonCount; p++ {
				t.traceOnePhoton(light, profile, powerPerPhoton, centers, grid, local, rng)
			}
			totals[workerIdx] = local
		}(w, count, seed)
	}

	wg.Wait()

	combined := make([]float64, len(centers))
	for _, local := range totals {
		for i, v := range local {
			combined[i] += v
		}
	}
	return combined, nil
}

// workerSeed derives a per-worker seed. In deterministic mode this is a pure
// function of cfg.Seed and the worker index, so repeated runs with the same
// config reproduce identical results. Otherwise it is time-derived.
func (t *Tracer) workerSeed(workerIdx int) int64 {
	if t.cfg.Deterministic {
		return t.cfg.Seed + int64(workerIdx)*1_000_003
	}
	return time.Now().UnixNano() + int64(workerIdx)*1_000_003
}

// traceOnePhoton emits one photon from light within its forward cone and
// traces it through the scene, depositing flux into exposure as it bounces.
func (t *Tracer) traceOnePhoton(light scene.Light, profile *lamp.Profile, power float64, centers []core.Vec3, grid *depositionGrid, exposure []float64, rng *rand.Rand) {
	initialDirection := BiasedCone(light.Direction, 90.0, rng)
	t.traceFirstBounce(light, profile, initialDirection, power, centers, grid, exposure, rng)
}

// traceFirstBounce finds the photon's first surface hit. Per the
// first-hit-no-deposit rule, this bounce deposits nothing (the analytic
// direct-irradiance calculation already accounts for unobstructed light
// reaching a surface); only the reflected path that follows deposits flux.
func (t *Tracer) traceFirstBounce(light scene.Light, profile *lamp.Profile, direction core.Vec3, flux float64, centers []core.Vec3, grid *depositionGrid, exposure []float64, rng *rand.Rand) {
	hit := t.tracer.ClosestHit(light.Position, direction, 0)
	if !hit.Hit || hit.Triangle == nil {
		return
	}

	cosAngle := light.Direction.Dot(direction)
	cosAngle = math.Max(-1, math.Min(1, cosAngle))
	angleDeg := math.Acos(cosAngle) * 180.0 / math.Pi

	intensityAtAngle := profile.IntensityAt(angleDeg)
	forward := profile.ForwardIntensity
	multiplier := 1.0
	if forward > 0 {
		multiplier = intensityAtAngle / forward
	}

	angleAdjustedFlux := flux * multiplier
	rho := hit.Triangle.Reflectivity()
	reflectedFlux := angleAdjustedFlux * rho

	if reflectedFlux < t.cfg.Epsilon {
		return
	}

	newDirection := CosineWeightedHemisphere(hit.Triangle.Normal(), rng)
	newOrigin := hit.Point.Add(hit.Triangle.Normal().Multiply(1e-3))

	t.traceReflectedPhoton(newOrigin, newDirection, reflectedFlux, 1, centers, grid, exposure, rng)
}

// traceReflectedPhoton traces a photon that has already bounced once, now
// depositing flux at each subsequent hit via a linear-falloff kernel, until
// it escapes, exceeds max bounces, or is terminated by Russian roulette.
func (t *Tracer) traceReflectedPhoton(origin, direction core.Vec3, flux float64, bounce int, centers []core.Vec3, grid *depositionGrid, exposure []float64, rng *rand.Rand) {
	if bounce > t.cfg.MaxBounces {
		return
	}

	if t.cfg.UseRussianRoulette && flux < t.cfg.RouletteThreshold {
		survivalProb := flux / t.cfg.RouletteThreshold
		if rng.Float64() > survivalProb {
			return
		}
		flux /= survivalProb
	}

	if flux < t.cfg.Epsilon {
		return
	}

	hit := t.tracer.ClosestHit(origin, direction, 0)
	if !hit.Hit || hit.Triangle == nil {
		return
	}

	grid.depositFlux(hit.Point, flux, t.cfg.KernelRadius, exposure)

	rho := hit.Triangle.Reflectivity()
	newFlux := flux * rho
	if newFlux < t.cfg.Epsilon {
		return
	}

	if t.cfg.UseRussianRoulette && rho < 0.1 {
		if rng.Float64() > rho {
			return
		}
		newFlux /= rho
	}

	newDirection := CosineWeightedHemisphere(hit.Triangle.Normal(), rng)
	newOrigin := hit.Point.Add(hit.Triangle.Normal().Multiply(1e-3))

	t.traceReflectedPhoton(newOrigin, newDirection, newFlux, bounce+1, centers, grid, exposure, rng)
}
