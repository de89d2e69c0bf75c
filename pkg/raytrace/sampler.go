package raytrace

import (
	"math"
	"math/rand"

	"github.com/taigrr/diorama/pkg/math3d"
)

// Sampler supplies uniform random numbers in [0, 1).
type Sampler interface {
	Get2D() math3d.Vec2
}

// RandomSampler wraps a standard Go random generator.
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from random.
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a deterministic sampler.
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() math3d.Vec2 {
	return math3d.V2(r.random.Float64(), r.random.Float64())
}

// UniformSphere maps u in [0,1)² to a direction uniformly distributed on
// the unit sphere.
func UniformSphere(u math3d.Vec2) math3d.Vec3 {
	theta := 2 * math.Pi * u.X
	z := 2*u.Y - 1
	r := math.Sqrt(math.Max(0, 1-z*z))
	return math3d.V3(r*math.Cos(theta), r*math.Sin(theta), z)
}
