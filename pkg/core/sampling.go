package core

import (
	"math/rand"

	"github.com/chewxy/math32"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float32
	Get2D() Vec2
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// Get1D returns a random float32 in [0, 1)
func (r *RandomSampler) Get1D() float32 {
	return r.random.Float32()
}

// Get2D returns two random float32 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float32(), r.random.Float32())
}

// PathState is a deterministic random number cursor for one path. Every
// value is a hash of (seed, sample, bounce, dimension), so two calls with
// the same cursor position always agree and paths never share state.
type PathState struct {
	Seed   uint32
	Sample uint32
	Bounce int

	dimension uint32
}

// NewPathState creates a cursor positioned at the first dimension of bounce 0
func NewPathState(seed, sample uint32) *PathState {
	return &PathState{Seed: seed, Sample: sample}
}

// Get1D returns the next uniform value in [0, 1) for the current bounce
func (p *PathState) Get1D() float32 {
	h := hash4(p.Seed, p.Sample, uint32(p.Bounce), p.dimension)
	p.dimension++
	return float32(h>>8) * (1.0 / (1 << 24))
}

// Get2D returns the next two uniform values for the current bounce
func (p *PathState) Get2D() Vec2 {
	x := p.Get1D()
	y := p.Get1D()
	return NewVec2(x, y)
}

// NextBounce advances the cursor to the first dimension of the next bounce
func (p *PathState) NextBounce() {
	p.Bounce++
	p.dimension = 0
}

// hash4 mixes four words with the lowbias32 finalizer
func hash4(a, b, c, d uint32) uint32 {
	h := mix32(a ^ 0x9e3779b9)
	h = mix32(h ^ b)
	h = mix32(h ^ c)
	return mix32(h ^ d)
}

func mix32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}

// SampleUniformTriangle maps two uniform numbers to barycentric coordinates
// (b0, b1) uniformly distributed over a triangle. The third weight is 1-b0-b1.
func SampleUniformTriangle(u, v float32) (float32, float32) {
	su := math32.Sqrt(u)
	return 1 - su, v * su
}

// SampleOnUnitSphere generates a uniform random direction on the unit sphere
func SampleOnUnitSphere(sample Vec2) Vec3 {
	z := 1 - 2*sample.X // z ∈ [-1, 1]
	r := math32.Sqrt(max(0, 1-z*z))
	phi := 2 * math32.Pi * sample.Y
	return NewVec3(r*math32.Cos(phi), r*math32.Sin(phi), z)
}

// SampleCone samples a direction uniformly within a cone
func SampleCone(direction Vec3, cosTotalWidth float32, sample Vec2) Vec3 {
	u, v := OrthonormalBasis(direction)

	// Sample direction within the cone
	cosTheta := 1 - sample.X*(1-cosTotalWidth)
	sinTheta := math32.Sqrt(max(0, 1-cosTheta*cosTheta))
	phi := 2 * math32.Pi * sample.Y

	return u.Multiply(sinTheta * math32.Cos(phi)).
		Add(v.Multiply(sinTheta * math32.Sin(phi))).
		Add(direction.Multiply(cosTheta))
}

// SamplePointInUnitDisk generates a random point in a unit disk using concentric mapping
// This avoids rejection sampling by mapping a square uniformly to a disk
func SamplePointInUnitDisk(sample Vec2) Vec2 {
	// Map sample to [-1,1]² and handle degeneracy at the origin
	ox, oy := 2*sample.X-1, 2*sample.Y-1
	if ox == 0 && oy == 0 {
		return Vec2{}
	}

	var theta, r float32
	if math32.Abs(ox) > math32.Abs(oy) {
		r = ox
		theta = math32.Pi / 4 * (oy / ox)
	} else {
		r = oy
		theta = math32.Pi/2 - math32.Pi/4*(ox/oy)
	}
	return NewVec2(r*math32.Cos(theta), r*math32.Sin(theta))
}

// OrthonormalBasis returns two unit vectors perpendicular to the unit vector w
// and to each other
func OrthonormalBasis(w Vec3) (Vec3, Vec3) {
	var a Vec3
	if math32.Abs(w.X) > 0.1 {
		a = NewVec3(0, 1, 0)
	} else {
		a = NewVec3(1, 0, 0)
	}
	u := a.Cross(w).Normalize()
	v := w.Cross(u)
	return u, v
}
