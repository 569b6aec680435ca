package lights

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-lighttree/pkg/core"
)

// Lamp is an analytic light: point, spot, sun or background
type Lamp struct {
	Type      LightType
	Position  core.Vec3 // Point and spot lights
	Direction core.Vec3 // Direction light travels for spot and sun lights
	Radius    float32   // Point and spot lights, zero for a true point
	SpotAngle float32   // Half angle of the spot cone in radians
	SpotBlend float32   // Fraction of the cone that fades out, in [0, 1]
	Angle     float32   // Angular diameter of the sun disc in radians
	Strength  core.Vec3

	MaxBounces int           // Paths deeper than this no longer see the lamp
	Invisible  core.PathFlag // Ray types the lamp is hidden from
	Shader     int32
}

// IsDistant reports whether the lamp has no finite position
func (l *Lamp) IsDistant() bool {
	return l.Type.IsDistant()
}

// Bounds returns the box around the emitting sphere of a local lamp
func (l *Lamp) Bounds() core.AABB {
	return core.NewAABB(l.Position, l.Position).Expand(l.Radius)
}

// Orientation returns the emission cone of a local lamp
func (l *Lamp) Orientation() (axis core.Vec3, thetaO, thetaE float32) {
	if l.Type == LightTypeSpot {
		return l.Direction.Normalize(), l.SpotAngle, math32.Pi / 2
	}
	return core.NewVec3(0, 0, 1), math32.Pi, math32.Pi / 2
}

// Energy returns the emitted power used for importance estimation
func (l *Lamp) Energy() float32 {
	return l.Strength.Luminance()
}

// Sample samples the lamp as seen from point. It reports false when the lamp
// cannot contribute.
func (l *Lamp) Sample(u, v float32, point core.Vec3) (LightSample, bool) {
	switch l.Type {
	case LightTypePoint, LightTypeSpot:
		return l.sampleLocal(u, v, point)
	case LightTypeSun:
		return l.sampleSun(u, v)
	case LightTypeBackground:
		return l.sampleBackground(u, v)
	}
	return LightSample{}, false
}

// sampleLocal samples the disc of the lamp sphere facing point
func (l *Lamp) sampleLocal(u, v float32, point core.Vec3) (LightSample, bool) {
	toCenter := l.Position.Subtract(point).Normalize()
	if toCenter.IsZero() {
		return LightSample{}, false
	}

	samplePoint := l.Position
	invArea := float32(1)
	if l.Radius > 0 {
		a, b := core.OrthonormalBasis(toCenter)
		disk := core.SamplePointInUnitDisk(core.NewVec2(u, v))
		samplePoint = samplePoint.Add(a.Multiply(disk.X * l.Radius)).Add(b.Multiply(disk.Y * l.Radius))
		invArea = 1 / (math32.Pi * l.Radius * l.Radius)
	}

	toLight := samplePoint.Subtract(point)
	distance := toLight.Length()
	if distance == 0 {
		return LightSample{}, false
	}
	direction := toLight.Multiply(1 / distance)

	cosTheta := direction.Dot(toCenter)
	if cosTheta <= 0 {
		return LightSample{}, false
	}

	evalFac := invArea * 0.25 / math32.Pi
	if l.Type == LightTypeSpot {
		evalFac *= l.spotAttenuation(direction.Negate())
		if evalFac == 0 {
			return LightSample{}, false
		}
	}

	return LightSample{
		Point:     samplePoint,
		Normal:    toCenter.Negate(),
		Direction: direction,
		Distance:  distance,
		Emission:  l.Strength.Multiply(evalFac),
		PDF:       invArea * distance * distance / cosTheta,
		Type:      l.Type,
		Shader:    l.Shader,
		Object:    -1,
		Prim:      -1,
	}, true
}

// spotAttenuation returns the cone falloff toward outgoing direction dir
func (l *Lamp) spotAttenuation(dir core.Vec3) float32 {
	cosSpread := math32.Cos(l.SpotAngle)
	attenuation := dir.Dot(l.Direction.Normalize())
	if attenuation <= cosSpread {
		return 0
	}
	smooth := (1 - cosSpread) * l.SpotBlend
	if t := attenuation - cosSpread; t < smooth {
		attenuation *= core.SmoothStep(0, smooth, t)
	}
	return attenuation
}

func (l *Lamp) sampleSun(u, v float32) (LightSample, bool) {
	toSun := l.Direction.Normalize().Negate()
	if toSun.IsZero() {
		return LightSample{}, false
	}

	direction := toSun
	pdf := float32(1)
	emission := l.Strength
	if l.Angle > 0 {
		cosHalfAngle := math32.Cos(0.5 * l.Angle)
		direction = core.SampleCone(toSun, cosHalfAngle, core.NewVec2(u, v))
		pdf = 1 / (2 * math32.Pi * (1 - cosHalfAngle))
		// Radiance spreads the strength over the solid angle of the disc
		emission = emission.Multiply(pdf)
	}

	return LightSample{
		Point:     direction,
		Normal:    direction.Negate(),
		Direction: direction,
		Distance:  math32.Inf(1),
		Emission:  emission,
		PDF:       pdf,
		Type:      LightTypeSun,
		Shader:    l.Shader,
		Object:    -1,
		Prim:      -1,
	}, true
}

func (l *Lamp) sampleBackground(u, v float32) (LightSample, bool) {
	direction := core.SampleOnUnitSphere(core.NewVec2(u, v))
	return LightSample{
		Point:     direction,
		Normal:    direction.Negate(),
		Direction: direction,
		Distance:  math32.Inf(1),
		Emission:  l.Strength,
		PDF:       0.25 / math32.Pi,
		Type:      LightTypeBackground,
		Shader:    l.Shader,
		Object:    -1,
		Prim:      -1,
	}, true
}
