package lights

import "github.com/df07/go-lighttree/pkg/core"

type LightType string

// Shader flag bits carried in LightSample.Shader above the shader id
const (
	ShaderUseMIS     int32 = 1 << 28
	ShaderCastShadow int32 = 1 << 29
)

const (
	LightTypeTriangle   LightType = "triangle"
	LightTypePoint      LightType = "point"
	LightTypeSpot       LightType = "spot"
	LightTypeSun        LightType = "sun"
	LightTypeBackground LightType = "background"
)

// IsDistant reports whether lights of this type have no finite position
func (t LightType) IsDistant() bool {
	return t == LightTypeSun || t == LightTypeBackground
}

// LightSample contains information about a sampled point on a light
type LightSample struct {
	Point     core.Vec3 // Point on the light source; the direction for distant lights
	Normal    core.Vec3 // Normal at the light sample point
	Direction core.Vec3 // Direction from shading point to light
	Distance  float32   // Distance to light, +Inf for distant lights
	Emission  core.Vec3 // Emitted radiance toward the shading point
	PDF       float32   // Solid angle density of this sample, including selection

	Type   LightType
	Shader int32 // Shader id with flag bits OR'ed in by the selector
	Object int   // Object of a mesh light, -1 for lamps
	Prim   int   // Triangle index of a mesh light, -1 for lamps
	Lamp   int   // Lamp index, -1 for mesh lights
}

// ShapeSampler turns a selected light into a concrete sample. It is the
// collaborator the light selection code delegates to once it has picked an
// emitter.
//
// mode tells whether p lies on a surface or inside a volume segment and time
// is the ray time. Both are passed through for samplers that model
// participating media or motion; Table models neither and samples the same
// way for every mode and time.
type ShapeSampler interface {
	// SampleTriangle samples a point on an emissive triangle as seen from p.
	// A returned PDF of zero means the sample is unusable.
	SampleTriangle(prim, object int, u, v, time float32, p core.Vec3, mode core.SegmentMode) LightSample

	// SampleLamp samples an analytic light as seen from p
	SampleLamp(lamp int, u, v float32, p core.Vec3, pathFlag core.PathFlag, mode core.SegmentMode) (LightSample, bool)
}
