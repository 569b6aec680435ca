package lights

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-lighttree/pkg/core"
)

// downTriangle faces -Z, toward a receiver at the origin
func downTriangle(doubleSided bool) Triangle {
	return Triangle{
		V0:          core.NewVec3(0, 0, 5),
		V1:          core.NewVec3(0, 1, 5),
		V2:          core.NewVec3(1, 0, 5),
		Object:      3,
		Shader:      2,
		Emission:    core.NewVec3(4, 4, 4),
		DoubleSided: doubleSided,
	}
}

func TestTriangle_Geometry(t *testing.T) {
	tri := downTriangle(false)
	assert.InDelta(t, 0.5, tri.Area(), 1e-6)
	assert.Equal(t, core.NewVec3(0, 0, -1), tri.Normal())
	assert.Equal(t, core.NewAABB(core.NewVec3(0, 0, 5), core.NewVec3(1, 1, 5)), tri.Bounds())
	assert.InDelta(t, 2, tri.Energy(), 1e-5)

	axis, thetaO, thetaE := tri.Orientation()
	assert.Equal(t, tri.Normal(), axis)
	assert.Zero(t, thetaO)
	assert.Equal(t, math32.Pi/2, thetaE)

	double := downTriangle(true)
	_, thetaO, _ = double.Orientation()
	assert.Equal(t, math32.Pi, thetaO)
	assert.InDelta(t, 4, double.Energy(), 1e-5)
}

func TestTriangle_SamplePDF(t *testing.T) {
	tri := downTriangle(false)
	random := rand.New(rand.NewSource(42))

	for i := 0; i < 100; i++ {
		ls := tri.Sample(random.Float32(), random.Float32(), core.NewVec3(0, 0, 0))
		require.Greater(t, ls.PDF, float32(0))

		distance := ls.Point.Length()
		cosTheta := 5 / distance
		assert.InEpsilon(t, distance*distance/(cosTheta*0.5), ls.PDF, 1e-4)
		assert.InDelta(t, distance, ls.Distance, 1e-5)
		assert.InDelta(t, 5, ls.Point.Z, 1e-5)
		assert.Equal(t, tri.Emission, ls.Emission)
		assert.Equal(t, LightTypeTriangle, ls.Type)
		assert.Equal(t, 3, ls.Object)
		assert.Equal(t, int32(2), ls.Shader)
	}
}

func TestTriangle_SolidAngleEstimate(t *testing.T) {
	// E[1/pdf] is the solid angle subtended by the triangle
	tri := downTriangle(false)
	random := rand.New(rand.NewSource(7))
	const n = 20000
	var sum float64
	for i := 0; i < n; i++ {
		ls := tri.Sample(random.Float32(), random.Float32(), core.NewVec3(0, 0, 0))
		sum += 1 / float64(ls.PDF)
	}
	// A half unit of area five units away, seen almost head on
	assert.InDelta(t, 0.5/25.0, sum/n, 0.001)
}

func TestTriangle_BackFace(t *testing.T) {
	below := core.NewVec3(0.2, 0.2, 10)

	single := downTriangle(false)
	ls := single.Sample(0.3, 0.3, below)
	assert.Zero(t, ls.PDF)

	double := downTriangle(true)
	ls = double.Sample(0.3, 0.3, below)
	assert.Greater(t, ls.PDF, float32(0))
	assert.Equal(t, core.NewVec3(0, 0, 1), ls.Normal)
}

func TestTriangle_Degenerate(t *testing.T) {
	tri := Triangle{V0: core.NewVec3(0, 0, 1), V1: core.NewVec3(1, 0, 1), V2: core.NewVec3(2, 0, 1)}
	ls := tri.Sample(0.5, 0.5, core.NewVec3(0, 0, 0))
	assert.Zero(t, ls.PDF)
}
