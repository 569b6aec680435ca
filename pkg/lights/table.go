package lights

import "github.com/df07/go-lighttree/pkg/core"

// Table holds every emissive triangle and lamp of a scene and samples them
// by index. It is read-only once built and safe for concurrent use.
type Table struct {
	Triangles []Triangle
	Lamps     []Lamp
}

// SampleTriangle implements ShapeSampler. Triangles are static, so time and
// mode do not change the sample.
func (t *Table) SampleTriangle(prim, object int, u, v, time float32, p core.Vec3, mode core.SegmentMode) LightSample {
	if prim < 0 || prim >= len(t.Triangles) {
		return LightSample{Object: object, Prim: prim, Lamp: -1}
	}
	ls := t.Triangles[prim].Sample(u, v, p)
	ls.Prim = prim
	ls.Object = object
	return ls
}

// SampleLamp implements ShapeSampler. Lamps emit the same into volume
// segments as onto surfaces, so mode does not change the sample.
func (t *Table) SampleLamp(lamp int, u, v float32, p core.Vec3, pathFlag core.PathFlag, mode core.SegmentMode) (LightSample, bool) {
	if lamp < 0 || lamp >= len(t.Lamps) {
		return LightSample{}, false
	}
	l := &t.Lamps[lamp]
	if l.Invisible != 0 && pathFlag&l.Invisible != 0 {
		return LightSample{}, false
	}
	ls, ok := l.Sample(u, v, p)
	ls.Lamp = lamp
	return ls, ok
}
