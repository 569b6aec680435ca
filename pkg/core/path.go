package core

// PathFlag carries per-path ray state bits
type PathFlag uint32

const (
	PathRayCamera PathFlag = 1 << iota
	PathRayReflect
	PathRayTransmit
	PathRayVolumeScatter
	// PathRayShadowCatcherPass marks the path as rendering the shadow catcher pass
	PathRayShadowCatcherPass
)

// Has reports whether all bits of flag are set
func (f PathFlag) Has(flag PathFlag) bool {
	return f&flag == flag
}

// ObjectFlag carries per-object state bits
type ObjectFlag uint32

const (
	// ObjectShadowCatcher marks an object that participates in the shadow catcher pass
	ObjectShadowCatcher ObjectFlag = 1 << iota
	ObjectHidden
)

// Has reports whether all bits of flag are set
func (f ObjectFlag) Has(flag ObjectFlag) bool {
	return f&flag == flag
}

// SegmentMode selects whether a light is sampled from a surface point or for
// a whole volume segment.
type SegmentMode int

const (
	SegmentSurface SegmentMode = iota
	SegmentVolume
)

func (m SegmentMode) String() string {
	switch m {
	case SegmentSurface:
		return "surface"
	case SegmentVolume:
		return "volume-segment"
	default:
		return "unknown"
	}
}
