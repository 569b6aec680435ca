package scene

import "errors"

var (
	ErrUnknownFormat    = errors.New("scene: unknown description format")
	ErrUnknownLightType = errors.New("scene: unknown light type")
	ErrInvalidMesh      = errors.New("scene: invalid mesh")
	ErrInvalidPLY       = errors.New("scene: invalid PLY data")
)
