package lighttree

import "errors"

var (
	ErrNoEmitters      = errors.New("lighttree: no emitters")
	ErrInvalidEmitter  = errors.New("lighttree: invalid emitter")
	ErrMalformedTree   = errors.New("lighttree: malformed tree")
	ErrInvalidLeafSize = errors.New("lighttree: max leaf size must be positive")
)
