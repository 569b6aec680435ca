package lighttree

import "fmt"

// violation records a broken invariant of the precomputed light data. Builds
// with the lighttree_debug tag panic; others log and let the caller fail the
// sample.
func (s *Sampler) violation(format string, args ...interface{}) {
	n := s.violations.Add(1)
	msg := fmt.Sprintf(format, args...)
	if debugAssertions {
		panic("lighttree: " + msg)
	}
	// Only the first few are logged, a corrupt tree fails on every call
	if n <= maxLoggedViolations {
		s.logger.Warningf("invariant violation: %s", msg)
	}
}

const maxLoggedViolations = 8
