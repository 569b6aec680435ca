//go:build !lighttree_debug

package lighttree

const debugAssertions = false
