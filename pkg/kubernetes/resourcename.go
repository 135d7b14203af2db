// Package kubernetes provides small, dependency-light helpers shared by
// every controller: typed names, standard label/annotation builders, owner
// stamping, subset comparison and condition merging, and the generic Api[R]
// sync engine.
package kubernetes

// ResourceName is a Kubernetes object name. It is a distinct type, rather
// than a bare string, so naming helpers can't be confused with arbitrary
// text at call boundaries.
type ResourceName string

// String returns the name as plain text.
func (n ResourceName) String() string { return string(n) }
