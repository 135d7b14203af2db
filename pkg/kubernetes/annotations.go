package kubernetes

// Annotation is anything that contributes a single (key, value) annotation
// tuple to a child object, such as a content hash of generated config. The
// tor.Torrc/OBConfig/ConfigYaml types implement this via AnnotationTuple.
type Annotation interface {
	AnnotationTuple() (string, string)
}

// Annotations accumulates annotation tuples into a plain map, mirroring the
// original implementation's Annotations::add/add_opt chain.
type Annotations map[string]string

// NewAnnotations returns an empty annotation set.
func NewAnnotations() Annotations {
	return Annotations{}
}

// Add inserts the tuple contributed by annotation and returns the receiver
// for chaining.
func (a Annotations) Add(annotation Annotation) Annotations {
	key, value := annotation.AnnotationTuple()
	a[key] = value
	return a
}

// AddOpt inserts the tuple contributed by annotation if it is non-nil.
func (a Annotations) AddOpt(annotation Annotation) Annotations {
	if annotation == nil {
		return a
	}
	return a.Add(annotation)
}

// Map returns the annotations as a plain map, suitable for ObjectMeta.Annotations.
func (a Annotations) Map() map[string]string { return map[string]string(a) }
