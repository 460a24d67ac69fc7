package v1alpha1

const (
	// AnnotationKeyRefresh can be set on a Warehouse or Stage to request a
	// reconciliation by the Kargo controller. The controller treats the value
	// as an opaque token and reacts to value changes, so every write must
	// carry a fresh value.
	AnnotationKeyRefresh = "kargo.akuity.io/refresh"
)
