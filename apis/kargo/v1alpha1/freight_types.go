package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// +kubebuilder:object:root=true

// Freight is an immutable record binding one or more observed artifacts to
// an opaque name. Freight is minted by the Kargo controller when a Warehouse
// observes a matching artifact; this tooling only searches for it.
type Freight struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	// Alias is a human-friendly alternate name assigned by the controller.
	Alias string `json:"alias,omitempty"`
	// Warehouse is the name of the Warehouse that minted this Freight.
	Warehouse string `json:"warehouse,omitempty"`
	// Images is the set of container images the Freight references.
	Images []Image `json:"images,omitempty"`
}

// Image identifies a pushed container image.
type Image struct {
	// RepoURL is the registry and repository path, without a tag or digest.
	RepoURL string `json:"repoURL"`
	// Tag is the image tag.
	Tag string `json:"tag,omitempty"`
	// Digest is the content digest, when the controller resolved one.
	Digest string `json:"digest,omitempty"`
}

// ReferencesImage returns whether the Freight references the image at
// repoURL with exactly tag. Both fields are compared by exact string
// equality; digests are intentionally ignored.
func (f *Freight) ReferencesImage(repoURL, tag string) bool {
	for _, img := range f.Images {
		if img.RepoURL == repoURL && img.Tag == tag {
			return true
		}
	}

	return false
}

// +kubebuilder:object:root=true

// FreightList contains a list of Freight.
type FreightList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Freight `json:"items"`
}

func init() {
	register(&Freight{}, &FreightList{})
}
