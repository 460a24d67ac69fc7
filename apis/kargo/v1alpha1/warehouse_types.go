package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status

// Warehouse subscribes to artifact repositories and mints Freight when it
// observes new artifacts.
type Warehouse struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec WarehouseSpec `json:"spec,omitempty"`
}

// WarehouseSpec describes the repositories a Warehouse watches.
type WarehouseSpec struct {
	// Subscriptions is the ordered list of repositories the Warehouse
	// subscribes to.
	Subscriptions []RepoSubscription `json:"subscriptions,omitempty"`
}

// RepoSubscription is a subscription to a single repository of some kind.
// Exactly one member field is expected to be set.
type RepoSubscription struct {
	// Image is a subscription to a container image repository.
	Image *ImageSubscription `json:"image,omitempty"`
}

// ImageSubscription identifies a container image repository by URL.
type ImageSubscription struct {
	// RepoURL is the registry and repository path, without a tag or digest.
	RepoURL string `json:"repoURL"`
}

// SubscribesTo returns whether any subscription of the Warehouse references
// repoURL. Matching is exact string equality.
func (w *Warehouse) SubscribesTo(repoURL string) bool {
	for _, sub := range w.Spec.Subscriptions {
		if sub.Image != nil && sub.Image.RepoURL == repoURL {
			return true
		}
	}

	return false
}

// +kubebuilder:object:root=true

// WarehouseList contains a list of Warehouse.
type WarehouseList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Warehouse `json:"items"`
}

func init() {
	register(&Warehouse{}, &WarehouseList{})
}
