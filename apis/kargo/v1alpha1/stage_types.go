package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	// StageConditionReady indicates the Stage finished processing its
	// current Freight.
	StageConditionReady = "Ready"
	// StageConditionVerified indicates the Stage's current Freight passed
	// verification.
	StageConditionVerified = "Verified"

	// StageHealthStateHealthy is the health value reported by a Stage whose
	// workloads are all healthy.
	StageHealthStateHealthy = "Healthy"
)

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status

// Stage is a promotion target that consumes Freight and reports readiness,
// health and verification as it adopts it. Stages are provisioned
// out-of-band; this tooling only reads and waits on them.
type Stage struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Status StageStatus `json:"status,omitempty"`
}

// StageStatus is the observed state of a Stage as reported by the Kargo
// controller.
type StageStatus struct {
	// FreightSummary names the Freight the Stage currently serves. Empty
	// until a first promotion completed.
	FreightSummary string `json:"freightSummary,omitempty"`
	// Health is the aggregated health of the Stage's workloads.
	Health string `json:"health,omitempty"`
	// Conditions holds the latest observations of the Stage's state.
	Conditions []metav1.Condition `json:"conditions,omitempty"`
	// LastPromotion references the most recent promotion, if any.
	LastPromotion *PromotionReference `json:"lastPromotion,omitempty"`
}

// PromotionReference names a promotion and the Freight it carried.
type PromotionReference struct {
	// Name is the name of the promotion.
	Name string `json:"name,omitempty"`
	// FreightName is the name of the promoted Freight.
	FreightName string `json:"freightName,omitempty"`
}

// +kubebuilder:object:root=true

// StageList contains a list of Stage.
type StageList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Stage `json:"items"`
}

func init() {
	register(&Stage{}, &StageList{})
}
