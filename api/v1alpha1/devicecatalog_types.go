package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// DeviceCatalog records what a capture device reports it supports, one entry per parameter.
//
// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:scope=Namespaced,shortName=dcat
// +kubebuilder:printcolumn:name="Platform",type=string,JSONPath=`.spec.platform`
// +kubebuilder:printcolumn:name="Parameters",type=integer,JSONPath=`.status.parameterCount`
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`
type DeviceCatalog struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   DeviceCatalogSpec   `json:"spec"`
	Status DeviceCatalogStatus `json:"status,omitempty"`
}

type DeviceCatalogSpec struct {
	// Platform is the platform level the device reports, e.g. "28". Empty means unknown.
	Platform string `json:"platform,omitempty"`
	// Parameters lists capability entries. Parameters not listed are unavailable.
	Parameters []CapabilityEntry `json:"parameters,omitempty"`
}

// CapabilityEntry describes one parameter. Exactly one of Values, Range, Flag or
// Unavailable should be set.
type CapabilityEntry struct {
	Parameter string `json:"parameter"`
	// Values is a discrete set. Literals are parsed as bools, numbers, "[lo, hi]" intervals or enum names.
	Values []string `json:"values,omitempty"`
	// Range is a closed numeric interval.
	Range *RangeSpec `json:"range,omitempty"`
	// Flag is a presence indicator.
	Flag        *bool `json:"flag,omitempty"`
	Unavailable bool  `json:"unavailable,omitempty"`
	// Empty is a discrete set the hardware reports with no members.
	Empty bool `json:"empty,omitempty"`
}

// RangeSpec bounds are decimal strings to avoid floats in the API.
type RangeSpec struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

type DeviceCatalogStatus struct {
	ObservedGeneration int64              `json:"observedGeneration,omitempty"`
	ParameterCount     int32              `json:"parameterCount,omitempty"`
	Conditions         []metav1.Condition `json:"conditions,omitempty"`
}

// +kubebuilder:object:root=true
type DeviceCatalogList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []DeviceCatalog `json:"items"`
}

func init() {
	SchemeBuilder.Register(&DeviceCatalog{}, &DeviceCatalogList{})
}
