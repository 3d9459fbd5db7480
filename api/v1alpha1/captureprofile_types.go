package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// CaptureProfile resolves a DeviceCatalog into concrete capture settings.
//
// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:scope=Namespaced,shortName=cprof
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
// +kubebuilder:printcolumn:name="Catalog",type=string,JSONPath=`.spec.catalogRef.name`
// +kubebuilder:printcolumn:name="Resolved",type=integer,JSONPath=`.status.summary.resolved`
// +kubebuilder:printcolumn:name="Anomalous",type=integer,JSONPath=`.status.summary.anomalous`
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`
type CaptureProfile struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   CaptureProfileSpec   `json:"spec"`
	Status CaptureProfileStatus `json:"status,omitempty"`
}

type CaptureProfileSpec struct {
	CatalogRef ObjectRef `json:"catalogRef"`
	// PlatformOverride replaces the platform level reported by the catalog.
	PlatformOverride string        `json:"platformOverride,omitempty"`
	Policy           CapturePolicy `json:"policy,omitempty"`
	// RequestConfigMapName names the ConfigMap that receives resolved values.
	// Defaults to "<profile>-capture-request".
	RequestConfigMapName string `json:"requestConfigMapName,omitempty"`
}

type CapturePolicy struct {
	ForceControlModeAuto    bool `json:"forceControlModeAuto,omitempty"`
	ForceWorstConfiguration bool `json:"forceWorstConfiguration,omitempty"`
	// MaxFPS caps candidate fps ranges. Defaults to 30; 0 disables the cap.
	MaxFPS *int32 `json:"maxFPS,omitempty"`
	// MaxFPSDiff caps the width of candidate fps ranges. Defaults to 2; 0 disables the cap.
	MaxFPSDiff *int32 `json:"maxFPSDiff,omitempty"`
	// Quirks names hardware quirks to apply after resolution, in order.
	Quirks []string `json:"quirks,omitempty"`
}

type CaptureProfileStatus struct {
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`
	// CatalogRevision is the resourceVersion of the DeviceCatalog last resolved.
	CatalogRevision  string             `json:"catalogRevision,omitempty"`
	Phase            string             `json:"phase,omitempty"`
	Message          string             `json:"message,omitempty"`
	RunID            string             `json:"runId,omitempty"`
	LastResolvedTime *metav1.Time       `json:"lastResolvedTime,omitempty"`
	Summary          ResolutionSummary  `json:"summary,omitempty"`
	Settings         []SettingStatus    `json:"settings,omitempty"`
	Unresolved       []string           `json:"unresolved,omitempty"`
	Conditions       []metav1.Condition `json:"conditions,omitempty"`
}

type ResolutionSummary struct {
	Resolved      int32 `json:"resolved,omitempty"`
	Disabled      int32 `json:"disabled,omitempty"`
	NotSupported  int32 `json:"notSupported,omitempty"`
	NotApplicable int32 `json:"notApplicable,omitempty"`
	Anomalous     int32 `json:"anomalous,omitempty"`
	Fallbacks     int32 `json:"fallbacks,omitempty"`
}

type SettingStatus struct {
	Parameter string `json:"parameter"`
	Status    string `json:"status"`
	Value     string `json:"value,omitempty"`
	Rationale string `json:"rationale,omitempty"`
	Quirk     string `json:"quirk,omitempty"`
}

// +kubebuilder:object:root=true
type CaptureProfileList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []CaptureProfile `json:"items"`
}

func init() {
	SchemeBuilder.Register(&CaptureProfile{}, &CaptureProfileList{})
}
