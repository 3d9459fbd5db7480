package controllers

import (
	"fmt"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	capturev1alpha1 "github.com/bayleafwalker/capture-core/api/v1alpha1"
)

const (
	ProfileConditionCatalogReady = "CatalogReady"
	ProfileConditionResolved     = "Resolved"
	ProfileConditionDegraded     = "Degraded"

	CatalogConditionValid = "Valid"
)

func setProfileCondition(profile *capturev1alpha1.CaptureProfile, condition metav1.Condition) {
	if profile == nil {
		return
	}
	condition.ObservedGeneration = profile.Generation
	meta.SetStatusCondition(&profile.Status.Conditions, condition)
}

func setCatalogCondition(cat *capturev1alpha1.DeviceCatalog, condition metav1.Condition) {
	if cat == nil {
		return
	}
	condition.ObservedGeneration = cat.Generation
	meta.SetStatusCondition(&cat.Status.Conditions, condition)
}

func resolvedMessage(resolved, total int) string {
	if total <= 0 {
		return "No parameters declared"
	}
	return fmt.Sprintf("%d/%d parameters resolved", resolved, total)
}
