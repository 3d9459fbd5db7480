package controllers

import (
	"context"
	"errors"
	"testing"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	"github.com/bayleafwalker/capture-core/api/v1alpha1"
	"github.com/bayleafwalker/capture-core/internal/capability"
	"github.com/bayleafwalker/capture-core/internal/capture"
)

func TestCatalogFromSpec_ConvertsEntries(t *testing.T) {
	cat, err := catalogFromSpec(backCameraCatalog().Spec, "")
	if err != nil {
		t.Fatalf("catalogFromSpec: %v", err)
	}
	if got := cat.Platform().String(); got != "28" {
		t.Fatalf("platform = %q", got)
	}
	if d := cat.Lookup(capture.ControlMode); d.Kind != capability.DiscreteSet || !d.Contains(capability.Enum("OFF")) {
		t.Fatalf("control-mode = %+v", d)
	}
	if d := cat.Lookup(capture.AEExposureCompensation); d.Kind != capability.Range || d.Bounds != (capability.Interval{Lower: -12, Upper: 12}) {
		t.Fatalf("exposure compensation = %+v", d)
	}
	if d := cat.Lookup(capture.FlashMode); d.Kind != capability.Flag || !d.Present {
		t.Fatalf("flash-mode = %+v", d)
	}
	if d := cat.Lookup(capture.EdgeMode); d.Available() {
		t.Fatalf("edge-mode should be unavailable, got %+v", d)
	}
}

func TestCatalogFromSpec_PlatformOverride(t *testing.T) {
	cat, err := catalogFromSpec(backCameraCatalog().Spec, "21")
	if err != nil {
		t.Fatalf("catalogFromSpec: %v", err)
	}
	if got := cat.Platform().String(); got != "21" {
		t.Fatalf("platform = %q", got)
	}
}

func TestCatalogFromSpec_ParsesIntervalLiterals(t *testing.T) {
	spec := v1alpha1.DeviceCatalogSpec{Parameters: []v1alpha1.CapabilityEntry{
		{Parameter: string(capture.AETargetFPSRange), Values: []string{"[15, 30]", "[30, 30]"}},
	}}
	cat, err := catalogFromSpec(spec, "")
	if err != nil {
		t.Fatalf("catalogFromSpec: %v", err)
	}
	if cat.Platform().Known() {
		t.Fatalf("empty platform should stay unknown")
	}
	if d := cat.Lookup(capture.AETargetFPSRange); !d.Contains(capability.Span(15, 30)) {
		t.Fatalf("fps ranges = %+v", d)
	}
}

func TestCatalogFromSpec_KeepsMalformedDescriptors(t *testing.T) {
	spec := v1alpha1.DeviceCatalogSpec{Parameters: []v1alpha1.CapabilityEntry{
		{Parameter: string(capture.SensorSensitivity), Range: &v1alpha1.RangeSpec{Min: "3200", Max: "100"}},
		{Parameter: string(capture.EdgeMode), Empty: true},
	}}
	cat, err := catalogFromSpec(spec, "")
	if err != nil {
		t.Fatalf("catalogFromSpec: %v", err)
	}
	if d := cat.Lookup(capture.SensorSensitivity); d.Kind != capability.Range || d.Bounds != (capability.Interval{Lower: 3200, Upper: 100}) {
		t.Fatalf("sensor-sensitivity = %+v", d)
	}
	if d := cat.Lookup(capture.EdgeMode); d.Kind != capability.DiscreteSet || len(d.Values) != 0 {
		t.Fatalf("edge-mode = %+v", d)
	}
}

func TestCatalogFromSpec_Rejects(t *testing.T) {
	cases := map[string]v1alpha1.DeviceCatalogSpec{
		"bad platform": {Platform: "not-a-level"},
		"no name":      {Parameters: []v1alpha1.CapabilityEntry{{Values: []string{"OFF"}}}},
		"duplicate": {Parameters: []v1alpha1.CapabilityEntry{
			{Parameter: "awb-mode", Values: []string{"OFF"}},
			{Parameter: "awb-mode", Values: []string{"AUTO"}},
		}},
		"no shape":         {Parameters: []v1alpha1.CapabilityEntry{{Parameter: "awb-mode"}}},
		"two shapes":       {Parameters: []v1alpha1.CapabilityEntry{{Parameter: "awb-mode", Values: []string{"OFF"}, Unavailable: true}}},
		"bad bound":        {Parameters: []v1alpha1.CapabilityEntry{{Parameter: "sensor-sensitivity", Range: &v1alpha1.RangeSpec{Min: "low", Max: "100"}}}},
		"empty and values": {Parameters: []v1alpha1.CapabilityEntry{{Parameter: "edge-mode", Values: []string{"OFF"}, Empty: true}}},
	}
	for name, spec := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := catalogFromSpec(spec, "")
			if !errors.Is(err, capability.ErrInvalidDocument) {
				t.Fatalf("expected ErrInvalidDocument, got %v", err)
			}
		})
	}
}

func TestOptionsFromPolicy(t *testing.T) {
	if got := optionsFromPolicy(v1alpha1.CapturePolicy{}); got.MaxFPS != 30 || got.MaxFPSDiff != 2 {
		t.Fatalf("defaults not applied: %+v", got)
	}

	zero, sixty := int32(0), int32(60)
	got := optionsFromPolicy(v1alpha1.CapturePolicy{
		ForceWorstConfiguration: true,
		MaxFPS:                  &sixty,
		MaxFPSDiff:              &zero,
		Quirks:                  []string{capture.QuirkPreviewCaptureIntent},
	})
	if !got.ForceWorstConfiguration || got.MaxFPS != 60 || got.MaxFPSDiff != 0 {
		t.Fatalf("policy not applied: %+v", got)
	}
	if len(got.Quirks) != 1 || got.Quirks[0] != capture.QuirkPreviewCaptureIntent {
		t.Fatalf("quirks = %v", got.Quirks)
	}
}

func TestDeviceCatalogReconcile_ReportsValidity(t *testing.T) {
	ctx := context.Background()
	scheme := newScheme(t)

	good := backCameraCatalog()
	bad := backCameraCatalog()
	bad.Name = "broken"
	bad.Spec.Parameters = append(bad.Spec.Parameters, v1alpha1.CapabilityEntry{Parameter: "awb-mode"})

	c := fake.NewClientBuilder().
		WithScheme(scheme).
		WithObjects(good, bad).
		WithStatusSubresource(&v1alpha1.DeviceCatalog{}).
		Build()
	r := &DeviceCatalogReconciler{Client: c, Scheme: scheme}

	for _, tc := range []struct {
		name   string
		status metav1.ConditionStatus
		count  int32
	}{
		{name: good.Name, status: metav1.ConditionTrue, count: int32(len(good.Spec.Parameters))},
		{name: bad.Name, status: metav1.ConditionFalse, count: int32(len(bad.Spec.Parameters))},
	} {
		key := types.NamespacedName{Namespace: testNamespace, Name: tc.name}
		if _, err := r.Reconcile(ctx, ctrl.Request{NamespacedName: key}); err != nil {
			t.Fatalf("Reconcile %s: %v", tc.name, err)
		}
		var got v1alpha1.DeviceCatalog
		if err := c.Get(ctx, key, &got); err != nil {
			t.Fatalf("get %s: %v", tc.name, err)
		}
		cond := meta.FindStatusCondition(got.Status.Conditions, CatalogConditionValid)
		if cond == nil || cond.Status != tc.status {
			t.Fatalf("%s: Valid = %+v", tc.name, cond)
		}
		if got.Status.ParameterCount != tc.count {
			t.Fatalf("%s: parameterCount = %d want %d", tc.name, got.Status.ParameterCount, tc.count)
		}
	}
}
