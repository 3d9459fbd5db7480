package controllers

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	captureControllerReconcileTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capture_controller_reconcile_total",
			Help: "Number of reconciliations by controller.",
		},
		[]string{"controller"},
	)
	captureControllerReconcileErrorTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capture_controller_reconcile_error_total",
			Help: "Number of reconciliation errors by controller.",
		},
		[]string{"controller"},
	)

	captureProfileSettings = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "capture_profile_settings",
			Help: "Number of settings per status observed in the last CaptureProfile resolution.",
		},
		[]string{"status"},
	)

	captureProfileAnomaliesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "capture_profile_anomalies_total",
			Help: "Total number of anomalous settings produced by CaptureProfile resolutions.",
		},
	)
	captureProfileFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "capture_profile_fallbacks_total",
			Help: "Total number of settings resolved through a fallback.",
		},
	)
	captureRequestConfigMapWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capture_request_configmap_writes_total",
			Help: "Capture request ConfigMap writes by operation.",
		},
		[]string{"op"},
	)

	captureProfileResolutionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "capture_profile_resolution_duration_seconds",
			Help:    "Time taken to resolve a capture profile.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	metrics.Registry.MustRegister(
		captureControllerReconcileTotal,
		captureControllerReconcileErrorTotal,
		captureProfileSettings,
		captureProfileAnomaliesTotal,
		captureProfileFallbacksTotal,
		captureRequestConfigMapWritesTotal,
		captureProfileResolutionDuration,
	)
}
