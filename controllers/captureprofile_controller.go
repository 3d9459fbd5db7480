package controllers

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/equality"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/controller-runtime/pkg/handler"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"

	capturev1alpha1 "github.com/bayleafwalker/capture-core/api/v1alpha1"
	"github.com/bayleafwalker/capture-core/internal/capture"
	"github.com/bayleafwalker/capture-core/internal/resolution"
	"github.com/bayleafwalker/capture-core/internal/resolver"
	"github.com/bayleafwalker/capture-core/internal/sink"
)

const (
	labelManagedBy   = "capture.platform/managed-by"
	labelProfileName = "capture.platform/profile"
	labelCatalogName = "capture.platform/catalog"

	annotationCatalogRevision = "capture.platform/catalog-revision"

	managedByCaptureProfile = "captureprofile"

	indexCatalogRef = ".spec.catalogRef.name"
)

var (
	reNonDNS = regexp.MustCompile(`[^a-z0-9-]+`)
)

// CaptureProfileReconciler resolves CaptureProfiles against their DeviceCatalog and
// writes the resolved values into an owned ConfigMap.
//
// RBAC:
// +kubebuilder:rbac:groups=capture.platform,resources=devicecatalogs,verbs=get;list;watch
// +kubebuilder:rbac:groups=capture.platform,resources=captureprofiles,verbs=get;list;watch
// +kubebuilder:rbac:groups=capture.platform,resources=captureprofiles/status,verbs=get;update;patch
// +kubebuilder:rbac:groups="",resources=configmaps,verbs=get;list;watch;create;update;patch
// +kubebuilder:rbac:groups="",resources=events,verbs=create;patch;update
type CaptureProfileReconciler struct {
	client.Client
	Scheme   *runtime.Scheme
	Resolver resolver.Resolver
	Recorder record.EventRecorder
}

func (r *CaptureProfileReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	captureControllerReconcileTotal.WithLabelValues("CaptureProfile").Inc()

	logger := log.FromContext(ctx).WithValues(
		"controller", "CaptureProfile",
		"namespace", req.Namespace,
		"profile", req.Name,
	)

	// 1) Load CaptureProfile
	var profile capturev1alpha1.CaptureProfile
	if err := r.Get(ctx, req.NamespacedName, &profile); err != nil {
		if client.IgnoreNotFound(err) == nil {
			return ctrl.Result{}, nil
		}
		captureControllerReconcileErrorTotal.WithLabelValues("CaptureProfile").Inc()
		return ctrl.Result{}, err
	}
	logger = logger.WithValues("catalog", profile.Spec.CatalogRef.Name)

	if r.Resolver == nil {
		r.Resolver = resolver.NewDefault()
	}

	// 2) Load referenced DeviceCatalog
	var cat capturev1alpha1.DeviceCatalog
	if err := r.Get(ctx, types.NamespacedName{Namespace: req.Namespace, Name: profile.Spec.CatalogRef.Name}, &cat); err != nil {
		if apierrors.IsNotFound(err) {
			msg := fmt.Sprintf("DeviceCatalog %q not found", profile.Spec.CatalogRef.Name)
			if perr := r.patchProfileStatus(ctx, &profile, capturev1alpha1.PhasePending, msg,
				metav1.Condition{
					Type:    ProfileConditionCatalogReady,
					Status:  metav1.ConditionFalse,
					Reason:  "CatalogNotFound",
					Message: msg,
				},
				metav1.Condition{
					Type:    ProfileConditionResolved,
					Status:  metav1.ConditionFalse,
					Reason:  "CatalogNotReady",
					Message: "Cannot resolve settings until the catalog exists",
				},
			); perr != nil {
				logger.Error(perr, "failed to patch profile status")
			}
			logger.Info("device catalog not found; waiting")
			r.recordEventf(&profile, "Warning", "CatalogNotFound", "%s", msg)
			return ctrl.Result{}, nil
		}
		logger.Error(err, "failed to load device catalog")
		captureControllerReconcileErrorTotal.WithLabelValues("CaptureProfile").Inc()
		return ctrl.Result{}, err
	}

	// 3) Convert the catalog
	catalog, err := catalogFromSpec(cat.Spec, profile.Spec.PlatformOverride)
	if err != nil {
		msg := fmt.Sprintf("InvalidCatalog: %v", err)
		if perr := r.patchProfileStatus(ctx, &profile, capturev1alpha1.PhaseError, msg,
			metav1.Condition{
				Type:    ProfileConditionCatalogReady,
				Status:  metav1.ConditionFalse,
				Reason:  "InvalidCatalog",
				Message: err.Error(),
			},
			metav1.Condition{
				Type:    ProfileConditionResolved,
				Status:  metav1.ConditionFalse,
				Reason:  "CatalogNotReady",
				Message: "Cannot resolve settings from an invalid catalog",
			},
		); perr != nil {
			logger.Error(perr, "failed to patch profile status")
		}
		r.recordEventf(&profile, "Warning", "InvalidCatalog", "%v", err)
		return ctrl.Result{}, nil
	}

	// 4) Resolve
	opts := optionsFromPolicy(profile.Spec.Policy)
	start := time.Now()
	plan, err := r.Resolver.Resolve(ctx, resolver.Input{
		Device:  profile.Name,
		Catalog: catalog,
		Options: opts,
	})
	captureProfileResolutionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		reason := "ResolveError"
		if isPolicyError(err) {
			reason = "InvalidPolicy"
		}
		msg := fmt.Sprintf("%s: %v", reason, err)
		if perr := r.patchProfileStatus(ctx, &profile, capturev1alpha1.PhaseError, msg,
			metav1.Condition{
				Type:    ProfileConditionCatalogReady,
				Status:  metav1.ConditionTrue,
				Reason:  "CatalogLoaded",
				Message: fmt.Sprintf("DeviceCatalog %q loaded", cat.Name),
			},
			metav1.Condition{
				Type:    ProfileConditionResolved,
				Status:  metav1.ConditionFalse,
				Reason:  reason,
				Message: err.Error(),
			},
		); perr != nil {
			logger.Error(perr, "failed to patch profile status")
		}
		r.recordEventf(&profile, "Warning", reason, "%v", err)
		// Policy errors need a spec change; anything else is retried.
		if errors.Is(err, resolver.ErrMissingCatalog) || isPolicyError(err) {
			return ctrl.Result{}, nil
		}
		captureControllerReconcileErrorTotal.WithLabelValues("CaptureProfile").Inc()
		return ctrl.Result{}, err
	}

	// 5) Write the request ConfigMap
	cmName := requestConfigMapName(&profile)
	data := sink.MapTarget{}
	if _, err := sink.Apply(plan.Settings, data); err != nil {
		logger.Error(err, "failed to collect resolved values")
		captureControllerReconcileErrorTotal.WithLabelValues("CaptureProfile").Inc()
		return ctrl.Result{}, err
	}
	op, err := r.applyRequestConfigMap(ctx, &profile, cat.Name, cat.ResourceVersion, cmName, data)
	if err != nil {
		logger.Error(err, "failed to apply request configmap", "configMap", cmName)
		r.recordEventf(&profile, "Warning", "ConfigMapApplyFailed", "Failed to apply ConfigMap %q: %v", cmName, err)
		captureControllerReconcileErrorTotal.WithLabelValues("CaptureProfile").Inc()
		return ctrl.Result{}, err
	}
	if op != controllerutil.OperationResultNone {
		captureRequestConfigMapWritesTotal.WithLabelValues(string(op)).Inc()
	}

	// 6) Publish status
	settings := settingStatuses(plan.Settings)
	unresolved := make([]string, 0, len(plan.Diagnostics.Unresolved))
	for _, id := range plan.Diagnostics.Unresolved {
		unresolved = append(unresolved, string(id))
	}
	summary := summarize(plan)

	changed := profile.Status.ObservedGeneration != profile.Generation ||
		profile.Status.CatalogRevision != cat.ResourceVersion ||
		profile.Status.Phase != capturev1alpha1.PhaseResolved ||
		!equality.Semantic.DeepEqual(profile.Status.Settings, settings)
	recordPlanMetrics(plan, changed)

	before := profile.DeepCopy()
	profile.Status.CatalogRevision = cat.ResourceVersion
	profile.Status.Summary = summary
	profile.Status.Settings = settings
	profile.Status.Unresolved = unresolved
	if changed || profile.Status.RunID == "" {
		now := metav1.Now()
		profile.Status.RunID = plan.RunID
		profile.Status.LastResolvedTime = &now
	}

	degraded := metav1.Condition{
		Type:    ProfileConditionDegraded,
		Status:  metav1.ConditionFalse,
		Reason:  "CapabilitiesConsistent",
		Message: "No anomalous capability data",
	}
	if n := len(plan.Diagnostics.Anomalies); n > 0 {
		degraded.Status = metav1.ConditionTrue
		degraded.Reason = "AnomalousCapabilities"
		degraded.Message = summarizeFindings(plan.Diagnostics.Anomalies)
	}

	message := resolvedMessage(int(summary.Resolved), len(plan.Declared))
	if perr := r.patchProfileStatusFrom(ctx, before, &profile, capturev1alpha1.PhaseResolved, message,
		metav1.Condition{
			Type:    ProfileConditionCatalogReady,
			Status:  metav1.ConditionTrue,
			Reason:  "CatalogLoaded",
			Message: fmt.Sprintf("DeviceCatalog %q loaded", cat.Name),
		},
		metav1.Condition{
			Type:    ProfileConditionResolved,
			Status:  metav1.ConditionTrue,
			Reason:  "SettingsResolved",
			Message: message,
		},
		degraded,
	); perr != nil {
		logger.Error(perr, "failed to patch profile status")
		captureControllerReconcileErrorTotal.WithLabelValues("CaptureProfile").Inc()
		return ctrl.Result{}, perr
	}

	if changed {
		logger.Info("capture profile resolved", "runID", plan.RunID, "resolved", summary.Resolved, "anomalous", summary.Anomalous)
		r.recordEventf(&profile, "Normal", "Resolved", "%s (configMap=%s)", message, cmName)
		if summary.Anomalous > 0 {
			r.recordEventf(&profile, "Warning", "AnomalousCapabilities", "%s", degraded.Message)
		}
	}
	return ctrl.Result{}, nil
}

func (r *CaptureProfileReconciler) recordEventf(obj client.Object, eventType, reason, messageFmt string, args ...any) {
	if r.Recorder == nil || obj == nil {
		return
	}
	r.Recorder.Eventf(obj, eventType, reason, messageFmt, args...)
}

func (r *CaptureProfileReconciler) SetupWithManager(mgr ctrl.Manager) error {
	if err := mgr.GetFieldIndexer().IndexField(context.Background(), &capturev1alpha1.CaptureProfile{}, indexCatalogRef, func(obj client.Object) []string {
		p, ok := obj.(*capturev1alpha1.CaptureProfile)
		if !ok {
			return nil
		}
		if p.Spec.CatalogRef.Name == "" {
			return nil
		}
		return []string{p.Spec.CatalogRef.Name}
	}); err != nil {
		return err
	}

	return ctrl.NewControllerManagedBy(mgr).
		For(&capturev1alpha1.CaptureProfile{}).
		Owns(&corev1.ConfigMap{}).
		Watches(&capturev1alpha1.DeviceCatalog{}, enqueueProfilesForCatalog(mgr.GetClient())).
		Complete(r)
}

// enqueueProfilesForCatalog returns an event handler that enqueues the CaptureProfiles referencing a DeviceCatalog.
func enqueueProfilesForCatalog(c client.Client) handler.EventHandler {
	return handler.EnqueueRequestsFromMapFunc(func(ctx context.Context, obj client.Object) []reconcile.Request {
		cat, ok := obj.(*capturev1alpha1.DeviceCatalog)
		if !ok {
			return nil
		}
		var profiles capturev1alpha1.CaptureProfileList
		if err := c.List(ctx, &profiles,
			client.InNamespace(cat.Namespace),
			client.MatchingFields{indexCatalogRef: cat.Name},
		); err != nil {
			return nil
		}
		out := make([]reconcile.Request, 0, len(profiles.Items))
		for i := range profiles.Items {
			p := &profiles.Items[i]
			out = append(out, reconcile.Request{NamespacedName: types.NamespacedName{Namespace: p.Namespace, Name: p.Name}})
		}
		return out
	})
}

func (r *CaptureProfileReconciler) patchProfileStatus(ctx context.Context, profile *capturev1alpha1.CaptureProfile, phase, message string, conds ...metav1.Condition) error {
	return r.patchProfileStatusFrom(ctx, profile.DeepCopy(), profile, phase, message, conds...)
}

func (r *CaptureProfileReconciler) patchProfileStatusFrom(ctx context.Context, before, profile *capturev1alpha1.CaptureProfile, phase, message string, conds ...metav1.Condition) error {
	profile.Status.ObservedGeneration = profile.Generation
	profile.Status.Phase = phase
	profile.Status.Message = message
	for _, c := range conds {
		setProfileCondition(profile, c)
	}
	return r.Status().Patch(ctx, profile, client.MergeFrom(before))
}

// applyRequestConfigMap creates or patches the ConfigMap carrying resolved values.
func (r *CaptureProfileReconciler) applyRequestConfigMap(
	ctx context.Context,
	profile *capturev1alpha1.CaptureProfile,
	catalogName string,
	catalogRevision string,
	name string,
	data map[string]string,
) (controllerutil.OperationResult, error) {
	obj := &corev1.ConfigMap{}
	err := r.Get(ctx, types.NamespacedName{Namespace: profile.Namespace, Name: name}, obj)
	if apierrors.IsNotFound(err) {
		create := corev1.ConfigMap{
			ObjectMeta: metav1.ObjectMeta{
				Name:        name,
				Namespace:   profile.Namespace,
				Labels:      requestLabels(profile.Name, catalogName),
				Annotations: map[string]string{annotationCatalogRevision: catalogRevision},
			},
			Data: data,
		}
		if err := controllerutil.SetControllerReference(profile, &create, r.Scheme); err != nil {
			return controllerutil.OperationResultNone, err
		}
		if err := r.Create(ctx, &create); err != nil {
			return controllerutil.OperationResultNone, err
		}
		return controllerutil.OperationResultCreated, nil
	}
	if err != nil {
		return controllerutil.OperationResultNone, err
	}

	before := obj.DeepCopy()
	if obj.Labels == nil {
		obj.Labels = map[string]string{}
	}
	for k, v := range requestLabels(profile.Name, catalogName) {
		obj.Labels[k] = v
	}
	if obj.Annotations == nil {
		obj.Annotations = map[string]string{}
	}
	obj.Annotations[annotationCatalogRevision] = catalogRevision
	obj.Data = data
	if err := controllerutil.SetControllerReference(profile, obj, r.Scheme); err != nil {
		return controllerutil.OperationResultNone, err
	}
	if equality.Semantic.DeepEqual(before, obj) {
		return controllerutil.OperationResultNone, nil
	}
	if err := r.Patch(ctx, obj, client.MergeFrom(before)); err != nil {
		return controllerutil.OperationResultNone, err
	}
	return controllerutil.OperationResultUpdated, nil
}

func requestLabels(profileName, catalogName string) map[string]string {
	return map[string]string{
		labelManagedBy:   managedByCaptureProfile,
		labelProfileName: truncateLabel(profileName),
		labelCatalogName: truncateLabel(catalogName),
	}
}

// truncateLabel bounds a label value to the 63 characters Kubernetes allows.
func truncateLabel(v string) string {
	if len(v) <= 63 {
		return v
	}
	return strings.Trim(v[:63], "-.")
}

func requestConfigMapName(profile *capturev1alpha1.CaptureProfile) string {
	if profile.Spec.RequestConfigMapName != "" {
		return profile.Spec.RequestConfigMapName
	}
	return stableName(profile.Name + "-capture-request")
}

// stableName lowers base into a DNS subdomain, adding a hash suffix if it must truncate.
func stableName(base string) string {
	base = strings.ToLower(base)
	base = reNonDNS.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")
	if base == "" {
		base = "capture-request"
	}
	if len(base) <= 253 {
		return base
	}
	h := sha1.Sum([]byte(base))
	suffix := "-" + hex.EncodeToString(h[:])[:8]
	base = strings.Trim(base[:253-len(suffix)], "-")
	return base + suffix
}

func settingStatuses(m *resolution.SettingsMap) []capturev1alpha1.SettingStatus {
	entries := m.Entries()
	out := make([]capturev1alpha1.SettingStatus, 0, len(entries))
	for _, s := range entries {
		st := capturev1alpha1.SettingStatus{
			Parameter: string(s.Parameter),
			Status:    s.Status.String(),
			Rationale: s.Rationale,
			Quirk:     s.Quirk,
		}
		if !s.Value.IsZero() {
			st.Value = s.Value.String()
		}
		out = append(out, st)
	}
	return out
}

func summarize(plan resolver.Plan) capturev1alpha1.ResolutionSummary {
	m := plan.Settings
	return capturev1alpha1.ResolutionSummary{
		Resolved:      int32(m.Count(resolution.StatusResolved)),
		Disabled:      int32(m.Count(resolution.StatusDisabled)),
		NotSupported:  int32(m.Count(resolution.StatusNotSupported)),
		NotApplicable: int32(m.Count(resolution.StatusNotApplicable)),
		Anomalous:     int32(m.Count(resolution.StatusAnomalous)),
		Fallbacks:     int32(len(plan.Diagnostics.Fallbacks)),
	}
}

// recordPlanMetrics sets the per-status gauge. The anomaly and fallback counters only move
// when the resolution differs from the one already published.
func recordPlanMetrics(plan resolver.Plan, changed bool) {
	for _, st := range resolution.AllStatuses() {
		captureProfileSettings.WithLabelValues(st.String()).Set(float64(plan.Settings.Count(st)))
	}
	if !changed {
		return
	}
	captureProfileAnomaliesTotal.Add(float64(len(plan.Diagnostics.Anomalies)))
	captureProfileFallbacksTotal.Add(float64(len(plan.Diagnostics.Fallbacks)))
}

func summarizeFindings(fs []resolver.Finding) string {
	// Keep this human-readable and bounded.
	if len(fs) == 0 {
		return ""
	}
	max := 4
	parts := make([]string, 0, min(len(fs), max))
	for i := 0; i < len(fs) && i < max; i++ {
		parts = append(parts, fmt.Sprintf("%s (%s)", fs[i].Parameter, fs[i].Reason))
	}
	if len(fs) > max {
		parts = append(parts, fmt.Sprintf("...and %d more", len(fs)-max))
	}
	return strings.Join(parts, "; ")
}

func isPolicyError(err error) bool {
	return errors.Is(err, capture.ErrInvalidOptions) || errors.Is(err, capture.ErrUnknownQuirk)
}
