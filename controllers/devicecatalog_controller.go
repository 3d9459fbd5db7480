package controllers

import (
	"context"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	capturev1alpha1 "github.com/bayleafwalker/capture-core/api/v1alpha1"
)

// DeviceCatalogReconciler validates DeviceCatalogs and reports what they declare.
//
// RBAC:
// +kubebuilder:rbac:groups=capture.platform,resources=devicecatalogs,verbs=get;list;watch
// +kubebuilder:rbac:groups=capture.platform,resources=devicecatalogs/status,verbs=get;update;patch
// +kubebuilder:rbac:groups="",resources=events,verbs=create;patch;update
type DeviceCatalogReconciler struct {
	client.Client
	Scheme   *runtime.Scheme
	Recorder record.EventRecorder
}

func (r *DeviceCatalogReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	captureControllerReconcileTotal.WithLabelValues("DeviceCatalog").Inc()

	logger := log.FromContext(ctx).WithValues(
		"controller", "DeviceCatalog",
		"namespace", req.Namespace,
		"catalog", req.Name,
	)

	var cat capturev1alpha1.DeviceCatalog
	if err := r.Get(ctx, req.NamespacedName, &cat); err != nil {
		if client.IgnoreNotFound(err) == nil {
			return ctrl.Result{}, nil
		}
		captureControllerReconcileErrorTotal.WithLabelValues("DeviceCatalog").Inc()
		return ctrl.Result{}, err
	}

	before := cat.DeepCopy()
	cat.Status.ObservedGeneration = cat.Generation
	cat.Status.ParameterCount = int32(len(cat.Spec.Parameters))

	cond := metav1.Condition{
		Type:    CatalogConditionValid,
		Status:  metav1.ConditionTrue,
		Reason:  "Parsed",
		Message: "Catalog parsed",
	}
	if _, err := catalogFromSpec(cat.Spec, ""); err != nil {
		cond.Status = metav1.ConditionFalse
		cond.Reason = "InvalidCatalog"
		cond.Message = err.Error()
		logger.Info("device catalog is invalid", "error", err.Error())
		if before.Status.ObservedGeneration != cat.Generation {
			r.recordEventf(&cat, "Warning", "InvalidCatalog", "%v", err)
		}
	}
	setCatalogCondition(&cat, cond)

	if err := r.Status().Patch(ctx, &cat, client.MergeFrom(before)); err != nil {
		captureControllerReconcileErrorTotal.WithLabelValues("DeviceCatalog").Inc()
		logger.Error(err, "failed to patch catalog status")
		return ctrl.Result{}, err
	}
	return ctrl.Result{}, nil
}

func (r *DeviceCatalogReconciler) recordEventf(obj client.Object, eventType, reason, messageFmt string, args ...any) {
	if r.Recorder == nil || obj == nil {
		return
	}
	r.Recorder.Eventf(obj, eventType, reason, messageFmt, args...)
}

func (r *DeviceCatalogReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&capturev1alpha1.DeviceCatalog{}).
		Complete(r)
}
