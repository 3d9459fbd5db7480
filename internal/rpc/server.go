package rpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/bayleafwalker/capture-core/internal/capability"
	"github.com/bayleafwalker/capture-core/internal/capture"
	"github.com/bayleafwalker/capture-core/internal/publish"
	"github.com/bayleafwalker/capture-core/internal/report"
	"github.com/bayleafwalker/capture-core/internal/resolver"
)

// Server implements ResolverServer on top of a resolver.Resolver.
type Server struct {
	Resolver resolver.Resolver
	Reporter *report.Reporter
	// Defaults fill option fields the request leaves out.
	Defaults capture.Options
	// Publisher, when set, receives every resolved plan. Publish failures are logged only.
	Publisher publish.Publisher
}

var _ ResolverServer = (*Server)(nil)

func (s *Server) Resolve(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	m := req.AsMap()
	device := stringField(m, fieldDevice)
	logger := log.FromContext(ctx).WithValues("device", device)

	catalogDoc, ok := m[fieldCatalog].(map[string]any)
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "catalog must be an object")
	}
	catalog, err := capability.FromMap(catalogDoc)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	opts, err := decodeOptions(m[fieldOptions], s.Defaults)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	plan, err := s.Resolver.Resolve(ctx, resolver.Input{Device: device, Catalog: catalog, Options: opts})
	if err != nil {
		if errors.Is(err, capture.ErrInvalidOptions) || errors.Is(err, capture.ErrUnknownQuirk) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		return nil, status.Error(codes.Internal, err.Error())
	}

	if s.Publisher != nil {
		if err := publish.PublishPlan(ctx, s.Publisher, device, plan); err != nil {
			logger.Error(err, "publish plan", "runID", plan.RunID)
		}
	}

	reporter := s.Reporter
	if reporter == nil {
		reporter = report.New()
	}
	return encodeResponse(plan, reporter)
}

func encodeResponse(plan resolver.Plan, reporter *report.Reporter) (*structpb.Struct, error) {
	settings := make([]any, 0, plan.Settings.Len())
	for _, e := range plan.Settings.Entries() {
		entry := map[string]any{
			"parameter": string(e.Parameter),
			"status":    e.Status.String(),
			"rationale": e.Rationale,
		}
		if e.IsResolved() {
			entry["value"] = e.Value.String()
		}
		if e.Quirk != "" {
			entry["quirk"] = e.Quirk
		}
		settings = append(settings, entry)
	}

	lines := append(reporter.Lines(plan.Settings), reporter.Unset(plan.Settings, plan.Declared)...)
	reportLines := make([]any, 0, len(lines))
	for _, l := range lines {
		reportLines = append(reportLines, l)
	}
	unresolved := make([]any, 0, len(plan.Diagnostics.Unresolved))
	for _, id := range plan.Diagnostics.Unresolved {
		unresolved = append(unresolved, string(id))
	}

	resp, err := structpb.NewStruct(map[string]any{
		fieldRunID:      plan.RunID,
		fieldSettings:   settings,
		fieldReport:     reportLines,
		fieldUnresolved: unresolved,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return resp, nil
}
