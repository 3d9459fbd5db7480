package rpc

import (
	"context"
	"net"
	"strings"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/bayleafwalker/capture-core/internal/capture"
	"github.com/bayleafwalker/capture-core/internal/report"
	"github.com/bayleafwalker/capture-core/internal/resolver"
)

type capturingPublisher struct {
	subjects []string
}

func (c *capturingPublisher) Publish(_ context.Context, subject string, _ []byte) error {
	c.subjects = append(c.subjects, subject)
	return nil
}

func (c *capturingPublisher) Close() error { return nil }

func startServer(t *testing.T, srv *Server) *Client {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	RegisterResolverServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return NewClient(conn)
}

func catalogDoc() map[string]any {
	return map[string]any{
		"platform": "28",
		"parameters": map[string]any{
			"control-mode":       map[string]any{"values": []any{"OFF", "AUTO"}},
			"awb-mode":           map[string]any{"values": []any{"OFF", "AUTO"}},
			"sensor-sensitivity": map[string]any{"range": []any{100, 1600}},
			"capture-intent":     map[string]any{"values": []any{"PREVIEW"}},
		},
	}
}

func TestServer_Resolve(t *testing.T) {
	pub := &capturingPublisher{}
	client := startServer(t, &Server{
		Resolver:  &resolver.DefaultResolver{NewRunID: func() string { return "run-42" }},
		Reporter:  &report.Reporter{},
		Defaults:  capture.DefaultOptions(),
		Publisher: pub,
	})

	req, err := NewRequest("cam-0", catalogDoc(), capture.DefaultOptions())
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	out, err := client.Resolve(context.Background(), req)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	resp := DecodeResponse(out)

	if resp.RunID != "run-42" {
		t.Fatalf("expected run-42, got %q", resp.RunID)
	}
	if len(resp.Settings) != len(capture.Declared()) || len(resp.Report) != len(capture.Declared()) {
		t.Fatalf("expected %d settings and report lines, got %d and %d", len(capture.Declared()), len(resp.Settings), len(resp.Report))
	}
	if resp.Settings[0].Parameter != "control-mode" || resp.Settings[0].Value != "OFF" {
		t.Fatalf("unexpected first setting %+v", resp.Settings[0])
	}
	if resp.Report[2] != "awb-mode: RESOLVED OFF (manual control)" {
		t.Fatalf("unexpected report line %q", resp.Report[2])
	}

	found := false
	for _, s := range resp.Settings {
		if s.Parameter == string(capture.SensorSensitivity) {
			found = s.Status == "RESOLVED" && s.Value == "1600"
		}
	}
	if !found {
		t.Fatalf("expected sensor-sensitivity RESOLVED 1600 in %+v", resp.Settings)
	}
	if len(pub.subjects) != 1 || pub.subjects[0] != "capture.settings.cam-0" {
		t.Fatalf("expected one published plan, got %v", pub.subjects)
	}
}

func TestServer_InvalidRequests(t *testing.T) {
	client := startServer(t, &Server{Resolver: resolver.NewDefault(), Defaults: capture.DefaultOptions()})

	noCatalog, _ := structpb.NewStruct(map[string]any{"device": "cam-0"})
	badOpts := capture.DefaultOptions()
	badOpts.Quirks = []string{"no-such-quirk"}
	unknownQuirk, err := NewRequest("cam-0", catalogDoc(), badOpts)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	badCatalog, _ := structpb.NewStruct(map[string]any{
		"catalog": map[string]any{"parameters": map[string]any{"awb-mode": map[string]any{}}},
	})

	for name, req := range map[string]*structpb.Struct{
		"no catalog":    noCatalog,
		"unknown quirk": unknownQuirk,
		"bad catalog":   badCatalog,
	} {
		_, err := client.Resolve(context.Background(), req)
		if status.Code(err) != codes.InvalidArgument {
			t.Errorf("%s: expected InvalidArgument, got %v", name, err)
		}
	}
}

func TestDecodeOptions_OverlaysDefaults(t *testing.T) {
	opts, err := decodeOptions(map[string]any{optForceAuto: true, optQuirks: []any{capture.QuirkPreviewCaptureIntent}}, capture.DefaultOptions())
	if err != nil {
		t.Fatalf("decodeOptions: %v", err)
	}
	if !opts.ForceControlModeAuto || opts.MaxFPS != 30 || opts.MaxFPSDiff != 2 {
		t.Fatalf("unexpected options %+v", opts)
	}
	if strings.Join(opts.Quirks, ",") != capture.QuirkPreviewCaptureIntent {
		t.Fatalf("unexpected quirks %v", opts.Quirks)
	}
	if _, err := decodeOptions("nope", capture.DefaultOptions()); err == nil {
		t.Fatalf("expected error for non-object options")
	}
}
