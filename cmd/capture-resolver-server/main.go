package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/bayleafwalker/capture-core/internal/capture"
	"github.com/bayleafwalker/capture-core/internal/publish"
	"github.com/bayleafwalker/capture-core/internal/report"
	"github.com/bayleafwalker/capture-core/internal/resolver"
	"github.com/bayleafwalker/capture-core/internal/rpc"
)

func main() {
	var listenAddr string
	var natsURL string
	var quirks string
	defaults := capture.DefaultOptions()

	flag.StringVar(&listenAddr, "listen", ":50051", "address to listen on")
	flag.StringVar(&natsURL, "nats-url", "", "NATS server URL; resolved plans are published when set")
	flag.BoolVar(&defaults.ForceControlModeAuto, "force-control-mode-auto", false, "default for forceControlModeAuto")
	flag.BoolVar(&defaults.ForceWorstConfiguration, "force-worst-configuration", false, "default for forceWorstConfiguration")
	flag.Float64Var(&defaults.MaxFPS, "max-fps", defaults.MaxFPS, "default fps cap; 0 disables")
	flag.Float64Var(&defaults.MaxFPSDiff, "max-fps-diff", defaults.MaxFPSDiff, "default cap on fps range width; 0 disables")
	flag.StringVar(&quirks, "quirks", "", "comma-separated hardware quirks applied by default; known: "+strings.Join(capture.KnownQuirks(), ", "))

	opts := zap.Options{Development: true}
	opts.BindFlags(flag.CommandLine)
	flag.Parse()

	ctrl.SetLogger(zap.New(zap.UseFlagOptions(&opts)))
	logger := ctrl.Log.WithName("capture-resolver")

	if quirks != "" {
		for _, q := range strings.Split(quirks, ",") {
			if q = strings.TrimSpace(q); q != "" {
				defaults.Quirks = append(defaults.Quirks, q)
			}
		}
	}
	if err := defaults.Validate(); err != nil {
		logger.Error(err, "invalid default options")
		os.Exit(1)
	}

	ctx := ctrl.SetupSignalHandler()

	srv := &rpc.Server{
		Resolver: resolver.NewDefault(),
		Reporter: report.New(),
		Defaults: defaults,
	}
	if natsURL != "" {
		pub, err := publish.NewNATSPublisher(ctx, natsURL)
		if err != nil {
			logger.Error(err, "unable to connect to NATS", "url", natsURL)
			os.Exit(1)
		}
		defer pub.Close()
		srv.Publisher = pub
	}

	lis, err := net.Listen("tcp", listenAddr)
	if err != nil {
		panic(fmt.Errorf("listen %s: %w", listenAddr, err))
	}

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		return handler(log.IntoContext(ctx, logger.WithValues("method", info.FullMethod)), req)
	}))
	rpc.RegisterResolverServer(grpcServer, srv)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(rpc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		healthServer.Shutdown()
		grpcServer.GracefulStop()
	}()

	logger.Info("serving", "listen", listenAddr, "nats", natsURL != "")
	if err := grpcServer.Serve(lis); err != nil {
		panic(fmt.Errorf("grpc serve: %w", err))
	}
}
