package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"gopkg.in/yaml.v3"

	"github.com/bayleafwalker/capture-core/internal/capability"
	"github.com/bayleafwalker/capture-core/internal/capture"
	"github.com/bayleafwalker/capture-core/internal/rpc"
)

func main() {
	var target string
	var device string
	var catalogPath string
	var quirks string
	var verbose bool
	opts := capture.DefaultOptions()

	flag.StringVar(&target, "target", "127.0.0.1:50051", "gRPC server address")
	flag.StringVar(&device, "device", "camera-0", "device name")
	flag.StringVar(&catalogPath, "catalog", "", "path to a YAML capability catalog")
	flag.BoolVar(&opts.ForceControlModeAuto, "force-control-mode-auto", false, "select automatic control whenever offered")
	flag.BoolVar(&opts.ForceWorstConfiguration, "force-worst-configuration", false, "invert quality-sensitive priorities")
	flag.Float64Var(&opts.MaxFPS, "max-fps", opts.MaxFPS, "fps cap; 0 disables")
	flag.Float64Var(&opts.MaxFPSDiff, "max-fps-diff", opts.MaxFPSDiff, "cap on fps range width; 0 disables")
	flag.StringVar(&quirks, "quirks", "", "comma-separated hardware quirks; known: "+strings.Join(capture.KnownQuirks(), ", "))
	flag.BoolVar(&verbose, "v", false, "print rationale for every setting")
	flag.Parse()

	if catalogPath == "" {
		fmt.Fprintln(os.Stderr, "-catalog is required")
		os.Exit(2)
	}
	for _, q := range strings.Split(quirks, ",") {
		if q = strings.TrimSpace(q); q != "" {
			opts.Quirks = append(opts.Quirks, q)
		}
	}

	data, err := os.ReadFile(catalogPath)
	if err != nil {
		panic(fmt.Errorf("read catalog: %w", err))
	}
	doc := map[string]any{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		panic(fmt.Errorf("decode catalog: %w", err))
	}
	// Fail locally on documents the server would reject.
	if _, err := capability.FromMap(doc); err != nil {
		fmt.Fprintf(os.Stderr, "invalid catalog %s: %v\n", catalogPath, err)
		os.Exit(1)
	}

	req, err := rpc.NewRequest(device, doc, opts)
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		panic(fmt.Errorf("dial %s: %w", target, err))
	}
	defer conn.Close()

	resp, err := rpc.NewClient(conn).Resolve(ctx, req)
	if err != nil {
		fmt.Printf("Resolve error: %v\n", err)
		os.Exit(1)
	}

	out := rpc.DecodeResponse(resp)
	fmt.Printf("run %s: %d settings\n", out.RunID, len(out.Settings))
	if verbose {
		for _, s := range out.Settings {
			fmt.Printf("  %-36s %-14s %-20s %s\n", s.Parameter, s.Status, s.Value, s.Rationale)
		}
		if len(out.Unresolved) > 0 {
			fmt.Printf("unset: %s\n", strings.Join(out.Unresolved, ", "))
		}
		return
	}
	// The report already lists unset keys.
	for _, line := range out.Report {
		fmt.Println(line)
	}
}
