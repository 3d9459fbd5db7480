package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestE2ESmoke_CaptureProfile(t *testing.T) {
	if os.Getenv("CAPTURE_E2E") == "" {
		t.Skip("set CAPTURE_E2E=1 to run Kind-based smoke test")
	}

	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not found in PATH")
	}
	if _, err := exec.LookPath("kubectl"); err != nil {
		t.Skip("kubectl not found in PATH")
	}

	repoRoot := findRepoRoot(t)
	kindBin := "kind"
	if _, err := exec.LookPath("kind"); err != nil {
		fallback := filepath.Join(repoRoot, ".tools", "kind")
		if info, statErr := os.Stat(fallback); statErr == nil && info.Mode()&0o111 != 0 {
			kindBin = fallback
		} else {
			t.Skip("kind not found in PATH (and .tools/kind not usable)")
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Minute)
	defer cancel()

	clusterName := fmt.Sprintf("capture-e2e-%d", time.Now().UnixNano())
	t.Logf("cluster=%s", clusterName)

	// Always attempt cleanup.
	t.Cleanup(func() {
		_ = runAllow(ctx, repoRoot, nil, kindBin, "delete", "cluster", "--name", clusterName)
	})

	runOrFail(t, ctx, repoRoot, nil, kindBin, "create", "cluster", "--name", clusterName, "--wait", "60s")

	// Write an isolated kubeconfig for this test.
	kubeconfigPath := filepath.Join(t.TempDir(), "kubeconfig")
	kubeconfig := runOrFail(t, ctx, repoRoot, nil, kindBin, "get", "kubeconfig", "--name", clusterName)
	if err := os.WriteFile(kubeconfigPath, []byte(kubeconfig), 0o600); err != nil {
		t.Fatalf("write kubeconfig: %v", err)
	}
	kubeEnv := append(os.Environ(), "KUBECONFIG="+kubeconfigPath)

	runOrFail(t, ctx, repoRoot, kubeEnv, "kubectl", "apply", "-f", "k8s/crds/")
	runOrFail(t, ctx, repoRoot, kubeEnv, "kubectl", "wait", "--for=condition=Established", "crd/captureprofiles.capture.platform", "crd/devicecatalogs.capture.platform", "--timeout=60s")

	// Start controller manager (out-of-cluster) against the kind cluster.
	managerCtx, managerCancel := context.WithCancel(ctx)
	defer managerCancel()

	managerCmd := exec.CommandContext(managerCtx, "go", "run", ".", "--metrics-bind-address=0", "--health-probe-bind-address=0")
	managerCmd.Dir = repoRoot
	managerCmd.Env = kubeEnv
	var managerOut bytes.Buffer
	managerCmd.Stdout = &managerOut
	managerCmd.Stderr = &managerOut
	if err := managerCmd.Start(); err != nil {
		t.Fatalf("start manager: %v", err)
	}
	t.Cleanup(func() {
		managerCancel()
		_ = managerCmd.Wait()
	})

	runOrFail(t, ctx, repoRoot, kubeEnv, "kubectl", "apply", "-f", "k8s/samples/back-camera.yaml")

	if _, err := runOut(ctx, repoRoot, kubeEnv,
		"kubectl", "-n", "capture-demo", "wait",
		"--for=condition=Resolved=True",
		"captureprofile/back-camera-stills",
		"--timeout=180s",
	); err != nil {
		t.Logf("manager output:\n%s", managerOut.String())
		_ = runAllow(ctx, repoRoot, kubeEnv, "kubectl", "-n", "capture-demo", "get", "devicecatalogs,captureprofiles,configmaps", "-o", "yaml")
		t.Fatalf("capture profile did not resolve: %v", err)
	}

	raw := runOrFail(t, ctx, repoRoot, kubeEnv,
		"kubectl", "-n", "capture-demo", "get", "configmap", "back-camera-stills-capture-request", "-o", "json",
	)
	var cm configMap
	if err := json.Unmarshal([]byte(raw), &cm); err != nil {
		t.Fatalf("decode configmap: %v", err)
	}
	if got := cm.Data["control-mode"]; got != "OFF" {
		t.Fatalf("control-mode = %q, data=%v", got, cm.Data)
	}
	if got := cm.Data["capture-intent"]; got != "PREVIEW" {
		t.Fatalf("capture-intent = %q, data=%v", got, cm.Data)
	}
	if _, ok := cm.Data["tonemap-mode"]; ok {
		t.Fatalf("unavailable parameters must not be requested, data=%v", cm.Data)
	}

	// Editing the catalog must flow through to the request.
	runOrFail(t, ctx, repoRoot, kubeEnv,
		"kubectl", "-n", "capture-demo", "patch", "devicecatalog", "back-camera", "--type=json",
		`-p=[{"op":"replace","path":"/spec/parameters/2/values","value":["AUTO"]}]`,
	)
	deadline := time.Now().Add(90 * time.Second)
	for {
		out, err := runOut(ctx, repoRoot, kubeEnv,
			"kubectl", "-n", "capture-demo", "get", "configmap", "back-camera-stills-capture-request",
			"-o", "jsonpath={.data.control-mode}",
		)
		if err == nil && strings.TrimSpace(out) == "AUTO" {
			return
		}
		if time.Now().After(deadline) {
			t.Logf("manager output:\n%s", managerOut.String())
			t.Fatalf("timeout waiting for control-mode=AUTO (last %q)", out)
		}
		time.Sleep(2 * time.Second)
	}
}

type configMap struct {
	Data map[string]string `json:"data"`
}

func findRepoRoot(t *testing.T) string {
	t.Helper()

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	// e2e/smoke_test.go -> repo root
	return filepath.Clean(filepath.Join(filepath.Dir(file), ".."))
}

func runOrFail(t *testing.T, ctx context.Context, dir string, env []string, name string, args ...string) string {
	t.Helper()

	out, err := runOut(ctx, dir, env, name, args...)
	if err != nil {
		t.Fatalf("%s %s failed: %v\n%s", name, strings.Join(args, " "), err, out)
	}
	return out
}

func runAllow(ctx context.Context, dir string, env []string, name string, args ...string) error {
	_, err := runOut(ctx, dir, env, name, args...)
	return err
}

func runOut(ctx context.Context, dir string, env []string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if env != nil {
		cmd.Env = env
	}
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	return buf.String(), err
}
