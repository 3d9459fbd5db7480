package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
	"sigs.k8s.io/controller-runtime/pkg/client"

	capturev1alpha1 "github.com/bayleafwalker/capture-core/api/v1alpha1"
)

var (
	scheme = runtime.NewScheme()
)

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(capturev1alpha1.AddToScheme(scheme))
}

func main() {
	var kubeconfig string
	if home := homedir.HomeDir(); home != "" {
		kubeconfig = filepath.Join(home, ".kube", "config")
	} else {
		kubeconfig = os.Getenv("KUBECONFIG")
	}
	flag.StringVar(&kubeconfig, "kubeconfig", kubeconfig, "absolute path to the kubeconfig file")

	var numProfiles int
	var namespace string
	var catalogName string
	var cleanup bool

	flag.IntVar(&numProfiles, "profiles", 10, "Number of CaptureProfiles to create")
	flag.StringVar(&namespace, "namespace", "default", "Namespace to create profiles in")
	flag.StringVar(&catalogName, "catalog", "back-camera", "DeviceCatalog the profiles reference")
	flag.BoolVar(&cleanup, "cleanup", true, "Delete the profiles when done")
	flag.Parse()

	config, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
	if err != nil {
		log.Fatalf("Error building kubeconfig: %v", err)
	}

	k8sClient, err := client.New(config, client.Options{Scheme: scheme})
	if err != nil {
		log.Fatalf("Error creating client: %v", err)
	}

	fmt.Printf("Starting load test: %d profiles against catalog %s in namespace %s\n", numProfiles, catalogName, namespace)

	var wg sync.WaitGroup
	start := time.Now()
	latencies := make(chan time.Duration, numProfiles)
	runID := time.Now().Unix()

	for i := 0; i < numProfiles; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			name := fmt.Sprintf("load-test-profile-%d-%d", runID, id)

			// Alternate policies so resolutions differ.
			profile := &capturev1alpha1.CaptureProfile{
				ObjectMeta: metav1.ObjectMeta{
					Name:      name,
					Namespace: namespace,
				},
				Spec: capturev1alpha1.CaptureProfileSpec{
					CatalogRef: capturev1alpha1.ObjectRef{Name: catalogName},
					Policy: capturev1alpha1.CapturePolicy{
						ForceControlModeAuto:    id%2 == 1,
						ForceWorstConfiguration: id%3 == 2,
					},
				},
			}

			createStart := time.Now()
			if err := k8sClient.Create(context.Background(), profile); err != nil {
				fmt.Printf("Error creating profile %s: %v\n", name, err)
				return
			}
			if cleanup {
				defer func() {
					_ = k8sClient.Delete(context.Background(), profile)
				}()
			}

			// Poll for status
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			for {
				select {
				case <-ctx.Done():
					fmt.Printf("Timeout waiting for profile %s\n", name)
					return
				case <-time.After(500 * time.Millisecond):
					var current capturev1alpha1.CaptureProfile
					if err := k8sClient.Get(ctx, client.ObjectKey{Name: name, Namespace: namespace}, &current); err != nil {
						continue
					}
					switch current.Status.Phase {
					case capturev1alpha1.PhaseResolved:
						latency := time.Since(createStart)
						latencies <- latency
						fmt.Printf("Profile %s resolved in %v (resolved=%d anomalous=%d)\n",
							name, latency, current.Status.Summary.Resolved, current.Status.Summary.Anomalous)
						return
					case capturev1alpha1.PhaseError:
						fmt.Printf("Profile %s failed: %s\n", name, current.Status.Message)
						return
					}
				}
			}
		}(i)
	}

	wg.Wait()
	close(latencies)
	totalDuration := time.Since(start)

	all := make([]time.Duration, 0, numProfiles)
	for l := range latencies {
		all = append(all, l)
	}
	if len(all) == 0 {
		fmt.Printf("Load test completed in %v. No profiles resolved.\n", totalDuration)
		return
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	var total time.Duration
	for _, l := range all {
		total += l
	}
	fmt.Printf("Load test completed in %v. %d/%d resolved. Avg latency: %v, p50: %v, max: %v\n",
		totalDuration, len(all), numProfiles, total/time.Duration(len(all)), all[len(all)/2], all[len(all)-1])
}
