package k8s

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
)

// Interface aliases kubernetes.Interface so callers and tests can use
// fake.NewSimpleClientset without importing client-go directly.
type Interface = kubernetes.Interface

var (
	clientOnce   sync.Once
	cachedClient *kubernetes.Clientset
	clientErr    error
)

// Client returns a singleton Kubernetes client, creating it on first
// call with automatic discovery: the KUBECONFIG environment variable,
// then ~/.kube/config, then the in-cluster service account. Use
// BuildClient for an explicit kubeconfig path.
func Client() (Interface, error) {
	clientOnce.Do(func() {
		cachedClient, clientErr = BuildClient("")
	})
	return cachedClient, clientErr
}

// BuildClient creates a Kubernetes client from the given kubeconfig
// path, bypassing the singleton cache. An empty path triggers the same
// discovery order as Client.
func BuildClient(kubeconfig string) (*kubernetes.Clientset, error) {
	if kubeconfig == "" {
		kubeconfig = os.Getenv("KUBECONFIG")

		if kubeconfig == "" {
			kubeconfig = filepath.Join(homedir.HomeDir(), ".kube", "config")
			if _, err := os.Stat(kubeconfig); os.IsNotExist(err) {
				kubeconfig = ""
			}
		}
	}

	var config *rest.Config
	var err error

	// No kubeconfig found anywhere, assume we run inside the cluster.
	if kubeconfig == "" {
		config, err = rest.InClusterConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to get in-cluster config: %w", err)
		}
	} else {
		config, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
		if err != nil {
			return nil, fmt.Errorf("failed to build kube config from %s: %w", kubeconfig, err)
		}
	}

	client, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	return client, nil
}
