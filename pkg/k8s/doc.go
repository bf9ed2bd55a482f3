// Package k8s provides the Kubernetes API access layer: cached client
// construction with standard kubeconfig discovery, and the paginated
// node/pod fetcher that feeds the audit collector.
package k8s
