package k8s

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/mchmarny/kaudit/pkg/errors"
)

// defaultPageLimit is the page size used for paginated API list calls.
const defaultPageLimit = 500

// defaultListRate caps paginated list calls per second so a large
// cluster walk stays gentle on the API server.
const defaultListRate = 10

// Fetcher retrieves the raw node and pod inventory feeding the audit.
type Fetcher struct {
	client    Interface
	pageLimit int64
	limiter   *rate.Limiter
}

// NewFetcher creates a fetcher over the given client with default
// pagination and rate limits.
func NewFetcher(client Interface) *Fetcher {
	return &Fetcher{
		client:    client,
		pageLimit: defaultPageLimit,
		limiter:   rate.NewLimiter(rate.Limit(defaultListRate), 1),
	}
}

// Fetch lists all nodes and all pods across namespaces in parallel.
// Any API failure aborts both fetches and propagates; no retries.
func (f *Fetcher) Fetch(ctx context.Context) ([]corev1.Node, []corev1.Pod, error) {
	var (
		nodes []corev1.Node
		pods  []corev1.Pod
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		nodes, err = f.fetchNodes(ctx)
		return err
	})

	g.Go(func() error {
		var err error
		pods, err = f.fetchPods(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	slog.Debug("cluster inventory fetched",
		slog.Int("nodes", len(nodes)),
		slog.Int("pods", len(pods)))

	return nodes, pods, nil
}

func (f *Fetcher) fetchNodes(ctx context.Context) ([]corev1.Node, error) {
	var nodes []corev1.Node
	opts := metav1.ListOptions{Limit: f.pageLimit}

	for {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(errors.ErrCodeDataFetch, "node list rate wait aborted", err)
		}

		list, err := f.client.CoreV1().Nodes().List(ctx, opts)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeDataFetch, "failed to list nodes", err)
		}

		nodes = append(nodes, list.Items...)
		if list.Continue == "" {
			return nodes, nil
		}
		opts.Continue = list.Continue
	}
}

func (f *Fetcher) fetchPods(ctx context.Context) ([]corev1.Pod, error) {
	var pods []corev1.Pod
	opts := metav1.ListOptions{Limit: f.pageLimit}

	for {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(errors.ErrCodeDataFetch, "pod list rate wait aborted", err)
		}

		list, err := f.client.CoreV1().Pods(metav1.NamespaceAll).List(ctx, opts)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeDataFetch, "failed to list pods", err)
		}

		pods = append(pods, list.Items...)
		if list.Continue == "" {
			return pods, nil
		}
		opts.Continue = list.Continue
	}
}
