package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "atelier"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// StorageCleanupWarnings - файлы, которые не удалось удалить из хранилища.
	StorageCleanupWarnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_cleanup_warnings_total",
			Help:      "Blob deletions that failed after a committed write",
		},
		[]string{"op"},
	)

	OrphanedBlobsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orphaned_blobs_published_total",
			Help:      "Orphaned blob paths handed to the cleanup queue",
		},
		[]string{"sink"},
	)

	OrphanedBlobsRetried = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orphaned_blobs_retried_total",
			Help:      "Orphaned blob deletions retried by the worker",
		},
		[]string{"result"},
	)

	CatalogCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_cache_requests_total",
			Help:      "Catalog read cache lookups",
		},
		[]string{"result"},
	)

	MediaUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_uploads_total",
			Help:      "Image uploads to the blob store",
		},
		[]string{"result"},
	)
)
