package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"path", "method", "status"})

	PostOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "post_operations_total",
		Help: "Post operations by kind and outcome",
	}, []string{"operation", "outcome"})

	PostsListed = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "posts_listed_per_page",
		Help:    "Number of posts returned on a listing page",
		Buckets: prometheus.LinearBuckets(0, 5, 11),
	})

	OrphanImagesRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orphan_images_removed_total",
		Help: "Uploaded post images deleted because no post references them",
	})

	ImageSweepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "image_sweep_duration_seconds",
		Help:    "Duration of orphaned image sweeps",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})

	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "login_attempts_total",
		Help: "Login attempts by outcome",
	}, []string{"outcome"})
)
