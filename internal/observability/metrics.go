package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PostsCreated counts published posts.
	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yatube_posts_created_total",
		Help: "Total number of posts created",
	})

	// PostsEdited counts edits by outcome ("saved" or "not_author").
	PostsEdited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_posts_edited_total",
		Help: "Total number of post edit attempts by outcome",
	}, []string{"outcome"})

	// CommentsCreated counts posted comments.
	CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yatube_comments_created_total",
		Help: "Total number of comments created",
	})

	// FollowChanges counts follow and unfollow actions.
	FollowChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_follow_changes_total",
		Help: "Total number of follow and unfollow actions",
	}, []string{"action"})

	// PageCacheLookups counts page cache lookups by result ("hit" or "miss").
	PageCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_page_cache_lookups_total",
		Help: "Page cache lookups by result",
	}, []string{"result"})

	// FeedQueryLatency records feed assembly latency by feed kind.
	FeedQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "yatube_feed_query_latency_seconds",
		Help:    "Feed query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"feed"})
)

// TrackFeed returns a function that records feed latency when called (e.g. defer).
func TrackFeed(feed string) func() {
	start := time.Now()
	return func() {
		FeedQueryLatency.WithLabelValues(feed).Observe(time.Since(start).Seconds())
	}
}
