package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mining_ratelimit_allowed_total",
			Help: "Requests admitted by a rate limiter",
		},
		[]string{"limiter", "route"},
	)
	RateLimitBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mining_ratelimit_blocked_total",
			Help: "Requests rejected by a rate limiter",
		},
		[]string{"limiter", "route"},
	)
)

func init() {
	prometheus.MustRegister(RateLimitAllowed)
	prometheus.MustRegister(RateLimitBlocked)
}
