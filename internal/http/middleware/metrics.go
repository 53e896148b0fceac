package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitSeen = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limit_requests_total",
			Help: "Requests inspected by a rate limiter, by limiter and route",
		},
		[]string{"limiter", "route"},
	)
	RateLimitBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limit_blocked_total",
			Help: "Requests rejected with 429, by limiter and route",
		},
		[]string{"limiter", "route"},
	)
)

func init() {
	prometheus.MustRegister(RateLimitSeen, RateLimitBlocked)
}
