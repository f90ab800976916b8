package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts failed Redis commands by command name.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "neuroflow_redis_errors_total",
	Help: "Total number of Redis command errors",
}, []string{"command"})

var promInstance *fiberprometheus.FiberPrometheus

// InitMetrics builds the HTTP metrics collector once per process; repeated
// calls return the same instance so collectors are not registered twice.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	if promInstance == nil {
		promInstance = fiberprometheus.New(serviceName)
	}
	return promInstance
}

// MetricsMiddleware records request counts and latencies, skipping the scrape endpoint itself.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}
		return prom.Middleware(c)
	}
}
