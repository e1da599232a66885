package ports

import "context"

// HealthChecker abstracts a dependency health probe; the HTTP health
// endpoint aggregates one checker per dependency (today: the cache
// provider). Implementations should return error if unhealthy.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}
