package contracts

import (
	"context"

	"github.com/julienschmidt/httprouter"
)

type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

// HealthCheck is a named dependency check reported by the readiness endpoint.
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}
