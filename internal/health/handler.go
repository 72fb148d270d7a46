package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"mentorbook/pkg/contracts"
	httputil "mentorbook/pkg/http"
	"mentorbook/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

const readyTimeout = 2 * time.Second

type HealthResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

type HealthHandler struct {
	checks []contracts.HealthCheck
	stats  func() any
	log    *logger.Logger
}

func NewHealthHandler(checks []contracts.HealthCheck, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		checks: checks,
		log:    log,
	}
}

// WithStats exposes fn's result on GET /stats.
func (h *HealthHandler) WithStats(fn func() any) *HealthHandler {
	h.stats = fn
	return h
}

func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	httputil.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready pings every dependency concurrently and reports each one.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		healthy = true
		deps    = make(map[string]string, len(h.checks))
	)
	for _, check := range h.checks {
		wg.Add(1)
		go func(check contracts.HealthCheck) {
			defer wg.Done()
			err := check.Ping(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				healthy = false
				deps[check.Name] = "error"
				h.log.Error("Dependency health check failed", "dependency", check.Name, "error", err)
				return
			}
			deps[check.Name] = "ok"
		}(check)
	}
	wg.Wait()

	if !healthy {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Dependencies: deps})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ready", Dependencies: deps})
}

func (h *HealthHandler) Stats(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	httputil.WriteJSON(w, http.StatusOK, h.stats())
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
	if h.stats != nil {
		router.GET("/stats", h.Stats)
	}
}
