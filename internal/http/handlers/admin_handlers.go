package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// GetMetricsHandler godoc
// @Summary Catalog dashboard metrics
// @Description Product and gallery totals, the biggest category and the products that cannot be priced.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} repo.Metrics
// @Failure 401 {string} string "Unauthorized"
// @Failure 403 {string} string "Forbidden"
// @Router /admin/metrics [get]
func (s *Server) GetMetricsHandler(w http.ResponseWriter, r *http.Request) {
	metrics, err := s.Metrics.GetDashboardMetrics(r.Context())
	if err != nil {
		s.upstreamError(w, r, err, "load metrics")
		return
	}
	s.respond(w, http.StatusOK, metrics)
}

// RefreshCatalogHandler godoc
// @Summary Reload the catalog now
// @Description Drops any cached snapshot and reloads from the source. The shop order is reshuffled only if the catalog changed.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} RefreshCatalogResult
// @Failure 502 {string} string "Catalog source failed"
// @Router /admin/catalog/refresh [post]
func (s *Server) RefreshCatalogHandler(w http.ResponseWriter, r *http.Request) {
	changed, err := s.Catalog.Reload(r.Context())
	if err != nil {
		s.upstreamError(w, r, err, "refresh catalog")
		return
	}
	status := s.Catalog.Status()
	s.logger().Info("catalog refreshed by admin",
		zap.Bool("changed", changed),
		zap.Int("products", status.Products),
	)
	s.respond(w, http.StatusOK, RefreshCatalogResult{Changed: changed, Status: status})
}

const healthTimeout = 2 * time.Second

// HealthHandler godoc
// @Summary Liveness and dependency checks
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /healthz [get]
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	names := make([]string, 0, len(s.Health))
	results := make([]error, len(s.Health))
	var g errgroup.Group
	for name, check := range s.Health {
		i := len(names)
		names = append(names, name)
		g.Go(func() error {
			results[i] = check(ctx)
			return nil
		})
	}
	_ = g.Wait()

	resp := HealthResponse{Status: "ok", Checks: make(map[string]string, len(names))}
	if s.Catalog != nil {
		resp.Catalog = s.Catalog.Status()
	}
	status := http.StatusOK
	for i, name := range names {
		if results[i] != nil {
			resp.Checks[name] = results[i].Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	s.respond(w, status, resp)
}
