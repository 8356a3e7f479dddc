// Package http provides http transport for analytics
package http

import (
	stdhttp "net/http"
	"strings"
	"time"

	"tasker/internal/modkit/httpkit"
	perr "tasker/internal/platform/errors"
	"tasker/internal/services/analytics/domain"
)

// DefaultWindow is the summary window when since is omitted
const DefaultWindow = 24 * time.Hour

// Register mounts the router
func Register(r httpkit.Router, s domain.SummaryPort, now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	h := &handlers{svc: s, now: now}
	httpkit.Get(r, "/summary", h.summary)
}

type handlers struct {
	svc domain.SummaryPort
	now func() time.Time
}

// swagger:route GET /analytics/summary Analytics summary
// @Summary Extraction hit rates
// @Tags analytics
// @Produce json
// @Param since query string false "RFC3339 instant or a window such as 24h"
// @Success 200 {object} domain.Summary "ok"
// @Failure 503 {object} httpkit.Envelope "analytics disabled"
// @Router /analytics/summary [get]
func (h *handlers) summary(r *stdhttp.Request) (any, error) {
	since, err := parseSince(r.URL.Query().Get("since"), h.now())
	if err != nil {
		return nil, err
	}
	return h.svc.Summary(r.Context(), since)
}

// parseSince accepts an RFC3339 instant, a YYYY-MM-DD day or a duration back from now
func parseSince(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now.Add(-DefaultWindow), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return now.Add(-d), nil
	}
	return time.Time{}, perr.WithField(perr.Validationf("since must be RFC3339, YYYY-MM-DD or a positive duration"), "since")
}
