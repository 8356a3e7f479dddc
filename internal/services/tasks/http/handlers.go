// Package http provides http transport for tasks
package http

import (
	stdhttp "net/http"
	"time"

	"tasker/internal/modkit/httpkit"
	perr "tasker/internal/platform/errors"
	"tasker/internal/platform/net/http/bind"
	ptime "tasker/internal/platform/time"
	"tasker/internal/services/tasks/domain"
)

// Clock gives handlers the reference instant and zone for a request
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

// Register mounts the router
func Register(r httpkit.Router, s domain.ServicePort, c Clock) {
	h := &handlers{svc: s, clock: c}
	httpkit.PostJSON[domain.ParseInput](r, "/parse", h.parse)
	httpkit.PostJSON[domain.CreateInput](r, "/", h.create)
	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/{id}", h.get)
	httpkit.PatchJSON[domain.DoneInput](r, "/{id}/done", h.done)
	httpkit.Delete(r, "/{id}", h.remove)
	httpkit.Get(r, "/{id}/calendar", h.calendar)
}

type handlers struct {
	svc   domain.ServicePort
	clock Clock
}

// swagger:route POST /tasks/parse Tasks parse
// @Summary Extract title, date and time without saving
// @Tags tasks
// @Accept json
// @Produce json
// @Param payload body domain.ParseInput true "Utterance"
// @Success 200 {object} domain.Parsed "ok"
// @Router /tasks/parse [post]
func (h *handlers) parse(r *stdhttp.Request, in domain.ParseInput) (any, error) {
	now := h.clock.Now()
	if in.Now != "" {
		at, err := time.Parse(time.RFC3339, in.Now)
		if err != nil {
			return nil, perr.WithField(perr.InvalidArgf("now must be RFC3339"), "now")
		}
		now = at
	}
	res, err := h.svc.Parse(r.Context(), httpkit.UserOr(r), in.Text, now)
	if err != nil {
		return nil, err
	}
	return domain.Parsed{Result: res, Today: ptime.Today(now, h.clock.Location())}, nil
}

// swagger:route POST /tasks Tasks create
// @Summary Create a task from an utterance
// @Tags tasks
// @Accept json
// @Produce json
// @Param payload body domain.CreateInput true "Utterance"
// @Success 201 {object} domain.Task "created"
// @Router /tasks [post]
func (h *handlers) create(r *stdhttp.Request, in domain.CreateInput) (any, error) {
	ctx := r.Context()
	t, err := h.svc.Draft(ctx, httpkit.UserOr(r), in.Text, h.clock.Now())
	if err != nil {
		return nil, err
	}
	t.Description, t.Lat, t.Lng = in.Description, in.Lat, in.Lng
	out, err := h.svc.Create(ctx, t)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(out), nil
}

// swagger:route GET /tasks Tasks list
// @Summary List tasks, optionally for one day
// @Tags tasks
// @Produce json
// @Param date query string false "YYYY-MM-DD"
// @Success 200 {array} domain.Task "ok"
// @Router /tasks [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	user := httpkit.UserOr(r)
	date := r.URL.Query().Get("date")
	if err := bind.Var("date", date, "omitempty,date"); err != nil {
		return nil, err
	}
	var (
		items []domain.Task
		err   error
	)
	if date == "" {
		items, err = h.svc.ListByUser(r.Context(), user)
	} else {
		items, err = h.svc.ListByUserDate(r.Context(), user, date)
	}
	if err != nil {
		return nil, err
	}
	return httpkit.List(items), nil
}

// swagger:route GET /tasks/{id} Tasks get
// @Summary Fetch one task
// @Tags tasks
// @Produce json
// @Param id path string true "Task id"
// @Success 200 {object} domain.Task "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /tasks/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	id, err := httpkit.UUIDParam(r, "id")
	if err != nil {
		return nil, err
	}
	return h.svc.Get(r.Context(), httpkit.UserOr(r), id)
}

// swagger:route PATCH /tasks/{id}/done Tasks done
// @Summary Mark a task done or pending
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task id"
// @Param payload body domain.DoneInput true "Flag"
// @Success 200 {object} domain.Task "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /tasks/{id}/done [patch]
func (h *handlers) done(r *stdhttp.Request, in domain.DoneInput) (any, error) {
	id, err := httpkit.UUIDParam(r, "id")
	if err != nil {
		return nil, err
	}
	return h.svc.SetDone(r.Context(), httpkit.UserOr(r), id, *in.Done)
}

// swagger:route DELETE /tasks/{id} Tasks delete
// @Summary Delete a task
// @Tags tasks
// @Param id path string true "Task id"
// @Success 204 "deleted"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /tasks/{id} [delete]
func (h *handlers) remove(r *stdhttp.Request) (any, error) {
	id, err := httpkit.UUIDParam(r, "id")
	if err != nil {
		return nil, err
	}
	if err := h.svc.Delete(r.Context(), httpkit.UserOr(r), id); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

// swagger:route GET /tasks/{id}/calendar Tasks calendar
// @Summary Google Calendar link for a task
// @Tags tasks
// @Produce json
// @Param id path string true "Task id"
// @Success 200 {object} domain.CalendarLink "ok"
// @Router /tasks/{id}/calendar [get]
func (h *handlers) calendar(r *stdhttp.Request) (any, error) {
	id, err := httpkit.UUIDParam(r, "id")
	if err != nil {
		return nil, err
	}
	link, err := h.svc.CalendarLink(r.Context(), httpkit.UserOr(r), id)
	if err != nil {
		return nil, err
	}
	return domain.CalendarLink{URL: link}, nil
}
