// Package calendar builds "add to calendar" links for tasks
package calendar

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// Defaults used when an event or Options leaves a field empty
const (
	DefaultZone     = "America/Sao_Paulo"
	DefaultDuration = 60 * time.Minute
	defaultHour     = 9

	googleRender = "https://calendar.google.com/calendar/render"
	stamp        = "20060102T150405"
)

// Event is the part of a task a calendar entry needs
type Event struct {
	Title       string
	Description string
	Date        string // YYYY-MM-DD, empty means today
	Time        string // HH:MM, empty means 09:00
	Done        bool
	Lat, Lng    *float64
	Duration    time.Duration
}

// Options tune link generation
type Options struct {
	Zone string    // IANA name sent as ctz
	Now  time.Time // reference for a missing date
}

// GoogleLink renders a Google Calendar template URL for ev
func GoogleLink(ev Event, opts Options) string {
	zone := opts.Zone
	if zone == "" {
		zone = DefaultZone
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	if loc, err := time.LoadLocation(zone); err == nil {
		now = now.In(loc)
	}

	start := startOf(ev, now)
	dur := ev.Duration
	if dur <= 0 {
		dur = DefaultDuration
	}
	end := start.Add(dur)

	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", orDefault(ev.Title, "Tarefa"))
	q.Set("details", details(ev))
	q.Set("dates", start.Format(stamp)+"/"+end.Format(stamp))
	q.Set("ctz", zone)
	if ev.Lat != nil && ev.Lng != nil && *ev.Lat != 0 && *ev.Lng != 0 {
		q.Set("location", fmt.Sprintf("%s, %s", coord(*ev.Lat), coord(*ev.Lng)))
	}
	return googleRender + "?" + q.Encode()
}

// startOf reads the wall clock time of ev, UTC is only the arithmetic carrier
func startOf(ev Event, now time.Time) time.Time {
	y, m, d := now.Date()
	if t, err := time.Parse(time.DateOnly, ev.Date); err == nil {
		y, m, d = t.Date()
	}
	hh, mm := defaultHour, 0
	if h, mi, ok := clock(ev.Time); ok {
		hh, mm = h, mi
	}
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func clock(s string) (int, int, bool) {
	hs, ms, _ := strings.Cut(strings.TrimSpace(s), ":")
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, false
	}
	m, err := strconv.Atoi(ms)
	if err != nil {
		m = 0
	}
	return h, m, true
}

func details(ev Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tarefa: %s\n", ev.Title)
	fmt.Fprintf(&b, "Descrição: %s\n", orDefault(strings.TrimSpace(ev.Description), "Autodescritiva"))
	if ev.Time != "" || ev.Date != "" {
		fmt.Fprintf(&b, "Quando: %s %s\n", ev.Time, ev.Date)
	}
	if ev.Done {
		b.WriteString("Concluída: Sim\n")
	} else {
		b.WriteString("Concluída: Não\n")
	}
	return b.String()
}

func coord(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
