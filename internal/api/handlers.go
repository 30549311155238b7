package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thurmanmarka/prayerglide"
	"github.com/thurmanmarka/prayerglide/internal/countdown"
)

var errBadQuery = errors.New("invalid query")

// query holds the optional per-request overrides of the server defaults.
type query struct {
	Lat    *float64 `form:"lat"`
	Lon    *float64 `form:"lon"`
	TZ     *float64 `form:"tz"`
	Method string   `form:"method"`
	Asr    string   `form:"asr"`
	Date   string   `form:"date"`
	At     string   `form:"at"`
	Month  string   `form:"month"`
}

type inputs struct {
	loc    prayerglide.Location
	method prayerglide.Method
	asr    prayerglide.AsrConvention
}

func (s *Server) parse(c *gin.Context) (query, inputs, error) {
	var q query
	if err := c.ShouldBindQuery(&q); err != nil {
		return q, inputs{}, fmt.Errorf("%v: %w", err, errBadQuery)
	}

	in := inputs{
		loc:    s.defaults.Location,
		method: s.defaults.Method,
		asr:    s.defaults.Asr,
	}
	if q.Lat != nil {
		in.loc.Lat = *q.Lat
	}
	if q.Lon != nil {
		in.loc.Lon = *q.Lon
	}
	if q.TZ != nil {
		in.loc.TZOffset = *q.TZ
	}
	if q.Method != "" {
		m, err := s.defaults.Registry.Lookup(q.Method)
		if err != nil {
			return q, inputs{}, err
		}
		in.method = m
	}
	if q.Asr != "" {
		asr, err := prayerglide.ParseAsrConvention(q.Asr)
		if err != nil {
			return q, inputs{}, err
		}
		in.asr = asr
	}
	if err := in.loc.Validate(); err != nil {
		return q, inputs{}, err
	}
	return q, in, nil
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) methodsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"default": s.defaults.Method.ID,
		"methods": s.defaults.Registry.Methods(),
	})
}

type timesResponse struct {
	Location prayerglide.Location      `json:"location"`
	Method   string                    `json:"method"`
	Asr      prayerglide.AsrConvention `json:"asr"`
	Times    prayerglide.Times         `json:"times"`
}

func (s *Server) timesHandler(c *gin.Context) {
	q, in, err := s.parse(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	date := s.now().In(in.loc.Zone())
	if q.Date != "" {
		date, err = time.ParseInLocation("2006-01-02", q.Date, in.loc.Zone())
		if err != nil {
			abortWithError(c, fmt.Errorf("date %q: %w", q.Date, errBadQuery))
			return
		}
	}

	times, err := prayerglide.Compute(date, in.loc, in.method, in.asr)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, timesResponse{
		Location: in.loc,
		Method:   in.method.ID,
		Asr:      in.asr,
		Times:    times,
	})
}

type nextResponse struct {
	Now       time.Time                   `json:"now"`
	HasNext   bool                        `json:"has_next"`
	Next      *prayerglide.NextEvent      `json:"next,omitempty"`
	Label     string                      `json:"label"`
	Countdown string                      `json:"countdown"`
	Today     prayerglide.Times           `json:"today"`
	Statuses  map[string]countdown.Status `json:"statuses"`
}

func (s *Server) nextHandler(c *gin.Context) {
	q, in, err := s.parse(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	now := s.now()
	if q.At != "" {
		now, err = time.Parse(time.RFC3339, q.At)
		if err != nil {
			abortWithError(c, fmt.Errorf("at %q: %w", q.At, errBadQuery))
			return
		}
	}

	sched, err := prayerglide.Upcoming(now, in.loc, in.method, in.asr)
	if err != nil {
		abortWithError(c, err)
		return
	}

	label, remaining := countdown.Banner(now, sched.Next, sched.HasNext)
	statuses := countdown.Statuses(now, sched.Today, sched.Next, sched.HasNext)

	resp := nextResponse{
		Now:       sched.Now,
		HasNext:   sched.HasNext,
		Label:     label,
		Countdown: remaining,
		Today:     sched.Today,
		Statuses:  make(map[string]countdown.Status, prayerglide.NumEvents),
	}
	if sched.HasNext {
		next := sched.Next
		resp.Next = &next
	}
	for i, e := range prayerglide.Events {
		resp.Statuses[e.String()] = statuses[i]
	}
	c.JSON(http.StatusOK, resp)
}

type monthResponse struct {
	Location prayerglide.Location      `json:"location"`
	Method   string                    `json:"method"`
	Asr      prayerglide.AsrConvention `json:"asr"`
	Month    string                    `json:"month"`
	Days     []prayerglide.Times       `json:"days"`
}

func (s *Server) monthHandler(c *gin.Context) {
	q, in, err := s.parse(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	first := s.now().In(in.loc.Zone())
	if q.Month != "" {
		first, err = time.ParseInLocation("2006-01", q.Month, in.loc.Zone())
		if err != nil {
			abortWithError(c, fmt.Errorf("month %q: %w", q.Month, errBadQuery))
			return
		}
	}

	days, err := prayerglide.Month(first.Year(), first.Month(), in.loc, in.method, in.asr)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, monthResponse{
		Location: in.loc,
		Method:   in.method.ID,
		Asr:      in.asr,
		Month:    first.Format("2006-01"),
		Days:     days,
	})
}
