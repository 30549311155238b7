package main

import (
	"math"
	"strings"
	"time"
)

type stats struct {
	count int
	sum   float64
	min   float64
	max   float64
}

func (s *stats) add(v float64) {
	if math.IsNaN(v) {
		return
	}
	if s.count == 0 {
		s.min, s.max = v, v
	} else {
		if v < s.min {
			s.min = v
		}
		if v > s.max {
			s.max = v
		}
	}
	s.sum += v
	s.count++
}

func (s *stats) mean() float64 {
	if s.count == 0 {
		return math.NaN()
	}
	return s.sum / float64(s.count)
}

// eventStats tracks absolute and signed (ours - reference) error for one
// event, in minutes.
type eventStats struct {
	abs    stats
	signed stats
}

func diffMinutes(a, b time.Time) float64 {
	// If either time is zero, treat as "no data".
	if a.IsZero() || b.IsZero() {
		return math.NaN()
	}
	return math.Abs(a.Sub(b).Minutes())
}

func diffMinutesSigned(a, b time.Time) float64 {
	if a.IsZero() || b.IsZero() {
		return math.NaN()
	}
	return a.Sub(b).Minutes()
}

func parseLocalTime(date time.Time, hhmm string, loc *time.Location) (time.Time, error) {
	// Expect HH:MM (optionally HH:MM:SS).
	layout := "15:04"
	if strings.Count(hhmm, ":") == 2 {
		layout = "15:04:05"
	}

	parsed, err := time.ParseInLocation(layout, hhmm, loc)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), parsed.Second(), 0, loc), nil
}
