// Package announce publishes the next prayer event to MQTT whenever it
// changes, and the day's times whenever the day changes.
package announce

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/thurmanmarka/prayerglide"
	"github.com/thurmanmarka/prayerglide/internal/countdown"
)

const defaultInterval = 30 * time.Second

// Announcer keeps a schedule for one location and publishes it on
// <prefix>/today and <prefix>/next, both retained.
type Announcer struct {
	pub      Publisher
	prefix   string
	loc      prayerglide.Location
	method   prayerglide.Method
	asr      prayerglide.AsrConvention
	interval time.Duration
	logger   zerolog.Logger

	day       string
	sched     prayerglide.Schedule
	next      prayerglide.NextEvent
	hasNext   bool
	announced bool
}

type Config struct {
	Publisher   Publisher
	TopicPrefix string
	Location    prayerglide.Location
	Method      prayerglide.Method
	Asr         prayerglide.AsrConvention
	Interval    time.Duration
	Logger      zerolog.Logger
}

func New(cfg Config) *Announcer {
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Announcer{
		pub:      cfg.Publisher,
		prefix:   cfg.TopicPrefix,
		loc:      cfg.Location,
		method:   cfg.Method,
		asr:      cfg.Asr,
		interval: interval,
		logger:   cfg.Logger,
	}
}

// NextMessage is the payload of <prefix>/next.
type NextMessage struct {
	HasNext   bool       `json:"has_next"`
	Event     string     `json:"event,omitempty"`
	Label     string     `json:"label,omitempty"`
	Time      *time.Time `json:"time,omitempty"`
	Method    string     `json:"method"`
	Published time.Time  `json:"published"`
}

// TodayMessage is the payload of <prefix>/today.
type TodayMessage struct {
	Date     string               `json:"date"`
	Location prayerglide.Location `json:"location"`
	Method   string               `json:"method"`
	Times    prayerglide.Times    `json:"times"`
}

func (a *Announcer) topic(name string) string {
	return fmt.Sprintf("%s/%s", a.prefix, name)
}

// Tick brings the announcer up to date with now. The schedule is
// recomputed only when the calendar day at the location changes; the next
// event is published only when it differs from the last one published.
func (a *Announcer) Tick(now time.Time) error {
	if key := countdown.DayKey(now, a.loc); key != a.day {
		sched, err := prayerglide.Upcoming(now, a.loc, a.method, a.asr)
		if err != nil {
			return err
		}
		if err := a.publishToday(key, sched.Today); err != nil {
			return err
		}
		a.sched = sched
		a.day = key
		a.logger.Debug().Str("day", key).Msg("schedule recomputed")
	}

	next, ok := prayerglide.ResolveNext(now, a.sched.Today, a.sched.Tomorrow)
	if a.announced && ok == a.hasNext && next.Event == a.next.Event && next.Time.Equal(a.next.Time) {
		return nil
	}

	msg := NextMessage{HasNext: ok, Method: a.method.ID, Published: now}
	if ok {
		msg.Event = next.Event.String()
		msg.Label = next.Event.Label()
		at := next.Time
		msg.Time = &at
	}
	if err := a.publishJSON("next", msg); err != nil {
		return err
	}

	a.next, a.hasNext, a.announced = next, ok, true
	a.logger.Info().
		Bool("has_next", ok).
		Str("event", msg.Event).
		Time("at", next.Time).
		Msg("next event announced")
	return nil
}

func (a *Announcer) publishToday(key string, today prayerglide.Times) error {
	return a.publishJSON("today", TodayMessage{
		Date:     key,
		Location: a.loc,
		Method:   a.method.ID,
		Times:    today,
	})
}

func (a *Announcer) publishJSON(name string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	return a.pub.Publish(a.topic(name), payload, true)
}

// Run ticks immediately and then every interval until ctx is done.
// Publish failures are logged and retried on the next tick.
func (a *Announcer) Run(ctx context.Context) error {
	a.logger.Info().Dur("interval", a.interval).Msg("announcer starting")

	if err := a.Tick(time.Now()); err != nil {
		a.logger.Error().Err(err).Msg("announce failed")
	}

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info().Msg("announcer stopped")
			return nil
		case now := <-ticker.C:
			if err := a.Tick(now); err != nil {
				a.logger.Error().Err(err).Msg("announce failed")
			}
		}
	}
}
