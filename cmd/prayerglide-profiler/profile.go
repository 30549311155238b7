package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/thurmanmarka/prayerglide"
)

// profileOptions describes one comparison run.
type profileOptions struct {
	loc     prayerglide.Location
	method  prayerglide.Method
	asr     prayerglide.AsrConvention
	year    int
	verbose bool
	logger  zerolog.Logger
}

type summary struct {
	rows    int
	skipped int
	events  [prayerglide.NumEvents]eventStats
}

var outHeader = []string{"date", "event", "ours", "ref", "err", "signed"}

// profile reads a reference timetable and compares every row with
// Compute. The expected CSV format is:
//
//	date,fajr,sunrise,dhuhr,asr,maghrib,isha
//	2024-06-21,04:00,05:30,12:21,15:43,19:12,20:36
//
// Dates are YYYY-MM-DD and times are local HH:MM at the location's UTC
// offset. A leading header row is skipped. Blank cells are ignored. When
// out is not nil, one row per compared event is written to it.
func profile(in io.Reader, w io.Writer, out *csv.Writer, opts profileOptions) (summary, error) {
	var sum summary

	r := csv.NewReader(in)
	r.FieldsPerRecord = -1 // allow variable, we validate
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return sum, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return sum, fmt.Errorf("empty CSV file")
	}

	// If first row looks like a header, skip it.
	startIdx := 0
	if len(records[0]) >= 1 && strings.EqualFold(strings.TrimSpace(records[0][0]), "date") {
		startIdx = 1
	}

	if out != nil {
		if err := out.Write(outHeader); err != nil {
			return sum, fmt.Errorf("failed to write outcsv header: %w", err)
		}
	}

	zone := opts.loc.Zone()

	for i := startIdx; i < len(records); i++ {
		row := records[i]
		sum.rows++

		if len(row) < 1+prayerglide.NumEvents {
			opts.logger.Warn().Int("row", i+1).Int("columns", len(row)).Msg("expected 7 columns (date + six times), skipping")
			sum.skipped++
			continue
		}

		dateStr := strings.TrimSpace(row[0])
		date, err := time.ParseInLocation("2006-01-02", dateStr, zone)
		if err != nil {
			opts.logger.Warn().Int("row", i+1).Str("date", dateStr).Err(err).Msg("invalid date, skipping")
			sum.skipped++
			continue
		}
		if opts.year != 0 && date.Year() != opts.year {
			// Just warn; don't skip.
			opts.logger.Warn().Int("row", i+1).Str("date", dateStr).Int("year", opts.year).Msg("date outside the expected year")
		}

		times, err := prayerglide.Compute(date, opts.loc, opts.method, opts.asr)
		if err != nil {
			return sum, err
		}

		for _, e := range prayerglide.Events {
			cell := strings.TrimSpace(row[1+int(e)])
			if cell == "" {
				continue
			}
			ref, err := parseLocalTime(date, cell, zone)
			if err != nil {
				opts.logger.Warn().Int("row", i+1).Stringer("event", e).Str("value", cell).Err(err).Msg("invalid time, ignoring")
				continue
			}

			ours := times.At(e)
			absErr := diffMinutes(ours, ref)
			signed := diffMinutesSigned(ours, ref)
			sum.events[e].abs.add(absErr)
			sum.events[e].signed.add(signed)

			if opts.verbose {
				fmt.Fprintf(w, "%s %-8s err=%6.2f min (got=%s ref=%s)\n",
					dateStr, e.Label(), signed, ours.Format("15:04"), ref.Format("15:04"))
			}

			if out != nil {
				rec := []string{
					dateStr,
					e.String(),
					ours.Format("15:04"),
					ref.Format("15:04"),
					fmt.Sprintf("%.6f", absErr),
					fmt.Sprintf("%.6f", signed),
				}
				if err := out.Write(rec); err != nil {
					opts.logger.Warn().Int("row", i+1).Err(err).Msg("failed to write outcsv")
				}
			}
		}
	}
	return sum, nil
}

func printSummary(w io.Writer, sum summary, opts profileOptions) {
	name, _ := time.Date(2000, 1, 1, 0, 0, 0, 0, opts.loc.Zone()).Zone()

	fmt.Fprintln(w, "=== prayerglide profiler summary ===")
	fmt.Fprintf(w, "Method:  %s, %s afternoon\n", opts.method, opts.asr)
	fmt.Fprintf(w, "Lat/Lon: %.4f / %.4f\n", opts.loc.Lat, opts.loc.Lon)
	fmt.Fprintf(w, "TZ:      %s\n", name)
	fmt.Fprintf(w, "Rows:    %d (processed), %d skipped\n", sum.rows-sum.skipped, sum.skipped)

	found := false
	for _, e := range prayerglide.Events {
		s := sum.events[e]
		if s.abs.count == 0 {
			continue
		}
		found = true
		fmt.Fprintf(w, "\n%s error (minutes, ours - ref):\n", e.Label())
		fmt.Fprintf(w, "  count: %d\n", s.abs.count)
		fmt.Fprintf(w, "  abs:   min %.3f  max %.3f  avg %.3f\n", s.abs.min, s.abs.max, s.abs.mean())
		fmt.Fprintf(w, "  signed: min %.3f  max %.3f  mean %.3f\n", s.signed.min, s.signed.max, s.signed.mean())
	}
	if !found {
		fmt.Fprintln(w, "No valid rows to compute stats.")
	}
}
