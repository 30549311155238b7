package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thurmanmarka/prayerglide"
	"github.com/thurmanmarka/prayerglide/internal/config"
	"github.com/thurmanmarka/prayerglide/internal/countdown"
)

type timesOutput struct {
	Location prayerglide.Location      `json:"location" yaml:"location"`
	Method   string                    `json:"method" yaml:"method"`
	Asr      prayerglide.AsrConvention `json:"asr" yaml:"asr"`
	Times    prayerglide.Times         `json:"times" yaml:"times"`
}

func newTimesCommand(opts *rootOptions) *cobra.Command {
	var dateS string

	cmd := &cobra.Command{
		Use:   "times",
		Short: "Print the six times for a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			date, err := opts.parseDate(dateS, r.Location)
			if err != nil {
				return err
			}

			times, err := prayerglide.Compute(date, r.Location, r.Method, r.Asr)
			if err != nil {
				return fmt.Errorf("error computing times: %w", err)
			}

			w := cmd.OutOrStdout()
			out := timesOutput{Location: r.Location, Method: r.Method.ID, Asr: r.Asr, Times: times}
			if done, err := encode(w, opts.format, out); done {
				return err
			}
			printTimes(w, r, times, opts.clockFormat())
			return nil
		},
	}

	cmd.Flags().StringVar(&dateS, "date", "", "date in YYYY-MM-DD (defaults to today at the location)")
	return cmd
}

func printHeader(w io.Writer, r config.Resolved) {
	fmt.Fprintf(w, "Location: lat=%.4f lon=%.4f\n", r.Location.Lat, r.Location.Lon)
	fmt.Fprintf(w, "Method:   %s, %s afternoon\n", r.Method, title.String(r.Asr.String()))
}

func printTimes(w io.Writer, r config.Resolved, times prayerglide.Times, f countdown.ClockFormat) {
	name, _ := times.Date.Zone()
	fmt.Fprintf(w, "Date:     %s (%s)\n", countdown.FormatDate(times.Date), name)
	printHeader(w, r)
	fmt.Fprintln(w)
	for _, e := range prayerglide.Events {
		fmt.Fprintf(w, "  %-8s %-10s %s\n", e.Label(), title.String(e.String()), countdown.FormatClock(times.At(e), f))
	}
}
