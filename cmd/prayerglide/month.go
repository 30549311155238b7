package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/thurmanmarka/prayerglide"
	"github.com/thurmanmarka/prayerglide/internal/countdown"
)

type monthOutput struct {
	Location prayerglide.Location      `json:"location" yaml:"location"`
	Method   string                    `json:"method" yaml:"method"`
	Asr      prayerglide.AsrConvention `json:"asr" yaml:"asr"`
	Month    string                    `json:"month" yaml:"month"`
	Days     []prayerglide.Times       `json:"days" yaml:"days"`
}

func newMonthCommand(opts *rootOptions) *cobra.Command {
	var monthS string

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Print a timetable for every day of a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.resolve(cmd)
			if err != nil {
				return err
			}

			first := opts.now().In(r.Location.Zone())
			if monthS != "" {
				first, err = time.ParseInLocation("2006-01", monthS, r.Location.Zone())
				if err != nil {
					return fmt.Errorf("invalid --month %q (want YYYY-MM): %w", monthS, err)
				}
			}

			days, err := prayerglide.Month(first.Year(), first.Month(), r.Location, r.Method, r.Asr)
			if err != nil {
				return fmt.Errorf("error computing month: %w", err)
			}

			w := cmd.OutOrStdout()
			out := monthOutput{
				Location: r.Location,
				Method:   r.Method.ID,
				Asr:      r.Asr,
				Month:    first.Format("2006-01"),
				Days:     days,
			}
			if done, err := encode(w, opts.format, out); done {
				return err
			}

			f := opts.clockFormat()
			width := 6
			if f == countdown.Clock12 {
				width = 9
			}

			fmt.Fprintf(w, "%s\n", strings.ToUpper(first.Format("January 2006")))
			printHeader(w, r)
			fmt.Fprintln(w)

			var b strings.Builder
			b.WriteString("Date      ")
			for _, e := range prayerglide.Events {
				fmt.Fprintf(&b, " %-*s", width, e.Label())
			}
			fmt.Fprintln(w, strings.TrimRight(b.String(), " "))

			for _, d := range days {
				b.Reset()
				b.WriteString(d.Date.Format("Mon Jan 02"))
				for _, e := range prayerglide.Events {
					fmt.Fprintf(&b, " %-*s", width, countdown.FormatClock(d.At(e), f))
				}
				fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&monthS, "month", "", "month in YYYY-MM (defaults to the current month)")
	return cmd
}
