package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/thurmanmarka/prayerglide"
	"github.com/thurmanmarka/prayerglide/internal/countdown"
)

type nextOutput struct {
	Now       time.Time              `json:"now" yaml:"now"`
	HasNext   bool                   `json:"has_next" yaml:"has_next"`
	Next      *prayerglide.NextEvent `json:"next,omitempty" yaml:"next,omitempty"`
	Countdown string                 `json:"countdown" yaml:"countdown"`
	Method    string                 `json:"method" yaml:"method"`
}

func newNextCommand(opts *rootOptions) *cobra.Command {
	var atS string

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Print the next event and the time left until it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.resolve(cmd)
			if err != nil {
				return err
			}

			now := opts.now()
			if atS != "" {
				now, err = time.Parse(time.RFC3339, atS)
				if err != nil {
					return fmt.Errorf("invalid --at %q (want RFC3339): %w", atS, err)
				}
			}

			s, err := prayerglide.Upcoming(now, r.Location, r.Method, r.Asr)
			if err != nil {
				return fmt.Errorf("error computing schedule: %w", err)
			}
			label, remaining := countdown.Banner(now, s.Next, s.HasNext)

			w := cmd.OutOrStdout()
			out := nextOutput{Now: s.Now, HasNext: s.HasNext, Countdown: remaining, Method: r.Method.ID}
			if s.HasNext {
				next := s.Next
				out.Next = &next
			}
			if done, err := encode(w, opts.format, out); done {
				return err
			}

			fmt.Fprintln(w, label)
			if s.HasNext {
				fmt.Fprintf(w, "At:   %s %s\n", s.Next.Time.Format("2006-01-02"), countdown.FormatClock(s.Next.Time, opts.clockFormat()))
			}
			fmt.Fprintf(w, "In:   %s\n\n", remaining)

			statuses := countdown.Statuses(now, s.Today, s.Next, s.HasNext)
			for i, e := range prayerglide.Events {
				fmt.Fprintf(w, "  %-8s %-8s %s\n", e.Label(), countdown.FormatClock(s.Today.At(e), opts.clockFormat()), statuses[i])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&atS, "at", "", "instant in RFC3339 (defaults to now)")
	return cmd
}
