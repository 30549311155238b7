package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thurmanmarka/prayerglide"
)

func newMethodsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List the calculation methods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			methods := r.Registry.Methods()

			w := cmd.OutOrStdout()
			if done, err := encode(w, opts.format, methods); done {
				return err
			}

			fmt.Fprintf(w, "%-8s %-24s %6s  %s\n", "ID", "NAME", "DAWN", "NIGHT")
			for _, m := range methods {
				night := fmt.Sprintf("%g°", m.NightAngle)
				if m.HasNightOverride() {
					night = fmt.Sprintf("sunset + %g min", m.NightMinutes)
				}
				marker := ""
				if m.ID == r.Method.ID {
					marker = " *"
				}
				fmt.Fprintf(w, "%-8s %-24s %5g°  %s%s\n", m.ID, m.Name, m.DawnAngle, night, marker)
				if offsets := formatOffsets(m); offsets != "" {
					fmt.Fprintf(w, "%-8s %s\n", "", offsets)
				}
			}
			return nil
		},
	}
}

func formatOffsets(m prayerglide.Method) string {
	var parts []string
	for _, e := range prayerglide.Events {
		if v := m.Offset(e); v != 0 {
			parts = append(parts, fmt.Sprintf("%s %+g", e.Label(), v))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "offsets (min): " + strings.Join(parts, ", ")
}
