package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/thurmanmarka/prayerglide"
)

func main() {
	if err := newCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	var (
		lat, lon, tz float64
		methodID     string
		asrS         string
		year         int
		refCSV       string
		outCSV       string
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:   "prayerglide-profiler",
		Short: "Compare computed prayer times with a published timetable",
		Long: `Reads a reference timetable CSV (date,fajr,sunrise,dhuhr,asr,maghrib,isha)
and reports the per-event error of the computed times in minutes.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.RFC3339}).
				With().Timestamp().Logger()

			if refCSV == "" {
				return fmt.Errorf("missing --refcsv (path to reference CSV)")
			}
			if lat == 0 && lon == 0 {
				logger.Warn().Msg("lat=0 lon=0 (Gulf of Guinea). Did you mean to set --lat/--lon?")
			}

			m, err := prayerglide.MethodByID(methodID)
			if err != nil {
				return err
			}
			asr, err := prayerglide.ParseAsrConvention(asrS)
			if err != nil {
				return err
			}
			loc := prayerglide.Location{Lat: lat, Lon: lon, TZOffset: tz}
			if err := loc.Validate(); err != nil {
				return err
			}

			f, err := os.Open(refCSV)
			if err != nil {
				return fmt.Errorf("failed to open refcsv %q: %w", refCSV, err)
			}
			defer f.Close()

			var outWriter *csv.Writer
			if outCSV != "" {
				outFile, err := os.Create(outCSV)
				if err != nil {
					return fmt.Errorf("failed to create outcsv %q: %w", outCSV, err)
				}
				defer outFile.Close()

				outWriter = csv.NewWriter(outFile)
				defer outWriter.Flush()
			}

			opts := profileOptions{
				loc:     loc,
				method:  m,
				asr:     asr,
				year:    year,
				verbose: verbose,
				logger:  logger,
			}
			sum, err := profile(f, cmd.OutOrStdout(), outWriter, opts)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), sum, opts)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&lat, "lat", 0, "latitude in degrees (north positive)")
	flags.Float64Var(&lon, "lon", 0, "longitude in degrees (east positive, west negative)")
	flags.Float64Var(&tz, "tz", 0, "UTC offset of the timetable in hours")
	flags.StringVar(&methodID, "method", prayerglide.DefaultMethodID, "calculation method id")
	flags.StringVar(&asrS, "asr", "standard", "afternoon convention: standard or hanafi")
	flags.IntVar(&year, "year", 0, "year of the timetable (optional, used for sanity checks)")
	flags.StringVar(&refCSV, "refcsv", "", "path to reference timetable CSV")
	flags.StringVar(&outCSV, "outcsv", "", "optional path to write per-event error CSV")
	flags.BoolVarP(&verbose, "verbose", "v", false, "print per-event errors instead of only the summary")

	return cmd
}
