package main

import (
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/thurmanmarka/prayerglide"
	"github.com/thurmanmarka/prayerglide/internal/config"
	"github.com/thurmanmarka/prayerglide/internal/countdown"
)

var validFormats = []string{"text", "json", "yaml"}

// rootOptions holds the global flags shared by every subcommand.
type rootOptions struct {
	configFile string
	verbose    bool
	format     string
	lat        float64
	lon        float64
	tz         float64
	method     string
	asr        string
	clock12    bool

	logger zerolog.Logger
	now    func() time.Time
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{now: time.Now}

	cmd := &cobra.Command{
		Use:   "prayerglide",
		Short: "Daily prayer times from a solar model",
		Long: `prayerglide computes the six daily prayer times (Fajr, Sunrise, Dhuhr,
Asr, Maghrib, Isha) for a location, and serves them over HTTP and MQTT.

Settings come from config.yaml, a .env file and PRAYERGLIDE_* environment
variables; the location and method flags override them.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(validFormats, opts.format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.format, validFormats)
			}
			level := zerolog.InfoLevel
			if opts.verbose {
				level = zerolog.DebugLevel
			}
			opts.logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.RFC3339}).
				Level(level).
				With().Timestamp().Logger()
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configFile, "config", "c", "", "config file path")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&opts.format, "format", "text", "output format (text|json|yaml)")
	pf.Float64Var(&opts.lat, "lat", 0, "latitude in degrees (north positive)")
	pf.Float64Var(&opts.lon, "lon", 0, "longitude in degrees (east positive, west negative)")
	pf.Float64Var(&opts.tz, "tz", 0, "UTC offset in hours, may be fractional (e.g. 5.5)")
	pf.StringVar(&opts.method, "method", "", "calculation method id (see 'prayerglide methods')")
	pf.StringVar(&opts.asr, "asr", "", "afternoon convention: standard or hanafi")
	pf.BoolVar(&opts.clock12, "12h", false, "show times on a 12-hour clock")

	cmd.AddCommand(newTimesCommand(opts))
	cmd.AddCommand(newNextCommand(opts))
	cmd.AddCommand(newMonthCommand(opts))
	cmd.AddCommand(newMethodsCommand(opts))
	cmd.AddCommand(newServeCommand(opts))

	return cmd
}

// load reads the settings and applies the flags the user set explicitly.
func (o *rootOptions) load(cmd *cobra.Command) (*config.Settings, error) {
	s, err := config.Load(o.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("lat") {
		s.Location.Latitude = o.lat
	}
	if flags.Changed("lon") {
		s.Location.Longitude = o.lon
	}
	if flags.Changed("tz") {
		s.Location.TZOffset = o.tz
	}
	if flags.Changed("asr") {
		s.Asr = o.asr
	}
	return s, nil
}

// resolve turns settings and flags into engine inputs. A method named on
// the command line must exist; a stale configured one falls back.
func (o *rootOptions) resolve(cmd *cobra.Command) (config.Resolved, error) {
	s, err := o.load(cmd)
	if err != nil {
		return config.Resolved{}, err
	}
	return o.resolveSettings(cmd, s)
}

func (o *rootOptions) resolveSettings(cmd *cobra.Command, s *config.Settings) (config.Resolved, error) {
	r, err := s.Resolve(o.logger)
	if err != nil {
		return config.Resolved{}, err
	}

	if cmd.Flags().Changed("method") {
		m, err := r.Registry.Lookup(o.method)
		if err != nil {
			return config.Resolved{}, err
		}
		r.Method = m
	}

	o.logger.Debug().
		Float64("lat", r.Location.Lat).
		Float64("lon", r.Location.Lon).
		Float64("tz", r.Location.TZOffset).
		Str("method", r.Method.ID).
		Stringer("asr", r.Asr).
		Msg("resolved settings")
	return r, nil
}

func (o *rootOptions) clockFormat() countdown.ClockFormat {
	if o.clock12 {
		return countdown.Clock12
	}
	return countdown.Clock24
}

// parseDate parses YYYY-MM-DD in loc's zone, defaulting to today there.
func (o *rootOptions) parseDate(s string, loc prayerglide.Location) (time.Time, error) {
	if s == "" {
		return o.now().In(loc.Zone()), nil
	}
	d, err := time.ParseInLocation("2006-01-02", s, loc.Zone())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return d, nil
}
