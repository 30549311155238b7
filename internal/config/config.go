// Package config loads prayerglide settings from a YAML file, a .env file
// and PRAYERGLIDE_* environment variables, and turns them into engine
// inputs.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	cerrors "cloudeng.io/errors"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/thurmanmarka/prayerglide"
)

// EnvPrefix is prepended to every environment override, e.g.
// PRAYERGLIDE_LOCATION_LATITUDE.
const EnvPrefix = "PRAYERGLIDE"

type Settings struct {
	Location      LocationConfig `mapstructure:"location"`
	Method        string         `mapstructure:"method"`
	Asr           string         `mapstructure:"asr"`
	CustomMethods []MethodConfig `mapstructure:"custom_methods"`
	Server        ServerConfig   `mapstructure:"server"`
	MQTT          MQTTConfig     `mapstructure:"mqtt"`
}

type LocationConfig struct {
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
	TZOffset  float64 `mapstructure:"tz_offset"`
}

// MethodConfig is a user-defined calculation method. Offsets are keyed by
// event name or label ("dawn" or "fajr").
type MethodConfig struct {
	ID           string             `mapstructure:"id"`
	Name         string             `mapstructure:"name"`
	DawnAngle    float64            `mapstructure:"dawn_angle"`
	NightAngle   float64            `mapstructure:"night_angle"`
	NightMinutes float64            `mapstructure:"night_minutes"`
	Offsets      map[string]float64 `mapstructure:"offsets"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type MQTTConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Broker      string        `mapstructure:"broker"`
	ClientID    string        `mapstructure:"client_id"`
	Username    string        `mapstructure:"username"`
	Password    string        `mapstructure:"password"`
	TopicPrefix string        `mapstructure:"topic_prefix"`
	Interval    time.Duration `mapstructure:"interval"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("location.latitude", 25.2048)
	v.SetDefault("location.longitude", 55.414)
	v.SetDefault("location.tz_offset", 4)
	v.SetDefault("method", prayerglide.DefaultMethodID)
	v.SetDefault("asr", "standard")
	v.SetDefault("server.address", ":8044")
	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("mqtt.client_id", "prayerglide")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.topic_prefix", "prayerglide")
	v.SetDefault("mqtt.interval", "30s")
}

// Load reads settings. With an empty configPath, config.yaml is looked up
// in the working directory and /etc/prayerglide; a missing file is not an
// error. A .env file in the working directory, when present, is loaded
// into the environment first.
func Load(configPath string) (*Settings, error) {
	return load(viper.New(), configPath, ".env")
}

func load(v *viper.Viper, configPath, envFile string) (*Settings, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/prayerglide")
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &s, nil
}

// Resolved holds validated engine inputs.
type Resolved struct {
	Location prayerglide.Location
	Method   prayerglide.Method
	Asr      prayerglide.AsrConvention
	Registry *prayerglide.Registry
}

// Resolve validates the settings and looks up the method, first among the
// custom methods and then the built-in catalogue. An unknown method is
// treated as a stale preference: it is replaced by the default and logged.
// Every other problem is returned.
func (s *Settings) Resolve(logger zerolog.Logger) (Resolved, error) {
	var errs cerrors.M

	loc := prayerglide.Location{
		Lat:      s.Location.Latitude,
		Lon:      s.Location.Longitude,
		TZOffset: s.Location.TZOffset,
	}
	errs.Append(loc.Validate())

	asr, err := prayerglide.ParseAsrConvention(s.Asr)
	errs.Append(err)

	custom, err := s.customMethods()
	errs.Append(err)

	var reg *prayerglide.Registry
	if err == nil {
		reg, err = prayerglide.NewRegistry(custom...)
		errs.Append(err)
	}

	if err := errs.Err(); err != nil {
		return Resolved{}, err
	}

	m, _ := reg.LookupOrDefault(s.Method, logger)
	return Resolved{
		Location: loc,
		Method:   m,
		Asr:      asr,
		Registry: reg,
	}, nil
}

func (s *Settings) customMethods() ([]prayerglide.Method, error) {
	var errs cerrors.M
	out := make([]prayerglide.Method, 0, len(s.CustomMethods))
	for _, mc := range s.CustomMethods {
		m := prayerglide.Method{
			ID:           mc.ID,
			Name:         mc.Name,
			DawnAngle:    mc.DawnAngle,
			NightAngle:   mc.NightAngle,
			NightMinutes: mc.NightMinutes,
		}
		if len(mc.Offsets) > 0 {
			m.Offsets = make(map[prayerglide.Event]float64, len(mc.Offsets))
			for name, v := range mc.Offsets {
				e, err := prayerglide.ParseEvent(name)
				if err != nil {
					errs.Append(fmt.Errorf("custom method %q: %w", mc.ID, err))
					continue
				}
				m.Offsets[e] = v
			}
		}
		out = append(out, m)
	}
	return out, errs.Err()
}
