package stationmap

import (
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/rmrobinson/bikeflow/services/traffic"
	"github.com/spf13/viper"
)

const envPrefix = "BKF"

// MapConfig describes the initial map viewport.
type MapConfig struct {
	CenterLon float64 `mapstructure:"center_lon" validate:"gte=-180,lte=180"`
	CenterLat float64 `mapstructure:"center_lat" validate:"gte=-85,lte=85"`
	Zoom      float64 `mapstructure:"zoom" validate:"gte=0,lte=24"`
	Width     int     `mapstructure:"width" validate:"gt=0"`
	Height    int     `mapstructure:"height" validate:"gt=0"`
}

// Config holds the settings of the station map service.
type Config struct {
	Port           int      `mapstructure:"port" validate:"gt=0,lte=65535"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	Production     bool     `mapstructure:"production"`

	StationsPath string `mapstructure:"stations_path" validate:"required"`
	TripsPath    string `mapstructure:"trips_path" validate:"required_without=TripsDB"`
	TripsDB      string `mapstructure:"trips_db"`
	Timezone     string `mapstructure:"timezone" validate:"required"`

	FollowClock      bool          `mapstructure:"follow_clock"`
	FixedDomain      bool          `mapstructure:"fixed_domain"`
	CacheSize        int           `mapstructure:"cache_size" validate:"gte=0"`
	FilterTransition time.Duration `mapstructure:"filter_transition" validate:"gte=0"`
	DepartureColor   string        `mapstructure:"departure_color" validate:"hexcolor"`
	ArrivalColor     string        `mapstructure:"arrival_color" validate:"hexcolor"`
	UnfilteredRadius traffic.Range `mapstructure:"unfiltered_radius"`
	FilteredRadius   traffic.Range `mapstructure:"filtered_radius"`

	Map MapConfig `mapstructure:"map"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8081)
	v.SetDefault("allowed_origins", []string{"*"})
	v.SetDefault("production", false)

	v.SetDefault("stations_path", "")
	v.SetDefault("trips_path", "")
	v.SetDefault("trips_db", "")
	v.SetDefault("timezone", "America/New_York")

	v.SetDefault("follow_clock", false)
	v.SetDefault("fixed_domain", false)
	v.SetDefault("cache_size", traffic.DefaultCacheSize)
	v.SetDefault("filter_transition", traffic.DefaultFilterTransition)
	v.SetDefault("departure_color", "#4682b4")
	v.SetDefault("arrival_color", "#ff8c00")
	v.SetDefault("unfiltered_radius.min", traffic.UnfilteredRadiusRange.Min)
	v.SetDefault("unfiltered_radius.max", traffic.UnfilteredRadiusRange.Max)
	v.SetDefault("filtered_radius.min", traffic.FilteredRadiusRange.Min)
	v.SetDefault("filtered_radius.max", traffic.FilteredRadiusRange.Max)

	// Cambridge / Boston
	v.SetDefault("map.center_lon", -71.09415)
	v.SetDefault("map.center_lat", 42.36027)
	v.SetDefault("map.zoom", 12)
	v.SetDefault("map.width", 1280)
	v.SetDefault("map.height", 800)
}

// LoadConfig reads the configuration from defaults, the optional config file and the environment.
// Variables in the supplied env files are loaded into the environment first; missing env files are ignored.
// Environment variables use the BKF_ prefix, e.g. BKF_TRIPS_PATH or BKF_MAP_ZOOM.
func LoadConfig(configFile string, envFiles ...string) (*Config, error) {
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "loading %s", envFile)
		}
	}

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading %s", configFile)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range v.AllKeys() {
		if err := v.BindEnv(key); err != nil {
			return nil, errors.Wrapf(err, "binding %s", key)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshalling config")
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "validating config")
	}
	return cfg, nil
}

// Location returns the timezone trips are interpreted in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "loading timezone %s", c.Timezone)
	}
	return loc, nil
}

// Viewport returns the initial map viewport.
func (c *Config) Viewport() traffic.Viewport {
	return traffic.Viewport{
		Center: orb.Point{c.Map.CenterLon, c.Map.CenterLat},
		Zoom:   c.Map.Zoom,
		Width:  c.Map.Width,
		Height: c.Map.Height,
	}
}

// Options returns the orchestrator options described by the config.
func (c *Config) Options() (traffic.Options, error) {
	palette, err := traffic.NewPalette(c.DepartureColor, c.ArrivalColor)
	if err != nil {
		return traffic.Options{}, err
	}

	return traffic.Options{
		UnfilteredRadius: c.UnfilteredRadius,
		FilteredRadius:   c.FilteredRadius,
		FixedDomain:      c.FixedDomain,
		FilterTransition: c.FilterTransition,
		Palette:          palette,
		CacheSize:        c.CacheSize,
	}, nil
}
