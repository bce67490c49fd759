// Package config assembles runtime settings from defaults, environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

// Config holds every runtime setting of the crawler.
type Config struct {
	LogLevel string
	JSONLog  bool

	InputPath  string
	OutputPath string
	DebugDir   string

	Workers     int
	SiteTimeout time.Duration

	HTTPTimeout   time.Duration
	ProbeTimeout  time.Duration
	DynamicBudget time.Duration
	PageLoad      time.Duration
	HeavyPageLoad time.Duration

	NavRetries  int
	NavBackoff  time.Duration
	ScrollPause time.Duration
	MaxScrolls  int

	RateLimitRPS   float64
	RateLimitBurst int

	ChromePath    string
	Headless      bool
	Proxy         string
	UserAgent     string
	PreferDynamic bool
}

// Default returns a config populated with package defaults and
// environment overrides.
func Default() *Config {
	cfg := &Config{
		LogLevel:       DefaultLogLevel,
		InputPath:      DefaultInputPath,
		OutputPath:     DefaultOutputPath,
		DebugDir:       DefaultDebugDir,
		Workers:        DefaultWorkers,
		SiteTimeout:    DefaultSiteTimeout,
		HTTPTimeout:    DefaultHTTPTimeout,
		ProbeTimeout:   DefaultProbeTimeout,
		DynamicBudget:  DefaultDynamicBudget,
		PageLoad:       DefaultPageLoad,
		HeavyPageLoad:  DefaultHeavyPageLoad,
		NavRetries:     DefaultNavRetries,
		NavBackoff:     DefaultNavBackoff,
		ScrollPause:    DefaultScrollPause,
		MaxScrolls:     DefaultMaxScrolls,
		RateLimitRPS:   DefaultRateLimitRPS,
		RateLimitBurst: DefaultRateLimitBurst,
		Headless:       DefaultHeadless,
		PreferDynamic:  DefaultPreferDynamic,
	}
	if v := os.Getenv("VEILLE_CHROME_PATH"); v != "" {
		cfg.ChromePath = v
	}
	if v := os.Getenv("VEILLE_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("VEILLE_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	return cfg
}

// Load builds the config for a command invocation, layering flag values
// over defaults and environment.
func Load(cmd *cobra.Command) (*Config, error) {
	cfg := Default()

	flags := cmd.Flags()
	if verbose, _ := flags.GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}
	if flags.Changed("json-log") {
		cfg.JSONLog, _ = flags.GetBool("json-log")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("site-timeout") {
		cfg.SiteTimeout, _ = flags.GetDuration("site-timeout")
	}
	if flags.Changed("dynamic-budget") {
		cfg.DynamicBudget, _ = flags.GetDuration("dynamic-budget")
	}
	if flags.Changed("chrome-path") {
		cfg.ChromePath, _ = flags.GetString("chrome-path")
	}
	if flags.Changed("proxy") {
		cfg.Proxy, _ = flags.GetString("proxy")
	}
	if flags.Changed("user-agent") {
		cfg.UserAgent, _ = flags.GetString("user-agent")
	}
	if flags.Changed("headless") {
		cfg.Headless, _ = flags.GetBool("headless")
	}
	if flags.Changed("debug-dir") {
		cfg.DebugDir, _ = flags.GetString("debug-dir")
	}
	if preferStatic, _ := flags.GetBool("prefer-static"); preferStatic {
		cfg.PreferDynamic = false
	}
	if flags.Changed("input") {
		cfg.InputPath, _ = flags.GetString("input")
	}
	if flags.Changed("output") {
		cfg.OutputPath, _ = flags.GetString("output")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
