package config

import "time"

// Defaults for every tunable. Flag and environment values override them.
const (
	DefaultLogLevel = "info"

	DefaultWorkers = 0 // 0 means CPU-based

	DefaultSiteTimeout   = 150 * time.Second
	DefaultDynamicBudget = 120 * time.Second

	DefaultHTTPTimeout   = 10 * time.Second
	DefaultProbeTimeout  = 8 * time.Second
	DefaultPageLoad      = 60 * time.Second
	DefaultHeavyPageLoad = 90 * time.Second

	DefaultNavRetries = 3
	DefaultNavBackoff = 4 * time.Second

	DefaultScrollPause = 2 * time.Second
	DefaultMaxScrolls  = 6

	DefaultRateLimitRPS   = 5.0
	DefaultRateLimitBurst = 10

	DefaultHeadless      = true
	DefaultPreferDynamic = true

	DefaultInputPath  = "sites.csv"
	DefaultOutputPath = "resultats.json"
	DefaultDebugDir   = "debug"
)
