package config

import "github.com/spf13/cobra"

// RegisterPersistentFlags declares the flags shared by every command.
func RegisterPersistentFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "enable debug logging")
	pf.Bool("json-log", false, "emit logs as JSON")
	pf.Int("workers", DefaultWorkers, "concurrent crawl workers (0 = number of CPUs minus one)")
	pf.Duration("site-timeout", DefaultSiteTimeout, "wall-clock budget per site")
	pf.Duration("dynamic-budget", DefaultDynamicBudget, "wall-clock budget for the browser phase of one site")
	pf.String("chrome-path", "", "path to the Chrome binary (default: autodetect)")
	pf.Bool("headless", DefaultHeadless, "run the browser headless")
	pf.String("proxy", "", "proxy server for browser and HTTP traffic")
	pf.String("user-agent", "", "fixed user agent (default: rotate a desktop pool)")
	pf.Bool("prefer-static", false, "try plain HTTP first unless a site is script-heavy")
	pf.String("debug-dir", DefaultDebugDir, "directory for failure snapshots (empty disables)")
}

// RegisterRunFlags declares the flags of the run command.
func RegisterRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("input", "i", DefaultInputPath, "CSV file listing the sites to crawl")
	f.StringP("output", "o", DefaultOutputPath, "JSON file receiving the crawl outcomes")
}
