package config

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
)

func testCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test", Run: func(*cobra.Command, []string) {}}
	RegisterPersistentFlags(cmd)
	RegisterRunFlags(cmd)
	return cmd
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(testCommand())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SiteTimeout != 150*time.Second {
		t.Errorf("SiteTimeout = %s, want 150s", cfg.SiteTimeout)
	}
	if cfg.DynamicBudget != 120*time.Second {
		t.Errorf("DynamicBudget = %s, want 120s", cfg.DynamicBudget)
	}
	if !cfg.PreferDynamic {
		t.Error("PreferDynamic should default to true")
	}
	if !cfg.Headless {
		t.Error("Headless should default to true")
	}
}

func TestLoadFlagOverrides(t *testing.T) {
	cmd := testCommand()
	if err := cmd.ParseFlags([]string{"--workers", "4", "--site-timeout", "30s", "--prefer-static", "--verbose"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(cmd)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
	if cfg.SiteTimeout != 30*time.Second {
		t.Errorf("SiteTimeout = %s, want 30s", cfg.SiteTimeout)
	}
	if cfg.PreferDynamic {
		t.Error("prefer-static flag did not flip PreferDynamic")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("VEILLE_CHROME_PATH", "/opt/chrome")
	cfg, err := Load(testCommand())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ChromePath != "/opt/chrome" {
		t.Errorf("ChromePath = %q, want /opt/chrome", cfg.ChromePath)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.Workers = -1
	if err := cfg.Validate(); err == nil {
		t.Error("negative workers passed validation")
	}

	cfg = Default()
	cfg.NavRetries = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero navigation retries passed validation")
	}

	cfg = Default()
	cfg.RateLimitRPS = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero rate limit passed validation")
	}
}
