package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/internal/app"
	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/internal/config"
	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/internal/urlutil"
)

var probeCmd = &cobra.Command{
	Use:   "probe <url>",
	Short: "Show which crawl strategy would be chosen for a URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runProbe,
}

func runProbe(cmd *cobra.Command, args []string) error {
	url := args[0]
	if err := urlutil.Validate(url); err != nil {
		return err
	}
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}
	application := app.New(cfg)
	defer application.Close()

	decision := application.Detector.Select(cmd.Context(), url)
	fmt.Fprintf(cmd.OutOrStdout(), "strategy: %s\nheavy_js: %v\n", decision.Strategy, decision.HeavyJS)
	return nil
}
