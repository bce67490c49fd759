package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/internal/app"
	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/internal/config"
	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/internal/output"
	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/internal/sites"
	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/pkg/models"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Crawl every site in the input list and write the results",
	RunE:  runBatch,
}

func init() {
	config.RegisterRunFlags(runCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}
	siteList, err := sites.Load(cfg.InputPath)
	if err != nil {
		return err
	}

	application := app.New(cfg)
	defer application.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bar := progressbar.NewOptions(len(siteList),
		progressbar.OptionSetDescription("crawling"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	runner := application.Runner()
	runner.OnResult(func(models.Outcome) {
		_ = bar.Add(1)
	})

	outcomes := runner.Run(ctx, siteList)
	_ = bar.Finish()

	if err := output.WriteJSON(outcomes, cfg.OutputPath); err != nil {
		return err
	}

	succeeded := 0
	for _, o := range outcomes {
		if o.Success {
			succeeded++
		}
	}
	log.Info().Int("succeeded", succeeded).Int("failed", len(outcomes)-succeeded).Msg("batch finished")
	fmt.Fprintf(cmd.OutOrStdout(), "%d/%d sites crawled, results in %s\n", succeeded, len(outcomes), cfg.OutputPath)
	if ctx.Err() != nil {
		return fmt.Errorf("batch interrupted")
	}
	return nil
}
