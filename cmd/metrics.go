package cmd

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	config "work-tracker.com/work-tracker/internal/configs"
	repository "work-tracker.com/work-tracker/internal/repositories"
	"work-tracker.com/work-tracker/internal/services"
)

var metricsUserID string

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Print workload metrics as JSON",
	Long:  "Computes metrics for one user (--user) or the whole team straight from the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		loadEnv()

		cfg := config.Load()
		repo := repository.NewWorkItemRepository(config.New(cfg.DatabaseDSN))
		svc := services.NewMetricsService(repo, time.Now, cfg.Location)

		var (
			out any
			err error
		)
		if metricsUserID != "" {
			out, err = svc.GetUserMetrics(cmd.Context(), metricsUserID)
		} else {
			out, err = svc.GetTeamMetrics(cmd.Context())
		}
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	metricsCmd.Flags().StringVar(&metricsUserID, "user", "", "only report this user id")
	rootCmd.AddCommand(metricsCmd)
}
