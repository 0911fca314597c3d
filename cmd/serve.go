package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	config "work-tracker.com/work-tracker/internal/configs"
	httpapi "work-tracker.com/work-tracker/internal/http"
	"work-tracker.com/work-tracker/internal/notify"
	repository "work-tracker.com/work-tracker/internal/repositories"
	"work-tracker.com/work-tracker/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the work-tracker HTTP API and the notification worker pool",
	RunE: func(cmd *cobra.Command, args []string) error {
		loadEnv()

		cfg := config.Load()
		database := config.New(cfg.DatabaseDSN)
		repo := repository.NewWorkItemRepository(database)

		guard, closeGuard := newIntentGuard(cfg)
		defer closeGuard()

		pool := notify.NewPool(guard, cfg.NotifyWorkers, cfg.NotifyQueueSize, cfg.NotifySendTimeout, newSinks(cfg, repo)...)

		handler := httpapi.NewHandler(
			services.NewTaskService(repo, pool),
			services.NewStatusService(repo, pool, time.Now),
			services.NewMetricsService(repo, time.Now, cfg.Location),
			services.NewDirectoryService(repo),
		)

		e := echo.New()
		e.HideBanner = true
		httpapi.Register(e, handler, cfg.RateLimit)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		go func() {
			log.Printf("HTTP server listening on %s", cfg.AppURL)
			if err := e.Start(cfg.AppURL); err != nil {
				log.Printf("server stopped: %v", err)
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()

		_ = e.Shutdown(shutdownCtx)
		pool.Shutdown(shutdownCtx)

		log.Println("HTTP server and notification pool shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
