package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	marionette "github.com/algomation/marionette"
	"github.com/algomation/marionette/internal/demo"
	"github.com/algomation/marionette/pkg/adapters/httpapi"
	"github.com/algomation/marionette/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the replay HTTP server",
	Long:  `Exposes recorded runs over a JSON API: listing, raw frames and scene reconstruction at any frame.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := setup(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		store := newStore(cfg)
		metrics := observability.NewCollector(prometheus.DefaultRegisterer)

		// With no redis configured the store is empty and process-local, so
		// seed it with the demo run to give the API something to serve.
		if cfg.Redis.Addr == "" {
			engine := marionette.New(
				marionette.WithLogger(logger),
				marionette.WithFrameStore(store),
				marionette.WithHooks(metrics.Hooks()),
			)
			if err := engine.Record(cmd.Context(), "bubblesort", demo.BubbleSort([]int{5, 3, 8, 1, 4})); err != nil {
				fmt.Printf("Error seeding demo run: %v\n", err)
				os.Exit(1)
			}
		}

		handler := httpapi.NewHandler(store,
			httpapi.WithLogger(logger),
			httpapi.WithHooks(metrics.Hooks()),
		)

		srv := &http.Server{
			Addr:    cfg.Server.Listen,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Marionette server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Marionette server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
