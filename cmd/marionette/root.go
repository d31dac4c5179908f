package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/algomation/marionette/internal/logging"
	"github.com/algomation/marionette/pkg/adapters/memory"
	"github.com/algomation/marionette/pkg/adapters/redis"
	"github.com/algomation/marionette/pkg/ports"
)

var rootCmd = &cobra.Command{
	Use:   "marionette",
	Short: "Marionette is a scene-graph animation engine for algorithm visualization",
	Long:  `Marionette records algorithm runs as scene-graph command logs and replays them frame by frame.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

func setup(cmd *cobra.Command) (Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := LoadConfig(path)
	if err != nil {
		return Config{}, nil, err
	}

	level := cfg.Log.SlogLevel()
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	var logger *slog.Logger
	if cfg.Log.Format == "json" {
		logger = logging.NewJSON(os.Stderr, level)
	} else {
		logger = logging.New(level)
	}
	return cfg, logger, nil
}

// newStore picks the frame store from config: redis when an address is
// configured, in-process memory otherwise.
func newStore(cfg Config) ports.FrameStore {
	if cfg.Redis.Addr == "" {
		return memory.NewStore()
	}
	opts := []redis.Option{}
	if cfg.Redis.TTL > 0 {
		opts = append(opts, redis.WithTTL(cfg.Redis.TTL))
	}
	return redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
}
